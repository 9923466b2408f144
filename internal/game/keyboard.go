package game

import (
	"fmt"
	"strings"

	"alias/internal/models"
)

// Button is a delivery-neutral button; Data comes back through Engine.Press.
type Button struct {
	Label string
	Data  string
}

const (
	buttonLanguage   = "lang"
	buttonDifficulty = "diff"
	buttonTeams      = "teams"
	buttonWord       = "word"
	buttonRound      = "round"

	roundStart = "start"
	roundNext  = "next"
	roundStop  = "stop"
)

var languageLabels = map[models.Language]string{
	models.LanguageEnglish: "🇬🇧 English",
	models.LanguageRussian: "🇷🇺 Русский",
	models.LanguageGerman:  "🇩🇪 Deutsch",
}

var difficultyLabels = map[models.Difficulty]string{
	models.DifficultyEasy:   "🟢 Easy",
	models.DifficultyMedium: "🟡 Medium",
	models.DifficultyHard:   "🔴 Hard",
}

func data(kind, value string) string {
	return kind + ":" + value
}

// Buttons lays out the keyboard as rows of buttons. KbNone has no rows.
func (k Keyboard) Buttons() [][]Button {
	switch k {
	case KbLanguage:
		row := make([]Button, 0, len(models.Languages))
		for _, l := range models.Languages {
			row = append(row, Button{Label: languageLabels[l], Data: data(buttonLanguage, string(l))})
		}
		return [][]Button{row}
	case KbDifficulty:
		row := make([]Button, 0, len(models.Difficulties))
		for _, d := range models.Difficulties {
			row = append(row, Button{Label: difficultyLabels[d], Data: data(buttonDifficulty, string(d))})
		}
		return [][]Button{row}
	case KbTeamCount:
		row := make([]Button, 0, MaxTeams-MinTeams+1)
		for n := MinTeams; n <= MaxTeams; n++ {
			row = append(row, Button{Label: fmt.Sprint(n), Data: data(buttonTeams, fmt.Sprint(n))})
		}
		return [][]Button{row}
	case KbWord:
		return [][]Button{
			{
				{Label: "✅ Explained", Data: data(buttonWord, models.Explained.String())},
				{Label: "❌ Skip", Data: data(buttonWord, models.Skipped.String())},
			},
			{{Label: "⏹ End round", Data: data(buttonRound, roundStop)}},
		}
	case KbStartRound:
		return [][]Button{{{Label: "▶️ Start round", Data: data(buttonRound, roundStart)}}}
	case KbNextRound:
		return [][]Button{{{Label: "▶️ Next round", Data: data(buttonRound, roundNext)}}}
	default:
		return nil
	}
}

// Press handles a button pressed in chatID.
func (e *Engine) Press(chatID int64, pressed string) (Reply, error) {
	kind, value, ok := strings.Cut(pressed, ":")
	if !ok {
		return Reply{}, fmt.Errorf("%w: unknown button %q", ErrInvalidInput, pressed)
	}

	switch kind {
	case buttonLanguage:
		return e.SetLanguage(chatID, value)
	case buttonDifficulty:
		return e.SetDifficulty(chatID, value)
	case buttonTeams:
		return e.SetTeamCount(chatID, value)
	case buttonWord:
		action, ok := models.ParseWordAction(value)
		if !ok {
			break
		}
		return e.RecordWordAction(chatID, action)
	case buttonRound:
		switch value {
		case roundStart:
			return e.StartRound(chatID)
		case roundNext:
			return e.RequestNextRound(chatID)
		case roundStop:
			return e.EndRound(chatID)
		}
	}
	return Reply{}, fmt.Errorf("%w: unknown button %q", ErrInvalidInput, pressed)
}
