package models

import "time"

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageRussian Language = "ru"
	LanguageGerman  Language = "de"
)

var Languages = []Language{LanguageEnglish, LanguageRussian, LanguageGerman}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

type WordAction int

const (
	Explained WordAction = iota
	Skipped
)

func (a WordAction) String() string {
	switch a {
	case Explained:
		return "explained"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// ParseLanguage accepts a language code in any case.
func ParseLanguage(s string) (Language, bool) {
	for _, l := range Languages {
		if string(l) == normalize(s) {
			return l, true
		}
	}
	return "", false
}

func ParseDifficulty(s string) (Difficulty, bool) {
	for _, d := range Difficulties {
		if string(d) == normalize(s) {
			return d, true
		}
	}
	return "", false
}

type CatalogKey struct {
	Language   Language   `json:"language"`
	Difficulty Difficulty `json:"difficulty"`
}

type Team struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type GameRecord struct {
	ID         int          `json:"id" db:"id"`
	ChatID     int64        `json:"chat_id" db:"chat_id"`
	Winner     string       `json:"winner" db:"winner"`
	Language   Language     `json:"language" db:"language"`
	Difficulty Difficulty   `json:"difficulty" db:"difficulty"`
	Rounds     int          `json:"rounds" db:"rounds"`
	WinTarget  int          `json:"win_target" db:"win_target"`
	FinishedAt time.Time    `json:"finished_at" db:"finished_at"`
	Teams      []TeamResult `json:"teams"`
}

type TeamResult struct {
	GameID int    `json:"game_id" db:"game_id"`
	Name   string `json:"name" db:"team_name"`
	Score  int    `json:"score" db:"score"`
	Winner bool   `json:"winner" db:"is_winner"`
}

// TeamStats aggregates the archived games of one team name within a chat.
type TeamStats struct {
	Name  string `json:"name" db:"team_name"`
	Games int    `json:"games" db:"games"`
	Wins  int    `json:"wins" db:"wins"`
	Words int    `json:"words" db:"words"`
}

func ParseWordAction(s string) (WordAction, bool) {
	switch normalize(s) {
	case "explained":
		return Explained, true
	case "skipped":
		return Skipped, true
	default:
		return 0, false
	}
}
