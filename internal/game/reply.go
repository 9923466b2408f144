package game

import (
	"fmt"
	"strings"
	"time"

	"alias/internal/models"
)

// Keyboard tells the delivery layer which buttons to attach to a reply.
type Keyboard string

const (
	KbNone       Keyboard = "empty"
	KbLanguage   Keyboard = "language"
	KbDifficulty Keyboard = "difficulty"
	KbTeamCount  Keyboard = "team_count"
	KbWord       Keyboard = "word"
	KbStartRound Keyboard = "start_round"
	KbNextRound  Keyboard = "next_round"
)

// Reply is everything the delivery layer needs to render the next prompt.
type Reply struct {
	Text       string
	Keyboard   Keyboard
	Phase      Phase
	Step       Step
	ConfigDone bool

	// Round is the latest round of the session, kept after it ends.
	Round      uint64
	Team       string
	Word       *Word
	Remaining  time.Duration
	RoundScore int

	Scoreboard []models.Team
	Winner     string
}

func notice(text string) Reply {
	return Reply{Text: text, Keyboard: KbNone}
}

func (s *Session) reply(text string, kb Keyboard) Reply {
	return Reply{
		Text:       text,
		Keyboard:   kb,
		Phase:      s.phase,
		Step:       s.step,
		ConfigDone: s.phase != PhaseConfiguring && s.phase != PhaseIdle,
		Round:      s.lastRound,
		Team:       s.currentTeam().Name,
		Scoreboard: s.scoreboard(),
	}
}

// prompt renders the question for the current configuration step.
func (s *Session) prompt() Reply {
	switch s.step {
	case StepLanguage:
		return s.reply("Choose the language of the words:", KbLanguage)
	case StepDifficulty:
		return s.reply("Choose the difficulty:", KbDifficulty)
	case StepTeamCount:
		return s.reply(fmt.Sprintf("How many teams will play? (%d-%d)", MinTeams, MaxTeams), KbTeamCount)
	case StepTeamNames:
		return s.reply(fmt.Sprintf("Enter the name of team #%d:", len(s.teams)+1), KbNone)
	case StepRoundDuration:
		return s.reply("Enter the round duration in seconds:", KbNone)
	case StepWinTarget:
		return s.reply("How many words does a team need to win?", KbNone)
	default:
		return s.readyPrompt()
	}
}

func (s *Session) readyPrompt() Reply {
	text := fmt.Sprintf("Team %s, get ready! Round time: %ds. Press start when ready.",
		s.currentTeam().Name, int(s.settings.RoundDuration.Seconds()))
	return s.reply(text, KbStartRound)
}

func (s *Session) wordReply(now time.Time) Reply {
	w, _ := s.word()
	r := s.reply(formatWord(w), KbWord)
	r.Word = &w
	r.Remaining = s.remaining(now)
	return r
}

func formatWord(w Word) string {
	if w.Translation == "" {
		return fmt.Sprintf("Word: %s", w.Text)
	}
	return fmt.Sprintf("Word: %s\n(%s)", w.Text, w.Translation)
}

func (s *Session) roundOverReply(team models.Team, score int) Reply {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Round over! Team %s explained %d words (skipped %d).\n\n", team.Name, score, s.skipped))
	sb.WriteString(FormatScoreboard(s.teams))
	sb.WriteString(fmt.Sprintf("\nNext up: team %s. Press \"Next round\" when ready.", s.currentTeam().Name))

	r := s.reply(sb.String(), KbNextRound)
	r.RoundScore = score
	return r
}

func (s *Session) finishedReply(winner models.Team, score int) Reply {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Team %s wins with %d words!\n\nFinal score:\n", winner.Name, winner.Score))
	sb.WriteString(FormatScoreboard(s.teams))
	sb.WriteString("\nStart a new game with /start.")

	r := s.reply(sb.String(), KbNone)
	r.RoundScore = score
	r.Winner = winner.Name
	return r
}

func FormatScoreboard(teams []models.Team) string {
	var sb strings.Builder
	for i, t := range teams {
		sb.WriteString(fmt.Sprintf("%d. %s: %d\n", i+1, t.Name, t.Score))
	}
	return sb.String()
}

// FormatRemaining renders a countdown rounded up to whole seconds.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	sec := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("⏳ %d s left", sec)
}
