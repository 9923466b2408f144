package game

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"alias/internal/models"
)

const (
	MinTeams = 2
	MaxTeams = 4

	DefaultRoundDuration = 60 * time.Second
	DefaultWinTarget     = 15

	maxTeamNameLength = 32
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseConfiguring
	PhaseInRound
	PhaseBetweenRounds
	PhaseFinished
	PhaseCanceled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseConfiguring:
		return "configuring"
	case PhaseInRound:
		return "in_round"
	case PhaseBetweenRounds:
		return "between_rounds"
	case PhaseFinished:
		return "finished"
	case PhaseCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Step is the configuration step a session waits input for.
type Step int

const (
	StepLanguage Step = iota
	StepDifficulty
	StepTeamCount
	StepTeamNames
	StepRoundDuration
	StepWinTarget
	StepReady
)

func (s Step) String() string {
	switch s {
	case StepLanguage:
		return "language"
	case StepDifficulty:
		return "difficulty"
	case StepTeamCount:
		return "team_count"
	case StepTeamNames:
		return "team_names"
	case StepRoundDuration:
		return "round_duration"
	case StepWinTarget:
		return "win_target"
	case StepReady:
		return "ready"
	default:
		return "unknown"
	}
}

type Settings struct {
	Language      models.Language
	Difficulty    models.Difficulty
	RoundDuration time.Duration
	WinTarget     int
}

func DefaultSettings() Settings {
	return Settings{
		RoundDuration: DefaultRoundDuration,
		WinTarget:     DefaultWinTarget,
	}
}

// Session holds the whole game state of one chat. Every field is guarded by mu.
type Session struct {
	mu sync.Mutex

	chatID   int64
	settings Settings
	phase    Phase
	step     Step

	teamCount int
	teams     []models.Team
	current   int
	totals    map[string]int
	rounds    int

	catalog   map[string]string
	words     []Word
	cursor    int
	explained int
	skipped   int
	startedAt time.Time
	roundID   uint64
	lastRound uint64
	timer     *TimerHandle
}

func newSession(chatID int64, settings Settings) *Session {
	if settings.RoundDuration <= 0 {
		settings.RoundDuration = DefaultRoundDuration
	}
	if settings.WinTarget <= 0 {
		settings.WinTarget = DefaultWinTarget
	}
	return &Session{
		chatID:   chatID,
		settings: settings,
		phase:    PhaseIdle,
		totals:   make(map[string]int),
	}
}

// Snapshot is a copy of the session state safe to read without the lock.
type Snapshot struct {
	ChatID    int64
	Settings  Settings
	Phase     Phase
	Step      Step
	Teams     []models.Team
	Current   int
	Totals    map[string]int
	Rounds    int
	Words     int
	Cursor    int
	Explained int
	Skipped   int
	StartedAt time.Time
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	totals := make(map[string]int, len(s.totals))
	for k, v := range s.totals {
		totals[k] = v
	}
	return Snapshot{
		ChatID:    s.chatID,
		Settings:  s.settings,
		Phase:     s.phase,
		Step:      s.step,
		Teams:     s.scoreboard(),
		Current:   s.current,
		Totals:    totals,
		Rounds:    s.rounds,
		Words:     len(s.words),
		Cursor:    s.cursor,
		Explained: s.explained,
		Skipped:   s.skipped,
		StartedAt: s.startedAt,
	}
}

func (s *Session) inGame() bool {
	return s.phase == PhaseInRound || s.phase == PhaseBetweenRounds
}

func (s *Session) scoreboard() []models.Team {
	teams := make([]models.Team, len(s.teams))
	copy(teams, s.teams)
	return teams
}

func (s *Session) currentTeam() models.Team {
	if len(s.teams) == 0 {
		return models.Team{}
	}
	return s.teams[s.current]
}

func (s *Session) beginConfiguration() {
	s.phase = PhaseConfiguring
	s.step = StepLanguage
}

// apply feeds configuration input to the given step. On error the session is
// left untouched and the same step should be prompted again.
func (s *Session) apply(step Step, input string) error {
	if s.phase != PhaseConfiguring || s.step != step {
		return ErrWrongStep
	}

	switch step {
	case StepLanguage:
		lang, ok := models.ParseLanguage(input)
		if !ok {
			return fmt.Errorf("%w: unknown language %q", ErrInvalidInput, input)
		}
		s.settings.Language = lang
		s.step = StepDifficulty

	case StepDifficulty:
		d, ok := models.ParseDifficulty(input)
		if !ok {
			return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidInput, input)
		}
		s.settings.Difficulty = d
		s.step = StepTeamCount

	case StepTeamCount:
		n, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil || n < MinTeams || n > MaxTeams {
			return fmt.Errorf("%w: team count must be between %d and %d", ErrInvalidInput, MinTeams, MaxTeams)
		}
		s.teamCount = n
		s.teams = make([]models.Team, 0, n)
		s.step = StepTeamNames

	case StepTeamNames:
		name := strings.TrimSpace(input)
		if name == "" {
			return fmt.Errorf("%w: team name is empty", ErrInvalidInput)
		}
		if len([]rune(name)) > maxTeamNameLength {
			return fmt.Errorf("%w: team name is longer than %d characters", ErrInvalidInput, maxTeamNameLength)
		}
		for _, t := range s.teams {
			if strings.EqualFold(t.Name, name) {
				return fmt.Errorf("%w: team %q already exists", ErrInvalidInput, name)
			}
		}
		s.teams = append(s.teams, models.Team{Name: name})
		s.totals[name] = 0
		if len(s.teams) == s.teamCount {
			s.step = StepRoundDuration
		}

	case StepRoundDuration:
		sec, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil || sec <= 0 {
			return fmt.Errorf("%w: round duration must be a positive number of seconds", ErrInvalidInput)
		}
		s.settings.RoundDuration = time.Duration(sec) * time.Second
		s.step = StepWinTarget

	case StepWinTarget:
		n, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: words to win must be a positive number", ErrInvalidInput)
		}
		s.settings.WinTarget = n
		s.step = StepReady
		s.current = 0
		s.phase = PhaseBetweenRounds

	default:
		return ErrWrongStep
	}
	return nil
}

func (s *Session) beginRound(words []Word, now time.Time, id uint64) {
	s.words = words
	s.cursor = 0
	s.explained = 0
	s.skipped = 0
	s.startedAt = now
	s.roundID = id
	s.lastRound = id
	s.phase = PhaseInRound
}

func (s *Session) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) word() (Word, bool) {
	if s.cursor >= len(s.words) {
		return Word{}, false
	}
	return s.words[s.cursor], true
}

func (s *Session) record(action models.WordAction) {
	switch action {
	case models.Explained:
		s.explained++
	case models.Skipped:
		s.skipped++
	}
	s.cursor++
}

func (s *Session) remaining(now time.Time) time.Duration {
	return s.settings.RoundDuration - now.Sub(s.startedAt)
}

// finishRound scores the current team and either picks a winner or rotates.
// It returns the points scored and the index of the winning team, -1 if none.
func (s *Session) finishRound() (int, int) {
	score := s.explained
	team := &s.teams[s.current]
	team.Score += score
	s.totals[team.Name] += score
	s.rounds++

	s.words = nil
	s.cursor = 0
	s.roundID = 0
	s.stopTimer()

	for i, t := range s.teams {
		if t.Score >= s.settings.WinTarget {
			s.phase = PhaseFinished
			return score, i
		}
	}

	s.current = (s.current + 1) % len(s.teams)
	s.phase = PhaseBetweenRounds
	return score, -1
}

func (s *Session) gameRecord(winner int, now time.Time) models.GameRecord {
	teams := make([]models.TeamResult, len(s.teams))
	for i, t := range s.teams {
		teams[i] = models.TeamResult{Name: t.Name, Score: s.totals[t.Name], Winner: i == winner}
	}
	return models.GameRecord{
		ChatID:     s.chatID,
		Winner:     s.teams[winner].Name,
		Language:   s.settings.Language,
		Difficulty: s.settings.Difficulty,
		Rounds:     s.rounds,
		WinTarget:  s.settings.WinTarget,
		FinishedAt: now,
		Teams:      teams,
	}
}
