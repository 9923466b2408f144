package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"alias/internal/models"
)

const saveTimeout = 10 * time.Second

// Engine runs the game of every chat. Events of one chat are serialized by the
// session lock; chats never block each other.
type Engine struct {
	registry *Registry
	words    WordSource
	sampler  *Sampler
	timer    *RoundTimer
	clock    Clock
	recorder Recorder
	logger   Logger

	notifierMu sync.RWMutex
	notifier   Notifier

	rounds atomic.Uint64
}

func NewEngine(registry *Registry, words WordSource, sampler *Sampler, timer *RoundTimer, clock Clock, recorder Recorder, logger Logger) *Engine {
	return &Engine{
		registry: registry,
		words:    words,
		sampler:  sampler,
		timer:    timer,
		clock:    clock,
		recorder: recorder,
		logger:   logger,
	}
}

// SetNotifier attaches the delivery layer that renders countdowns and
// timer-driven round ends.
func (e *Engine) SetNotifier(n Notifier) {
	e.notifierMu.Lock()
	defer e.notifierMu.Unlock()
	e.notifier = n
}

func (e *Engine) getNotifier() Notifier {
	e.notifierMu.RLock()
	defer e.notifierMu.RUnlock()
	return e.notifier
}

func (e *Engine) Registry() *Registry {
	return e.registry
}

// BeginConfiguration starts a new game in the chat, dropping any previous one.
func (e *Engine) BeginConfiguration(chatID int64) Reply {
	prev := e.lastRound(chatID)
	s := e.registry.CreateOrReset(chatID, e.registry.Defaults())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.beginConfiguration()
	e.logger.Info("chat %d: new game configuration", chatID)
	r := s.prompt()
	r.Round = prev
	return r
}

func (e *Engine) lastRound(chatID int64) uint64 {
	s, err := e.registry.Get(chatID)
	if err != nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRound
}

func (e *Engine) SetLanguage(chatID int64, lang string) (Reply, error) {
	return e.configure(chatID, StepLanguage, lang)
}

func (e *Engine) SetDifficulty(chatID int64, difficulty string) (Reply, error) {
	return e.configure(chatID, StepDifficulty, difficulty)
}

func (e *Engine) SetTeamCount(chatID int64, count string) (Reply, error) {
	return e.configure(chatID, StepTeamCount, count)
}

func (e *Engine) NameNextTeam(chatID int64, name string) (Reply, error) {
	return e.configure(chatID, StepTeamNames, name)
}

func (e *Engine) SetRoundDuration(chatID int64, seconds string) (Reply, error) {
	return e.configure(chatID, StepRoundDuration, seconds)
}

func (e *Engine) SetWinTarget(chatID int64, target string) (Reply, error) {
	return e.configure(chatID, StepWinTarget, target)
}

// HandleText routes free text to whatever configuration step the chat is on.
// Text outside of configuration returns ErrWrongStep and an empty reply.
func (e *Engine) HandleText(chatID int64, text string) (Reply, error) {
	s, err := e.registry.Get(chatID)
	if err != nil {
		return Reply{}, err
	}

	s.mu.Lock()
	phase, step := s.phase, s.step
	s.mu.Unlock()

	if phase != PhaseConfiguring {
		return Reply{}, ErrWrongStep
	}
	return e.configure(chatID, step, text)
}

func (e *Engine) configure(chatID int64, step Step, input string) (Reply, error) {
	s, err := e.registry.Get(chatID)
	if err != nil {
		return notice("There is no game in this chat. Use /start to begin."), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.apply(step, input); err != nil {
		if errors.Is(err, ErrWrongStep) {
			switch {
			case s.phase == PhaseConfiguring:
				return s.prompt(), err
			case s.inGame():
				return notice("The game is already configured."), err
			default:
				return notice("There is no game in this chat. Use /start to begin."), err
			}
		}
		r := s.prompt()
		r.Text = fmt.Sprintf("%s\n%s", reason(err), r.Text)
		return r, err
	}

	if s.step != StepReady {
		return s.prompt(), nil
	}

	s.catalog = e.words.Load(s.settings.Language, s.settings.Difficulty)
	e.logger.Info("chat %d: game configured, %d teams, %d words in catalog %s/%s",
		chatID, len(s.teams), len(s.catalog), s.settings.Language, s.settings.Difficulty)

	r := s.readyPrompt()
	r.Text = "Setup complete!\n\n" + r.Text
	if len(s.catalog) == 0 {
		r.Text += "\n\nWarning: no words are available for this language and difficulty."
	}
	return r, nil
}

// StartRound samples fresh words for the current team and starts the countdown.
func (e *Engine) StartRound(chatID int64) (Reply, error) {
	s, err := e.registry.Get(chatID)
	if err != nil {
		return notice("There is no game in this chat. Use /start to begin."), ErrNotInGame
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return e.startRoundLocked(s)
}

// RequestNextRound is the explicit trigger after a round has been scored.
func (e *Engine) RequestNextRound(chatID int64) (Reply, error) {
	s, err := e.registry.Get(chatID)
	if err != nil {
		return notice("There is no game in this chat. Use /start to begin."), ErrNotInGame
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseInRound {
		return notice("A round is already running."), ErrRoundActive
	}
	if s.phase != PhaseBetweenRounds {
		return notice("No game in progress. Use /start to begin."), ErrNotInGame
	}
	return e.startRoundLocked(s)
}

func (e *Engine) startRoundLocked(s *Session) (Reply, error) {
	switch {
	case s.phase == PhaseInRound:
		return notice("A round is already running."), ErrRoundActive
	case !s.inGame():
		return notice("No game in progress. Use /start to begin."), ErrNotInGame
	case len(s.catalog) == 0:
		return notice(fmt.Sprintf("No words available for %s/%s. Use /cancel and pick another set.",
			s.settings.Language, s.settings.Difficulty)), ErrNoWords
	}

	words := e.sampler.Sample(s.catalog)
	now := e.clock.Now()
	id := e.rounds.Add(1)
	s.beginRound(words, now, id)

	chatID := s.chatID
	s.timer = e.timer.Start(chatID, now.Add(s.settings.RoundDuration),
		func(remaining time.Duration) error { return e.tick(s, id, remaining) },
		func() { e.expire(s, id) },
	)

	e.logger.Debug("chat %d: round %d started for team %s with %d words", chatID, id, s.currentTeam().Name, len(words))
	return s.wordReply(now), nil
}

// RecordWordAction scores the shown word and returns the next one, or the
// round result when time is up or the sampled words ran out.
func (e *Engine) RecordWordAction(chatID int64, action models.WordAction) (Reply, error) {
	s, err := e.registry.Get(chatID)
	if err != nil {
		return notice("No active round."), ErrNoActiveRound
	}

	s.mu.Lock()
	if s.phase != PhaseInRound || s.cursor >= len(s.words) {
		s.mu.Unlock()
		return notice("No active round."), ErrNoActiveRound
	}

	s.record(action)
	now := e.clock.Now()
	if s.remaining(now) > 0 && s.cursor < len(s.words) {
		defer s.mu.Unlock()
		return s.wordReply(now), nil
	}

	res := e.endRoundLocked(s)
	s.mu.Unlock()
	e.settle(s, res)
	return res.reply, nil
}

// EndRound ends the running round right away, scoring what was explained.
func (e *Engine) EndRound(chatID int64) (Reply, error) {
	s, err := e.registry.Get(chatID)
	if err != nil {
		return notice("No active round."), ErrNoActiveRound
	}

	s.mu.Lock()
	if s.phase != PhaseInRound {
		s.mu.Unlock()
		return notice("No active round."), ErrNoActiveRound
	}
	res := e.endRoundLocked(s)
	s.mu.Unlock()

	e.settle(s, res)
	return res.reply, nil
}

// CancelGame drops the chat's game from any state. Always safe to call.
func (e *Engine) CancelGame(chatID int64) Reply {
	active := false
	var round uint64
	if s, err := e.registry.Get(chatID); err == nil {
		s.mu.Lock()
		active = s.phase != PhaseIdle && s.phase != PhaseFinished && s.phase != PhaseCanceled
		round = s.lastRound
		s.mu.Unlock()
	}

	e.registry.Clear(chatID)

	r := notice("There is no game to cancel.")
	if active {
		e.logger.Info("chat %d: game canceled", chatID)
		r = notice("The game has been canceled. Use /start to play again.")
	}
	r.Round = round
	return r
}

// Status reports the scoreboard and what the chat is waiting for.
func (e *Engine) Status(chatID int64) Reply {
	s, err := e.registry.Get(chatID)
	if err != nil {
		return notice("There is no game in this chat. Use /start to begin.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseConfiguring:
		return s.prompt()
	case PhaseInRound:
		r := s.reply(fmt.Sprintf("Team %s is playing: %d explained, %d skipped. %s\n\n%s",
			s.currentTeam().Name, s.explained, s.skipped, FormatRemaining(s.remaining(e.clock.Now())),
			FormatScoreboard(s.teams)), KbNone)
		return r
	case PhaseBetweenRounds:
		r := s.reply(fmt.Sprintf("Score (target %d):\n%sNext up: team %s.",
			s.settings.WinTarget, FormatScoreboard(s.teams), s.currentTeam().Name), KbNextRound)
		return r
	default:
		return notice("There is no game in this chat. Use /start to begin.")
	}
}

func (e *Engine) tick(s *Session, id uint64, remaining time.Duration) error {
	s.mu.Lock()
	current := s.phase == PhaseInRound && s.roundID == id
	chatID := s.chatID
	s.mu.Unlock()

	n := e.getNotifier()
	if !current || n == nil {
		return nil
	}
	// the session stays unlocked while the delivery talks to the network;
	// a round ended meanwhile is caught again by expire
	if err := n.RoundTick(chatID, remaining); err != nil {
		e.logger.Warn("chat %d: countdown update failed, ending round: %s", chatID, err.Error())
		return err
	}
	return nil
}

// expire is the timer path of ending a round. It loses silently against a
// round that was already ended by a player action.
func (e *Engine) expire(s *Session, id uint64) {
	s.mu.Lock()
	if s.phase != PhaseInRound || s.roundID != id {
		s.mu.Unlock()
		return
	}
	res := e.endRoundLocked(s)
	s.mu.Unlock()

	e.settle(s, res)
	if n := e.getNotifier(); n != nil {
		n.RoundOver(s.chatID, res.reply)
	}
}

type roundResult struct {
	reply    Reply
	finished bool
	record   models.GameRecord
}

// endRoundLocked must be called with s.mu held and s.phase == PhaseInRound.
func (e *Engine) endRoundLocked(s *Session) roundResult {
	played := s.current
	score, winner := s.finishRound()
	e.logger.Debug("chat %d: team %s scored %d", s.chatID, s.teams[played].Name, score)

	if winner < 0 {
		return roundResult{reply: s.roundOverReply(s.teams[played], score)}
	}

	e.logger.Info("chat %d: team %s won after %d rounds", s.chatID, s.teams[winner].Name, s.rounds)
	return roundResult{
		reply:    s.finishedReply(s.teams[winner], score),
		finished: true,
		record:   s.gameRecord(winner, e.clock.Now()),
	}
}

// settle runs the side effects of a finished game outside the session lock.
func (e *Engine) settle(s *Session, res roundResult) {
	if !res.finished {
		return
	}
	e.registry.clearIfCurrent(s)

	if e.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := e.recorder.SaveGame(ctx, res.record); err != nil {
		e.logger.Error("chat %d: failed to save game result: %s", s.chatID, err.Error())
	}
}

// reason turns a wrapped ErrInvalidInput into a user-facing sentence.
func reason(err error) string {
	msg := strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": ")
	if msg == "" {
		return msg
	}
	r := []rune(msg)
	r[0] = unicode.ToUpper(r[0])
	return string(r) + "."
}
