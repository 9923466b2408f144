package game

import "sync"

// Registry maps a chat to its session. Safe for concurrent use; sessions of
// different chats never share a lock beyond the map access.
type Registry struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	defaults Settings
}

func NewRegistry(defaults Settings) *Registry {
	return &Registry{
		sessions: make(map[int64]*Session),
		defaults: defaults,
	}
}

// CreateOrReset installs a fresh session for chatID, retiring any previous one.
func (r *Registry) CreateOrReset(chatID int64, settings Settings) *Session {
	s := newSession(chatID, settings)

	r.mu.Lock()
	old := r.sessions[chatID]
	r.sessions[chatID] = s
	r.mu.Unlock()

	if old != nil {
		old.retire()
	}
	return s
}

func (r *Registry) Get(chatID int64) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[chatID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Clear resets chatID to a default session. Calling it repeatedly is harmless.
func (r *Registry) Clear(chatID int64) {
	r.CreateOrReset(chatID, r.defaults)
}

// clearIfCurrent resets the chat only if s is still its session, so a game
// started in the meantime survives.
func (r *Registry) clearIfCurrent(s *Session) {
	r.mu.Lock()
	if r.sessions[s.chatID] != s {
		r.mu.Unlock()
		return
	}
	fresh := newSession(s.chatID, r.defaults)
	r.sessions[s.chatID] = fresh
	r.mu.Unlock()

	s.retire()
}

func (r *Registry) Defaults() Settings {
	return r.defaults
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// retire stops whatever the session was doing so late timer callbacks find it stale.
func (s *Session) retire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseIdle && s.phase != PhaseFinished {
		s.phase = PhaseCanceled
	}
	s.roundID = 0
	s.stopTimer()
}
