package game

import (
	"sync"
	"time"
)

const DefaultTickInterval = time.Second

// TimerHandle is one running countdown. Stop is idempotent and never blocks.
type TimerHandle struct {
	chatID   int64
	deadline time.Time
	done     chan struct{}
	once     sync.Once
}

func (h *TimerHandle) Stop() {
	h.once.Do(func() { close(h.done) })
}

func (h *TimerHandle) Stopped() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

func (h *TimerHandle) Deadline() time.Time {
	return h.deadline
}

// RoundTimer runs at most one countdown per chat.
type RoundTimer struct {
	mu       sync.Mutex
	clock    Clock
	interval time.Duration
	active   map[int64]*TimerHandle
}

func NewRoundTimer(clock Clock, interval time.Duration) *RoundTimer {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &RoundTimer{
		clock:    clock,
		interval: interval,
		active:   make(map[int64]*TimerHandle),
	}
}

// Start begins a countdown to deadline, replacing any countdown of the chat.
// onTick receives the remaining time on every tick; an onTick error stops the
// countdown and falls through to onExpire. onExpire runs at most once.
func (t *RoundTimer) Start(chatID int64, deadline time.Time, onTick func(time.Duration) error, onExpire func()) *TimerHandle {
	h := &TimerHandle{
		chatID:   chatID,
		deadline: deadline,
		done:     make(chan struct{}),
	}
	ticker := t.clock.NewTicker(t.interval)

	t.mu.Lock()
	if prev, ok := t.active[chatID]; ok {
		prev.Stop()
	}
	t.active[chatID] = h
	t.mu.Unlock()

	go t.run(h, ticker, onTick, onExpire)
	return h
}

func (t *RoundTimer) run(h *TimerHandle, ticker Ticker, onTick func(time.Duration) error, onExpire func()) {
	defer ticker.Stop()
	defer t.release(h)

	for {
		select {
		case <-h.done:
			return
		case now := <-ticker.C():
			if h.Stopped() {
				return
			}
			remaining := h.deadline.Sub(now)
			if remaining <= 0 {
				h.Stop()
				onExpire()
				return
			}
			if err := onTick(remaining); err != nil {
				h.Stop()
				onExpire()
				return
			}
		}
	}
}

func (t *RoundTimer) release(h *TimerHandle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active[h.chatID] == h {
		delete(t.active, h.chatID)
	}
}

func (t *RoundTimer) Active(chatID int64) bool {
	t.mu.Lock()
	h, ok := t.active[chatID]
	t.mu.Unlock()
	return ok && !h.Stopped()
}
