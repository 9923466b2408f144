package game

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"alias/internal/models"

	"github.com/stretchr/testify/mock"
)

// --- Logger ---

type nopLogger struct{}

func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}

// --- WordSource ---

type mapWords map[models.CatalogKey]map[string]string

func (m mapWords) Load(lang models.Language, difficulty models.Difficulty) map[string]string {
	words, ok := m[models.CatalogKey{Language: lang, Difficulty: difficulty}]
	if !ok {
		return map[string]string{}
	}
	return words
}

func makeCatalog(n int) map[string]string {
	c := make(map[string]string, n)
	for i := 0; i < n; i++ {
		c[fmt.Sprintf("word%03d", i)] = fmt.Sprintf("translation %d", i)
	}
	return c
}

// --- Recorder ---

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) SaveGame(ctx context.Context, record models.GameRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// --- Notifier ---

type recordingNotifier struct {
	mu       sync.Mutex
	ticks    []time.Duration
	over     []Reply
	tickErr  error
	overChan chan Reply

	// hold, when set, keeps RoundTick busy until it is closed
	hold    chan struct{}
	holding chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{overChan: make(chan Reply, 16)}
}

func (n *recordingNotifier) RoundTick(chatID int64, remaining time.Duration) error {
	n.mu.Lock()
	n.ticks = append(n.ticks, remaining)
	err, hold := n.tickErr, n.hold
	n.mu.Unlock()

	if hold != nil {
		n.holding <- struct{}{}
		<-hold
	}
	return err
}

func (n *recordingNotifier) RoundOver(chatID int64, reply Reply) {
	n.mu.Lock()
	n.over = append(n.over, reply)
	n.mu.Unlock()
	n.overChan <- reply
}

func (n *recordingNotifier) Ticks() []time.Duration {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]time.Duration, len(n.ticks))
	copy(out, n.ticks)
	return out
}

func (n *recordingNotifier) waitRoundOver(t *testing.T) Reply {
	t.Helper()
	select {
	case r := <-n.overChan:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("round over was never notified")
		return Reply{}
	}
}

// --- Clock ---

type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time)}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

func (c *fakeClock) lastTicker(t *testing.T) *fakeTicker {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.tickers) == 0 {
		t.Fatal("no ticker was created")
	}
	return c.tickers[len(c.tickers)-1]
}

// advanceAndTick moves the clock forward and delivers one tick to the newest ticker.
func (c *fakeClock) advanceAndTick(t *testing.T, d time.Duration) bool {
	t.Helper()
	now := c.Advance(d)
	return c.lastTicker(t).Fire(now)
}

type fakeTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time {
	return t.ch
}

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *fakeTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Fire reports whether a running timer loop received the tick.
func (t *fakeTicker) Fire(now time.Time) bool {
	select {
	case t.ch <- now:
		return true
	case <-time.After(200 * time.Millisecond):
		return false
	}
}
