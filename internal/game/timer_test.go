package game

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTimer_TicksThenExpires(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	rt := NewRoundTimer(clock, time.Second)

	ticks := make(chan time.Duration, 8)
	expired := make(chan struct{}, 2)
	h := rt.Start(1, clock.Now().Add(3*time.Second),
		func(d time.Duration) error { ticks <- d; return nil },
		func() { expired <- struct{}{} },
	)
	assert.True(t, rt.Active(1))
	assert.Equal(t, clock.Now().Add(3*time.Second), h.Deadline())

	require.True(t, clock.advanceAndTick(t, time.Second))
	assert.Equal(t, 2*time.Second, <-ticks)
	require.True(t, clock.advanceAndTick(t, time.Second))
	assert.Equal(t, time.Second, <-ticks)
	require.True(t, clock.advanceAndTick(t, time.Second))

	select {
	case <-expired:
	case <-time.After(time.Second):
		t.Fatal("timer did not expire")
	}
	assert.True(t, h.Stopped())
	assert.False(t, rt.Active(1))
	require.Eventually(t, clock.lastTicker(t).Stopped, time.Second, 5*time.Millisecond)
	assert.Len(t, expired, 0)
}

func TestRoundTimer_TickErrorExpires(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	rt := NewRoundTimer(clock, time.Second)

	var expired atomic.Int32
	h := rt.Start(1, clock.Now().Add(time.Minute),
		func(time.Duration) error { return errors.New("edit failed") },
		func() { expired.Add(1) },
	)

	require.True(t, clock.advanceAndTick(t, time.Second))
	require.Eventually(t, func() bool { return expired.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, h.Stopped())
}

func TestRoundTimer_StopPreventsExpiry(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	rt := NewRoundTimer(clock, time.Second)

	var expired atomic.Int32
	h := rt.Start(1, clock.Now().Add(time.Second),
		func(time.Duration) error { return nil },
		func() { expired.Add(1) },
	)
	h.Stop()
	h.Stop()

	ticker := clock.lastTicker(t)
	require.Eventually(t, ticker.Stopped, time.Second, 5*time.Millisecond)
	assert.False(t, ticker.Fire(clock.Advance(2*time.Second)))
	assert.Zero(t, expired.Load())
	assert.False(t, rt.Active(1))
}

func TestRoundTimer_StartReplacesPreviousCountdown(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	rt := NewRoundTimer(clock, time.Second)

	first := rt.Start(1, clock.Now().Add(time.Minute), func(time.Duration) error { return nil }, func() {})
	second := rt.Start(1, clock.Now().Add(time.Minute), func(time.Duration) error { return nil }, func() {})

	assert.True(t, first.Stopped())
	assert.False(t, second.Stopped())
	assert.True(t, rt.Active(1))

	second.Stop()
	assert.False(t, rt.Active(1))
}

func TestFormatRemaining(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "⏳ 60 s left", FormatRemaining(60*time.Second))
	assert.Equal(t, "⏳ 1 s left", FormatRemaining(200*time.Millisecond))
	assert.Equal(t, "⏳ 0 s left", FormatRemaining(-time.Second))
}
