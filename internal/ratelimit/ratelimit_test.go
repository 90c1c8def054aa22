package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestLimiter(window time.Duration, max int) (*Limiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	l := New(window, max)
	l.now = clock.Now
	return l, clock
}

func TestLimiter_Allow(t *testing.T) {
	l, clock := newTestLimiter(time.Minute, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("U1"), "call %d should be allowed", i+1)
		clock.Advance(10 * time.Second)
	}

	assert.False(t, l.Allow("U1"), "4th call inside the window should be denied")

	// other identities are independent
	assert.True(t, l.Allow("U2"))
}

func TestLimiter_DeniedCallsAreNotRecorded(t *testing.T) {
	l, clock := newTestLimiter(time.Minute, 1)

	require.True(t, l.Allow("U1"))
	for i := 0; i < 5; i++ {
		clock.Advance(5 * time.Second)
		require.False(t, l.Allow("U1"))
	}

	// only the first hit counts, so it expires one window after it was made
	clock.Advance(35 * time.Second)
	assert.True(t, l.Allow("U1"))
}

func TestLimiter_AllowsAgainAfterOldestExpires(t *testing.T) {
	l, clock := newTestLimiter(time.Minute, 2)

	require.True(t, l.Allow("U1"))
	clock.Advance(10 * time.Second)
	require.True(t, l.Allow("U1"))
	clock.Advance(10 * time.Second)
	require.False(t, l.Allow("U1"))

	// oldest hit is now exactly one window old
	clock.Advance(40 * time.Second)
	assert.True(t, l.Allow("U1"))
	assert.False(t, l.Allow("U1"))
}

func TestLimiter_Sweep(t *testing.T) {
	l, clock := newTestLimiter(time.Minute, 5)

	l.Allow("U1")
	clock.Advance(30 * time.Second)
	l.Allow("U2")
	require.Equal(t, 2, l.Len())

	clock.Advance(45 * time.Second)
	l.Sweep()

	assert.Equal(t, 1, l.Len())
	_, tracked := l.hits["U2"]
	assert.True(t, tracked)

	clock.Advance(time.Minute)
	l.Sweep()
	assert.Zero(t, l.Len())
}

func TestLimiter_StartCleanup(t *testing.T) {
	l := New(time.Millisecond, 5)
	l.Allow("U1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l.StartCleanup(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return l.Len() == 0 }, time.Second, 5*time.Millisecond)
}
