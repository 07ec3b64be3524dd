package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestBreaker(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := New("rewards", WithFailureThreshold(2), WithCooldown(time.Minute), WithClock(clock.now))

	assert.True(t, b.Allow())
	assert.Equal(t, StateChange{}, b.RecordFailure())
	assert.Equal(t, StateChange{Opened: true}, b.RecordFailure())
	assert.Equal(t, StateOpen, b.State())
	assert.False(t, b.Allow(), "open circuit rejects during cooldown")

	clock.advance(time.Minute)
	assert.True(t, b.Allow(), "first caller after cooldown probes")
	assert.Equal(t, StateHalfOpen, b.State())
	assert.False(t, b.Allow(), "only one probe is admitted")

	assert.Equal(t, StateChange{Opened: true}, b.RecordFailure(), "failed probe re-opens")
	assert.False(t, b.Allow())

	clock.advance(time.Minute)
	assert.True(t, b.Allow())
	assert.Equal(t, StateChange{Closed: true}, b.RecordSuccess())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "closed", b.State().String())
}

func TestSuccessResetsFailureCount(t *testing.T) {
	b := New("archive", WithFailureThreshold(3))
	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	assert.Equal(t, StateClosed, b.State())

	b.RecordFailure()
	b.RecordFailure()
	assert.Equal(t, StateOpen, b.State())

	b.Reset()
	assert.True(t, b.Allow())
	assert.Equal(t, "archive", b.Name())
}
