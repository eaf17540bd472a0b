package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Meloken/mas2/internal/config"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newFake() (*fakeClock, *Debouncer) {
	c := &fakeClock{now: time.Unix(1000, 0)}
	return c, New(c, DefaultLiveInterval, DefaultSettleDelay)
}

func cfgWithWidth(w float32) config.Configuration {
	c := config.Default()
	c.WidthCm = w
	return c
}

func TestFirstPushFiresLiveImmediately(t *testing.T) {
	_, d := newFake()
	job := d.Push(cfgWithWidth(100))
	require.NotNil(t, job)
	assert.False(t, job.Committed)
	assert.Equal(t, float32(100), job.Config.WidthCm)
	assert.True(t, d.Pending(), "every push arms the settle slot")
}

func TestRapidPushesCoalesce(t *testing.T) {
	clock, d := newFake()

	// Three edits inside one live interval: one live job for the first, then
	// one settle job carrying the last value.
	first := d.Push(cfgWithWidth(100))
	require.NotNil(t, first)

	clock.advance(20 * time.Millisecond)
	assert.Nil(t, d.Push(cfgWithWidth(110)), "within the live interval")
	clock.advance(20 * time.Millisecond)
	assert.Nil(t, d.Push(cfgWithWidth(120)))

	assert.Nil(t, d.Tick(), "settle delay not yet elapsed")
	clock.advance(DefaultSettleDelay)
	settle := d.Tick()
	require.NotNil(t, settle)
	assert.True(t, settle.Committed)
	assert.Equal(t, float32(120), settle.Config.WidthCm, "settle carries the newest edit")
	assert.False(t, d.Pending())
	assert.Nil(t, d.Tick(), "slot fires once")
}

func TestLiveThrottleReleasesAfterInterval(t *testing.T) {
	clock, d := newFake()
	require.NotNil(t, d.Push(cfgWithWidth(100)))
	clock.advance(DefaultLiveInterval)
	job := d.Push(cfgWithWidth(130))
	require.NotNil(t, job, "live path reopens once the interval elapses")
	assert.Equal(t, float32(130), job.Config.WidthCm)
}

func TestEveryPushReArmsSettle(t *testing.T) {
	clock, d := newFake()
	d.Push(cfgWithWidth(100))
	clock.advance(40 * time.Millisecond)
	d.Push(cfgWithWidth(140))

	// The first settle deadline has passed, but the second push re-armed the
	// slot, so nothing fires until the new deadline.
	clock.advance(20 * time.Millisecond)
	assert.Nil(t, d.Tick())
	clock.advance(DefaultSettleDelay)
	settle := d.Tick()
	require.NotNil(t, settle)
	assert.Equal(t, float32(140), settle.Config.WidthCm)
}

func TestGenerationsIncrease(t *testing.T) {
	clock, d := newFake()
	a := d.Push(cfgWithWidth(100))
	clock.advance(DefaultLiveInterval)
	b := d.Push(cfgWithWidth(110))
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Greater(t, b.Generation, a.Generation)
	assert.Equal(t, b.Generation, d.Generation())

	clock.advance(DefaultSettleDelay)
	settle := d.Tick()
	require.NotNil(t, settle)
	assert.Equal(t, b.Generation, settle.Generation, "settle shares the generation of its push")
}

func TestDefaultsApplied(t *testing.T) {
	d := New(nil, 0, 0)
	assert.Equal(t, DefaultLiveInterval, d.liveInterval)
	assert.Equal(t, DefaultSettleDelay, d.settleDelay)
	assert.NotNil(t, d.clock)
}
