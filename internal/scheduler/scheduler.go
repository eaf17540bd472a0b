// Package scheduler provides the rebuild cadence for configuration edits:
// a throttled "live" path fired during continuous input and a debounced
// "settle" path that fires once input quiesces and is authoritative. The
// pending settle work is a single slot holding the configuration snapshot
// and generation taken at scheduling time, so a late settle can never stomp
// a newer edit.
package scheduler

import (
	"time"

	"github.com/Meloken/mas2/internal/config"
)

// Default cadence intervals.
const (
	// DefaultLiveInterval rate-limits live-path rebuilds during continuous
	// input (e.g. a slider drag).
	DefaultLiveInterval = 100 * time.Millisecond
	// DefaultSettleDelay is how long input must quiesce before the settle
	// rebuild fires.
	DefaultSettleDelay = 50 * time.Millisecond
)

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock.
type SystemClock struct{}

// Now returns the wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// Job is one scheduled rebuild. Committed marks settle-path jobs, which are
// the ones observers should treat as authoritative. Generation increases
// with every push; consumers drop jobs older than the newest cycle they
// have started.
type Job struct {
	Config     config.Configuration
	Generation uint64
	Committed  bool
}

// pending is the single-slot settle cell.
type pending struct {
	job      Job
	deadline time.Time
}

// Debouncer funnels every edit into at most one immediate live job plus one
// pending settle job. Single-goroutine use only, driven from the frame loop.
type Debouncer struct {
	clock        Clock
	liveInterval time.Duration
	settleDelay  time.Duration

	gen      uint64
	lastLive time.Time
	slot     *pending
}

// New returns a debouncer with the given cadence. A nil clock uses the
// system clock; non-positive intervals use the defaults.
func New(clock Clock, liveInterval, settleDelay time.Duration) *Debouncer {
	if clock == nil {
		clock = SystemClock{}
	}
	if liveInterval <= 0 {
		liveInterval = DefaultLiveInterval
	}
	if settleDelay <= 0 {
		settleDelay = DefaultSettleDelay
	}
	return &Debouncer{clock: clock, liveInterval: liveInterval, settleDelay: settleDelay}
}

// Push records an edit. It always (re)arms the settle slot with a snapshot
// of cfg, and additionally returns an immediate live job when the live
// interval has elapsed since the last one; otherwise it returns nil and the
// edit is reflected only in the settle slot.
func (d *Debouncer) Push(cfg config.Configuration) *Job {
	now := d.clock.Now()
	d.gen++
	d.slot = &pending{
		job:      Job{Config: cfg, Generation: d.gen, Committed: true},
		deadline: now.Add(d.settleDelay),
	}
	if d.lastLive.IsZero() || now.Sub(d.lastLive) >= d.liveInterval {
		d.lastLive = now
		return &Job{Config: cfg, Generation: d.gen}
	}
	return nil
}

// Tick fires the pending settle job when its deadline has passed, clearing
// the slot. Returns nil when nothing is due. Call once per frame.
func (d *Debouncer) Tick() *Job {
	if d.slot == nil {
		return nil
	}
	if d.clock.Now().Before(d.slot.deadline) {
		return nil
	}
	job := d.slot.job
	d.slot = nil
	return &job
}

// Pending reports whether a settle job is still waiting.
func (d *Debouncer) Pending() bool {
	return d.slot != nil
}

// Generation returns the newest generation handed out so far.
func (d *Debouncer) Generation() uint64 {
	return d.gen
}
