package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Meloken/mas2/internal/config"
	"github.com/Meloken/mas2/internal/material"
	"github.com/Meloken/mas2/internal/scheduler"
)

// fakeScene records attach/detach traffic so tests can assert single-assembly
// and disposal-before-build ordering.
type fakeScene struct {
	attached map[*Group]bool
	log      []string // "attach table", "detach dimensions", ...
}

func newFakeScene() *fakeScene {
	return &fakeScene{attached: map[*Group]bool{}}
}

func (s *fakeScene) Attach(g *Group) {
	s.attached[g] = true
	s.log = append(s.log, "attach "+g.Name)
}

func (s *fakeScene) Detach(g *Group) {
	delete(s.attached, g)
	s.log = append(s.log, "detach "+g.Name)
}

func (s *fakeScene) attachedCount(name string) int {
	n := 0
	for g := range s.attached {
		if g.Name == name {
			n++
		}
	}
	return n
}

type recordingObserver struct {
	committed []config.Configuration
}

func (o *recordingObserver) ConfigurationCommitted(cfg config.Configuration) {
	o.committed = append(o.committed, cfg)
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestCoordinator(t *testing.T, opts ...Option) (*Coordinator, *fakeScene, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Unix(1000, 0)}
	scene := newFakeScene()
	catalog := material.NewCatalog(nil)
	loader := material.NewLoader(t.TempDir(), nil)
	all := append([]Option{WithClock(clock), WithCadence(scheduler.DefaultLiveInterval, scheduler.DefaultSettleDelay)}, opts...)
	return New(scene, catalog, loader, nil, all...), scene, clock
}

func TestStartBuildsAndNotifies(t *testing.T) {
	coord, scene, _ := newTestCoordinator(t)
	obs := &recordingObserver{}
	coord.Subscribe(obs)

	require.NoError(t, coord.Start(config.Default()))

	assert.True(t, coord.Ready())
	assert.Equal(t, StateIdle, coord.State())
	require.NotNil(t, coord.Assembly())
	require.NotNil(t, coord.Overlay())
	assert.Equal(t, 1, scene.attachedCount("table"))
	assert.Equal(t, 1, scene.attachedCount("dimensions"))
	require.Len(t, obs.committed, 1, "startup cycle is committed")
	assert.Equal(t, config.Default(), obs.committed[0])
}

func TestStartRejectsInvalidConfiguration(t *testing.T) {
	coord, scene, _ := newTestCoordinator(t)
	bad := config.Default()
	bad.WidthCm = 10

	err := coord.Start(bad)
	require.Error(t, err)
	assert.Equal(t, err, coord.LastError())
	assert.False(t, coord.Ready())
	assert.Nil(t, coord.Assembly())
	assert.Empty(t, scene.log, "a rejected configuration never touches the scene")
}

func TestInvalidEditLeavesSceneUntouched(t *testing.T) {
	coord, scene, _ := newTestCoordinator(t)
	require.NoError(t, coord.Start(config.Default()))
	before := coord.Assembly()
	logLen := len(scene.log)

	bad := config.Default()
	bad.ThicknessCm = 9

	err := coord.Edit(bad)
	require.Error(t, err)
	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, err, coord.LastError())
	assert.Same(t, before, coord.Assembly(), "live assembly survives a rejected edit")
	assert.Equal(t, config.Default(), coord.Current())
	assert.Equal(t, logLen, len(scene.log))
	assert.True(t, coord.Ready())
}

func TestEditRebuildsAndDisposesPrevious(t *testing.T) {
	coord, scene, _ := newTestCoordinator(t)
	require.NoError(t, coord.Start(config.Default()))
	oldAsm := coord.Assembly()
	oldHandles := make([]*material.SurfaceHandle, 0, 2)
	for _, p := range oldAsm.Parts {
		oldHandles = append(oldHandles, p.Surface)
	}

	next := config.Default()
	next.WidthCm = 140
	require.NoError(t, coord.Edit(next)) // first edit takes the live path

	assert.NotSame(t, oldAsm, coord.Assembly())
	assert.Equal(t, float32(140), coord.Current().WidthCm)
	assert.Equal(t, 1, scene.attachedCount("table"), "never more than one live assembly")
	for _, h := range oldHandles {
		assert.True(t, h.Released(), "every previous cycle handle is released")
	}
	for _, p := range coord.Assembly().Parts {
		assert.False(t, p.Surface.Released(), "the new cycle's handles are live")
	}
}

func TestDisposalPrecedesAttach(t *testing.T) {
	coord, scene, _ := newTestCoordinator(t)
	require.NoError(t, coord.Start(config.Default()))
	scene.log = nil

	next := config.Default()
	next.MaterialID = "walnut"
	require.NoError(t, coord.Edit(next))

	// Old table (and overlay, since this is not a scalar-only edit) detach
	// before anything new attaches.
	require.GreaterOrEqual(t, len(scene.log), 4)
	assert.Equal(t, "detach table", scene.log[0])
	assert.Equal(t, "detach dimensions", scene.log[1])
	assert.Equal(t, "attach table", scene.log[2])
	assert.Equal(t, "attach dimensions", scene.log[3])
}

func TestLiveEditsAreNotCommitted(t *testing.T) {
	coord, _, clock := newTestCoordinator(t)
	obs := &recordingObserver{}
	coord.Subscribe(obs)
	require.NoError(t, coord.Start(config.Default()))
	require.Len(t, obs.committed, 1)

	next := config.Default()
	next.WidthCm = 120
	require.NoError(t, coord.Edit(next))
	assert.Len(t, obs.committed, 1, "live-path rebuild does not notify observers")

	clock.advance(scheduler.DefaultSettleDelay)
	coord.Tick()
	require.Len(t, obs.committed, 2, "settle-path rebuild commits")
	assert.Equal(t, float32(120), obs.committed[1].WidthCm)
}

func TestSettleCarriesNewestEdit(t *testing.T) {
	coord, _, clock := newTestCoordinator(t)
	obs := &recordingObserver{}
	coord.Subscribe(obs)
	require.NoError(t, coord.Start(config.Default()))

	cfg := config.Default()
	cfg.WidthCm = 110
	require.NoError(t, coord.Edit(cfg)) // live
	clock.advance(20 * time.Millisecond)
	cfg.WidthCm = 125
	require.NoError(t, coord.Edit(cfg)) // throttled, settle slot re-armed
	clock.advance(20 * time.Millisecond)
	cfg.WidthCm = 133
	require.NoError(t, coord.Edit(cfg))

	clock.advance(scheduler.DefaultSettleDelay)
	coord.Tick()

	assert.Equal(t, float32(133), coord.Current().WidthCm)
	require.Len(t, obs.committed, 2)
	assert.Equal(t, float32(133), obs.committed[1].WidthCm)
}

func TestStaleJobIsDropped(t *testing.T) {
	coord, scene, _ := newTestCoordinator(t)
	require.NoError(t, coord.Start(config.Default()))
	attaches := len(scene.log)

	newer := config.Default()
	newer.WidthCm = 150
	coord.runCycle(scheduler.Job{Config: newer, Generation: 5})
	assert.Equal(t, float32(150), coord.Current().WidthCm)

	older := config.Default()
	older.WidthCm = 90
	coord.runCycle(scheduler.Job{Config: older, Generation: 3})

	assert.Equal(t, float32(150), coord.Current().WidthCm, "a late job from an older edit never overwrites a newer one")
	assert.True(t, coord.Ready())
	assert.Greater(t, len(scene.log), attaches)
}

func TestScalarEditRefreshesOverlayInPlace(t *testing.T) {
	coord, _, _ := newTestCoordinator(t)
	require.NoError(t, coord.Start(config.Default()))
	overlay := coord.Overlay()
	require.NotNil(t, overlay)

	next := config.Default()
	next.WidthCm = 130
	require.NoError(t, coord.Edit(next))

	assert.Same(t, overlay, coord.Overlay(), "scalar-only edit keeps the overlay set")
	assert.Equal(t, "130 cm", overlay.Indicators[0].Label.Text)
}

func TestStyleEditRebuildsOverlay(t *testing.T) {
	coord, _, _ := newTestCoordinator(t)
	require.NoError(t, coord.Start(config.Default()))
	overlay := coord.Overlay()

	next := config.Default()
	next.Edge = config.EdgeRounded
	require.NoError(t, coord.Edit(next))

	assert.NotSame(t, overlay, coord.Overlay())
	assert.True(t, overlay.Disposed())
}

func TestAnnotationToggle(t *testing.T) {
	coord, scene, _ := newTestCoordinator(t)
	require.NoError(t, coord.Start(config.Default()))
	overlay := coord.Overlay()
	require.NotNil(t, overlay)

	coord.SetAnnotationsVisible(false)
	assert.Nil(t, coord.Overlay())
	assert.True(t, overlay.Disposed(), "hiding disposes, it does not merely hide")
	assert.Zero(t, scene.attachedCount("dimensions"))

	coord.SetAnnotationsVisible(true)
	require.NotNil(t, coord.Overlay())
	assert.NotSame(t, overlay, coord.Overlay(), "showing rebuilds from the live configuration")
	assert.Equal(t, 1, scene.attachedCount("dimensions"))
}

func TestBuildDelayDefersAndCoalesces(t *testing.T) {
	coord, _, clock := newTestCoordinator(t, WithBuildDelay(30*time.Millisecond))
	require.NoError(t, coord.Start(config.Default()))

	next := config.Default()
	next.WidthCm = 120
	require.NoError(t, coord.Edit(next))
	assert.Equal(t, float32(config.Default().WidthCm), coord.Current().WidthCm, "rebuild waits for the paint delay")

	// A newer edit inside the delay window replaces the pending job.
	clock.advance(scheduler.DefaultLiveInterval)
	next.WidthCm = 135
	require.NoError(t, coord.Edit(next))

	clock.advance(30 * time.Millisecond)
	coord.Tick()
	assert.Equal(t, float32(135), coord.Current().WidthCm)
}

func TestUnknownMaterialStillBuilds(t *testing.T) {
	coord, _, _ := newTestCoordinator(t)
	cfg := config.Default()
	cfg.MaterialID = "unobtanium"

	require.NoError(t, coord.Start(cfg))
	require.NotNil(t, coord.Assembly())
	top := coord.Assembly().Part("tabletop")
	require.NotNil(t, top)
	assert.Equal(t, material.DefaultID, top.Surface.SpecID, "unknown ids fall back to the default material")
}
