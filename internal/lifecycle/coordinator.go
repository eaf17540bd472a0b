// Package lifecycle orchestrates a configuration change end to end:
// validate → resolve materials → rebuild geometry → rebuild overlay →
// notify observers. The coordinator exclusively owns the live Assembly and
// AnnotationSet; at most one assembly is attached at a time, and disposal of
// the previous one always completes before the next build starts.
package lifecycle

import (
	"time"

	"go.uber.org/zap"

	"github.com/Meloken/mas2/internal/annotation"
	"github.com/Meloken/mas2/internal/config"
	"github.com/Meloken/mas2/internal/geometry"
	"github.com/Meloken/mas2/internal/material"
	"github.com/Meloken/mas2/internal/scheduler"
)

// State is the coordinator's position in the per-change cycle.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateDisposing
	StateBuilding
	StateAttaching
)

// Group is one top-level unit the coordinator attaches to the scene: either
// the table assembly or the dimension overlay.
type Group struct {
	Name     string
	Assembly *geometry.Assembly
	Overlay  *annotation.Set
}

// Scene is the external render surface. The coordinator is the only
// component allowed to add or remove top-level groups; detaching a group
// implies disposal of its GPU resources by the backend.
type Scene interface {
	Attach(g *Group)
	Detach(g *Group)
}

// Observer receives the configuration of every committed (settle-path)
// change. Pricing and persistence register here.
type Observer interface {
	ConfigurationCommitted(cfg config.Configuration)
}

// Coordinator drives the rebuild cycle. Single-goroutine use: Edit and Tick
// are called from the frame loop.
type Coordinator struct {
	scene    Scene
	catalog  *material.Catalog
	loader   *material.Loader
	log      *zap.Logger
	clock    scheduler.Clock
	debounce *scheduler.Debouncer

	observers []Observer

	// buildDelay postpones a scheduled rebuild slightly so a loading
	// indicator can paint first. Not a correctness requirement; zero in
	// tests.
	buildDelay time.Duration
	delayed    *delayedJob

	state       State
	ready       bool
	lastStarted uint64

	cfg            config.Configuration
	tableGroup     *Group
	overlayGroup   *Group
	cycleHandles   []*material.SurfaceHandle
	overlayVisible bool
	lastErr        error
}

type delayedJob struct {
	job      scheduler.Job
	deadline time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithClock injects a clock (fake clock in tests).
func WithClock(c scheduler.Clock) Option {
	return func(co *Coordinator) { co.clock = c }
}

// WithCadence overrides the live/settle intervals. Pass WithClock before
// this option so the debouncer picks up the injected clock.
func WithCadence(live, settle time.Duration) Option {
	return func(co *Coordinator) {
		co.debounce = scheduler.New(co.clock, live, settle)
	}
}

// WithBuildDelay sets the short pre-build delay that lets a loading
// indicator paint before a larger rebuild.
func WithBuildDelay(d time.Duration) Option {
	return func(co *Coordinator) { co.buildDelay = d }
}

// New returns a coordinator bound to the given scene and material resolver.
func New(scene Scene, catalog *material.Catalog, loader *material.Loader, log *zap.Logger, opts ...Option) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Coordinator{
		scene:          scene,
		catalog:        catalog,
		loader:         loader,
		log:            log,
		clock:          scheduler.SystemClock{},
		overlayVisible: true,
	}
	for _, o := range opts {
		o(c)
	}
	if c.debounce == nil {
		c.debounce = scheduler.New(c.clock, 0, 0)
	}
	return c
}

// Subscribe registers an observer for committed configuration changes.
func (c *Coordinator) Subscribe(o Observer) {
	c.observers = append(c.observers, o)
}

// Ready reports whether the live assembly is fully attached. It flips false
// the moment a new cycle starts disposing and true only after attaching
// completes. Advisory only; observers are not gated on it.
func (c *Coordinator) Ready() bool { return c.ready }

// State returns the coordinator's current cycle state.
func (c *Coordinator) State() State { return c.state }

// LastError returns the most recent validation error, or nil. Cleared by the
// next valid edit.
func (c *Coordinator) LastError() error { return c.lastErr }

// Current returns the configuration of the live assembly.
func (c *Coordinator) Current() config.Configuration { return c.cfg }

// Assembly returns the live assembly, or nil before the first build.
func (c *Coordinator) Assembly() *geometry.Assembly {
	if c.tableGroup == nil {
		return nil
	}
	return c.tableGroup.Assembly
}

// Overlay returns the live annotation set, or nil when hidden.
func (c *Coordinator) Overlay() *annotation.Set {
	if c.overlayGroup == nil {
		return nil
	}
	return c.overlayGroup.Overlay
}

// Start validates cfg and runs one immediate committed cycle. Used once at
// startup (and after a catalog reload); later edits go through Edit.
func (c *Coordinator) Start(cfg config.Configuration) error {
	c.state = StateValidating
	if err := config.Validate(cfg); err != nil {
		c.state = StateIdle
		c.lastErr = err
		return err
	}
	c.lastErr = nil
	c.runCycle(scheduler.Job{Config: cfg, Generation: c.debounce.Generation(), Committed: true})
	return nil
}

// Edit feeds one user input event into the cycle. Validation failures are
// returned (and kept for the HUD) without touching the live assembly or
// scheduling any rebuild. Valid edits are funneled through the live/settle
// scheduler.
func (c *Coordinator) Edit(raw config.Configuration) error {
	c.state = StateValidating
	if err := config.Validate(raw); err != nil {
		c.state = StateIdle
		c.lastErr = err
		return err
	}
	c.lastErr = nil
	c.state = StateIdle
	if job := c.debounce.Push(raw); job != nil {
		c.schedule(*job)
	}
	return nil
}

// Tick advances asynchronous work: texture arrivals, due settle jobs, and
// the pre-build delay. Call once per frame.
func (c *Coordinator) Tick() {
	c.loader.Poll()
	if job := c.debounce.Tick(); job != nil {
		c.schedule(*job)
	}
	if c.delayed != nil && !c.clock.Now().Before(c.delayed.deadline) {
		job := c.delayed.job
		c.delayed = nil
		c.runCycle(job)
	}
}

// FaceCamera orients the overlay labels toward the camera. Per-frame
// transform update only.
func (c *Coordinator) FaceCamera(camPos [3]float32) {
	if o := c.Overlay(); o != nil {
		o.FaceCamera(camPos)
	}
}

// SetAnnotationsVisible toggles the dimension overlay. Turning off disposes
// the overlay entirely; turning on rebuilds it from the live configuration.
func (c *Coordinator) SetAnnotationsVisible(v bool) {
	if v == c.overlayVisible {
		return
	}
	c.overlayVisible = v
	if !v {
		c.disposeOverlay()
		return
	}
	if c.tableGroup != nil {
		c.attachOverlay(annotation.Build(c.cfg))
	}
}

// AnnotationsVisible reports the overlay toggle state.
func (c *Coordinator) AnnotationsVisible() bool { return c.overlayVisible }

// schedule queues a job, applying the pre-build paint delay. The delay slot
// holds one job; a newer job replaces an older one.
func (c *Coordinator) schedule(job scheduler.Job) {
	if c.buildDelay <= 0 {
		c.runCycle(job)
		return
	}
	if c.delayed != nil && c.delayed.job.Generation > job.Generation {
		return
	}
	c.delayed = &delayedJob{job: job, deadline: c.clock.Now().Add(c.buildDelay)}
}

// runCycle executes Disposing → Building → Attaching for one job. Jobs whose
// generation predates an already-started cycle are stale and dropped, so a
// late settle can never overwrite a newer edit.
func (c *Coordinator) runCycle(job scheduler.Job) {
	if job.Generation < c.lastStarted {
		c.log.Debug("dropping stale rebuild",
			zap.Uint64("generation", job.Generation),
			zap.Uint64("newest", c.lastStarted))
		return
	}
	c.lastStarted = job.Generation
	c.ready = false

	// Scalar-only edits refresh the overlay in place instead of rebuilding
	// it; the mesh assembly is always fully rebuilt.
	fastOverlay := c.overlayGroup != nil && job.Config.ScalarsOnlyChangedFrom(c.cfg)

	c.state = StateDisposing
	c.disposeAssembly()
	if !fastOverlay {
		c.disposeOverlay()
	}

	c.state = StateBuilding
	top, leg := c.realizeSurfaces(job.Config)
	asm := c.buildAssembly(job.Config, top, leg)

	c.state = StateAttaching
	c.tableGroup = &Group{Name: "table", Assembly: asm}
	c.scene.Attach(c.tableGroup)
	if c.overlayVisible {
		if fastOverlay {
			c.overlayGroup.Overlay.Refresh(job.Config)
		} else {
			c.attachOverlay(annotation.Build(job.Config))
		}
	}

	c.cfg = job.Config
	c.state = StateIdle
	c.ready = true

	if job.Committed {
		for _, o := range c.observers {
			o.ConfigurationCommitted(job.Config)
		}
	}
}

// realizeSurfaces resolves and realizes the tabletop and structural
// surfaces. A synchronous construction failure is recovered here and
// reported as nil handles, which the builder replaces with the diagnostic
// material, so the scene never ends up without a material.
func (c *Coordinator) realizeSurfaces(cfg config.Configuration) (top, leg *material.SurfaceHandle) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("material construction failed, using diagnostic surface",
				zap.String("material_id", cfg.MaterialID), zap.Any("panic", r))
			top, leg = nil, nil
		}
	}()
	spec := c.catalog.Resolve(cfg.MaterialID)
	top = material.Realize(spec, material.Overrides{})
	c.loader.Begin(top, spec)
	structural := material.Structural()
	leg = material.Realize(structural, material.Overrides{})
	c.cycleHandles = append(c.cycleHandles, top, leg)
	return top, leg
}

// buildAssembly runs the geometry builder, recovering a synchronous build
// failure into a diagnostic placeholder so the assembly fully replaces the
// old one even when degraded.
func (c *Coordinator) buildAssembly(cfg config.Configuration, top, leg *material.SurfaceHandle) (asm *geometry.Assembly) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("geometry build failed, using placeholder", zap.Any("panic", r))
			asm = placeholderAssembly(cfg)
		}
	}()
	return geometry.Build(cfg, top, leg)
}

// placeholderAssembly is the degraded result of a failed build: one
// diagnostic-colored box of the configured plan size.
func placeholderAssembly(cfg config.Configuration) *geometry.Assembly {
	w := config.CmToM(cfg.WidthCm)
	l := config.CmToM(cfg.LengthCm)
	h := config.CmToM(cfg.HeightCm)
	return &geometry.Assembly{
		Config: cfg,
		Parts: []geometry.Part{{
			Role:      "placeholder",
			Mesh:      geometry.Box(w, h, l),
			Transform: geometry.Transform{Position: [3]float32{0, h / 2, 0}},
			Surface:   material.Diagnostic(),
		}},
	}
}

// disposeAssembly detaches and releases the live assembly and the material
// handles this cycle exclusively owns. Always completes before the next
// build starts, bounding peak graphics memory during rapid edits.
func (c *Coordinator) disposeAssembly() {
	if c.tableGroup != nil {
		c.scene.Detach(c.tableGroup)
		c.tableGroup = nil
	}
	for _, h := range c.cycleHandles {
		h.Release()
	}
	c.cycleHandles = nil
}

func (c *Coordinator) disposeOverlay() {
	if c.overlayGroup == nil {
		return
	}
	c.scene.Detach(c.overlayGroup)
	c.overlayGroup.Overlay.Dispose()
	c.overlayGroup = nil
}

func (c *Coordinator) attachOverlay(set *annotation.Set) {
	c.overlayGroup = &Group{Name: "dimensions", Overlay: set}
	c.scene.Attach(c.overlayGroup)
}
