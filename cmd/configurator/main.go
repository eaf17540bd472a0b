package main

import (
	"fmt"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/Meloken/mas2/internal/config"
	"github.com/Meloken/mas2/internal/graphics"
	"github.com/Meloken/mas2/internal/lifecycle"
	"github.com/Meloken/mas2/internal/logger"
	"github.com/Meloken/mas2/internal/material"
	"github.com/Meloken/mas2/internal/pricing"
	"github.com/Meloken/mas2/internal/render"
)

// assetDir holds textures, relative to the working directory.
const assetDir = "assets"

// catalogPath is the optional material catalog override file.
const catalogPath = "config/materials.yaml"

// dimensionStepCm is the per-keypress nudge for dimension keys.
const dimensionStepCm = float32(1)

// buildDelay lets the "rebuilding..." indicator paint before larger rebuilds.
const buildDelay = 30 * time.Millisecond

// saver persists every committed configuration.
type saver struct{ log *zap.Logger }

func (s saver) ConfigurationCommitted(cfg config.Configuration) {
	if err := config.Save(cfg); err != nil {
		s.log.Warn("failed to persist configuration", zap.Error(err))
	}
}

func main() {
	log, err := logger.New(os.Getenv("CONFIGURATOR_DEBUG") != "")
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init failed:", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Capability check: without a graphics context the 3D core cannot run
	// at all, so it is bypassed entirely.
	if !graphics.Init() {
		log.Error("no usable graphics context; configurator disabled")
		fmt.Fprintln(os.Stderr, "3D preview unavailable on this system")
		os.Exit(1)
	}

	catalog := material.NewCatalog(log)
	if err := catalog.LoadFile(catalogPath); err != nil {
		log.Warn("material catalog file ignored", zap.String("path", catalogPath), zap.Error(err))
	}
	if err := catalog.Watch(catalogPath); err != nil {
		log.Debug("material catalog watch unavailable", zap.Error(err))
	}
	defer catalog.Close()

	loader := material.NewLoader(assetDir, log)
	backend := render.NewBackend(log)
	coord := lifecycle.New(backend, catalog, loader, log,
		lifecycle.WithBuildDelay(buildDelay))

	price := pricing.NewObserver(pricing.NewCalculator(catalog))
	coord.Subscribe(price)
	coord.Subscribe(saver{log: log})

	prefs := config.LoadPrefs()
	coord.SetAnnotationsVisible(prefs.ShowDimensions)

	cfg := config.Load()
	if err := coord.Start(cfg); err != nil {
		log.Error("initial build failed validation", zap.Error(err))
		cfg = config.Default()
		_ = coord.Start(cfg)
	}

	cam := render.NewCamera()
	cam.AutoRotate = prefs.AutoRotate
	hud := render.NewHUD()

	update := func() {
		cfg = handleInput(cfg, coord, catalog, &prefs, cam)
		coord.Tick()
		cam.Update(rl.GetFrameTime())
		coord.FaceCamera(cam.Position())
	}
	draw := func() {
		rl.BeginMode3D(cam.RL())
		backend.Draw(cam.RL())
		rl.EndMode3D()
		hud.Draw(cfg, price, coord.Ready(), coord.LastError())
	}
	graphics.Run(update, draw)

	if err := config.SavePrefs(prefs); err != nil {
		log.Warn("failed to persist viewer prefs", zap.Error(err))
	}
}

// handleInput maps keys to configuration edits and viewer toggles. Dimension
// keys feed the live/settle scheduler through coord.Edit; invalid values are
// reported on the HUD and leave the live assembly untouched.
func handleInput(cfg config.Configuration, coord *lifecycle.Coordinator, catalog *material.Catalog, prefs *config.ViewerPrefs, cam *render.Camera) config.Configuration {
	next := cfg
	switch {
	case rl.IsKeyPressed(rl.KeyW):
		next.WidthCm += dimensionStepCm
	case rl.IsKeyPressed(rl.KeyS):
		next.WidthCm -= dimensionStepCm
	case rl.IsKeyPressed(rl.KeyE):
		next.LengthCm += dimensionStepCm
	case rl.IsKeyPressed(rl.KeyD):
		next.LengthCm -= dimensionStepCm
	case rl.IsKeyPressed(rl.KeyR):
		next.HeightCm += dimensionStepCm
	case rl.IsKeyPressed(rl.KeyF):
		next.HeightCm -= dimensionStepCm
	case rl.IsKeyPressed(rl.KeyT):
		next.ThicknessCm += 0.5
	case rl.IsKeyPressed(rl.KeyG):
		next.ThicknessCm -= 0.5
	case rl.IsKeyPressed(rl.KeyM):
		next.MaterialID = cycleMaterial(catalog, cfg.MaterialID)
	case rl.IsKeyPressed(rl.KeyB):
		next.Edge = (cfg.Edge + 1) % 3
	case rl.IsKeyPressed(rl.KeyN):
		next.Leg = (cfg.Leg + 1) % 4
	case rl.IsKeyPressed(rl.KeyOne):
		next = toggleFeature(cfg, "cable_grommet")
	case rl.IsKeyPressed(rl.KeyTwo):
		next = toggleFeature(cfg, "drawer")
	case rl.IsKeyPressed(rl.KeyThree):
		next = toggleFeature(cfg, "corner_protectors")
	case rl.IsKeyPressed(rl.KeyH):
		prefs.ShowDimensions = !prefs.ShowDimensions
		coord.SetAnnotationsVisible(prefs.ShowDimensions)
		return cfg
	case rl.IsKeyPressed(rl.KeyO):
		prefs.AutoRotate = !prefs.AutoRotate
		cam.AutoRotate = prefs.AutoRotate
		return cfg
	case rl.IsKeyPressed(rl.KeyP):
		rl.TakeScreenshot("table.png")
		return cfg
	default:
		return cfg
	}
	if next.Equal(cfg) {
		return cfg
	}
	if err := coord.Edit(next); err != nil {
		return cfg // invalid: HUD shows the error, config stays put
	}
	return next
}

// cycleMaterial steps to the next catalog id in sorted order.
func cycleMaterial(catalog *material.Catalog, current string) string {
	ids := catalog.IDs()
	for i, id := range ids {
		if id == current {
			return ids[(i+1)%len(ids)]
		}
	}
	return material.DefaultID
}

// toggleFeature adds or removes one add-on feature id.
func toggleFeature(cfg config.Configuration, id string) config.Configuration {
	for _, f := range cfg.Features {
		if f == id {
			kept := make([]string, 0, len(cfg.Features)-1)
			for _, k := range cfg.Features {
				if k != id {
					kept = append(kept, k)
				}
			}
			return cfg.WithFeatures(kept...)
		}
	}
	return cfg.WithFeatures(append(append([]string{}, cfg.Features...), id)...)
}
