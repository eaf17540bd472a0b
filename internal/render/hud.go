package render

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/Meloken/mas2/internal/config"
	"github.com/Meloken/mas2/internal/pricing"
)

const (
	hudFontSize   = 20
	hudPadding    = 12
	hudLineHeight = hudFontSize + 4
	// hudUpdateInterval: only rebuild HUD strings every N frames to reduce
	// allocations.
	hudUpdateInterval = 15
)

// HUD draws the 2D text overlay: current dimensions, price, validation
// errors, and rebuild readiness. Strings are recomputed only every
// hudUpdateInterval frames.
type HUD struct {
	frameCount uint32
	configText string
	priceText  string
	errText    string
}

// NewHUD returns an empty HUD.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the overlay. Call after EndMode3D.
func (h *HUD) Draw(cfg config.Configuration, price *pricing.Observer, ready bool, lastErr error) {
	h.frameCount++
	if h.frameCount%hudUpdateInterval == 1 {
		h.configText = fmt.Sprintf("%g x %g x %g cm  |  %s  |  edge: %s  legs: %s",
			cfg.WidthCm, cfg.LengthCm, cfg.HeightCm,
			cfg.MaterialID, cfg.Edge, cfg.Leg)
		if bd, ok := price.Latest(); ok {
			h.priceText = fmt.Sprintf("%.2f EUR", bd.Total)
		}
		if lastErr != nil {
			h.errText = lastErr.Error()
		} else {
			h.errText = ""
		}
	}

	y := int32(hudPadding)
	rl.DrawText(h.configText, hudPadding, y, hudFontSize, rl.RayWhite)
	y += hudLineHeight
	if h.priceText != "" {
		rl.DrawText(h.priceText, hudPadding, y, hudFontSize, rl.Green)
		y += hudLineHeight
	}
	if h.errText != "" {
		rl.DrawText(h.errText, hudPadding, y, hudFontSize, rl.Red)
		y += hudLineHeight
	}
	if !ready {
		rl.DrawText("rebuilding...", hudPadding, y, hudFontSize, rl.Yellow)
	}
}
