// Package pricing derives a price from a committed configuration. It
// subscribes to the lifecycle coordinator and recomputes on every settle-path
// change; live-path interim rebuilds never reach it.
package pricing

import (
	"github.com/Meloken/mas2/internal/config"
	"github.com/Meloken/mas2/internal/material"
)

// Structure rates per leg style, in currency units.
var legStyleRates = map[config.LegStyle]float32{
	config.LegStandard: 90,
	config.LegUShape:   140,
	config.LegXShape:   160,
	config.LegLShape:   260,
}

// Edge profile surcharges: machining cost of the non-straight profiles.
var edgeSurcharges = map[config.EdgeStyle]float32{
	config.EdgeStraight: 0,
	config.EdgeBeveled:  35,
	config.EdgeRounded:  55,
}

// featureRates prices the known add-on feature ids. Unknown ids are ignored
// rather than rejected; the configurator treats features as open-ended.
var featureRates = map[string]float32{
	"cable_grommet":     25,
	"drawer":            120,
	"corner_protectors": 18,
}

// marginFrac is the margin applied on top of all costs.
const marginFrac = 0.30

// Breakdown lists the line items of one price calculation.
type Breakdown struct {
	MaterialCost  float32
	StructureCost float32
	EdgeSurcharge float32
	FeatureCost   float32
	Margin        float32
	Total         float32
}

// Calculator prices configurations against the material catalog's rates.
type Calculator struct {
	catalog *material.Catalog
}

// NewCalculator returns a calculator bound to the catalog.
func NewCalculator(catalog *material.Catalog) *Calculator {
	return &Calculator{catalog: catalog}
}

// Price computes the breakdown for one configuration. Material cost is the
// tabletop volume times the material's per-m³ rate; the L-shape counts both
// slabs minus their overlap.
func (c *Calculator) Price(cfg config.Configuration) Breakdown {
	w := config.CmToM(cfg.WidthCm)
	l := config.CmToM(cfg.LengthCm)
	t := config.CmToM(cfg.ThicknessCm)

	area := w * l
	if cfg.Leg == config.LegLShape {
		main := w * 0.6 * l
		side := 0.4 * w * l
		overlap := 0.4 * w * 0.6 * l
		area = main + side - overlap
	}
	volume := area * t

	spec := c.catalog.Resolve(cfg.MaterialID)
	b := Breakdown{
		MaterialCost:  volume * spec.PricePerM3,
		StructureCost: legStyleRates[cfg.Leg],
		EdgeSurcharge: edgeSurcharges[cfg.Edge],
	}
	for _, id := range cfg.Features {
		b.FeatureCost += featureRates[id]
	}
	cost := b.MaterialCost + b.StructureCost + b.EdgeSurcharge + b.FeatureCost
	b.Margin = cost * marginFrac
	b.Total = cost + b.Margin
	return b
}

// Observer adapts the calculator to the coordinator's observer interface and
// keeps the latest breakdown for the HUD.
type Observer struct {
	calc   *Calculator
	latest Breakdown
	seen   bool
}

// NewObserver returns a pricing observer.
func NewObserver(calc *Calculator) *Observer {
	return &Observer{calc: calc}
}

// ConfigurationCommitted recomputes the price for a committed configuration.
func (o *Observer) ConfigurationCommitted(cfg config.Configuration) {
	o.latest = o.calc.Price(cfg)
	o.seen = true
}

// Latest returns the most recent breakdown and whether one exists yet.
func (o *Observer) Latest() (Breakdown, bool) {
	return o.latest, o.seen
}
