package config

// cmPerMeter is the fixed conversion factor between the user-facing
// centimeter values and internal scene units (meters).
const cmPerMeter = 100

// CmToM converts a centimeter value to meters. Dimensions stay in
// centimeters inside Configuration; only the geometry and annotation
// builders convert, locally, at their boundary.
func CmToM(cm float32) float32 {
	return cm / cmPerMeter
}
