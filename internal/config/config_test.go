package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsDefault(t *testing.T) {
	assert.NoError(t, Validate(Default()))
}

func TestValidateBoundaries(t *testing.T) {
	c := Default()
	c.WidthCm = MinWidthCm
	assert.NoError(t, Validate(c))

	c.WidthCm = 79.9
	err := Validate(c)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "width", verr.Field)
	assert.InDelta(t, 79.9, verr.Value, 1e-4)

	c.WidthCm = MaxWidthCm
	assert.NoError(t, Validate(c))
	c.WidthCm = MaxWidthCm + 0.1
	assert.Error(t, Validate(c))
}

func TestValidateStopsAtFirstViolation(t *testing.T) {
	c := Default()
	c.WidthCm = 10
	c.LengthCm = 10
	var verr *ValidationError
	require.ErrorAs(t, Validate(c), &verr)
	assert.Equal(t, "width", verr.Field, "validation reports the first offending field only")
}

func TestValidatePerField(t *testing.T) {
	cases := []struct {
		field string
		mut   func(*Configuration)
	}{
		{"length", func(c *Configuration) { c.LengthCm = 99 }},
		{"height", func(c *Configuration) { c.HeightCm = 90 }},
		{"thickness", func(c *Configuration) { c.ThicknessCm = 0.2 }},
	}
	for _, tc := range cases {
		c := Default()
		tc.mut(&c)
		var verr *ValidationError
		require.ErrorAs(t, Validate(c), &verr, tc.field)
		assert.Equal(t, tc.field, verr.Field)
	}
}

func TestValidateThicknessMustBeBelowHeight(t *testing.T) {
	// The thickest slab on the lowest table still has positive leg height.
	c := Default()
	c.HeightCm = MinHeightCm
	c.ThicknessCm = MaxThicknessCm
	assert.NoError(t, Validate(c))

	// A thickness at or above the height is rejected with the thickness
	// field regardless of which check catches it; the leg height
	// (height - thickness) must stay positive.
	c.ThicknessCm = c.HeightCm
	var verr *ValidationError
	require.ErrorAs(t, Validate(c), &verr)
	assert.Equal(t, "thickness", verr.Field)
}

func TestEdgeStyleRoundTrip(t *testing.T) {
	for _, s := range []EdgeStyle{EdgeStraight, EdgeBeveled, EdgeRounded} {
		got, err := ParseEdgeStyle(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseEdgeStyle("wavy")
	assert.Error(t, err)
}

func TestLegStyleRoundTrip(t *testing.T) {
	for _, s := range []LegStyle{LegStandard, LegUShape, LegXShape, LegLShape} {
		got, err := ParseLegStyle(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseLegStyle("tripod")
	assert.Error(t, err)
}

func TestWithFeaturesSortsAndDedupes(t *testing.T) {
	c := Default().WithFeatures("drawer", "cable_grommet", "drawer", "")
	assert.Equal(t, []string{"cable_grommet", "drawer"}, c.Features)
}

func TestScalarsOnlyChangedFrom(t *testing.T) {
	a := Default()
	b := a
	b.WidthCm = 120
	assert.True(t, b.ScalarsOnlyChangedFrom(a))
	b.Leg = LegXShape
	assert.False(t, b.ScalarsOnlyChangedFrom(a))
}

func TestCmToM(t *testing.T) {
	assert.InDelta(t, 1.09, CmToM(109), 1e-6)
	assert.InDelta(t, 0.03, CmToM(3), 1e-6)
}
