package scale

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultDensities(t *testing.T) []Density {
	t.Helper()
	ds, err := BuildDensities(DefaultDensityConfig())
	require.NoError(t, err)
	require.Len(t, ds, 3)
	return ds
}

func TestLineHeight(t *testing.T) {
	tests := []struct {
		fontSize, grid, want float64
	}{
		{16, 24, 24},
		{24, 24, 24},
		{25, 24, 48},
		{80, 24, 96},
		{12, 0, 12},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, LineHeight(tc.fontSize, tc.grid), "fontSize=%v grid=%v", tc.fontSize, tc.grid)
	}
}

func TestBuildDensities_Ranges(t *testing.T) {
	ds := defaultDensities(t)

	assert.Equal(t, "tight", ds[0].Name)
	assert.Equal(t, 0.0, ds[0].MinHeight)
	for i := 0; i+1 < len(ds); i++ {
		assert.Equal(t, ds[i+1].MinHeight, ds[i].MaxHeight+1, "%s -> %s", ds[i].Name, ds[i+1].Name)
	}
	assert.Equal(t, 9999.0, ds[2].MaxHeight)
}

func TestBuildDensities_Typography(t *testing.T) {
	loose := defaultDensities(t)[2]

	md, ok := loose.Entry(Body, "md")
	require.True(t, ok)
	assert.Equal(t, 16.0, md.FontSize)
	assert.Equal(t, 24.0, md.LineHeight)
	assert.Empty(t, md.AliasOf)

	xl, ok := loose.Entry(Heading, "xl")
	require.True(t, ok)
	assert.Equal(t, 80.0, xl.FontSize)
	assert.Equal(t, 96.0, xl.LineHeight)
	assert.Empty(t, xl.AliasOf)

	for _, e := range loose.Typography {
		assert.Zero(t, int(e.LineHeight)%24, "%s/%s", e.Category, e.Size)
		assert.GreaterOrEqual(t, e.LineHeight, e.FontSize)
	}
}

func TestBuildDensities_Ceilings(t *testing.T) {
	tight := defaultDensities(t)[0]

	lg, ok := tight.Entry(Body, "lg")
	require.True(t, ok)
	assert.Equal(t, "md", lg.AliasOf)
	assert.Equal(t, 16.0, lg.FontSize)

	md, ok := tight.Entry(Body, "md")
	require.True(t, ok)
	assert.Empty(t, md.AliasOf)

	hxl, ok := tight.Entry(Heading, "xl")
	require.True(t, ok)
	assert.Equal(t, "sm", hxl.AliasOf)
	assert.Equal(t, 24.0, hxl.FontSize)

	hxs, ok := tight.Entry(Heading, "xs")
	require.True(t, ok)
	assert.Empty(t, hxs.AliasOf)
	assert.Equal(t, 20.0, hxs.FontSize)
}

func TestBuildDensities_Spacing(t *testing.T) {
	ds := defaultDensities(t)
	tight, compact, loose := ds[0], ds[1], ds[2]

	half, ok := tight.Space("half")
	require.True(t, ok)
	assert.Equal(t, 12.0, half.Value)

	four, ok := tight.Space("4")
	require.True(t, ok)
	assert.Equal(t, 96.0, four.Value)
	assert.Empty(t, four.AliasOf)

	eight, ok := tight.Space("8")
	require.True(t, ok)
	assert.Equal(t, "4", eight.AliasOf)
	assert.Equal(t, 96.0, eight.Value)

	eight, ok = compact.Space("8")
	require.True(t, ok)
	assert.Equal(t, "6", eight.AliasOf)
	assert.Equal(t, 144.0, eight.Value)

	eight, ok = loose.Space("8")
	require.True(t, ok)
	assert.Empty(t, eight.AliasOf)
	assert.Equal(t, 192.0, eight.Value)

	_, ok = loose.Space("9")
	assert.False(t, ok)
}

func TestModeForHeight(t *testing.T) {
	ds := defaultDensities(t)
	tests := []struct {
		height float64
		want   string
	}{
		{0, "tight"},
		{-10, "tight"},
		{599, "tight"},
		{599.5, "tight"},
		{600, "compact"},
		{899, "compact"},
		{900, "loose"},
		{20000, "loose"},
	}
	for _, tc := range tests {
		d, ok := ModeForHeight(ds, tc.height)
		require.True(t, ok)
		assert.Equal(t, tc.want, d.Name, "height %v", tc.height)
	}

	_, ok := ModeForHeight(nil, 100)
	assert.False(t, ok)
}

func TestDensityConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*DensityConfig)
	}{
		{"zero grid", func(c *DensityConfig) { c.BaselineGrid = 0 }},
		{"zero font", func(c *DensityConfig) { c.BaseFontSize = 0 }},
		{"no modes", func(c *DensityConfig) { c.Modes = nil }},
		{"unknown body ceiling", func(c *DensityConfig) { c.Modes[0].BodyCeiling = "huge" }},
		{"unknown heading ceiling", func(c *DensityConfig) { c.Modes[0].HeadingCeiling = "huge" }},
		{"unknown spacing max", func(c *DensityConfig) { c.Modes[1].SpacingMax = "99" }},
		{"unordered heights", func(c *DensityConfig) { c.Modes[2].MinHeight = 100 }},
		{"duplicate name", func(c *DensityConfig) { c.Modes[1].Name = "tight" }},
		{"max below last", func(c *DensityConfig) { c.MaxContentHeight = 900 }},
		{"nan grid", func(c *DensityConfig) { c.BaselineGrid = math.NaN() }},
		{"infinite font", func(c *DensityConfig) { c.BaseFontSize = math.Inf(1) }},
		{"infinite max height", func(c *DensityConfig) { c.MaxContentHeight = math.Inf(1) }},
		{"nan mode height", func(c *DensityConfig) { c.Modes[1].MinHeight = math.NaN() }},
		{"nan multiplier", func(c *DensityConfig) { c.Body[0].Multiplier = math.NaN() }},
	}

	assert.Empty(t, DefaultDensityConfig().Validate())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultDensityConfig()
			tc.mutate(&cfg)
			assert.NotEmpty(t, cfg.Validate())
			_, err := BuildDensities(cfg)
			assert.Error(t, err)
		})
	}
}
