package scale

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultBreakpoints(t *testing.T) []Breakpoint {
	t.Helper()
	bps, err := BuildBreakpoints(DefaultBreakpointConfig())
	require.NoError(t, err)
	require.Len(t, bps, 6)
	return bps
}

func TestBuildBreakpoints_MinWidths(t *testing.T) {
	bps := defaultBreakpoints(t)

	want := map[string]float64{
		"xs":  96*3 + 16*2 + 32*2, // 384
		"sm":  96*4 + 16*3 + 32*2,
		"md":  96*6 + 16*5 + 32*2,
		"lg":  96*9 + 16*8 + 32*2,
		"xl":  96*12 + 16*11 + 32*2,
		"xxl": 1920,
	}
	for _, bp := range bps {
		assert.Equal(t, want[bp.Key], bp.MinWidth, bp.Key)
	}
	assert.Equal(t, 384.0, bps[0].MinWidth)
}

func TestBuildBreakpoints_Contiguous(t *testing.T) {
	bps := defaultBreakpoints(t)
	for i := 0; i+1 < len(bps); i++ {
		assert.Equal(t, bps[i+1].MinWidth, bps[i].MaxWidth+1, "%s -> %s", bps[i].Key, bps[i+1].Key)
		assert.Less(t, bps[i].MinWidth, bps[i].MaxWidth)
	}
	assert.Equal(t, 9999.0, bps[len(bps)-1].MaxWidth)
}

func TestBuildBreakpoints_ColumnWidthAtMin(t *testing.T) {
	bps := defaultBreakpoints(t)
	for _, bp := range bps[:len(bps)-1] {
		assert.Equal(t, 96.0, bp.MinColumnWidth, bp.Key)
		assert.GreaterOrEqual(t, bp.MaxColumnWidth, bp.MinColumnWidth, bp.Key)
	}
}

func TestBuildBreakpoints_Heights(t *testing.T) {
	bps := defaultBreakpoints(t)
	xs := bps[0]
	require.Len(t, xs.Heights, 6)

	portrait, ok := xs.Height(Portrait, "16-9")
	require.True(t, ok)
	assert.Equal(t, 683.0, portrait.MinHeight) // round(384 * 16/9)

	landscape, ok := xs.Height(Landscape, "16-9")
	require.True(t, ok)
	assert.Equal(t, 320.0, landscape.MinHeight) // 216 clamped to the minimum

	for _, bp := range bps {
		for _, h := range bp.Heights {
			assert.GreaterOrEqual(t, h.MinHeight, 320.0)
			assert.GreaterOrEqual(t, h.MaxHeight, h.MinHeight)
		}
	}
}

func TestBuildBreakpoints_ContentWidths(t *testing.T) {
	bps := defaultBreakpoints(t)
	xs := bps[0]
	require.Len(t, xs.Content, MaxColumns)

	one := xs.Content[0]
	assert.Equal(t, 96.0, one.MinWidth)
	assert.False(t, one.Capped)

	three := xs.Content[2]
	assert.Equal(t, 96.0*3+16*2, three.MinWidth)
	assert.Equal(t, xs.MinWidth-64, three.MinWidth)

	four := xs.Content[3]
	assert.True(t, four.Capped)
	assert.Equal(t, xs.MinWidth-64, four.MinWidth)
	assert.Equal(t, xs.MaxWidth-64, four.MaxWidth)

	for _, bp := range bps {
		for i := 1; i < len(bp.Content); i++ {
			assert.GreaterOrEqual(t, bp.Content[i].MinWidth, bp.Content[i-1].MinWidth, "%s n=%d", bp.Key, i+1)
		}
	}
}

func TestResolveDivisor(t *testing.T) {
	tests := []struct {
		columns, requested, want int
	}{
		{9, 4, 3},
		{9, 3, 3},
		{9, 2, 1},
		{12, 4, 4},
		{6, 4, 3},
		{4, 3, 2},
		{3, 2, 1},
		{5, 4, 1},
		{12, 7, 1},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ResolveDivisor(tc.columns, tc.requested), "columns=%d requested=%d", tc.columns, tc.requested)
	}
}

func TestBuildBreakpoints_Divisions(t *testing.T) {
	bps := defaultBreakpoints(t)
	var lg Breakpoint
	for _, bp := range bps {
		if bp.Key == "lg" {
			lg = bp
		}
	}
	require.Equal(t, 9, lg.Columns)

	quarter := lg.Divisions[0]
	assert.Equal(t, "1-4", quarter.Division.Name)
	assert.Equal(t, 3, quarter.Divisor)
	assert.Equal(t, 3, quarter.Columns)
	assert.Equal(t, lg.Content[2].MinWidth, quarter.MinWidth)

	whole := lg.Divisions[3]
	assert.Equal(t, 9, whole.Columns)
	assert.Equal(t, lg.Content[8].MaxWidth, whole.MaxWidth)
}

func TestBuildBreakpoints_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BreakpointConfig)
	}{
		{"no columns", func(c *BreakpointConfig) { c.Columns = nil }},
		{"too many columns", func(c *BreakpointConfig) { c.Columns[0].Columns = 13 }},
		{"duplicate key", func(c *BreakpointConfig) { c.Columns[1].Key = "xs" }},
		{"zero column width", func(c *BreakpointConfig) { c.MinColumnWidth = 0 }},
		{"open max below largest", func(c *BreakpointConfig) { c.OpenMaxWidth = 1000 }},
		{"bad ratio", func(c *BreakpointConfig) { c.Ratios = []AspectRatio{{Name: "x", Long: 0, Short: 1}} }},
		{"nan ratio", func(c *BreakpointConfig) { c.Ratios = []AspectRatio{{Name: "x", Long: math.NaN(), Short: 1}} }},
		{"duplicate ratio", func(c *BreakpointConfig) { c.Ratios[1].Name = c.Ratios[0].Name }},
		{"nan gutter", func(c *BreakpointConfig) { c.Gutter = math.NaN() }},
		{"nan padding", func(c *BreakpointConfig) { c.HorizontalPadding = math.NaN() }},
		{"infinite open max", func(c *BreakpointConfig) { c.OpenMaxWidth = math.Inf(1) }},
		{"largest below previous", func(c *BreakpointConfig) { c.LargestMinWidth = 1000 }},
		{"descending keys", func(c *BreakpointConfig) {
			c.Columns = []SizeColumns{{"a", 6}, {"b", 3}, {"c", 12}}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultBreakpointConfig()
			tc.mutate(&cfg)
			_, err := BuildBreakpoints(cfg)
			assert.Error(t, err)
		})
	}
}

func TestBuildBreakpoints_SingleKey(t *testing.T) {
	cfg := DefaultBreakpointConfig()
	cfg.Columns = []SizeColumns{{Key: "only", Columns: 12}}
	bps, err := BuildBreakpoints(cfg)
	require.NoError(t, err)
	require.Len(t, bps, 1)
	assert.Equal(t, 1920.0, bps[0].MinWidth)
	assert.Equal(t, 9999.0, bps[0].MaxWidth)
}

func TestBuildBreakpoints_Deterministic(t *testing.T) {
	a, err := BuildBreakpoints(DefaultBreakpointConfig())
	require.NoError(t, err)
	b, err := BuildBreakpoints(DefaultBreakpointConfig())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFinite(t *testing.T) {
	assert.NoError(t, Finite("gutter", 16))
	assert.NoError(t, Finite("gutter", -1))
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.ErrorContains(t, Finite("gutter", v), "gutter must be a finite number")
	}
}
