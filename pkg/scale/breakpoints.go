// Package scale computes the numeric matrices behind layout tokens:
// breakpoint widths, viewport heights, content widths and the vertical
// density scales for typography and spacing.
package scale

import (
	"errors"
	"fmt"
	"math"
)

// MaxColumns is the widest grid supported by the content-width table.
const MaxColumns = 12

// Orientation of a viewport.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Orientations lists both orientations in output order.
var Orientations = []Orientation{Portrait, Landscape}

// AspectRatio is a long:short screen ratio such as 16:9.
type AspectRatio struct {
	Name  string  `json:"name" yaml:"name" toml:"name"`
	Long  float64 `json:"long" yaml:"long" toml:"long"`
	Short float64 `json:"short" yaml:"short" toml:"short"`
}

// Factor returns long/short.
func (r AspectRatio) Factor() float64 { return r.Long / r.Short }

// HeightFor returns the viewport height for width in the given orientation.
func (r AspectRatio) HeightFor(width float64, o Orientation) float64 {
	if o == Portrait {
		return width * r.Factor()
	}
	return width / r.Factor()
}

// SizeColumns maps a size key to its column count.
type SizeColumns struct {
	Key     string `json:"key" yaml:"key" toml:"key"`
	Columns int    `json:"columns" yaml:"columns" toml:"columns"`
}

// BreakpointConfig is the input to BuildBreakpoints. Columns must be in
// ascending size order; the last entry is the open-ended largest key.
type BreakpointConfig struct {
	MinColumnWidth    float64
	Gutter            float64
	HorizontalPadding float64
	MinViewportHeight float64
	Columns           []SizeColumns
	LargestMinWidth   float64
	OpenMaxWidth      float64
	Ratios            []AspectRatio
}

// DefaultColumns is xs:3 sm:4 md:6 lg:9 xl:12 xxl:12.
func DefaultColumns() []SizeColumns {
	return []SizeColumns{
		{Key: "xs", Columns: 3},
		{Key: "sm", Columns: 4},
		{Key: "md", Columns: 6},
		{Key: "lg", Columns: 9},
		{Key: "xl", Columns: 12},
		{Key: "xxl", Columns: 12},
	}
}

// DefaultRatios are the common device aspect ratios.
func DefaultRatios() []AspectRatio {
	return []AspectRatio{
		{Name: "16-9", Long: 16, Short: 9},
		{Name: "16-10", Long: 16, Short: 10},
		{Name: "4-3", Long: 4, Short: 3},
	}
}

// DefaultBreakpointConfig returns the stock grid.
func DefaultBreakpointConfig() BreakpointConfig {
	return BreakpointConfig{
		MinColumnWidth:    96,
		Gutter:            16,
		HorizontalPadding: 32,
		MinViewportHeight: 320,
		Columns:           DefaultColumns(),
		LargestMinWidth:   1920,
		OpenMaxWidth:      9999,
		Ratios:            DefaultRatios(),
	}
}

// Breakpoint is one size tier of the responsive grid.
type Breakpoint struct {
	Key            string
	Columns        int
	MinWidth       float64
	MaxWidth       float64
	MinColumnWidth float64
	MaxColumnWidth float64
	Heights        []ViewportHeight
	Content        []ContentWidth
	Divisions      []DivisionWidth
}

// ViewportHeight is the height range for one orientation and ratio.
type ViewportHeight struct {
	Orientation Orientation
	Ratio       AspectRatio
	MinHeight   float64
	MaxHeight   float64
}

// ContentWidth is the width spanned by a number of columns. Capped is set
// when the request exceeds the breakpoint's own column count.
type ContentWidth struct {
	Columns  int
	MinWidth float64
	MaxWidth float64
	Capped   bool
}

// Division is a unit fraction of the grid.
type Division struct {
	Name    string
	Divisor int
}

// Divisions in fallback scan order.
var Divisions = []Division{
	{Name: "1-4", Divisor: 4},
	{Name: "1-3", Divisor: 3},
	{Name: "1-2", Divisor: 2},
	{Name: "1-1", Divisor: 1},
}

// DivisionWidth is the resolved width of a division at one breakpoint.
type DivisionWidth struct {
	Division Division
	Divisor  int
	Columns  int
	MinWidth float64
	MaxWidth float64
}

// ResolveDivisor returns the first divisor, scanning Divisions forward from
// requested, that divides columns evenly. 1 always does.
func ResolveDivisor(columns, requested int) int {
	start := len(Divisions)
	for i, d := range Divisions {
		if d.Divisor == requested {
			start = i
			break
		}
	}
	for _, d := range Divisions[min(start, len(Divisions)):] {
		if columns%d.Divisor == 0 {
			return d.Divisor
		}
	}
	return 1
}

// MinWidthFor is the narrowest viewport that fits columns at the configured
// column width, gutter and padding.
func (c BreakpointConfig) MinWidthFor(columns int) float64 {
	n := float64(columns)
	return c.MinColumnWidth*n + c.Gutter*(n-1) + c.HorizontalPadding*2
}

// Finite returns an error naming the field when v is NaN or infinite.
func Finite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be a finite number, got %v", name, v)
	}
	return nil
}

// field is a named float setting.
type field struct {
	name string
	v    float64
}

func checkFinite(fields ...field) []error {
	var errs []error
	for _, f := range fields {
		if err := Finite(f.name, f.v); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Validate checks the configuration. Returns a slice of validation errors
// (empty slice if valid).
func (c BreakpointConfig) Validate() []error {
	errs := checkFinite(
		field{"min column width", c.MinColumnWidth},
		field{"gutter", c.Gutter},
		field{"horizontal padding", c.HorizontalPadding},
		field{"min viewport height", c.MinViewportHeight},
		field{"largest min width", c.LargestMinWidth},
		field{"open max width", c.OpenMaxWidth},
	)

	if c.MinColumnWidth <= 0 {
		errs = append(errs, fmt.Errorf("min column width must be positive, got %v", c.MinColumnWidth))
	}
	if c.Gutter < 0 {
		errs = append(errs, fmt.Errorf("gutter must not be negative, got %v", c.Gutter))
	}
	if c.HorizontalPadding < 0 {
		errs = append(errs, fmt.Errorf("horizontal padding must not be negative, got %v", c.HorizontalPadding))
	}
	if c.MinViewportHeight < 0 {
		errs = append(errs, fmt.Errorf("min viewport height must not be negative, got %v", c.MinViewportHeight))
	}
	if len(c.Columns) == 0 {
		errs = append(errs, fmt.Errorf("at least one size key is required"))
	}

	keys := make(map[string]bool, len(c.Columns))
	for i, sc := range c.Columns {
		if sc.Key == "" {
			errs = append(errs, fmt.Errorf("columns[%d]: key is required", i))
		}
		if keys[sc.Key] {
			errs = append(errs, fmt.Errorf("columns[%d]: duplicate key %q", i, sc.Key))
		}
		keys[sc.Key] = true
		if sc.Columns < 1 || sc.Columns > MaxColumns {
			errs = append(errs, fmt.Errorf("size %q: columns must be within 1..%d, got %d", sc.Key, MaxColumns, sc.Columns))
		}
	}

	if c.OpenMaxWidth <= c.LargestMinWidth {
		errs = append(errs, fmt.Errorf("open max width %v must exceed largest min width %v", c.OpenMaxWidth, c.LargestMinWidth))
	}

	ratios := make(map[string]bool, len(c.Ratios))
	for i, r := range c.Ratios {
		if r.Name == "" || !(r.Long > 0) || !(r.Short > 0) || math.IsInf(r.Long, 0) || math.IsInf(r.Short, 0) {
			errs = append(errs, fmt.Errorf("ratios[%d]: name and finite positive long/short are required", i))
		}
		if ratios[r.Name] {
			errs = append(errs, fmt.Errorf("ratios[%d]: duplicate name %q", i, r.Name))
		}
		ratios[r.Name] = true
	}

	return errs
}

// BuildBreakpoints derives the full breakpoint matrix. Width ranges are
// contiguous: each key's MaxWidth is the next key's MinWidth - 1.
func BuildBreakpoints(cfg BreakpointConfig) ([]Breakpoint, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("breakpoint config invalid: %w", errors.Join(errs...))
	}

	last := len(cfg.Columns) - 1
	bps := make([]Breakpoint, len(cfg.Columns))

	for i, sc := range cfg.Columns {
		bps[i] = Breakpoint{Key: sc.Key, Columns: sc.Columns, MinWidth: cfg.MinWidthFor(sc.Columns)}
	}
	bps[last].MinWidth = cfg.LargestMinWidth
	bps[last].MaxWidth = cfg.OpenMaxWidth

	for i := 0; i < last; i++ {
		if bps[i+1].MinWidth <= bps[i].MinWidth {
			return nil, fmt.Errorf("size %q min width %v does not exceed size %q min width %v",
				bps[i+1].Key, bps[i+1].MinWidth, bps[i].Key, bps[i].MinWidth)
		}
		bps[i].MaxWidth = bps[i+1].MinWidth - 1
	}

	for i := range bps {
		bp := &bps[i]
		bp.MinColumnWidth = columnWidth(cfg, bp.MinWidth, bp.Columns)
		bp.MaxColumnWidth = columnWidth(cfg, bp.MaxWidth, bp.Columns)
		bp.Heights = viewportHeights(cfg, bp.MinWidth, bp.MaxWidth)
		bp.Content = contentWidths(cfg, bp)
		bp.Divisions = divisionWidths(bp)
	}

	return bps, nil
}

func columnWidth(cfg BreakpointConfig, width float64, columns int) float64 {
	n := float64(columns)
	return math.Floor((width - 2*cfg.HorizontalPadding - cfg.Gutter*(n-1)) / n)
}

func viewportHeights(cfg BreakpointConfig, minWidth, maxWidth float64) []ViewportHeight {
	out := make([]ViewportHeight, 0, len(Orientations)*len(cfg.Ratios))
	for _, o := range Orientations {
		for _, r := range cfg.Ratios {
			out = append(out, ViewportHeight{
				Orientation: o,
				Ratio:       r,
				MinHeight:   math.Max(cfg.MinViewportHeight, math.Round(r.HeightFor(minWidth, o))),
				MaxHeight:   math.Max(cfg.MinViewportHeight, math.Round(r.HeightFor(maxWidth, o))),
			})
		}
	}
	return out
}

func contentWidths(cfg BreakpointConfig, bp *Breakpoint) []ContentWidth {
	out := make([]ContentWidth, 0, MaxColumns)
	for n := 1; n <= MaxColumns; n++ {
		if n > bp.Columns {
			out = append(out, ContentWidth{
				Columns:  n,
				MinWidth: bp.MinWidth - 2*cfg.HorizontalPadding,
				MaxWidth: bp.MaxWidth - 2*cfg.HorizontalPadding,
				Capped:   true,
			})
			continue
		}
		gutters := cfg.Gutter * float64(n-1)
		out = append(out, ContentWidth{
			Columns:  n,
			MinWidth: bp.MinColumnWidth*float64(n) + gutters,
			MaxWidth: bp.MaxColumnWidth*float64(n) + gutters,
		})
	}
	return out
}

func divisionWidths(bp *Breakpoint) []DivisionWidth {
	out := make([]DivisionWidth, 0, len(Divisions))
	for _, d := range Divisions {
		divisor := ResolveDivisor(bp.Columns, d.Divisor)
		span := bp.Columns / divisor
		cw := bp.Content[span-1]
		out = append(out, DivisionWidth{
			Division: d,
			Divisor:  divisor,
			Columns:  span,
			MinWidth: cw.MinWidth,
			MaxWidth: cw.MaxWidth,
		})
	}
	return out
}

// Height returns the viewport height entry for orientation and ratio name.
func (bp Breakpoint) Height(o Orientation, ratio string) (ViewportHeight, bool) {
	for _, h := range bp.Heights {
		if h.Orientation == o && h.Ratio.Name == ratio {
			return h, true
		}
	}
	return ViewportHeight{}, false
}
