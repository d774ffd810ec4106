package scale

import (
	"errors"
	"fmt"
	"math"
)

// Typography categories.
const (
	Body    = "body"
	Heading = "heading"
)

// Step is a named multiplier in a scale.
type Step struct {
	Name       string  `json:"name" yaml:"name" toml:"name"`
	Multiplier float64 `json:"multiplier" yaml:"multiplier" toml:"multiplier"`
}

// DensityMode configures one vertical density tier. Empty ceilings leave
// that scale uncapped.
type DensityMode struct {
	Name           string  `json:"name" yaml:"name" toml:"name"`
	MinHeight      float64 `json:"min_height" yaml:"min_height" toml:"min_height"`
	BodyCeiling    string  `json:"body_ceiling" yaml:"body_ceiling" toml:"body_ceiling"`
	HeadingCeiling string  `json:"heading_ceiling" yaml:"heading_ceiling" toml:"heading_ceiling"`
	SpacingMax     string  `json:"spacing_max" yaml:"spacing_max" toml:"spacing_max"`
}

// DensityConfig is the input to BuildDensities.
type DensityConfig struct {
	BaselineGrid     float64
	BaseFontSize     float64
	MaxContentHeight float64
	Modes            []DensityMode
	Body             []Step
	Heading          []Step
	Spacing          []Step
}

// DefaultDensityModes are tight, compact and loose.
func DefaultDensityModes() []DensityMode {
	return []DensityMode{
		{Name: "tight", MinHeight: 0, BodyCeiling: "md", HeadingCeiling: "sm", SpacingMax: "4"},
		{Name: "compact", MinHeight: 600, BodyCeiling: "lg", HeadingCeiling: "md", SpacingMax: "6"},
		{Name: "loose", MinHeight: 900},
	}
}

// DefaultBodyScale multiplies the base font size for body text.
func DefaultBodyScale() []Step {
	return []Step{{"xs", 0.75}, {"sm", 0.875}, {"md", 1}, {"lg", 1.125}, {"xl", 1.25}}
}

// DefaultHeadingScale multiplies the base font size for headings.
func DefaultHeadingScale() []Step {
	return []Step{{"xs", 1.25}, {"sm", 1.5}, {"md", 2}, {"lg", 3}, {"xl", 5}}
}

// DefaultSpacingScale multiplies the baseline grid.
func DefaultSpacingScale() []Step {
	steps := []Step{{"quarter", 0.25}, {"third", 1.0 / 3}, {"half", 0.5}}
	for i := 1; i <= 8; i++ {
		steps = append(steps, Step{Name: fmt.Sprint(i), Multiplier: float64(i)})
	}
	return steps
}

// DefaultDensityConfig uses a 24px grid and 16px base font.
func DefaultDensityConfig() DensityConfig {
	return DensityConfig{
		BaselineGrid:     24,
		BaseFontSize:     16,
		MaxContentHeight: 9999,
		Modes:            DefaultDensityModes(),
		Body:             DefaultBodyScale(),
		Heading:          DefaultHeadingScale(),
		Spacing:          DefaultSpacingScale(),
	}
}

// Density is one computed density tier.
type Density struct {
	Name       string
	MinHeight  float64
	MaxHeight  float64
	Typography []TypeEntry
	Spacing    []SpaceEntry
}

// TypeEntry is one typographic size in a density tier. AliasOf names the
// ceiling size this entry defers to; FontSize and LineHeight then carry the
// ceiling's values.
type TypeEntry struct {
	Category   string
	Size       string
	FontSize   float64
	LineHeight float64
	AliasOf    string
}

// SpaceEntry is one spacing value in a density tier. AliasOf names the max
// entry this one defers to.
type SpaceEntry struct {
	Name    string
	Value   float64
	AliasOf string
}

// LineHeight rounds fontSize up to the next multiple of grid.
func LineHeight(fontSize, grid float64) float64 {
	if grid <= 0 {
		return fontSize
	}
	return math.Ceil(fontSize/grid) * grid
}

// Validate checks the configuration. Returns a slice of validation errors
// (empty slice if valid).
func (c DensityConfig) Validate() []error {
	errs := checkFinite(
		field{"baseline grid", c.BaselineGrid},
		field{"base font size", c.BaseFontSize},
		field{"max content height", c.MaxContentHeight},
	)

	if c.BaselineGrid <= 0 {
		errs = append(errs, fmt.Errorf("baseline grid must be positive, got %v", c.BaselineGrid))
	}
	if c.BaseFontSize <= 0 {
		errs = append(errs, fmt.Errorf("base font size must be positive, got %v", c.BaseFontSize))
	}
	if len(c.Modes) == 0 {
		errs = append(errs, fmt.Errorf("at least one density mode is required"))
	}

	names := make(map[string]bool, len(c.Modes))
	for i, m := range c.Modes {
		if m.Name == "" {
			errs = append(errs, fmt.Errorf("density modes[%d]: name is required", i))
		}
		if names[m.Name] {
			errs = append(errs, fmt.Errorf("density modes[%d]: duplicate name %q", i, m.Name))
		}
		names[m.Name] = true
		if err := Finite(fmt.Sprintf("density %q min height", m.Name), m.MinHeight); err != nil {
			errs = append(errs, err)
		}

		if i > 0 && m.MinHeight <= c.Modes[i-1].MinHeight {
			errs = append(errs, fmt.Errorf("density %q: min height %v must exceed %q min height %v",
				m.Name, m.MinHeight, c.Modes[i-1].Name, c.Modes[i-1].MinHeight))
		}
		if m.BodyCeiling != "" && indexOf(c.Body, m.BodyCeiling) < 0 {
			errs = append(errs, fmt.Errorf("density %q: unknown body ceiling %q", m.Name, m.BodyCeiling))
		}
		if m.HeadingCeiling != "" && indexOf(c.Heading, m.HeadingCeiling) < 0 {
			errs = append(errs, fmt.Errorf("density %q: unknown heading ceiling %q", m.Name, m.HeadingCeiling))
		}
		if m.SpacingMax != "" && indexOf(c.Spacing, m.SpacingMax) < 0 {
			errs = append(errs, fmt.Errorf("density %q: unknown spacing max %q", m.Name, m.SpacingMax))
		}
	}

	for _, sc := range []struct {
		name  string
		steps []Step
	}{{"body", c.Body}, {"heading", c.Heading}, {"spacing", c.Spacing}} {
		for _, st := range sc.steps {
			if err := Finite(fmt.Sprintf("%s step %q multiplier", sc.name, st.Name), st.Multiplier); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if n := len(c.Modes); n > 0 && c.MaxContentHeight <= c.Modes[n-1].MinHeight {
		errs = append(errs, fmt.Errorf("max content height %v must exceed the last density min height %v",
			c.MaxContentHeight, c.Modes[n-1].MinHeight))
	}

	return errs
}

// BuildDensities derives every density tier. Each tier's MaxHeight is the
// next tier's MinHeight - 1; the last extends to MaxContentHeight.
func BuildDensities(cfg DensityConfig) ([]Density, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("density config invalid: %w", errors.Join(errs...))
	}

	out := make([]Density, len(cfg.Modes))
	for i, m := range cfg.Modes {
		maxHeight := cfg.MaxContentHeight
		if i+1 < len(cfg.Modes) {
			maxHeight = cfg.Modes[i+1].MinHeight - 1
		}

		d := Density{Name: m.Name, MinHeight: m.MinHeight, MaxHeight: maxHeight}
		d.Typography = append(d.Typography, typeScale(cfg, Body, cfg.Body, m.BodyCeiling)...)
		d.Typography = append(d.Typography, typeScale(cfg, Heading, cfg.Heading, m.HeadingCeiling)...)
		d.Spacing = spaceScale(cfg, m.SpacingMax)
		out[i] = d
	}
	return out, nil
}

func typeScale(cfg DensityConfig, category string, steps []Step, ceiling string) []TypeEntry {
	limit := len(steps) - 1
	if ceiling != "" {
		limit = indexOf(steps, ceiling)
	}

	out := make([]TypeEntry, 0, len(steps))
	for i, s := range steps {
		src, alias := s, ""
		if i > limit {
			src, alias = steps[limit], steps[limit].Name
		}
		fs := cfg.BaseFontSize * src.Multiplier
		out = append(out, TypeEntry{
			Category:   category,
			Size:       s.Name,
			FontSize:   fs,
			LineHeight: LineHeight(fs, cfg.BaselineGrid),
			AliasOf:    alias,
		})
	}
	return out
}

func spaceScale(cfg DensityConfig, maxName string) []SpaceEntry {
	limit := math.Inf(1)
	var maxStep Step
	if maxName != "" {
		maxStep = cfg.Spacing[indexOf(cfg.Spacing, maxName)]
		limit = maxStep.Multiplier
	}

	out := make([]SpaceEntry, 0, len(cfg.Spacing))
	for _, s := range cfg.Spacing {
		if s.Multiplier > limit {
			out = append(out, SpaceEntry{Name: s.Name, Value: maxStep.Multiplier * cfg.BaselineGrid, AliasOf: maxStep.Name})
			continue
		}
		out = append(out, SpaceEntry{Name: s.Name, Value: s.Multiplier * cfg.BaselineGrid})
	}
	return out
}

// ModeForHeight returns the last density whose MinHeight is at most height.
// Heights below the first tier map to the first.
func ModeForHeight(ds []Density, height float64) (Density, bool) {
	if len(ds) == 0 {
		return Density{}, false
	}
	best := ds[0]
	for _, d := range ds[1:] {
		if height >= d.MinHeight {
			best = d
		}
	}
	return best, true
}

// Entry returns the typography entry for category and size.
func (d Density) Entry(category, size string) (TypeEntry, bool) {
	for _, e := range d.Typography {
		if e.Category == category && e.Size == size {
			return e, true
		}
	}
	return TypeEntry{}, false
}

// Space returns the spacing entry with name.
func (d Density) Space(name string) (SpaceEntry, bool) {
	for _, e := range d.Spacing {
		if e.Name == name {
			return e, true
		}
	}
	return SpaceEntry{}, false
}

func indexOf(steps []Step, name string) int {
	for i, s := range steps {
		if s.Name == name {
			return i
		}
	}
	return -1
}
