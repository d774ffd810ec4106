// Package config loads uitokens configuration from documented defaults, the
// project file, a .env file and the process environment, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gnana997/uitokens/pkg/generator"
	"github.com/gnana997/uitokens/pkg/scale"
	"github.com/gnana997/uitokens/pkg/util"
)

// Config holds all generator inputs and runtime options.
type Config struct {
	// Grid
	MinColumnWidth    float64
	Gutter            float64
	HorizontalPadding float64
	MinViewportHeight float64
	LargestMinWidth   float64
	OpenMaxWidth      float64
	Columns           []scale.SizeColumns
	Ratios            []scale.AspectRatio

	// Vertical rhythm
	BaselineGrid     float64
	BaseFontSize     float64
	MaxContentHeight float64
	OffsetHeight     float64
	Densities        []scale.DensityMode

	// Color
	Brand      []generator.Seed
	Feedback   []generator.Seed
	GreyHue    float64
	FineShades bool
	Devices    []generator.DeviceClass

	// Output
	Collections []string // empty = all
	OutputDir   string
	Include     []string
	ImportDir   string

	// Runtime
	LogLevel    string
	LogFormat   string
	MCPLogPath  string
	MetricsAddr string
}

// Default returns the documented defaults.
func Default() Config {
	bp := scale.DefaultBreakpointConfig()
	dc := scale.DefaultDensityConfig()
	gs := generator.DefaultSettings()

	return Config{
		MinColumnWidth:    bp.MinColumnWidth,
		Gutter:            bp.Gutter,
		HorizontalPadding: bp.HorizontalPadding,
		MinViewportHeight: bp.MinViewportHeight,
		LargestMinWidth:   bp.LargestMinWidth,
		OpenMaxWidth:      bp.OpenMaxWidth,
		Columns:           bp.Columns,
		Ratios:            bp.Ratios,

		BaselineGrid:     dc.BaselineGrid,
		BaseFontSize:     dc.BaseFontSize,
		MaxContentHeight: dc.MaxContentHeight,
		OffsetHeight:     gs.OffsetHeight,
		Densities:        dc.Modes,

		Brand:    gs.Brand,
		Feedback: gs.Feedback,
		Devices:  gs.Devices,

		OutputDir: "tokens",
		LogLevel:  string(util.LevelInfo),
		LogFormat: string(util.FormatJSON),
	}
}

var (
	logLevels  = []string{string(util.LevelDebug), string(util.LevelInfo), string(util.LevelWarn), string(util.LevelError)}
	logFormats = []string{string(util.FormatJSON), string(util.FormatText)}
)

// Settings converts the configuration into generator settings.
func (c *Config) Settings() generator.Settings {
	bp := scale.BreakpointConfig{
		MinColumnWidth:    c.MinColumnWidth,
		Gutter:            c.Gutter,
		HorizontalPadding: c.HorizontalPadding,
		MinViewportHeight: c.MinViewportHeight,
		Columns:           c.Columns,
		LargestMinWidth:   c.LargestMinWidth,
		OpenMaxWidth:      c.OpenMaxWidth,
		Ratios:            c.Ratios,
	}
	dc := scale.DefaultDensityConfig()
	dc.BaselineGrid = c.BaselineGrid
	dc.BaseFontSize = c.BaseFontSize
	dc.MaxContentHeight = c.MaxContentHeight
	dc.Modes = c.Densities

	return generator.Settings{
		Breakpoints:  bp,
		Density:      dc,
		OffsetHeight: c.OffsetHeight,
		Brand:        c.Brand,
		Feedback:     c.Feedback,
		GreyHue:      c.GreyHue,
		FineShades:   c.FineShades,
		Devices:      c.Devices,
	}
}

// LoggerConfig returns the logger settings. Logs go to stderr.
func (c *Config) LoggerConfig() util.LoggerConfig {
	cfg := util.DefaultLoggerConfig()
	cfg.Level = util.LogLevel(c.LogLevel)
	cfg.Format = util.LogFormat(c.LogFormat)
	return cfg
}

// Validate checks the configuration. Returns a slice of validation errors
// (empty slice if valid).
func (c *Config) Validate() []error {
	errs := c.Settings().Validate()

	if c.OutputDir == "" {
		errs = append(errs, errors.New("output_dir is required"))
	}
	if !slices.Contains(logLevels, c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level must be one of %v, got %q", logLevels, c.LogLevel))
	}
	if !slices.Contains(logFormats, c.LogFormat) {
		errs = append(errs, fmt.Errorf("log_format must be one of %v, got %q", logFormats, c.LogFormat))
	}
	for i, name := range c.Collections {
		if name == "" {
			errs = append(errs, fmt.Errorf("collections[%d]: name is required", i))
		}
	}
	return errs
}
