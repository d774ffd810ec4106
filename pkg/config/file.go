package config

import (
	"github.com/gnana997/uitokens/pkg/generator"
	"github.com/gnana997/uitokens/pkg/scale"
)

// fileConfig mirrors the project file. Pointer and slice fields left nil
// were absent from the file and keep their current value.
type fileConfig struct {
	MinColumnWidth    *float64            `yaml:"min_column_width" toml:"min_column_width"`
	Gutter            *float64            `yaml:"gutter" toml:"gutter"`
	HorizontalPadding *float64            `yaml:"horizontal_padding" toml:"horizontal_padding"`
	MinViewportHeight *float64            `yaml:"min_viewport_height" toml:"min_viewport_height"`
	LargestMinWidth   *float64            `yaml:"largest_min_width" toml:"largest_min_width"`
	OpenMaxWidth      *float64            `yaml:"open_max_width" toml:"open_max_width"`
	Columns           []scale.SizeColumns `yaml:"columns" toml:"columns"`
	Ratios            []scale.AspectRatio `yaml:"ratios" toml:"ratios"`

	BaselineGrid     *float64            `yaml:"baseline_grid" toml:"baseline_grid"`
	BaseFontSize     *float64            `yaml:"base_font_size" toml:"base_font_size"`
	MaxContentHeight *float64            `yaml:"max_content_height" toml:"max_content_height"`
	OffsetHeight     *float64            `yaml:"offset_height" toml:"offset_height"`
	Densities        []scale.DensityMode `yaml:"densities" toml:"densities"`

	Brand      []generator.Seed        `yaml:"brand" toml:"brand"`
	Feedback   []generator.Seed        `yaml:"feedback" toml:"feedback"`
	GreyHue    *float64                `yaml:"grey_hue" toml:"grey_hue"`
	FineShades *bool                   `yaml:"fine_shades" toml:"fine_shades"`
	Devices    []generator.DeviceClass `yaml:"devices" toml:"devices"`

	Collections []string `yaml:"collections" toml:"collections"`
	OutputDir   *string  `yaml:"output_dir" toml:"output_dir"`
	Include     []string `yaml:"include" toml:"include"`
	ImportDir   *string  `yaml:"import_dir" toml:"import_dir"`

	LogLevel    *string `yaml:"log_level" toml:"log_level"`
	LogFormat   *string `yaml:"log_format" toml:"log_format"`
	MCPLogPath  *string `yaml:"mcp_log" toml:"mcp_log"`
	MetricsAddr *string `yaml:"metrics_addr" toml:"metrics_addr"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setSlice[T any](dst *[]T, src []T) {
	if src != nil {
		*dst = src
	}
}

func (f *fileConfig) apply(c *Config) {
	set(&c.MinColumnWidth, f.MinColumnWidth)
	set(&c.Gutter, f.Gutter)
	set(&c.HorizontalPadding, f.HorizontalPadding)
	set(&c.MinViewportHeight, f.MinViewportHeight)
	set(&c.LargestMinWidth, f.LargestMinWidth)
	set(&c.OpenMaxWidth, f.OpenMaxWidth)
	setSlice(&c.Columns, f.Columns)
	setSlice(&c.Ratios, f.Ratios)

	set(&c.BaselineGrid, f.BaselineGrid)
	set(&c.BaseFontSize, f.BaseFontSize)
	set(&c.MaxContentHeight, f.MaxContentHeight)
	set(&c.OffsetHeight, f.OffsetHeight)
	setSlice(&c.Densities, f.Densities)

	setSlice(&c.Brand, f.Brand)
	setSlice(&c.Feedback, f.Feedback)
	set(&c.GreyHue, f.GreyHue)
	set(&c.FineShades, f.FineShades)
	setSlice(&c.Devices, f.Devices)

	setSlice(&c.Collections, f.Collections)
	set(&c.OutputDir, f.OutputDir)
	setSlice(&c.Include, f.Include)
	set(&c.ImportDir, f.ImportDir)

	set(&c.LogLevel, f.LogLevel)
	set(&c.LogFormat, f.LogFormat)
	set(&c.MCPLogPath, f.MCPLogPath)
	set(&c.MetricsAddr, f.MetricsAddr)
}
