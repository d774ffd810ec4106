package generator

import (
	"fmt"
	"strings"

	"github.com/gnana997/uitokens/pkg/color"
	"github.com/gnana997/uitokens/pkg/scale"
	"github.com/gnana997/uitokens/pkg/token"
)

// Seed names a color family and the base color its ramps derive from.
type Seed struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Hex  string `json:"hex" yaml:"hex" toml:"hex"`
}

// DeviceClass groups breakpoint size keys under a device name.
type DeviceClass struct {
	Name  string   `json:"name" yaml:"name" toml:"name"`
	Sizes []string `json:"sizes" yaml:"sizes" toml:"sizes"`
}

// Settings are the numeric inputs of a generation run.
type Settings struct {
	Breakpoints  scale.BreakpointConfig
	Density      scale.DensityConfig
	OffsetHeight float64
	Brand        []Seed
	Feedback     []Seed
	GreyHue      float64
	FineShades   bool
	Devices      []DeviceClass
}

// DefaultBrand is the stock brand palette.
func DefaultBrand() []Seed {
	return []Seed{
		{Name: "primary", Hex: "#3b82f6"},
		{Name: "secondary", Hex: "#8b5cf6"},
		{Name: "accent", Hex: "#f59e0b"},
	}
}

// DefaultFeedback is the stock feedback palette.
func DefaultFeedback() []Seed {
	return []Seed{
		{Name: "success", Hex: "#22c55e"},
		{Name: "warning", Hex: "#f59e0b"},
		{Name: "error", Hex: "#ef4444"},
		{Name: "info", Hex: "#0ea5e9"},
	}
}

// DefaultDevices maps xs/sm to mobile, md/lg to tablet and xl/xxl to desktop.
func DefaultDevices() []DeviceClass {
	return []DeviceClass{
		{Name: "mobile", Sizes: []string{"xs", "sm"}},
		{Name: "tablet", Sizes: []string{"md", "lg"}},
		{Name: "desktop", Sizes: []string{"xl", "xxl"}},
	}
}

// DefaultSettings returns the stock configuration.
func DefaultSettings() Settings {
	return Settings{
		Breakpoints:  scale.DefaultBreakpointConfig(),
		Density:      scale.DefaultDensityConfig(),
		OffsetHeight: 64,
		Brand:        DefaultBrand(),
		Feedback:     DefaultFeedback(),
		Devices:      DefaultDevices(),
	}
}

// ShadeSteps returns the step set used for shade ramps.
func (s Settings) ShadeSteps() []int {
	if s.FineShades {
		return color.FineSteps
	}
	return color.ShadeSteps
}

// DeviceFor returns the device class of a size key. Unmapped keys fall back
// to the last class, or "screen" when none are configured.
func (s Settings) DeviceFor(size string) string {
	for _, d := range s.Devices {
		for _, k := range d.Sizes {
			if k == size {
				return d.Name
			}
		}
	}
	if n := len(s.Devices); n > 0 {
		return s.Devices[n-1].Name
	}
	return "screen"
}

// Validate checks the settings. Seed colors are not parsed here; an
// unparseable seed only drops its family from the run.
func (s Settings) Validate() []error {
	errs := append(s.Breakpoints.Validate(), s.Density.Validate()...)

	for _, f := range []struct {
		name string
		v    float64
	}{{"offset height", s.OffsetHeight}, {"grey hue", s.GreyHue}} {
		if err := scale.Finite(f.name, f.v); err != nil {
			errs = append(errs, err)
		}
	}
	if s.OffsetHeight < 0 {
		errs = append(errs, fmt.Errorf("offset height must not be negative, got %v", s.OffsetHeight))
	}
	errs = append(errs, validateSeeds("brand", s.Brand, themeRoots())...)
	errs = append(errs, validateSeeds("feedback", s.Feedback, nil)...)

	for i, d := range s.Devices {
		if d.Name == "" {
			errs = append(errs, fmt.Errorf("devices[%d]: name is required", i))
		}
	}
	return errs
}

// seedNameChars may not appear in a seed name: they separate path segments
// or delimit references.
const seedNameChars = "/.{}"

// themeRoots are the top-level Theme paths a brand family may not take.
func themeRoots() map[string]bool {
	roots := map[string]bool{feedbackPrefix: true}
	for _, ro := range surfaceRoles {
		roots[token.Segments(ro.path)[0]] = true
	}
	return roots
}

func validateSeeds(group string, seeds []Seed, reserved map[string]bool) []error {
	var errs []error
	seen := make(map[string]bool, len(seeds))
	for i, sd := range seeds {
		switch {
		case sd.Name == "":
			errs = append(errs, fmt.Errorf("%s[%d]: name is required", group, i))
		case strings.ContainsAny(sd.Name, seedNameChars):
			errs = append(errs, fmt.Errorf("%s[%d]: name %q must not contain any of %q", group, i, sd.Name, seedNameChars))
		case reserved[sd.Name]:
			errs = append(errs, fmt.Errorf("%s[%d]: name %q is reserved by the theme", group, i, sd.Name))
		case seen[sd.Name]:
			errs = append(errs, fmt.Errorf("%s[%d]: duplicate name %q", group, i, sd.Name))
		}
		seen[sd.Name] = true
	}
	return errs
}
