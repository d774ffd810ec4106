package generator

import (
	"fmt"
	"strconv"

	"github.com/gnana997/uitokens/pkg/color"
	"github.com/gnana997/uitokens/pkg/token"
)

// ValueMode is the single mode of the color collections.
const ValueMode = "value"

var colorScopes = []token.Scope{token.ScopeAllFills, token.ScopeStrokeColor, token.ScopeEffectColor}

// ShadePath is the token path of a family's shade step.
func ShadePath(family string, step int) string {
	return token.Join(family, "shade", strconv.Itoa(step))
}

// OpacityPath is the token path of a family's opacity step.
func OpacityPath(family string, step int) string {
	return token.Join(family, "opacity", strconv.Itoa(step))
}

// BuildPalette emits a shade and opacity ramp per brand seed.
func BuildPalette(r *Run) (*token.Collection, error) {
	return buildFamilies(r, Palette, r.Settings.Brand)
}

// BuildFeedback emits a shade and opacity ramp per feedback seed.
func BuildFeedback(r *Run) (*token.Collection, error) {
	return buildFamilies(r, Feedback, r.Settings.Feedback)
}

// buildFamilies skips seeds that do not parse and records them as failures;
// the remaining families are still emitted.
func buildFamilies(r *Run, name string, seeds []Seed) (*token.Collection, error) {
	b := token.NewBuilder(name, ValueMode)
	steps := r.Settings.ShadeSteps()

	for _, sd := range seeds {
		shades := color.GenerateShades(sd.Hex, steps)
		if len(shades) == 0 {
			r.Fail(name, fmt.Errorf("%w: %s %q", ErrInvalidSeed, sd.Name, sd.Hex))
			continue
		}

		for _, s := range shades {
			b.Color(ShadePath(sd.Name, s.Step), ValueMode, s.Color, colorScopes...)
		}
		b.Alias(token.Join(sd.Name, "base"), token.KindColor, ValueMode,
			token.AliasTo(name, ShadePath(sd.Name, color.BaseStep)), colorScopes...)

		base, _ := color.Find(shades, color.BaseStep)
		for _, s := range color.GenerateOpacityRamp(base, color.FineSteps) {
			b.Color(OpacityPath(sd.Name, s.Step), ValueMode, s.Color, colorScopes...)
		}
	}
	return b.Build()
}

// GreyPath is the token path of a neutral grey step.
func GreyPath(step int) string {
	return token.Join("grey", strconv.Itoa(step))
}

// BuildNeutral emits the grey ramp and black and white opacity ramps.
func BuildNeutral(r *Run) (*token.Collection, error) {
	b := token.NewBuilder(Neutral, ValueMode)

	for _, s := range color.GenerateGreyRamp(color.GreySteps, r.Settings.GreyHue) {
		b.Color(GreyPath(s.Step), ValueMode, s.Color, colorScopes...)
	}
	for _, s := range color.GenerateOpacityRamp(color.Black, color.FineSteps) {
		b.Color(OpacityPath("black", s.Step), ValueMode, s.Color, colorScopes...)
	}
	for _, s := range color.GenerateOpacityRamp(color.White, color.FineSteps) {
		b.Color(OpacityPath("white", s.Step), ValueMode, s.Color, colorScopes...)
	}
	return b.Build()
}
