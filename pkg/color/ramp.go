package color

import (
	"math"
	"slices"
)

// Shade ramp tuning.
const (
	BaseStep = 500

	lightCeiling  = 0.95
	darkFloor     = 0.15
	lightnessBend = 1.15
	chromaFalloff = 0.08

	greyTintSaturation = 0.1
)

// ShadeSteps is the 11-step ramp used by palette collections.
var ShadeSteps = []int{50, 100, 200, 300, 400, 500, 600, 700, 800, 900, 950}

// FineSteps is the 19-step ramp in increments of 50. Also used for opacity.
var FineSteps = stepRange(50, 950, 50)

// GreySteps spans white (0) to black (1000) in increments of 50.
var GreySteps = stepRange(0, 1000, 50)

// Shade is one entry of a ramp.
type Shade struct {
	Step  int  `json:"step"`
	Color RGBA `json:"color"`
}

// GenerateShades derives a ramp from a hex color. It returns nil when the
// input cannot be parsed, so callers can skip the family without failing.
func GenerateShades(hex string, steps []int) []Shade {
	base, err := ParseHex(hex)
	if err != nil {
		return nil
	}
	return ShadesOf(base, steps)
}

// ShadesOf derives a perceptual shade ramp from base. Step 500 is base
// itself; lower steps move toward a light ceiling and higher steps toward a
// dark floor along a power curve, holding hue and easing chroma at the ends.
func ShadesOf(base RGBA, steps []int) []Shade {
	if len(steps) == 0 {
		return nil
	}
	sorted := slices.Clone(steps)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	span := float64(sorted[len(sorted)-1]-sorted[0]) / 2
	if span <= 0 {
		span = BaseStep
	}

	lch := base.ToOKLCH()
	ceiling := math.Max(lightCeiling, lch.L)
	floor := math.Min(darkFloor, lch.L)

	shades := make([]Shade, 0, len(sorted))
	for _, step := range sorted {
		if step == BaseStep {
			shades = append(shades, Shade{Step: step, Color: base})
			continue
		}

		t := math.Max(-1, math.Min(1, float64(step-BaseStep)/span))
		w := math.Pow(math.Abs(t), lightnessBend)

		l := lch.L - (lch.L-floor)*w
		if t < 0 {
			l = lch.L + (ceiling-lch.L)*w
		}
		c := lch.C * (1 - chromaFalloff*math.Abs(t))

		// Steps never cross the base. Near white and black the OKLab
		// inverse can land a hair on the wrong side of it.
		shade := FromOKLCH(OKLCH{L: l, C: c, H: lch.H}, base.A)
		if sl := shade.ToOKLCH().L; (t < 0 && sl < lch.L) || (t > 0 && sl > lch.L) {
			shade = base
		}
		shades = append(shades, Shade{Step: step, Color: shade})
	}
	return shades
}

// GenerateOpacityRamp copies base's RGB into every step with alpha step/1000.
func GenerateOpacityRamp(base RGBA, steps []int) []Shade {
	sorted := slices.Clone(steps)
	slices.Sort(sorted)

	shades := make([]Shade, 0, len(sorted))
	for _, step := range sorted {
		shades = append(shades, Shade{Step: step, Color: base.WithAlpha(float64(step) / 1000)})
	}
	return shades
}

// GenerateGreyRamp returns greys with HSL lightness 1 - step/1000. A non-zero
// hue produces a slightly tinted grey.
func GenerateGreyRamp(steps []int, hue float64) []Shade {
	sorted := slices.Clone(steps)
	slices.Sort(sorted)

	sat := 0.0
	if hue != 0 {
		sat = greyTintSaturation
	}

	shades := make([]Shade, 0, len(sorted))
	for _, step := range sorted {
		l := math.Max(0, math.Min(1, 1-float64(step)/1000))
		shades = append(shades, Shade{Step: step, Color: FromHSL(HSL{H: hue, S: sat, L: l}, 1)})
	}
	return shades
}

// Find returns the shade for step.
func Find(shades []Shade, step int) (RGBA, bool) {
	for _, s := range shades {
		if s.Step == step {
			return s.Color, true
		}
	}
	return RGBA{}, false
}

func stepRange(from, to, by int) []int {
	out := make([]int, 0, (to-from)/by+1)
	for s := from; s <= to; s += by {
		out = append(out, s)
	}
	return out
}
