package color

import "math"

// Contrast names the candidate picked by ContrastColor.
type Contrast string

const (
	Light Contrast = "light"
	Dark  Contrast = "dark"
)

// RelativeLuminance is the WCAG 2.x relative luminance of c. Alpha is ignored.
func RelativeLuminance(c RGBA) float64 {
	return 0.2126*linearize(c.R) + 0.7152*linearize(c.G) + 0.0722*linearize(c.B)
}

// ContrastRatio is the WCAG contrast ratio between a and b, in [1,21].
func ContrastRatio(a, b RGBA) float64 {
	la, lb := RelativeLuminance(a), RelativeLuminance(b)
	lighter, darker := math.Max(la, lb), math.Min(la, lb)
	return (lighter + 0.05) / (darker + 0.05)
}

// ContrastColor returns whichever candidate reads better on background.
// Exact ties go to Light.
func ContrastColor(background, light, dark RGBA) Contrast {
	if ContrastRatio(background, light) >= ContrastRatio(background, dark) {
		return Light
	}
	return Dark
}

func linearize(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}
