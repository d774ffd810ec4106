// Package color implements the color math behind palette generation:
// hex parsing, HSL and OKLCH conversion, shade/opacity/grey ramps and WCAG
// contrast selection.
package color

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidHex is returned by ParseHex for input that is not a 3, 6 or 8
// digit hex color.
var ErrInvalidHex = errors.New("invalid hex color")

// RGBA is an sRGB color with channels and alpha in the 0-1 range.
type RGBA struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// HSL is hue in degrees [0,360), saturation and lightness in [0,1].
type HSL struct {
	H, S, L float64
}

// OKLCH is perceptual lightness [0,1], chroma and hue in degrees.
type OKLCH struct {
	L, C, H float64
}

// White and Black are the opaque extremes.
var (
	White = RGBA{R: 1, G: 1, B: 1, A: 1}
	Black = RGBA{R: 0, G: 0, B: 0, A: 1}
)

// ParseHex parses "#rgb", "#rrggbb" or "#rrggbbaa" (the leading # is
// optional).
func ParseHex(s string) (RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}) + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}

	return RGBA{
		R: float64((v>>24)&0xff) / 255,
		G: float64((v>>16)&0xff) / 255,
		B: float64((v>>8)&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}

// MustParseHex is ParseHex for compile-time constants. It panics on error.
func MustParseHex(s string) RGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the color as #rrggbb, or #rrggbbaa when it is not opaque.
func (c RGBA) Hex() string {
	r, g, b := channel(c.R), channel(c.G), channel(c.B)
	if c.A < 1 {
		return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, channel(c.A))
	}
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func (c RGBA) String() string { return c.Hex() }

// WithAlpha returns c with its alpha replaced.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = a
	return c
}

// InGamut reports whether every channel lies within [0,1].
func (c RGBA) InGamut() bool {
	return c.colorful().IsValid() && c.A >= 0 && c.A <= 1
}

// ToHSL converts to HSL.
func (c RGBA) ToHSL() HSL {
	h, s, l := c.colorful().Hsl()
	return HSL{H: h, S: s, L: l}
}

// FromHSL builds an RGBA from HSL and an alpha.
func FromHSL(hsl HSL, alpha float64) RGBA {
	return fromColorful(colorful.Hsl(hsl.H, hsl.S, hsl.L), alpha)
}

// ToOKLCH converts to OKLCH.
func (c RGBA) ToOKLCH() OKLCH {
	l, ch, h := c.colorful().OkLch()
	return OKLCH{L: l, C: ch, H: h}
}

// FromOKLCH builds an RGBA from OKLCH, reducing chroma until the color fits
// the sRGB gamut.
func FromOKLCH(lch OKLCH, alpha float64) RGBA {
	return fromColorful(gamutMap(lch.L, lch.C, lch.H), alpha)
}

func (c RGBA) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

func fromColorful(col colorful.Color, alpha float64) RGBA {
	return RGBA{R: col.R, G: col.G, B: col.B, A: alpha}
}

// gamutMap binary-searches the largest chroma <= c that is representable in
// sRGB at the given lightness and hue.
func gamutMap(l, c, h float64) colorful.Color {
	col := colorful.OkLch(l, c, h)
	if col.IsValid() {
		return col
	}

	lo, hi := 0.0, c
	for i := 0; i < 32; i++ {
		mid := (lo + hi) / 2
		if colorful.OkLch(l, mid, h).IsValid() {
			lo = mid
		} else {
			hi = mid
		}
	}

	// Clamped only absorbs float noise at L≈1 where even zero chroma lands
	// a hair outside [0,1].
	return colorful.OkLch(l, lo, h).Clamped()
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
