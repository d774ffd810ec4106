package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContrastRatio(t *testing.T) {
	assert.InDelta(t, 21.0, ContrastRatio(White, Black), 1e-9)
	assert.InDelta(t, 1.0, ContrastRatio(White, White), 1e-9)
	assert.Equal(t, ContrastRatio(White, Black), ContrastRatio(Black, White))
}

func TestContrastColor(t *testing.T) {
	tests := []struct {
		name       string
		background string
		want       Contrast
	}{
		{"dark blue takes light text", "#1e3a8a", Light},
		{"yellow takes dark text", "#fde047", Dark},
		{"white takes dark text", "#ffffff", Dark},
		{"black takes light text", "#000000", Light},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ContrastColor(MustParseHex(tc.background), White, Black))
		})
	}
}

func TestContrastColor_TieFavorsLight(t *testing.T) {
	grey := MustParseHex("#808080")
	assert.Equal(t, Light, ContrastColor(MustParseHex("#000000"), grey, grey))
}
