package generator

import (
	"github.com/gnana997/uitokens/pkg/color"
	"github.com/gnana997/uitokens/pkg/token"
)

// Theme modes.
const (
	LightMode = "light"
	DarkMode  = "dark"
)

// feedbackPrefix groups the feedback families in Theme.
const feedbackPrefix = "feedback"

// role maps a semantic token to a step per theme mode.
type role struct {
	path        string
	light, dark int
}

var surfaceRoles = []role{
	{"background", 0, 950},
	{"surface/default", 50, 900},
	{"surface/raised", 100, 800},
	{"border/default", 200, 700},
	{"border/strong", 400, 600},
	{"text/primary", 900, 50},
	{"text/secondary", 600, 400},
	{"text/disabled", 400, 600},
}

var familyRoles = []role{
	{"default", 500, 400},
	{"hover", 600, 300},
	{"active", 700, 200},
	{"subtle", 100, 900},
}

func (ro role) step(mode string) int {
	if mode == DarkMode {
		return ro.dark
	}
	return ro.light
}

// BuildTheme emits light and dark semantic colors. Every color is an alias
// into Neutral, Palette or Feedback; "on" colors point at white or black,
// whichever contrasts better with the family's default color in that mode.
func BuildTheme(r *Run) (*token.Collection, error) {
	modes := []string{LightMode, DarkMode}
	b := token.NewBuilder(Theme, modes...)

	for _, m := range modes {
		for _, ro := range surfaceRoles {
			b.Alias(ro.path, token.KindColor, m, token.AliasTo(Neutral, GreyPath(ro.step(m))), colorScopes...)
		}
	}

	themeFamilies(r, b, Palette, "", r.Settings.Brand, modes)
	themeFamilies(r, b, Feedback, feedbackPrefix, r.Settings.Feedback, modes)

	return b.Build()
}

func themeFamilies(r *Run, b *token.Builder, collection, prefix string, seeds []Seed, modes []string) {
	white := token.Alias{Collection: Neutral, Path: GreyPath(0)}
	black := token.Alias{Collection: Neutral, Path: GreyPath(1000)}

	for _, sd := range seeds {
		base := sd.Name
		if prefix != "" {
			base = token.Join(prefix, sd.Name)
		}

		// Families whose seed failed to parse have no ramp to alias.
		def := token.Alias{Collection: collection, Path: ShadePath(sd.Name, familyRoles[0].light)}
		if _, err := r.Peek(token.KindColor, def, LightMode); err != nil {
			r.Logger.Debug("Skipping theme family", "family", sd.Name, "error", err)
			continue
		}

		for _, m := range modes {
			for _, ro := range familyRoles {
				b.Alias(token.Join(base, ro.path), token.KindColor, m,
					token.AliasTo(collection, ShadePath(sd.Name, ro.step(m))), colorScopes...)
			}

			on := white
			bg, err := r.Peek(token.KindColor, token.Alias{Collection: collection, Path: ShadePath(sd.Name, familyRoles[0].step(m))}, m)
			light, lerr := r.Peek(token.KindColor, white, m)
			dark, derr := r.Peek(token.KindColor, black, m)
			if err == nil && lerr == nil && derr == nil &&
				color.ContrastColor(bg.Color, light.Color, dark.Color) == color.Dark {
				on = black
			}
			b.Alias(token.Join(base, "on"), token.KindColor, m, token.AliasTo(on.Collection, on.Path), token.ScopeTextFill)
		}
	}
}
