package generator

import (
	"github.com/gnana997/uitokens/pkg/scale"
	"github.com/gnana997/uitokens/pkg/token"
)

// BuildVerticalDensities emits one mode per density tier. Sizes above a
// tier's ceiling alias the ceiling entry in the same mode, so the value
// follows the ceiling if it changes.
func BuildVerticalDensities(r *Run) (*token.Collection, error) {
	ds, err := r.Densities()
	if err != nil {
		return nil, err
	}

	b := token.NewBuilder(VerticalDensities, densityNames(ds)...)
	grid := r.Settings.Density.BaselineGrid

	for _, d := range ds {
		m := d.Name
		b.Number("height/min", m, d.MinHeight, token.ScopeWidthHeight)
		b.Number("height/max", m, d.MaxHeight, token.ScopeWidthHeight)
		b.Number("baseline-grid", m, grid, token.ScopeGap)

		for _, e := range d.Typography {
			fs := typographyPath(e.Category, e.Size, "font-size")
			lh := typographyPath(e.Category, e.Size, "line-height")
			if e.AliasOf != "" {
				b.Alias(fs, token.KindNumber, m, token.AliasTo(VerticalDensities, typographyPath(e.Category, e.AliasOf, "font-size")), token.ScopeFontSize)
				b.Alias(lh, token.KindNumber, m, token.AliasTo(VerticalDensities, typographyPath(e.Category, e.AliasOf, "line-height")), token.ScopeLineHeight)
				continue
			}
			b.Number(fs, m, e.FontSize, token.ScopeFontSize)
			b.Number(lh, m, e.LineHeight, token.ScopeLineHeight)
		}

		for _, e := range d.Spacing {
			p := token.Join("spacing", e.Name)
			if e.AliasOf != "" {
				b.Alias(p, token.KindNumber, m, token.AliasTo(VerticalDensities, token.Join("spacing", e.AliasOf)), token.ScopeGap)
				continue
			}
			b.Number(p, m, e.Value, token.ScopeGap)
		}
	}
	return b.Build()
}

func typographyPath(category, size, prop string) string {
	return token.Join("typography", category, size, prop)
}

// densityNames lists the configured tier names.
func densityNames(ds []scale.Density) []string {
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = d.Name
	}
	return names
}
