package token

import (
	"strings"
	"testing"

	"github.com/gnana997/uitokens/pkg/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinding_ExactlyOne(t *testing.T) {
	lit := Literal(NumberValue(4))
	assert.False(t, lit.IsAlias())
	assert.False(t, lit.IsEmpty())
	v, ok := lit.Value()
	require.True(t, ok)
	assert.Equal(t, 4.0, v.Number)
	_, ok = lit.Alias()
	assert.False(t, ok)

	ref := AliasTo("Palette", "primary/shade/500")
	assert.True(t, ref.IsAlias())
	_, ok = ref.Value()
	assert.False(t, ok)
	a, ok := ref.Alias()
	require.True(t, ok)
	assert.Equal(t, Alias{Collection: "Palette", Path: "primary/shade/500"}, a)

	assert.True(t, Binding{}.IsEmpty())
}

func TestParseReference(t *testing.T) {
	a, err := ParseReference("{Palette.primary.shade.500}")
	require.NoError(t, err)
	assert.Equal(t, "Palette", a.Collection)
	assert.Equal(t, "primary/shade/500", a.Path)
	assert.Equal(t, "{Palette.primary.shade.500}", FormatReference(a.Collection, a.Path))
}

func TestParseReference_Invalid(t *testing.T) {
	for _, ref := range []string{"", "Palette.primary", "{Palette}", "{Palette..x}", "{.x}", "{}"} {
		_, err := ParseReference(ref)
		assert.ErrorIs(t, err, ErrInvalidReference, "ref %q", ref)
	}
}

func TestZero(t *testing.T) {
	assert.Equal(t, "#ffffff", Zero(KindColor).String())
	assert.Equal(t, "0", Zero(KindNumber).String())
	assert.Equal(t, "false", Zero(KindBoolean).String())
	assert.Equal(t, "", Zero(KindString).String())
}

func TestCollection_Validate(t *testing.T) {
	c := NewCollection("Breakpoints", "xs", "sm")
	c.Add(NewToken("min-width", KindNumber)).
		SetValue("xs", NumberValue(384)).
		SetValue("sm", NumberValue(496))
	assert.Empty(t, c.Validate())
}

func TestCollection_ValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Collection
		wantErr string
	}{
		{
			name: "missing mode",
			build: func() *Collection {
				c := NewCollection("Breakpoints", "xs", "sm")
				c.Add(NewToken("min-width", KindNumber)).SetValue("xs", NumberValue(1))
				return c
			},
			wantErr: `no value for mode "sm"`,
		},
		{
			name: "empty binding",
			build: func() *Collection {
				c := NewCollection("Breakpoints", "xs")
				c.Add(NewToken("min-width", KindNumber)).Set("xs", Binding{})
				return c
			},
			wantErr: "neither value nor alias",
		},
		{
			name: "kind mismatch",
			build: func() *Collection {
				c := NewCollection("Breakpoints", "xs")
				c.Add(NewToken("min-width", KindNumber)).SetValue("xs", StringValue("wide"))
				return c
			},
			wantErr: "string value in number token",
		},
		{
			name: "undeclared mode",
			build: func() *Collection {
				c := NewCollection("Breakpoints", "xs")
				c.Add(NewToken("min-width", KindNumber)).
					SetValue("xs", NumberValue(1)).
					SetValue("xl", NumberValue(2))
				return c
			},
			wantErr: `undeclared mode "xl"`,
		},
		{
			name: "no modes",
			build: func() *Collection {
				return NewCollection("Empty")
			},
			wantErr: "at least one mode",
		},
		{
			name: "dotted path",
			build: func() *Collection {
				c := NewCollection("Spacing", "value")
				c.Add(NewToken("space/0.5", KindNumber)).SetValue("value", NumberValue(12))
				return c
			},
			wantErr: "invalid path",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.build().Validate()
			require.NotEmpty(t, errs)
			found := false
			for _, err := range errs {
				if strings.Contains(err.Error(), tc.wantErr) {
					found = true
				}
			}
			assert.True(t, found, "expected an error containing %q, got %v", tc.wantErr, errs)
		})
	}
}

func TestCollection_AddKeepsFirst(t *testing.T) {
	c := NewCollection("Palette", "value")
	first := c.Add(NewToken("primary", KindColor))
	second := c.Add(NewToken("primary", KindNumber))
	assert.Same(t, first, second)
	assert.Len(t, c.Tokens, 1)
}

func TestLibrary(t *testing.T) {
	palette := NewCollection("Palette", "value")
	palette.Add(NewToken("primary/shade/500", KindColor)).SetValue("value", ColorValue(color.Black))

	lib := NewLibrary(palette)
	require.ErrorIs(t, lib.Add(NewCollection("Palette", "value")), ErrDuplicateCollection)

	tok, ok := lib.Lookup("Palette", "primary/shade/500")
	require.True(t, ok)
	assert.Equal(t, KindColor, tok.Kind)

	_, ok = lib.Lookup("Palette", "primary/shade/600")
	assert.False(t, ok)
	_, ok = lib.Lookup("Theme", "primary")
	assert.False(t, ok)

	assert.Equal(t, []string{"Palette"}, lib.Names())
	assert.Equal(t, 1, lib.Len())
}

func TestBuilder(t *testing.T) {
	b := NewBuilder("Theme", "light", "dark")
	b.Alias("background", KindColor, "light", AliasTo("Neutral", "grey/0"), ScopeFrameFill)
	b.Alias("background", KindColor, "dark", AliasTo("Neutral", "grey/950"))
	c, err := b.Build()
	require.NoError(t, err)

	tok, ok := c.Lookup("background")
	require.True(t, ok)
	assert.Equal(t, []Scope{ScopeFrameFill}, tok.Scopes)
	assert.Equal(t, []string{"dark", "light"}, tok.Modes())
}

func TestBuilder_KindConflict(t *testing.T) {
	b := NewBuilder("Theme", "light")
	b.Number("size", "light", 4)
	b.String("size", "light", "four")
	_, err := b.Build()
	assert.ErrorContains(t, err, "requested as string, already number")
}

func TestBuilder_BoundTwice(t *testing.T) {
	b := NewBuilder("Theme", "light", "dark")
	b.Alias("surface/default", KindColor, "light", AliasTo("Neutral", "grey/50"))
	b.Alias("surface/default", KindColor, "light", AliasTo("Palette", "surface/shade/500"))
	b.Number("size", "light", 4)
	b.Number("size", "dark", 8)
	b.Number("size", "light", 2)

	c, err := b.Build()
	require.Error(t, err)
	assert.ErrorContains(t, err, `token "surface/default" mode "light": already bound`)
	assert.ErrorContains(t, err, `token "size" mode "light": already bound`)

	// The first binding wins.
	tok, _ := c.Lookup("surface/default")
	bnd, _ := tok.Binding("light")
	a, ok := bnd.Alias()
	require.True(t, ok)
	assert.Equal(t, "Neutral", a.Collection)

	size, _ := c.Lookup("size")
	v, _ := size.Binding("light")
	n, _ := v.Value()
	assert.Equal(t, 4.0, n.Number)
}
