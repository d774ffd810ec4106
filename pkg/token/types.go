package token

import (
	"fmt"
	"strconv"

	"github.com/gnana997/uitokens/pkg/color"
)

// Kind is the value type of a token.
type Kind string

const (
	KindColor   Kind = "color"
	KindNumber  Kind = "number"
	KindString  Kind = "string"
	KindBoolean Kind = "boolean"
)

// Scope is an advisory usage tag. Names follow the Figma variable scopes.
type Scope string

const (
	ScopeAll          Scope = "ALL_SCOPES"
	ScopeAllFills     Scope = "ALL_FILLS"
	ScopeFrameFill    Scope = "FRAME_FILL"
	ScopeShapeFill    Scope = "SHAPE_FILL"
	ScopeTextFill     Scope = "TEXT_FILL"
	ScopeStrokeColor  Scope = "STROKE_COLOR"
	ScopeEffectColor  Scope = "EFFECT_COLOR"
	ScopeWidthHeight  Scope = "WIDTH_HEIGHT"
	ScopeGap          Scope = "GAP"
	ScopeCornerRadius Scope = "CORNER_RADIUS"
	ScopeFontSize     Scope = "FONT_SIZE"
	ScopeLineHeight   Scope = "LINE_HEIGHT"
	ScopeOpacity      Scope = "OPACITY"
	ScopeString       Scope = "STRING"
)

// Value is a concrete token value. Only the field matching Kind is meaningful.
type Value struct {
	Kind   Kind
	Color  color.RGBA
	Number float64
	Text   string
	Bool   bool
}

// ColorValue wraps an RGBA.
func ColorValue(c color.RGBA) Value { return Value{Kind: KindColor, Color: c} }

// NumberValue wraps a float.
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Number: n} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{Kind: KindString, Text: s} }

// BoolValue wraps a bool.
func BoolValue(b bool) Value { return Value{Kind: KindBoolean, Bool: b} }

// Zero returns the placeholder used when an alias cannot be resolved:
// white, 0, "" or false.
func Zero(k Kind) Value {
	switch k {
	case KindColor:
		return ColorValue(color.White)
	case KindNumber:
		return NumberValue(0)
	case KindBoolean:
		return BoolValue(false)
	default:
		return StringValue("")
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindColor:
		return v.Color.Hex()
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.Bool)
	case KindString:
		return v.Text
	default:
		return fmt.Sprintf("<%s>", v.Kind)
	}
}

// Alias points at another token by collection and path. An empty Mode means
// the mode with the same name in the target collection, falling back to the
// target's default mode.
type Alias struct {
	Collection string
	Path       string
	Mode       string
}

func (a Alias) String() string {
	if a.Mode != "" {
		return FormatReference(a.Collection, a.Path) + "@" + a.Mode
	}
	return FormatReference(a.Collection, a.Path)
}

// Binding is the per-mode content of a token: a literal Value or an Alias.
// Use Literal or AliasTo to construct one; the zero Binding is empty and is
// reported by Collection.Validate.
type Binding struct {
	value *Value
	alias *Alias
}

// Literal binds a concrete value.
func Literal(v Value) Binding { return Binding{value: &v} }

// AliasTo binds a reference to path in collection.
func AliasTo(collection, path string) Binding {
	return Binding{alias: &Alias{Collection: collection, Path: path}}
}

// AliasIn binds a reference pinned to a specific mode of the target.
func AliasIn(collection, path, mode string) Binding {
	return Binding{alias: &Alias{Collection: collection, Path: path, Mode: mode}}
}

// IsAlias reports whether the binding is a reference.
func (b Binding) IsAlias() bool { return b.alias != nil }

// IsEmpty reports whether the binding carries neither value nor alias.
func (b Binding) IsEmpty() bool { return b.value == nil && b.alias == nil }

// Value returns the literal, if any.
func (b Binding) Value() (Value, bool) {
	if b.value == nil {
		return Value{}, false
	}
	return *b.value, true
}

// Alias returns the reference, if any.
func (b Binding) Alias() (Alias, bool) {
	if b.alias == nil {
		return Alias{}, false
	}
	return *b.alias, true
}

func (b Binding) String() string {
	switch {
	case b.alias != nil:
		return b.alias.String()
	case b.value != nil:
		return b.value.String()
	default:
		return "<empty>"
	}
}
