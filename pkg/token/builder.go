package token

import (
	"errors"
	"fmt"

	"github.com/gnana997/uitokens/pkg/color"
)

// Builder assembles a collection token by token and validates it on Build.
type Builder struct {
	c    *Collection
	errs []error
}

// NewBuilder starts a collection with the given modes.
func NewBuilder(name string, modes ...string) *Builder {
	return &Builder{c: NewCollection(name, modes...)}
}

// Name returns the collection name.
func (b *Builder) Name() string { return b.c.Name }

// Modes returns the declared modes.
func (b *Builder) Modes() []string { return b.c.Modes }

// Token returns the token at name, creating it when absent. Asking for an
// existing token with a different kind is recorded as a build error.
func (b *Builder) Token(name string, kind Kind, scopes ...Scope) *Token {
	if t, ok := b.c.Lookup(name); ok {
		if t.Kind != kind {
			b.errs = append(b.errs, fmt.Errorf("token %q: requested as %s, already %s", name, kind, t.Kind))
		}
		return t
	}
	return b.c.Add(NewToken(name, kind, scopes...))
}

// Color sets a literal color for mode.
func (b *Builder) Color(name, mode string, c color.RGBA, scopes ...Scope) *Token {
	return b.bind(name, KindColor, mode, Literal(ColorValue(c)), scopes)
}

// Number sets a literal number for mode.
func (b *Builder) Number(name, mode string, n float64, scopes ...Scope) *Token {
	return b.bind(name, KindNumber, mode, Literal(NumberValue(n)), scopes)
}

// String sets a literal string for mode.
func (b *Builder) String(name, mode, s string, scopes ...Scope) *Token {
	return b.bind(name, KindString, mode, Literal(StringValue(s)), scopes)
}

// Bool sets a literal boolean for mode.
func (b *Builder) Bool(name, mode string, v bool, scopes ...Scope) *Token {
	return b.bind(name, KindBoolean, mode, Literal(BoolValue(v)), scopes)
}

// Alias binds name in mode to another token. The kind is the caller's
// declaration; resolution checks it against the target.
func (b *Builder) Alias(name string, kind Kind, mode string, target Binding, scopes ...Scope) *Token {
	if !target.IsAlias() {
		b.errs = append(b.errs, fmt.Errorf("token %q mode %q: Alias called with a literal binding", name, mode))
	}
	return b.bind(name, kind, mode, target, scopes)
}

// bind sets one binding. A token and mode can be bound once; a second
// binding is recorded as a build error and the first one is kept.
func (b *Builder) bind(name string, kind Kind, mode string, v Binding, scopes []Scope) *Token {
	t := b.Token(name, kind, scopes...)
	if prev, ok := t.Binding(mode); ok {
		b.errs = append(b.errs, fmt.Errorf("token %q mode %q: already bound to %s", name, mode, prev))
		return t
	}
	return t.Set(mode, v)
}

// Build validates and returns the collection. The collection is returned
// even when invalid so callers can report partial output.
func (b *Builder) Build() (*Collection, error) {
	errs := append(b.errs, b.c.Validate()...)
	if len(errs) > 0 {
		return b.c, fmt.Errorf("collection %q validation failed: %w", b.c.Name, errors.Join(errs...))
	}
	return b.c, nil
}
