// Package token holds the design-token data model: values, aliases,
// per-mode bindings, collections and the library that groups them for one
// generation run.
package token

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Token is a named leaf with one binding per mode.
type Token struct {
	Name        string
	Kind        Kind
	Description string
	Scopes      []Scope
	Hidden      bool

	values map[string]Binding
}

// NewToken creates an empty token.
func NewToken(name string, kind Kind, scopes ...Scope) *Token {
	return &Token{Name: name, Kind: kind, Scopes: scopes, values: make(map[string]Binding)}
}

// Set binds mode to b and returns t for chaining.
func (t *Token) Set(mode string, b Binding) *Token {
	if t.values == nil {
		t.values = make(map[string]Binding)
	}
	t.values[mode] = b
	return t
}

// SetValue binds a literal for mode.
func (t *Token) SetValue(mode string, v Value) *Token { return t.Set(mode, Literal(v)) }

// Binding returns the binding for mode.
func (t *Token) Binding(mode string) (Binding, bool) {
	b, ok := t.values[mode]
	return b, ok
}

// Modes returns the modes t has a binding for, sorted.
func (t *Token) Modes() []string {
	modes := make([]string, 0, len(t.values))
	for m := range t.values {
		modes = append(modes, m)
	}
	slices.Sort(modes)
	return modes
}

// Describe sets the description and returns t.
func (t *Token) Describe(desc string) *Token {
	t.Description = desc
	return t
}

// Hide marks t as hidden from publishing and returns t.
func (t *Token) Hide() *Token {
	t.Hidden = true
	return t
}

// Collection is a named set of tokens that vary across modes. The first mode
// is the default.
type Collection struct {
	Name   string
	Modes  []string
	Tokens []*Token

	index map[string]*Token
}

// NewCollection creates an empty collection with the given modes.
func NewCollection(name string, modes ...string) *Collection {
	return &Collection{Name: name, Modes: modes, index: make(map[string]*Token)}
}

// Add appends t. A token with the same name already present is returned
// instead, and t is dropped.
func (c *Collection) Add(t *Token) *Token {
	if c.index == nil {
		c.rebuildIndex()
	}
	if existing, ok := c.index[t.Name]; ok {
		return existing
	}
	c.Tokens = append(c.Tokens, t)
	c.index[t.Name] = t
	return t
}

// Lookup finds a token by exact path.
func (c *Collection) Lookup(path string) (*Token, bool) {
	if c.index == nil {
		c.rebuildIndex()
	}
	t, ok := c.index[path]
	return t, ok
}

// HasMode reports whether mode is declared.
func (c *Collection) HasMode(mode string) bool {
	return slices.Contains(c.Modes, mode)
}

// DefaultMode returns the first declared mode, or "" for a collection
// without modes.
func (c *Collection) DefaultMode() string {
	if len(c.Modes) == 0 {
		return ""
	}
	return c.Modes[0]
}

func (c *Collection) rebuildIndex() {
	c.index = make(map[string]*Token, len(c.Tokens))
	for _, t := range c.Tokens {
		if _, ok := c.index[t.Name]; !ok {
			c.index[t.Name] = t
		}
	}
}

// validKinds defines the allowed token kinds.
var validKinds = map[Kind]bool{
	KindColor:   true,
	KindNumber:  true,
	KindString:  true,
	KindBoolean: true,
}

// Validate checks the collection for internal consistency.
// Returns a slice of validation errors (empty slice if valid).
func (c *Collection) Validate() []error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, fmt.Errorf("collection name is required"))
	}
	if strings.ContainsAny(c.Name, ".{}") {
		errs = append(errs, fmt.Errorf("collection %q: name must not contain '.', '{' or '}'", c.Name))
	}
	if len(c.Modes) == 0 {
		errs = append(errs, fmt.Errorf("collection %q: at least one mode is required", c.Name))
	}

	modes := make(map[string]bool, len(c.Modes))
	for i, m := range c.Modes {
		if m == "" {
			errs = append(errs, fmt.Errorf("collection %q modes[%d]: name is required", c.Name, i))
			continue
		}
		if modes[m] {
			errs = append(errs, fmt.Errorf("collection %q: duplicate mode %q", c.Name, m))
		}
		modes[m] = true
	}

	names := make(map[string]bool, len(c.Tokens))
	for i, t := range c.Tokens {
		if t.Name == "" {
			errs = append(errs, fmt.Errorf("collection %q tokens[%d]: name is required", c.Name, i))
			continue
		}
		if names[t.Name] {
			errs = append(errs, fmt.Errorf("collection %q: duplicate token %q", c.Name, t.Name))
			continue
		}
		names[t.Name] = true

		if strings.ContainsAny(t.Name, ".{}") || slices.Contains(Segments(t.Name), "") {
			errs = append(errs, fmt.Errorf("token %q: invalid path", t.Name))
		}
		if !validKinds[t.Kind] {
			errs = append(errs, fmt.Errorf("token %q: invalid kind %q", t.Name, t.Kind))
		}

		for _, m := range c.Modes {
			b, ok := t.values[m]
			if !ok {
				errs = append(errs, fmt.Errorf("token %q: no value for mode %q", t.Name, m))
				continue
			}
			if b.IsEmpty() {
				errs = append(errs, fmt.Errorf("token %q mode %q: binding has neither value nor alias", t.Name, m))
				continue
			}
			if v, ok := b.Value(); ok && v.Kind != t.Kind {
				errs = append(errs, fmt.Errorf("token %q mode %q: %s value in %s token", t.Name, m, v.Kind, t.Kind))
			}
		}
		for m := range t.values {
			if !modes[m] {
				errs = append(errs, fmt.Errorf("token %q: value for undeclared mode %q", t.Name, m))
			}
		}
	}

	return errs
}

// Library groups the collections of one generation run, in insertion order.
type Library struct {
	collections []*Collection
	byName      map[string]*Collection
}

// NewLibrary creates a library from cols. Later duplicates are ignored.
func NewLibrary(cols ...*Collection) *Library {
	l := &Library{byName: make(map[string]*Collection)}
	for _, c := range cols {
		_ = l.Add(c)
	}
	return l
}

// ErrDuplicateCollection is returned by Add for a name already present.
var ErrDuplicateCollection = errors.New("duplicate collection")

// Add appends c.
func (l *Library) Add(c *Collection) error {
	if _, ok := l.byName[c.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateCollection, c.Name)
	}
	l.collections = append(l.collections, c)
	l.byName[c.Name] = c
	return nil
}

// Collection returns the named collection.
func (l *Library) Collection(name string) (*Collection, bool) {
	c, ok := l.byName[name]
	return c, ok
}

// Collections returns all collections in insertion order.
func (l *Library) Collections() []*Collection {
	return l.collections
}

// Names returns the collection names in insertion order.
func (l *Library) Names() []string {
	names := make([]string, len(l.collections))
	for i, c := range l.collections {
		names[i] = c.Name
	}
	return names
}

// Lookup finds a token by collection name and path.
func (l *Library) Lookup(collection, path string) (*Token, bool) {
	c, ok := l.byName[collection]
	if !ok {
		return nil, false
	}
	return c.Lookup(path)
}

// Len returns the total number of tokens across collections.
func (l *Library) Len() int {
	n := 0
	for _, c := range l.collections {
		n += len(c.Tokens)
	}
	return n
}
