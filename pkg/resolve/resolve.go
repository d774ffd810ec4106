// Package resolve finalizes alias bindings across a token library.
//
// Generation is two-phase: collection generators emit every concrete token
// and attach aliases as plain data, then Resolve walks each alias binding to
// the literal at the end of its chain. Collections that an alias names but
// the library does not hold yet are produced on demand through the
// Context's Loader.
package resolve

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gnana997/uitokens/pkg/token"
)

// MaxDepth is the number of alias hops followed before giving up.
const MaxDepth = 10

var (
	ErrCycle             = errors.New("alias cycle")
	ErrDepthExceeded     = errors.New("alias chain exceeds max depth")
	ErrKindMismatch      = errors.New("alias target kind mismatch")
	ErrMissingTarget     = errors.New("alias target not found")
	ErrMissingCollection = errors.New("alias collection not found")

	// ErrUnknownCollection is returned by a Loader that has no generator
	// for the requested name.
	ErrUnknownCollection = errors.New("unknown collection")
)

// FailureKind classifies a resolution failure.
type FailureKind string

const (
	MissingTarget     FailureKind = "missing_target"
	MissingCollection FailureKind = "missing_collection"
	Cycle             FailureKind = "cycle"
	DepthExceeded     FailureKind = "depth_exceeded"
	KindMismatch      FailureKind = "kind_mismatch"
)

// Fatal reports whether the failure suppresses the token's value. Missing
// targets and collections degrade to a fallback literal instead.
func (k FailureKind) Fatal() bool {
	return k == Cycle || k == DepthExceeded || k == KindMismatch
}

func kindOf(err error) FailureKind {
	switch {
	case errors.Is(err, ErrCycle):
		return Cycle
	case errors.Is(err, ErrDepthExceeded):
		return DepthExceeded
	case errors.Is(err, ErrKindMismatch):
		return KindMismatch
	case errors.Is(err, ErrMissingCollection):
		return MissingCollection
	default:
		return MissingTarget
	}
}

// Failure records one binding that did not resolve cleanly.
type Failure struct {
	Kind       FailureKind
	Collection string
	Token      string
	Mode       string
	Target     token.Alias
	Err        error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s/%s [%s] -> %s: %v", f.Collection, f.Token, f.Mode, f.Target, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Loader produces a collection that the library does not hold yet.
// Implementations return ErrUnknownCollection for names they cannot build.
type Loader interface {
	Load(name string) (*token.Collection, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(name string) (*token.Collection, error)

// Load calls f.
func (f LoaderFunc) Load(name string) (*token.Collection, error) { return f(name) }

// Context carries the state of one resolution run: the library being
// resolved, the loader for lazy generation and the logger. A Context is not
// safe for concurrent use and must not outlive its run.
type Context struct {
	lib      *token.Library
	loader   Loader
	logger   *slog.Logger
	maxDepth int

	loading map[string]bool
	failed  map[string]error
}

// Option configures a Context.
type Option func(*Context)

// WithLoader sets the lazy-generation hook.
func WithLoader(l Loader) Option {
	return func(c *Context) { c.loader = l }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) { c.logger = l }
}

// WithMaxDepth overrides MaxDepth.
func WithMaxDepth(n int) Option {
	return func(c *Context) { c.maxDepth = n }
}

// NewContext creates a run-scoped context over lib. Lazily generated
// collections are appended to lib.
func NewContext(lib *token.Library, opts ...Option) *Context {
	c := &Context{
		lib:      lib,
		logger:   slog.New(slog.DiscardHandler),
		maxDepth: MaxDepth,
		loading:  make(map[string]bool),
		failed:   make(map[string]error),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Library returns the library under resolution.
func (c *Context) Library() *token.Library { return c.lib }

// Collection returns the named collection, generating it through the loader
// when the library does not hold it. A failed load is remembered for the
// rest of the run.
func (c *Context) Collection(name string) (*token.Collection, error) {
	if col, ok := c.lib.Collection(name); ok {
		return col, nil
	}
	if err, ok := c.failed[name]; ok {
		return nil, err
	}
	if c.loader == nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingCollection, name)
	}
	if c.loading[name] {
		return nil, fmt.Errorf("%w: collection %q requested while loading", ErrCycle, name)
	}

	c.loading[name] = true
	defer delete(c.loading, name)

	c.logger.Debug("Generating collection on demand", "collection", name)
	col, err := c.loader.Load(name)
	if err == nil && col == nil {
		err = ErrUnknownCollection
	}
	if err != nil {
		err = fmt.Errorf("%w: %q: %w", ErrMissingCollection, name, err)
		c.failed[name] = err
		return nil, err
	}
	if err := c.lib.Add(col); err != nil {
		return nil, err
	}
	return col, nil
}

// targetMode picks the mode an alias reads in its target collection.
func targetMode(a token.Alias, sourceMode string, target *token.Collection) (string, error) {
	if a.Mode != "" {
		if !target.HasMode(a.Mode) {
			return "", fmt.Errorf("%w: collection %q has no mode %q", ErrMissingTarget, target.Name, a.Mode)
		}
		return a.Mode, nil
	}
	if target.HasMode(sourceMode) {
		return sourceMode, nil
	}
	return target.DefaultMode(), nil
}

type key struct {
	collection, path, mode string
}

// Chase follows a from a token of the given kind in sourceMode until it
// reaches a literal. It returns the final value and the direct target with
// its mode filled in. from identifies the starting binding for cycle
// detection.
func (c *Context) Chase(kind token.Kind, from token.Alias, a token.Alias) (token.Value, token.Alias, error) {
	visited := map[key]bool{{from.Collection, from.Path, from.Mode}: true}
	mode := from.Mode
	var direct token.Alias

	for hop := 1; ; hop++ {
		if hop > c.maxDepth {
			return token.Value{}, direct, fmt.Errorf("%w: more than %d hops from %s", ErrDepthExceeded, c.maxDepth, from)
		}

		col, err := c.Collection(a.Collection)
		if err != nil {
			return token.Value{}, direct, err
		}
		tm, err := targetMode(a, mode, col)
		if err != nil {
			return token.Value{}, direct, err
		}
		if hop == 1 {
			direct = token.Alias{Collection: a.Collection, Path: a.Path, Mode: tm}
		}

		tok, ok := col.Lookup(a.Path)
		if !ok {
			return token.Value{}, direct, fmt.Errorf("%w: %s", ErrMissingTarget, token.FormatReference(a.Collection, a.Path))
		}
		if tok.Kind != kind {
			return token.Value{}, direct, fmt.Errorf("%w: %s is %s, want %s",
				ErrKindMismatch, token.FormatReference(a.Collection, a.Path), tok.Kind, kind)
		}

		k := key{a.Collection, a.Path, tm}
		if visited[k] {
			return token.Value{}, direct, fmt.Errorf("%w: %s revisited in mode %q",
				ErrCycle, token.FormatReference(a.Collection, a.Path), tm)
		}
		visited[k] = true

		b, ok := tok.Binding(tm)
		if !ok || b.IsEmpty() {
			return token.Value{}, direct, fmt.Errorf("%w: %s has no value in mode %q",
				ErrMissingTarget, token.FormatReference(a.Collection, a.Path), tm)
		}
		if v, ok := b.Value(); ok {
			return v, direct, nil
		}

		a, _ = b.Alias()
		mode = tm
	}
}

// Resolve resolves every binding of every collection in the library,
// including collections generated on demand while resolving.
func (c *Context) Resolve() *Result {
	r := newResult(c.lib)

	for i := 0; i < len(c.lib.Collections()); i++ {
		col := c.lib.Collections()[i]
		for _, tok := range col.Tokens {
			for _, mode := range col.Modes {
				r.add(c.resolveBinding(r, col, tok, mode))
			}
		}
	}

	if n := len(r.Failures); n > 0 {
		c.logger.Warn("Resolution finished with failures", "failures", n, "collections", len(c.lib.Collections()))
	}
	return r
}

func (c *Context) resolveBinding(r *Result, col *token.Collection, tok *token.Token, mode string) Resolution {
	res := Resolution{Collection: col.Name, Token: tok.Name, Mode: mode, Kind: tok.Kind}

	b, ok := tok.Binding(mode)
	if !ok || b.IsEmpty() {
		res.Err = fmt.Errorf("token %q has no binding for mode %q", tok.Name, mode)
		r.fail(Failure{Kind: MissingTarget, Collection: col.Name, Token: tok.Name, Mode: mode, Err: res.Err})
		res.Value, res.OK, res.Fallback = token.Zero(tok.Kind), true, true
		return res
	}
	if v, ok := b.Value(); ok {
		res.Value, res.OK = v, true
		return res
	}

	a, _ := b.Alias()
	from := token.Alias{Collection: col.Name, Path: tok.Name, Mode: mode}
	v, direct, err := c.Chase(tok.Kind, from, a)
	res.Target = direct
	res.IsAlias = true
	if err == nil {
		res.Value, res.OK = v, true
		return res
	}

	f := Failure{Kind: kindOf(err), Collection: col.Name, Token: tok.Name, Mode: mode, Target: a, Err: err}
	r.fail(f)
	res.Err = err

	if f.Kind.Fatal() {
		c.logger.Error("Alias resolution failed", "token", tok.Name, "collection", col.Name, "mode", mode,
			"target", a.String(), "error", err)
		return res
	}

	c.logger.Warn("Alias target missing, using fallback", "token", tok.Name, "collection", col.Name, "mode", mode,
		"target", a.String(), "error", err)
	res.Value, res.OK, res.Fallback = token.Zero(tok.Kind), true, true
	return res
}

// Resolve is shorthand for NewContext(lib, opts...).Resolve().
func Resolve(lib *token.Library, opts ...Option) *Result {
	return NewContext(lib, opts...).Resolve()
}
