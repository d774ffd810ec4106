// Package generator orchestrates token generation: it owns the registry of
// named collection generators and runs them against a resolution context,
// generating alias targets on demand.
package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gnana997/uitokens/pkg/resolve"
	"github.com/gnana997/uitokens/pkg/scale"
	"github.com/gnana997/uitokens/pkg/token"
)

// Collection names.
const (
	Breakpoints       = "Breakpoints"
	Devices           = "Devices"
	ContentHeight     = "ContentHeight"
	VerticalDensities = "VerticalDensities"
	Palette           = "Palette"
	Neutral           = "Neutral"
	Feedback          = "Feedback"
	Theme             = "Theme"
)

var (
	// ErrInvalidSettings wraps settings validation failures.
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrInvalidSeed is recorded when a seed color cannot be parsed.
	ErrInvalidSeed = errors.New("invalid color seed")
)

// Func builds one collection. A non-nil collection returned alongside an
// error is kept as partial output.
type Func func(*Run) (*token.Collection, error)

// Registry maps collection names to generators in registration order.
type Registry struct {
	names []string
	funcs map[string]Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Register adds or replaces the generator for name.
func (r *Registry) Register(name string, fn Func) {
	if _, ok := r.funcs[name]; !ok {
		r.names = append(r.names, name)
	}
	r.funcs[name] = fn
}

// Lookup returns the generator for name.
func (r *Registry) Lookup(name string) (Func, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// DefaultRegistry holds every built-in collection.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Breakpoints, BuildBreakpoints)
	r.Register(Devices, BuildDevices)
	r.Register(ContentHeight, BuildContentHeight)
	r.Register(VerticalDensities, BuildVerticalDensities)
	r.Register(Palette, BuildPalette)
	r.Register(Neutral, BuildNeutral)
	r.Register(Feedback, BuildFeedback)
	r.Register(Theme, BuildTheme)
	return r
}

// Observer is notified after every run.
type Observer interface {
	ObserveRun(out *Output)
}

// Engine runs generators with fixed settings. An Engine holds no state
// between runs and is safe for concurrent use.
type Engine struct {
	settings Settings
	registry *Registry
	logger   *slog.Logger
	imported []*token.Collection
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry replaces the default registry.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithImported seeds every run's library with previously exported
// collections so they can serve as alias targets.
func WithImported(cols ...*token.Collection) Option {
	return func(e *Engine) { e.imported = append(e.imported, cols...) }
}

// WithObserver registers a run observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// New creates an engine.
func New(settings Settings, opts ...Option) *Engine {
	e := &Engine{
		settings: settings,
		registry: DefaultRegistry(),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Settings returns the engine settings.
func (e *Engine) Settings() Settings { return e.settings }

// Names returns the collections the engine can generate.
func (e *Engine) Names() []string { return e.registry.Names() }

// Output is the product of one run.
type Output struct {
	Result *resolve.Result

	// Requested lists the collections asked for; the library may hold more
	// when aliases pulled in dependencies.
	Requested []string
	Failures  []error
	Duration  time.Duration
}

// Collections returns the requested collections that were generated, in
// request order.
func (o *Output) Collections() []*token.Collection {
	out := make([]*token.Collection, 0, len(o.Requested))
	for _, name := range o.Requested {
		if c, ok := o.Result.Library.Collection(name); ok {
			out = append(out, c)
		}
	}
	return out
}

// Err joins generation and resolution failures.
func (o *Output) Err() error {
	errs := append([]error(nil), o.Failures...)
	if err := o.Result.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Run generates the named collections, or every registered collection when
// none are named, and resolves all aliases. The error is non-nil only for
// invalid settings; per-token and per-collection problems are reported
// through Output.Err.
func (e *Engine) Run(names ...string) (*Output, error) {
	start := time.Now()

	if errs := e.settings.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSettings, errors.Join(errs...))
	}
	if len(names) == 0 {
		names = e.registry.Names()
	}

	lib := token.NewLibrary()
	for _, c := range e.imported {
		if err := lib.Add(c); err != nil {
			e.logger.Warn("Skipping imported collection", "collection", c.Name, "error", err)
		}
	}

	run := &Run{
		Settings: e.settings,
		Logger:   e.logger,
		registry: e.registry,
	}
	run.ctx = resolve.NewContext(lib, resolve.WithLoader(resolve.LoaderFunc(run.load)), resolve.WithLogger(e.logger))

	for _, name := range names {
		if _, err := run.ctx.Collection(name); err != nil {
			if errors.Is(err, resolve.ErrUnknownCollection) {
				e.logger.Warn("Unknown collection requested", "collection", name)
			}
			run.fail(name, err)
		}
	}

	out := &Output{
		Result:    run.ctx.Resolve(),
		Requested: names,
		Failures:  run.failures,
	}
	out.Duration = time.Since(start)

	e.logger.Info("Generation complete",
		"collections", len(lib.Collections()),
		"tokens", lib.Len(),
		"failures", len(out.Failures)+len(out.Result.Failures),
		"duration", out.Duration)

	if e.observer != nil {
		e.observer.ObserveRun(out)
	}
	return out, nil
}

// Run is the state shared by the generators of one engine run.
type Run struct {
	Settings Settings
	Logger   *slog.Logger

	registry *Registry
	ctx      *resolve.Context
	failures []error

	breakpoints []scale.Breakpoint
	densities   []scale.Density
}

func (r *Run) load(name string) (*token.Collection, error) {
	fn, ok := r.registry.Lookup(name)
	if !ok {
		return nil, resolve.ErrUnknownCollection
	}

	r.Logger.Debug("Generating collection", "collection", name)
	col, err := fn(r)
	if err != nil {
		if col == nil {
			return nil, err
		}
		r.fail(name, err)
	}
	return col, nil
}

func (r *Run) fail(collection string, err error) {
	r.Logger.Warn("Collection generation problem", "collection", collection, "error", err)
	r.failures = append(r.failures, fmt.Errorf("collection %q: %w", collection, err))
}

// Fail records a non-fatal generation problem for collection.
func (r *Run) Fail(collection string, err error) { r.fail(collection, err) }

// Collection returns a collection of this run, generating it on demand.
func (r *Run) Collection(name string) (*token.Collection, error) {
	return r.ctx.Collection(name)
}

// Peek resolves target to a literal for mode, generating its collection on
// demand. Generators use it to make decisions on values they alias.
func (r *Run) Peek(kind token.Kind, target token.Alias, mode string) (token.Value, error) {
	v, _, err := r.ctx.Chase(kind, token.Alias{Mode: mode}, target)
	return v, err
}

// Breakpoints returns the breakpoint matrix, computing it once per run.
func (r *Run) Breakpoints() ([]scale.Breakpoint, error) {
	if r.breakpoints == nil {
		bps, err := scale.BuildBreakpoints(r.Settings.Breakpoints)
		if err != nil {
			return nil, err
		}
		r.breakpoints = bps
	}
	return r.breakpoints, nil
}

// Densities returns the density tiers, computing them once per run.
func (r *Run) Densities() ([]scale.Density, error) {
	if r.densities == nil {
		ds, err := scale.BuildDensities(r.Settings.Density)
		if err != nil {
			return nil, err
		}
		r.densities = ds
	}
	return r.densities, nil
}
