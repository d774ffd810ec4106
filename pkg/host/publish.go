package host

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gnana997/uitokens/pkg/resolve"
	"github.com/gnana997/uitokens/pkg/token"
)

// Skipped is a token left unbound in one mode because its resolution
// failed hard.
type Skipped struct {
	Collection string
	Token      string
	Mode       string
	Err        error
}

// Report summarizes a publish.
type Report struct {
	Collections int
	Modes       int
	Variables   int
	Values      int
	Aliases     int
	// Inlined counts aliases into unpublished collections, bound as values.
	Inlined int
	// Fallbacks counts aliases with a missing target, bound to the fallback.
	Fallbacks int
	Skipped   []Skipped
}

type publishOptions struct {
	collections []string
	logger      *slog.Logger
}

// PublishOption configures Publish.
type PublishOption func(*publishOptions)

// WithCollections limits publishing to the named collections, in order.
func WithCollections(names ...string) PublishOption {
	return func(o *publishOptions) { o.collections = names }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) PublishOption {
	return func(o *publishOptions) { o.logger = l }
}

// Publish creates every collection, mode and variable of res on port, then
// binds values and aliases. All variables exist before any alias is bound.
// Tokens whose resolution failed hard are skipped and reported; port errors
// abort the publish.
func Publish(ctx context.Context, port Port, res *resolve.Result, opts ...PublishOption) (*Report, error) {
	o := publishOptions{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.collections == nil {
		o.collections = res.Library.Names()
	}

	type varKey struct{ collection, path string }
	var (
		report = &Report{}
		cols   []*token.Collection
		modes  = make(map[string]map[string]ModeID)
		vars   = make(map[varKey]VariableID)
	)

	// Structure first.
	for _, name := range o.collections {
		col, ok := res.Library.Collection(name)
		if !ok {
			return report, fmt.Errorf("collection %q: %w", name, resolve.ErrMissingCollection)
		}
		cid, err := port.CreateCollection(ctx, name)
		if err != nil {
			return report, fmt.Errorf("create collection %q: %w", name, err)
		}
		report.Collections++

		modes[name] = make(map[string]ModeID, len(col.Modes))
		for _, m := range col.Modes {
			mid, err := port.CreateMode(ctx, cid, m)
			if err != nil {
				return report, fmt.Errorf("create mode %q in %q: %w", m, name, err)
			}
			modes[name][m] = mid
			report.Modes++
		}

		for _, t := range col.Tokens {
			vid, err := port.CreateVariable(ctx, cid, VariableSpec{
				Name:        t.Name,
				Kind:        t.Kind,
				Description: t.Description,
				Scopes:      t.Scopes,
				Hidden:      t.Hidden,
			})
			if err != nil {
				return report, fmt.Errorf("create variable %q in %q: %w", t.Name, name, err)
			}
			vars[varKey{name, t.Name}] = vid
			report.Variables++
		}
		cols = append(cols, col)
	}

	// Then bindings.
	for _, col := range cols {
		for _, t := range col.Tokens {
			vid := vars[varKey{col.Name, t.Name}]
			for _, m := range col.Modes {
				mid := modes[col.Name][m]
				r, ok := res.Lookup(col.Name, t.Name, m)
				if !ok || !r.OK {
					report.Skipped = append(report.Skipped, Skipped{Collection: col.Name, Token: t.Name, Mode: m, Err: r.Err})
					o.logger.Warn("Skipping unresolved token", "collection", col.Name, "token", t.Name, "mode", m, "error", r.Err)
					continue
				}

				if r.IsAlias && !r.Fallback {
					if target, ok := vars[varKey{r.Target.Collection, r.Target.Path}]; ok {
						if err := port.SetAlias(ctx, vid, mid, target); err != nil {
							return report, fmt.Errorf("alias %s/%s@%s: %w", col.Name, t.Name, m, err)
						}
						report.Aliases++
						continue
					}
					report.Inlined++
				}
				if r.Fallback {
					report.Fallbacks++
				}
				if err := port.SetValue(ctx, vid, mid, r.Value); err != nil {
					return report, fmt.Errorf("value %s/%s@%s: %w", col.Name, t.Name, m, err)
				}
				report.Values++
			}
		}
	}

	o.logger.Info("Publish complete",
		"collections", report.Collections,
		"variables", report.Variables,
		"aliases", report.Aliases,
		"skipped", len(report.Skipped))
	return report, nil
}
