package resolve

import (
	"errors"
	"fmt"

	"github.com/gnana997/uitokens/pkg/token"
)

// Resolution is the outcome for one token in one mode.
type Resolution struct {
	Collection string
	Token      string
	Mode       string
	Kind       token.Kind

	// Value is the final literal. OK is false when a hard failure left the
	// token without a value.
	Value token.Value
	OK    bool

	// IsAlias is set for alias bindings; Target is the direct target with
	// its mode resolved.
	IsAlias bool
	Target  token.Alias

	// Fallback marks a placeholder value substituted for a missing target.
	Fallback bool
	Err      error
}

// Result holds every resolution of a run. It is immutable once returned and
// safe for concurrent reads.
type Result struct {
	Library  *token.Library
	Failures []Failure

	resolutions map[key]Resolution
}

func newResult(lib *token.Library) *Result {
	return &Result{Library: lib, resolutions: make(map[key]Resolution, lib.Len()*2)}
}

func (r *Result) add(res Resolution) {
	r.resolutions[key{res.Collection, res.Token, res.Mode}] = res
}

func (r *Result) fail(f Failure) {
	r.Failures = append(r.Failures, f)
}

// Lookup returns the resolution of path in collection for mode.
func (r *Result) Lookup(collection, path, mode string) (Resolution, bool) {
	res, ok := r.resolutions[key{collection, path, mode}]
	return res, ok
}

// Value returns the final value of path in collection for mode. ok is false
// for unknown tokens and hard failures.
func (r *Result) Value(collection, path, mode string) (token.Value, bool) {
	res, ok := r.Lookup(collection, path, mode)
	if !ok || !res.OK {
		return token.Value{}, false
	}
	return res.Value, true
}

// Reference resolves a "{Collection.seg.seg}" reference against the result.
// An empty mode, or one the collection does not declare, reads the
// collection's default mode.
func (r *Result) Reference(ref, mode string) (Resolution, error) {
	a, err := token.ParseReference(ref)
	if err != nil {
		return Resolution{}, err
	}
	col, ok := r.Library.Collection(a.Collection)
	if !ok {
		return Resolution{}, fmt.Errorf("%w: %q", ErrMissingCollection, a.Collection)
	}
	if !col.HasMode(mode) {
		mode = col.DefaultMode()
	}
	res, ok := r.Lookup(a.Collection, a.Path, mode)
	if !ok {
		return Resolution{}, fmt.Errorf("%w: %s", ErrMissingTarget, ref)
	}
	return res, nil
}

// FailuresOf returns the failures of the given kind.
func (r *Result) FailuresOf(kind FailureKind) []Failure {
	var out []Failure
	for _, f := range r.Failures {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// Err joins every failure, or returns nil for a clean run.
func (r *Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}
