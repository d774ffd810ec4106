// Package host models the design tool that receives published variables.
// The engine never calls a host; Publish drives a Port from a resolved run.
package host

import (
	"context"
	"errors"

	"github.com/gnana997/uitokens/pkg/token"
)

// Host identifiers are opaque strings chosen by the implementation.
type (
	CollectionID string
	ModeID       string
	VariableID   string
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
	ErrKind      = errors.New("kind mismatch")
)

// VariableSpec describes a variable to create.
type VariableSpec struct {
	Name        string
	Kind        token.Kind
	Description string
	Scopes      []token.Scope
	Hidden      bool
}

// Port is the host's variables API. Calls may be deferred or batched by the
// host; every call takes a context.
type Port interface {
	CreateCollection(ctx context.Context, name string) (CollectionID, error)
	CreateMode(ctx context.Context, collection CollectionID, name string) (ModeID, error)
	CreateVariable(ctx context.Context, collection CollectionID, spec VariableSpec) (VariableID, error)
	SetValue(ctx context.Context, variable VariableID, mode ModeID, value token.Value) error
	SetAlias(ctx context.Context, variable VariableID, mode ModeID, target VariableID) error
}
