package host

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/gnana997/uitokens/pkg/token"
)

// Collection is a collection stored by Memory.
type Collection struct {
	ID        CollectionID
	Name      string
	Modes     []Mode
	Variables []VariableID
}

// Mode is a named mode of a collection.
type Mode struct {
	ID   ModeID
	Name string
}

// Binding is a variable's content in one mode: a value or an alias.
type Binding struct {
	Value   token.Value
	AliasOf VariableID // empty for values
}

// Variable is a variable stored by Memory.
type Variable struct {
	ID         VariableID
	Collection CollectionID
	VariableSpec
	Values map[ModeID]Binding
}

// Memory is an in-memory Port. It is safe for concurrent use.
type Memory struct {
	mu          sync.RWMutex
	collections map[CollectionID]*Collection
	order       []CollectionID
	variables   map[VariableID]*Variable
}

// NewMemory creates an empty host.
func NewMemory() *Memory {
	return &Memory{
		collections: make(map[CollectionID]*Collection),
		variables:   make(map[VariableID]*Variable),
	}
}

var _ Port = (*Memory)(nil)

func (m *Memory) CreateCollection(ctx context.Context, name string) (CollectionID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.collections {
		if c.Name == name {
			return "", fmt.Errorf("collection %q: %w", name, ErrDuplicate)
		}
	}
	id := CollectionID(uuid.NewString())
	m.collections[id] = &Collection{ID: id, Name: name}
	m.order = append(m.order, id)
	return id, nil
}

func (m *Memory) CreateMode(ctx context.Context, collection CollectionID, name string) (ModeID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[collection]
	if !ok {
		return "", fmt.Errorf("collection %s: %w", collection, ErrNotFound)
	}
	if slices.ContainsFunc(c.Modes, func(md Mode) bool { return md.Name == name }) {
		return "", fmt.Errorf("mode %q in %q: %w", name, c.Name, ErrDuplicate)
	}
	id := ModeID(uuid.NewString())
	c.Modes = append(c.Modes, Mode{ID: id, Name: name})
	return id, nil
}

func (m *Memory) CreateVariable(ctx context.Context, collection CollectionID, spec VariableSpec) (VariableID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[collection]
	if !ok {
		return "", fmt.Errorf("collection %s: %w", collection, ErrNotFound)
	}
	for _, vid := range c.Variables {
		if m.variables[vid].Name == spec.Name {
			return "", fmt.Errorf("variable %q in %q: %w", spec.Name, c.Name, ErrDuplicate)
		}
	}
	id := VariableID(uuid.NewString())
	spec.Scopes = slices.Clone(spec.Scopes)
	m.variables[id] = &Variable{ID: id, Collection: collection, VariableSpec: spec, Values: make(map[ModeID]Binding)}
	c.Variables = append(c.Variables, id)
	return id, nil
}

func (m *Memory) SetValue(ctx context.Context, variable VariableID, mode ModeID, value token.Value) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	v, err := m.variableInMode(variable, mode)
	if err != nil {
		return err
	}
	if value.Kind != v.Kind {
		return fmt.Errorf("variable %q: %s value for %s variable: %w", v.Name, value.Kind, v.Kind, ErrKind)
	}
	v.Values[mode] = Binding{Value: value}
	return nil
}

func (m *Memory) SetAlias(ctx context.Context, variable VariableID, mode ModeID, target VariableID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	v, err := m.variableInMode(variable, mode)
	if err != nil {
		return err
	}
	t, ok := m.variables[target]
	if !ok {
		return fmt.Errorf("alias target %s: %w", target, ErrNotFound)
	}
	if t.Kind != v.Kind {
		return fmt.Errorf("variable %q: alias to %s variable %q: %w", v.Name, t.Kind, t.Name, ErrKind)
	}
	v.Values[mode] = Binding{AliasOf: target}
	return nil
}

// variableInMode checks that mode belongs to the variable's collection. Must
// hold mu.
func (m *Memory) variableInMode(variable VariableID, mode ModeID) (*Variable, error) {
	v, ok := m.variables[variable]
	if !ok {
		return nil, fmt.Errorf("variable %s: %w", variable, ErrNotFound)
	}
	c := m.collections[v.Collection]
	if !slices.ContainsFunc(c.Modes, func(md Mode) bool { return md.ID == mode }) {
		return nil, fmt.Errorf("mode %s in %q: %w", mode, c.Name, ErrNotFound)
	}
	return v, nil
}

// Collections returns copies of the stored collections in creation order.
func (m *Memory) Collections() []Collection {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Collection, 0, len(m.order))
	for _, id := range m.order {
		c := *m.collections[id]
		c.Modes = slices.Clone(c.Modes)
		c.Variables = slices.Clone(c.Variables)
		out = append(out, c)
	}
	return out
}

// CollectionByName finds a collection by name.
func (m *Memory) CollectionByName(name string) (Collection, bool) {
	for _, c := range m.Collections() {
		if c.Name == name {
			return c, true
		}
	}
	return Collection{}, false
}

// Variable returns a copy of the variable.
func (m *Memory) Variable(id VariableID) (Variable, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.variables[id]
	if !ok {
		return Variable{}, false
	}
	cp := *v
	cp.Values = make(map[ModeID]Binding, len(v.Values))
	for k, b := range v.Values {
		cp.Values[k] = b
	}
	return cp, true
}

// Lookup finds a variable by collection and variable name.
func (m *Memory) Lookup(collection, name string) (Variable, bool) {
	c, ok := m.CollectionByName(collection)
	if !ok {
		return Variable{}, false
	}
	for _, id := range c.Variables {
		if v, ok := m.Variable(id); ok && v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

// Len returns the number of variables.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.variables)
}
