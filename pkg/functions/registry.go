// Package functions holds the named functions that expressions can call.
//
// A [Registry] maps names to implementations. [NewRegistry] starts from the
// builtin functions (histdivide, efficiency, max_value_index, ...); callers
// add their own with [Registry.Register].
//
// # Example
//
//	reg := functions.NewRegistry()
//	err := reg.Register("double", func(ctx context.Context, args ...interface{}) (interface{}, error) {
//	    obj, err := functions.ObjectArg("double", args, 0)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return binned.Scale(obj, 2)
//	}, false)
package functions

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/tfesenbecker/palisade/pkg/types"
)

// Func is the signature of every function callable from an expression.
// args holds the evaluated arguments in order: float64 numbers, strings,
// []interface{} lists, binned.Object values and binned.Bin snapshots.
type Func func(ctx context.Context, args ...interface{}) (interface{}, error)

// Def describes a function together with its arity bounds.
type Def struct {
	// Name is the function name as it appears inside expressions.
	Name string
	// MinArgs and MaxArgs bound the argument count; MaxArgs -1 is unlimited.
	MinArgs int
	MaxArgs int
	// Doc is a one-line description shown by the REPL.
	Doc string
	// Fn is the implementation.
	Fn Func
}

// Registry is a set of named functions. It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Def
}

// NewEmptyRegistry returns a registry without any functions.
func NewEmptyRegistry() *Registry {
	return &Registry{defs: make(map[string]Def)}
}

// NewRegistry returns a registry holding the builtin functions.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for _, d := range Builtins() {
		r.defs[d.Name] = d
	}
	return r
}

// Register adds fn under name with unrestricted arity. Unless allowOverride
// is set, an existing name fails with DuplicateNameError.
func (r *Registry) Register(name string, fn Func, allowOverride bool) error {
	return r.RegisterDef(Def{Name: name, MaxArgs: -1, Fn: fn}, allowOverride)
}

// RegisterDef adds a full definition.
func (r *Registry) RegisterDef(d Def, allowOverride bool) error {
	if d.Name == "" || d.Fn == nil {
		return types.ArgumentError.New("function definitions need a name and an implementation")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[d.Name]; exists && !allowOverride {
		return types.DuplicateNameError.New("function %q is already registered", d.Name)
	}
	r.defs[d.Name] = d
	return nil
}

// RegisterAll adds every definition, stopping at the first failure.
func (r *Registry) RegisterAll(defs []Def, allowOverride bool) error {
	for _, d := range defs {
		if err := r.RegisterDef(d, allowOverride); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Def, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[name]
	return d, ok
}

// Call checks the arity of name and invokes it.
func (r *Registry) Call(ctx context.Context, name string, args ...interface{}) (interface{}, error) {
	d, ok := r.Lookup(name)
	if !ok {
		return nil, types.UnknownFunctionError.New("unknown function %q", name)
	}
	if len(args) < d.MinArgs || (d.MaxArgs >= 0 && len(args) > d.MaxArgs) {
		return nil, types.ArgumentError.New("%s() takes %s, got %d", name, arity(d), len(args))
	}
	return d.Fn(ctx, args...)
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := NewEmptyRegistry()
	for name, d := range r.defs {
		c.defs[name] = d
	}
	return c
}

func arity(d Def) string {
	switch {
	case d.MaxArgs < 0:
		return plural(d.MinArgs) + " or more"
	case d.MinArgs == d.MaxArgs:
		return plural(d.MinArgs)
	}
	return "between " + strconv.Itoa(d.MinArgs) + " and " + plural(d.MaxArgs)
}

func plural(n int) string {
	if n == 1 {
		return "1 argument"
	}
	return strconv.Itoa(n) + " arguments"
}
