package runtime

import "sort"

// Environment is one scope of numeric bindings. Scopes chain to their
// parent; the chain from the innermost scope to the global one is the scope
// stack.
type Environment struct {
	values map[string]float64
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]float64),
		parent: parent,
	}
}

// Parent exposes the enclosing scope (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Depth counts the scopes from e up to and including the global one.
func (e *Environment) Depth() int {
	depth := 0
	for env := e; env != nil; env = env.parent {
		depth++
	}
	return depth
}

// Snapshot returns a copy of the bindings held directly by this scope.
func (e *Environment) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out
}

// Define inserts or shadows a binding in this scope. Enclosing scopes are
// never written.
func (e *Environment) Define(name string, value float64) {
	e.values[name] = value
}

// Lookup searches outward through the scope chain.
func (e *Environment) Lookup(name string) (float64, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return v, true
		}
	}
	return 0, false
}

// Keys returns the bindings of this scope in sorted order.
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Extend creates a child scope.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}
