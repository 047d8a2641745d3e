package runtime

import (
	"sort"
	"strings"

	"github.com/godfearingman/ape/pkg/ast"
)

// Function is a user-declared function. It captures no environment: its body
// runs on top of whatever scope stack the caller has.
type Function struct {
	Name   string
	Params []string
	Body   *ast.ScopeExpression
}

func NewFunction(def *ast.FunctionDefinition) *Function {
	return &Function{Name: def.Name, Params: def.Params, Body: def.Body}
}

func (f *Function) Arity() int { return len(f.Params) }

// Signature renders the function as name(a, b).
func (f *Function) Signature() string {
	return f.Name + "(" + strings.Join(f.Params, ", ") + ")"
}

// FunctionTable maps names to functions. Variables live elsewhere, so a
// variable and a function may share a name.
type FunctionTable struct {
	funcs map[string]*Function
}

func NewFunctionTable() *FunctionTable {
	return &FunctionTable{funcs: make(map[string]*Function)}
}

// Define registers fn, replacing any earlier function with the same name.
func (t *FunctionTable) Define(fn *Function) {
	t.funcs[fn.Name] = fn
}

func (t *FunctionTable) Lookup(name string) (*Function, bool) {
	fn, ok := t.funcs[name]
	return fn, ok
}

func (t *FunctionTable) Len() int { return len(t.funcs) }

// Names returns the declared function names in sorted order.
func (t *FunctionTable) Names() []string {
	names := make([]string, 0, len(t.funcs))
	for name := range t.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
