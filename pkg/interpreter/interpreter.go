package interpreter

import (
	"fortio.org/log"

	"github.com/godfearingman/ape/pkg/ast"
	"github.com/godfearingman/ape/pkg/lexer"
	"github.com/godfearingman/ape/pkg/parser"
	"github.com/godfearingman/ape/pkg/runtime"
)

// Interpreter evaluates expression trees against a global scope and a
// function table. An Interpreter is not safe for concurrent use.
type Interpreter struct {
	global    *runtime.Environment
	functions *runtime.FunctionTable
}

// New returns an interpreter with an empty global environment and no
// functions.
func New() *Interpreter {
	return &Interpreter{
		global:    runtime.NewEnvironment(nil),
		functions: runtime.NewFunctionTable(),
	}
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Evaluate runs the statements in order and returns the last non-zero
// statement value, or 0 when there is none. The first fatal error stops
// evaluation.
func (i *Interpreter) Evaluate(exprs []ast.Expr) (float64, error) {
	last := 0.0
	for idx, expr := range exprs {
		val, err := i.evaluateExpression(expr, i.global)
		if err != nil {
			log.LogVf("eval: statement %d failed: %v", idx, err)
			return 0, err
		}
		log.LogVf("eval: statement %d = %v", idx, val)
		if val != 0 {
			last = val
		}
	}
	return last, nil
}

// Eval reduces a single tree in the global scope.
func (i *Interpreter) Eval(expr ast.Expr) (float64, error) {
	return i.evaluateExpression(expr, i.global)
}

// EvaluateSource tokenizes, parses and evaluates src. State persists across
// calls on the same interpreter.
func (i *Interpreter) EvaluateSource(src string) (float64, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return 0, err
	}
	exprs, err := parser.Parse(tokens)
	if err != nil {
		return 0, err
	}
	return i.Evaluate(exprs)
}

// Binding is one global variable.
type Binding struct {
	Name  string
	Value float64
}

// Variables returns the global bindings sorted by name.
func (i *Interpreter) Variables() []Binding {
	out := make([]Binding, 0)
	for _, name := range i.global.Keys() {
		val, _ := i.global.Lookup(name)
		out = append(out, Binding{Name: name, Value: val})
	}
	return out
}

// Functions returns the declared functions sorted by name.
func (i *Interpreter) Functions() []*runtime.Function {
	names := i.functions.Names()
	out := make([]*runtime.Function, 0, len(names))
	for _, name := range names {
		fn, _ := i.functions.Lookup(name)
		out = append(out, fn)
	}
	return out
}
