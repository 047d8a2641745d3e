package interpreter

import (
	"fmt"

	"github.com/godfearingman/ape/pkg/ast"
	"github.com/godfearingman/ape/pkg/runtime"
	"github.com/godfearingman/ape/pkg/token"
)

func (i *Interpreter) evaluateExpression(node ast.Expr, env *runtime.Environment) (float64, error) {
	switch n := node.(type) {
	case *ast.NumberLiteral:
		return n.Value, nil
	case *ast.Variable:
		val, ok := env.Lookup(n.Name)
		if !ok {
			return 0, runtimeError(ErrUndeclaredVariable, n, "Undeclared Variable: %s", n.Name)
		}
		return val, nil
	case *ast.Assignment:
		val, err := i.evaluateExpression(n.Value, env)
		if err != nil {
			return 0, err
		}
		env.Define(n.Name, val)
		return 0, nil
	case *ast.ScopeExpression:
		return i.evaluateScope(n, env)
	case *ast.FunctionDefinition:
		if n.Body == nil {
			return 0, fmt.Errorf("function %s has no body", n.Name)
		}
		i.functions.Define(runtime.NewFunction(n))
		return 0, nil
	case *ast.FunctionCall:
		return i.evaluateCall(n, env)
	case *ast.BinaryExpression:
		return i.evaluateBinary(n, env)
	case *ast.UnaryExpression:
		val, err := i.evaluateExpression(n.Operand, env)
		if err != nil {
			return 0, err
		}
		result, ok := applyUnary(n.Operator, val)
		if !ok {
			return 0, fmt.Errorf("unsupported unary operator %s", n.Operator)
		}
		return result, nil
	case nil:
		return 0, fmt.Errorf("cannot evaluate nil expression")
	default:
		return 0, fmt.Errorf("unsupported expression %T", node)
	}
}

// evaluateScope runs the block in a fresh child scope and yields the value of
// its last statement, zero included.
func (i *Interpreter) evaluateScope(block *ast.ScopeExpression, env *runtime.Environment) (float64, error) {
	scope := env.Extend()
	last := 0.0
	for _, stmt := range block.Body {
		val, err := i.evaluateExpression(stmt, scope)
		if err != nil {
			return 0, err
		}
		last = val
	}
	return last, nil
}

// evaluateCall binds the arguments in a scope pushed on top of the caller's
// scope, so the body also sees the caller's variables.
func (i *Interpreter) evaluateCall(call *ast.FunctionCall, env *runtime.Environment) (float64, error) {
	fn, ok := i.functions.Lookup(call.Name)
	if !ok {
		return 0, runtimeError(ErrUndefinedFunction, call, "Undefined Function: %s", call.Name)
	}
	if fn.Arity() != len(call.Arguments) {
		return 0, runtimeError(ErrArityMismatch, call,
			"Function %s called with wrong number of parameters: expected %d, got %d",
			call.Name, fn.Arity(), len(call.Arguments))
	}

	frame := env.Extend()
	for idx, arg := range call.Arguments {
		val, err := i.evaluateExpression(arg, env)
		if err != nil {
			return 0, err
		}
		frame.Define(fn.Params[idx], val)
	}
	return i.evaluateScope(fn.Body, frame)
}

func (i *Interpreter) evaluateBinary(expr *ast.BinaryExpression, env *runtime.Environment) (float64, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return 0, err
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return 0, err
	}
	if expr.Operator == token.OpDivide && right == 0 {
		return 0, runtimeError(ErrDivisionByZero, expr, "division by zero")
	}
	result, ok := applyBinary(expr.Operator, left, right)
	if !ok {
		return 0, fmt.Errorf("unsupported binary operator %s", expr.Operator)
	}
	return result, nil
}
