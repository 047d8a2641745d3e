package ast

import "github.com/godfearingman/ape/pkg/token"

// Literal and reference helpers.

func Num(value float64) *NumberLiteral {
	return NewNumberLiteral(value)
}

func Var(name string) *Variable {
	return NewVariable(name)
}

// Operator helpers.

func Bin(op token.Operator, left, right Expr) *BinaryExpression {
	return NewBinaryExpression(op, left, right)
}

func Add(left, right Expr) *BinaryExpression { return Bin(token.OpAdd, left, right) }
func Sub(left, right Expr) *BinaryExpression { return Bin(token.OpSubtract, left, right) }
func Mul(left, right Expr) *BinaryExpression { return Bin(token.OpMultiply, left, right) }
func Div(left, right Expr) *BinaryExpression { return Bin(token.OpDivide, left, right) }
func Pow(left, right Expr) *BinaryExpression { return Bin(token.OpPower, left, right) }
func Mod(left, right Expr) *BinaryExpression { return Bin(token.OpModulo, left, right) }

// Log is log base `base` of value.
func Log(value, base Expr) *BinaryExpression { return Bin(token.OpLog, value, base) }

func Un(op token.Operator, operand Expr) *UnaryExpression {
	return NewUnaryExpression(op, operand)
}

func Neg(operand Expr) *UnaryExpression  { return Un(token.OpSubtract, operand) }
func Not(operand Expr) *UnaryExpression  { return Un(token.OpNot, operand) }
func Fact(operand Expr) *UnaryExpression { return Un(token.OpFactorial, operand) }

// Binding and block helpers.

func Let(name string, value Expr) *Assignment {
	return NewAssignment(name, value)
}

func Block(body ...Expr) *ScopeExpression {
	return NewScopeExpression(body)
}

func Fn(name string, params []string, body ...Expr) *FunctionDefinition {
	return NewFunctionDefinition(name, params, Block(body...))
}

func Call(name string, args ...Expr) *FunctionCall {
	return NewFunctionCall(name, args)
}
