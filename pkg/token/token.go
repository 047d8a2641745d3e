package token

import (
	"fmt"
	"strconv"
)

// Operator tags every non-literal token and every AST operation.
type Operator string

const (
	OpNone Operator = ""

	// Arithmetic
	OpAdd       Operator = "+"
	OpSubtract  Operator = "-"
	OpMultiply  Operator = "*"
	OpDivide    Operator = "/"
	OpPower     Operator = "^"
	OpModulo    Operator = "%"
	OpNot       Operator = "~"
	OpFactorial Operator = "!"

	// Control
	OpLet      Operator = "let"
	OpAssign   Operator = "="
	OpLBrace   Operator = "{"
	OpRBrace   Operator = "}"
	OpLParen   Operator = "("
	OpRParen   Operator = ")"
	OpComma    Operator = ","
	OpFnDefine Operator = "fn"

	// Named functions
	OpSin   Operator = "sin"
	OpCos   Operator = "cos"
	OpTan   Operator = "tan"
	OpAsin  Operator = "asin"
	OpAcos  Operator = "acos"
	OpAtan  Operator = "atan"
	OpSinh  Operator = "sinh"
	OpCosh  Operator = "cosh"
	OpTanh  Operator = "tanh"
	OpSqrt  Operator = "sqrt"
	OpExp   Operator = "exp"
	OpAbs   Operator = "abs"
	OpFloor Operator = "floor"
	OpCeil  Operator = "ceil"
	OpRound Operator = "round"
	OpLog   Operator = "log"
)

var unaryFunctions = map[Operator]struct{}{
	OpSin: {}, OpCos: {}, OpTan: {},
	OpAsin: {}, OpAcos: {}, OpAtan: {},
	OpSinh: {}, OpCosh: {}, OpTanh: {},
	OpSqrt: {}, OpExp: {}, OpAbs: {},
	OpFloor: {}, OpCeil: {}, OpRound: {},
}

// IsUnaryFunction reports whether op is a named single-argument math function.
func (op Operator) IsUnaryFunction() bool {
	_, ok := unaryFunctions[op]
	return ok
}

func (op Operator) String() string {
	if op == OpNone {
		return "<none>"
	}
	return string(op)
}

// Kind says which of a token's payload fields is populated.
type Kind int

const (
	KindOperator Kind = iota
	KindNumber
	KindIdentifier
)

func (k Kind) String() string {
	switch k {
	case KindOperator:
		return "operator"
	case KindNumber:
		return "number"
	case KindIdentifier:
		return "identifier"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is a single lexical unit. Line is 0-based (it counts the newlines
// seen before the token); Column is 1-based.
type Token struct {
	Kind   Kind
	Op     Operator
	Number float64
	Ident  string
	Line   int
	Column int
}

// Stream is the ordered output of the lexer.
type Stream []Token

func NewOperator(op Operator, line, column int) Token {
	return Token{Kind: KindOperator, Op: op, Line: line, Column: column}
}

func NewNumber(value float64, line, column int) Token {
	return Token{Kind: KindNumber, Number: value, Line: line, Column: column}
}

func NewIdentifier(name string, line, column int) Token {
	return Token{Kind: KindIdentifier, Ident: name, Line: line, Column: column}
}

// Is reports whether the token is the operator op.
func (t Token) Is(op Operator) bool {
	return t.Kind == KindOperator && t.Op == op
}

func (t Token) String() string {
	switch t.Kind {
	case KindNumber:
		return "number " + strconv.FormatFloat(t.Number, 'g', -1, 64)
	case KindIdentifier:
		return "identifier " + t.Ident
	default:
		return fmt.Sprintf("'%s'", t.Op)
	}
}
