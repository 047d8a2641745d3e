package interpreter

import (
	"errors"
	"fmt"

	"github.com/godfearingman/ape/pkg/ast"
)

var (
	ErrUndeclaredVariable = errors.New("Undeclared Variable")
	ErrUndefinedFunction  = errors.New("Undefined Function")
	ErrArityMismatch      = errors.New("wrong number of parameters")
	ErrDivisionByZero     = errors.New("division by zero")
)

// Error is a fatal evaluation failure. Pos is the position of the node that
// failed, when the tree came from the parser.
type Error struct {
	Err     error
	Message string
	Pos     ast.Position
}

func (e *Error) Error() string {
	if !e.Pos.Known() {
		return e.Message
	}
	return fmt.Sprintf("%s at line %d, column %d", e.Message, e.Pos.Line+1, e.Pos.Column)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func runtimeError(kind error, node ast.Expr, format string, args ...any) *Error {
	err := &Error{Err: kind, Message: fmt.Sprintf(format, args...)}
	if node != nil {
		err.Pos = node.Pos()
	}
	return err
}
