package parser

import (
	"errors"
	"fmt"

	"github.com/godfearingman/ape/pkg/token"
)

var (
	ErrUnexpectedToken    = errors.New("unexpected token")
	ErrMissingParen       = errors.New("missing ')'")
	ErrMissingBrace       = errors.New("missing '}'")
	ErrExpectedIdentifier = errors.New("expected identifier")
	ErrEmptyInput         = errors.New("empty input")
)

// Error includes a message plus the cursor and source location of the token
// the parser was looking at. Line is 0-based.
type Error struct {
	Err     error
	Message string
	Cursor  int
	Line    int
	Column  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s @ %d (line %d, column %d)", e.Message, e.Cursor, e.Line+1, e.Column)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (p *Parser) errorAt(kind error, tok token.Token, format string, args ...any) *Error {
	return &Error{
		Err:     kind,
		Message: fmt.Sprintf(format, args...),
		Cursor:  p.cursor,
		Line:    tok.Line,
		Column:  tok.Column,
	}
}

// errorAtEnd reports a failure past the last token, located at that token.
func (p *Parser) errorAtEnd(kind error, format string, args ...any) *Error {
	var last token.Token
	if n := len(p.tokens); n > 0 {
		last = p.tokens[n-1]
	}
	return p.errorAt(kind, last, format, args...)
}
