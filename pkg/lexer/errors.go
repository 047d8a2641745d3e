package lexer

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCharacter = errors.New("Invalid character")
	ErrMalformedNumber  = errors.New("Failed to parse number")
)

// Error is the first failure met while tokenizing. Line is 0-based like
// token lines; Column is 1-based.
type Error struct {
	Err    error
	Detail string
	Line   int
	Column int
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v at line %d, column %d", e.Err, e.Line+1, e.Column)
	}
	return fmt.Sprintf("%v, %s at line %d, column %d", e.Err, e.Detail, e.Line+1, e.Column)
}

func (e *Error) Unwrap() error {
	return e.Err
}
