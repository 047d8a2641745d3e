package driver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/godfearingman/ape/pkg/interpreter"
	"github.com/godfearingman/ape/pkg/lexer"
	"github.com/godfearingman/ape/pkg/parser"
)

// FormatError renders lexer, parser and runtime errors as a snippet of src
// with a caret under the failing column:
//
//	parse error in calc.ape at 2:1: Missing ')'
//
//	   1 | let x = 1
//	   2 | (x + 3
//	     | ^
//
// Other errors, and runtime errors without a position, render as their
// message alone.
func FormatError(err error, name, src string) string {
	if err == nil {
		return ""
	}
	var (
		lexErr   *lexer.Error
		parseErr *parser.Error
		rtErr    *interpreter.Error
	)
	switch {
	case errors.As(err, &lexErr):
		msg := lexErr.Err.Error()
		if lexErr.Detail != "" {
			msg += ", " + lexErr.Detail
		}
		return snippet(src, "lex error", name, lexErr.Line+1, lexErr.Column, msg)
	case errors.As(err, &parseErr):
		return snippet(src, "parse error", name, parseErr.Line+1, parseErr.Column, parseErr.Message)
	case errors.As(err, &rtErr) && rtErr.Pos.Known():
		return snippet(src, "runtime error", name, rtErr.Pos.Line+1, rtErr.Pos.Column, rtErr.Message)
	default:
		return err.Error()
	}
}

// snippet shows the failing line with one line of context on either side.
// line and col are 1-based and clamped to the source.
func snippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	line = min(max(line, 1), len(lines))
	col = max(col, 1)
	text := strings.TrimRight(lines[line-1], "\r")

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, strings.TrimRight(lines[line-2], "\r"))
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, text)
	fmt.Fprintf(&b, "     | %s^\n", caretPad(text, col))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, strings.TrimRight(lines[line], "\r"))
	}
	return b.String()
}

// caretPad keeps tabs from the source line so the caret lines up.
func caretPad(text string, col int) string {
	var b strings.Builder
	for i, r := range []rune(text) {
		if i >= col-1 {
			break
		}
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	for n := len([]rune(text)); n < col-1; n++ {
		b.WriteByte(' ')
	}
	return b.String()
}
