package lexer

import (
	"fmt"
	"math"
	"strconv"
	"unicode"

	"fortio.org/log"

	"github.com/godfearingman/ape/pkg/token"
)

var keywords = map[string]token.Operator{
	"sin":   token.OpSin,
	"cos":   token.OpCos,
	"tan":   token.OpTan,
	"log":   token.OpLog,
	"abs":   token.OpAbs,
	"sqrt":  token.OpSqrt,
	"exp":   token.OpExp,
	"asin":  token.OpAsin,
	"acos":  token.OpAcos,
	"atan":  token.OpAtan,
	"sinh":  token.OpSinh,
	"cosh":  token.OpCosh,
	"tanh":  token.OpTanh,
	"floor": token.OpFloor,
	"ceil":  token.OpCeil,
	"round": token.OpRound,
	"let":   token.OpLet,
	"fn":    token.OpFnDefine,
}

var constants = map[string]float64{
	"e":  math.E,
	"pi": math.Pi,
}

var singles = map[rune]token.Operator{
	'{': token.OpLBrace,
	'}': token.OpRBrace,
	'=': token.OpAssign,
	'~': token.OpNot,
	'+': token.OpAdd,
	'-': token.OpSubtract,
	'^': token.OpPower,
	'*': token.OpMultiply,
	'/': token.OpDivide,
	'!': token.OpFactorial,
	'(': token.OpLParen,
	')': token.OpRParen,
	',': token.OpComma,
	'%': token.OpModulo,
}

// Keywords returns the reserved words in no particular order.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for word := range keywords {
		out = append(out, word)
	}
	return out
}

// Lexer scans source text left to right. A Lexer is single use.
type Lexer struct {
	src    []rune
	pos    int
	line   int
	column int
	tokens token.Stream
}

// Tokenize converts source into a token stream, or fails on the first
// invalid character or malformed number.
func Tokenize(source string) (token.Stream, error) {
	return New(source).Tokenize()
}

func New(source string) *Lexer {
	return &Lexer{
		src:    []rune(source),
		column: 1,
		tokens: token.Stream{},
	}
}

func (l *Lexer) Tokenize() (token.Stream, error) {
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		switch {
		case ch == '\n':
			l.pos++
			l.line++
			l.column = 1
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.advance()
		case isDigit(ch):
			if err := l.lexNumber(); err != nil {
				return nil, err
			}
		case unicode.IsLetter(ch):
			l.lexWord()
		default:
			op, ok := singles[ch]
			if !ok {
				return nil, &Error{
					Err:    ErrInvalidCharacter,
					Detail: fmt.Sprintf("%q", ch),
					Line:   l.line,
					Column: l.column,
				}
			}
			l.tokens = append(l.tokens, token.NewOperator(op, l.line, l.column))
			l.advance()
		}
	}
	log.LogVf("lexer: %d tokens over %d lines", len(l.tokens), l.line+1)
	return l.tokens, nil
}

func (l *Lexer) advance() {
	l.pos++
	l.column++
}

func (l *Lexer) lexNumber() error {
	start, column := l.pos, l.column
	dots := 0
	for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '.') {
		if l.src[l.pos] == '.' {
			dots++
		}
		l.advance()
	}
	text := string(l.src[start:l.pos])
	if dots > 1 {
		return &Error{Err: ErrMalformedNumber, Detail: fmt.Sprintf("multiple decimal points in %q", text), Line: l.line, Column: column}
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return &Error{Err: ErrMalformedNumber, Detail: fmt.Sprintf("%q is not a number", text), Line: l.line, Column: column}
	}
	l.tokens = append(l.tokens, token.NewNumber(value, l.line, column))
	return nil
}

func (l *Lexer) lexWord() {
	start, column := l.pos, l.column
	for l.pos < len(l.src) && unicode.IsLetter(l.src[l.pos]) {
		l.advance()
	}
	word := string(l.src[start:l.pos])
	if op, ok := keywords[word]; ok {
		l.tokens = append(l.tokens, token.NewOperator(op, l.line, column))
		return
	}
	if value, ok := constants[word]; ok {
		l.tokens = append(l.tokens, token.NewNumber(value, l.line, column))
		return
	}
	l.tokens = append(l.tokens, token.NewIdentifier(word, l.line, column))
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
