package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/godfearingman/ape/pkg/ast"
	"github.com/godfearingman/ape/pkg/lexer"
)

func parseSource(t *testing.T, src string) ([]ast.Expr, error) {
	t.Helper()
	tokens, err := lexer.Tokenize(src)
	require.NoError(t, err, "tokenize %q", src)
	return Parse(tokens)
}

func mustParse(t *testing.T, src string) []ast.Expr {
	t.Helper()
	exprs, err := parseSource(t, src)
	require.NoError(t, err, "parse %q", src)
	return exprs
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []ast.Expr
	}{
		{
			name: "empty",
			src:  "",
			want: []ast.Expr{},
		},
		{
			name: "precedence",
			src:  "2 + 3 * 4",
			want: []ast.Expr{ast.Add(ast.Num(2), ast.Mul(ast.Num(3), ast.Num(4)))},
		},
		{
			name: "grouping",
			src:  "(2 + 3) * 4",
			want: []ast.Expr{ast.Mul(ast.Add(ast.Num(2), ast.Num(3)), ast.Num(4))},
		},
		{
			name: "power binds tighter than add",
			src:  "2 ^ 3 + 1",
			want: []ast.Expr{ast.Add(ast.Pow(ast.Num(2), ast.Num(3)), ast.Num(1))},
		},
		{
			name: "power is left associative",
			src:  "2 ^ 3 ^ 2",
			want: []ast.Expr{ast.Pow(ast.Pow(ast.Num(2), ast.Num(3)), ast.Num(2))},
		},
		{
			name: "subtraction is left associative",
			src:  "10 - 4 - 3",
			want: []ast.Expr{ast.Sub(ast.Sub(ast.Num(10), ast.Num(4)), ast.Num(3))},
		},
		{
			name: "let then use",
			src:  "let x = 5\nx + 3",
			want: []ast.Expr{
				ast.Let("x", ast.Num(5)),
				ast.Add(ast.Var("x"), ast.Num(3)),
			},
		},
		{
			name: "bare assignment",
			src:  "x = 2 * 3",
			want: []ast.Expr{ast.Let("x", ast.Mul(ast.Num(2), ast.Num(3)))},
		},
		{
			name: "shadowing block",
			src:  "let x = 1\n{ let x = 2\nx + 3 }\nx",
			want: []ast.Expr{
				ast.Let("x", ast.Num(1)),
				ast.Block(ast.Let("x", ast.Num(2)), ast.Add(ast.Var("x"), ast.Num(3))),
				ast.Var("x"),
			},
		},
		{
			name: "unary functions take a primary",
			src:  "sin(0) + sqrt 16",
			want: []ast.Expr{ast.Add(ast.Un("sin", ast.Num(0)), ast.Un("sqrt", ast.Num(16)))},
		},
		{
			name: "log defaults to base ten",
			src:  "log(100)",
			want: []ast.Expr{ast.Log(ast.Num(100), ast.Num(10))},
		},
		{
			name: "log with base",
			src:  "log(8, 2)",
			want: []ast.Expr{ast.Log(ast.Num(8), ast.Num(2))},
		},
		{
			name: "factorial of modulo",
			src:  "7 % 4!",
			want: []ast.Expr{ast.Fact(ast.Mod(ast.Num(7), ast.Num(4)))},
		},
		{
			name: "prefix factorial",
			src:  "!5",
			want: []ast.Expr{ast.Fact(ast.Num(5))},
		},
		{
			name: "negate and not",
			src:  "-x * ~2",
			want: []ast.Expr{ast.Mul(ast.Neg(ast.Var("x")), ast.Not(ast.Num(2)))},
		},
		{
			name: "function definition and call",
			src:  "fn test(x, y) {\n x + y\n}\ntest(5,2) + test(5,2)",
			want: []ast.Expr{
				ast.Fn("test", []string{"x", "y"}, ast.Add(ast.Var("x"), ast.Var("y"))),
				ast.Add(
					ast.Call("test", ast.Num(5), ast.Num(2)),
					ast.Call("test", ast.Num(5), ast.Num(2)),
				),
			},
		},
		{
			name: "call without arguments",
			src:  "f()",
			want: []ast.Expr{ast.Call("f")},
		},
		{
			name: "newline ends statement",
			src:  "let x = 5\n-3",
			want: []ast.Expr{ast.Let("x", ast.Num(5)), ast.Neg(ast.Num(3))},
		},
		{
			name: "identifier then group on next line",
			src:  "x\n(2)",
			want: []ast.Expr{ast.Var("x"), ast.Num(2)},
		},
		{
			name: "newlines inside parens",
			src:  "(1 +\n2) * 3",
			want: []ast.Expr{ast.Mul(ast.Add(ast.Num(1), ast.Num(2)), ast.Num(3))},
		},
		{
			name: "call arguments across lines",
			src:  "f(1,\n2)",
			want: []ast.Expr{ast.Call("f", ast.Num(1), ast.Num(2))},
		},
		{
			name: "block inside parens keeps line boundaries",
			src:  "({ 1\n-2 })",
			want: []ast.Expr{ast.Block(ast.Num(1), ast.Neg(ast.Num(2)))},
		},
		{
			name: "empty block",
			src:  "{}",
			want: []ast.Expr{ast.Block()},
		},
		{
			name: "nested blocks",
			src:  "let x = 1\n{\n let y = 2\n let z = {\n  let x = 3\n  x + y\n }\n z + x\n}",
			want: []ast.Expr{
				ast.Let("x", ast.Num(1)),
				ast.Block(
					ast.Let("y", ast.Num(2)),
					ast.Let("z", ast.Block(ast.Let("x", ast.Num(3)), ast.Add(ast.Var("x"), ast.Var("y")))),
					ast.Add(ast.Var("z"), ast.Var("x")),
				),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := mustParse(t, tc.src)
			if diff := cmp.Diff(ast.Program(tc.want), ast.Program(got)); diff != "" {
				t.Fatalf("Parse(%q) mismatch (-want +got):\n%s", tc.src, diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		kind    error
		message string
	}{
		{name: "unmatched paren", src: "(2 + 3", kind: ErrMissingParen, message: "Missing ')'"},
		{name: "unmatched call paren", src: "f(1, 2", kind: ErrMissingParen, message: "Missing ')'"},
		{name: "unmatched log paren", src: "log(100", kind: ErrMissingParen, message: "Missing ')'"},
		{name: "unclosed brace", src: "{ let x = 5", kind: ErrMissingBrace, message: "Missing '}'"},
		{name: "extra brace", src: "{ let x = 5 } }", kind: ErrUnexpectedToken, message: "Expected number"},
		{name: "let without identifier", src: "let 5 = 10", kind: ErrExpectedIdentifier, message: "Expected identifier after let"},
		{name: "let at end", src: "let", kind: ErrExpectedIdentifier, message: "Expected identifier after let"},
		{name: "let without assign", src: "let x 5", kind: ErrUnexpectedToken, message: "Expected '='"},
		{name: "function name", src: "fn 5() {}", kind: ErrExpectedIdentifier, message: "Expected function name"},
		{name: "function parameter", src: "fn f(1) {}", kind: ErrExpectedIdentifier, message: "Expected parameter name"},
		{name: "function without body", src: "fn f(x) x", kind: ErrUnexpectedToken, message: "Expected '{'"},
		{name: "call arguments need commas", src: "f(1 2)", kind: ErrUnexpectedToken, message: "Expected ',' or ')'"},
		{name: "dangling operator", src: "2 +", kind: ErrEmptyInput, message: "Empty input"},
		{name: "log without paren", src: "log 100", kind: ErrUnexpectedToken, message: "Expected '('"},
		{name: "stray operator", src: "* 2", kind: ErrUnexpectedToken, message: "Expected number"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			exprs, err := parseSource(t, tc.src)
			require.Error(t, err)
			require.Nil(t, exprs)
			require.ErrorIs(t, err, tc.kind)
			require.Contains(t, err.Error(), tc.message)

			var parseErr *Error
			require.True(t, errors.As(err, &parseErr), "expected *Error, got %T", err)
		})
	}
}

func TestParseErrorLocation(t *testing.T) {
	_, err := parseSource(t, "1\n(2 + 3")
	var parseErr *Error
	require.True(t, errors.As(err, &parseErr))
	require.Equal(t, 1, parseErr.Line)
	require.Equal(t, 1, parseErr.Column)
	require.Equal(t, "Missing ')' @ 5 (line 2, column 1)", parseErr.Error())
}

func TestParseRecordsPositions(t *testing.T) {
	exprs := mustParse(t, "let x = 1\n  x * 2")
	require.Len(t, exprs, 2)
	require.Equal(t, ast.Position{Line: 0, Column: 1}, exprs[0].Pos())

	mul, ok := exprs[1].(*ast.BinaryExpression)
	require.True(t, ok, "got %T", exprs[1])
	require.Equal(t, ast.Position{Line: 1, Column: 5}, mul.Pos())
	require.Equal(t, ast.Position{Line: 1, Column: 3}, mul.Left.Pos())
}
