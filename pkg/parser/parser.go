package parser

import (
	"fortio.org/log"

	"github.com/godfearingman/ape/pkg/ast"
	"github.com/godfearingman/ape/pkg/token"
)

// Parser is a recursive-descent parser over a token stream.
//
// Statements are separated by newlines rather than a terminator token. An
// infix or postfix continuation (binary operator, `%`, postfix `!`, `=` or
// `(` after an identifier) is taken only when the next token sits on the
// line the statement started on, or on the line of the token just consumed.
// Inside parentheses every newline is ignored; a brace block re-establishes
// line boundaries for its own statements.
type Parser struct {
	tokens     token.Stream
	cursor     int
	stmtLine   int
	parenDepth int
}

func New(tokens token.Stream) *Parser {
	return &Parser{tokens: tokens}
}

// Parse converts a token stream into one expression tree per statement.
func Parse(tokens token.Stream) ([]ast.Expr, error) {
	return New(tokens).ParseProgram()
}

func (p *Parser) ParseProgram() ([]ast.Expr, error) {
	exprs := make([]ast.Expr, 0)
	for p.cursor < len(p.tokens) {
		expr, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	log.LogVf("parser: %d statements from %d tokens", len(exprs), len(p.tokens))
	return exprs, nil
}

func (p *Parser) parseStatement() (ast.Expr, error) {
	p.stmtLine = p.tokens[p.cursor].Line
	return p.parseExpression()
}

func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.parseAdditive()
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.continues(token.OpAdd, token.OpSubtract)
		if !ok {
			return left, nil
		}
		p.cursor++
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = at(ast.NewBinaryExpression(tok.Op, left, right), tok)
	}
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.continues(token.OpMultiply, token.OpDivide)
		if !ok {
			return left, nil
		}
		p.cursor++
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = at(ast.NewBinaryExpression(tok.Op, left, right), tok)
	}
}

// parsePower is left associative: 2^3^2 is (2^3)^2.
func (p *Parser) parsePower() (ast.Expr, error) {
	left, err := p.parseFunction()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.continues(token.OpPower)
		if !ok {
			return left, nil
		}
		p.cursor++
		right, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		left = at(ast.NewBinaryExpression(token.OpPower, left, right), tok)
	}
}

func (p *Parser) parseFunction() (ast.Expr, error) {
	if tok, ok := p.peek(); ok {
		switch {
		case tok.Op.IsUnaryFunction() || tok.Is(token.OpFactorial):
			p.cursor++
			operand, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			return at(ast.NewUnaryExpression(tok.Op, operand), tok), nil
		case tok.Is(token.OpLog):
			p.cursor++
			return p.parseLog(tok)
		}
	}

	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.continues(token.OpModulo); ok {
		p.cursor++
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		expr = at(ast.NewBinaryExpression(token.OpModulo, expr, right), tok)
	}
	if tok, ok := p.continues(token.OpFactorial); ok {
		p.cursor++
		expr = at(ast.NewUnaryExpression(token.OpFactorial, expr), tok)
	}
	return expr, nil
}

// parseLog handles log(x) (base 10) and log(x, b).
func (p *Parser) parseLog(logTok token.Token) (ast.Expr, error) {
	open, err := p.expect(token.OpLParen)
	if err != nil {
		return nil, err
	}
	p.parenDepth++
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	var base ast.Expr = at(ast.NewNumberLiteral(10), logTok)
	if tok, ok := p.peek(); ok && tok.Is(token.OpComma) {
		p.cursor++
		if base, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if err := p.closeParen(open); err != nil {
		return nil, err
	}
	return at(ast.NewBinaryExpression(token.OpLog, value, base), logTok), nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok, err := p.advance()
	if err != nil {
		return nil, err
	}
	switch {
	case tok.Kind == token.KindNumber:
		return at(ast.NewNumberLiteral(tok.Number), tok), nil
	case tok.Kind == token.KindIdentifier:
		return p.parseIdentifier(tok)
	case tok.Is(token.OpFnDefine):
		return p.parseFunctionDefinition(tok)
	case tok.Is(token.OpLBrace):
		return p.parseScope(tok)
	case tok.Is(token.OpLet):
		return p.parseLet(tok)
	case tok.Is(token.OpSubtract), tok.Is(token.OpNot):
		operand, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return at(ast.NewUnaryExpression(tok.Op, operand), tok), nil
	case tok.Is(token.OpLParen):
		p.parenDepth++
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.closeParen(tok); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, p.errorAt(ErrUnexpectedToken, tok, "Expected number got %s", tok)
	}
}

// parseIdentifier resolves a bare identifier into a variable reference, an
// assignment `x = e` or a call `f(args)`.
func (p *Parser) parseIdentifier(name token.Token) (ast.Expr, error) {
	if _, ok := p.continues(token.OpAssign); ok {
		p.cursor++
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return at(ast.NewAssignment(name.Ident, value), name), nil
	}
	if open, ok := p.continues(token.OpLParen); ok {
		p.cursor++
		return p.parseCall(name, open)
	}
	return at(ast.NewVariable(name.Ident), name), nil
}

func (p *Parser) parseCall(name, open token.Token) (ast.Expr, error) {
	p.parenDepth++
	args := make([]ast.Expr, 0)
	if tok, ok := p.peek(); ok && tok.Is(token.OpRParen) {
		p.cursor++
		p.parenDepth--
		return at(ast.NewFunctionCall(name.Ident, args), name), nil
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		tok, ok := p.peek()
		switch {
		case !ok:
			return nil, p.errorAt(ErrMissingParen, open, "Missing ')'")
		case tok.Is(token.OpComma):
			p.cursor++
		case tok.Is(token.OpRParen):
			p.cursor++
			p.parenDepth--
			return at(ast.NewFunctionCall(name.Ident, args), name), nil
		default:
			return nil, p.errorAt(ErrUnexpectedToken, tok, "Expected ',' or ')' got %s", tok)
		}
	}
}

func (p *Parser) parseLet(letTok token.Token) (ast.Expr, error) {
	name, ok := p.peek()
	if !ok {
		return nil, p.errorAtEnd(ErrExpectedIdentifier, "Expected identifier after let")
	}
	if name.Kind != token.KindIdentifier {
		return nil, p.errorAt(ErrExpectedIdentifier, name, "Expected identifier after let got %s", name)
	}
	p.cursor++
	if _, err := p.expect(token.OpAssign); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return at(ast.NewAssignment(name.Ident, value), letTok), nil
}

// parseScope parses the statements of a `{ ... }` block; open is the brace
// that was already consumed.
func (p *Parser) parseScope(open token.Token) (*ast.ScopeExpression, error) {
	savedLine, savedDepth := p.stmtLine, p.parenDepth
	p.parenDepth = 0

	body := make([]ast.Expr, 0)
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, p.errorAt(ErrMissingBrace, open, "Missing '}'")
		}
		if tok.Is(token.OpRBrace) {
			p.cursor++
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}

	p.stmtLine, p.parenDepth = savedLine, savedDepth
	return at(ast.NewScopeExpression(body), open), nil
}

// parseFunctionDefinition parses `fn name(a, b) { body }` after `fn`.
func (p *Parser) parseFunctionDefinition(fnTok token.Token) (ast.Expr, error) {
	name, ok := p.peek()
	if !ok {
		return nil, p.errorAtEnd(ErrExpectedIdentifier, "Expected function name")
	}
	if name.Kind != token.KindIdentifier {
		return nil, p.errorAt(ErrExpectedIdentifier, name, "Expected function name got %s", name)
	}
	p.cursor++

	open, err := p.expect(token.OpLParen)
	if err != nil {
		return nil, err
	}
	p.parenDepth++
	params := make([]string, 0)
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, p.errorAt(ErrMissingParen, open, "Missing ')'")
		}
		if tok.Is(token.OpRParen) {
			p.cursor++
			p.parenDepth--
			break
		}
		if tok.Kind != token.KindIdentifier {
			return nil, p.errorAt(ErrExpectedIdentifier, tok, "Expected parameter name got %s", tok)
		}
		params = append(params, tok.Ident)
		p.cursor++
		if next, ok := p.peek(); ok && next.Is(token.OpComma) {
			p.cursor++
		}
	}

	brace, err := p.expect(token.OpLBrace)
	if err != nil {
		return nil, err
	}
	body, err := p.parseScope(brace)
	if err != nil {
		return nil, err
	}
	return at(ast.NewFunctionDefinition(name.Ident, params, body), fnTok), nil
}

func (p *Parser) peek() (token.Token, bool) {
	if p.cursor >= len(p.tokens) {
		return token.Token{}, false
	}
	return p.tokens[p.cursor], true
}

func (p *Parser) advance() (token.Token, error) {
	tok, ok := p.peek()
	if !ok {
		return tok, p.errorAtEnd(ErrEmptyInput, "Empty input")
	}
	p.cursor++
	return tok, nil
}

func (p *Parser) expect(op token.Operator) (token.Token, error) {
	tok, err := p.advance()
	if err != nil {
		return tok, err
	}
	if !tok.Is(op) {
		return tok, p.errorAt(ErrUnexpectedToken, tok, "Expected '%s' got %s", op, tok)
	}
	return tok, nil
}

// continues reports whether the next token is one of ops and may extend the
// current statement.
func (p *Parser) continues(ops ...token.Operator) (token.Token, bool) {
	tok, ok := p.peek()
	if !ok || tok.Kind != token.KindOperator {
		return tok, false
	}
	if p.parenDepth == 0 && tok.Line != p.stmtLine && (p.cursor == 0 || tok.Line != p.tokens[p.cursor-1].Line) {
		return tok, false
	}
	for _, op := range ops {
		if tok.Op == op {
			return tok, true
		}
	}
	return tok, false
}

func (p *Parser) closeParen(open token.Token) error {
	tok, ok := p.peek()
	if !ok || !tok.Is(token.OpRParen) {
		return p.errorAt(ErrMissingParen, open, "Missing ')'")
	}
	p.cursor++
	p.parenDepth--
	return nil
}

func at[T ast.Expr](node T, tok token.Token) T {
	ast.SetPosition(node, ast.Position{Line: tok.Line, Column: tok.Column})
	return node
}
