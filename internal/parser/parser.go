// Package parser implements recursive-descent parsing of expressions.
//
// Grammar, lowest precedence first:
//
//	expr       = equality
//	equality   = relational ( ("==" | "!=") relational )*
//	relational = additive  ( ("<" | "<=" | ">" | ">=") additive )*
//	additive   = term      ( ("+" | "-") term )*
//	term       = unary     ( ("*" | "/") unary )*
//	unary      = ("+" | "-")? unary | primary
//	primary    = NUMBER | "(" expr ")"
//
// Every level folds its operators to the left, so a-b-c is (a-b)-c.
package parser

import (
	"fmt"

	"exprc/internal/ast"
	"exprc/internal/diag"
	"exprc/internal/span"
	"exprc/internal/token"
)

// Error reports a token the grammar could not accept.
type Error struct {
	Code     string
	Expected string
	Found    token.Token
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at %s: expected %s, got %s", e.Found.Span.Start, e.Expected, e.Found.Describe())
}

// Diagnostic converts the error to a coded diagnostic.
func (e *Error) Diagnostic() diag.Diagnostic {
	switch e.Code {
	case diag.CodeTrailing:
		return diag.Errorf(e.Code, e.Found.Span, "unexpected trailing %s", e.Found.Describe())
	default:
		d := diag.Errorf(e.Code, e.Found.Span, "expected %s, got %s", e.Expected, e.Found.Describe())
		if e.Expected == "')'" {
			d = d.WithHint("unbalanced parentheses")
		}
		return d
	}
}

// cursor is an index into the token slice. Grammar functions take the
// cursor they start at and return the one they stopped at.
type cursor int

// Parser holds an immutable token slice. All position state lives in the
// cursor values threaded through the grammar, so a Parser is safe to reuse.
type Parser struct {
	tokens []token.Token
}

// New creates a parser over tokens, which must end with an EOF token.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses one expression spanning all of tokens.
func Parse(tokens []token.Token) (ast.Expr, error) {
	return New(tokens).Parse()
}

// Parse parses one expression and requires that it ends at EOF.
func (p *Parser) Parse() (ast.Expr, error) {
	node, c, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(c); tok.Kind != token.EOF {
		return nil, &Error{Code: diag.CodeTrailing, Expected: "end of input", Found: tok}
	}
	return node, nil
}

// Expr parses a single expression starting at token index start and returns
// the index of the first token after it. Trailing tokens are left alone.
func (p *Parser) Expr(start int) (ast.Expr, int, error) {
	node, c, err := p.expr(cursor(start))
	return node, int(c), err
}

// ---- navigation helpers ----

func (p *Parser) peek(c cursor) token.Token {
	if int(c) >= len(p.tokens) {
		var end span.Position
		if n := len(p.tokens); n > 0 {
			end = p.tokens[n-1].Span.End
		}
		return token.Token{Kind: token.EOF, Span: span.Point(end)}
	}
	return p.tokens[c]
}

// consume advances past op if it is the current token.
func (p *Parser) consume(c cursor, op string) (cursor, bool) {
	if p.peek(c).Is(op) {
		return c + 1, true
	}
	return c, false
}

// expect advances past op or fails the parse.
func (p *Parser) expect(c cursor, op string) (cursor, error) {
	if next, ok := p.consume(c, op); ok {
		return next, nil
	}
	return c, &Error{Code: diag.CodeExpected, Expected: fmt.Sprintf("'%s'", op), Found: p.peek(c)}
}

// expectNumber returns the literal at the cursor or fails the parse.
func (p *Parser) expectNumber(c cursor) (*ast.NumLit, cursor, error) {
	tok := p.peek(c)
	if tok.Kind != token.NUM {
		return nil, c, &Error{Code: diag.CodeExpectedNumber, Expected: "number", Found: tok}
	}
	return ast.NewNum(tok.Value, tok.Span), c + 1, nil
}

// ---- grammar ----

func (p *Parser) expr(c cursor) (ast.Expr, cursor, error) {
	return p.equality(c)
}

func (p *Parser) equality(c cursor) (ast.Expr, cursor, error) {
	node, c, err := p.relational(c)
	if err != nil {
		return nil, c, err
	}

	for {
		var op ast.Op
		var ok bool
		if c, ok = p.consume(c, "=="); ok {
			op = ast.Eq
		} else if c, ok = p.consume(c, "!="); ok {
			op = ast.Ne
		} else {
			return node, c, nil
		}

		var rhs ast.Expr
		if rhs, c, err = p.relational(c); err != nil {
			return nil, c, err
		}
		node = ast.NewBinary(op, node, rhs)
	}
}

// relational folds < and <= directly. > and >= swap their operands and reuse
// Lt and Le, so "a > b" builds the same tree as "b < a".
func (p *Parser) relational(c cursor) (ast.Expr, cursor, error) {
	node, c, err := p.additive(c)
	if err != nil {
		return nil, c, err
	}

	for {
		var op ast.Op
		var swap, ok bool
		if c, ok = p.consume(c, "<="); ok {
			op = ast.Le
		} else if c, ok = p.consume(c, ">="); ok {
			op, swap = ast.Le, true
		} else if c, ok = p.consume(c, "<"); ok {
			op = ast.Lt
		} else if c, ok = p.consume(c, ">"); ok {
			op, swap = ast.Lt, true
		} else {
			return node, c, nil
		}

		var rhs ast.Expr
		if rhs, c, err = p.additive(c); err != nil {
			return nil, c, err
		}
		if swap {
			node = ast.NewBinary(op, rhs, node)
		} else {
			node = ast.NewBinary(op, node, rhs)
		}
	}
}

func (p *Parser) additive(c cursor) (ast.Expr, cursor, error) {
	node, c, err := p.term(c)
	if err != nil {
		return nil, c, err
	}

	for {
		var op ast.Op
		var ok bool
		if c, ok = p.consume(c, "+"); ok {
			op = ast.Add
		} else if c, ok = p.consume(c, "-"); ok {
			op = ast.Sub
		} else {
			return node, c, nil
		}

		var rhs ast.Expr
		if rhs, c, err = p.term(c); err != nil {
			return nil, c, err
		}
		node = ast.NewBinary(op, node, rhs)
	}
}

func (p *Parser) term(c cursor) (ast.Expr, cursor, error) {
	node, c, err := p.unary(c)
	if err != nil {
		return nil, c, err
	}

	for {
		var op ast.Op
		var ok bool
		if c, ok = p.consume(c, "*"); ok {
			op = ast.Mul
		} else if c, ok = p.consume(c, "/"); ok {
			op = ast.Div
		} else {
			return node, c, nil
		}

		var rhs ast.Expr
		if rhs, c, err = p.unary(c); err != nil {
			return nil, c, err
		}
		node = ast.NewBinary(op, node, rhs)
	}
}

// unary drops a leading '+' and rewrites a leading '-' as 0 - operand.
func (p *Parser) unary(c cursor) (ast.Expr, cursor, error) {
	start := p.peek(c)
	if next, ok := p.consume(c, "+"); ok {
		return p.unary(next)
	}
	if next, ok := p.consume(c, "-"); ok {
		operand, c, err := p.unary(next)
		if err != nil {
			return nil, c, err
		}
		zero := ast.NewNum(0, span.Point(start.Span.Start))
		return ast.NewBinary(ast.Sub, zero, operand), c, nil
	}
	return p.primary(c)
}

func (p *Parser) primary(c cursor) (ast.Expr, cursor, error) {
	if next, ok := p.consume(c, "("); ok {
		node, c, err := p.expr(next)
		if err != nil {
			return nil, c, err
		}
		if c, err = p.expect(c, ")"); err != nil {
			return nil, c, err
		}
		return node, c, nil
	}

	num, c, err := p.expectNumber(c)
	if err != nil {
		return nil, c, err
	}
	return num, c, nil
}
