// Package lexer implements tokenization of expression source.
package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"exprc/internal/diag"
	"exprc/internal/span"
	"exprc/internal/token"
)

// Error reports source text that cannot be tokenized.
type Error struct {
	Pos     span.Position
	Char    byte   // offending byte; 0 for an out-of-range literal
	Literal string // digit run that overflowed int64
}

func (e *Error) Error() string {
	if e.Literal != "" {
		return fmt.Sprintf("lex error at %s: integer literal %s out of range", e.Pos, e.Literal)
	}
	return fmt.Sprintf("lex error at %s: unexpected character %q", e.Pos, e.Char)
}

// Diagnostic converts the error to a coded diagnostic.
func (e *Error) Diagnostic() diag.Diagnostic {
	if e.Literal != "" {
		end := e.Pos
		end.Offset += len(e.Literal)
		end.Column += len(e.Literal)
		return diag.Errorf(diag.CodeLiteralRange, span.Span{Start: e.Pos, End: end},
			"integer literal out of range").WithHint("literals must fit in a signed 64-bit integer")
	}
	d := diag.Errorf(diag.CodeBadChar, span.Point(e.Pos), "unexpected character '%c'", e.Char)
	if e.Char == '=' || e.Char == '!' {
		d = d.WithHint(fmt.Sprintf("did you mean '%c='?", e.Char))
	}
	return d
}

// Lexer tokenizes a single expression.
type Lexer struct {
	source string

	pos  int // current read position in source
	line int // current line (1-based)
	col  int // current column (1-based)
}

// New creates a new Lexer for the given source text.
func New(source string) *Lexer {
	return &Lexer{
		source: source,
		pos:    0,
		line:   1,
		col:    1,
	}
}

// Tokenize is shorthand for New(source).Tokenize().
func Tokenize(source string) ([]token.Token, error) {
	return New(source).Tokenize()
}

// Tokenize scans the whole source. On success the returned slice ends with
// exactly one EOF token. Scanning stops at the first error.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens, nil
		}
	}
}

// ---- internal helpers ----

// advance consumes the current character and returns it.
func (l *Lexer) advance() byte {
	ch := l.source[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

// advanceN consumes n characters.
func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

// curPos returns the current position as a span.Position.
func (l *Lexer) curPos() span.Position {
	return span.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

// makeSpan returns a span from start to current position.
func (l *Lexer) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: l.curPos()}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.source) && isSpace(l.source[l.pos]) {
		l.advance()
	}
}

// ---- token reading ----

func (l *Lexer) nextToken() (token.Token, error) {
	l.skipWhitespace()

	start := l.curPos()
	if l.pos >= len(l.source) {
		return token.Token{Kind: token.EOF, Span: span.Point(start)}, nil
	}

	if op := l.matchPunct(); op != "" {
		l.advanceN(len(op))
		return token.Token{Kind: token.PUNCT, Lexeme: op, Span: l.makeSpan(start)}, nil
	}

	if isDigit(l.source[l.pos]) {
		return l.readNumber(start)
	}

	return token.Token{}, &Error{Pos: start, Char: l.source[l.pos]}
}

// matchPunct returns the longest punctuator at the cursor, or "".
func (l *Lexer) matchPunct() string {
	rest := l.source[l.pos:]
	for _, op := range token.Punctuators {
		if strings.HasPrefix(rest, op) {
			return op
		}
	}
	return ""
}

// readNumber reads a maximal run of decimal digits.
func (l *Lexer) readNumber(start span.Position) (token.Token, error) {
	numStart := l.pos
	for l.pos < len(l.source) && isDigit(l.source[l.pos]) {
		l.advance()
	}

	lexeme := l.source[numStart:l.pos]
	v, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return token.Token{}, &Error{Pos: start, Literal: lexeme}
		}
		return token.Token{}, err
	}
	return token.Token{Kind: token.NUM, Lexeme: lexeme, Value: v, Span: l.makeSpan(start)}, nil
}

// ---- character classification ----

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
