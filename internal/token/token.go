// Package token defines the tokens produced by the lexer.
package token

import (
	"fmt"

	"exprc/internal/span"
)

// Kind represents the type of a token.
type Kind int

const (
	ILLEGAL Kind = iota // zero value, never emitted
	PUNCT               // operators and parentheses
	NUM                 // integer literals: 123
	EOF                 // end of input
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	PUNCT:   "PUNCT",
	NUM:     "NUM",
	EOF:     "EOF",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Punctuators lists every operator the lexer accepts, longest first.
// Two-character entries must stay ahead of their one-character prefixes.
var Punctuators = []string{
	"==", "!=", "<=", ">=",
	"+", "-", "*", "/", "(", ")", "<", ">",
}

// Token is a lexical token with its kind, text and source location.
type Token struct {
	Kind   Kind      `json:"kind"`
	Lexeme string    `json:"lexeme"`
	Value  int64     `json:"value,omitempty"` // set for NUM only
	Span   span.Span `json:"span"`
}

// Is reports whether t is the punctuator op.
func (t Token) Is(op string) bool {
	return t.Kind == PUNCT && t.Lexeme == op
}

// Describe returns the token as it should appear in a diagnostic.
func (t Token) Describe() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case NUM:
		return "number " + t.Lexeme
	default:
		return fmt.Sprintf("'%s'", t.Lexeme)
	}
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, t.Span.Start)
}
