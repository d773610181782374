// Package compiler runs the lexer, parser and code generator in sequence.
package compiler

import (
	"errors"

	"exprc/internal/asm"
	"exprc/internal/ast"
	"exprc/internal/codegen"
	"exprc/internal/diag"
	"exprc/internal/lexer"
	"exprc/internal/parser"
	"exprc/internal/span"
)

// Compile translates one expression into a framed program. The error, if
// any, is the failing stage's own type (*lexer.Error or *parser.Error).
func Compile(source string) (*asm.Program, error) {
	tree, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return &asm.Program{Body: codegen.Generate(tree)}, nil
}

// Parse runs the front end only.
func Parse(source string) (ast.Expr, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return parser.Parse(tokens)
}

// UsageError reports a command line with the wrong number of arguments.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return "usage: " + e.Msg }

// Diagnostic converts the error to a coded diagnostic.
func (e *UsageError) Diagnostic() diag.Diagnostic {
	return diag.Errorf(diag.CodeUsage, span.Span{}, "%s", e.Msg)
}

type diagnoser interface {
	Diagnostic() diag.Diagnostic
}

// Diagnostic returns the coded diagnostic for err. Errors that do not come
// from a pipeline stage map to a bare E3002 message.
func Diagnostic(err error) diag.Diagnostic {
	var d diagnoser
	if errors.As(err, &d) {
		return d.Diagnostic()
	}
	return diag.Errorf(diag.CodeMachine, span.Span{}, "%s", err.Error())
}

// HasLocation reports whether the diagnostic for err points into the source.
func HasLocation(err error) bool {
	var lexErr *lexer.Error
	var parseErr *parser.Error
	return errors.As(err, &lexErr) || errors.As(err, &parseErr)
}
