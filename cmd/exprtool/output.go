package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"exprc/internal/ast"
	"exprc/internal/compiler"
	"exprc/internal/token"
)

var (
	errColor  = color.New(color.FgRed)
	kindColor = color.New(color.FgCyan)
	dimColor  = color.New(color.FgHiBlack)
)

// ---- output helpers ----

func (t *tool) printJSON(v interface{}) int {
	enc := json.NewEncoder(t.stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(t.stderr, "error: JSON encoding failed: %v\n", err)
		return 1
	}
	return 0
}

// fail prints the diagnostic for err. source may be empty for errors that
// are not tied to the input.
func (t *tool) fail(source string, err error) {
	printDiag(t.stderr, source, err)
}

func printDiag(w io.Writer, source string, err error) {
	d := compiler.Diagnostic(err)
	if source != "" && compiler.HasLocation(err) {
		errColor.Fprintln(w, d.Render(source))
		return
	}
	errColor.Fprintln(w, d.String())
}

// ---- token output helpers ----

func (t *tool) printTokensText(tokens []token.Token) {
	for _, tok := range tokens {
		lexeme := tok.Lexeme
		if tok.Kind == token.EOF {
			lexeme = "<eof>"
		}
		kindColor.Fprintf(t.stdout, "%-6s ", tok.Kind)
		fmt.Fprintf(t.stdout, "%-20s ", lexeme)
		dimColor.Fprintf(t.stdout, "%d:%d\n", tok.Span.Start.Line, tok.Span.Start.Column)
	}
}

func (t *tool) printTokensJSON(tokens []token.Token) int {
	type tokenJSON struct {
		Kind   string `json:"kind"`
		Lexeme string `json:"lexeme"`
		Value  *int64 `json:"value,omitempty"`
		Line   int    `json:"line"`
		Column int    `json:"column"`
		Offset int    `json:"offset"`
	}

	toks := make([]tokenJSON, 0, len(tokens))
	for _, tok := range tokens {
		tj := tokenJSON{
			Kind:   tok.Kind.String(),
			Lexeme: tok.Lexeme,
			Line:   tok.Span.Start.Line,
			Column: tok.Span.Start.Column,
			Offset: tok.Span.Start.Offset,
		}
		if tok.Kind == token.NUM {
			v := tok.Value
			tj.Value = &v
		}
		toks = append(toks, tj)
	}

	return t.printJSON(map[string]interface{}{"tokens": toks})
}

func (t *tool) printAST(tree ast.Expr) int {
	return t.printJSON(map[string]interface{}{
		"ast":   ast.NodeToMap(tree),
		"depth": ast.Depth(tree),
	})
}
