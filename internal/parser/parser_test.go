package parser

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"exprc/internal/ast"
	"exprc/internal/diag"
	"exprc/internal/lexer"
	"exprc/internal/token"
)

// helper: parse source and fail the test on any error
func parseOK(t *testing.T, source string) ast.Expr {
	t.Helper()
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	node, err := Parse(tokens)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return node
}

// helper: parse source and return the *Error it fails with
func parseErr(t *testing.T, source string) *Error {
	t.Helper()
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	node, err := Parse(tokens)
	if err == nil {
		t.Fatalf("expected parse error for %q, got %s", source, ast.String(node))
	}
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	return perr
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{`42`, `42`},
		{`1 + 2 * 3`, `(1 + (2 * 3))`},
		{`(1 + 2) * 3`, `((1 + 2) * 3)`},
		{`8 - 3 - 2`, `((8 - 3) - 2)`},
		{`8 / 4 / 2`, `((8 / 4) / 2)`},
		{`1 * 2 + 3 * 4`, `((1 * 2) + (3 * 4))`},
		{`-5 + 8`, `((0 - 5) + 8)`},
		{`+5 - 2`, `(5 - 2)`},
		{`- -3`, `(0 - (0 - 3))`},
		{`-(1 + 2)`, `(0 - (1 + 2))`},
		{`2 * -3`, `(2 * (0 - 3))`},
		{`1 < 2 == 3 <= 4`, `((1 < 2) == (3 <= 4))`},
		{`1 + 1 != 2`, `((1 + 1) != 2)`},
		{`1 == 2 == 3`, `((1 == 2) == 3)`},
		{`3 > 2`, `(2 < 3)`},
		{`3 >= 2`, `(2 <= 3)`},
		{`1 < 2 < 3`, `((1 < 2) < 3)`},
		{`1 > 2 > 3`, `(3 < (2 < 1))`},
		{`((7))`, `7`},
	}

	for _, tt := range tests {
		got := ast.String(parseOK(t, tt.source))
		if got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.source, tt.want, got)
		}
	}
}

func TestParseGreaterIsSwappedLess(t *testing.T) {
	pairs := [][2]string{
		{`3 > 2`, `2 < 3`},
		{`5 >= 5`, `5 <= 5`},
		{`1 + 2 > 3 * 4`, `3 * 4 < 1 + 2`},
	}
	for _, pair := range pairs {
		a, b := parseOK(t, pair[0]), parseOK(t, pair[1])
		if !ast.Equal(a, b) {
			t.Errorf("%q and %q: expected identical trees, got %s and %s",
				pair[0], pair[1], ast.String(a), ast.String(b))
		}
	}

	bin, ok := parseOK(t, `3 > 2`).(*ast.BinaryExpr)
	if !ok {
		t.Fatal("expected BinaryExpr")
	}
	if bin.Op != ast.Lt {
		t.Errorf("expected Lt, got %s", bin.Op)
	}
	if l := bin.Left.(*ast.NumLit); l.Value != 2 {
		t.Errorf("expected left 2, got %d", l.Value)
	}
}

func TestParseUnaryMinusIsSubtraction(t *testing.T) {
	bin, ok := parseOK(t, `-7`).(*ast.BinaryExpr)
	if !ok {
		t.Fatal("expected BinaryExpr for unary minus")
	}
	if bin.Op != ast.Sub {
		t.Errorf("expected Sub, got %s", bin.Op)
	}
	if zero, ok := bin.Left.(*ast.NumLit); !ok || zero.Value != 0 {
		t.Errorf("expected literal 0 on the left, got %s", ast.String(bin.Left))
	}
}

func TestParseSpans(t *testing.T) {
	node := parseOK(t, `(1 + 2) * 30`)
	s := node.GetSpan()
	if s.Start.Offset != 1 || s.End.Offset != 12 {
		t.Errorf("expected span 1..12, got %d..%d", s.Start.Offset, s.End.Offset)
	}

	swapped := parseOK(t, `10 > 2`)
	if s := swapped.GetSpan(); s.Start.Offset != 0 || s.End.Offset != 6 {
		t.Errorf("swapped comparison: expected span 0..6, got %d..%d", s.Start.Offset, s.End.Offset)
	}
}

func TestParseUnbalancedParen(t *testing.T) {
	perr := parseErr(t, `(1 + 2`)
	if perr.Expected != "')'" {
		t.Errorf("expected \"')'\", got %q", perr.Expected)
	}
	if perr.Found.Kind != token.EOF {
		t.Errorf("expected EOF found, got %s", perr.Found)
	}
	if perr.Code != diag.CodeExpected {
		t.Errorf("expected code %s, got %s", diag.CodeExpected, perr.Code)
	}
}

func TestParseMissingOperand(t *testing.T) {
	tests := []struct {
		source string
		found  string
	}{
		{`1 +`, ""},
		{`* 2`, "*"},
		{`()`, ")"},
		{`1 + (`, ""},
		{`-`, ""},
		{``, ""},
	}
	for _, tt := range tests {
		perr := parseErr(t, tt.source)
		if perr.Code != diag.CodeExpectedNumber {
			t.Errorf("%q: expected code %s, got %s", tt.source, diag.CodeExpectedNumber, perr.Code)
		}
		if perr.Found.Lexeme != tt.found {
			t.Errorf("%q: expected found %q, got %q", tt.source, tt.found, perr.Found.Lexeme)
		}
	}
}

func TestParseTrailingTokens(t *testing.T) {
	for _, source := range []string{`1 2`, `(1))`, `1 + 2 )`} {
		perr := parseErr(t, source)
		if perr.Code != diag.CodeTrailing {
			t.Errorf("%q: expected code %s, got %s", source, diag.CodeTrailing, perr.Code)
		}
	}
}

func TestExprStopsAfterOneExpression(t *testing.T) {
	tokens, err := lexer.Tokenize(`1 + 2 3`)
	if err != nil {
		t.Fatal(err)
	}
	node, next, err := New(tokens).Expr(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ast.String(node) != "(1 + 2)" {
		t.Errorf("expected (1 + 2), got %s", ast.String(node))
	}
	if next != 3 {
		t.Errorf("expected cursor 3, got %d", next)
	}

	// The same parser can resume from the returned cursor.
	rest, end, err := New(tokens).Expr(next)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ast.String(rest) != "3" || tokens[end].Kind != token.EOF {
		t.Errorf("expected trailing literal 3 then EOF, got %s at %d", ast.String(rest), end)
	}
}

func TestParseErrorDiagnostic(t *testing.T) {
	perr := parseErr(t, `(1 + 2`)
	d := perr.Diagnostic()
	if d.Span.Start.Column != 7 {
		t.Errorf("expected column 7, got %d", d.Span.Start.Column)
	}
	if !strings.Contains(d.Message, "expected ')'") {
		t.Errorf("unexpected message: %s", d.Message)
	}
}

func TestParseToJSON(t *testing.T) {
	node := parseOK(t, `1 - 2`)
	data, err := json.Marshal(ast.NodeToMap(node))
	if err != nil {
		t.Fatalf("json error: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"kind":"BinaryExpr"`, `"op":"-"`, `"kind":"NumLit"`, `"value":2`} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %s in %s", want, s)
		}
	}
}
