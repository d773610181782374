package runtime

import (
	"errors"
	"strings"
	"testing"

	"exprc/internal/ast"
	"exprc/internal/lexer"
	"exprc/internal/parser"
)

// evalSource parses and evaluates source.
func evalSource(source string) (int64, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return 0, err
	}
	tree, err := parser.Parse(tokens)
	if err != nil {
		return 0, err
	}
	return Eval(tree)
}

func expectValue(t *testing.T, source string, want int64) {
	t.Helper()
	got, err := evalSource(source)
	if err != nil {
		t.Fatalf("%q: error: %v", source, err)
	}
	if got != want {
		t.Errorf("%q: expected %d, got %d", source, want, got)
	}
}

func expectError(t *testing.T, source, contains string) {
	t.Helper()
	_, err := evalSource(source)
	var rerr *RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("%q: expected *RuntimeError, got %v", source, err)
	}
	if !strings.Contains(rerr.Error(), contains) {
		t.Errorf("%q: expected error containing %q, got: %v", source, contains, rerr)
	}
}

func TestArithmetic(t *testing.T) {
	expectValue(t, `1 + 2 * 3`, 7)
	expectValue(t, `(1 + 2) * 3`, 9)
	expectValue(t, `8 - 3 - 2`, 3)
	expectValue(t, `10 / 3`, 3) // integer division
	expectValue(t, `-10 / 3`, -3)
	expectValue(t, `-5 + 8`, 3)
	expectValue(t, `+5 - 2`, 3)
}

func TestComparisonsYieldZeroOrOne(t *testing.T) {
	expectValue(t, `3 > 2`, 1)
	expectValue(t, `2 > 3`, 0)
	expectValue(t, `3 >= 3`, 1)
	expectValue(t, `3 <= 2`, 0)
	expectValue(t, `1 == 1`, 1)
	expectValue(t, `1 != 1`, 0)
	expectValue(t, `(2 < 3) * 5`, 5)
}

func TestWraparound(t *testing.T) {
	expectValue(t, `9223372036854775807 + 1`, -9223372036854775808)
	expectValue(t, `0 - 9223372036854775807 - 1 - 1`, 9223372036854775807)
}

func TestDivisionErrors(t *testing.T) {
	expectError(t, `1 / 0`, "division by zero")
	expectError(t, `1 + 4 / (2 - 2)`, "division by zero")
	expectError(t, `(0 - 9223372036854775807 - 1) / -1`, "division overflow")
}

func TestDivisionErrorSpan(t *testing.T) {
	_, err := evalSource(`1 + 4 / 0`)
	var rerr *RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RuntimeError, got %v", err)
	}
	if rerr.Span.Start.Column != 5 || rerr.Span.End.Column != 10 {
		t.Errorf("expected span 1:5..1:10, got %s", rerr.Span)
	}
}

func TestEvalNil(t *testing.T) {
	if _, err := Eval(nil); err == nil {
		t.Error("expected error for nil tree")
	}
	var e ast.Expr = &ast.NumLit{Value: 3}
	if v, err := Eval(e); err != nil || v != 3 {
		t.Errorf("expected 3, got %d, %v", v, err)
	}
}
