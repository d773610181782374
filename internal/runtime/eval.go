// Package runtime evaluates expression trees directly, with the integer
// semantics of the generated machine code. It serves as the reference
// the compiled output is checked against.
package runtime

import (
	"fmt"
	"math"

	"exprc/internal/ast"
	"exprc/internal/diag"
	"exprc/internal/span"
)

// RuntimeError represents a failure during evaluation.
type RuntimeError struct {
	Message string
	Span    span.Span
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at %d:%d: %s", e.Span.Start.Line, e.Span.Start.Column, e.Message)
}

// Diagnostic converts the error to a coded diagnostic.
func (e *RuntimeError) Diagnostic() diag.Diagnostic {
	return diag.Errorf(diag.CodeDivide, e.Span, "%s", e.Message)
}

func runtimeErr(s span.Span, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...), Span: s}
}

// Eval computes the value of e. Arithmetic wraps at 64 bits, division
// truncates toward zero, and comparisons yield 1 or 0. Division by zero and
// MinInt64 / -1 fail, as they trap on the target.
func Eval(e ast.Expr) (int64, error) {
	switch n := e.(type) {
	case *ast.NumLit:
		return n.Value, nil
	case *ast.BinaryExpr:
		return evalBinary(n)
	default:
		return 0, fmt.Errorf("runtime: unexpected node %T", e)
	}
}

func evalBinary(e *ast.BinaryExpr) (int64, error) {
	left, err := Eval(e.Left)
	if err != nil {
		return 0, err
	}
	right, err := Eval(e.Right)
	if err != nil {
		return 0, err
	}

	switch e.Op {
	case ast.Add:
		return left + right, nil
	case ast.Sub:
		return left - right, nil
	case ast.Mul:
		return left * right, nil
	case ast.Div:
		if right == 0 {
			return 0, runtimeErr(e.GetSpan(), "division by zero")
		}
		if left == math.MinInt64 && right == -1 {
			return 0, runtimeErr(e.GetSpan(), "division overflow")
		}
		return left / right, nil
	case ast.Eq:
		return boolInt(left == right), nil
	case ast.Ne:
		return boolInt(left != right), nil
	case ast.Lt:
		return boolInt(left < right), nil
	case ast.Le:
		return boolInt(left <= right), nil
	default:
		return 0, runtimeErr(e.GetSpan(), "unknown binary operator: %s", e.Op)
	}
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
