// Package ast defines the abstract syntax tree for expressions.
package ast

import (
	"fmt"

	"exprc/internal/span"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
	GetSpan() span.Span
}

// Expr is the interface for expression nodes. Its only implementations are
// *NumLit and *BinaryExpr.
type Expr interface {
	Node
	exprNode()
}

// NodeBase provides the common Span field for all AST nodes.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) nodeNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// ============================================================
// Operators
// ============================================================

// Op identifies the operation performed by a BinaryExpr.
// There is no Greater or GreaterEqual: the parser swaps operands instead.
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Div
	Eq
	Ne
	Lt
	Le
)

var opNames = [...]string{
	Add: "+",
	Sub: "-",
	Mul: "*",
	Div: "/",
	Eq:  "==",
	Ne:  "!=",
	Lt:  "<",
	Le:  "<=",
}

func (o Op) String() string {
	if o >= 0 && int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// IsComparison reports whether o yields a 0/1 truth value.
func (o Op) IsComparison() bool {
	return o >= Eq
}

// ============================================================
// Expressions
// ============================================================

// NumLit is an integer literal. It is always a leaf.
type NumLit struct {
	ExprBase
	Value int64
}

// BinaryExpr applies Op to Left and Right. Both children are always set.
type BinaryExpr struct {
	ExprBase
	Op    Op
	Left  Expr
	Right Expr
}

// NewNum returns a literal node.
func NewNum(v int64, s span.Span) *NumLit {
	return &NumLit{ExprBase: ExprBase{NodeBase{Span: s}}, Value: v}
}

// NewBinary returns a binary node whose span covers both operands.
func NewBinary(op Op, left, right Expr) *BinaryExpr {
	return &BinaryExpr{
		ExprBase: ExprBase{NodeBase{Span: span.Cover(left.GetSpan(), right.GetSpan())}},
		Op:       op,
		Left:     left,
		Right:    right,
	}
}

// Equal reports whether a and b have the same shape, operators and literal
// values. Spans are ignored.
func Equal(a, b Expr) bool {
	switch x := a.(type) {
	case *NumLit:
		y, ok := b.(*NumLit)
		return ok && x.Value == y.Value
	case *BinaryExpr:
		y, ok := b.(*BinaryExpr)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	default:
		return a == nil && b == nil
	}
}

// String renders e fully parenthesized, e.g. "((1 + 2) * 3)".
func String(e Expr) string {
	switch n := e.(type) {
	case *NumLit:
		return fmt.Sprintf("%d", n.Value)
	case *BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", String(n.Left), n.Op, String(n.Right))
	default:
		return "<nil>"
	}
}

// Depth returns the height of the tree; a lone literal has depth 1.
func Depth(e Expr) int {
	n, ok := e.(*BinaryExpr)
	if !ok {
		return 1
	}
	return 1 + max(Depth(n.Left), Depth(n.Right))
}
