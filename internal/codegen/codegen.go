// Package codegen lowers an expression tree to stack-discipline x86-64.
//
// Every subtree leaves exactly one value on the machine stack. A binary node
// emits its left operand, then its right, pops them into rdi (right) and rax
// (left), computes into rax and pushes the result.
package codegen

import (
	"fmt"
	"math"
	"strconv"

	"exprc/internal/asm"
	"exprc/internal/ast"
)

// CodeGen accumulates instructions for one tree.
type CodeGen struct {
	out   []asm.Instruction
	depth int // values currently on the stack
	peak  int
}

// Generate returns the post-order instruction stream for e. It never fails
// on a tree produced by the parser.
func Generate(e ast.Expr) []asm.Instruction {
	cg := &CodeGen{}
	cg.gen(e)
	if cg.depth != 1 {
		panic(fmt.Sprintf("codegen: stack depth %d after expression, want 1", cg.depth))
	}
	return cg.out
}

// MaxDepth returns the largest number of stack slots the generated code for
// e holds at once.
func MaxDepth(e ast.Expr) int {
	cg := &CodeGen{}
	cg.gen(e)
	return cg.peak
}

func (cg *CodeGen) emit(op string, args ...string) {
	cg.out = append(cg.out, asm.New(op, args...))
}

func (cg *CodeGen) push(arg string) {
	cg.emit("push", arg)
	cg.depth++
	cg.peak = max(cg.peak, cg.depth)
}

func (cg *CodeGen) pop(reg string) {
	cg.emit("pop", reg)
	cg.depth--
}

func (cg *CodeGen) gen(e ast.Expr) {
	switch n := e.(type) {
	case *ast.NumLit:
		cg.genNum(n.Value)
	case *ast.BinaryExpr:
		cg.gen(n.Left)
		cg.gen(n.Right)
		cg.pop(asm.RDI)
		cg.pop(asm.RAX)
		cg.genOp(n.Op)
		cg.push(asm.RAX)
	default:
		panic(fmt.Sprintf("codegen: unexpected node %T", e))
	}
}

// genNum pushes v. push only takes a sign-extended 32-bit immediate, so
// wider literals go through rax.
func (cg *CodeGen) genNum(v int64) {
	imm := strconv.FormatInt(v, 10)
	if v < math.MinInt32 || v > math.MaxInt32 {
		cg.emit("mov", asm.RAX, imm)
		cg.push(asm.RAX)
		return
	}
	cg.push(imm)
}

var setcc = map[ast.Op]string{
	ast.Eq: "sete",
	ast.Ne: "setne",
	ast.Lt: "setl",
	ast.Le: "setle",
}

func (cg *CodeGen) genOp(op ast.Op) {
	switch op {
	case ast.Add:
		cg.emit("add", asm.RAX, asm.RDI)
	case ast.Sub:
		cg.emit("sub", asm.RAX, asm.RDI)
	case ast.Mul:
		cg.emit("imul", asm.RAX, asm.RDI)
	case ast.Div:
		// Sign-extend rax into rdx:rax before the signed divide.
		cg.emit("cqo")
		cg.emit("idiv", asm.RDI)
	case ast.Eq, ast.Ne, ast.Lt, ast.Le:
		cg.emit("cmp", asm.RAX, asm.RDI)
		cg.emit(setcc[op], asm.AL)
		cg.emit("movzb", asm.RAX, asm.AL)
	default:
		panic(fmt.Sprintf("codegen: unknown operator %s", op))
	}
}
