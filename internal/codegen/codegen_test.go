package codegen

import (
	"strings"
	"testing"

	"exprc/internal/asm"
	"exprc/internal/ast"
	"exprc/internal/lexer"
	"exprc/internal/parser"
	"exprc/internal/span"
)

func generate(t *testing.T, source string) []asm.Instruction {
	t.Helper()
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	tree, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return Generate(tree)
}

func listing(ins []asm.Instruction) string {
	var b strings.Builder
	for _, in := range ins {
		b.WriteString(in.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func expectListing(t *testing.T, source, expected string) {
	t.Helper()
	got := listing(generate(t, source))
	if got != expected {
		t.Errorf("%q: listing mismatch:\nexpected:\n%s\ngot:\n%s", source, expected, got)
	}
}

func TestGenerateLiteral(t *testing.T) {
	expectListing(t, `42`, "  push 42\n")
}

func TestGenerateArithmetic(t *testing.T) {
	expectListing(t, `5 - 3`, `  push 5
  push 3
  pop rdi
  pop rax
  sub rax, rdi
  push rax
`)
	expectListing(t, `2 * 3`, `  push 2
  push 3
  pop rdi
  pop rax
  imul rax, rdi
  push rax
`)
}

func TestGenerateDivision(t *testing.T) {
	expectListing(t, `-8 / 2`, `  push 0
  push 8
  pop rdi
  pop rax
  sub rax, rdi
  push rax
  push 2
  pop rdi
  pop rax
  cqo
  idiv rdi
  push rax
`)
}

func TestGenerateComparisons(t *testing.T) {
	tests := []struct {
		source string
		setcc  string
		first  string // literal pushed first
	}{
		{`1 == 2`, "sete", "1"},
		{`1 != 2`, "setne", "1"},
		{`1 < 2`, "setl", "1"},
		{`1 <= 2`, "setle", "1"},
		{`1 > 2`, "setl", "2"},
		{`1 >= 2`, "setle", "2"},
	}
	for _, tt := range tests {
		ins := generate(t, tt.source)
		if len(ins) != 8 {
			t.Fatalf("%q: expected 8 instructions, got %d", tt.source, len(ins))
		}
		if ins[0].Args[0] != tt.first {
			t.Errorf("%q: expected first push %s, got %s", tt.source, tt.first, ins[0].Args[0])
		}
		want := []string{"cmp", tt.setcc, "movzb", "push"}
		for i, op := range want {
			if ins[4+i].Op != op {
				t.Errorf("%q: instruction %d: expected %s, got %s", tt.source, 4+i, op, ins[4+i].Op)
			}
		}
		if ins[6].String() != "  movzb rax, al" {
			t.Errorf("%q: expected zero-extension of al, got %q", tt.source, ins[6].String())
		}
	}
}

func TestGenerateLeftBeforeRight(t *testing.T) {
	ins := generate(t, `7 - 9`)
	if ins[0].Args[0] != "7" || ins[1].Args[0] != "9" {
		t.Errorf("expected 7 pushed before 9, got %v %v", ins[0], ins[1])
	}
	if ins[2].String() != "  pop rdi" || ins[3].String() != "  pop rax" {
		t.Errorf("expected right operand popped into rdi first, got %v %v", ins[2], ins[3])
	}
}

func TestGenerateWideLiteral(t *testing.T) {
	expectListing(t, `4294967296`, "  mov rax, 4294967296\n  push rax\n")
	expectListing(t, `2147483647`, "  push 2147483647\n")
}

func TestMaxDepth(t *testing.T) {
	tests := []struct {
		source string
		depth  int
	}{
		{`1`, 1},
		{`1 + 2`, 2},
		{`1 + 2 + 3 + 4`, 2},
		{`1 + (2 + (3 + 4))`, 4},
		{`(1 + 2) * (3 + 4)`, 3},
	}
	for _, tt := range tests {
		tokens, _ := lexer.Tokenize(tt.source)
		tree, err := parser.Parse(tokens)
		if err != nil {
			t.Fatalf("%q: %v", tt.source, err)
		}
		if got := MaxDepth(tree); got != tt.depth {
			t.Errorf("%q: expected max depth %d, got %d", tt.source, tt.depth, got)
		}
	}
}

func TestGenerateBalancedPushPop(t *testing.T) {
	for _, src := range []string{`1`, `(1 + 2) * 3 - 4`, `1 < 2 == 3 >= -4`, `- - - 5`} {
		pushes, pops := 0, 0
		for _, in := range generate(t, src) {
			switch in.Op {
			case "push":
				pushes++
			case "pop":
				pops++
			}
		}
		if pushes-pops != 1 {
			t.Errorf("%q: expected one net push, got %d pushes and %d pops", src, pushes, pops)
		}
	}
}

func TestGenerateHandBuiltTree(t *testing.T) {
	tree := ast.NewBinary(ast.Le, ast.NewNum(1, span.Span{}), ast.NewNum(2, span.Span{}))
	got := listing(Generate(tree))
	if !strings.Contains(got, "  setle al\n") {
		t.Errorf("expected setle in:\n%s", got)
	}
}
