// Package asm models the x86-64 (Intel syntax) instruction stream emitted by
// the code generator, and reads the same dialect back for execution.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Registers used by generated code.
const (
	RAX = "rax"
	RDI = "rdi"
	AL  = "al"
)

// EntryLabel is the globally visible routine every program defines.
const EntryLabel = "main"

// Instruction is one machine instruction with up to two operands.
type Instruction struct {
	Op   string
	Args []string
}

// New returns an instruction.
func New(op string, args ...string) Instruction {
	return Instruction{Op: op, Args: args}
}

func (in Instruction) String() string {
	if len(in.Args) == 0 {
		return "  " + in.Op
	}
	return "  " + in.Op + " " + strings.Join(in.Args, ", ")
}

// Program is a complete translation unit: a fixed prologue that declares
// the entry routine, the body, and an epilogue that returns the stack top.
type Program struct {
	Body []Instruction
}

// Prologue returns the directive and label lines that open every program.
func Prologue() []string {
	return []string{
		".intel_syntax noprefix",
		".globl " + EntryLabel,
		EntryLabel + ":",
	}
}

// Epilogue moves the single remaining stack value into rax and returns.
func Epilogue() []Instruction {
	return []Instruction{
		New("pop", RAX),
		New("ret"),
	}
}

// Instructions returns the body followed by the epilogue.
func (p *Program) Instructions() []Instruction {
	out := make([]Instruction, 0, len(p.Body)+2)
	out = append(out, p.Body...)
	return append(out, Epilogue()...)
}

// WriteTo renders the full program text.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, line := range Prologue() {
		c, err := fmt.Fprintln(bw, line)
		n += int64(c)
		if err != nil {
			return n, err
		}
	}
	if err := writeInstructions(bw, p.Instructions(), &n); err != nil {
		return n, err
	}
	return n, bw.Flush()
}

// WriteBody renders only the generated instructions, without framing.
func (p *Program) WriteBody(w io.Writer) error {
	bw := bufio.NewWriter(w)
	var n int64
	if err := writeInstructions(bw, p.Body, &n); err != nil {
		return err
	}
	return bw.Flush()
}

func (p *Program) String() string {
	var b strings.Builder
	p.WriteTo(&b)
	return b.String()
}

func writeInstructions(w io.Writer, ins []Instruction, n *int64) error {
	for _, in := range ins {
		c, err := fmt.Fprintln(w, in.String())
		*n += int64(c)
		if err != nil {
			return err
		}
	}
	return nil
}
