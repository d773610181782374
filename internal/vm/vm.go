// Package vm executes the straight-line instruction streams the code
// generator emits, on a simulated operand stack and register file.
package vm

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/edwingeng/deque"

	"exprc/internal/asm"
	"exprc/internal/diag"
	"exprc/internal/span"
)

// Fault reports an instruction the machine could not execute.
type Fault struct {
	PC    int // index of the faulting instruction
	Instr asm.Instruction
	Msg   string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("fault at #%d (%s): %s", f.PC, f.Instr.String()[2:], f.Msg)
}

// Diagnostic converts the fault to a coded diagnostic. Faults carry no
// source location.
func (f *Fault) Diagnostic() diag.Diagnostic {
	code := diag.CodeMachine
	if f.Msg == msgDivZero || f.Msg == msgDivOverflow {
		code = diag.CodeDivide
	}
	return diag.Errorf(code, span.Span{}, "%s", f.Error())
}

const (
	msgDivZero     = "division by zero"
	msgDivOverflow = "division overflow"
)

// Machine is a minimal x86-64 subset: the general registers touched by
// generated code, the result of the last cmp, and an operand stack.
type Machine struct {
	regs  map[string]int64
	stack deque.Deque
	cmpL  int64
	cmpR  int64

	// Trace, when set, receives one line per executed instruction.
	Trace io.Writer
}

// New returns a machine with zeroed registers and an empty stack.
func New() *Machine {
	m := &Machine{}
	m.reset()
	return m
}

func (m *Machine) reset() {
	m.regs = map[string]int64{"rax": 0, "rdi": 0, "rdx": 0}
	m.stack = deque.NewDeque()
	m.cmpL, m.cmpR = 0, 0
}

// Run executes prog from the first instruction until ret and returns rax.
// The operand stack must be empty when ret executes.
func (m *Machine) Run(prog []asm.Instruction) (int64, error) {
	m.reset()
	for pc, in := range prog {
		done, err := m.step(in)
		if err != nil {
			return 0, &Fault{PC: pc, Instr: in, Msg: err.Error()}
		}
		if m.Trace != nil {
			fmt.Fprintf(m.Trace, "%4d  %-24s depth=%d rax=%d\n", pc, in.String()[2:], m.stack.Len(), m.regs["rax"])
		}
		if done {
			if !m.stack.Empty() {
				return 0, &Fault{PC: pc, Instr: in, Msg: fmt.Sprintf("%d values left on stack at ret", m.stack.Len())}
			}
			return m.regs["rax"], nil
		}
	}
	last := asm.Instruction{Op: "<end>"}
	return 0, &Fault{PC: len(prog), Instr: last, Msg: "fell off the end without ret"}
}

// Run is shorthand for New().Run(prog).
func Run(prog []asm.Instruction) (int64, error) {
	return New().Run(prog)
}

// Depth returns the number of values on the operand stack.
func (m *Machine) Depth() int {
	return m.stack.Len()
}

// Reg returns the value of a 64-bit register.
func (m *Machine) Reg(name string) int64 {
	return m.regs[name]
}

func (m *Machine) step(in asm.Instruction) (bool, error) {
	if err := checkArity(in); err != nil {
		return false, err
	}

	switch in.Op {
	case "push":
		v, err := m.operand(in.Args[0], true)
		if err != nil {
			return false, err
		}
		m.stack.PushBack(v)

	case "pop":
		if err := m.checkReg64(in.Args[0]); err != nil {
			return false, err
		}
		if m.stack.Empty() {
			return false, errors.New("stack underflow")
		}
		m.regs[in.Args[0]] = m.stack.PopBack().(int64)

	case "mov":
		if err := m.checkReg64(in.Args[0]); err != nil {
			return false, err
		}
		v, err := m.operand(in.Args[1], false)
		if err != nil {
			return false, err
		}
		m.regs[in.Args[0]] = v

	case "add", "sub", "imul", "cmp":
		if err := m.checkReg64(in.Args[0]); err != nil {
			return false, err
		}
		a := m.regs[in.Args[0]]
		b, err := m.operand(in.Args[1], true)
		if err != nil {
			return false, err
		}
		switch in.Op {
		case "add":
			m.regs[in.Args[0]] = a + b
		case "sub":
			m.regs[in.Args[0]] = a - b
		case "imul":
			m.regs[in.Args[0]] = a * b
		case "cmp":
			m.cmpL, m.cmpR = a, b
		}

	case "cqo":
		m.regs["rdx"] = m.regs["rax"] >> 63

	case "idiv":
		if err := m.checkReg64(in.Args[0]); err != nil {
			return false, err
		}
		return false, m.idiv(m.regs[in.Args[0]])

	case "sete", "setne", "setl", "setle":
		if in.Args[0] != asm.AL {
			return false, fmt.Errorf("%s needs an 8-bit register, got %s", in.Op, in.Args[0])
		}
		var bit int64
		if m.condition(in.Op) {
			bit = 1
		}
		m.regs["rax"] = m.regs["rax"]&^0xff | bit

	case "movzb":
		if err := m.checkReg64(in.Args[0]); err != nil {
			return false, err
		}
		if in.Args[1] != asm.AL {
			return false, fmt.Errorf("movzb source must be al, got %s", in.Args[1])
		}
		m.regs[in.Args[0]] = m.regs["rax"] & 0xff

	case "ret":
		return true, nil

	default:
		return false, fmt.Errorf("unknown instruction %q", in.Op)
	}
	return false, nil
}

// idiv divides rdx:rax by divisor. Only sign-extended dividends, as left by
// cqo, are supported.
func (m *Machine) idiv(divisor int64) error {
	rax, rdx := m.regs["rax"], m.regs["rdx"]
	if rdx != rax>>63 {
		return errors.New("dividend rdx:rax is not sign-extended")
	}
	if divisor == 0 {
		return errors.New(msgDivZero)
	}
	if rax == math.MinInt64 && divisor == -1 {
		return errors.New(msgDivOverflow)
	}
	m.regs["rax"] = rax / divisor
	m.regs["rdx"] = rax % divisor
	return nil
}

func (m *Machine) condition(op string) bool {
	switch op {
	case "sete":
		return m.cmpL == m.cmpR
	case "setne":
		return m.cmpL != m.cmpR
	case "setl":
		return m.cmpL < m.cmpR
	default: // setle
		return m.cmpL <= m.cmpR
	}
}

// operand resolves a register or an immediate. imm32 limits immediates to
// the sign-extended 32-bit form push and arithmetic instructions accept.
func (m *Machine) operand(arg string, imm32 bool) (int64, error) {
	if v, ok := m.regs[arg]; ok {
		return v, nil
	}
	v, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad operand %q", arg)
	}
	if imm32 && (v < math.MinInt32 || v > math.MaxInt32) {
		return 0, fmt.Errorf("immediate %d does not fit in 32 bits", v)
	}
	return v, nil
}

func (m *Machine) checkReg64(arg string) error {
	if _, ok := m.regs[arg]; !ok {
		return fmt.Errorf("expected a 64-bit register, got %q", arg)
	}
	return nil
}

var arity = map[string]int{
	"push": 1, "pop": 1, "idiv": 1,
	"sete": 1, "setne": 1, "setl": 1, "setle": 1,
	"mov": 2, "add": 2, "sub": 2, "imul": 2, "cmp": 2, "movzb": 2,
	"cqo": 0, "ret": 0,
}

func checkArity(in asm.Instruction) error {
	n, ok := arity[in.Op]
	if !ok {
		return fmt.Errorf("unknown instruction %q", in.Op)
	}
	if len(in.Args) != n {
		return fmt.Errorf("%s takes %d operand(s), got %d", in.Op, n, len(in.Args))
	}
	return nil
}
