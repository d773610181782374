package asm

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Parse reads program text in the dialect WriteTo produces and returns the
// instructions of the entry routine, epilogue included. Directives, blank
// lines and '#' comments are skipped. Only the entry label is recognized.
func Parse(r io.Reader) ([]Instruction, error) {
	var out []Instruction
	inEntry := false
	lineNo := 0

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(stripComment(sc.Text()))
		if line == "" || strings.HasPrefix(line, ".") {
			continue
		}

		if label, ok := strings.CutSuffix(line, ":"); ok {
			if label != EntryLabel {
				return nil, fmt.Errorf("line %d: unknown label %q", lineNo, label)
			}
			if inEntry {
				return nil, fmt.Errorf("line %d: duplicate label %q", lineNo, label)
			}
			inEntry = true
			continue
		}

		if !inEntry {
			return nil, fmt.Errorf("line %d: instruction before %s:", lineNo, EntryLabel)
		}
		in, err := parseInstruction(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		out = append(out, in)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !inEntry {
		return nil, fmt.Errorf("missing %s: label", EntryLabel)
	}
	return out, nil
}

// ParseString is Parse over a string.
func ParseString(text string) ([]Instruction, error) {
	return Parse(strings.NewReader(text))
}

func parseInstruction(line string) (Instruction, error) {
	op, rest := line, ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		op, rest = line[:i], line[i+1:]
	}
	in := Instruction{Op: strings.ToLower(op)}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return in, nil
	}
	for _, arg := range strings.Split(rest, ",") {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			return in, fmt.Errorf("empty operand in %q", line)
		}
		in.Args = append(in.Args, arg)
	}
	if len(in.Args) > 2 {
		return in, fmt.Errorf("too many operands in %q", line)
	}
	return in, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}
