// Command exprtool exposes each stage of the expression compiler.
//
// Usage:
//
//	exprtool tokens [-j] <expr>    Print tokens (-j: as JSON)
//	exprtool parse  <expr>         Print the AST as JSON
//	exprtool asm    [-n] <expr>    Print assembly (-n: body only, no framing)
//	exprtool run    [-t] <expr>    Compile and execute on the stack machine (-t: trace)
//	exprtool eval   <expr>         Evaluate the AST directly
//	exprtool repl                  Start interactive REPL
//
// Put "--" before an expression that starts with '-'.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"git.sr.ht/~sircmpwn/getopt"

	"exprc/internal/compiler"
	"exprc/internal/lexer"
	"exprc/internal/runtime"
	"exprc/internal/vm"
)

// tool carries the output streams shared by every command.
type tool struct {
	stdout io.Writer
	stderr io.Writer
}

func main() {
	t := &tool{stdout: os.Stdout, stderr: os.Stderr}
	os.Exit(t.main(os.Args[1:]))
}

// main dispatches args[0] as the command name. The remaining arguments are
// left for the command's own getopt parsing.
func (t *tool) main(args []string) int {
	if len(args) < 1 {
		t.usage()
		return 1
	}

	switch args[0] {
	case "tokens":
		return t.cmdTokens(args)
	case "parse":
		return t.cmdParse(args)
	case "asm":
		return t.cmdAsm(args)
	case "run":
		return t.cmdRun(args)
	case "eval":
		return t.cmdEval(args)
	case "repl":
		return t.cmdRepl()
	case "help", "-h":
		t.usage()
		return 0
	default:
		fmt.Fprintf(t.stderr, "error: unknown command '%s'\n", args[0])
		t.usage()
		return 1
	}
}

func (t *tool) usage() {
	fmt.Fprintln(t.stderr, "Usage:")
	fmt.Fprintln(t.stderr, "  exprtool tokens [-j] <expr>   Tokenize and print tokens")
	fmt.Fprintln(t.stderr, "  exprtool parse  <expr>        Parse and print AST (JSON)")
	fmt.Fprintln(t.stderr, "  exprtool asm    [-n] <expr>   Print generated assembly")
	fmt.Fprintln(t.stderr, "  exprtool run    [-t] <expr>   Compile and run on the stack machine")
	fmt.Fprintln(t.stderr, "  exprtool eval   <expr>        Evaluate directly")
	fmt.Fprintln(t.stderr, "  exprtool repl                 Start interactive REPL")
}

// parseArgs runs getopt over a command's arguments (args[0] is the command
// name) and returns the set flags and the single expression operand.
func (t *tool) parseArgs(args []string, optstring string) (map[rune]bool, string, bool) {
	opts, optind, err := getopt.Getopts(args, optstring)
	if err != nil {
		t.fail("", &compiler.UsageError{Msg: fmt.Sprintf("%s: %v", args[0], err)})
		return nil, "", false
	}
	flags := make(map[rune]bool)
	for _, o := range opts {
		flags[o.Option] = true
	}
	rest := args[optind:]
	if len(rest) != 1 {
		t.fail("", &compiler.UsageError{Msg: fmt.Sprintf("%s takes exactly one expression, got %d", args[0], len(rest))})
		return nil, "", false
	}
	return flags, rest[0], true
}

// ---- tokens command ----

func (t *tool) cmdTokens(args []string) int {
	flags, source, ok := t.parseArgs(args, "j")
	if !ok {
		return 1
	}
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		t.fail(source, err)
		return 1
	}
	if flags['j'] {
		return t.printTokensJSON(tokens)
	}
	t.printTokensText(tokens)
	return 0
}

// ---- parse command ----

func (t *tool) cmdParse(args []string) int {
	_, source, ok := t.parseArgs(args, "")
	if !ok {
		return 1
	}
	tree, err := compiler.Parse(source)
	if err != nil {
		t.fail(source, err)
		return 1
	}
	return t.printAST(tree)
}

// ---- asm command ----

func (t *tool) cmdAsm(args []string) int {
	flags, source, ok := t.parseArgs(args, "n")
	if !ok {
		return 1
	}
	prog, err := compiler.Compile(source)
	if err != nil {
		t.fail(source, err)
		return 1
	}
	if flags['n'] {
		err = prog.WriteBody(t.stdout)
	} else {
		_, err = prog.WriteTo(t.stdout)
	}
	if err != nil {
		fmt.Fprintf(t.stderr, "error: writing output: %v\n", err)
		return 1
	}
	return 0
}

// ---- run command ----

func (t *tool) cmdRun(args []string) int {
	flags, source, ok := t.parseArgs(args, "t")
	if !ok {
		return 1
	}
	prog, err := compiler.Compile(source)
	if err != nil {
		t.fail(source, err)
		return 1
	}

	m := vm.New()
	if flags['t'] {
		m.Trace = t.stdout
	}
	result, err := m.Run(prog.Instructions())
	if err != nil {
		t.fail(source, err)
		return 1
	}
	fmt.Fprintln(t.stdout, result)
	return 0
}

// ---- eval command ----

func (t *tool) cmdEval(args []string) int {
	_, source, ok := t.parseArgs(args, "")
	if !ok {
		return 1
	}
	tree, err := compiler.Parse(source)
	if err != nil {
		t.fail(source, err)
		return 1
	}
	result, err := runtime.Eval(tree)
	if err != nil {
		t.fail(source, err)
		return 1
	}
	fmt.Fprintln(t.stdout, result)
	return 0
}

// isBlank reports whether a REPL line holds no expression.
func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
