// Command exprc compiles a single arithmetic expression to x86-64 assembly.
//
// Usage:
//
//	exprc "<expr>"
//
// The program is written to stdout. Its main routine returns the value of
// the expression. Diagnostics go to stderr and the exit status is 1.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"exprc/internal/compiler"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		err := &compiler.UsageError{Msg: fmt.Sprintf("exprc takes exactly one argument, got %d", len(args))}
		report(stderr, "", err)
		return 1
	}

	source := args[0]
	prog, err := compiler.Compile(source)
	if err != nil {
		report(stderr, source, err)
		return 1
	}

	if _, err := prog.WriteTo(stdout); err != nil {
		fmt.Fprintf(stderr, "error: writing output: %v\n", err)
		return 1
	}
	return 0
}

var errColor = color.New(color.FgRed, color.Bold)

// report prints the diagnostic for err, with a caret under the offending
// column when the error points into source.
func report(w io.Writer, source string, err error) {
	d := compiler.Diagnostic(err)
	if compiler.HasLocation(err) {
		errColor.Fprintln(w, d.Render(source))
		return
	}
	errColor.Fprintln(w, d.String())
}
