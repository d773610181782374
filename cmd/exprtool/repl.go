package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"exprc/internal/compiler"
	"exprc/internal/runtime"
	"exprc/internal/vm"
)

var (
	promptColor = color.New(color.FgGreen).SprintFunc()
	bannerColor = color.New(color.FgCyan, color.Bold).SprintFunc()
	hintColor   = color.New(color.FgHiBlack).SprintFunc()
	resultColor = color.New(color.FgYellow)
)

// session is the state the REPL keeps between lines.
type session struct {
	showAsm bool
}

// ---- repl command ----

func (t *tool) cmdRepl() int {
	// Determine history file path (~/.exprc_history)
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".exprc_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            promptColor("expr> "),
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintf(t.stderr, "readline init failed: %v\n", err)
		return 1
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "%s %s\n\n",
		bannerColor("exprc REPL"), hintColor("(':asm' toggles listings, 'exit' or Ctrl+D quits)"))

	s := &session{}
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				fmt.Fprintf(rl.Stdout(), "%s\n", hintColor("(use 'exit' or Ctrl+D to quit)"))
				continue
			}
			// EOF (Ctrl+D) or other error → exit
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(rl.Stdout())
			}
			break
		}

		if strings.TrimSpace(line) == "exit" {
			break
		}
		s.eval(rl.Stdout(), rl.Stderr(), line)
	}
	return 0
}

// eval handles one REPL line: a command, or an expression to compile, run
// and cross-check against the direct evaluator.
func (s *session) eval(stdout, stderr io.Writer, line string) {
	if isBlank(line) {
		return
	}
	if strings.TrimSpace(line) == ":asm" {
		s.showAsm = !s.showAsm
		fmt.Fprintf(stdout, "%s\n", hintColor(fmt.Sprintf("listings %s", onOff(s.showAsm))))
		return
	}

	prog, err := compiler.Compile(line)
	if err != nil {
		printDiag(stderr, line, err)
		return
	}
	if s.showAsm {
		prog.WriteBody(stdout)
	}

	got, err := vm.Run(prog.Instructions())
	if err != nil {
		printDiag(stderr, line, err)
		return
	}

	tree, _ := compiler.Parse(line)
	want, err := runtime.Eval(tree)
	if err != nil || want != got {
		fmt.Fprintf(stderr, "mismatch: machine=%d evaluator=%d (%v)\n", got, want, err)
		return
	}
	resultColor.Fprintln(stdout, got)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
