// Package diag provides coded diagnostics for the expression compiler.
package diag

import (
	"fmt"
	"strings"

	"exprc/internal/span"
)

// Stable diagnostic codes. The leading digit names the stage that failed.
const (
	CodeUsage          = "E0001"
	CodeBadChar        = "E1001"
	CodeLiteralRange   = "E1002"
	CodeExpected       = "E2001"
	CodeExpectedNumber = "E2002"
	CodeTrailing       = "E2003"
	CodeDivide         = "E3001"
	CodeMachine        = "E3002"
)

// Severity indicates the severity of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic represents a single compiler message tied to a source range.
type Diagnostic struct {
	Code     string    `json:"code"`           // stable error code, e.g. "E1001"
	Severity Severity  `json:"severity"`       // error or warning
	Message  string    `json:"message"`        // human-readable description
	Span     span.Span `json:"span"`           // source location
	Hint     string    `json:"hint,omitempty"` // optional hint
}

// String returns a one-line representation of the diagnostic.
func (d Diagnostic) String() string {
	prefix := d.Severity.String()
	var msg string
	if d.Span.Start.Line == 0 {
		// not tied to the source
		msg = fmt.Sprintf("[%s] %s: %s", d.Code, prefix, d.Message)
	} else {
		loc := fmt.Sprintf("%d:%d", d.Span.Start.Line, d.Span.Start.Column)
		msg = fmt.Sprintf("[%s] %s at %s: %s", d.Code, prefix, loc, d.Message)
	}
	if d.Hint != "" {
		msg += " (hint: " + d.Hint + ")"
	}
	return msg
}

// Render formats the diagnostic under the offending source line with a caret
// pointing at the start column:
//
//	1 & 2
//	  ^ unexpected character '&'
func (d Diagnostic) Render(source string) string {
	lines := strings.Split(source, "\n")
	idx := d.Span.Start.Line - 1
	if idx < 0 || idx >= len(lines) {
		return d.String()
	}
	col := d.Span.Start.Column - 1
	if col < 0 {
		col = 0
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s\n", d.Code, d.Severity, d.Message)
	b.WriteString(lines[idx])
	b.WriteByte('\n')
	fmt.Fprintf(&b, "%*s^", col, "")
	if n := d.Span.Len(); n > 1 {
		b.WriteString(strings.Repeat("~", n-1))
	}
	if d.Hint != "" {
		b.WriteString(" " + d.Hint)
	}
	return b.String()
}

// Errorf creates an error diagnostic at the given span.
func Errorf(code string, s span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Span:     s,
	}
}

// Warningf creates a warning diagnostic at the given span.
func Warningf(code string, s span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
		Span:     s,
	}
}

// WithHint returns a copy of d carrying hint.
func (d Diagnostic) WithHint(hint string) Diagnostic {
	d.Hint = hint
	return d
}
