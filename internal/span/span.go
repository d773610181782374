// Package span provides source positions and ranges shared by tokens, AST nodes and diagnostics.
package span

import "fmt"

// Position is a location in the expression source.
type Position struct {
	Offset int `json:"offset"` // byte offset from beginning of source
	Line   int `json:"line"`   // 1-based line number
	Column int `json:"column"` // 1-based column number
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is the half-open range [Start, End).
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Point returns an empty span located at p.
func Point(p Position) Span {
	return Span{Start: p, End: p}
}

// Cover returns the smallest span containing both a and b.
func Cover(a, b Span) Span {
	s := a
	if b.Start.Offset < s.Start.Offset {
		s.Start = b.Start
	}
	if b.End.Offset > s.End.Offset {
		s.End = b.End
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("%s..%s", s.Start, s.End)
}

// Len returns the byte length of the span.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}
