package database

import (
	"fmt"
	"strings"
)

// Span locates a bound declaration or expression in the compilation unit.
// Declarations arrive pre-bound, so spans carry no source text; the path is
// the unit (or example) name and the line is the declaration's position
// within it.
type Span struct {
	Path   string `json:"path"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func CompareSpans(left Span, right Span) int {
	if left.Path != right.Path {
		return strings.Compare(left.Path, right.Path)
	}

	if left.Line != right.Line {
		return left.Line - right.Line
	}

	return left.Column - right.Column
}

func SpansAreEqual(left Span, right Span) bool {
	return CompareSpans(left, right) == 0
}

func (span Span) String() string {
	return fmt.Sprintf("%s:%d:%d", span.Path, span.Line, span.Column)
}

func NullSpan() Span {
	return Span{}
}
