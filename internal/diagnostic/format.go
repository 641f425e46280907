package diagnostic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/muhigh-lang/muhigh/internal/position"
)

// Format renders a diagnostic as file:line:col: severity[code]: message.
func Format(d Diagnostic, filename string) string {
	var b strings.Builder
	if filename != "" {
		b.WriteString(filename)
		b.WriteByte(':')
	}
	fmt.Fprintf(&b, "%d:%d: %s", d.Line, d.Column, d.Severity)
	if d.Code != "" {
		b.WriteString("[" + d.Code + "]")
	}
	b.WriteString(": " + d.Message)
	return b.String()
}

// Excerpt renders the source line a diagnostic points at with a caret under
// the column. It returns "" when the line is not available.
func Excerpt(d Diagnostic, src *position.SourceFile) string {
	if src == nil {
		return ""
	}
	line := src.Line(d.Line)
	if line == "" {
		return ""
	}
	col := d.Column
	if col < 1 {
		col = 1
	}
	return fmt.Sprintf("%4d | %s\n     | %s^", d.Line, line, strings.Repeat(" ", col-1))
}

// Sort orders diagnostics by position, then severity. Equal elements keep
// their report order.
func Sort(ds []Diagnostic) {
	sort.SliceStable(ds, func(i, j int) bool {
		a, b := ds[i], ds[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Severity < b.Severity
	})
}
