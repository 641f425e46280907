// Package position provides source position tracking for the μHigh
// front end. Positions are 1-based and point at a character, never between
// characters.
package position

import (
	"fmt"
	"strings"
)

// Position represents a single point in source code
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number, counted in runes
}

// At is shorthand for Position{Line: line, Column: column}.
func At(line, column int) Position {
	return Position{Line: line, Column: column}
}

// IsValid returns true if the position is valid
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// String returns a string representation of the position
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before returns true if this position comes before other
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// ZeroBased returns the 0-based line and character used by editor hosts.
func (p Position) ZeroBased() (line, character int) {
	line, character = p.Line-1, p.Column-1
	if line < 0 {
		line = 0
	}
	if character < 0 {
		character = 0
	}
	return line, character
}

// SourceFile keeps the lines of one compilation unit for diagnostic rendering.
type SourceFile struct {
	Filename string
	lines    []string
}

// NewSourceFile creates a new source file
func NewSourceFile(filename, content string) *SourceFile {
	return &SourceFile{
		Filename: filename,
		lines:    strings.Split(content, "\n"),
	}
}

// Line returns the text of the given 1-based line without its terminator,
// or "" when the line does not exist.
func (sf *SourceFile) Line(lineNum int) string {
	if lineNum < 1 || lineNum > len(sf.lines) {
		return ""
	}
	return strings.TrimRight(sf.lines[lineNum-1], "\r")
}

// LineCount returns the number of lines in the file.
func (sf *SourceFile) LineCount() int {
	return len(sf.lines)
}
