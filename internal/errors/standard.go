// Package errors provides the standardized compile error type shared by the
// lexer and parser, and the error-handling mode both phases run under.
package errors

import (
	"fmt"
	"strings"

	"github.com/muhigh-lang/muhigh/internal/position"
)

// Category represents different categories of errors
type Category string

const (
	CategoryLexical Category = "LEXICAL"
	CategorySyntax  Category = "SYNTAX"
)

// Sentinels for errors.Is checks against a category.
var (
	ErrLexical = &CompileError{Category: CategoryLexical}
	ErrSyntax  = &CompileError{Category: CategorySyntax}
)

// CompileError is a lexical or syntax problem at a source position.
type CompileError struct {
	Category Category
	Code     string
	Message  string
	Pos      position.Position
}

// Error implements the error interface
func (e *CompileError) Error() string {
	return fmt.Sprintf("%s [%s:%s] %s", e.Pos, e.Category, e.Code, e.Message)
}

// Is matches sentinels by category, and by code when the target carries one.
func (e *CompileError) Is(target error) bool {
	t, ok := target.(*CompileError)
	if !ok {
		return false
	}
	if t.Category != "" && t.Category != e.Category {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// Lexical creates a lexical error.
func Lexical(code string, pos position.Position, format string, args ...any) *CompileError {
	return &CompileError{
		Category: CategoryLexical,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	}
}

// Syntax creates a syntax error.
func Syntax(code string, pos position.Position, format string, args ...any) *CompileError {
	return &CompileError{
		Category: CategorySyntax,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	}
}

// Mode selects what happens after a problem has been reported.
type Mode int

const (
	// Strict aborts the current phase on the first unrecovered problem.
	Strict Mode = iota
	// DiagnosticsOnly records problems and recovers locally; it never fails.
	DiagnosticsOnly
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case DiagnosticsOnly:
		return "diagnostics"
	default:
		return "unknown"
	}
}

// ParseMode converts a configuration or flag value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict", "":
		return Strict, nil
	case "diagnostics", "diagnostics-only", "lenient":
		return DiagnosticsOnly, nil
	default:
		return Strict, fmt.Errorf("unknown error mode %q (want strict or diagnostics)", s)
	}
}
