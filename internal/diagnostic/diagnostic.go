// Diagnostic reporting for the μHigh front end.
// Collects errors, warnings and informational records from the lexer and
// parser of one compilation unit into a single ordered list.

package diagnostic

import (
	"fmt"

	"github.com/muhigh-lang/muhigh/internal/position"
)

// Severity represents the severity level of a diagnostic message.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// MarshalText renders the severity by name in JSON reports.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Stable diagnostic codes.
const (
	CodeUnknownCharacter   = "E1001"
	CodeUnterminatedString = "E1002"
	CodeInvalidNumber      = "E1003"
	CodeLexerRecovered     = "E1099"

	CodeUnexpectedToken   = "E2001"
	CodeExpectedToken     = "E2002"
	CodeMalformedAttr     = "E2003"
	CodeMalformedGeneric  = "E2004"
	CodeMalformedMatchArm = "E2005"
	CodeDanglingAttribute = "E2006"
	CodeInvalidAssignment = "E2007"

	CodeLexStarted    = "I0001"
	CodeLexFinished   = "I0002"
	CodeParseFinished = "I0003"
)

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Code     string   `json:"code"`
}

// Pos returns the position the diagnostic points at.
func (d Diagnostic) Pos() position.Position {
	return position.At(d.Line, d.Column)
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s[%s]: %s", d.Line, d.Column, d.Severity, d.Code, d.Message)
}

// Builder helps construct diagnostic messages with fluent API.
type Builder struct {
	diagnostic Diagnostic
}

// New creates a new diagnostic builder with error severity.
func New() *Builder {
	return &Builder{diagnostic: Diagnostic{Severity: SeverityError}}
}

func (b *Builder) Error() *Builder {
	b.diagnostic.Severity = SeverityError

	return b
}

func (b *Builder) Warning() *Builder {
	b.diagnostic.Severity = SeverityWarning

	return b
}

func (b *Builder) Info() *Builder {
	b.diagnostic.Severity = SeverityInfo

	return b
}

func (b *Builder) Code(code string) *Builder {
	b.diagnostic.Code = code

	return b
}

func (b *Builder) At(pos position.Position) *Builder {
	b.diagnostic.Line = pos.Line
	b.diagnostic.Column = pos.Column

	return b
}

func (b *Builder) Message(format string, args ...any) *Builder {
	if len(args) == 0 {
		b.diagnostic.Message = format
	} else {
		b.diagnostic.Message = fmt.Sprintf(format, args...)
	}

	return b
}

func (b *Builder) Build() Diagnostic {
	return b.diagnostic
}
