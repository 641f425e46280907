package diagnostic

import (
	"fmt"
	"log/slog"

	cerrors "github.com/muhigh-lang/muhigh/internal/errors"
	"github.com/muhigh-lang/muhigh/internal/position"
)

// Reporter accumulates the diagnostics of one compilation unit. It may be
// shared by the lexer and parser of that unit but is not safe for concurrent
// writers; parallel units each get their own Reporter (see Merge).
type Reporter struct {
	diagnostics []Diagnostic
	errorCount  int
	verbose     bool
	logger      *slog.Logger
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithVerbose enables recording of Info diagnostics.
func WithVerbose(verbose bool) Option {
	return func(r *Reporter) { r.verbose = verbose }
}

// WithLogger mirrors every recorded diagnostic to logger at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reporter) { r.logger = logger }
}

// NewReporter creates an empty reporter.
func NewReporter(opts ...Option) *Reporter {
	r := &Reporter{diagnostics: make([]Diagnostic, 0)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Verbose reports whether Info diagnostics are recorded.
func (r *Reporter) Verbose() bool {
	return r.verbose
}

// Report appends a diagnostic. Info diagnostics are dropped unless verbose.
func (r *Reporter) Report(d Diagnostic) {
	if d.Severity == SeverityInfo && !r.verbose {
		return
	}
	if d.Severity == SeverityError {
		r.errorCount++
	}
	r.diagnostics = append(r.diagnostics, d)

	if r.logger != nil {
		r.logger.Debug("diagnostic",
			slog.String("severity", d.Severity.String()),
			slog.String("code", d.Code),
			slog.Int("line", d.Line),
			slog.Int("column", d.Column),
			slog.String("message", d.Message))
	}
}

// Errorf records an error diagnostic.
func (r *Reporter) Errorf(code string, pos position.Position, format string, args ...any) {
	r.Report(New().Error().Code(code).At(pos).Message(format, args...).Build())
}

// Warningf records a warning diagnostic.
func (r *Reporter) Warningf(code string, pos position.Position, format string, args ...any) {
	r.Report(New().Warning().Code(code).At(pos).Message(format, args...).Build())
}

// Infof records an informational diagnostic when verbose.
func (r *Reporter) Infof(code string, pos position.Position, format string, args ...any) {
	r.Report(New().Info().Code(code).At(pos).Message(format, args...).Build())
}

// ReportError records a compile error as an error diagnostic.
func (r *Reporter) ReportError(err *cerrors.CompileError) {
	r.Report(Diagnostic{
		Severity: SeverityError,
		Message:  err.Message,
		Line:     err.Pos.Line,
		Column:   err.Pos.Column,
		Code:     err.Code,
	})
}

// UnknownCharacterError builds the error for a character no token starts with.
func UnknownCharacterError(ch rune, pos position.Position) *cerrors.CompileError {
	return cerrors.Lexical(CodeUnknownCharacter, pos, "unknown character %q", ch)
}

// UnterminatedStringError builds the error for a string literal missing its closing quote.
func UnterminatedStringError(pos position.Position) *cerrors.CompileError {
	return cerrors.Lexical(CodeUnterminatedString, pos, "unterminated string literal")
}

// InvalidNumberError builds the error for a numeric literal that does not parse.
func InvalidNumberError(text string, pos position.Position) *cerrors.CompileError {
	return cerrors.Lexical(CodeInvalidNumber, pos, "invalid number %q", text)
}

// UnexpectedTokenError builds the error for a token the parser cannot use.
// An empty expected omits the hint.
func UnexpectedTokenError(found, expected string, pos position.Position) *cerrors.CompileError {
	if expected == "" {
		return cerrors.Syntax(CodeUnexpectedToken, pos, "unexpected %s", found)
	}
	return cerrors.Syntax(CodeUnexpectedToken, pos, "unexpected %s, expected %s", found, expected)
}

// UnexpectedToken records an unexpected token error.
func (r *Reporter) UnexpectedToken(found, expected string, pos position.Position) {
	r.ReportError(UnexpectedTokenError(found, expected, pos))
}

// UnknownCharacter records an unknown character error.
func (r *Reporter) UnknownCharacter(ch rune, pos position.Position) {
	r.ReportError(UnknownCharacterError(ch, pos))
}

// UnterminatedString records an unterminated string error.
func (r *Reporter) UnterminatedString(pos position.Position) {
	r.ReportError(UnterminatedStringError(pos))
}

// InvalidNumber records an invalid number error.
func (r *Reporter) InvalidNumber(text string, pos position.Position) {
	r.ReportError(InvalidNumberError(text, pos))
}

// HasErrors returns true if there are any errors.
func (r *Reporter) HasErrors() bool {
	return r.errorCount > 0
}

// ErrorCount returns the number of error diagnostics.
func (r *Reporter) ErrorCount() int {
	return r.errorCount
}

// Len returns the number of recorded diagnostics.
func (r *Reporter) Len() int {
	return len(r.diagnostics)
}

// Diagnostics returns a copy of all diagnostics in report order.
func (r *Reporter) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(r.diagnostics))
	copy(out, r.diagnostics)
	return out
}

// Errors returns only error-level diagnostics.
func (r *Reporter) Errors() []Diagnostic {
	errs := make([]Diagnostic, 0, r.errorCount)
	for _, d := range r.diagnostics {
		if d.Severity == SeverityError {
			errs = append(errs, d)
		}
	}
	return errs
}

// Summary returns a one-line count of errors and warnings.
func (r *Reporter) Summary() string {
	warnings := 0
	for _, d := range r.diagnostics {
		if d.Severity == SeverityWarning {
			warnings++
		}
	}
	return fmt.Sprintf("%d error(s), %d warning(s)", r.errorCount, warnings)
}

// Merge concatenates the diagnostics of independent reporters in argument
// order. Nil reporters are skipped.
func Merge(reporters ...*Reporter) []Diagnostic {
	n := 0
	for _, r := range reporters {
		if r != nil {
			n += len(r.diagnostics)
		}
	}
	out := make([]Diagnostic, 0, n)
	for _, r := range reporters {
		if r != nil {
			out = append(out, r.diagnostics...)
		}
	}
	return out
}
