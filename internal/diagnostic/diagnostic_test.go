package diagnostic

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	cerrors "github.com/muhigh-lang/muhigh/internal/errors"
	"github.com/muhigh-lang/muhigh/internal/position"
)

func TestReporterHasErrors(t *testing.T) {
	r := NewReporter()
	if r.HasErrors() {
		t.Fatalf("empty reporter must not have errors")
	}

	r.Warningf("W0001", position.At(1, 1), "shadowed %s", "x")
	if r.HasErrors() {
		t.Fatalf("warnings must not count as errors")
	}

	r.UnterminatedString(position.At(2, 5))
	if !r.HasErrors() {
		t.Fatalf("expected HasErrors after an error diagnostic")
	}
	if r.ErrorCount() != 1 || r.Len() != 2 {
		t.Fatalf("expected 1 error of 2 diagnostics, got %d of %d", r.ErrorCount(), r.Len())
	}

	errs := r.Errors()
	if len(errs) != 1 || errs[0].Code != CodeUnterminatedString {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if errs[0].Line != 2 || errs[0].Column != 5 {
		t.Fatalf("unexpected position %d:%d", errs[0].Line, errs[0].Column)
	}
}

func TestReporterVerboseGatesInfo(t *testing.T) {
	quiet := NewReporter()
	quiet.Infof(CodeLexStarted, position.At(1, 1), "source length %d", 10)
	if quiet.Len() != 0 {
		t.Fatalf("info must be dropped when not verbose")
	}

	loud := NewReporter(WithVerbose(true))
	loud.Infof(CodeLexStarted, position.At(1, 1), "source length %d", 10)
	if loud.Len() != 1 {
		t.Fatalf("info must be kept when verbose")
	}
	if loud.HasErrors() {
		t.Fatalf("info must not count as error")
	}
	if got := loud.Diagnostics()[0].Message; got != "source length 10" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestReporterHelpersUseStableCodes(t *testing.T) {
	r := NewReporter()
	r.UnknownCharacter('@', position.At(1, 3))
	r.InvalidNumber("12ab", position.At(1, 7))
	r.ReportError(cerrors.Syntax(CodeExpectedToken, position.At(2, 1), "expected ')'"))

	want := []string{CodeUnknownCharacter, CodeInvalidNumber, CodeExpectedToken}
	got := r.Diagnostics()
	if len(got) != len(want) {
		t.Fatalf("expected %d diagnostics, got %d", len(want), len(got))
	}
	for i, code := range want {
		if got[i].Code != code {
			t.Errorf("diagnostics[%d] - code wrong. expected=%s, got=%s", i, code, got[i].Code)
		}
	}
	if !strings.Contains(got[0].Message, "'@'") {
		t.Errorf("unknown character message should quote the rune, got %q", got[0].Message)
	}
}

func TestDiagnosticsReturnsCopy(t *testing.T) {
	r := NewReporter()
	r.Errorf(CodeUnexpectedToken, position.At(1, 1), "boom")
	ds := r.Diagnostics()
	ds[0].Message = "changed"
	if r.Diagnostics()[0].Message != "boom" {
		t.Fatalf("Diagnostics must not expose internal storage")
	}
}

func TestReporterLogsDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := NewReporter(WithLogger(logger))
	r.Errorf(CodeUnexpectedToken, position.At(4, 2), "unexpected '}'")

	if !strings.Contains(buf.String(), "code=E2001") {
		t.Fatalf("expected logged code, got %q", buf.String())
	}
}

func TestMerge(t *testing.T) {
	a := NewReporter()
	a.Errorf("E1", position.At(1, 1), "a")
	b := NewReporter()
	b.Errorf("E2", position.At(1, 1), "b")
	b.Warningf("W1", position.At(2, 1), "c")

	merged := Merge(a, nil, b)
	if len(merged) != 3 {
		t.Fatalf("expected 3 merged diagnostics, got %d", len(merged))
	}
	if merged[0].Code != "E1" || merged[1].Code != "E2" || merged[2].Code != "W1" {
		t.Fatalf("merge must keep argument order: %+v", merged)
	}
}

func TestToLSP(t *testing.T) {
	d := New().Warning().Code("W0002").At(position.At(3, 10)).Message("unused").Build()
	l := ToLSP(d)

	if l.Range.Start.Line != 2 || l.Range.Start.Character != 9 {
		t.Fatalf("expected 0-based 2:9, got %d:%d", l.Range.Start.Line, l.Range.Start.Character)
	}
	if l.Range.End.Character != 10 {
		t.Fatalf("expected single-character range, got end %d", l.Range.End.Character)
	}
	if l.Severity != LSPSeverityWarning {
		t.Fatalf("expected warning severity 2, got %d", l.Severity)
	}

	tests := []struct {
		severity Severity
		want     int
	}{
		{SeverityError, 1},
		{SeverityWarning, 2},
		{SeverityInfo, 3},
		{SeverityHint, 4},
	}
	for _, tt := range tests {
		if got := ToLSP(Diagnostic{Severity: tt.severity, Line: 1, Column: 1}).Severity; got != tt.want {
			t.Errorf("severity %s mapped to %d, want %d", tt.severity, got, tt.want)
		}
	}

	data, err := json.Marshal(ToLSPAll([]Diagnostic{d}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"source":"muhigh"`) {
		t.Fatalf("expected source field in %s", data)
	}
}

func TestFormatAndExcerpt(t *testing.T) {
	d := Diagnostic{Severity: SeverityError, Code: CodeUnknownCharacter, Message: "unknown character '@'", Line: 2, Column: 5}

	if got := Format(d, "main.mu"); got != "main.mu:2:5: error[E1001]: unknown character '@'" {
		t.Fatalf("unexpected format %q", got)
	}

	src := position.NewSourceFile("main.mu", "var x = 1\nvar @ = 2\n")
	want := "   2 | var @ = 2\n     |     ^"
	if got := Excerpt(d, src); got != want {
		t.Fatalf("unexpected excerpt:\n%s\nwant:\n%s", got, want)
	}
}

func TestSortIsStable(t *testing.T) {
	ds := []Diagnostic{
		{Line: 3, Column: 1, Code: "c"},
		{Line: 1, Column: 4, Code: "b"},
		{Line: 1, Column: 4, Code: "b2"},
		{Line: 1, Column: 1, Code: "a"},
	}
	Sort(ds)
	order := []string{"a", "b", "b2", "c"}
	for i, code := range order {
		if ds[i].Code != code {
			t.Fatalf("position %d: expected %s, got %s", i, code, ds[i].Code)
		}
	}
}

func TestSeverityJSON(t *testing.T) {
	data, err := json.Marshal(Diagnostic{Severity: SeverityWarning, Line: 1, Column: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"severity":"warning"`) {
		t.Fatalf("expected named severity, got %s", data)
	}
}
