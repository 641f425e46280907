package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/muhigh-lang/muhigh/internal/diagnostic"
	"github.com/muhigh-lang/muhigh/internal/frontend"
	"github.com/muhigh-lang/muhigh/internal/position"
)

// FileReport summarizes one compiled unit.
type FileReport struct {
	File        string                  `json:"file"`
	Tokens      int                     `json:"tokens"`
	Statements  int                     `json:"statements"`
	Diagnostics []diagnostic.Diagnostic `json:"diagnostics"`
}

// Report is the --format json output of a check run.
type Report struct {
	RunID   string       `json:"run_id"`
	Version string       `json:"version"`
	Files   []FileReport `json:"files"`
	Errors  int          `json:"errors"`
}

// NewReport builds the report of one run under a fresh run id.
func NewReport(units []*frontend.Unit) *Report {
	r := &Report{
		RunID:   uuid.NewString(),
		Version: Version,
		Files:   make([]FileReport, 0, len(units)),
	}
	for _, u := range units {
		fr := FileReport{
			File:        u.Source.Name,
			Tokens:      len(u.Tokens),
			Diagnostics: u.Diagnostics(),
		}
		if u.Program != nil {
			fr.Statements = len(u.Program.Statements)
		}
		r.Errors += u.Reporter.ErrorCount()
		r.Files = append(r.Files, fr)
	}
	return r
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// PublishDiagnostics is the per-document payload an editor transport
// forwards to the client.
type PublishDiagnostics struct {
	URI         string                     `json:"uri"`
	Diagnostics []diagnostic.LSPDiagnostic `json:"diagnostics"`
}

// NewLSPReport converts every unit into editor coordinates. Units without
// diagnostics are included so that stale markers get cleared.
func NewLSPReport(units []*frontend.Unit) []PublishDiagnostics {
	out := make([]PublishDiagnostics, 0, len(units))
	for _, u := range units {
		out = append(out, PublishDiagnostics{
			URI:         FileURI(u.Source.Name),
			Diagnostics: diagnostic.ToLSPAll(u.Diagnostics()),
		})
	}
	return out
}

// WriteLSP writes an LSP report as indented JSON.
func WriteLSP(w io.Writer, report []PublishDiagnostics) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// FileURI turns a path into a file:// URI.
func FileURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	if filepath.VolumeName(path) != "" {
		u.Path = "/" + u.Path
	}
	return u.String()
}

// WriteText renders every diagnostic of every unit followed by a summary
// line. It returns the total error count.
func WriteText(w io.Writer, r *Renderer, units []*frontend.Unit) int {
	errors, warnings := 0, 0
	for _, u := range units {
		ds := u.Diagnostics()
		if len(ds) == 0 {
			continue
		}
		diagnostic.Sort(ds)
		src := position.NewSourceFile(u.Source.Name, u.Source.Text)
		for _, d := range ds {
			switch d.Severity {
			case diagnostic.SeverityError:
				errors++
			case diagnostic.SeverityWarning:
				warnings++
			}
			fmt.Fprintln(w, r.Diagnostic(d, u.Source.Name, src))
		}
	}
	fmt.Fprintln(w, r.Summary(len(units), errors, warnings))
	return errors
}
