package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/muhigh-lang/muhigh/internal/diagnostic"
	"github.com/muhigh-lang/muhigh/internal/position"
)

// Color palette for terminal output.
var (
	ColorError   = lipgloss.Color("#EF4444")
	ColorWarning = lipgloss.Color("#F59E0B")
	ColorInfo    = lipgloss.Color("#06B6D4")
	ColorHint    = lipgloss.Color("#10B981")
	ColorMuted   = lipgloss.Color("#6B7280")
)

// UseColor decides whether output written to w should be colored. mode is
// auto, always or never; auto colors terminals unless NO_COLOR is set.
func UseColor(mode string, w io.Writer) bool {
	switch strings.ToLower(mode) {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	return ok && isTerminal(f.Fd())
}

// Renderer formats diagnostics for humans.
type Renderer struct {
	severity map[diagnostic.Severity]lipgloss.Style
	location lipgloss.Style
	muted    lipgloss.Style
	bold     lipgloss.Style
}

// NewRenderer creates a renderer for w. Without color every style renders
// plain text.
func NewRenderer(w io.Writer, color bool) *Renderer {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Renderer{
		severity: map[diagnostic.Severity]lipgloss.Style{
			diagnostic.SeverityError:   r.NewStyle().Foreground(ColorError).Bold(true),
			diagnostic.SeverityWarning: r.NewStyle().Foreground(ColorWarning).Bold(true),
			diagnostic.SeverityInfo:    r.NewStyle().Foreground(ColorInfo),
			diagnostic.SeverityHint:    r.NewStyle().Foreground(ColorHint),
		},
		location: r.NewStyle().Bold(true),
		muted:    r.NewStyle().Foreground(ColorMuted),
		bold:     r.NewStyle().Bold(true),
	}
}

// Diagnostic renders one diagnostic, followed by a source excerpt when src
// holds the line.
func (r *Renderer) Diagnostic(d diagnostic.Diagnostic, filename string, src *position.SourceFile) string {
	var b strings.Builder
	loc := fmt.Sprintf("%d:%d", d.Line, d.Column)
	if filename != "" {
		loc = filename + ":" + loc
	}
	label := d.Severity.String()
	if d.Code != "" {
		label += "[" + d.Code + "]"
	}
	fmt.Fprintf(&b, "%s: %s: %s", r.location.Render(loc), r.severity[d.Severity].Render(label), d.Message)

	if excerpt := diagnostic.Excerpt(d, src); excerpt != "" {
		gutter, caret, _ := strings.Cut(excerpt, "\n")
		b.WriteString("\n" + r.muted.Render(gutter) + "\n" + r.severity[d.Severity].Render(caret))
	}
	return b.String()
}

// Summary renders the closing line of a check run.
func (r *Renderer) Summary(files, errors, warnings int) string {
	text := fmt.Sprintf("%d file(s) checked, %d error(s), %d warning(s)", files, errors, warnings)
	switch {
	case errors > 0:
		return r.severity[diagnostic.SeverityError].Render(text)
	case warnings > 0:
		return r.severity[diagnostic.SeverityWarning].Render(text)
	default:
		return r.bold.Render(text)
	}
}
