package diagnostic

// LSP severities as defined by the publishDiagnostics notification.
const (
	LSPSeverityError       = 1
	LSPSeverityWarning     = 2
	LSPSeverityInformation = 3
	LSPSeverityHint        = 4
)

// LSPPosition is a 0-based line/character pair.
type LSPPosition struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// LSPRange is a half-open range between two LSP positions.
type LSPRange struct {
	Start LSPPosition `json:"start"`
	End   LSPPosition `json:"end"`
}

// LSPDiagnostic is the editor-facing shape of a Diagnostic.
type LSPDiagnostic struct {
	Range    LSPRange `json:"range"`
	Severity int      `json:"severity"`
	Code     string   `json:"code,omitempty"`
	Source   string   `json:"source"`
	Message  string   `json:"message"`
}

// LSPSource is reported as the diagnostic source to editors.
const LSPSource = "muhigh"

// ToLSP remaps a diagnostic to 0-based coordinates and the 4-level editor
// severity scale. The range covers the single character the diagnostic
// points at.
func ToLSP(d Diagnostic) LSPDiagnostic {
	line, char := d.Pos().ZeroBased()
	return LSPDiagnostic{
		Range: LSPRange{
			Start: LSPPosition{Line: line, Character: char},
			End:   LSPPosition{Line: line, Character: char + 1},
		},
		Severity: lspSeverity(d.Severity),
		Code:     d.Code,
		Source:   LSPSource,
		Message:  d.Message,
	}
}

// ToLSPAll converts a diagnostic list, preserving order.
func ToLSPAll(ds []Diagnostic) []LSPDiagnostic {
	out := make([]LSPDiagnostic, 0, len(ds))
	for _, d := range ds {
		out = append(out, ToLSP(d))
	}
	return out
}

func lspSeverity(s Severity) int {
	switch s {
	case SeverityError:
		return LSPSeverityError
	case SeverityWarning:
		return LSPSeverityWarning
	case SeverityInfo:
		return LSPSeverityInformation
	default:
		return LSPSeverityHint
	}
}
