package types

import "fmt"

// DiagnosticKind classifies per-file failures. File-level failures never
// abort a batch; they accumulate into the operation summary.
type DiagnosticKind string

const (
	DiagDecodeError DiagnosticKind = "decode_error" // file is not decodable UTF-8 text
	DiagParseError  DiagnosticKind = "parse_error"  // construct the parser cannot handle
	DiagIOError     DiagnosticKind = "io_error"     // file unreadable
)

// Diagnostic describes a per-file failure with a best-effort location
type Diagnostic struct {
	Path    string
	Line    int // 1-indexed; 0 when no location applies
	Kind    DiagnosticKind
	Message string
}

// Error implements the error interface
func (d Diagnostic) Error() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", d.Path, d.Line, d.Kind, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Path, d.Kind, d.Message)
}

// ParseResult is the output of parsing one source file
type ParseResult struct {
	Symbols     []Symbol
	Diagnostics []Diagnostic
}

// HasDiagnostics returns true if any failures were recorded
func (pr *ParseResult) HasDiagnostics() bool {
	return len(pr.Diagnostics) > 0
}

// AddDiagnostic records a per-file failure on the result
func (pr *ParseResult) AddDiagnostic(path string, line int, kind DiagnosticKind, msg string) {
	pr.Diagnostics = append(pr.Diagnostics, Diagnostic{
		Path:    path,
		Line:    line,
		Kind:    kind,
		Message: msg,
	})
}
