package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/runner"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single template's results.
type JSONFileResult struct {
	Path         string           `json:"path"`
	DocumentKind string           `json:"documentKind,omitempty"`
	Output       string           `json:"output,omitempty"`
	Written      bool             `json:"written,omitempty"`
	Error        string           `json:"error,omitempty"`
	Diagnostics  []JSONDiagnostic `json:"diagnostics"`
}

// JSONDiagnostic represents a single diagnostic. Line and column are
// one-based; offset and length count characters.
type JSONDiagnostic struct {
	ID       string `json:"id"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Path     string `json:"path"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Offset   int    `json:"offset"`
	Length   int    `json:"length"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered  int            `json:"filesDiscovered"`
	FilesCompiled    int            `json:"filesCompiled"`
	FilesErrored     int            `json:"filesErrored"`
	FilesWithErrors  int            `json:"filesWithErrors"`
	FilesWritten     int            `json:"filesWritten"`
	TotalDiagnostics int            `json:"totalDiagnostics"`
	BySeverity       map[string]int `json:"bySeverity"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalDiagnostics, nil
}

func buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: "1.0.0",
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{
			BySeverity: make(map[string]int),
		},
	}

	if result == nil {
		return output
	}

	stats := result.Stats
	output.Summary.FilesDiscovered = stats.FilesDiscovered
	output.Summary.FilesCompiled = stats.FilesCompiled
	output.Summary.FilesErrored = stats.FilesErrored
	output.Summary.FilesWithErrors = stats.FilesWithErrors
	output.Summary.FilesWritten = stats.FilesWritten
	output.Summary.TotalDiagnostics = stats.DiagnosticsTotal
	for severity, n := range stats.DiagnosticsBySeverity {
		output.Summary.BySeverity[string(severity)] = n
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:        file.Path,
			Output:      file.OutputPath,
			Written:     file.Written,
			Diagnostics: make([]JSONDiagnostic, 0),
		}
		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		}
		if file.Document != nil && file.Document.IR != nil {
			fileResult.DocumentKind = file.Document.IR.Kind()
		}

		for _, d := range file.Diagnostics() {
			fileResult.Diagnostics = append(fileResult.Diagnostics, jsonDiagnostic(file, d))
		}

		output.Files = append(output.Files, fileResult)
	}

	return output
}

func jsonDiagnostic(file runner.FileOutcome, d diag.Diagnostic) JSONDiagnostic {
	out := JSONDiagnostic{
		ID:       d.ID,
		Severity: string(d.Severity),
		Message:  d.Message(),
		Path:     displayPath(file, d),
		Offset:   d.Span.AbsoluteIndex,
		Length:   d.Span.Length,
	}
	if d.Span.AbsoluteIndex >= 0 {
		out.Line = d.Span.LineIndex + 1
		out.Column = d.Span.CharacterIndex + 1
	}
	return out
}
