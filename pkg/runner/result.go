package runner

import (
	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/razor"
)

// FileOutcome is the compilation of one template.
type FileOutcome struct {
	// Path is the project path of the template.
	Path string

	// PhysicalPath is the template's location on disk, if any.
	PhysicalPath string

	// Document is the compiled document. It is nil when Error is set.
	Document *razor.CodeDocument

	// OutputPath is where the generated code was written, if anywhere.
	OutputPath string

	// Written is false when the output already held the generated code.
	Written bool

	// Error is set if the template could not be read, compiled or written.
	Error error
}

// Diagnostics returns the diagnostics of the compiled document.
func (o FileOutcome) Diagnostics() []diag.Diagnostic {
	if o.Document == nil {
		return nil
	}
	return o.Document.Diagnostics()
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the number of templates selected.
	FilesDiscovered int

	// FilesCompiled is the number of templates compiled.
	FilesCompiled int

	// FilesErrored is the number of templates that could not be processed.
	FilesErrored int

	// FilesWithErrors is the number of compiled templates with error diagnostics.
	FilesWithErrors int

	// FilesWritten is the number of generated files written.
	FilesWritten int

	// DiagnosticsTotal is the total number of diagnostics across all files.
	DiagnosticsTotal int

	// DiagnosticsBySeverity maps severity levels to counts.
	DiagnosticsBySeverity map[diag.Severity]int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each template, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasFailures reports whether a template failed or has error diagnostics.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || r.Stats.DiagnosticsBySeverity[diag.SeverityError] > 0
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsTotal > 0
}

func newStats() Stats {
	return Stats{
		DiagnosticsBySeverity: make(map[diag.Severity]int),
	}
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Document == nil {
		return
	}

	r.Stats.FilesCompiled++
	if outcome.Written {
		r.Stats.FilesWritten++
	}

	diags := outcome.Diagnostics()
	r.Stats.DiagnosticsTotal += len(diags)
	if diag.HasErrors(diags) {
		r.Stats.FilesWithErrors++
	}
	for _, d := range diags {
		severity := d.Severity
		if severity == "" {
			severity = diag.SeverityWarning
		}
		r.Stats.DiagnosticsBySeverity[severity]++
	}
}
