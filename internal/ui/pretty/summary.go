package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/runner"
)

const summaryDividerWidth = 40

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 diagnostics (1 error, 2 warnings) in 2 files, 1 failed, 10 written".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.DiagnosticsTotal == 0 && stats.FilesErrored == 0 {
		msg := s.Success.Render("No diagnostics") +
			s.Dim.Render(fmt.Sprintf(" (%s compiled)", Plural(stats.FilesCompiled, "file", "files")))
		if stats.FilesWritten > 0 {
			msg += ", " + s.Success.Render(fmt.Sprintf("%d written", stats.FilesWritten))
		}
		return msg + "\n"
	}

	var parts []string

	var severityParts []string
	if n := stats.DiagnosticsBySeverity[diag.SeverityError]; n > 0 {
		severityParts = append(severityParts, s.Error.Render(Plural(n, "error", "errors")))
	}
	if n := stats.DiagnosticsBySeverity[diag.SeverityWarning]; n > 0 {
		severityParts = append(severityParts, s.Warning.Render(Plural(n, "warning", "warnings")))
	}
	if n := stats.DiagnosticsBySeverity[diag.SeveritySuggestion]; n > 0 {
		severityParts = append(severityParts, s.Info.Render(Plural(n, "suggestion", "suggestions")))
	}

	total := Plural(stats.DiagnosticsTotal, "diagnostic", "diagnostics")
	if len(severityParts) > 0 {
		total += " (" + strings.Join(severityParts, ", ") + ")"
	}
	parts = append(parts, total+" in "+Plural(stats.FilesCompiled, "file", "files"))

	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}
	if stats.FilesWritten > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d written", stats.FilesWritten)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Templates found:   " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)) + "\n")
	builder.WriteString("  Compiled:          " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesCompiled)) + "\n")

	if stats.FilesErrored > 0 {
		builder.WriteString("  Failed:            " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}
	if stats.FilesWithErrors > 0 {
		builder.WriteString("  With errors:       " +
			s.Failure.Render(strconv.Itoa(stats.FilesWithErrors)) + "\n")
	}
	if stats.FilesWritten > 0 {
		builder.WriteString("  Written:           " +
			s.Success.Render(strconv.Itoa(stats.FilesWritten)) + "\n")
	}

	builder.WriteString("\n")

	builder.WriteString("  Total diagnostics: " +
		s.SummaryValue.Render(strconv.Itoa(stats.DiagnosticsTotal)) + "\n")

	if n := stats.DiagnosticsBySeverity[diag.SeverityError]; n > 0 {
		builder.WriteString("    Errors:          " + s.Error.Render(strconv.Itoa(n)) + "\n")
	}
	if n := stats.DiagnosticsBySeverity[diag.SeverityWarning]; n > 0 {
		builder.WriteString("    Warnings:        " + s.Warning.Render(strconv.Itoa(n)) + "\n")
	}
	if n := stats.DiagnosticsBySeverity[diag.SeveritySuggestion]; n > 0 {
		builder.WriteString("    Suggestions:     " + s.Info.Render(strconv.Itoa(n)) + "\n")
	}

	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0 || stats.DiagnosticsBySeverity[diag.SeverityError] > 0:
		builder.WriteString(s.Failure.Render("Compilation failed"))
	case stats.DiagnosticsBySeverity[diag.SeverityWarning] > 0:
		builder.WriteString(s.Warning.Render("Compiled with warnings"))
	default:
		builder.WriteString(s.Success.Render("Compiled successfully"))
	}
	builder.WriteString("\n")

	return builder.String()
}
