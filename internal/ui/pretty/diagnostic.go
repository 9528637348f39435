package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/source"
)

// FormatDiagnostic formats a single diagnostic for terminal output.
// Path overrides the span's file path when set, so diagnostics are shown
// with project paths. Line and column are one-based.
func (s *Styles) FormatDiagnostic(d diag.Diagnostic, path string, showContext bool, sourceLine string) string {
	var builder strings.Builder

	if path == "" {
		path = d.Span.FilePath
	}
	line, column := Position(d.Span)

	location := s.FilePath.Render(path)
	if line > 0 {
		location += s.Location.Render(fmt.Sprintf(":%d:%d", line, column))
	}

	// Main line: location  severity  message  (id)
	builder.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(d.Severity),
		s.Message.Render(d.Message()),
		s.RuleID.Render("("+d.ID+")"),
	))

	if showContext && sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, column))
	}

	return builder.String()
}

// Position returns the one-based line and column of a span, or zeros for
// synthesized spans.
func Position(span source.Span) (int, int) {
	if span.AbsoluteIndex < 0 {
		return 0, 0
	}
	return span.LineIndex + 1, span.CharacterIndex + 1
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev diag.Severity) string {
	switch sev {
	case diag.SeverityError:
		return s.Error.Render("error")
	case diag.SeverityWarning:
		return s.Warning.Render("warning")
	case diag.SeveritySuggestion:
		return s.Info.Render("suggestion")
	default:
		return string(sev)
	}
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	// Indent to align with diagnostic output
	const indent = "        "

	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%s)", Plural(issueCount, "diagnostic", "diagnostics")))
	}
	return header
}

// Plural formats n with the singular or plural word.
func Plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
