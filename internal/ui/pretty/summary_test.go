package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gorazor/internal/ui/pretty"
	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/runner"
)

func TestFormatSummary_Basic(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesDiscovered:  10,
		FilesCompiled:    10,
		FilesWithErrors:  3,
		DiagnosticsTotal: 15,
		DiagnosticsBySeverity: map[diag.Severity]int{
			diag.SeverityError:   5,
			diag.SeverityWarning: 10,
		},
	}

	result := styles.FormatSummary(stats)

	assert.Contains(t, result, "Summary")
	assert.Contains(t, result, "Templates found:   10")
	assert.Contains(t, result, "With errors:       3")
	assert.Contains(t, result, "Total diagnostics: 15")
	assert.Contains(t, result, "Errors:          5")
	assert.Contains(t, result, "Warnings:        10")
	assert.Contains(t, result, "Compilation failed")
}

func TestFormatSummary_Status(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats runner.Stats
		want  string
	}{
		{
			name:  "clean",
			stats: runner.Stats{FilesDiscovered: 5, FilesCompiled: 5, DiagnosticsBySeverity: map[diag.Severity]int{}},
			want:  "Compiled successfully",
		},
		{
			name: "warnings",
			stats: runner.Stats{
				FilesCompiled:         2,
				DiagnosticsTotal:      1,
				DiagnosticsBySeverity: map[diag.Severity]int{diag.SeverityWarning: 1},
			},
			want: "Compiled with warnings",
		},
		{
			name:  "failed file",
			stats: runner.Stats{FilesDiscovered: 1, FilesErrored: 1, DiagnosticsBySeverity: map[diag.Severity]int{}},
			want:  "Compilation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, styles.FormatSummary(tt.stats), tt.want)
		})
	}
}

func TestFormatSummary_Written(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSummary(runner.Stats{FilesCompiled: 3, FilesWritten: 2})

	assert.Contains(t, result, "Written:           2")
	assert.NotContains(t, result, "Failed:")
}

func TestFormatSummaryOneLine_NoDiagnostics(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSummaryOneLine(runner.Stats{FilesCompiled: 5, FilesWritten: 5})

	assert.Equal(t, "No diagnostics (5 files compiled), 5 written\n", result)
}

func TestFormatSummaryOneLine_WithDiagnostics(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesCompiled:    10,
		FilesErrored:     1,
		DiagnosticsTotal: 3,
		DiagnosticsBySeverity: map[diag.Severity]int{
			diag.SeverityError:      1,
			diag.SeverityWarning:    1,
			diag.SeveritySuggestion: 1,
		},
	}

	result := styles.FormatSummaryOneLine(stats)

	assert.Equal(t, "3 diagnostics (1 error, 1 warning, 1 suggestion) in 10 files, 1 failed\n", result)
}
