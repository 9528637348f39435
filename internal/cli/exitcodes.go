package cli

import (
	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/runner"
)

// Exit codes for gorazor.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitCompileErrors indicates compilation completed but produced errors.
	ExitCompileErrors = 1

	// ExitCompileWarnings indicates compilation produced warnings (strict mode).
	ExitCompileWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeFromResult determines the exit code based on result and strict mode.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasFailures() {
		return ExitCompileErrors
	}

	if strict && result.Stats.DiagnosticsBySeverity[diag.SeverityWarning] > 0 {
		return ExitCompileWarnings
	}

	return ExitSuccess
}
