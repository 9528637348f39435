// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldDesignTime      = "design_time"
	FieldLanguageVersion = "language_version"
	FieldJobs            = "jobs"

	// Compilation fields.
	FieldPhase        = "phase"
	FieldDuration     = "duration"
	FieldDocumentKind = "document_kind"
	FieldTagHelpers   = "tag_helpers"

	// Statistics fields.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesCompiled    = "files_compiled"
	FieldFilesWithErrors  = "files_with_errors"
	FieldDiagnosticsTotal = "diagnostics_total"
	FieldFilesWritten     = "files_written"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Catalog fields.
	FieldName         = "name"
	FieldSeverity     = "severity"
	FieldAssemblyName = "assembly"
	FieldDescription  = "description"
)
