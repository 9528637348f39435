package reporter

import (
	"github.com/yaklabco/gorazor/pkg/diag"
	"github.com/yaklabco/gorazor/pkg/runner"
	"github.com/yaklabco/gorazor/pkg/source"
)

// origin returns the document a diagnostic was raised in: the template
// itself or one of its imports.
func origin(file runner.FileOutcome, d diag.Diagnostic) *source.Document {
	if file.Document == nil {
		return nil
	}
	if src := file.Document.Source; src != nil && src.FilePath() == d.Span.FilePath {
		return src
	}
	for _, imp := range file.Document.Imports {
		if imp.FilePath() == d.Span.FilePath {
			return imp
		}
	}
	return nil
}

// displayPath is the path a diagnostic is shown under. Diagnostics raised in
// imports are shown under the import's path.
func displayPath(file runner.FileOutcome, d diag.Diagnostic) string {
	doc := origin(file, d)
	if doc == nil || doc == file.Document.Source {
		return file.Path
	}
	if rel := doc.RelativePath(); rel != "" {
		return rel
	}
	return doc.FilePath()
}

// sourceLine extracts the line a diagnostic starts on.
func sourceLine(file runner.FileOutcome, d diag.Diagnostic) string {
	doc := origin(file, d)
	if doc == nil || d.Span.AbsoluteIndex < 0 {
		return ""
	}
	info, ok := doc.Lines().Line(d.Span.LineIndex)
	if !ok {
		return ""
	}
	line, err := doc.Slice(info.StartOffset, info.NewlineStart)
	if err != nil {
		return ""
	}
	return line
}
