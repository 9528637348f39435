package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/yaklabco/gorazor/internal/logging"
	"github.com/yaklabco/gorazor/pkg/fsutil"
	"github.com/yaklabco/gorazor/pkg/project"
	"github.com/yaklabco/gorazor/pkg/razor"
)

// Runner compiles the templates of a project. The engine is shared by every
// worker; each template gets its own code document.
type Runner struct {
	Engine *razor.Engine
	FS     project.FileSystem
}

// New creates a Runner.
func New(engine *razor.Engine, fsys project.FileSystem) *Runner {
	return &Runner{Engine: engine, FS: fsys}
}

// OutputPath returns where the generated code of the template at p is
// written under outputDir.
func OutputPath(outputDir, p string) string {
	rel := strings.TrimPrefix(project.NormalizePath(p), "/")
	return filepath.Join(outputDir, filepath.FromSlash(rel)) + GeneratedSuffix
}

// Run discovers templates and compiles them concurrently. Outcomes are
// ordered by path. Template problems are reported as diagnostics on the
// outcomes; Run itself fails only on discovery errors or cancellation.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	items, err := Discover(ctx, r.FS, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(items)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(items)

	if len(items) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(items) {
		jobs = len(items)
	}

	workCh := make(chan project.Item)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, opts)
		}()
	}

	go func() {
		defer close(workCh)
		for _, item := range items {
			select {
			case <-ctx.Done():
				return
			case workCh <- item:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(items))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, item := range items {
		if outcome, ok := outcomes[item.Path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	return result, nil
}

func (r *Runner) worker(ctx context.Context, workCh <-chan project.Item, outCh chan<- FileOutcome, opts Options) {
	for item := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := r.Compile(ctx, item, opts)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// Compile compiles one template with its imports and writes the generated
// code when opts.OutputDir is set.
func (r *Runner) Compile(ctx context.Context, item project.Item, opts Options) FileOutcome {
	logger := logging.FromContext(ctx)
	start := time.Now()
	outcome := FileOutcome{Path: item.Path, PhysicalPath: item.PhysicalPath}

	src, err := item.Document(opts.Encoding)
	if err != nil {
		outcome.Error = fmt.Errorf("read template: %w", err)
		return outcome
	}
	imports, err := project.Imports(r.FS, item.Path, opts.Encoding, opts.DefaultImports...)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	doc, err := r.Engine.ProcessContext(ctx, src, imports...)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Document = doc

	if opts.OutputDir != "" {
		out := OutputPath(opts.OutputDir, item.Path)
		written, err := fsutil.WriteAtomicIfChanged(ctx, out, []byte(doc.GeneratedCode()), fsutil.DefaultFileMode)
		if err != nil {
			outcome.Error = err
			return outcome
		}
		outcome.OutputPath = out
		outcome.Written = written
	}

	kind := ""
	if doc.IR != nil {
		kind = doc.IR.Kind()
	}
	logger.Debug("compiled template",
		logging.FieldPath, item.Path,
		logging.FieldDocumentKind, kind,
		logging.FieldDiagnosticsTotal, len(doc.Diagnostics()),
		logging.FieldDuration, time.Since(start),
	)
	return outcome
}
