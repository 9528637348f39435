package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/gorazor/internal/logging"
	"github.com/yaklabco/gorazor/pkg/config"
	"github.com/yaklabco/gorazor/pkg/fsutil"
	"github.com/yaklabco/gorazor/pkg/project"
	"github.com/yaklabco/gorazor/pkg/runner"
)

// defaultDebounce is how long the watcher waits for more changes before
// recompiling.
const defaultDebounce = 200 * time.Millisecond

type watchFlags struct {
	project  string
	format   string
	debounce time.Duration
}

func newWatchCommand() *cobra.Command {
	var cfg config.Config
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recompile templates when they change",
		Long: `Compile the project, then watch it and recompile on changes.

A change to a template recompiles that template. A change to an import file
recompiles every template, since imports apply to the whole directory tree
below them. Saving a file without changing its content does nothing.

Press Ctrl+C to stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, &cfg, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.project, "project", "C", "", "directory to start project discovery from (default: current directory)")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, summary")
	cmd.Flags().DurationVar(&flags.debounce, "debounce", defaultDebounce, "delay before recompiling after a change")
	cmd.Flags().BoolVar(&cfg.MVC, "mvc", false, "enable the @model, @inject and @page directives")
	cmd.Flags().BoolVar(&cfg.DesignTime, "design-time", false, "generate design-time code for editors")

	return cmd
}

// cliConfig builds the flag layer of the configuration from the flags set
// on the command line.
func (f *watchFlags) cliConfig(cmd *cobra.Command, cfg *config.Config) *config.Config {
	cli := &config.Config{DesignTime: cfg.DesignTime, MVC: cfg.MVC}
	if cmd.Flags().Changed("format") {
		cli.Format = config.OutputFormat(f.format)
	}
	return cli
}

func runWatch(cmd *cobra.Command, cfg *config.Config, flags *watchFlags) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ws, err := openWorkspace(ctx, cmd, flags.project, flags.cliConfig(cmd, cfg))
	if err != nil {
		return err
	}

	w, err := newWatcher(ws, flags.debounce, func(ctx context.Context, result *runner.Result) error {
		return report(ctx, cmd, result, ws.cfg.Format, false, false)
	})
	if err != nil {
		return err
	}
	defer w.Close()

	return w.Run(ctx)
}

// watcher recompiles a workspace as its files change.
type watcher struct {
	ws       *workspace
	runner   *runner.Runner
	notify   *fsnotify.Watcher
	debounce time.Duration
	report   func(context.Context, *runner.Result) error

	// stamps remembers the content of every file seen, keyed by physical path.
	stamps map[string]*fsutil.Stamp
}

func newWatcher(ws *workspace, debounce time.Duration, report func(context.Context, *runner.Result) error) (*watcher, error) {
	notify, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &watcher{
		ws:       ws,
		runner:   runner.New(ws.engine, ws.fsys),
		notify:   notify,
		debounce: debounce,
		report:   report,
		stamps:   make(map[string]*fsutil.Stamp),
	}, nil
}

// Close stops watching.
func (w *watcher) Close() error {
	return w.notify.Close()
}

// Run compiles the project once, then recompiles changed templates until
// ctx is cancelled.
func (w *watcher) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx)

	if err := w.addDirectories(ctx); err != nil {
		return err
	}
	if err := w.compile(ctx, nil); err != nil {
		return err
	}
	logger.Info("watching for changes", logging.FieldPath, w.ws.fsys.Root())

	changes := make(chan string)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(changes)
		return w.watch(gctx, changes)
	})
	g.Go(func() error {
		return w.recompile(gctx, changes)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// addDirectories watches every directory of the project and stamps the
// files already present.
func (w *watcher) addDirectories(ctx context.Context) error {
	root := w.ws.fsys.Root()
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := w.ws.fsys.ProjectPath(p)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			if p != root && w.ws.fsys.SkipDir(rel) {
				return filepath.SkipDir
			}
			if err := w.notify.Add(p); err != nil {
				return fmt.Errorf("watch %s: %w", p, err)
			}
			return nil
		}
		if item := w.ws.fsys.GetItem(rel); item.Exists() && item.Kind != project.FileKindOther {
			if stamp, err := fsutil.StampFile(ctx, p); err == nil {
				w.stamps[p] = stamp
			}
		}
		return nil
	})
}

// watch forwards the project paths of changed templates and imports.
func (w *watcher) watch(ctx context.Context, changes chan<- string) error {
	logger := logging.FromContext(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-w.notify.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", logging.FieldError, err)
		case event, ok := <-w.notify.Events:
			if !ok {
				return nil
			}
			rel, changed := w.handle(ctx, event)
			if !changed {
				continue
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case changes <- rel:
			}
		}
	}
}

// handle decides whether event changed a template or an import.
func (w *watcher) handle(ctx context.Context, event fsnotify.Event) (string, bool) {
	rel, err := w.ws.fsys.ProjectPath(event.Name)
	if err != nil {
		return "", false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !w.ws.fsys.SkipDir(rel) {
				_ = w.notify.Add(event.Name)
			}
			return "", false
		}
	}

	item := w.ws.fsys.GetItem(rel)
	if item.Kind == project.FileKindOther {
		return "", false
	}
	previous, known := w.stamps[event.Name]
	if !item.Exists() {
		if !known {
			return "", false
		}
		delete(w.stamps, event.Name)
		return rel, true
	}

	if known {
		changed, err := previous.Changed(ctx)
		if err == nil && !changed {
			return "", false
		}
	}
	if stamp, err := fsutil.StampFile(ctx, event.Name); err == nil {
		w.stamps[event.Name] = stamp
	}
	return rel, true
}

// recompile batches changes arriving within the debounce interval.
func (w *watcher) recompile(ctx context.Context, changes <-chan string) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case rel, ok := <-changes:
			if !ok {
				return nil
			}
			pending[rel] = true
			timer.Reset(w.debounce)
		case <-timer.C:
			paths := w.affected(pending)
			clear(pending)
			if err := w.compile(ctx, paths); err != nil {
				return err
			}
		}
	}
}

// affected returns the templates to recompile for the changed paths. A
// changed import, or a removed template, recompiles the project.
func (w *watcher) affected(changed map[string]bool) []string {
	var paths []string
	for rel := range changed {
		item := w.ws.fsys.GetItem(rel)
		if item.Kind == project.FileKindImport || !item.Exists() {
			return nil
		}
		paths = append(paths, rel)
	}
	slices.Sort(paths)
	return paths
}

func (w *watcher) compile(ctx context.Context, paths []string) error {
	logger := logging.FromContext(ctx)

	opts, err := w.ws.runOptions(nil, true)
	if err != nil {
		return err
	}
	opts.Paths = paths

	result, err := w.runner.Run(ctx, opts)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Error("compilation failed", logging.FieldError, err)
		return nil
	}
	return w.report(ctx, result)
}
