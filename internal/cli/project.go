package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gorazor/internal/configloader"
	"github.com/yaklabco/gorazor/internal/logging"
	"github.com/yaklabco/gorazor/pkg/catalog"
	"github.com/yaklabco/gorazor/pkg/config"
	"github.com/yaklabco/gorazor/pkg/fsutil"
	"github.com/yaklabco/gorazor/pkg/project"
	"github.com/yaklabco/gorazor/pkg/razor"
	"github.com/yaklabco/gorazor/pkg/razor/mvc"
	"github.com/yaklabco/gorazor/pkg/razor/passes"
	"github.com/yaklabco/gorazor/pkg/runner"
	"github.com/yaklabco/gorazor/pkg/source"
	"github.com/yaklabco/gorazor/pkg/taghelper"
)

// ErrConfig marks configuration problems so they map to ExitConfigError.
var ErrConfig = errors.New("configuration error")

// workspace is a loaded project: its configuration, file system, tag
// helper catalog and the engine built from them.
type workspace struct {
	load       *configloader.LoadResult
	cfg        *config.Config
	fsys       *project.Disk
	tagHelpers []*taghelper.Descriptor
	engine     *razor.Engine
	imports    []*source.Document
}

// openWorkspace loads configuration starting at dir and builds the engine.
// cliCfg carries the values of flags the user set explicitly.
func openWorkspace(ctx context.Context, cmd *cobra.Command, dir string, cliCfg *config.Config) (*workspace, error) {
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	if dir == "" {
		dir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	load, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   dir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	for _, warning := range load.Warnings {
		logger.Warn(warning)
	}
	if len(load.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, load.LoadedFrom)
	}

	cfg := load.Config
	logger.Debug("configuration loaded",
		logging.FieldDesignTime, cfg.DesignTime,
		logging.FieldLanguageVersion, cfg.LanguageVersion,
		logging.FieldJobs, cfg.Jobs,
	)

	exclude := append([]string(nil), cfg.Ignore...)
	if rel, ok := relativeTo(load.ProjectRoot, load.Resolve(cfg.OutputDir)); ok {
		exclude = append(exclude, rel+"/**")
	}

	fsys, err := project.NewDisk(load.ProjectRoot,
		project.WithExtensions(cfg.Extensions...),
		project.WithExclude(exclude...),
	)
	if err != nil {
		return nil, fmt.Errorf("open project: %w", err)
	}

	ws := &workspace{load: load, cfg: cfg, fsys: fsys}

	if err := ws.loadCatalog(); err != nil {
		return nil, err
	}
	if err := ws.loadImports(ctx); err != nil {
		return nil, err
	}

	extensions := []razor.Extension{passes.Register}
	if cfg.MVC {
		extensions = append(extensions, mvc.Register)
	}
	extensions = append(extensions, func(r *razor.Registry) {
		r.AddTagHelpers(ws.tagHelpers...)
	})
	ws.engine = razor.New(razor.OptionsFromConfig(cfg), extensions...)

	return ws, nil
}

func (w *workspace) loadCatalog() error {
	paths := make([]string, 0, len(w.cfg.Catalog))
	for _, p := range w.cfg.Catalog {
		paths = append(paths, w.load.Resolve(p))
	}

	descriptors, err := catalog.NewFileProvider(paths...).Descriptors()
	if err != nil {
		return errors.Join(ErrConfig, fmt.Errorf("load catalog: %w", err))
	}
	w.tagHelpers = descriptors
	return nil
}

func (w *workspace) loadImports(ctx context.Context) error {
	if w.cfg.MVC {
		w.imports = append(w.imports, mvc.DefaultImports())
	}

	for _, p := range w.cfg.DefaultImports {
		physical := w.load.Resolve(p)
		raw, _, err := fsutil.ReadFile(ctx, physical)
		if err != nil {
			return fmt.Errorf("read default import: %w", err)
		}

		opts := []source.Option{}
		if rel, err := w.fsys.ProjectPath(physical); err == nil {
			opts = append(opts, source.WithRelativePath(rel))
		}
		doc, err := source.FromBytes(raw, physical, source.EncodingAuto, opts...)
		if err != nil {
			return fmt.Errorf("decode default import %s: %w", p, err)
		}
		w.imports = append(w.imports, doc)
	}
	return nil
}

// runOptions converts file arguments to runner options. Arguments are
// file system paths relative to the working directory.
func (w *workspace) runOptions(args []string, write bool) (runner.Options, error) {
	opts := runner.Options{
		Jobs:           w.cfg.Jobs,
		DefaultImports: w.imports,
		Encoding:       source.EncodingAuto,
	}
	if write {
		opts.OutputDir = w.load.Resolve(w.cfg.OutputDir)
	}

	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return opts, fmt.Errorf("resolve %s: %w", arg, err)
		}
		rel, err := w.fsys.ProjectPath(abs)
		if err != nil {
			return opts, fmt.Errorf("%s: %w", arg, err)
		}
		opts.Paths = append(opts.Paths, rel)
	}
	return opts, nil
}

// relativeTo returns target as a slash path relative to root when target is
// inside root.
func relativeTo(root, target string) (string, bool) {
	if target == "" {
		return "", false
	}
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == "." {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}
