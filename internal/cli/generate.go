package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gorazor/internal/logging"
	"github.com/yaklabco/gorazor/pkg/config"
	"github.com/yaklabco/gorazor/pkg/reporter"
	"github.com/yaklabco/gorazor/pkg/runner"
)

// ErrCompileErrorsFound is returned when compilation produced errors, or
// warnings in strict mode.
var ErrCompileErrorsFound = errors.New("compile errors found")

type generateFlags struct {
	project   string
	format    string
	output    string
	ignore    []string
	catalog   []string
	language  string
	newline   string
	noWrite   bool
	noContext bool
	compact   bool
}

func newGenerateCommand() *cobra.Command {
	var cfg config.Config
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:     "generate [paths...]",
		Aliases: []string{"gen"},
		Short:   "Compile templates to C#",
		Long:    generateLongDescription,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, &cfg, flags)
		},
	}

	addGenerateFlags(cmd, &cfg, flags)

	return cmd
}

const generateLongDescription = `Compile Razor templates to C# source files.

By default, compiles every template of the project containing the current
directory. The project root is the directory of the nearest .gorazor.yml,
or the current directory. Generated files are written as <name>.g.cs under
the output directory, and files whose content is unchanged are not touched.

Examples:
  gorazor generate                       # Compile the whole project
  gorazor generate Views/Home            # Compile one directory
  gorazor generate Views/Home/Index.cshtml
  gorazor generate --no-write            # Report diagnostics only
  gorazor generate --format json         # Output as JSON for CI
  gorazor generate --strict              # Treat warnings as errors`

// cliConfig builds the flag layer of the configuration. Only flags set on the
// command line are carried, so settings from config files survive the merge.
func (f *generateFlags) cliConfig(cmd *cobra.Command, cfg *config.Config) *config.Config {
	cli := &config.Config{
		Jobs:             cfg.Jobs,
		DesignTime:       cfg.DesignTime,
		SuppressChecksum: cfg.SuppressChecksum,
		MVC:              cfg.MVC,
		Strict:           cfg.Strict,
	}
	changed := cmd.Flags().Changed
	if changed("format") {
		cli.Format = config.OutputFormat(f.format)
	}
	if changed("ignore") {
		cli.Ignore = f.ignore
	}
	if changed("catalog") {
		cli.Catalog = f.catalog
	}
	if changed("output") {
		cli.OutputDir = f.output
	}
	if changed("language-version") {
		cli.LanguageVersion = config.LanguageVersion(f.language)
	}
	if changed("newline") {
		cli.NewLine = config.NewLineStyle(f.newline)
	}
	return cli
}

func runGenerate(cmd *cobra.Command, args []string, cfg *config.Config, flags *generateFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	ws, err := openWorkspace(ctx, cmd, flags.project, flags.cliConfig(cmd, cfg))
	if err != nil {
		return err
	}

	runOpts, err := ws.runOptions(args, !flags.noWrite)
	if err != nil {
		return err
	}

	logger.Debug("starting compilation",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, ws.fsys.Root(),
		logging.FieldOutput, runOpts.OutputDir,
		logging.FieldTagHelpers, len(ws.tagHelpers),
	)

	result, err := runner.New(ws.engine, ws.fsys).Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("compilation failed"), err)
	}

	logger.Debug("compilation finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesCompiled, result.Stats.FilesCompiled,
		logging.FieldFilesWithErrors, result.Stats.FilesWithErrors,
		logging.FieldFilesWritten, result.Stats.FilesWritten,
	)

	if err := report(ctx, cmd, result, ws.cfg.Format, flags.noContext, flags.compact); err != nil {
		return err
	}

	if ExitCodeFromResult(result, ws.cfg.Strict) != ExitSuccess {
		return ErrCompileErrorsFound
	}
	return nil
}

// report writes result in format to the command's output.
func report(ctx context.Context, cmd *cobra.Command, result *runner.Result, format config.OutputFormat, noContext, compact bool) error {
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	parsed, err := reporter.ParseFormat(string(format))
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      parsed,
		Color:       colorMode,
		ShowContext: !noContext,
		ShowSummary: true,
		GroupByFile: true,
		Compact:     compact,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}
	return nil
}

func addGenerateFlags(cmd *cobra.Command, cfg *config.Config, flags *generateFlags) {
	cmd.Flags().StringVarP(&flags.project, "project", "C", "", "directory to start project discovery from (default: current directory)")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, summary")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output directory for generated files (default: obj/razor)")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.catalog, "catalog", nil, "tag helper catalog files (yaml, toml or json)")
	cmd.Flags().StringVar(&flags.language, "language-version", "latest", "template language version: 1.0, 1.1, 2.0, 2.1, 3.0, latest")
	cmd.Flags().StringVar(&flags.newline, "newline", "lf", "line ending of generated code: lf, crlf")
	cmd.Flags().BoolVar(&cfg.DesignTime, "design-time", false, "generate design-time code for editors")
	cmd.Flags().BoolVar(&cfg.SuppressChecksum, "suppress-checksum", false, "omit the #pragma checksum line")
	cmd.Flags().BoolVar(&cfg.MVC, "mvc", false, "enable the @model, @inject and @page directives")
	cmd.Flags().BoolVar(&cfg.Strict, "strict", false, "treat warnings as errors for exit code")
	cmd.Flags().BoolVar(&flags.noWrite, "no-write", false, "compile without writing generated files")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
}

func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithLogger(ctx, logging.Default())
}
