// Package cli provides the Cobra command structure for gorazor.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gorazor/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gorazor command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "gorazor",
		Short: "A Razor template compiler",
		Long: `gorazor compiles Razor templates (.cshtml) to C# source files.

It parses markup and embedded code, binds tag helpers from a descriptor
catalog, applies directives such as @inherits, @section and @functions, and
writes one generated class per template. Templates are compiled concurrently
and only changed outputs are rewritten, so it fits in watch loops and builds.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newTagHelpersCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
