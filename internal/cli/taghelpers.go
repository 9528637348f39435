package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gorazor/internal/logging"
	"github.com/yaklabco/gorazor/internal/ui/pretty"
	"github.com/yaklabco/gorazor/pkg/catalog"
	"github.com/yaklabco/gorazor/pkg/config"
	"github.com/yaklabco/gorazor/pkg/taghelper"
)

const (
	formatJSON  = "json"
	formatTable = "table"
	formatText  = "text"
)

type tagHelpersFlags struct {
	project string
	format  string
	catalog []string
	docs    bool
}

// tagHelperInfo represents a tag helper in JSON output.
type tagHelperInfo struct {
	Name          string   `json:"name"`
	Assembly      string   `json:"assembly"`
	Tags          []string `json:"tags"`
	Attributes    []string `json:"attributes,omitempty"`
	Documentation string   `json:"documentation,omitempty"`
	Errors        []string `json:"errors,omitempty"`
}

func newTagHelpersCommand() *cobra.Command {
	flags := &tagHelpersFlags{}

	cmd := &cobra.Command{
		Use:   "taghelpers",
		Short: "List the tag helpers of the project catalog",
		Long: `List the tag helpers declared in the catalog files of the project,
with the tags they apply to, their bound attributes and their assembly.

Tag helpers with invalid declarations are marked and their problems listed.

Examples:
  gorazor taghelpers                        List as a table
  gorazor taghelpers --docs --format text   Include documentation
  gorazor taghelpers --catalog helpers.toml Read a specific catalog`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTagHelpers(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.project, "project", "C", "", "directory to start project discovery from (default: current directory)")
	cmd.Flags().StringVar(&flags.format, "format", formatTable, "output format: table, text, json")
	cmd.Flags().StringSliceVar(&flags.catalog, "catalog", nil, "tag helper catalog files (yaml, toml or json)")
	cmd.Flags().BoolVar(&flags.docs, "docs", false, "include documentation (text and json formats)")

	return cmd
}

func runTagHelpers(cmd *cobra.Command, flags *tagHelpersFlags) error {
	switch flags.format {
	case formatJSON, formatTable, formatText:
	default:
		return fmt.Errorf("invalid format %q: must be table, text or json", flags.format)
	}

	ctx := commandContext(cmd)
	ws, err := openWorkspace(ctx, cmd, flags.project, &config.Config{Catalog: flags.catalog})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch flags.format {
	case formatJSON:
		return outputTagHelpersJSON(out, ws.tagHelpers, flags.docs)
	case formatText:
		outputTagHelpersText(out, ws.tagHelpers, flags.docs)
		return nil
	}

	if len(ws.tagHelpers) == 0 {
		fmt.Fprintln(out, "No tag helpers in the catalog.")
		return nil
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))

	rows := make([]pretty.TableRow, 0, len(ws.tagHelpers))
	for _, d := range ws.tagHelpers {
		rows = append(rows, pretty.TagHelperRow(d))
	}
	fmt.Fprint(out, pretty.NewTableFormatter(styles, terminalWidth(out)).FormatTable(rows))
	return nil
}

// terminalWidth returns the width of w when it is a terminal, or 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func outputTagHelpersText(w io.Writer, descriptors []*taghelper.Descriptor, docs bool) {
	logger := logging.NewWithWriter(w, "info")

	if len(descriptors) == 0 {
		logger.Info("no tag helpers in the catalog")
		return
	}

	for _, d := range descriptors {
		row := pretty.TagHelperRow(d)
		logger.Info(d.DisplayName(),
			logging.FieldAssemblyName, row.Assembly,
			"tags", row.Tags,
			"attributes", row.Attributes,
		)
		if docs {
			if text := catalog.RenderDocumentation(d.Documentation()); text != "" {
				fmt.Fprintln(w, indent(text, "    "))
			}
		}
		for _, diagnostic := range d.AllDiagnostics() {
			logger.Warn(diagnostic.Message(),
				logging.FieldName, d.Name(),
				logging.FieldSeverity, diagnostic.Severity,
			)
		}
	}
}

// outputTagHelpersJSON outputs descriptors as a JSON array.
func outputTagHelpersJSON(w io.Writer, descriptors []*taghelper.Descriptor, docs bool) error {
	infos := make([]tagHelperInfo, 0, len(descriptors))
	for _, d := range descriptors {
		info := tagHelperInfo{
			Name:     d.Name(),
			Assembly: d.AssemblyName(),
			Tags:     []string{},
		}
		row := pretty.TagHelperRow(d)
		if row.Tags != "" {
			info.Tags = strings.Split(row.Tags, ", ")
		}
		if row.Attributes != "" {
			info.Attributes = strings.Split(row.Attributes, ", ")
		}
		if docs {
			info.Documentation = catalog.RenderDocumentation(d.Documentation())
		}
		for _, diagnostic := range d.AllDiagnostics() {
			info.Errors = append(info.Errors, diagnostic.String())
		}
		infos = append(infos, info)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding tag helpers: %w", err)
	}
	return nil
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
