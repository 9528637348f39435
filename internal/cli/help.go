package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/gorazor/internal/ui/pretty"
)

// HelpStyles contains Lipgloss styles for command help formatting. They are
// drawn from the diagnostic palette so help and reports look alike.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style
	Subcommand  lipgloss.Style
	Flag        lipgloss.Style
	Description lipgloss.Style
	Example     lipgloss.Style
	Dim         lipgloss.Style
}

// NewHelpStyles creates help styles based on color mode.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	s := pretty.NewStyles(colorEnabled)
	return &HelpStyles{
		Command:     s.Bold,
		Heading:     s.Warning,
		Subcommand:  s.Success.UnsetBold(),
		Flag:        s.Info.UnsetBold(),
		Description: s.Message,
		Example:     s.Dim,
		Dim:         s.Dim,
	}
}

// HelpFormatter provides styled help output for Cobra commands. The color
// mode is resolved when help is rendered, so --color applies to help too.
type HelpFormatter struct {
	colorMode string
	writer    io.Writer
}

// NewHelpFormatter creates a help formatter. colorMode and writer are the
// fallbacks used when a command does not carry a --color flag.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{colorMode: colorMode, writer: writer}
}

func (h *HelpFormatter) stylesFor(cmd *cobra.Command) *HelpStyles {
	mode := h.colorMode
	if flag := cmd.Flags().Lookup("color"); flag != nil && flag.Changed {
		mode = flag.Value.String()
	}
	w := cmd.OutOrStdout()
	if w == nil {
		w = h.writer
	}
	return NewHelpStyles(pretty.IsColorEnabled(mode, w))
}

func templateFuncs(styles *HelpStyles) template.FuncMap {
	return template.FuncMap{
		"command":     styles.Command.Render,
		"heading":     styles.Heading.Render,
		"subcommand":  styles.Subcommand.Render,
		"description": styles.Description.Render,
		"example":     styles.Example.Render,
		"dim":         styles.Dim.Render,
		"flags":       func(fs *pflag.FlagSet) string { return styleFlags(styles, fs) },
		"rpad":        rpad,
		"join":        strings.Join,
		"trim":        trimTrailingWhitespaces,
	}
}

const usageTemplate = `{{ heading "Usage:" }}{{if .Runnable}}
  {{ command .UseLine }}{{end}}{{if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}
{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ dim (join .Aliases ", ") }}
{{- end}}
{{- if .HasExample}}

{{ heading "Examples:" }}
{{ example .Example }}
{{- end}}
{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ description .Short }}{{end}}{{end}}
{{- end}}
{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}
{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}
{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{ command .CommandPath }}{{if .Version}} {{ dim .Version }}{{end}}

{{with (or .Long .Short)}}{{ . | trim }}

{{end}}` + usageTemplate

// ApplyToCommand applies styled help templates to a Cobra command and all subcommands.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		return h.render(c, "usage", usageTemplate)
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := h.render(c, "help", helpTemplate); err != nil {
			c.PrintErrln(err)
		}
	})
}

func (h *HelpFormatter) render(cmd *cobra.Command, name, text string) error {
	tmpl, err := template.New(name).Funcs(templateFuncs(h.stylesFor(cmd))).Parse(text)
	if err != nil {
		return fmt.Errorf("parse %s template: %w", name, err)
	}
	if err := tmpl.Execute(cmd.OutOrStdout(), cmd); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// styleFlags colors the flag names of a pflag usage listing, dimming the
// value type. Descriptions are kept as they are.
func styleFlags(styles *HelpStyles, fs *pflag.FlagSet) string {
	usages := strings.TrimSuffix(fs.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		gap := strings.Index(trimmed, "   ")
		if trimmed == "" || gap < 0 {
			continue
		}
		indent := line[:len(line)-len(trimmed)]
		names, desc := trimmed[:gap], strings.TrimLeft(trimmed[gap:], " ")
		padding := trimmed[gap : len(trimmed)-len(desc)]

		tokens := strings.Fields(names)
		for j, token := range tokens {
			if !strings.HasPrefix(token, "-") {
				tokens[j] = styles.Dim.Render(token)
				continue
			}
			clean := strings.TrimSuffix(token, ",")
			tokens[j] = styles.Flag.Render(clean) + token[len(clean):]
		}
		lines[i] = indent + strings.Join(tokens, " ") + padding + styles.Description.Render(desc)
	}
	return strings.Join(lines, "\n")
}

// rpad adds padding to the right of a string.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

// trimTrailingWhitespaces removes trailing whitespace from lines.
func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
