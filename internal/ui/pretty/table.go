package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gorazor/pkg/taghelper"
)

// Table formatting constants.
const (
	invalidSymbol    = "!"
	tablePadding     = 2
	tableColumnCount = 4 // NAME, TAGS, ATTRIBUTES, ASSEMBLY
	markerWidth      = 3
	minNameWidth     = 20
	minTagsWidth     = 8
	minAttrsWidth    = 12
	minAssemblyWidth = 8
	heavySeparator   = "="
	defaultTermWidth = 100
)

// TableRow is a single tag helper in the listing.
type TableRow struct {
	Name       string
	Tags       string
	Attributes string
	Assembly   string
	Invalid    bool
}

// TagHelperRow converts a descriptor to a table row.
func TagHelperRow(d *taghelper.Descriptor) TableRow {
	var tags []string
	for _, rule := range d.Rules() {
		tag := rule.TagName()
		if parent := rule.ParentTag(); parent != "" {
			tag = parent + " > " + tag
		}
		tags = append(tags, tag)
	}
	var attrs []string
	for _, attr := range d.BoundAttributes() {
		name := attr.Name()
		if attr.HasIndexer() {
			name += "[" + attr.IndexerNamePrefix() + "*]"
		}
		attrs = append(attrs, name)
	}
	return TableRow{
		Name:       d.DisplayName(),
		Tags:       strings.Join(tags, ", "),
		Attributes: strings.Join(attrs, ", "),
		Assembly:   d.AssemblyName(),
		Invalid:    d.HasErrors(),
	}
}

// TableFormatter formats tag helper descriptors as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: termWidth,
	}
}

// FormatTable formats rows as a table with a header and a legend.
func (t *TableFormatter) FormatTable(rows []TableRow) string {
	if len(rows) == 0 {
		return ""
	}

	widths := t.calculateColumnWidths(rows)

	var builder strings.Builder
	builder.WriteString(t.formatHeader(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")

	invalid := 0
	for _, row := range rows {
		if row.Invalid {
			invalid++
		}
		builder.WriteString(t.formatRow(row, widths))
		builder.WriteString("\n")
	}

	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")

	legend := " " + Plural(len(rows), "tag helper", "tag helpers")
	if invalid > 0 {
		legend += fmt.Sprintf(" | %s = has errors (%d)", invalidSymbol, invalid)
	}
	builder.WriteString(t.styles.TableLegend.Render(legend))
	builder.WriteString("\n")

	return builder.String()
}

type columnWidths struct {
	name     int
	tags     int
	attrs    int
	assembly int
}

func (t *TableFormatter) calculateColumnWidths(rows []TableRow) columnWidths {
	widths := columnWidths{
		name:     minNameWidth,
		tags:     minTagsWidth,
		attrs:    minAttrsWidth,
		assembly: minAssemblyWidth,
	}

	for _, row := range rows {
		widths.name = max(widths.name, len(row.Name))
		widths.tags = max(widths.tags, len(row.Tags))
		widths.attrs = max(widths.attrs, len(row.Attributes))
		widths.assembly = max(widths.assembly, len(row.Assembly))
	}

	// Constrain to terminal width, attributes first
	total := t.calculateTotalWidth(widths)
	if total > t.termWidth {
		widths.attrs = max(minAttrsWidth, widths.attrs-(total-t.termWidth))

		total = t.calculateTotalWidth(widths)
		if total > t.termWidth {
			widths.name = max(minNameWidth, widths.name-(total-t.termWidth))
		}
	}

	return widths
}

func (t *TableFormatter) calculateTotalWidth(widths columnWidths) int {
	return widths.name + widths.tags + widths.attrs + widths.assembly +
		(tablePadding * tableColumnCount) + markerWidth
}

func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf("   %-*s  %-*s  %-*s  %-*s",
		widths.name, "NAME",
		widths.tags, "TAGS",
		widths.attrs, "ATTRIBUTES",
		widths.assembly, "ASSEMBLY",
	)
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(widths columnWidths) string {
	return t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, t.calculateTotalWidth(widths)))
}

func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	marker := " "
	if row.Invalid {
		marker = invalidSymbol
	}

	content := fmt.Sprintf(" %s %-*s  %-*s  %-*s  %-*s",
		marker,
		widths.name, truncateName(row.Name, widths.name),
		widths.tags, truncateString(row.Tags, widths.tags),
		widths.attrs, truncateString(row.Attributes, widths.attrs),
		widths.assembly, truncateString(row.Assembly, widths.assembly),
	)

	if row.Invalid {
		return t.styles.TableErrorRow.Render(content)
	}
	return content
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateName truncates a type name, preserving the end (the short name)
// rather than the namespace.
func truncateName(name string, maxLen int) string {
	if len(name) <= maxLen {
		return name
	}
	if maxLen <= 3 {
		return name[len(name)-maxLen:]
	}
	return "..." + name[len(name)-maxLen+3:]
}
