// Package docs generates human readable documentation for cells and
// topologies: markdown describing every port and parameter, optionally
// rendered with terminal styling.
package docs

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/calyptra/synapse/pkg/cell"
	"github.com/calyptra/synapse/pkg/plasm"
	"github.com/calyptra/synapse/pkg/tendril"
)

// CellMarkdown documents a single cell: its parameters, inputs and
// outputs, each with type, doc string, default and required flag.
func CellMarkdown(c *cell.Cell) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", c.TypeName())
	if c.Name() != "" && c.Name() != c.TypeName() {
		fmt.Fprintf(&sb, "Instance `%s`\n\n", c.Name())
	}
	writeSection(&sb, "Parameters", c.Params())
	writeSection(&sb, "Inputs", c.Inputs())
	writeSection(&sb, "Outputs", c.Outputs())
	return sb.String()
}

func writeSection(sb *strings.Builder, title string, ts *tendril.Tendrils) {
	fmt.Fprintf(sb, "## %s\n\n", title)
	if ts.Len() == 0 {
		sb.WriteString("None.\n\n")
		return
	}
	sb.WriteString("| Name | Type | Required | Default | Doc |\n")
	sb.WriteString("|------|------|----------|---------|-----|\n")
	ts.Range(func(name string, t *tendril.Tendril) bool {
		def := ""
		if t.HasDefault() {
			v, _ := t.Default()
			def = fmt.Sprintf("`%v`", v)
		}
		req := ""
		if t.IsRequired() {
			req = "yes"
		}
		fmt.Fprintf(sb, "| `%s` | `%s` | %s | %s | %s |\n",
			name, t.Type(), req, def, t.Doc())
		return true
	})
	sb.WriteString("\n")
}

// RegistryMarkdown documents every registered cell type.
func RegistryMarkdown(reg *cell.Registry) (string, error) {
	var sb strings.Builder
	sb.WriteString("# Cell library\n\n")
	for _, tag := range reg.Tags() {
		c, err := reg.Build(tag)
		if err != nil {
			return "", err
		}
		if err := c.DeclareParams(); err != nil {
			return "", err
		}
		if err := c.DeclareIO(); err != nil {
			return "", err
		}
		sb.WriteString(CellMarkdown(c))
	}
	return sb.String(), nil
}

// TopologyMarkdown documents a graph: its cells and connections.
func TopologyMarkdown(p *plasm.Plasm) string {
	var sb strings.Builder
	sb.WriteString("# Topology\n\n")
	fmt.Fprintf(&sb, "%d cell(s), %d connection(s).\n\n", p.Len(), len(p.Connections()))
	for _, conn := range p.Connections() {
		fmt.Fprintf(&sb, "- `%s`\n", conn)
	}
	sb.WriteString("\n")
	for _, c := range p.Cells() {
		sb.WriteString(CellMarkdown(c))
	}
	return sb.String()
}

// NewRenderer returns a function that renders markdown for the terminal
// using glamour, adapting to light or dark backgrounds.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	return func(markdown string) (string, error) {
		if r == nil {
			return markdown, nil
		}
		return r.Render(markdown)
	}
}
