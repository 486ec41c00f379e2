// Package graph renders topologies for humans: Graphviz dot for tooling
// and Mermaid for terminals and markdown.
package graph

import (
	"fmt"
	"strings"

	"github.com/calyptra/synapse/pkg/plasm"
)

// Overlay contains dynamic execution state to visualize on the graph.
type Overlay struct {
	// Busy names the cells currently inside their process hook.
	Busy []string
	// Ticks maps cell names to their completed process count.
	Ticks map[string]uint64
}

// CaptureOverlay snapshots the live state of p.
func CaptureOverlay(p *plasm.Plasm) *Overlay {
	o := &Overlay{Ticks: make(map[string]uint64)}
	for _, c := range p.Cells() {
		o.Ticks[c.Name()] = c.Tick()
		if c.Stats().On() {
			o.Busy = append(o.Busy, c.Name())
		}
	}
	return o
}

// GenerateDot produces Graphviz dot syntax for the topology. Cells render
// as boxes labeled with instance and type name; edges carry their port
// names. Overlay state highlights busy cells and annotates tick counts.
func GenerateDot(p *plasm.Plasm, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("digraph plasm {\n")
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=box, style=rounded];\n")

	busy := make(map[string]bool)
	if overlay != nil {
		for _, name := range overlay.Busy {
			busy[name] = true
		}
	}

	for _, c := range p.Cells() {
		id := sanitizeID(c.Name())
		label := fmt.Sprintf("%s\\n(%s)", c.Name(), c.TypeName())
		if overlay != nil {
			if ticks, ok := overlay.Ticks[c.Name()]; ok {
				label = fmt.Sprintf("%s\\ntick %d", label, ticks)
			}
		}
		attrs := fmt.Sprintf("label=\"%s\"", label)
		if busy[c.Name()] {
			attrs += ", style=\"rounded,filled\", fillcolor=lightyellow"
		}
		sb.WriteString(fmt.Sprintf("  %s [%s];\n", id, attrs))
	}

	for _, conn := range p.Connections() {
		sb.WriteString(fmt.Sprintf("  %s -> %s [label=\"%s > %s\"];\n",
			sanitizeID(conn.From), sanitizeID(conn.To), conn.FromPort, conn.ToPort))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// GenerateMermaid produces a Mermaid flowchart of the topology. Source
// cells (no inbound edges) render as circles, sinks (no outbound) as
// parallelograms, everything else as rectangles.
func GenerateMermaid(p *plasm.Plasm, overlay *Overlay) string {
	hasIn := make(map[string]bool)
	hasOut := make(map[string]bool)
	for _, conn := range p.Connections() {
		hasOut[conn.From] = true
		hasIn[conn.To] = true
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")
	for _, c := range p.Cells() {
		id := sanitizeID(c.Name())
		opener, closer := "[", "]"
		switch {
		case !hasIn[c.Name()] && hasOut[c.Name()]:
			opener, closer = "((", "))"
		case hasIn[c.Name()] && !hasOut[c.Name()]:
			opener, closer = "[/", "/]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, c.Name(), closer))
	}
	for _, conn := range p.Connections() {
		sb.WriteString(fmt.Sprintf("    %s -- \"%s > %s\" --> %s\n",
			sanitizeID(conn.From), conn.FromPort, conn.ToPort, sanitizeID(conn.To)))
	}

	if overlay != nil && len(overlay.Busy) > 0 {
		sb.WriteString("\n    classDef busy fill:#ffeb3b,stroke:#fbc02d,stroke-width:2px,color:#000;\n")
		seen := make(map[string]bool)
		for _, name := range overlay.Busy {
			id := sanitizeID(name)
			if !seen[id] && id != "" {
				seen[id] = true
				sb.WriteString(fmt.Sprintf("    class %s busy;\n", id))
			}
		}
	}
	return sb.String()
}

func sanitizeID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
