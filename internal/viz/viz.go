// Package viz draws a computed network plan as a Graphviz graph.
//
// [ToDOT] produces the DOT source; [RenderSVG] and [RenderPNG] lay it out in
// process with [github.com/goccy/go-graphviz], so no dot binary is needed.
package viz

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/cpm"
	"github.com/chr-peters/ihk-abschlusspruefung-netzplaene/internal/netplan"
)

// Supported layout directions.
var RankDirs = []string{"LR", "TB", "RL", "BT"}

const criticalColor = "red"

// Options configures DOT generation.
type Options struct {
	// RankDir is the Graphviz rankdir; empty means LR.
	RankDir string
	// Detailed adds the schedule (ES/EF/LS/LF/TF/FF) to each node label.
	Detailed bool
}

// ToDOT converts a plan to Graphviz DOT. Critical activities and the edges
// between two critical activities are drawn in red.
func ToDOT(plan *netplan.Plan, opts Options) string {
	rankdir := opts.RankDir
	if rankdir == "" {
		rankdir = "LR"
	}

	acts := plan.Activities()
	critical := make(map[int]bool, len(acts))

	var buf bytes.Buffer
	buf.WriteString("digraph netzplan {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	for _, as := range acts {
		critical[as.ID] = as.IsCritical
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(as, opts.Detailed))}
		if as.IsCritical {
			attrs = append(attrs, "color="+criticalColor, "fontcolor="+criticalColor, "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %d [%s];\n", as.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range plan.Edges() {
		if critical[e.From] && critical[e.To] {
			fmt.Fprintf(&buf, "  %d -> %d [color=%s, penwidth=2];\n", e.From, e.To, criticalColor)
			continue
		}
		fmt.Fprintf(&buf, "  %d -> %d;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(as cpm.ActivitySchedule, detailed bool) string {
	head := fmt.Sprintf("%d: %s", as.ID, as.Label)
	if !detailed {
		return head
	}
	return fmt.Sprintf("%s\nD=%d\nES=%d EF=%d\nLS=%d LF=%d\nTF=%d FF=%d",
		head, as.Duration, as.ES, as.EF, as.LS, as.LF, as.TF, as.FF)
}

// RenderSVG lays out a DOT graph and returns SVG bytes.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG lays out a DOT graph and returns PNG bytes.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
