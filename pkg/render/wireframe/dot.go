package wireframe

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gridmerge/pkg/mesh"
)

// Options configures wireframe rendering.
type Options struct {
	// Scale converts grid units to inches. Zero means 1.
	Scale float64
	// Labels draws nodes as circles labelled with their 1-based position.
	// When false, nodes are small points.
	Labels bool
	// ZoneColors colours each edge by the zone of its first face.
	ZoneColors bool
}

var palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// ToDOT converts g to Graphviz DOT source.
//
// Nodes with non-finite coordinates cannot be pinned and are left for the
// layout engine to place.
func ToDOT(g *mesh.Grid, opts Options) string {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	if opts.Labels {
		buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=8, width=0.25, fixedsize=true];\n")
	} else {
		buf.WriteString("  node [shape=point, width=0.05, label=\"\"];\n")
	}
	buf.WriteString("  edge [color=\"#444444\", penwidth=0.8];\n")
	buf.WriteString("\n")

	for i, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  n%d", i+1)
		if p, ok := pinned(n, scale); ok {
			fmt.Fprintf(&buf, " [pos=%q]", p)
		}
		buf.WriteString(";\n")
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  n%d -- n%d", int(e.Nodes[0])+1, int(e.Nodes[1])+1)
		if attrs := edgeAttrs(g, e, opts); attrs != "" {
			fmt.Fprintf(&buf, " [%s]", attrs)
		}
		buf.WriteString(";\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func pinned(n mesh.Node, scale float64) (string, bool) {
	x, y := n.X()*scale, n.Y()*scale
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return "", false
	}
	return strconv.FormatFloat(x, 'f', -1, 64) + "," + strconv.FormatFloat(y, 'f', -1, 64) + "!", true
}

func edgeAttrs(g *mesh.Grid, e mesh.Edge, opts Options) string {
	var attrs string
	if len(e.Faces) == 1 {
		attrs = "penwidth=2"
	}
	if opts.ZoneColors && len(e.Faces) > 0 {
		zone := int(g.Face(e.Faces[0]).Zone)
		c := fmt.Sprintf("color=%q", palette[zone%len(palette)])
		if attrs != "" {
			attrs += ", "
		}
		attrs += c
	}
	return attrs
}

// RenderSVG renders DOT source to SVG with the neato engine, keeping pinned
// node positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's fixed point-size svg element with
// one that scales to its container.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
