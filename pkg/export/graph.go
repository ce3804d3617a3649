package export

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/galaxygen/pkg/galaxy"
	"github.com/matzehuels/galaxygen/pkg/galaxy/hyperlanes"
)

// DOT colors follow the hyperlane layer.
var (
	nodeColor = hyperlanes.LaneColor.RGB().Hex()
	edgeColor = fmt.Sprintf("%s%02x", nodeColor, hyperlanes.LaneColor.A)
	backColor = galaxy.RGB{}.Hex()
)

// NetworkDOT converts a hyperlane network into an undirected DOT graph.
// Nodes are pinned at their pixel positions with the y axis flipped, so
// neato reproduces the layout of the hyperlane layer.
func NetworkDOT(net *hyperlanes.Network, size int) string {
	var buf bytes.Buffer
	buf.WriteString("graph hyperlanes {\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", backColor)
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  notranslate=true;\n")
	fmt.Fprintf(&buf, "  bb=\"0,0,%d,%d\";\n", size, size)
	fmt.Fprintf(&buf, "  node [shape=point, width=0.05, color=%q];\n", nodeColor)
	fmt.Fprintf(&buf, "  edge [color=%q, penwidth=1.5];\n", edgeColor)
	buf.WriteString("\n")

	if net == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	for _, p := range net.Nodes() {
		fmt.Fprintf(&buf, "  %q [pos=\"%d,%d!\"];\n", nodeID(p), p.X, size-p.Y)
	}

	buf.WriteString("\n")
	for _, e := range net.Edges() {
		fmt.Fprintf(&buf, "  %q -- %q;\n", nodeID(e.A), nodeID(e.B))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(p galaxy.Point) string {
	return fmt.Sprintf("s%d_%d", p.X, p.Y)
}

// RenderSVG lays out a DOT graph with neato and renders it to SVG.
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

// normalizeViewBox replaces graphviz's svg tag, which carries point-based
// width and height, with one sized from the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
