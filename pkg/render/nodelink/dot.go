package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/gincla/nightsky/pkg/render"
	"github.com/gincla/nightsky/pkg/sky"
)

// pointsPerInch converts layout units to Graphviz inches.
const pointsPerInch = 72.0

// Options configures the DOT export.
type Options struct {
	// Height of the layout canvas, used to flip the y axis.
	Height float64

	// Selected is drawn at the selected scale. May be nil.
	Selected *sky.Node

	// Labels prints node ids next to each star.
	Labels bool

	// Background defaults to black.
	Background string
}

// ToDOT converts a laid-out graph to Graphviz DOT. attrs supplies each
// node's radius and arc size, usually [render.Attributes.Get].
func ToDOT(g *sky.Graph, attrs func(*sky.Node) render.Attrs, opts Options) string {
	bg := opts.Background
	if bg == "" {
		bg = "black"
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	fmt.Fprintf(&buf, "  inputscale=%g;\n", pointsPerInch)
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", bg)
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fixedsize=true, fillcolor=%q, color=%q, fontcolor=%q, fontsize=8];\n",
		render.DefaultNodeFill, render.DefaultNodeStroke, render.DefaultNodeFill)
	fmt.Fprintf(&buf, "  edge [color=%q];\n", render.DefaultLinkColor)
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, attrs(n), n == opts.Selected, opts), ", "))
	}

	buf.WriteString("\n")
	for _, l := range g.Links {
		fmt.Fprintf(&buf, "  %q -- %q;\n", l.SourceID, l.TargetID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n *sky.Node, a render.Attrs, selected bool, opts Options) []string {
	diameter := 2 * render.DrawnRadius(a, selected) / pointsPerInch
	attrs := []string{
		fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(n.X), fmtFloat(opts.Height-n.Y)),
		fmt.Sprintf("width=%s", fmtFloat(diameter)),
	}
	if opts.Labels {
		attrs = append(attrs, fmt.Sprintf("xlabel=%q", n.ID), `label=""`)
	} else {
		attrs = append(attrs, `label=""`)
	}
	if selected {
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// RenderSVG renders DOT source to SVG with the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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
	gv.SetLayout(graphviz.NEATO)
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element with one sized to its
// viewBox, dropping the pt units Graphviz emits.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
