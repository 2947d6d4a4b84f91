// Package nodelink exports a laid-out sky as a Graphviz document.
//
// # Usage
//
// Convert a graph to DOT, then render it to SVG with the neato engine:
//
//	dot := nodelink.ToDOT(g, r.Attributes().Get, nodelink.Options{Height: 600})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Every node is pinned at its current layout position (pos="x,y!"), so
// neato draws the same picture the force layout produced instead of
// computing its own. Node diameters follow the drawn radius, and the
// selected node is drawn three times as large as its radius, matching the
// live renderer.
//
// # DOT Format
//
// The document is an undirected graph on a black background with white
// circular nodes and grey edges. Canvas y grows downward while Graphviz y
// grows upward, so y is flipped against Options.Height.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering.
package nodelink
