// Package render draws a sky onto a 2D drawing surface.
//
// # Overview
//
// The [Renderer] redraws the whole sky once per layout tick:
//
//  1. clear the surface
//  2. trace every link as a straight segment and stroke them in one pass
//  3. trace every node as an arc and fill, then stroke, them in one pass
//
// Drawing goes through the [Surface] interface, which mirrors the path model
// of an HTML canvas 2D context (begin path, move, line, arc, fill, stroke).
// Implementations live in subpackages:
//
//   - [raster]: anti-aliased raster surface backed by fogleman/gg (PNG)
//   - [svg]: SVG document surface
//
// [Recorder] records calls and is what the tests draw into.
//
// # Visual Attributes
//
// Nodes that do not carry a radius or arc sweep get one the first time they
// are drawn: radius from {3, 4, 5} and sweep from {4, 5} radians. The values
// are memoized in an [Attributes] table keyed by node id so a node keeps
// them for the lifetime of the graph.
//
// # Node-Link Export
//
// The [nodelink] subpackage exports the current sky as Graphviz DOT and
// renders it with the neato engine.
//
// [raster]: github.com/gincla/nightsky/pkg/render/raster
// [svg]: github.com/gincla/nightsky/pkg/render/svg
// [nodelink]: github.com/gincla/nightsky/pkg/render/nodelink
package render
