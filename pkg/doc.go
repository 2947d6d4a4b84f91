// Package pkg provides the libraries behind nightsky, a force-directed graph
// viewer that draws nodes as white stars on a dark canvas.
//
// # Overview
//
// The packages split along the path a sky takes from document to frame:
//
//  1. [loader] fetches a JSON document through [httputil] and [cache]
//  2. [sky] decodes it into nodes and links and resolves link ends
//  3. [force] lays the nodes out with a cooling force simulation
//  4. [render] draws each tick onto a [render.Surface] ([render/svg], [render/raster])
//  5. [selection], [tooltip] and [filter] handle user input
//  6. [viewer] ties them together behind one lock
//
// # Data flow
//
//	?jsonFile=NAME
//	     ↓
//	[loader] → [sky.Graph]
//	     ↓
//	[force.Simulation] ── tick ──→ [render.Renderer] → Surface
//	     ↑                                    ↑
//	click → [selection] → [tooltip]      selected node
//
// [errors] carries coded errors across all of them and [observability]
// exposes hooks for load, interaction, cache and HTTP events.
package pkg
