// Package force implements a force-directed layout engine for a sky.
//
// The engine follows the semantics of d3-force so that layouts match what
// users of the original widget saw:
//
//   - alpha starts at 1 and decays towards alphaTarget (0) by
//     1 - 0.001^(1/300) per tick, so about 300 ticks until alphaMin (0.001)
//   - velocities are damped by 0.4 per tick
//   - unpositioned nodes are placed on a phyllotaxis spiral
//
// Three forces are wired by [New]: a link spring, a many-body repulsion and a
// centering force. Each tick runs the forces, integrates velocities and then
// notifies every tick listener.
//
// # Stepping
//
// A [Simulation] does not own a goroutine. The caller drives it by calling
// [Simulation.Step], typically from a ticker loop. Step is a no-op while the
// simulation is stopped; it stops itself once alpha falls below alphaMin.
// [Simulation.Restart] resumes stepping without reheating alpha, exactly as
// d3's simulation.restart: a cooled simulation runs one more tick (enough to
// redraw a new selection) and stops again.
//
// A Simulation is not safe for concurrent use.
package force
