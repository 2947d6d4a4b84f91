// Package sky holds the graph model rendered by nightsky.
//
// A [Graph] is decoded wholesale from a JSON document shaped as
//
//	{
//	  "nodes": [{"id": "A", "x": 0, "y": 0, "categories": ["energy"]}],
//	  "links": [{"source": "A", "target": "B"}]
//	}
//
// Node positions are mutated in place by the force layout engine on every
// tick. Links reference nodes by id in the document; [Graph.Resolve] turns
// them into direct node references before the first draw.
//
// Visual attributes such as the drawn radius and arc sweep are not computed
// here. A document may supply them, but randomly assigned defaults live in
// the renderer's side table so that visual randomness never leaks into the
// transport model.
package sky
