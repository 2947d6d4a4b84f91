package viewer

import (
	"github.com/gincla/nightsky/pkg/errors"
	"github.com/gincla/nightsky/pkg/filter"
	"github.com/gincla/nightsky/pkg/render"
)

var errNoLoader = errors.New(errors.ErrCodeInternal, "viewer has no loader")

// NodeState is the drawn state of one node.
type NodeState struct {
	ID         string   `json:"id"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Radius     float64  `json:"radius"`
	ArcSize    float64  `json:"arcSize"`
	Drawn      float64  `json:"drawnRadius"`
	Selected   bool     `json:"selected"`
	Categories []string `json:"categories,omitempty"`
}

// LinkState is one drawn link.
type LinkState struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Snapshot is a point-in-time export of a viewer.
type Snapshot struct {
	Nodes    []NodeState   `json:"nodes"`
	Links    []LinkState   `json:"links"`
	Selected string        `json:"selected,omitempty"`
	Alpha    float64       `json:"alpha"`
	Ticks    int           `json:"ticks"`
	Running  bool          `json:"running"`
	Bounds   filter.Bounds `json:"filter"`
}

// Snapshot exports node positions, attributes and the selection. Nodes
// that were never drawn get their attributes assigned here.
func (v *Viewer) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := Snapshot{Bounds: v.filter.Bounds(), Nodes: []NodeState{}, Links: []LinkState{}}
	if v.graph == nil {
		return s
	}
	s.Alpha, s.Ticks, s.Running = v.sim.Alpha(), v.sim.Steps(), v.sim.Running()
	if cur := v.selector.Current(); cur != nil {
		s.Selected = cur.ID
	}

	attrs := v.renderer.Attributes()
	for _, n := range v.graph.Nodes {
		a := attrs.Get(n)
		sel := v.selector.IsSelected(n)
		s.Nodes = append(s.Nodes, NodeState{
			ID:         n.ID,
			X:          n.X,
			Y:          n.Y,
			Radius:     a.Radius,
			ArcSize:    a.ArcSize,
			Drawn:      render.DrawnRadius(a, sel),
			Selected:   sel,
			Categories: n.Categories,
		})
	}
	for _, l := range v.graph.Links {
		s.Links = append(s.Links, LinkState{Source: l.SourceID, Target: l.TargetID})
	}
	return s
}
