// Package selection implements pointer hit-testing and the single-node
// selection of a sky.
package selection

import "github.com/gincla/nightsky/pkg/sky"

// DefaultThreshold is the hit-test radius around a click.
const DefaultThreshold = 50.0

// Finder locates the nearest node strictly within radius of (x, y).
type Finder interface {
	Find(x, y, radius float64) *sky.Node
}

// Presenter displays information about a newly selected node.
type Presenter interface {
	DisplayTooltip(n *sky.Node)
}

// Restarter resumes the layout engine after an interaction.
type Restarter interface {
	Restart()
}

// Change describes the effect of one click.
type Change struct {
	Previous *sky.Node
	Current  *sky.Node
}

// Selected reports whether the click selected a node.
func (c Change) Selected() bool { return c.Current != nil }

// Cleared reports whether the click removed an existing selection without
// selecting anything.
func (c Change) Cleared() bool { return c.Current == nil && c.Previous != nil }

// Selector tracks zero or one selected node.
type Selector struct {
	Threshold float64

	finder    Finder
	presenter Presenter
	restarter Restarter
	current   *sky.Node
}

// New returns a selector using DefaultThreshold. presenter and restarter may
// be nil.
func New(f Finder, p Presenter, r Restarter) *Selector {
	return &Selector{
		Threshold: DefaultThreshold,
		finder:    f,
		presenter: p,
		restarter: r,
	}
}

// Current returns the selected node, or nil.
func (s *Selector) Current() *sky.Node { return s.current }

// IsSelected reports whether n is the selected node.
func (s *Selector) IsSelected(n *sky.Node) bool { return n != nil && n == s.current }

// Reset clears the selection without side effects. Call it when the graph
// is replaced.
func (s *Selector) Reset() { s.current = nil }

// SetFinder swaps the hit-test source, for example after a new graph loads.
func (s *Selector) SetFinder(f Finder) { s.finder = f }

// HandleClick hit-tests (x, y). A hit replaces the selection, displays the
// tooltip and restarts the layout engine. A miss clears the selection, which
// is a no-op when nothing was selected.
func (s *Selector) HandleClick(x, y float64) Change {
	change := Change{Previous: s.current}

	var hit *sky.Node
	if s.finder != nil {
		hit = s.finder.Find(x, y, s.Threshold)
	}
	if hit == nil {
		s.current = nil
		return change
	}

	s.current = hit
	change.Current = hit
	if s.presenter != nil {
		s.presenter.DisplayTooltip(hit)
	}
	if s.restarter != nil {
		s.restarter.Restart()
	}
	return change
}
