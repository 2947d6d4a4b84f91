package render

import (
	"image/color"
	"math/rand/v2"

	"github.com/gincla/nightsky/pkg/sky"
)

// Radius multipliers applied to a node's attribute radius.
const (
	SelectedScale = 3.0
	DefaultScale  = 1.5
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithLinkColor sets the stroke color shared by all links.
func WithLinkColor(c color.Color) Option { return func(r *Renderer) { r.linkColor = c } }

// WithNodeFill sets the fill color shared by all nodes.
func WithNodeFill(c color.Color) Option { return func(r *Renderer) { r.nodeFill = c } }

// WithNodeStroke sets the stroke color shared by all nodes.
func WithNodeStroke(c color.Color) Option { return func(r *Renderer) { r.nodeStroke = c } }

// WithSeed seeds the random source used for default node attributes.
func WithSeed(seed uint64) Option {
	return func(r *Renderer) { r.rng = rand.New(rand.NewPCG(seed, seed^0xdeadbeef)) }
}

// Renderer draws frames of a sky. It is not safe for concurrent use.
type Renderer struct {
	linkColor  color.Color
	nodeFill   color.Color
	nodeStroke color.Color
	rng        *rand.Rand
	attrs      *Attributes
}

// NewRenderer returns a renderer with the default palette.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		linkColor:  MustParseColor(DefaultLinkColor),
		nodeFill:   MustParseColor(DefaultNodeFill),
		nodeStroke: MustParseColor(DefaultNodeStroke),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	r.attrs = NewAttributes(r.rng)
	return r
}

// Attributes exposes the memoized visual attributes.
func (r *Renderer) Attributes() *Attributes { return r.attrs }

// Reset forgets all memoized attributes. Call it when a new graph replaces
// the old one.
func (r *Renderer) Reset() { r.attrs.Reset() }

// RenderFrame clears s and draws every link, then every node, of g.
// selected may be nil. Links must already be resolved.
func (r *Renderer) RenderFrame(s Surface, g *sky.Graph, selected *sky.Node) {
	s.Clear()
	if g == nil {
		return
	}
	s.Save()
	defer s.Restore()

	s.BeginPath()
	for _, l := range g.Links {
		if l.Source == nil || l.Target == nil {
			continue
		}
		s.MoveTo(l.Source.X, l.Source.Y)
		s.LineTo(l.Target.X, l.Target.Y)
	}
	s.SetStrokeColor(r.linkColor)
	s.Stroke()

	s.BeginPath()
	for _, n := range g.Nodes {
		r.traceNode(s, n, n == selected)
	}
	s.SetFillColor(r.nodeFill)
	s.Fill()
	s.SetStrokeColor(r.nodeStroke)
	s.Stroke()
}

// DrawnRadius is the on-surface radius of a node.
func DrawnRadius(a Attrs, selected bool) float64 {
	if selected {
		return a.Radius * SelectedScale
	}
	return a.Radius * DefaultScale
}

func (r *Renderer) traceNode(s Surface, n *sky.Node, selected bool) {
	a := r.attrs.Get(n)
	radius := DrawnRadius(a, selected)
	s.MoveTo(n.X+radius, n.Y)
	s.Arc(n.X, n.Y, radius, 0, a.ArcSize)
}
