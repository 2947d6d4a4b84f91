package force

import (
	"math"
	"math/rand/v2"

	"github.com/gincla/nightsky/pkg/sky"
)

// =============================================================================
// Link Force
// =============================================================================

// LinkForce pulls linked nodes towards a fixed distance.
type LinkForce struct {
	Distance   float64
	Iterations int

	links     []*sky.Link
	strengths []float64
	bias      []float64
	rng       *rand.Rand
}

// NewLinkForce returns a link force with d3 defaults: distance 30, strength
// 1/min(degree(source), degree(target)), one iteration.
func NewLinkForce() *LinkForce {
	return &LinkForce{Distance: 30, Iterations: 1}
}

// Initialize computes per-link strength and bias from node degrees.
func (f *LinkForce) Initialize(g *sky.Graph, rng *rand.Rand) {
	f.links = g.Links
	f.rng = rng

	count := make([]int, len(g.Nodes))
	for _, l := range f.links {
		count[l.Source.Index]++
		count[l.Target.Index]++
	}

	f.strengths = make([]float64, len(f.links))
	f.bias = make([]float64, len(f.links))
	for i, l := range f.links {
		cs, ct := count[l.Source.Index], count[l.Target.Index]
		f.bias[i] = float64(cs) / float64(cs+ct)
		f.strengths[i] = 1 / float64(min(cs, ct))
	}
}

// Apply moves each link's endpoints towards the target distance.
func (f *LinkForce) Apply(alpha float64) {
	for range f.Iterations {
		for i, l := range f.links {
			src, dst := l.Source, l.Target
			x := dst.X + dst.VX - src.X - src.VX
			if x == 0 {
				x = jiggle(f.rng)
			}
			y := dst.Y + dst.VY - src.Y - src.VY
			if y == 0 {
				y = jiggle(f.rng)
			}
			d := math.Sqrt(x*x + y*y)
			d = (d - f.Distance) / d * alpha * f.strengths[i]
			x, y = x*d, y*d

			b := f.bias[i]
			dst.VX -= x * b
			dst.VY -= y * b
			b = 1 - b
			src.VX += x * b
			src.VY += y * b
		}
	}
}

// =============================================================================
// Many-Body Force
// =============================================================================

// ManyBodyForce makes every node repel (negative strength) or attract every
// other node. The sum is exact rather than Barnes-Hut approximated.
type ManyBodyForce struct {
	Strength     float64
	DistanceMin2 float64

	nodes []*sky.Node
	rng   *rand.Rand
}

// NewManyBodyForce returns a repulsion of strength -30 with d3's minimum
// distance of 1.
func NewManyBodyForce() *ManyBodyForce {
	return &ManyBodyForce{Strength: -30, DistanceMin2: 1}
}

// Initialize captures the nodes to act on.
func (f *ManyBodyForce) Initialize(g *sky.Graph, rng *rand.Rand) {
	f.nodes = g.Nodes
	f.rng = rng
}

// Apply adds the pairwise charge contribution to every node's velocity.
func (f *ManyBodyForce) Apply(alpha float64) {
	for _, n := range f.nodes {
		for _, o := range f.nodes {
			if o == n {
				continue
			}
			x, y := o.X-n.X, o.Y-n.Y
			l := x*x + y*y
			if x == 0 {
				x = jiggle(f.rng)
				l += x * x
			}
			if y == 0 {
				y = jiggle(f.rng)
				l += y * y
			}
			if l < f.DistanceMin2 {
				l = math.Sqrt(f.DistanceMin2 * l)
			}
			w := f.Strength * alpha / l
			n.VX += x * w
			n.VY += y * w
		}
	}
}

// =============================================================================
// Center Force
// =============================================================================

// CenterForce translates all nodes so their mean position is (X, Y).
type CenterForce struct {
	X, Y     float64
	Strength float64

	nodes []*sky.Node
}

// NewCenterForce centers the layout on (x, y) with strength 1.
func NewCenterForce(x, y float64) *CenterForce {
	return &CenterForce{X: x, Y: y, Strength: 1}
}

// Initialize captures the nodes to act on.
func (f *CenterForce) Initialize(g *sky.Graph, _ *rand.Rand) {
	f.nodes = g.Nodes
}

// Apply shifts positions directly; alpha is ignored, as in d3.
func (f *CenterForce) Apply(float64) {
	if len(f.nodes) == 0 {
		return
	}
	var sx, sy float64
	for _, n := range f.nodes {
		sx += n.X
		sy += n.Y
	}
	n := float64(len(f.nodes))
	sx = (sx/n - f.X) * f.Strength
	sy = (sy/n - f.Y) * f.Strength
	for _, node := range f.nodes {
		node.X -= sx
		node.Y -= sy
	}
}
