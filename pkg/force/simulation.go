package force

import (
	"math"
	"math/rand/v2"

	"github.com/gincla/nightsky/pkg/sky"
)

// Default simulation parameters, matching d3-force.
const (
	DefaultAlphaMin      = 0.001
	DefaultVelocityDecay = 0.4
	initialRadius        = 10.0
)

var (
	// DefaultAlphaDecay cools alpha to alphaMin in 300 ticks.
	DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/300)

	initialAngle = math.Pi * (3 - math.Sqrt(5))
)

// Force is applied once per tick with the current alpha.
type Force interface {
	// Initialize is called whenever the simulation's nodes change.
	Initialize(g *sky.Graph, rng *rand.Rand)
	// Apply adjusts node velocities (or positions) for one tick.
	Apply(alpha float64)
}

// TickFunc is notified after every simulated step.
type TickFunc func()

// Options configures a Simulation. Zero values select defaults.
type Options struct {
	Width, Height float64
	Seed          uint64
	AlphaDecay    float64
	VelocityDecay float64
}

// Simulation steps a force-directed layout over one graph.
type Simulation struct {
	graph  *sky.Graph
	forces []Force
	ticks  []TickFunc
	rng    *rand.Rand

	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64

	running bool
	steps   int
}

// New creates a running simulation over g with link, many-body and center
// forces. The graph's links are resolved here; an unknown link endpoint is
// returned as an error.
func New(g *sky.Graph, opts Options) (*Simulation, error) {
	if err := g.Resolve(); err != nil {
		return nil, err
	}
	s := &Simulation{
		graph:         g,
		rng:           rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5eed)),
		alpha:         1,
		alphaMin:      DefaultAlphaMin,
		alphaDecay:    DefaultAlphaDecay,
		velocityDecay: 1 - DefaultVelocityDecay,
		running:       true,
	}
	if opts.AlphaDecay > 0 {
		s.alphaDecay = opts.AlphaDecay
	}
	if opts.VelocityDecay > 0 {
		s.velocityDecay = 1 - opts.VelocityDecay
	}
	s.initializeNodes()

	s.AddForce(NewLinkForce())
	s.AddForce(NewManyBodyForce())
	s.AddForce(NewCenterForce(opts.Width/2, opts.Height/2))
	return s, nil
}

// Graph returns the simulated graph.
func (s *Simulation) Graph() *sky.Graph { return s.graph }

// AddForce registers and initializes a force.
func (s *Simulation) AddForce(f Force) {
	f.Initialize(s.graph, s.rng)
	s.forces = append(s.forces, f)
}

// OnTick registers a listener called after every step.
func (s *Simulation) OnTick(fn TickFunc) {
	s.ticks = append(s.ticks, fn)
}

// Alpha returns the current alpha.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Steps returns how many ticks have been simulated.
func (s *Simulation) Steps() int { return s.steps }

// Running reports whether Step will advance the simulation.
func (s *Simulation) Running() bool { return s.running }

// Restart resumes stepping. Alpha is left unchanged.
func (s *Simulation) Restart() { s.running = true }

// Stop halts stepping until Restart.
func (s *Simulation) Stop() { s.running = false }

// Reheat sets alpha and resumes stepping.
func (s *Simulation) Reheat(alpha float64) {
	s.alpha = alpha
	s.running = true
}

// Step advances one tick and notifies listeners. It returns false if the
// simulation was stopped and nothing happened.
func (s *Simulation) Step() bool {
	if !s.running {
		return false
	}
	s.Tick(1)
	for _, fn := range s.ticks {
		fn()
	}
	if s.alpha < s.alphaMin {
		s.running = false
	}
	return true
}

// Tick advances the layout n ticks without notifying listeners and without
// regard to the running state.
func (s *Simulation) Tick(n int) {
	for range n {
		s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay
		for _, f := range s.forces {
			f.Apply(s.alpha)
		}
		for _, node := range s.graph.Nodes {
			if node.FX == nil {
				node.VX *= s.velocityDecay
				node.X += node.VX
			} else {
				node.X, node.VX = *node.FX, 0
			}
			if node.FY == nil {
				node.VY *= s.velocityDecay
				node.Y += node.VY
			} else {
				node.Y, node.VY = *node.FY, 0
			}
		}
		s.steps++
	}
}

// Settle ticks until alpha drops below alphaMin or maxTicks elapse, then
// notifies listeners once. It returns the number of ticks run.
func (s *Simulation) Settle(maxTicks int) int {
	n := 0
	for s.alpha >= s.alphaMin && n < maxTicks {
		s.Tick(1)
		n++
	}
	for _, fn := range s.ticks {
		fn()
	}
	if s.alpha < s.alphaMin {
		s.running = false
	}
	return n
}

// Find returns the node closest to (x, y) whose squared distance is strictly
// below radius². A radius <= 0 means unbounded. Ties keep the earlier node.
func (s *Simulation) Find(x, y, radius float64) *sky.Node {
	return Nearest(s.graph.Nodes, x, y, radius)
}

// Nearest is the hit test behind Find.
func Nearest(nodes []*sky.Node, x, y, radius float64) *sky.Node {
	limit := math.Inf(1)
	if radius > 0 {
		limit = radius * radius
	}
	var closest *sky.Node
	for _, n := range nodes {
		dx, dy := x-n.X, y-n.Y
		if d2 := dx*dx + dy*dy; d2 < limit {
			closest, limit = n, d2
		}
	}
	return closest
}

func (s *Simulation) initializeNodes() {
	for i, n := range s.graph.Nodes {
		n.Index = i
		if n.FX != nil && n.FY != nil {
			n.SetPosition(*n.FX, *n.FY)
		}
		if !n.Positioned() {
			r := initialRadius * math.Sqrt(0.5+float64(i))
			a := float64(i) * initialAngle
			n.SetPosition(r*math.Cos(a), r*math.Sin(a))
		}
		if math.IsNaN(n.VX) || math.IsNaN(n.VY) {
			n.VX, n.VY = 0, 0
		}
	}
}

// jiggle returns a tiny random offset used to separate coincident nodes.
func jiggle(rng *rand.Rand) float64 {
	return (rng.Float64() - 0.5) * 1e-6
}
