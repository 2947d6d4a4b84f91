package render

import (
	"math"
	"math/rand/v2"

	"github.com/gincla/nightsky/pkg/sky"
)

// Attrs are the visual attributes of one node.
type Attrs struct {
	Radius  float64 `json:"radius"`
	ArcSize float64 `json:"arcSize"`
}

// Attributes memoizes per-node visual attributes by node id.
// Values supplied by the document take precedence over random defaults;
// random defaults are drawn once and never re-rolled.
type Attributes struct {
	rng   *rand.Rand
	attrs map[string]Attrs
}

// NewAttributes returns an empty table drawing defaults from rng.
func NewAttributes(rng *rand.Rand) *Attributes {
	return &Attributes{rng: rng, attrs: make(map[string]Attrs)}
}

// Get returns n's attributes, assigning any that are missing.
func (a *Attributes) Get(n *sky.Node) Attrs {
	at, ok := a.attrs[n.ID]
	if ok {
		return at
	}
	at = Attrs{Radius: n.Radius, ArcSize: n.ArcSize}
	if at.ArcSize == 0 {
		at.ArcSize = float64(RandomInt(a.rng, math.Pi, 2*math.Pi))
	}
	if at.Radius == 0 {
		at.Radius = float64(RandomInt(a.rng, 3, 6))
	}
	a.attrs[n.ID] = at
	return at
}

// Lookup returns n's attributes without assigning.
func (a *Attributes) Lookup(n *sky.Node) (Attrs, bool) {
	at, ok := a.attrs[n.ID]
	return at, ok
}

// Len returns the number of memoized nodes.
func (a *Attributes) Len() int { return len(a.attrs) }

// Reset forgets every memoized value.
func (a *Attributes) Reset() { clear(a.attrs) }

// RandomInt returns an integer in [ceil(from), floor(to)).
// RandomInt(π, 2π) is therefore 4 or 5.
func RandomInt(rng *rand.Rand, from, to float64) int {
	lo, hi := math.Ceil(from), math.Floor(to)
	return int(math.Floor(rng.Float64()*(hi-lo)) + lo)
}
