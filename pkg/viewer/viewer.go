// Package viewer wires a sky, its layout engine, renderer, selection and
// filter controls into a single interactive component.
//
// Every method takes the same lock, so ticks, clicks, filter refreshes and
// loads are applied one at a time in arrival order.
package viewer

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gincla/nightsky/pkg/filter"
	"github.com/gincla/nightsky/pkg/force"
	"github.com/gincla/nightsky/pkg/observability"
	"github.com/gincla/nightsky/pkg/render"
	"github.com/gincla/nightsky/pkg/selection"
	"github.com/gincla/nightsky/pkg/sky"
	"github.com/gincla/nightsky/pkg/tooltip"
)

// GraphLoader fetches a sky by document name.
type GraphLoader interface {
	Load(ctx context.Context, jsonFile string) (*sky.Graph, error)
}

// Options configures a Viewer. Surface is required.
type Options struct {
	Surface render.Surface
	Loader  GraphLoader
	Logger  *log.Logger

	// Warner additionally receives filter warnings. They are always
	// recorded and available through Warnings.
	Warner filter.Warner

	// Seed drives layout jitter, visual attributes and tooltip figures.
	Seed uint64

	// Threshold overrides the click hit-test radius.
	Threshold float64

	RenderOptions []render.Option
	Bounds        filter.Bounds
}

// Viewer is one interactive sky.
type Viewer struct {
	mu sync.Mutex

	surface  render.Surface
	loader   GraphLoader
	logger   *log.Logger
	seed     uint64
	renderer *render.Renderer
	selector *selection.Selector
	filter   *filter.Controls
	tooltips *tooltip.Builder

	graph    *sky.Graph
	sim      *force.Simulation
	tooltip  *tooltip.Tooltip
	warnings []string
	loads    int
}

// New creates a viewer with no graph. It draws nothing until Load or
// SetGraph succeeds.
func New(opts Options) *Viewer {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	v := &Viewer{
		surface: opts.Surface,
		loader:  opts.Loader,
		logger:  logger,
		seed:    opts.Seed,
	}
	renderOpts := append([]render.Option{render.WithSeed(opts.Seed)}, opts.RenderOptions...)
	v.renderer = render.NewRenderer(renderOpts...)
	v.tooltips = tooltip.NewBuilder(
		rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x7007)),
		v.renderer.Attributes().Get,
	)
	v.selector = selection.New(nil, presenter{v}, restarter{v})
	if opts.Threshold > 0 {
		v.selector.Threshold = opts.Threshold
	}
	v.filter = filter.New(opts.Bounds, warnings{v, opts.Warner}, logger)
	return v
}

// =============================================================================
// Loading
// =============================================================================

// Load fetches the named sky and installs it. On failure the previous state
// is kept.
func (v *Viewer) Load(ctx context.Context, jsonFile string) error {
	if v.loader == nil {
		return errNoLoader
	}
	g, err := v.loader.Load(ctx, jsonFile)
	if err != nil {
		v.logger.Error("load failed", "jsonFile", jsonFile, "error", err)
		return err
	}
	return v.SetGraph(g)
}

// SetGraph installs g, starting a fresh simulation and clearing the
// selection, tooltip and visual attributes.
func (v *Viewer) SetGraph(g *sky.Graph) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	w, h := v.surface.Size()
	seed := v.seed + uint64(v.loads)
	sim, err := force.New(g, force.Options{Width: w, Height: h, Seed: seed})
	if err != nil {
		return err
	}
	sim.OnTick(v.redraw)

	v.loads++
	v.graph, v.sim, v.tooltip = g, sim, nil
	v.renderer.Reset()
	v.selector.Reset()
	v.selector.SetFinder(sim)
	v.logger.Info("sky loaded", "nodes", g.NodeCount(), "links", g.LinkCount())
	return nil
}

// Graph returns the current sky, or nil.
func (v *Viewer) Graph() *sky.Graph {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.graph
}

// =============================================================================
// Ticking
// =============================================================================

// Step advances the layout by one tick and redraws. It returns false when
// there is nothing to do: no graph, or the layout has cooled down.
func (v *Viewer) Step() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.step()
}

func (v *Viewer) step() bool {
	if v.sim == nil || !v.sim.Running() {
		return false
	}
	v.sim.Step()
	if !v.sim.Running() {
		v.logger.Debug("layout settled", "ticks", v.sim.Steps(), "alpha", v.sim.Alpha())
		observability.Load().OnLayoutSettled(context.Background(), v.sim.Steps())
	}
	return true
}

// Settle runs the layout until it cools or maxTicks ticks have run, then
// draws a single frame. It returns the number of ticks taken.
func (v *Viewer) Settle(maxTicks int) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.sim == nil || !v.sim.Running() {
		return 0
	}
	n := v.sim.Settle(maxTicks)
	if !v.sim.Running() {
		v.logger.Debug("layout settled", "ticks", v.sim.Steps(), "alpha", v.sim.Alpha())
		observability.Load().OnLayoutSettled(context.Background(), v.sim.Steps())
	}
	return n
}

// Run steps the layout every interval until ctx is done. The loop keeps
// running after the layout settles so that a later click can restart it.
func (v *Viewer) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			v.Step()
		}
	}
}

// Running reports whether the layout is still moving.
func (v *Viewer) Running() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sim != nil && v.sim.Running()
}

func (v *Viewer) redraw() {
	v.renderer.RenderFrame(v.surface, v.graph, v.selector.Current())
}

// Draw renders the current state onto s without advancing the layout.
func (v *Viewer) Draw(s render.Surface) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.graph == nil {
		s.Clear()
		return
	}
	v.renderer.RenderFrame(s, v.graph, v.selector.Current())
}

// =============================================================================
// Interaction
// =============================================================================

// Click hit-tests (x, y) and updates the selection.
func (v *Viewer) Click(x, y float64) selection.Change {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.click(x, y)
}

// ClickTooltip is Click that also returns the tooltip of the resulting
// selection, both taken under one lock.
func (v *Viewer) ClickTooltip(x, y float64) (selection.Change, *tooltip.Tooltip) {
	v.mu.Lock()
	defer v.mu.Unlock()
	c := v.click(x, y)
	if v.tooltip == nil {
		return c, nil
	}
	t := *v.tooltip
	return c, &t
}

func (v *Viewer) click(x, y float64) selection.Change {
	c := v.selector.HandleClick(x, y)
	id := ""
	if c.Current != nil {
		id = c.Current.ID
		v.logger.Debug("node selected", "id", id, "x", x, "y", y)
	} else {
		v.tooltip = nil
		v.logger.Debug("no node found", "x", x, "y", y)
	}
	observability.Interaction().OnClick(context.Background(), x, y, id)
	return c
}

// Selected returns the selected node, or nil.
func (v *Viewer) Selected() *sky.Node {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selector.Current()
}

// Tooltip returns the tooltip of the current selection.
func (v *Viewer) Tooltip() (tooltip.Tooltip, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.tooltip == nil {
		return tooltip.Tooltip{}, false
	}
	return *v.tooltip, true
}

// RefreshFilter validates new filter values.
func (v *Viewer) RefreshFilter(minValue, maxValue string) filter.Bounds {
	v.mu.Lock()
	defer v.mu.Unlock()
	before := len(v.warnings)
	b := v.filter.Refresh(minValue, maxValue)
	observability.Interaction().OnFilter(context.Background(), b.Min, b.Max, len(v.warnings) > before)
	return b
}

// Bounds returns the last validated filter bounds.
func (v *Viewer) Bounds() filter.Bounds {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter.Bounds()
}

// Warnings returns every warning shown so far.
func (v *Viewer) Warnings() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.warnings...)
}

// =============================================================================
// Collaborator adapters
// =============================================================================

// The adapters run while the viewer lock is held by the calling method.

type presenter struct{ v *Viewer }

func (p presenter) DisplayTooltip(n *sky.Node) {
	t := p.v.tooltips.Build(n)
	p.v.tooltip = &t
}

type restarter struct{ v *Viewer }

func (r restarter) Restart() {
	if r.v.sim != nil {
		r.v.sim.Restart()
	}
}

type warnings struct {
	v    *Viewer
	next filter.Warner
}

func (w warnings) Warn(msg string) {
	w.v.warnings = append(w.v.warnings, msg)
	if w.next != nil {
		w.next.Warn(msg)
	}
}
