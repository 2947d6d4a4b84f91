package force

import (
	"math"
	"testing"

	"github.com/gincla/nightsky/pkg/sky"
)

func twoStars(t *testing.T) *sky.Graph {
	t.Helper()
	g, err := sky.Unmarshal([]byte(`{
		"nodes": [{"id": "A", "x": 0, "y": 0}, {"id": "B", "x": 100, "y": 100}],
		"links": [{"source": "A", "target": "B"}]
	}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	return g
}

func TestNewResolvesLinks(t *testing.T) {
	g := twoStars(t)
	if _, err := New(g, Options{Width: 960, Height: 600}); err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.Links[0].Source == nil || g.Links[0].Target == nil {
		t.Error("links not resolved")
	}
}

func TestNewUnknownLinkEndpoint(t *testing.T) {
	g, err := sky.Unmarshal([]byte(`{"nodes": [{"id": "A"}], "links": [{"source": "A", "target": "nope"}]}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, err := New(g, Options{}); err == nil {
		t.Fatal("New should fail for unknown link endpoint")
	}
}

func TestPhyllotaxisPlacement(t *testing.T) {
	g, err := sky.Unmarshal([]byte(`{"nodes": [{"id": "a"}, {"id": "b"}, {"id": "c"}], "links": []}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, err := New(g, Options{}); err != nil {
		t.Fatalf("New: %v", err)
	}
	for i, n := range g.Nodes {
		if !n.Positioned() {
			t.Errorf("node %s not positioned", n.ID)
		}
		wantR := initialRadius * math.Sqrt(0.5+float64(i))
		if r := math.Hypot(n.X, n.Y); math.Abs(r-wantR) > 1e-9 {
			t.Errorf("node %s radius = %v, want %v", n.ID, r, wantR)
		}
	}
}

func TestStepNotifiesAndCools(t *testing.T) {
	g := twoStars(t)
	s, err := New(g, Options{Width: 960, Height: 600})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ticks := 0
	s.OnTick(func() { ticks++ })

	for s.Step() {
		if ticks > 1000 {
			t.Fatal("simulation never cooled")
		}
	}
	if s.Running() {
		t.Error("simulation should stop once alpha < alphaMin")
	}
	if s.Alpha() >= DefaultAlphaMin {
		t.Errorf("alpha = %v, want < %v", s.Alpha(), DefaultAlphaMin)
	}
	// d3 cools from 1 to 0.001 in about 300 ticks.
	if ticks < 299 || ticks > 301 {
		t.Errorf("ticks = %d, want ~300", ticks)
	}
	if s.Steps() != ticks {
		t.Errorf("Steps() = %d, want %d", s.Steps(), ticks)
	}

	if s.Step() {
		t.Error("Step on a stopped simulation should do nothing")
	}
}

func TestRestartRunsOneMoreTick(t *testing.T) {
	s, err := New(twoStars(t), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Settle(1000)
	if s.Running() {
		t.Fatal("settled simulation should be stopped")
	}

	ticks := 0
	s.OnTick(func() { ticks++ })
	s.Restart()
	for s.Step() {
	}
	if ticks != 1 {
		t.Errorf("ticks after restart = %d, want 1", ticks)
	}
}

func TestReheat(t *testing.T) {
	s, err := New(twoStars(t), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Settle(1000)
	s.Reheat(0.3)
	if !s.Running() || s.Alpha() != 0.3 {
		t.Errorf("after Reheat: running=%v alpha=%v, want true 0.3", s.Running(), s.Alpha())
	}
}

func TestLayoutCentersAndSeparates(t *testing.T) {
	g := twoStars(t)
	s, err := New(g, Options{Width: 960, Height: 600})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Settle(1000)

	a, _ := g.Node("A")
	b, _ := g.Node("B")
	cx, cy := (a.X+b.X)/2, (a.Y+b.Y)/2
	if math.Abs(cx-480) > 1e-3 || math.Abs(cy-300) > 1e-3 {
		t.Errorf("centroid = (%v, %v), want (480, 300)", cx, cy)
	}
	d := math.Hypot(a.X-b.X, a.Y-b.Y)
	if d < 15 || d > 100 {
		t.Errorf("linked distance = %v, want near the link distance 30", d)
	}
}

func TestPinnedNodesStay(t *testing.T) {
	g, err := sky.Unmarshal([]byte(`{
		"nodes": [{"id": "A", "fx": 10, "fy": 20}, {"id": "B"}],
		"links": [{"source": "A", "target": "B"}]
	}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	s, err := New(g, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Tick(10)
	a, _ := g.Node("A")
	if a.X != 10 || a.Y != 20 {
		t.Errorf("pinned node moved to (%v, %v)", a.X, a.Y)
	}
}

func TestFind(t *testing.T) {
	g := twoStars(t)
	s, err := New(g, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name   string
		x, y   float64
		radius float64
		want   string
	}{
		{"near A", 2, 2, 50, "A"},
		{"near B", 90, 95, 50, "B"},
		{"nothing within radius", 500, 500, 50, ""},
		{"exactly on boundary is excluded", 50, 0, 50, ""},
		{"unbounded", 500, 500, 0, "B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Find(tt.x, tt.y, tt.radius)
			switch {
			case tt.want == "" && got != nil:
				t.Errorf("Find = %s, want nil", got.ID)
			case tt.want != "" && (got == nil || got.ID != tt.want):
				t.Errorf("Find = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestNearestTieKeepsFirst(t *testing.T) {
	a := &sky.Node{ID: "a", X: -1}
	b := &sky.Node{ID: "b", X: 1}
	if got := Nearest([]*sky.Node{a, b}, 0, 0, 50); got != a {
		t.Errorf("Nearest = %v, want a", got)
	}
}
