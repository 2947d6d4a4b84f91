package tooltip

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gincla/nightsky/pkg/render"
	"github.com/gincla/nightsky/pkg/sky"
)

func fixedAttrs(a render.Attrs) func(*sky.Node) render.Attrs {
	return func(*sky.Node) render.Attrs { return a }
}

func TestAnchorAt(t *testing.T) {
	want := Rect{Width: 200, Height: 200, Top: 50, Left: 0, Right: 300, Bottom: 250}
	if diff := cmp.Diff(want, AnchorAt(100, 50)); diff != "" {
		t.Errorf("AnchorAt mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild(t *testing.T) {
	b := NewBuilder(rand.New(rand.NewPCG(1, 2)), fixedAttrs(render.Attrs{Radius: 4, ArcSize: 5}))
	n := &sky.Node{ID: "acme", X: 10, Y: 20, Categories: []string{"a", "b", "c", "d", "e", "f", "g"}}

	for range 50 {
		tt := b.Build(n)
		if tt.NodeID != "acme" {
			t.Fatalf("NodeID = %q", tt.NodeID)
		}
		if tt.Anchor != AnchorAt(10, 20) {
			t.Errorf("Anchor = %+v", tt.Anchor)
		}
		// arcSize * {1..6}
		if m := tt.EBITDA / 5; m < 1 || m > 6 || m != float64(int(m)) {
			t.Errorf("EBITDA = %v, want 5 * integer in [1, 6]", tt.EBITDA)
		}
		// radius * {1..99} / 20
		if m := tt.Liquidity * 20 / 4; m < 1 || m > 99 {
			t.Errorf("Liquidity = %v out of range", tt.Liquidity)
		}
		if diff := cmp.Diff([]string{"a", "b", "c", "d", "e"}, tt.Categories); diff != "" {
			t.Errorf("Categories mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestBuildDoesNotAliasCategories(t *testing.T) {
	b := NewBuilder(rand.New(rand.NewPCG(1, 2)), fixedAttrs(render.Attrs{Radius: 3, ArcSize: 4}))
	n := &sky.Node{ID: "x", Categories: []string{"one"}}
	tt := b.Build(n)
	tt.Categories[0] = "changed"
	if n.Categories[0] != "one" {
		t.Error("tooltip shares the node's category slice")
	}
}

func TestBuildWithoutCategories(t *testing.T) {
	b := NewBuilder(rand.New(rand.NewPCG(1, 2)), fixedAttrs(render.Attrs{Radius: 3, ArcSize: 4}))
	tt := b.Build(&sky.Node{ID: "bare"})
	if len(tt.Categories) != 0 {
		t.Errorf("Categories = %v, want none", tt.Categories)
	}
	html, err := tt.HTML()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "<ul>") {
		t.Errorf("empty category list rendered:\n%s", html)
	}
}

func TestHTMLEscapes(t *testing.T) {
	tt := Tooltip{
		NodeID:     `<script>alert(1)</script>`,
		Anchor:     AnchorAt(300, 40),
		EBITDA:     12,
		Liquidity:  1.5,
		Categories: []string{"R&D"},
	}
	html, err := tt.HTML()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("node id not escaped:\n%s", html)
	}
	for _, want := range []string{
		"top:40.0px",
		"left:200.0px",
		"EBITDA: 12 million EUR",
		"Liquidity: 1.5 months",
		"<li>R&amp;D</li>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q:\n%s", want, html)
		}
	}
}

func TestString(t *testing.T) {
	tt := Tooltip{NodeID: "n1", EBITDA: 8, Liquidity: 0.25, Categories: []string{"x"}}
	want := "n1\nEBITDA: 8 million EUR\nLiquidity: 0.25 months\n- x"
	if got := tt.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
