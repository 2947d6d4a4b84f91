// Package tooltip builds the overlay shown next to a selected node.
package tooltip

import (
	"bytes"
	"fmt"
	"html/template"
	"math/rand/v2"

	"github.com/gincla/nightsky/pkg/render"
	"github.com/gincla/nightsky/pkg/sky"
)

// Anchor box dimensions.
const (
	Width  = 200
	Height = 200
)

// MaxCategories limits how many categories are listed.
const MaxCategories = 5

// Rect is the virtual reference rectangle the overlay is positioned against.
type Rect struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// AnchorAt returns the reference rectangle for a node drawn at (x, y).
func AnchorAt(x, y float64) Rect {
	return Rect{
		Width:  Width,
		Height: Height,
		Top:    y,
		Left:   x - Width/2,
		Right:  x + Width,
		Bottom: y + Height,
	}
}

// Tooltip is the content and placement of one overlay.
type Tooltip struct {
	NodeID     string   `json:"node_id"`
	Anchor     Rect     `json:"anchor"`
	EBITDA     float64  `json:"ebitda_meur"`
	Liquidity  float64  `json:"liquidity_months"`
	Categories []string `json:"categories"`
}

// Lines returns the textual rows of the overlay.
func (t Tooltip) Lines() []string {
	lines := []string{
		t.NodeID,
		fmt.Sprintf("EBITDA: %s million EUR", formatNumber(t.EBITDA)),
		fmt.Sprintf("Liquidity: %s months", formatNumber(t.Liquidity)),
	}
	for _, c := range t.Categories {
		lines = append(lines, "- "+c)
	}
	return lines
}

func (t Tooltip) String() string {
	var buf bytes.Buffer
	for i, l := range t.Lines() {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(l)
	}
	return buf.String()
}

var overlay = template.Must(template.New("tooltip").Funcs(template.FuncMap{
	"num": formatNumber,
	"px":  func(v float64) template.CSS { return template.CSS(fmt.Sprintf("%.1fpx", v)) },
}).Parse(`<div class="tooltip" style="position:absolute;top:{{px .Anchor.Top}};left:{{px .Anchor.Left}};width:{{px .Anchor.Width}}">
<h4>{{.NodeID}}</h4>
<p>EBITDA: {{num .EBITDA}} million EUR</p>
<p>Liquidity: {{num .Liquidity}} months</p>
{{- if .Categories}}
<ul>
{{- range .Categories}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
</div>
`))

// HTML renders the overlay markup with all node-provided text escaped.
func (t Tooltip) HTML() (string, error) {
	var buf bytes.Buffer
	if err := overlay.Execute(&buf, t); err != nil {
		return "", fmt.Errorf("render tooltip: %w", err)
	}
	return buf.String(), nil
}

// Builder derives tooltips from nodes and their drawing attributes.
type Builder struct {
	rng   *rand.Rand
	attrs func(*sky.Node) render.Attrs
}

// NewBuilder returns a builder that reads radius and arc size through attrs.
// The random source drives the illustrative figures.
func NewBuilder(rng *rand.Rand, attrs func(*sky.Node) render.Attrs) *Builder {
	return &Builder{rng: rng, attrs: attrs}
}

// Build returns the tooltip for n at its current position.
func (b *Builder) Build(n *sky.Node) Tooltip {
	a := b.attrs(n)
	cats := n.Categories
	if len(cats) > MaxCategories {
		cats = cats[:MaxCategories]
	}
	return Tooltip{
		NodeID:     n.ID,
		Anchor:     AnchorAt(n.X, n.Y),
		EBITDA:     a.ArcSize * float64(render.RandomInt(b.rng, 1, 7)),
		Liquidity:  a.Radius * float64(render.RandomInt(b.rng, 1, 100)) / 20,
		Categories: append([]string(nil), cats...),
	}
}

func formatNumber(v float64) string {
	return fmt.Sprintf("%g", v)
}
