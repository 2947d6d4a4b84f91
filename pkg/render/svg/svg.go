// Package svg implements a render.Surface that produces an SVG document.
//
// Every Stroke or Fill emits one <path> element holding the whole current
// path, so a frame of the sky is four elements regardless of graph size:
// the optional background, the links, the node fill and the node stroke.
package svg

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/gincla/nightsky/pkg/render"
)

// Option configures a Surface.
type Option func(*Surface)

// WithBackground adds a full-size background rectangle.
func WithBackground(c color.Color) Option { return func(s *Surface) { s.background = c } }

// WithLineWidth sets the stroke width.
func WithLineWidth(w float64) Option { return func(s *Surface) { s.lineWidth = w } }

// Surface accumulates SVG elements for the current frame.
type Surface struct {
	width, height float64
	background    color.Color
	lineWidth     float64

	stroke, fill color.Color
	saved        [][2]color.Color

	path       strings.Builder
	hasCurrent bool
	cx, cy     float64

	elements []string
}

// New returns an empty surface of the given size.
func New(width, height float64, opts ...Option) *Surface {
	s := &Surface{
		width:     width,
		height:    height,
		lineWidth: render.DefaultStrokeWidth,
		stroke:    color.Black,
		fill:      color.Black,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Surface) Size() (float64, float64) { return s.width, s.height }

func (s *Surface) Clear() {
	s.elements = s.elements[:0]
	s.BeginPath()
}

func (s *Surface) Save() { s.saved = append(s.saved, [2]color.Color{s.stroke, s.fill}) }

func (s *Surface) Restore() {
	if n := len(s.saved); n > 0 {
		s.stroke, s.fill = s.saved[n-1][0], s.saved[n-1][1]
		s.saved = s.saved[:n-1]
	}
}

func (s *Surface) BeginPath() {
	s.path.Reset()
	s.hasCurrent = false
}

func (s *Surface) MoveTo(x, y float64) {
	fmt.Fprintf(&s.path, "M%s %s", num(x), num(y))
	s.cx, s.cy, s.hasCurrent = x, y, true
}

func (s *Surface) LineTo(x, y float64) {
	if !s.hasCurrent {
		s.MoveTo(x, y)
		return
	}
	fmt.Fprintf(&s.path, "L%s %s", num(x), num(y))
	s.cx, s.cy = x, y
}

func (s *Surface) Arc(x, y, r, start, end float64) {
	sx, sy := x+r*math.Cos(start), y+r*math.Sin(start)
	if s.hasCurrent {
		if sx != s.cx || sy != s.cy {
			s.LineTo(sx, sy)
		}
	} else {
		s.MoveTo(sx, sy)
	}

	sweep := end - start
	switch {
	case sweep >= 2*math.Pi:
		// Full circle: two half arcs back to the start point.
		mx, my := x-r*math.Cos(start), y-r*math.Sin(start)
		fmt.Fprintf(&s.path, "A%s %s 0 1 1 %s %s", num(r), num(r), num(mx), num(my))
		fmt.Fprintf(&s.path, "A%s %s 0 1 1 %s %s", num(r), num(r), num(sx), num(sy))
		return
	case sweep < 0:
		sweep = math.Mod(sweep, 2*math.Pi) + 2*math.Pi
	}
	if sweep == 0 {
		return
	}

	ex, ey := x+r*math.Cos(start+sweep), y+r*math.Sin(start+sweep)
	large := 0
	if sweep > math.Pi {
		large = 1
	}
	fmt.Fprintf(&s.path, "A%s %s 0 %d 1 %s %s", num(r), num(r), large, num(ex), num(ey))
	s.cx, s.cy = ex, ey
}

func (s *Surface) SetStrokeColor(c color.Color) { s.stroke = c }
func (s *Surface) SetFillColor(c color.Color)   { s.fill = c }

func (s *Surface) Stroke() {
	if s.path.Len() == 0 {
		return
	}
	s.elements = append(s.elements, fmt.Sprintf(
		`  <path d="%s" fill="none" stroke="%s" stroke-width="%s"/>`,
		s.path.String(), render.Hex(s.stroke), num(s.lineWidth)))
}

func (s *Surface) Fill() {
	if s.path.Len() == 0 {
		return
	}
	s.elements = append(s.elements, fmt.Sprintf(
		`  <path d="%s" fill="%s" stroke="none"/>`,
		s.path.String(), render.Hex(s.fill)))
}

// Bytes returns the current frame as a standalone SVG document.
func (s *Surface) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.width, s.height, s.width, s.height)
	if s.background != nil {
		fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			s.width, s.height, render.Hex(s.background))
	}
	for _, el := range s.elements {
		buf.WriteString(el)
		buf.WriteByte('\n')
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

var _ render.Surface = (*Surface)(nil)
