// Package raster implements a render.Surface on an anti-aliased RGBA image
// using fogleman/gg.
package raster

import (
	"bytes"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/gincla/nightsky/pkg/render"
)

// Option configures a Surface.
type Option func(*Surface)

// WithBackground paints c on every Clear instead of leaving the surface
// transparent.
func WithBackground(c color.Color) Option { return func(s *Surface) { s.background = c } }

// WithLineWidth sets the stroke width in pixels.
func WithLineWidth(w float64) Option { return func(s *Surface) { s.lineWidth = w } }

// Surface draws into an in-memory image.
type Surface struct {
	dc         *gg.Context
	width      int
	height     int
	background color.Color
	lineWidth  float64
	stroke     color.Color
	fill       color.Color
	saved      [][2]color.Color
}

// New returns a transparent surface of width × height pixels.
func New(width, height int, opts ...Option) *Surface {
	s := &Surface{
		dc:         gg.NewContext(width, height),
		width:      width,
		height:     height,
		background: color.Transparent,
		lineWidth:  render.DefaultStrokeWidth,
		stroke:     color.Black,
		fill:       color.Black,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.dc.SetLineWidth(s.lineWidth)
	return s
}

func (s *Surface) Size() (float64, float64) { return float64(s.width), float64(s.height) }

func (s *Surface) Clear() {
	s.dc.ClearPath()
	s.dc.SetColor(s.background)
	s.dc.Clear()
}

func (s *Surface) Save() {
	s.dc.Push()
	s.saved = append(s.saved, [2]color.Color{s.stroke, s.fill})
}

func (s *Surface) Restore() {
	s.dc.Pop()
	if n := len(s.saved); n > 0 {
		s.stroke, s.fill = s.saved[n-1][0], s.saved[n-1][1]
		s.saved = s.saved[:n-1]
	}
}

func (s *Surface) BeginPath()          { s.dc.ClearPath() }
func (s *Surface) MoveTo(x, y float64) { s.dc.MoveTo(x, y) }
func (s *Surface) LineTo(x, y float64) { s.dc.LineTo(x, y) }

func (s *Surface) Arc(x, y, r, start, end float64) { s.dc.DrawArc(x, y, r, start, end) }

func (s *Surface) SetStrokeColor(c color.Color) { s.stroke = c }
func (s *Surface) SetFillColor(c color.Color)   { s.fill = c }

// Stroke and Fill keep the path so it can be painted twice, as on a canvas.
func (s *Surface) Stroke() {
	s.dc.SetColor(s.stroke)
	s.dc.StrokePreserve()
}

func (s *Surface) Fill() {
	s.dc.SetColor(s.fill)
	s.dc.FillPreserve()
}

// Image returns the current frame.
func (s *Surface) Image() image.Image { return s.dc.Image() }

// EncodePNG writes the current frame as PNG.
func (s *Surface) EncodePNG(w io.Writer) error { return s.dc.EncodePNG(w) }

// PNG returns the current frame as PNG bytes.
func (s *Surface) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var _ render.Surface = (*Surface)(nil)
