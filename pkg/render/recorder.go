package render

import (
	"fmt"
	"image/color"
)

// Call is one recorded Surface method invocation.
type Call struct {
	Op    string
	Args  []float64
	Color string
}

func (c Call) String() string {
	if c.Color != "" {
		return fmt.Sprintf("%s(%s)", c.Op, c.Color)
	}
	return fmt.Sprintf("%s%v", c.Op, c.Args)
}

// Recorder is a Surface that records every call instead of drawing.
type Recorder struct {
	Width, Height float64
	Calls         []Call
}

// NewRecorder returns an empty recorder of the given size.
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{Width: width, Height: height}
}

func (r *Recorder) add(op string, args ...float64) {
	r.Calls = append(r.Calls, Call{Op: op, Args: args})
}

// Ops returns the recorded operation names in order.
func (r *Recorder) Ops() []string {
	ops := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Filter returns the calls with the given operation name.
func (r *Recorder) Filter(op string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (r *Recorder) Size() (float64, float64) { return r.Width, r.Height }

// Clear drops every recorded call before recording the clear itself.
func (r *Recorder) Clear() {
	r.Calls = r.Calls[:0]
	r.add("Clear")
}

func (r *Recorder) Save()                             { r.add("Save") }
func (r *Recorder) Restore()                          { r.add("Restore") }
func (r *Recorder) BeginPath()                        { r.add("BeginPath") }
func (r *Recorder) MoveTo(x, y float64)               { r.add("MoveTo", x, y) }
func (r *Recorder) LineTo(x, y float64)               { r.add("LineTo", x, y) }
func (r *Recorder) Arc(x, y, rad, start, end float64) { r.add("Arc", x, y, rad, start, end) }
func (r *Recorder) Stroke()                           { r.add("Stroke") }
func (r *Recorder) Fill()                             { r.add("Fill") }

func (r *Recorder) SetStrokeColor(c color.Color) {
	r.Calls = append(r.Calls, Call{Op: "SetStrokeColor", Color: Hex(c)})
}

func (r *Recorder) SetFillColor(c color.Color) {
	r.Calls = append(r.Calls, Call{Op: "SetFillColor", Color: Hex(c)})
}

var _ Surface = (*Recorder)(nil)
