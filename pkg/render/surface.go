package render

import "image/color"

// Surface is a fixed-size 2D drawing target with canvas path semantics.
//
// A path is built with MoveTo, LineTo and Arc after BeginPath. Fill and
// Stroke paint the current path and keep it, so a path may be filled and then
// stroked. Arc starts with a straight line from the current point to the
// arc's start point when a current point exists.
type Surface interface {
	// Size returns the surface dimensions; they never change.
	Size() (width, height float64)

	// Clear erases the entire surface to transparent.
	Clear()

	Save()
	Restore()

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	// Arc traces a clockwise arc (in screen coordinates) centered on (x, y)
	// from angle start to angle end, in radians.
	Arc(x, y, r, start, end float64)

	SetStrokeColor(c color.Color)
	SetFillColor(c color.Color)
	Stroke()
	Fill()
}
