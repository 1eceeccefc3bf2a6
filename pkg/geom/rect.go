package geom

import "fmt"

// Rect is an axis-aligned rectangle given by its top-left corner and size.
// It serves as the reference frame for relative coordinate bindings and as
// the bounding box of shapes.
type Rect struct {
	X, Y, W, H float64
}

// NewRect returns the rectangle with top-left corner (x, y) and size (w, h).
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%g %g %g %g]", r.X, r.Y, r.W, r.H)
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// At maps a fraction pair (fx, fy) in [0,1]² to the corresponding point
// inside the rectangle. (0,0) is the top-left corner, (1,1) the bottom-right.
func (r Rect) At(fx, fy float64) Point {
	return Point{X: r.X + fx*r.W, Y: r.Y + fy*r.H}
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	x0 := min(r.X, o.X)
	y0 := min(r.Y, o.Y)
	x1 := max(r.X+r.W, o.X+o.W)
	y1 := max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// IsFinite reports whether all four components are finite.
func (r Rect) IsFinite() bool {
	return Pt(r.X, r.Y).IsFinite() && Pt(r.W, r.H).IsFinite()
}
