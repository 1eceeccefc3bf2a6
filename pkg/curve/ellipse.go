package curve

import (
	"math"

	"github.com/inkscene/inkscene/pkg/geom"
)

// Ellipse is a full ellipse with center, radii, and a rotation angle.
//
// Parameterization in the y-down pixel frame: t=0 is the rightmost point,
// t=0.25 the top (center + (0, -ry)), proceeding counterclockwise on screen.
type Ellipse struct {
	Center   geom.Point
	Rx, Ry   float64
	Rotation float64 // radians, applied about the center
}

// NewEllipse returns the ellipse with the given center, radii, and rotation.
func NewEllipse(center geom.Point, rx, ry, rotation float64) Ellipse {
	return Ellipse{Center: center, Rx: math.Abs(rx), Ry: math.Abs(ry), Rotation: rotation}
}

// NewCircle returns the circle of radius r centered on center.
func NewCircle(center geom.Point, r float64) Ellipse {
	return NewEllipse(center, r, r, 0)
}

// PointAt evaluates the ellipse. The unrotated point is
// (rx·cos(2πt), -ry·sin(2πt)); it is then rotated by Rotation and translated
// to the center.
func (e Ellipse) PointAt(t float64) geom.Point {
	sin, cos := math.Sincos(2 * math.Pi * t)
	p := geom.Vec(e.Rx*cos, -e.Ry*sin)
	if e.Rotation != 0 {
		p = geom.Rotate(e.Rotation).ApplyVec(p)
	}
	return e.Center.Add(p)
}

// TangentAt returns the tangent angle, following the counterclockwise
// parameter direction.
func (e Ellipse) TangentAt(t float64) float64 {
	sin, cos := math.Sincos(2 * math.Pi * t)
	d := geom.Vec(-e.Rx*sin, -e.Ry*cos)
	if e.Rotation != 0 {
		d = geom.Rotate(e.Rotation).ApplyVec(d)
	}
	return angleOf(d)
}

// Length returns the perimeter using Ramanujan's second approximation,
// accurate to well below a pixel for drawing-scale radii.
func (e Ellipse) Length() float64 {
	a, b := e.Rx, e.Ry
	if a == 0 && b == 0 {
		return 0
	}
	h := (a - b) * (a - b) / ((a + b) * (a + b))
	return math.Pi * (a + b) * (1 + 3*h/(10+math.Sqrt(4-3*h)))
}

// Closed reports true: an ellipse has no open chord.
func (e Ellipse) Closed() bool { return true }

var (
	_ Pather    = Ellipse{}
	_ Tangenter = Ellipse{}
	_ Lengther  = Ellipse{}
	_ Closed    = Ellipse{}
)
