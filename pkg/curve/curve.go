package curve

import (
	"math"

	"github.com/inkscene/inkscene/pkg/geom"
)

// Pather is the minimal curve capability: a point-at-parameter function.
// Parameters outside [0,1] are not an error; curves extrapolate or wrap
// according to their own definition.
type Pather interface {
	// PointAt evaluates the curve at parameter t in [0,1].
	PointAt(t float64) geom.Point
}

// Tangenter is the optional exact-tangent capability.
type Tangenter interface {
	// TangentAt returns the tangent angle in radians at parameter t,
	// measured from the positive x axis in the y-down frame.
	TangentAt(t float64) float64
}

// Lengther is the optional arc-length capability.
type Lengther interface {
	// Length returns the arc length of the curve over [0,1].
	Length() float64
}

// PathDataer is the optional native-path capability. Curves that can express
// themselves exactly as SVG path data implement it; all others are fitted
// with cubic segments first.
type PathDataer interface {
	// PathData returns the curve as SVG path data ("M ... L/Q/C/A ...").
	PathData() string
}

// Closed marks curves whose endpoints coincide by construction. A closed
// curve has no well-defined open chord and is rejected as a link template.
type Closed interface {
	Closed() bool
}

// IsClosed reports whether c declares itself closed.
func IsClosed(c Pather) bool {
	cc, ok := c.(Closed)
	return ok && cc.Closed()
}

// ApproxLength approximates the arc length of any Pather by summing n chord
// lengths at evenly spaced parameters. Curves implementing [Lengther] are
// queried directly instead.
func ApproxLength(c Pather, n int) float64 {
	if l, ok := c.(Lengther); ok {
		return l.Length()
	}
	if n < 1 {
		n = 1
	}
	var sum float64
	prev := c.PointAt(0)
	for i := 1; i <= n; i++ {
		p := c.PointAt(float64(i) / float64(n))
		sum += prev.Distance(p)
		prev = p
	}
	return sum
}

// angleOf returns the angle of v, or 0 for the zero vector.
func angleOf(v geom.Vec2) float64 {
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	return math.Atan2(v.Y, v.X)
}
