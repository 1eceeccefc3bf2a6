package curve

import (
	"fmt"

	"github.com/inkscene/inkscene/pkg/geom"
)

// QuadCurve is a quadratic Bezier between Start and End whose control point
// is derived from a scalar curvature: the control point sits on the
// perpendicular of the chord at its midpoint, offset by k·|chord|/2.
// Positive curvature bulges towards the left-hand side of the chord
// direction (upwards for a left-to-right chord in the y-down frame).
type QuadCurve struct {
	Start, End geom.Point
	Curvature  float64
}

// NewQuadCurve returns the quadratic curve from start to end with the given
// scalar curvature.
func NewQuadCurve(start, end geom.Point, curvature float64) QuadCurve {
	return QuadCurve{Start: start, End: end, Curvature: curvature}
}

// Control returns the derived quadratic control point.
func (q QuadCurve) Control() geom.Point {
	chord := q.End.Sub(q.Start)
	mid := q.Start.Midpoint(q.End)
	offset := chord.Perp().Normalize().Scale(q.Curvature * chord.Length() * 0.5)
	return mid.Add(offset)
}

// PointAt evaluates the quadratic Bezier:
// (1-t)²·start + 2(1-t)t·control + t²·end.
func (q QuadCurve) PointAt(t float64) geom.Point {
	if t == 0 {
		return q.Start
	}
	if t == 1 {
		return q.End
	}
	c := q.Control()
	mt := 1 - t
	a := mt * mt
	b := 2 * mt * t
	d := t * t
	return geom.Point{
		X: a*q.Start.X + b*c.X + d*q.End.X,
		Y: a*q.Start.Y + b*c.Y + d*q.End.Y,
	}
}

// TangentAt returns the angle of the derivative
// 2(1-t)(control-start) + 2t(end-control).
func (q QuadCurve) TangentAt(t float64) float64 {
	c := q.Control()
	d0 := c.Sub(q.Start).Scale(2 * (1 - t))
	d1 := q.End.Sub(c).Scale(2 * t)
	return angleOf(d0.Add(d1))
}

// Length approximates the arc length by chord summation.
func (q QuadCurve) Length() float64 {
	// Lengther would recurse through ApproxLength; sample directly.
	const n = 64
	var sum float64
	prev := q.PointAt(0)
	for i := 1; i <= n; i++ {
		p := q.PointAt(float64(i) / n)
		sum += prev.Distance(p)
		prev = p
	}
	return sum
}

// PathData returns the curve as a single SVG quadratic segment.
func (q QuadCurve) PathData() string {
	c := q.Control()
	return fmt.Sprintf("M %s %s Q %s %s %s %s",
		fmtCoord(q.Start.X), fmtCoord(q.Start.Y),
		fmtCoord(c.X), fmtCoord(c.Y),
		fmtCoord(q.End.X), fmtCoord(q.End.Y))
}

var (
	_ Pather     = QuadCurve{}
	_ Tangenter  = QuadCurve{}
	_ Lengther   = QuadCurve{}
	_ PathDataer = QuadCurve{}
)
