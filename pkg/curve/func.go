package curve

import "github.com/inkscene/inkscene/pkg/geom"

// Func adapts an arbitrary parametric function to the [Pather] capability.
// Fitting estimates tangents by central finite differences, so any function
// that is reasonably smooth over [0,1] produces C1-continuous segments.
//
//	spiral := curve.Func(func(t float64) geom.Point {
//		r := 5 + 40*t
//		return geom.Pt(200+r*math.Cos(6*math.Pi*t), 200+r*math.Sin(6*math.Pi*t))
//	})
type Func func(t float64) geom.Point

// PointAt evaluates the function.
func (f Func) PointAt(t float64) geom.Point { return f(t) }

// ClosedFunc is a parametric function whose endpoints coincide by
// construction (f(0) == f(1)). It fits with a wrapped seam segment and is
// rejected as a link template.
type ClosedFunc func(t float64) geom.Point

// PointAt evaluates the function.
func (f ClosedFunc) PointAt(t float64) geom.Point { return f(t) }

// Closed reports true.
func (f ClosedFunc) Closed() bool { return true }

var (
	_ Pather = Func(nil)
	_ Pather = ClosedFunc(nil)
	_ Closed = ClosedFunc(nil)
)
