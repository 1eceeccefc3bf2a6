package geom

import (
	"errors"
	"math"
)

// ErrDegenerateChord is returned by [MapChord] when the source chord has zero
// length, which leaves the mapping underdetermined.
var ErrDegenerateChord = errors.New("cannot map a zero-length chord")

// Affine is a 2D affine transform with coefficients (a, b, c, d, e, f)
// representing the augmented matrix
//
//	| a c e |
//	| b d f |
//	| 0 0 1 |
//
// Composition follows the usual convention: (A.Mul(B)).Apply(p) equals
// A.Apply(B.Apply(p)).
type Affine struct {
	A, B, C, D, E, F float64
}

// Identity is the identity transform.
var Identity = Affine{1, 0, 0, 1, 0, 0}

// Translate returns the transform that translates by v.
func Translate(v Vec2) Affine {
	return Affine{1, 0, 0, 1, v.X, v.Y}
}

// Scale returns the transform that scales by sx and sy about the origin.
func Scale(sx, sy float64) Affine {
	return Affine{sx, 0, 0, sy, 0, 0}
}

// Rotate returns the transform that rotates by th radians about the origin.
// A positive angle rotates the positive x axis towards positive y, which is
// clockwise on screen in a y-down frame.
func Rotate(th float64) Affine {
	sin, cos := math.Sincos(th)
	return Affine{cos, sin, -sin, cos, 0, 0}
}

// RotateAbout returns the transform that rotates by th radians about center.
func RotateAbout(th float64, center Point) Affine {
	c := Vec2(center)
	return Translate(c).Mul(Rotate(th)).Mul(Translate(c.Negate()))
}

// Mul returns the composition a∘o: the transform that applies o first,
// then a.
func (a Affine) Mul(o Affine) Affine {
	return Affine{
		A: a.A*o.A + a.C*o.B,
		B: a.B*o.A + a.D*o.B,
		C: a.A*o.C + a.C*o.D,
		D: a.B*o.C + a.D*o.D,
		E: a.A*o.E + a.C*o.F + a.E,
		F: a.B*o.E + a.D*o.F + a.F,
	}
}

// Apply transforms the point p.
func (a Affine) Apply(p Point) Point {
	return Point{
		X: a.A*p.X + a.C*p.Y + a.E,
		Y: a.B*p.X + a.D*p.Y + a.F,
	}
}

// ApplyVec transforms the vector v, ignoring translation.
func (a Affine) ApplyVec(v Vec2) Vec2 {
	return Vec2{
		X: a.A*v.X + a.C*v.Y,
		Y: a.B*v.X + a.D*v.Y,
	}
}

// IsFinite reports whether all six coefficients are finite.
func (a Affine) IsFinite() bool {
	return Pt(a.A, a.B).IsFinite() && Pt(a.C, a.D).IsFinite() && Pt(a.E, a.F).IsFinite()
}

// MapChord returns the similarity transform (rotation, uniform scale, and
// translation) that maps the segment srcStart→srcEnd exactly onto
// dstStart→dstEnd. Link rendering uses it to place a template curve between
// two resolved anchor points.
func MapChord(srcStart, srcEnd, dstStart, dstEnd Point) (Affine, error) {
	src := srcEnd.Sub(srcStart)
	dst := dstEnd.Sub(dstStart)
	srcLen := src.Length()
	if srcLen == 0 {
		return Identity, ErrDegenerateChord
	}

	scale := dst.Length() / srcLen
	rot := dst.Angle() - src.Angle()

	m := Translate(Vec2(dstStart)).
		Mul(Rotate(rot)).
		Mul(Scale(scale, scale)).
		Mul(Translate(Vec2(srcStart).Negate()))

	// Pin the start point so accumulated rounding cannot move it.
	m.E += dstStart.X - m.Apply(srcStart).X
	m.F += dstStart.Y - m.Apply(srcStart).Y
	return m, nil
}
