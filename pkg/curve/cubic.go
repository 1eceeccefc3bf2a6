package curve

import (
	"math"
	"strconv"
	"strings"

	"github.com/inkscene/inkscene/pkg/geom"
)

// CubicSegment is one cubic Bezier: two endpoints and two control handles.
// Sequences produced by [FitCubics] share endpoints between neighbors and
// have matching tangent directions at the shared point.
type CubicSegment struct {
	P0, C1, C2, P3 geom.Point
}

// PointAt evaluates the segment at t in [0,1].
func (s CubicSegment) PointAt(t float64) geom.Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return geom.Point{
		X: a*s.P0.X + b*s.C1.X + c*s.C2.X + d*s.P3.X,
		Y: a*s.P0.Y + b*s.C1.Y + c*s.C2.Y + d*s.P3.Y,
	}
}

// Transform returns the segment with m applied to all four control points.
// Affine maps preserve the Bezier property, so the transformed segment is
// the exact image of the original curve.
func (s CubicSegment) Transform(m geom.Affine) CubicSegment {
	return CubicSegment{
		P0: m.Apply(s.P0),
		C1: m.Apply(s.C1),
		C2: m.Apply(s.C2),
		P3: m.Apply(s.P3),
	}
}

// IsFinite reports whether all four control points are finite.
func (s CubicSegment) IsFinite() bool {
	return s.P0.IsFinite() && s.C1.IsFinite() && s.C2.IsFinite() && s.P3.IsFinite()
}

// TransformSegments applies m to every segment.
func TransformSegments(segs []CubicSegment, m geom.Affine) []CubicSegment {
	out := make([]CubicSegment, len(segs))
	for i, s := range segs {
		out[i] = s.Transform(m)
	}
	return out
}

// PathData renders a segment sequence as SVG path data. Consecutive segments
// are assumed to be connected (as produced by [FitCubics]); each one emits a
// single C command after the initial M.
func PathData(segs []CubicSegment) string {
	if len(segs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("M ")
	writeCoord(&b, segs[0].P0)
	for _, s := range segs {
		b.WriteString(" C ")
		writeCoord(&b, s.C1)
		b.WriteByte(' ')
		writeCoord(&b, s.C2)
		b.WriteByte(' ')
		writeCoord(&b, s.P3)
	}
	return b.String()
}

func writeCoord(b *strings.Builder, p geom.Point) {
	b.WriteString(fmtCoord(p.X))
	b.WriteByte(' ')
	b.WriteString(fmtCoord(p.Y))
}

// fmtCoord formats a coordinate deterministically: shortest round-trip
// representation, rounded to 4 decimal places to keep documents stable and
// compact. Identical inputs always produce identical text.
func fmtCoord(v float64) string {
	r := roundTo(v, 4)
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func roundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
