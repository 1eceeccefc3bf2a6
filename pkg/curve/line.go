package curve

import (
	"fmt"

	"github.com/inkscene/inkscene/pkg/geom"
)

// Line is the straight segment from Start to End.
type Line struct {
	Start, End geom.Point
}

// NewLine returns the line segment from start to end.
func NewLine(start, end geom.Point) Line {
	return Line{Start: start, End: end}
}

// PointAt returns Start + (End-Start)*t. PointAt(0) is exactly Start and
// PointAt(1) exactly End.
func (l Line) PointAt(t float64) geom.Point {
	if t == 0 {
		return l.Start
	}
	if t == 1 {
		return l.End
	}
	return l.Start.Lerp(l.End, t)
}

// TangentAt returns the angle of the segment; it is constant in t.
func (l Line) TangentAt(float64) float64 {
	return angleOf(l.End.Sub(l.Start))
}

// Length returns the segment length.
func (l Line) Length() float64 {
	return l.Start.Distance(l.End)
}

// PathData returns the segment as SVG path data.
func (l Line) PathData() string {
	return fmt.Sprintf("M %s %s L %s %s",
		fmtCoord(l.Start.X), fmtCoord(l.Start.Y),
		fmtCoord(l.End.X), fmtCoord(l.End.Y))
}

var (
	_ Pather     = Line{}
	_ Tangenter  = Line{}
	_ Lengther   = Line{}
	_ PathDataer = Line{}
)
