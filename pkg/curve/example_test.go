package curve_test

import (
	"fmt"

	"github.com/inkscene/inkscene/pkg/curve"
	"github.com/inkscene/inkscene/pkg/geom"
)

func ExampleLine() {
	l := curve.NewLine(geom.Pt(0, 0), geom.Pt(100, 0))
	fmt.Println(l.PointAt(0))
	fmt.Println(l.PointAt(0.5))
	fmt.Println(l.PointAt(1))
	// Output:
	// (0, 0)
	// (50, 0)
	// (100, 0)
}

func ExampleEllipse() {
	// An unrotated ellipse starts at its rightmost point and proceeds
	// counterclockwise: t=0.25 is the top (y-down frame).
	e := curve.NewEllipse(geom.Pt(100, 100), 10, 5, 0)
	fmt.Println(e.PointAt(0))
	fmt.Println(e.PointAt(0.25))
	// Output:
	// (110, 100)
	// (100, 95)
}

func ExampleFitCubics() {
	segs, err := curve.FitCubics(curve.NewCircle(geom.Pt(0, 0), 10), 4, true)
	if err != nil {
		fmt.Println("fit:", err)
		return
	}
	fmt.Println("segments:", len(segs))
	fmt.Println("start:", segs[0].P0)
	fmt.Println("closes:", segs[3].P3 == segs[0].P0)
	// Output:
	// segments: 4
	// start: (10, 0)
	// closes: true
}
