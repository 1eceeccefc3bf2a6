package scenefile

import (
	"math"

	"github.com/inkscene/inkscene/pkg/curve"
	"github.com/inkscene/inkscene/pkg/errors"
	"github.com/inkscene/inkscene/pkg/geom"
)

// buildCurve converts a curve declaration into a parametric curve. Path
// shapes use local coordinates around their resolved position; link templates
// are mapped onto the endpoint chord, so their absolute size is irrelevant.
func buildCurve(cs CurveSpec) (curve.Pather, error) {
	switch cs.Type {
	case "line":
		from, to, err := chordPoints(cs)
		if err != nil {
			return nil, err
		}
		return curve.Line{Start: from, End: to}, nil
	case "quad":
		from, to := geom.Pt(0, 0), geom.Pt(1, 0)
		if cs.From != nil || cs.To != nil {
			var err error
			from, to, err = chordPoints(cs)
			if err != nil {
				return nil, err
			}
		}
		return curve.NewQuadCurve(from, to, cs.Curvature), nil
	case "circle":
		if cs.R <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidScene, "circle curve needs a positive r")
		}
		return curve.NewCircle(geom.Pt(0, 0), cs.R), nil
	case "ellipse":
		if cs.Rx <= 0 || cs.Ry <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidScene, "ellipse curve needs positive rx and ry")
		}
		return curve.NewEllipse(geom.Pt(0, 0), cs.Rx, cs.Ry, cs.Degrees*math.Pi/180), nil
	case "wave":
		return waveCurve(cs), nil
	case "":
		return nil, errors.New(errors.ErrCodeInvalidScene, "curve table needs a type")
	default:
		return nil, errors.New(errors.ErrCodeInvalidScene, "unknown curve type %q", cs.Type)
	}
}

func chordPoints(cs CurveSpec) (from, to geom.Point, err error) {
	if len(cs.From) != 2 || len(cs.To) != 2 {
		return geom.Point{}, geom.Point{}, errors.New(errors.ErrCodeInvalidScene,
			"%s curve needs from and to as [x, y] pairs", cs.Type)
	}
	return geom.Pt(cs.From[0], cs.From[1]), geom.Pt(cs.To[0], cs.To[1]), nil
}

// waveCurve is a sine wave over the unit chord (0,0)..(1,0). Amplitude
// defaults to 0.2 chord lengths and cycles to 1.
func waveCurve(cs CurveSpec) curve.Pather {
	amp := cs.Amplitude
	if amp == 0 {
		amp = 0.2
	}
	cycles := cs.Cycles
	if cycles == 0 {
		cycles = 1
	}
	return curve.Func(func(t float64) geom.Point {
		return geom.Pt(t, -amp*math.Sin(2*math.Pi*cycles*t))
	})
}
