package curve

import (
	"math"

	"github.com/inkscene/inkscene/pkg/errors"
	"github.com/inkscene/inkscene/pkg/geom"
)

// maxHandleRatio caps each control handle at this fraction of the chord
// between its segment's endpoints, preventing control-point blowup on sharp
// turns where the tangent estimate overshoots.
const maxHandleRatio = 0.75

// FitCubics samples c at n evenly spaced parameters over [0,1] and converts
// the samples into connected cubic Bezier segments. For closed curves the
// final segment wraps from the last sample back to the first, with the seam
// tangent computed by the same modular arithmetic as every other joint.
//
// Open curves produce n-1 segments from n samples; closed curves produce n
// segments. n must be at least 2 (open) or 3 (closed).
//
// Tangents come from the curve's own [Tangenter] capability when present,
// otherwise from central finite differences on neighboring samples. Any
// sample evaluating to a non-finite point fails with NON_FINITE_GEOMETRY.
func FitCubics(c Pather, n int, closed bool) ([]CubicSegment, error) {
	return fit(c, n, 0, 1, closed)
}

// FitCubicsRange fits only the slice of c between parameters t0 and t1.
// Sub-ranges are never auto-closed, even when the underlying curve is.
func FitCubicsRange(c Pather, n int, t0, t1 float64) ([]CubicSegment, error) {
	return fit(c, n, t0, t1, false)
}

func fit(c Pather, n int, t0, t1 float64, closed bool) ([]CubicSegment, error) {
	minSamples := 2
	if closed {
		minSamples = 3
	}
	if n < minSamples {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"need at least %d samples, got %d", minSamples, n)
	}
	if t1 <= t0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"invalid parameter range [%g, %g]", t0, t1)
	}

	// Sample parameters. Closed curves omit the duplicate endpoint sample;
	// index arithmetic wraps instead.
	var ts []float64
	if closed {
		ts = make([]float64, n)
		span := t1 - t0
		for i := range ts {
			ts[i] = t0 + span*float64(i)/float64(n)
		}
	} else {
		ts = make([]float64, n)
		span := t1 - t0
		for i := range ts {
			ts[i] = t0 + span*float64(i)/float64(n-1)
		}
	}

	pts := make([]geom.Point, len(ts))
	for i, t := range ts {
		p := c.PointAt(t)
		if !p.IsFinite() {
			return nil, errors.New(errors.ErrCodeNonFiniteGeometry,
				"curve evaluates to non-finite point at t=%g", t)
		}
		pts[i] = p
	}

	derivs, err := estimateDerivatives(c, ts, pts, closed)
	if err != nil {
		return nil, err
	}

	segCount := n - 1
	if closed {
		segCount = n
	}
	segs := make([]CubicSegment, segCount)
	for i := 0; i < segCount; i++ {
		j := i + 1
		tj := 0.0
		if j < len(ts) {
			tj = ts[j]
		} else {
			// Seam of a closed curve: wrap to the first sample one period on.
			j = 0
			tj = ts[0] + (t1 - t0)
		}
		segs[i] = hermiteToBezier(pts[i], derivs[i], pts[j], derivs[j], tj-ts[i])
	}
	return segs, nil
}

// estimateDerivatives returns dP/dt at every sample. With a Tangenter the
// direction is exact and only the speed is estimated from neighboring
// samples; otherwise both come from finite differences.
func estimateDerivatives(c Pather, ts []float64, pts []geom.Point, closed bool) ([]geom.Vec2, error) {
	tan, hasTangent := c.(Tangenter)
	period := 0.0
	if closed {
		period = (ts[1] - ts[0]) * float64(len(ts))
	}

	derivs := make([]geom.Vec2, len(ts))
	for i := range ts {
		d := centralDifference(i, ts, pts, closed, period)
		if hasTangent {
			th := tan.TangentAt(ts[i])
			if math.IsNaN(th) || math.IsInf(th, 0) {
				return nil, errors.New(errors.ErrCodeNonFiniteGeometry,
					"curve tangent is non-finite at t=%g", ts[i])
			}
			sin, cos := math.Sincos(th)
			d = geom.Vec(cos, sin).Scale(d.Length())
		}
		if !d.IsFinite() {
			return nil, errors.New(errors.ErrCodeNonFiniteGeometry,
				"derivative estimate is non-finite at t=%g", ts[i])
		}
		derivs[i] = d
	}
	return derivs, nil
}

// centralDifference estimates dP/dt at sample i. Interior samples use the
// symmetric difference of their neighbors; open endpoints fall back to the
// one-sided difference. Closed curves wrap indices with the parameter shifted
// by one period so the seam is treated like any other joint.
func centralDifference(i int, ts []float64, pts []geom.Point, closed bool, period float64) geom.Vec2 {
	n := len(ts)
	prev, next := i-1, i+1

	var pPrev, pNext geom.Point
	var tPrev, tNext float64
	switch {
	case closed:
		pi, ni := ((prev%n)+n)%n, next%n
		pPrev, pNext = pts[pi], pts[ni]
		tPrev, tNext = ts[pi], ts[ni]
		if prev < 0 {
			tPrev -= period
		}
		if next >= n {
			tNext += period
		}
	case prev < 0:
		pPrev, tPrev = pts[0], ts[0]
		pNext, tNext = pts[1], ts[1]
	case next >= n:
		pPrev, tPrev = pts[n-2], ts[n-2]
		pNext, tNext = pts[n-1], ts[n-1]
	default:
		pPrev, tPrev = pts[prev], ts[prev]
		pNext, tNext = pts[next], ts[next]
	}

	dt := tNext - tPrev
	if dt == 0 {
		return geom.Vec2{}
	}
	return pNext.Sub(pPrev).Scale(1 / dt)
}

// hermiteToBezier converts a Hermite span (endpoints plus derivatives over a
// parameter step dt) to a cubic Bezier, clamping each handle to
// maxHandleRatio of the chord.
func hermiteToBezier(p0 geom.Point, d0 geom.Vec2, p3 geom.Point, d3 geom.Vec2, dt float64) CubicSegment {
	chord := p0.Distance(p3)
	h0 := clampHandle(d0.Scale(dt/3), chord)
	h3 := clampHandle(d3.Scale(dt/3), chord)
	return CubicSegment{
		P0: p0,
		C1: p0.Add(h0),
		C2: p3.Add(h3.Negate()),
		P3: p3,
	}
}

// clampHandle shortens h so its length never exceeds maxHandleRatio of the
// chord. Direction is preserved.
func clampHandle(h geom.Vec2, chord float64) geom.Vec2 {
	limit := chord * maxHandleRatio
	l := h.Length()
	if l <= limit || l == 0 {
		return h
	}
	return h.Scale(limit / l)
}
