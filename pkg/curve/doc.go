// Package curve implements the parametric-curve engine: primitive curves
// (line, quadratic curve, ellipse), arbitrary user-supplied parametric
// functions, and a generalized fitting algorithm that converts any of them
// into smooth connected cubic Bezier segments.
//
// # Capability Set
//
// A curve is anything implementing [Pather]: a point-at-parameter function
// over [0,1]. The optional capabilities are checked structurally, so any
// conforming type participates without inheritance:
//
//   - [Tangenter]: exact tangent angle at a parameter. When absent, fitting
//     falls back to central finite differences on neighboring samples.
//   - [Lengther]: arc length. When absent, callers can use [ApproxLength].
//   - [PathDataer]: native SVG path data. When absent, renderers fit the
//     curve with [FitCubics] and emit the segments with [PathData].
//   - [Closed]: marks curves without a well-defined open chord (ellipses).
//     Closed curves cannot be used as link templates.
//
// # Fitting
//
// [FitCubics] samples a curve at evenly spaced parameters, estimates a
// tangent at each sample, and converts each consecutive (point, tangent)
// pair into a cubic segment via Hermite-to-Bezier conversion. Adjacent
// segments share an endpoint and tangent direction (C1 continuity).
// [FitCubicsRange] fits a sub-range slice and never auto-closes it.
//
// # Coordinate Frame
//
// All math is in a y-down pixel frame: for an unrotated ellipse, t=0 is the
// rightmost point and t=0.25 the top (center + (0, -ry)), proceeding
// counterclockwise on screen.
package curve
