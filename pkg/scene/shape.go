package scene

import (
	"github.com/inkscene/inkscene/pkg/curve"
	"github.com/inkscene/inkscene/pkg/geom"
)

// Kind identifies a shape's geometry family.
type Kind string

const (
	KindRect    Kind = "rect"
	KindCircle  Kind = "circle"
	KindEllipse Kind = "ellipse"
	KindPolygon Kind = "polygon"
	KindPath    Kind = "path"
)

// Anchor names. Which names a shape supports depends on its kind; see
// [AnchorsFor]. Requesting an unsupported name is an error, never a silent
// fallback.
const (
	AnchorCenter      = "center"
	AnchorTopLeft     = "top-left"
	AnchorTop         = "top"
	AnchorTopRight    = "top-right"
	AnchorLeft        = "left"
	AnchorRight       = "right"
	AnchorBottomLeft  = "bottom-left"
	AnchorBottom      = "bottom"
	AnchorBottomRight = "bottom-right"
	AnchorStart       = "start" // path shapes only
	AnchorEnd         = "end"   // path shapes only
)

// boxAnchors maps the nine box anchor names to fraction pairs over a
// bounding box.
var boxAnchors = map[string][2]float64{
	AnchorTopLeft:     {0, 0},
	AnchorTop:         {0.5, 0},
	AnchorTopRight:    {1, 0},
	AnchorLeft:        {0, 0.5},
	AnchorCenter:      {0.5, 0.5},
	AnchorRight:       {1, 0.5},
	AnchorBottomLeft:  {0, 1},
	AnchorBottom:      {0.5, 1},
	AnchorBottomRight: {1, 1},
}

// AnchorsFor returns the anchor names a kind supports, in a fixed order.
// Rectangles and polygons expose the nine box anchors; circles and ellipses
// only their center (an ellipse's corners rotate with it and would not be
// stable anchor points); paths expose center plus their endpoints.
func AnchorsFor(k Kind) []string {
	switch k {
	case KindRect, KindPolygon:
		return []string{
			AnchorTopLeft, AnchorTop, AnchorTopRight,
			AnchorLeft, AnchorCenter, AnchorRight,
			AnchorBottomLeft, AnchorBottom, AnchorBottomRight,
		}
	case KindPath:
		return []string{AnchorCenter, AnchorStart, AnchorEnd}
	default:
		return []string{AnchorCenter}
	}
}

// Shape is a drawable unit. Its position is determined by the binding, its
// extent by kind-specific geometry, and its appearance by the style.
// Rotation and scale accumulate and are applied non-destructively at render
// time; they are never baked into the stored geometry.
type Shape struct {
	ID   string
	Kind Kind

	// Kind-specific extent. W/H for rect and ellipse, R for circle,
	// Vertices (offsets from the resolved position) for polygon, Curve
	// (local coordinates, offset by the resolved position) for path.
	W, H     float64
	R        float64
	Vertices []geom.Point
	Curve    curve.Pather

	// Path rendering controls (KindPath only). Samples is the fit sample
	// count (0 uses a default), StartT/EndT select a sub-range when EndT > 0.
	Samples      int
	StartT, EndT float64

	Style    Style
	Z        int     // draw-order index; ties keep registration order
	Rotation float64 // accumulated rotation in radians, applied at render time
	Scale    float64 // accumulated scale factor; 0 means unscaled (1)

	binding   Binding
	surfaceID string              // owning surface; empty when owned by the canvas
	links     map[string]struct{} // ids of links this shape participates in
	seq       int                 // registration sequence, set by the canvas
	resolving bool                // re-entrancy guard used by the resolver
}

// Binding returns the shape's current binding.
func (s *Shape) Binding() Binding { return s.binding }

// SetBinding replaces the shape's binding, discarding the previous mode's
// data.
func (s *Shape) SetBinding(b Binding) { s.binding = b }

// MoveTo sets an absolute position. Like any mode switch, this discards
// relative or path binding data.
func (s *Shape) MoveTo(x, y float64) { s.binding = Absolute(x, y) }

// Rotate adds d radians to the accumulated rotation.
func (s *Shape) Rotate(d float64) { s.Rotation += d }

// ScaleBy multiplies the accumulated scale factor by f.
func (s *Shape) ScaleBy(f float64) {
	if s.Scale == 0 {
		s.Scale = 1
	}
	s.Scale *= f
}

// EffectiveScale returns the scale factor with the default applied.
func (s *Shape) EffectiveScale() float64 {
	if s.Scale == 0 {
		return 1
	}
	return s.Scale
}

// SurfaceID returns the id of the owning surface, or empty when the shape is
// registered directly on the canvas.
func (s *Shape) SurfaceID() string { return s.surfaceID }

// Links returns the ids of links the shape participates in. The slice is a
// copy; membership is maintained by the canvas.
func (s *Shape) Links() []string {
	out := make([]string, 0, len(s.links))
	for id := range s.links {
		out = append(out, id)
	}
	return out
}

// size returns the unscaled extent of the shape's bounding box.
func (s *Shape) size() (w, h float64) {
	switch s.Kind {
	case KindCircle:
		return 2 * s.R, 2 * s.R
	case KindPolygon:
		if len(s.Vertices) == 0 {
			return 0, 0
		}
		minX, minY := s.Vertices[0].X, s.Vertices[0].Y
		maxX, maxY := minX, minY
		for _, v := range s.Vertices[1:] {
			minX = min(minX, v.X)
			minY = min(minY, v.Y)
			maxX = max(maxX, v.X)
			maxY = max(maxY, v.Y)
		}
		return maxX - minX, maxY - minY
	case KindPath:
		if s.Curve == nil {
			return 0, 0
		}
		r := curveExtent(s.Curve)
		return r.W, r.H
	default:
		return s.W, s.H
	}
}

// curveExtent returns the bounding box of a curve's sample points in local
// coordinates.
func curveExtent(c curve.Pather) geom.Rect {
	const n = 32
	p0 := c.PointAt(0)
	minX, minY, maxX, maxY := p0.X, p0.Y, p0.X, p0.Y
	for i := 1; i <= n; i++ {
		p := c.PointAt(float64(i) / n)
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return geom.NewRect(minX, minY, maxX-minX, maxY-minY)
}
