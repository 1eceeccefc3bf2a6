package scene

import (
	"strings"

	"github.com/inkscene/inkscene/pkg/errors"
	"github.com/inkscene/inkscene/pkg/geom"
)

// Axis selects a frame dimension for ResolveSize.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Resolve computes the current absolute position of the shape with the
// given id. Resolution is lazy: it re-reads the binding and any reference
// frames on every call, so mutations are immediately visible. It is a pure
// read with no side effects.
func (c *Canvas) Resolve(id string) (geom.Point, error) {
	s, ok := c.shapes[id]
	if !ok {
		return geom.Point{}, errors.New(errors.ErrCodeUnknownShape, "no shape with id %q", id)
	}
	return c.resolveShape(s)
}

// resolveShape evaluates a shape's binding. The per-shape resolving flag
// rejects cyclic reference chains: any re-entry into a shape that is already
// mid-resolution is a cycle, including chains routed through a path-bound
// curve that queries the canvas.
func (c *Canvas) resolveShape(s *Shape) (geom.Point, error) {
	if s.resolving {
		return geom.Point{}, errors.New(errors.ErrCodeCyclicResolution,
			"cyclic reference chain: %s", c.cycleDiagnostic(s.ID))
	}
	s.resolving = true
	c.trail = append(c.trail, s.ID)
	defer func() {
		s.resolving = false
		c.trail = c.trail[:len(c.trail)-1]
	}()

	var p geom.Point
	switch s.binding.mode {
	case ModePathBound:
		p = s.binding.path.PointAt(s.binding.t)
		if !p.IsFinite() {
			// Canvas-querying curves cannot return an error from PointAt;
			// they record it and expose it through Err. Propagate that
			// cause rather than reporting a bare non-finite position.
			if ec, ok := s.binding.path.(interface{ Err() error }); ok && ec.Err() != nil {
				return geom.Point{}, errors.Wrap(errors.GetCode(ec.Err()), ec.Err(),
					"shape %q: path binding", s.ID)
			}
		}
	case ModeRelative:
		frame, err := c.frameBounds(s)
		if err != nil {
			return geom.Point{}, err
		}
		p = frame.At(s.binding.fx, s.binding.fy)
	default:
		p = s.binding.pos
	}

	if !p.IsFinite() {
		return geom.Point{}, errors.New(errors.ErrCodeNonFiniteGeometry,
			"shape %q resolves to non-finite position %v", s.ID, p)
	}
	return p, nil
}

// frameBounds returns the reference frame rectangle for a relative binding.
// An empty frame id means the owning surface, falling back to the canvas.
// A named frame may be a surface or another shape's bounding box.
func (c *Canvas) frameBounds(s *Shape) (geom.Rect, error) {
	frameID := s.binding.frameID
	if frameID == "" {
		if s.surfaceID != "" {
			if surf, ok := c.surfaces[s.surfaceID]; ok {
				return surf.Rect, nil
			}
			return geom.Rect{}, errors.New(errors.ErrCodeRemovedReference,
				"shape %q: owning surface %q no longer exists", s.ID, s.surfaceID)
		}
		return c.Bounds(), nil
	}
	if surf, ok := c.surfaces[frameID]; ok {
		return surf.Rect, nil
	}
	if ref, ok := c.shapes[frameID]; ok {
		return c.boundsOf(ref)
	}
	return geom.Rect{}, errors.New(errors.ErrCodeUnknownFrame,
		"shape %q: no frame with id %q", s.ID, frameID)
}

// BoundsOf returns the current bounding box of the shape with the given id:
// its unrotated extent, scaled by the accumulated scale factor, centered on
// the resolved position.
func (c *Canvas) BoundsOf(id string) (geom.Rect, error) {
	s, ok := c.shapes[id]
	if !ok {
		return geom.Rect{}, errors.New(errors.ErrCodeUnknownShape, "no shape with id %q", id)
	}
	return c.boundsOf(s)
}

func (c *Canvas) boundsOf(s *Shape) (geom.Rect, error) {
	center, err := c.resolveShape(s)
	if err != nil {
		return geom.Rect{}, err
	}
	w, h := s.size()
	f := s.EffectiveScale()
	w, h = w*f, h*f
	return geom.NewRect(center.X-w/2, center.Y-h/2, w, h), nil
}

// ResolveSize converts a fraction of the shape's container dimension into
// pixels. The container is the owning surface, or the canvas for shapes
// registered directly on it.
func (c *Canvas) ResolveSize(id string, fraction float64, axis Axis) (float64, error) {
	s, ok := c.shapes[id]
	if !ok {
		return 0, errors.New(errors.ErrCodeUnknownShape, "no shape with id %q", id)
	}
	frame := c.Bounds()
	if s.surfaceID != "" {
		surf, ok := c.surfaces[s.surfaceID]
		if !ok {
			return 0, errors.New(errors.ErrCodeRemovedReference,
				"shape %q: owning surface %q no longer exists", s.ID, s.surfaceID)
		}
		frame = surf.Rect
	}
	if axis == AxisX {
		return fraction * frame.W, nil
	}
	return fraction * frame.H, nil
}

// Bake converts a relative or path binding into an absolute one by
// evaluating it once and discarding the old mode's data. It is the only
// mutating operation in the resolver, and the conversion is one-way:
// transforms that need a concrete pivot must bake first. Baking an already
// absolute shape is a no-op.
func (c *Canvas) Bake(id string) error {
	s, ok := c.shapes[id]
	if !ok {
		return errors.New(errors.ErrCodeUnknownShape, "no shape with id %q", id)
	}
	if s.binding.mode == ModeAbsolute {
		return nil
	}
	p, err := c.resolveShape(s)
	if err != nil {
		return err
	}
	s.binding = Absolute(p.X, p.Y)
	return nil
}

// AnchorPoint resolves a named anchor on a shape to absolute pixels.
// Unsupported anchor names fail; no fallback anchor is substituted.
func (c *Canvas) AnchorPoint(id, anchor string) (geom.Point, error) {
	s, ok := c.shapes[id]
	if !ok {
		return geom.Point{}, errors.New(errors.ErrCodeUnknownShape, "no shape with id %q", id)
	}
	switch s.Kind {
	case KindRect, KindPolygon:
		f, ok := boxAnchors[anchor]
		if !ok {
			return geom.Point{}, unknownAnchor(s, anchor)
		}
		b, err := c.boundsOf(s)
		if err != nil {
			return geom.Point{}, err
		}
		return b.At(f[0], f[1]), nil
	case KindPath:
		switch anchor {
		case AnchorCenter:
			return c.resolveShape(s)
		case AnchorStart, AnchorEnd:
			center, err := c.resolveShape(s)
			if err != nil {
				return geom.Point{}, err
			}
			if s.Curve == nil {
				return center, nil
			}
			t := 0.0
			if anchor == AnchorEnd {
				t = 1.0
			}
			p := s.Curve.PointAt(t)
			return center.Add(geom.Vec(p.X, p.Y).Scale(s.EffectiveScale())), nil
		default:
			return geom.Point{}, unknownAnchor(s, anchor)
		}
	default:
		// Circles and ellipses expose only their center.
		if anchor != AnchorCenter {
			return geom.Point{}, unknownAnchor(s, anchor)
		}
		return c.resolveShape(s)
	}
}

func unknownAnchor(s *Shape, anchor string) error {
	return errors.New(errors.ErrCodeUnknownAnchor,
		"shape %q (%s) has no anchor %q, supported: %s",
		s.ID, s.Kind, anchor, strings.Join(AnchorsFor(s.Kind), ", "))
}

// cycleDiagnostic formats the resolution trail for a cycle error.
func (c *Canvas) cycleDiagnostic(offender string) string {
	return strings.Join(append(append([]string{}, c.trail...), offender), " -> ")
}
