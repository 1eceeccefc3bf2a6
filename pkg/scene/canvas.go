package scene

import (
	"cmp"
	"slices"

	"github.com/inkscene/inkscene/pkg/errors"
	"github.com/inkscene/inkscene/pkg/geom"
)

// Canvas is the top-level drawing area and the registry for every surface,
// shape, and link. All relations are id-keyed: back-references never keep an
// object alive, and dangling ids surface as errors on the next resolution.
//
// A canvas is not safe for concurrent use; the engine is single-threaded by
// design and resolution is re-evaluated lazily per query.
type Canvas struct {
	W, H       float64
	Background string // opaque color string; empty means no background rect

	surfaces map[string]*Surface
	shapes   map[string]*Shape
	links    map[string]*Link
	nextSeq  int

	// trail tracks the shapes currently being resolved, for cycle
	// diagnostics. Valid because resolution is single-threaded.
	trail []string
}

// NewCanvas returns an empty canvas with the given pixel dimensions.
func NewCanvas(w, h float64) *Canvas {
	return &Canvas{
		W:        w,
		H:        h,
		surfaces: map[string]*Surface{},
		shapes:   map[string]*Shape{},
		links:    map[string]*Link{},
	}
}

// Bounds returns the canvas rectangle, the default reference frame for
// shapes owned directly by the canvas.
func (c *Canvas) Bounds() geom.Rect {
	return geom.NewRect(0, 0, c.W, c.H)
}

// AddSurface registers a surface. Surface ids share a namespace with shape
// ids so that relative bindings can name either.
func (c *Canvas) AddSurface(s *Surface) error {
	if s.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "surface id must not be empty")
	}
	if c.idTaken(s.ID) {
		return errors.New(errors.ErrCodeInvalidInput, "duplicate id %q", s.ID)
	}
	if s.shapeIDs == nil {
		s.shapeIDs = map[string]struct{}{}
	}
	c.surfaces[s.ID] = s
	return nil
}

// AddShape registers a shape, owned by the named surface or directly by the
// canvas when surfaceID is empty. Registration order breaks draw-order ties.
func (c *Canvas) AddShape(surfaceID string, s *Shape) error {
	if s.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "shape id must not be empty")
	}
	if c.idTaken(s.ID) {
		return errors.New(errors.ErrCodeInvalidInput, "duplicate id %q", s.ID)
	}
	var surf *Surface
	if surfaceID != "" {
		var ok bool
		surf, ok = c.surfaces[surfaceID]
		if !ok {
			return errors.New(errors.ErrCodeUnknownFrame, "no surface with id %q", surfaceID)
		}
	}
	if s.links == nil {
		s.links = map[string]struct{}{}
	}
	s.surfaceID = surfaceID
	s.seq = c.nextSeq
	c.nextSeq++
	c.shapes[s.ID] = s
	if surf != nil {
		surf.shapeIDs[s.ID] = struct{}{}
	}
	return nil
}

// RemoveShape unregisters a shape. Links referencing it stay registered and
// fail their next resolution; this is deliberate, the link table is pruned
// lazily on access.
func (c *Canvas) RemoveShape(id string) error {
	s, ok := c.shapes[id]
	if !ok {
		return errors.New(errors.ErrCodeUnknownShape, "no shape with id %q", id)
	}
	if s.surfaceID != "" {
		if surf, ok := c.surfaces[s.surfaceID]; ok {
			delete(surf.shapeIDs, id)
		}
	}
	delete(c.shapes, id)
	return nil
}

// AddLink registers a link. Both endpoint shapes must exist and support the
// named anchors at registration time; they may be removed later, which
// poisons only this link, not the registry.
func (c *Canvas) AddLink(l *Link) error {
	if l.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "link id must not be empty")
	}
	if _, ok := c.links[l.ID]; ok {
		return errors.New(errors.ErrCodeInvalidInput, "duplicate link id %q", l.ID)
	}
	for _, ep := range []Endpoint{l.From, l.To} {
		s, ok := c.shapes[ep.ShapeID]
		if !ok {
			return errors.New(errors.ErrCodeUnknownShape,
				"link %q: no shape with id %q", l.ID, ep.ShapeID)
		}
		if !slices.Contains(AnchorsFor(s.Kind), ep.Anchor) {
			return errors.New(errors.ErrCodeUnknownAnchor,
				"link %q: shape %q (%s) has no anchor %q", l.ID, s.ID, s.Kind, ep.Anchor)
		}
	}
	l.seq = c.nextSeq
	c.nextSeq++
	c.links[l.ID] = l
	c.shapes[l.From.ShapeID].links[l.ID] = struct{}{}
	c.shapes[l.To.ShapeID].links[l.ID] = struct{}{}
	return nil
}

// RemoveLink unregisters a link and clears the participation entries on any
// endpoint shapes that still exist.
func (c *Canvas) RemoveLink(id string) error {
	l, ok := c.links[id]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "no link with id %q", id)
	}
	for _, ep := range []Endpoint{l.From, l.To} {
		if s, ok := c.shapes[ep.ShapeID]; ok {
			delete(s.links, id)
		}
	}
	delete(c.links, id)
	return nil
}

// Shape returns the shape with the given id.
func (c *Canvas) Shape(id string) (*Shape, bool) {
	s, ok := c.shapes[id]
	return s, ok
}

// Surface returns the surface with the given id.
func (c *Canvas) Surface(id string) (*Surface, bool) {
	s, ok := c.surfaces[id]
	return s, ok
}

// Link returns the link with the given id.
func (c *Canvas) Link(id string) (*Link, bool) {
	l, ok := c.links[id]
	return l, ok
}

// Shapes returns all shapes in registration order.
func (c *Canvas) Shapes() []*Shape {
	out := make([]*Shape, 0, len(c.shapes))
	for _, s := range c.shapes {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *Shape) int { return cmp.Compare(a.seq, b.seq) })
	return out
}

// Links returns all links in registration order.
func (c *Canvas) Links() []*Link {
	out := make([]*Link, 0, len(c.links))
	for _, l := range c.links {
		out = append(out, l)
	}
	slices.SortFunc(out, func(a, b *Link) int { return cmp.Compare(a.seq, b.seq) })
	return out
}

// Surfaces returns all surfaces sorted by id.
func (c *Canvas) Surfaces() []*Surface {
	out := make([]*Surface, 0, len(c.surfaces))
	for _, s := range c.surfaces {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *Surface) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Seq returns a shape's registration sequence number.
func (s *Shape) Seq() int { return s.seq }

// Seq returns a link's registration sequence number.
func (l *Link) Seq() int { return l.seq }

func (c *Canvas) idTaken(id string) bool {
	if _, ok := c.shapes[id]; ok {
		return true
	}
	_, ok := c.surfaces[id]
	return ok
}
