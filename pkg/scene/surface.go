package scene

import "github.com/inkscene/inkscene/pkg/geom"

// Surface is a rectangular container. It owns zero or more shapes and
// exposes its rectangle as the reference frame for their relative bindings.
// Surfaces are not drawable themselves; they only organize and position
// shapes.
type Surface struct {
	ID   string
	Rect geom.Rect

	shapeIDs map[string]struct{}
}

// NewSurface returns a surface with the given id and frame rectangle.
func NewSurface(id string, rect geom.Rect) *Surface {
	return &Surface{ID: id, Rect: rect, shapeIDs: map[string]struct{}{}}
}

// Owns reports whether the surface owns the shape with the given id.
func (s *Surface) Owns(shapeID string) bool {
	_, ok := s.shapeIDs[shapeID]
	return ok
}

// ShapeCount returns the number of shapes the surface owns.
func (s *Surface) ShapeCount() int { return len(s.shapeIDs) }
