package scene

import (
	"github.com/inkscene/inkscene/pkg/curve"
	"github.com/inkscene/inkscene/pkg/errors"
	"github.com/inkscene/inkscene/pkg/geom"
)

// Endpoint names one end of a link: a shape and one of its anchors.
type Endpoint struct {
	ShapeID string
	Anchor  string
}

// Link is a live geometric relationship between two shape anchors. The
// endpoints re-resolve on every query, so the link follows its shapes as
// they move. References to the endpoint shapes are non-owning: removing a
// shape leaves the link registered, and its next resolution fails with a
// REMOVED_REFERENCE error.
type Link struct {
	ID       string
	From, To Endpoint
	Style    Style
	Z        int

	// Invisible links render nothing but still answer PointAt queries.
	Invisible bool

	// Template gives the link its visual shape. It is defined in its own
	// normalized coordinate space; at render time the template chord is
	// affinely mapped onto the resolved endpoints. nil renders a straight
	// segment.
	Template curve.Pather

	// Samples is the fit sample count for the template (0 uses a default).
	Samples int

	seq int // registration sequence, set by the canvas
}

// defaultFitSamples is the fit sample count used when a link or path shape
// does not specify one.
const defaultFitSamples = 16

// NewLink returns a link between two endpoints. template may be nil for a
// straight (or purely relational) link. A closed template has no
// well-defined open chord and is rejected here, at construction.
func NewLink(id string, from, to Endpoint, template curve.Pather) (*Link, error) {
	if id == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "link id must not be empty")
	}
	if template != nil {
		if curve.IsClosed(template) {
			return nil, errors.New(errors.ErrCodeInvalidLinkShape,
				"link %q: closed curve cannot be a link template", id)
		}
		if template.PointAt(0).Distance(template.PointAt(1)) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidLinkShape,
				"link %q: template chord is degenerate", id)
		}
	}
	return &Link{ID: id, From: from, To: to, Template: template}, nil
}

// LinkGeometry is the resolved renderable form of a link.
type LinkGeometry struct {
	A, B geom.Point // resolved endpoint anchors, in absolute pixels

	// Segments holds the chord-mapped template. nil for straight links;
	// Segments[0].P0 == A and Segments[last].P3 == B exactly.
	Segments []curve.CubicSegment
}

// PointAt interpolates linearly between the resolved endpoints. This is the
// relational query every link supports, visible or not, templated or not.
func (g LinkGeometry) PointAt(t float64) geom.Point {
	return g.A.Lerp(g.B, t)
}
