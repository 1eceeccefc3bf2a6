package scene

import (
	"github.com/inkscene/inkscene/pkg/curve"
	"github.com/inkscene/inkscene/pkg/errors"
	"github.com/inkscene/inkscene/pkg/geom"
)

// ResolveLink computes the current geometry of the link with the given id.
// Both endpoint anchors are re-resolved, so the result reflects the shapes'
// positions at call time. Templated links get their template fitted and
// chord-mapped onto the resolved endpoints; the mapped curve starts and ends
// exactly on the anchors.
func (c *Canvas) ResolveLink(id string) (LinkGeometry, error) {
	l, ok := c.links[id]
	if !ok {
		return LinkGeometry{}, errors.New(errors.ErrCodeNotFound, "no link with id %q", id)
	}
	return c.resolveLinkGeometry(l)
}

// endpointErr wraps an anchor resolution failure with the link context.
// Endpoint shapes are validated at AddLink time, so a shape that is unknown
// now was removed after registration.
func endpointErr(l *Link, end string, err error) error {
	code := errors.GetCode(err)
	if code == errors.ErrCodeUnknownShape {
		code = errors.ErrCodeRemovedReference
	}
	return errors.Wrap(code, err, "link %q: %s endpoint", l.ID, end)
}

func (c *Canvas) resolveLinkGeometry(l *Link) (LinkGeometry, error) {
	a, err := c.AnchorPoint(l.From.ShapeID, l.From.Anchor)
	if err != nil {
		return LinkGeometry{}, endpointErr(l, "from", err)
	}
	b, err := c.AnchorPoint(l.To.ShapeID, l.To.Anchor)
	if err != nil {
		return LinkGeometry{}, endpointErr(l, "to", err)
	}

	g := LinkGeometry{A: a, B: b}
	if l.Template == nil {
		return g, nil
	}

	n := l.Samples
	if n == 0 {
		n = defaultFitSamples
	}
	segs, err := curve.FitCubics(l.Template, n, false)
	if err != nil {
		return LinkGeometry{}, errors.Wrap(errors.GetCode(err), err, "link %q: template", l.ID)
	}

	m, err := geom.MapChord(l.Template.PointAt(0), l.Template.PointAt(1), a, b)
	if err != nil {
		return LinkGeometry{}, errors.Wrap(errors.ErrCodeInvalidLinkShape, err,
			"link %q: template chord", l.ID)
	}
	segs = curve.TransformSegments(segs, m)

	// The chord mapping is exact up to floating error; pin the outer
	// endpoints so they equal the resolved anchors bit for bit.
	segs[0].P0 = a
	segs[len(segs)-1].P3 = b

	for i, s := range segs {
		if !s.IsFinite() {
			return LinkGeometry{}, errors.New(errors.ErrCodeNonFiniteGeometry,
				"link %q: mapped segment %d is non-finite", l.ID, i)
		}
	}
	g.Segments = segs
	return g, nil
}
