package render

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/inkscene/inkscene/pkg/curve"
	"github.com/inkscene/inkscene/pkg/errors"
	"github.com/inkscene/inkscene/pkg/geom"
	"github.com/inkscene/inkscene/pkg/scene"
)

// defaultPathSamples is the fit sample count for path shapes and link
// templates that do not specify one.
const defaultPathSamples = 16

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background      string
	surfaceOutlines bool

	markers map[string]marker
}

// WithBackground overrides the canvas background color for this render.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithSurfaceOutlines draws each surface rectangle as a dashed outline
// beneath the content, useful when debugging layouts.
func WithSurfaceOutlines() SVGOption {
	return func(r *svgRenderer) { r.surfaceOutlines = true }
}

// marker is one deduplicated arrowhead definition. Its id is derived from the
// visual parameters, so links with identical arrow styling share a single def.
type marker struct {
	color string
	size  float64
}

// RenderSVG resolves every shape and link on the canvas and emits an SVG
// document. Items are drawn in ascending Z order; equal Z keeps registration
// order. The output is deterministic: rendering an unchanged canvas twice
// returns byte-identical documents.
//
// Any resolution failure aborts the render with the underlying error code
// intact, so a cyclic binding or a dangling link reference surfaces here.
func RenderSVG(c *scene.Canvas, opts ...SVGOption) ([]byte, error) {
	r := svgRenderer{markers: map[string]marker{}}
	for _, opt := range opts {
		opt(&r)
	}
	if r.background == "" {
		r.background = c.Background
	}

	// Body first: link emission registers the markers the defs block needs.
	var body bytes.Buffer
	for _, it := range drawList(c) {
		var err error
		if it.shape != nil {
			err = r.renderShape(&body, c, it.shape)
		} else {
			err = r.renderLink(&body, c, it.link)
		}
		if err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		fmtCoord(c.W), fmtCoord(c.H), fmtCoord(c.W), fmtCoord(c.H))

	r.renderDefs(&buf)

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}
	if r.surfaceOutlines {
		for _, s := range c.Surfaces() {
			fmt.Fprintf(&buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="none" stroke="gray" stroke-dasharray="4 4"/>`+"\n",
				fmtCoord(s.Rect.X), fmtCoord(s.Rect.Y), fmtCoord(s.Rect.W), fmtCoord(s.Rect.H))
		}
	}

	buf.Write(body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// drawItem is one entry of the draw list: exactly one of shape or link is set.
type drawItem struct {
	shape *scene.Shape
	link  *scene.Link
}

func (it drawItem) z() int {
	if it.shape != nil {
		return it.shape.Z
	}
	return it.link.Z
}

func (it drawItem) seq() int {
	if it.shape != nil {
		return it.shape.Seq()
	}
	return it.link.Seq()
}

// drawList merges shapes and links into a single list ordered by Z, with
// registration order breaking ties. Shapes and links share one sequence
// counter, so the merge by seq restores global registration order before the
// stable sort by Z.
func drawList(c *scene.Canvas) []drawItem {
	shapes := c.Shapes()
	links := c.Links()
	items := make([]drawItem, 0, len(shapes)+len(links))
	for _, s := range shapes {
		items = append(items, drawItem{shape: s})
	}
	for _, l := range links {
		items = append(items, drawItem{link: l})
	}
	slices.SortFunc(items, func(a, b drawItem) int { return a.seq() - b.seq() })
	slices.SortStableFunc(items, func(a, b drawItem) int { return a.z() - b.z() })
	return items
}

func (r *svgRenderer) renderShape(buf *bytes.Buffer, c *scene.Canvas, s *scene.Shape) error {
	p, err := c.Resolve(s.ID)
	if err != nil {
		return errors.Wrap(errors.GetCode(err), err, "render shape %q", s.ID)
	}
	f := s.EffectiveScale()
	transform := rotationTransform(s.Rotation, p)

	switch s.Kind {
	case scene.KindRect:
		w, h := s.W*f, s.H*f
		fmt.Fprintf(buf, `  <rect x="%s" y="%s" width="%s" height="%s"%s%s/>`+"\n",
			fmtCoord(p.X-w/2), fmtCoord(p.Y-h/2), fmtCoord(w), fmtCoord(h),
			styleAttrs(s.Style), transform)
	case scene.KindCircle:
		fmt.Fprintf(buf, `  <circle cx="%s" cy="%s" r="%s"%s/>`+"\n",
			fmtCoord(p.X), fmtCoord(p.Y), fmtCoord(s.R*f), styleAttrs(s.Style))
	case scene.KindEllipse:
		fmt.Fprintf(buf, `  <ellipse cx="%s" cy="%s" rx="%s" ry="%s"%s%s/>`+"\n",
			fmtCoord(p.X), fmtCoord(p.Y), fmtCoord(s.W*f/2), fmtCoord(s.H*f/2),
			styleAttrs(s.Style), transform)
	case scene.KindPolygon:
		var pts strings.Builder
		for i, v := range s.Vertices {
			if i > 0 {
				pts.WriteByte(' ')
			}
			q := p.Add(geom.Vec2(v).Scale(f))
			pts.WriteString(fmtCoord(q.X))
			pts.WriteByte(',')
			pts.WriteString(fmtCoord(q.Y))
		}
		fmt.Fprintf(buf, `  <polygon points="%s"%s%s/>`+"\n",
			pts.String(), styleAttrs(s.Style), transform)
	case scene.KindPath:
		d, err := pathShapeData(p, s)
		if err != nil {
			return errors.Wrap(errors.GetCode(err), err, "render shape %q", s.ID)
		}
		fmt.Fprintf(buf, `  <path d="%s"%s%s/>`+"\n", d, styleAttrs(s.Style), transform)
	default:
		return errors.New(errors.ErrCodeUnsupported, "shape %q: unknown kind %q", s.ID, s.Kind)
	}
	return nil
}

// pathShapeData fits a path shape's curve and returns SVG path data placed at
// the resolved position. StartT/EndT select a sub-range; sub-ranges render
// open even when the underlying curve is closed.
func pathShapeData(center geom.Point, s *scene.Shape) (string, error) {
	if s.Curve == nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "path shape has no curve")
	}
	n := s.Samples
	if n == 0 {
		n = defaultPathSamples
	}

	var segs []curve.CubicSegment
	var err error
	closed := false
	if s.EndT > 0 {
		segs, err = curve.FitCubicsRange(s.Curve, n, s.StartT, s.EndT)
	} else {
		closed = curve.IsClosed(s.Curve)
		segs, err = curve.FitCubics(s.Curve, n, closed)
	}
	if err != nil {
		return "", err
	}

	m := geom.Translate(geom.Vec2(center)).
		Mul(geom.Scale(s.EffectiveScale(), s.EffectiveScale()))
	segs = curve.TransformSegments(segs, m)

	d := curve.PathData(segs)
	if closed {
		d += " Z"
	}
	return d, nil
}

func (r *svgRenderer) renderLink(buf *bytes.Buffer, c *scene.Canvas, l *scene.Link) error {
	if l.Invisible {
		return nil
	}
	g, err := c.ResolveLink(l.ID)
	if err != nil {
		return errors.Wrap(errors.GetCode(err), err, "render link %q", l.ID)
	}

	attrs := styleAttrs(l.Style) + r.markerAttrs(l.Style)
	if g.Segments == nil {
		fmt.Fprintf(buf, `  <line x1="%s" y1="%s" x2="%s" y2="%s"%s/>`+"\n",
			fmtCoord(g.A.X), fmtCoord(g.A.Y), fmtCoord(g.B.X), fmtCoord(g.B.Y), attrs)
		return nil
	}
	fmt.Fprintf(buf, `  <path d="%s"%s/>`+"\n", curve.PathData(g.Segments), attrs)
	return nil
}

// markerAttrs registers the arrowhead markers a link style needs and returns
// the marker-start/marker-end attributes referencing them.
func (r *svgRenderer) markerAttrs(st scene.Style) string {
	if !st.ArrowStart && !st.ArrowEnd {
		return ""
	}
	color := st.Stroke
	if color == "" {
		color = "black"
	}
	id := markerID(color, st.EffectiveArrowSize())
	r.markers[id] = marker{color: color, size: st.EffectiveArrowSize()}

	var b strings.Builder
	if st.ArrowStart {
		fmt.Fprintf(&b, ` marker-start="url(#%s)"`, id)
	}
	if st.ArrowEnd {
		fmt.Fprintf(&b, ` marker-end="url(#%s)"`, id)
	}
	return b.String()
}

// renderDefs emits the collected marker definitions, sorted by id so the defs
// block is stable across renders.
func (r *svgRenderer) renderDefs(buf *bytes.Buffer) {
	if len(r.markers) == 0 {
		return
	}
	ids := make([]string, 0, len(r.markers))
	for id := range r.markers {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	buf.WriteString("  <defs>\n")
	for _, id := range ids {
		m := r.markers[id]
		fmt.Fprintf(buf, `    <marker id="%s" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="%s" markerHeight="%s" orient="auto-start-reverse" markerUnits="userSpaceOnUse">`+"\n",
			id, fmtCoord(m.size), fmtCoord(m.size))
		fmt.Fprintf(buf, `      <path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/>`+"\n", m.color)
		buf.WriteString("    </marker>\n")
	}
	buf.WriteString("  </defs>\n")
}

// markerID derives a stable marker id from the visual parameters, so two
// links with the same arrow styling reference the same definition.
func markerID(color string, size float64) string {
	return "arrow-" + sanitizeID(color) + "-" + sanitizeID(fmtCoord(size))
}

// sanitizeID strips characters that are not valid in an XML id.
func sanitizeID(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteRune(c)
		case c == '.', c == ',', c == '(', c == ')', c == ' ', c == '%':
			b.WriteByte('_')
		}
	}
	return b.String()
}

// styleAttrs renders a style as SVG presentation attributes. Unset values are
// omitted rather than written with defaults, keeping documents minimal and
// stable.
func styleAttrs(st scene.Style) string {
	var b strings.Builder
	if st.Fill != "" {
		fmt.Fprintf(&b, ` fill="%s"`, st.Fill)
	} else {
		b.WriteString(` fill="none"`)
	}
	if st.Stroke != "" {
		fmt.Fprintf(&b, ` stroke="%s" stroke-width="%s"`, st.Stroke, fmtCoord(st.EffectiveStrokeWidth()))
	}
	if len(st.Dash) > 0 {
		b.WriteString(` stroke-dasharray="`)
		for i, d := range st.Dash {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(fmtCoord(d))
		}
		b.WriteByte('"')
	}
	if st.Opacity > 0 && st.Opacity < 1 {
		fmt.Fprintf(&b, ` opacity="%s"`, fmtCoord(st.Opacity))
	}
	return b.String()
}

// rotationTransform returns a rotate transform attribute about the given
// pivot, or empty when the angle is zero.
func rotationTransform(radians float64, pivot geom.Point) string {
	if radians == 0 {
		return ""
	}
	deg := radians * 180 / math.Pi
	return fmt.Sprintf(` transform="rotate(%s %s %s)"`,
		fmtCoord(deg), fmtCoord(pivot.X), fmtCoord(pivot.Y))
}

// fmtCoord formats a coordinate deterministically, mirroring the path-data
// formatting: rounded to 4 decimal places, shortest round-trip text.
func fmtCoord(v float64) string {
	r := math.Round(v*1e4) / 1e4
	return strconv.FormatFloat(r, 'f', -1, 64)
}
