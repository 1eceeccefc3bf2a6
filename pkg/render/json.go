package render

import (
	"encoding/json"

	"github.com/inkscene/inkscene/pkg/curve"
	"github.com/inkscene/inkscene/pkg/errors"
	"github.com/inkscene/inkscene/pkg/scene"
)

// JSONOption configures JSON export via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	anchors bool
}

// WithJSONAnchors includes the resolved anchor positions of every shape in
// the output, keyed by anchor name.
func WithJSONAnchors() JSONOption { return func(r *jsonRenderer) { r.anchors = true } }

type jsonOutput struct {
	Width      float64       `json:"width"`
	Height     float64       `json:"height"`
	Background string        `json:"background,omitempty"`
	Surfaces   []jsonSurface `json:"surfaces,omitempty"`
	Shapes     []jsonShape   `json:"shapes"`
	Links      []jsonLink    `json:"links,omitempty"`
}

type jsonSurface struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonShape struct {
	ID       string               `json:"id"`
	Kind     string               `json:"kind"`
	X        float64              `json:"x"`
	Y        float64              `json:"y"`
	Width    float64              `json:"width,omitempty"`
	Height   float64              `json:"height,omitempty"`
	Z        int                  `json:"z,omitempty"`
	Rotation float64              `json:"rotation,omitempty"`
	Scale    float64              `json:"scale,omitempty"`
	Surface  string               `json:"surface,omitempty"`
	Binding  string               `json:"binding"`
	Anchors  map[string][]float64 `json:"anchors,omitempty"`
}

type jsonLink struct {
	ID        string    `json:"id"`
	From      jsonEnd   `json:"from"`
	To        jsonEnd   `json:"to"`
	A         []float64 `json:"a"`
	B         []float64 `json:"b"`
	Path      string    `json:"path,omitempty"`
	Invisible bool      `json:"invisible,omitempty"`
}

type jsonEnd struct {
	Shape  string `json:"shape"`
	Anchor string `json:"anchor"`
}

// RenderJSON exports the canvas with every binding and link resolved to
// absolute coordinates, as a pretty-printed JSON document. Lists follow draw
// order, so the export doubles as a stable fixture format. Like [RenderSVG]
// it is a pure read and fails with the underlying code when resolution fails.
func RenderJSON(c *scene.Canvas, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:      c.W,
		Height:     c.H,
		Background: c.Background,
		Shapes:     []jsonShape{},
	}
	for _, s := range c.Surfaces() {
		out.Surfaces = append(out.Surfaces, jsonSurface{
			ID: s.ID, X: s.Rect.X, Y: s.Rect.Y, Width: s.Rect.W, Height: s.Rect.H,
		})
	}

	for _, it := range drawList(c) {
		switch {
		case it.shape != nil:
			js, err := r.buildShape(c, it.shape)
			if err != nil {
				return nil, err
			}
			out.Shapes = append(out.Shapes, js)
		default:
			jl, err := buildLink(c, it.link)
			if err != nil {
				return nil, err
			}
			out.Links = append(out.Links, jl)
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

func (r *jsonRenderer) buildShape(c *scene.Canvas, s *scene.Shape) (jsonShape, error) {
	p, err := c.Resolve(s.ID)
	if err != nil {
		return jsonShape{}, errors.Wrap(errors.GetCode(err), err, "export shape %q", s.ID)
	}
	b, err := c.BoundsOf(s.ID)
	if err != nil {
		return jsonShape{}, errors.Wrap(errors.GetCode(err), err, "export shape %q", s.ID)
	}

	js := jsonShape{
		ID:       s.ID,
		Kind:     string(s.Kind),
		X:        p.X,
		Y:        p.Y,
		Width:    b.W,
		Height:   b.H,
		Z:        s.Z,
		Rotation: s.Rotation,
		Scale:    s.Scale,
		Surface:  s.SurfaceID(),
		Binding:  s.Binding().Mode().String(),
	}
	if r.anchors {
		js.Anchors = map[string][]float64{}
		for _, name := range scene.AnchorsFor(s.Kind) {
			a, err := c.AnchorPoint(s.ID, name)
			if err != nil {
				return jsonShape{}, errors.Wrap(errors.GetCode(err), err,
					"export shape %q anchor %q", s.ID, name)
			}
			js.Anchors[name] = []float64{a.X, a.Y}
		}
	}
	return js, nil
}

func buildLink(c *scene.Canvas, l *scene.Link) (jsonLink, error) {
	g, err := c.ResolveLink(l.ID)
	if err != nil {
		return jsonLink{}, errors.Wrap(errors.GetCode(err), err, "export link %q", l.ID)
	}
	jl := jsonLink{
		ID:        l.ID,
		From:      jsonEnd{Shape: l.From.ShapeID, Anchor: l.From.Anchor},
		To:        jsonEnd{Shape: l.To.ShapeID, Anchor: l.To.Anchor},
		A:         []float64{g.A.X, g.A.Y},
		B:         []float64{g.B.X, g.B.Y},
		Invisible: l.Invisible,
	}
	if g.Segments != nil {
		jl.Path = curve.PathData(g.Segments)
	}
	return jl, nil
}
