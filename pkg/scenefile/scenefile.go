package scenefile

import (
	"math"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/inkscene/inkscene/pkg/curve"
	"github.com/inkscene/inkscene/pkg/errors"
	"github.com/inkscene/inkscene/pkg/geom"
	"github.com/inkscene/inkscene/pkg/scene"
)

// File is the top-level scene document structure.
type File struct {
	Canvas   CanvasSpec    `toml:"canvas"`
	Surfaces []SurfaceSpec `toml:"surface"`
	Shapes   []ShapeSpec   `toml:"shape"`
	Links    []LinkSpec    `toml:"link"`
}

// CanvasSpec declares the drawing area.
type CanvasSpec struct {
	Width      float64 `toml:"width"`
	Height     float64 `toml:"height"`
	Background string  `toml:"background"`
}

// SurfaceSpec declares a rectangular container.
type SurfaceSpec struct {
	ID     string  `toml:"id"`
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// ShapeSpec declares one shape. Which geometry fields apply depends on kind.
type ShapeSpec struct {
	ID      string  `toml:"id"`
	Kind    string  `toml:"kind"`
	Surface string  `toml:"surface"`
	At      AtSpec  `toml:"at"`
	Z       int     `toml:"z"`
	Degrees float64 `toml:"rotation"` // degrees, clockwise on screen
	Scale   float64 `toml:"scale"`

	Width    float64     `toml:"width"`
	Height   float64     `toml:"height"`
	R        float64     `toml:"r"`
	Vertices [][]float64 `toml:"vertices"`
	Curve    *CurveSpec  `toml:"curve"`
	Samples  int         `toml:"samples"`
	StartT   float64     `toml:"start_t"`
	EndT     float64     `toml:"end_t"`

	Style StyleSpec `toml:"style"`
}

// AtSpec is the binding declaration. The keys present select the mode:
// x/y give an absolute position, fx/fy (with an optional frame) a relative
// one, path/t a position riding another shape's curve. Mixing modes is an
// error.
type AtSpec struct {
	X  *float64 `toml:"x"`
	Y  *float64 `toml:"y"`
	Fx *float64 `toml:"fx"`
	Fy *float64 `toml:"fy"`

	Frame string   `toml:"frame"`
	Path  string   `toml:"path"`
	T     *float64 `toml:"t"`
}

// CurveSpec declares a parametric curve for path shapes and link templates.
type CurveSpec struct {
	Type string `toml:"type"` // line | quad | circle | ellipse | wave

	// line and quad
	From      []float64 `toml:"from"`
	To        []float64 `toml:"to"`
	Curvature float64   `toml:"curvature"`

	// circle and ellipse
	R       float64 `toml:"r"`
	Rx      float64 `toml:"rx"`
	Ry      float64 `toml:"ry"`
	Degrees float64 `toml:"rotation"`

	// wave
	Amplitude float64 `toml:"amplitude"`
	Cycles    float64 `toml:"cycles"`
}

// StyleSpec declares visual attributes.
type StyleSpec struct {
	Stroke      string    `toml:"stroke"`
	StrokeWidth float64   `toml:"stroke_width"`
	Fill        string    `toml:"fill"`
	Opacity     float64   `toml:"opacity"`
	Dash        []float64 `toml:"dash"`
	ArrowStart  bool      `toml:"arrow_start"`
	ArrowEnd    bool      `toml:"arrow_end"`
	ArrowSize   float64   `toml:"arrow_size"`
}

// LinkSpec declares a link between two shape anchors.
type LinkSpec struct {
	ID        string      `toml:"id"`
	From      EndpointRef `toml:"from"`
	To        EndpointRef `toml:"to"`
	Z         int         `toml:"z"`
	Invisible bool        `toml:"invisible"`
	Samples   int         `toml:"samples"`
	Template  *CurveSpec  `toml:"template"`
	Style     StyleSpec   `toml:"style"`
}

// EndpointRef names a shape anchor. An empty anchor means center.
type EndpointRef struct {
	Shape  string `toml:"shape"`
	Anchor string `toml:"anchor"`
}

// Load reads and builds a scene file from disk.
func Load(path string) (*scene.Canvas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read scene file %s", path)
	}
	return Parse(data)
}

// Parse decodes a TOML scene document and builds the canvas. Surfaces, then
// shapes, then links are registered in file order.
func Parse(data []byte) (*scene.Canvas, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode scene file")
	}
	return Build(&f)
}

// Build constructs a canvas from a decoded scene document.
func Build(f *File) (*scene.Canvas, error) {
	if f.Canvas.Width <= 0 || f.Canvas.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidScene,
			"canvas size %gx%g is not positive", f.Canvas.Width, f.Canvas.Height)
	}
	c := scene.NewCanvas(f.Canvas.Width, f.Canvas.Height)
	c.Background = f.Canvas.Background

	for _, ss := range f.Surfaces {
		surf := scene.NewSurface(ss.ID, geom.NewRect(ss.X, ss.Y, ss.Width, ss.Height))
		if err := c.AddSurface(surf); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "surface %q", ss.ID)
		}
	}

	// Shapes first, bindings second: a path binding may reference a shape
	// declared later in the file.
	for _, sp := range f.Shapes {
		s, err := buildShape(sp)
		if err != nil {
			return nil, err
		}
		if err := c.AddShape(sp.Surface, s); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "shape %q", sp.ID)
		}
	}
	for _, sp := range f.Shapes {
		b, err := buildBinding(c, sp)
		if err != nil {
			return nil, err
		}
		s, _ := c.Shape(sp.ID)
		s.SetBinding(b)
	}

	for _, ls := range f.Links {
		if err := buildLink(c, ls); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func buildShape(sp ShapeSpec) (*scene.Shape, error) {
	kind := scene.Kind(sp.Kind)
	s := &scene.Shape{
		ID:       sp.ID,
		Kind:     kind,
		W:        sp.Width,
		H:        sp.Height,
		R:        sp.R,
		Z:        sp.Z,
		Rotation: sp.Degrees * math.Pi / 180,
		Scale:    sp.Scale,
		Samples:  sp.Samples,
		StartT:   sp.StartT,
		EndT:     sp.EndT,
		Style:    buildStyle(sp.Style),
	}

	switch kind {
	case scene.KindRect, scene.KindCircle, scene.KindEllipse:
	case scene.KindPolygon:
		for _, v := range sp.Vertices {
			if len(v) != 2 {
				return nil, errors.New(errors.ErrCodeInvalidScene,
					"shape %q: vertex %v is not an [x, y] pair", sp.ID, v)
			}
			s.Vertices = append(s.Vertices, geom.Pt(v[0], v[1]))
		}
	case scene.KindPath:
		if sp.Curve == nil {
			return nil, errors.New(errors.ErrCodeInvalidScene,
				"shape %q: path shapes need a curve table", sp.ID)
		}
		cv, err := buildCurve(*sp.Curve)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "shape %q", sp.ID)
		}
		s.Curve = cv
	default:
		return nil, errors.New(errors.ErrCodeInvalidScene,
			"shape %q: unknown kind %q", sp.ID, sp.Kind)
	}
	return s, nil
}

func buildBinding(c *scene.Canvas, sp ShapeSpec) (scene.Binding, error) {
	at := sp.At
	abs := at.X != nil || at.Y != nil
	rel := at.Fx != nil || at.Fy != nil || at.Frame != ""
	path := at.Path != "" || at.T != nil

	switch {
	case abs && !rel && !path:
		return scene.Absolute(deref(at.X), deref(at.Y)), nil
	case rel && !abs && !path:
		return scene.RelativeTo(at.Frame, deref(at.Fx), deref(at.Fy)), nil
	case path && !abs && !rel:
		if at.Path == "" {
			return scene.Binding{}, errors.New(errors.ErrCodeInvalidScene,
				"shape %q: path binding needs a path id", sp.ID)
		}
		target, ok := c.Shape(at.Path)
		if !ok {
			return scene.Binding{}, errors.New(errors.ErrCodeUnknownShape,
				"shape %q: path binding references unknown shape %q", sp.ID, at.Path)
		}
		if target.Kind != scene.KindPath || target.Curve == nil {
			return scene.Binding{}, errors.New(errors.ErrCodeInvalidScene,
				"shape %q: path binding target %q is not a path shape", sp.ID, at.Path)
		}
		return scene.OnPath(trackShape(c, at.Path), deref(at.T)), nil
	case !abs && !rel && !path:
		// No at table: absolute at the origin.
		return scene.Absolute(0, 0), nil
	default:
		return scene.Binding{}, errors.New(errors.ErrCodeInvalidScene,
			"shape %q: at table mixes binding modes", sp.ID)
	}
}

// trackShape returns a curve that follows a path shape wherever its own
// binding puts it: the target's local curve offset by its resolved position.
// The target is looked up per evaluation, so later mutations and removals
// are honored.
func trackShape(c *scene.Canvas, id string) curve.Pather {
	return &shapeTrack{canvas: c, id: id}
}

// shapeTrack evaluates a tracked path shape. PointAt cannot return an error,
// so a failed evaluation yields a non-finite point and records why; the
// resolver picks the cause up through Err, keeping cycle diagnostics intact
// instead of collapsing them to NON_FINITE_GEOMETRY.
type shapeTrack struct {
	canvas *scene.Canvas
	id     string
	err    error
}

func (st *shapeTrack) PointAt(t float64) geom.Point {
	st.err = nil
	s, ok := st.canvas.Shape(st.id)
	if !ok || s.Curve == nil {
		st.err = errors.New(errors.ErrCodeRemovedReference,
			"path binding target %q was removed or lost its curve", st.id)
		return geom.Pt(math.NaN(), math.NaN())
	}
	center, err := st.canvas.Resolve(st.id)
	if err != nil {
		st.err = err
		return geom.Pt(math.NaN(), math.NaN())
	}
	p := s.Curve.PointAt(t)
	return center.Add(geom.Vec2(p).Scale(s.EffectiveScale()))
}

// Err reports why the last PointAt evaluation failed, or nil.
func (st *shapeTrack) Err() error { return st.err }

func buildLink(c *scene.Canvas, ls LinkSpec) error {
	var tmpl curve.Pather
	if ls.Template != nil {
		cv, err := buildCurve(*ls.Template)
		if err != nil {
			return errors.Wrap(errors.GetCode(err), err, "link %q", ls.ID)
		}
		tmpl = cv
	}

	l, err := scene.NewLink(ls.ID, endpoint(ls.From), endpoint(ls.To), tmpl)
	if err != nil {
		return err
	}
	l.Z = ls.Z
	l.Invisible = ls.Invisible
	l.Samples = ls.Samples
	l.Style = buildStyle(ls.Style)
	if err := c.AddLink(l); err != nil {
		return errors.Wrap(errors.GetCode(err), err, "link %q", ls.ID)
	}
	return nil
}

func endpoint(r EndpointRef) scene.Endpoint {
	anchor := r.Anchor
	if anchor == "" {
		anchor = scene.AnchorCenter
	}
	return scene.Endpoint{ShapeID: r.Shape, Anchor: anchor}
}

func buildStyle(st StyleSpec) scene.Style {
	return scene.Style{
		Stroke:      st.Stroke,
		StrokeWidth: st.StrokeWidth,
		Fill:        st.Fill,
		Opacity:     st.Opacity,
		Dash:        st.Dash,
		ArrowStart:  st.ArrowStart,
		ArrowEnd:    st.ArrowEnd,
		ArrowSize:   st.ArrowSize,
	}
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
