package scene

import (
	"math"
	"testing"

	"github.com/inkscene/inkscene/pkg/curve"
	"github.com/inkscene/inkscene/pkg/errors"
	"github.com/inkscene/inkscene/pkg/geom"
)

const eps = 1e-9

func pointsClose(a, b geom.Point) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}

func newTestCanvas(t *testing.T) *Canvas {
	t.Helper()
	c := NewCanvas(800, 600)
	if err := c.AddSurface(NewSurface("main", geom.NewRect(100, 100, 200, 100))); err != nil {
		t.Fatalf("AddSurface: %v", err)
	}
	return c
}

func mustAddShape(t *testing.T, c *Canvas, surfaceID string, s *Shape) {
	t.Helper()
	if err := c.AddShape(surfaceID, s); err != nil {
		t.Fatalf("AddShape(%s): %v", s.ID, err)
	}
}

func TestResolveAbsolute(t *testing.T) {
	c := newTestCanvas(t)
	mustAddShape(t, c, "", &Shape{ID: "a", Kind: KindCircle, R: 5, binding: Absolute(42, 24)})

	p, err := c.Resolve("a")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p != geom.Pt(42, 24) {
		t.Errorf("Resolve = %v, want (42, 24)", p)
	}
}

func TestResolveRelative(t *testing.T) {
	c := newTestCanvas(t)

	tests := []struct {
		name    string
		surface string
		binding Binding
		want    geom.Point
	}{
		{"SurfaceCenter", "main", RelativeTo("", 0.5, 0.5), geom.Pt(200, 150)},
		{"SurfaceCorner", "main", RelativeTo("", 0, 0), geom.Pt(100, 100)},
		{"CanvasFallback", "", RelativeTo("", 0.25, 0.5), geom.Pt(200, 300)},
		{"NamedSurface", "", RelativeTo("main", 1, 1), geom.Pt(300, 200)},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := string(rune('a' + i))
			mustAddShape(t, c, tt.surface, &Shape{ID: id, Kind: KindCircle, R: 1, binding: tt.binding})
			p, err := c.Resolve(id)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if !pointsClose(p, tt.want) {
				t.Errorf("Resolve = %v, want %v", p, tt.want)
			}
		})
	}
}

func TestResolveRelativeToShapeBounds(t *testing.T) {
	c := newTestCanvas(t)
	// A 40x20 rect centered at (100, 100): bounds [80, 90, 40, 20].
	mustAddShape(t, c, "", &Shape{ID: "ref", Kind: KindRect, W: 40, H: 20, binding: Absolute(100, 100)})
	mustAddShape(t, c, "", &Shape{ID: "sat", Kind: KindCircle, R: 2, binding: RelativeTo("ref", 1, 0)})

	p, err := c.Resolve("sat")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !pointsClose(p, geom.Pt(120, 90)) {
		t.Errorf("Resolve = %v, want (120, 90)", p)
	}

	// Moving the reference moves the satellite on the next query; nothing
	// is cached.
	ref, _ := c.Shape("ref")
	ref.MoveTo(0, 0)
	p, err = c.Resolve("sat")
	if err != nil {
		t.Fatalf("Resolve after move: %v", err)
	}
	if !pointsClose(p, geom.Pt(20, -10)) {
		t.Errorf("Resolve after move = %v, want (20, -10)", p)
	}
}

func TestResolvePathBound(t *testing.T) {
	c := newTestCanvas(t)
	orbit := curve.NewCircle(geom.Pt(100, 100), 50)
	mustAddShape(t, c, "", &Shape{ID: "p", Kind: KindCircle, R: 3, binding: OnPath(orbit, 0.25)})

	p, err := c.Resolve("p")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !pointsClose(p, geom.Pt(100, 50)) {
		t.Errorf("Resolve = %v, want (100, 50)", p)
	}
}

func TestResolveCycleTwoShapes(t *testing.T) {
	// The spec scenario: A relative in a container, B relative to A, then A
	// rebound relative to B.
	c := NewCanvas(100, 100)
	mustAddShape(t, c, "", &Shape{ID: "a", Kind: KindRect, W: 10, H: 10, binding: RelativeTo("", 0.5, 0.5)})
	mustAddShape(t, c, "", &Shape{ID: "b", Kind: KindRect, W: 10, H: 10, binding: RelativeTo("a", 0.5, 0.5)})

	// Sanity: the chain resolves while it is acyclic.
	if _, err := c.Resolve("b"); err != nil {
		t.Fatalf("acyclic Resolve: %v", err)
	}

	a, _ := c.Shape("a")
	a.SetBinding(RelativeTo("b", 0.5, 0.5))

	_, err := c.Resolve("a")
	if err == nil {
		t.Fatal("expected cyclic resolution error")
	}
	if !errors.Is(err, errors.ErrCodeCyclicResolution) {
		t.Errorf("error code = %v, want CYCLIC_RESOLUTION", errors.GetCode(err))
	}
}

// followCurve tracks another shape's resolved position, recording resolution
// failures the way canvas-querying curves do.
type followCurve struct {
	c   *Canvas
	id  string
	err error
}

func (fc *followCurve) PointAt(float64) geom.Point {
	fc.err = nil
	p, err := fc.c.Resolve(fc.id)
	if err != nil {
		fc.err = err
		return geom.Pt(math.NaN(), math.NaN())
	}
	return p
}

func (fc *followCurve) Err() error { return fc.err }

func TestResolveCycleThroughPath(t *testing.T) {
	// A shape bound to a curve defined in terms of the shape itself: the
	// re-entrancy guard must catch the loop routed through the curve, and
	// the recorded cause must surface as CYCLIC_RESOLUTION rather than
	// collapsing to a bare non-finite position.
	c := NewCanvas(100, 100)
	mustAddShape(t, c, "", &Shape{ID: "p", Kind: KindCircle, R: 1,
		binding: OnPath(&followCurve{c: c, id: "p"}, 0.5)})

	_, err := c.Resolve("p")
	if !errors.Is(err, errors.ErrCodeCyclicResolution) {
		t.Errorf("error = %v, want CYCLIC_RESOLUTION", err)
	}
}

func TestResolvePathCurveWithoutErrorReporting(t *testing.T) {
	// A curve that yields non-finite points without exposing a cause still
	// fails resolution, just with the generic geometry error.
	c := NewCanvas(100, 100)
	nan := curve.Func(func(float64) geom.Point {
		return geom.Pt(math.NaN(), math.NaN())
	})
	mustAddShape(t, c, "", &Shape{ID: "p", Kind: KindCircle, R: 1, binding: OnPath(nan, 0.5)})

	_, err := c.Resolve("p")
	if !errors.Is(err, errors.ErrCodeNonFiniteGeometry) {
		t.Errorf("error = %v, want NON_FINITE_GEOMETRY", err)
	}
}

func TestResolveSelfReference(t *testing.T) {
	c := NewCanvas(100, 100)
	mustAddShape(t, c, "", &Shape{ID: "a", Kind: KindRect, W: 10, H: 10, binding: RelativeTo("a", 0.5, 0.5)})

	_, err := c.Resolve("a")
	if !errors.Is(err, errors.ErrCodeCyclicResolution) {
		t.Errorf("error = %v, want CYCLIC_RESOLUTION", err)
	}
}

func TestResolveUnknownFrame(t *testing.T) {
	c := NewCanvas(100, 100)
	mustAddShape(t, c, "", &Shape{ID: "a", Kind: KindCircle, R: 1, binding: RelativeTo("ghost", 0.5, 0.5)})

	_, err := c.Resolve("a")
	if !errors.Is(err, errors.ErrCodeUnknownFrame) {
		t.Errorf("error = %v, want UNKNOWN_FRAME", err)
	}
}

func TestResolveGuardResetsAfterError(t *testing.T) {
	// A failed resolution must not leave the resolving flag set; the next
	// query on the same shape starts clean.
	c := NewCanvas(100, 100)
	mustAddShape(t, c, "", &Shape{ID: "a", Kind: KindCircle, R: 1, binding: RelativeTo("ghost", 0.5, 0.5)})

	_, _ = c.Resolve("a")
	a, _ := c.Shape("a")
	a.MoveTo(7, 7)
	p, err := c.Resolve("a")
	if err != nil {
		t.Fatalf("Resolve after recovery: %v", err)
	}
	if p != geom.Pt(7, 7) {
		t.Errorf("Resolve = %v, want (7, 7)", p)
	}
}

func TestBakePreservesPosition(t *testing.T) {
	c := newTestCanvas(t)
	mustAddShape(t, c, "main", &Shape{ID: "a", Kind: KindCircle, R: 5, binding: RelativeTo("", 0.5, 0.5)})

	before, err := c.Resolve("a")
	if err != nil {
		t.Fatalf("Resolve before bake: %v", err)
	}
	if err := c.Bake("a"); err != nil {
		t.Fatalf("Bake: %v", err)
	}
	after, err := c.Resolve("a")
	if err != nil {
		t.Fatalf("Resolve after bake: %v", err)
	}
	if before != after {
		t.Errorf("bake moved the shape: %v != %v", before, after)
	}

	a, _ := c.Shape("a")
	if a.Binding().Mode() != ModeAbsolute {
		t.Errorf("binding mode = %v, want absolute", a.Binding().Mode())
	}

	// The old relative data is gone: moving the surface no longer moves
	// the shape.
	surf, _ := c.Surface("main")
	surf.Rect = geom.NewRect(0, 0, 10, 10)
	p, _ := c.Resolve("a")
	if p != after {
		t.Errorf("baked shape moved with its former frame: %v", p)
	}
}

func TestBakeAbsoluteNoop(t *testing.T) {
	c := NewCanvas(100, 100)
	mustAddShape(t, c, "", &Shape{ID: "a", Kind: KindCircle, R: 1, binding: Absolute(3, 4)})
	if err := c.Bake("a"); err != nil {
		t.Fatalf("Bake: %v", err)
	}
	if p, _ := c.Resolve("a"); p != geom.Pt(3, 4) {
		t.Errorf("Resolve = %v, want (3, 4)", p)
	}
}

func TestResolveSize(t *testing.T) {
	c := newTestCanvas(t)
	mustAddShape(t, c, "main", &Shape{ID: "a", Kind: KindRect, W: 1, H: 1, binding: Absolute(0, 0)})
	mustAddShape(t, c, "", &Shape{ID: "b", Kind: KindRect, W: 1, H: 1, binding: Absolute(0, 0)})

	tests := []struct {
		name     string
		id       string
		fraction float64
		axis     Axis
		want     float64
	}{
		{"SurfaceWidth", "a", 0.5, AxisX, 100},
		{"SurfaceHeight", "a", 0.1, AxisY, 10},
		{"CanvasWidth", "b", 0.5, AxisX, 400},
		{"CanvasHeight", "b", 1, AxisY, 600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ResolveSize(tt.id, tt.fraction, tt.axis)
			if err != nil {
				t.Fatalf("ResolveSize: %v", err)
			}
			if math.Abs(got-tt.want) > eps {
				t.Errorf("ResolveSize = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnchorPoints(t *testing.T) {
	c := NewCanvas(400, 400)
	mustAddShape(t, c, "", &Shape{ID: "box", Kind: KindRect, W: 40, H: 20, binding: Absolute(100, 100)})
	mustAddShape(t, c, "", &Shape{ID: "dot", Kind: KindCircle, R: 5, binding: Absolute(50, 50)})

	tests := []struct {
		id     string
		anchor string
		want   geom.Point
	}{
		{"box", AnchorCenter, geom.Pt(100, 100)},
		{"box", AnchorTopLeft, geom.Pt(80, 90)},
		{"box", AnchorBottomRight, geom.Pt(120, 110)},
		{"box", AnchorTop, geom.Pt(100, 90)},
		{"box", AnchorLeft, geom.Pt(80, 100)},
		{"dot", AnchorCenter, geom.Pt(50, 50)},
	}
	for _, tt := range tests {
		t.Run(tt.id+"/"+tt.anchor, func(t *testing.T) {
			got, err := c.AnchorPoint(tt.id, tt.anchor)
			if err != nil {
				t.Fatalf("AnchorPoint: %v", err)
			}
			if !pointsClose(got, tt.want) {
				t.Errorf("AnchorPoint = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnchorUnknownName(t *testing.T) {
	c := NewCanvas(400, 400)
	mustAddShape(t, c, "", &Shape{ID: "box", Kind: KindRect, W: 10, H: 10, binding: Absolute(0, 0)})
	mustAddShape(t, c, "", &Shape{ID: "dot", Kind: KindCircle, R: 5, binding: Absolute(0, 0)})

	// No fallback: a bogus name fails, and so does a box anchor on a circle.
	if _, err := c.AnchorPoint("box", "middle-ish"); !errors.Is(err, errors.ErrCodeUnknownAnchor) {
		t.Errorf("bogus name: error = %v, want UNKNOWN_ANCHOR", err)
	}
	if _, err := c.AnchorPoint("dot", AnchorTopLeft); !errors.Is(err, errors.ErrCodeUnknownAnchor) {
		t.Errorf("circle corner: error = %v, want UNKNOWN_ANCHOR", err)
	}
}

func TestAnchorPointUnknownShape(t *testing.T) {
	// Direct lookups of an id that was never registered report the shape as
	// unknown, same as Resolve. REMOVED_REFERENCE is reserved for links
	// whose endpoints vanished after registration.
	c := NewCanvas(400, 400)
	_, err := c.AnchorPoint("ghost", AnchorCenter)
	if !errors.Is(err, errors.ErrCodeUnknownShape) {
		t.Errorf("error = %v, want UNKNOWN_SHAPE", err)
	}
}

func TestAnchorScaledBounds(t *testing.T) {
	c := NewCanvas(400, 400)
	s := &Shape{ID: "box", Kind: KindRect, W: 40, H: 20, binding: Absolute(100, 100)}
	mustAddShape(t, c, "", s)
	s.ScaleBy(2)

	got, err := c.AnchorPoint("box", AnchorTopLeft)
	if err != nil {
		t.Fatalf("AnchorPoint: %v", err)
	}
	if !pointsClose(got, geom.Pt(60, 80)) {
		t.Errorf("AnchorPoint = %v, want (60, 80)", got)
	}
}

func TestRemoveShapeKeepsLinks(t *testing.T) {
	c := NewCanvas(400, 400)
	mustAddShape(t, c, "", &Shape{ID: "a", Kind: KindCircle, R: 5, binding: Absolute(0, 0)})
	mustAddShape(t, c, "", &Shape{ID: "b", Kind: KindCircle, R: 5, binding: Absolute(100, 0)})
	l, err := NewLink("ab", Endpoint{"a", AnchorCenter}, Endpoint{"b", AnchorCenter}, nil)
	if err != nil {
		t.Fatalf("NewLink: %v", err)
	}
	if err := c.AddLink(l); err != nil {
		t.Fatalf("AddLink: %v", err)
	}

	// Outstanding link references never block removal.
	if err := c.RemoveShape("a"); err != nil {
		t.Fatalf("RemoveShape: %v", err)
	}

	// The link stays registered but its next resolution fails cleanly.
	if _, ok := c.Link("ab"); !ok {
		t.Fatal("link was removed along with the shape")
	}
	_, err = c.ResolveLink("ab")
	if !errors.Is(err, errors.ErrCodeRemovedReference) {
		t.Errorf("error = %v, want REMOVED_REFERENCE", err)
	}
}

func TestCanvasRegistration(t *testing.T) {
	c := NewCanvas(100, 100)
	if err := c.AddShape("", &Shape{ID: "", Kind: KindRect}); err == nil {
		t.Error("empty id accepted")
	}
	mustAddShape(t, c, "", &Shape{ID: "a", Kind: KindRect, binding: Absolute(0, 0)})
	if err := c.AddShape("", &Shape{ID: "a", Kind: KindCircle}); err == nil {
		t.Error("duplicate id accepted")
	}
	if err := c.AddShape("ghost", &Shape{ID: "b", Kind: KindRect}); !errors.Is(err, errors.ErrCodeUnknownFrame) {
		t.Errorf("unknown surface: error = %v, want UNKNOWN_FRAME", err)
	}
	if err := c.RemoveShape("ghost"); !errors.Is(err, errors.ErrCodeUnknownShape) {
		t.Errorf("remove unknown: error = %v, want UNKNOWN_SHAPE", err)
	}
}

func TestShapesRegistrationOrder(t *testing.T) {
	c := NewCanvas(100, 100)
	for _, id := range []string{"z", "m", "a"} {
		mustAddShape(t, c, "", &Shape{ID: id, Kind: KindRect, binding: Absolute(0, 0)})
	}
	got := c.Shapes()
	want := []string{"z", "m", "a"}
	for i, s := range got {
		if s.ID != want[i] {
			t.Errorf("Shapes()[%d] = %s, want %s", i, s.ID, want[i])
		}
	}
}
