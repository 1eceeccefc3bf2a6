package scene

import (
	"math"
	"testing"

	"github.com/inkscene/inkscene/pkg/curve"
	"github.com/inkscene/inkscene/pkg/errors"
	"github.com/inkscene/inkscene/pkg/geom"
)

func linkFixture(t *testing.T) *Canvas {
	t.Helper()
	c := NewCanvas(400, 400)
	mustAddShape(t, c, "", &Shape{ID: "a", Kind: KindCircle, R: 5, binding: Absolute(0, 0)})
	mustAddShape(t, c, "", &Shape{ID: "b", Kind: KindCircle, R: 5, binding: Absolute(100, 0)})
	return c
}

func TestStraightLinkPointAt(t *testing.T) {
	c := linkFixture(t)
	l, err := NewLink("ab", Endpoint{"a", AnchorCenter}, Endpoint{"b", AnchorCenter}, nil)
	if err != nil {
		t.Fatalf("NewLink: %v", err)
	}
	if err := c.AddLink(l); err != nil {
		t.Fatalf("AddLink: %v", err)
	}

	g, err := c.ResolveLink("ab")
	if err != nil {
		t.Fatalf("ResolveLink: %v", err)
	}
	if g.Segments != nil {
		t.Error("straight link produced template segments")
	}
	if got := g.PointAt(0.5); got != geom.Pt(50, 0) {
		t.Errorf("PointAt(0.5) = %v, want (50, 0)", got)
	}
}

func TestInvisibleLinkStillQueries(t *testing.T) {
	c := linkFixture(t)
	l, _ := NewLink("ab", Endpoint{"a", AnchorCenter}, Endpoint{"b", AnchorCenter}, nil)
	l.Invisible = true
	if err := c.AddLink(l); err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	g, err := c.ResolveLink("ab")
	if err != nil {
		t.Fatalf("ResolveLink: %v", err)
	}
	if got := g.PointAt(0.25); got != geom.Pt(25, 0) {
		t.Errorf("PointAt(0.25) = %v, want (25, 0)", got)
	}
}

func TestLinkFollowsShapes(t *testing.T) {
	c := linkFixture(t)
	l, _ := NewLink("ab", Endpoint{"a", AnchorCenter}, Endpoint{"b", AnchorCenter}, nil)
	if err := c.AddLink(l); err != nil {
		t.Fatalf("AddLink: %v", err)
	}

	b, _ := c.Shape("b")
	b.MoveTo(0, 200)
	g, err := c.ResolveLink("ab")
	if err != nil {
		t.Fatalf("ResolveLink: %v", err)
	}
	if g.B != geom.Pt(0, 200) {
		t.Errorf("link end = %v, want (0, 200)", g.B)
	}
}

func TestTemplatedLinkEndpointExactness(t *testing.T) {
	// A wave template at an arbitrary internal scale: the mapped curve must
	// start and end exactly on the resolved anchors.
	wave := curve.Func(func(tt float64) geom.Point {
		return geom.Pt(1000*tt, 80*math.Sin(2*math.Pi*tt))
	})

	tests := []struct {
		name string
		a, b geom.Point
	}{
		{"Horizontal", geom.Pt(10, 10), geom.Pt(110, 10)},
		{"Diagonal", geom.Pt(-5, 3), geom.Pt(40, 90)},
		{"Short", geom.Pt(0, 0), geom.Pt(0.5, 0.25)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(400, 400)
			mustAddShape(t, c, "", &Shape{ID: "a", Kind: KindCircle, R: 1, binding: Absolute(tt.a.X, tt.a.Y)})
			mustAddShape(t, c, "", &Shape{ID: "b", Kind: KindCircle, R: 1, binding: Absolute(tt.b.X, tt.b.Y)})
			l, err := NewLink("ab", Endpoint{"a", AnchorCenter}, Endpoint{"b", AnchorCenter}, wave)
			if err != nil {
				t.Fatalf("NewLink: %v", err)
			}
			if err := c.AddLink(l); err != nil {
				t.Fatalf("AddLink: %v", err)
			}

			g, err := c.ResolveLink("ab")
			if err != nil {
				t.Fatalf("ResolveLink: %v", err)
			}
			if len(g.Segments) == 0 {
				t.Fatal("templated link produced no segments")
			}
			if got := g.Segments[0].P0; got != tt.a {
				t.Errorf("curve start = %v, want %v exactly", got, tt.a)
			}
			if got := g.Segments[len(g.Segments)-1].P3; got != tt.b {
				t.Errorf("curve end = %v, want %v exactly", got, tt.b)
			}
		})
	}
}

func TestTemplatedLinkMapsInterior(t *testing.T) {
	// A unit-chord template with a known midpoint bulge: mapped onto a
	// vertical chord, the bulge must appear perpendicular to it with length
	// scaled by the chord ratio.
	tmpl := curve.NewQuadCurve(geom.Pt(0, 0), geom.Pt(1, 0), 1)
	c := NewCanvas(400, 400)
	mustAddShape(t, c, "", &Shape{ID: "a", Kind: KindCircle, R: 1, binding: Absolute(0, 0)})
	mustAddShape(t, c, "", &Shape{ID: "b", Kind: KindCircle, R: 1, binding: Absolute(0, 100)})
	l, err := NewLink("ab", Endpoint{"a", AnchorCenter}, Endpoint{"b", AnchorCenter}, tmpl)
	if err != nil {
		t.Fatalf("NewLink: %v", err)
	}
	l.Samples = 17 // odd count puts a sample exactly at t=0.5
	if err := c.AddLink(l); err != nil {
		t.Fatalf("AddLink: %v", err)
	}

	g, err := c.ResolveLink("ab")
	if err != nil {
		t.Fatalf("ResolveLink: %v", err)
	}
	// The template's Bezier midpoint is (0.5, -0.25). Mapping onto the chord
	// (0,0)->(0,100) rotates +x onto +y and scales by 100, landing the bulge
	// at (25, 50). Sample 8 of 17 sits exactly at t=0.5.
	mid := g.Segments[8].P0
	want := geom.Pt(25, 50)
	if !pointsClose(mid, want) {
		t.Errorf("mapped midpoint = %v, want %v", mid, want)
	}
}

func TestClosedTemplateRejected(t *testing.T) {
	_, err := NewLink("bad", Endpoint{"a", AnchorCenter}, Endpoint{"b", AnchorCenter},
		curve.NewCircle(geom.Pt(0, 0), 10))
	if !errors.Is(err, errors.ErrCodeInvalidLinkShape) {
		t.Errorf("error = %v, want INVALID_LINK_SHAPE", err)
	}
}

func TestDegenerateTemplateRejected(t *testing.T) {
	flat := curve.Func(func(float64) geom.Point { return geom.Pt(1, 1) })
	_, err := NewLink("bad", Endpoint{"a", AnchorCenter}, Endpoint{"b", AnchorCenter}, flat)
	if !errors.Is(err, errors.ErrCodeInvalidLinkShape) {
		t.Errorf("error = %v, want INVALID_LINK_SHAPE", err)
	}
}

func TestAddLinkValidatesAnchors(t *testing.T) {
	c := linkFixture(t)
	l, _ := NewLink("ab", Endpoint{"a", AnchorTopLeft}, Endpoint{"b", AnchorCenter}, nil)
	if err := c.AddLink(l); !errors.Is(err, errors.ErrCodeUnknownAnchor) {
		t.Errorf("circle corner endpoint: error = %v, want UNKNOWN_ANCHOR", err)
	}

	l2, _ := NewLink("ax", Endpoint{"a", AnchorCenter}, Endpoint{"ghost", AnchorCenter}, nil)
	if err := c.AddLink(l2); !errors.Is(err, errors.ErrCodeUnknownShape) {
		t.Errorf("missing endpoint shape: error = %v, want UNKNOWN_SHAPE", err)
	}
}

func TestLinkParticipationSet(t *testing.T) {
	c := linkFixture(t)
	l, _ := NewLink("ab", Endpoint{"a", AnchorCenter}, Endpoint{"b", AnchorCenter}, nil)
	if err := c.AddLink(l); err != nil {
		t.Fatalf("AddLink: %v", err)
	}

	a, _ := c.Shape("a")
	if got := a.Links(); len(got) != 1 || got[0] != "ab" {
		t.Errorf("Links() = %v, want [ab]", got)
	}

	if err := c.RemoveLink("ab"); err != nil {
		t.Fatalf("RemoveLink: %v", err)
	}
	if got := a.Links(); len(got) != 0 {
		t.Errorf("Links() after removal = %v, want empty", got)
	}
}
