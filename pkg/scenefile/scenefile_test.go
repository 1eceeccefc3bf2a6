package scenefile

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inkscene/inkscene/pkg/errors"
	"github.com/inkscene/inkscene/pkg/geom"
	"github.com/inkscene/inkscene/pkg/scene"
)

const sampleScene = `
[canvas]
width = 800
height = 600
background = "white"

[[surface]]
id = "panel"
x = 100
y = 100
width = 200
height = 100

[[shape]]
id = "box"
kind = "rect"
surface = "panel"
width = 40
height = 20
at = { fx = 0.5, fy = 0.5 }
style = { fill = "steelblue", stroke = "navy", stroke_width = 2 }

[[shape]]
id = "orbit"
kind = "path"
at = { x = 400, y = 300 }
samples = 24
style = { stroke = "gray", dash = [2, 4] }

[shape.curve]
type = "circle"
r = 80

[[shape]]
id = "moon"
kind = "circle"
r = 8
at = { path = "orbit", t = 0.25 }
style = { fill = "silver" }

[[link]]
id = "tether"
from = { shape = "box" }
to = { shape = "moon", anchor = "center" }
style = { stroke = "gray", arrow_end = true }

[link.template]
type = "wave"
amplitude = 0.1
cycles = 2
`

func TestParseSampleScene(t *testing.T) {
	c, err := Parse([]byte(sampleScene))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if c.W != 800 || c.H != 600 || c.Background != "white" {
		t.Errorf("canvas = %gx%g %q", c.W, c.H, c.Background)
	}

	// Relative shape resolves against its surface.
	p, err := c.Resolve("box")
	if err != nil {
		t.Fatalf("Resolve(box): %v", err)
	}
	if p != geom.Pt(200, 150) {
		t.Errorf("box = %v, want (200, 150)", p)
	}

	// Path-bound shape rides the orbit: t=0.25 is the top of the circle.
	p, err = c.Resolve("moon")
	if err != nil {
		t.Fatalf("Resolve(moon): %v", err)
	}
	want := geom.Pt(400, 220)
	if math.Abs(p.X-want.X) > 1e-9 || math.Abs(p.Y-want.Y) > 1e-9 {
		t.Errorf("moon = %v, want %v", p, want)
	}

	// Moving the orbit moves the moon.
	orbit, _ := c.Shape("orbit")
	orbit.MoveTo(0, 0)
	p, _ = c.Resolve("moon")
	if math.Abs(p.X) > 1e-9 || math.Abs(p.Y+80) > 1e-9 {
		t.Errorf("moon after move = %v, want (0, -80)", p)
	}

	l, ok := c.Link("tether")
	if !ok {
		t.Fatal("link tether not registered")
	}
	if l.From.Anchor != scene.AnchorCenter {
		t.Errorf("empty anchor defaulted to %q, want center", l.From.Anchor)
	}
	if l.Template == nil {
		t.Error("wave template not built")
	}
	if !l.Style.ArrowEnd {
		t.Error("arrow_end not applied")
	}

	box, _ := c.Shape("box")
	if box.Style.StrokeWidth != 2 || box.Style.Fill != "steelblue" {
		t.Errorf("box style = %+v", box.Style)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.toml")
	if err := os.WriteFile(path, []byte(sampleScene), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Shapes()) != 3 {
		t.Errorf("len(Shapes) = %d, want 3", len(c.Shapes()))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
		msg  string
	}{
		{
			name: "BadTOML",
			src:  "[canvas\nwidth = 1",
			code: errors.ErrCodeInvalidFormat,
		},
		{
			name: "NoCanvasSize",
			src:  "[canvas]\nwidth = 100",
			code: errors.ErrCodeInvalidScene,
			msg:  "not positive",
		},
		{
			name: "UnknownKind",
			src: `
[canvas]
width = 100
height = 100
[[shape]]
id = "x"
kind = "blob"
`,
			code: errors.ErrCodeInvalidScene,
			msg:  "unknown kind",
		},
		{
			name: "MixedBindingModes",
			src: `
[canvas]
width = 100
height = 100
[[shape]]
id = "x"
kind = "circle"
r = 1
at = { x = 10, fx = 0.5 }
`,
			code: errors.ErrCodeInvalidScene,
			msg:  "mixes binding modes",
		},
		{
			name: "PathBindingToNonPath",
			src: `
[canvas]
width = 100
height = 100
[[shape]]
id = "a"
kind = "circle"
r = 1
at = { x = 10, y = 10 }
[[shape]]
id = "b"
kind = "circle"
r = 1
at = { path = "a", t = 0.5 }
`,
			code: errors.ErrCodeInvalidScene,
			msg:  "is not a path shape",
		},
		{
			name: "PathShapeWithoutCurve",
			src: `
[canvas]
width = 100
height = 100
[[shape]]
id = "p"
kind = "path"
`,
			code: errors.ErrCodeInvalidScene,
			msg:  "need a curve",
		},
		{
			name: "ClosedTemplate",
			src: `
[canvas]
width = 100
height = 100
[[shape]]
id = "a"
kind = "circle"
r = 1
at = { x = 10, y = 10 }
[[shape]]
id = "b"
kind = "circle"
r = 1
at = { x = 90, y = 10 }
[[link]]
id = "ab"
from = { shape = "a" }
to = { shape = "b" }
template = { type = "circle", r = 5 }
`,
			code: errors.ErrCodeInvalidLinkShape,
		},
		{
			name: "DuplicateID",
			src: `
[canvas]
width = 100
height = 100
[[shape]]
id = "a"
kind = "circle"
r = 1
[[shape]]
id = "a"
kind = "circle"
r = 1
`,
			code: errors.ErrCodeInvalidInput,
			msg:  "duplicate",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if !errors.Is(err, tt.code) {
				t.Fatalf("error = %v, want code %s", err, tt.code)
			}
			if tt.msg != "" && !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q does not mention %q", err, tt.msg)
			}
		})
	}
}

func TestBindingDefaultsToOrigin(t *testing.T) {
	c, err := Parse([]byte(`
[canvas]
width = 100
height = 100
[[shape]]
id = "a"
kind = "circle"
r = 1
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p, err := c.Resolve("a")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p != geom.Pt(0, 0) {
		t.Errorf("position = %v, want origin", p)
	}
}

const trackedScene = `
[canvas]
width = 200
height = 200

[[shape]]
id = "base"
kind = "rect"
width = 10
height = 10
at = { x = 100, y = 100 }

[[shape]]
id = "track"
kind = "path"
at = { frame = "base", fx = 0.5, fy = 0.5 }

[shape.curve]
type = "circle"
r = 20

[[shape]]
id = "rider"
kind = "circle"
r = 2
at = { path = "track", t = 0.25 }
`

func TestTrackedShapeCycle(t *testing.T) {
	// base anchors track, rider rides track; rebinding base onto rider
	// closes a loop that runs through the tracked curve. The cycle must
	// surface as CYCLIC_RESOLUTION, not as a non-finite position.
	c, err := Parse([]byte(trackedScene))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := c.Resolve("rider"); err != nil {
		t.Fatalf("acyclic Resolve: %v", err)
	}

	base, _ := c.Shape("base")
	base.SetBinding(scene.RelativeTo("rider", 0.5, 0.5))

	_, err = c.Resolve("base")
	if !errors.Is(err, errors.ErrCodeCyclicResolution) {
		t.Errorf("error = %v, want CYCLIC_RESOLUTION", err)
	}
	if !strings.Contains(err.Error(), "base") || !strings.Contains(err.Error(), "rider") {
		t.Errorf("diagnostic %q does not name the cycle members", err.Error())
	}
}

func TestTrackedShapeRemovedTarget(t *testing.T) {
	c, err := Parse([]byte(trackedScene))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := c.RemoveShape("track"); err != nil {
		t.Fatalf("RemoveShape: %v", err)
	}

	_, err = c.Resolve("rider")
	if !errors.Is(err, errors.ErrCodeRemovedReference) {
		t.Errorf("error = %v, want REMOVED_REFERENCE", err)
	}
}

func TestRotationDegreesToRadians(t *testing.T) {
	c, err := Parse([]byte(`
[canvas]
width = 100
height = 100
[[shape]]
id = "a"
kind = "rect"
width = 10
height = 10
rotation = 90
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s, _ := c.Shape("a")
	if math.Abs(s.Rotation-math.Pi/2) > 1e-12 {
		t.Errorf("rotation = %g rad, want pi/2", s.Rotation)
	}
}
