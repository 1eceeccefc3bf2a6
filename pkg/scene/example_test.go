package scene_test

import (
	"fmt"
	"log"

	"github.com/inkscene/inkscene/pkg/geom"
	"github.com/inkscene/inkscene/pkg/scene"
)

func ExampleCanvas_Resolve() {
	c := scene.NewCanvas(800, 600)
	if err := c.AddSurface(scene.NewSurface("panel", geom.NewRect(100, 100, 200, 100))); err != nil {
		log.Fatal(err)
	}

	dot := &scene.Shape{ID: "dot", Kind: scene.KindCircle, R: 5}
	dot.SetBinding(scene.RelativeTo("", 0.5, 0.5))
	if err := c.AddShape("panel", dot); err != nil {
		log.Fatal(err)
	}

	p, err := c.Resolve("dot")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(p)

	// Moving the surface moves the shape with it.
	surf, _ := c.Surface("panel")
	surf.Rect.X = 300
	p, _ = c.Resolve("dot")
	fmt.Println(p)
	// Output:
	// (200, 150)
	// (400, 150)
}

func ExampleCanvas_Bake() {
	c := scene.NewCanvas(800, 600)
	if err := c.AddSurface(scene.NewSurface("panel", geom.NewRect(100, 100, 200, 100))); err != nil {
		log.Fatal(err)
	}

	dot := &scene.Shape{ID: "dot", Kind: scene.KindCircle, R: 5}
	dot.SetBinding(scene.RelativeTo("", 0.25, 0))
	if err := c.AddShape("panel", dot); err != nil {
		log.Fatal(err)
	}

	if err := c.Bake("dot"); err != nil {
		log.Fatal(err)
	}
	fmt.Println(dot.Binding().Mode())

	// After baking, the surface no longer influences the shape.
	surf, _ := c.Surface("panel")
	surf.Rect.X = 500
	p, _ := c.Resolve("dot")
	fmt.Println(p)
	// Output:
	// absolute
	// (150, 100)
}

func ExampleCanvas_ResolveLink() {
	c := scene.NewCanvas(400, 400)
	a := &scene.Shape{ID: "a", Kind: scene.KindCircle, R: 5}
	a.MoveTo(0, 0)
	b := &scene.Shape{ID: "b", Kind: scene.KindCircle, R: 5}
	b.MoveTo(100, 0)
	for _, s := range []*scene.Shape{a, b} {
		if err := c.AddShape("", s); err != nil {
			log.Fatal(err)
		}
	}

	l, err := scene.NewLink("ab",
		scene.Endpoint{ShapeID: "a", Anchor: scene.AnchorCenter},
		scene.Endpoint{ShapeID: "b", Anchor: scene.AnchorCenter}, nil)
	if err != nil {
		log.Fatal(err)
	}
	if err := c.AddLink(l); err != nil {
		log.Fatal(err)
	}

	g, err := c.ResolveLink("ab")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(g.PointAt(0.5))
	// Output:
	// (50, 0)
}
