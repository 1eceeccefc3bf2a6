// Package pkg provides the core libraries for the inkscene drawing engine.
//
// # Overview
//
// Inkscene composes 2D scenes from declarative descriptions: shapes bound to
// surfaces, frames, and curves, connected by live links, rendered
// deterministically to SVG or JSON. The pkg directory is organized into four
// main areas:
//
//  1. [geom], [curve] - Geometry primitives and parametric curves
//  2. [scene] - The scene graph (surfaces, shapes, bindings, links, resolution)
//  3. [render], [scenefile] - Output generation and the TOML scene format
//  4. [pipeline], [cache], [observability] - Orchestration and infrastructure
//
// # Architecture
//
// The typical data flow through inkscene:
//
//	TOML scene file
//	         ↓
//	    [scenefile] package (decode and build the canvas)
//	         ↓
//	    [scene] package (resolve bindings, anchors, and links)
//	         ↓
//	    [render] package (compose the draw list)
//	         ↓
//	    SVG/JSON output
//
// # Quick Start
//
// Load a scene and render it to SVG:
//
//	import (
//	    "github.com/inkscene/inkscene/pkg/render"
//	    "github.com/inkscene/inkscene/pkg/scenefile"
//	)
//
//	canvas, err := scenefile.Load("scene.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg, err := render.RenderSVG(canvas)
//
// Or build a canvas programmatically:
//
//	import (
//	    "github.com/inkscene/inkscene/pkg/geom"
//	    "github.com/inkscene/inkscene/pkg/scene"
//	)
//
//	canvas := scene.NewCanvas(800, 600)
//	panel := scene.NewSurface("panel", geom.NewRect(50, 50, 300, 200))
//	canvas.AddSurface(panel)
//
// The [pipeline] package wraps the full flow with caching; the CLI and the
// preview server both run on it.
package pkg
