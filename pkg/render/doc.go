// Package render turns a scene canvas into output documents.
//
// The primary sink is SVG via [RenderSVG]; [RenderJSON] exports the resolved
// geometry for external tooling. Rendering is a pure read of the canvas:
// every binding and link is resolved at render time and nothing is written
// back, so rendering the same canvas twice produces byte-identical output.
//
// Draw order is the shape/link Z index; ties keep registration order.
// Arrowhead markers are emitted once per distinct visual style and shared by
// every link that uses them.
package render
