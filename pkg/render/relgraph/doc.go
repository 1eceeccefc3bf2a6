// Package relgraph renders a scene's reference structure as a node-link
// diagram: surfaces, shapes, and links become nodes and directed edges.
//
// The diagram answers "what moves when this moves": an edge points from each
// shape to the frame or curve it is bound to, and from each link to its
// endpoint shapes. Cycles introduced by rebinding show up visually before the
// resolver rejects them.
//
// Convert a canvas to DOT source, then render in-process:
//
//	dot := relgraph.ToDOT(canvas, relgraph.Options{})
//	svg, err := relgraph.RenderSVG(ctx, dot)
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package relgraph
