package relgraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/inkscene/inkscene/pkg/scene"
)

// Options configures relation-graph rendering.
type Options struct {
	// Detailed includes binding mode and draw-order data in node labels.
	// When false, only ids are shown.
	Detailed bool
}

// ToDOT converts a canvas's reference structure to Graphviz DOT format. The
// resulting DOT string can be rendered with [RenderSVG] or processed by
// external Graphviz tools.
//
// Surfaces render as plain boxes, shapes as rounded boxes, links as ellipses.
// A dashed edge marks a relative binding, a dotted edge a path binding, and
// solid edges connect links to their endpoint shapes.
func ToDOT(c *scene.Canvas, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph scene {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, s := range c.Surfaces() {
		fmt.Fprintf(&buf, "  %q [label=%q, style=filled, fillcolor=lightgrey];\n",
			s.ID, surfaceLabel(s, opts.Detailed))
	}
	for _, s := range c.Shapes() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", s.ID, shapeLabel(s, opts.Detailed))
	}
	for _, l := range c.Links() {
		fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse];\n", l.ID, l.ID)
	}

	buf.WriteString("\n")
	for _, s := range c.Shapes() {
		if s.SurfaceID() != "" {
			fmt.Fprintf(&buf, "  %q -> %q [color=grey];\n", s.ID, s.SurfaceID())
		}
		b := s.Binding()
		switch b.Mode() {
		case scene.ModeRelative:
			if frame := b.FrameID(); frame != "" {
				fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", s.ID, frame)
			}
		case scene.ModePathBound:
			fmt.Fprintf(&buf, "  %q -> \"%s-path\" [style=dotted];\n", s.ID, s.ID)
			fmt.Fprintf(&buf, "  \"%s-path\" [label=\"path\", shape=plaintext];\n", s.ID)
		}
	}
	for _, l := range c.Links() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", l.ID, l.From.ShapeID)
		fmt.Fprintf(&buf, "  %q -> %q;\n", l.ID, l.To.ShapeID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func surfaceLabel(s *scene.Surface, detailed bool) string {
	if !detailed {
		return s.ID
	}
	return fmt.Sprintf("%s\n%gx%g at (%g, %g)", s.ID, s.Rect.W, s.Rect.H, s.Rect.X, s.Rect.Y)
}

func shapeLabel(s *scene.Shape, detailed bool) string {
	if !detailed {
		return s.ID
	}
	parts := []string{
		fmt.Sprintf("kind: %s", s.Kind),
		fmt.Sprintf("binding: %s", s.Binding().Mode()),
		fmt.Sprintf("z: %d", s.Z),
	}
	return s.ID + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz in-process.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites Graphviz's point-based svg element into a
// zero-origin pixel viewBox so the diagram embeds cleanly next to scene
// renders.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
