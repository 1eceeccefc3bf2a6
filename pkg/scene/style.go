package scene

// Style holds the visual attributes of a shape or link. Color values are
// opaque strings: validation and parsing belong to the color subsystem, the
// engine only copies them into the output document.
type Style struct {
	Stroke      string    // stroke color; empty means none
	StrokeWidth float64   // stroke width in pixels; 0 defaults to 1 when a stroke is set
	Fill        string    // fill color; empty means none
	Opacity     float64   // 0 means fully opaque (unset); otherwise (0,1]
	Dash        []float64 // stroke dash pattern in pixels

	// Link decorations. Arrowheads become shared marker definitions in the
	// output document, deduplicated across links with identical styling.
	ArrowStart bool
	ArrowEnd   bool
	ArrowSize  float64 // arrowhead length in pixels; 0 defaults to 10
}

// EffectiveStrokeWidth returns the stroke width with the default applied.
func (s Style) EffectiveStrokeWidth() float64 {
	if s.StrokeWidth <= 0 {
		return 1
	}
	return s.StrokeWidth
}

// EffectiveArrowSize returns the arrowhead size with the default applied.
func (s Style) EffectiveArrowSize() float64 {
	if s.ArrowSize <= 0 {
		return 10
	}
	return s.ArrowSize
}
