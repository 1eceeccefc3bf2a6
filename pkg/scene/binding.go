package scene

import (
	"github.com/inkscene/inkscene/pkg/curve"
	"github.com/inkscene/inkscene/pkg/geom"
)

// BindingMode identifies how a shape's position is computed.
type BindingMode int

const (
	// ModeAbsolute positions the shape at fixed pixel coordinates.
	ModeAbsolute BindingMode = iota
	// ModeRelative positions the shape at a fraction of a reference frame.
	ModeRelative
	// ModePathBound positions the shape on a parametric curve.
	ModePathBound
)

func (m BindingMode) String() string {
	switch m {
	case ModeAbsolute:
		return "absolute"
	case ModeRelative:
		return "relative"
	case ModePathBound:
		return "path"
	}
	return "unknown"
}

// Binding is the tagged union determining a shape's position. Exactly one
// mode is active; the constructors below are the only way to build one, and
// switching modes discards the previous mode's data irrecoverably.
type Binding struct {
	mode BindingMode

	// ModeAbsolute
	pos geom.Point

	// ModeRelative. frameID empty means the owning surface (or the canvas).
	frameID string
	fx, fy  float64

	// ModePathBound
	path curve.Pather
	t    float64
}

// Absolute returns a binding at fixed pixel coordinates.
func Absolute(x, y float64) Binding {
	return Binding{mode: ModeAbsolute, pos: geom.Pt(x, y)}
}

// RelativeTo returns a binding at fraction (fx, fy) of the named frame's
// bounds. The frame may be a surface or another shape. An empty frameID
// resolves against the owning surface, falling back to the canvas.
func RelativeTo(frameID string, fx, fy float64) Binding {
	return Binding{mode: ModeRelative, frameID: frameID, fx: fx, fy: fy}
}

// OnPath returns a binding at parameter t in [0,1] along the given curve.
func OnPath(path curve.Pather, t float64) Binding {
	return Binding{mode: ModePathBound, path: path, t: t}
}

// Mode returns the active binding mode.
func (b Binding) Mode() BindingMode { return b.mode }

// Fractions returns the relative fraction pair; meaningful only in
// ModeRelative.
func (b Binding) Fractions() (fx, fy float64) { return b.fx, b.fy }

// FrameID returns the relative reference frame id; meaningful only in
// ModeRelative.
func (b Binding) FrameID() string { return b.frameID }

// PathParam returns the stored curve parameter; meaningful only in
// ModePathBound.
func (b Binding) PathParam() float64 { return b.t }
