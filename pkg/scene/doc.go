// Package scene holds the drawable object model and the coordinate
// resolver: shapes, surfaces (rectangular containers), bindings, anchors,
// and links.
//
// # Bindings
//
// A shape's position is computed from its [Binding], which is in exactly one
// of three modes at any time:
//
//   - Absolute: fixed pixel coordinates.
//   - Relative: a fraction pair resolved against a reference frame — the
//     owning surface (or the canvas itself) or another shape's bounding box.
//   - PathBound: a point along a parametric curve at a stored parameter.
//
// Resolution is lazy and re-evaluated on every query; mutations are visible
// to the next call without any notification machinery. A one-way
// [Canvas.Bake] converts Relative and PathBound bindings into Absolute by
// evaluating once and discarding the old mode's data. Baking is required
// before transforms that need a concrete pivot, such as rotating about an
// external origin.
//
// # Cycle Protection
//
// Reference chains can loop (shape A relative to shape B relative to A, or a
// shape bound to a path defined in terms of that same shape). A per-shape
// re-entrancy flag detects such chains during resolution and fails with a
// CYCLIC_RESOLUTION error naming the cycle instead of recursing forever.
//
// # Links
//
// A [Link] is a live geometric relationship between two shape anchors. Its
// endpoints re-resolve on every query, so moving either shape moves the
// link. An optional open template curve gives the link its visual shape; the
// template chord is affinely mapped onto the current anchor positions at
// render time.
//
// # Ownership
//
// Back-references (shape to surface, link to shape) are stored as ids in the
// canvas registries, not pointers. Removing a shape never blocks on link
// references; a link whose endpoint shape is gone fails its next resolution
// with a REMOVED_REFERENCE error.
package scene
