// Package scenefile loads scene documents from TOML files.
//
// A scene file declares the canvas, its surfaces, shapes, and links in the
// order they should be registered, which also fixes draw-order tie breaking.
// The loader validates references at load time where it can (surfaces,
// template names); references that are legal to dangle (link endpoints after
// shape removal) are left to the resolver.
//
// A minimal scene:
//
//	[canvas]
//	width = 800
//	height = 600
//	background = "white"
//
//	[[surface]]
//	id = "panel"
//	x = 100
//	y = 100
//	width = 200
//	height = 100
//
//	[[shape]]
//	id = "dot"
//	kind = "circle"
//	surface = "panel"
//	r = 6
//	at = { fx = 0.5, fy = 0.5 }
//	style = { fill = "tomato" }
//
//	[[shape]]
//	id = "corner"
//	kind = "circle"
//	r = 4
//	at = { x = 20, y = 20 }
//
//	[[link]]
//	id = "pull"
//	from = { shape = "corner", anchor = "center" }
//	to = { shape = "dot", anchor = "center" }
//
// The at table selects the binding mode by its keys: x/y for absolute,
// frame/fx/fy for relative, path/t to ride another shape's curve.
package scenefile
