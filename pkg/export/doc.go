// Package export writes the artifacts of a generated galaxy besides the
// composited PNG.
//
// # Layer archive
//
// [WriteZip] stores every enabled layer as its own PNG so the layers can be
// recombined in an image editor. Entries are named by draw order:
//
//	00_background.png
//	01_arm_1.png … 01_arm_5.png
//	02_h2_nebula.png
//	03_hyperlanes.png
//	04_stars.png
//	05_dust.png
//
// Skipped layers are left out. The background is always present.
//
// # Star and network dump
//
// [WriteJSON] encodes the placed stars, the hyperlane paths and the layer
// timings of a run as a [Document].
//
// # Network graph
//
// [NetworkDOT] converts the hyperlane network into Graphviz DOT with every
// star pinned to its pixel position, and [RenderSVG] lays it out with
// github.com/goccy/go-graphviz.
package export
