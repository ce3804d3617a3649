// Package galaxy defines the data model shared by the galaxy generators.
//
// The types here are deliberately small value types: a [Profile] selects the
// spiral shape, a [Geometry] describes the canvas, and [Point] and [Star]
// are what the star field hands to the hyperlane synthesizer.
//
// The generator packages live below this one:
//
//   - [github.com/matzehuels/galaxygen/pkg/galaxy/spiral]: logarithmic-spiral coordinate mapping
//   - [github.com/matzehuels/galaxygen/pkg/galaxy/stars]: star placement with collision avoidance
//   - [github.com/matzehuels/galaxygen/pkg/galaxy/hyperlanes]: hyperlane network synthesis
//   - [github.com/matzehuels/galaxygen/pkg/galaxy/density]: background, arms, nebula and dust passes
//
// None of these packages validate their inputs. Callers hand them a profile
// and parameters that were already checked by the settings loader and the
// pipeline.
package galaxy

import (
	"fmt"
	"math"
)

// Profile selects the shape of a galaxy: the spiral pitch and the split
// between core and arm stars. Profiles are loaded once from the settings
// table and never modified.
type Profile struct {
	Tightness  float64 `toml:"tightness" json:"tightness"`     // spiral pitch divisor, never zero
	Bar        float64 `toml:"bar" json:"bar"`                 // central bar length in spiral units
	CoreSpread float64 `toml:"core_spread" json:"core_spread"` // core blob radius in spiral units
	CoreChance float64 `toml:"core_chance" json:"core_chance"` // probability a star is placed in the core
}

// Point is an integer pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(float64(p.X-q.X), float64(p.Y-q.Y))
}

// In reports whether p lies inside the half-open square [lo, hi)².
func (p Point) In(lo, hi int) bool {
	return p.X >= lo && p.X < hi && p.Y >= lo && p.Y < hi
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Geometry describes the square canvas every generator draws on.
type Geometry struct {
	Size   int     // canvas width and height in pixels
	Center int     // pixel coordinate of the galaxy center on both axes
	Scale  float64 // pixels per spiral unit
}

// NewGeometry derives the standard geometry for a canvas of the given size:
// the center is the middle pixel and one spiral unit is a twentieth of the
// canvas.
func NewGeometry(size int) Geometry {
	return Geometry{
		Size:   size,
		Center: size / 2,
		Scale:  float64(size) / 20,
	}
}

// Border returns the inner and outer star margin: 5% of the canvas on each
// side.
func (g Geometry) Border() (inner, outer int) {
	return g.Size / 20, g.Size - g.Size/20
}

// RGB is an opaque 8-bit color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGBA is an 8-bit color with straight (non-premultiplied) alpha.
type RGBA struct {
	R, G, B, A uint8
}

// WithAlpha returns c with the given alpha.
func (c RGB) WithAlpha(a uint8) RGBA {
	return RGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// RGB drops the alpha channel.
func (c RGBA) RGB() RGB {
	return RGB{R: c.R, G: c.G, B: c.B}
}

// Hex formats c as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
