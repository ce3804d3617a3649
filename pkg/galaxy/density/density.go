// Package density renders the translucent layers under the star field: the
// background glow and disk, five spiral-arm passes, hydrogen nebula clumps
// and the dust-lane mask.
//
// Each generator splats many small shapes at positions sampled through the
// spiral mapper and blurs the result. Sample counts are specified per
// 2000×2000 canvas and scale with the pixel area, so a smaller canvas looks
// the same, only coarser.
package density

import (
	"math"

	"github.com/matzehuels/galaxygen/pkg/galaxy"
	"github.com/matzehuels/galaxygen/pkg/galaxy/spiral"
	"github.com/matzehuels/galaxygen/pkg/settings"
)

// Layer names.
const (
	BackgroundLayer = "background"
	NebulaLayer     = "nebula"
	DustLayer       = "dust"
)

// referenceArea is the canvas area that amount factors are specified for.
const referenceArea = 2000 * 2000

// Params is the read-only input shared by every density generator.
type Params struct {
	Profile    galaxy.Profile
	Generation settings.Generation
	Steps      settings.Steps
	Geometry   galaxy.Geometry
	Arms       int
}

func (p Params) mapper() spiral.Mapper {
	return spiral.New(p.Profile, p.Arms, p.Geometry)
}

// count scales a per-reference-canvas amount to this canvas, rounding down.
func (p Params) count(amount float64) int {
	size := float64(p.Geometry.Size)
	return int(math.Floor(amount * size * size / referenceArea))
}

func (p Params) inCanvas(pt galaxy.Point) bool {
	return pt.In(0, p.Geometry.Size)
}
