package density

import (
	"math/rand/v2"
	"time"

	"github.com/matzehuels/galaxygen/pkg/galaxy"
	"github.com/matzehuels/galaxygen/pkg/galaxy/randx"
	"github.com/matzehuels/galaxygen/pkg/raster"
)

// DustColor is painted through the dust mask after compositing.
var DustColor = galaxy.RGBA{R: 15, G: 10, B: 5, A: 255}

// dustLag rotates the dust lanes behind the arms they trail.
const dustLag = -0.5

// Dust renders the dust-lane mask. The layer image is an *image.Alpha; it
// is not composited like the other layers but used to paint [DustColor]
// over the finished galaxy.
func Dust(rng *rand.Rand, p Params) raster.Layer {
	if !p.Steps.Dust {
		return raster.Skipped(DustLayer)
	}

	start := time.Now()
	size := p.Geometry.Size
	canvas := raster.NewCanvas(size)
	mapper := p.mapper()

	for range p.count(p.Generation.Dust.AmountFactor) {
		arm := rng.IntN(p.Arms)
		r := randx.Uniform(rng, 1.5, 12)
		theta := mapper.Theta(arm, r, dustLag+randx.Normal(rng, 0, 0.1), 0)

		pt := mapper.Project(r, theta)
		if !p.inCanvas(pt) {
			continue
		}

		var rad int
		if rng.Float64() > 0.2 {
			rad = randx.IntRange(rng, 1, 3)
		} else {
			rad = randx.IntRange(rng, 4, 8)
		}
		opacity := uint8(randx.IntRange(rng, 20, 180))
		canvas.Stamp(pt, rad, galaxy.RGBA{A: opacity})
	}

	mask := raster.BoxBlur(raster.AlphaOf(canvas.Image()), size/100)
	return raster.Finish(DustLayer, start, mask)
}
