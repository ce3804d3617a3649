package density

import (
	"math/rand/v2"
	"time"

	"github.com/matzehuels/galaxygen/pkg/galaxy"
	"github.com/matzehuels/galaxygen/pkg/galaxy/randx"
	"github.com/matzehuels/galaxygen/pkg/raster"
)

var (
	nebulaGas    = galaxy.RGB{R: 255, G: 100, B: 150}
	nebulaBright = galaxy.RGB{R: 255, G: 200, B: 230}
)

// nebulaRings weights the band a clump lands on: the first band four times
// as often as the third.
var nebulaRings = []float64{1, 1, 1, 1, 2, 2, 3}

// Nebula renders pink hydrogen clumps on concentric bands along the arms.
func Nebula(rng *rand.Rand, p Params) raster.Layer {
	if !p.Steps.Nebula {
		return raster.Skipped(NebulaLayer)
	}

	start := time.Now()
	size := p.Geometry.Size
	canvas := raster.NewCanvas(size)
	mapper := p.mapper()
	cfg := p.Generation.Nebula
	frag := p.Generation.Fragmentation.Nebula

	spread := float64(size / 200)
	minRad, maxRad := size/300, size/150

	for range p.count(cfg.AmountFactor * float64(p.Arms)) {
		arm := rng.IntN(p.Arms)
		ring := randx.Pick(rng, nebulaRings)
		r := ring*cfg.BandSpacing + randx.Uniform(rng, -cfg.BandThickness, cfg.BandThickness)

		pt := mapper.Point(rng, arm, r, frag, 0)
		x, y := float64(pt.X), float64(pt.Y)

		for range randx.IntRange(rng, 3, 8) {
			ox := randx.Normal(rng, 0, spread)
			oy := randx.Normal(rng, 0, spread)
			rad := float64(randx.IntRange(rng, minRad, maxRad))
			opacity := uint8(randx.IntRange(rng, 40, 100))

			canvas.Ellipse(x+ox-rad, y+oy-rad, x+ox+rad, y+oy+rad, nebulaBright.WithAlpha(opacity))
			canvas.Ellipse(x+ox*0.1-rad, y+oy*0.1-rad, x+ox*0.1+rad, y+oy*0.1+rad, nebulaGas.WithAlpha(opacity))
		}
	}

	img := raster.GaussianBlur(canvas.Image(), float64(size/150))
	return raster.Finish(NebulaLayer, start, img)
}
