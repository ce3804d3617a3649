package density

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/matzehuels/galaxygen/pkg/galaxy"
	"github.com/matzehuels/galaxygen/pkg/raster"
)

var (
	coreGlow  = galaxy.RGB{R: 255, G: 240, B: 200}
	diskColor = galaxy.RGB{R: 150, G: 160, B: 200}
)

const (
	diskParticles = 50000
	diskRadius    = 5
)

// Background renders the opaque base layer: a warm core glow of stacked
// rings and a faint disk of particles concentrated toward the center. Glow
// rings and disk particles replace the pixels under them rather than
// blending, so the disk dims the glow where particles land.
func Background(rng *rand.Rand, p Params) raster.Layer {
	start := time.Now()
	size := p.Geometry.Size
	center := galaxy.Pt(p.Geometry.Center, p.Geometry.Center)
	glow := raster.NewCanvas(size)

	outer := size / 10
	alpha := 0
	for r := outer; r > 0; r -= 2 {
		alpha = int(100 * (1 - float64(r)/float64(outer)))
		glow.Stamp(center, r, coreGlow.WithAlpha(uint8(min(alpha*2, 255))))
	}

	// the disk reuses the innermost ring's alpha
	diskFill := diskColor.WithAlpha(uint8(alpha / 10))
	half := float64(size) / 2
	for range p.count(diskParticles * p.Generation.Disk.AmountFactor) {
		theta := rng.Float64() * 2 * math.Pi
		r := half * math.Pow(rng.Float64(), 0.7)
		x := float64(center.X) + r*math.Cos(theta)
		y := float64(center.Y) + r*math.Sin(theta)

		if x < 0 || y < 0 || x >= float64(size) || y >= float64(size) {
			continue
		}
		glow.Stamp(galaxy.Pt(int(x), int(y)), diskRadius, diskFill)
	}

	base := raster.Compose(size, raster.Layer{Name: "glow", Image: glow.Image()})
	img := raster.GaussianBlur(base, float64(size/100))
	return raster.Finish(BackgroundLayer, start, img)
}
