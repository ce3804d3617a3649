package density

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/matzehuels/galaxygen/pkg/galaxy"
	"github.com/matzehuels/galaxygen/pkg/galaxy/randx"
	"github.com/matzehuels/galaxygen/pkg/raster"
)

// maxArmRadius is the outermost spiral radius an arm splat is drawn at.
const maxArmRadius = 15.0

// ArmPass is one spiral-arm density pass: a pixel scale relative to the
// canvas geometry, a core/mid/outer color ramp and an opacity weight.
type ArmPass struct {
	Scale    float64
	Colors   [3]galaxy.RGB
	Weakness float64
}

// ArmPasses are the five passes in compositing order: a faint half-scale
// haze, the teal body of the arms, warm-to-violet and warm-to-blue halos at
// double scale, and a brown shadow.
var ArmPasses = [5]ArmPass{
	{Scale: 0.5, Colors: [3]galaxy.RGB{{R: 0, G: 0, B: 0}, {R: 87, G: 161, B: 191}, {R: 30, G: 65, B: 79}}, Weakness: 0.1},
	{Scale: 1, Colors: [3]galaxy.RGB{{R: 0, G: 0, B: 0}, {R: 87, G: 161, B: 191}, {R: 30, G: 65, B: 79}}, Weakness: 0.1},
	{Scale: 1, Colors: [3]galaxy.RGB{{R: 255, G: 240, B: 200}, {R: 100, G: 50, B: 200}, {R: 20, G: 30, B: 60}}, Weakness: 0.15},
	{Scale: 2, Colors: [3]galaxy.RGB{{R: 255, G: 240, B: 200}, {R: 50, G: 60, B: 250}, {R: 10, G: 10, B: 90}}, Weakness: 0.15},
	{Scale: 2, Colors: [3]galaxy.RGB{{R: 0, G: 0, B: 0}, {R: 71, G: 42, B: 6}, {R: 0, G: 0, B: 0}}, Weakness: 0.05},
}

// ArmLayerName names the layer of the i-th pass, counting from one.
func ArmLayerName(i int) string {
	return fmt.Sprintf("arm_%d", i)
}

// Arms renders one spiral-arm pass. index counts from one and only names
// the layer.
func Arms(rng *rand.Rand, p Params, index int, pass ArmPass) raster.Layer {
	name := ArmLayerName(index)
	if !p.Steps.Spirals {
		return raster.Skipped(name)
	}

	start := time.Now()
	size := p.Geometry.Size
	canvas := raster.NewCanvas(size)
	mapper := p.mapper().WithScale(p.Geometry.Scale * pass.Scale)
	frag := p.Generation.Fragmentation.Spirals

	for range p.count(p.Generation.Spirals.AmountFactor) {
		arm := rng.IntN(p.Arms)
		r := randx.Uniform(rng, 0.1, maxArmRadius)

		col := ramp(pass.Colors, min(r/maxArmRadius, 1))
		opacity := int(255 * math.Exp(-0.2*r) * pass.Weakness)

		pt := mapper.Point(rng, arm, r, frag, 0)
		if !p.inCanvas(pt) {
			continue
		}

		rad := math.Floor((float64(size) - float64(size)*r*0.06) / 60)
		x, y := float64(pt.X), float64(pt.Y)
		canvas.Ellipse(x-rad, y-rad, x+rad+1, y+rad+1, col.WithAlpha(uint8(opacity)))
	}

	img := raster.GaussianBlur(canvas.Image(), float64(size/70))
	return raster.Finish(name, start, img)
}

// ramp maps a normalized radius onto the three-stop palette. The outer
// segment is stretched over 0.7 so the outer color is never fully reached.
func ramp(c [3]galaxy.RGB, t float64) galaxy.RGB {
	if t < 0.4 {
		return raster.Lerp(c[0], c[1], t/0.4)
	}
	return raster.Lerp(c[1], c[2], (t-0.4)/0.7)
}
