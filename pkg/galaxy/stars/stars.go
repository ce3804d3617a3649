// Package stars places the star field.
//
// Each candidate is drawn either on a spiral arm or in the elliptical core,
// clipped to the canvas margin, and rejected when another star already sits
// inside its exclusion square. Rejections are final: the generator makes
// exactly as many attempts as stars were requested, so the number placed is
// usually lower.
//
// The accepted positions are returned alongside the layer so the hyperlane
// synthesizer can index them.
package stars

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/matzehuels/galaxygen/pkg/galaxy"
	"github.com/matzehuels/galaxygen/pkg/galaxy/randx"
	"github.com/matzehuels/galaxygen/pkg/galaxy/spiral"
	"github.com/matzehuels/galaxygen/pkg/raster"
	"github.com/matzehuels/galaxygen/pkg/settings"
)

// LayerName names the star layer in reports and archives.
const LayerName = "stars"

// coreRotation tilts the core ellipse. The value is in radians.
const coreRotation = 80.0

// Colors is the stellar class palette, hottest (O5) to coolest (M6).
var Colors = []galaxy.RGB{
	{R: 157, G: 180, B: 255}, // O5
	{R: 162, G: 185, B: 255}, // B1
	{R: 167, G: 188, B: 255}, // B3
	{R: 170, G: 191, B: 255}, // B5
	{R: 175, G: 195, B: 255}, // B8
	{R: 186, G: 204, B: 255}, // A1
	{R: 192, G: 209, B: 255}, // A3
	{R: 202, G: 216, B: 255}, // A5
	{R: 228, G: 232, B: 255}, // F0
	{R: 237, G: 238, B: 255}, // F2
	{R: 251, G: 248, B: 255}, // F5
	{R: 255, G: 249, B: 249}, // F8
	{R: 255, G: 245, B: 236}, // G2
	{R: 255, G: 244, B: 232}, // G5
	{R: 255, G: 241, B: 223}, // G8
	{R: 255, G: 235, B: 209}, // K0
	{R: 255, G: 215, B: 174}, // K4
	{R: 255, G: 198, B: 144}, // K7
	{R: 255, G: 190, B: 127}, // M2
	{R: 255, G: 187, B: 123}, // M4
	{R: 255, G: 187, B: 123}, // M6
}

var white = galaxy.RGB{R: 255, G: 255, B: 255}

// Output is the star layer plus the accepted stars in placement order.
type Output struct {
	Layer raster.Layer
	Stars []galaxy.Star
}

// Positions returns the pixel position of every placed star.
func (o Output) Positions() []galaxy.Point {
	pts := make([]galaxy.Point, len(o.Stars))
	for i, s := range o.Stars {
		pts[i] = s.Position
	}
	return pts
}

// Skipped returns the output of a disabled star step: a placeholder layer
// and no stars.
func Skipped() Output {
	return Output{Layer: raster.Skipped(LayerName)}
}

// Generate makes requested placement attempts and draws every accepted
// star. The returned slice never holds more than requested stars.
func Generate(rng *rand.Rand, p galaxy.Profile, gen settings.Generation, g galaxy.Geometry, arms, requested int) Output {
	start := time.Now()
	canvas := raster.NewCanvas(g.Size)
	mapper := spiral.New(p, arms, g)
	occ := newOccupancy(g.Size)
	inner, outer := g.Border()
	frag := gen.Fragmentation.Stars

	var placed []galaxy.Star
	for range requested {
		var pos galaxy.Point
		if randx.Chance(rng, 1-p.CoreChance) {
			arm := rng.IntN(arms)
			r := randx.Exp(rng, 0.6) + p.Bar + 0.2
			pos = mapper.Point(rng, arm, r, frag, 0)
		} else {
			pos = corePoint(rng, p, g)
		}

		if !pos.In(inner, outer) {
			continue
		}

		buffer := collisionBuffer(rng, pos)
		color := randx.Pick(rng, Colors)
		shape := randx.Pick(rng, galaxy.Shapes)

		if occ.any(pos, buffer+shape.Radius()) {
			continue
		}

		drawStar(rng, canvas, pos, color, shape)
		occ.set(pos)
		placed = append(placed, galaxy.Star{Position: pos, Color: color, Shape: shape})
	}

	return Output{
		Layer: raster.Finish(LayerName, start, canvas.Image()),
		Stars: placed,
	}
}

// corePoint samples the rotated core ellipse.
func corePoint(rng *rand.Rand, p galaxy.Profile, g galaxy.Geometry) galaxy.Point {
	spread := p.CoreSpread * (1 + p.Bar*0.5)
	rx := randx.Uniform(rng, 0, spread)
	ry := randx.Uniform(rng, 0, spread)
	angle := randx.Uniform(rng, 0, 2*math.Pi)

	lx := rx * math.Cos(angle)
	ly := ry * math.Sin(angle)

	sin, cos := math.Sincos(coreRotation)
	return galaxy.Point{
		X: int(float64(g.Center) + (lx*cos-ly*sin)*g.Scale),
		Y: int(float64(g.Center) + (lx*sin+ly*cos)*g.Scale),
	}
}

// collisionBuffer picks the exclusion half-width for a candidate. The bands
// are measured from the pixel origin, not the galaxy center, so every star
// that survives the border check lands in the last band.
func collisionBuffer(rng *rand.Rand, pos galaxy.Point) int {
	d := math.Hypot(float64(pos.X), float64(pos.Y))
	switch {
	case d < 0.6:
		return 1
	case d < 1:
		return 2
	case d < 1.25:
		if rng.Float64() > 0.3 {
			return 4
		}
		return 3
	case d < 1.5:
		if rng.Float64() > 0.5 {
			return 4
		}
		return 5
	case d < 1.75:
		if rng.Float64() > 0.7 {
			return 5
		}
		return 4
	default:
		return 4
	}
}

// drawStar renders the glow, the ornament and the bright core pixel.
func drawStar(rng *rand.Rand, c *raster.Canvas, pos galaxy.Point, color galaxy.RGB, shape galaxy.Shape) {
	brightness := randx.Uniform(rng, 0.8, 1.5)
	base := galaxy.RGB{
		R: scale(color.R, brightness),
		G: scale(color.G, brightness),
		B: scale(color.B, brightness),
	}

	x, y := float64(pos.X), float64(pos.Y)
	glow := randx.IntRange(rng, 2, 3)
	for r := glow; r > 0; r-- {
		alpha := int(20 * (1 - float64(r)/float64(glow+1)))
		fr := float64(r)
		c.Ellipse(x-fr, y-fr, x+fr+1, y+fr+1, base.WithAlpha(uint8(alpha)))
	}

	if n := shape.ArmLength(); n > 0 {
		faint := base.WithAlpha(60)
		if shape.Diagonal() {
			c.Line(galaxy.Pt(pos.X-n, pos.Y-n), galaxy.Pt(pos.X+n, pos.Y+n), 1, faint)
			c.Line(galaxy.Pt(pos.X+n, pos.Y-n), galaxy.Pt(pos.X-n, pos.Y+n), 1, faint)
		} else {
			c.Line(galaxy.Pt(pos.X-n, pos.Y), galaxy.Pt(pos.X+n, pos.Y), 1, faint)
			c.Line(galaxy.Pt(pos.X, pos.Y-n), galaxy.Pt(pos.X, pos.Y+n), 1, faint)
		}
	}

	c.Pixel(pos, raster.Lerp(base, white, 0.7).WithAlpha(255))
}

func scale(v uint8, f float64) uint8 {
	return uint8(min(255, int(float64(v)*f)))
}

// occupancy marks the pixels of accepted stars.
type occupancy struct {
	size int
	bits []bool
}

func newOccupancy(size int) *occupancy {
	return &occupancy{size: size, bits: make([]bool, size*size)}
}

func (o *occupancy) set(p galaxy.Point) {
	o.bits[p.Y*o.size+p.X] = true
}

// any reports whether an occupied pixel lies in the square of half-width r
// around p.
func (o *occupancy) any(p galaxy.Point, r int) bool {
	x0, x1 := max(0, p.X-r), min(o.size-1, p.X+r)
	y0, y1 := max(0, p.Y-r), min(o.size-1, p.Y+r)
	for y := y0; y <= y1; y++ {
		row := o.bits[y*o.size : (y+1)*o.size]
		for x := x0; x <= x1; x++ {
			if row[x] {
				return true
			}
		}
	}
	return false
}
