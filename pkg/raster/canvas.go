package raster

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/galaxygen/pkg/galaxy"
)

// Canvas is a transparent square RGBA image with a gg drawing context.
// Every shape is alpha-blended over what is already there. A canvas is
// owned by one generator task and is not safe for concurrent use.
type Canvas struct {
	img *image.RGBA
	dc  *gg.Context
}

// NewCanvas allocates a transparent size×size canvas.
func NewCanvas(size int) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	return &Canvas{img: img, dc: gg.NewContextForRGBA(img)}
}

// NewOpaqueCanvas allocates a size×size canvas filled with c.
func NewOpaqueCanvas(size int, c galaxy.RGB) *Canvas {
	cv := NewCanvas(size)
	cv.dc.SetRGBA255(int(c.R), int(c.G), int(c.B), 255)
	cv.dc.Clear()
	return cv
}

// Image returns the backing image.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

func (c *Canvas) set(col galaxy.RGBA) {
	c.dc.SetRGBA255(int(col.R), int(col.G), int(col.B), int(col.A))
}

// Ellipse fills the ellipse inscribed in the box [x0,y0]-[x1,y1].
func (c *Canvas) Ellipse(x0, y0, x1, y1 float64, col galaxy.RGBA) {
	c.set(col)
	c.dc.DrawEllipse((x0+x1)/2, (y0+y1)/2, (x1-x0)/2, (y1-y0)/2)
	c.dc.Fill()
}

// Disc fills a circle of radius r centered on (x, y).
func (c *Canvas) Disc(x, y, r float64, col galaxy.RGBA) {
	c.set(col)
	c.dc.DrawCircle(x, y, r)
	c.dc.Fill()
}

// Line strokes a segment of the given width between two pixel centers.
func (c *Canvas) Line(a, b galaxy.Point, width float64, col galaxy.RGBA) {
	c.set(col)
	c.dc.SetLineWidth(width)
	c.dc.DrawLine(float64(a.X)+0.5, float64(a.Y)+0.5, float64(b.X)+0.5, float64(b.Y)+0.5)
	c.dc.Stroke()
}

// Stamp overwrites every pixel within r of p with col instead of blending.
// Concentric stamps drawn from the outside in leave each pixel with the
// color of the innermost ring that covers it.
func (c *Canvas) Stamp(p galaxy.Point, r int, col galaxy.RGBA) {
	nc := color.NRGBA{R: col.R, G: col.G, B: col.B, A: col.A}
	b := c.img.Bounds()
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			q := image.Pt(p.X+dx, p.Y+dy)
			if q.In(b) {
				c.img.Set(q.X, q.Y, nc)
			}
		}
	}
}

// Pixel overwrites a single pixel.
func (c *Canvas) Pixel(p galaxy.Point, col galaxy.RGBA) {
	c.set(col)
	c.dc.SetPixel(p.X, p.Y)
}

// At returns the color at p.
func (c *Canvas) At(p galaxy.Point) color.RGBA {
	return c.img.RGBAAt(p.X, p.Y)
}

// Lerp interpolates linearly between two colors in RGB space. t is not
// clamped.
func Lerp(a, b galaxy.RGB, t float64) galaxy.RGB {
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	m := ca.BlendRgb(cb, t)
	return galaxy.RGB{R: channel(m.R), G: channel(m.G), B: channel(m.B)}
}

// channel truncates a [0,1] channel to 8 bits, saturating out-of-range
// values produced by unclamped interpolation.
func channel(v float64) uint8 {
	x := int(v*255 + 1e-9)
	return uint8(max(0, min(255, x)))
}
