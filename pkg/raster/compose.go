package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/matzehuels/galaxygen/pkg/galaxy"
)

// Compose alpha-composites layers in order over an opaque black canvas.
// Skipped layers are ignored.
func Compose(size int, layers ...Layer) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	for _, l := range layers {
		if l.Skipped || l.Image == nil {
			continue
		}
		draw.Draw(dst, dst.Bounds(), l.Image, image.Point{}, draw.Over)
	}
	return dst
}

// PaintThrough paints a solid color onto dst wherever mask has alpha. It is
// how the dust lanes darken the composited galaxy.
func PaintThrough(dst draw.Image, c galaxy.RGBA, mask image.Image) {
	src := image.NewUniform(color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A})
	draw.DrawMask(dst, dst.Bounds(), src, image.Point{}, mask, image.Point{}, draw.Over)
}

// Masked returns a transparent image holding c painted through mask. The
// layer archive exports dust this way.
func Masked(size int, c galaxy.RGBA, mask image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	PaintThrough(dst, c, mask)
	return dst
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.DefaultCompression)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Thumbnail scales img down to fit in a width×width box, keeping aspect
// ratio. Images already small enough are returned unchanged.
func Thumbnail(img image.Image, width int) image.Image {
	if width <= 0 || img.Bounds().Dx() <= width {
		return img
	}
	return imaging.Fit(img, width, width, imaging.Lanczos)
}
