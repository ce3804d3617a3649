package raster

import (
	"image"

	"github.com/disintegration/imaging"
)

// GaussianBlur blurs img with the given radius used as the gaussian sigma.
// A non-positive radius returns an unblurred copy.
func GaussianBlur(img image.Image, radius float64) *image.NRGBA {
	if radius <= 0 {
		return imaging.Clone(img)
	}
	return imaging.Blur(img, radius)
}

// BoxBlur averages every pixel of an alpha mask over the (2r+1)² box around
// it, extending edge pixels outward. It runs as two separable passes.
func BoxBlur(src *image.Alpha, r int) *image.Alpha {
	b := src.Bounds()
	out := image.NewAlpha(b)
	if r <= 0 {
		copy(out.Pix, src.Pix)
		return out
	}

	w, h := b.Dx(), b.Dy()
	tmp := make([]float64, w*h)
	win := float64(2*r + 1)

	at := func(x, y int) float64 {
		x = max(0, min(w-1, x))
		y = max(0, min(h-1, y))
		return float64(src.Pix[y*src.Stride+x])
	}

	for y := range h {
		sum := 0.0
		for k := -r; k <= r; k++ {
			sum += at(k, y)
		}
		for x := range w {
			tmp[y*w+x] = sum / win
			sum += at(x+r+1, y) - at(x-r, y)
		}
	}

	col := func(x, y int) float64 {
		y = max(0, min(h-1, y))
		return tmp[y*w+x]
	}
	for x := range w {
		sum := 0.0
		for k := -r; k <= r; k++ {
			sum += col(x, k)
		}
		for y := range h {
			out.Pix[y*out.Stride+x] = uint8(min(255, sum/win+0.5))
			sum += col(x, y+r+1) - col(x, y-r)
		}
	}
	return out
}

// AlphaOf extracts the alpha channel of img into a mask.
func AlphaOf(img *image.RGBA) *image.Alpha {
	b := img.Bounds()
	out := image.NewAlpha(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Pix[(y-b.Min.Y)*out.Stride+(x-b.Min.X)] = img.Pix[img.PixOffset(x, y)+3]
		}
	}
	return out
}
