// Package raster holds the image plumbing shared by the galaxy generators:
// the [Layer] result type, a drawing [Canvas], blur passes, compositing and
// PNG encoding.
//
// Shapes are rasterized with github.com/fogleman/gg, blurs use
// github.com/disintegration/imaging, and compositing goes through
// golang.org/x/image/draw.
package raster

import (
	"image"
	"time"
)

// Layer is the uniform output of every generator: one image plus how long
// it took to produce. A skipped layer was disabled by configuration; its
// image is a 1x1 transparent placeholder and reports render it as
// "skipped" instead of a duration.
type Layer struct {
	Name    string
	Elapsed time.Duration
	Skipped bool
	Image   image.Image
}

// Skipped returns the placeholder layer for a generator that was switched
// off.
func Skipped(name string) Layer {
	return Layer{
		Name:    name,
		Skipped: true,
		Image:   image.NewRGBA(image.Rect(0, 0, 1, 1)),
	}
}

// Finish wraps an image into a layer timed from start.
func Finish(name string, start time.Time, img image.Image) Layer {
	return Layer{
		Name:    name,
		Elapsed: time.Since(start),
		Image:   img,
	}
}

// ElapsedString renders the layer duration for reports.
func (l Layer) ElapsedString() string {
	if l.Skipped {
		return "skipped"
	}
	return l.Elapsed.Round(time.Millisecond).String()
}
