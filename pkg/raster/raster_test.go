package raster

import (
	"bytes"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/matzehuels/galaxygen/pkg/galaxy"
)

func TestSkippedLayer(t *testing.T) {
	l := Skipped("nebula")
	if !l.Skipped {
		t.Fatal("Skipped() should mark the layer")
	}
	if l.ElapsedString() != "skipped" {
		t.Errorf("ElapsedString() = %q, want skipped", l.ElapsedString())
	}
	if l.Image.Bounds().Dx() != 1 {
		t.Errorf("placeholder should be 1x1, got %v", l.Image.Bounds())
	}
}

func TestFinish(t *testing.T) {
	start := time.Now().Add(-1500 * time.Millisecond)
	l := Finish("stars", start, image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if l.Skipped || l.Elapsed < 1500*time.Millisecond {
		t.Errorf("Finish() = %+v", l)
	}
	if l.ElapsedString() == "skipped" {
		t.Error("finished layer should report a duration")
	}
}

func TestCanvasDisc(t *testing.T) {
	c := NewCanvas(32)
	c.Disc(16, 16, 5, galaxy.RGBA{R: 255, A: 255})

	if got := c.At(galaxy.Pt(16, 16)); got.R != 255 || got.A != 255 {
		t.Errorf("center pixel = %v, want opaque red", got)
	}
	if got := c.At(galaxy.Pt(1, 1)); got.A != 0 {
		t.Errorf("corner pixel = %v, want transparent", got)
	}
}

func TestCanvasStampOverwrites(t *testing.T) {
	c := NewCanvas(16)
	c.Stamp(galaxy.Pt(8, 8), 4, galaxy.RGBA{R: 255, A: 200})
	c.Stamp(galaxy.Pt(8, 8), 2, galaxy.RGBA{B: 255, A: 10})

	if got := c.At(galaxy.Pt(8, 8)); got.R != 0 || got.A != 10 {
		t.Errorf("inner stamp should replace the outer one, got %v", got)
	}
	if got := c.At(galaxy.Pt(8, 11)); got.A != 200 {
		t.Errorf("outer ring alpha = %d, want 200", got.A)
	}
	if got := c.At(galaxy.Pt(8, 13)); got.A != 0 {
		t.Errorf("outside the stamp alpha = %d, want 0", got.A)
	}

	// clipped at the edges
	c.Stamp(galaxy.Pt(0, 0), 3, galaxy.RGBA{G: 255, A: 255})
	if got := c.At(galaxy.Pt(0, 0)); got.G != 255 {
		t.Errorf("edge stamp = %v", got)
	}
}

func TestOpaqueCanvas(t *testing.T) {
	c := NewOpaqueCanvas(8, galaxy.RGB{B: 200})
	if got := c.At(galaxy.Pt(3, 3)); got.B != 200 || got.A != 255 {
		t.Errorf("pixel = %v, want opaque blue", got)
	}
	if got := c.Image().Bounds().Dx(); got != 8 {
		t.Errorf("canvas width = %d, want 8", got)
	}
}

func TestLerp(t *testing.T) {
	a := galaxy.RGB{R: 0, G: 100, B: 200}
	b := galaxy.RGB{R: 255, G: 255, B: 255}

	if got := Lerp(a, b, 0); got != a {
		t.Errorf("Lerp(t=0) = %v, want %v", got, a)
	}
	if got := Lerp(a, b, 1); got != b {
		t.Errorf("Lerp(t=1) = %v, want %v", got, b)
	}
	if got := Lerp(a, b, 0.5); got.R != 127 || got.G != 177 || got.B != 227 {
		t.Errorf("Lerp(t=0.5) = %v", got)
	}
}

func TestBoxBlurPreservesUniform(t *testing.T) {
	m := image.NewAlpha(image.Rect(0, 0, 10, 10))
	for i := range m.Pix {
		m.Pix[i] = 80
	}
	out := BoxBlur(m, 3)
	for i, v := range out.Pix {
		if v != 80 {
			t.Fatalf("pixel %d = %d, want 80", i, v)
		}
	}
}

func TestBoxBlurSpreads(t *testing.T) {
	m := image.NewAlpha(image.Rect(0, 0, 9, 9))
	m.Pix[4*m.Stride+4] = 255

	out := BoxBlur(m, 1)
	if v := out.Pix[4*out.Stride+4]; v != 28 {
		t.Errorf("center = %d, want 255/9 rounded (28)", v)
	}
	if v := out.Pix[3*out.Stride+3]; v != 28 {
		t.Errorf("diagonal neighbor = %d, want 28", v)
	}
	if v := out.Pix[0]; v != 0 {
		t.Errorf("far corner = %d, want 0", v)
	}
}

func TestBoxBlurZeroRadius(t *testing.T) {
	m := image.NewAlpha(image.Rect(0, 0, 3, 3))
	m.Pix[4] = 9
	out := BoxBlur(m, 0)
	if out.Pix[4] != 9 || &out.Pix[0] == &m.Pix[0] {
		t.Error("zero radius should return an equal copy")
	}
}

func TestComposeOrder(t *testing.T) {
	bottom := NewOpaqueCanvas(4, galaxy.RGB{R: 255})
	top := NewCanvas(4)
	top.Disc(2, 2, 10, galaxy.RGBA{G: 255, A: 255})

	out := Compose(4,
		Layer{Name: "bottom", Image: bottom.Image()},
		Layer{Name: "top", Image: top.Image()},
		Skipped("ignored"),
	)
	if got := out.RGBAAt(1, 1); got.G != 255 || got.R != 0 {
		t.Errorf("top layer should win, got %v", got)
	}
}

func TestPaintThrough(t *testing.T) {
	dst := NewOpaqueCanvas(2, galaxy.RGB{R: 200, G: 200, B: 200}).Image()
	mask := image.NewAlpha(image.Rect(0, 0, 2, 2))
	mask.Pix[0] = 255

	PaintThrough(dst, galaxy.RGBA{R: 15, G: 10, B: 5, A: 255}, mask)

	if got := dst.RGBAAt(0, 0); got.R != 15 || got.G != 10 || got.B != 5 {
		t.Errorf("masked pixel = %v, want dust color", got)
	}
	if got := dst.RGBAAt(1, 1); got.R != 200 {
		t.Errorf("unmasked pixel = %v, want untouched", got)
	}
}

func TestEncodePNG(t *testing.T) {
	data, err := EncodePNG(NewCanvas(5).Image())
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 5 {
		t.Errorf("decoded width = %d", img.Bounds().Dx())
	}
}

func TestThumbnail(t *testing.T) {
	img := NewCanvas(64).Image()
	if got := Thumbnail(img, 16); got.Bounds().Dx() != 16 {
		t.Errorf("thumbnail width = %d, want 16", got.Bounds().Dx())
	}
	if got := Thumbnail(img, 128); got != image.Image(img) {
		t.Error("small images should be returned as is")
	}
}
