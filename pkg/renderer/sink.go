package renderer

import (
	"image"
	"image/color"
	"sync"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// PixelSink receives the rendered image. Width and Height are fixed for the
// lifetime of the sink and writes to one pixel are applied in order.
type PixelSink interface {
	Width() int
	Height() int
	SetPixel(x, y int, c core.Vec3)
	GetPixel(x, y int) core.Vec3
	Close() error
}

// Bitmap is an in-memory PixelSink holding linear radiance
type Bitmap struct {
	width, height int

	mu     sync.RWMutex
	pixels []core.Vec3
}

// NewBitmap creates a black bitmap
func NewBitmap(width, height int) *Bitmap {
	return &Bitmap{
		width:  width,
		height: height,
		pixels: make([]core.Vec3, width*height),
	}
}

// Width returns the bitmap width in pixels
func (b *Bitmap) Width() int { return b.width }

// Height returns the bitmap height in pixels
func (b *Bitmap) Height() int { return b.height }

// SetPixel stores c at (x, y). Writes outside the bitmap are ignored.
func (b *Bitmap) SetPixel(x, y int, c core.Vec3) {
	if !b.inside(x, y) {
		return
	}
	b.mu.Lock()
	b.pixels[y*b.width+x] = c
	b.mu.Unlock()
}

// GetPixel returns the last color written to (x, y)
func (b *Bitmap) GetPixel(x, y int) core.Vec3 {
	if !b.inside(x, y) {
		return core.Vec3{}
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pixels[y*b.width+x]
}

// Close is a no-op for in-memory bitmaps
func (b *Bitmap) Close() error {
	return nil
}

func (b *Bitmap) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

// ToImage converts the bitmap to gamma corrected 8-bit RGBA
func (b *Bitmap) ToImage(gamma float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	b.mu.RLock()
	defer b.mu.RUnlock()
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			img.SetRGBA(x, y, toRGBA(b.pixels[y*b.width+x], gamma))
		}
	}
	return img
}

// toRGBA clamps a linear color to [0, 1] and gamma corrects it
func toRGBA(c core.Vec3, gamma float64) color.RGBA {
	c = c.Clamp(0, 1).GammaCorrect(gamma)
	return color.RGBA{
		R: uint8(255 * c.X),
		G: uint8(255 * c.Y),
		B: uint8(255 * c.Z),
		A: 255,
	}
}
