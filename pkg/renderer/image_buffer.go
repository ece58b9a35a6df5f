package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-flat-raytracer/pkg/core"
)

// PixelSink receives the rendered pixels. Coordinates are 0-based, y growing downwards.
// The renderer writes every pixel exactly once and never reads pixels back.
type PixelSink interface {
	Width() int
	Height() int
	SetPixel(x, y int, color core.Vec3)
}

// ImageBuffer is a PixelSink backed by an RGBA image.
// Writes to distinct pixels may happen concurrently.
type ImageBuffer struct {
	img *image.RGBA
}

// NewImageBuffer creates a buffer of the given size
func NewImageBuffer(width, height int) *ImageBuffer {
	return &ImageBuffer{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Width returns the buffer width in pixels
func (b *ImageBuffer) Width() int {
	return b.img.Bounds().Dx()
}

// Height returns the buffer height in pixels
func (b *ImageBuffer) Height() int {
	return b.img.Bounds().Dy()
}

// SetPixel stores a color at (x, y). Out-of-range coordinates are ignored.
func (b *ImageBuffer) SetPixel(x, y int, c core.Vec3) {
	b.img.SetRGBA(x, y, vec3ToColor(c))
}

// Image returns the underlying image
func (b *ImageBuffer) Image() *image.RGBA {
	return b.img
}

// vec3ToColor converts a Vec3 color to RGBA with clamping. Flat colors are written linearly.
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	return color.RGBA{
		R: toChannel(colorVec.X),
		G: toChannel(colorVec.Y),
		B: toChannel(colorVec.Z),
		A: 255,
	}
}

// toChannel maps [0,1] to a byte; NaN becomes 0
func toChannel(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(255 * max(0.0, min(1.0, v)))
}
