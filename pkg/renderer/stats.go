package renderer

import (
	"image"
	"time"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels       int           // Total number of pixels written
	HitPixels         int           // Pixels colored by an entity
	BackgroundPixels  int           // Pixels whose ray hit nothing
	IntersectionTests int           // Number of Intersect calls
	RowsRendered      int           // Completed scanlines
	Elapsed           time.Duration // Wall time of the render
}

// merge adds the counters of another stats block (used to combine per-row results)
func (rs *RenderStats) merge(other RenderStats) {
	rs.TotalPixels += other.TotalPixels
	rs.HitPixels += other.HitPixels
	rs.BackgroundPixels += other.BackgroundPixels
	rs.IntersectionTests += other.IntersectionTests
	rs.RowsRendered += other.RowsRendered
}

// HitRatio returns the fraction of pixels colored by an entity
func (rs RenderStats) HitRatio() float64 {
	if rs.TotalPixels == 0 {
		return 0
	}
	return float64(rs.HitPixels) / float64(rs.TotalPixels)
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of img in [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	if bounds.Empty() {
		return 0
	}

	var total float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += 0.2126*float64(r)/0xffff + 0.7152*float64(g)/0xffff + 0.0722*float64(b)/0xffff
		}
	}
	return total / float64(bounds.Dx()*bounds.Dy())
}
