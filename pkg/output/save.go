package output

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// Scale enlarges an image by an integer factor using nearest-neighbour sampling,
// so flat-colored pixels stay crisp. Factors below 2 return the image unchanged.
func Scale(img image.Image, factor int) image.Image {
	if factor < 2 {
		return img
	}
	bounds := img.Bounds()
	return resize.Resize(uint(bounds.Dx()*factor), uint(bounds.Dy()*factor), img, resize.NearestNeighbor)
}

// Save writes an image to path, creating parent directories. The format is chosen
// from the extension (png, jpg, gif, tif, bmp).
func Save(img image.Image, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// EncodePNG writes an image as PNG
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

// TimestampedPath returns <dir>/<sceneName>/render_<timestamp>.<ext>
func TimestampedPath(dir, sceneName string, now time.Time, ext string) string {
	if ext == "" {
		ext = "png"
	}
	filename := fmt.Sprintf("render_%s.%s", now.Format("20060102_150405"), ext)
	return filepath.Join(dir, sceneName, filename)
}
