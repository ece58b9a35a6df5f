package output

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
)

func checkerImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{0, 255, 0, 255})
	img.SetRGBA(0, 1, color.RGBA{0, 0, 255, 255})
	img.SetRGBA(1, 1, color.RGBA{255, 255, 255, 255})
	return img
}

func TestScale_NearestNeighbour(t *testing.T) {
	scaled := Scale(checkerImage(), 3)

	if scaled.Bounds().Dx() != 6 || scaled.Bounds().Dy() != 6 {
		t.Fatalf("Expected 6x6 image, got %v", scaled.Bounds())
	}

	// Every 3x3 block keeps its source color
	r, g, b, _ := scaled.At(2, 2).RGBA()
	if r>>8 != 255 || g != 0 || b != 0 {
		t.Errorf("Expected red block, got %d %d %d", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = scaled.At(3, 0).RGBA()
	if r != 0 || g>>8 != 255 || b != 0 {
		t.Errorf("Expected green block, got %d %d %d", r>>8, g>>8, b>>8)
	}
}

func TestScale_SmallFactorIsIdentity(t *testing.T) {
	img := checkerImage()
	for _, factor := range []int{-1, 0, 1} {
		if Scale(img, factor) != image.Image(img) {
			t.Errorf("factor %d: expected the original image", factor)
		}
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "render.png")

	if err := Save(checkerImage(), path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open saved image: %v", err)
	}
	defer f.Close()

	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Saved file is not a PNG: %v", err)
	}
	if decoded.Bounds().Dx() != 2 {
		t.Errorf("Expected width 2, got %d", decoded.Bounds().Dx())
	}
}

func TestSave_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.xyz")
	if err := Save(checkerImage(), path); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestEncodePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, checkerImage()); err != nil {
		t.Fatalf("EncodePNG() error: %v", err)
	}

	decoded, err := imaging.Decode(&buf)
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	if decoded.Bounds().Dx() != 2 || decoded.Bounds().Dy() != 2 {
		t.Errorf("Unexpected bounds %v", decoded.Bounds())
	}
}

func TestTimestampedPath(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	path := TimestampedPath("output", "sphere", now, "")

	expected := filepath.Join("output", "sphere", "render_20240305_140709.png")
	if path != expected {
		t.Errorf("Expected %q, got %q", expected, path)
	}
}
