package renderer

import (
	"image/color"
	"math"
	"testing"

	"github.com/df07/go-flat-raytracer/pkg/core"
)

func TestImageBuffer_SetPixel(t *testing.T) {
	buffer := NewImageBuffer(3, 2)
	if buffer.Width() != 3 || buffer.Height() != 2 {
		t.Fatalf("Expected 3x2 buffer, got %dx%d", buffer.Width(), buffer.Height())
	}

	buffer.SetPixel(2, 1, core.NewVec3(1, 0.5, 0))
	got := buffer.Image().RGBAAt(2, 1)
	expected := color.RGBA{R: 255, G: 127, B: 0, A: 255}
	if got != expected {
		t.Errorf("Expected %v, got %v", expected, got)
	}

	// Out-of-range writes are ignored
	buffer.SetPixel(3, 0, core.NewVec3(1, 1, 1))
	buffer.SetPixel(-1, 0, core.NewVec3(1, 1, 1))
}

func TestVec3ToColor_Clamps(t *testing.T) {
	tests := []struct {
		name     string
		input    core.Vec3
		expected color.RGBA
	}{
		{"black", core.NewVec3(0, 0, 0), color.RGBA{0, 0, 0, 255}},
		{"white", core.NewVec3(1, 1, 1), color.RGBA{255, 255, 255, 255}},
		{"over range", core.NewVec3(2, -1, 1.5), color.RGBA{255, 0, 255, 255}},
		{"NaN channels", core.NewVec3(math.NaN(), 1, math.NaN()), color.RGBA{0, 255, 0, 255}},
		{"infinite channels", core.NewVec3(math.Inf(1), math.Inf(-1), 0.5), color.RGBA{255, 0, 127, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := vec3ToColor(tt.input); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
