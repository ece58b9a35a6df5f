package debugview

import (
	"math"
	"testing"

	"github.com/df07/go-flat-raytracer/pkg/core"
	"github.com/df07/go-flat-raytracer/pkg/geometry"
)

func TestProjector_TargetAtCenter(t *testing.T) {
	p := NewProjector(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 0), 60, 200, 100)

	x, y, ok := p.Project(core.NewVec3(0, 0, 0))
	if !ok {
		t.Fatal("Expected target to be visible")
	}
	if math.Abs(x-100) > 1e-6 || math.Abs(y-50) > 1e-6 {
		t.Errorf("Expected target at (100, 50), got (%f, %f)", x, y)
	}

	// Up in the world is up on screen
	_, yAbove, ok := p.Project(core.NewVec3(0, 1, 0))
	if !ok || yAbove >= y {
		t.Errorf("Expected point above target to project higher, got y=%f", yAbove)
	}
}

func TestProjector_BehindCamera(t *testing.T) {
	p := NewProjector(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 0), 60, 200, 100)

	if _, _, ok := p.Project(core.NewVec3(0, 0, -10)); ok {
		t.Error("Expected point behind the overview camera to be rejected")
	}
	if _, ok := p.Line(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -10)); ok {
		t.Error("Expected line crossing behind the overview camera to be rejected")
	}
}

func TestFrustumSegments(t *testing.T) {
	camera, err := geometry.NewCamera(geometry.CameraConfig{VFov: 60, Width: 160, Height: 90})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	p := DefaultProjector(320, 240)

	rays := FrustumSegments(camera, p, 5)
	if len(rays) != 4 {
		t.Fatalf("Expected 4 frustum rays, got %d", len(rays))
	}

	// All rays start at the camera origin
	ox, oy, _ := p.Project(core.NewVec3(0, 0, 0))
	for i, segment := range rays {
		if math.Abs(segment.X0-ox) > 1e-9 || math.Abs(segment.Y0-oy) > 1e-9 {
			t.Errorf("ray %d: expected start at (%f, %f), got (%f, %f)", i, ox, oy, segment.X0, segment.Y0)
		}
	}

	outline := ImagePlaneOutline(camera, p)
	if len(outline) != 4 {
		t.Fatalf("Expected 4 outline edges, got %d", len(outline))
	}
	// The outline is closed
	if outline[3].X1 != outline[0].X0 || outline[3].Y1 != outline[0].Y0 {
		t.Error("Expected image plane outline to be closed")
	}
}

func TestEntityOutline(t *testing.T) {
	p := DefaultProjector(320, 240)
	red := core.NewVec3(1, 0, 0)

	tests := []struct {
		name     string
		entity   geometry.Entity
		expected int
	}{
		{"sphere", geometry.NewSphere(core.NewVec3(0, 0, 5), 1, red), 3},
		{"bounded plane", geometry.NewBoundedPlane(core.NewVec3(0, -1, 5), core.NewVec3(0, 1, 0), 2, red), 4},
		{"infinite plane", geometry.NewPlane(core.NewVec3(0, -1, 5), core.NewVec3(0, 1, 0), red), 4},
		{"triangle", geometry.NewTriangle(core.NewVec3(-1, 0, 5), core.NewVec3(1, 0, 5), core.NewVec3(0, 1, 5), red), 3},
		{"nil sphere", (*geometry.Sphere)(nil), 0},
		{"untyped nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := EntityOutline(tt.entity, p)
			if len(segments) != tt.expected {
				t.Errorf("Expected %d segments, got %d", tt.expected, len(segments))
			}
		})
	}
}
