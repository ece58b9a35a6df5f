package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-flat-raytracer/pkg/core"
)

func TestTriangle_Intersect(t *testing.T) {
	// Create a triangle in the XY plane
	v0 := core.NewVec3(0, 0, 0)
	v1 := core.NewVec3(1, 0, 0)
	v2 := core.NewVec3(0, 1, 0)
	triangle := NewTriangle(v0, v1, v2, testColor)

	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
		expectedT float64
	}{
		{
			name: "Ray hits triangle interior",
			ray: core.NewRay(
				core.NewVec3(0.25, 0.25, -1), // origin
				core.NewVec3(0, 0, 1),        // direction (toward +Z)
			),
			shouldHit: true,
			expectedT: 1.0,
		},
		{
			name: "Ray hits triangle edge",
			ray: core.NewRay(
				core.NewVec3(0.5, 0, -1), // origin (on edge between v0 and v1)
				core.NewVec3(0, 0, 1),
			),
			shouldHit: true,
			expectedT: 1.0,
		},
		{
			name: "Ray misses triangle in its plane's bounding square",
			ray: core.NewRay(
				core.NewVec3(0.75, 0.75, -1), // inside the unit square, outside the triangle
				core.NewVec3(0, 0, 1),
			),
			shouldHit: false,
		},
		{
			name: "Ray parallel to triangle",
			ray: core.NewRay(
				core.NewVec3(0.25, 0.25, 0), // origin (in triangle plane)
				core.NewVec3(1, 0, 0),
			),
			shouldHit: false,
		},
		{
			name: "Ray hits from behind",
			ray: core.NewRay(
				core.NewVec3(0.25, 0.25, 1),
				core.NewVec3(0, 0, -1),
			),
			shouldHit: true,
			expectedT: 1.0,
		},
		{
			name: "Triangle behind ray origin",
			ray: core.NewRay(
				core.NewVec3(0.25, 0.25, 1),
				core.NewVec3(0, 0, 1),
			),
			shouldHit: false,
		},
		{
			name: "Zero length direction",
			ray: core.NewRay(
				core.NewVec3(0.25, 0.25, -1),
				core.NewVec3(0, 0, 0),
			),
			shouldHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := triangle.Intersect(tt.ray)

			if isHit != tt.shouldHit {
				t.Fatalf("Expected hit=%t, got hit=%t", tt.shouldHit, isHit)
			}

			if isHit && math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}
		})
	}
}

func TestTriangle_Intersect_FromCamera(t *testing.T) {
	// Triangle facing the camera five units away
	triangle := NewTriangle(
		core.NewVec3(-1, -1, 5),
		core.NewVec3(1, -1, 5),
		core.NewVec3(0, 1, 5),
		testColor,
	)
	origin := core.NewVec3(0, 0, 0)

	interior := []core.Vec3{
		core.NewVec3(0, 0, 1),
		core.NewVec3(0.1, -0.15, 1),
		core.NewVec3(0, 0.15, 1),
	}
	for _, dir := range interior {
		hit, isHit := triangle.Intersect(core.NewRay(origin, dir))
		if !isHit {
			t.Errorf("Expected hit through interior direction %v", dir)
			continue
		}
		if math.Abs(hit.Point.Z-5) > 1e-9 {
			t.Errorf("Expected hit on z=5, got %v", hit.Point)
		}
	}

	// Exterior points on the triangle's plane
	exterior := []core.Vec3{
		core.NewVec3(0.18, 0.15, 1),
		core.NewVec3(-0.18, 0.15, 1),
		core.NewVec3(0, -0.3, 1),
	}
	for _, dir := range exterior {
		if _, isHit := triangle.Intersect(core.NewRay(origin, dir)); isHit {
			t.Errorf("Expected miss through exterior direction %v", dir)
		}
	}
}

func TestTriangle_Intersect_Degenerate(t *testing.T) {
	// Collinear vertices
	triangle := NewTriangle(
		core.NewVec3(0, 0, 5),
		core.NewVec3(1, 0, 5),
		core.NewVec3(2, 0, 5),
		testColor,
	)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0.1, 0, 1))

	if _, isHit := triangle.Intersect(ray); isHit {
		t.Error("Expected miss for degenerate triangle")
	}
}

func TestTriangle_Normal(t *testing.T) {
	triangle := NewTriangle(
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
		testColor,
	)
	expected := core.NewVec3(0, 0, 1)
	if triangle.Normal().Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected normal %v, got %v", expected, triangle.Normal())
	}
}

func TestTriangle_LiteralConstruction(t *testing.T) {
	triangle := &Triangle{
		V0:     core.NewVec3(-1, -1, 5),
		V1:     core.NewVec3(1, -1, 5),
		V2:     core.NewVec3(0, 1, 5),
		Albedo: testColor,
	}

	hit, isHit := triangle.Intersect(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)))
	if !isHit {
		t.Fatal("Expected a literal triangle to be hit through its center")
	}
	if math.Abs(hit.T-5) > 1e-9 {
		t.Errorf("Expected t=5, got %f", hit.T)
	}

	if _, isHit := triangle.Intersect(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0.9, 0.9, 5))); isHit {
		t.Error("Expected miss outside the literal triangle")
	}

	expected := core.NewVec3(0, 0, 1)
	if n := triangle.Normal(); n.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected normal %v, got %v", expected, n)
	}
}
