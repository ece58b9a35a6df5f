package geometry

import (
	"github.com/df07/go-flat-raytracer/pkg/core"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3 // The three vertices
	Albedo     core.Vec3
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, color core.Vec3) *Triangle {
	return &Triangle{
		V0:     v0,
		V1:     v1,
		V2:     v2,
		Albedo: color,
	}
}

// Intersect tests if a ray intersects with the triangle using the Möller-Trumbore algorithm.
// Points on the edges count as inside.
func (t *Triangle) Intersect(ray core.Ray) (Hit, bool) {
	if t == nil {
		return Hit{}, false
	}
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	// Calculate determinant
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Ray lies in the plane of the triangle, the direction is zero, or the triangle is degenerate
	if a > -parallelEpsilon && a < parallelEpsilon {
		return Hit{}, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return Hit{}, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return Hit{}, false
	}

	tParam := f * edge2.Dot(q)
	if tParam < 0 {
		return Hit{}, false
	}

	return Hit{T: tParam, Point: ray.At(tParam)}, true
}

// Color returns the triangle's flat color
func (t *Triangle) Color() core.Vec3 {
	if t == nil {
		return core.Vec3{}
	}
	return t.Albedo
}

// Normal returns the triangle's unit normal (right-handed winding V0, V1, V2)
func (t *Triangle) Normal() core.Vec3 {
	return t.V1.Subtract(t.V0).Cross(t.V2.Subtract(t.V0)).Normalize()
}
