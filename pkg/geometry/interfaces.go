package geometry

import (
	"github.com/df07/go-flat-raytracer/pkg/core"
)

// Entity is a renderable primitive with a flat color.
// Implementations must be safe for concurrent Intersect calls.
type Entity interface {
	// Intersect reports the nearest intersection in front of the ray origin (t >= 0).
	// Degenerate rays or shapes report no hit.
	Intersect(ray core.Ray) (Hit, bool)
	// Color returns the entity's fixed RGB color
	Color() core.Vec3
}

// Hit describes where a ray intersects an entity
type Hit struct {
	T     float64   // Ray parameter at the intersection (distance in units of the ray direction)
	Point core.Vec3 // World-space intersection point
}

// parallelEpsilon is the denominator below which a ray is treated as parallel to a surface
const parallelEpsilon = 1e-8
