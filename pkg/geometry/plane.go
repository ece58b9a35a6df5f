package geometry

import (
	"math"

	"github.com/df07/go-flat-raytracer/pkg/core"
)

// Plane represents a plane defined by a point and normal.
// A zero HalfSize makes the plane infinite; otherwise it is the square of
// side 2*HalfSize centered on Point.
type Plane struct {
	Point    core.Vec3 // A point on the plane
	Normal   core.Vec3 // Unit normal vector
	HalfSize float64   // Half of the square's side length, 0 for infinite
	Albedo   core.Vec3
}

// NewPlane creates a new infinite plane
func NewPlane(point, normal core.Vec3, color core.Vec3) *Plane {
	return NewBoundedPlane(point, normal, 0, color)
}

// NewBoundedPlane creates a square plane of side 2*halfSize centered on point
func NewBoundedPlane(point, normal core.Vec3, halfSize float64, color core.Vec3) *Plane {
	return &Plane{
		Point:    point,
		Normal:   normal.Normalize(),
		HalfSize: math.Max(0, halfSize),
		Albedo:   color,
	}
}

// basis returns an orthonormal pair spanning the plane, derived from Normal
func (p *Plane) basis() (right, up core.Vec3) {
	n := p.Normal.Normalize()
	if math.Abs(n.X) > 0.1 {
		right = core.NewVec3(0, 1, 0)
	} else {
		right = core.NewVec3(1, 0, 0)
	}
	right = right.Cross(n).Normalize()
	up = n.Cross(right).Normalize()
	return right, up
}

// Bounded reports whether the plane has a finite extent
func (p *Plane) Bounded() bool {
	return p.HalfSize > 0
}

// Corners returns the square's corners in winding order. Infinite planes use
// extent as their half size.
func (p *Plane) Corners(extent float64) [4]core.Vec3 {
	half := p.HalfSize
	if !p.Bounded() {
		half = extent
	}
	right, up := p.basis()
	r := right.Multiply(half)
	u := up.Multiply(half)
	return [4]core.Vec3{
		p.Point.Subtract(r).Subtract(u),
		p.Point.Add(r).Subtract(u),
		p.Point.Add(r).Add(u),
		p.Point.Subtract(r).Add(u),
	}
}

// Intersect tests if a ray intersects with the plane
func (p *Plane) Intersect(ray core.Ray) (Hit, bool) {
	if p == nil || p.Normal.IsZero() {
		return Hit{}, false
	}

	denominator := ray.Direction.Dot(p.Normal)

	// Ray parallel to the plane (also covers a zero-length direction)
	if math.Abs(denominator) < parallelEpsilon {
		return Hit{}, false
	}

	// t = (point_on_plane - ray_origin) · normal / (ray_direction · normal)
	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t < 0 {
		return Hit{}, false
	}

	hitPoint := ray.At(t)

	if p.Bounded() {
		right, up := p.basis()
		local := hitPoint.Subtract(p.Point)
		if math.Abs(local.Dot(right)) > p.HalfSize || math.Abs(local.Dot(up)) > p.HalfSize {
			return Hit{}, false
		}
	}

	return Hit{T: t, Point: hitPoint}, true
}

// Color returns the plane's flat color
func (p *Plane) Color() core.Vec3 {
	if p == nil {
		return core.Vec3{}
	}
	return p.Albedo
}
