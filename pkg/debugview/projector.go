// Package debugview projects the camera frustum and image plane into a 2D
// overview so they can be drawn next to the rendered image.
package debugview

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-flat-raytracer/pkg/core"
	"github.com/df07/go-flat-raytracer/pkg/geometry"
)

const (
	nearPlane = 0.1
	farPlane  = 1000.0
)

// Segment is a 2D line in screen pixels, y growing downwards
type Segment struct {
	X0, Y0, X1, Y1 float64
}

// Projector maps world points to the screen of an overview camera
type Projector struct {
	viewProjection mgl64.Mat4
	width, height  float64
}

// NewProjector creates an overview camera at eye looking at target with a vertical fov in degrees
func NewProjector(eye, target core.Vec3, fovy float64, width, height int) *Projector {
	aspect := float64(width) / float64(height)
	projection := mgl64.Perspective(mgl64.DegToRad(fovy), aspect, nearPlane, farPlane)
	view := mgl64.LookAtV(toMgl(eye), toMgl(target), mgl64.Vec3{0, 1, 0})

	return &Projector{
		viewProjection: projection.Mul4(view),
		width:          float64(width),
		height:         float64(height),
	}
}

// DefaultProjector looks at the render camera from above, behind and to the right
func DefaultProjector(width, height int) *Projector {
	return NewProjector(core.NewVec3(5, 4, -5), core.NewVec3(0, 0, 2), 50, width, height)
}

// Project returns the screen position of a world point. ok is false for points behind the overview camera.
func (p *Projector) Project(point core.Vec3) (x, y float64, ok bool) {
	clip := p.viewProjection.Mul4x1(mgl64.Vec4{point.X, point.Y, point.Z, 1})
	if clip.W() <= 1e-9 {
		return 0, 0, false
	}

	ndc := clip.Vec3().Mul(1 / clip.W())
	x = (ndc.X() + 1) / 2 * p.width
	y = (1 - ndc.Y()) / 2 * p.height
	return x, y, !math.IsNaN(x) && !math.IsNaN(y)
}

// Line projects a world-space segment
func (p *Projector) Line(from, to core.Vec3) (Segment, bool) {
	x0, y0, ok0 := p.Project(from)
	x1, y1, ok1 := p.Project(to)
	if !ok0 || !ok1 {
		return Segment{}, false
	}
	return Segment{X0: x0, Y0: y0, X1: x1, Y1: y1}, true
}

// Ray projects a ray from its origin to origin + length * direction
func (p *Projector) Ray(ray core.Ray, length float64) (Segment, bool) {
	return p.Line(ray.Origin, ray.At(length))
}

// FrustumSegments returns the four corner rays of the camera, each drawn to the given length
// in units of the ray direction (1 reaches the image plane)
func FrustumSegments(camera *geometry.Camera, p *Projector, length float64) []Segment {
	var segments []Segment
	for _, ray := range camera.FrustumRays() {
		if segment, ok := p.Ray(ray, length); ok {
			segments = append(segments, segment)
		}
	}
	return segments
}

// ImagePlaneOutline returns the border of the image plane one unit in front of the camera
func ImagePlaneOutline(camera *geometry.Camera, p *Projector) []Segment {
	rays := camera.FrustumRays()
	// Corners in drawing order: top-left, top-right, bottom-right, bottom-left
	corners := []core.Vec3{rays[0].Direction, rays[1].Direction, rays[3].Direction, rays[2].Direction}

	var segments []Segment
	for i := range corners {
		if segment, ok := p.Line(corners[i], corners[(i+1)%len(corners)]); ok {
			segments = append(segments, segment)
		}
	}
	return segments
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}
