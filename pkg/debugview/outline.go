package debugview

import (
	"github.com/df07/go-flat-raytracer/pkg/core"
	"github.com/df07/go-flat-raytracer/pkg/geometry"
)

// infinitePlaneExtent is the half size used to draw unbounded planes
const infinitePlaneExtent = 6.0

// EntityOutline returns wireframe segments for an entity: three axis-aligned
// diameters for a sphere, the square for a plane and the edges of a triangle
func EntityOutline(entity geometry.Entity, p *Projector) []Segment {
	var edges [][2]core.Vec3

	switch e := entity.(type) {
	case *geometry.Sphere:
		if e == nil {
			return nil
		}
		for _, axis := range []core.Vec3{{X: 1}, {Y: 1}, {Z: 1}} {
			offset := axis.Multiply(e.Radius)
			edges = append(edges, [2]core.Vec3{e.Center.Subtract(offset), e.Center.Add(offset)})
		}
	case *geometry.Plane:
		if e == nil || e.Normal.IsZero() {
			return nil
		}
		corners := e.Corners(infinitePlaneExtent)
		for i := range corners {
			edges = append(edges, [2]core.Vec3{corners[i], corners[(i+1)%len(corners)]})
		}
	case *geometry.Triangle:
		if e == nil {
			return nil
		}
		edges = append(edges,
			[2]core.Vec3{e.V0, e.V1},
			[2]core.Vec3{e.V1, e.V2},
			[2]core.Vec3{e.V2, e.V0})
	}

	var segments []Segment
	for _, edge := range edges {
		if segment, ok := p.Line(edge[0], edge[1]); ok {
			segments = append(segments, segment)
		}
	}
	return segments
}
