package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-flat-raytracer/pkg/core"
	"github.com/df07/go-flat-raytracer/pkg/geometry"
	"github.com/df07/go-flat-raytracer/pkg/renderer"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType"`
	Index        int                    `json:"index"` // Position of the entity in the scene
	Point        [3]float64             `json:"point"`
	Distance     float64                `json:"distance"` // Ray parameter t of the hit
	Color        [3]float64             `json:"color"`
	Ray          [3]float64             `json:"ray"` // Direction of the primary ray
	Properties   map[string]interface{} `json:"properties"`
}

// inspectPixel casts the primary ray of a 0-based image pixel and reports the entity that colors it
func inspectPixel(entities []geometry.Entity, camera *geometry.Camera, policy renderer.HitPolicy, pixelX, pixelY int) InspectResponse {
	ray := camera.WorldRay(pixelX+1, pixelY+1)
	response := InspectResponse{Ray: toArray(ray.Direction)}

	picked, ok := renderer.PickEntity(ray, entities, policy)
	if !ok {
		return response
	}

	geometryType, properties := extractGeometryInfo(picked.Entity)
	response.Hit = true
	response.GeometryType = geometryType
	response.Index = picked.Index
	response.Point = toArray(picked.Hit.Point)
	response.Distance = picked.Hit.T
	response.Color = toArray(picked.Entity.Color())
	response.Properties = properties
	return response
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(entity geometry.Entity) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := entity.(type) {
	case *geometry.Sphere:
		properties["center"] = toArray(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Plane:
		properties["point"] = toArray(geom.Point)
		properties["normal"] = toArray(geom.Normal)
		if geom.Bounded() {
			properties["halfSize"] = geom.HalfSize
		}
		return "plane", properties

	case *geometry.Triangle:
		properties["vertices"] = [3][3]float64{toArray(geom.V0), toArray(geom.V1), toArray(geom.V2)}
		properties["normal"] = toArray(geom.Normal())
		return "triangle", properties

	default:
		return "unknown", properties
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	pipeline, err := s.setupRenderingPipeline(req, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	camera := pipeline.Raytracer.Camera()
	if pixelX < 0 || pixelX >= camera.Width() || pixelY < 0 || pixelY >= camera.Height() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Pixel coordinates out of bounds for %dx%d image", camera.Width(), camera.Height()))
		return
	}

	policy := pipeline.Raytracer.HitPolicy()
	writeJSON(w, http.StatusOK, inspectPixel(pipeline.Scene.Entities(), camera, policy, pixelX, pixelY))
}

func toArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
