package scene

import (
	"errors"

	"github.com/df07/go-flat-raytracer/pkg/core"
	"github.com/df07/go-flat-raytracer/pkg/geometry"
)

var (
	// ErrUnknownScene is returned when a scene name matches neither a built-in scene nor a file
	ErrUnknownScene = errors.New("unknown scene")
	// ErrInvalidEntity is returned when a scene file describes an entity that cannot be built
	ErrInvalidEntity = errors.New("invalid entity")
)

// Scene is the registry of entities to render, plus the camera and background that go with them.
// Entities must not be added while a render is in progress.
type Scene struct {
	Name            string
	CameraConfig    geometry.CameraConfig
	BackgroundColor core.Vec3 // Color of pixels whose ray hits nothing, black by default
	HitPolicy       string    // Overlap resolution, see renderer.ParseHitPolicy; empty means nearest
	entities        []geometry.Entity
}

// NewScene creates an empty scene with a black background
func NewScene(name string, cameraConfig geometry.CameraConfig) *Scene {
	return &Scene{
		Name:         name,
		CameraConfig: cameraConfig,
		entities:     make([]geometry.Entity, 0),
	}
}

// Add registers entities with the scene, preserving order
func (s *Scene) Add(entities ...geometry.Entity) {
	s.entities = append(s.entities, entities...)
}

// Entities returns the registered entities in registration order.
// The returned slice is shared with the scene and must be treated as read-only.
func (s *Scene) Entities() []geometry.Entity {
	return s.entities
}

// Background returns the color used when a ray hits nothing
func (s *Scene) Background() core.Vec3 {
	return s.BackgroundColor
}

// Len returns the number of registered entities
func (s *Scene) Len() int {
	return len(s.entities)
}

// Clear removes all entities from the scene
func (s *Scene) Clear() {
	s.entities = s.entities[:0]
}

// GetPrimitiveCount returns the number of entities of each kind
func (s *Scene) GetPrimitiveCount() map[string]int {
	counts := make(map[string]int)
	for _, entity := range s.entities {
		switch entity.(type) {
		case *geometry.Sphere:
			counts["sphere"]++
		case *geometry.Plane:
			counts["plane"]++
		case *geometry.Triangle:
			counts["triangle"]++
		case nil:
			counts["missing"]++
		default:
			counts["other"]++
		}
	}
	return counts
}
