package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-flat-raytracer/pkg/core"
	"github.com/df07/go-flat-raytracer/pkg/geometry"
)

// builtins maps built-in scene IDs to their constructors
var builtins = map[string]func(...geometry.CameraConfig) *Scene{
	"default": NewDefaultScene,
	"sphere":  NewSphereScene,
	"overlap": NewOverlapScene,
}

// BuiltinNames returns the IDs of all built-in scenes, sorted
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewBuiltinScene creates a built-in scene by ID
func NewBuiltinScene(name string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	constructor, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownScene)
	}
	return constructor(cameraOverrides...), nil
}

// cameraConfigFor applies optional overrides on top of a scene's default camera
func cameraConfigFor(defaults geometry.CameraConfig, overrides []geometry.CameraConfig) geometry.CameraConfig {
	if len(overrides) > 0 {
		return geometry.MergeCameraConfig(defaults, overrides[0])
	}
	return defaults
}

// NewDefaultScene creates a scene with one of each primitive: a sphere, a ground plane and a triangle
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := cameraConfigFor(geometry.CameraConfig{
		VFov:   60.0,
		Width:  400,
		Height: 225, // 16:9 aspect ratio
	}, cameraOverrides)

	s := NewScene("default", cameraConfig)

	red := core.NewVec3(0.9, 0.2, 0.2)
	green := core.NewVec3(0.3, 0.7, 0.3)
	blue := core.NewVec3(0.2, 0.3, 0.9)

	s.Add(
		geometry.NewSphere(core.NewVec3(-1, 0, 6), 1.0, red),
		geometry.NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), green),
		geometry.NewTriangle(
			core.NewVec3(0.5, -1, 7),
			core.NewVec3(3, -1, 7),
			core.NewVec3(1.75, 1.5, 7),
			blue,
		),
	)

	return s
}

// NewSphereScene creates a single red sphere on the view axis five units away
func NewSphereScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := cameraConfigFor(geometry.CameraConfig{
		VFov:   60.0,
		Width:  100,
		Height: 100,
	}, cameraOverrides)

	s := NewScene("sphere", cameraConfig)
	s.Add(geometry.NewSphere(core.NewVec3(0, 0, 5), 1.0, core.NewVec3(1, 0, 0)))
	return s
}

// NewOverlapScene creates overlapping entities registered far-to-near, so the
// hit policy decides what is visible
func NewOverlapScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := cameraConfigFor(geometry.CameraConfig{
		VFov:   60.0,
		Width:  200,
		Height: 200,
	}, cameraOverrides)

	s := NewScene("overlap", cameraConfig)
	s.Add(
		geometry.NewBoundedPlane(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1), 4.0, core.NewVec3(0.8, 0.8, 0.8)),
		geometry.NewSphere(core.NewVec3(0, 0, 6), 1.5, core.NewVec3(0.2, 0.3, 0.9)),
		geometry.NewSphere(core.NewVec3(0.5, 0.5, 4), 0.5, core.NewVec3(0.9, 0.8, 0.1)),
	)
	return s
}
