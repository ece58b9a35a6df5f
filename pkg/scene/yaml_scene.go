package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/df07/go-flat-raytracer/pkg/core"
	"github.com/df07/go-flat-raytracer/pkg/geometry"
	"github.com/df07/go-flat-raytracer/pkg/loaders"
)

// FileConfig is the YAML representation of a scene file
type FileConfig struct {
	Name        string                `yaml:"name"`
	Description string                `yaml:"description"`
	Group       string                `yaml:"group"`
	Camera      geometry.CameraConfig `yaml:"camera"`
	Background  []float64             `yaml:"background"`
	Policy      string                `yaml:"policy"`
	Entities    []EntityConfig        `yaml:"entities"`
}

// EntityConfig describes one entity. Which fields are used depends on Type.
type EntityConfig struct {
	Type     string      `yaml:"type"` // sphere, plane, triangle or mesh
	Color    []float64   `yaml:"color"`
	Center   []float64   `yaml:"center"`   // sphere
	Radius   float64     `yaml:"radius"`   // sphere
	Point    []float64   `yaml:"point"`    // plane
	Normal   []float64   `yaml:"normal"`   // plane
	HalfSize float64     `yaml:"halfsize"` // plane, 0 for infinite
	Vertices [][]float64 `yaml:"vertices"` // triangle
	File     string      `yaml:"file"`     // mesh, PLY path relative to the scene file
	Scale    float64     `yaml:"scale"`    // mesh, 0 for 1
	Offset   []float64   `yaml:"offset"`   // mesh
}

// LoadYAML reads a scene file from disk
func LoadYAML(path string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	s, err := parseYAML(data, filepath.Dir(path), cameraOverrides)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseYAML builds a scene from YAML. Missing camera fields fall back to DefaultCameraConfig.
// Mesh files are resolved against the working directory.
func ParseYAML(data []byte, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	return parseYAML(data, "", cameraOverrides)
}

func parseYAML(data []byte, baseDir string, cameraOverrides []geometry.CameraConfig) (*Scene, error) {
	var config FileConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}

	cameraConfig := geometry.MergeCameraConfig(geometry.DefaultCameraConfig(), config.Camera)
	cameraConfig = cameraConfigFor(cameraConfig, cameraOverrides)

	s := NewScene(config.Name, cameraConfig)
	s.HitPolicy = strings.ToLower(strings.TrimSpace(config.Policy))

	if config.Background != nil {
		background, err := toVec3(config.Background)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		s.BackgroundColor = background
	}

	for i, entityConfig := range config.Entities {
		if strings.EqualFold(entityConfig.Type, "mesh") {
			triangles, err := entityConfig.BuildMesh(baseDir)
			if err != nil {
				return nil, fmt.Errorf("entity %d: %w", i, err)
			}
			s.Add(triangles...)
			continue
		}

		entity, err := entityConfig.Build()
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}
		s.Add(entity)
	}

	return s, nil
}

// color returns the configured color, white by default
func (ec EntityConfig) color() (core.Vec3, error) {
	if ec.Color == nil {
		return core.NewVec3(1, 1, 1), nil
	}
	c, err := toVec3(ec.Color)
	if err != nil {
		return core.Vec3{}, fmt.Errorf("color: %w", err)
	}
	return c, nil
}

// BuildMesh loads the PLY file of a mesh entity and returns one triangle per face,
// scaled and then offset
func (ec EntityConfig) BuildMesh(baseDir string) ([]geometry.Entity, error) {
	color, err := ec.color()
	if err != nil {
		return nil, err
	}
	if ec.File == "" {
		return nil, fmt.Errorf("mesh needs a file: %w", ErrInvalidEntity)
	}

	scale := ec.Scale
	if scale == 0 {
		scale = 1
	}
	var offset core.Vec3
	if ec.Offset != nil {
		if offset, err = toVec3(ec.Offset); err != nil {
			return nil, fmt.Errorf("mesh offset: %w", err)
		}
	}

	path := ec.File
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	mesh, err := loaders.LoadPLY(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: %w", err)
	}

	vertices := make([]core.Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		vertices[i] = v.Multiply(scale).Add(offset)
	}

	triangles := make([]geometry.Entity, 0, mesh.TriangleCount())
	for i := 0; i+2 < len(mesh.Faces); i += 3 {
		triangles = append(triangles, geometry.NewTriangle(
			vertices[mesh.Faces[i]], vertices[mesh.Faces[i+1]], vertices[mesh.Faces[i+2]], color))
	}
	return triangles, nil
}

// Build converts the configuration into a geometry entity. Meshes expand to
// many entities and are built with BuildMesh.
func (ec EntityConfig) Build() (geometry.Entity, error) {
	color, err := ec.color()
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(ec.Type) {
	case "sphere":
		center, err := toVec3(ec.Center)
		if err != nil {
			return nil, fmt.Errorf("sphere center: %w", err)
		}
		if ec.Radius <= 0 {
			return nil, fmt.Errorf("sphere radius %v must be positive: %w", ec.Radius, ErrInvalidEntity)
		}
		return geometry.NewSphere(center, ec.Radius, color), nil

	case "plane":
		point, err := toVec3(ec.Point)
		if err != nil {
			return nil, fmt.Errorf("plane point: %w", err)
		}
		normal, err := toVec3(ec.Normal)
		if err != nil {
			return nil, fmt.Errorf("plane normal: %w", err)
		}
		if normal.IsZero() {
			return nil, fmt.Errorf("plane normal must be non-zero: %w", ErrInvalidEntity)
		}
		if ec.HalfSize < 0 {
			return nil, fmt.Errorf("plane halfsize %v must not be negative: %w", ec.HalfSize, ErrInvalidEntity)
		}
		return geometry.NewBoundedPlane(point, normal, ec.HalfSize, color), nil

	case "triangle":
		if len(ec.Vertices) != 3 {
			return nil, fmt.Errorf("triangle needs 3 vertices, got %d: %w", len(ec.Vertices), ErrInvalidEntity)
		}
		var v [3]core.Vec3
		for i, vertex := range ec.Vertices {
			p, err := toVec3(vertex)
			if err != nil {
				return nil, fmt.Errorf("triangle vertex %d: %w", i, err)
			}
			v[i] = p
		}
		return geometry.NewTriangle(v[0], v[1], v[2], color), nil

	default:
		return nil, fmt.Errorf("unknown entity type %q: %w", ec.Type, ErrInvalidEntity)
	}
}

func toVec3(values []float64) (core.Vec3, error) {
	if len(values) != 3 {
		return core.Vec3{}, fmt.Errorf("expected 3 components, got %d: %w", len(values), ErrInvalidEntity)
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}
