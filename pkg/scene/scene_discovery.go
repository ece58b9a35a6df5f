package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/df07/go-flat-raytracer/pkg/geometry"
)

const builtinGroup = "Built-in Scenes"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier, accepted by Load
	Name        string `json:"name"`        // Scene name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "yaml"
	FilePath    string `json:"filePath"`    // Path to the scene file (yaml type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

var builtinDescriptions = map[string]string{
	"default": "Sphere, ground plane and triangle",
	"sphere":  "Single sphere on the view axis",
	"overlap": "Overlapping entities for comparing hit policies",
}

// Load resolves a scene ID: a built-in name, a path to a YAML file, or the name of a YAML file in scenesDir
func Load(id, scenesDir string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	if id == "" {
		return nil, fmt.Errorf("empty scene name: %w", ErrUnknownScene)
	}
	if _, ok := builtins[id]; ok {
		return NewBuiltinScene(id, cameraOverrides...)
	}

	candidates := []string{id}
	if scenesDir != "" && !strings.ContainsRune(id, filepath.Separator) {
		candidates = append(candidates,
			filepath.Join(scenesDir, id+".yaml"),
			filepath.Join(scenesDir, id+".yml"))
	}
	for _, path := range candidates {
		if !isSceneFile(path) {
			continue
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return LoadYAML(path, cameraOverrides...)
		}
	}

	return nil, fmt.Errorf("%q: %w", id, ErrUnknownScene)
}

// LoadByName resolves a scene ID to a built-in scene or a YAML file directly inside scenesDir.
// IDs that carry a path (separators, "..", absolute paths) are rejected.
func LoadByName(id, scenesDir string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	if id == "" || id == "." || strings.Contains(id, "..") || strings.ContainsAny(id, `/\`) ||
		filepath.IsAbs(id) || filepath.VolumeName(id) != "" {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownScene)
	}
	if _, ok := builtins[id]; ok {
		return NewBuiltinScene(id, cameraOverrides...)
	}
	if scenesDir == "" {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownScene)
	}
	base := id
	if isSceneFile(id) {
		base = strings.TrimSuffix(id, filepath.Ext(id))
	}
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(scenesDir, base+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return LoadYAML(path, cameraOverrides...)
		}
	}
	return nil, fmt.Errorf("%q: %w", id, ErrUnknownScene)
}

// ListSceneFiles scans dir for YAML scenes. A missing directory yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
		}
		files = append(files, matches...)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		info, err := ParseSceneMetadata(filePath)
		if err != nil {
			// Log warning but continue processing other files
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})

	return scenes, nil
}

// ParseSceneMetadata reads the name, description and group of a scene file
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	info := SceneInfo{
		ID:       nameWithoutExt,
		Name:     titleCase(nameWithoutExt),
		Group:    "Scene Files",
		Type:     "yaml",
		FilePath: filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return info, err
	}

	var header struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Group       string `yaml:"group"`
	}
	if err := yaml.Unmarshal(data, &header); err != nil {
		return info, err
	}

	if header.Name != "" {
		info.Name = header.Name
	}
	if header.Group != "" {
		info.Group = header.Group
	}
	info.Description = header.Description

	return info, nil
}

// ListAllScenes returns both built-in and file scenes, grouped by category
func ListAllScenes(scenesDir string) (ScenesResponse, error) {
	var response ScenesResponse

	var allScenes []SceneInfo
	for _, name := range BuiltinNames() {
		allScenes = append(allScenes, SceneInfo{
			ID:          name,
			Name:        titleCase(name),
			Description: builtinDescriptions[name],
			Group:       builtinGroup,
			Type:        "builtin",
		})
	}

	fileScenes, err := ListSceneFiles(scenesDir)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}
	allScenes = append(allScenes, fileScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, s := range allScenes {
		groupMap[s.Group] = append(groupMap[s.Group], s)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{
		Name:   builtinGroup,
		Scenes: groupMap[builtinGroup],
	})
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

func isSceneFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// titleCase converts a filename-style string to title case
// e.g., "two-spheres" -> "Two Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
