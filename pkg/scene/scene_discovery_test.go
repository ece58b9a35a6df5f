package scene

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-flat-raytracer/pkg/geometry"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"two-spheres", "Two Spheres"},
		{"ground_plane", "Ground Plane"},
		{"my-custom-scene", "My Custom Scene"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func writeSceneFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}
	return path
}

func TestParseSceneMetadata(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name     string
		content  string
		expected SceneInfo
	}{
		{
			name: "complete_metadata.yaml",
			content: `name: Two Spheres
description: Overlapping spheres
group: Test Scenes
entities: []`,
			expected: SceneInfo{
				ID:          "complete_metadata",
				Name:        "Two Spheres",
				Description: "Overlapping spheres",
				Group:       "Test Scenes",
				Type:        "yaml",
			},
		},
		{
			name:    "no-metadata.yml",
			content: `entities: []`,
			expected: SceneInfo{
				ID:    "no-metadata",
				Name:  "No Metadata", // From filename
				Group: "Scene Files", // Default group
				Type:  "yaml",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeSceneFile(t, dir, tc.name, tc.content)

			result, err := ParseSceneMetadata(path)
			if err != nil {
				t.Fatalf("ParseSceneMetadata() error: %v", err)
			}

			tc.expected.FilePath = path
			if result != tc.expected {
				t.Errorf("ParseSceneMetadata() = %+v, want %+v", result, tc.expected)
			}
		})
	}
}

func TestListSceneFiles_MissingDirectory(t *testing.T) {
	scenes, err := ListSceneFiles(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Errorf("ListSceneFiles() error: %v", err)
	}
	if scenes == nil || len(scenes) != 0 {
		t.Errorf("ListSceneFiles() = %v, expected empty slice", scenes)
	}
}

func TestListSceneFiles(t *testing.T) {
	dir := t.TempDir()
	writeSceneFile(t, dir, "b.yaml", "name: Beta\n")
	writeSceneFile(t, dir, "a.yml", "name: Alpha\n")
	writeSceneFile(t, dir, "ignored.txt", "name: Ignored\n")

	scenes, err := ListSceneFiles(dir)
	if err != nil {
		t.Fatalf("ListSceneFiles() error: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("Expected 2 scenes, got %d", len(scenes))
	}
	if scenes[0].Name != "Alpha" || scenes[1].Name != "Beta" {
		t.Errorf("Expected scenes sorted by name, got %q, %q", scenes[0].Name, scenes[1].Name)
	}
}

func TestListAllScenes(t *testing.T) {
	dir := t.TempDir()
	writeSceneFile(t, dir, "custom.yaml", "name: Custom\ngroup: Mine\n")

	response, err := ListAllScenes(dir)
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}

	if len(response.Groups) != 2 {
		t.Fatalf("Expected built-in and custom groups, got %d groups", len(response.Groups))
	}
	if response.Groups[0].Name != "Built-in Scenes" {
		t.Errorf("Expected built-in group first, got %q", response.Groups[0].Name)
	}

	sceneIDs := make(map[string]bool)
	for _, s := range response.Groups[0].Scenes {
		sceneIDs[s.ID] = true
	}
	for _, expectedID := range BuiltinNames() {
		if !sceneIDs[expectedID] {
			t.Errorf("Missing expected built-in scene: %s", expectedID)
		}
	}

	if response.Groups[1].Name != "Mine" || len(response.Groups[1].Scenes) != 1 {
		t.Errorf("Expected group Mine with one scene, got %+v", response.Groups[1])
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeSceneFile(t, dir, "single.yaml", `name: single
entities:
  - type: sphere
    center: [0, 0, 5]
    radius: 1
`)

	tests := []struct {
		name        string
		id          string
		expectError bool
		entities    int
	}{
		{"builtin scene", "sphere", false, 1},
		{"file by name", "single", false, 1},
		{"file by path", path, false, 1},
		{"unknown scene", "nonexistent", true, 0},
		{"empty scene name", "", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Load(tt.id, dir, geometry.CameraConfig{Width: 32, Height: 16})

			if tt.expectError {
				if !errors.Is(err, ErrUnknownScene) {
					t.Errorf("Expected ErrUnknownScene for %q, got %v", tt.id, err)
				}
				if s != nil {
					t.Errorf("Expected nil scene for %q", tt.id)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for %q: %v", tt.id, err)
			}
			if s.Len() != tt.entities {
				t.Errorf("Expected %d entities, got %d", tt.entities, s.Len())
			}
			if s.CameraConfig.Width != 32 || s.CameraConfig.Height != 16 {
				t.Errorf("Expected camera overrides to apply, got %+v", s.CameraConfig)
			}
		})
	}
}

func TestLoadByName(t *testing.T) {
	root := t.TempDir()
	scenesDir := filepath.Join(root, "scenes")
	if err := os.Mkdir(scenesDir, 0755); err != nil {
		t.Fatalf("Failed to create scenes dir: %v", err)
	}
	const content = `name: single
entities:
  - type: sphere
    center: [0, 0, 5]
    radius: 1
`
	writeSceneFile(t, scenesDir, "single.yaml", content)
	outside := writeSceneFile(t, root, "outside.yaml", content)

	tests := []struct {
		name        string
		id          string
		expectError bool
	}{
		{"builtin scene", "overlap", false},
		{"file by name", "single", false},
		{"file by name with extension", "single.yaml", false},
		{"absolute path", outside, true},
		{"parent directory", "../outside.yaml", true},
		{"parent directory without extension", "../outside", true},
		{"nested path", "scenes/single.yaml", true},
		{"backslash path", `..\outside.yaml`, true},
		{"unknown scene", "missing", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := LoadByName(tt.id, scenesDir)

			if tt.expectError {
				if !errors.Is(err, ErrUnknownScene) {
					t.Errorf("Expected ErrUnknownScene for %q, got %v", tt.id, err)
				}
				if s != nil {
					t.Errorf("Expected nil scene for %q", tt.id)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for %q: %v", tt.id, err)
			}
		})
	}
}
