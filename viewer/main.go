package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/df07/go-flat-raytracer/pkg/core"
	"github.com/df07/go-flat-raytracer/pkg/debugview"
	"github.com/df07/go-flat-raytracer/pkg/geometry"
	"github.com/df07/go-flat-raytracer/pkg/renderer"
	"github.com/df07/go-flat-raytracer/pkg/scene"
)

const (
	panelSize  = 480
	rayLength  = 12.0
	fovStep    = 5.0
	statusLine = "fov %.0f  policy %s  hit %.1f%%  %v\n[up/down] fov  [p] policy  [r] re-render  [esc] quit"
)

var (
	rayColor     = color.RGBA{R: 255, G: 220, B: 0, A: 255}
	planeColor   = color.RGBA{R: 0, G: 200, B: 255, A: 255}
	entityColor  = color.RGBA{R: 180, G: 180, B: 180, A: 255}
	panelDivider = color.RGBA{R: 60, G: 60, B: 60, A: 255}
)

// viewer shows the rendered image on the left and an overview of the camera frustum on the right
type viewer struct {
	scene     *scene.Scene
	camera    *geometry.Camera
	raytracer *renderer.Raytracer
	projector *debugview.Projector

	frame *ebiten.Image
	stats renderer.RenderStats
	dirty bool
}

func newViewer(s *scene.Scene, policy renderer.HitPolicy) (*viewer, error) {
	camera, err := geometry.NewCamera(s.CameraConfig)
	if err != nil {
		return nil, err
	}

	raytracer := renderer.NewRaytracer(s, camera, renderer.NewDefaultLogger())
	raytracer.SetHitPolicy(policy)
	raytracer.SetWorkers(0)

	return &viewer{
		scene:     s,
		camera:    camera,
		raytracer: raytracer,
		projector: debugview.DefaultProjector(panelSize, panelSize),
		dirty:     true,
	}, nil
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.dirty = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		v.raytracer.SetHitPolicy(v.raytracer.HitPolicy().Next())
		v.dirty = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		v.changeFOV(fovStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		v.changeFOV(-fovStep)
	}

	if v.dirty {
		v.dirty = false
		return v.render()
	}
	return nil
}

func (v *viewer) changeFOV(delta float64) {
	// SetFOV rejects values outside (0, 180) and keeps the old camera
	if err := v.camera.SetFOV(v.camera.Config().VFov + delta); err == nil {
		v.dirty = true
	}
}

func (v *viewer) render() error {
	img, stats, err := v.raytracer.RenderImage(context.Background())
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	v.stats = stats

	if v.frame != nil && v.frame.Bounds() != img.Bounds() {
		v.frame.Deallocate()
		v.frame = nil
	}
	if v.frame == nil {
		v.frame = ebiten.NewImage(img.Bounds().Dx(), img.Bounds().Dy())
	}
	v.frame.WritePixels(img.Pix)
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	if v.frame != nil {
		// Fit the render into the left panel
		bounds := v.frame.Bounds()
		scale := float64(panelSize) / float64(max(bounds.Dx(), bounds.Dy()))
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		screen.DrawImage(v.frame, op)
	}

	v.drawOverview(screen, panelSize)
	vector.StrokeLine(screen, panelSize, 0, panelSize, panelSize, 1, panelDivider, false)

	ebitenutil.DebugPrint(screen, fmt.Sprintf(statusLine,
		v.camera.Config().VFov, v.raytracer.HitPolicy(), v.stats.HitRatio()*100, v.stats.Elapsed))
}

// drawOverview draws entities, the frustum corner rays and the image plane into the right panel
func (v *viewer) drawOverview(dst *ebiten.Image, offsetX float32) {
	for _, entity := range v.scene.Entities() {
		drawSegments(dst, offsetX, debugview.EntityOutline(entity, v.projector), entityColor)
	}
	drawSegments(dst, offsetX, debugview.FrustumSegments(v.camera, v.projector, rayLength), rayColor)
	drawSegments(dst, offsetX, debugview.ImagePlaneOutline(v.camera, v.projector), planeColor)

	if x, y, ok := v.projector.Project(core.Vec3{}); ok {
		vector.DrawFilledCircle(dst, offsetX+float32(x), float32(y), 3, rayColor, true)
	}
}

func drawSegments(dst *ebiten.Image, offsetX float32, segments []debugview.Segment, clr color.Color) {
	for _, s := range segments {
		vector.StrokeLine(dst, offsetX+float32(s.X0), float32(s.Y0), offsetX+float32(s.X1), float32(s.Y1), 1, clr, true)
	}
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 2 * panelSize, panelSize
}

func main() {
	sceneType := flag.String("scene", "default", "Scene: built-in name, scene name in the scenes directory, or path to a .yaml file")
	scenesDir := flag.String("scenes", "scenes", "Directory with YAML scenes")
	policyName := flag.String("policy", "", "Hit policy: 'nearest', 'first' or 'last' (empty = scene default)")
	flag.Parse()

	s, err := scene.Load(*sceneType, *scenesDir)
	if err != nil {
		log.Printf("Error loading scene: %v", err)
		os.Exit(1)
	}

	if *policyName == "" {
		*policyName = s.HitPolicy
	}
	policy, err := renderer.ParseHitPolicy(*policyName)
	if err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}

	v, err := newViewer(s, policy)
	if err != nil {
		log.Printf("Error creating viewer: %v", err)
		os.Exit(1)
	}

	ebiten.SetWindowTitle("Flat Raytracer - " + *sceneType)
	ebiten.SetWindowSize(2*panelSize, panelSize)
	if err := ebiten.RunGame(v); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}
