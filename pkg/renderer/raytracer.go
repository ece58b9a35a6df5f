package renderer

import (
	"context"
	"image"

	"github.com/df07/go-flat-raytracer/pkg/core"
	"github.com/df07/go-flat-raytracer/pkg/geometry"
)

// Scene interface to avoid circular imports
type Scene interface {
	Entities() []geometry.Entity
	Background() core.Vec3
}

// Raytracer renders a scene through a camera into RGBA images
type Raytracer struct {
	scene      Scene
	camera     *geometry.Camera
	policy     HitPolicy
	numWorkers int // 1 renders on the calling goroutine, 0 uses every CPU
	logger     core.Logger
}

// NewRaytracer creates a new raytracer rendering nearest hits on the calling goroutine
func NewRaytracer(scene Scene, camera *geometry.Camera, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Raytracer{
		scene:      scene,
		camera:     camera,
		policy:     NearestHit,
		numWorkers: 1,
		logger:     logger,
	}
}

// SetHitPolicy changes how overlapping entities are resolved
func (rt *Raytracer) SetHitPolicy(policy HitPolicy) {
	rt.policy = policy
}

// HitPolicy returns the policy used to resolve overlapping entities
func (rt *Raytracer) HitPolicy() HitPolicy {
	return rt.policy
}

// SetWorkers sets the number of render goroutines (0 = CPU count)
func (rt *Raytracer) SetWorkers(numWorkers int) {
	rt.numWorkers = numWorkers
}

// Camera returns the camera used for rendering
func (rt *Raytracer) Camera() *geometry.Camera {
	return rt.camera
}

// RenderTo renders into an existing pixel sink
func (rt *Raytracer) RenderTo(ctx context.Context, sink PixelSink) (RenderStats, error) {
	options := RenderOptions{
		Policy:     rt.policy,
		Background: rt.scene.Background(),
	}
	entities := rt.scene.Entities()

	if rt.camera != nil {
		rt.logger.Printf("Rendering %dx%d with %d entities (policy %s, workers %d)...\n",
			rt.camera.Width(), rt.camera.Height(), len(entities), rt.policy, rt.numWorkers)
	}

	var stats RenderStats
	var err error
	if rt.numWorkers == 1 {
		stats, err = Render(ctx, entities, rt.camera, sink, options)
	} else {
		stats, err = RenderParallel(ctx, entities, rt.camera, sink, options, rt.numWorkers)
	}
	if err != nil {
		rt.logger.Printf("Render failed after %d rows: %v\n", stats.RowsRendered, err)
		return stats, err
	}

	rt.logger.Printf("Render completed in %v: %d of %d pixels hit, %d intersection tests\n",
		stats.Elapsed, stats.HitPixels, stats.TotalPixels, stats.IntersectionTests)
	return stats, nil
}

// RenderImage renders a new image sized to the camera
func (rt *Raytracer) RenderImage(ctx context.Context) (*image.RGBA, RenderStats, error) {
	if rt.camera == nil {
		return nil, RenderStats{}, ErrNilCamera
	}

	buffer := NewImageBuffer(rt.camera.Width(), rt.camera.Height())
	stats, err := rt.RenderTo(ctx, buffer)
	if err != nil {
		return nil, stats, err
	}
	return buffer.Image(), stats, nil
}
