package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/df07/go-flat-raytracer/pkg/core"
	"github.com/df07/go-flat-raytracer/pkg/geometry"
)

var (
	// ErrNilCamera is returned when Render is called without a camera
	ErrNilCamera = errors.New("renderer: camera is nil")
	// ErrNilSink is returned when Render is called without an output buffer
	ErrNilSink = errors.New("renderer: output buffer is nil")
	// ErrDimensionMismatch is returned when the output buffer and camera sizes differ
	ErrDimensionMismatch = errors.New("renderer: output buffer size does not match camera")
)

// RenderOptions controls pixel color resolution. The zero value renders
// nearest hits over a black background.
type RenderOptions struct {
	Policy     HitPolicy
	Background core.Vec3
}

// rowTracer holds everything needed to render one scanline
type rowTracer struct {
	entities []geometry.Entity
	camera   *geometry.Camera
	sink     PixelSink
	options  RenderOptions
}

// validateTarget checks the render inputs before any pixel is written
func validateTarget(camera *geometry.Camera, sink PixelSink) error {
	if camera == nil {
		return ErrNilCamera
	}
	if sink == nil {
		return ErrNilSink
	}
	if sink.Width() != camera.Width() || sink.Height() != camera.Height() {
		return fmt.Errorf("buffer %dx%d, camera %dx%d: %w",
			sink.Width(), sink.Height(), camera.Width(), camera.Height(), ErrDimensionMismatch)
	}
	return nil
}

// Render casts one ray per pixel through camera, colors it from entities and writes it to sink.
// Rendering is single-threaded; ctx is checked between scanlines and its error is returned on
// cancellation, leaving the remaining rows unwritten. Configuration errors are returned before
// any pixel is written.
func Render(ctx context.Context, entities []geometry.Entity, camera *geometry.Camera, sink PixelSink, options RenderOptions) (RenderStats, error) {
	if err := validateTarget(camera, sink); err != nil {
		return RenderStats{}, err
	}

	startTime := time.Now()
	tracer := &rowTracer{entities: entities, camera: camera, sink: sink, options: options}

	var stats RenderStats
	for j := 1; j <= camera.Height(); j++ {
		if err := ctx.Err(); err != nil {
			stats.Elapsed = time.Since(startTime)
			return stats, err
		}
		stats.merge(tracer.renderRow(j))
	}

	stats.Elapsed = time.Since(startTime)
	return stats, nil
}

// renderRow renders scanline j (1-based) and writes it to row j-1 of the sink
func (rt *rowTracer) renderRow(j int) RenderStats {
	stats := RenderStats{RowsRendered: 1}

	for i := 1; i <= rt.camera.Width(); i++ {
		ray := rt.camera.WorldRay(i, j)

		color, hit, tests := traceRay(ray, rt.entities, rt.options.Policy)
		stats.IntersectionTests += tests
		if hit {
			stats.HitPixels++
		} else {
			color = rt.options.Background
			stats.BackgroundPixels++
		}

		rt.sink.SetPixel(i-1, j-1, color)
		stats.TotalPixels++
	}

	return stats
}

// Pick identifies the entity that colors a pixel
type Pick struct {
	Index  int // Position in the entity list
	Entity geometry.Entity
	Hit    geometry.Hit
}

// PickEntity resolves which entity a ray sees under policy. ok is false when nothing is hit.
func PickEntity(ray core.Ray, entities []geometry.Entity, policy HitPolicy) (Pick, bool) {
	picked, ok, _ := pickEntity(ray, entities, policy)
	return picked, ok
}

// traceRay resolves the pixel color of ray.
// It returns the color, whether anything was hit, and the number of intersection tests run.
func traceRay(ray core.Ray, entities []geometry.Entity, policy HitPolicy) (core.Vec3, bool, int) {
	picked, ok, tests := pickEntity(ray, entities, policy)
	if !ok {
		return core.Vec3{}, false, tests
	}
	return picked.Entity.Color(), true, tests
}

// pickEntity scans every entity in registry order and applies policy to the hits
func pickEntity(ray core.Ray, entities []geometry.Entity, policy HitPolicy) (Pick, bool, int) {
	var picked Pick
	hitAnything := false
	tests := 0

	for i, entity := range entities {
		if entity == nil {
			continue
		}

		tests++
		hit, isHit := entity.Intersect(ray)
		if !isHit {
			continue
		}

		switch policy {
		case FirstHit:
			return Pick{Index: i, Entity: entity, Hit: hit}, true, tests
		case LastHit:
			picked = Pick{Index: i, Entity: entity, Hit: hit}
		default:
			if hitAnything && hit.T >= picked.Hit.T {
				continue
			}
			picked = Pick{Index: i, Entity: entity, Hit: hit}
		}
		hitAnything = true
	}

	return picked, hitAnything, tests
}
