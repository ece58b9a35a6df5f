package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-flat-raytracer/pkg/core"
)

var (
	// ErrInvalidFOV is returned when the vertical field of view is outside (0, 180) degrees
	ErrInvalidFOV = errors.New("field of view must be between 0 and 180 degrees (exclusive)")
	// ErrInvalidDimensions is returned when the image width or height is not positive
	ErrInvalidDimensions = errors.New("image width and height must be positive")
)

// imagePlaneDistance is the distance from the camera origin to the image plane along +Z
const imagePlaneDistance = 1.0

// CameraConfig contains the user-facing camera parameters
type CameraConfig struct {
	VFov   float64 `yaml:"fov" json:"fov"`       // Vertical field of view in degrees
	Width  int     `yaml:"width" json:"width"`   // Image width in pixels
	Height int     `yaml:"height" json:"height"` // Image height in pixels
}

// DefaultCameraConfig returns sensible default values
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		VFov:   60.0,
		Width:  400,
		Height: 400,
	}
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.Height != 0 {
		result.Height = override.Height
	}
	return result
}

// Validate checks the configuration and returns a wrapped sentinel error if it is unusable
func (cc CameraConfig) Validate() error {
	// Written as a negation so NaN is rejected too
	if !(cc.VFov > 0 && cc.VFov < 180) {
		return fmt.Errorf("fov %v: %w", cc.VFov, ErrInvalidFOV)
	}
	if cc.Width < 1 || cc.Height < 1 {
		return fmt.Errorf("size %dx%d: %w", cc.Width, cc.Height, ErrInvalidDimensions)
	}
	return nil
}

// Camera generates primary rays for a pinhole camera at the origin looking down +Z.
// The image plane sits one unit in front of the camera; +Y is up and +X is right.
// A Camera must not be reconfigured while a render is using it.
type Camera struct {
	config           CameraConfig
	imagePlaneWidth  float64 // World-space width of the image plane
	imagePlaneHeight float64 // World-space height of the image plane
}

// NewCamera creates a camera, rejecting invalid configurations
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	c := &Camera{config: config}
	c.computeImagePlane()
	return c, nil
}

// computeImagePlane recalculates the cached image plane size from the configuration
func (c *Camera) computeImagePlane() {
	aspectRatio := float64(c.config.Width) / float64(c.config.Height)

	// Vertical FOV: the plane spans tan(fov/2) above and below the view axis
	c.imagePlaneHeight = math.Tan(c.config.VFov*math.Pi/360.0) * 2.0 * imagePlaneDistance
	c.imagePlaneWidth = c.imagePlaneHeight * aspectRatio
}

// SetFOV changes the vertical field of view. The camera is left unchanged on error.
func (c *Camera) SetFOV(vfov float64) error {
	next := c.config
	next.VFov = vfov
	if err := next.Validate(); err != nil {
		return err
	}
	c.config = next
	c.computeImagePlane()
	return nil
}

// Resize changes the target image size. The camera is left unchanged on error.
func (c *Camera) Resize(width, height int) error {
	next := c.config
	next.Width, next.Height = width, height
	if err := next.Validate(); err != nil {
		return err
	}
	c.config = next
	c.computeImagePlane()
	return nil
}

// Config returns the current camera configuration
func (c *Camera) Config() CameraConfig {
	return c.config
}

// Width returns the image width in pixels
func (c *Camera) Width() int {
	return c.config.Width
}

// Height returns the image height in pixels
func (c *Camera) Height() int {
	return c.config.Height
}

// ImagePlaneSize returns the world-space width and height of the image plane
func (c *Camera) ImagePlaneSize() (width, height float64) {
	return c.imagePlaneWidth, c.imagePlaneHeight
}

// NormalizedImageToWorld maps normalized image coordinates to a point on the image plane.
// (0, 0) is the top-left corner and (1, 1) the bottom-right corner.
func (c *Camera) NormalizedImageToWorld(nx, ny float64) core.Vec3 {
	return core.NewVec3(
		c.imagePlaneWidth*(nx-0.5),
		c.imagePlaneHeight*(0.5-ny),
		imagePlaneDistance,
	)
}

// WorldRay returns the ray through the center of pixel (x, y).
// Pixel coordinates are 1-based: x in [1, width], y in [1, height], y growing downwards.
// The direction is not normalized.
func (c *Camera) WorldRay(x, y int) core.Ray {
	nx := (float64(x) - 0.5) / float64(c.config.Width)
	ny := (float64(y) - 0.5) / float64(c.config.Height)
	return core.NewRay(core.Vec3{}, c.NormalizedImageToWorld(nx, ny))
}

// FrustumRays returns the rays through the four image plane corners in the order
// (0,0) top-left, (1,0) top-right, (0,1) bottom-left, (1,1) bottom-right.
func (c *Camera) FrustumRays() [4]core.Ray {
	origin := core.Vec3{}
	return [4]core.Ray{
		core.NewRay(origin, c.NormalizedImageToWorld(0, 0)),
		core.NewRay(origin, c.NormalizedImageToWorld(1, 0)),
		core.NewRay(origin, c.NormalizedImageToWorld(0, 1)),
		core.NewRay(origin, c.NormalizedImageToWorld(1, 1)),
	}
}
