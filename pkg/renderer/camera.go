package renderer

import (
	"github.com/df07/go-rtiow/pkg/core"
)

// CameraConfig describes a fixed viewport in world space
type CameraConfig struct {
	Origin          core.Vec3
	LowerLeftCorner core.Vec3
	Horizontal      core.Vec3
	Vertical        core.Vec3
}

// Camera generates rays for rendering
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera creates a camera from explicit viewport vectors
func NewCamera(config CameraConfig) *Camera {
	return &Camera{
		origin:          config.Origin,
		lowerLeftCorner: config.LowerLeftCorner,
		horizontal:      config.Horizontal,
		vertical:        config.Vertical,
	}
}

// NewViewportCamera creates a camera at the origin looking down -Z with a viewport
// two units tall at focal length one
func NewViewportCamera(aspectRatio float64) *Camera {
	viewportHeight := 2.0
	viewportWidth := aspectRatio * viewportHeight
	focalLength := 1.0

	origin := core.NewVec3(0, 0, 0)
	horizontal := core.NewVec3(viewportWidth, 0, 0)
	vertical := core.NewVec3(0, viewportHeight, 0)
	lowerLeftCorner := origin.Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(core.NewVec3(0, 0, focalLength))

	return NewCamera(CameraConfig{
		Origin:          origin,
		LowerLeftCorner: lowerLeftCorner,
		Horizontal:      horizontal,
		Vertical:        vertical,
	})
}

// DefaultCamera returns the 2:1 camera with lower-left corner (-2,-1,-1)
func DefaultCamera() *Camera {
	return NewViewportCamera(2.0)
}

// Config returns the viewport vectors of the camera
func (c *Camera) Config() CameraConfig {
	return CameraConfig{
		Origin:          c.origin,
		LowerLeftCorner: c.lowerLeftCorner,
		Horizontal:      c.horizontal,
		Vertical:        c.vertical,
	}
}

// GetRay generates a ray for screen coordinates (u, v) where 0 <= u,v <= 1
func (c *Camera) GetRay(u, v float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(u)).
		Add(c.vertical.Multiply(v)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}
