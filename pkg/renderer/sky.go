package renderer

import (
	"github.com/df07/go-rtiow/pkg/core"
)

// GradientSky is the background radiance seen by rays that leave the scene.
// It blends linearly from Bottom (straight down) to Top (straight up) on the
// Y component of the unit ray direction.
type GradientSky struct {
	Top    core.Vec3
	Bottom core.Vec3
}

// SkyProvider is implemented by scenes that bring their own background
type SkyProvider interface {
	Sky() GradientSky
}

// DefaultSky returns the white to light blue sky
func DefaultSky() GradientSky {
	return GradientSky{
		Top:    core.NewVec3(0.5, 0.7, 1.0),
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// Emit returns the sky color for the ray's direction
func (g GradientSky) Emit(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0) // Map Y from [-1,1] to [0,1]
	return g.Bottom.Lerp(g.Top, t)
}

// SkyColor returns the default background gradient from white (down) to sky blue (up)
func SkyColor(r core.Ray) core.Vec3 {
	return DefaultSky().Emit(r)
}
