package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-rtiow/pkg/core"
	"github.com/df07/go-rtiow/pkg/geometry"
	"github.com/df07/go-rtiow/pkg/material"
	"github.com/df07/go-rtiow/pkg/renderer"
)

// ErrInvalidScene is wrapped by every scene construction or validation failure
var ErrInvalidScene = errors.New("invalid scene")

// Scene contains all the elements needed for rendering.
// Materials live in an arena; spheres refer to them by index.
type Scene struct {
	Name       string
	World      *geometry.World
	Materials  []material.Material
	Camera     *renderer.Camera
	Background renderer.GradientSky
	Config     renderer.Config
	Seed       uint64
}

// New creates an empty scene with the default camera and config
func New(name string) *Scene {
	return &Scene{
		Name:       name,
		World:      geometry.NewWorld(),
		Camera:     renderer.DefaultCamera(),
		Background: renderer.DefaultSky(),
		Config:     renderer.DefaultConfig(),
	}
}

// AddMaterial stores m in the arena and returns its handle
func (s *Scene) AddMaterial(m material.Material) core.MaterialID {
	s.Materials = append(s.Materials, m)
	return core.MaterialID(len(s.Materials) - 1)
}

// AddSphere adds a sphere using a material previously returned by AddMaterial
func (s *Scene) AddSphere(center core.Vec3, radius float64, id core.MaterialID) error {
	if s.Material(id) == nil {
		return fmt.Errorf("%w: sphere at %v uses unknown material %d", ErrInvalidScene, center, id)
	}
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius == 0 {
		return fmt.Errorf("%w: sphere at %v has radius %g", ErrInvalidScene, center, radius)
	}
	s.World.Add(geometry.NewSphere(center, radius, id))
	return nil
}

// Hit finds the closest sphere hit in the open interval (tMin, tMax)
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	return s.World.Hit(ray, tMin, tMax)
}

// Material returns the material for id, or nil if the arena has no such entry
func (s *Scene) Material(id core.MaterialID) material.Material {
	if id < 0 || int(id) >= len(s.Materials) {
		return nil
	}
	return s.Materials[id]
}

// Sky returns the background seen by rays that escape the scene
func (s *Scene) Sky() renderer.GradientSky {
	return s.Background
}

// Validate checks that the scene can be rendered
func (s *Scene) Validate() error {
	if s.World == nil {
		return fmt.Errorf("%w: %q has no world", ErrInvalidScene, s.Name)
	}
	if s.Camera == nil {
		return fmt.Errorf("%w: %q has no camera", ErrInvalidScene, s.Name)
	}
	for i, m := range s.Materials {
		if m == nil {
			return fmt.Errorf("%w: %q material %d is nil", ErrInvalidScene, s.Name, i)
		}
	}
	return s.Config.Validate()
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	if s.World == nil {
		return 0
	}
	return s.World.Len()
}
