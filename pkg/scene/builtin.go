package scene

import (
	"github.com/df07/go-rtiow/pkg/core"
	"github.com/df07/go-rtiow/pkg/material"
)

// NewTwoSphereScene creates a small diffuse sphere resting on a large diffuse ground sphere
func NewTwoSphereScene() *Scene {
	s := New("two-spheres")
	s.Seed = 1

	gray := s.AddMaterial(material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	s.mustAddSphere(core.NewVec3(0, 0, -1), 0.5, gray)
	s.mustAddSphere(core.NewVec3(0, -100.5, -1), 100, gray)
	return s
}

// NewMaterialsScene creates one sphere of each material side by side on a yellow ground:
// glass on the left, diffuse in the middle, brushed gold on the right
func NewMaterialsScene() *Scene {
	s := New("materials")
	s.Seed = 1

	lambertianRed := s.AddMaterial(material.NewLambertian(core.NewVec3(0.8, 0.3, 0.3)))
	lambertianGround := s.AddMaterial(material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0)))
	metalGold := s.AddMaterial(mustMaterial(material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)))
	glass := s.AddMaterial(mustMaterial(material.NewDielectric(1.5)))

	s.mustAddSphere(core.NewVec3(0, 0, -1), 0.5, lambertianRed)
	s.mustAddSphere(core.NewVec3(0, -100.5, -1), 100, lambertianGround)
	s.mustAddSphere(core.NewVec3(1, 0, -1), 0.5, metalGold)

	// Hollow glass: the inner sphere's negative radius turns its normals inward
	s.mustAddSphere(core.NewVec3(-1, 0, -1), 0.5, glass)
	s.mustAddSphere(core.NewVec3(-1, 0, -1), -0.45, glass)
	return s
}

// mustAddSphere is for built-in scenes, whose parameters are fixed
func (s *Scene) mustAddSphere(center core.Vec3, radius float64, id core.MaterialID) {
	if err := s.AddSphere(center, radius, id); err != nil {
		panic(err)
	}
}

func mustMaterial[M material.Material](m M, err error) M {
	if err != nil {
		panic(err)
	}
	return m
}
