package material

import (
	"math"

	"github.com/df07/go-rtiow/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo   core.Vec3 // Metal color
	Fuzzness float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material. Fuzzness must lie in [0, 1].
func NewMetal(albedo core.Vec3, fuzzness float64) (*Metal, error) {
	if math.IsNaN(fuzzness) || fuzzness < 0 || fuzzness > 1 {
		return nil, &ParameterError{Material: "metal", Parameter: "fuzz", Value: fuzzness, Reason: "must be within [0, 1]"}
	}
	return &Metal{Albedo: albedo, Fuzzness: fuzzness}, nil
}

// Scatter implements the Material interface for metal scattering
func (m *Metal) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	reflected := Reflect(rayIn.Direction.Normalize(), hit.Normal)

	if m.Fuzzness > 0 {
		reflected = reflected.Add(core.RandomInUnitSphere(sampler).Multiply(m.Fuzzness))
	}

	// Rays perturbed below the surface are absorbed
	scatters := reflected.Dot(hit.Normal) > 0

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, reflected),
		Attenuation: m.Albedo,
	}, scatters
}
