package material

import (
	"math"

	"github.com/df07/go-rtiow/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
}

// NewDielectric creates a new dielectric material. The refractive index must be positive.
func NewDielectric(refractiveIndex float64) (*Dielectric, error) {
	if math.IsNaN(refractiveIndex) || math.IsInf(refractiveIndex, 0) || refractiveIndex <= 0 {
		return nil, &ParameterError{Material: "dielectric", Parameter: "refractive index", Value: refractiveIndex, Reason: "must be positive and finite"}
	}
	return &Dielectric{RefractiveIndex: refractiveIndex}, nil
}

// Scatter implements the Material interface for dielectric scattering
func (d *Dielectric) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Clear glass absorbs nothing
	attenuation := core.NewVec3(1.0, 1.0, 1.0)

	direction := rayIn.Direction
	dot := direction.Dot(hit.Normal)

	var outwardNormal core.Vec3
	var niOverNt, cosine float64
	if dot > 0 {
		// Exiting the medium
		outwardNormal = hit.Normal.Negate()
		niOverNt = d.RefractiveIndex
		cosine = d.RefractiveIndex * dot / direction.Length()
	} else {
		// Entering the medium
		outwardNormal = hit.Normal
		niOverNt = 1.0 / d.RefractiveIndex
		cosine = -dot / direction.Length()
	}

	scattered := core.NewRay(hit.Point, Reflect(direction, hit.Normal))
	if refracted, ok := Refract(direction, outwardNormal, niOverNt); ok {
		// Reflect only when the draw falls below the reflectance
		if Schlick(cosine, d.RefractiveIndex) <= sampler.Get1D() {
			scattered = core.NewRay(hit.Point, refracted)
		}
	}

	return ScatterResult{
		Scattered:   scattered,
		Attenuation: attenuation,
	}, true
}
