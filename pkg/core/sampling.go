package core

import (
	"math/rand/v2"
)

// Sampler provides uniform random values in [0, 1).
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
}

// PixelSeeder is implemented by samplers that restart their sequence per pixel.
// The render loop calls Reset with the pixel's emission index before sampling it,
// which makes each pixel's samples independent of the order pixels are visited in.
type PixelSeeder interface {
	Reset(pixel int)
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler over a PCG stream
func NewSeededSampler(seed uint64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewPCG(seed, 0)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// PixelSampler draws from a PCG stream keyed by (seed, pixel).
// Not safe for concurrent use; give each worker its own.
type PixelSampler struct {
	seed   uint64
	pcg    *rand.PCG
	random *rand.Rand
}

// NewPixelSampler creates a per-pixel sampler for the given seed
func NewPixelSampler(seed uint64) *PixelSampler {
	pcg := rand.NewPCG(seed, 0)
	return &PixelSampler{seed: seed, pcg: pcg, random: rand.New(pcg)}
}

// Reset restarts the sequence for a pixel
func (p *PixelSampler) Reset(pixel int) {
	p.pcg.Seed(p.seed, uint64(pixel))
}

// Get1D returns a random float64 in [0, 1)
func (p *PixelSampler) Get1D() float64 {
	return p.random.Float64()
}

// SequenceSampler replays a fixed list of values, wrapping around at the end.
// An empty sequence always yields 0.
type SequenceSampler struct {
	Values []float64
	next   int
}

// NewSequenceSampler creates a sampler replaying values
func NewSequenceSampler(values ...float64) *SequenceSampler {
	return &SequenceSampler{Values: values}
}

// Get1D returns the next value of the sequence
func (s *SequenceSampler) Get1D() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	return v
}

// RandomInUnitSphere returns a point strictly inside the unit sphere by rejection
// sampling the [-1,1]³ cube. Three values are drawn per attempt.
func RandomInUnitSphere(sampler Sampler) Vec3 {
	for {
		p := NewVec3(sampler.Get1D(), sampler.Get1D(), sampler.Get1D()).Multiply(2).AddScalar(-1)
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}
