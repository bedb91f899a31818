package renderer

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/df07/go-rtiow/pkg/core"
	"github.com/df07/go-rtiow/pkg/material"
)

// ErrInvalidConfig is wrapped by every Config validation failure
var ErrInvalidConfig = errors.New("invalid render config")

// Config contains rendering configuration
type Config struct {
	Width           int     // Image width in pixels
	Height          int     // Image height in pixels
	SamplesPerPixel int     // Number of rays per pixel
	MaxDepth        int     // Maximum ray bounce depth
	HitEpsilon      float64 // Lower bound of the hit interval, avoids self-intersection
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:           200,
		Height:          100,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		HitEpsilon:      0.001,
	}
}

// Validate checks the configuration before any rays are traced
func (c Config) Validate() error {
	switch {
	case c.Width <= 0:
		return fmt.Errorf("%w: width must be positive, got %d", ErrInvalidConfig, c.Width)
	case c.Height <= 0:
		return fmt.Errorf("%w: height must be positive, got %d", ErrInvalidConfig, c.Height)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: samples per pixel must be positive, got %d", ErrInvalidConfig, c.SamplesPerPixel)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth must not be negative, got %d", ErrInvalidConfig, c.MaxDepth)
	case math.IsNaN(c.HitEpsilon) || math.IsInf(c.HitEpsilon, 0) || c.HitEpsilon < 0:
		return fmt.Errorf("%w: hit epsilon must be a finite non-negative number, got %g", ErrInvalidConfig, c.HitEpsilon)
	}
	return nil
}

// Scene is what the raytracer needs from a scene: intersection and material lookup
type Scene interface {
	Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool)
	// Material returns nil for an unknown ID
	Material(id core.MaterialID) material.Material
}

// Raytracer handles the rendering process
type Raytracer struct {
	scene  Scene
	camera *Camera
	config Config
	sky    GradientSky
}

// NewRaytracer creates a new raytracer. Scenes implementing SkyProvider replace the default sky.
func NewRaytracer(scene Scene, camera *Camera, config Config) (*Raytracer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	sky := DefaultSky()
	if provider, ok := scene.(SkyProvider); ok {
		sky = provider.Sky()
	}
	return &Raytracer{
		scene:  scene,
		camera: camera,
		config: config,
		sky:    sky,
	}, nil
}

// Config returns the sampling configuration
func (rt *Raytracer) Config() Config {
	return rt.config
}

// ColorAt returns the radiance carried back along r, which is the depth-th bounce of its path
func (rt *Raytracer) ColorAt(r core.Ray, depth int, sampler core.Sampler) core.Vec3 {
	hit, isHit := rt.scene.Hit(r, rt.config.HitEpsilon, math.Inf(1))
	if !isHit {
		return rt.sky.Emit(r)
	}

	if depth >= rt.config.MaxDepth {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	mat := rt.scene.Material(hit.Material)
	if mat == nil {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	scatter, didScatter := mat.Scatter(r, *hit, sampler)
	if !didScatter {
		return core.Vec3{X: 0, Y: 0, Z: 0} // Material absorbed the ray
	}

	return rt.ColorAt(scatter.Scattered, depth+1, sampler).MultiplyVec(scatter.Attenuation)
}

// SamplePixel averages SamplesPerPixel jittered samples of pixel (i, j) and gamma corrects the result.
// j counts rows from the bottom of the image.
func (rt *Raytracer) SamplePixel(i, j int, sampler core.Sampler) core.Vec3 {
	var ps PixelStats
	for s := 0; s < rt.config.SamplesPerPixel; s++ {
		u := (float64(i) + sampler.Get1D()) / float64(rt.config.Width)
		v := (float64(j) + sampler.Get1D()) / float64(rt.config.Height)
		ps.AddSample(rt.ColorAt(rt.camera.GetRay(u, v), 0, sampler))
	}
	return ps.GetColor().GammaCorrect2()
}

// PixelIndex returns the position of pixel (i, j) in emission order:
// rows from the top of the image down, columns left to right
func (rt *Raytracer) PixelIndex(i, j int) int {
	return (rt.config.Height-1-j)*rt.config.Width + i
}

// RenderRow renders row j into out, which holds Width pixels
func (rt *Raytracer) RenderRow(j int, out []core.Vec3, sampler core.Sampler) {
	seeder, perPixel := sampler.(core.PixelSeeder)
	for i := 0; i < rt.config.Width; i++ {
		if perPixel {
			seeder.Reset(rt.PixelIndex(i, j))
		}
		out[i] = rt.SamplePixel(i, j, sampler)
	}
}

// Render renders the whole image on the calling goroutine.
// Pixels are returned in emission order; see PixelIndex.
func (rt *Raytracer) Render(sampler core.Sampler) ([]core.Vec3, RenderStats) {
	start := time.Now()
	width, height := rt.config.Width, rt.config.Height
	pixels := make([]core.Vec3, width*height)

	for j := height - 1; j >= 0; j-- {
		offset := rt.PixelIndex(0, j)
		rt.RenderRow(j, pixels[offset:offset+width], sampler)
	}

	return pixels, RenderStats{
		TotalPixels:  width * height,
		TotalSamples: width * height * rt.config.SamplesPerPixel,
		Rows:         height,
		Workers:      1,
		Elapsed:      time.Since(start),
	}
}

// Render traces the scene through the camera and returns gamma-corrected colors
// in emission order (top row first, left to right).
func Render(scene Scene, camera *Camera, config Config, sampler core.Sampler) ([]core.Vec3, error) {
	rt, err := NewRaytracer(scene, camera, config)
	if err != nil {
		return nil, err
	}
	pixels, _ := rt.Render(sampler)
	return pixels, nil
}
