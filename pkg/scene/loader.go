package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-rtiow/pkg/core"
	"github.com/df07/go-rtiow/pkg/material"
	"github.com/df07/go-rtiow/pkg/renderer"
)

// File is the JSON form of a scene.
// Zero or missing sizes fall back to renderer.DefaultConfig; maxDepth and hitEpsilon
// are pointers because zero is a meaningful value for both.
type File struct {
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	Group           string         `json:"group,omitempty"`
	Width           int            `json:"width,omitempty"`
	Height          int            `json:"height,omitempty"`
	SamplesPerPixel int            `json:"samplesPerPixel,omitempty"`
	MaxDepth        *int           `json:"maxDepth,omitempty"`
	HitEpsilon      *float64       `json:"hitEpsilon,omitempty"`
	Seed            uint64         `json:"seed,omitempty"`
	Camera          *CameraFile    `json:"camera,omitempty"`
	Sky             *SkyFile       `json:"sky,omitempty"`
	Materials       []MaterialFile `json:"materials"`
	Spheres         []SphereFile   `json:"spheres"`
}

// Vec is a JSON [x, y, z] triple
type Vec [3]float64

// Vec3 converts to a core vector
func (v Vec) Vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// CameraFile holds explicit viewport vectors. AspectRatio alone builds the
// standard viewport camera when the vectors are omitted.
type CameraFile struct {
	AspectRatio     float64 `json:"aspectRatio,omitempty"`
	Origin          *Vec    `json:"origin,omitempty"`
	LowerLeftCorner *Vec    `json:"lowerLeftCorner,omitempty"`
	Horizontal      *Vec    `json:"horizontal,omitempty"`
	Vertical        *Vec    `json:"vertical,omitempty"`
}

// SkyFile sets the background gradient
type SkyFile struct {
	Top    Vec `json:"top"`
	Bottom Vec `json:"bottom"`
}

// MaterialFile is a named material entry
type MaterialFile struct {
	Name            string  `json:"name"`
	Type            string  `json:"type"` // lambertian, metal or dielectric
	Albedo          Vec     `json:"albedo,omitempty"`
	Fuzz            float64 `json:"fuzz,omitempty"`
	RefractiveIndex float64 `json:"refractiveIndex,omitempty"`
}

// SphereFile is a sphere referencing a material by name
type SphereFile struct {
	Center   Vec     `json:"center"`
	Radius   float64 `json:"radius"`
	Material string  `json:"material"`
}

// LoadFile reads a JSON scene from path. The scene is named after the file
// when the document does not name it.
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Load decodes a JSON scene. Unknown fields are rejected.
func Load(r io.Reader) (*Scene, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var file File
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: failed to decode: %w", ErrInvalidScene, err)
	}
	return file.Build()
}

// Build converts the decoded document into a validated scene
func (f *File) Build() (*Scene, error) {
	s := New(f.Name)
	s.Seed = f.Seed

	if f.Width > 0 {
		s.Config.Width = f.Width
	}
	if f.Height > 0 {
		s.Config.Height = f.Height
	}
	if f.SamplesPerPixel > 0 {
		s.Config.SamplesPerPixel = f.SamplesPerPixel
	}
	if f.MaxDepth != nil {
		s.Config.MaxDepth = *f.MaxDepth
	}
	if f.HitEpsilon != nil {
		s.Config.HitEpsilon = *f.HitEpsilon
	}

	if f.Camera != nil {
		camera, err := f.Camera.build()
		if err != nil {
			return nil, err
		}
		s.Camera = camera
	}

	if f.Sky != nil {
		s.Background = renderer.GradientSky{Top: f.Sky.Top.Vec3(), Bottom: f.Sky.Bottom.Vec3()}
	}

	ids := make(map[string]core.MaterialID, len(f.Materials))
	for i, mf := range f.Materials {
		if mf.Name == "" {
			return nil, fmt.Errorf("%w: material %d has no name", ErrInvalidScene, i)
		}
		if _, dup := ids[mf.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate material %q", ErrInvalidScene, mf.Name)
		}
		m, err := mf.build()
		if err != nil {
			return nil, fmt.Errorf("%w: material %q: %w", ErrInvalidScene, mf.Name, err)
		}
		ids[mf.Name] = s.AddMaterial(m)
	}

	for i, sf := range f.Spheres {
		id, ok := ids[sf.Material]
		if !ok {
			return nil, fmt.Errorf("%w: sphere %d references unknown material %q", ErrInvalidScene, i, sf.Material)
		}
		if err := s.AddSphere(sf.Center.Vec3(), sf.Radius, id); err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (mf MaterialFile) build() (material.Material, error) {
	switch strings.ToLower(mf.Type) {
	case "lambertian":
		return material.NewLambertian(mf.Albedo.Vec3()), nil
	case "metal":
		return material.NewMetal(mf.Albedo.Vec3(), mf.Fuzz)
	case "dielectric":
		return material.NewDielectric(mf.RefractiveIndex)
	default:
		return nil, fmt.Errorf("unknown material type %q", mf.Type)
	}
}

func (cf *CameraFile) build() (*renderer.Camera, error) {
	vectors := []*Vec{cf.Origin, cf.LowerLeftCorner, cf.Horizontal, cf.Vertical}
	set := 0
	for _, v := range vectors {
		if v != nil {
			set++
		}
	}

	switch {
	case set == len(vectors):
		return renderer.NewCamera(renderer.CameraConfig{
			Origin:          cf.Origin.Vec3(),
			LowerLeftCorner: cf.LowerLeftCorner.Vec3(),
			Horizontal:      cf.Horizontal.Vec3(),
			Vertical:        cf.Vertical.Vec3(),
		}), nil
	case set > 0:
		return nil, fmt.Errorf("%w: camera needs all of origin, lowerLeftCorner, horizontal and vertical", ErrInvalidScene)
	case cf.AspectRatio > 0:
		return renderer.NewViewportCamera(cf.AspectRatio), nil
	default:
		return renderer.DefaultCamera(), nil
	}
}
