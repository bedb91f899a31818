package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-rtiow/pkg/core"
)

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, 0)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_Normals(t *testing.T) {
	tests := []struct {
		name           string
		radius         float64
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedNormal core.Vec3
	}{
		{
			name:           "outside hit",
			radius:         1.0,
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			// Normal stays outward even when the ray starts inside
			name:           "inside hit",
			radius:         1.0,
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "negative radius flips normal",
			radius:         -1.0,
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sphere := NewSphere(core.NewVec3(0, 0, 0), tt.radius, 3)
			hit, isHit := sphere.Hit(core.NewRay(tt.rayOrigin, tt.rayDirection), 0.001, 1000.0)
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}
			if hit.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
			if hit.Material != 3 {
				t.Errorf("Expected material 3, got %d", hit.Material)
			}
		})
	}
}

func TestSphere_Hit_TowardCenterFromOutside(t *testing.T) {
	center := core.NewVec3(1, -2, 3)
	sphere := NewSphere(center, 0.75, 0)
	origins := []core.Vec3{
		core.NewVec3(10, 0, 0),
		core.NewVec3(-4, 5, 9),
		core.NewVec3(1, -2, -20),
		core.NewVec3(0.5, 7, 3.1),
	}

	for _, origin := range origins {
		direction := center.Subtract(origin)
		hit, isHit := sphere.Hit(core.NewRay(origin, direction), 0.001, math.Inf(1))
		if !isHit {
			t.Fatalf("Ray from %v toward the center missed", origin)
		}
		if hit.T <= 0 {
			t.Errorf("Expected positive t from %v, got %f", origin, hit.T)
		}
		if hit.Normal.Dot(direction) >= 0 {
			t.Errorf("Expected normal facing the ray from %v, got %v", origin, hit.Normal)
		}
		if math.Abs(hit.Normal.Length()-1) > 1e-9 {
			t.Errorf("Expected unit normal, got length %f", hit.Normal.Length())
		}
	}
}

func TestSphere_Hit_GlancingHit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, 0)
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected glancing hit, but got miss")
	}

	expectedPoint := core.NewVec3(1, 0, 0)
	if hit.Point.Subtract(expectedPoint).Length() > 1e-9 {
		t.Errorf("Expected hit point %v, got %v", expectedPoint, hit.Point)
	}
}

func TestSphere_Hit_Bounds(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, 0)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	tests := []struct {
		name       string
		tMin, tMax float64
		expectHit  bool
		expectedT  float64
	}{
		{"tMax before sphere", 0.001, 0.5, false, 0},
		{"tMin past sphere", 3.5, 1000.0, false, 0},
		{"near root excluded by tMin", 1.5, 1000.0, true, 3.0},
		// bounds are exclusive
		{"tMax equal to near root", 0.001, 1.0, false, 0},
		{"tMin equal to far root", 3.0, 1000.0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := sphere.Hit(ray, tt.tMin, tt.tMax)
			if isHit != tt.expectHit {
				t.Fatalf("Expected hit=%t, got %t", tt.expectHit, isHit)
			}
			if isHit && math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.T)
			}
		})
	}
}
