package core

import (
	"math"
	"testing"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"Add", a.Add(b), NewVec3(5, -3, 9)},
		{"Subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"Multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"MultiplyVec", a.MultiplyVec(b), NewVec3(4, -10, 18)},
		{"Divide", b.Divide(2), NewVec3(2, -2.5, 3)},
		{"DivideVec", b.DivideVec(NewVec3(2, 5, 3)), NewVec3(2, -1, 2)},
		{"Negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"Cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
		{"AddScalar", a.AddScalar(1), NewVec3(2, 3, 4)},
		{"Lerp midpoint", NewVec3(0, 0, 0).Lerp(NewVec3(2, 4, 6), 0.5), NewVec3(1, 2, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Equals(tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}

	if a.Dot(b) != 4-10+18 {
		t.Errorf("Expected dot 12, got %f", a.Dot(b))
	}
	if a.LengthSquared() != 14 {
		t.Errorf("Expected squared length 14, got %f", a.LengthSquared())
	}
	if math.Abs(NewVec3(3, 4, 0).Length()-5) > 1e-12 {
		t.Errorf("Expected length 5, got %f", NewVec3(3, 4, 0).Length())
	}
}

func TestVec3_NormalizeUnitLength(t *testing.T) {
	vectors := []Vec3{
		NewVec3(1, 0, 0),
		NewVec3(3, 4, 12),
		NewVec3(-1e-3, 2e-3, 5e-4),
		NewVec3(1e6, -2e6, 3e5),
	}

	for _, v := range vectors {
		if l := v.Normalize().Length(); math.Abs(l-1) > 1e-12 {
			t.Errorf("Normalize(%v) has length %f", v, l)
		}
	}
}

func TestVec3_NormalizeZeroIsNaN(t *testing.T) {
	n := NewVec3(0, 0, 0).Normalize()
	if !math.IsNaN(n.X) || !math.IsNaN(n.Y) || !math.IsNaN(n.Z) {
		t.Errorf("Expected NaN components, got %v", n)
	}

	// NaN keeps flowing through later arithmetic
	if !n.Add(NewVec3(1, 1, 1)).IsNaN() {
		t.Error("Expected NaN to propagate through Add")
	}
}

func TestVec3_GammaCorrect2(t *testing.T) {
	c := NewVec3(0.25, 1, 0).GammaCorrect2()
	if !c.Equals(NewVec3(0.5, 1, 0)) {
		t.Errorf("Expected (0.5, 1, 0), got %v", c)
	}
}

func TestVec3_Quantize(t *testing.T) {
	tests := []struct {
		name    string
		color   Vec3
		r, g, b int
	}{
		{"black", NewVec3(0, 0, 0), 0, 0, 0},
		{"white", NewVec3(1, 1, 1), 255, 255, 255},
		{"half", NewVec3(0.5, 0.5, 0.5), 127, 127, 127},
		{"truncates", NewVec3(0.999, 0.1, 0.9), 255, 25, 230},
		// no clamping: out-of-range input leaves [0,255]
		{"above one", NewVec3(2, 0, 0), 511, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := tt.color.Quantize()
			if r != tt.r || g != tt.g || b != tt.b {
				t.Errorf("Expected (%d, %d, %d), got (%d, %d, %d)", tt.r, tt.g, tt.b, r, g, b)
			}
		})
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 1, 1), NewVec3(0, 0, -2))
	if p := ray.At(1.5); !p.Equals(NewVec3(1, 1, -2)) {
		t.Errorf("Expected (1, 1, -2), got %v", p)
	}
}

func TestRay_ZeroDirectionPropagatesNaN(t *testing.T) {
	ray := NewRay(NewVec3(0, 0, 0), NewVec3(0, 0, 0))
	if !ray.Direction.Normalize().IsNaN() {
		t.Error("Expected a zero-direction ray to normalize to NaN")
	}
}
