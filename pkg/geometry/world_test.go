package geometry

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/df07/go-rtiow/pkg/core"
)

func TestWorld_Empty(t *testing.T) {
	world := NewWorld()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if _, isHit := world.Hit(ray, 0.001, math.Inf(1)); isHit {
		t.Error("Empty world should never be hit")
	}
}

func TestWorld_ClosestHitIndependentOfOrder(t *testing.T) {
	near := NewSphere(core.NewVec3(0, 0, -2), 0.5, 1)
	far := NewSphere(core.NewVec3(0, 0, -5), 0.5, 2)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	for _, world := range []*World{NewWorld(near, far), NewWorld(far, near)} {
		hit, isHit := world.Hit(ray, 0.001, math.Inf(1))
		if !isHit {
			t.Fatal("Expected hit")
		}
		if hit.Material != 1 || math.Abs(hit.T-1.5) > 1e-9 {
			t.Errorf("Expected near sphere at t=1.5, got material %d at t=%f", hit.Material, hit.T)
		}
	}
}

func TestWorld_MatchesMinimumOverMembers(t *testing.T) {
	random := rand.New(rand.NewPCG(9, 9))
	randVec := func(scale float64) core.Vec3 {
		return core.NewVec3(random.Float64()-0.5, random.Float64()-0.5, random.Float64()-0.5).Multiply(scale)
	}

	for trial := 0; trial < 200; trial++ {
		world := NewWorld()
		for i := 0; i < 6; i++ {
			world.Add(NewSphere(randVec(4), 0.2+random.Float64(), core.MaterialID(i)))
		}
		ray := core.NewRay(randVec(10), randVec(2))
		tMin, tMax := 0.001, 5+random.Float64()*20

		// Reference: test every member against the full interval and take the minimum t
		var best *core.HitRecord
		for _, object := range world.Objects {
			if hit, ok := object.Hit(ray, tMin, tMax); ok && (best == nil || hit.T < best.T) {
				best = hit
			}
		}

		hit, isHit := world.Hit(ray, tMin, tMax)
		if isHit != (best != nil) {
			t.Fatalf("Trial %d: expected hit=%t, got %t", trial, best != nil, isHit)
		}
		if isHit && (hit.T != best.T || hit.Material != best.Material) {
			t.Errorf("Trial %d: expected t=%f material %d, got t=%f material %d",
				trial, best.T, best.Material, hit.T, hit.Material)
		}
	}
}

func TestWorld_Add(t *testing.T) {
	world := NewWorld()
	world.Add(NewSphere(core.NewVec3(0, 0, 0), 1, 0))
	world.Add(NewSphere(core.NewVec3(1, 0, 0), 1, 1))
	if world.Len() != 2 {
		t.Errorf("Expected 2 objects, got %d", world.Len())
	}
}
