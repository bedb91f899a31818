package geometry

import (
	"github.com/df07/go-rtiow/pkg/core"
)

// World is an ordered collection of hittables searched linearly
type World struct {
	Objects []Hittable
}

// NewWorld creates a world from the given objects, keeping their order
func NewWorld(objects ...Hittable) *World {
	return &World{Objects: objects}
}

// Add appends an object to the world
func (w *World) Add(object Hittable) {
	w.Objects = append(w.Objects, object)
}

// Len returns the number of objects in the world
func (w *World) Len() int {
	return len(w.Objects)
}

// Hit returns the closest intersection across all objects.
// The upper bound shrinks to each hit found, so later objects only win when strictly closer.
func (w *World) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closestHit *core.HitRecord
	closestSoFar := tMax

	for _, object := range w.Objects {
		if hit, isHit := object.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
