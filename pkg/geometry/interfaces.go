package geometry

import (
	"github.com/df07/go-rtiow/pkg/core"
)

// Hittable is anything a ray can intersect
type Hittable interface {
	// Hit returns the nearest intersection with tMin < t < tMax
	Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool)
}
