package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// MaterialID is a handle into a scene's material arena
type MaterialID int

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	T        float64    // Parameter t along the ray
	Point    Vec3       // Point of intersection
	Normal   Vec3       // Outward unit normal; points inward for negative-radius spheres
	Material MaterialID // Material of the surface that was hit
}
