package server

import (
	"fmt"
	"math"
	"net/http"

	"github.com/df07/go-rtiow/pkg/core"
	"github.com/df07/go-rtiow/pkg/geometry"
	"github.com/df07/go-rtiow/pkg/material"
	"github.com/df07/go-rtiow/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	MaterialID   int                    `json:"materialId"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// extractMaterialInfo extracts detailed material information with type assertions
func (s *Server) extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = vecArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = vecArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		properties["fuzzness"] = m.Fuzzness
		return "metal", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff" // Clear glass
		return "dielectric", properties

	default:
		return "unknown", properties
	}
}

// InspectResult contains information about the object hit by an inspection ray
type InspectResult struct {
	Hit       bool
	Ray       core.Ray
	HitRecord *core.HitRecord
	Sphere    *geometry.Sphere // nil if the hit object is not a sphere
}

// inspectPixel casts an unjittered ray through the center of pixel (pixelX, pixelY),
// counting rows from the top of the image, and reports the first object hit
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) InspectResult {
	config := sceneObj.Config
	u := (float64(pixelX) + 0.5) / float64(config.Width)
	v := (float64(config.Height-1-pixelY) + 0.5) / float64(config.Height)
	ray := sceneObj.Camera.GetRay(u, v)

	hit, isHit := sceneObj.Hit(ray, config.HitEpsilon, math.Inf(1))
	if !isHit {
		return InspectResult{Hit: false, Ray: ray}
	}

	// The world reports only the hit record, so find the sphere that produced it
	for _, object := range sceneObj.World.Objects {
		sphere, ok := object.(*geometry.Sphere)
		if !ok {
			continue
		}
		if sphereHit, ok := sphere.Hit(ray, config.HitEpsilon, math.Inf(1)); ok && sphereHit.T == hit.T {
			return InspectResult{Hit: true, Ray: ray, HitRecord: hit, Sphere: sphere}
		}
	}

	return InspectResult{Hit: true, Ray: ray, HitRecord: hit}
}

// extractGeometryInfo extracts detailed geometry information
func (s *Server) extractGeometryInfo(sphere *geometry.Sphere) (string, map[string]interface{}) {
	properties := make(map[string]interface{})
	if sphere == nil {
		return "unknown", properties
	}

	properties["center"] = vecArray(sphere.Center)
	properties["radius"] = sphere.Radius
	// Negative radius flips normals inward, used for hollow glass
	properties["inverted"] = sphere.Radius < 0
	return "sphere", properties
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	inspectReq := &RenderRequest{}
	sceneObj, err := s.parseCommonSceneParams(r, inspectReq)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	values := r.URL.Query()
	pixelX, err := parseIntParam(values, "x", -1, 0, inspectReq.Width-1)
	if err != nil || pixelX < 0 {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := parseIntParam(values, "y", -1, 0, inspectReq.Height-1)
	if err != nil || pixelY < 0 {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	result := inspectPixel(sceneObj, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{
			Hit:        false,
			Properties: map[string]interface{}{"sky": vecArray(sceneObj.Sky().Emit(result.Ray))},
		})
		return
	}

	materialType, materialProps := s.extractMaterialInfo(sceneObj.Material(result.HitRecord.Material))
	geometryType, geometryProps := s.extractGeometryInfo(result.Sphere)

	response := InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		MaterialID:   int(result.HitRecord.Material),
		GeometryType: geometryType,
		Point:        vecArray(result.HitRecord.Point),
		Normal:       vecArray(result.HitRecord.Normal),
		Distance:     result.HitRecord.T,
		FrontFace:    result.Ray.Direction.Dot(result.HitRecord.Normal) < 0,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	}
	writeJSON(w, http.StatusOK, response)
}
