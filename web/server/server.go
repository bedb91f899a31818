package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/df07/go-rtiow/pkg/imageio"
	"github.com/df07/go-rtiow/pkg/scene"
)

// Request limits
const (
	MinImageSize  = 1
	MaxImageSize  = 2000
	MaxSamples    = 10000
	MaxBounces    = 1000
	DefaultScene  = "materials"
	DefaultFormat = imageio.PNG
)

// Server handles web requests for the ray tracer
type Server struct {
	port int
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene           string         `json:"scene"`           // Built-in or discovered scene name
	Width           int            `json:"width"`           // Image width
	Height          int            `json:"height"`          // Image height
	SamplesPerPixel int            `json:"samplesPerPixel"` // Rays per pixel
	MaxDepth        int            `json:"maxDepth"`        // Maximum bounce depth
	Seed            uint64         `json:"seed"`            // Sampler seed
	Format          imageio.Format `json:"format"`          // Output encoding
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and discovered scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = DefaultScene
	}

	sceneObj, err := s.createScene(sceneName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	config := sceneObj.Config
	response := map[string]interface{}{
		"scene": sceneObj.Name,
		"defaults": map[string]interface{}{
			"width":           config.Width,
			"height":          config.Height,
			"samplesPerPixel": config.SamplesPerPixel,
			"maxDepth":        config.MaxDepth,
			"seed":            sceneObj.Seed,
			"spheres":         sceneObj.GetPrimitiveCount(),
		},
		"limits": map[string]interface{}{
			"width":           map[string]int{"min": MinImageSize, "max": MaxImageSize},
			"height":          map[string]int{"min": MinImageSize, "max": MaxImageSize},
			"samplesPerPixel": map[string]int{"min": 1, "max": MaxSamples},
			"maxDepth":        map[string]int{"min": 0, "max": MaxBounces},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

// createScene resolves a scene by name. File paths are not accepted from clients;
// scene files are only reachable through discovery.
func (s *Server) createScene(sceneName string) (*scene.Scene, error) {
	if strings.ContainsAny(sceneName, `/\`) || strings.HasSuffix(strings.ToLower(sceneName), ".json") {
		return nil, fmt.Errorf("unknown scene: %s", sceneName)
	}
	return scene.Resolve(sceneName)
}

// parseCommonSceneParams resolves the scene and reads the sampling parameters,
// defaulting each to the scene's own configuration
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) (*scene.Scene, error) {
	values := r.URL.Query()

	req.Scene = values.Get("scene")
	if req.Scene == "" {
		req.Scene = DefaultScene
	}
	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		return nil, err
	}

	config := sceneObj.Config
	if req.Width, err = parseIntParam(values, "width", config.Width, MinImageSize, MaxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", config.Height, MinImageSize, MaxImageSize); err != nil {
		return nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(values, "spp", config.SamplesPerPixel, 1, MaxSamples); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(values, "depth", config.MaxDepth, 0, MaxBounces); err != nil {
		return nil, err
	}
	if req.Seed, err = parseSeedParam(values, "seed", sceneObj.Seed); err != nil {
		return nil, err
	}

	sceneObj.Config.Width = req.Width
	sceneObj.Config.Height = req.Height
	sceneObj.Config.SamplesPerPixel = req.SamplesPerPixel
	sceneObj.Config.MaxDepth = req.MaxDepth
	sceneObj.Seed = req.Seed

	// Performance warning
	if req.Width*req.Height > 800*600 && req.SamplesPerPixel > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return sceneObj, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseSeedParam parses an unsigned seed from URL query
func parseSeedParam(values url.Values, key string, defaultValue uint64) (uint64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
