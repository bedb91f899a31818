package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-rtiow/pkg/core"
	"github.com/df07/go-rtiow/pkg/imageio"
	"github.com/df07/go-rtiow/pkg/renderer"
	"github.com/df07/go-rtiow/pkg/scene"
)

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "complete", "error"
	Data string `json:"data"` // JSON-encoded data
}

// RenderComplete is the payload of the final streamed event
type RenderComplete struct {
	ImageData      string  `json:"imageData"` // Base64 encoded PNG
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	ElapsedMs      int64   `json:"elapsedMs"`
	TotalSamples   int     `json:"totalSamples"`
	SamplesPerSec  float64 `json:"samplesPerSecond"`
	Workers        int     `json:"workers"`
	PrimitiveCount int     `json:"primitiveCount"`
}

// parseRenderRequest parses the scene parameters plus the output format
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, *scene.Scene, error) {
	req := &RenderRequest{}
	sceneObj, err := s.parseCommonSceneParams(r, req)
	if err != nil {
		return nil, nil, err
	}

	req.Format = DefaultFormat
	if value := r.URL.Query().Get("format"); value != "" {
		if req.Format, err = imageio.ParseFormat(value); err != nil {
			return nil, nil, err
		}
	}
	return req, sceneObj, nil
}

// renderScene runs the parallel renderer bound to ctx
func renderScene(ctx context.Context, sceneObj *scene.Scene, logger core.Logger) ([]core.Vec3, renderer.RenderStats, error) {
	return renderer.RenderParallel(ctx, sceneObj, sceneObj.Camera, sceneObj.Config,
		renderer.PixelSamplerFactory(sceneObj.Seed), 0, logger)
}

// handleRender renders the whole image and responds with the encoded result
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, sceneObj, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Request context stops the render when the client disconnects
	pixels, stats, err := renderScene(r.Context(), sceneObj, renderer.NewDefaultLogger())
	if err != nil {
		log.Printf("Render of %s failed: %v", req.Scene, err)
		writeError(w, http.StatusServiceUnavailable, fmt.Sprintf("Render error: %v", err))
		return
	}

	var buf bytes.Buffer
	if req.Format == imageio.PPM {
		err = imageio.WritePPM(&buf, req.Width, req.Height, pixels)
	} else {
		err = imageio.Encode(&buf, imageio.ToImage(req.Width, req.Height, pixels), req.Format)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Encode error: %v", err))
		return
	}

	log.Printf("Render %s %dx%d finished in %v", req.Scene, req.Width, req.Height, stats.Elapsed)
	w.Header().Set("Content-Type", req.Format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("Error writing render: %v", err)
	}
}

// handleRenderStream renders with progress messages streamed via SSE,
// finishing with the PNG in a "complete" event
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, sceneObj, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	consoleChan, webLogger := s.setupConsoleLogging()
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	startTime := time.Now()
	pixels, stats, err := renderScene(ctx, sceneObj, webLogger)

	// No more log lines once the render returns
	close(consoleChan)
	<-consoleDone

	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	var buf bytes.Buffer
	if err := imageio.Encode(&buf, imageio.ToImage(req.Width, req.Height, pixels), imageio.PNG); err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Encode error: %v", err))
		return
	}

	data, err := json.Marshal(RenderComplete{
		ImageData:      base64.StdEncoding.EncodeToString(buf.Bytes()),
		Width:          req.Width,
		Height:         req.Height,
		ElapsedMs:      time.Since(startTime).Milliseconds(),
		TotalSamples:   stats.TotalSamples,
		SamplesPerSec:  stats.SamplesPerSecond(),
		Workers:        stats.Workers,
		PrimitiveCount: sceneObj.GetPrimitiveCount(),
	})
	if err != nil {
		log.Printf("Error marshaling render result: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: string(data)}:
	case <-ctx.Done():
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents writes every SSE event from a single goroutine until the channel closes
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}

			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// streamConsoleMessages forwards console messages until consoleChan closes
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		default:
			// Channel full, skip message to avoid blocking
		}
	}
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
