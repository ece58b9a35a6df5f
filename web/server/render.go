package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-flat-raytracer/pkg/core"
	"github.com/df07/go-flat-raytracer/pkg/geometry"
	"github.com/df07/go-flat-raytracer/pkg/output"
	"github.com/df07/go-flat-raytracer/pkg/renderer"
	"github.com/df07/go-flat-raytracer/pkg/scene"
)

const (
	maxImageSize = 2000
	defaultScene = "default"
)

// RenderRequest represents a render request from the client. Zero values keep the scene defaults.
type RenderRequest struct {
	Scene  string  `json:"scene"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	FOV    float64 `json:"fov"`
	Policy string  `json:"policy"` // "nearest", "first" or "last"
}

// Stats represents render statistics
type Stats struct {
	TotalPixels       int     `json:"totalPixels"`
	HitPixels         int     `json:"hitPixels"`
	BackgroundPixels  int     `json:"backgroundPixels"`
	IntersectionTests int     `json:"intersectionTests"`
	HitRatio          float64 `json:"hitRatio"`
	AverageLuminance  float64 `json:"averageLuminance"`
}

// RenderUpdate is the final event of a streamed render
type RenderUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// RenderingPipeline contains the configured scene and raytracer
type RenderingPipeline struct {
	Scene     *scene.Scene
	Raytracer *renderer.Raytracer
}

// renderOutcome carries the result of a background render
type renderOutcome struct {
	img   *image.RGBA
	stats renderer.RenderStats
	err   error
}

// handleRender renders a scene and responds with the PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	pipeline, err := s.setupRenderingPipeline(req, NewWebLogger("", nil))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	img, stats, err := pipeline.Raytracer.RenderImage(r.Context())
	if err != nil {
		log.Printf("Render error for scene %s: %v", req.Scene, err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Render error: %v", err))
		return
	}

	var buf bytes.Buffer
	if err := output.EncodePNG(&buf, img); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to encode image: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Elapsed-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))
	w.Header().Set("X-Render-Hit-Pixels", strconv.Itoa(stats.HitPixels))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleRenderStream renders in the background and streams console output followed by the
// finished image via SSE
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEEvent(w, "error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	consoleChan, webLogger := s.setupConsoleLogging()
	pipeline, err := s.setupRenderingPipeline(req, webLogger)
	if err != nil {
		s.sendSSEEvent(w, "error", err.Error())
		return
	}

	startTime := time.Now()
	done := make(chan renderOutcome, 1)
	go func() {
		img, stats, err := pipeline.Raytracer.RenderImage(ctx)
		done <- renderOutcome{img: img, stats: stats, err: err}
	}()

	for {
		select {
		case msg := <-consoleChan:
			s.sendConsoleMessage(w, msg)
		case outcome := <-done:
			s.drainConsole(w, consoleChan)
			if outcome.err != nil {
				s.sendSSEEvent(w, "error", fmt.Sprintf("Render error: %v", outcome.err))
				return
			}
			if err := s.sendComplete(w, outcome, startTime); err != nil {
				log.Printf("Failed to send render result: %v", err)
			}
			return
		case <-ctx.Done():
			// Client disconnected; the render goroutine stops at the next scanline
			return
		}
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: defaultScene}

	if sceneName := query.Get("scene"); sceneName != "" {
		req.Scene = sceneName
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 1, maxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, 1, maxImageSize); err != nil {
		return nil, err
	}
	if req.FOV, err = parseFloatParam(query, "fov", 0, 1, 179); err != nil {
		return nil, err
	}

	req.Policy = query.Get("policy")
	if _, err := renderer.ParseHitPolicy(req.Policy); err != nil {
		return nil, err
	}

	return req, nil
}

// createScene loads the requested scene with the request's camera overrides.
// Only built-in names and files in the scenes directory are served.
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	overrides := geometry.CameraConfig{VFov: req.FOV, Width: req.Width, Height: req.Height}
	return scene.LoadByName(req.Scene, s.scenesDir, overrides)
}

// setupRenderingPipeline creates the scene, camera and raytracer for a request
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger core.Logger) (*RenderingPipeline, error) {
	sceneObj, err := s.createScene(req)
	if err != nil {
		return nil, err
	}

	camera, err := geometry.NewCamera(sceneObj.CameraConfig)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", req.Scene, err)
	}

	policyName := req.Policy
	if policyName == "" {
		policyName = sceneObj.HitPolicy
	}
	policy, err := renderer.ParseHitPolicy(policyName)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", req.Scene, err)
	}

	raytracer := renderer.NewRaytracer(sceneObj, camera, logger)
	raytracer.SetHitPolicy(policy)
	raytracer.SetWorkers(0) // Auto-detect

	return &RenderingPipeline{Scene: sceneObj, Raytracer: raytracer}, nil
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

// drainConsole forwards console messages that arrived before the render finished
func (s *Server) drainConsole(w http.ResponseWriter, consoleChan chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			s.sendConsoleMessage(w, msg)
		default:
			return
		}
	}
}

// sendConsoleMessage sends a console message via SSE
func (s *Server) sendConsoleMessage(w http.ResponseWriter, msg ConsoleMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to encode console message: %v", err)
		return
	}
	s.sendSSEEvent(w, "console", string(data))
}

// sendComplete sends the finished image and its statistics
func (s *Server) sendComplete(w http.ResponseWriter, outcome renderOutcome, startTime time.Time) error {
	imageData, err := s.imageToBase64PNG(outcome.img)
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}

	bounds := outcome.img.Bounds()
	update := RenderUpdate{
		ImageData: imageData,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Stats: Stats{
			TotalPixels:       outcome.stats.TotalPixels,
			HitPixels:         outcome.stats.HitPixels,
			BackgroundPixels:  outcome.stats.BackgroundPixels,
			IntersectionTests: outcome.stats.IntersectionTests,
			HitRatio:          outcome.stats.HitRatio(),
			AverageLuminance:  renderer.CalculateAverageLuminance(outcome.img),
		},
		ElapsedMs: time.Since(startTime).Milliseconds(),
	}

	data, err := json.Marshal(update)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, "complete", string(data))
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := output.EncodePNG(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if flusher, ok := w.(http.Flusher); ok {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
		return nil
	}
	return fmt.Errorf("streaming not supported")
}
