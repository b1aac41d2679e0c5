package preview

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ironsheep/faces-detector/internal/detection"
	"github.com/ironsheep/faces-detector/internal/imaging"
)

//go:embed index.html
var indexHTML []byte

// maxUploadSize bounds POST /detect bodies.
const maxUploadSize = 32 << 20

const mjpegBoundary = "frame"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Same-origin page or non-browser clients only.
		origin := r.Header.Get("Origin")
		return origin == "" || strings.HasSuffix(origin, "://"+r.Host)
	},
}

// DetectResponse is the body returned by POST /detect.
type DetectResponse struct {
	Width     int                         `json:"width"`
	Height    int                         `json:"height"`
	Faces     []detection.DetectionResult `json:"faces"`
	Annotated *imaging.EncodedImage       `json:"annotated,omitempty"`
}

type runRequest struct {
	Run bool `json:"run"`
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/healthz", handleHealth)
	s.router.Get("/stream.mjpeg", s.handleStream)
	s.router.Get("/ws", s.handleWebsocket)
	s.router.Get("/run", s.handleRunStatus)
	s.router.Post("/run", s.handleRun)
	s.router.Post("/detect", s.handleDetect)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleRunStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, runRequest{Run: s.Running()})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.SetRunning(req.Run)
	s.log.WithField("run", req.Run).Info("capture toggled")
	respondJSON(w, http.StatusOK, runRequest{Run: s.Running()})
}

// handleStream writes annotated frames as multipart/x-mixed-replace until the
// client goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	session := uuid.NewString()
	log := s.log.WithField("session", session)
	log.Debug("stream viewer connected")
	defer log.Debug("stream viewer disconnected")

	frames, unsubscribe := s.hub.subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+mjpegBoundary)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.done:
			return
		case f := <-frames:
			if _, err := fmt.Fprintf(w, "--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", mjpegBoundary, len(f.JPEG)); err != nil {
				return
			}
			if _, err := w.Write(f.JPEG); err != nil {
				return
			}
			if _, err := w.Write([]byte("\r\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// handleWebsocket pushes a FrameEvent for every published frame. Messages
// from the client are read and discarded so that close frames are noticed.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	session := uuid.NewString()
	log := s.log.WithField("session", session)
	log.Debug("websocket viewer connected")
	defer log.Debug("websocket viewer disconnected")

	frames, unsubscribe := s.hub.subscribe()
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-s.done:
			return
		case f := <-frames:
			event := f.Event
			event.Session = session
			if err := conn.WriteJSON(event); err != nil {
				log.WithError(err).Debug("websocket write failed")
				return
			}
		}
	}
}

// handleDetect runs the detector on an uploaded image. With ?annotate=true
// the response also carries the annotated image as base64 PNG.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing image field")
		return
	}
	defer file.Close()

	frame, err := imaging.DecodeFrame(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := s.detect(frame)
	if err != nil {
		s.log.WithError(err).Error("detection failed")
		respondError(w, http.StatusInternalServerError, "detection failed")
		return
	}

	resp := DetectResponse{
		Width:  frame.Bounds().Dx(),
		Height: frame.Bounds().Dy(),
		Faces:  results,
	}

	if r.URL.Query().Get("annotate") == "true" {
		detection.Annotate(frame, results, s.opts.Colors)
		encoded, err := imaging.EncodePNGBase64(frame)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.Annotated = encoded
	}

	respondJSON(w, http.StatusOK, resp)
}
