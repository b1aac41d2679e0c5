package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/faces-detector/internal/capture"
	"github.com/ironsheep/faces-detector/internal/detection"
	"github.com/ironsheep/faces-detector/internal/imaging"
	"github.com/ironsheep/faces-detector/internal/logging"
)

// Detector is the part of detection.RegionDetector the preview needs.
type Detector interface {
	Detect(frame image.Image) ([]detection.DetectionResult, error)
}

// Options configures a Server.
type Options struct {
	Addr        string
	MaxWidth    int // streamed frames are scaled down to this width; 0 disables
	JPEGQuality int
	Colors      detection.ColorConfig
	Run         bool // start reading the camera immediately
	Logger      logrus.FieldLogger // nil discards logs
}

// Server is the preview HTTP server.
type Server struct {
	opts       Options
	log        logrus.FieldLogger
	detector   Detector
	source     capture.Source
	router     *chi.Mux
	httpServer *http.Server
	hub        *hub

	// detectMu serializes detector use between the producer and uploads.
	detectMu sync.Mutex

	running   atomic.Bool
	runSignal chan struct{}

	// done is closed when the server shuts down.
	done     chan struct{}
	doneOnce sync.Once

	now func() time.Time
}

// NewServer creates a preview server. source may be nil, in which case only
// uploads are served and the stream stays empty.
func NewServer(detector Detector, source capture.Source, opts Options) *Server {
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = 80
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	r := chi.NewRouter()
	s := &Server{
		opts:      opts,
		log:       log,
		detector:  detector,
		source:    source,
		router:    r,
		hub:       newHub(),
		runSignal: make(chan struct{}, 1),
		done:      make(chan struct{}),
		now:       time.Now,
	}
	s.running.Store(opts.Run)

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.RequestLogger(&chiMiddleware.DefaultLogFormatter{Logger: log, NoColor: true}))
	r.Use(chiMiddleware.Recoverer)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Router returns the chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// ListenAndServe listens on the configured address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs the HTTP server on ln and the frame producer until ctx is
// cancelled or either of them fails. It returns only after the producer has
// stopped using the source and the detector, and after open streams have
// been told to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	produced := make(chan error, 1)
	go func() {
		produced <- s.produce(ctx)
	}()

	served := make(chan error, 1)
	go func() {
		s.log.WithField("addr", ln.Addr().String()).Info("preview server listening")
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			served <- fmt.Errorf("server failed: %w", err)
			return
		}
		served <- nil
	}()

	var err error
	producerDone := false
	select {
	case <-ctx.Done():
	case err = <-produced:
		producerDone = true
	case err = <-served:
	}
	cancel()
	s.closeDone()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if shutdownErr := s.httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		err = errors.Join(err, fmt.Errorf("shutting down server: %w", shutdownErr))
	}

	if !producerDone {
		if produceErr := <-produced; produceErr != nil {
			err = errors.Join(err, produceErr)
		}
	}
	s.log.Info("preview server stopped")
	return err
}

// closeDone tells streaming handlers to finish. http.Server.Shutdown does not
// cancel the context of active requests.
func (s *Server) closeDone() {
	s.doneOnce.Do(func() { close(s.done) })
}

// SetRunning starts or pauses camera reads.
func (s *Server) SetRunning(run bool) {
	s.running.Store(run)
	if run {
		select {
		case s.runSignal <- struct{}{}:
		default:
		}
	}
}

// Running reports whether camera reads are enabled.
func (s *Server) Running() bool {
	return s.running.Load()
}

// produce reads, processes and publishes frames while running. A camera read
// failure ends it; a detection failure skips the frame.
func (s *Server) produce(ctx context.Context) error {
	if s.source == nil {
		<-ctx.Done()
		return nil
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		if !s.running.Load() {
			select {
			case <-ctx.Done():
				return nil
			case <-s.runSignal:
			}
			continue
		}

		frame, err := s.source.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read frame: %w", err)
		}

		f, err := s.processFrame(frame)
		if err != nil {
			s.log.WithError(err).Warn("frame skipped")
			continue
		}
		s.hub.publish(f)
	}
}

// processFrame detects, annotates, scales and encodes one frame.
func (s *Server) processFrame(frame *image.RGBA) (*Frame, error) {
	results, err := s.detect(frame)
	if err != nil {
		return nil, err
	}
	detection.Annotate(frame, results, s.opts.Colors)

	var buf bytes.Buffer
	if err := imaging.EncodeJPEG(&buf, imaging.FitWidth(frame, s.opts.MaxWidth), s.opts.JPEGQuality); err != nil {
		return nil, err
	}

	return &Frame{
		JPEG: buf.Bytes(),
		Event: FrameEvent{
			TsUnixMs: s.now().UnixMilli(),
			W:        frame.Bounds().Dx(),
			H:        frame.Bounds().Dy(),
			Faces:    results,
		},
	}, nil
}

func (s *Server) detect(frame image.Image) ([]detection.DetectionResult, error) {
	s.detectMu.Lock()
	defer s.detectMu.Unlock()
	return s.detector.Detect(frame)
}
