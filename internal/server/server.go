// Package server implements the HTTP adapter for the canvas engine. It is a
// thin layer: handlers parse requests, call into pkg/canvas and pkg/export,
// and map domain error codes to HTTP status codes. No canvas state lives
// here.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/canvasd/canvasd/pkg/canvas"
	"github.com/canvasd/canvasd/pkg/export"
)

// Server wires the canvas engine to HTTP routes.
type Server struct {
	registry  *canvas.Registry
	raster    *canvas.Rasterizer
	exporter  export.Exporter
	logger    *log.Logger
	maxUpload int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxUpload caps the accepted request body size for image uploads.
func WithMaxUpload(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// New creates a Server around the given registry and rasterizer.
func New(registry *canvas.Registry, raster *canvas.Rasterizer, opts ...Option) *Server {
	s := &Server{
		registry:  registry,
		raster:    raster,
		exporter:  export.NewExporter(),
		logger:    log.Default(),
		maxUpload: 32 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the canvasd HTTP route tree.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/version", s.handleVersion)

	r.Route("/canvas", func(r chi.Router) {
		r.Post("/", s.handleInit)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleInfo)
			r.Delete("/", s.handleDelete)
			r.Post("/rectangle", s.handleAddRectangle)
			r.Post("/circle", s.handleAddCircle)
			r.Post("/text", s.handleAddText)
			r.Post("/image", s.handleAddImage)
			r.Post("/image-upload", s.handleAddImageUpload)
			r.Get("/preview", s.handlePreview)
			r.Get("/export/pdf", s.handleExportPDF)
		})
	})

	return r
}

// logRequests logs method, path, status, and duration for each request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}
