// Package server exposes a profile document over HTTP for the editor UI.
package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/alnah/go-assetdoc"
	"github.com/alnah/go-assetdoc/internal/logging"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 10 << 20

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l glog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithAllowOrigin sets the Access-Control-Allow-Origin value ("*" by default).
func WithAllowOrigin(origin string) Option {
	return func(s *Server) { s.allowOrigin = origin }
}

// WithRenderer sets the renderer behind /preview.
func WithRenderer(r *assetdoc.Renderer) Option {
	return func(s *Server) { s.renderer = r }
}

// WithStaticDir serves the editor UI from dir at "/".
func WithStaticDir(dir string) Option {
	return func(s *Server) { s.staticDir = dir }
}

// Server routes HTTP requests to an assetdoc.Service.
type Server struct {
	router      chi.Router
	svc         *assetdoc.Service
	renderer    *assetdoc.Renderer
	log         glog.Logger
	allowOrigin string
	staticDir   string
}

// New creates a Server with all routes configured.
func New(svc *assetdoc.Service, opts ...Option) *Server {
	s := &Server{
		svc:         svc,
		log:         logging.Nop(),
		allowOrigin: "*",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.renderer == nil {
		s.renderer = assetdoc.NewRenderer()
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.cors)

	r.Route("/api", func(r chi.Router) {
		r.Get("/assets", s.handleListAssets)
		r.Post("/assets", s.handleSaveAssets)
		r.Post("/assets/new", s.handleAddAsset)
		r.Post("/assets/{index}/fields", s.handleApplyFields)
		r.Post("/assets/{index}/items", s.handleAddItem)
		r.Delete("/assets/{index}/items/{item}", s.handleRemoveItem)
		r.Get("/types", s.handleTypes)
	})
	r.Get("/preview", s.handlePreview)

	if s.staticDir != "" {
		r.Handle("/*", noStore(http.FileServer(http.Dir(s.staticDir))))
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe runs the server on addr until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// cors mirrors the editor's permissive policy and answers preflights.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", s.allowOrigin)
		h.Set("Access-Control-Allow-Methods", strings.Join([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		}, ", "))
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request at INFO.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// noStore disables caching of the editor files during development.
func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		next.ServeHTTP(w, r)
	})
}
