// Package api exposes the extraction and reconciliation pipeline over
// HTTP: multipart document uploads in, JSON results out, plus CSV and
// XLSX downloads of the persisted reconciliation table.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/a3tai/trade-doc-match/internal/tradedoc"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP delivery layer over the tradedoc service
type Server struct {
	service *tradedoc.Service
	logger  *slog.Logger
	maxBody int64
	http    *http.Server
}

// NewServer creates an HTTP server listening on addr. maxFileSize caps
// a single uploaded document; the request body limit leaves room for
// two documents plus multipart framing.
func NewServer(addr string, maxFileSize int64, service *tradedoc.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		service: service,
		logger:  logger,
		maxBody: 2*maxFileSize + 1<<20,
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Router builds the route tree with the standard middleware stack
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/documents/extract", s.handleExtract)
		r.Post("/documents/merge", s.handleMerge)
		r.Post("/documents/reconcile", s.handleReconcile)
		r.Post("/documents/validate", s.handleValidate)

		r.Get("/reconcile/table", s.handleTable)
		r.Get("/reconcile/workbook", s.handleWorkbook)

		r.Get("/info", s.handleInfo)
	})

	return r
}

// Start serves until ctx is canceled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info("http.listen", "addr", s.http.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

// requestLogger emits one structured log line per request
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("http.request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
