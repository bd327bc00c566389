package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/brook-ui/brook/pkg/stream"
)

// Server serves Brook pages over HTTP. Each registered page is rendered
// through the streaming pipeline and drained into the response with
// per-chunk flushing.
type Server struct {
	config    *Config
	router    chi.Router
	scheduler *stream.Scheduler
	logger    zerolog.Logger
	metrics   *renderMetrics

	httpServer *http.Server
}

// New creates a Server with the given configuration. A nil config uses
// defaults.
func New(config *Config) *Server {
	config = config.withDefaults()

	return &Server{
		config:    config,
		router:    chi.NewRouter(),
		scheduler: stream.New(config.Chunking),
		logger:    *config.Logger,
		metrics:   newRenderMetrics(config.MetricsRegistry),
	}
}

// Use appends middleware to the router. Must be called before any route is
// registered.
func (s *Server) Use(middlewares ...func(http.Handler) http.Handler) {
	s.router.Use(middlewares...)
}

// Router exposes the underlying chi router for mounting extra routes
// (health checks, metrics endpoints, static assets).
func (s *Server) Router() chi.Router {
	return s.router
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.router,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		ReadTimeout:       s.config.ReadTimeout,
		IdleTimeout:       s.config.IdleTimeout,
		// WriteTimeout stays zero: streamed pages have no bounded
		// response time; slow consumers are handled by backpressure.
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	s.logger.Info().Str("addr", s.config.Address).Msg("server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		s.logger.Info().Msg("server shutting down")
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
