// Package server exposes the scheduler over HTTP. It is the intake source
// (admission requests come in as JSON) and hosts the SSE presentation
// surface (state changes stream out through the broadcaster sink).
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/me/servq/internal/archive"
	"github.com/me/servq/internal/catalog"
	"github.com/me/servq/internal/notify"
	"github.com/me/servq/internal/scheduler"
)

// Server is the servq REST API server.
type Server struct {
	router      chi.Router
	logger      *slog.Logger
	startTime   time.Time
	catalog     *catalog.Catalog
	core        *scheduler.Core
	loop        *scheduler.Loop
	archive     *archive.Archive
	broadcaster *notify.Broadcaster

	// loopCtx is the lifecycle context dispatch runs under when started via
	// the API; the loop must outlive individual requests.
	loopCtx context.Context
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithLoopContext sets the lifecycle context for API-started dispatch runs.
// Defaults to context.Background.
func WithLoopContext(ctx context.Context) Option {
	return func(s *Server) { s.loopCtx = ctx }
}

// New creates a Server with all routes registered. arc may be nil when no
// stats surface is desired (e.g. in tests).
func New(cat *catalog.Catalog, core *scheduler.Core, loop *scheduler.Loop, arc *archive.Archive, bc *notify.Broadcaster, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		logger:      logger.With("component", "server"),
		startTime:   time.Now(),
		catalog:     cat,
		core:        core,
		loop:        loop,
		archive:     arc,
		broadcaster: bc,
		loopCtx:     context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Route("/api/v1", func(r chi.Router) {
		// Discovery
		r.Get("/", s.handleDiscovery)

		// Health
		r.Get("/health", s.handleHealth)

		// Tasks (intake + queue views)
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.handleListTasks)
			r.Post("/", s.handleAdmitTask)
			r.Delete("/", s.handleClearTasks)
			r.Post("/quick", s.handleQuickAdmit)
			r.Get("/completed", s.handleListCompleted)
			r.Get("/{id}", s.handleGetTask)
		})

		// Rooms
		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", s.handleListRooms)
			r.Route("/{number}", func(r chi.Router) {
				r.Get("/", s.handleGetRoom)
				r.Put("/checkin", s.handleCheckIn)
				r.Put("/checkout", s.handleCheckOut)
			})
		})

		// Scheduler control
		r.Route("/scheduler", func(r chi.Router) {
			r.Get("/status", s.handleSchedulerStatus)
			r.Get("/policy", s.handleGetPolicy)
			r.Put("/policy", s.handleSetPolicy)
			r.Post("/start", s.handleStart)
			r.Post("/stop", s.handleStop)
		})

		// Stats
		r.Get("/stats", s.handleStats)

		// SSE for real-time updates
		r.Get("/sse/events", s.handleSSEEvents)
	})
}
