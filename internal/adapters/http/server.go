// Package http exposes the optimizer over a chi-routed JSON API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riandyrn/otelchi"

	"github.com/inferprompt/inferprompt/internal/adapters/http/handlers"
	"github.com/inferprompt/inferprompt/internal/adapters/http/middleware"
	"github.com/inferprompt/inferprompt/internal/config"
	"github.com/inferprompt/inferprompt/internal/ports"
)

const (
	readTimeout  = 30 * time.Second
	writeTimeout = 30 * time.Second
	idleTimeout  = 120 * time.Second
)

type Server struct {
	config     *config.Config
	version    string
	router     *chi.Mux
	httpServer *http.Server
	optimizer  ports.Optimizer
	feedback   ports.FeedbackService
	history    ports.HistoryRepository
	dbPing     func(context.Context) error
}

// NewServer wires the route table. dbPing feeds the detailed health check
// and may be nil when the server runs without a store.
func NewServer(
	cfg *config.Config,
	version string,
	optimizer ports.Optimizer,
	feedback ports.FeedbackService,
	history ports.HistoryRepository,
	dbPing func(context.Context) error,
) *Server {
	s := &Server{
		config:    cfg,
		version:   version,
		optimizer: optimizer,
		feedback:  feedback,
		history:   history,
		dbPing:    dbPing,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(otelchi.Middleware("inferprompt", otelchi.WithChiRoutes(r)))
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(s.config.Server.CORSOrigins))
	r.Use(middleware.Metrics)

	rootHandler := handlers.NewRootHandler(s.version)
	healthHandler := handlers.NewHealthHandler(s.version, s.dbPing)
	r.Get("/", rootHandler.Handle)
	r.Get("/health", healthHandler.Handle)
	r.Get("/health/detailed", healthHandler.HandleDetailed)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(s.config.Server.RateLimit, s.config.Server.RateBurst))

		optimizeHandler := handlers.NewOptimizeHandler(s.optimizer)
		r.Post("/optimize", optimizeHandler.Optimize)
		r.Post("/analyze", optimizeHandler.Analyze)

		feedbackHandler := handlers.NewFeedbackHandler(s.feedback)
		r.Post("/feedback", feedbackHandler.Submit)

		historyHandler := handlers.NewHistoryHandler(s.history)
		r.Get("/history", historyHandler.List)
		r.Get("/history/{id}", historyHandler.Get)

		schemaHandler := handlers.NewSchemaHandler()
		r.Get("/schema", schemaHandler.Handle)
	})

	s.router = r
}

func (s *Server) Start() error {
	addr := s.config.Addr()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	slog.Info("starting http server", "addr", addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	slog.Info("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *chi.Mux {
	return s.router
}
