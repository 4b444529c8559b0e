package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/meridianfp/checkup/internal/database"
	"github.com/meridianfp/checkup/internal/modules/clientdata"
	"github.com/meridianfp/checkup/internal/modules/correlation"
	"github.com/meridianfp/checkup/internal/modules/history"
	"github.com/meridianfp/checkup/internal/modules/income"
	"github.com/meridianfp/checkup/internal/modules/montecarlo"
	"github.com/meridianfp/checkup/internal/modules/settings"
	"github.com/meridianfp/checkup/internal/modules/snapshots"
	"github.com/meridianfp/checkup/internal/services"
)

// Config holds server configuration and the wired services
type Config struct {
	Port    int
	Log     zerolog.Logger
	DB      *database.DB
	DevMode bool

	Analysis   *services.AnalysisService
	GoalSim    *montecarlo.Simulator
	CorrEngine *correlation.Engine
	IncomeProj *income.Projector

	ClientData *clientdata.Repository
	Settings   *settings.Repository
	Snapshots  *snapshots.Repository

	// History is optional; when set, analysis requests prefer stored
	// price returns over simulated ones.
	History *history.Store
}

// Server represents the HTTP server
type Server struct {
	router  *chi.Mux
	server  *http.Server
	log     zerolog.Logger
	db      *database.DB
	history *history.Store

	analysis   *services.AnalysisService
	goalSim    *montecarlo.Simulator
	corrEngine *correlation.Engine
	incomeProj *income.Projector

	clientData *clientdata.Repository
	settings   *settings.Repository
	snapshots  *snapshots.Repository
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		log:     cfg.Log.With().Str("component", "server").Logger(),
		db:      cfg.DB,
		history: cfg.History,

		analysis:   cfg.Analysis,
		goalSim:    cfg.GoalSim,
		corrEngine: cfg.CorrEngine,
		incomeProj: cfg.IncomeProj,

		clientData: cfg.ClientData,
		settings:   cfg.Settings,
		snapshots:  cfg.Snapshots,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes(cfg.Log)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(log zerolog.Logger) {
	s.router.Get("/health", s.handleHealth)

	clientDataHandler := clientdata.NewHandler(s.clientData, log)
	settingsHandler := settings.NewHandler(s.settings, log)
	snapshotsHandler := snapshots.NewHandler(s.snapshots, log)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/analysis", s.handleAnalyze)
		r.Post("/simulation/goal", s.handleGoalSimulation)
		r.Post("/correlation", s.handleCorrelation)
		r.Post("/income/projection", s.handleIncomeProjection)

		r.Route("/clientdata", clientDataHandler.Routes)
		r.Route("/settings", settingsHandler.Routes)
		r.Route("/snapshots", snapshotsHandler.Routes)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
