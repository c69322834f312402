package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/Harshitk-cp/keml-analysis/internal/api/handlers"
	mw "github.com/Harshitk-cp/keml-analysis/internal/api/middleware"
	"github.com/Harshitk-cp/keml-analysis/internal/buildconfig"
	"github.com/Harshitk-cp/keml-analysis/internal/config"
	"github.com/Harshitk-cp/keml-analysis/internal/domain"
	"github.com/Harshitk-cp/keml-analysis/internal/service"
	"github.com/Harshitk-cp/keml-analysis/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Options are the request limits and analysis defaults of the server.
type Options struct {
	Sweep          service.SweepOptions
	MaxUploadBytes int64
	APIKey         string
	RateLimitRPS   float64
	RateLimitBurst int
}

// OptionsFromConfig reads Options from the environment.
func OptionsFromConfig() Options {
	return Options{
		Sweep: service.SweepOptions{
			MinWeight:     config.TrustWeightMin(),
			MaxWeight:     config.TrustWeightMax(),
			Author:        config.AuthorTrust(),
			Distinguished: config.DistinguishedPartner(),
		},
		MaxUploadBytes: config.MaxUploadBytes(),
		APIKey:         config.APIKey(),
		RateLimitRPS:   config.RateLimitRPS(),
		RateLimitBurst: config.RateLimitBurst(),
	}
}

// App holds the router and request counters.
type App struct {
	Router    *chi.Mux
	Runs      *service.RunService
	Metrics   *mw.Metrics
	startTime time.Time
}

// NewApp wires the server from the environment. A nil pool disables run
// persistence.
func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	return NewAppWithOptions(db, logger, OptionsFromConfig())
}

func NewAppWithOptions(db *pgxpool.Pool, logger *zap.Logger, opts Options) *App {
	// Stores
	var runStore domain.RunStore
	if db != nil {
		runStore = store.NewRunStore(db)
	}

	// Services
	argumentSvc := service.NewArgumentationService(logger)
	analysisSvc := service.NewAnalysisService(argumentSvc, logger)
	runSvc := service.NewRunService(runStore, logger)

	// Handlers
	analysisHandler := handlers.NewAnalysisHandler(analysisSvc, runSvc, opts.Sweep, opts.MaxUploadBytes, logger)
	runHandler := handlers.NewRunHandler(runSvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Runs:      runSvc,
		Metrics:   mw.NewMetrics(),
		startTime: time.Now(),
	}

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app.Metrics.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst))

	r.Get("/health", healthHandler(db))
	r.Get("/metrics", app.metricsHandler())
	r.Get("/version", versionHandler)

	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(opts.APIKey))

		r.Post("/analyze", analysisHandler.Analyze)
		r.Post("/trust", analysisHandler.Trust)
		r.Post("/arguments", analysisHandler.Arguments)

		r.Route("/runs", func(r chi.Router) {
			r.Get("/", runHandler.List)
			r.Get("/{id}/trust", runHandler.Trust)
		})
	})

	return app
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if db == nil {
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "database": "disabled"})
			return
		}
		if err := db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "database": "connected"})
	}
}

func versionHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(buildconfig.VersionInfo())
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)
		counts := app.Metrics.Snapshot()

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  counts.RequestCount,
			"error_count":    counts.ErrorCount,
			"rejected_count": counts.RejectedCount,
			"analysis_count": counts.AnalysisCount,
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores satisfy interfaces at compile time.
var (
	_ domain.RunStore = (*store.RunStore)(nil)
	_ store.DB        = (*pgxpool.Pool)(nil)
)
