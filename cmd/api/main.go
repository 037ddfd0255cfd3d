package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/qubelab/ghz/internal/config"
	"github.com/qubelab/ghz/internal/ghz/quantum"
	"github.com/qubelab/ghz/internal/handlers"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// Config path from environment, defaults apply when unset
	cfg, err := config.Load(os.Getenv("GHZ_CONFIG"))
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	backend, err := buildBackend(cfg)
	if err != nil {
		logger.Fatal("failed to initialize backend", zap.Error(err))
	}
	logger.Info("backend ready",
		zap.String("name", backend.Name()),
		zap.Bool("simulator", backend.IsSimulator()))

	ghzHandler := handlers.NewGHZHandler(backend)

	mux := http.NewServeMux()
	mux.HandleFunc("/", handlers.HomeHandler)
	mux.HandleFunc("/health", handlers.HealthHandler)
	mux.HandleFunc("/api/v1/ghz/health", ghzHandler.HealthCheckHandler)
	mux.HandleFunc("/api/v1/ghz/experiments", ghzHandler.CreateExperimentHandler)
	mux.HandleFunc("/api/v1/ghz/experiments/", handleExperiment(ghzHandler))

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      loggingMiddleware(logger, mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Minute, // experiment runs block on the backend
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

// buildBackend constructs the execution backend the config selects
func buildBackend(cfg *config.Config) (quantum.Backend, error) {
	if cfg.Backend.Type == "qiskit" {
		client, err := quantum.NewQiskitClient(context.Background(), &quantum.QiskitConfig{
			APIKey:      cfg.Backend.Qiskit.APIKey,
			CRN:         cfg.Backend.Qiskit.CRN,
			BaseURL:     cfg.Backend.Qiskit.BaseURL,
			BackendName: cfg.Backend.Qiskit.Backend,
		})
		if err != nil {
			return nil, err
		}
		return quantum.NewRemoteBackend(client, cfg.Backend.Qiskit.Backend), nil
	}
	return quantum.NewSimulator(), nil
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("elapsed", time.Since(start)))
	})
}

// handleExperiment routes experiment sub-paths
func handleExperiment(ghzHandler *handlers.GHZHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/run") {
			ghzHandler.RunExperimentHandler(w, r)
		} else {
			ghzHandler.GetExperimentHandler(w, r)
		}
	}
}
