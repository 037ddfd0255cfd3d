package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	ghzcore "github.com/qubelab/ghz/internal/ghz"
	"github.com/qubelab/ghz/internal/ghz/quantum"
	ghzmodel "github.com/qubelab/ghz/internal/models/ghz"
)

// GHZHandler manages GHZ experiment HTTP requests
type GHZHandler struct {
	manager *ghzcore.ExperimentManager
	backend quantum.Backend
}

// NewGHZHandler creates a GHZ handler bound to an execution backend
func NewGHZHandler(backend quantum.Backend) *GHZHandler {
	return &GHZHandler{
		manager: ghzcore.NewExperimentManager(backend),
		backend: backend,
	}
}

// CreateExperimentHandler handles POST /api/v1/ghz/experiments
func (h *GHZHandler) CreateExperimentHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ghzmodel.ExperimentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	experiment, err := h.manager.Create(&req)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, ghzmodel.ExperimentResponse{
		Experiment: experiment,
	})
}

// RunExperimentHandler handles POST /api/v1/ghz/experiments/{id}/run
func (h *GHZHandler) RunExperimentHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	experimentID, ok := experimentIDFromPath(w, r)
	if !ok {
		return
	}

	experiment, err := h.manager.Run(r.Context(), experimentID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, ghzmodel.ErrExperimentNotFound):
			status = http.StatusNotFound
		case errors.Is(err, ghzmodel.ErrExperimentExpired):
			status = http.StatusGone
		case errors.Is(err, ghzmodel.ErrExperimentNotReady), errors.Is(err, quantum.ErrInvalidArgument):
			status = http.StatusConflict
		}
		respondWithError(w, status, fmt.Sprintf("Experiment run failed: %v", err))
		return
	}

	respondWithJSON(w, http.StatusOK, ghzmodel.ExperimentResponse{
		Experiment: experiment,
	})
}

// GetExperimentHandler handles GET /api/v1/ghz/experiments/{id}
func (h *GHZHandler) GetExperimentHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	experimentID, ok := experimentIDFromPath(w, r)
	if !ok {
		return
	}

	experiment, err := h.manager.Get(experimentID)
	if err != nil {
		status := http.StatusNotFound
		if errors.Is(err, ghzmodel.ErrExperimentExpired) {
			status = http.StatusGone
		}
		respondWithError(w, status, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, ghzmodel.ExperimentResponse{
		Experiment: experiment,
	})
}

// HealthCheckHandler handles GET /api/v1/ghz/health
func (h *GHZHandler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	health := map[string]interface{}{
		"status":    "healthy",
		"service":   "GHZ non-locality experiment",
		"backend":   h.backend.Name(),
		"simulator": h.backend.IsSimulator(),
		"version":   "1.0.0",
	}

	respondWithJSON(w, http.StatusOK, health)
}

// experimentIDFromPath extracts the experiment UUID from
// /api/v1/ghz/experiments/{id}[/run]
func experimentIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	pathParts := strings.Split(r.URL.Path, "/")
	if len(pathParts) < 6 {
		respondWithError(w, http.StatusBadRequest, "Invalid URL format")
		return uuid.UUID{}, false
	}

	experimentID, err := uuid.Parse(pathParts[5])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid experiment ID")
		return uuid.UUID{}, false
	}

	return experimentID, true
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondWithError sends an error response
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
