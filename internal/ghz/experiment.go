package ghz

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qubelab/ghz/internal/ghz/quantum"
	ghzmodel "github.com/qubelab/ghz/internal/models/ghz"
)

// ExperimentManager tracks GHZ experiments and runs them against a backend.
// Records live in memory only and expire after their TTL.
type ExperimentManager struct {
	mu          sync.RWMutex
	experiments map[uuid.UUID]*ghzmodel.Experiment
	backend     quantum.Backend
}

// NewExperimentManager creates an experiment manager bound to an execution
// backend
func NewExperimentManager(backend quantum.Backend) *ExperimentManager {
	return &ExperimentManager{
		experiments: make(map[uuid.UUID]*ghzmodel.Experiment),
		backend:     backend,
	}
}

// Create validates the request and registers a pending experiment
func (m *ExperimentManager) Create(req *ghzmodel.ExperimentCreateRequest) (*ghzmodel.Experiment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	experiment := &ghzmodel.Experiment{
		ExperimentID: uuid.New(),
		Status:       ghzmodel.ExperimentPending,
		Backend:      req.Backend,
		Qubits:       req.Qubits,
		BasisSpecs:   req.BasisSpecs,
		Shots:        req.Shots,
		Mermin:       req.Mermin,
		CreatedAt:    now,
		ExpiresAt:    now.Add(time.Duration(req.TTLMinutes) * time.Minute),
	}

	m.experiments[experiment.ExperimentID] = experiment

	return experiment, nil
}

// Run executes a pending experiment: aggregates the probability table for
// every requested basis specification and, for Mermin runs, derives the
// Mermin statistic. A failed run leaves the record in the failed state with
// no partial results.
func (m *ExperimentManager) Run(ctx context.Context, experimentID uuid.UUID) (*ghzmodel.Experiment, error) {
	m.mu.Lock()
	experiment, exists := m.experiments[experimentID]
	if !exists {
		m.mu.Unlock()
		return nil, ghzmodel.ErrExperimentNotFound
	}
	if time.Now().After(experiment.ExpiresAt) {
		m.mu.Unlock()
		return nil, ghzmodel.ErrExperimentExpired
	}
	if experiment.Status != ghzmodel.ExperimentPending {
		m.mu.Unlock()
		return nil, ghzmodel.ErrExperimentNotReady
	}
	experiment.Status = ghzmodel.ExperimentRunning
	basisSpecs := experiment.BasisSpecs
	qubits := experiment.Qubits
	shots := experiment.Shots
	m.mu.Unlock()

	basisSets := make([][]quantum.Basis, 0, len(basisSpecs))
	for _, spec := range basisSpecs {
		bases, err := quantum.ParseBasisSpec(spec)
		if err != nil {
			m.fail(experimentID, err)
			return nil, err
		}
		basisSets = append(basisSets, bases)
	}

	start := time.Now()
	table, err := Aggregate(ctx, m.backend, qubits, basisSets, shots)
	if err != nil {
		m.fail(experimentID, err)
		return nil, fmt.Errorf("aggregation failed: %w", err)
	}

	var merminResult *MerminResult
	if experiment.Mermin {
		merminResult, err = MerminValue(table)
		if err != nil {
			m.fail(experimentID, err)
			return nil, err
		}
	}

	zap.L().Info("experiment complete",
		zap.String("experiment_id", experimentID.String()),
		zap.String("backend", m.backend.Name()),
		zap.Int("shots", shots),
		zap.Duration("elapsed", time.Since(start)))

	m.mu.Lock()
	defer m.mu.Unlock()

	experiment.Status = ghzmodel.ExperimentCompleted
	experiment.Results = tableToModel(table)
	if merminResult != nil {
		value := merminResult.Value
		experiment.MerminValue = &value
		experiment.Violated = merminResult.Violated()
	}
	now := time.Now()
	experiment.CompletedAt = &now

	return experiment, nil
}

// fail marks an experiment as failed with the error message
func (m *ExperimentManager) fail(experimentID uuid.UUID, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if experiment, exists := m.experiments[experimentID]; exists {
		experiment.Status = ghzmodel.ExperimentFailed
		experiment.Message = err.Error()
		now := time.Now()
		experiment.CompletedAt = &now
	}
}

// Get retrieves an experiment by ID
func (m *ExperimentManager) Get(experimentID uuid.UUID) (*ghzmodel.Experiment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	experiment, exists := m.experiments[experimentID]
	if !exists {
		return nil, ghzmodel.ErrExperimentNotFound
	}
	if time.Now().After(experiment.ExpiresAt) {
		return nil, ghzmodel.ErrExperimentExpired
	}

	return experiment, nil
}

// CleanupExpired removes expired experiment records, returning how many
// were dropped
func (m *ExperimentManager) CleanupExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	removed := 0
	for id, experiment := range m.experiments {
		if now.After(experiment.ExpiresAt) {
			delete(m.experiments, id)
			removed++
		}
	}

	return removed
}

// tableToModel converts a probability table into the JSON-friendly model
// representation
func tableToModel(table ProbabilityTable) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(table))
	for spec, dist := range table {
		out[spec] = map[string]float64(dist)
	}
	return out
}
