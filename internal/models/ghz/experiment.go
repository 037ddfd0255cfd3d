package ghz

import (
	"time"

	"github.com/google/uuid"
)

// ExperimentStatus represents the current state of a GHZ experiment
type ExperimentStatus string

const (
	ExperimentPending   ExperimentStatus = "pending"
	ExperimentRunning   ExperimentStatus = "running"
	ExperimentCompleted ExperimentStatus = "completed"
	ExperimentFailed    ExperimentStatus = "failed"
)

// BackendType represents the execution backend an experiment targets
type BackendType string

const (
	BackendSimulator BackendType = "simulator"
	BackendQiskit    BackendType = "qiskit"
)

// Experiment represents one GHZ non-locality experiment
type Experiment struct {
	ExperimentID uuid.UUID        `json:"experiment_id"`
	Status       ExperimentStatus `json:"status"`
	Backend      BackendType      `json:"backend"`
	Qubits       []int            `json:"qubits"`
	BasisSpecs   []string         `json:"basis_specs"`
	Shots        int              `json:"shots"`
	Mermin       bool             `json:"mermin"`

	// Results maps basis specifications to outcome-tuple probabilities,
	// populated once the experiment completes
	Results      map[string]map[string]float64 `json:"results,omitempty"`
	MerminValue  *float64                      `json:"mermin_value,omitempty"`
	Violated     bool                          `json:"violated"`
	Message      string                        `json:"message,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ExpiresAt   time.Time  `json:"expires_at"`
}

// ExperimentCreateRequest represents a request to set up a new experiment
type ExperimentCreateRequest struct {
	Qubits     []int       `json:"qubits,omitempty"`
	BasisSpecs []string    `json:"basis_specs,omitempty"`
	Shots      int         `json:"shots,omitempty"`
	Backend    BackendType `json:"backend,omitempty"`
	Mermin     bool        `json:"mermin,omitempty"`
	TTLMinutes int         `json:"ttl_minutes,omitempty"`
}

// ExperimentResponse represents the response when creating or querying an
// experiment
type ExperimentResponse struct {
	Experiment *Experiment `json:"experiment"`
	Error      string      `json:"error,omitempty"`
}

// Validate validates an experiment create request and fills defaults:
// qubits 0..2, 1024 shots, the simulator backend, a 60 minute TTL, and for
// Mermin runs the four canonical basis specifications.
func (r *ExperimentCreateRequest) Validate() error {
	if len(r.Qubits) == 0 {
		r.Qubits = []int{0, 1, 2}
	}
	seen := make(map[int]bool, len(r.Qubits))
	for _, q := range r.Qubits {
		if q < 0 || seen[q] {
			return ErrInvalidQubits
		}
		seen[q] = true
	}

	if r.Mermin {
		if len(r.Qubits) != 3 {
			return ErrMerminNeedsThree
		}
		if len(r.BasisSpecs) == 0 {
			r.BasisSpecs = []string{"XXX", "XYY", "YXY", "YYX"}
		}
	}
	if len(r.BasisSpecs) == 0 {
		return ErrNoBasisSpecs
	}
	for _, spec := range r.BasisSpecs {
		if len(spec) != len(r.Qubits) {
			return ErrSpecLengthMismatch
		}
	}

	if r.Shots == 0 {
		r.Shots = 1024
	}
	if r.Shots < 1 || r.Shots > 1_000_000 {
		return ErrInvalidShots
	}

	if r.Backend == "" {
		r.Backend = BackendSimulator
	}
	if r.Backend != BackendSimulator && r.Backend != BackendQiskit {
		return ErrInvalidBackend
	}

	if r.TTLMinutes == 0 {
		r.TTLMinutes = 60
	}
	if r.TTLMinutes < 1 || r.TTLMinutes > 10080 { // max 7 days
		return ErrInvalidTTL
	}

	return nil
}

// Custom errors
type GHZError struct {
	Message string
}

func (e *GHZError) Error() string {
	return e.Message
}

var (
	ErrInvalidQubits      = &GHZError{"qubit identifiers must be distinct non-negative integers"}
	ErrNoBasisSpecs       = &GHZError{"at least one basis specification is required"}
	ErrSpecLengthMismatch = &GHZError{"every basis specification must have one symbol per qubit"}
	ErrInvalidShots       = &GHZError{"shots must be between 1 and 1000000"}
	ErrInvalidBackend     = &GHZError{"backend must be \"simulator\" or \"qiskit\""}
	ErrInvalidTTL         = &GHZError{"TTL must be between 1 and 10080 minutes"}
	ErrMerminNeedsThree   = &GHZError{"the Mermin test requires exactly 3 qubits"}
	ErrExperimentNotFound = &GHZError{"experiment not found"}
	ErrExperimentExpired  = &GHZError{"experiment has expired"}
	ErrExperimentNotReady = &GHZError{"experiment is not in a runnable state"}
)
