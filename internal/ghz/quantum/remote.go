package quantum

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RemoteBackend executes circuits on an IBM Quantum device through the
// Qiskit Runtime API. Circuits are rendered to OpenQASM, submitted with a
// shot count, and returned counts are expanded back into per-shot
// bit-vectors. All failures surface wrapped in ErrExecution; no retries.
type RemoteBackend struct {
	client      *QiskitClient
	backendName string
	maxWaitTime time.Duration
}

// NewRemoteBackend creates a backend targeting the named IBM Quantum device
func NewRemoteBackend(client *QiskitClient, backendName string) *RemoteBackend {
	return &RemoteBackend{
		client:      client,
		backendName: backendName,
		maxWaitTime: 10 * time.Minute,
	}
}

// SetMaxWaitTime overrides the job completion wait budget
func (r *RemoteBackend) SetMaxWaitTime(d time.Duration) {
	r.maxWaitTime = d
}

// Name returns the remote device name
func (r *RemoteBackend) Name() string {
	return "ibm-qiskit-" + r.backendName
}

// IsSimulator returns false; results come from IBM's devices (which may
// themselves be cloud simulators, but that is the provider's concern)
func (r *RemoteBackend) IsSimulator() bool {
	return false
}

// Run renders the circuit, executes it remotely, and expands the returned
// counts into shots bit-vectors
func (r *RemoteBackend) Run(ctx context.Context, circuit *Circuit, shots int) ([][]Bit, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("%w: shots must be positive, got %d", ErrInvalidArgument, shots)
	}

	qasm, err := circuit.QASM()
	if err != nil {
		return nil, err
	}
	fingerprint, err := circuit.Fingerprint()
	if err != nil {
		return nil, err
	}

	result, err := r.client.ExecuteCircuit(ctx, &QiskitCircuit{
		QASM:        qasm,
		Shots:       shots,
		Backend:     r.backendName,
		Fingerprint: fingerprint,
	}, r.maxWaitTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecution, err)
	}
	if !result.Success {
		return nil, fmt.Errorf("%w: job %s: %s", ErrExecution, result.JobID, result.StatusMsg)
	}

	zap.L().Debug("remote execution complete",
		zap.String("job_id", result.JobID),
		zap.String("fingerprint", fingerprint),
		zap.Float64("execution_time", result.ExecutionTime))

	return countsToBits(result.Counts, circuit.NumQubits(), shots)
}

// countsToBits expands an outcome-counts histogram into individual shot
// bit-vectors. QASM count keys list c[n-1] first, so key characters are
// read right to left into register-slot order.
func countsToBits(counts map[string]int, numQubits, shots int) ([][]Bit, error) {
	results := make([][]Bit, 0, shots)
	total := 0

	for outcome, count := range counts {
		if len(outcome) != numQubits {
			return nil, fmt.Errorf("%w: outcome %q has %d bits, expected %d",
				ErrExecution, outcome, len(outcome), numQubits)
		}
		bits := make([]Bit, numQubits)
		for i := 0; i < numQubits; i++ {
			if outcome[numQubits-1-i] == '1' {
				bits[i] = One
			}
		}
		for c := 0; c < count; c++ {
			results = append(results, append([]Bit(nil), bits...))
		}
		total += count
	}

	if total != shots {
		return nil, fmt.Errorf("%w: backend returned %d shots, expected %d", ErrExecution, total, shots)
	}

	return results, nil
}
