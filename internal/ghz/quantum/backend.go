package quantum

import (
	"context"
	"errors"
	"fmt"
)

// ErrExecution marks failures surfaced by a backend: hardware disconnects,
// compile errors, job failures. It is never generated for malformed local
// input and never retried here; backend-level retry belongs to the backend.
var ErrExecution = errors.New("execution failed")

// Backend is an execution capability for circuits. Run executes the circuit
// shots times and returns one bit-vector per shot, bit i holding the
// measured value of the qubit at position i of the circuit's qubit list.
// Implementations wrap their failures with ErrExecution.
type Backend interface {
	// Name returns the backend's name
	Name() string

	// IsSimulator reports whether results come from simulation rather
	// than quantum hardware
	IsSimulator() bool

	// Run executes the circuit and returns shots bit-vectors
	Run(ctx context.Context, circuit *Circuit, shots int) ([][]Bit, error)
}

// RunSymmetrized executes a circuit with symmetrized readout: half the shots
// run the circuit as generated, the other half run a variant with every
// qubit flipped just before measurement, and the flipped half is inverted
// again in post-processing. Readout bias that favors one bit value then
// cancels in the combined statistics. The circuit may be measurement-free;
// measurements are appended here.
func RunSymmetrized(ctx context.Context, backend Backend, circuit *Circuit, shots int) ([][]Bit, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("%w: shots must be positive, got %d", ErrInvalidArgument, shots)
	}

	measured := circuit.WithMeasurements()
	flippedShots := shots / 2
	plainShots := shots - flippedShots

	results, err := backend.Run(ctx, measured, plainShots)
	if err != nil {
		return nil, err
	}

	if flippedShots > 0 {
		flipped, err := backend.Run(ctx, measured.withReadoutFlips(), flippedShots)
		if err != nil {
			return nil, err
		}
		for _, bits := range flipped {
			inverted := make([]Bit, len(bits))
			for i, b := range bits {
				inverted[i] = 1 - b
			}
			results = append(results, inverted)
		}
	}

	return results, nil
}
