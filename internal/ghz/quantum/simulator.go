package quantum

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
	"sync"
)

// Simulator is a noiseless statevector backend supporting exactly the gate
// set the GHZ generator emits. It is the default execution capability for
// development and for verifying the experiment's predicted statistics.
type Simulator struct {
	name string
	mu   sync.Mutex
	rng  *rand.Rand
}

// NewSimulator creates a statevector simulator with a random sampling seed
func NewSimulator() *Simulator {
	return &Simulator{
		name: "statevector-simulator",
		rng:  rand.New(rand.NewSource(rand.Int63())),
	}
}

// NewSimulatorWithSeed creates a simulator with a fixed sampling seed for
// reproducible runs
func NewSimulatorWithSeed(seed int64) *Simulator {
	return &Simulator{
		name: "statevector-simulator",
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Name returns the simulator's name
func (s *Simulator) Name() string {
	return s.name
}

// IsSimulator returns true
func (s *Simulator) IsSimulator() bool {
	return true
}

// Run evolves the statevector through the circuit's gates and samples shots
// bit-vectors from the final measurement distribution
func (s *Simulator) Run(ctx context.Context, circuit *Circuit, shots int) ([][]Bit, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("%w: shots must be positive, got %d", ErrInvalidArgument, shots)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecution, err)
	}

	state, err := evolve(circuit)
	if err != nil {
		return nil, err
	}
	probs := state.probabilities()

	s.mu.Lock()
	defer s.mu.Unlock()

	n := circuit.NumQubits()
	results := make([][]Bit, shots)
	for shot := 0; shot < shots; shot++ {
		idx := sampleIndex(probs, s.rng.Float64())
		bits := make([]Bit, n)
		for i := 0; i < n; i++ {
			if idx&(1<<i) != 0 {
				bits[i] = One
			}
		}
		results[shot] = bits
	}

	return results, nil
}

// evolve applies the circuit's gates to a fresh |0...0> state. Gate qubit
// identifiers resolve to statevector bit positions through the circuit's
// qubit list.
func evolve(circuit *Circuit) (*stateVector, error) {
	state := newStateVector(circuit.NumQubits())

	for _, g := range circuit.Gates {
		switch g.Name {
		case GateReset:
			for _, q := range g.Qubits {
				idx, ok := circuit.position(q)
				if !ok {
					return nil, fmt.Errorf("%w: gate %s references unknown qubit %d", ErrExecution, g.Name, q)
				}
				state.reset(idx)
			}
			continue
		case GateMeasure:
			// sampling happens from the final state
			continue
		}

		idx, ok := circuit.position(g.Qubits[0])
		if !ok {
			return nil, fmt.Errorf("%w: gate %s references unknown qubit %d", ErrExecution, g.Name, g.Qubits[0])
		}

		switch g.Name {
		case GateH:
			state.hadamard(idx)
		case GateX:
			state.pauliX(idx)
		case GateRX:
			state.rotateX(idx, g.Params[0])
		case GateRY:
			state.rotateY(idx, g.Params[0])
		case GateCX:
			tgt, ok := circuit.position(g.Qubits[1])
			if !ok {
				return nil, fmt.Errorf("%w: gate cx references unknown qubit %d", ErrExecution, g.Qubits[1])
			}
			state.cnot(idx, tgt)
		default:
			return nil, fmt.Errorf("%w: unsupported gate %q", ErrExecution, g.Name)
		}
	}

	return state, nil
}

// sampleIndex picks a basis-state index from the cumulative distribution
func sampleIndex(probs []float64, r float64) int {
	cumulative := 0.0
	for i, p := range probs {
		cumulative += p
		if r < cumulative {
			return i
		}
	}
	return len(probs) - 1
}

// stateVector holds 2^n complex amplitudes; bit i of a basis-state index is
// the value of the qubit at position i
type stateVector struct {
	amps      []complex128
	numQubits int
}

func newStateVector(numQubits int) *stateVector {
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &stateVector{amps: amps, numQubits: numQubits}
}

func (s *stateVector) hadamard(q int) {
	factor := complex(1.0/math.Sqrt2, 0)
	bit := 1 << q
	next := make([]complex128, len(s.amps))
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			next[i] = factor * (s.amps[i] + s.amps[j])
			next[j] = factor * (s.amps[i] - s.amps[j])
		}
	}
	s.amps = next
}

func (s *stateVector) pauliX(q int) {
	bit := 1 << q
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

func (s *stateVector) rotateX(q int, theta float64) {
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	next := make([]complex128, len(s.amps))
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			next[i] = c*s.amps[i] + js*s.amps[j]
			next[j] = js*s.amps[i] + c*s.amps[j]
		}
	}
	s.amps = next
}

func (s *stateVector) rotateY(q int, theta float64) {
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	sn := complex(math.Sin(theta/2), 0)
	next := make([]complex128, len(s.amps))
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			next[i] = c*s.amps[i] - sn*s.amps[j]
			next[j] = sn*s.amps[i] + c*s.amps[j]
		}
	}
	s.amps = next
}

func (s *stateVector) cnot(control, target int) {
	cBit := 1 << control
	tBit := 1 << target
	for i := range s.amps {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

// reset projects the qubit onto |0> and renormalizes
func (s *stateVector) reset(q int) {
	bit := 1 << q

	prob0 := 0.0
	for i, a := range s.amps {
		if i&bit == 0 {
			prob0 += real(a * cmplx.Conj(a))
		}
	}

	norm := 1.0
	if prob0 > 0 {
		norm = math.Sqrt(prob0)
	}

	for i := range s.amps {
		if i&bit == 0 {
			s.amps[i] /= complex(norm, 0)
		} else {
			s.amps[i] = 0
		}
	}
}

// probabilities returns the measurement distribution over basis states
func (s *stateVector) probabilities() []float64 {
	probs := make([]float64, len(s.amps))
	for i, a := range s.amps {
		probs[i] = real(a * cmplx.Conj(a))
	}
	return probs
}
