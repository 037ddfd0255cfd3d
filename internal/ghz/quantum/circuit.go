package quantum

import (
	"fmt"
	"math"
)

// Gate operation names used in circuits. The set is closed: the generator
// only emits these, and the simulator and QASM renderer switch over them
// exhaustively.
const (
	GateReset   = "reset"
	GateH       = "h"
	GateX       = "x"
	GateCX      = "cx"
	GateRX      = "rx"
	GateRY      = "ry"
	GateMeasure = "measure"
)

// Gate is a single instruction in a circuit. Qubits holds the qubit
// identifiers the instruction acts on (control first for cx). Slot is the
// classical register index for measure instructions, -1 otherwise.
type Gate struct {
	Name   string
	Qubits []int
	Params []float64
	Slot   int
}

// Circuit is an ordered sequence of gate and measurement instructions over a
// fixed qubit list. A circuit is built fresh per call, owned by the caller,
// and never mutated after construction.
type Circuit struct {
	// Qubits lists the qubit identifiers in measurement order. Position i
	// in the list corresponds to classical register slot i.
	Qubits []int
	Gates  []Gate
	// ClassicalBits is the length of the classical result register, zero
	// when the circuit carries no measurement instructions.
	ClassicalBits int
}

// NumQubits returns the number of qubits the circuit acts on
func (c *Circuit) NumQubits() int {
	return len(c.Qubits)
}

// CountGates returns how many instructions with the given name the circuit
// contains
func (c *Circuit) CountGates(name string) int {
	count := 0
	for _, g := range c.Gates {
		if g.Name == name {
			count++
		}
	}
	return count
}

// position maps a qubit identifier to its index in the circuit's qubit list
func (c *Circuit) position(qubit int) (int, bool) {
	for i, q := range c.Qubits {
		if q == qubit {
			return i, true
		}
	}
	return 0, false
}

// BuildGHZCircuit builds the GHZ-state preparation and basis-change circuit
// for the given qubits:
//
//  1. a reset instruction,
//  2. a Hadamard on the first qubit,
//  3. a CNOT chain coupling each qubit to its predecessor,
//  4. per-qubit basis rotations so that the fixed Z-axis measurement
//     performs an effective X or Y measurement: RY(-pi/2) for X, RX(+pi/2)
//     for Y, nothing for Z,
//  5. when includeMeasurement is set, a classical register of len(qubits)
//     slots and one measurement per qubit into the slot matching its input
//     position.
//
// The qubit and basis lists must have equal nonzero length, every basis must
// be one of X, Y, Z, and qubit identifiers must be distinct; violations fail
// with ErrInvalidArgument and produce no circuit.
func BuildGHZCircuit(qubits []int, bases []Basis, includeMeasurement bool) (*Circuit, error) {
	if len(qubits) == 0 {
		return nil, fmt.Errorf("%w: qubit list is empty", ErrInvalidArgument)
	}
	if len(qubits) != len(bases) {
		return nil, fmt.Errorf("%w: %d qubits but %d bases", ErrInvalidArgument, len(qubits), len(bases))
	}
	seen := make(map[int]bool, len(qubits))
	for _, q := range qubits {
		if seen[q] {
			return nil, fmt.Errorf("%w: duplicate qubit %d", ErrInvalidArgument, q)
		}
		seen[q] = true
	}
	for i, b := range bases {
		if !b.Valid() {
			return nil, fmt.Errorf("%w: basis %d for qubit %d is not one of X, Y, Z", ErrInvalidArgument, int(b), qubits[i])
		}
	}

	c := &Circuit{Qubits: append([]int(nil), qubits...)}

	c.Gates = append(c.Gates, Gate{Name: GateReset, Qubits: append([]int(nil), qubits...), Slot: -1})
	c.Gates = append(c.Gates, Gate{Name: GateH, Qubits: []int{qubits[0]}, Slot: -1})

	for i := 0; i+1 < len(qubits); i++ {
		c.Gates = append(c.Gates, Gate{Name: GateCX, Qubits: []int{qubits[i], qubits[i+1]}, Slot: -1})
	}

	for i, b := range bases {
		switch b {
		case BasisX:
			c.Gates = append(c.Gates, Gate{Name: GateRY, Qubits: []int{qubits[i]}, Params: []float64{-math.Pi / 2}, Slot: -1})
		case BasisY:
			c.Gates = append(c.Gates, Gate{Name: GateRX, Qubits: []int{qubits[i]}, Params: []float64{math.Pi / 2}, Slot: -1})
		case BasisZ:
			// native measurement axis
		}
	}

	if includeMeasurement {
		c.ClassicalBits = len(qubits)
		for i, q := range qubits {
			c.Gates = append(c.Gates, Gate{Name: GateMeasure, Qubits: []int{q}, Slot: i})
		}
	}

	return c, nil
}

// WithMeasurements returns a copy of the circuit with a full classical
// register and one measurement appended per qubit, slot i for position i.
// A circuit that already measures is returned as a plain copy.
func (c *Circuit) WithMeasurements() *Circuit {
	out := &Circuit{
		Qubits:        append([]int(nil), c.Qubits...),
		Gates:         append([]Gate(nil), c.Gates...),
		ClassicalBits: c.ClassicalBits,
	}
	if out.ClassicalBits > 0 {
		return out
	}
	out.ClassicalBits = len(out.Qubits)
	for i, q := range out.Qubits {
		out.Gates = append(out.Gates, Gate{Name: GateMeasure, Qubits: []int{q}, Slot: i})
	}
	return out
}

// withReadoutFlips returns a copy of the circuit with an X gate inserted on
// every qubit immediately before the first measurement instruction. Used by
// the symmetrized readout runner; results from the flipped variant must be
// inverted by the caller.
func (c *Circuit) withReadoutFlips() *Circuit {
	firstMeasure := len(c.Gates)
	for i, g := range c.Gates {
		if g.Name == GateMeasure {
			firstMeasure = i
			break
		}
	}

	out := &Circuit{
		Qubits:        append([]int(nil), c.Qubits...),
		ClassicalBits: c.ClassicalBits,
	}
	out.Gates = append(out.Gates, c.Gates[:firstMeasure]...)
	for _, q := range out.Qubits {
		out.Gates = append(out.Gates, Gate{Name: GateX, Qubits: []int{q}, Slot: -1})
	}
	out.Gates = append(out.Gates, c.Gates[firstMeasure:]...)
	return out
}
