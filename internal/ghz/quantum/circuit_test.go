package quantum

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

// TestBuildGHZCircuitStructure verifies the generated gate sequence for
// valid inputs
func TestBuildGHZCircuitStructure(t *testing.T) {
	tests := []struct {
		name    string
		qubits  []int
		bases   []Basis
		wantCX  int
		wantRX  int
		wantRY  int
	}{
		{"Single qubit Z", []int{0}, []Basis{BasisZ}, 0, 0, 0},
		{"Two qubits ZZ", []int{0, 1}, []Basis{BasisZ, BasisZ}, 1, 0, 0},
		{"Three qubits ZZZ", []int{0, 1, 2}, []Basis{BasisZ, BasisZ, BasisZ}, 2, 0, 0},
		{"Three qubits XXX", []int{0, 1, 2}, []Basis{BasisX, BasisX, BasisX}, 2, 0, 3},
		{"Three qubits XYZ", []int{0, 1, 2}, []Basis{BasisX, BasisY, BasisZ}, 2, 1, 1},
		{"Sparse qubit ids", []int{4, 7, 11}, []Basis{BasisY, BasisY, BasisY}, 2, 3, 0},
		{"Five qubits", []int{0, 1, 2, 3, 4}, []Basis{BasisX, BasisX, BasisZ, BasisY, BasisZ}, 4, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := BuildGHZCircuit(tt.qubits, tt.bases, false)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if c.NumQubits() != len(tt.qubits) {
				t.Errorf("expected %d qubits, got %d", len(tt.qubits), c.NumQubits())
			}
			if got := c.CountGates(GateReset); got != 1 {
				t.Errorf("expected 1 reset, got %d", got)
			}
			if got := c.CountGates(GateH); got != 1 {
				t.Errorf("expected 1 hadamard, got %d", got)
			}
			if got := c.CountGates(GateCX); got != tt.wantCX {
				t.Errorf("expected %d entangling gates, got %d", tt.wantCX, got)
			}
			if got := c.CountGates(GateRX); got != tt.wantRX {
				t.Errorf("expected %d rx gates, got %d", tt.wantRX, got)
			}
			if got := c.CountGates(GateRY); got != tt.wantRY {
				t.Errorf("expected %d ry gates, got %d", tt.wantRY, got)
			}
			if got := c.CountGates(GateMeasure); got != 0 {
				t.Errorf("measurement-free circuit has %d measurements", got)
			}
			if c.ClassicalBits != 0 {
				t.Errorf("measurement-free circuit has %d classical bits", c.ClassicalBits)
			}
		})
	}
}

// TestBuildGHZCircuitChain verifies the CNOT chain couples each qubit to
// its predecessor, and the Hadamard lands on the first qubit
func TestBuildGHZCircuitChain(t *testing.T) {
	qubits := []int{5, 3, 8, 1}
	c, err := BuildGHZCircuit(qubits, []Basis{BasisZ, BasisZ, BasisZ, BasisZ}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var hTargets [][]int
	var cxPairs [][]int
	for _, g := range c.Gates {
		switch g.Name {
		case GateH:
			hTargets = append(hTargets, g.Qubits)
		case GateCX:
			cxPairs = append(cxPairs, g.Qubits)
		}
	}

	if len(hTargets) != 1 || hTargets[0][0] != 5 {
		t.Errorf("hadamard should act on the first qubit, got %v", hTargets)
	}

	expected := [][]int{{5, 3}, {3, 8}, {8, 1}}
	if !reflect.DeepEqual(cxPairs, expected) {
		t.Errorf("expected CNOT chain %v, got %v", expected, cxPairs)
	}
}

// TestBuildGHZCircuitRotations verifies the basis-change angles
func TestBuildGHZCircuitRotations(t *testing.T) {
	c, err := BuildGHZCircuit([]int{0, 1, 2}, []Basis{BasisX, BasisY, BasisZ}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, g := range c.Gates {
		switch g.Name {
		case GateRY:
			if g.Qubits[0] != 0 {
				t.Errorf("ry should act on the X-basis qubit, got %d", g.Qubits[0])
			}
			if g.Params[0] != -math.Pi/2 {
				t.Errorf("X basis needs RY(-pi/2), got RY(%v)", g.Params[0])
			}
		case GateRX:
			if g.Qubits[0] != 1 {
				t.Errorf("rx should act on the Y-basis qubit, got %d", g.Qubits[0])
			}
			if g.Params[0] != math.Pi/2 {
				t.Errorf("Y basis needs RX(+pi/2), got RX(%v)", g.Params[0])
			}
		}
	}
}

// TestBuildGHZCircuitMeasurement verifies register allocation and slot order
func TestBuildGHZCircuitMeasurement(t *testing.T) {
	qubits := []int{7, 2, 9}
	c, err := BuildGHZCircuit(qubits, []Basis{BasisZ, BasisZ, BasisZ}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.ClassicalBits != 3 {
		t.Fatalf("expected a 3-slot register, got %d", c.ClassicalBits)
	}
	if got := c.CountGates(GateMeasure); got != 3 {
		t.Fatalf("expected 3 measurements, got %d", got)
	}

	slot := 0
	for _, g := range c.Gates {
		if g.Name != GateMeasure {
			continue
		}
		if g.Qubits[0] != qubits[slot] {
			t.Errorf("measurement %d should read qubit %d, got %d", slot, qubits[slot], g.Qubits[0])
		}
		if g.Slot != slot {
			t.Errorf("measurement of qubit %d should write slot %d, got %d", g.Qubits[0], slot, g.Slot)
		}
		slot++
	}
}

// TestBuildGHZCircuitInvalid verifies malformed input fails with
// ErrInvalidArgument and produces no circuit
func TestBuildGHZCircuitInvalid(t *testing.T) {
	tests := []struct {
		name   string
		qubits []int
		bases  []Basis
	}{
		{"Empty qubit list", []int{}, []Basis{}},
		{"Length mismatch", []int{0, 1}, []Basis{BasisZ}},
		{"Bases longer", []int{0}, []Basis{BasisZ, BasisZ}},
		{"Illegal basis", []int{0, 1}, []Basis{BasisZ, Basis(7)}},
		{"Duplicate qubit", []int{3, 3}, []Basis{BasisZ, BasisZ}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := BuildGHZCircuit(tt.qubits, tt.bases, true)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
			if c != nil {
				t.Error("a failed build must not produce a circuit")
			}
		})
	}
}

// TestBuildGHZCircuitDeterministic verifies identical inputs produce
// identical circuits
func TestBuildGHZCircuitDeterministic(t *testing.T) {
	qubits := []int{0, 1, 2}
	bases := []Basis{BasisX, BasisY, BasisZ}

	a, err := BuildGHZCircuit(qubits, bases, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := BuildGHZCircuit(qubits, bases, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different circuits")
	}
}

// TestWithMeasurements verifies measurement appending and idempotence
func TestWithMeasurements(t *testing.T) {
	bare, err := BuildGHZCircuit([]int{0, 1, 2}, []Basis{BasisZ, BasisZ, BasisZ}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	measured := bare.WithMeasurements()
	if bare.CountGates(GateMeasure) != 0 {
		t.Error("WithMeasurements mutated the original circuit")
	}
	if measured.ClassicalBits != 3 || measured.CountGates(GateMeasure) != 3 {
		t.Errorf("expected 3 measurements into a 3-slot register, got %d/%d",
			measured.CountGates(GateMeasure), measured.ClassicalBits)
	}

	again := measured.WithMeasurements()
	if again.CountGates(GateMeasure) != 3 {
		t.Errorf("measuring twice should be a no-op, got %d measurements", again.CountGates(GateMeasure))
	}
}

func BenchmarkBuildGHZCircuit(b *testing.B) {
	qubits := []int{0, 1, 2, 3, 4, 5, 6, 7}
	bases := []Basis{BasisX, BasisY, BasisZ, BasisX, BasisY, BasisZ, BasisX, BasisY}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := BuildGHZCircuit(qubits, bases, true); err != nil {
			b.Fatal(err)
		}
	}
}
