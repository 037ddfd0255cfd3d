package ghz

import (
	"context"
	"fmt"

	"github.com/qubelab/ghz/internal/ghz/quantum"
)

// The four canonical 3-qubit measurement settings of the Mermin test
const (
	SpecXXX = "XXX"
	SpecXYY = "XYY"
	SpecYXY = "YXY"
	SpecYYX = "YYX"
)

// MerminClassicalBound is the largest |M| any local hidden-variable model
// can reach
const MerminClassicalBound = 2.0

// MerminBases returns the four canonical basis specifications XXX, XYY,
// YXY, YYX in a fixed order
func MerminBases() [][]quantum.Basis {
	return [][]quantum.Basis{
		{quantum.BasisX, quantum.BasisX, quantum.BasisX},
		{quantum.BasisX, quantum.BasisY, quantum.BasisY},
		{quantum.BasisY, quantum.BasisX, quantum.BasisY},
		{quantum.BasisY, quantum.BasisY, quantum.BasisX},
	}
}

// MerminResult holds the outcome of a Mermin experiment
type MerminResult struct {
	// Value is M = E(XXX) - E(XYY) - E(YXY) - E(YYX). With the 0→-1
	// readout convention every parity flips sign on 3 qubits, so the
	// ideal GHZ value here is -4 rather than the textbook +4.
	Value float64

	// Expectations holds the measured parity expectation per setting
	Expectations map[string]float64

	// Table is the full probability table the value was derived from
	Table ProbabilityTable
}

// Violated reports whether the measured statistic exceeds the classical
// bound
func (r *MerminResult) Violated() bool {
	return r.Value > MerminClassicalBound || r.Value < -MerminClassicalBound
}

// MerminValue derives the Mermin statistic from a probability table that
// contains all four canonical settings
func MerminValue(table ProbabilityTable) (*MerminResult, error) {
	expectations := make(map[string]float64, 4)
	for _, spec := range []string{SpecXXX, SpecXYY, SpecYXY, SpecYYX} {
		dist, ok := table[spec]
		if !ok {
			return nil, fmt.Errorf("%w: probability table is missing setting %s", quantum.ErrInvalidArgument, spec)
		}
		e, err := dist.Expectation()
		if err != nil {
			return nil, err
		}
		expectations[spec] = e
	}

	return &MerminResult{
		Value:        expectations[SpecXXX] - expectations[SpecXYY] - expectations[SpecYXY] - expectations[SpecYYX],
		Expectations: expectations,
		Table:        table,
	}, nil
}

// RunMermin measures the three given qubits in the four canonical settings
// and derives the Mermin statistic
func RunMermin(ctx context.Context, backend quantum.Backend, qubits []int, shots int) (*MerminResult, error) {
	if len(qubits) != 3 {
		return nil, fmt.Errorf("%w: the Mermin test uses exactly 3 qubits, got %d", quantum.ErrInvalidArgument, len(qubits))
	}

	table, err := Aggregate(ctx, backend, qubits, MerminBases(), shots)
	if err != nil {
		return nil, err
	}

	return MerminValue(table)
}
