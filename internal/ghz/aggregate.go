// Package ghz runs GHZ-state non-locality experiments: it drives the
// circuit generator against an execution backend, turns raw shot results
// into outcome-tuple probability tables, and derives the Mermin statistic
// that certifies non-classical correlations.
package ghz

import (
	"context"
	"fmt"

	"github.com/qubelab/ghz/internal/ghz/quantum"
)

// Distribution maps outcome-tuple keys (see quantum.OutcomeTuple.Key) to
// probabilities. Tuples never observed carry no entry; Prob reads them as 0.
type Distribution map[string]float64

// Prob returns the probability of an outcome tuple, 0 when unseen
func (d Distribution) Prob(t quantum.OutcomeTuple) float64 {
	return d[t.Key()]
}

// Sum returns the total probability mass, 1 up to floating-point error for
// any distribution produced by Aggregate
func (d Distribution) Sum() float64 {
	total := 0.0
	for _, p := range d {
		total += p
	}
	return total
}

// Expectation returns the expected value of the outcome-coordinate product
// (the parity) under the distribution
func (d Distribution) Expectation() (float64, error) {
	value := 0.0
	for key, p := range d {
		tuple, err := quantum.ParseOutcomeKey(key)
		if err != nil {
			return 0, err
		}
		value += p * float64(tuple.Product())
	}
	return value, nil
}

// ProbabilityTable maps basis-specification strings (e.g. "XYZ") to the
// measured outcome distributions
type ProbabilityTable map[string]Distribution

// Aggregate measures the GHZ state in every requested basis specification.
// For each specification it builds a measurement-free circuit, executes it
// with symmetrized readout for the given number of shots, maps each raw
// bit-vector to a ±1 outcome tuple, and normalizes tuple tallies into a
// fresh distribution.
//
// Specifications run strictly sequentially in the given order. A non-positive
// shot count fails with ErrInvalidArgument before any backend call; the
// first backend failure aborts the whole aggregation with no partial result.
func Aggregate(ctx context.Context, backend quantum.Backend, qubits []int, basisSets [][]quantum.Basis, shots int) (ProbabilityTable, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("%w: shots must be positive, got %d", quantum.ErrInvalidArgument, shots)
	}

	table := make(ProbabilityTable, len(basisSets))

	for _, bases := range basisSets {
		spec := quantum.SpecString(bases)

		circuit, err := quantum.BuildGHZCircuit(qubits, bases, false)
		if err != nil {
			return nil, fmt.Errorf("basis specification %s: %w", spec, err)
		}

		results, err := quantum.RunSymmetrized(ctx, backend, circuit, shots)
		if err != nil {
			return nil, fmt.Errorf("basis specification %s: %w", spec, err)
		}

		// each specification tallies into its own histogram
		histogram := make(map[string]int, len(results))
		for _, bits := range results {
			histogram[quantum.OutcomesFromBits(bits).Key()]++
		}

		dist := make(Distribution, len(histogram))
		for key, count := range histogram {
			dist[key] = float64(count) / float64(shots)
		}
		table[spec] = dist
	}

	return table, nil
}
