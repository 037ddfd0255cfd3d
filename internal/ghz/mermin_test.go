package ghz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qubelab/ghz/internal/ghz/quantum"
)

func TestMerminBases(t *testing.T) {
	bases := MerminBases()
	require.Len(t, bases, 4)

	specs := make([]string, len(bases))
	for i, b := range bases {
		specs[i] = quantum.SpecString(b)
	}
	assert.Equal(t, []string{SpecXXX, SpecXYY, SpecYXY, SpecYYX}, specs)
}

func TestRunMerminSimulator(t *testing.T) {
	sim := quantum.NewSimulatorWithSeed(21)

	result, err := RunMermin(context.Background(), sim, []int{0, 1, 2}, 4096)
	require.NoError(t, err)

	// every canonical parity is deterministic on the noiseless simulator,
	// so the statistic lands exactly on its extremal value
	assert.InDelta(t, -1.0, result.Expectations[SpecXXX], 1e-9)
	assert.InDelta(t, 1.0, result.Expectations[SpecXYY], 1e-9)
	assert.InDelta(t, 1.0, result.Expectations[SpecYXY], 1e-9)
	assert.InDelta(t, 1.0, result.Expectations[SpecYYX], 1e-9)

	assert.InDelta(t, -4.0, result.Value, 1e-9)
	assert.True(t, result.Violated())
	require.Len(t, result.Table, 4)
}

func TestRunMerminWrongQubitCount(t *testing.T) {
	sim := quantum.NewSimulator()

	for _, qubits := range [][]int{nil, {0}, {0, 1}, {0, 1, 2, 3}} {
		_, err := RunMermin(context.Background(), sim, qubits, 1024)
		assert.ErrorIs(t, err, quantum.ErrInvalidArgument)
	}
}

func TestMerminValueMissingSetting(t *testing.T) {
	table := ProbabilityTable{
		SpecXXX: Distribution{"---": 1.0},
		SpecXYY: Distribution{"+++": 1.0},
		SpecYXY: Distribution{"+++": 1.0},
		// YYX missing
	}

	_, err := MerminValue(table)
	require.Error(t, err)
	assert.ErrorIs(t, err, quantum.ErrInvalidArgument)
	assert.Contains(t, err.Error(), SpecYYX)
}

func TestMerminValueFromTable(t *testing.T) {
	evenHalf := Distribution{"+++": 0.5, "---": 0.5} // parity 0
	oddSure := Distribution{"++-": 1.0}              // parity -1

	tests := []struct {
		name     string
		table    ProbabilityTable
		want     float64
		violated bool
	}{
		{
			"extremal",
			ProbabilityTable{
				SpecXXX: oddSure,
				SpecXYY: Distribution{"+++": 1.0},
				SpecYXY: Distribution{"+++": 1.0},
				SpecYYX: Distribution{"+++": 1.0},
			},
			-4.0, true,
		},
		{
			"classical",
			ProbabilityTable{
				SpecXXX: evenHalf,
				SpecXYY: evenHalf,
				SpecYXY: evenHalf,
				SpecYYX: evenHalf,
			},
			0.0, false,
		},
		{
			"at the bound",
			ProbabilityTable{
				SpecXXX: Distribution{"+++": 1.0},
				SpecXYY: oddSure,
				SpecYXY: evenHalf,
				SpecYYX: evenHalf,
			},
			2.0, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MerminValue(tt.table)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, result.Value, 1e-9)
			assert.Equal(t, tt.violated, result.Violated())
		})
	}
}

func TestMerminViolated(t *testing.T) {
	tests := []struct {
		value float64
		want  bool
	}{
		{-4.0, true},
		{-2.1, true},
		{-2.0, false},
		{0.0, false},
		{2.0, false},
		{2.1, true},
		{4.0, true},
	}

	for _, tt := range tests {
		r := &MerminResult{Value: tt.value}
		if got := r.Violated(); got != tt.want {
			t.Errorf("Violated() with value %v = %v, want %v", tt.value, got, tt.want)
		}
	}
}
