package quantum

import (
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitQASM(t *testing.T) {
	c, err := BuildGHZCircuit([]int{0, 1}, []Basis{BasisX, BasisZ}, true)
	require.NoError(t, err)

	qasm, err := c.QASM()
	require.NoError(t, err)

	expected := heredoc.Doc(`
		OPENQASM 2.0;
		include "qelib1.inc";

		qreg q[2];
		creg c[2];

		reset q[0];
		reset q[1];
		h q[0];
		cx q[0],q[1];
		ry(-pi/2) q[0];

		measure q[0] -> c[0];
		measure q[1] -> c[1];
	`)
	assert.Equal(t, expected, qasm)
}

func TestCircuitQASMSparseQubits(t *testing.T) {
	// qubit identifiers map to register indices by position
	c, err := BuildGHZCircuit([]int{10, 20, 30}, []Basis{BasisZ, BasisY, BasisZ}, true)
	require.NoError(t, err)

	qasm, err := c.QASM()
	require.NoError(t, err)

	assert.Contains(t, qasm, "qreg q[3];")
	assert.Contains(t, qasm, "cx q[0],q[1];")
	assert.Contains(t, qasm, "cx q[1],q[2];")
	assert.Contains(t, qasm, "rx(pi/2) q[1];")
	assert.Contains(t, qasm, "measure q[2] -> c[2];")
	assert.NotContains(t, qasm, "q[10]")
}

func TestCircuitQASMNoMeasurement(t *testing.T) {
	c, err := BuildGHZCircuit([]int{0, 1}, []Basis{BasisZ, BasisZ}, false)
	require.NoError(t, err)

	qasm, err := c.QASM()
	require.NoError(t, err)

	assert.NotContains(t, qasm, "creg")
	assert.NotContains(t, qasm, "measure")
}

func TestCircuitFingerprint(t *testing.T) {
	a, err := BuildGHZCircuit([]int{0, 1, 2}, []Basis{BasisX, BasisX, BasisX}, false)
	require.NoError(t, err)
	b, err := BuildGHZCircuit([]int{0, 1, 2}, []Basis{BasisX, BasisX, BasisX}, false)
	require.NoError(t, err)
	other, err := BuildGHZCircuit([]int{0, 1, 2}, []Basis{BasisY, BasisX, BasisX}, false)
	require.NoError(t, err)

	fpA, err := a.Fingerprint()
	require.NoError(t, err)
	fpB, err := b.Fingerprint()
	require.NoError(t, err)
	fpOther, err := other.Fingerprint()
	require.NoError(t, err)

	assert.Len(t, fpA, 64)
	assert.Equal(t, fpA, fpB, "identical circuits must share a fingerprint")
	assert.NotEqual(t, fpA, fpOther, "different circuits must not collide")
}

func TestFormatAngle(t *testing.T) {
	tests := []struct {
		theta    float64
		expected string
	}{
		{1.5707963267948966, "pi/2"},
		{-1.5707963267948966, "-pi/2"},
		{3.141592653589793, "pi"},
		{-3.141592653589793, "-pi"},
		{0.25, "0.25"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatAngle(tt.theta))
	}
}
