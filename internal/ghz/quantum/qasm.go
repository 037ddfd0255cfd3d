package quantum

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/crypto/sha3"
)

// QASMBuilder assembles OpenQASM 2.0 circuit text
type QASMBuilder struct {
	version      string
	includeStmt  string
	registers    []string
	gates        []string
	measurements []string
}

// NewQASMBuilder creates a builder with a quantum register of numQubits and,
// when numClassical > 0, a classical register of that length
func NewQASMBuilder(numQubits, numClassical int) *QASMBuilder {
	b := &QASMBuilder{
		version:     "OPENQASM 2.0;",
		includeStmt: "include \"qelib1.inc\";",
	}
	b.registers = append(b.registers, fmt.Sprintf("qreg q[%d];", numQubits))
	if numClassical > 0 {
		b.registers = append(b.registers, fmt.Sprintf("creg c[%d];", numClassical))
	}
	return b
}

// AddGate appends a gate statement
func (b *QASMBuilder) AddGate(gate string) {
	b.gates = append(b.gates, gate)
}

// AddMeasurement appends a measurement of qubit index q into classical slot c
func (b *QASMBuilder) AddMeasurement(q, c int) {
	b.measurements = append(b.measurements, fmt.Sprintf("measure q[%d] -> c[%d];", q, c))
}

// Build generates the complete QASM circuit string
func (b *QASMBuilder) Build() string {
	var circuit strings.Builder

	circuit.WriteString(b.version + "\n")
	circuit.WriteString(b.includeStmt + "\n")
	circuit.WriteString("\n")

	for _, reg := range b.registers {
		circuit.WriteString(reg + "\n")
	}
	circuit.WriteString("\n")

	for _, gate := range b.gates {
		circuit.WriteString(gate + "\n")
	}

	if len(b.measurements) > 0 {
		circuit.WriteString("\n")
		for _, meas := range b.measurements {
			circuit.WriteString(meas + "\n")
		}
	}

	return circuit.String()
}

// QASM renders the circuit as OpenQASM 2.0 text. Qubit identifiers map to
// register indices by their position in the circuit's qubit list, so the
// bit ordering of backend counts matches the classical register layout.
func (c *Circuit) QASM() (string, error) {
	b := NewQASMBuilder(len(c.Qubits), c.ClassicalBits)

	for _, g := range c.Gates {
		switch g.Name {
		case GateReset:
			for _, q := range g.Qubits {
				idx, ok := c.position(q)
				if !ok {
					return "", fmt.Errorf("%w: gate %s references unknown qubit %d", ErrInvalidArgument, g.Name, q)
				}
				b.AddGate(fmt.Sprintf("reset q[%d];", idx))
			}
		case GateH, GateX:
			idx, ok := c.position(g.Qubits[0])
			if !ok {
				return "", fmt.Errorf("%w: gate %s references unknown qubit %d", ErrInvalidArgument, g.Name, g.Qubits[0])
			}
			b.AddGate(fmt.Sprintf("%s q[%d];", g.Name, idx))
		case GateRX, GateRY:
			idx, ok := c.position(g.Qubits[0])
			if !ok {
				return "", fmt.Errorf("%w: gate %s references unknown qubit %d", ErrInvalidArgument, g.Name, g.Qubits[0])
			}
			b.AddGate(fmt.Sprintf("%s(%s) q[%d];", g.Name, formatAngle(g.Params[0]), idx))
		case GateCX:
			ctrl, ok := c.position(g.Qubits[0])
			if !ok {
				return "", fmt.Errorf("%w: gate %s references unknown qubit %d", ErrInvalidArgument, g.Name, g.Qubits[0])
			}
			tgt, ok := c.position(g.Qubits[1])
			if !ok {
				return "", fmt.Errorf("%w: gate %s references unknown qubit %d", ErrInvalidArgument, g.Name, g.Qubits[1])
			}
			b.AddGate(fmt.Sprintf("cx q[%d],q[%d];", ctrl, tgt))
		case GateMeasure:
			idx, ok := c.position(g.Qubits[0])
			if !ok {
				return "", fmt.Errorf("%w: gate %s references unknown qubit %d", ErrInvalidArgument, g.Name, g.Qubits[0])
			}
			b.AddMeasurement(idx, g.Slot)
		default:
			return "", fmt.Errorf("%w: unsupported gate %q", ErrInvalidArgument, g.Name)
		}
	}

	return b.Build(), nil
}

// formatAngle renders a rotation angle, preferring exact pi fractions for
// the angles the generator emits
func formatAngle(theta float64) string {
	const tol = 1e-12
	switch {
	case math.Abs(theta-math.Pi/2) < tol:
		return "pi/2"
	case math.Abs(theta+math.Pi/2) < tol:
		return "-pi/2"
	case math.Abs(theta-math.Pi) < tol:
		return "pi"
	case math.Abs(theta+math.Pi) < tol:
		return "-pi"
	default:
		return strconv.FormatFloat(theta, 'g', -1, 64)
	}
}

// Fingerprint returns the hex SHA3-256 digest of the circuit's QASM text,
// used to tag submitted jobs
func (c *Circuit) Fingerprint() (string, error) {
	qasm, err := c.QASM()
	if err != nil {
		return "", err
	}
	sum := sha3.Sum256([]byte(qasm))
	return hex.EncodeToString(sum[:]), nil
}
