package quantum

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument marks malformed input detected before any backend call:
// qubit/basis length mismatches, illegal basis symbols, non-positive shot
// counts. Check with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// Basis represents the measurement axis for a single qubit
type Basis int

const (
	// BasisX measures along the X axis (requires an RY(-pi/2) rotation first)
	BasisX Basis = iota
	// BasisY measures along the Y axis (requires an RX(+pi/2) rotation first)
	BasisY
	// BasisZ is the native measurement axis, no rotation needed
	BasisZ
)

func (b Basis) String() string {
	switch b {
	case BasisX:
		return "X"
	case BasisY:
		return "Y"
	case BasisZ:
		return "Z"
	default:
		return "Unknown"
	}
}

// Valid reports whether b is one of the three supported bases
func (b Basis) Valid() bool {
	switch b {
	case BasisX, BasisY, BasisZ:
		return true
	default:
		return false
	}
}

// ParseBasis converts a single basis symbol to its Basis value
func ParseBasis(symbol rune) (Basis, error) {
	switch symbol {
	case 'X', 'x':
		return BasisX, nil
	case 'Y', 'y':
		return BasisY, nil
	case 'Z', 'z':
		return BasisZ, nil
	default:
		return 0, fmt.Errorf("%w: basis symbol %q is not one of X, Y, Z", ErrInvalidArgument, symbol)
	}
}

// ParseBasisSpec converts a basis specification string like "XYZ" into a
// per-qubit basis list
func ParseBasisSpec(spec string) ([]Basis, error) {
	bases := make([]Basis, 0, len(spec))
	for _, symbol := range spec {
		b, err := ParseBasis(symbol)
		if err != nil {
			return nil, fmt.Errorf("basis specification %q: %w", spec, err)
		}
		bases = append(bases, b)
	}
	return bases, nil
}

// SpecString renders a basis list as its specification string, e.g. "XYZ"
func SpecString(bases []Basis) string {
	var sb strings.Builder
	for _, b := range bases {
		sb.WriteString(b.String())
	}
	return sb.String()
}

// Bit represents a classical bit (0 or 1)
type Bit int

const (
	Zero Bit = 0
	One  Bit = 1
)

// Outcome is the ±1-valued result of one qubit measurement. Bit 0 maps to
// -1 and bit 1 maps to +1.
type Outcome int

const (
	OutcomeDown Outcome = -1
	OutcomeUp   Outcome = +1
)

// Arrow renders the outcome as an up or down arrow for display
func (o Outcome) Arrow() string {
	if o == OutcomeUp {
		return "↑"
	}
	return "↓"
}

// BitOutcome maps a raw measured bit to its ±1 outcome value (2*bit - 1)
func BitOutcome(b Bit) Outcome {
	return Outcome(2*int(b) - 1)
}

// OutcomeTuple is the per-qubit ±1 result of one circuit repetition
type OutcomeTuple []Outcome

// OutcomesFromBits converts one raw bit-vector into an outcome tuple,
// preserving qubit order
func OutcomesFromBits(bits []Bit) OutcomeTuple {
	tuple := make(OutcomeTuple, len(bits))
	for i, b := range bits {
		tuple[i] = BitOutcome(b)
	}
	return tuple
}

// Key returns a compact map key for the tuple, one '+' or '-' per qubit
func (t OutcomeTuple) Key() string {
	var sb strings.Builder
	for _, o := range t {
		if o == OutcomeUp {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// Arrows renders the tuple as up/down arrows, e.g. "↑↓↑"
func (t OutcomeTuple) Arrows() string {
	var sb strings.Builder
	for _, o := range t {
		sb.WriteString(o.Arrow())
	}
	return sb.String()
}

// Product returns the product of all coordinates, the parity of the shot
func (t OutcomeTuple) Product() int {
	product := 1
	for _, o := range t {
		product *= int(o)
	}
	return product
}

// ParseOutcomeKey converts a key produced by Key back into a tuple
func ParseOutcomeKey(key string) (OutcomeTuple, error) {
	tuple := make(OutcomeTuple, 0, len(key))
	for _, c := range key {
		switch c {
		case '+':
			tuple = append(tuple, OutcomeUp)
		case '-':
			tuple = append(tuple, OutcomeDown)
		default:
			return nil, fmt.Errorf("%w: outcome key %q contains %q", ErrInvalidArgument, key, c)
		}
	}
	return tuple, nil
}

// AllOutcomeTuples enumerates every possible outcome tuple for n qubits in a
// fixed order: index bit i selects the sign of coordinate i, all-down first
func AllOutcomeTuples(n int) []OutcomeTuple {
	tuples := make([]OutcomeTuple, 0, 1<<n)
	for v := 0; v < 1<<n; v++ {
		tuple := make(OutcomeTuple, n)
		for i := 0; i < n; i++ {
			if v&(1<<i) != 0 {
				tuple[i] = OutcomeUp
			} else {
				tuple[i] = OutcomeDown
			}
		}
		tuples = append(tuples, tuple)
	}
	return tuples
}
