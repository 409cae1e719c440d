package curve

import (
	"fmt"
	"strconv"
	"strings"

	"trendfit/internal/errors"
)

// Coefficient powers, in ascending order
const (
	PowerConstant = iota
	PowerLinear
	PowerQuadratic
	PowerCubic
	PowerQuartic
)

// MaxDegree is the highest polynomial degree the model supports
const MaxDegree = PowerQuartic

// Mask marks which coefficients are pinned at zero during a fit.
// Index i is the coefficient of xⁱ; true means fixed, false means free.
type Mask [NumCoefficients]bool

// DegreeMask frees the constant term and powers 1..degree and pins the rest.
func DegreeMask(degree int) (Mask, error) {
	if degree < 0 || degree > MaxDegree {
		return Mask{}, errors.InvalidInput(fmt.Sprintf("degree must be in [0, %d], got %d", MaxDegree, degree))
	}
	var m Mask
	for power := degree + 1; power < NumCoefficients; power++ {
		m[power] = true
	}
	return m, nil
}

// DefaultMask is a straight line: constant and linear term free.
func DefaultMask() Mask {
	return Mask{false, false, true, true, true}
}

// NewMask builds a mask from 0/1 flags, 1 meaning fixed.
func NewMask(flags []int) (Mask, error) {
	var m Mask
	if len(flags) != NumCoefficients {
		return m, errors.InvalidInput(fmt.Sprintf("mask needs %d flags, got %d", NumCoefficients, len(flags)))
	}
	for i, f := range flags {
		switch f {
		case 0:
		case 1:
			m[i] = true
		default:
			return m, errors.InvalidInput(fmt.Sprintf("mask flag %d must be 0 or 1, got %d", i, f))
		}
	}
	return m, nil
}

// ParseMask parses the wire form "1,0,1,1,1".
func ParseMask(s string) (Mask, error) {
	parts := strings.Split(s, ",")
	flags := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Mask{}, errors.InvalidInput(fmt.Sprintf("mask flag %q is not an integer", p))
		}
		flags[i] = v
	}
	return NewMask(flags)
}

func (m Mask) Constant() bool  { return m[PowerConstant] }
func (m Mask) Linear() bool    { return m[PowerLinear] }
func (m Mask) Quadratic() bool { return m[PowerQuadratic] }
func (m Mask) Cubic() bool     { return m[PowerCubic] }
func (m Mask) Quartic() bool   { return m[PowerQuartic] }

// Fixed reports whether the coefficient of x^power is pinned at zero
func (m Mask) Fixed(power int) bool {
	return m[power]
}

// Free reports whether the coefficient of x^power is estimated
func (m Mask) Free(power int) bool {
	return !m[power]
}

// FreeIndices returns the free coefficient indices in ascending order
func (m Mask) FreeIndices() []int {
	idx := make([]int, 0, NumCoefficients)
	for i, fixed := range m {
		if !fixed {
			idx = append(idx, i)
		}
	}
	return idx
}

// FreeCount counts free coefficients, including the constant
func (m Mask) FreeCount() int {
	return len(m.FreeIndices())
}

// FreePowers returns the free non-constant powers
func (m Mask) FreePowers() []int {
	var powers []int
	for power := PowerLinear; power < NumCoefficients; power++ {
		if !m[power] {
			powers = append(powers, power)
		}
	}
	return powers
}

// Degree is the highest free power, or -1 when everything is pinned
func (m Mask) Degree() int {
	for power := NumCoefficients - 1; power >= 0; power-- {
		if !m[power] {
			return power
		}
	}
	return -1
}

func (m Mask) String() string {
	parts := make([]string, NumCoefficients)
	for i, fixed := range m {
		if fixed {
			parts[i] = "1"
		} else {
			parts[i] = "0"
		}
	}
	return strings.Join(parts, ",")
}
