package curvefit

import (
	"trendfit/domain/curve"
)

// Polynomial is f(p, x) = p0 + p1·x + p2·x² + p3·x³ + p4·x⁴
type Polynomial struct{}

var _ curve.Model = Polynomial{}

func (Polynomial) NumParams() int {
	return curve.NumCoefficients
}

func (Polynomial) Eval(p []float64, x float64) float64 {
	return p[0] + x*(p[1]+x*(p[2]+x*(p[3]+x*p[4])))
}

// Gradient is [1, x, x², x³, x⁴] regardless of p
func (Polynomial) Gradient(_ []float64, x float64, dst []float64) {
	pow := 1.0
	for i := 0; i < curve.NumCoefficients; i++ {
		dst[i] = pow
		pow *= x
	}
}
