package ports

import (
	"trendfit/domain/curve"
)

// CurveSolverPort runs a constrained least-squares fit and derives
// confidence bands from it. Implementations must be deterministic for a
// fixed initial guess and data.
type CurveSolverPort interface {
	// Fit estimates the coefficients the mask leaves free; fixed ones keep
	// their initial value.
	Fit(model curve.Model, initial []float64, x, y []float64, mask curve.Mask) (*curve.FitResult, error)

	// ConfidenceBand evaluates the fitted model at x with a two-sided band at
	// the given confidence level, computed from the parameter gradient.
	ConfidenceBand(fit *curve.FitResult, model curve.Model, x []float64, level float64) (*curve.Band, error)
}
