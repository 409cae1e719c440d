package ports

import (
	"trendfit/domain/curve"
)

// TrendRequest is a degree-selected fit over a series
type TrendRequest struct {
	X         []float64
	Y         []float64
	Domain    curve.Domain
	MaxDegree int // 0 means the configured default
}

// TrendFitterPort produces a trend overlay for a scatter series
type TrendFitterPort interface {
	BestCurveFit(req TrendRequest) (curve.SampledCurve, error)
}
