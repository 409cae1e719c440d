package curve

// NumCoefficients is the number of polynomial coefficients, a through e.
const NumCoefficients = 5

// Sample is one (x, y) observation
type Sample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SampleSet is a sorted, domain-filtered sequence of samples.
// INVARIANTS:
// - Samples are non-decreasing in X
// - every X lies in [Domain.Min, Domain.Max] of the resolved domain
type SampleSet struct {
	Samples   []Sample
	DomainMin float64
	DomainMax float64
}

// Len returns the number of samples
func (s SampleSet) Len() int {
	return len(s.Samples)
}

// Xs returns the x coordinates in order
func (s SampleSet) Xs() []float64 {
	xs := make([]float64, len(s.Samples))
	for i, sample := range s.Samples {
		xs[i] = sample.X
	}
	return xs
}

// Ys returns the y coordinates in order
func (s SampleSet) Ys() []float64 {
	ys := make([]float64, len(s.Samples))
	for i, sample := range s.Samples {
		ys[i] = sample.Y
	}
	return ys
}

// DistinctX counts distinct x values. Relies on the sort invariant.
func (s SampleSet) DistinctX() int {
	count := 0
	for i, sample := range s.Samples {
		if i == 0 || sample.X != s.Samples[i-1].X {
			count++
		}
	}
	return count
}

// Domain is a closed fit interval. A nil bound means "use the data extent".
type Domain struct {
	Min *float64
	Max *float64
}

// NewDomain builds a fully specified domain
func NewDomain(min, max float64) Domain {
	return Domain{Min: &min, Max: &max}
}

// Resolve fills missing bounds from the first and last value of sortedX.
// sortedX must be non-empty.
func (d Domain) Resolve(sortedX []float64) (float64, float64) {
	min, max := sortedX[0], sortedX[len(sortedX)-1]
	if d.Min != nil {
		min = *d.Min
	}
	if d.Max != nil {
		max = *d.Max
	}
	return min, max
}

// FitResult holds the outcome of one least-squares fit
type FitResult struct {
	Params [NumCoefficients]float64
	// Covariance is the unscaled (JᵀJ)⁻¹; rows and columns of pinned
	// coefficients are zero.
	Covariance       [NumCoefficients][NumCoefficients]float64
	StdErrors        [NumCoefficients]float64
	ChiSquare        float64
	ReducedChiSquare float64
	DOF              int
	NumFree          int
	Iterations       int
	Converged        bool
	Mask             Mask
}

// Band is a fitted curve with its lower and upper confidence bounds
type Band struct {
	Y     []float64
	Lower []float64
	Upper []float64
}

// CurvePoint is one sampled point of the fitted curve
type CurvePoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	ErrorLower float64 `json:"errorLower"`
	ErrorUpper float64 `json:"errorUpper"`
}

// SampledCurve is the downsampled fitted curve, at most MaxPoints long
type SampledCurve []CurvePoint

// Model is a parametric curve f(p, x) with its parameter gradient
type Model interface {
	NumParams() int
	Eval(p []float64, x float64) float64
	// Gradient writes ∂f/∂pᵢ at x into dst, which has NumParams entries.
	Gradient(p []float64, x float64, dst []float64)
}
