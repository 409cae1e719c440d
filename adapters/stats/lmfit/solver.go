// Package lmfit implements ports.CurveSolverPort with a Levenberg-Marquardt
// least-squares solver. Pinned parameters are removed from the problem, the
// Jacobian of the free ones is column-scaled, and every damped step is taken
// from its thin SVD, which also yields the rank check and the covariance.
package lmfit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"trendfit/domain/curve"
	"trendfit/internal"
	"trendfit/internal/errors"
)

const (
	initialLambda = 1e-3
	maxLambda     = 1e16
)

// Options controls convergence
type Options struct {
	MaxIterations int
	FTol          float64 // relative chi-square reduction that counts as converged
	XTol          float64 // relative scaled step that counts as converged
	RCond         float64 // smallest allowed ratio of singular values
}

// DefaultOptions mirrors the MINPACK defaults
func DefaultOptions() Options {
	return Options{
		MaxIterations: 200,
		FTol:          1e-10,
		XTol:          1e-10,
		RCond:         1e-12,
	}
}

// Solver is safe for concurrent use; it holds no per-fit state.
type Solver struct {
	opts   Options
	logger *internal.Logger
}

// NewSolver creates a solver. A nil logger discards output.
func NewSolver(opts Options, logger *internal.Logger) *Solver {
	if logger == nil {
		logger = internal.NopLogger
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultOptions().MaxIterations
	}
	if opts.RCond <= 0 {
		opts.RCond = DefaultOptions().RCond
	}
	return &Solver{opts: opts, logger: logger}
}

// Fit minimises Σ(y - f(p, x))² over the free parameters of mask, starting
// from initial. Fixed parameters keep their initial value.
func (s *Solver) Fit(model curve.Model, initial []float64, x, y []float64, mask curve.Mask) (*curve.FitResult, error) {
	n := len(x)
	if n != len(y) {
		return nil, errors.ShapeMismatch(fmt.Sprintf("x has %d values, y has %d", n, len(y)))
	}
	if model.NumParams() != curve.NumCoefficients || len(initial) != curve.NumCoefficients {
		return nil, errors.InvalidInput(fmt.Sprintf("model and initial guess must have %d parameters", curve.NumCoefficients))
	}
	if n == 0 {
		return nil, errors.EmptyDomain("no samples to fit")
	}

	free := mask.FreeIndices()
	dof := n - len(free)
	if dof <= 0 {
		return nil, errors.SingularFit(fmt.Sprintf("%d samples leave no degrees of freedom for %d free parameters", n, len(free)))
	}

	p := append([]float64(nil), initial...)
	r := make([]float64, n)
	chi2 := residuals(model, p, x, y, r)
	if !finite(chi2) {
		return nil, errors.SingularFit("chi-square of the initial guess is not finite")
	}

	result := &curve.FitResult{Mask: mask, NumFree: len(free), DOF: dof}

	if len(free) > 0 {
		var err error
		chi2, err = s.minimise(model, p, x, y, r, chi2, free, result)
		if err != nil {
			return nil, err
		}

		dec, err := s.decompose(model, p, x, free)
		if err != nil {
			return nil, err
		}
		cov := dec.covariance()
		for j, pj := range free {
			for k, pk := range free {
				result.Covariance[pj][pk] = cov.At(j, k)
			}
		}
	} else {
		result.Converged = true
	}

	if !finite(chi2) {
		return nil, errors.SingularFit("chi-square is not finite")
	}

	copy(result.Params[:], p)
	result.ChiSquare = chi2
	result.ReducedChiSquare = chi2 / float64(dof)
	for i := range result.StdErrors {
		result.StdErrors[i] = math.Sqrt(result.Covariance[i][i] * result.ReducedChiSquare)
	}

	s.logger.Trace("[lmfit] mask=%s iterations=%d converged=%t chi2=%g rchi2=%g",
		mask, result.Iterations, result.Converged, result.ChiSquare, result.ReducedChiSquare)
	return result, nil
}

// minimise runs the damped iterations, updating p and r in place.
func (s *Solver) minimise(model curve.Model, p, x, y, r []float64, chi2 float64, free []int, result *curve.FitResult) (float64, error) {
	lambda := initialLambda
	trial := make([]float64, len(p))
	rTrial := make([]float64, len(r))

	for iter := 1; iter <= s.opts.MaxIterations; iter++ {
		result.Iterations = iter

		dec, err := s.decompose(model, p, x, free)
		if err != nil {
			return 0, err
		}
		utr := dec.project(r)

		improved := false
		for lambda <= maxLambda {
			step := dec.step(utr, lambda)
			copy(trial, p)
			for j, idx := range free {
				trial[idx] += step[j]
			}

			chi2Trial := residuals(model, trial, x, y, rTrial)
			if chi2Trial <= chi2 {
				improved = true
				prev := chi2
				chi2 = chi2Trial
				copy(p, trial)
				copy(r, rTrial)
				lambda /= 10

				params := make([]float64, len(free))
				for j, idx := range free {
					params[j] = p[idx]
				}
				if chi2 == 0 ||
					prev-chi2 <= s.opts.FTol*prev ||
					dec.scaledNorm(step) <= s.opts.XTol*(dec.scaledNorm(params)+s.opts.XTol) {
					result.Converged = true
				}
				break
			}
			lambda *= 10
		}

		// No downhill step at any damping: chi-square is at its floor.
		if !improved {
			result.Converged = true
		}
		if result.Converged {
			break
		}
	}
	return chi2, nil
}

// ConfidenceBand evaluates the fit at x with a symmetric band
// y ± t·sqrt(rchi2 · gᵀCg), g being the parameter gradient at x.
func (s *Solver) ConfidenceBand(fit *curve.FitResult, model curve.Model, x []float64, level float64) (*curve.Band, error) {
	if level <= 0 || level >= 1 {
		return nil, errors.InvalidInput(fmt.Sprintf("confidence level must be in (0, 1), got %g", level))
	}
	if fit.DOF <= 0 {
		return nil, errors.SingularFit("fit has no residual degrees of freedom")
	}

	tCritical := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(fit.DOF)}.Quantile(1 - (1-level)/2)

	cov := mat.NewSymDense(curve.NumCoefficients, nil)
	for i := 0; i < curve.NumCoefficients; i++ {
		for j := i; j < curve.NumCoefficients; j++ {
			cov.SetSym(i, j, fit.Covariance[i][j])
		}
	}

	params := fit.Params[:]
	grad := make([]float64, curve.NumCoefficients)
	g := mat.NewVecDense(curve.NumCoefficients, grad)

	band := &curve.Band{
		Y:     make([]float64, len(x)),
		Lower: make([]float64, len(x)),
		Upper: make([]float64, len(x)),
	}
	for i, xi := range x {
		yi := model.Eval(params, xi)
		model.Gradient(params, xi, grad)

		variance := mat.Inner(g, cov, g)
		if variance < 0 || math.IsNaN(variance) {
			variance = 0
		}
		delta := tCritical * math.Sqrt(fit.ReducedChiSquare*variance)
		if !finite(yi) || !finite(delta) {
			return nil, errors.SingularFit(fmt.Sprintf("confidence band overflows at x=%g", xi))
		}

		band.Y[i] = yi
		band.Lower[i] = yi - delta
		band.Upper[i] = yi + delta
	}
	return band, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func residuals(model curve.Model, p, x, y, r []float64) float64 {
	for i, xi := range x {
		r[i] = y[i] - model.Eval(p, xi)
	}
	return floats.Dot(r, r)
}

// decomposition is the SVD of the column-scaled Jacobian J·D⁻¹ = U S Vᵀ.
type decomposition struct {
	scale  []float64
	values []float64
	u      mat.Dense
	v      mat.Dense
}

func (s *Solver) decompose(model curve.Model, p, x []float64, free []int) (*decomposition, error) {
	n, m := len(x), len(free)

	grad := make([]float64, model.NumParams())
	jac := mat.NewDense(n, m, nil)
	for i, xi := range x {
		model.Gradient(p, xi, grad)
		for j, idx := range free {
			jac.Set(i, j, grad[idx])
		}
	}

	scale := make([]float64, m)
	col := make([]float64, n)
	for j := 0; j < m; j++ {
		mat.Col(col, j, jac)
		norm := floats.Norm(col, 2)
		if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
			return nil, errors.SingularFit(fmt.Sprintf("design column for x^%d is degenerate", free[j]))
		}
		scale[j] = norm
		floats.Scale(1/norm, col)
		jac.SetCol(j, col)
	}

	var svd mat.SVD
	if ok := svd.Factorize(jac, mat.SVDThin); !ok {
		return nil, errors.SingularFit("singular value decomposition did not converge")
	}
	values := svd.Values(nil)
	if values[m-1] <= s.opts.RCond*values[0] {
		return nil, errors.SingularFit(fmt.Sprintf("design matrix is rank deficient (condition %.3g)", values[0]/values[m-1]))
	}

	d := &decomposition{scale: scale, values: values}
	svd.UTo(&d.u)
	svd.VTo(&d.v)
	return d, nil
}

// project returns Uᵀr
func (d *decomposition) project(r []float64) *mat.VecDense {
	var out mat.VecDense
	out.MulVec(d.u.T(), mat.NewVecDense(len(r), r))
	return &out
}

// step solves the damped normal equations for the unscaled parameter step
func (d *decomposition) step(utr *mat.VecDense, lambda float64) []float64 {
	m := len(d.values)
	coef := make([]float64, m)
	for k, sigma := range d.values {
		coef[k] = sigma / (sigma*sigma + lambda) * utr.AtVec(k)
	}

	var scaled mat.VecDense
	scaled.MulVec(&d.v, mat.NewVecDense(m, coef))

	step := make([]float64, m)
	for j := range step {
		step[j] = scaled.AtVec(j) / d.scale[j]
	}
	return step
}

func (d *decomposition) scaledNorm(v []float64) float64 {
	sum := 0.0
	for j, vj := range v {
		sv := d.scale[j] * vj
		sum += sv * sv
	}
	return math.Sqrt(sum)
}

// covariance returns (JᵀJ)⁻¹ = D⁻¹ V S⁻² Vᵀ D⁻¹
func (d *decomposition) covariance() *mat.SymDense {
	m := len(d.values)
	cov := mat.NewSymDense(m, nil)
	for j := 0; j < m; j++ {
		for k := j; k < m; k++ {
			sum := 0.0
			for l, sigma := range d.values {
				sum += d.v.At(j, l) * d.v.At(k, l) / (sigma * sigma)
			}
			cov.SetSym(j, k, sum/(d.scale[j]*d.scale[k]))
		}
	}
	return cov
}
