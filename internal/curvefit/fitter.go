package curvefit

import (
	"fmt"

	"trendfit/domain/curve"
	"trendfit/internal"
	"trendfit/internal/errors"
	"trendfit/ports"
)

// Options configures an Engine
type Options struct {
	ConfidenceLevel  float64
	MaxPoints        int
	MaxDegree        int
	Rule             SelectionRule
	IncludeMaxDegree bool
}

// DefaultOptions returns a 95% band, 100 output points and degree
// selection over 1..2 by maximum reduced chi-square.
func DefaultOptions() Options {
	return Options{
		ConfidenceLevel: 0.95,
		MaxPoints:       100,
		MaxDegree:       3,
		Rule:            RuleMaxReducedChiSquare,
	}
}

// Engine fits the polynomial model to sample sets. It keeps no per-call
// state and is safe for concurrent use.
type Engine struct {
	solver ports.CurveSolverPort
	model  curve.Model
	opts   Options
	logger *internal.Logger
}

// NewEngine creates an engine over the given solver
func NewEngine(solver ports.CurveSolverPort, opts Options, logger *internal.Logger) *Engine {
	if logger == nil {
		logger = internal.NopLogger
	}
	def := DefaultOptions()
	if opts.ConfidenceLevel <= 0 || opts.ConfidenceLevel >= 1 {
		opts.ConfidenceLevel = def.ConfidenceLevel
	}
	if opts.MaxPoints <= 0 {
		opts.MaxPoints = def.MaxPoints
	}
	if opts.MaxDegree <= 0 {
		opts.MaxDegree = def.MaxDegree
	}
	if opts.Rule == "" {
		opts.Rule = def.Rule
	}
	return &Engine{
		solver: solver,
		model:  Polynomial{},
		opts:   opts,
		logger: logger,
	}
}

// Options returns the effective options
func (e *Engine) Options() Options {
	return e.opts
}

// FitRequest is a direct fit at an explicit mask
type FitRequest struct {
	X      []float64
	Y      []float64
	Domain curve.Domain
	Mask   *curve.Mask // nil means DefaultMask
}

// CurveFit prepares the series and fits it at the requested mask. The fit
// result is returned alongside the sampled curve for callers that report on
// the solver.
func (e *Engine) CurveFit(req FitRequest) (curve.SampledCurve, *curve.FitResult, error) {
	set, err := Prepare(req.X, req.Y, req.Domain)
	if err != nil {
		return nil, nil, err
	}

	mask := curve.DefaultMask()
	if req.Mask != nil {
		mask = *req.Mask
	}

	fit, sampled, err := e.Fit(set, mask)
	if err != nil {
		return nil, nil, err
	}
	return sampled, fit, nil
}

// Fit runs the least-squares fit, evaluates the confidence band at every
// sample and downsamples the result.
func (e *Engine) Fit(set curve.SampleSet, mask curve.Mask) (*curve.FitResult, curve.SampledCurve, error) {
	fit, err := e.solve(set, mask)
	if err != nil {
		return nil, nil, err
	}

	band, err := e.solver.ConfidenceBand(fit, e.model, set.Xs(), e.opts.ConfidenceLevel)
	if err != nil {
		return nil, nil, errors.Wrap(err, "confidence band failed")
	}
	if !finiteBand(band) {
		return nil, nil, errors.SingularFit(fmt.Sprintf("confidence band at mask %s is not finite", mask))
	}

	return fit, Downsample(set, band, e.opts.MaxPoints), nil
}

// solve is the fit without band or sampling; the selector only needs the
// goodness of fit.
func (e *Engine) solve(set curve.SampleSet, mask curve.Mask) (*curve.FitResult, error) {
	if set.Len() == 0 {
		return nil, errors.EmptyDomain("sample set is empty")
	}
	if distinct, free := set.DistinctX(), mask.FreeCount(); distinct < free {
		return nil, errors.SingularFit(fmt.Sprintf("%d distinct x values cannot determine %d free coefficients", distinct, free))
	}

	fit, err := e.solver.Fit(e.model, make([]float64, curve.NumCoefficients), set.Xs(), set.Ys(), mask)
	if err != nil {
		return nil, err
	}
	if !finite(fit.ReducedChiSquare) {
		return nil, errors.SingularFit(fmt.Sprintf("reduced chi-square at mask %s is not finite", mask))
	}
	e.logger.Debug("[curvefit] mask=%s n=%d rchi2=%g iterations=%d", mask, set.Len(), fit.ReducedChiSquare, fit.Iterations)
	return fit, nil
}

func finiteBand(band *curve.Band) bool {
	for i := range band.Y {
		if !finite(band.Y[i]) || !finite(band.Lower[i]) || !finite(band.Upper[i]) {
			return false
		}
	}
	return true
}
