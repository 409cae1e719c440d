package app

import (
	"time"

	"trendfit/adapters/stats/lmfit"
	"trendfit/domain/curve"
	"trendfit/internal"
	"trendfit/internal/config"
	"trendfit/internal/curvefit"
	"trendfit/internal/errors"
	"trendfit/internal/metrics"
	"trendfit/ports"
)

// TrendService is the entry point for curve fits from the API, CLI and
// insight catalogue. It adds logging and metrics around the engine.
type TrendService struct {
	engine  *curvefit.Engine
	metrics *metrics.Metrics
	logger  *internal.Logger
}

var _ ports.TrendFitterPort = (*TrendService)(nil)

// NewTrendService creates a trend service over an engine
func NewTrendService(engine *curvefit.Engine, m *metrics.Metrics, logger *internal.Logger) *TrendService {
	if logger == nil {
		logger = internal.NopLogger
	}
	if m == nil {
		m = metrics.New()
	}
	return &TrendService{engine: engine, metrics: m, logger: logger}
}

// NewTrendServiceFromConfig wires the Levenberg-Marquardt solver and the
// engine from configuration
func NewTrendServiceFromConfig(cfg *config.Config, m *metrics.Metrics, logger *internal.Logger) (*TrendService, error) {
	rule, err := curvefit.ParseSelectionRule(cfg.Fit.SelectionRule)
	if err != nil {
		return nil, errors.Wrap(err, "invalid selection rule")
	}

	solver := lmfit.NewSolver(lmfit.Options{
		MaxIterations: cfg.Solver.MaxIterations,
		FTol:          cfg.Solver.FTol,
		XTol:          cfg.Solver.XTol,
		RCond:         cfg.Solver.RCond,
	}, logger)

	engine := curvefit.NewEngine(solver, curvefit.Options{
		ConfidenceLevel:  cfg.Fit.ConfidenceLevel,
		MaxPoints:        cfg.Fit.MaxPoints,
		MaxDegree:        cfg.Fit.MaxDegree,
		Rule:             rule,
		IncludeMaxDegree: cfg.Fit.IncludeMaxDegree,
	}, logger)

	return NewTrendService(engine, m, logger), nil
}

// Candidates lists the degrees a best fit up to maxDegree would evaluate
func (s *TrendService) Candidates(maxDegree int) ([]int, error) {
	return s.engine.Candidates(maxDegree)
}

// CurveFit fits at an explicit mask
func (s *TrendService) CurveFit(req curvefit.FitRequest) (curve.SampledCurve, error) {
	started := time.Now()

	sampled, fit, err := s.engine.CurveFit(req)
	s.metrics.ObserveFit(metrics.OperationFit, started, err)
	if err != nil {
		s.logger.Warn("[TrendService] fit failed (%s): %v", errors.GetCode(err), err)
		return nil, err
	}

	s.metrics.ObserveIterations(fit.Iterations)
	s.logger.Debug("[TrendService] fit n=%d points=%d in %v", len(req.X), len(sampled), time.Since(started))
	return sampled, nil
}

// BestCurveFit selects the degree and returns the refitted curve
func (s *TrendService) BestCurveFit(req ports.TrendRequest) (curve.SampledCurve, error) {
	sampled, _, err := s.BestCurveFitDetailed(curvefit.BestFitRequest{
		X:         req.X,
		Y:         req.Y,
		Domain:    req.Domain,
		MaxDegree: req.MaxDegree,
	})
	return sampled, err
}

// BestCurveFitDetailed also returns the scores the degree was chosen from
func (s *TrendService) BestCurveFitDetailed(req curvefit.BestFitRequest) (curve.SampledCurve, curvefit.Selection, error) {
	started := time.Now()

	sampled, sel, err := s.engine.BestCurveFitDetailed(req)
	s.metrics.ObserveFit(metrics.OperationBestFit, started, err)
	if err != nil {
		s.logger.Warn("[TrendService] best fit failed (%s): %v", errors.GetCode(err), err)
		return nil, curvefit.Selection{}, err
	}

	s.metrics.ObserveDegree(sel.Degree)
	s.metrics.ObserveIterations(sel.Iterations)
	s.logger.Debug("[TrendService] best fit degree=%d rule=%s n=%d", sel.Degree, sel.Rule, len(req.X))
	return sampled, sel, nil
}
