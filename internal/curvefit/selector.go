package curvefit

import (
	stderrors "errors"
	"fmt"
	"math"

	"trendfit/domain/curve"
	"trendfit/internal/errors"
)

// SelectionRule decides which candidate degree wins
type SelectionRule string

const (
	// RuleMaxReducedChiSquare keeps the largest reduced chi-square (default).
	RuleMaxReducedChiSquare SelectionRule = "max-rchi2"
	RuleMinReducedChiSquare SelectionRule = "min-rchi2"
	RuleClosestToUnity      SelectionRule = "closest-to-unity"
)

// ParseSelectionRule validates a rule name
func ParseSelectionRule(s string) (SelectionRule, error) {
	switch rule := SelectionRule(s); rule {
	case RuleMaxReducedChiSquare, RuleMinReducedChiSquare, RuleClosestToUnity:
		return rule, nil
	default:
		return "", errors.InvalidInput(fmt.Sprintf("unknown selection rule %q", s))
	}
}

// better reports whether candidate strictly beats best; ties keep the
// lower degree.
func (r SelectionRule) better(candidate, best float64) bool {
	switch r {
	case RuleMinReducedChiSquare:
		return candidate < best
	case RuleClosestToUnity:
		return math.Abs(candidate-1) < math.Abs(best-1)
	default:
		return candidate > best
	}
}

// DegreeScore is the goodness of fit of one candidate degree
type DegreeScore struct {
	Degree           int     `json:"degree"`
	ReducedChiSquare float64 `json:"reducedChiSquare"`
}

// Selection records which degree won and the scores it was chosen from.
// Iterations is the solver iteration count of the refit at Degree.
type Selection struct {
	Degree     int           `json:"degree"`
	Rule       SelectionRule `json:"rule"`
	Scores     []DegreeScore `json:"scores"`
	Iterations int           `json:"iterations"`
}

// BestFitRequest is a degree-selected fit
type BestFitRequest struct {
	X         []float64
	Y         []float64
	Domain    curve.Domain
	MaxDegree int // 0 means Options.MaxDegree
}

// Candidates lists the degrees evaluated for maxDegree: 1..maxDegree-1, or
// 1..maxDegree when IncludeMaxDegree is set.
func (e *Engine) Candidates(maxDegree int) ([]int, error) {
	if maxDegree < 1 || maxDegree > curve.MaxDegree {
		return nil, errors.InvalidInput(fmt.Sprintf("max degree must be in [1, %d], got %d", curve.MaxDegree, maxDegree))
	}
	last := maxDegree - 1
	if e.opts.IncludeMaxDegree {
		last = maxDegree
	}
	var degrees []int
	for d := 1; d <= last; d++ {
		degrees = append(degrees, d)
	}
	if len(degrees) == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("max degree %d leaves no candidate degrees", maxDegree))
	}
	return degrees, nil
}

// SelectDegree scores every candidate degree on the shared sample set.
// Candidates too large for the data are skipped.
func (e *Engine) SelectDegree(set curve.SampleSet, maxDegree int) (Selection, error) {
	degrees, err := e.Candidates(maxDegree)
	if err != nil {
		return Selection{}, err
	}

	sel := Selection{Degree: -1, Rule: e.opts.Rule}
	var best float64
	var lastErr error
	for _, degree := range degrees {
		mask, err := curve.DegreeMask(degree)
		if err != nil {
			return Selection{}, err
		}

		fit, err := e.solve(set, mask)
		if err != nil {
			if !stderrors.Is(err, errors.ErrSingularFit) {
				return Selection{}, err
			}
			e.logger.Debug("[curvefit] skipping degree %d: %v", degree, err)
			lastErr = err
			continue
		}

		score := DegreeScore{Degree: degree, ReducedChiSquare: fit.ReducedChiSquare}
		if sel.Degree < 0 || e.opts.Rule.better(score.ReducedChiSquare, best) {
			sel.Degree = degree
			best = score.ReducedChiSquare
		}
		sel.Scores = append(sel.Scores, score)
	}

	if sel.Degree < 0 {
		return Selection{}, lastErr
	}
	return sel, nil
}

// BestCurveFit selects a degree and returns the sampled curve refitted at it.
func (e *Engine) BestCurveFit(req BestFitRequest) (curve.SampledCurve, error) {
	sampled, _, err := e.BestCurveFitDetailed(req)
	return sampled, err
}

// BestCurveFitDetailed is BestCurveFit that also returns the selection.
func (e *Engine) BestCurveFitDetailed(req BestFitRequest) (curve.SampledCurve, Selection, error) {
	set, err := Prepare(req.X, req.Y, req.Domain)
	if err != nil {
		return nil, Selection{}, err
	}

	maxDegree := req.MaxDegree
	if maxDegree == 0 {
		maxDegree = e.opts.MaxDegree
	}

	sel, err := e.SelectDegree(set, maxDegree)
	if err != nil {
		return nil, Selection{}, err
	}

	mask, err := curve.DegreeMask(sel.Degree)
	if err != nil {
		return nil, Selection{}, err
	}
	fit, sampled, err := e.Fit(set, mask)
	if err != nil {
		return nil, Selection{}, err
	}
	sel.Iterations = fit.Iterations

	e.logger.Debug("[curvefit] selected degree %d by %s from %d candidates", sel.Degree, sel.Rule, len(sel.Scores))
	return sampled, sel, nil
}
