package curvefit

import (
	"fmt"
	"math"
	"sort"

	"trendfit/domain/curve"
	"trendfit/internal/errors"
)

// Prepare sorts the raw series by x (stable on ties), resolves the domain
// and keeps the samples inside it.
func Prepare(x, y []float64, domain curve.Domain) (curve.SampleSet, error) {
	if len(x) != len(y) {
		return curve.SampleSet{}, errors.ShapeMismatch(fmt.Sprintf("x has %d values, y has %d", len(x), len(y)))
	}
	if len(x) == 0 {
		return curve.SampleSet{}, errors.EmptyDomain("no samples supplied")
	}
	for i := range x {
		if !finite(x[i]) || !finite(y[i]) {
			return curve.SampleSet{}, errors.InvalidInput(fmt.Sprintf("sample %d is not finite (x=%v, y=%v)", i, x[i], y[i]))
		}
	}
	if (domain.Min != nil && !finite(*domain.Min)) || (domain.Max != nil && !finite(*domain.Max)) {
		return curve.SampleSet{}, errors.InvalidInput("domain bounds must be finite")
	}

	order := make([]int, len(x))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return x[order[a]] < x[order[b]]
	})

	sortedX := make([]float64, len(x))
	for i, idx := range order {
		sortedX[i] = x[idx]
	}
	min, max := domain.Resolve(sortedX)

	set := curve.SampleSet{DomainMin: min, DomainMax: max}
	for _, idx := range order {
		if x[idx] < min || x[idx] > max {
			continue
		}
		set.Samples = append(set.Samples, curve.Sample{X: x[idx], Y: y[idx]})
	}

	if len(set.Samples) == 0 {
		return curve.SampleSet{}, errors.EmptyDomain(fmt.Sprintf("no samples with x in [%g, %g]", min, max))
	}
	return set, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
