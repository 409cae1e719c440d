package curvefit

import (
	"trendfit/domain/curve"
)

// SampleIndexes spreads min(n, maxPoints) positions over [0, n-1] by
// truncating a linear grid. Positions can repeat only when the grid is
// denser than the data, which the min() rules out.
func SampleIndexes(n, maxPoints int) []int {
	if n <= 0 || maxPoints <= 0 {
		return nil
	}
	count := n
	if count > maxPoints {
		count = maxPoints
	}
	idx := make([]int, count)
	if count == 1 {
		return idx
	}
	for i := range idx {
		idx[i] = i * (n - 1) / (count - 1)
	}
	return idx
}

// Downsample picks the sampled points of a band computed at every sample.
// x is the input sample value, so integral input stays integral on the
// wire.
func Downsample(set curve.SampleSet, band *curve.Band, maxPoints int) curve.SampledCurve {
	indexes := SampleIndexes(set.Len(), maxPoints)
	out := make(curve.SampledCurve, len(indexes))
	for i, idx := range indexes {
		out[i] = curve.CurvePoint{
			X:          set.Samples[idx].X,
			Y:          band.Y[idx],
			ErrorLower: band.Lower[idx],
			ErrorUpper: band.Upper[idx],
		}
	}
	return out
}
