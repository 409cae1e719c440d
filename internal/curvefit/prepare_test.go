package curvefit

import (
	stderrors "errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendfit/domain/curve"
	"trendfit/internal/errors"
)

func TestPrepare_SortsStablyAndFilters(t *testing.T) {
	x := []float64{3, 1, 2, 1, 9}
	y := []float64{30, 10, 20, 11, 90}

	set, err := Prepare(x, y, curve.NewDomain(1, 3))
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 1, 2, 3}, set.Xs())
	assert.Equal(t, []float64{10, 11, 20, 30}, set.Ys(), "ties keep input order")
	assert.Equal(t, 1.0, set.DomainMin)
	assert.Equal(t, 3.0, set.DomainMax)
}

func TestPrepare_DefaultDomainIsDataExtent(t *testing.T) {
	set, err := Prepare([]float64{5, -1, 2}, []float64{1, 2, 3}, curve.Domain{})
	require.NoError(t, err)

	assert.Equal(t, 3, set.Len())
	assert.Equal(t, -1.0, set.DomainMin)
	assert.Equal(t, 5.0, set.DomainMax)
}

func TestPrepare_NarrowingNeverAddsSamples(t *testing.T) {
	x := make([]float64, 50)
	y := make([]float64, 50)
	for i := range x {
		x[i] = float64((i * 37) % 50)
		y[i] = float64(i)
	}

	prev := 51
	for lo, hi := 0.0, 49.0; lo <= hi; lo, hi = lo+3, hi-2 {
		set, err := Prepare(x, y, curve.NewDomain(lo, hi))
		require.NoError(t, err)
		assert.LessOrEqual(t, set.Len(), prev)
		prev = set.Len()
	}
}

func TestPrepare_Errors(t *testing.T) {
	_, err := Prepare([]float64{1, 2}, []float64{1}, curve.Domain{})
	assert.True(t, stderrors.Is(err, errors.ErrShapeMismatch))

	_, err = Prepare([]float64{1, 2}, []float64{1, 2}, curve.NewDomain(5, 6))
	assert.True(t, stderrors.Is(err, errors.ErrEmptyDomain))

	_, err = Prepare(nil, nil, curve.Domain{})
	assert.True(t, stderrors.Is(err, errors.ErrEmptyDomain))

	_, err = Prepare([]float64{1, math.NaN()}, []float64{1, 2}, curve.Domain{})
	assert.True(t, stderrors.Is(err, errors.ErrInvalidInput))

	_, err = Prepare([]float64{1, 2}, []float64{1, 2}, curve.NewDomain(math.Inf(-1), 2))
	assert.True(t, stderrors.Is(err, errors.ErrInvalidInput))
}

func TestSampleIndexes(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, SampleIndexes(10, 100))
	assert.Equal(t, []int{0}, SampleIndexes(1, 100))
	assert.Nil(t, SampleIndexes(0, 100))
	assert.Equal(t, []int{0, 2, 4}, SampleIndexes(5, 3))

	idx := SampleIndexes(250, 100)
	require.Len(t, idx, 100)
	assert.Equal(t, 0, idx[0])
	assert.Equal(t, 249, idx[99])
	for i := 1; i < len(idx); i++ {
		assert.Greater(t, idx[i], idx[i-1])
	}
}

func TestPolynomial(t *testing.T) {
	p := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 1.0+2*2+3*4+4*8+5*16, Polynomial{}.Eval(p, 2))

	grad := make([]float64, curve.NumCoefficients)
	Polynomial{}.Gradient(p, 3, grad)
	assert.Equal(t, []float64{1, 3, 9, 27, 81}, grad)
}
