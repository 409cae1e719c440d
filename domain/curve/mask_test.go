package curve

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendfit/internal/errors"
)

func TestDegreeMask_FreesExactlyDegreePowers(t *testing.T) {
	for degree := 1; degree <= 3; degree++ {
		m, err := DegreeMask(degree)
		require.NoError(t, err)

		assert.Len(t, m.FreePowers(), degree, "degree %d", degree)
		assert.True(t, m.Free(PowerConstant), "constant stays free at degree %d", degree)
		assert.Equal(t, degree, m.Degree())
		for power := degree + 1; power < NumCoefficients; power++ {
			assert.True(t, m.Fixed(power), "power %d pinned at degree %d", power, degree)
		}
	}
}

func TestDegreeMask_MatchesWireForm(t *testing.T) {
	m1, _ := DegreeMask(1)
	m2, _ := DegreeMask(2)
	m4, _ := DegreeMask(4)

	assert.Equal(t, "0,0,1,1,1", m1.String())
	assert.Equal(t, "0,0,0,1,1", m2.String())
	assert.Equal(t, "0,0,0,0,0", m4.String())
	assert.Equal(t, m1, DefaultMask())
}

func TestDegreeMask_RejectsOutOfRange(t *testing.T) {
	_, err := DegreeMask(5)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidInput))

	_, err = DegreeMask(-1)
	assert.Error(t, err)
}

func TestParseMask(t *testing.T) {
	m, err := ParseMask("1, 0,1,0,1")
	require.NoError(t, err)

	assert.True(t, m.Constant())
	assert.False(t, m.Linear())
	assert.True(t, m.Quadratic())
	assert.False(t, m.Cubic())
	assert.True(t, m.Quartic())
	assert.Equal(t, []int{1, 3}, m.FreeIndices())
	assert.Equal(t, 2, m.FreeCount())
}

func TestParseMask_Invalid(t *testing.T) {
	for _, s := range []string{"", "0,0,0,0", "0,0,0,0,0,0", "0,2,1,1,1", "a,0,1,1,1"} {
		_, err := ParseMask(s)
		assert.True(t, stderrors.Is(err, errors.ErrInvalidInput), "input %q", s)
	}
}

func TestSampleSet_DistinctX(t *testing.T) {
	set := SampleSet{Samples: []Sample{{1, 0}, {1, 2}, {2, 3}, {5, 1}, {5, 1}}}
	assert.Equal(t, 3, set.DistinctX())
	assert.Equal(t, []float64{1, 1, 2, 5, 5}, set.Xs())
	assert.Equal(t, 0, SampleSet{}.DistinctX())
}

func TestDomain_Resolve(t *testing.T) {
	xs := []float64{-2, 0, 7}

	min, max := Domain{}.Resolve(xs)
	assert.Equal(t, -2.0, min)
	assert.Equal(t, 7.0, max)

	lo := 1.5
	min, max = Domain{Min: &lo}.Resolve(xs)
	assert.Equal(t, 1.5, min)
	assert.Equal(t, 7.0, max)
}
