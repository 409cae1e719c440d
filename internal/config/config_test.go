package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendfit/internal/curvefit"
	"trendfit/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.95, cfg.Fit.ConfidenceLevel)
	assert.Equal(t, 100, cfg.Fit.MaxPoints)
	assert.Equal(t, 3, cfg.Fit.MaxDegree)
	assert.Equal(t, string(curvefit.RuleMaxReducedChiSquare), cfg.Fit.SelectionRule)
	assert.False(t, cfg.Fit.IncludeMaxDegree)
	assert.Equal(t, 200, cfg.Solver.MaxIterations)
	assert.Equal(t, 30, cfg.Insight.MinItems)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FIT_SELECTION_RULE", string(curvefit.RuleClosestToUnity))
	t.Setenv("FIT_INCLUDE_MAX_DEGREE", "true")
	t.Setenv("FIT_CONFIDENCE_LEVEL", "0.99")
	t.Setenv("FIT_MAX_POINTS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, string(curvefit.RuleClosestToUnity), cfg.Fit.SelectionRule)
	assert.True(t, cfg.Fit.IncludeMaxDegree)
	assert.Equal(t, 0.99, cfg.Fit.ConfidenceLevel)
	assert.Equal(t, 100, cfg.Fit.MaxPoints)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"FIT_SELECTION_RULE":   "best-guess",
		"FIT_MAX_DEGREE":       "5",
		"FIT_CONFIDENCE_LEVEL": "1.5",
		"INSIGHT_WORKERS":      "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestLoad_MaxDegreeOneNeedsInclusiveBound(t *testing.T) {
	t.Setenv("FIT_MAX_DEGREE", "1")
	_, err := Load()
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	t.Setenv("FIT_INCLUDE_MAX_DEGREE", "true")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Fit.MaxDegree)
}
