package config

import (
	"fmt"
	"os"
	"strconv"

	"trendfit/internal/curvefit"
	"trendfit/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Fit     FitConfig
	Solver  SolverConfig
	Insight InsightConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// FitConfig holds curve fitting and degree selection settings
type FitConfig struct {
	ConfidenceLevel  float64
	MaxPoints        int
	MaxDegree        int
	SelectionRule    string
	IncludeMaxDegree bool
}

// SolverConfig holds Levenberg-Marquardt tolerances
type SolverConfig struct {
	MaxIterations int
	FTol          float64
	XTol          float64
	RCond         float64
}

// InsightConfig holds insight catalogue settings
type InsightConfig struct {
	MinItems int
	Workers  int
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", GinMode: "release"},
		Log:    LogConfig{Level: "INFO"},
		Fit: FitConfig{
			ConfidenceLevel: 0.95,
			MaxPoints:       100,
			MaxDegree:       3,
			SelectionRule:   string(curvefit.RuleMaxReducedChiSquare),
		},
		Solver: SolverConfig{
			MaxIterations: 200,
			FTol:          1e-10,
			XTol:          1e-10,
			RCond:         1e-12,
		},
		Insight: InsightConfig{MinItems: 30, Workers: 4},
	}
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	def := Default()
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", def.Server.Port),
			GinMode: getEnvOrDefault("GIN_MODE", def.Server.GinMode),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", def.Log.Level),
		},
		Fit: FitConfig{
			ConfidenceLevel:  getEnvFloatOrDefault("FIT_CONFIDENCE_LEVEL", def.Fit.ConfidenceLevel),
			MaxPoints:        getEnvIntOrDefault("FIT_MAX_POINTS", def.Fit.MaxPoints),
			MaxDegree:        getEnvIntOrDefault("FIT_MAX_DEGREE", def.Fit.MaxDegree),
			SelectionRule:    getEnvOrDefault("FIT_SELECTION_RULE", def.Fit.SelectionRule),
			IncludeMaxDegree: getEnvBoolOrDefault("FIT_INCLUDE_MAX_DEGREE", def.Fit.IncludeMaxDegree),
		},
		Solver: SolverConfig{
			MaxIterations: getEnvIntOrDefault("FIT_MAX_ITERATIONS", def.Solver.MaxIterations),
			FTol:          getEnvFloatOrDefault("FIT_FTOL", def.Solver.FTol),
			XTol:          getEnvFloatOrDefault("FIT_XTOL", def.Solver.XTol),
			RCond:         getEnvFloatOrDefault("FIT_RCOND", def.Solver.RCond),
		},
		Insight: InsightConfig{
			MinItems: getEnvIntOrDefault("INSIGHT_MIN_ITEMS", def.Insight.MinItems),
			Workers:  getEnvIntOrDefault("INSIGHT_WORKERS", def.Insight.Workers),
		},
	}

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Validate checks value ranges
func Validate(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if config.Fit.ConfidenceLevel <= 0 || config.Fit.ConfidenceLevel >= 1 {
		return errors.ConfigInvalid(fmt.Sprintf("FIT_CONFIDENCE_LEVEL must be in (0, 1), got %g", config.Fit.ConfidenceLevel))
	}
	if config.Fit.MaxPoints < 1 {
		return errors.ConfigInvalid("FIT_MAX_POINTS must be positive")
	}
	if config.Fit.MaxDegree < 1 || config.Fit.MaxDegree > 4 {
		return errors.ConfigInvalid(fmt.Sprintf("FIT_MAX_DEGREE must be in [1, 4], got %d", config.Fit.MaxDegree))
	}
	if config.Fit.MaxDegree == 1 && !config.Fit.IncludeMaxDegree {
		return errors.ConfigInvalid("FIT_MAX_DEGREE 1 leaves no candidate degrees unless FIT_INCLUDE_MAX_DEGREE is set")
	}
	if _, err := curvefit.ParseSelectionRule(config.Fit.SelectionRule); err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("unknown FIT_SELECTION_RULE %q", config.Fit.SelectionRule))
	}
	if config.Solver.MaxIterations < 1 {
		return errors.ConfigInvalid("FIT_MAX_ITERATIONS must be positive")
	}
	if config.Solver.FTol < 0 || config.Solver.XTol < 0 || config.Solver.RCond <= 0 {
		return errors.ConfigInvalid("solver tolerances must be non-negative and FIT_RCOND positive")
	}
	if config.Insight.Workers < 1 {
		return errors.ConfigInvalid("INSIGHT_WORKERS must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
