package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"trendfit/adapters/excel"
	"trendfit/app"
	"trendfit/domain/collection"
	"trendfit/domain/curve"
	"trendfit/internal"
	"trendfit/internal/config"
	"trendfit/internal/curvefit"
	"trendfit/internal/insight"
	"trendfit/internal/metrics"
)

// seriesFlags selects the input series and fit domain shared by fit and
// bestfit
type seriesFlags struct {
	x, y       string
	file       string
	xCol, yCol string
	sheet      string
	min, max   string
}

func (f *seriesFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.x, "x", "", "Comma-separated x values")
	cmd.Flags().StringVar(&f.y, "y", "", "Comma-separated y values")
	cmd.Flags().StringVar(&f.file, "file", "", "CSV or XLSX file to read the series from")
	cmd.Flags().StringVar(&f.xCol, "x-col", "x", "Column holding x when reading --file")
	cmd.Flags().StringVar(&f.yCol, "y-col", "y", "Column holding y when reading --file")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "XLSX sheet (default: first sheet)")
	cmd.Flags().StringVar(&f.min, "min", "", "Lower bound of the fit domain (default: smallest x)")
	cmd.Flags().StringVar(&f.max, "max", "", "Upper bound of the fit domain (default: largest x)")
}

func (f *seriesFlags) series(logger *internal.Logger) ([]float64, []float64, error) {
	if f.file != "" {
		table, err := excel.NewDataReader(f.file, f.sheet, logger).ReadTable()
		if err != nil {
			return nil, nil, err
		}
		return table.Pairs(f.xCol, f.yCol)
	}
	if f.x == "" || f.y == "" {
		return nil, nil, fmt.Errorf("either --file or both --x and --y are required")
	}
	x, err := parseFloats(f.x)
	if err != nil {
		return nil, nil, fmt.Errorf("--x: %w", err)
	}
	y, err := parseFloats(f.y)
	if err != nil {
		return nil, nil, fmt.Errorf("--y: %w", err)
	}
	return x, y, nil
}

func (f *seriesFlags) domain() (curve.Domain, error) {
	var d curve.Domain
	if f.min != "" {
		v, err := strconv.ParseFloat(f.min, 64)
		if err != nil {
			return d, fmt.Errorf("--min: %w", err)
		}
		d.Min = &v
	}
	if f.max != "" {
		v, err := strconv.ParseFloat(f.max, 64)
		if err != nil {
			return d, fmt.Errorf("--max: %w", err)
		}
		d.Max = &v
	}
	return d, nil
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// setup loads configuration and builds the trend service. Logs go to
// stderr so stdout stays valid JSON.
func setup(verbose bool) (*config.Config, *app.TrendService, *internal.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	level := internal.ParseLogLevel(cfg.Log.Level)
	if !verbose && level > internal.LogLevelWarn {
		level = internal.LogLevelWarn
	}
	logger := internal.NewLoggerWithWriter(level, os.Stderr)

	svc, err := app.NewTrendServiceFromConfig(cfg, metrics.New(), logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, svc, logger, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newFitCmd() *cobra.Command {
	var flags seriesFlags
	var mask string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit the polynomial selected by a mask",
		Long: `Fit a polynomial of degree at most 4 and print the sampled curve with its
95% confidence band as JSON.

The mask lists five flags for the constant, x, x², x³ and x⁴ terms;
1 pins a coefficient at zero, 0 leaves it free.

Example: trendfit-cli fit --x 0,1,2,3,4 --y 1,3,5,7,9 --mask 0,0,1,1,1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, logger, err := setup(verbose)
			if err != nil {
				return err
			}
			x, y, err := flags.series(logger)
			if err != nil {
				return err
			}
			domain, err := flags.domain()
			if err != nil {
				return err
			}

			req := curvefit.FitRequest{X: x, Y: y, Domain: domain}
			if mask != "" {
				m, err := curve.ParseMask(mask)
				if err != nil {
					return err
				}
				req.Mask = &m
			}

			sampled, err := svc.CurveFit(req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), sampled)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&mask, "mask", "", "Coefficient mask, e.g. 0,0,1,1,1 (default: a line)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log at the configured LOG_LEVEL instead of warnings only")
	return cmd
}

func newBestFitCmd() *cobra.Command {
	var flags seriesFlags
	var maxDegree int
	var verbose bool

	cmd := &cobra.Command{
		Use:   "bestfit",
		Short: "Select the polynomial degree and fit",
		Long: `Score candidate degrees by reduced chi-square, refit at the selected degree
and print the sampled curve as JSON. With --verbose the selection and the
score of each candidate are printed too.

Example: trendfit-cli bestfit --file plays.csv --x-col weight --y-col rating --min 1 --max 4.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, logger, err := setup(verbose)
			if err != nil {
				return err
			}
			x, y, err := flags.series(logger)
			if err != nil {
				return err
			}
			domain, err := flags.domain()
			if err != nil {
				return err
			}

			sampled, sel, err := svc.BestCurveFitDetailed(curvefit.BestFitRequest{X: x, Y: y, Domain: domain, MaxDegree: maxDegree})
			if err != nil {
				return err
			}
			if verbose {
				return writeJSON(cmd.OutOrStdout(), struct {
					Selection curvefit.Selection  `json:"selection"`
					Curve     curve.SampledCurve `json:"curve"`
				}{sel, sampled})
			}
			return writeJSON(cmd.OutOrStdout(), sampled)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&maxDegree, "max-degree", 0, "Maximum degree (default: FIT_MAX_DEGREE)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Print the selection and log at the configured LOG_LEVEL")
	return cmd
}

func newInsightsCmd() *cobra.Command {
	var file, sheet string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "insights [type]",
		Short: "Generate collection insights",
		Long: `Generate insights for a board game collection read from JSON, CSV or XLSX.
Type "all" prints every insight that produced data.

Example: trendfit-cli insights ratingWeightCorr --file collection.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, logger, err := setup(verbose)
			if err != nil {
				return err
			}
			coll, err := loadCollection(file, sheet, logger)
			if err != nil {
				return err
			}

			cat := insight.NewCatalogue(svc, insight.Options{MinItems: cfg.Insight.MinItems, Workers: cfg.Insight.Workers}, logger)
			if args[0] == insight.TypeAll {
				all, err := cat.GenerateAll(cmd.Context(), coll)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), all)
			}
			ins, err := cat.Generate(cmd.Context(), coll, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), ins)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Collection file (.json, .csv or .xlsx)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "XLSX sheet (default: first sheet)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log at the configured LOG_LEVEL instead of warnings only")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func loadCollection(path, sheet string, logger *internal.Logger) (*collection.Collection, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var coll collection.Collection
		if err := json.Unmarshal(raw, &coll); err != nil {
			return nil, fmt.Errorf("collection could not be parsed: %w", err)
		}
		return &coll, nil
	}

	table, err := excel.NewDataReader(path, sheet, logger).ReadTable()
	if err != nil {
		return nil, err
	}
	return excel.CollectionFromTable(table)
}
