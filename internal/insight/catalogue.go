package insight

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"trendfit/domain/collection"
	"trendfit/internal"
	"trendfit/internal/errors"
	"trendfit/ports"
)

// TypeAll requests every insight
const TypeAll = "all"

// Options configures a Catalogue
type Options struct {
	MinItems int // correlation insights need at least this many games
	Workers  int // generators run concurrently by GenerateAll
}

// DefaultOptions returns the catalogue defaults
func DefaultOptions() Options {
	return Options{MinItems: 30, Workers: 4}
}

type generator func(coll *collection.Collection) collection.Insight

// Catalogue is the registry of insight generators
type Catalogue struct {
	trend      ports.TrendFitterPort
	opts       Options
	logger     *internal.Logger
	generators map[string]generator
	types      []string
}

// NewCatalogue registers every insight type. Trend lines are fitted
// through the given port.
func NewCatalogue(trend ports.TrendFitterPort, opts Options, logger *internal.Logger) *Catalogue {
	if logger == nil {
		logger = internal.NopLogger
	}
	if opts.MinItems <= 0 {
		opts.MinItems = DefaultOptions().MinItems
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultOptions().Workers
	}

	c := &Catalogue{
		trend:      trend,
		opts:       opts,
		logger:     logger,
		generators: make(map[string]generator),
	}
	for _, s := range summaries {
		c.register(s.typ, c.summary(s))
	}
	for _, corr := range correlations {
		c.register(corr.typ, c.correlation(corr))
	}
	return c
}

func (c *Catalogue) register(typ string, gen generator) {
	c.generators[typ] = gen
	c.types = append(c.types, typ)
}

// Types lists the registered insight types in registration order
func (c *Catalogue) Types() []string {
	out := make([]string, len(c.types))
	copy(out, c.types)
	return out
}

// Generate runs a single insight generator
func (c *Catalogue) Generate(ctx context.Context, coll *collection.Collection, typ string) (collection.Insight, error) {
	gen, ok := c.generators[typ]
	if !ok {
		return collection.Insight{}, errors.NotFound(fmt.Sprintf("insight type %q", typ))
	}
	if err := ctx.Err(); err != nil {
		return collection.Insight{}, err
	}
	return gen(coll), nil
}

// GenerateAll runs every generator and keeps the insights that produced
// data, keyed by type.
func (c *Catalogue) GenerateAll(ctx context.Context, coll *collection.Collection) (map[string]collection.Insight, error) {
	results := make([]collection.Insight, len(c.types))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for i, typ := range c.types {
		i, gen := i, c.generators[typ]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = gen(coll)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]collection.Insight, len(results))
	for _, ins := range results {
		if ins.OK() {
			out[ins.Type] = ins
		} else {
			c.logger.Debug("[Insights] %s skipped: %s", ins.Type, ins.Status)
		}
	}
	c.logger.Info("[Insights] generated %d of %d insights for %d items", len(out), len(results), len(coll.Items))
	return out, nil
}

// failed reports a generator that could not compute its statistic
func failed(typ string, err error) collection.Insight {
	return collection.Insight{Type: typ, Status: fmt.Sprintf("error: %v", err), Data: map[string]any{}}
}
