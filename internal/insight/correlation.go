package insight

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"trendfit/domain/collection"
	"trendfit/domain/curve"
	"trendfit/ports"
)

// correlation relates two statistics across the games that have both and
// fits a trend of y against x over a fixed domain.
type correlation struct {
	typ   string
	y     axis
	x     axis
	trend *[2]float64 // nil: no trend line
}

func domain(min, max float64) *[2]float64 {
	return &[2]float64{min, max}
}

var correlations = []correlation{
	{typ: "ratingAvgRatingCorr", y: userRating, x: avgRating},
	{typ: "ratingWeightCorr", y: userRating, x: weight, trend: domain(1, 4.5)},
	{typ: "ratingRecommendedPlayersCorr", y: userRating, x: recommendedPlayers, trend: domain(1, 7)},
	{typ: "ratingMaxPlayersCorr", y: userRating, x: maxPlayers, trend: domain(1, 7)},
	{typ: "ratingPlayTimeCorr", y: userRating, x: playTime, trend: domain(10, 300)},
	{typ: "ratingPlaysCorr", y: userRating, x: nPlays, trend: domain(0, 100)},
	{typ: "ratingTimePlayedCorr", y: userRating, x: timePlayed, trend: domain(0, 100)},
	{typ: "ratingPriceCorr", y: userRating, x: price, trend: domain(10, 300)},
	{typ: "ratingYearCorr", y: userRating, x: yearPublished, trend: domain(1980, 2020)},
	{typ: "playsWeightCorr", y: nPlays, x: weight, trend: domain(1, 4.5)},
	{typ: "playsPlayTimeCorr", y: nPlays, x: playTime, trend: domain(10, 300)},
	{typ: "playsRecommendedPlayersCorr", y: nPlays, x: recommendedPlayers, trend: domain(1, 7)},
	{typ: "playsMaxPlayersCorr", y: nPlays, x: maxPlayers, trend: domain(1, 7)},
	{typ: "playsPriceCorr", y: nPlays, x: price, trend: domain(10, 300)},
}

// series collects the paired values and item listing of games that have
// both statistics, in collection order
func (c correlation) series(coll *collection.Collection) (xs, ys []float64, items []map[string]any) {
	for i := range coll.Items {
		b := &coll.Items[i]
		yv, ok := c.y.value(b)
		if !ok {
			continue
		}
		xv, ok := c.x.value(b)
		if !ok {
			continue
		}
		entry := item(b)
		entry[c.y.key] = yv
		entry[c.x.key] = xv
		items = append(items, entry)
		xs = append(xs, xv)
		ys = append(ys, yv)
	}
	return xs, ys, items
}

func (cat *Catalogue) correlation(c correlation) generator {
	return func(coll *collection.Collection) collection.Insight {
		xs, ys, items := c.series(coll)
		if len(items) < cat.opts.MinItems {
			return collection.Insight{Type: c.typ, Status: fmt.Sprintf("Less than %d boardgames to consider.", cat.opts.MinItems), Data: map[string]any{}}
		}

		pearson, err := stats.Correlation(ys, xs)
		if err != nil {
			return failed(c.typ, err)
		}
		spearman, err := Spearman(ys, xs)
		if err != nil {
			return failed(c.typ, err)
		}

		data := map[string]any{
			"pearsonr":  pearson,
			"spearmanr": spearman,
			"items":     items,
		}

		if c.trend != nil {
			trend, err := cat.trend.BestCurveFit(ports.TrendRequest{
				X:      xs,
				Y:      ys,
				Domain: curve.NewDomain(c.trend[0], c.trend[1]),
			})
			if err != nil {
				cat.logger.Warn("[Insights] %s: trend omitted: %v", c.typ, err)
			} else {
				data["trend"] = trend
			}
		}

		return collection.Insight{Type: c.typ, Status: collection.StatusOK, Data: data}
	}
}

// Spearman is the Pearson correlation of average ranks
func Spearman(a, b []float64) (float64, error) {
	return stats.Correlation(ranks(a), ranks(b))
}
