package insight

import (
	"github.com/montanaflynn/stats"

	"trendfit/domain/collection"
)

type reducer func(stats.Float64Data) (float64, error)

// summary reduces one statistic over the games that have it
type summary struct {
	typ    string
	key    string
	axis   axis
	reduce reducer
	places int
	empty  string
	played bool // needs at least one logged play
}

var summaries = []summary{
	{typ: "avgRating", key: "avgUserRating", axis: userRating, reduce: stats.Mean, places: 2, empty: "No rated items."},
	{typ: "avgAvgRating", key: "avgAvgRating", axis: avgRating, reduce: stats.Mean, places: 2, empty: "No rated items."},
	{typ: "avgWeight", key: "avgWeight", axis: weight, reduce: stats.Mean, places: 2, empty: "No weights."},
	{typ: "avgPlays", key: "avgPlays", axis: allPlays, reduce: stats.Mean, places: 2, empty: "No recorded plays.", played: true},
	{typ: "avgYear", key: "avgYear", axis: yearPublished, reduce: stats.Mean, places: 0, empty: "No items with publication year."},
	{typ: "medianPrice", key: "medianPrice", axis: price, reduce: stats.Median, places: 2, empty: "No items with price registered."},
	{typ: "avgMaxPlayers", key: "avgMaxPlayers", axis: maxPlayers, reduce: stats.Mean, places: 2, empty: "No items with max players registered."},
	{typ: "medianMaxPlayers", key: "medianMaxPlayers", axis: maxPlayers, reduce: stats.Median, places: 2, empty: "No items with max players registered."},
}

func (cat *Catalogue) summary(s summary) generator {
	return func(coll *collection.Collection) collection.Insight {
		var values []float64
		var items []map[string]any
		for i := range coll.Items {
			b := &coll.Items[i]
			v, ok := s.axis.value(b)
			if !ok {
				continue
			}
			entry := item(b)
			entry[s.axis.key] = v
			items = append(items, entry)
			values = append(values, v)
		}

		if len(values) == 0 || (s.played && !anyPlays(coll)) {
			return collection.Insight{Type: s.typ, Status: s.empty, Data: map[string]any{}}
		}

		v, err := s.reduce(values)
		if err != nil {
			return failed(s.typ, err)
		}
		v, err = stats.Round(v, s.places)
		if err != nil {
			return failed(s.typ, err)
		}

		return collection.Insight{
			Type:   s.typ,
			Status: collection.StatusOK,
			Data:   map[string]any{s.key: v, "items": items},
		}
	}
}

func anyPlays(coll *collection.Collection) bool {
	for _, b := range coll.Items {
		if b.NumPlays > 0 {
			return true
		}
	}
	return false
}
