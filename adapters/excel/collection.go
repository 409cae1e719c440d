package excel

import (
	"fmt"
	"strconv"

	"trendfit/domain/collection"
	"trendfit/domain/dataset"
	"trendfit/internal/errors"
)

// CollectionFromTable maps a table whose headers use the collection JSON
// names (id, name, userRating, ...) onto boardgames. Missing columns and
// empty cells leave the statistic unset.
func CollectionFromTable(t *dataset.Table) (*collection.Collection, error) {
	coll := &collection.Collection{Items: make([]collection.Boardgame, 0, len(t.Rows))}

	for i, row := range t.Rows {
		line := i + 2
		b := collection.Boardgame{Name: row["name"], Image: row["image"]}

		var err error
		if b.ID, err = optionalInt(row["id"]); err != nil {
			return nil, cellError(line, "id", err)
		}
		if b.NumPlays, err = optionalInt(row["numPlays"]); err != nil {
			return nil, cellError(line, "numPlays", err)
		}

		fields := []struct {
			col string
			dst **float64
		}{
			{"userRating", &b.UserRating},
			{"averageRating", &b.AverageRating},
			{"averageWeight", &b.AverageWeight},
			{"recommendedPlayers", &b.RecommendedPlayers},
			{"minPlayers", &b.MinPlayers},
			{"maxPlayers", &b.MaxPlayers},
			{"playTime", &b.PlayTime},
			{"medianPrice", &b.MedianPrice},
			{"yearPublished", &b.YearPublished},
		}
		for _, f := range fields {
			v, err := dataset.OptionalFloat(row[f.col])
			if err != nil {
				return nil, cellError(line, f.col, err)
			}
			*f.dst = v
		}

		coll.Items = append(coll.Items, b)
	}

	coll.TotalItems = len(coll.Items)
	return coll, nil
}

func optionalInt(cell string) (int, error) {
	v, err := dataset.OptionalFloat(cell)
	if err != nil || v == nil {
		return 0, err
	}
	if *v != float64(int(*v)) {
		return 0, strconv.ErrSyntax
	}
	return int(*v), nil
}

func cellError(line int, col string, err error) error {
	return errors.InvalidInput(fmt.Sprintf("row %d column %q: %v", line, col, err))
}
