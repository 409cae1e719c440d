package insight

import (
	"math"

	"trendfit/domain/collection"
)

// axis reads one statistic from a boardgame. ok is false when the item
// has no usable value and must be left out.
type axis struct {
	key   string
	value func(b *collection.Boardgame) (float64, bool)
}

func pointer(key string, field func(b *collection.Boardgame) *float64) axis {
	return axis{key: key, value: func(b *collection.Boardgame) (float64, bool) {
		v := field(b)
		if v == nil {
			return 0, false
		}
		return *v, true
	}}
}

var (
	userRating         = pointer("userRating", func(b *collection.Boardgame) *float64 { return b.UserRating })
	avgRating          = pointer("avgRating", func(b *collection.Boardgame) *float64 { return b.AverageRating })
	weight             = pointer("weight", func(b *collection.Boardgame) *float64 { return b.AverageWeight })
	recommendedPlayers = pointer("recommendedPlayers", func(b *collection.Boardgame) *float64 { return b.RecommendedPlayers })
	maxPlayers         = pointer("maxPlayers", func(b *collection.Boardgame) *float64 { return b.MaxPlayers })
	playTime           = pointer("playTime", func(b *collection.Boardgame) *float64 { return b.PlayTime })
	price              = pointer("price", func(b *collection.Boardgame) *float64 { return b.MedianPrice })
	yearPublished      = pointer("yearPublished", func(b *collection.Boardgame) *float64 { return b.YearPublished })

	// nPlays skips unplayed games
	nPlays = axis{key: "nPlays", value: func(b *collection.Boardgame) (float64, bool) {
		return float64(b.NumPlays), b.NumPlays != 0
	}}

	// timePlayed is hours played, rounded to two places
	timePlayed = axis{key: "timePlayed", value: func(b *collection.Boardgame) (float64, bool) {
		if b.NumPlays == 0 || b.PlayTime == nil || *b.PlayTime == 0 {
			return 0, false
		}
		return math.Round(float64(b.NumPlays)**b.PlayTime/60*100) / 100, true
	}}

	// allPlays keeps unplayed games, for averages over the whole collection
	allPlays = axis{key: "nPlays", value: func(b *collection.Boardgame) (float64, bool) {
		return float64(b.NumPlays), true
	}}
)

// item is the per-game entry listed in insight data
func item(b *collection.Boardgame) map[string]any {
	return map[string]any{
		"id":    b.ID,
		"name":  b.Name,
		"image": b.Image,
	}
}
