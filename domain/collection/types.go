package collection

// Boardgame is one item of a user's collection. Nullable statistics are
// pointers; a nil value means the source had no data for it.
type Boardgame struct {
	ID                 int      `json:"id"`
	Name               string   `json:"name"`
	Image              string   `json:"image,omitempty"`
	UserRating         *float64 `json:"userRating"`
	AverageRating      *float64 `json:"averageRating"`
	AverageWeight      *float64 `json:"averageWeight"`
	RecommendedPlayers *float64 `json:"recommendedPlayers"`
	MinPlayers         *float64 `json:"minPlayers"`
	MaxPlayers         *float64 `json:"maxPlayers"`
	PlayTime           *float64 `json:"playTime"`
	NumPlays           int      `json:"numPlays"`
	MedianPrice        *float64 `json:"medianPrice"`
	YearPublished      *float64 `json:"yearPublished"`
}

// Collection is the request body of the insight endpoints
type Collection struct {
	Items      []Boardgame `json:"items"`
	TotalItems int         `json:"totalItems"`
}

// StatusOK marks an insight whose data is usable
const StatusOK = "ok"

// Insight is the result of one insight generator. Data is empty unless
// Status is StatusOK.
type Insight struct {
	Type   string         `json:"type"`
	Status string         `json:"status"`
	Data   map[string]any `json:"data"`
}

// OK reports whether the insight produced data
func (i Insight) OK() bool {
	return i.Status == StatusOK
}

// Float returns a pointer to v, for building items in code and tests
func Float(v float64) *float64 {
	return &v
}
