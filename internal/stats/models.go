package stats

// Distribution summarizes a player's weekly scoring
type Distribution struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// GameLog is a player's scored weeks for one season
type GameLog struct {
	Player       string       `json:"player"`
	Code         string       `json:"code"`
	Season       string       `json:"season"`
	Points       []float64    `json:"points"`
	Distribution Distribution `json:"distribution"`
}

// FetchError represents a failure retrieving a player's game log
type FetchError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	Player     string `json:"player,omitempty"`
}

func (e *FetchError) Error() string {
	return e.Message
}
