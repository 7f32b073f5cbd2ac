package models

// ShotEvent holds one shot attempt from the match shot feed.
// X and Y are pitch coordinates normalized to [0, 1], X running toward the
// opponent goal.
type ShotEvent struct {
	Minute     int     `json:"minute"`
	Player     string  `json:"player"`
	AssistedBy string  `json:"player_assisted"`
	ShotType   string  `json:"shot_type"`
	Situation  string  `json:"situation"`
	Result     string  `json:"result"`
	XG         float64 `json:"xG"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}
