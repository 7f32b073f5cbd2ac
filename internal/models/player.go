package models

// PlayerStat holds one player's full-match statistics from the roster feed
type PlayerStat struct {
	Name      string  `json:"player"`
	Position  string  `json:"position"`
	Minutes   int     `json:"time"`
	Goals     int     `json:"goals"`
	Shots     int     `json:"shots"`
	XG        float64 `json:"xG"`
	Assists   int     `json:"assists"`
	XA        float64 `json:"xA"`
	KeyPasses int     `json:"key_passes"`
	XGChain   float64 `json:"xGChain"`
}

// HasAttackingContribution reports whether any attacking stat is above zero
func (p PlayerStat) HasAttackingContribution() bool {
	return p.Goals > 0 || p.Shots > 0 || p.XG > 0 ||
		p.Assists > 0 || p.XA > 0 || p.KeyPasses > 0 || p.XGChain > 0
}

// IsRelevant reports whether the player belongs in a rendered summary:
// at least 30 minutes played, or any attacking contribution at all
func (p PlayerStat) IsRelevant() bool {
	return p.Minutes >= 30 || p.HasAttackingContribution()
}

// ImpactScore is the combined xG plus assists measure used to order
// contributors in match narratives
func (p PlayerStat) ImpactScore() float64 {
	return p.XG + float64(p.Assists)
}
