package models

import "time"

// Side identifies one of the two sides of a fixture
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Sides lists the two side tags in rendering order
var Sides = []Side{SideHome, SideAway}

// MatchSummary is the lightweight per-match entry returned by a team's
// season history, used for window selection before full normalization
type MatchSummary struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"datetime"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
}

// Involves reports whether the named team played on either side
func (m MatchSummary) Involves(team string) bool {
	return m.HomeTeam == team || m.AwayTeam == team
}

// IsPairing reports whether the match was contested exactly between the two
// named teams, in either home/away order
func (m MatchSummary) IsPairing(a, b string) bool {
	return (m.HomeTeam == a && m.AwayTeam == b) || (m.HomeTeam == b && m.AwayTeam == a)
}

// SideStats holds one side's aggregate numbers for a single match
type SideStats struct {
	Goals         int     `json:"goals"`
	XG            float64 `json:"xg"`
	Shots         int     `json:"shots"`
	ShotsOnTarget int     `json:"shots_on_target"`
	Deep          int     `json:"deep"`
	PPDA          float64 `json:"ppda"`
}

// MatchInfo holds the match-level scalar fields for one played match
type MatchInfo struct {
	ID          string    `json:"id" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
	League      string    `json:"league"`
	Season      string    `json:"season"`
	HomeTeam    string    `json:"home_team" validate:"required"`
	AwayTeam    string    `json:"away_team" validate:"required"`
	Home        SideStats `json:"home"`
	Away        SideStats `json:"away"`
	HomeWinProb float64   `json:"home_win_prob" validate:"gte=0,lte=1"`
	DrawProb    float64   `json:"draw_prob" validate:"gte=0,lte=1"`
	AwayWinProb float64   `json:"away_win_prob" validate:"gte=0,lte=1"`
}

// StatsFor returns the aggregate numbers for the given side
func (m *MatchInfo) StatsFor(side Side) SideStats {
	if side == SideAway {
		return m.Away
	}
	return m.Home
}

// SideOf returns which side the named team played on, or false if it did not play
func (m *MatchInfo) SideOf(team string) (Side, bool) {
	switch team {
	case m.HomeTeam:
		return SideHome, true
	case m.AwayTeam:
		return SideAway, true
	}
	return "", false
}

// MatchBundle is the normalized per-match record combining scoreline, roster
// and shot data. Roster and Shots are always keyed by the same two side tags
// used in Info.
type MatchBundle struct {
	Info   MatchInfo             `json:"match_info"`
	Roster map[Side][]PlayerStat `json:"roster_info"`
	Shots  map[Side][]ShotEvent  `json:"shot_info"`
}
