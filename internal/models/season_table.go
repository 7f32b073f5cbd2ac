package models

// TeamRow represents one team's season-long metric values in a league table
type TeamRow struct {
	Team   string             `json:"team" validate:"required"`
	Values map[string]float64 `json:"values" validate:"required"`
}

// SeasonTable represents the per-team season metrics for one league and season.
// Invariant: exactly one row per team name and an identical metric set across rows.
type SeasonTable struct {
	League  string    `json:"league"`
	Season  string    `json:"season"`
	Metrics []string  `json:"metrics" validate:"required,min=1"`
	Rows    []TeamRow `json:"rows" validate:"required,min=1,dive"`
}

// TeamCount returns the number of teams in the table
func (t *SeasonTable) TeamCount() int {
	return len(t.Rows)
}

// Row returns the row for the named team, if present
func (t *SeasonTable) Row(team string) (TeamRow, bool) {
	for _, row := range t.Rows {
		if row.Team == team {
			return row, true
		}
	}
	return TeamRow{}, false
}

// RankedMetric holds a single metric's value and league rank for one team
type RankedMetric struct {
	Value float64 `json:"value"`
	Rank  int     `json:"rank"`
}

// TeamRankedStats maps metric name to the team's value and rank for that metric.
// Derived from a SeasonTable and read-only once built.
type TeamRankedStats map[string]RankedMetric
