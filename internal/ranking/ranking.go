// Package ranking computes per-metric league ranks from a season table.
package ranking

import (
	"sort"

	"github.com/yourusername/pitch-prophet/internal/models"
)

// Rank computes the named team's value and league rank for every metric in
// the table. Teams are ordered descending by metric value; ties are broken
// alphabetically by team name so ranks are deterministic. The table is not
// mutated.
func Rank(table *models.SeasonTable, team string) (models.TeamRankedStats, error) {
	if _, ok := table.Row(team); !ok {
		return nil, &models.MissingTeamError{
			Team:   team,
			League: table.League,
			Season: table.Season,
		}
	}

	stats := make(models.TeamRankedStats, len(table.Metrics))
	order := make([]models.TeamRow, len(table.Rows))

	for _, metric := range table.Metrics {
		copy(order, table.Rows)
		sort.SliceStable(order, func(i, j int) bool {
			vi, vj := order[i].Values[metric], order[j].Values[metric]
			if vi != vj {
				return vi > vj
			}
			return order[i].Team < order[j].Team
		})

		for pos, row := range order {
			if row.Team == team {
				stats[metric] = models.RankedMetric{
					Value: row.Values[metric],
					Rank:  pos + 1,
				}
				break
			}
		}
	}

	return stats, nil
}

// RankBoth ranks the two sides of a fixture against the same table
func RankBoth(table *models.SeasonTable, home, away string) (map[models.Side]models.TeamRankedStats, error) {
	homeStats, err := Rank(table, home)
	if err != nil {
		return nil, err
	}
	awayStats, err := Rank(table, away)
	if err != nil {
		return nil, err
	}
	return map[models.Side]models.TeamRankedStats{
		models.SideHome: homeStats,
		models.SideAway: awayStats,
	}, nil
}
