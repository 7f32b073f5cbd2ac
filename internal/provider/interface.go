// Package provider defines the statistics-provider contract and its HTTP and
// cached implementations.
package provider

import (
	"context"
	"time"

	"github.com/yourusername/pitch-prophet/internal/models"
)

// StatsProvider is the external statistics collaborator. Implementations
// fetch league-, team- and match-level records; the aggregation pipeline
// depends only on this interface so tests can substitute a stub.
type StatsProvider interface {
	// GetLeagueTable retrieves per-team season metrics for the league,
	// optionally bounded to matches played inside [startDate, endDate].
	// Zero times mean unbounded.
	GetLeagueTable(ctx context.Context, league, season string, startDate, endDate time.Time) (*models.SeasonTable, error)

	// GetTeamMatchHistory retrieves the team's full season match list,
	// oldest first.
	GetTeamMatchHistory(ctx context.Context, team, season string) ([]models.MatchSummary, error)

	// GetMatchInfo retrieves match-level score, xG, probability, shot,
	// deep-completion and PPDA fields for one match.
	GetMatchInfo(ctx context.Context, matchID string) (*models.MatchInfo, error)

	// GetRosterData retrieves full-roster player statistics keyed by side.
	GetRosterData(ctx context.Context, matchID string) (map[models.Side][]models.PlayerStat, error)

	// GetShotData retrieves the shot event lists keyed by side.
	GetShotData(ctx context.Context, matchID string) (map[models.Side][]models.ShotEvent, error)

	// GetLineup retrieves the starting lineup for one match.
	GetLineup(ctx context.Context, matchID string) (models.Lineup, error)
}
