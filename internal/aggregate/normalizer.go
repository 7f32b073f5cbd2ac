// Package aggregate builds the unified per-fixture dataset from the
// statistics provider: season-table ranks plus three windows of normalized
// historical match bundles.
package aggregate

import (
	"context"
	"sync"
	"time"

	"github.com/yourusername/pitch-prophet/internal/models"
	"github.com/yourusername/pitch-prophet/internal/provider"
)

// Normalizer merges match-level info, full-roster statistics and shot events
// for one match into a single MatchBundle. The merge is all-or-nothing: if
// any of the three sub-fetches fails or returns a malformed shape, the whole
// normalization fails.
type Normalizer struct {
	provider     provider.StatsProvider
	fetchTimeout time.Duration
}

// NewNormalizer creates a normalizer with the given per-fetch timeout
func NewNormalizer(p provider.StatsProvider, fetchTimeout time.Duration) *Normalizer {
	return &Normalizer{
		provider:     p,
		fetchTimeout: fetchTimeout,
	}
}

// Normalize fetches the three parts of one match concurrently and merges them
func (n *Normalizer) Normalize(ctx context.Context, matchID string) (*models.MatchBundle, error) {
	var (
		wg     sync.WaitGroup
		info   *models.MatchInfo
		roster map[models.Side][]models.PlayerStat
		shots  map[models.Side][]models.ShotEvent
		errs   [3]error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		info, errs[0] = fetchWithTimeout(ctx, n.fetchTimeout, func(ctx context.Context) (*models.MatchInfo, error) {
			return n.provider.GetMatchInfo(ctx, matchID)
		})
	}()
	go func() {
		defer wg.Done()
		roster, errs[1] = fetchWithTimeout(ctx, n.fetchTimeout, func(ctx context.Context) (map[models.Side][]models.PlayerStat, error) {
			return n.provider.GetRosterData(ctx, matchID)
		})
	}()
	go func() {
		defer wg.Done()
		shots, errs[2] = fetchWithTimeout(ctx, n.fetchTimeout, func(ctx context.Context) (map[models.Side][]models.ShotEvent, error) {
			return n.provider.GetShotData(ctx, matchID)
		})
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, &models.UpstreamDataError{Step: "normalize_match", MatchID: matchID, Err: err}
		}
	}

	if err := models.ValidateUpstream(info); err != nil {
		return nil, &models.UpstreamDataError{Step: "normalize_match", MatchID: matchID, Err: err}
	}

	return &models.MatchBundle{
		Info:   *info,
		Roster: roster,
		Shots:  shots,
	}, nil
}

// fetchWithTimeout runs one upstream fetch under the mandatory per-fetch
// deadline
func fetchWithTimeout[T any](ctx context.Context, timeout time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fetch(fetchCtx)
}
