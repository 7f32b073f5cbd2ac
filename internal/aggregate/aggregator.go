package aggregate

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	applogger "github.com/yourusername/pitch-prophet/internal/logger"
	"github.com/yourusername/pitch-prophet/internal/metrics"
	"github.com/yourusername/pitch-prophet/internal/models"
	"github.com/yourusername/pitch-prophet/internal/provider"
	"github.com/yourusername/pitch-prophet/internal/ranking"
	"github.com/yourusername/pitch-prophet/internal/window"
)

// Aggregation step names used in error attribution and logs
const (
	StepSeasonTable      = "season_table"
	StepTeamHistory      = "team_history"
	StepNearestMatch     = "nearest_match"
	StepNearestHomeMatch = "nearest_home_match"
	StepPastMatch        = "past_match"
	StepLineup           = "lineup"
)

// Config tunes the aggregation pipeline
type Config struct {
	FetchTimeout         time.Duration
	MaxConcurrentFetches int
}

// Aggregator owns FixtureDataset construction. One Aggregate call builds one
// dataset; nothing is shared across concurrent fixture requests.
type Aggregator struct {
	provider      provider.StatsProvider
	normalizer    *Normalizer
	analysisLog   *applogger.AnalysisLogger
	fetchTimeout  time.Duration
	maxConcurrent int
}

// NewAggregator creates an aggregator over the given provider
func NewAggregator(p provider.StatsProvider, cfg Config, logger *logrus.Logger) *Aggregator {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.MaxConcurrentFetches <= 0 {
		cfg.MaxConcurrentFetches = 4
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Aggregator{
		provider:      p,
		normalizer:    NewNormalizer(p, cfg.FetchTimeout),
		analysisLog:   applogger.NewAnalysisLogger(logger),
		fetchTimeout:  cfg.FetchTimeout,
		maxConcurrent: cfg.MaxConcurrentFetches,
	}
}

// Aggregate builds the unified dataset for one fixture request. The season
// table is mandatory; the three historical lenses are independent and each
// failure is attributed to its step. The request must already be validated.
func (a *Aggregator) Aggregate(ctx context.Context, req *models.FixtureRequest) (*models.FixtureDataset, error) {
	start := time.Now()
	defer func() {
		metrics.AggregationDuration.Observe(time.Since(start).Seconds())
	}()

	al := a.analysisLog.ForRequest(req.ID.String())
	log := al.WithFields(logrus.Fields{
		"home": req.HomeTeam,
		"away": req.AwayTeam,
		"date": req.Date,
	})
	ref := req.ParsedDate()

	// Step 1: season table bounded to dates before the fixture, both teams ranked
	allLeague, teamCount, err := a.rankSeason(ctx, req, ref)
	if err != nil {
		return nil, err
	}
	log.Info("Season table ranked")

	dataset := &models.FixtureDataset{
		AllLeague:    allLeague,
		TeamCount:    teamCount,
		Lineup:       req.Lineup,
		NearestMatch: make(map[models.Side][]models.MatchBundle, 2),
	}

	// Step 2: recent form per team
	histories := make(map[models.Side][]models.MatchSummary, 2)
	for side, team := range map[models.Side]string{models.SideHome: req.HomeTeam, models.SideAway: req.AwayTeam} {
		history, err := a.fetchHistory(ctx, team, req.Season)
		if err != nil {
			return nil, err
		}
		histories[side] = history

		selected := window.Select(history, ref, req.Limit, window.Any()).Collect()
		bundles, err := a.normalizeAll(ctx, selected, StepNearestMatch, team)
		if err != nil {
			return nil, err
		}
		dataset.NearestMatch[side] = bundles
	}
	log.Info("Recent form collected")

	homeHistory := histories[models.SideHome]

	// Step 3: home team's recent home performances
	homeSelected := window.Select(homeHistory, ref, req.Limit, window.HomeOnly(req.HomeTeam)).Collect()
	dataset.NearestHomeMatch, err = a.normalizeAll(ctx, homeSelected, StepNearestHomeMatch, req.HomeTeam)
	if err != nil {
		return nil, err
	}
	log.Info("Home form collected")

	// Step 4: head-to-head history
	pastSelected := window.Select(homeHistory, ref, req.Limit, window.HeadToHead(req.HomeTeam, req.AwayTeam)).Collect()
	dataset.PastMatch, err = a.normalizeAll(ctx, pastSelected, StepPastMatch, req.HomeTeam)
	if err != nil {
		return nil, err
	}
	log.Info("Head-to-head history collected")

	// Step 5: lineup lookup for the exact fixture; absence is not an error
	if dataset.Lineup.IsEmpty() {
		dataset.Lineup = a.findLineup(ctx, homeHistory, req, ref, log)
	}

	normalized := len(dataset.NearestMatch[models.SideHome]) + len(dataset.NearestMatch[models.SideAway]) +
		len(dataset.NearestHomeMatch) + len(dataset.PastMatch)
	al.LogAggregation(normalized, !dataset.Lineup.IsEmpty(), time.Since(start))
	return dataset, nil
}

// rankSeason fetches the bounded season table and ranks both teams.
// Any failure here aborts the whole aggregation.
func (a *Aggregator) rankSeason(ctx context.Context, req *models.FixtureRequest, ref time.Time) (map[models.Side]models.TeamRankedStats, int, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
	defer cancel()

	// The table must only reflect matches played before the fixture date
	endDate := ref.AddDate(0, 0, -1)
	table, err := a.provider.GetLeagueTable(fetchCtx, req.League, req.Season, time.Time{}, endDate)
	if err != nil {
		return nil, 0, &models.UpstreamDataError{Step: StepSeasonTable, Err: err}
	}

	ranked, err := ranking.RankBoth(table, req.HomeTeam, req.AwayTeam)
	if err != nil {
		return nil, 0, err
	}
	return ranked, table.TeamCount(), nil
}

// fetchHistory pulls one team's full season history
func (a *Aggregator) fetchHistory(ctx context.Context, team, season string) ([]models.MatchSummary, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
	defer cancel()

	history, err := a.provider.GetTeamMatchHistory(fetchCtx, team, season)
	if err != nil {
		return nil, &models.UpstreamDataError{Step: StepTeamHistory, Team: team, Err: err}
	}
	return history, nil
}

// normalizeAll normalizes the selected matches concurrently under a small
// fixed pool, gathering results by selection index so the most-recent-first
// order survives arbitrary completion order. The first failure aborts the
// list's construction.
func (a *Aggregator) normalizeAll(ctx context.Context, selected []models.MatchSummary, step, team string) ([]models.MatchBundle, error) {
	bundles := make([]models.MatchBundle, len(selected))
	errs := make([]error, len(selected))

	sem := make(chan struct{}, a.maxConcurrent)
	var wg sync.WaitGroup
	for i, m := range selected {
		wg.Add(1)
		go func(i int, m models.MatchSummary) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			bundle, err := a.normalizer.Normalize(ctx, m.ID)
			if err != nil {
				errs[i] = err
				return
			}
			bundles[i] = *bundle
		}(i, m)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, &models.UpstreamDataError{Step: step, Team: team, MatchID: selected[i].ID, Err: err}
		}
	}
	return bundles, nil
}

// findLineup scans the home team's history for the exact fixture and fetches
// its lineup. A missing fixture or a failed fetch leaves the lineup empty.
func (a *Aggregator) findLineup(ctx context.Context, history []models.MatchSummary, req *models.FixtureRequest, ref time.Time, log *logrus.Entry) models.Lineup {
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		if !sameDay(m.Date, ref) || m.HomeTeam != req.HomeTeam || m.AwayTeam != req.AwayTeam {
			continue
		}

		fetchCtx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
		lineup, err := a.provider.GetLineup(fetchCtx, m.ID)
		cancel()
		if err != nil {
			log.WithError(err).WithField("match_id", m.ID).Warn("Lineup fetch failed, continuing without lineup")
			return models.Lineup{}
		}
		log.WithField("match_id", m.ID).Info("Lineup resolved from fixture history")
		return lineup
	}
	return models.Lineup{}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
