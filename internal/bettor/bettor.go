// Package bettor orchestrates one fixture analysis end to end: request
// validation, dataset aggregation, prompt composition and the final
// recommendation call.
package bettor

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-prophet/internal/aggregate"
	"github.com/yourusername/pitch-prophet/internal/llm"
	applogger "github.com/yourusername/pitch-prophet/internal/logger"
	"github.com/yourusername/pitch-prophet/internal/metrics"
	"github.com/yourusername/pitch-prophet/internal/models"
	"github.com/yourusername/pitch-prophet/internal/prompt"
	"github.com/yourusername/pitch-prophet/internal/seasonfile"
)

// analystSystemPrompt frames the final recommendation call
const analystSystemPrompt = `You are a highly analytical sports bettor with access to expert insights, advanced statistical data, and betting probabilities.
Your goal is to critically evaluate the provided betting opportunities, identify the most profitable and logical bet(s), and determine how much money to stake based on risk management principles.`

// Bettor ties the aggregation pipeline to the prompt composer and the
// analyst model
type Bettor struct {
	aggregator  *aggregate.Aggregator
	composer    *prompt.Composer
	analyst     llm.Summarizer
	records     *seasonfile.Loader
	analysisLog *applogger.AnalysisLogger
	temperature float64
}

// Option tunes a Bettor
type Option func(*Bettor)

// WithAnalystTemperature sets the sampling temperature for the final
// recommendation call
func WithAnalystTemperature(t float64) Option {
	return func(b *Bettor) { b.temperature = t }
}

// WithSeasonRecords enables the bookmaker-odds lookup against downloaded
// season files
func WithSeasonRecords(loader *seasonfile.Loader) Option {
	return func(b *Bettor) { b.records = loader }
}

// New creates a Bettor. The analyst receives the fully composed prompt; the
// composer's summarizer handles the per-match narratives.
func New(aggregator *aggregate.Aggregator, composer *prompt.Composer, analyst llm.Summarizer, logger *logrus.Logger, opts ...Option) *Bettor {
	if logger == nil {
		logger = logrus.New()
	}
	b := &Bettor{
		aggregator:  aggregator,
		composer:    composer,
		analyst:     analyst,
		analysisLog: applogger.NewAnalysisLogger(logger),
		temperature: 0.5,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ComposePrompt validates the request, aggregates the fixture dataset and
// renders the analysis prompt without invoking the final analyst call
func (b *Bettor) ComposePrompt(ctx context.Context, req *models.FixtureRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	metrics.FixtureRequestsTotal.Inc()

	b.analysisLog.ForRequest(req.ID.String()).
		LogFixtureRequest(req.HomeTeam, req.AwayTeam, req.League, req.Season, req.Limit)

	dataset, err := b.aggregator.Aggregate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("aggregating fixture data: %w", err)
	}
	dataset.Bookmaker = b.lookupOdds(req)

	composed, err := b.composer.Compose(ctx, dataset, req)
	if err != nil {
		return "", fmt.Errorf("composing prompt: %w", err)
	}
	return composed, nil
}

// lookupOdds resolves the fixture's 1X2 odds from the downloaded season
// files. A missing file or an unlisted fixture is normal and yields nil.
func (b *Bettor) lookupOdds(req *models.FixtureRequest) *models.BookmakerRecord {
	if b.records == nil {
		return nil
	}
	rec, found, err := b.records.FindMatch(req.Season, req.League, req.ParsedDate(), req.HomeTeam, req.AwayTeam)
	if err != nil || !found {
		return nil
	}
	return &models.BookmakerRecord{
		HomeWin: rec.OddsHome,
		Draw:    rec.OddsDraw,
		AwayWin: rec.OddsAway,
	}
}

// AnalyzeBet runs the full pipeline and returns the analyst model's betting
// recommendation
func (b *Bettor) AnalyzeBet(ctx context.Context, req *models.FixtureRequest) (string, error) {
	composed, err := b.ComposePrompt(ctx, req)
	if err != nil {
		return "", err
	}

	recommendation, err := b.analyst.Summarize(ctx, analystSystemPrompt, composed, b.temperature, 0)
	if err != nil {
		return "", fmt.Errorf("requesting betting recommendation: %w", err)
	}
	if strings.TrimSpace(recommendation) == "" {
		return "", &llm.ServiceUnavailableError{Provider: "analyst", Err: fmt.Errorf("empty recommendation")}
	}
	return recommendation, nil
}
