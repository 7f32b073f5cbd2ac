// Package prompt renders a FixtureDataset into the layered natural-language
// briefing consumed by the betting analyst model.
package prompt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-prophet/internal/llm"
	applogger "github.com/yourusername/pitch-prophet/internal/logger"
	"github.com/yourusername/pitch-prophet/internal/models"
)

const noSummaryNote = "(no summary available)"

// Composer turns a FixtureDataset into the full analysis prompt. Rendering is
// a single-pass linear concatenation with no persisted state; the only
// non-deterministic step is the injected narrative summarizer.
type Composer struct {
	summarizer       llm.Summarizer
	analysisLog      *applogger.AnalysisLogger
	temperature      float64
	maxSummaryTokens int
}

// ComposerOption tunes summarizer behaviour
type ComposerOption func(*Composer)

// WithTemperature sets the sampling temperature for per-match summaries
func WithTemperature(t float64) ComposerOption {
	return func(c *Composer) { c.temperature = t }
}

// WithMaxSummaryTokens caps per-match summary length
func WithMaxSummaryTokens(n int) ComposerOption {
	return func(c *Composer) {
		if n > 0 {
			c.maxSummaryTokens = n
		}
	}
}

// NewComposer creates a composer using the given summarizer for per-match prose
func NewComposer(summarizer llm.Summarizer, logger *logrus.Logger, opts ...ComposerOption) *Composer {
	if logger == nil {
		logger = logrus.New()
	}
	c := &Composer{
		summarizer:       summarizer,
		analysisLog:      applogger.NewAnalysisLogger(logger),
		temperature:      0.5,
		maxSummaryTokens: 800,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose renders the complete prompt in fixed section order
func (c *Composer) Compose(ctx context.Context, dataset *models.FixtureDataset, req *models.FixtureRequest) (string, error) {
	al := c.analysisLog.ForRequest(req.ID.String())
	var b strings.Builder

	b.WriteString("Your task is to analyze the provided statistics and identify the **3 best betting opportunities** based on a structured risk-reward analysis.\n\n")

	b.WriteString("---\n")
	b.WriteString(matchContext(dataset, req))
	b.WriteString("\n---\n")
	b.WriteString(seasonStatistics(dataset, req))
	b.WriteString("\n---\n")

	if err := c.historySections(ctx, al, &b, dataset, req); err != nil {
		return "", err
	}

	b.WriteString("\n---\n")
	b.WriteString(analysisFramework())
	b.WriteString("\n")
	b.WriteString(criticalRequirements())
	b.WriteString("\n---\n")
	b.WriteString(responseFormat())

	composed := b.String()
	al.LogPromptComposed(strings.Count(composed, "\n---\n")+1, len(composed))
	return composed, nil
}

// historySections renders the three historical-analysis blocks
func (c *Composer) historySections(ctx context.Context, al *applogger.AnalysisLogger, b *strings.Builder, dataset *models.FixtureDataset, req *models.FixtureRequest) error {
	teams := map[models.Side]string{
		models.SideHome: req.HomeTeam,
		models.SideAway: req.AwayTeam,
	}

	for _, side := range models.Sides {
		fmt.Fprintf(b, "\nAnalyze the nearest matches of the %s team and extract key insights to understand team performance:\n", side)
		for _, bundle := range dataset.NearestMatch[side] {
			focus, ok := bundle.Info.SideOf(teams[side])
			if !ok {
				focus = models.SideHome
			}
			c.renderMatch(ctx, al, b, &bundle, focus, false)
		}
	}

	b.WriteString("\nAnalyze the nearest matches of the home team as home and extract key insights to understand team performance:\n")
	for _, bundle := range dataset.NearestHomeMatch {
		c.renderMatch(ctx, al, b, &bundle, models.SideHome, false)
	}

	b.WriteString("\nAnalyze the matches in the past between home and away and extract key insights to understand team performance:\n")
	for _, bundle := range dataset.PastMatch {
		c.renderMatch(ctx, al, b, &bundle, "", true)
	}

	b.WriteString("\n")
	b.WriteString(historyAnalysisInstructions())
	return nil
}

// renderMatch appends one historical match: the deterministic restatement
// plus the summarized narrative. focus selects which side's roster to break
// down; bothSides breaks down both.
func (c *Composer) renderMatch(ctx context.Context, al *applogger.AnalysisLogger, b *strings.Builder, bundle *models.MatchBundle, focus models.Side, bothSides bool) {
	restatement := matchNarrative(&bundle.Info)

	content := restatement +
		rosterBreakdown(bundle, focus, bothSides) +
		shotNarrative(bundle)

	b.WriteString("\n")
	b.WriteString(restatement)
	b.WriteString("\nMatch report:\n")
	b.WriteString(c.summarizeMatch(ctx, al, bundle.Info.ID, content))
	b.WriteString("\n")
}

// summarizeMatch runs per-match prose through the narrative summarizer.
// A summarizer failure or an empty reply degrades to a fixed note instead of
// aborting the fixture.
func (c *Composer) summarizeMatch(ctx context.Context, al *applogger.AnalysisLogger, matchID, content string) string {
	start := time.Now()
	summary, err := c.summarizer.Summarize(ctx, matchReportSystemPrompt(), content, c.temperature, c.maxSummaryTokens)
	if err != nil {
		al.LogSummarizerDegraded(matchID, err.Error())
		return noSummaryNote
	}
	if strings.TrimSpace(summary) == "" {
		al.LogSummarizerDegraded(matchID, "empty reply")
		return noSummaryNote
	}
	al.LogSummarizerCall(matchID, len(content), len(summary), time.Since(start))
	return summary
}
