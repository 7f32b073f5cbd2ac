// Package logger provides analysis-specific logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AnalysisLogger provides dedicated logging for fixture analysis operations.
type AnalysisLogger struct {
	*logrus.Entry
}

// NewAnalysisLogger creates a new analysis logger.
func NewAnalysisLogger(baseLogger *logrus.Logger) *AnalysisLogger {
	return &AnalysisLogger{
		Entry: baseLogger.WithField("component", "analysis"),
	}
}

// ForRequest returns a logger scoped to one fixture request.
func (al *AnalysisLogger) ForRequest(requestID string) *AnalysisLogger {
	return &AnalysisLogger{
		Entry: al.WithField("request_id", requestID),
	}
}

// LogFixtureRequest logs an incoming fixture analysis request.
func (al *AnalysisLogger) LogFixtureRequest(homeTeam, awayTeam, league, season string, historyLimit int) {
	al.WithFields(logrus.Fields{
		"home_team":     homeTeam,
		"away_team":     awayTeam,
		"league":        league,
		"season":        season,
		"history_limit": historyLimit,
	}).Info("Fixture analysis requested")
}

// LogAggregation logs a completed fixture data aggregation.
func (al *AnalysisLogger) LogAggregation(matchesNormalized int, lineupFound bool, duration time.Duration) {
	al.WithFields(logrus.Fields{
		"matches_normalized": matchesNormalized,
		"lineup_found":       lineupFound,
		"duration_ms":        float64(duration.Milliseconds()),
	}).Info("Fixture aggregation completed")
}

// LogSummarizerCall logs one completed per-match narrative summary.
func (al *AnalysisLogger) LogSummarizerCall(matchID string, promptChars, responseChars int, duration time.Duration) {
	al.WithFields(logrus.Fields{
		"match_id":       matchID,
		"prompt_chars":   promptChars,
		"response_chars": responseChars,
		"duration_ms":    float64(duration.Milliseconds()),
	}).Info("Summarizer call completed")
}

// LogSummarizerDegraded logs a per-match summary failure that was absorbed.
func (al *AnalysisLogger) LogSummarizerDegraded(matchID, reason string) {
	al.WithFields(logrus.Fields{
		"match_id": matchID,
		"reason":   reason,
	}).Warn("Match summary unavailable, continuing without it")
}

// LogPromptComposed logs the final composed briefing prompt size.
func (al *AnalysisLogger) LogPromptComposed(sections, totalChars int) {
	al.WithFields(logrus.Fields{
		"sections":    sections,
		"total_chars": totalChars,
	}).Info("Briefing prompt composed")
}
