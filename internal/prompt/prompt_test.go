package prompt

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitch-prophet/internal/llm"
	"github.com/yourusername/pitch-prophet/internal/models"
)

func TestShotZone(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want string
	}{
		{"central and very close", 0.95, 0.5, zoneCloseCenter},
		{"very close tight angle", 0.95, 0.1, zoneCloseTight},
		{"very close other wing", 0.92, 0.8, zoneCloseTight},
		{"inside the box", 0.86, 0.5, zoneInsideBox},
		{"lower box boundary", 0.84, 0.2, zoneInsideBox},
		{"edge of the box", 0.8, 0.5, zoneEdgeOfBox},
		{"long range", 0.6, 0.5, zoneFarFromGoal},
		{"boundary y excluded from center", 0.95, 0.3, zoneCloseTight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shotZone(tt.x, tt.y))
		})
	}
}

func TestShotLineMentionsAssistAndZone(t *testing.T) {
	line := shotLine(models.ShotEvent{
		Minute: 23, Player: "Saka", AssistedBy: "Odegaard",
		ShotType: "LeftFoot", Situation: "OpenPlay", Result: "Goal",
		XG: 0.62, X: 0.95, Y: 0.5,
	})

	assert.Contains(t, line, "At minute 23, Saka")
	assert.Contains(t, line, "The assist was provided by Odegaard.")
	assert.Contains(t, line, zoneCloseCenter)

	noAssist := shotLine(models.ShotEvent{Minute: 70, Player: "Palmer", Result: "SavedShot", X: 0.8, Y: 0.4})
	assert.NotContains(t, noAssist, "assist")
}

func TestRelevantPlayersFilterAndOrder(t *testing.T) {
	roster := []models.PlayerStat{
		{Name: "Benchwarmer", Minutes: 29},
		{Name: "Supersub", Minutes: 5, Goals: 1, XG: 0.4},
		{Name: "Anchor", Minutes: 90},
		{Name: "Creator", Minutes: 90, Assists: 2, XG: 0.3},
	}

	players := relevantPlayers(roster)
	require.Len(t, players, 3)
	assert.Equal(t, "Creator", players[0].Name)
	assert.Equal(t, "Supersub", players[1].Name)
	assert.Equal(t, "Anchor", players[2].Name)
}

func TestRosterBreakdownEmptySide(t *testing.T) {
	bundle := &models.MatchBundle{
		Roster: map[models.Side][]models.PlayerStat{
			models.SideHome: {{Name: "Unused", Minutes: 10}},
		},
	}

	text := rosterBreakdown(bundle, models.SideHome, false)
	assert.Contains(t, text, "No significant contributions.")
	assert.NotContains(t, text, "Away Team Analysis")

	both := rosterBreakdown(bundle, "", true)
	assert.Contains(t, both, "Home Team Analysis")
	assert.Contains(t, both, "Away Team Analysis")
}

func TestMatchNarrative(t *testing.T) {
	info := &models.MatchInfo{
		ID:       "m1",
		Date:     time.Date(2024, 10, 5, 15, 0, 0, 0, time.UTC),
		League:   "EPL",
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
		Home:     models.SideStats{Goals: 2, XG: 1.4, Shots: 14, ShotsOnTarget: 6, Deep: 9, PPDA: 8.2},
		Away:     models.SideStats{Goals: 2, XG: 2.6, Shots: 10, ShotsOnTarget: 5, Deep: 4, PPDA: 11.7},
		HomeWinProb: 0.45, DrawProb: 0.27, AwayWinProb: 0.28,
	}

	text := matchNarrative(info)
	assert.Contains(t, text, "neither side; the match was drawn")
	assert.Contains(t, text, "home's actual goals were **higher** than expected")
	assert.Contains(t, text, "away's actual goals were **lower** than expected")
	assert.Contains(t, text, "home win: 45.00%")
	assert.Contains(t, text, "home dominated the attacking third")
	assert.Contains(t, text, "home applied **more aggressive pressing**")
}

func TestMatchNarrativeZeroShots(t *testing.T) {
	info := &models.MatchInfo{
		Date:     time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC),
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
		Home:     models.SideStats{Shots: 0, ShotsOnTarget: 0},
		Away:     models.SideStats{Goals: 1, Shots: 8, ShotsOnTarget: 3},
	}

	// Must not panic on the zero-shot side
	text := matchNarrative(info)
	assert.Contains(t, text, "home's shot efficiency was **lower** than away")
}

func TestRankedStatsText(t *testing.T) {
	stats := models.TeamRankedStats{
		"xG":  {Value: 68.25, Rank: 1},
		"PTS": {Value: 84, Rank: 2},
		"M":   {Value: 38, Rank: 1},
	}

	text := rankedStatsText(stats, 20)
	assert.Contains(t, text, "- PTS: 84 (Rank: 2/20)")
	assert.Contains(t, text, "- xG: 68.25 (Rank: 1/20)")
	assert.NotContains(t, text, "- M:")
	// Alphabetical metric order
	assert.Less(t, strings.Index(text, "PTS"), strings.Index(text, "xG"))
}

func TestLineupText(t *testing.T) {
	assert.Equal(t, "not available", lineupText(models.Lineup{}))

	text := lineupText(models.Lineup{
		models.SideHome: []models.LineupEntry{{Player: "Saka", Position: "RW"}, {Player: "Rice", Position: "DM"}},
	})
	assert.Contains(t, text, "home: {Saka : RW, Rice : DM}")
}

// capturingSummarizer records calls and replies with a fixed summary
type capturingSummarizer struct {
	calls    []string
	reply    string
	err      error
}

func (c *capturingSummarizer) Summarize(ctx context.Context, systemPrompt, content string, temperature float64, maxTokens int) (string, error) {
	c.calls = append(c.calls, content)
	return c.reply, c.err
}

func testDataset() (*models.FixtureDataset, *models.FixtureRequest) {
	bundle := models.MatchBundle{
		Info: models.MatchInfo{
			ID:       "m1",
			Date:     time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC),
			League:   "EPL",
			HomeTeam: "Arsenal",
			AwayTeam: "Chelsea",
			Home:     models.SideStats{Goals: 2, XG: 1.7, Shots: 12, ShotsOnTarget: 5, Deep: 8, PPDA: 9.1},
			Away:     models.SideStats{Goals: 1, XG: 1.1, Shots: 9, ShotsOnTarget: 4, Deep: 5, PPDA: 12.3},
		},
		Roster: map[models.Side][]models.PlayerStat{
			models.SideHome: {{Name: "Saka", Minutes: 90, Goals: 1, XG: 0.6}},
			models.SideAway: {{Name: "Palmer", Minutes: 90, XG: 0.4}},
		},
		Shots: map[models.Side][]models.ShotEvent{
			models.SideHome: {{Minute: 23, Player: "Saka", Result: "Goal", XG: 0.6, X: 0.92, Y: 0.5}},
			models.SideAway: {{Minute: 70, Player: "Palmer", Result: "SavedShot", XG: 0.4, X: 0.85, Y: 0.4}},
		},
	}

	dataset := &models.FixtureDataset{
		AllLeague: map[models.Side]models.TeamRankedStats{
			models.SideHome: {"xG": {Value: 22.1, Rank: 1}},
			models.SideAway: {"xG": {Value: 19.4, Rank: 2}},
		},
		TeamCount:        20,
		NearestMatch:     map[models.Side][]models.MatchBundle{models.SideHome: {bundle}, models.SideAway: {bundle}},
		NearestHomeMatch: []models.MatchBundle{bundle},
		PastMatch:        []models.MatchBundle{bundle},
	}
	req := &models.FixtureRequest{
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
		Date:     "2024-11-02",
		Season:   "2024",
		League:   "EPL",
		Limit:    5,
	}
	return dataset, req
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func TestComposeSectionOrder(t *testing.T) {
	dataset, req := testDataset()
	summarizer := &capturingSummarizer{reply: "A tight home win built on pressing."}
	composer := NewComposer(summarizer, quietLogger())

	out, err := composer.Compose(context.Background(), dataset, req)
	require.NoError(t, err)

	markers := []string{
		"3 best betting opportunities",
		"## **Match Context**",
		"## **Team Statistics this season",
		"nearest matches of the home team",
		"nearest matches of the away team",
		"nearest matches of the home team as home",
		"matches in the past between home and away",
		"Step-by-Step Betting Analysis Framework",
		"Critical Requirements",
		"ranked list of the top three betting predictions",
	}
	last := -1
	for _, marker := range markers {
		idx := strings.Index(out, marker)
		require.GreaterOrEqual(t, idx, 0, "missing section %q", marker)
		assert.Greater(t, idx, last, "section %q out of order", marker)
		last = idx
	}

	// One summarizer call per rendered match: 2 nearest + 1 home + 1 past
	assert.Len(t, summarizer.calls, 4)
	assert.Contains(t, out, "A tight home win built on pressing.")
}

func TestComposeIsDeterministicGivenFixedSummaries(t *testing.T) {
	dataset, req := testDataset()
	composer := NewComposer(&capturingSummarizer{reply: "Same summary."}, quietLogger())

	first, err := composer.Compose(context.Background(), dataset, req)
	require.NoError(t, err)
	second, err := composer.Compose(context.Background(), dataset, req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComposeDegradesWhenSummarizerFails(t *testing.T) {
	dataset, req := testDataset()
	composer := NewComposer(&capturingSummarizer{err: errors.New("provider down")}, quietLogger())

	out, err := composer.Compose(context.Background(), dataset, req)
	require.NoError(t, err)
	assert.Contains(t, out, noSummaryNote)
	// The deterministic restatement still carries the match facts
	assert.Contains(t, out, "The final score was **2-1**")
}

func TestComposeDegradesOnEmptySummary(t *testing.T) {
	dataset, req := testDataset()
	composer := NewComposer(&capturingSummarizer{reply: "   "}, quietLogger())

	out, err := composer.Compose(context.Background(), dataset, req)
	require.NoError(t, err)
	assert.Contains(t, out, noSummaryNote)
}

func TestSummarizerReceivesFullMatchContent(t *testing.T) {
	dataset, req := testDataset()
	summarizer := &capturingSummarizer{reply: "ok"}
	composer := NewComposer(summarizer, quietLogger())

	_, err := composer.Compose(context.Background(), dataset, req)
	require.NoError(t, err)
	require.NotEmpty(t, summarizer.calls)

	content := summarizer.calls[0]
	assert.Contains(t, content, "Match Performance Breakdown")
	assert.Contains(t, content, "Player Performance Breakdown")
	assert.Contains(t, content, "shots made by the home team")
}

func TestComposeEmitsPipelineLogs(t *testing.T) {
	dataset, req := testDataset()
	req.ID = uuid.New()

	base := logrus.New()
	var buf bytes.Buffer
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.JSONFormatter{})

	composer := NewComposer(&capturingSummarizer{reply: "ok"}, base)
	_, err := composer.Compose(context.Background(), dataset, req)
	require.NoError(t, err)

	logged := buf.String()
	assert.Contains(t, logged, "Summarizer call completed")
	assert.Contains(t, logged, "Briefing prompt composed")
	assert.Contains(t, logged, `"component":"analysis"`)
	assert.Contains(t, logged, `"request_id":"`+req.ID.String()+`"`)
}

func TestComposeLogsDegradedSummaries(t *testing.T) {
	dataset, req := testDataset()

	base := logrus.New()
	var buf bytes.Buffer
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.JSONFormatter{})

	composer := NewComposer(&capturingSummarizer{err: errors.New("provider down")}, base)
	_, err := composer.Compose(context.Background(), dataset, req)
	require.NoError(t, err)

	logged := buf.String()
	assert.Contains(t, logged, "Match summary unavailable")
	assert.Contains(t, logged, `"match_id":"m1"`)
	assert.Contains(t, logged, `"reason":"provider down"`)
}

var _ llm.Summarizer = (*capturingSummarizer)(nil)
