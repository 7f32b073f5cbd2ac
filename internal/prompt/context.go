package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yourusername/pitch-prophet/internal/models"
)

// matchContext renders the fixture header block
func matchContext(dataset *models.FixtureDataset, req *models.FixtureRequest) string {
	var b strings.Builder
	b.WriteString("## **Match Context**\n")
	fmt.Fprintf(&b, "- **Teams:** %s vs. %s\n", req.HomeTeam, req.AwayTeam)
	fmt.Fprintf(&b, "- **Date:** %s\n", req.Date)
	fmt.Fprintf(&b, "- **League:** %s\n", req.League)
	fmt.Fprintf(&b, "- **Season:** %s\n", req.Season)
	if odds := dataset.Bookmaker; odds != nil {
		fmt.Fprintf(&b, "- **Bookmaker odds (home win / draw / away win):** %s / %s / %s\n",
			odds.HomeWin, odds.Draw, odds.AwayWin)
	}
	b.WriteString("- **Starting lineup (in the format of {player name : position}):** ")
	b.WriteString(lineupText(dataset.Lineup))
	b.WriteString("\n")
	return b.String()
}

// lineupText renders the starting lineup or notes its absence
func lineupText(lineup models.Lineup) string {
	if lineup.IsEmpty() {
		return "not available"
	}
	var b strings.Builder
	for _, side := range models.Sides {
		entries := lineup[side]
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s: {", side)
		for i, entry := range entries {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s : %s", entry.Player, entry.Position)
		}
		b.WriteString("} ")
	}
	return strings.TrimSpace(b.String())
}

// seasonStatistics renders both teams' ranked season metrics and the metric
// glossary
func seasonStatistics(dataset *models.FixtureDataset, req *models.FixtureRequest) string {
	var b strings.Builder
	b.WriteString("## **Team Statistics this season (Use This Data for Analysis)**\n")
	fmt.Fprintf(&b, "### Home Team Stats (%s):\n%s\n", req.HomeTeam, rankedStatsText(dataset.AllLeague[models.SideHome], dataset.TeamCount))
	fmt.Fprintf(&b, "\n### Away Team Stats (%s):\n%s\n", req.AwayTeam, rankedStatsText(dataset.AllLeague[models.SideAway], dataset.TeamCount))
	b.WriteString("\n")
	b.WriteString(metricGlossary())
	return b.String()
}

// rankedStatsText renders one team's metric lines in stable metric order.
// The matches-played column carries no betting signal and is skipped.
func rankedStatsText(stats models.TeamRankedStats, teamCount int) string {
	metricNames := make([]string, 0, len(stats))
	for name := range stats {
		if name == "M" {
			continue
		}
		metricNames = append(metricNames, name)
	}
	sort.Strings(metricNames)

	lines := make([]string, 0, len(metricNames))
	for _, name := range metricNames {
		m := stats[name]
		lines = append(lines, fmt.Sprintf("- %s: %s (Rank: %d/%d)", name, formatValue(m.Value), m.Rank, teamCount))
	}
	return strings.Join(lines, "\n")
}

// formatValue drops trailing zeros so whole-number metrics read as integers
func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func metricGlossary() string {
	return `## **Explanation of Key Soccer Metrics:**
- Expected Goals (xG): Measures the quality of goal-scoring chances based on factors like shot location, shot type, and build-up play. A higher xG indicates a team creates better scoring opportunities.
- Non-Penalty Expected Goals (NPxG): Similar to xG but excludes penalties to give a clearer picture of a team's goal-scoring ability in open play.
- Expected Goals Against (xGA): Estimates the number of goals a team is expected to concede based on the quality of chances they allow. A lower xGA suggests stronger defensive performance.
- Non-Penalty Expected Goals Against (NPxGA): Like xGA but without penalty situations, providing a more accurate defensive assessment.
- Non-Penalty Expected Goal Difference (NPxGD): The difference between NPxG and NPxGA, showing how well a team performs in open play. A positive value indicates better attacking than defensive performance.
- Passes Per Defensive Action (PPDA): Measures pressing intensity by calculating how many passes an opponent completes before being disrupted. Lower PPDA means high pressing, which can disrupt opponent attacks.
- Opponent PPDA (OPPDA): Evaluates how easily a team allows opponents to press them. A higher OPPDA suggests better ball retention and buildup under pressure.
- Deep Completions (DC): Counts the number of passes completed within 20 yards of the opponent's goal. A higher value indicates strong attacking penetration.
- Opponent Deep Completions (ODC): Measures how often an opponent completes passes near a team's goal. A lower value suggests stronger defensive organization.
- Expected Points (xPTS): Predicts how many points a team should earn based on their overall performance, xG, and xGA. Helps assess whether a team is overperforming or underperforming.
- Aerial Duels Won & Tackles Per Game: Indicates defensive robustness in duels and transitions.
- Clean Sheet Probability: Based on past performances, estimate likelihood of a shutout.
`
}
