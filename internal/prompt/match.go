package prompt

import (
	"fmt"
	"strings"

	"github.com/yourusername/pitch-prophet/internal/models"
)

// matchNarrative renders the deterministic textual restatement of one
// match's scalar fields: scoreline, finishing efficiency against xG, win
// probabilities, shot efficiency, attacking penetration and pressing
// intensity.
func matchNarrative(info *models.MatchInfo) string {
	var b strings.Builder

	winner := "the home team"
	if info.Away.Goals > info.Home.Goals {
		winner = "the away team"
	} else if info.Away.Goals == info.Home.Goals {
		winner = "neither side; the match was drawn"
	}

	fmt.Fprintf(&b, "The match took place on **%s**, in the **%s**, between **%s (home team)** and **%s (away team)**.\n",
		info.Date.Format(models.DateLayout), info.League, info.HomeTeam, info.AwayTeam)
	fmt.Fprintf(&b, "The final score was **%d-%d** in favor of %s.\n", info.Home.Goals, info.Away.Goals, winner)

	b.WriteString("### **Match Performance Breakdown**\n")
	fmt.Fprintf(&b, "- **Expected Goals (xG):** %.2f for home vs. %.2f for away\n", info.Home.XG, info.Away.XG)
	fmt.Fprintf(&b, "  - home's actual goals were **%s** than expected.\n", sharpness(info.Home))
	fmt.Fprintf(&b, "  - away's actual goals were **%s** than expected.\n", sharpness(info.Away))

	b.WriteString("- **Win Probabilities Before the Match:**\n")
	fmt.Fprintf(&b, "  - home win: %.2f%%\n", info.HomeWinProb*100)
	fmt.Fprintf(&b, "  - Draw: %.2f%%\n", info.DrawProb*100)
	fmt.Fprintf(&b, "  - away win: %.2f%%\n", info.AwayWinProb*100)

	b.WriteString("- **Shots and Efficiency:**\n")
	fmt.Fprintf(&b, "  - home: %d shots (%d on target)\n", info.Home.Shots, info.Home.ShotsOnTarget)
	fmt.Fprintf(&b, "  - away: %d shots (%d on target)\n", info.Away.Shots, info.Away.ShotsOnTarget)
	fmt.Fprintf(&b, "  - home's shot efficiency was **%s** than away.\n", shotEfficiencyComparison(info))

	b.WriteString("- **Attacking Penetration:**\n")
	fmt.Fprintf(&b, "  - home had **%d** deep entries\n", info.Home.Deep)
	fmt.Fprintf(&b, "  - away had **%d** deep entries\n", info.Away.Deep)
	fmt.Fprintf(&b, "  - %s dominated the attacking third.\n", deepDominance(info))

	b.WriteString("- **Pressing Intensity (PPDA):**\n")
	fmt.Fprintf(&b, "  - home: %.2f\n", info.Home.PPDA)
	fmt.Fprintf(&b, "  - away: %.2f\n", info.Away.PPDA)
	fmt.Fprintf(&b, "  - %s applied **more aggressive pressing** in this match.\n", pressingAdvantage(info))

	return b.String()
}

// sharpness compares a side's actual goals against its xG
func sharpness(s models.SideStats) string {
	if float64(s.Goals) > s.XG {
		return "higher"
	}
	return "lower"
}

// shotEfficiencyComparison compares on-target ratios; a side with no shots
// has zero efficiency
func shotEfficiencyComparison(info *models.MatchInfo) string {
	if onTargetRatio(info.Home) > onTargetRatio(info.Away) {
		return "higher"
	}
	return "lower"
}

func onTargetRatio(s models.SideStats) float64 {
	if s.Shots == 0 {
		return 0
	}
	return float64(s.ShotsOnTarget) / float64(s.Shots)
}

// deepDominance names the side with more deep entries
func deepDominance(info *models.MatchInfo) string {
	if info.Away.Deep > info.Home.Deep {
		return "away"
	}
	return "home"
}

// pressingAdvantage names the side with the lower (more aggressive) PPDA
func pressingAdvantage(info *models.MatchInfo) string {
	if info.Home.PPDA < info.Away.PPDA {
		return "home"
	}
	return "away"
}
