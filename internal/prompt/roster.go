package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yourusername/pitch-prophet/internal/models"
)

// rosterBreakdown renders the player performance section for one match.
// focus picks a single side; bothSides renders home then away.
func rosterBreakdown(bundle *models.MatchBundle, focus models.Side, bothSides bool) string {
	sides := []models.Side{focus}
	if bothSides {
		sides = models.Sides
	}

	var sections []string
	for _, side := range sides {
		players := relevantPlayers(bundle.Roster[side])
		label := "Home Team"
		if side == models.SideAway {
			label = "Away Team"
		}

		var b strings.Builder
		fmt.Fprintf(&b, "#### **%s Analysis**\n", label)
		if len(players) == 0 {
			b.WriteString("No significant contributions.\n")
		} else {
			for _, p := range players {
				b.WriteString(playerLine(p))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n**Key Observations:**\n")
		b.WriteString(keyObservations(players))
		sections = append(sections, b.String())
	}

	return "\n### **TASK: Generate a structured performance analysis for the selected team(s).**\n\n" +
		"Focus on **quantitative** insights and rank key contributors based on match impact.\n" +
		"Highlight goal-scoring efficiency, creativity, and overall influence on the game.\n\n" +
		"### **Player Performance Breakdown**\n" +
		strings.Join(sections, "\n")
}

// relevantPlayers filters out players with minimal impact and sorts the rest
// by combined xG plus assists, highest first. Name breaks ties so the order
// is stable across identical inputs.
func relevantPlayers(roster []models.PlayerStat) []models.PlayerStat {
	players := make([]models.PlayerStat, 0, len(roster))
	for _, p := range roster {
		if p.IsRelevant() {
			players = append(players, p)
		}
	}
	sort.SliceStable(players, func(i, j int) bool {
		si, sj := players[i].ImpactScore(), players[j].ImpactScore()
		if si != sj {
			return si > sj
		}
		return players[i].Name < players[j].Name
	})
	return players
}

// playerLine renders one player's stat line
func playerLine(p models.PlayerStat) string {
	return fmt.Sprintf("%s (%s): %dm | Goals: %d | Shots: %d | xG: %.2f | Assists: %d | xA: %.2f | Key Passes: %d | xGChain: %.2f",
		p.Name, p.Position, p.Minutes, p.Goals, p.Shots, p.XG, p.Assists, p.XA, p.KeyPasses, p.XGChain)
}

// keyObservations calls out the top contributor and summarizes the next three
func keyObservations(players []models.PlayerStat) string {
	if len(players) == 0 {
		return "No standout performances to note.\n"
	}

	var b strings.Builder
	top := players[0]
	fmt.Fprintf(&b, "%s had the most impact, with %d goal(s) and an xG of %.2f. Their ability to create chances (%d key passes) was crucial. ",
		top.Name, top.Goals, top.XG, top.KeyPasses)

	for i := 1; i < len(players) && i < 4; i++ {
		p := players[i]
		fmt.Fprintf(&b, "%s played a strong role, contributing %d assist(s) and creating %d key pass(es). Their xGChain value of %.2f indicates involvement in build-up play. ",
			p.Name, p.Assists, p.KeyPasses, p.XGChain)
	}
	b.WriteString("\n")
	return b.String()
}
