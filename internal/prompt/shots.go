package prompt

import (
	"fmt"
	"strings"

	"github.com/yourusername/pitch-prophet/internal/models"
)

// Qualitative shot zones derived from normalized pitch coordinates
const (
	zoneCloseCenter = "very close to goal, near the center"
	zoneCloseTight  = "very close to goal, from a tight angle"
	zoneInsideBox   = "inside the penalty area"
	zoneEdgeOfBox   = "just outside the penalty area"
	zoneFarFromGoal = "far from goal"
)

// shotZone maps normalized coordinates to a qualitative zone. X runs toward
// the goal; Y crosses the pitch with the goal mouth between 0.3 and 0.7.
func shotZone(x, y float64) string {
	switch {
	case x > 0.9 && y > 0.3 && y < 0.7:
		return zoneCloseCenter
	case x > 0.9:
		return zoneCloseTight
	case x >= 0.84:
		return zoneInsideBox
	case x > 0.75:
		return zoneEdgeOfBox
	default:
		return zoneFarFromGoal
	}
}

// shotNarrative renders each side's shot-by-shot account for one match
func shotNarrative(bundle *models.MatchBundle) string {
	var b strings.Builder

	b.WriteString("\nThese are the shots made by the home team against the away team:\n")
	for _, event := range bundle.Shots[models.SideHome] {
		b.WriteString(shotLine(event))
		b.WriteString("\n")
	}

	b.WriteString("\nThese are the shots made by the away team against the home team:\n")
	for _, event := range bundle.Shots[models.SideAway] {
		b.WriteString(shotLine(event))
		b.WriteString("\n")
	}

	return b.String()
}

// shotLine renders one shot event as prose
func shotLine(event models.ShotEvent) string {
	line := fmt.Sprintf("At minute %d, %s took a %s shot in a %s situation. The shot was %s with an expected goal (xG) value of %.2f.",
		event.Minute, event.Player, event.ShotType, event.Situation, event.Result, event.XG)
	if event.AssistedBy != "" {
		line += fmt.Sprintf(" The assist was provided by %s.", event.AssistedBy)
	}
	line += fmt.Sprintf(" The shot was taken %s.", shotZone(event.X, event.Y))
	return line
}
