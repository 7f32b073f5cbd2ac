package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-prophet/internal/metrics"
	"github.com/yourusername/pitch-prophet/internal/models"
)

const historyDateLayout = "2006-01-02 15:04:05"

// HTTPProvider fetches statistics from an understat-style REST endpoint.
// Numeric fields arrive as JSON strings on the wire and are parsed strictly:
// a missing or unparsable required field is a malformed-shape error.
type HTTPProvider struct {
	baseURL string
	client  *RateLimitedHTTPClient
	logger  *logrus.Logger
}

// NewHTTPProvider creates a provider against the given base URL
func NewHTTPProvider(baseURL string, client *RateLimitedHTTPClient, logger *logrus.Logger) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		client:  client,
		logger:  logger,
	}
}

// wire shapes

type wireTeamTitle struct {
	Title string `json:"title"`
}

type wireHistoryEntry struct {
	ID       string        `json:"id"`
	Datetime string        `json:"datetime"`
	Home     wireTeamTitle `json:"h"`
	Away     wireTeamTitle `json:"a"`
}

type wireTableRow struct {
	Team   string             `json:"team"`
	Values map[string]float64 `json:"values"`
}

type wireTable struct {
	Metrics []string       `json:"metrics"`
	Rows    []wireTableRow `json:"rows"`
}

type wireMatchInfo struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	League        string `json:"league"`
	Season        string `json:"season"`
	TeamH         string `json:"team_h"`
	TeamA         string `json:"team_a"`
	HGoals        string `json:"h_goals"`
	AGoals        string `json:"a_goals"`
	HXG           string `json:"h_xg"`
	AXG           string `json:"a_xg"`
	HW            string `json:"h_w"`
	HD            string `json:"h_d"`
	HL            string `json:"h_l"`
	HShot         string `json:"h_shot"`
	AShot         string `json:"a_shot"`
	HShotOnTarget string `json:"h_shotOnTarget"`
	AShotOnTarget string `json:"a_shotOnTarget"`
	HDeep         string `json:"h_deep"`
	ADeep         string `json:"a_deep"`
	HPPDA         string `json:"h_ppda"`
	APPDA         string `json:"a_ppda"`
}

type wirePlayer struct {
	Player    string `json:"player"`
	Position  string `json:"position"`
	Time      string `json:"time"`
	Goals     string `json:"goals"`
	Shots     string `json:"shots"`
	XG        string `json:"xG"`
	Assists   string `json:"assists"`
	XA        string `json:"xA"`
	KeyPasses string `json:"key_passes"`
	XGChain   string `json:"xGChain"`
}

type wireShot struct {
	Minute         string `json:"minute"`
	Player         string `json:"player"`
	PlayerAssisted string `json:"player_assisted"`
	ShotType       string `json:"shotType"`
	Situation      string `json:"situation"`
	Result         string `json:"result"`
	XG             string `json:"xG"`
	X              string `json:"X"`
	Y              string `json:"Y"`
}

// fieldParser accumulates the first conversion failure across a record
type fieldParser struct {
	err error
}

func (p *fieldParser) float(name, raw string) float64 {
	if p.err != nil {
		return 0
	}
	if raw == "" {
		p.err = fmt.Errorf("missing required field %q", name)
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.err = fmt.Errorf("field %q: %w", name, err)
		return 0
	}
	return v
}

func (p *fieldParser) int(name, raw string) int {
	return int(p.float(name, raw))
}

// GetLeagueTable implements StatsProvider
func (u *HTTPProvider) GetLeagueTable(ctx context.Context, league, season string, startDate, endDate time.Time) (*models.SeasonTable, error) {
	q := url.Values{"season": {season}}
	if !startDate.IsZero() {
		q.Set("start_date", startDate.Format(models.DateLayout))
	}
	if !endDate.IsZero() {
		q.Set("end_date", endDate.Format(models.DateLayout))
	}

	var wire wireTable
	if err := u.getJSON(ctx, "league_table", fmt.Sprintf("%s/league/%s/table?%s", u.baseURL, url.PathEscape(league), q.Encode()), &wire); err != nil {
		return nil, err
	}
	table := &models.SeasonTable{
		League:  league,
		Season:  season,
		Metrics: wire.Metrics,
		Rows:    make([]models.TeamRow, 0, len(wire.Rows)),
	}
	for _, row := range wire.Rows {
		table.Rows = append(table.Rows, models.TeamRow{Team: row.Team, Values: row.Values})
	}
	if err := models.ValidateUpstream(table); err != nil {
		return nil, fmt.Errorf("league table for %s %s is malformed: %w", league, season, err)
	}
	return table, nil
}

// GetTeamMatchHistory implements StatsProvider
func (u *HTTPProvider) GetTeamMatchHistory(ctx context.Context, team, season string) ([]models.MatchSummary, error) {
	var wire []wireHistoryEntry
	endpoint := fmt.Sprintf("%s/team/%s/matches?season=%s", u.baseURL, url.PathEscape(team), url.QueryEscape(season))
	if err := u.getJSON(ctx, "team_history", endpoint, &wire); err != nil {
		return nil, err
	}

	history := make([]models.MatchSummary, 0, len(wire))
	for _, entry := range wire {
		date, err := time.Parse(historyDateLayout, entry.Datetime)
		if err != nil {
			// Some feeds carry bare dates for postponed fixtures
			date, err = time.Parse(models.DateLayout, entry.Datetime)
			if err != nil {
				return nil, fmt.Errorf("match %s: bad datetime %q", entry.ID, entry.Datetime)
			}
		}
		if entry.ID == "" || entry.Home.Title == "" || entry.Away.Title == "" {
			return nil, fmt.Errorf("history entry missing id or team titles")
		}
		history = append(history, models.MatchSummary{
			ID:       entry.ID,
			Date:     date,
			HomeTeam: entry.Home.Title,
			AwayTeam: entry.Away.Title,
		})
	}
	return history, nil
}

// GetMatchInfo implements StatsProvider
func (u *HTTPProvider) GetMatchInfo(ctx context.Context, matchID string) (*models.MatchInfo, error) {
	var wire wireMatchInfo
	if err := u.getJSON(ctx, "match_info", fmt.Sprintf("%s/match/%s/info", u.baseURL, url.PathEscape(matchID)), &wire); err != nil {
		return nil, err
	}
	if wire.TeamH == "" || wire.TeamA == "" {
		return nil, fmt.Errorf("match %s: info missing team names", matchID)
	}

	date, err := time.Parse(models.DateLayout, wire.Date)
	if err != nil {
		date, err = time.Parse(historyDateLayout, wire.Date)
		if err != nil {
			return nil, fmt.Errorf("match %s: bad date %q", matchID, wire.Date)
		}
	}

	p := &fieldParser{}
	info := &models.MatchInfo{
		ID:       matchID,
		Date:     date,
		League:   wire.League,
		Season:   wire.Season,
		HomeTeam: wire.TeamH,
		AwayTeam: wire.TeamA,
		Home: models.SideStats{
			Goals:         p.int("h_goals", wire.HGoals),
			XG:            p.float("h_xg", wire.HXG),
			Shots:         p.int("h_shot", wire.HShot),
			ShotsOnTarget: p.int("h_shotOnTarget", wire.HShotOnTarget),
			Deep:          p.int("h_deep", wire.HDeep),
			PPDA:          p.float("h_ppda", wire.HPPDA),
		},
		Away: models.SideStats{
			Goals:         p.int("a_goals", wire.AGoals),
			XG:            p.float("a_xg", wire.AXG),
			Shots:         p.int("a_shot", wire.AShot),
			ShotsOnTarget: p.int("a_shotOnTarget", wire.AShotOnTarget),
			Deep:          p.int("a_deep", wire.ADeep),
			PPDA:          p.float("a_ppda", wire.APPDA),
		},
		HomeWinProb: p.float("h_w", wire.HW),
		DrawProb:    p.float("h_d", wire.HD),
		AwayWinProb: p.float("h_l", wire.HL),
	}
	if p.err != nil {
		return nil, fmt.Errorf("match %s: malformed info: %w", matchID, p.err)
	}
	return info, nil
}

// GetRosterData implements StatsProvider
func (u *HTTPProvider) GetRosterData(ctx context.Context, matchID string) (map[models.Side][]models.PlayerStat, error) {
	var wire map[string]map[string]wirePlayer
	if err := u.getJSON(ctx, "roster", fmt.Sprintf("%s/match/%s/roster", u.baseURL, url.PathEscape(matchID)), &wire); err != nil {
		return nil, err
	}

	roster := make(map[models.Side][]models.PlayerStat, 2)
	for key, side := range map[string]models.Side{"h": models.SideHome, "a": models.SideAway} {
		group, ok := wire[key]
		if !ok {
			return nil, fmt.Errorf("match %s: roster missing side %q", matchID, key)
		}
		players := make([]models.PlayerStat, 0, len(group))
		for _, wp := range group {
			if wp.Player == "" {
				return nil, fmt.Errorf("match %s: roster entry missing player name", matchID)
			}
			p := &fieldParser{}
			stat := models.PlayerStat{
				Name:      wp.Player,
				Position:  wp.Position,
				Minutes:   p.int("time", wp.Time),
				Goals:     p.int("goals", wp.Goals),
				Shots:     p.int("shots", wp.Shots),
				XG:        p.float("xG", wp.XG),
				Assists:   p.int("assists", wp.Assists),
				XA:        p.float("xA", wp.XA),
				KeyPasses: p.int("key_passes", wp.KeyPasses),
				XGChain:   p.float("xGChain", wp.XGChain),
			}
			if p.err != nil {
				return nil, fmt.Errorf("match %s: malformed roster entry for %s: %w", matchID, wp.Player, p.err)
			}
			players = append(players, stat)
		}
		roster[side] = players
	}
	return roster, nil
}

// GetShotData implements StatsProvider
func (u *HTTPProvider) GetShotData(ctx context.Context, matchID string) (map[models.Side][]models.ShotEvent, error) {
	var wire map[string][]wireShot
	if err := u.getJSON(ctx, "shots", fmt.Sprintf("%s/match/%s/shots", u.baseURL, url.PathEscape(matchID)), &wire); err != nil {
		return nil, err
	}

	shots := make(map[models.Side][]models.ShotEvent, 2)
	for key, side := range map[string]models.Side{"h": models.SideHome, "a": models.SideAway} {
		group, ok := wire[key]
		if !ok {
			return nil, fmt.Errorf("match %s: shot data missing side %q", matchID, key)
		}
		events := make([]models.ShotEvent, 0, len(group))
		for _, ws := range group {
			p := &fieldParser{}
			event := models.ShotEvent{
				Minute:     p.int("minute", ws.Minute),
				Player:     ws.Player,
				AssistedBy: ws.PlayerAssisted,
				ShotType:   ws.ShotType,
				Situation:  ws.Situation,
				Result:     ws.Result,
				XG:         p.float("xG", ws.XG),
				X:          p.float("X", ws.X),
				Y:          p.float("Y", ws.Y),
			}
			if p.err != nil {
				return nil, fmt.Errorf("match %s: malformed shot event: %w", matchID, p.err)
			}
			events = append(events, event)
		}
		shots[side] = events
	}
	return shots, nil
}

// GetLineup implements StatsProvider
func (u *HTTPProvider) GetLineup(ctx context.Context, matchID string) (models.Lineup, error) {
	var wire map[string]map[string]wirePlayer
	if err := u.getJSON(ctx, "lineup", fmt.Sprintf("%s/match/%s/roster", u.baseURL, url.PathEscape(matchID)), &wire); err != nil {
		return nil, err
	}

	lineup := models.Lineup{}
	for key, side := range map[string]models.Side{"h": models.SideHome, "a": models.SideAway} {
		for _, wp := range wire[key] {
			lineup[side] = append(lineup[side], models.LineupEntry{
				Player:   wp.Player,
				Position: wp.Position,
			})
		}
	}
	return lineup, nil
}

// getJSON fetches an endpoint and decodes its JSON body, recording metrics
func (u *HTTPProvider) getJSON(ctx context.Context, endpoint, rawURL string, target interface{}) error {
	start := time.Now()
	outcome := "success"
	defer func() {
		metrics.RecordUpstreamFetch(endpoint, outcome, time.Since(start).Seconds())
	}()

	resp, err := u.client.Get(ctx, rawURL)
	if err != nil {
		outcome = "error"
		return fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		outcome = "error"
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fetch %s: unexpected status %d: %s", endpoint, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		outcome = "error"
		return fmt.Errorf("fetch %s: decode response: %w", endpoint, err)
	}

	u.logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"duration": time.Since(start).String(),
	}).Debug("Upstream fetch completed")
	return nil
}
