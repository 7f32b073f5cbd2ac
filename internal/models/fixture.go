package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultHistoryLimit is the number of historical matches pulled per lens
// when the caller does not specify one
const DefaultHistoryLimit = 5

// DateLayout is the calendar date format accepted in fixture requests
const DateLayout = "2006-01-02"

// LineupEntry names one player and their position in a starting lineup
type LineupEntry struct {
	Player   string `json:"player"`
	Position string `json:"position"`
}

// Lineup maps each side to its starting players. Empty when no lineup is known.
type Lineup map[Side][]LineupEntry

// IsEmpty reports whether no lineup data is present for either side
func (l Lineup) IsEmpty() bool {
	return len(l[SideHome]) == 0 && len(l[SideAway]) == 0
}

// FixtureRequest describes one fixture to analyze
type FixtureRequest struct {
	ID       uuid.UUID `json:"id"`
	HomeTeam string    `json:"home_team" validate:"required"`
	AwayTeam string    `json:"away_team" validate:"required"`
	Date     string    `json:"date" validate:"required"`
	Season   string    `json:"season" validate:"required"`
	League   string    `json:"league" validate:"required"`
	Limit    int       `json:"limit" validate:"gte=0"`
	Lineup   Lineup    `json:"lineup,omitempty"`
}

// Validate rejects malformed requests before any upstream fetch is attempted.
// Tag-declared constraints run first; the date layout and the distinct-teams
// rule cannot be expressed as tags and stay as code. A zero Limit is replaced
// with DefaultHistoryLimit; a negative one is an error.
func (r *FixtureRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		if fe, ok := firstFieldError(err); ok {
			return malformedField(fe)
		}
		return &MalformedInputError{Field: "request", Reason: err.Error()}
	}
	if r.HomeTeam == r.AwayTeam {
		return &MalformedInputError{Field: "away_team", Reason: "home and away team must differ"}
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return &MalformedInputError{Field: "date", Reason: "must be an ISO 8601 calendar date (YYYY-MM-DD)"}
	}
	if r.Limit == 0 {
		r.Limit = DefaultHistoryLimit
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ParsedDate returns the request date as a time.Time. Validate must have
// succeeded first.
func (r *FixtureRequest) ParsedDate() time.Time {
	d, _ := time.Parse(DateLayout, r.Date)
	return d
}

// BookmakerRecord carries the 1X2 odds for the exact fixture when a season
// file lists it
type BookmakerRecord struct {
	HomeWin decimal.Decimal `json:"home_win"`
	Draw    decimal.Decimal `json:"draw"`
	AwayWin decimal.Decimal `json:"away_win"`
}

// FixtureDataset is the unified per-fixture dataset handed to the prompt
// composer. Built fresh per fixture request, never mutated after construction.
type FixtureDataset struct {
	AllLeague        map[Side]TeamRankedStats `json:"all_league"`
	TeamCount        int                      `json:"team_count"`
	Lineup           Lineup                   `json:"lineup,omitempty"`
	Bookmaker        *BookmakerRecord         `json:"bookmaker,omitempty"`
	NearestMatch     map[Side][]MatchBundle   `json:"nearest_match"`
	NearestHomeMatch []MatchBundle            `json:"nearest_home_match"`
	PastMatch        []MatchBundle            `json:"past_match"`
}
