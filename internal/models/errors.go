package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for coarse-grained matching with errors.Is
var (
	ErrMissingTeam    = errors.New("team not found in season table")
	ErrUpstreamData   = errors.New("upstream statistics fetch failed")
	ErrMalformedInput = errors.New("malformed fixture request")
)

// MissingTeamError indicates a requested team is absent from a season table.
// Fatal to the aggregation call that raised it.
type MissingTeamError struct {
	Team   string
	League string
	Season string
}

func (e *MissingTeamError) Error() string {
	return fmt.Sprintf("team %q not found in %s %s season table", e.Team, e.League, e.Season)
}

func (e *MissingTeamError) Is(target error) bool {
	return target == ErrMissingTeam
}

// UpstreamDataError indicates a statistics-provider fetch failed, timed out,
// or returned a shape missing required fields. Step names the aggregation
// stage so callers can attribute and retry the failing sub-step.
type UpstreamDataError struct {
	Step    string
	Team    string
	MatchID string
	Err     error
}

func (e *UpstreamDataError) Error() string {
	msg := fmt.Sprintf("upstream data error in step %q", e.Step)
	if e.Team != "" {
		msg += fmt.Sprintf(" (team %s)", e.Team)
	}
	if e.MatchID != "" {
		msg += fmt.Sprintf(" (match %s)", e.MatchID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamDataError) Unwrap() error {
	return e.Err
}

func (e *UpstreamDataError) Is(target error) bool {
	return target == ErrUpstreamData
}

// MalformedInputError indicates the fixture request itself is invalid.
// Raised before any fetch is attempted.
type MalformedInputError struct {
	Field  string
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("invalid fixture request: field %q %s", e.Field, e.Reason)
}

func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}
