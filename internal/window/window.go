// Package window selects bounded, most-recent-first slices of a team's
// match history relative to a reference date.
package window

import (
	"time"

	"github.com/yourusername/pitch-prophet/internal/models"
)

// Filter restricts which matches a selection admits
type Filter struct {
	venueHome string
	pairA     string
	pairB     string
}

// Any admits every match
func Any() Filter {
	return Filter{}
}

// HomeOnly admits only matches the named team played at home
func HomeOnly(team string) Filter {
	return Filter{venueHome: team}
}

// HeadToHead admits only matches contested exactly between the two named
// teams, in either home/away order
func HeadToHead(a, b string) Filter {
	return Filter{pairA: a, pairB: b}
}

func (f Filter) admits(m models.MatchSummary) bool {
	if f.venueHome != "" && m.HomeTeam != f.venueHome {
		return false
	}
	if f.pairA != "" && !m.IsPairing(f.pairA, f.pairB) {
		return false
	}
	return true
}

// Iterator is a lazy, finite, non-restartable walk over the selected matches
// in discovery (most-recent-first) order
type Iterator struct {
	history []models.MatchSummary
	ref     time.Time
	limit   int
	filter  Filter
	pos     int
	yielded int
}

// Select prepares an iterator over the most recent matches strictly before
// ref that satisfy the filter. History is expected oldest-first, the order
// season feeds arrive in; it is scanned from the tail. At most limit matches
// are yielded.
func Select(history []models.MatchSummary, ref time.Time, limit int, filter Filter) *Iterator {
	return &Iterator{
		history: history,
		ref:     ref,
		limit:   limit,
		filter:  filter,
		pos:     len(history) - 1,
	}
}

// Next yields the next selected match. The second return is false once the
// limit is reached or history is exhausted.
func (it *Iterator) Next() (models.MatchSummary, bool) {
	for it.yielded < it.limit && it.pos >= 0 {
		m := it.history[it.pos]
		it.pos--
		if !m.Date.Before(it.ref) {
			continue
		}
		if !it.filter.admits(m) {
			continue
		}
		it.yielded++
		return m, true
	}
	return models.MatchSummary{}, false
}

// Collect drains the iterator into a slice
func (it *Iterator) Collect() []models.MatchSummary {
	var out []models.MatchSummary
	for {
		m, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, m)
	}
}
