// Package search filters calendar events by free text and attributes.
package search

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/example/calendar-core/internal/calendar"
)

// Filters narrows a search by attribute. The zero value matches everything.
type Filters struct {
	// Colors keeps events whose color is in the set. Empty means any color.
	Colors []calendar.Color
	// AllDay keeps only all-day (true) or timed (false) events when set.
	AllDay *bool
}

// Key returns a canonical representation suitable for cache keys.
func (f Filters) Key() string {
	colors := make([]string, 0, len(f.Colors))
	for _, c := range f.Colors {
		colors = append(colors, string(c))
	}
	sort.Strings(colors)

	allDay := "*"
	if f.AllDay != nil {
		allDay = strconv.FormatBool(*f.AllDay)
	}
	return strings.Join(colors, ",") + "|" + allDay
}

// IsZero reports whether no attribute filter is set.
func (f Filters) IsZero() bool {
	return len(f.Colors) == 0 && f.AllDay == nil
}

// Search returns the events matching query and filters, in input order.
//
// The query is matched case-insensitively as a substring of the title,
// description or location. An empty query matches every event.
func Search(events []calendar.Event, query string, filters Filters) []calendar.Event {
	m := newMatcher(query, filters)
	var out []calendar.Event
	for _, e := range events {
		if m.match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Matches reports whether a single event satisfies query and filters.
func Matches(e calendar.Event, query string, filters Filters) bool {
	return newMatcher(query, filters).match(e)
}

type matcher struct {
	fold   cases.Caser
	query  string
	colors map[calendar.Color]struct{}
	allDay *bool
}

func newMatcher(query string, filters Filters) *matcher {
	m := &matcher{fold: cases.Fold(), allDay: filters.AllDay}
	if query != "" {
		m.query = m.fold.String(query)
	}
	if len(filters.Colors) > 0 {
		m.colors = make(map[calendar.Color]struct{}, len(filters.Colors))
		for _, c := range filters.Colors {
			m.colors[c] = struct{}{}
		}
	}
	return m
}

func (m *matcher) match(e calendar.Event) bool {
	return m.matchText(e) && m.matchColor(e) && m.matchAllDay(e)
}

func (m *matcher) matchText(e calendar.Event) bool {
	if m.query == "" {
		return true
	}
	return m.contains(e.Title) || m.contains(e.Description) || m.contains(e.Location)
}

func (m *matcher) contains(field string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(m.fold.String(field), m.query)
}

func (m *matcher) matchColor(e calendar.Event) bool {
	if len(m.colors) == 0 {
		return true
	}
	_, ok := m.colors[e.Color]
	return ok
}

func (m *matcher) matchAllDay(e calendar.Event) bool {
	return m.allDay == nil || e.IsAllDay == *m.allDay
}
