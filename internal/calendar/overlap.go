package calendar

import (
	"math"
	"sort"
	"time"
)

const maxDaysAhead = int(math.MaxInt64 / int64(24*time.Hour))

// EventsOverlap reports whether a and b intersect as half-open intervals.
// Back-to-back events (a.End == b.Start) do not overlap.
func EventsOverlap(a, b Event) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// ConflictingEvents returns every event in all, other than e itself, that overlaps e.
func ConflictingEvents(e Event, all []Event) []Event {
	var out []Event
	for _, other := range all {
		if other.ID == e.ID {
			continue
		}
		if EventsOverlap(e, other) {
			out = append(out, other)
		}
	}
	return out
}

// EventsInRange returns events intersecting [start, end).
func EventsInRange(events []Event, start, end time.Time) []Event {
	var out []Event
	for _, e := range events {
		if e.Start.Before(end) && e.End.After(start) {
			out = append(out, e)
		}
	}
	return out
}

// GroupEventsByDate buckets events by the calendar day of their start only.
// Multi-day events are not repeated on later days; use DayIndex for that.
func GroupEventsByDate(events []Event, loc *time.Location) map[Date][]Event {
	grouped := make(map[Date][]Event)
	for _, e := range events {
		key := DateOf(e.Start, loc)
		grouped[key] = append(grouped[key], e)
	}
	return grouped
}

// UpcomingEvents returns events starting within [now, now+daysAhead days],
// ordered by start. Windows too large for a time.Duration have no upper bound.
func UpcomingEvents(events []Event, now time.Time, daysAhead int) []Event {
	bounded := daysAhead <= maxDaysAhead
	var limit time.Time
	if bounded {
		limit = now.Add(time.Duration(daysAhead) * 24 * time.Hour)
	}
	var out []Event
	for _, e := range events {
		if e.Start.Before(now) || (bounded && e.Start.After(limit)) {
			continue
		}
		out = append(out, e)
	}
	return SortEventsByTime(out)
}

// SortEventsByTime returns a copy of events ordered by start. Ties keep input order.
func SortEventsByTime(events []Event) []Event {
	if len(events) == 0 {
		return nil
	}
	out := make([]Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// DurationMinutes returns the event length rounded to whole minutes.
func DurationMinutes(e Event) int {
	return int(e.End.Sub(e.Start).Round(time.Minute) / time.Minute)
}

// OccursOnDate reports whether day falls within the event's start and end days.
func OccursOnDate(e Event, day Date, loc *time.Location) bool {
	return !day.Before(DateOf(e.Start, loc)) && !day.After(DateOf(e.End, loc))
}

// IsToday reports whether e touches the calendar day of now.
func IsToday(e Event, now time.Time, loc *time.Location) bool {
	return OccursOnDate(e, DateOf(now, loc), loc)
}
