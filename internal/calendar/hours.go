package calendar

import "time"

// HoursPerDay is the number of hour rows in the week grid.
const HoursPerDay = 24

// EventsForHour returns the events overlapping [day+hour, day+hour+1) whose
// start falls on day. An event crossing midnight is only attributed to the
// hour rows of its start day.
func EventsForHour(events []Event, day Date, hour int, loc *time.Location) []Event {
	if loc == nil {
		loc = time.Local
	}
	hourStart := time.Date(day.Year, day.Month, day.Day, hour, 0, 0, 0, loc)
	hourEnd := time.Date(day.Year, day.Month, day.Day, hour+1, 0, 0, 0, loc)

	var out []Event
	for _, e := range events {
		if !e.Start.Before(hourEnd) || !e.End.After(hourStart) {
			continue
		}
		if DateOf(e.Start, loc) != day {
			continue
		}
		out = append(out, e)
	}
	return out
}
