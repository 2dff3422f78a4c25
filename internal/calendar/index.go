package calendar

import (
	"slices"
	"time"
)

// DayIndex buckets events by every calendar day they span so a renderer can
// look up a grid cell in constant time.
type DayIndex struct {
	view      ViewType
	reference Date
	loc       *time.Location
	events    []Event
	buckets   map[Date][]Event
	days      []Date
}

// NewDayIndex builds an index for the window defined by view and reference.
//
// For ViewMonth an event is kept when it overlaps the calendar month of
// reference as a half-open interval; other views keep every event. Kept events
// are ordered by start and added to the bucket of each day from their start
// day to their end day inclusive. Days are computed in loc (time.Local when nil).
func NewDayIndex(events []Event, view ViewType, reference Date, loc *time.Location) *DayIndex {
	if loc == nil {
		loc = time.Local
	}
	idx := &DayIndex{
		view:      view,
		reference: reference,
		loc:       loc,
		buckets:   make(map[Date][]Event),
	}

	var kept []Event
	if view == ViewMonth {
		monthStart := reference.FirstOfMonth().In(loc)
		nextMonth := reference.AddMonths(1).In(loc)
		for _, e := range events {
			if e.Start.Before(nextMonth) && e.End.After(monthStart) {
				kept = append(kept, e)
			}
		}
	} else {
		kept = events
	}
	idx.events = SortEventsByTime(kept)

	for _, e := range idx.events {
		last := DateOf(e.End, loc)
		for day := DateOf(e.Start, loc); !day.After(last); day = day.AddDays(1) {
			if _, ok := idx.buckets[day]; !ok {
				idx.days = append(idx.days, day)
			}
			idx.buckets[day] = append(idx.buckets[day], e)
		}
	}
	sortDates(idx.days)

	return idx
}

// EventsForDay returns the events touching day in start order. Days without
// events yield nil.
func (idx *DayIndex) EventsForDay(day Date) []Event {
	if idx == nil {
		return nil
	}
	bucket := idx.buckets[day]
	if len(bucket) == 0 {
		return nil
	}
	return append([]Event(nil), bucket...)
}

// EventsAt is EventsForDay for the calendar day of t in the index location.
func (idx *DayIndex) EventsAt(t time.Time) []Event {
	if idx == nil {
		return nil
	}
	return idx.EventsForDay(DateOf(t, idx.loc))
}

// Events returns the filtered events in start order.
func (idx *DayIndex) Events() []Event {
	if idx == nil || len(idx.events) == 0 {
		return nil
	}
	return append([]Event(nil), idx.events...)
}

// Days lists the days holding at least one event, earliest first.
func (idx *DayIndex) Days() []Date {
	if idx == nil || len(idx.days) == 0 {
		return nil
	}
	return append([]Date(nil), idx.days...)
}

// View returns the view type the index was built for.
func (idx *DayIndex) View() ViewType { return idx.view }

// Reference returns the reference day that defined the window.
func (idx *DayIndex) Reference() Date { return idx.reference }

// Location returns the location used to compute calendar days.
func (idx *DayIndex) Location() *time.Location { return idx.loc }

func sortDates(days []Date) {
	slices.SortFunc(days, Date.Compare)
}
