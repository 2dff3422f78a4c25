package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/calendar-core/internal/application"
	"github.com/example/calendar-core/internal/calendar"
)

var eventCounter uint64

// Wednesday, 19 November 2025, 10:00 UTC.
var referenceTime = time.Date(2025, time.November, 19, 10, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical "now" used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// At returns the given November 2025 day and time in UTC.
func At(day, hour, minute int) time.Time {
	return time.Date(2025, time.November, day, hour, minute, 0, 0, time.UTC)
}

// EventFixture is a deterministic event that can be materialised as a domain
// event or as service input.
type EventFixture struct {
	ID          string
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Color       calendar.Color
	IsAllDay    bool
	Attendees   []string
	Reminder    *int
}

// EventOption configures a generated event fixture.
type EventOption func(*EventFixture)

// NewEventFixture returns a one-hour event starting at ReferenceTime with
// optional overrides.
func NewEventFixture(opts ...EventOption) EventFixture {
	idx := atomic.AddUint64(&eventCounter, 1)
	fixture := EventFixture{
		ID:    fmt.Sprintf("event-%03d", idx),
		Title: fmt.Sprintf("Event %03d", idx),
		Start: referenceTime,
		End:   referenceTime.Add(time.Hour),
		Color: calendar.ColorBlue,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEventID overrides the identifier.
func WithEventID(id string) EventOption {
	return func(f *EventFixture) { f.ID = id }
}

// WithEventTitle overrides the title.
func WithEventTitle(title string) EventOption {
	return func(f *EventFixture) { f.Title = title }
}

// WithEventDescription overrides the description.
func WithEventDescription(description string) EventOption {
	return func(f *EventFixture) { f.Description = description }
}

// WithEventLocation overrides the location.
func WithEventLocation(location string) EventOption {
	return func(f *EventFixture) { f.Location = location }
}

// WithEventTimes overrides start and end.
func WithEventTimes(start, end time.Time) EventOption {
	return func(f *EventFixture) {
		f.Start = start
		f.End = end
	}
}

// WithEventColor overrides the color.
func WithEventColor(color calendar.Color) EventOption {
	return func(f *EventFixture) { f.Color = color }
}

// WithAllDay marks the event as spanning whole days from first to last,
// normalised the way the event service stores them.
func WithAllDay(first, last calendar.Date, loc *time.Location) EventOption {
	return func(f *EventFixture) {
		f.IsAllDay = true
		f.Start = first.In(loc)
		f.End = last.AddDays(1).In(loc).Add(-time.Nanosecond)
	}
}

// WithEventAttendees overrides the attendees.
func WithEventAttendees(attendees ...string) EventOption {
	return func(f *EventFixture) { f.Attendees = append([]string(nil), attendees...) }
}

// WithEventReminder sets a reminder lead time in minutes.
func WithEventReminder(minutes int) EventOption {
	return func(f *EventFixture) { f.Reminder = &minutes }
}

// Event converts the fixture into a domain event.
func (f EventFixture) Event() calendar.Event {
	e := calendar.Event{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Location:    f.Location,
		Start:       f.Start,
		End:         f.End,
		Color:       f.Color,
		IsAllDay:    f.IsAllDay,
		Attendees:   append([]string(nil), f.Attendees...),
	}
	if len(e.Attendees) == 0 {
		e.Attendees = nil
	}
	if f.Reminder != nil {
		reminder := *f.Reminder
		e.Reminder = &reminder
	}
	return e
}

// Input converts the fixture into service input.
func (f EventFixture) Input() application.EventInput {
	e := f.Event()
	return application.EventInput{
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		Start:       e.Start,
		End:         e.End,
		Color:       string(e.Color),
		IsAllDay:    e.IsAllDay,
		Attendees:   e.Attendees,
		Reminder:    e.Reminder,
	}
}

// NovemberEvents returns a small calendar around ReferenceTime:
//
//	halloween  Oct 31 22:00 - Nov 1 02:00
//	offsite    Nov 10 - Nov 12, all day
//	standup    Nov 19 09:00 - 09:15
//	review     Nov 19 14:00 - 15:00
//	lunch      Nov 20 12:00 - 13:00
//	retro      Dec 1 16:00 - 17:00
func NovemberEvents() []calendar.Event {
	fixtures := []EventFixture{
		NewEventFixture(
			WithEventID("halloween"),
			WithEventTitle("Halloween Party"),
			WithEventTimes(time.Date(2025, time.October, 31, 22, 0, 0, 0, time.UTC), At(1, 2, 0)),
			WithEventColor(calendar.ColorPurple),
		),
		NewEventFixture(
			WithEventID("offsite"),
			WithEventTitle("Team Offsite"),
			WithEventLocation("Lakeside Lodge"),
			WithAllDay(
				calendar.Date{Year: 2025, Month: time.November, Day: 10},
				calendar.Date{Year: 2025, Month: time.November, Day: 12},
				time.UTC,
			),
			WithEventColor(calendar.ColorGreen),
		),
		NewEventFixture(
			WithEventID("standup"),
			WithEventTitle("Daily Standup"),
			WithEventLocation("Room 1"),
			WithEventTimes(At(19, 9, 0), At(19, 9, 15)),
			WithEventAttendees("alice@example.com", "bob@example.com"),
		),
		NewEventFixture(
			WithEventID("review"),
			WithEventTitle("Design Review"),
			WithEventDescription("Review the new month view"),
			WithEventTimes(At(19, 14, 0), At(19, 15, 0)),
			WithEventColor(calendar.ColorPurple),
			WithEventReminder(15),
		),
		NewEventFixture(
			WithEventID("lunch"),
			WithEventTitle("Lunch with Sam"),
			WithEventTimes(At(20, 12, 0), At(20, 13, 0)),
			WithEventColor(calendar.ColorYellow),
		),
		NewEventFixture(
			WithEventID("retro"),
			WithEventTitle("Sprint Retro"),
			WithEventTimes(time.Date(2025, time.December, 1, 16, 0, 0, 0, time.UTC), time.Date(2025, time.December, 1, 17, 0, 0, 0, time.UTC)),
			WithEventColor(calendar.ColorRed),
		),
	}

	events := make([]calendar.Event, 0, len(fixtures))
	for _, f := range fixtures {
		events = append(events, f.Event())
	}
	return events
}
