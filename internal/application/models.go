package application

import (
	"time"

	"github.com/example/calendar-core/internal/calendar"
	"github.com/example/calendar-core/internal/search"
)

// EventInput captures caller provided event fields for create and update.
type EventInput struct {
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Color       string
	IsAllDay    bool
	Attendees   []string
	Reminder    *int
}

// ConflictWarning describes another event overlapping the one just written.
type ConflictWarning struct {
	EventID string
	Title   string
	Start   time.Time
	End     time.Time
}

// UpdateEventParams wraps the data required to replace an existing event.
type UpdateEventParams struct {
	EventID string
	Input   EventInput
}

// MoveEventParams identifies an event and the instant it was dropped on.
type MoveEventParams struct {
	EventID string
	Start   time.Time
}

// ListEventsParams narrows ListEvents to events overlapping [From, To).
// Either bound may be nil.
type ListEventsParams struct {
	From *time.Time
	To   *time.Time
}

// ImportResult summarises a bulk import.
type ImportResult struct {
	Created int
	Updated int
	Skipped []string
}

// DayQuery selects the events shown in one day cell of a month or week grid.
// A zero Reference defaults to Date.
type DayQuery struct {
	Date      calendar.Date
	View      calendar.ViewType
	Reference calendar.Date
}

// HourQuery selects the events shown in one hour cell of the week grid.
type HourQuery struct {
	Date calendar.Date
	Hour int
}

// SearchParams carries a free-text query and structured filters.
type SearchParams struct {
	Query   string
	Filters search.Filters
}

// MonthDay is one cell of the month grid.
type MonthDay struct {
	Date    calendar.Date
	InMonth bool
	IsToday bool
	Events  []calendar.Event
}

// MonthView is the six-week grid for a reference month.
type MonthView struct {
	Reference calendar.Date
	WeekStart time.Weekday
	Days      []MonthDay
}

// HourSlot is one hour row of a week column.
type HourSlot struct {
	Hour   int
	Events []calendar.Event
}

// WeekDay is one column of the week grid.
type WeekDay struct {
	Date    calendar.Date
	IsToday bool
	AllDay  []calendar.Event
	Hours   []HourSlot
}

// WeekView is the seven-day grid containing a reference day.
type WeekView struct {
	Reference calendar.Date
	WeekStart time.Weekday
	Days      []WeekDay
}

// DateGroup holds events starting on a single day.
type DateGroup struct {
	Date   calendar.Date
	Events []calendar.Event
}
