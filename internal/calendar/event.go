// Package calendar holds the event model and the pure functions that place
// events on month and week grids.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Color is the display color of an event.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorRed    Color = "red"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorPurple Color = "purple"
)

// Colors lists the supported colors in display order.
func Colors() []Color {
	return []Color{ColorBlue, ColorRed, ColorGreen, ColorYellow, ColorPurple}
}

// Valid reports whether c is one of the supported colors.
func (c Color) Valid() bool {
	switch c {
	case ColorBlue, ColorRed, ColorGreen, ColorYellow, ColorPurple:
		return true
	}
	return false
}

// ParseColor normalizes a color name. An empty value yields ColorBlue.
func ParseColor(value string) (Color, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ColorBlue, nil
	}
	c := Color(value)
	if !c.Valid() {
		return "", fmt.Errorf("calendar: unsupported color %q", value)
	}
	return c, nil
}

// ViewType identifies the grid a caller is rendering.
type ViewType string

const (
	ViewMonth ViewType = "month"
	ViewWeek  ViewType = "week"
	ViewDay   ViewType = "day"
)

// ParseViewType maps a query value to a ViewType. Empty input means month.
func ParseViewType(value string) (ViewType, error) {
	switch ViewType(strings.ToLower(strings.TrimSpace(value))) {
	case "", ViewMonth:
		return ViewMonth, nil
	case ViewWeek:
		return ViewWeek, nil
	case ViewDay:
		return ViewDay, nil
	}
	return "", fmt.Errorf("calendar: unsupported view %q", value)
}

// Event is a titled, colored, time-bounded (or all-day) calendar entry.
type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Color       Color
	IsAllDay    bool
	Attendees   []string
	// Reminder is the lead time in minutes, when set.
	Reminder *int
}

// Clone returns a deep copy of the event.
func (e Event) Clone() Event {
	out := e
	if e.Attendees != nil {
		out.Attendees = append([]string(nil), e.Attendees...)
	}
	if e.Reminder != nil {
		reminder := *e.Reminder
		out.Reminder = &reminder
	}
	return out
}

// CloneEvents copies a slice of events. Nil and empty inputs yield nil.
func CloneEvents(events []Event) []Event {
	if len(events) == 0 {
		return nil
	}
	out := make([]Event, len(events))
	for i, e := range events {
		out[i] = e.Clone()
	}
	return out
}
