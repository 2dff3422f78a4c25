package calendar

import (
	"fmt"
	"strings"
	"time"
)

// GridDay is one cell of a month grid.
type GridDay struct {
	Date    Date
	InMonth bool
}

// ParseWeekStart maps "sunday" or "monday" to a weekday. Empty input means Sunday.
func ParseWeekStart(value string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	}
	return time.Sunday, fmt.Errorf("calendar: unsupported week start %q", value)
}

// StartOfWeek returns the first day of the week containing d.
func StartOfWeek(d Date, weekStart time.Weekday) Date {
	offset := (int(d.Weekday()) - int(weekStart) + 7) % 7
	return d.AddDays(-offset)
}

// MonthGrid returns the days shown by a month view: whole weeks covering the
// month of ref, including leading and trailing days of adjacent months.
func MonthGrid(ref Date, weekStart time.Weekday) []GridDay {
	first := ref.FirstOfMonth()
	last := ref.AddMonths(1).AddDays(-1)
	start := StartOfWeek(first, weekStart)
	end := StartOfWeek(last, weekStart).AddDays(6)

	days := make([]GridDay, 0, 42)
	for d := start; !d.After(end); d = d.AddDays(1) {
		days = append(days, GridDay{Date: d, InMonth: d.SameMonth(first)})
	}
	return days
}

// WeekDays returns the seven days of the week containing ref.
func WeekDays(ref Date, weekStart time.Weekday) []Date {
	start := StartOfWeek(ref, weekStart)
	days := make([]Date, 7)
	for i := range days {
		days[i] = start.AddDays(i)
	}
	return days
}

// PeriodRange returns the half-open window [start, end) covered by view around ref.
func PeriodRange(view ViewType, ref Date, weekStart time.Weekday, loc *time.Location) (time.Time, time.Time) {
	switch view {
	case ViewDay:
		return ref.In(loc), ref.AddDays(1).In(loc)
	case ViewWeek:
		start := StartOfWeek(ref, weekStart)
		return start.In(loc), start.AddDays(7).In(loc)
	default:
		return ref.FirstOfMonth().In(loc), ref.AddMonths(1).In(loc)
	}
}
