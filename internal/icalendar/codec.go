// Package icalendar converts calendar events to and from RFC 5545 documents.
package icalendar

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/example/calendar-core/internal/calendar"
)

const (
	defaultProductID = "-//calendar-core//EN"
	dateLayout       = "20060102"
	propertyColor    = ical.ComponentProperty("COLOR")
)

// Codec encodes and decodes iCalendar documents. All-day dates are
// interpreted in the codec location.
type Codec struct {
	loc       *time.Location
	now       func() time.Time
	productID string
}

// NewCodec returns a codec using loc for all-day dates and now for DTSTAMP.
func NewCodec(loc *time.Location, now func() time.Time) *Codec {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Codec{loc: loc, now: now, productID: defaultProductID}
}

// DecodeResult holds the events read from a document and the reasons any
// VEVENT was skipped.
type DecodeResult struct {
	Events  []calendar.Event
	Skipped []error
}

// Encode writes events as a VCALENDAR with one VEVENT per event.
func (c *Codec) Encode(w io.Writer, events []calendar.Event) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(c.productID)

	stamp := c.now().UTC()
	for _, e := range events {
		ve := cal.AddEvent(e.ID)
		ve.SetDtStampTime(stamp)
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		if e.IsAllDay {
			first := calendar.DateOf(e.Start, c.loc)
			last := calendar.DateOf(e.End, c.loc)
			if last.Before(first) {
				last = first
			}
			ve.SetAllDayStartAt(first.In(c.loc))
			// DTEND is exclusive for date values.
			ve.SetAllDayEndAt(last.AddDays(1).In(c.loc))
		} else {
			ve.SetStartAt(e.Start)
			ve.SetEndAt(e.End)
		}
		if e.Color != "" {
			ve.SetProperty(propertyColor, string(e.Color))
		}
		for _, attendee := range e.Attendees {
			ve.AddAttendee(attendee)
		}
		if e.Reminder != nil {
			alarm := ve.AddAlarm()
			alarm.SetAction(ical.ActionDisplay)
			alarm.SetTrigger(fmt.Sprintf("-PT%dM", *e.Reminder))
		}
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("icalendar: write: %w", err)
	}
	return nil
}

// Decode parses a VCALENDAR document. VEVENTs that cannot be converted are
// skipped and reported in DecodeResult.Skipped.
func (c *Codec) Decode(r io.Reader) (DecodeResult, error) {
	var result DecodeResult

	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return result, fmt.Errorf("icalendar: parse: %w", err)
	}

	for _, ve := range cal.Events() {
		e, err := c.decodeEvent(ve)
		if err != nil {
			result.Skipped = append(result.Skipped, err)
			continue
		}
		result.Events = append(result.Events, e)
	}
	return result, nil
}

func (c *Codec) decodeEvent(ve *ical.VEvent) (calendar.Event, error) {
	var e calendar.Event

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || strings.TrimSpace(uid.Value) == "" {
		return e, errors.New("icalendar: vevent missing UID")
	}
	e.ID = strings.TrimSpace(uid.Value)

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		e.Title = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		e.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		e.Location = p.Value
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return e, fmt.Errorf("icalendar: vevent %s missing DTSTART", e.ID)
	}

	if isDateValue(dtStart) {
		first, err := time.ParseInLocation(dateLayout, strings.TrimSpace(dtStart.Value), c.loc)
		if err != nil {
			return e, fmt.Errorf("icalendar: vevent %s DTSTART: %w", e.ID, err)
		}
		last := first
		if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil {
			if exclusive, err := time.ParseInLocation(dateLayout, strings.TrimSpace(dtEnd.Value), c.loc); err == nil && exclusive.After(first) {
				last = exclusive.AddDate(0, 0, -1)
			}
		}
		e.IsAllDay = true
		e.Start = first
		e.End = endOfDay(last)
	} else {
		start, err := ve.GetStartAt()
		if err != nil {
			return e, fmt.Errorf("icalendar: vevent %s DTSTART: %w", e.ID, err)
		}
		end, err := ve.GetEndAt()
		if err != nil {
			end = start
		}
		e.Start = start
		e.End = end
	}

	e.Color = calendar.ColorBlue
	if p := ve.GetProperty(propertyColor); p != nil {
		if color, err := calendar.ParseColor(p.Value); err == nil {
			e.Color = color
		}
	}

	for _, attendee := range ve.Attendees() {
		if email := attendee.Email(); email != "" {
			e.Attendees = append(e.Attendees, email)
		}
	}

	for _, alarm := range ve.Alarms() {
		trigger := alarm.GetProperty(ical.ComponentPropertyTrigger)
		if trigger == nil {
			continue
		}
		if minutes, ok := parseTriggerMinutes(trigger.Value); ok {
			e.Reminder = &minutes
			break
		}
	}

	return e, nil
}

func isDateValue(p *ical.IANAProperty) bool {
	if values, ok := p.ICalParameters["VALUE"]; ok && len(values) > 0 && strings.EqualFold(values[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location()).Add(-time.Nanosecond)
}

// parseTriggerMinutes reads relative triggers such as -PT15M, -PT1H30M or -P1D.
func parseTriggerMinutes(value string) (int, bool) {
	value = strings.ToUpper(strings.TrimSpace(value))
	if !strings.HasPrefix(value, "-P") {
		return 0, false
	}
	value = strings.TrimPrefix(value, "-P")

	total := 0
	inTime := false
	number := ""
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
			number += string(r)
		case r == 'T':
			inTime = true
		default:
			if number == "" {
				return 0, false
			}
			n, err := strconv.Atoi(number)
			if err != nil {
				return 0, false
			}
			number = ""
			switch {
			case r == 'W' && !inTime:
				total += n * 7 * 24 * 60
			case r == 'D' && !inTime:
				total += n * 24 * 60
			case r == 'H' && inTime:
				total += n * 60
			case r == 'M' && inTime:
				total += n
			case r == 'S' && inTime:
				total += n / 60
			default:
				return 0, false
			}
		}
	}
	if number != "" {
		return 0, false
	}
	return total, true
}
