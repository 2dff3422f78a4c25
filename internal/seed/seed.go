// Package seed loads the initial event list from a YAML or iCalendar file.
package seed

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/calendar-core/internal/calendar"
	"github.com/example/calendar-core/internal/icalendar"
)

// ErrUnsupportedFormat is returned for seed files that are neither YAML nor iCalendar.
var ErrUnsupportedFormat = errors.New("seed: unsupported file format")

// Result holds the decoded events and the reasons any entry was skipped.
type Result struct {
	Events  []calendar.Event
	Skipped []error
}

type document struct {
	Events []entry `yaml:"events"`
}

type entry struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Location    string   `yaml:"location"`
	Start       string   `yaml:"start"`
	End         string   `yaml:"end"`
	Color       string   `yaml:"color"`
	AllDay      bool     `yaml:"allDay"`
	Attendees   []string `yaml:"attendees"`
	Reminder    *int     `yaml:"reminder"`
}

// Load reads path, choosing the decoder from its extension.
func Load(path string, loc *time.Location) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("seed: open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(f, loc)
	case ".ics":
		decoded, err := icalendar.NewCodec(loc, nil).Decode(f)
		if err != nil {
			return Result{}, err
		}
		return Result{Events: decoded.Events, Skipped: decoded.Skipped}, nil
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// DecodeYAML reads a document of the form:
//
//	events:
//	  - id: standup
//	    title: Standup
//	    start: 2025-11-19T09:00:00Z
//	    end: 2025-11-19T09:15:00Z
//
// Times accept RFC 3339, "2006-01-02T15:04" or a bare date, the latter two
// interpreted in loc. Unknown keys are rejected.
func DecodeYAML(r io.Reader, loc *time.Location) (Result, error) {
	if loc == nil {
		loc = time.Local
	}

	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Result{}, nil
		}
		return Result{}, fmt.Errorf("seed: decode yaml: %w", err)
	}

	var result Result
	for i, item := range doc.Events {
		e, err := item.toEvent(loc)
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Errorf("seed: events[%d]: %w", i, err))
			continue
		}
		result.Events = append(result.Events, e)
	}
	return result, nil
}

func (item entry) toEvent(loc *time.Location) (calendar.Event, error) {
	if strings.TrimSpace(item.ID) == "" {
		return calendar.Event{}, errors.New("id is required")
	}
	start, err := parseTime(item.Start, loc)
	if err != nil {
		return calendar.Event{}, fmt.Errorf("start: %w", err)
	}
	end := start
	if strings.TrimSpace(item.End) != "" {
		if end, err = parseTime(item.End, loc); err != nil {
			return calendar.Event{}, fmt.Errorf("end: %w", err)
		}
	}
	color, err := calendar.ParseColor(item.Color)
	if err != nil {
		return calendar.Event{}, err
	}

	return calendar.Event{
		ID:          strings.TrimSpace(item.ID),
		Title:       item.Title,
		Description: item.Description,
		Location:    item.Location,
		Start:       start,
		End:         end,
		Color:       color,
		IsAllDay:    item.AllDay,
		Attendees:   append([]string(nil), item.Attendees...),
		Reminder:    item.Reminder,
	}, nil
}

var localLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

func parseTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("value is required")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", value)
}
