package seed

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/calendar-core/internal/calendar"
)

const sampleYAML = `
events:
  - id: standup
    title: Standup
    location: Room 1
    start: 2025-11-19T09:00:00Z
    end: 2025-11-19T09:15:00Z
    color: green
    attendees: [alice, bob]
    reminder: 5
  - id: offsite
    title: Offsite
    start: 2025-11-10
    end: 2025-11-12
    allDay: true
  - id: broken
    title: Broken
    start: tomorrow
  - title: Missing id
    start: 2025-11-20T10:00
`

func TestDecodeYAML(t *testing.T) {
	t.Parallel()

	result, err := DecodeYAML(strings.NewReader(sampleYAML), time.UTC)
	if err != nil {
		t.Fatalf("DecodeYAML returned error: %v", err)
	}
	if len(result.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(result.Events))
	}
	if len(result.Skipped) != 2 {
		t.Fatalf("expected 2 skipped entries, got %v", result.Skipped)
	}

	standup := result.Events[0]
	if standup.ID != "standup" || standup.Color != calendar.ColorGreen || standup.Location != "Room 1" {
		t.Fatalf("unexpected standup: %+v", standup)
	}
	if !standup.Start.Equal(time.Date(2025, time.November, 19, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start: %s", standup.Start)
	}
	if len(standup.Attendees) != 2 || standup.Reminder == nil || *standup.Reminder != 5 {
		t.Fatalf("unexpected attendees/reminder: %v %v", standup.Attendees, standup.Reminder)
	}

	offsite := result.Events[1]
	if !offsite.IsAllDay || offsite.Color != calendar.ColorBlue {
		t.Fatalf("unexpected offsite: %+v", offsite)
	}
	if !offsite.End.Equal(time.Date(2025, time.November, 12, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected offsite end: %s", offsite.End)
	}
}

func TestDecodeYAML_RejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	_, err := DecodeYAML(strings.NewReader("events:\n  - id: a\n    colour: red\n"), time.UTC)
	if err == nil {
		t.Fatalf("expected unknown key to be rejected")
	}
}

func TestDecodeYAML_Empty(t *testing.T) {
	t.Parallel()

	result, err := DecodeYAML(strings.NewReader(""), time.UTC)
	if err != nil {
		t.Fatalf("expected empty document to be accepted, got %v", err)
	}
	if len(result.Events) != 0 {
		t.Fatalf("expected no events, got %d", len(result.Events))
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "events.yml")
	if err := os.WriteFile(yamlPath, []byte(sampleYAML), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	result, err := Load(yamlPath, time.UTC)
	if err != nil {
		t.Fatalf("Load yaml returned error: %v", err)
	}
	if len(result.Events) != 2 {
		t.Fatalf("expected 2 yaml events, got %d", len(result.Events))
	}

	icsPath := filepath.Join(dir, "events.ics")
	ics := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"UID:review",
		"SUMMARY:Review",
		"DTSTART:20251119T140000Z",
		"DTEND:20251119T150000Z",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")
	if err := os.WriteFile(icsPath, []byte(ics), 0o600); err != nil {
		t.Fatalf("write ics: %v", err)
	}
	result, err = Load(icsPath, time.UTC)
	if err != nil {
		t.Fatalf("Load ics returned error: %v", err)
	}
	if len(result.Events) != 1 || result.Events[0].ID != "review" {
		t.Fatalf("unexpected ics events: %+v", result.Events)
	}

	txtPath := filepath.Join(dir, "events.txt")
	if err := os.WriteFile(txtPath, []byte("nothing"), 0o600); err != nil {
		t.Fatalf("write txt: %v", err)
	}
	if _, err := Load(txtPath, time.UTC); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml"), time.UTC); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
