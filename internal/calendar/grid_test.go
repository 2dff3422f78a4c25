package calendar

import (
	"testing"
	"time"
)

func TestMonthGrid(t *testing.T) {
	t.Parallel()

	t.Run("sunday start covers whole weeks", func(t *testing.T) {
		t.Parallel()

		grid := MonthGrid(november(19), time.Sunday)
		// November 2025 starts on a Saturday and ends on a Sunday.
		if len(grid) != 42 {
			t.Fatalf("expected 42 cells, got %d", len(grid))
		}
		if want := (Date{Year: 2025, Month: time.October, Day: 26}); grid[0].Date != want {
			t.Fatalf("expected grid to start on %s, got %s", want, grid[0].Date)
		}
		if grid[0].InMonth {
			t.Fatalf("expected leading day to be outside the month")
		}
		if want := (Date{Year: 2025, Month: time.December, Day: 6}); grid[len(grid)-1].Date != want {
			t.Fatalf("expected grid to end on %s, got %s", want, grid[len(grid)-1].Date)
		}
		inMonth := 0
		for _, cell := range grid {
			if cell.InMonth {
				inMonth++
			}
		}
		if inMonth != 30 {
			t.Fatalf("expected 30 in-month cells, got %d", inMonth)
		}
	})

	t.Run("monday start", func(t *testing.T) {
		t.Parallel()

		grid := MonthGrid(november(19), time.Monday)
		if want := (Date{Year: 2025, Month: time.October, Day: 27}); grid[0].Date != want {
			t.Fatalf("expected grid to start on %s, got %s", want, grid[0].Date)
		}
		if want := (Date{Year: 2025, Month: time.November, Day: 30}); grid[len(grid)-1].Date != want {
			t.Fatalf("expected grid to end on %s, got %s", want, grid[len(grid)-1].Date)
		}
		if len(grid)%7 != 0 {
			t.Fatalf("expected whole weeks, got %d cells", len(grid))
		}
	})
}

func TestWeekDays(t *testing.T) {
	t.Parallel()

	days := WeekDays(november(19), time.Sunday)
	if days[0] != november(16) || days[6] != november(22) {
		t.Fatalf("unexpected week bounds: %s..%s", days[0], days[6])
	}

	monday := WeekDays(november(16), time.Monday)
	if monday[0] != november(10) {
		t.Fatalf("expected Sunday Nov 16 to belong to the week of Nov 10 when weeks start Monday, got %s", monday[0])
	}
}

func TestPeriodRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		view       ViewType
		start, end time.Time
	}{
		{view: ViewDay, start: at(19, 0, 0), end: at(20, 0, 0)},
		{view: ViewWeek, start: at(16, 0, 0), end: at(23, 0, 0)},
		{view: ViewMonth, start: at(1, 0, 0), end: time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range tests {
		start, end := PeriodRange(tc.view, november(19), time.Sunday, time.UTC)
		if !start.Equal(tc.start) || !end.Equal(tc.end) {
			t.Fatalf("%s: got [%s, %s), want [%s, %s)", tc.view, start, end, tc.start, tc.end)
		}
	}
}

func TestParsers(t *testing.T) {
	t.Parallel()

	if c, err := ParseColor(" Green "); err != nil || c != ColorGreen {
		t.Fatalf("expected green, got %q (%v)", c, err)
	}
	if c, err := ParseColor(""); err != nil || c != ColorBlue {
		t.Fatalf("expected empty color to default to blue, got %q (%v)", c, err)
	}
	if _, err := ParseColor("orange"); err == nil {
		t.Fatalf("expected orange to be rejected")
	}

	if v, err := ParseViewType("WEEK"); err != nil || v != ViewWeek {
		t.Fatalf("expected week view, got %q (%v)", v, err)
	}
	if _, err := ParseViewType("agenda"); err == nil {
		t.Fatalf("expected agenda view to be rejected")
	}

	if w, err := ParseWeekStart("monday"); err != nil || w != time.Monday {
		t.Fatalf("expected monday, got %v (%v)", w, err)
	}
	if _, err := ParseWeekStart("friday"); err == nil {
		t.Fatalf("expected friday to be rejected")
	}

	d, err := ParseDate("2025-11-19")
	if err != nil || d != november(19) {
		t.Fatalf("expected Nov 19, got %v (%v)", d, err)
	}
	if d.String() != "2025-11-19" {
		t.Fatalf("unexpected string form %q", d.String())
	}
	if got := (Date{Year: 2025, Month: time.December, Day: 31}).AddDays(1); got != (Date{Year: 2026, Month: time.January, Day: 1}) {
		t.Fatalf("expected year rollover, got %s", got)
	}
	if got := (Date{Year: 2025, Month: time.January, Day: 31}).AddMonths(1); got != (Date{Year: 2025, Month: time.February, Day: 1}) {
		t.Fatalf("expected first of February, got %s", got)
	}
}
