package calendar

import (
	"math"
	"testing"
	"time"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.November, day, hour, minute, 0, 0, time.UTC)
}

func event(id string, start, end time.Time) Event {
	return Event{ID: id, Title: "event " + id, Start: start, End: end, Color: ColorBlue}
}

func ids(events []Event) []string {
	if len(events) == 0 {
		return nil
	}
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func equalIDs(got []Event, want ...string) bool {
	g := ids(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

func TestEventsOverlap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b Event
		want bool
	}{
		{
			name: "partial overlap",
			a:    event("a", at(19, 9, 0), at(19, 10, 0)),
			b:    event("b", at(19, 9, 30), at(19, 11, 0)),
			want: true,
		},
		{
			name: "containment",
			a:    event("a", at(19, 8, 0), at(19, 18, 0)),
			b:    event("b", at(19, 9, 30), at(19, 10, 0)),
			want: true,
		},
		{
			name: "back to back does not overlap",
			a:    event("a", at(19, 9, 0), at(19, 10, 0)),
			b:    event("b", at(19, 10, 0), at(19, 11, 0)),
			want: false,
		},
		{
			name: "disjoint",
			a:    event("a", at(19, 9, 0), at(19, 10, 0)),
			b:    event("b", at(20, 9, 0), at(20, 10, 0)),
			want: false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := EventsOverlap(tc.a, tc.b); got != tc.want {
				t.Fatalf("EventsOverlap(a, b) = %v, want %v", got, tc.want)
			}
			if got := EventsOverlap(tc.b, tc.a); got != tc.want {
				t.Fatalf("EventsOverlap(b, a) = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEventsOverlap_Self(t *testing.T) {
	t.Parallel()

	e := event("a", at(19, 9, 0), at(19, 10, 0))
	if !EventsOverlap(e, e) {
		t.Fatalf("expected an event with duration to overlap itself")
	}

	instant := event("b", at(19, 9, 0), at(19, 9, 0))
	if EventsOverlap(instant, instant) {
		t.Fatalf("expected a zero-duration event not to overlap itself")
	}
}

func TestConflictingEvents(t *testing.T) {
	t.Parallel()

	standup := event("1", at(19, 9, 0), at(19, 9, 30))
	all := []Event{
		standup,
		event("2", at(19, 9, 15), at(19, 10, 0)),
		event("3", at(19, 9, 30), at(19, 10, 0)),
		event("4", at(19, 8, 0), at(19, 12, 0)),
	}

	got := ConflictingEvents(standup, all)
	if !equalIDs(got, "2", "4") {
		t.Fatalf("unexpected conflicts: %v", ids(got))
	}
}

func TestEventsInRange(t *testing.T) {
	t.Parallel()

	events := []Event{
		event("before", at(18, 9, 0), at(19, 0, 0)),
		event("inside", at(19, 9, 0), at(19, 10, 0)),
		event("spanning", at(18, 22, 0), at(19, 2, 0)),
		event("after", at(20, 0, 0), at(20, 1, 0)),
	}

	got := EventsInRange(events, at(19, 0, 0), at(20, 0, 0))
	if !equalIDs(got, "inside", "spanning") {
		t.Fatalf("unexpected range result: %v", ids(got))
	}
}

func TestGroupEventsByDate_UsesStartDayOnly(t *testing.T) {
	t.Parallel()

	sprint := Event{ID: "sprint", Start: at(10, 0, 0), End: at(12, 0, 0), IsAllDay: true}
	review := event("review", at(11, 14, 0), at(11, 15, 0))

	grouped := GroupEventsByDate([]Event{sprint, review}, time.UTC)

	if !equalIDs(grouped[Date{2025, time.November, 10}], "sprint") {
		t.Fatalf("expected sprint under Nov 10, got %v", ids(grouped[Date{2025, time.November, 10}]))
	}
	if !equalIDs(grouped[Date{2025, time.November, 11}], "review") {
		t.Fatalf("expected only review under Nov 11, got %v", ids(grouped[Date{2025, time.November, 11}]))
	}
	if _, ok := grouped[Date{2025, time.November, 12}]; ok {
		t.Fatalf("expected no bucket for Nov 12")
	}
}

func TestUpcomingEvents(t *testing.T) {
	t.Parallel()

	now := at(19, 12, 0)
	events := []Event{
		event("later", at(22, 9, 0), at(22, 10, 0)),
		event("past", at(19, 9, 0), at(19, 10, 0)),
		event("soon", at(19, 13, 0), at(19, 14, 0)),
		event("edge", at(26, 12, 0), at(26, 13, 0)),
		event("beyond", at(26, 12, 1), at(26, 13, 0)),
		event("now", now, at(19, 13, 0)),
	}

	got := UpcomingEvents(events, now, 7)
	if !equalIDs(got, "now", "soon", "later", "edge") {
		t.Fatalf("unexpected upcoming events: %v", ids(got))
	}
}

func TestUpcomingEvents_HugeWindow(t *testing.T) {
	t.Parallel()

	now := at(19, 12, 0)
	events := []Event{
		event("past", at(19, 9, 0), at(19, 10, 0)),
		event("soon", at(19, 13, 0), at(19, 14, 0)),
		event("far", time.Date(2300, time.January, 1, 9, 0, 0, 0, time.UTC), time.Date(2300, time.January, 1, 10, 0, 0, 0, time.UTC)),
	}

	for _, days := range []int{maxDaysAhead, maxDaysAhead + 1, 200000, math.MaxInt} {
		got := UpcomingEvents(events, now, days)
		if !equalIDs(got, "soon", "far") {
			t.Fatalf("days=%d: unexpected upcoming events: %v", days, ids(got))
		}
	}
}

func TestSortEventsByTime_IsStable(t *testing.T) {
	t.Parallel()

	events := []Event{
		event("b", at(19, 10, 0), at(19, 11, 0)),
		event("a1", at(19, 9, 0), at(19, 10, 0)),
		event("a2", at(19, 9, 0), at(19, 9, 30)),
	}
	got := SortEventsByTime(events)
	if !equalIDs(got, "a1", "a2", "b") {
		t.Fatalf("unexpected order: %v", ids(got))
	}
	if events[0].ID != "b" {
		t.Fatalf("expected input slice to be left untouched")
	}
}

func TestDurationAndOccurrence(t *testing.T) {
	t.Parallel()

	review := event("review", at(20, 14, 0), at(20, 15, 30))
	if got := DurationMinutes(review); got != 90 {
		t.Fatalf("expected 90 minutes, got %d", got)
	}

	overnight := event("overnight", at(20, 22, 0), at(21, 2, 0))
	if !OccursOnDate(overnight, Date{2025, time.November, 21}, time.UTC) {
		t.Fatalf("expected overnight event to occur on its end day")
	}
	if OccursOnDate(overnight, Date{2025, time.November, 22}, time.UTC) {
		t.Fatalf("expected overnight event not to occur after its end day")
	}
	if !IsToday(overnight, at(21, 8, 0), time.UTC) {
		t.Fatalf("expected overnight event to count as today on Nov 21")
	}
}
