package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/example/calendar-core/internal/calendar"
	"github.com/example/calendar-core/internal/search"
	"github.com/example/calendar-core/internal/store"
)

// SnapshotSource exposes the current event list and change notifications.
type SnapshotSource interface {
	Snapshot() store.Snapshot
	Subscribe(fn func(store.Snapshot)) func()
}

// ViewServiceOptions tunes a ViewService. Zero values select defaults.
type ViewServiceOptions struct {
	Location  *time.Location
	WeekStart time.Weekday
	CacheSize int
	Logger    *slog.Logger
}

// ViewService answers the read-side queries a calendar renderer issues:
// day cells, hour cells, search, and whole month and week grids.
type ViewService struct {
	source      SnapshotSource
	now         func() time.Time
	loc         *time.Location
	weekStart   time.Weekday
	cache       *viewCache
	unsubscribe func()
	logger      *slog.Logger
}

// NewViewService wires a view service to source. The view cache is purged
// whenever source publishes a new snapshot; call Close to stop listening.
func NewViewService(source SnapshotSource, now func() time.Time, opts ViewServiceOptions) (*ViewService, error) {
	if source == nil {
		return nil, fmt.Errorf("snapshot source not configured")
	}
	if now == nil {
		now = time.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	cache, err := newViewCache(opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create view cache: %w", err)
	}

	s := &ViewService{
		source:    source,
		now:       now,
		loc:       loc,
		weekStart: opts.WeekStart,
		cache:     cache,
		logger:    defaultLogger(opts.Logger),
	}
	s.unsubscribe = source.Subscribe(func(store.Snapshot) {
		s.cache.Invalidate()
	})
	return s, nil
}

// Close detaches the service from its snapshot source.
func (s *ViewService) Close() {
	if s == nil || s.unsubscribe == nil {
		return
	}
	s.unsubscribe()
}

// Location returns the display location used for day boundaries.
func (s *ViewService) Location() *time.Location { return s.loc }

// Today returns the current calendar day in the display location.
func (s *ViewService) Today() calendar.Date { return calendar.DateOf(s.now(), s.loc) }

func (s *ViewService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ViewService", operation, attrs...)
}

// EventsForDay returns the events shown in a day cell, ordered by start.
func (s *ViewService) EventsForDay(ctx context.Context, query DayQuery) ([]calendar.Event, error) {
	if query.Date.IsZero() {
		vErr := &ValidationError{}
		vErr.add("date", "date is required")
		return nil, vErr
	}
	view := query.View
	if view == "" {
		view = calendar.ViewMonth
	}
	reference := query.Reference
	if reference.IsZero() {
		reference = query.Date
	}

	snap := s.source.Snapshot()
	idx, hit := s.dayIndex(snap, view, reference)
	events := idx.EventsForDay(query.Date)
	s.loggerWith(ctx, "EventsForDay",
		"date", query.Date.String(),
		"view", string(view),
		"cache_hit", hit,
	).DebugContext(ctx, "day cell resolved", "event_count", len(events))
	return events, nil
}

// EventsForHour returns the events shown in an hour cell of the week grid.
func (s *ViewService) EventsForHour(ctx context.Context, query HourQuery) ([]calendar.Event, error) {
	vErr := &ValidationError{}
	if query.Date.IsZero() {
		vErr.add("date", "date is required")
	}
	if query.Hour < 0 || query.Hour >= calendar.HoursPerDay {
		vErr.add("hour", "hour must be between 0 and 23")
	}
	if vErr.HasErrors() {
		return nil, vErr
	}
	return calendar.EventsForHour(s.source.Snapshot().Events(), query.Date, query.Hour, s.loc), nil
}

// Search filters events by free text, color and all-day flag, keeping store order.
func (s *ViewService) Search(ctx context.Context, params SearchParams) ([]calendar.Event, error) {
	snap := s.source.Snapshot()
	key := buildViewCacheKey("search", snap.Version, nil, params.Query, params.Filters.Key())

	value, hit := s.cached(key, func() any {
		return search.Search(snap.Events(), params.Query, params.Filters)
	})
	results := calendar.CloneEvents(value.([]calendar.Event))
	s.loggerWith(ctx, "Search", "cache_hit", hit).DebugContext(ctx, "search resolved", "result_count", len(results))
	return results, nil
}

// MonthView returns the month grid for reference with each cell's events.
// Cells outside the month only show events that also overlap the month.
func (s *ViewService) MonthView(ctx context.Context, reference calendar.Date) (MonthView, error) {
	if reference.IsZero() {
		reference = s.Today()
	}
	reference = reference.FirstOfMonth()
	today := s.Today()

	snap := s.source.Snapshot()
	key := buildViewCacheKey("month", snap.Version, s.loc,
		reference.String(), strconv.Itoa(int(s.weekStart)), today.String())

	value, hit := s.cached(key, func() any {
		idx, _ := s.dayIndex(snap, calendar.ViewMonth, reference)
		grid := calendar.MonthGrid(reference, s.weekStart)
		view := MonthView{Reference: reference, WeekStart: s.weekStart, Days: make([]MonthDay, 0, len(grid))}
		for _, cell := range grid {
			view.Days = append(view.Days, MonthDay{
				Date:    cell.Date,
				InMonth: cell.InMonth,
				IsToday: cell.Date == today,
				Events:  idx.EventsForDay(cell.Date),
			})
		}
		return view
	})
	view := cloneMonthView(value.(MonthView))
	s.loggerWith(ctx, "MonthView", "reference", reference.String(), "cache_hit", hit).DebugContext(ctx, "month view resolved")
	return view, nil
}

// WeekView returns the seven-day grid containing reference. All-day events go
// to each day's all-day row; timed events fill the hour rows of their start day.
func (s *ViewService) WeekView(ctx context.Context, reference calendar.Date) (WeekView, error) {
	if reference.IsZero() {
		reference = s.Today()
	}
	weekStart := calendar.StartOfWeek(reference, s.weekStart)
	today := s.Today()

	snap := s.source.Snapshot()
	key := buildViewCacheKey("week", snap.Version, s.loc,
		weekStart.String(), strconv.Itoa(int(s.weekStart)), today.String())

	value, hit := s.cached(key, func() any {
		idx, _ := s.dayIndex(snap, calendar.ViewWeek, weekStart)
		var timed []calendar.Event
		for _, e := range idx.Events() {
			if !e.IsAllDay {
				timed = append(timed, e)
			}
		}

		view := WeekView{Reference: weekStart, WeekStart: s.weekStart}
		for _, day := range calendar.WeekDays(weekStart, s.weekStart) {
			column := WeekDay{Date: day, IsToday: day == today, Hours: make([]HourSlot, calendar.HoursPerDay)}
			for _, e := range idx.EventsForDay(day) {
				if e.IsAllDay {
					column.AllDay = append(column.AllDay, e)
				}
			}
			for hour := range column.Hours {
				column.Hours[hour] = HourSlot{Hour: hour, Events: calendar.EventsForHour(timed, day, hour, s.loc)}
			}
			view.Days = append(view.Days, column)
		}
		return view
	})
	view := cloneWeekView(value.(WeekView))
	s.loggerWith(ctx, "WeekView", "reference", weekStart.String(), "cache_hit", hit).DebugContext(ctx, "week view resolved")
	return view, nil
}

// GroupByDate groups all events by the day they start on, ordered by day.
func (s *ViewService) GroupByDate(ctx context.Context) ([]DateGroup, error) {
	groups := calendar.GroupEventsByDate(s.source.Snapshot().Events(), s.loc)
	out := make([]DateGroup, 0, len(groups))
	for day, events := range groups {
		out = append(out, DateGroup{Date: day, Events: events})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *ViewService) dayIndex(snap store.Snapshot, view calendar.ViewType, reference calendar.Date) (*calendar.DayIndex, bool) {
	anchor := reference
	if view == calendar.ViewMonth {
		anchor = reference.FirstOfMonth()
	}
	key := buildViewCacheKey("day-index", snap.Version, s.loc, string(view), anchor.String())
	value, hit := s.cached(key, func() any {
		return calendar.NewDayIndex(snap.Events(), view, anchor, s.loc)
	})
	return value.(*calendar.DayIndex), hit
}

func (s *ViewService) cached(key string, build func() any) (any, bool) {
	if value, ok := s.cache.Get(key); ok {
		return value, true
	}
	value := build()
	s.cache.Store(key, value)
	return value, false
}

func cloneMonthView(view MonthView) MonthView {
	days := make([]MonthDay, len(view.Days))
	for i, day := range view.Days {
		day.Events = calendar.CloneEvents(day.Events)
		days[i] = day
	}
	view.Days = days
	return view
}

func cloneWeekView(view WeekView) WeekView {
	days := make([]WeekDay, len(view.Days))
	for i, day := range view.Days {
		day.AllDay = calendar.CloneEvents(day.AllDay)
		hours := make([]HourSlot, len(day.Hours))
		for h, slot := range day.Hours {
			hours[h] = HourSlot{Hour: slot.Hour, Events: calendar.CloneEvents(slot.Events)}
		}
		day.Hours = hours
		days[i] = day
	}
	view.Days = days
	return view
}
