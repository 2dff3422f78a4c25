package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/calendar-core/internal/calendar"
	"github.com/example/calendar-core/internal/icalendar"
	"github.com/example/calendar-core/internal/store"
)

const defaultUpcomingDays = 7

// EventStore captures the store interactions needed by the event service.
type EventStore interface {
	Snapshot() store.Snapshot
	Get(id string) (calendar.Event, error)
	Create(e calendar.Event) (store.Snapshot, error)
	Replace(e calendar.Event) (store.Snapshot, error)
	Delete(id string) (store.Snapshot, error)
}

// EventServiceOptions tunes an EventService. Zero values select defaults.
type EventServiceOptions struct {
	Location     *time.Location
	UpcomingDays int
	Logger       *slog.Logger
}

// EventService orchestrates validation and mutation of calendar events.
type EventService struct {
	events       EventStore
	idGenerator  func() string
	now          func() time.Time
	loc          *time.Location
	upcomingDays int
	codec        *icalendar.Codec
	logger       *slog.Logger
}

// NewEventService wires dependencies for event operations.
func NewEventService(events EventStore, idGenerator func() string, now func() time.Time, opts EventServiceOptions) *EventService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	upcoming := opts.UpcomingDays
	if upcoming <= 0 {
		upcoming = defaultUpcomingDays
	}
	return &EventService{
		events:       events,
		idGenerator:  idGenerator,
		now:          now,
		loc:          loc,
		upcomingDays: upcoming,
		codec:        icalendar.NewCodec(loc, now),
		logger:       defaultLogger(opts.Logger),
	}
}

func (s *EventService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EventService", operation, attrs...)
}

// ListEvents returns events ordered by start, optionally limited to those
// overlapping [From, To).
func (s *EventService) ListEvents(ctx context.Context, params ListEventsParams) ([]calendar.Event, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	events := s.events.Snapshot().Events()
	if params.From != nil || params.To != nil {
		filtered := events[:0]
		for _, e := range events {
			if params.From != nil && !e.End.After(*params.From) {
				continue
			}
			if params.To != nil && !e.Start.Before(*params.To) {
				continue
			}
			filtered = append(filtered, e)
		}
		events = filtered
	}
	return calendar.SortEventsByTime(events), nil
}

// GetEvent returns a single event.
func (s *EventService) GetEvent(ctx context.Context, id string) (calendar.Event, error) {
	if err := s.ready(); err != nil {
		return calendar.Event{}, err
	}
	e, err := s.events.Get(id)
	if err != nil {
		return calendar.Event{}, mapStoreError(err)
	}
	return e, nil
}

// CreateEvent validates input, assigns an ID and stores the event. Overlapping
// events are reported as warnings; they never block the write.
func (s *EventService) CreateEvent(ctx context.Context, input EventInput) (event calendar.Event, warnings []ConflictWarning, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "CreateEvent", "all_day", input.IsAllDay)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create event", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("event_id", event.ID, "conflicts", len(warnings)).InfoContext(ctx, "event created")
	}()

	candidate, vErr := s.buildEvent(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}
	candidate.ID = s.idGenerator()
	if candidate.ID == "" {
		err = fmt.Errorf("event id generator returned an empty id")
		return
	}

	warnings = conflictWarnings(candidate, s.events.Snapshot().Events())

	if _, err = s.events.Create(candidate); err != nil {
		err = mapStoreError(err)
		warnings = nil
		return
	}
	event = candidate
	return
}

// UpdateEvent replaces every field of an existing event.
func (s *EventService) UpdateEvent(ctx context.Context, params UpdateEventParams) (event calendar.Event, warnings []ConflictWarning, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "UpdateEvent", "event_id", params.EventID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update event", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("conflicts", len(warnings)).InfoContext(ctx, "event updated")
	}()

	if _, err = s.events.Get(params.EventID); err != nil {
		err = mapStoreError(err)
		return
	}

	candidate, vErr := s.buildEvent(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}
	candidate.ID = params.EventID

	event, warnings, err = s.replace(candidate)
	return
}

// DeleteEvent removes an event.
func (s *EventService) DeleteEvent(ctx context.Context, id string) (err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "DeleteEvent", "event_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete event", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "event deleted")
	}()

	if _, err = s.events.Delete(id); err != nil {
		err = mapStoreError(err)
	}
	return
}

// MoveEvent reschedules an event to a new start while keeping its duration.
// All-day events snap to the start of the target day and keep their day span.
func (s *EventService) MoveEvent(ctx context.Context, params MoveEventParams) (event calendar.Event, warnings []ConflictWarning, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "MoveEvent", "event_id", params.EventID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to move event", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("start", event.Start, "conflicts", len(warnings)).InfoContext(ctx, "event moved")
	}()

	if params.Start.IsZero() {
		vErr := &ValidationError{}
		vErr.add("startDate", "start date is required")
		err = vErr
		return
	}

	existing, getErr := s.events.Get(params.EventID)
	if getErr != nil {
		err = mapStoreError(getErr)
		return
	}

	moved := existing.Clone()
	if existing.IsAllDay {
		first := calendar.DateOf(existing.Start, s.loc)
		last := calendar.DateOf(existing.End, s.loc)
		span := daysBetween(first, last)
		target := calendar.DateOf(params.Start, s.loc)
		moved.Start = target.In(s.loc)
		moved.End = endOfDay(target.AddDays(span), s.loc)
	} else {
		duration := existing.End.Sub(existing.Start)
		moved.Start = params.Start
		moved.End = params.Start.Add(duration)
	}

	event, warnings, err = s.replace(moved)
	return
}

// ConflictsFor returns the events overlapping the given event.
func (s *EventService) ConflictsFor(ctx context.Context, id string) ([]calendar.Event, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	target, err := s.events.Get(id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return calendar.ConflictingEvents(target, s.events.Snapshot().Events()), nil
}

// UpcomingEvents returns events starting within the next days days, ordered by
// start. A non-positive days selects the configured default.
func (s *EventService) UpcomingEvents(ctx context.Context, days int) ([]calendar.Event, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = s.upcomingDays
	}
	return calendar.UpcomingEvents(s.events.Snapshot().Events(), s.now(), days), nil
}

// ImportEvents validates each event and creates or replaces it by ID. Invalid
// events are skipped and reported in the result.
func (s *EventService) ImportEvents(ctx context.Context, events []calendar.Event) (result ImportResult, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "ImportEvents", "received", len(events))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to import events", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With(
			"created", result.Created,
			"updated", result.Updated,
			"skipped", len(result.Skipped),
		).InfoContext(ctx, "events imported")
	}()

	for _, incoming := range events {
		candidate, vErr := s.buildEvent(inputFromEvent(incoming))
		if vErr.HasErrors() {
			result.Skipped = append(result.Skipped, describeSkipped(incoming.ID, vErr))
			continue
		}
		candidate.ID = strings.TrimSpace(incoming.ID)
		if candidate.ID == "" {
			candidate.ID = s.idGenerator()
		}
		if candidate.ID == "" {
			missing := &ValidationError{}
			missing.add("id", "event id could not be generated")
			result.Skipped = append(result.Skipped, describeSkipped("", missing))
			continue
		}

		_, getErr := s.events.Get(candidate.ID)
		switch {
		case getErr == nil:
			if _, err = s.events.Replace(candidate); err != nil {
				err = mapStoreError(err)
				return
			}
			result.Updated++
		case errors.Is(getErr, store.ErrNotFound):
			if _, err = s.events.Create(candidate); err != nil {
				err = mapStoreError(err)
				return
			}
			result.Created++
		default:
			err = getErr
			return
		}
	}
	return
}

// ImportICS decodes an iCalendar document and imports its events.
func (s *EventService) ImportICS(ctx context.Context, r io.Reader) (ImportResult, error) {
	if err := s.ready(); err != nil {
		return ImportResult{}, err
	}
	decoded, err := s.codec.Decode(r)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("calendar", "calendar could not be parsed")
		s.loggerWith(ctx, "ImportICS").WarnContext(ctx, "rejected calendar document", "error", err, "error_kind", ErrorKind(vErr))
		return ImportResult{}, vErr
	}

	result, err := s.ImportEvents(ctx, decoded.Events)
	for _, skipped := range decoded.Skipped {
		result.Skipped = append(result.Skipped, skipped.Error())
	}
	return result, err
}

// ExportICS writes every event as an iCalendar document ordered by start.
func (s *EventService) ExportICS(ctx context.Context, w io.Writer) error {
	if err := s.ready(); err != nil {
		return err
	}
	events := calendar.SortEventsByTime(s.events.Snapshot().Events())
	if err := s.codec.Encode(w, events); err != nil {
		s.loggerWith(ctx, "ExportICS").ErrorContext(ctx, "failed to export events", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	return nil
}

func (s *EventService) ready() error {
	if s == nil {
		return fmt.Errorf("EventService is nil")
	}
	if s.events == nil {
		return fmt.Errorf("event store not configured")
	}
	return nil
}

func (s *EventService) replace(candidate calendar.Event) (calendar.Event, []ConflictWarning, error) {
	warnings := conflictWarnings(candidate, s.events.Snapshot().Events())
	if _, err := s.events.Replace(candidate); err != nil {
		return calendar.Event{}, nil, mapStoreError(err)
	}
	return candidate, warnings, nil
}

// buildEvent validates input and returns the normalised event without an ID.
func (s *EventService) buildEvent(input EventInput) (calendar.Event, *ValidationError) {
	vErr := &ValidationError{}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		vErr.add("title", "title is required")
	}
	if input.Start.IsZero() {
		vErr.add("startDate", "start date is required")
	}
	if input.End.IsZero() {
		vErr.add("endDate", "end date is required")
	}
	if !input.Start.IsZero() && !input.End.IsZero() && input.End.Before(input.Start) {
		vErr.add("endDate", "end date must be after start date")
	}
	color, err := calendar.ParseColor(input.Color)
	if err != nil {
		vErr.add("color", "color is not supported")
	}
	if input.Reminder != nil && *input.Reminder < 0 {
		vErr.add("reminder", "reminder must not be negative")
	}
	if vErr.HasErrors() {
		return calendar.Event{}, vErr
	}

	e := calendar.Event{
		Title:       title,
		Description: input.Description,
		Location:    strings.TrimSpace(input.Location),
		Start:       input.Start,
		End:         input.End,
		Color:       color,
		IsAllDay:    input.IsAllDay,
		Attendees:   uniqueStrings(trimAll(input.Attendees)),
	}
	if len(e.Attendees) == 0 {
		e.Attendees = nil
	}
	if input.Reminder != nil {
		reminder := *input.Reminder
		e.Reminder = &reminder
	}
	if e.IsAllDay {
		e.Start = calendar.DateOf(input.Start, s.loc).In(s.loc)
		e.End = endOfDay(calendar.DateOf(input.End, s.loc), s.loc)
	}
	return e, nil
}

func inputFromEvent(e calendar.Event) EventInput {
	return EventInput{
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

func conflictWarnings(candidate calendar.Event, all []calendar.Event) []ConflictWarning {
	conflicts := calendar.ConflictingEvents(candidate, all)
	if len(conflicts) == 0 {
		return nil
	}
	warnings := make([]ConflictWarning, 0, len(conflicts))
	for _, c := range calendar.SortEventsByTime(conflicts) {
		warnings = append(warnings, ConflictWarning{EventID: c.ID, Title: c.Title, Start: c.Start, End: c.End})
	}
	return warnings
}

func describeSkipped(id string, vErr *ValidationError) string {
	fields := make([]string, 0, len(vErr.FieldErrors))
	for field := range vErr.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		messages = append(messages, vErr.FieldErrors[field])
	}
	if id == "" {
		id = "(no id)"
	}
	return fmt.Sprintf("%s: %s", id, strings.Join(messages, "; "))
}

func endOfDay(d calendar.Date, loc *time.Location) time.Time {
	return d.AddDays(1).In(loc).Add(-time.Nanosecond)
}

func daysBetween(from, to calendar.Date) int {
	return int(to.In(time.UTC).Sub(from.In(time.UTC)).Hours() / 24)
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, strings.TrimSpace(value))
	}
	return out
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}

func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, store.ErrDuplicate) {
		return ErrAlreadyExists
	}
	return err
}
