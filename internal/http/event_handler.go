package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/calendar-core/internal/application"
	"github.com/example/calendar-core/internal/calendar"
)

const (
	maxImportBytes  = 10 << 20
	maxUpcomingDays = 3660
)

type eventService interface {
	ListEvents(ctx context.Context, params application.ListEventsParams) ([]calendar.Event, error)
	GetEvent(ctx context.Context, id string) (calendar.Event, error)
	CreateEvent(ctx context.Context, input application.EventInput) (calendar.Event, []application.ConflictWarning, error)
	UpdateEvent(ctx context.Context, params application.UpdateEventParams) (calendar.Event, []application.ConflictWarning, error)
	DeleteEvent(ctx context.Context, id string) error
	MoveEvent(ctx context.Context, params application.MoveEventParams) (calendar.Event, []application.ConflictWarning, error)
	ConflictsFor(ctx context.Context, id string) ([]calendar.Event, error)
	UpcomingEvents(ctx context.Context, days int) ([]calendar.Event, error)
	ImportICS(ctx context.Context, r io.Reader) (application.ImportResult, error)
	ExportICS(ctx context.Context, w io.Writer) error
}

type EventHandler struct {
	service   eventService
	loc       *time.Location
	responder responder
	logger    *slog.Logger
}

// NewEventHandler builds the /events handlers. Bare dates in request bodies
// are interpreted in loc.
func NewEventHandler(service eventService, loc *time.Location, logger *slog.Logger) *EventHandler {
	if loc == nil {
		loc = time.Local
	}
	return &EventHandler{service: service, loc: loc, responder: newResponder(logger), logger: logger}
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	params, err := buildListParams(r.URL.Query())
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	events, err := h.service.ListEvents(r.Context(), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEventsResponse{Events: toEventDTOs(events)})
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	event, warnings, err := h.service.CreateEvent(r.Context(), req.toInput(h.loc))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.renderEvent(r.Context(), w, event, warnings, http.StatusCreated)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}

	event, err := h.service.GetEvent(r.Context(), eventID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.renderEvent(r.Context(), w, event, nil, http.StatusOK)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	event, warnings, err := h.service.UpdateEvent(r.Context(), application.UpdateEventParams{
		EventID: eventID,
		Input:   req.toInput(h.loc),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.renderEvent(r.Context(), w, event, warnings, http.StatusOK)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteEvent(r.Context(), eventID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *EventHandler) Move(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	event, warnings, err := h.service.MoveEvent(r.Context(), application.MoveEventParams{
		EventID: eventID,
		Start:   parseTime(req.Start, h.loc),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.renderEvent(r.Context(), w, event, warnings, http.StatusOK)
}

func (h *EventHandler) Conflicts(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}

	conflicts, err := h.service.ConflictsFor(r.Context(), eventID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEventsResponse{Events: toEventDTOs(conflicts)})
}

func (h *EventHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	days := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxUpcomingDays {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, fmt.Errorf("days must be an integer between 1 and %d", maxUpcomingDays))
			return
		}
		days = parsed
	}

	events, err := h.service.UpcomingEvents(r.Context(), days)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEventsResponse{Events: toEventDTOs(events)})
}

func (h *EventHandler) Import(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.responder.writeError(r.Context(), w, http.StatusRequestEntityTooLarge, fmt.Errorf("calendar exceeds %d bytes", tooLarge.Limit))
			return
		}
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	result, err := h.service.ImportICS(r.Context(), bytes.NewReader(body))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	handlerLogger(r.Context(), h.logger, "EventHandler", "Import").InfoContext(r.Context(), "calendar imported",
		"created", result.Created,
		"updated", result.Updated,
		"skipped", len(result.Skipped),
	)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, importResponse{
		Created: result.Created,
		Updated: result.Updated,
		Skipped: append([]string{}, result.Skipped...),
	})
}

func (h *EventHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportICS(r.Context(), &buf); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		handlerLogger(r.Context(), h.logger, "EventHandler", "Export").ErrorContext(r.Context(), "failed to write calendar", "error", err)
	}
}

func (h *EventHandler) eventID(w http.ResponseWriter, r *http.Request) (string, bool) {
	eventID, ok := EventIDFromContext(r.Context())
	if !ok || strings.TrimSpace(eventID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEventID)
		return "", false
	}
	return eventID, true
}

func (h *EventHandler) renderEvent(ctx context.Context, w http.ResponseWriter, event calendar.Event, warnings []application.ConflictWarning, status int) {
	payload := eventResponse{
		Event:    toEventDTO(event),
		Warnings: toWarningDTOs(warnings),
	}
	if len(payload.Warnings) > 0 {
		handlerLogger(ctx, h.logger, "EventHandler", "").DebugContext(ctx, "conflict warnings returned", "warnings", len(payload.Warnings))
	}
	h.responder.writeJSON(ctx, w, status, payload)
}

type eventRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Color       string   `json:"color"`
	IsAllDay    bool     `json:"isAllDay"`
	Attendees   []string `json:"attendees"`
	Reminder    *int     `json:"reminder"`
}

func (r eventRequest) toInput(loc *time.Location) application.EventInput {
	return application.EventInput{
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Location:    r.Location,
		Start:       parseTime(r.StartDate, loc),
		End:         parseTime(r.EndDate, loc),
		Color:       strings.TrimSpace(r.Color),
		IsAllDay:    r.IsAllDay,
		Attendees:   append([]string(nil), r.Attendees...),
		Reminder:    r.Reminder,
	}
}

type moveRequest struct {
	Start string `json:"start"`
}

// parseTime accepts RFC 3339 timestamps and bare YYYY-MM-DD dates, the latter
// as midnight in loc. Unparseable input yields the zero time so validation
// reports the field as missing.
func parseTime(value string, loc *time.Location) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts
	}
	if day, err := calendar.ParseDate(value); err == nil {
		return day.In(loc)
	}
	return time.Time{}
}

func parseOptionalTime(values map[string][]string, key string) (*time.Time, error) {
	raw := ""
	if v := values[key]; len(v) > 0 {
		raw = strings.TrimSpace(v[0])
	}
	if raw == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an RFC 3339 timestamp", key)
	}
	return &ts, nil
}

func buildListParams(values map[string][]string) (application.ListEventsParams, error) {
	from, err := parseOptionalTime(values, "from")
	if err != nil {
		return application.ListEventsParams{}, err
	}
	to, err := parseOptionalTime(values, "to")
	if err != nil {
		return application.ListEventsParams{}, err
	}
	return application.ListEventsParams{From: from, To: to}, nil
}

type eventResponse struct {
	Event    eventDTO             `json:"event"`
	Warnings []conflictWarningDTO `json:"warnings,omitempty"`
}

type listEventsResponse struct {
	Events []eventDTO `json:"events"`
}

type importResponse struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped []string `json:"skipped"`
}

type eventDTO struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Color       string   `json:"color"`
	IsAllDay    bool     `json:"isAllDay"`
	Attendees   []string `json:"attendees,omitempty"`
	Reminder    *int     `json:"reminder,omitempty"`
}

func toEventDTO(event calendar.Event) eventDTO {
	dto := eventDTO{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		StartDate:   event.Start.Format(time.RFC3339Nano),
		EndDate:     event.End.Format(time.RFC3339Nano),
		Color:       string(event.Color),
		IsAllDay:    event.IsAllDay,
		Attendees:   append([]string(nil), event.Attendees...),
	}
	if event.Reminder != nil {
		reminder := *event.Reminder
		dto.Reminder = &reminder
	}
	return dto
}

func toEventDTOs(events []calendar.Event) []eventDTO {
	out := make([]eventDTO, 0, len(events))
	for _, event := range events {
		out = append(out, toEventDTO(event))
	}
	return out
}

type conflictWarningDTO struct {
	EventID   string `json:"eventId"`
	Title     string `json:"title"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func toWarningDTOs(warnings []application.ConflictWarning) []conflictWarningDTO {
	if len(warnings) == 0 {
		return nil
	}

	out := make([]conflictWarningDTO, 0, len(warnings))
	for _, warning := range warnings {
		out = append(out, conflictWarningDTO{
			EventID:   warning.EventID,
			Title:     warning.Title,
			StartDate: warning.Start.Format(time.RFC3339Nano),
			EndDate:   warning.End.Format(time.RFC3339Nano),
		})
	}
	return out
}
