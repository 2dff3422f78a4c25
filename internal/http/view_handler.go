package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/example/calendar-core/internal/application"
	"github.com/example/calendar-core/internal/calendar"
	"github.com/example/calendar-core/internal/search"
)

type viewService interface {
	Today() calendar.Date
	EventsForDay(ctx context.Context, query application.DayQuery) ([]calendar.Event, error)
	EventsForHour(ctx context.Context, query application.HourQuery) ([]calendar.Event, error)
	Search(ctx context.Context, params application.SearchParams) ([]calendar.Event, error)
	MonthView(ctx context.Context, reference calendar.Date) (application.MonthView, error)
	WeekView(ctx context.Context, reference calendar.Date) (application.WeekView, error)
	GroupByDate(ctx context.Context) ([]application.DateGroup, error)
}

type ViewHandler struct {
	service   viewService
	responder responder
	logger    *slog.Logger
}

func NewViewHandler(service viewService, logger *slog.Logger) *ViewHandler {
	return &ViewHandler{service: service, responder: newResponder(logger), logger: logger}
}

func (h *ViewHandler) Day(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	values := r.URL.Query()
	day, err := requiredDate(values, "date")
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	view, err := calendar.ParseViewType(values.Get("view"))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	reference, err := optionalDate(values, "ref", calendar.Date{})
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	events, err := h.service.EventsForDay(r.Context(), application.DayQuery{Date: day, View: view, Reference: reference})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEventsResponse{Events: toEventDTOs(events)})
}

func (h *ViewHandler) Hour(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	values := r.URL.Query()
	day, err := requiredDate(values, "date")
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	hour, err := strconv.Atoi(strings.TrimSpace(values.Get("hour")))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errors.New("hour must be an integer"))
		return
	}

	events, err := h.service.EventsForHour(r.Context(), application.HourQuery{Date: day, Hour: hour})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEventsResponse{Events: toEventDTOs(events)})
}

func (h *ViewHandler) Month(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	reference, err := monthReference(r.URL.Query().Get("ref"), h.service.Today())
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	view, err := h.service.MonthView(r.Context(), reference)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	resp := monthViewResponse{
		Reference: view.Reference.String(),
		WeekStart: view.WeekStart.String(),
		Days:      make([]monthDayDTO, 0, len(view.Days)),
	}
	for _, day := range view.Days {
		resp.Days = append(resp.Days, monthDayDTO{
			Date:    day.Date.String(),
			InMonth: day.InMonth,
			IsToday: day.IsToday,
			Events:  toEventDTOs(day.Events),
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (h *ViewHandler) Week(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	reference, err := optionalDate(r.URL.Query(), "ref", h.service.Today())
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	view, err := h.service.WeekView(r.Context(), reference)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	resp := weekViewResponse{
		Reference: view.Reference.String(),
		WeekStart: view.WeekStart.String(),
		Days:      make([]weekDayDTO, 0, len(view.Days)),
	}
	for _, day := range view.Days {
		dto := weekDayDTO{
			Date:    day.Date.String(),
			IsToday: day.IsToday,
			AllDay:  toEventDTOs(day.AllDay),
			Hours:   make([]hourSlotDTO, 0, len(day.Hours)),
		}
		for _, slot := range day.Hours {
			dto.Hours = append(dto.Hours, hourSlotDTO{Hour: slot.Hour, Events: toEventDTOs(slot.Events)})
		}
		resp.Days = append(resp.Days, dto)
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (h *ViewHandler) Agenda(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	groups, err := h.service.GroupByDate(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	resp := agendaResponse{Groups: make([]dateGroupDTO, 0, len(groups))}
	for _, group := range groups {
		resp.Groups = append(resp.Groups, dateGroupDTO{Date: group.Date.String(), Events: toEventDTOs(group.Events)})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (h *ViewHandler) Search(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	values := r.URL.Query()
	filters, err := buildFilters(values)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	events, err := h.service.Search(r.Context(), application.SearchParams{
		Query:   values.Get("q"),
		Filters: filters,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	handlerLogger(r.Context(), h.logger, "ViewHandler", "Search").DebugContext(r.Context(), "search served", "results", len(events))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEventsResponse{Events: toEventDTOs(events)})
}

func buildFilters(values url.Values) (search.Filters, error) {
	var filters search.Filters
	for _, raw := range values["colors"] {
		for _, part := range strings.Split(raw, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			color, err := calendar.ParseColor(part)
			if err != nil {
				return search.Filters{}, err
			}
			filters.Colors = append(filters.Colors, color)
		}
	}

	if raw := strings.TrimSpace(values.Get("all_day")); raw != "" {
		allDay, err := strconv.ParseBool(raw)
		if err != nil {
			return search.Filters{}, fmt.Errorf("all_day must be a boolean")
		}
		filters.AllDay = &allDay
	}
	return filters, nil
}

func requiredDate(values url.Values, key string) (calendar.Date, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return calendar.Date{}, fmt.Errorf("%s is required", key)
	}
	day, err := calendar.ParseDate(raw)
	if err != nil {
		return calendar.Date{}, fmt.Errorf("%s must be a YYYY-MM-DD date", key)
	}
	return day, nil
}

func optionalDate(values url.Values, key string, fallback calendar.Date) (calendar.Date, error) {
	if strings.TrimSpace(values.Get(key)) == "" {
		return fallback, nil
	}
	return requiredDate(values, key)
}

// monthReference accepts YYYY-MM or YYYY-MM-DD and returns the first of the month.
func monthReference(raw string, today calendar.Date) (calendar.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return today.FirstOfMonth(), nil
	}
	if t, err := time.Parse("2006-01", raw); err == nil {
		return calendar.DateOf(t, nil), nil
	}
	day, err := calendar.ParseDate(raw)
	if err != nil {
		return calendar.Date{}, errors.New("ref must be YYYY-MM or YYYY-MM-DD")
	}
	return day.FirstOfMonth(), nil
}

type monthViewResponse struct {
	Reference string        `json:"reference"`
	WeekStart string        `json:"weekStart"`
	Days      []monthDayDTO `json:"days"`
}

type monthDayDTO struct {
	Date    string     `json:"date"`
	InMonth bool       `json:"inMonth"`
	IsToday bool       `json:"isToday"`
	Events  []eventDTO `json:"events"`
}

type weekViewResponse struct {
	Reference string       `json:"reference"`
	WeekStart string       `json:"weekStart"`
	Days      []weekDayDTO `json:"days"`
}

type weekDayDTO struct {
	Date    string        `json:"date"`
	IsToday bool          `json:"isToday"`
	AllDay  []eventDTO    `json:"allDay"`
	Hours   []hourSlotDTO `json:"hours"`
}

type hourSlotDTO struct {
	Hour   int        `json:"hour"`
	Events []eventDTO `json:"events"`
}

type agendaResponse struct {
	Groups []dateGroupDTO `json:"groups"`
}

type dateGroupDTO struct {
	Date   string     `json:"date"`
	Events []eventDTO `json:"events"`
}
