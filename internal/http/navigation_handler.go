package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/calendar-core/internal/calendar"
	"github.com/example/calendar-core/internal/navigation"
)

type clock interface {
	Today() calendar.Date
}

// NavigationHandler applies key presses to a grid cursor. It is stateless:
// clients send the cursor with every press.
type NavigationHandler struct {
	clock     clock
	responder responder
	logger    *slog.Logger
}

func NewNavigationHandler(clock clock, logger *slog.Logger) *NavigationHandler {
	return &NavigationHandler{clock: clock, responder: newResponder(logger), logger: logger}
}

func (h *NavigationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.clock == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req navigationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	today := h.clock.Today()
	focused := today
	if req.Focused != "" {
		day, err := calendar.ParseDate(req.Focused)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
			return
		}
		focused = day
	}
	cursor := navigation.NewCursor(focused)
	if req.Reference != "" {
		reference, err := monthReference(req.Reference, today)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
			return
		}
		cursor.Reference = reference
	}

	key, err := navigation.ParseKey(req.Key)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	next, action := cursor.Apply(navigation.KeyPress{
		Key:   key,
		Ctrl:  req.CtrlKey,
		Meta:  req.MetaKey,
		Alt:   req.AltKey,
		Shift: req.ShiftKey,
	}, today)

	h.responder.writeJSON(r.Context(), w, http.StatusOK, navigationResponse{
		Focused:   next.Focused.String(),
		Reference: next.Reference.String(),
		Action:    actionName(action),
	})
}

type navigationRequest struct {
	Focused   string `json:"focused"`
	Reference string `json:"reference"`
	Key       string `json:"key"`
	CtrlKey   bool   `json:"ctrlKey"`
	MetaKey   bool   `json:"metaKey"`
	AltKey    bool   `json:"altKey"`
	ShiftKey  bool   `json:"shiftKey"`
}

type navigationResponse struct {
	Focused   string `json:"focused"`
	Reference string `json:"reference"`
	Action    string `json:"action"`
}

func actionName(action navigation.Action) string {
	if action == navigation.ActionNone {
		return "none"
	}
	return string(action)
}
