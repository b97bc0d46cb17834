package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/agendly/agendly/internal/domain"
	"github.com/agendly/agendly/internal/scheduling"
)

type AvailabilityHandler struct {
	scheduler *scheduling.Scheduler
	logger    *slog.Logger
}

func NewAvailabilityHandler(scheduler *scheduling.Scheduler, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{scheduler: scheduler, logger: logger}
}

type setAvailabilityRequest struct {
	DayOfWeek int               `json:"day_of_week"`
	Slots     []domain.TimeSlot `json:"slots"`
	IsActive  *bool             `json:"is_active,omitempty"`
}

func (h *AvailabilityHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req setAvailabilityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	av, err := h.scheduler.SetAvailability(r.Context(), UserIDFromContext(r.Context()), req.DayOfWeek, req.Slots, req.IsActive)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAvailabilityItem(av))
}

func (h *AvailabilityHandler) List(w http.ResponseWriter, r *http.Request) {
	days, err := h.scheduler.GetAvailability(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	items := make([]availabilityItem, 0, len(days))
	for _, av := range days {
		items = append(items, toAvailabilityItem(av))
	}
	writeJSON(w, http.StatusOK, map[string]any{"availability": items})
}

func (h *AvailabilityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	dayOfWeek, err := strconv.Atoi(r.PathValue("dayOfWeek"))
	if err != nil {
		writeBadRequest(w, "INVALID_DAY_OF_WEEK", "Day of week must be a number between 0 and 6")
		return
	}

	if err := h.scheduler.DeleteAvailability(r.Context(), UserIDFromContext(r.Context()), dayOfWeek); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
