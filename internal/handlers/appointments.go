package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/agendly/agendly/internal/domain"
	"github.com/agendly/agendly/internal/scheduling"
)

type AppointmentsHandler struct {
	scheduler *scheduling.Scheduler
	logger    *slog.Logger
}

func NewAppointmentsHandler(scheduler *scheduling.Scheduler, logger *slog.Logger) *AppointmentsHandler {
	return &AppointmentsHandler{scheduler: scheduler, logger: logger}
}

func (h *AppointmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var from, to *time.Time
	if raw := query.Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeBadRequest(w, "INVALID_DATE", "from must be YYYY-MM-DD")
			return
		}
		from = &parsed
	}
	if raw := query.Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeBadRequest(w, "INVALID_DATE", "to must be YYYY-MM-DD")
			return
		}
		end := parsed.Add(24 * time.Hour)
		to = &end
	}
	if (from == nil) != (to == nil) {
		writeBadRequest(w, "INVALID_DATE_RANGE", "from and to must be provided together")
		return
	}

	appts, err := h.scheduler.ListAppointments(r.Context(), UserIDFromContext(r.Context()), from, to, query.Get("status"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": toAppointmentItems(appts)})
}

func (h *AppointmentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	appt, err := h.scheduler.GetAppointment(r.Context(), UserIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentItem(appt))
}

func (h *AppointmentsHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	appt, err := h.scheduler.ConfirmAppointment(r.Context(), UserIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentItem(appt))
}

func (h *AppointmentsHandler) Complete(w http.ResponseWriter, r *http.Request) {
	appt, err := h.scheduler.CompleteAppointment(r.Context(), UserIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentItem(appt))
}

func (h *AppointmentsHandler) NoShow(w http.ResponseWriter, r *http.Request) {
	appt, err := h.scheduler.MarkAppointmentNoShow(r.Context(), UserIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentItem(appt))
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *AppointmentsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if r.Body != nil && r.ContentLength != 0 {
		if !decodeJSON(w, r, &req) {
			return
		}
	}

	appt, err := h.scheduler.CancelAppointment(r.Context(), r.PathValue("id"), domain.ActorProvider, UserIDFromContext(r.Context()), req.Reason)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentItem(appt))
}
