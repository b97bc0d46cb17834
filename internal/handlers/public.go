package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/agendly/agendly/internal/accounts"
	"github.com/agendly/agendly/internal/catalog"
	"github.com/agendly/agendly/internal/scheduling"
)

// PublicHandler serves the unauthenticated booking surface, addressed by
// provider slug.
type PublicHandler struct {
	accounts  *accounts.Service
	catalog   *catalog.Catalog
	scheduler *scheduling.Scheduler
	logger    *slog.Logger
}

func NewPublicHandler(accountsService *accounts.Service, cat *catalog.Catalog, scheduler *scheduling.Scheduler, logger *slog.Logger) *PublicHandler {
	return &PublicHandler{accounts: accountsService, catalog: cat, scheduler: scheduler, logger: logger}
}

type publicProfileResponse struct {
	BusinessName string        `json:"business_name"`
	Slug         string        `json:"slug"`
	Services     []serviceItem `json:"services"`
}

func (h *PublicHandler) Profile(w http.ResponseWriter, r *http.Request) {
	provider, err := h.accounts.GetProviderBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	services, err := h.catalog.ListServices(r.Context(), provider.ID, true)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, publicProfileResponse{
		BusinessName: provider.BusinessName,
		Slug:         provider.Slug,
		Services:     toServiceItems(services),
	})
}

func (h *PublicHandler) Slots(w http.ResponseWriter, r *http.Request) {
	provider, err := h.accounts.GetProviderBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	query := r.URL.Query()
	serviceID := query.Get("serviceId")
	if serviceID == "" {
		writeBadRequest(w, "MISSING_SERVICE_ID", "serviceId query parameter is required")
		return
	}
	date, err := time.Parse("2006-01-02", query.Get("date"))
	if err != nil {
		writeBadRequest(w, "INVALID_DATE", "date must be YYYY-MM-DD")
		return
	}

	slots, err := h.scheduler.FetchAvailableSlots(r.Context(), provider.ID, serviceID, date)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":  date.Format("2006-01-02"),
		"slots": slots,
	})
}

type scheduleRequest struct {
	ServiceID     string `json:"service_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	StartsAt      string `json:"starts_at"`
	EndsAt        string `json:"ends_at"`
	Observation   string `json:"observation"`
}

func (h *PublicHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	provider, err := h.accounts.GetProviderBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req scheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		writeBadRequest(w, "INVALID_DATE", "starts_at must be RFC3339")
		return
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		writeBadRequest(w, "INVALID_DATE", "ends_at must be RFC3339")
		return
	}

	appt, err := h.scheduler.CreateAppointment(r.Context(), scheduling.CreateAppointmentInput{
		ProviderID:    provider.ID,
		ServiceID:     req.ServiceID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		StartsAt:      startsAt,
		EndsAt:        endsAt,
		Observation:   req.Observation,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAppointmentItem(appt))
}
