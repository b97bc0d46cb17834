package handlers

import (
	"log/slog"
	"net/http"

	"github.com/agendly/agendly/internal/catalog"
)

type ServicesHandler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func NewServicesHandler(cat *catalog.Catalog, logger *slog.Logger) *ServicesHandler {
	return &ServicesHandler{catalog: cat, logger: logger}
}

type serviceRequest struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	DurationInMinutes int    `json:"duration_in_minutes"`
	PriceInCents      int    `json:"price_in_cents"`
	IsActive          *bool  `json:"is_active,omitempty"`
}

func (req serviceRequest) toInput() catalog.ServiceInput {
	return catalog.ServiceInput{
		Name:              req.Name,
		Description:       req.Description,
		DurationInMinutes: req.DurationInMinutes,
		PriceInCents:      req.PriceInCents,
		IsActive:          req.IsActive,
	}
}

func (h *ServicesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	svc, err := h.catalog.CreateService(r.Context(), UserIDFromContext(r.Context()), req.toInput())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toServiceItem(svc))
}

func (h *ServicesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	svc, err := h.catalog.UpdateService(r.Context(), UserIDFromContext(r.Context()), r.PathValue("id"), req.toInput())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toServiceItem(svc))
}

func (h *ServicesHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	services, err := h.catalog.ListServices(r.Context(), UserIDFromContext(r.Context()), activeOnly)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": toServiceItems(services)})
}

func (h *ServicesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteService(r.Context(), UserIDFromContext(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
