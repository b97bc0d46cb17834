package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/agendly/agendly/internal/domain"
)

// Business-rule codes that signal a permission problem rather than a state
// conflict; they map to 403 instead of 409.
var forbiddenCodes = map[string]bool{
	"APPOINTMENT_CANCEL_FORBIDDEN": true,
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	code := domain.ErrorCode(err)
	switch {
	case domain.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{Code: code, Message: err.Error()}})
	case domain.IsBusinessRule(err):
		status := http.StatusConflict
		if forbiddenCodes[code] {
			status = http.StatusForbidden
		}
		writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: err.Error()}})
	case domain.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: errorBody{Code: code, Message: err.Error()}})
	case domain.IsUnauthorized(err):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errorBody{Code: code, Message: err.Error()}})
	default:
		logger.Error("internal error", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errorBody{Code: "INTERNAL_ERROR", Message: "Internal server error"}})
	}
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{Code: code, Message: message}})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeBadRequest(w, "INVALID_JSON", "Invalid JSON body")
		return false
	}
	return true
}

// Response DTOs shared across handlers.

type appointmentItem struct {
	ID           string `json:"id"`
	CustomerID   string `json:"customer_id"`
	ServiceID    string `json:"service_id"`
	ProviderID   string `json:"provider_id"`
	StartsAt     string `json:"starts_at"`
	EndsAt       string `json:"ends_at"`
	Status       string `json:"status"`
	Observation  string `json:"observation,omitempty"`
	CancelReason string `json:"cancel_reason,omitempty"`
	CanceledBy   string `json:"canceled_by,omitempty"`
	CanceledAt   string `json:"canceled_at,omitempty"`
	CreatedAt    string `json:"created_at"`
}

func toAppointmentItem(appt *domain.Appointment) appointmentItem {
	item := appointmentItem{
		ID:           appt.ID,
		CustomerID:   appt.CustomerID,
		ServiceID:    appt.ServiceID,
		ProviderID:   appt.ProviderID,
		StartsAt:     appt.StartsAt.Format(time.RFC3339),
		EndsAt:       appt.EndsAt.Format(time.RFC3339),
		Status:       string(appt.Status),
		Observation:  appt.Observation,
		CancelReason: appt.CancelReason,
		CanceledBy:   string(appt.CanceledBy),
		CreatedAt:    appt.CreatedAt.Format(time.RFC3339),
	}
	if appt.CanceledAt != nil {
		item.CanceledAt = appt.CanceledAt.Format(time.RFC3339)
	}
	return item
}

func toAppointmentItems(appts []*domain.Appointment) []appointmentItem {
	items := make([]appointmentItem, 0, len(appts))
	for _, appt := range appts {
		items = append(items, toAppointmentItem(appt))
	}
	return items
}

type serviceItem struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	DurationInMinutes int    `json:"duration_in_minutes"`
	PriceInCents      int    `json:"price_in_cents"`
	IsActive          bool   `json:"is_active"`
}

func toServiceItem(svc *domain.Service) serviceItem {
	return serviceItem{
		ID:                svc.ID,
		Name:              svc.Name,
		Description:       svc.Description,
		DurationInMinutes: svc.DurationInMinutes,
		PriceInCents:      svc.PriceInCents,
		IsActive:          svc.IsActive,
	}
}

func toServiceItems(services []*domain.Service) []serviceItem {
	items := make([]serviceItem, 0, len(services))
	for _, svc := range services {
		items = append(items, toServiceItem(svc))
	}
	return items
}

type customerItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func toCustomerItem(c *domain.Customer) customerItem {
	return customerItem{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone}
}

type availabilityItem struct {
	DayOfWeek int               `json:"day_of_week"`
	Slots     []domain.TimeSlot `json:"slots"`
	IsActive  bool              `json:"is_active"`
}

func toAvailabilityItem(av *domain.Availability) availabilityItem {
	return availabilityItem{DayOfWeek: av.DayOfWeek, Slots: av.Slots, IsActive: av.IsActive}
}

type userProfile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	BusinessName string `json:"business_name"`
	Slug         string `json:"slug"`
}

func toUserProfile(u *domain.User) userProfile {
	return userProfile{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		BusinessName: u.BusinessName,
		Slug:         u.Slug,
	}
}
