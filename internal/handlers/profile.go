package handlers

import (
	"log/slog"
	"net/http"

	"github.com/agendly/agendly/internal/accounts"
)

type ProfileHandler struct {
	accounts *accounts.Service
	logger   *slog.Logger
}

func NewProfileHandler(accountsService *accounts.Service, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{accounts: accountsService, logger: logger}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.GetProfile(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserProfile(user))
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.accounts.UpdateProfile(r.Context(), UserIDFromContext(r.Context()), req.Name, req.Email, req.Phone)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserProfile(user))
}

type updateBusinessRequest struct {
	BusinessName string `json:"business_name"`
	Slug         string `json:"slug"`
}

func (h *ProfileHandler) UpdateBusiness(w http.ResponseWriter, r *http.Request) {
	var req updateBusinessRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.accounts.UpdateBusinessProfile(r.Context(), UserIDFromContext(r.Context()), req.BusinessName, req.Slug)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserProfile(user))
}
