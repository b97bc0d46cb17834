package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/agendly/agendly/internal/accounts"
)

type userIDKey struct{}

// UserIDFromContext returns the authenticated provider id set by
// RequireAuth.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}

type AuthHandler struct {
	accounts *accounts.Service
	tokens   *accounts.TokenManager
	logger   *slog.Logger
}

func NewAuthHandler(accountsService *accounts.Service, tokens *accounts.TokenManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accountsService, tokens: tokens, logger: logger}
}

type registerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	BusinessName string `json:"business_name"`
	Password     string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  userProfile `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.accounts.Register(r.Context(), accounts.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		BusinessName: req.BusinessName,
		Password:     req.Password,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: toUserProfile(user)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: toUserProfile(user)})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.GetProfile(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserProfile(user))
}

// RequireAuth verifies the Bearer token and stores the provider id on the
// request context.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errorBody{Code: "MISSING_TOKEN", Message: "Authorization header required"}})
			return
		}

		userID, err := h.tokens.Verify(token)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey{}, userID)))
	})
}
