package handlers

import (
	"net/http"

	"github.com/agendly/agendly/libs/httpx"
)

// Handlers groups every HTTP handler so route registration and tests share
// one wiring.
type Handlers struct {
	Auth         *AuthHandler
	Availability *AvailabilityHandler
	Appointments *AppointmentsHandler
	Services     *ServicesHandler
	Customers    *CustomersHandler
	Profile      *ProfileHandler
	Public       *PublicHandler
}

// Register mounts all routes. publicMW wraps the unauthenticated surface
// (rate limiting); pass nil to mount it bare.
func (h Handlers) Register(mux *http.ServeMux, publicMW httpx.Middleware) {
	public := func(fn http.HandlerFunc) http.Handler {
		if publicMW == nil {
			return fn
		}
		return publicMW(fn)
	}
	private := func(fn http.HandlerFunc) http.Handler {
		return h.Auth.RequireAuth(fn)
	}

	mux.Handle("GET /api/v1/public/{slug}", public(h.Public.Profile))
	mux.Handle("GET /api/v1/public/{slug}/slots", public(h.Public.Slots))
	mux.Handle("POST /api/v1/public/{slug}/schedule", public(h.Public.Schedule))

	mux.Handle("POST /api/v1/auth/register", public(h.Auth.Register))
	mux.Handle("POST /api/v1/auth/login", public(h.Auth.Login))
	mux.Handle("GET /api/v1/auth/me", private(h.Auth.Me))

	mux.Handle("GET /api/v1/availability", private(h.Availability.List))
	mux.Handle("POST /api/v1/availability", private(h.Availability.Set))
	mux.Handle("DELETE /api/v1/availability/{dayOfWeek}", private(h.Availability.Delete))

	mux.Handle("GET /api/v1/appointments", private(h.Appointments.List))
	mux.Handle("GET /api/v1/appointments/{id}", private(h.Appointments.Get))
	mux.Handle("POST /api/v1/appointments/{id}/confirm", private(h.Appointments.Confirm))
	mux.Handle("POST /api/v1/appointments/{id}/complete", private(h.Appointments.Complete))
	mux.Handle("POST /api/v1/appointments/{id}/no-show", private(h.Appointments.NoShow))
	mux.Handle("POST /api/v1/appointments/{id}/cancel", private(h.Appointments.Cancel))

	mux.Handle("GET /api/v1/services", private(h.Services.List))
	mux.Handle("POST /api/v1/services", private(h.Services.Create))
	mux.Handle("PUT /api/v1/services/{id}", private(h.Services.Update))
	mux.Handle("DELETE /api/v1/services/{id}", private(h.Services.Delete))

	mux.Handle("GET /api/v1/customers", private(h.Customers.List))
	mux.Handle("PUT /api/v1/customers/{id}", private(h.Customers.Update))

	mux.Handle("GET /api/v1/profile", private(h.Profile.Get))
	mux.Handle("PUT /api/v1/profile", private(h.Profile.Update))
	mux.Handle("PUT /api/v1/profile/business", private(h.Profile.UpdateBusiness))
}
