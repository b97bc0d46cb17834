package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agendly/agendly/internal/accounts"
	"github.com/agendly/agendly/internal/catalog"
	"github.com/agendly/agendly/internal/scheduling"
	"github.com/agendly/agendly/internal/storage/memory"
)

// 2026-03-02 is a Monday.
var testNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := memory.NewUserStore()
	services := memory.NewServiceStore()
	customers := memory.NewCustomerStore()
	appointments := memory.NewAppointmentStore()
	availabilities := memory.NewAvailabilityStore()

	accountsService := accounts.NewService(users, testClock)
	tokens := accounts.NewTokenManager("test-secret", time.Hour, testClock)
	scheduler := scheduling.NewScheduler(appointments, availabilities, customers, services, memory.NewEventLog(), memory.TxRunner{}, testClock)
	cat := catalog.NewCatalog(services, customers, appointments, testClock)

	mux := http.NewServeMux()
	Handlers{
		Auth:         NewAuthHandler(accountsService, tokens, logger),
		Availability: NewAvailabilityHandler(scheduler, logger),
		Appointments: NewAppointmentsHandler(scheduler, logger),
		Services:     NewServicesHandler(cat, logger),
		Customers:    NewCustomersHandler(cat, logger),
		Profile:      NewProfileHandler(accountsService, logger),
		Public:       NewPublicHandler(accountsService, cat, scheduler, logger),
	}.Register(mux, nil)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("%s %s: invalid json response %q", method, url, raw)
		}
	}
	return resp, decoded
}

func registerProvider(t *testing.T, srv *httptest.Server) (token, slug string) {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "", map[string]any{
		"name":          "Maria Silva",
		"email":         "maria@example.com",
		"business_name": "Glow Beauty Studio",
		"password":      "s3cret-pass",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%v)", resp.StatusCode, body)
	}
	user := body["user"].(map[string]any)
	return body["token"].(string), user["slug"].(string)
}

func createService(t *testing.T, srv *httptest.Server, token string, durationMinutes int) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/services", token, map[string]any{
		"name":                "Haircut",
		"duration_in_minutes": durationMinutes,
		"price_in_cents":      5000,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create service: expected 201, got %d (%v)", resp.StatusCode, body)
	}
	return body["id"].(string)
}

func setAvailability(t *testing.T, srv *httptest.Server, token string, dayOfWeek int) {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/availability", token, map[string]any{
		"day_of_week": dayOfWeek,
		"slots":       []map[string]string{{"start": "09:00", "end": "12:00"}},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set availability: expected 200, got %d (%v)", resp.StatusCode, body)
	}
}

func errorCode(t *testing.T, body map[string]any) string {
	t.Helper()
	errBody, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error body, got %v", body)
	}
	return errBody["code"].(string)
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t)
	token, _ := registerProvider(t, srv)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/auth/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", resp.StatusCode)
	}
	if body["email"] != "maria@example.com" {
		t.Fatalf("unexpected profile: %v", body)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/auth/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("me without token: expected 401, got %d", resp.StatusCode)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]any{
		"email":    "maria@example.com",
		"password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized || errorCode(t, body) != "INVALID_CREDENTIALS" {
		t.Fatalf("bad login: expected 401 INVALID_CREDENTIALS, got %d (%v)", resp.StatusCode, body)
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]any{
		"email":    "maria@example.com",
		"password": "s3cret-pass",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
}

func TestPublicBookingFlow(t *testing.T) {
	srv := newTestServer(t)
	token, slug := registerProvider(t, srv)
	serviceID := createService(t, srv, token, 30)
	setAvailability(t, srv, token, 1)

	slotsURL := fmt.Sprintf("%s/api/v1/public/%s/slots?serviceId=%s&date=2026-03-02", srv.URL, slug, serviceID)
	resp, body := doJSON(t, http.MethodGet, slotsURL, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("slots: expected 200, got %d (%v)", resp.StatusCode, body)
	}
	slots := body["slots"].([]any)
	if len(slots) != 6 || slots[0] != "09:00" || slots[5] != "11:30" {
		t.Fatalf("unexpected slots: %v", slots)
	}

	scheduleURL := fmt.Sprintf("%s/api/v1/public/%s/schedule", srv.URL, slug)
	booking := map[string]any{
		"service_id":     serviceID,
		"customer_name":  "Jane Doe",
		"customer_email": "jane@example.com",
		"customer_phone": "11987654321",
		"starts_at":      "2026-03-02T10:00:00Z",
		"ends_at":        "2026-03-02T10:30:00Z",
	}
	resp, body = doJSON(t, http.MethodPost, scheduleURL, "", booking)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("schedule: expected 201, got %d (%v)", resp.StatusCode, body)
	}
	if body["status"] != "PENDING" {
		t.Fatalf("expected PENDING booking, got %v", body)
	}

	resp, body = doJSON(t, http.MethodPost, scheduleURL, "", booking)
	if resp.StatusCode != http.StatusConflict || errorCode(t, body) != "APPOINTMENT_CONFLICT" {
		t.Fatalf("double booking: expected 409 APPOINTMENT_CONFLICT, got %d (%v)", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodGet, slotsURL, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("slots after booking: expected 200, got %d", resp.StatusCode)
	}
	for _, slot := range body["slots"].([]any) {
		if slot == "10:00" {
			t.Fatal("booked slot should no longer be offered")
		}
	}
}

func TestPublicProfile(t *testing.T) {
	srv := newTestServer(t)
	token, slug := registerProvider(t, srv)
	createService(t, srv, token, 30)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/public/"+slug, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d", resp.StatusCode)
	}
	if body["business_name"] != "Glow Beauty Studio" {
		t.Fatalf("unexpected profile: %v", body)
	}
	if len(body["services"].([]any)) != 1 {
		t.Fatalf("expected 1 service, got %v", body["services"])
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/public/nobody-here", "", nil)
	if resp.StatusCode != http.StatusNotFound || errorCode(t, body) != "PROVIDER_NOT_FOUND" {
		t.Fatalf("unknown slug: expected 404 PROVIDER_NOT_FOUND, got %d (%v)", resp.StatusCode, body)
	}
}

func TestAppointmentLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	token, slug := registerProvider(t, srv)
	serviceID := createService(t, srv, token, 30)
	setAvailability(t, srv, token, 1)

	resp, body := doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/public/%s/schedule", srv.URL, slug), "", map[string]any{
		"service_id":     serviceID,
		"customer_name":  "Jane Doe",
		"customer_email": "jane@example.com",
		"customer_phone": "11987654321",
		"starts_at":      "2026-03-02T10:00:00Z",
		"ends_at":        "2026-03-02T10:30:00Z",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("schedule: expected 201, got %d (%v)", resp.StatusCode, body)
	}
	apptID := body["id"].(string)

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/v1/appointments/"+apptID+"/complete", token, nil)
	if resp.StatusCode != http.StatusConflict || errorCode(t, body) != "APPOINTMENT_NOT_CONFIRMED" {
		t.Fatalf("complete pending: expected 409 APPOINTMENT_NOT_CONFIRMED, got %d (%v)", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/v1/appointments/"+apptID+"/confirm", token, nil)
	if resp.StatusCode != http.StatusOK || body["status"] != "CONFIRMED" {
		t.Fatalf("confirm: expected 200 CONFIRMED, got %d (%v)", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/v1/appointments/"+apptID+"/complete", token, nil)
	if resp.StatusCode != http.StatusOK || body["status"] != "COMPLETED" {
		t.Fatalf("complete: expected 200 COMPLETED, got %d (%v)", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/v1/appointments/"+apptID+"/cancel", token, map[string]any{"reason": "too late"})
	if resp.StatusCode != http.StatusConflict || errorCode(t, body) != "APPOINTMENT_ALREADY_COMPLETED" {
		t.Fatalf("cancel completed: expected 409 APPOINTMENT_ALREADY_COMPLETED, got %d (%v)", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/appointments?status=COMPLETED", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.StatusCode)
	}
	if appts := body["appointments"].([]any); len(appts) != 1 {
		t.Fatalf("expected 1 completed appointment, got %v", appts)
	}
}

func TestValidationErrorsMapTo400(t *testing.T) {
	srv := newTestServer(t)
	token, _ := registerProvider(t, srv)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/availability", token, map[string]any{
		"day_of_week": 9,
		"slots":       []map[string]string{{"start": "09:00", "end": "12:00"}},
	})
	if resp.StatusCode != http.StatusBadRequest || errorCode(t, body) != "INVALID_DAY_OF_WEEK" {
		t.Fatalf("expected 400 INVALID_DAY_OF_WEEK, got %d (%v)", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/v1/services", token, map[string]any{
		"name":                "X",
		"duration_in_minutes": 30,
	})
	if resp.StatusCode != http.StatusBadRequest || errorCode(t, body) != "INVALID_SERVICE_NAME" {
		t.Fatalf("expected 400 INVALID_SERVICE_NAME, got %d (%v)", resp.StatusCode, body)
	}
}

func TestCustomersEndpoints(t *testing.T) {
	srv := newTestServer(t)
	token, slug := registerProvider(t, srv)
	serviceID := createService(t, srv, token, 30)
	setAvailability(t, srv, token, 1)

	resp, body := doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/public/%s/schedule", srv.URL, slug), "", map[string]any{
		"service_id":     serviceID,
		"customer_name":  "Jane Doe",
		"customer_email": "jane@example.com",
		"customer_phone": "11987654321",
		"starts_at":      "2026-03-02T10:00:00Z",
		"ends_at":        "2026-03-02T10:30:00Z",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("schedule: expected 201, got %d (%v)", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/customers", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list customers: expected 200, got %d", resp.StatusCode)
	}
	customers := body["customers"].([]any)
	if len(customers) != 1 {
		t.Fatalf("expected 1 customer, got %v", customers)
	}
	customerID := customers[0].(map[string]any)["id"].(string)

	resp, body = doJSON(t, http.MethodPut, srv.URL+"/api/v1/customers/"+customerID, token, map[string]any{
		"name":  "Jane Smith",
		"email": "jane@example.com",
		"phone": "11987654321",
	})
	if resp.StatusCode != http.StatusOK || body["name"] != "Jane Smith" {
		t.Fatalf("update customer: expected 200 Jane Smith, got %d (%v)", resp.StatusCode, body)
	}
}

func TestBusinessProfileUpdateChangesPublicSlug(t *testing.T) {
	srv := newTestServer(t)
	token, slug := registerProvider(t, srv)

	resp, body := doJSON(t, http.MethodPut, srv.URL+"/api/v1/profile/business", token, map[string]any{
		"business_name": "Renamed Studio",
	})
	if resp.StatusCode != http.StatusOK || body["slug"] != "renamed-studio" {
		t.Fatalf("update business: expected 200 renamed-studio, got %d (%v)", resp.StatusCode, body)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/public/"+slug, "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("old slug should be gone, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/public/renamed-studio", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("new slug: expected 200, got %d", resp.StatusCode)
	}
}
