package handlers

import (
	"log/slog"
	"net/http"

	"github.com/agendly/agendly/internal/catalog"
)

type CustomersHandler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func NewCustomersHandler(cat *catalog.Catalog, logger *slog.Logger) *CustomersHandler {
	return &CustomersHandler{catalog: cat, logger: logger}
}

func (h *CustomersHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.catalog.ListCustomers(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	items := make([]customerItem, 0, len(customers))
	for _, c := range customers {
		items = append(items, toCustomerItem(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"customers": items})
}

type updateCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (h *CustomersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateCustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	customer, err := h.catalog.UpdateCustomer(r.Context(), UserIDFromContext(r.Context()), r.PathValue("id"), req.Name, req.Email, req.Phone)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerItem(customer))
}
