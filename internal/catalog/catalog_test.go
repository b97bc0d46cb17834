package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/agendly/agendly/internal/domain"
	"github.com/agendly/agendly/internal/storage/memory"
)

var testNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

func newTestCatalog() (*Catalog, *memory.ServiceStore, *memory.CustomerStore, *memory.AppointmentStore) {
	services := memory.NewServiceStore()
	customers := memory.NewCustomerStore()
	appointments := memory.NewAppointmentStore()
	return NewCatalog(services, customers, appointments, testClock), services, customers, appointments
}

func TestCreateAndUpdateService(t *testing.T) {
	cat, _, _, _ := newTestCatalog()
	ctx := context.Background()

	svc, err := cat.CreateService(ctx, "prov-1", ServiceInput{
		Name:              "Haircut",
		Description:       "Classic cut",
		DurationInMinutes: 30,
		PriceInCents:      5000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !svc.IsActive {
		t.Fatal("new service should be active")
	}

	inactive := false
	updated, err := cat.UpdateService(ctx, "prov-1", svc.ID, ServiceInput{
		Name:              "Haircut Deluxe",
		DurationInMinutes: 45,
		PriceInCents:      7500,
		IsActive:          &inactive,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Haircut Deluxe" || updated.DurationInMinutes != 45 || updated.IsActive {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestUpdateService_OwnershipReadsNotFound(t *testing.T) {
	cat, _, _, _ := newTestCatalog()
	ctx := context.Background()

	svc, err := cat.CreateService(ctx, "prov-1", ServiceInput{Name: "Haircut", DurationInMinutes: 30})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = cat.UpdateService(ctx, "prov-2", svc.ID, ServiceInput{Name: "Hijack", DurationInMinutes: 30})
	if domain.ErrorCode(err) != "SERVICE_NOT_FOUND" {
		t.Fatalf("expected SERVICE_NOT_FOUND, got %v", err)
	}
}

func TestListServices_ActiveFilter(t *testing.T) {
	cat, _, _, _ := newTestCatalog()
	ctx := context.Background()

	if _, err := cat.CreateService(ctx, "prov-1", ServiceInput{Name: "Haircut", DurationInMinutes: 30}); err != nil {
		t.Fatalf("create: %v", err)
	}
	inactive := false
	if _, err := cat.CreateService(ctx, "prov-1", ServiceInput{Name: "Retired", DurationInMinutes: 30, IsActive: &inactive}); err != nil {
		t.Fatalf("create inactive: %v", err)
	}

	all, _ := cat.ListServices(ctx, "prov-1", false)
	active, _ := cat.ListServices(ctx, "prov-1", true)
	if len(all) != 2 || len(active) != 1 {
		t.Fatalf("expected 2 total / 1 active, got %d / %d", len(all), len(active))
	}
}

func TestDeleteService_BlockedByAppointments(t *testing.T) {
	cat, services, _, appointments := newTestCatalog()
	ctx := context.Background()

	svc, err := cat.CreateService(ctx, "prov-1", ServiceInput{Name: "Haircut", DurationInMinutes: 30})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	starts := testNow.Add(24 * time.Hour)
	appt, err := domain.NewAppointment("cust-1", svc.ID, "prov-1", starts, starts.Add(30*time.Minute), "", testNow)
	if err != nil {
		t.Fatalf("new appointment: %v", err)
	}
	if err := appointments.Save(ctx, appt); err != nil {
		t.Fatalf("save appointment: %v", err)
	}

	if err := cat.DeleteService(ctx, "prov-1", svc.ID); domain.ErrorCode(err) != "SERVICE_HAS_APPOINTMENTS" {
		t.Fatalf("expected SERVICE_HAS_APPOINTMENTS, got %v", err)
	}

	other, err := cat.CreateService(ctx, "prov-1", ServiceInput{Name: "Unbooked", DurationInMinutes: 30})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := cat.DeleteService(ctx, "prov-1", other.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := services.FindByID(ctx, other.ID); got != nil {
		t.Fatal("service should be gone")
	}
}

func TestUpdateCustomer(t *testing.T) {
	cat, _, customers, _ := newTestCatalog()
	ctx := context.Background()

	customer, err := domain.NewCustomer("prov-1", "Jane Doe", "jane@example.com", "11987654321", testNow)
	if err != nil {
		t.Fatalf("new customer: %v", err)
	}
	if err := customers.Save(ctx, customer); err != nil {
		t.Fatalf("save: %v", err)
	}

	updated, err := cat.UpdateCustomer(ctx, "prov-1", customer.ID, "Jane Smith", "jane.smith@example.com", "11912345678")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Jane Smith" || updated.Email != "jane.smith@example.com" {
		t.Fatalf("update not applied: %+v", updated)
	}

	_, err = cat.UpdateCustomer(ctx, "prov-2", customer.ID, "Jane", "jane@example.com", "11987654321")
	if domain.ErrorCode(err) != "CUSTOMER_NOT_FOUND" {
		t.Fatalf("foreign provider: expected CUSTOMER_NOT_FOUND, got %v", err)
	}
}
