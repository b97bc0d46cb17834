package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/agendly/agendly/internal/domain"
	"github.com/agendly/agendly/internal/outbox"
	"github.com/agendly/agendly/internal/storage/memory"
)

// 2026-03-02 is a Monday.
var (
	testNow    = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	testMonday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
)

type testEnv struct {
	appts     *memory.AppointmentStore
	avs       *memory.AvailabilityStore
	customers *memory.CustomerStore
	services  *memory.ServiceStore
	events    *memory.EventLog
	sched     *Scheduler
}

func newTestEnv() *testEnv {
	env := &testEnv{
		appts:     memory.NewAppointmentStore(),
		avs:       memory.NewAvailabilityStore(),
		customers: memory.NewCustomerStore(),
		services:  memory.NewServiceStore(),
		events:    memory.NewEventLog(),
	}
	env.sched = NewScheduler(env.appts, env.avs, env.customers, env.services, env.events, memory.TxRunner{}, func() time.Time { return testNow })
	return env
}

func (e *testEnv) seedService(t *testing.T, providerID string, durationMinutes int) *domain.Service {
	t.Helper()
	svc, err := domain.NewService(providerID, "Haircut", "", durationMinutes, 5000, testNow)
	if err != nil {
		t.Fatalf("seed service: %v", err)
	}
	if err := e.services.Save(context.Background(), svc); err != nil {
		t.Fatalf("save service: %v", err)
	}
	return svc
}

func (e *testEnv) seedAvailability(t *testing.T, providerID string, dayOfWeek int, slots []domain.TimeSlot) *domain.Availability {
	t.Helper()
	av, err := domain.NewAvailability(providerID, dayOfWeek, slots, testNow)
	if err != nil {
		t.Fatalf("seed availability: %v", err)
	}
	if err := e.avs.Save(context.Background(), av); err != nil {
		t.Fatalf("save availability: %v", err)
	}
	return av
}

func (e *testEnv) bookingInput(svc *domain.Service, clockTime string) CreateAppointmentInput {
	starts := time.Date(testMonday.Year(), testMonday.Month(), testMonday.Day(), 0, 0, 0, 0, time.UTC).
		Add(time.Duration(domain.ClockTimeToMinutes(clockTime)) * time.Minute)
	return CreateAppointmentInput{
		ProviderID:    svc.ProviderID,
		ServiceID:     svc.ID,
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		CustomerPhone: "11987654321",
		StartsAt:      starts,
		EndsAt:        starts.Add(time.Duration(svc.DurationInMinutes) * time.Minute),
	}
}

func TestSetAvailability_CreatesThenUpdates(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	av, err := env.sched.SetAvailability(ctx, "prov-1", 1, []domain.TimeSlot{{Start: "09:00", End: "12:00"}}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !av.IsActive {
		t.Fatal("new availability should be active")
	}

	inactive := false
	updated, err := env.sched.SetAvailability(ctx, "prov-1", 1, []domain.TimeSlot{{Start: "14:00", End: "18:00"}}, &inactive)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != av.ID {
		t.Fatalf("expected upsert to reuse row %s, got %s", av.ID, updated.ID)
	}
	if updated.IsActive {
		t.Fatal("expected availability to be deactivated")
	}
	if len(updated.Slots) != 1 || updated.Slots[0].Start != "14:00" {
		t.Fatalf("expected replaced slots, got %v", updated.Slots)
	}

	days, err := env.sched.GetAvailability(ctx, "prov-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
}

func TestSetAvailability_RejectsOverlappingSlots(t *testing.T) {
	env := newTestEnv()
	_, err := env.sched.SetAvailability(context.Background(), "prov-1", 1, []domain.TimeSlot{
		{Start: "09:00", End: "12:00"},
		{Start: "11:00", End: "14:00"},
	}, nil)
	if domain.ErrorCode(err) != "SLOTS_OVERLAP" {
		t.Fatalf("expected SLOTS_OVERLAP, got %v", err)
	}
}

func TestDeleteAvailability(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	svc := env.seedService(t, "prov-1", 30)
	env.seedAvailability(t, "prov-1", 1, []domain.TimeSlot{{Start: "09:00", End: "12:00"}})

	if err := env.sched.DeleteAvailability(ctx, "prov-1", 2); domain.ErrorCode(err) != "AVAILABILITY_NOT_FOUND" {
		t.Fatalf("expected AVAILABILITY_NOT_FOUND, got %v", err)
	}

	appt, err := env.sched.CreateAppointment(ctx, env.bookingInput(svc, "10:00"))
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if err := env.sched.DeleteAvailability(ctx, "prov-1", 1); domain.ErrorCode(err) != "AVAILABILITY_HAS_APPOINTMENTS" {
		t.Fatalf("expected AVAILABILITY_HAS_APPOINTMENTS, got %v", err)
	}

	if _, err := env.sched.CancelAppointment(ctx, appt.ID, domain.ActorProvider, "prov-1", "closing mondays"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := env.sched.DeleteAvailability(ctx, "prov-1", 1); err != nil {
		t.Fatalf("delete after cancel: %v", err)
	}
}

func TestFetchAvailableSlots_ServiceChecks(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.sched.FetchAvailableSlots(ctx, "prov-1", "missing", testMonday)
	if domain.ErrorCode(err) != "SERVICE_NOT_FOUND" {
		t.Fatalf("expected SERVICE_NOT_FOUND, got %v", err)
	}

	other := env.seedService(t, "prov-2", 30)
	_, err = env.sched.FetchAvailableSlots(ctx, "prov-1", other.ID, testMonday)
	if domain.ErrorCode(err) != "SERVICE_PROVIDER_MISMATCH" {
		t.Fatalf("expected SERVICE_PROVIDER_MISMATCH, got %v", err)
	}

	svc := env.seedService(t, "prov-1", 30)
	svc.Deactivate(testNow)
	if err := env.services.Save(ctx, svc); err != nil {
		t.Fatalf("save: %v", err)
	}
	_, err = env.sched.FetchAvailableSlots(ctx, "prov-1", svc.ID, testMonday)
	if domain.ErrorCode(err) != "SERVICE_INACTIVE" {
		t.Fatalf("expected SERVICE_INACTIVE, got %v", err)
	}
}

func TestFetchAvailableSlots_EmptyWithoutAvailability(t *testing.T) {
	env := newTestEnv()
	svc := env.seedService(t, "prov-1", 30)

	slots, err := env.sched.FetchAvailableSlots(context.Background(), "prov-1", svc.ID, testMonday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots, got %v", slots)
	}
}

func TestFetchAvailableSlots_ExcludesBookedAndPast(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	svc := env.seedService(t, "prov-1", 30)
	env.seedAvailability(t, "prov-1", 1, []domain.TimeSlot{{Start: "09:00", End: "12:00"}})

	if _, err := env.sched.CreateAppointment(ctx, env.bookingInput(svc, "10:00")); err != nil {
		t.Fatalf("book: %v", err)
	}

	slots, err := env.sched.FetchAvailableSlots(ctx, "prov-1", svc.ID, testMonday)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	want := []string{"09:00", "09:30", "10:30", "11:00", "11:30"}
	if len(slots) != len(want) {
		t.Fatalf("expected %v, got %v", want, slots)
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, slots)
		}
	}
}

func TestCreateAppointment_CreatesCustomerAndEmitsEvent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	svc := env.seedService(t, "prov-1", 30)

	appt, err := env.sched.CreateAppointment(ctx, env.bookingInput(svc, "10:00"))
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if appt.Status != domain.StatusPending {
		t.Fatalf("expected PENDING, got %s", appt.Status)
	}

	customer, err := env.customers.FindByEmailAndProvider(ctx, "jane@example.com", "prov-1")
	if err != nil || customer == nil {
		t.Fatalf("expected customer created, got %v %v", customer, err)
	}
	if customer.ID != appt.CustomerID {
		t.Fatalf("appointment should reference created customer")
	}

	booked := env.events.ByType(outbox.EventAppointmentBooked)
	if len(booked) != 1 || booked[0].AggregateID != appt.ID {
		t.Fatalf("expected one booked event for %s, got %v", appt.ID, booked)
	}
}

func TestCreateAppointment_ReusesCustomerByNormalizedEmail(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	svc := env.seedService(t, "prov-1", 30)

	first, err := env.sched.CreateAppointment(ctx, env.bookingInput(svc, "09:00"))
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}

	in := env.bookingInput(svc, "11:00")
	in.CustomerEmail = "  JANE@Example.com "
	second, err := env.sched.CreateAppointment(ctx, in)
	if err != nil {
		t.Fatalf("second booking: %v", err)
	}
	if first.CustomerID != second.CustomerID {
		t.Fatalf("expected same customer, got %s and %s", first.CustomerID, second.CustomerID)
	}
}

func TestCreateAppointment_Conflict(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	svc := env.seedService(t, "prov-1", 30)

	if _, err := env.sched.CreateAppointment(ctx, env.bookingInput(svc, "10:00")); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	in := env.bookingInput(svc, "10:15")
	in.CustomerEmail = "other@example.com"
	_, err := env.sched.CreateAppointment(ctx, in)
	if domain.ErrorCode(err) != "APPOINTMENT_CONFLICT" {
		t.Fatalf("expected APPOINTMENT_CONFLICT, got %v", err)
	}

	appts, _ := env.appts.FindByProviderID(ctx, "prov-1")
	if len(appts) != 1 {
		t.Fatalf("expected 1 stored appointment, got %d", len(appts))
	}
}

func TestCreateAppointment_CancelledDoesNotBlock(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	svc := env.seedService(t, "prov-1", 30)

	first, err := env.sched.CreateAppointment(ctx, env.bookingInput(svc, "10:00"))
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := env.sched.CancelAppointment(ctx, first.ID, domain.ActorProvider, "prov-1", ""); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := env.sched.CreateAppointment(ctx, env.bookingInput(svc, "10:00")); err != nil {
		t.Fatalf("rebooking freed slot: %v", err)
	}
}

func TestCancelAppointment_WrongCustomerForbidden(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	svc := env.seedService(t, "prov-1", 30)

	appt, err := env.sched.CreateAppointment(ctx, env.bookingInput(svc, "10:00"))
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	_, err = env.sched.CancelAppointment(ctx, appt.ID, domain.ActorCustomer, "someone-else", "")
	if domain.ErrorCode(err) != "APPOINTMENT_CANCEL_FORBIDDEN" {
		t.Fatalf("expected APPOINTMENT_CANCEL_FORBIDDEN, got %v", err)
	}

	stored, _ := env.appts.FindByID(ctx, appt.ID)
	if stored.Status != domain.StatusPending {
		t.Fatalf("status should be unchanged, got %s", stored.Status)
	}
}

func TestCancelAppointment_ByCustomerEmitsEvent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	svc := env.seedService(t, "prov-1", 30)

	appt, err := env.sched.CreateAppointment(ctx, env.bookingInput(svc, "10:00"))
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	cancelled, err := env.sched.CancelAppointment(ctx, appt.ID, domain.ActorCustomer, appt.CustomerID, "cannot make it")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.CanceledBy != domain.ActorCustomer || cancelled.CancelReason != "cannot make it" {
		t.Fatalf("cancel metadata not recorded: %+v", cancelled)
	}
	if events := env.events.ByType(outbox.EventAppointmentCancelled); len(events) != 1 {
		t.Fatalf("expected one cancelled event, got %d", len(events))
	}
}

func TestConfirmAppointment_OwnershipAndEvent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	svc := env.seedService(t, "prov-1", 30)

	appt, err := env.sched.CreateAppointment(ctx, env.bookingInput(svc, "10:00"))
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if _, err := env.sched.ConfirmAppointment(ctx, "prov-2", appt.ID); domain.ErrorCode(err) != "APPOINTMENT_NOT_FOUND" {
		t.Fatalf("foreign provider should read not found, got %v", err)
	}

	confirmed, err := env.sched.ConfirmAppointment(ctx, "prov-1", appt.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != domain.StatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", confirmed.Status)
	}
	if events := env.events.ByType(outbox.EventAppointmentConfirmed); len(events) != 1 {
		t.Fatalf("expected one confirmed event, got %d", len(events))
	}

	completed, err := env.sched.CompleteAppointment(ctx, "prov-1", appt.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != domain.StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", completed.Status)
	}
}

func TestListAppointments_FilterAndOrder(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	svc := env.seedService(t, "prov-1", 30)

	late, err := env.sched.CreateAppointment(ctx, env.bookingInput(svc, "11:00"))
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	early, err := env.sched.CreateAppointment(ctx, env.bookingInput(svc, "09:00"))
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if _, err := env.sched.ConfirmAppointment(ctx, "prov-1", early.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	all, err := env.sched.ListAppointments(ctx, "prov-1", nil, nil, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].ID != early.ID || all[1].ID != late.ID {
		t.Fatalf("expected ascending order [%s %s], got %v", early.ID, late.ID, all)
	}

	confirmed, err := env.sched.ListAppointments(ctx, "prov-1", nil, nil, "CONFIRMED")
	if err != nil {
		t.Fatalf("list confirmed: %v", err)
	}
	if len(confirmed) != 1 || confirmed[0].ID != early.ID {
		t.Fatalf("expected only the confirmed appointment, got %v", confirmed)
	}

	if _, err := env.sched.ListAppointments(ctx, "prov-1", nil, nil, "bogus"); domain.ErrorCode(err) != "INVALID_APPOINTMENT_STATUS" {
		t.Fatalf("expected INVALID_APPOINTMENT_STATUS, got %v", err)
	}
}

func TestConcurrentBooking_AtMostOneWins(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	svc := env.seedService(t, "prov-1", 30)

	type result struct{ err error }
	results := make(chan result, 2)
	for i := 0; i < 2; i++ {
		email := []string{"a@example.com", "b@example.com"}[i]
		go func(email string) {
			in := env.bookingInput(svc, "10:00")
			in.CustomerEmail = email
			_, err := env.sched.CreateAppointment(ctx, in)
			results <- result{err: err}
		}(email)
	}

	var successes, conflicts int
	for i := 0; i < 2; i++ {
		r := <-results
		switch {
		case r.err == nil:
			successes++
		case domain.ErrorCode(r.err) == "APPOINTMENT_CONFLICT":
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", r.err)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one success and one conflict, got %d/%d", successes, conflicts)
	}

	appts, _ := env.appts.FindByProviderID(ctx, "prov-1")
	blocking := 0
	for _, appt := range appts {
		if appt.Blocks() {
			blocking++
		}
	}
	if blocking != 1 {
		t.Fatalf("expected exactly one stored blocking appointment, got %d", blocking)
	}
}
