package scheduling

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/agendly/agendly/internal/domain"
	"github.com/agendly/agendly/internal/outbox"
)

// CreateAppointmentInput carries a booking request from the public surface.
// Customer identity is by email within the provider; an unknown email
// creates the customer in the same transaction as the appointment.
type CreateAppointmentInput struct {
	ProviderID    string
	ServiceID     string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	StartsAt      time.Time
	EndsAt        time.Time
	Observation   string
}

// CreateAppointment books a time slot. The customer find-or-create, the
// overlap pre-check, the appointment insert, and the outbox event commit or
// roll back as one transaction. The pre-check gives a friendly error for the
// common case; the store's exclusion constraint is the authoritative guard
// and surfaces the same APPOINTMENT_CONFLICT when two requests race.
func (s *Scheduler) CreateAppointment(ctx context.Context, in CreateAppointmentInput) (*domain.Appointment, error) {
	service, err := s.lookupBookableService(ctx, in.ProviderID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var appt *domain.Appointment
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		customer, err := s.findOrCreateCustomer(ctx, in, now)
		if err != nil {
			return err
		}

		conflict, err := s.appointments.FindOverlapping(ctx, in.ProviderID, in.StartsAt.UTC(), in.EndsAt.UTC(), "")
		if err != nil {
			return err
		}
		if conflict != nil {
			return domain.NewBusinessRuleError("Time slot is already booked", "APPOINTMENT_CONFLICT")
		}

		appt, err = domain.NewAppointment(customer.ID, service.ID, in.ProviderID, in.StartsAt.UTC(), in.EndsAt.UTC(), in.Observation, now)
		if err != nil {
			return err
		}
		if err := s.appointments.Save(ctx, appt); err != nil {
			return err
		}
		return s.emit(ctx, outbox.EventAppointmentBooked, appt)
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *Scheduler) findOrCreateCustomer(ctx context.Context, in CreateAppointmentInput, now time.Time) (*domain.Customer, error) {
	email := domain.NormalizeEmail(in.CustomerEmail)
	existing, err := s.customers.FindByEmailAndProvider(ctx, email, in.ProviderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	customer, err := domain.NewCustomer(in.ProviderID, in.CustomerName, in.CustomerEmail, in.CustomerPhone, now)
	if err != nil {
		return nil, err
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetAppointment fetches one of the provider's appointments. An appointment
// owned by a different provider reads as not found.
func (s *Scheduler) GetAppointment(ctx context.Context, providerID, id string) (*domain.Appointment, error) {
	appt, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt == nil || appt.ProviderID != providerID {
		return nil, domain.NewNotFoundError("Appointment not found", "APPOINTMENT_NOT_FOUND")
	}
	return appt, nil
}

func (s *Scheduler) ConfirmAppointment(ctx context.Context, providerID, id string) (*domain.Appointment, error) {
	return s.transition(ctx, providerID, id, func(appt *domain.Appointment, now time.Time) error {
		return appt.Confirm(now)
	}, outbox.EventAppointmentConfirmed)
}

func (s *Scheduler) CompleteAppointment(ctx context.Context, providerID, id string) (*domain.Appointment, error) {
	return s.transition(ctx, providerID, id, func(appt *domain.Appointment, now time.Time) error {
		return appt.Complete(now)
	}, "")
}

func (s *Scheduler) MarkAppointmentNoShow(ctx context.Context, providerID, id string) (*domain.Appointment, error) {
	return s.transition(ctx, providerID, id, func(appt *domain.Appointment, now time.Time) error {
		return appt.MarkAsNoShow(now)
	}, "")
}

// CancelAppointment cancels on behalf of an actor. A PROVIDER actor must own
// the appointment and a CUSTOMER actor must be its customer; the permission
// check runs before any state change.
func (s *Scheduler) CancelAppointment(ctx context.Context, id string, actor domain.CancelActor, actorID, reason string) (*domain.Appointment, error) {
	appt, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, domain.NewNotFoundError("Appointment not found", "APPOINTMENT_NOT_FOUND")
	}

	switch actor {
	case domain.ActorProvider:
		if appt.ProviderID != actorID {
			return nil, domain.NewBusinessRuleError("Not allowed to cancel this appointment", "APPOINTMENT_CANCEL_FORBIDDEN")
		}
	case domain.ActorCustomer:
		if appt.CustomerID != actorID {
			return nil, domain.NewBusinessRuleError("Not allowed to cancel this appointment", "APPOINTMENT_CANCEL_FORBIDDEN")
		}
	case domain.ActorSystem:
	default:
		return nil, domain.NewValidationError("Invalid cancellation actor: "+string(actor), "INVALID_CANCEL_ACTOR")
	}

	now := s.now()
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := appt.Cancel(reason, actor, now); err != nil {
			return err
		}
		if err := s.appointments.Save(ctx, appt); err != nil {
			return err
		}
		return s.emit(ctx, outbox.EventAppointmentCancelled, appt)
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

// ListAppointments returns the provider's appointments sorted by start time,
// optionally restricted to [from, to) and a status.
func (s *Scheduler) ListAppointments(ctx context.Context, providerID string, from, to *time.Time, status string) ([]*domain.Appointment, error) {
	var filter domain.AppointmentStatus
	if status != "" {
		parsed, err := domain.ParseAppointmentStatus(status)
		if err != nil {
			return nil, err
		}
		filter = parsed
	}

	var appts []*domain.Appointment
	var err error
	if from != nil && to != nil {
		appts, err = s.appointments.FindByProviderAndDateRange(ctx, providerID, from.UTC(), to.UTC())
	} else {
		appts, err = s.appointments.FindByProviderID(ctx, providerID)
	}
	if err != nil {
		return nil, err
	}

	if filter != "" {
		kept := appts[:0]
		for _, appt := range appts {
			if appt.Status == filter {
				kept = append(kept, appt)
			}
		}
		appts = kept
	}
	sort.Slice(appts, func(i, j int) bool { return appts[i].StartsAt.Before(appts[j].StartsAt) })
	return appts, nil
}

func (s *Scheduler) transition(ctx context.Context, providerID, id string, apply func(*domain.Appointment, time.Time) error, eventType string) (*domain.Appointment, error) {
	appt, err := s.GetAppointment(ctx, providerID, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := apply(appt, now); err != nil {
			return err
		}
		if err := s.appointments.Save(ctx, appt); err != nil {
			return err
		}
		if eventType != "" {
			return s.emit(ctx, eventType, appt)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *Scheduler) emit(ctx context.Context, eventType string, appt *domain.Appointment) error {
	payload, err := json.Marshal(map[string]any{
		"appointment_id": appt.ID,
		"provider_id":    appt.ProviderID,
		"customer_id":    appt.CustomerID,
		"service_id":     appt.ServiceID,
		"starts_at":      appt.StartsAt.Format(time.RFC3339),
		"ends_at":        appt.EndsAt.Format(time.RFC3339),
		"status":         string(appt.Status),
	})
	if err != nil {
		return err
	}
	return s.events.Insert(ctx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   appt.ID,
		EventType:     eventType,
		Payload:       payload,
	})
}
