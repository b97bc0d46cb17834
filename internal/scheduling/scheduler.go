// Package scheduling orchestrates the booking domain: weekly availability
// management, available-slot computation, and the appointment lifecycle.
package scheduling

import (
	"context"
	"time"

	"github.com/agendly/agendly/internal/availability"
	"github.com/agendly/agendly/internal/domain"
	"github.com/agendly/agendly/internal/outbox"
)

// EventSink receives domain events. The outbox repository implements it; it
// is an interface so use-case tests can capture events in memory.
type EventSink interface {
	Insert(ctx context.Context, evt outbox.Event) error
}

type Scheduler struct {
	appointments   domain.AppointmentRepository
	availabilities domain.AvailabilityRepository
	customers      domain.CustomerRepository
	services       domain.ServiceRepository
	events         EventSink
	tx             domain.TxRunner
	now            domain.Clock
}

func NewScheduler(
	appointments domain.AppointmentRepository,
	availabilities domain.AvailabilityRepository,
	customers domain.CustomerRepository,
	services domain.ServiceRepository,
	events EventSink,
	tx domain.TxRunner,
	now domain.Clock,
) *Scheduler {
	if now == nil {
		now = domain.SystemClock
	}
	return &Scheduler{
		appointments:   appointments,
		availabilities: availabilities,
		customers:      customers,
		services:       services,
		events:         events,
		tx:             tx,
		now:            now,
	}
}

// SetAvailability upserts a provider's open windows for one day of the week.
// isActive, when non-nil, toggles the day on or off in the same call.
func (s *Scheduler) SetAvailability(ctx context.Context, providerID string, dayOfWeek int, slots []domain.TimeSlot, isActive *bool) (*domain.Availability, error) {
	now := s.now()

	existing, err := s.availabilities.FindByProviderIDAndDay(ctx, providerID, dayOfWeek)
	if err != nil {
		return nil, err
	}

	var av *domain.Availability
	if existing != nil {
		if err := existing.UpdateSlots(slots, now); err != nil {
			return nil, err
		}
		av = existing
	} else {
		av, err = domain.NewAvailability(providerID, dayOfWeek, slots, now)
		if err != nil {
			return nil, err
		}
	}

	if isActive != nil && *isActive != av.IsActive {
		if *isActive {
			err = av.Activate(now)
		} else {
			err = av.Deactivate(now)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := s.availabilities.Save(ctx, av); err != nil {
		return nil, err
	}
	return av, nil
}

func (s *Scheduler) GetAvailability(ctx context.Context, providerID string) ([]*domain.Availability, error) {
	return s.availabilities.FindByProviderID(ctx, providerID)
}

// DeleteAvailability removes a day's windows. It refuses while future
// non-cancelled appointments still fall on that day, so providers cannot
// orphan bookings they have already accepted.
func (s *Scheduler) DeleteAvailability(ctx context.Context, providerID string, dayOfWeek int) error {
	av, err := s.availabilities.FindByProviderIDAndDay(ctx, providerID, dayOfWeek)
	if err != nil {
		return err
	}
	if av == nil {
		return domain.NewNotFoundError("Availability not found", "AVAILABILITY_NOT_FOUND")
	}

	future, err := s.appointments.FindFutureByProviderAndDay(ctx, providerID, dayOfWeek, s.now())
	if err != nil {
		return err
	}
	for _, appt := range future {
		if appt.Blocks() {
			return domain.NewBusinessRuleError(
				"Cannot delete availability with future appointments scheduled",
				"AVAILABILITY_HAS_APPOINTMENTS",
			)
		}
	}

	return s.availabilities.Delete(ctx, av.ID)
}

// FetchAvailableSlots computes the bookable "HH:MM" start times for a
// service on a given UTC date. Absent or inactive availability yields an
// empty list, never an error.
func (s *Scheduler) FetchAvailableSlots(ctx context.Context, providerID, serviceID string, date time.Time) ([]string, error) {
	service, err := s.lookupBookableService(ctx, providerID, serviceID)
	if err != nil {
		return nil, err
	}

	day := date.UTC()
	av, err := s.availabilities.FindByProviderIDAndDay(ctx, providerID, int(day.Weekday()))
	if err != nil {
		return nil, err
	}
	if av == nil || !av.IsActive {
		return []string{}, nil
	}

	candidates := availability.GenerateAllSlots(av.Slots, service.DurationInMinutes)

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	booked, err := s.appointments.FindByProviderAndDateRange(ctx, providerID, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}
	busy := make([]availability.Interval, 0, len(booked))
	for _, appt := range booked {
		if appt.Blocks() {
			busy = append(busy, availability.Interval{Start: appt.StartsAt, End: appt.EndsAt})
		}
	}

	return availability.FilterAvailable(candidates, dayStart, service.DurationInMinutes, busy, s.now()), nil
}

func (s *Scheduler) lookupBookableService(ctx context.Context, providerID, serviceID string) (*domain.Service, error) {
	service, err := s.services.FindByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, domain.NewNotFoundError("Service not found", "SERVICE_NOT_FOUND")
	}
	if service.ProviderID != providerID {
		return nil, domain.NewBusinessRuleError("Service does not belong to this provider", "SERVICE_PROVIDER_MISMATCH")
	}
	if !service.IsActive {
		return nil, domain.NewBusinessRuleError("Service is not active", "SERVICE_INACTIVE")
	}
	return service, nil
}
