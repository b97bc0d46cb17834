// Package memory holds in-memory implementations of the repository
// contracts. They back use-case and handler tests and the local dev mode;
// the appointment store serializes its overlap check and insert under one
// mutex, matching the atomicity Postgres provides through the exclusion
// constraint.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/agendly/agendly/internal/domain"
	"github.com/agendly/agendly/internal/outbox"
)

type AppointmentStore struct {
	mu    sync.Mutex
	items map[string]*domain.Appointment
}

func NewAppointmentStore() *AppointmentStore {
	return &AppointmentStore{items: make(map[string]*domain.Appointment)}
}

func (s *AppointmentStore) Save(ctx context.Context, appt *domain.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if appt.Blocks() {
		for _, other := range s.items {
			if other.ID == appt.ID || other.ProviderID != appt.ProviderID || !other.Blocks() {
				continue
			}
			if appt.StartsAt.Before(other.EndsAt) && other.StartsAt.Before(appt.EndsAt) {
				return domain.NewBusinessRuleError("Time slot is already booked", "APPOINTMENT_CONFLICT")
			}
		}
	}
	clone := *appt
	s.items[appt.ID] = &clone
	return nil
}

func (s *AppointmentStore) FindByID(ctx context.Context, id string) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	appt, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	clone := *appt
	return &clone, nil
}

func (s *AppointmentStore) FindByProviderID(ctx context.Context, providerID string) ([]*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Appointment
	for _, appt := range s.items {
		if appt.ProviderID == providerID {
			clone := *appt
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *AppointmentStore) FindOverlapping(ctx context.Context, providerID string, startsAt, endsAt time.Time, excludeID string) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, appt := range s.items {
		if appt.ProviderID != providerID || appt.ID == excludeID || !appt.Blocks() {
			continue
		}
		if startsAt.Before(appt.EndsAt) && appt.StartsAt.Before(endsAt) {
			clone := *appt
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *AppointmentStore) FindByProviderAndDateRange(ctx context.Context, providerID string, start, end time.Time) ([]*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Appointment
	for _, appt := range s.items {
		if appt.ProviderID != providerID {
			continue
		}
		if !appt.StartsAt.Before(start) && appt.StartsAt.Before(end) {
			clone := *appt
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *AppointmentStore) FindFutureByProviderAndDay(ctx context.Context, providerID string, dayOfWeek int, after time.Time) ([]*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Appointment
	for _, appt := range s.items {
		if appt.ProviderID != providerID || !appt.Blocks() {
			continue
		}
		if appt.StartsAt.After(after) && int(appt.StartsAt.UTC().Weekday()) == dayOfWeek {
			clone := *appt
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *AppointmentStore) ExistsByServiceID(ctx context.Context, serviceID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, appt := range s.items {
		if appt.ServiceID == serviceID {
			return true, nil
		}
	}
	return false, nil
}

type AvailabilityStore struct {
	mu    sync.Mutex
	items map[string]*domain.Availability
}

func NewAvailabilityStore() *AvailabilityStore {
	return &AvailabilityStore{items: make(map[string]*domain.Availability)}
}

func (s *AvailabilityStore) Save(ctx context.Context, av *domain.Availability) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *av
	s.items[av.ID] = &clone
	return nil
}

func (s *AvailabilityStore) FindByID(ctx context.Context, id string) (*domain.Availability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	av, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	clone := *av
	return &clone, nil
}

func (s *AvailabilityStore) FindByProviderIDAndDay(ctx context.Context, providerID string, dayOfWeek int) (*domain.Availability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, av := range s.items {
		if av.ProviderID == providerID && av.DayOfWeek == dayOfWeek {
			clone := *av
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *AvailabilityStore) FindByProviderID(ctx context.Context, providerID string) ([]*domain.Availability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Availability
	for _, av := range s.items {
		if av.ProviderID == providerID {
			clone := *av
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *AvailabilityStore) FindActiveByProviderID(ctx context.Context, providerID string) ([]*domain.Availability, error) {
	all, _ := s.FindByProviderID(ctx, providerID)
	var out []*domain.Availability
	for _, av := range all {
		if av.IsActive {
			out = append(out, av)
		}
	}
	return out, nil
}

func (s *AvailabilityStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

type CustomerStore struct {
	mu    sync.Mutex
	items map[string]*domain.Customer
}

func NewCustomerStore() *CustomerStore {
	return &CustomerStore{items: make(map[string]*domain.Customer)}
}

func (s *CustomerStore) Save(ctx context.Context, c *domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *c
	s.items[c.ID] = &clone
	return nil
}

func (s *CustomerStore) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (s *CustomerStore) FindByEmailAndProvider(ctx context.Context, email, providerID string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.items {
		if c.Email == email && c.ProviderID == providerID {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *CustomerStore) FindByPhoneAndProvider(ctx context.Context, phone, providerID string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.items {
		if c.Phone == phone && c.ProviderID == providerID {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *CustomerStore) FindByProvider(ctx context.Context, providerID string) ([]*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Customer
	for _, c := range s.items {
		if c.ProviderID == providerID {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

type ServiceStore struct {
	mu    sync.Mutex
	items map[string]*domain.Service
}

func NewServiceStore() *ServiceStore {
	return &ServiceStore{items: make(map[string]*domain.Service)}
}

func (s *ServiceStore) Save(ctx context.Context, svc *domain.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *svc
	s.items[svc.ID] = &clone
	return nil
}

func (s *ServiceStore) FindByID(ctx context.Context, id string) (*domain.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	clone := *svc
	return &clone, nil
}

func (s *ServiceStore) FindByProviderID(ctx context.Context, providerID string) ([]*domain.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Service
	for _, svc := range s.items {
		if svc.ProviderID == providerID {
			clone := *svc
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *ServiceStore) FindActiveByProviderID(ctx context.Context, providerID string) ([]*domain.Service, error) {
	all, _ := s.FindByProviderID(ctx, providerID)
	var out []*domain.Service
	for _, svc := range all {
		if svc.IsActive {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (s *ServiceStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

type UserStore struct {
	mu    sync.Mutex
	items map[string]*domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{items: make(map[string]*domain.User)}
}

func (s *UserStore) Save(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *u
	s.items[u.ID] = &clone
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.items {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *UserStore) FindBySlug(ctx context.Context, slug string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.items {
		if u.Slug == slug {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *UserStore) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	u, err := s.FindBySlug(ctx, slug)
	return u != nil, err
}

// TxRunner satisfies domain.TxRunner without transactional semantics; the
// stores above are individually atomic.
type TxRunner struct{}

func (TxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// EventLog collects emitted events in place of the outbox table.
type EventLog struct {
	mu     sync.Mutex
	events []outbox.Event
}

func NewEventLog() *EventLog {
	return &EventLog{}
}

func (l *EventLog) Insert(ctx context.Context, evt outbox.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, evt)
	return nil
}

func (l *EventLog) ByType(eventType string) []outbox.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []outbox.Event
	for _, evt := range l.events {
		if evt.EventType == eventType {
			out = append(out, evt)
		}
	}
	return out
}
