package domain

import (
	"context"
	"time"
)

// Repository contracts implemented by internal/storage. Finders return
// (nil, nil) when the entity does not exist; errors are reserved for
// infrastructure failures, with one exception: AppointmentRepository.Save
// returns the APPOINTMENT_CONFLICT business-rule error when the store's
// exclusion constraint rejects an overlapping booking. That write-time signal
// is the authoritative double-booking guard.

type AppointmentRepository interface {
	Save(ctx context.Context, appointment *Appointment) error
	FindByID(ctx context.Context, id string) (*Appointment, error)
	FindByProviderID(ctx context.Context, providerID string) ([]*Appointment, error)
	FindOverlapping(ctx context.Context, providerID string, startsAt, endsAt time.Time, excludeID string) (*Appointment, error)
	FindByProviderAndDateRange(ctx context.Context, providerID string, start, end time.Time) ([]*Appointment, error)
	FindFutureByProviderAndDay(ctx context.Context, providerID string, dayOfWeek int, after time.Time) ([]*Appointment, error)
	ExistsByServiceID(ctx context.Context, serviceID string) (bool, error)
}

type AvailabilityRepository interface {
	Save(ctx context.Context, availability *Availability) error
	FindByID(ctx context.Context, id string) (*Availability, error)
	FindByProviderIDAndDay(ctx context.Context, providerID string, dayOfWeek int) (*Availability, error)
	FindByProviderID(ctx context.Context, providerID string) ([]*Availability, error)
	FindActiveByProviderID(ctx context.Context, providerID string) ([]*Availability, error)
	Delete(ctx context.Context, id string) error
}

type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, id string) (*Customer, error)
	FindByEmailAndProvider(ctx context.Context, email, providerID string) (*Customer, error)
	FindByPhoneAndProvider(ctx context.Context, phone, providerID string) (*Customer, error)
	FindByProvider(ctx context.Context, providerID string) ([]*Customer, error)
}

type ServiceRepository interface {
	Save(ctx context.Context, service *Service) error
	FindByID(ctx context.Context, id string) (*Service, error)
	FindByProviderID(ctx context.Context, providerID string) ([]*Service, error)
	FindActiveByProviderID(ctx context.Context, providerID string) ([]*Service, error)
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Save(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindBySlug(ctx context.Context, slug string) (*User, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// TxRunner scopes a unit of work to one storage transaction. The pgx
// implementation carries the transaction on the context; the in-memory test
// implementation just runs fn.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
