package domain

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusNoShow    AppointmentStatus = "NO_SHOW"
)

// ParseAppointmentStatus validates a caller-supplied status filter.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch AppointmentStatus(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return AppointmentStatus(s), nil
	default:
		return "", NewValidationError("Invalid appointment status: "+s, "INVALID_APPOINTMENT_STATUS")
	}
}

// CancelActor identifies who cancelled an appointment.
type CancelActor string

const (
	ActorCustomer CancelActor = "CUSTOMER"
	ActorProvider CancelActor = "PROVIDER"
	ActorSystem   CancelActor = "SYSTEM"
)

func ParseCancelActor(s string) (CancelActor, error) {
	switch CancelActor(s) {
	case ActorCustomer, ActorProvider, ActorSystem:
		return CancelActor(s), nil
	default:
		return "", NewValidationError("Invalid cancellation actor: "+s, "INVALID_CANCEL_ACTOR")
	}
}

// Appointment is one booking. Appointments are never physically deleted;
// CANCELLED and COMPLETED are terminal states.
type Appointment struct {
	ID           string
	CustomerID   string
	ServiceID    string
	ProviderID   string
	StartsAt     time.Time
	EndsAt       time.Time
	Status       AppointmentStatus
	Observation  string
	CancelReason string
	CanceledBy   CancelActor
	CanceledAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewAppointment(customerID, serviceID, providerID string, startsAt, endsAt time.Time, observation string, now time.Time) (*Appointment, error) {
	if startsAt.Before(now) {
		return nil, NewValidationError("Cannot schedule appointments in the past", "APPOINTMENT_PAST_DATE")
	}
	if !endsAt.After(startsAt) {
		return nil, NewValidationError("End time must be after start time", "APPOINTMENT_INVALID_TIME_RANGE")
	}
	if endsAt.Sub(startsAt) < MinSlotMinutes*time.Minute {
		return nil, NewValidationError("Appointment duration must be at least 15 minutes", "APPOINTMENT_MIN_DURATION")
	}

	return &Appointment{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		ServiceID:   serviceID,
		ProviderID:  providerID,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		Status:      StatusPending,
		Observation: observation,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (a *Appointment) Confirm(now time.Time) error {
	if a.Status != StatusPending {
		return NewBusinessRuleError("Only pending appointments can be confirmed", "APPOINTMENT_NOT_PENDING")
	}
	a.Status = StatusConfirmed
	a.UpdatedAt = now
	return nil
}

func (a *Appointment) Complete(now time.Time) error {
	if a.Status != StatusConfirmed {
		return NewBusinessRuleError("Only confirmed appointments can be completed", "APPOINTMENT_NOT_CONFIRMED")
	}
	a.Status = StatusCompleted
	a.UpdatedAt = now
	return nil
}

func (a *Appointment) MarkAsNoShow(now time.Time) error {
	if a.Status != StatusConfirmed {
		return NewBusinessRuleError("Only confirmed appointments can be marked as no-show", "APPOINTMENT_NOT_CONFIRMED")
	}
	a.Status = StatusNoShow
	a.UpdatedAt = now
	return nil
}

func (a *Appointment) Cancel(reason string, actor CancelActor, now time.Time) error {
	if a.Status == StatusCancelled {
		return NewBusinessRuleError("Appointment is already cancelled", "APPOINTMENT_ALREADY_CANCELLED")
	}
	if a.Status == StatusCompleted {
		return NewBusinessRuleError("Cannot cancel a completed appointment", "APPOINTMENT_ALREADY_COMPLETED")
	}
	canceledAt := now
	a.Status = StatusCancelled
	a.CancelReason = reason
	a.CanceledBy = actor
	a.CanceledAt = &canceledAt
	a.UpdatedAt = now
	return nil
}

// Blocks reports whether this appointment still occupies its time range.
// Cancelled appointments do not block new bookings.
func (a *Appointment) Blocks() bool {
	return a.Status != StatusCancelled
}
