package domain

import (
	"time"

	"github.com/google/uuid"
)

// Availability holds one provider's recurring open windows for a single day
// of the week (0=Sunday .. 6=Saturday). One row per provider+day, upserted.
type Availability struct {
	ID         string
	ProviderID string
	DayOfWeek  int
	Slots      []TimeSlot
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewAvailability(providerID string, dayOfWeek int, slots []TimeSlot, now time.Time) (*Availability, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, NewValidationError(
			"Day of week must be between 0 (Sunday) and 6 (Saturday)",
			"INVALID_DAY_OF_WEEK",
		)
	}
	if err := ValidateSlots(slots); err != nil {
		return nil, err
	}

	return &Availability{
		ID:         uuid.NewString(),
		ProviderID: providerID,
		DayOfWeek:  dayOfWeek,
		Slots:      copySlots(slots),
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// UpdateSlots replaces the whole slot set; the replacement is re-validated as
// a unit.
func (a *Availability) UpdateSlots(slots []TimeSlot, now time.Time) error {
	if err := ValidateSlots(slots); err != nil {
		return err
	}
	a.Slots = copySlots(slots)
	a.UpdatedAt = now
	return nil
}

func (a *Availability) Activate(now time.Time) error {
	if a.IsActive {
		return NewBusinessRuleError("Availability is already active", "AVAILABILITY_ALREADY_ACTIVE")
	}
	a.IsActive = true
	a.UpdatedAt = now
	return nil
}

func (a *Availability) Deactivate(now time.Time) error {
	if !a.IsActive {
		return NewBusinessRuleError("Availability is already inactive", "AVAILABILITY_ALREADY_INACTIVE")
	}
	a.IsActive = false
	a.UpdatedAt = now
	return nil
}

// IsTimeAvailable reports whether the given "HH:MM" instant falls inside one
// of the day's windows. Window ends are exclusive.
func (a *Availability) IsTimeAvailable(clockTime string) bool {
	if !ValidClockTime(clockTime) {
		return false
	}
	mins := ClockTimeToMinutes(clockTime)
	for _, slot := range a.Slots {
		if mins >= ClockTimeToMinutes(slot.Start) && mins < ClockTimeToMinutes(slot.End) {
			return true
		}
	}
	return false
}

func copySlots(slots []TimeSlot) []TimeSlot {
	out := make([]TimeSlot, len(slots))
	copy(out, slots)
	return out
}
