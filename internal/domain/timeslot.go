package domain

import (
	"fmt"
	"regexp"
	"sort"
)

// TimeSlot is one contiguous open-hours range within a day, expressed as
// zero-padded 24-hour "HH:MM" clock times.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// MinSlotMinutes is the shortest slot (and appointment) the system accepts.
const MinSlotMinutes = 15

var clockTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// ValidClockTime reports whether s is a well-formed "HH:MM" 24-hour time.
func ValidClockTime(s string) bool {
	return clockTimePattern.MatchString(s)
}

// ClockTimeToMinutes converts a validated "HH:MM" string to minutes since
// midnight. Callers must validate first; malformed input yields garbage, not
// an error.
func ClockTimeToMinutes(s string) int {
	var h, m int
	_, _ = fmt.Sscanf(s, "%d:%d", &h, &m)
	return h*60 + m
}

// MinutesToClockTime formats minutes since midnight as zero-padded "HH:MM".
func MinutesToClockTime(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// ValidateSlots checks each slot individually (format, ordering, minimum
// length) and then the set as a whole for overlaps. Back-to-back slots where
// one ends exactly when the next starts are allowed.
func ValidateSlots(slots []TimeSlot) error {
	if len(slots) == 0 {
		return NewValidationError("At least one time slot is required", "NO_TIME_SLOTS")
	}

	for _, slot := range slots {
		if err := validateSlot(slot); err != nil {
			return err
		}
	}

	sorted := make([]TimeSlot, len(slots))
	copy(sorted, slots)
	sort.Slice(sorted, func(i, j int) bool {
		return ClockTimeToMinutes(sorted[i].Start) < ClockTimeToMinutes(sorted[j].Start)
	})

	for i := 0; i < len(sorted)-1; i++ {
		current := sorted[i]
		next := sorted[i+1]
		if ClockTimeToMinutes(next.Start) < ClockTimeToMinutes(current.End) {
			return NewBusinessRuleError(
				fmt.Sprintf("Time slots overlap: %s-%s and %s-%s", current.Start, current.End, next.Start, next.End),
				"SLOTS_OVERLAP",
			)
		}
	}
	return nil
}

func validateSlot(slot TimeSlot) error {
	if !ValidClockTime(slot.Start) {
		return NewValidationError(
			fmt.Sprintf("Invalid start time format: %s. Use HH:MM", slot.Start),
			"INVALID_TIME_FORMAT",
		)
	}
	if !ValidClockTime(slot.End) {
		return NewValidationError(
			fmt.Sprintf("Invalid end time format: %s. Use HH:MM", slot.End),
			"INVALID_TIME_FORMAT",
		)
	}

	start := ClockTimeToMinutes(slot.Start)
	end := ClockTimeToMinutes(slot.End)

	if end <= start {
		return NewValidationError(
			fmt.Sprintf("End time (%s) must be after start time (%s)", slot.End, slot.Start),
			"INVALID_TIME_RANGE",
		)
	}
	if end-start < MinSlotMinutes {
		return NewValidationError(
			"Time slot duration must be at least 15 minutes",
			"INVALID_SLOT_DURATION",
		)
	}
	return nil
}
