// Package availability holds the pure slot-computation core: candidate
// generation from a day's open windows and half-open interval overlap.
// Everything here is deterministic; callers supply "now".
package availability

import (
	"sort"
	"time"

	"github.com/agendly/agendly/internal/domain"
)

// SlotStepMinutes is the fixed granularity between candidate start times.
// Consecutive candidates may overlap each other when the service duration
// exceeds the step; each one is still a distinct valid start offset.
const SlotStepMinutes = 30

// Interval is a half-open [Start, End) time range.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect.
// [aStart,aEnd) overlaps [bStart,bEnd) iff aStart < bEnd && bStart < aEnd.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// GenerateAllSlots enumerates every candidate "HH:MM" start time at which a
// booking of durationMinutes fits inside one of the windows. Windows are
// assumed validated and mutually non-overlapping. A window too short for the
// duration contributes nothing; the result is sorted ascending.
func GenerateAllSlots(windows []domain.TimeSlot, durationMinutes int) []string {
	if durationMinutes <= 0 {
		return []string{}
	}

	slots := []string{}
	for _, window := range windows {
		current := domain.ClockTimeToMinutes(window.Start)
		end := domain.ClockTimeToMinutes(window.End)
		for current+durationMinutes <= end {
			slots = append(slots, domain.MinutesToClockTime(current))
			current += SlotStepMinutes
		}
	}

	// Lexicographic order equals chronological order for zero-padded HH:MM.
	sort.Strings(slots)
	return slots
}

// SlotInstant composes the UTC instant of an "HH:MM" slot on the given day.
func SlotInstant(day time.Time, clockTime string) time.Time {
	mins := domain.ClockTimeToMinutes(clockTime)
	d := day.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), mins/60, mins%60, 0, 0, time.UTC)
}

// FilterAvailable drops candidates that overlap a busy interval or whose
// start is not strictly in the future.
func FilterAvailable(candidates []string, day time.Time, durationMinutes int, busy []Interval, now time.Time) []string {
	duration := time.Duration(durationMinutes) * time.Minute

	out := []string{}
	for _, candidate := range candidates {
		start := SlotInstant(day, candidate)
		end := start.Add(duration)
		if !start.After(now) {
			continue
		}
		if overlapsAny(start, end, busy) {
			continue
		}
		out = append(out, candidate)
	}
	return out
}

func overlapsAny(start, end time.Time, busy []Interval) bool {
	for _, b := range busy {
		if Overlaps(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}
