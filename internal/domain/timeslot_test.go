package domain

import "testing"

func TestValidateSlots_Empty(t *testing.T) {
	err := ValidateSlots(nil)
	if ErrorCode(err) != "NO_TIME_SLOTS" {
		t.Fatalf("expected NO_TIME_SLOTS, got %v", err)
	}
}

func TestValidateSlots_BadFormat(t *testing.T) {
	cases := []TimeSlot{
		{Start: "9:00", End: "10:00"},
		{Start: "09:00", End: "25:00"},
		{Start: "09:60", End: "10:00"},
		{Start: "0900", End: "10:00"},
	}
	for _, slot := range cases {
		err := ValidateSlots([]TimeSlot{slot})
		if ErrorCode(err) != "INVALID_TIME_FORMAT" {
			t.Fatalf("slot %v: expected INVALID_TIME_FORMAT, got %v", slot, err)
		}
	}
}

func TestValidateSlots_EndNotAfterStart(t *testing.T) {
	err := ValidateSlots([]TimeSlot{{Start: "10:00", End: "09:00"}})
	if ErrorCode(err) != "INVALID_TIME_RANGE" {
		t.Fatalf("expected INVALID_TIME_RANGE, got %v", err)
	}
	err = ValidateSlots([]TimeSlot{{Start: "10:00", End: "10:00"}})
	if ErrorCode(err) != "INVALID_TIME_RANGE" {
		t.Fatalf("equal start/end: expected INVALID_TIME_RANGE, got %v", err)
	}
}

func TestValidateSlots_TooShort(t *testing.T) {
	err := ValidateSlots([]TimeSlot{{Start: "09:00", End: "09:10"}})
	if ErrorCode(err) != "INVALID_SLOT_DURATION" {
		t.Fatalf("expected INVALID_SLOT_DURATION, got %v", err)
	}
}

func TestValidateSlots_Overlap(t *testing.T) {
	err := ValidateSlots([]TimeSlot{
		{Start: "09:00", End: "12:00"},
		{Start: "11:00", End: "14:00"},
	})
	if ErrorCode(err) != "SLOTS_OVERLAP" {
		t.Fatalf("expected SLOTS_OVERLAP, got %v", err)
	}
	if !IsBusinessRule(err) {
		t.Fatalf("overlap should be a business rule error, got %T", err)
	}
}

func TestValidateSlots_OverlapDetectedRegardlessOfOrder(t *testing.T) {
	err := ValidateSlots([]TimeSlot{
		{Start: "11:00", End: "14:00"},
		{Start: "09:00", End: "12:00"},
	})
	if ErrorCode(err) != "SLOTS_OVERLAP" {
		t.Fatalf("expected SLOTS_OVERLAP, got %v", err)
	}
}

func TestValidateSlots_BackToBackAllowed(t *testing.T) {
	err := ValidateSlots([]TimeSlot{
		{Start: "09:00", End: "12:00"},
		{Start: "12:00", End: "14:00"},
	})
	if err != nil {
		t.Fatalf("back-to-back slots should be valid, got %v", err)
	}
}

func TestClockTimeRoundTrip(t *testing.T) {
	for _, s := range []string{"00:00", "09:05", "13:30", "23:59"} {
		if got := MinutesToClockTime(ClockTimeToMinutes(s)); got != s {
			t.Fatalf("round trip %s: got %s", s, got)
		}
	}
}
