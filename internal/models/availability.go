package models

import (
	"fmt"
	"math"
	"time"
)

// AvailabilitySlot declares how many hours a user can study on a given
// weekday. At most one slot exists per user and weekday.
type AvailabilitySlot struct {
	UserID  string       `json:"user_id"`
	Weekday time.Weekday `json:"weekday"` // 0 (Sunday) to 6 (Saturday)
	Hours   float64      `json:"hours"`
}

// CapacityMinutes converts the slot's hours to whole minutes,
// clamped to be non-negative.
func (s AvailabilitySlot) CapacityMinutes() int {
	m := int(math.Round(s.Hours * 60))
	if m < 0 {
		return 0
	}
	return m
}

// Validate checks that the slot fields are well-formed.
func (s AvailabilitySlot) Validate() error {
	if s.Weekday < time.Sunday || s.Weekday > time.Saturday {
		return fmt.Errorf("invalid weekday %d", s.Weekday)
	}
	if s.Hours < 0 {
		return fmt.Errorf("availability hours must not be negative, got %.2f", s.Hours)
	}
	return nil
}
