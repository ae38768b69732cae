package domain

import (
	"time"

	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

// TimeSlot represents a bookable time on the restaurant's grid
type TimeSlot struct {
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	CommittedCovers int // Covers already taken by overlapping active bookings
	Capacity        int // Covers the restaurant seats concurrently
}

// RemainingCovers returns how many more guests fit into the slot
func (s *TimeSlot) RemainingCovers() int {
	remaining := s.Capacity - s.CommittedCovers
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Fits returns true if a party of partySize can still be seated
func (s *TimeSlot) Fits(partySize int) bool {
	return s.CommittedCovers+partySize <= s.Capacity
}

// IsFull returns true if the slot has no covers left
func (s *TimeSlot) IsFull() bool {
	return s.RemainingCovers() == 0
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (s *TimeSlot) OccupancyRate() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.Capacity-s.RemainingCovers()) / float64(s.Capacity) * 100
}

// StartsAt returns the absolute start of the slot
func (s *TimeSlot) StartsAt() time.Time {
	return s.StartTime.On(s.Date)
}
