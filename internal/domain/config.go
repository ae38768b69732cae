package domain

import (
	"time"

	"github.com/google/uuid"
)

// RestaurantSlotsConfig represents the booking configuration of a restaurant.
// A restaurant without a stored row uses the Default* values.
type RestaurantSlotsConfig struct {
	ID                      int64
	RestaurantID            uuid.UUID
	SlotDurationMinutes     int // step of the slot grid
	BookingDurationMinutes  int // how long a booking holds its covers
	AdvanceBookingDays      int // 0 = unlimited
	MinBookingNoticeMinutes int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// DefaultSlotsConfig returns the configuration used when none is stored
func DefaultSlotsConfig(restaurantID uuid.UUID) *RestaurantSlotsConfig {
	return &RestaurantSlotsConfig{
		RestaurantID:            restaurantID,
		SlotDurationMinutes:     DefaultSlotDurationMinutes,
		BookingDurationMinutes:  DefaultBookingDurationMinutes,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
	}
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (c *RestaurantSlotsConfig) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}

// IsPersisted returns true if the config was loaded from storage
func (c *RestaurantSlotsConfig) IsPersisted() bool {
	return c.ID > 0
}
