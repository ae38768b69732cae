package update_restaurant_config

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBooking/internal/service/config/models"
)

// UpdateConfigRequest HTTP request model, все поля опциональны
type UpdateConfigRequest struct {
	SlotDurationMinutes     *int `json:"slotDurationMinutes,omitempty"`
	BookingDurationMinutes  *int `json:"bookingDurationMinutes,omitempty"`
	AdvanceBookingDays      *int `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes *int `json:"minBookingNoticeMinutes,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateConfigRequest) ToServiceRequest(userID uuid.UUID) *models.UpdateConfigRequest {
	return &models.UpdateConfigRequest{
		UserID:                  userID,
		SlotDurationMinutes:     r.SlotDurationMinutes,
		BookingDurationMinutes:  r.BookingDurationMinutes,
		AdvanceBookingDays:      r.AdvanceBookingDays,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
	}
}
