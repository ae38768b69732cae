package cancel_booking

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBooking/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model; тело запроса опционально
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(userID uuid.UUID) *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		UserID:             userID,
		CancellationReason: r.CancellationReason,
	}
}
