package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID       uuid.UUID        // ID пользователя (из X-User-ID)
	RestaurantID uuid.UUID        // ID ресторана
	Date         time.Time        // Дата бронирования (без времени)
	StartTime    types.TimeString // Время начала слота (например, "19:00")
	PartySize    int              // Количество гостей
	Notes        *string          // Пожелания гостя (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	RestaurantID    uuid.UUID
	RestaurantName  string
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	PartySize       int
	Status          string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
