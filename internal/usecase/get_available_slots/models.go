package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	RestaurantID uuid.UUID // ID ресторана
	Date         time.Time // Дата (без времени)
	PartySize    int       // Количество гостей
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date           time.Time
	RestaurantID   uuid.UUID
	RestaurantName string
	PartySize      int
	Slots          []Slot // Только слоты, где компания помещается, по возрастанию времени
}

// Slot модель временного слота
type Slot struct {
	StartTime       types.TimeString // Время начала слота (например, "18:30")
	DurationMinutes int              // Длительность слота в минутах
	AvailableCovers int              // Свободных мест до бронирования
	TotalCovers     int              // Вместимость ресторана
}
