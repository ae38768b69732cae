package get_restaurant

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBooking/internal/service/restaurants/models"
)

type RestaurantService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.RestaurantResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
