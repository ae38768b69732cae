package get_restaurant_config

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBooking/internal/service/config/models"
)

type ConfigService interface {
	Get(ctx context.Context, restaurantID uuid.UUID) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
