package delete_restaurant

import (
	"context"

	"github.com/m04kA/SMC-TableBooking/internal/service/restaurants/models"
)

type RestaurantService interface {
	Delete(ctx context.Context, req *models.DeleteRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
