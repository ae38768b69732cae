package search_restaurants

import (
	"context"

	"github.com/m04kA/SMC-TableBooking/internal/service/restaurants/models"
)

type RestaurantService interface {
	Search(ctx context.Context, req *models.SearchRequest) (*models.RestaurantListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
