package get_restaurant_reviews

import (
	"context"

	"github.com/m04kA/SMC-TableBooking/internal/service/reviews/models"
)

type ReviewService interface {
	List(ctx context.Context, req *models.ListRequest) (*models.ReviewListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
