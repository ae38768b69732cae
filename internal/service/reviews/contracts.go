package reviews

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// RestaurantClient интерфейс источника данных о ресторанах
type RestaurantClient interface {
	GetRestaurant(ctx context.Context, id uuid.UUID) (*domain.Restaurant, error)
}

// ReviewClient интерфейс хранилища отзывов управляемого бэкенда
type ReviewClient interface {
	GetReviews(ctx context.Context, restaurantID uuid.UUID, limit int) ([]*domain.Review, error)
	CreateReview(ctx context.Context, review *domain.Review) (*domain.Review, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
