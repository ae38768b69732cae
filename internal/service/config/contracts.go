package config

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// ConfigRepository интерфейс репозитория конфигурации слотов
type ConfigRepository interface {
	Create(ctx context.Context, config *domain.RestaurantSlotsConfig) (*domain.RestaurantSlotsConfig, error)
	GetByRestaurantID(ctx context.Context, restaurantID uuid.UUID) (*domain.RestaurantSlotsConfig, error)
	Update(ctx context.Context, config *domain.RestaurantSlotsConfig) (*domain.RestaurantSlotsConfig, error)
}

// RestaurantClient интерфейс источника данных о ресторанах
type RestaurantClient interface {
	GetRestaurant(ctx context.Context, id uuid.UUID) (*domain.Restaurant, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
