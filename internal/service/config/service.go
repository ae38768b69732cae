package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	configRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/config"
	"github.com/m04kA/SMC-TableBooking/internal/integrations/restaurantservice"
	"github.com/m04kA/SMC-TableBooking/internal/service/config/models"
)

// Service сервис для работы с конфигурацией слотов ресторана
type Service struct {
	configRepo       ConfigRepository
	restaurantClient RestaurantClient
	logger           Logger
}

// NewService создает новый экземпляр сервиса конфигурации
func NewService(
	configRepo ConfigRepository,
	restaurantClient RestaurantClient,
	logger Logger,
) *Service {
	return &Service{
		configRepo:       configRepo,
		restaurantClient: restaurantClient,
		logger:           logger,
	}
}

// Get получает конфигурацию ресторана
// Публичный метод; если конфигурация не сохранена, возвращаются значения по умолчанию
func (s *Service) Get(ctx context.Context, restaurantID uuid.UUID) (*models.ConfigResponse, error) {
	s.logger.Info("Get: fetching config for restaurant=%s", restaurantID)

	if _, err := s.getRestaurant(ctx, "Get", restaurantID); err != nil {
		return nil, err
	}

	config, err := s.loadConfig(ctx, "Get", restaurantID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Get: successfully fetched config for restaurant=%s (default=%t)", restaurantID, !config.IsPersisted())
	return models.FromDomainConfig(config), nil
}

// Update обновляет конфигурацию ресторана, создавая её при первом изменении
// Доступно только менеджерам ресторана
func (s *Service) Update(ctx context.Context, restaurantID uuid.UUID, req *models.UpdateConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("Update: updating config for restaurant=%s by user=%s", restaurantID, req.UserID)

	if req.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	// 1. Проверяем права доступа (только менеджер ресторана)
	restaurant, err := s.getRestaurant(ctx, "Update", restaurantID)
	if err != nil {
		return nil, err
	}
	if !restaurant.IsManager(req.UserID) {
		s.logger.Warn("Update: user=%s is not a manager of restaurant=%s", req.UserID, restaurantID)
		return nil, ErrAccessDenied
	}

	// 2. Получаем текущую конфигурацию (или значения по умолчанию)
	config, err := s.loadConfig(ctx, "Update", restaurantID)
	if err != nil {
		return nil, err
	}

	// 3. Применяем и валидируем изменения
	req.ApplyToConfig(config)
	if err := validateConfig(config); err != nil {
		s.logger.Warn("Update: validation failed for restaurant=%s: %v", restaurantID, err)
		return nil, err
	}

	// 4. Сохраняем
	saved, err := s.save(ctx, config)
	if err != nil {
		s.logger.Error("Update: repository error for restaurant=%s: %v", restaurantID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated config for restaurant=%s", restaurantID)
	return models.FromDomainConfig(saved), nil
}

// Вспомогательные методы

// save создаёт конфигурацию или обновляет существующую
func (s *Service) save(ctx context.Context, config *domain.RestaurantSlotsConfig) (*domain.RestaurantSlotsConfig, error) {
	if config.IsPersisted() {
		return s.configRepo.Update(ctx, config)
	}

	created, err := s.configRepo.Create(ctx, config)
	if errors.Is(err, configRepo.ErrDuplicateConfig) {
		// конфигурацию успели создать параллельным запросом
		return s.configRepo.Update(ctx, config)
	}
	return created, err
}

func (s *Service) loadConfig(ctx context.Context, op string, restaurantID uuid.UUID) (*domain.RestaurantSlotsConfig, error) {
	config, err := s.configRepo.GetByRestaurantID(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			return domain.DefaultSlotsConfig(restaurantID), nil
		}
		s.logger.Error("%s: failed to get config for restaurant=%s: %v", op, restaurantID, err)
		return nil, fmt.Errorf("%w: %s - failed to get config: %v", ErrInternal, op, err)
	}
	return config, nil
}

func (s *Service) getRestaurant(ctx context.Context, op string, restaurantID uuid.UUID) (*domain.Restaurant, error) {
	restaurant, err := s.restaurantClient.GetRestaurant(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, restaurantservice.ErrRestaurantNotFound) {
			s.logger.Warn("%s: restaurant id=%s not found", op, restaurantID)
			return nil, ErrRestaurantNotFound
		}
		s.logger.Error("%s: failed to get restaurant id=%s: %v", op, restaurantID, err)
		return nil, fmt.Errorf("%w: %s - failed to get restaurant: %v", ErrInternal, op, err)
	}
	return restaurant, nil
}

// validateConfig валидирует параметры конфигурации
func validateConfig(c *domain.RestaurantSlotsConfig) error {
	if c.SlotDurationMinutes < domain.MinSlotDurationMinutes || c.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slotDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	if c.BookingDurationMinutes < domain.MinBookingDurationMinutes || c.BookingDurationMinutes > domain.MaxBookingDurationMinutes {
		return fmt.Errorf("%w: bookingDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingDurationMinutes, domain.MaxBookingDurationMinutes)
	}

	if c.AdvanceBookingDays < domain.MinAdvanceBookingDays || c.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}

	if c.MinBookingNoticeMinutes < domain.MinBookingNoticeMinutes || c.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}

	return nil
}
