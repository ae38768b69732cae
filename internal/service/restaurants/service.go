package restaurants

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBooking/internal/availability"
	"github.com/m04kA/SMC-TableBooking/internal/domain"
	configRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/config"
	"github.com/m04kA/SMC-TableBooking/internal/integrations/restaurantservice"
	"github.com/m04kA/SMC-TableBooking/internal/service/restaurants/models"
)

// Service сервис для работы с ресторанами
type Service struct {
	restaurantClient RestaurantClient
	bookingRepo      BookingRepository
	configRepo       ConfigRepository
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса ресторанов
func NewService(
	restaurantClient RestaurantClient,
	bookingRepo BookingRepository,
	configRepo ConfigRepository,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		restaurantClient: restaurantClient,
		bookingRepo:      bookingRepo,
		configRepo:       configRepo,
		txManager:        txManager,
		timeProvider:     timeProvider,
		logger:           logger,
	}
}

// Search ищет рестораны по названию или району, кухне и ценовой категории
// Если указана дата, к каждому ресторану прикладываются свободные слоты на эту дату
func (s *Service) Search(ctx context.Context, req *models.SearchRequest) (*models.RestaurantListResponse, error) {
	s.logger.Info("Search: query=%q, cuisine=%q, priceTiers=%v, date=%v, partySize=%d",
		req.Query, req.Cuisine, req.PriceTiers, req.Date, req.PartySize)

	// 1. Валидируем параметры
	for _, tier := range req.PriceTiers {
		if tier < domain.MinPriceTier || tier > domain.MaxPriceTier {
			return nil, fmt.Errorf("%w: price tier must be between %d and %d", ErrInvalidInput, domain.MinPriceTier, domain.MaxPriceTier)
		}
	}
	if req.PartySize < 0 {
		return nil, fmt.Errorf("%w: party size must be positive", ErrInvalidInput)
	}
	now := s.timeProvider.Now()
	if req.Date != nil && availability.IsDateInPast(*req.Date, now) {
		return nil, fmt.Errorf("%w: date is in the past", ErrInvalidInput)
	}

	// 2. Получаем рестораны
	restaurants, err := s.restaurantClient.SearchRestaurants(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("Search: failed to search restaurants: %v", err)
		return nil, fmt.Errorf("%w: Search - failed to search restaurants: %v", ErrInternal, err)
	}

	resp := &models.RestaurantListResponse{Restaurants: make([]models.RestaurantResponse, 0, len(restaurants))}

	// 3. Прикладываем свободные слоты
	for _, restaurant := range restaurants {
		item := models.FromDomainRestaurant(restaurant)

		if req.Date != nil {
			times, err := s.availableTimes(ctx, restaurant, *req.Date, req.EffectivePartySize(), now)
			if err != nil {
				return nil, err
			}
			if req.OnlyAvailable && len(times) == 0 {
				continue
			}
			item.AvailableTimes = times
		}

		resp.Restaurants = append(resp.Restaurants, *item)
	}

	s.logger.Info("Search: found %d restaurants", len(resp.Restaurants))
	return resp, nil
}

// GetByID получает ресторан по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.RestaurantResponse, error) {
	s.logger.Info("GetByID: fetching restaurant id=%s", id)

	restaurant, err := s.getRestaurant(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainRestaurant(restaurant), nil
}

// Delete удаляет ресторан вместе с его активными бронированиями и конфигурацией
// Доступно только менеджерам ресторана
func (s *Service) Delete(ctx context.Context, req *models.DeleteRequest) error {
	s.logger.Info("Delete: deleting restaurant id=%s by user=%s", req.RestaurantID, req.UserID)

	restaurant, err := s.getRestaurant(ctx, "Delete", req.RestaurantID)
	if err != nil {
		return err
	}
	if !restaurant.IsManager(req.UserID) {
		s.logger.Warn("Delete: user=%s is not a manager of restaurant=%s", req.UserID, req.RestaurantID)
		return ErrAccessDenied
	}

	var (
		removed       int64
		remoteDeleted bool
	)
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		// 1. Удаляем предстоящие бронирования
		n, err := s.bookingRepo.DeleteActiveByRestaurant(ctx, req.RestaurantID)
		if err != nil {
			return fmt.Errorf("%w: Delete - failed to delete bookings: %v", ErrInternal, err)
		}
		removed = n

		// 2. Удаляем конфигурацию слотов
		if err := s.configRepo.DeleteByRestaurantID(ctx, req.RestaurantID); err != nil {
			return fmt.Errorf("%w: Delete - failed to delete config: %v", ErrInternal, err)
		}

		// 3. Удаляем ресторан последним: при его ошибке локальные удаления откатываются
		if err := s.restaurantClient.DeleteRestaurant(ctx, req.RestaurantID); err != nil {
			if errors.Is(err, restaurantservice.ErrRestaurantNotFound) {
				return ErrRestaurantNotFound
			}
			return fmt.Errorf("%w: Delete - failed to delete restaurant: %v", ErrInternal, err)
		}
		remoteDeleted = true
		return nil
	})
	if err != nil && remoteDeleted {
		// Ресторан уже удалён во внешнем сервисе, а коммит не прошёл.
		// Повторить Delete нельзя (ресторана больше нет), поэтому дочищаем локальные строки без транзакции
		s.logger.Error("Delete: commit failed after restaurant id=%s was deleted remotely: %v", req.RestaurantID, err)
		removed, err = s.deleteLocalData(ctx, req.RestaurantID)
	}
	if err != nil {
		if errors.Is(err, ErrRestaurantNotFound) {
			s.logger.Warn("Delete: restaurant id=%s disappeared during deletion", req.RestaurantID)
			return err
		}
		s.logger.Error("Delete: failed to delete restaurant id=%s: %v", req.RestaurantID, err)
		if errors.Is(err, ErrInternal) {
			return err
		}
		return fmt.Errorf("%w: Delete - transaction error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted restaurant id=%s with %d bookings", req.RestaurantID, removed)
	return nil
}

// Вспомогательные методы

// deleteLocalData удаляет бронирования и конфигурацию ресторана вне транзакции
func (s *Service) deleteLocalData(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	removed, err := s.bookingRepo.DeleteActiveByRestaurant(ctx, restaurantID)
	if err != nil {
		s.logger.Error("Delete: orphaned bookings left for restaurant id=%s: %v", restaurantID, err)
		return 0, fmt.Errorf("%w: Delete - failed to clean up bookings: %v", ErrInternal, err)
	}
	if err := s.configRepo.DeleteByRestaurantID(ctx, restaurantID); err != nil {
		s.logger.Error("Delete: orphaned config left for restaurant id=%s: %v", restaurantID, err)
		return removed, fmt.Errorf("%w: Delete - failed to clean up config: %v", ErrInternal, err)
	}
	s.logger.Warn("Delete: cleaned up local data of restaurant id=%s outside the transaction", restaurantID)
	return removed, nil
}

// availableTimes возвращает время начала свободных слотов ресторана на дату
func (s *Service) availableTimes(ctx context.Context, restaurant *domain.Restaurant, date time.Time, partySize int, now time.Time) ([]string, error) {
	config, err := s.configRepo.GetByRestaurantID(ctx, restaurant.ID)
	if err != nil {
		if !errors.Is(err, configRepo.ErrConfigNotFound) {
			s.logger.Error("Search: failed to get config for restaurant=%s: %v", restaurant.ID, err)
			return nil, fmt.Errorf("%w: Search - failed to get config: %v", ErrInternal, err)
		}
		config = domain.DefaultSlotsConfig(restaurant.ID)
	}

	if beyondAdvanceLimit(date, now, config) {
		return []string{}, nil
	}

	bookings, err := s.bookingRepo.GetByRestaurantWithFilter(ctx, domain.RestaurantBookingsFilter{
		RestaurantID: restaurant.ID,
		StartDate:    &date,
		EndDate:      &date,
	})
	if err != nil {
		s.logger.Error("Search: failed to get bookings for restaurant=%s: %v", restaurant.ID, err)
		return nil, fmt.Errorf("%w: Search - failed to get bookings: %v", ErrInternal, err)
	}

	slots, err := availability.ComputeAvailableSlots(restaurant, bookings, date, partySize, availability.OptionsFromConfig(config, now))
	if err != nil {
		// битое расписание одного ресторана не ломает весь поиск
		s.logger.Warn("Search: cannot compute slots for restaurant=%s: %v", restaurant.ID, err)
		return []string{}, nil
	}

	times := make([]string, 0, len(slots))
	for _, slot := range slots {
		times = append(times, slot.StartTime.String())
	}
	return times, nil
}

func (s *Service) getRestaurant(ctx context.Context, op string, id uuid.UUID) (*domain.Restaurant, error) {
	restaurant, err := s.restaurantClient.GetRestaurant(ctx, id)
	if err != nil {
		if errors.Is(err, restaurantservice.ErrRestaurantNotFound) {
			s.logger.Warn("%s: restaurant id=%s not found", op, id)
			return nil, ErrRestaurantNotFound
		}
		s.logger.Error("%s: failed to get restaurant id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - failed to get restaurant: %v", ErrInternal, op, err)
	}
	return restaurant, nil
}

// beyondAdvanceLimit проверяет, что дата дальше advanceBookingDays от сегодняшнего дня
func beyondAdvanceLimit(date, now time.Time, config *domain.RestaurantSlotsConfig) bool {
	if !config.HasAdvanceBookingLimit() {
		return false
	}
	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, config.AdvanceBookingDays)
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC).After(maxDate)
}
