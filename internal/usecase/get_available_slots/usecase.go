package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TableBooking/internal/availability"
	"github.com/m04kA/SMC-TableBooking/internal/domain"
	configRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/config"
	"github.com/m04kA/SMC-TableBooking/internal/integrations/restaurantservice"
	pkgmetrics "github.com/m04kA/SMC-TableBooking/pkg/metrics"
)

// UseCase use case для получения доступных слотов для бронирования столика
type UseCase struct {
	bookingRepo      BookingRepository
	configRepo       ConfigRepository
	restaurantClient RestaurantClient
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	configRepo ConfigRepository,
	restaurantClient RestaurantClient,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	if metrics == nil {
		metrics = (*pkgmetrics.Metrics)(nil)
	}
	return &UseCase{
		bookingRepo:      bookingRepo,
		configRepo:       configRepo,
		restaurantClient: restaurantClient,
		metrics:          metrics,
		timeProvider:     timeProvider,
		logger:           logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	switch {
	case err != nil:
		uc.metrics.ObserveSlots("error")
	case len(resp.Slots) == 0:
		uc.metrics.ObserveSlots("empty")
	default:
		uc.metrics.ObserveSlots("ok")
	}
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: restaurant=%s, date=%s, partySize=%d",
		req.RestaurantID, req.Date.Format(domain.DateFormat), req.PartySize)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем ресторан
	restaurant, err := uc.restaurantClient.GetRestaurant(ctx, req.RestaurantID)
	if err != nil {
		if errors.Is(err, restaurantservice.ErrRestaurantNotFound) {
			uc.logger.Warn("GetAvailableSlots: restaurant id=%s not found", req.RestaurantID)
			return nil, ErrRestaurantNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get restaurant id=%s: %v", req.RestaurantID, err)
		return nil, fmt.Errorf("%w: failed to get restaurant: %v", ErrInternal, err)
	}

	// 4. Получаем конфигурацию слотов, при отсутствии используем значения по умолчанию
	config, err := uc.configRepo.GetByRestaurantID(ctx, req.RestaurantID)
	if err != nil {
		if !errors.Is(err, configRepo.ErrConfigNotFound) {
			uc.logger.Error("GetAvailableSlots: failed to get config: %v", err)
			return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
		}
		config = domain.DefaultSlotsConfig(req.RestaurantID)
	}

	// 5. Проверяем ограничение на бронирование заранее
	if err := validateAdvanceLimit(req.Date, now, config.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 6. Получаем активные бронирования ресторана на эту дату
	filter := domain.RestaurantBookingsFilter{
		RestaurantID: req.RestaurantID,
		StartDate:    &req.Date,
		EndDate:      &req.Date,
	}
	bookings, err := uc.bookingRepo.GetByRestaurantWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 7. Вычисляем доступные слоты
	slots, err := availability.ComputeAvailableSlots(restaurant, bookings, req.Date, req.PartySize,
		availability.OptionsFromConfig(config, now))
	if err != nil {
		return nil, uc.mapAvailabilityError(err)
	}

	uc.logger.Info("GetAvailableSlots: %d of restaurant=%s slots fit partySize=%d on %s",
		len(slots), req.RestaurantID, req.PartySize, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:           req.Date,
		RestaurantID:   restaurant.ID,
		RestaurantName: restaurant.Name,
		PartySize:      req.PartySize,
		Slots:          toSlots(slots),
	}, nil
}

func (uc *UseCase) mapAvailabilityError(err error) error {
	switch {
	case errors.Is(err, availability.ErrDateInPast):
		uc.logger.Warn("GetAvailableSlots: %v", err)
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	case errors.Is(err, availability.ErrInvalidPartySize), errors.Is(err, availability.ErrInvalidDate):
		uc.logger.Warn("GetAvailableSlots: %v", err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		uc.logger.Error("GetAvailableSlots: failed to compute slots: %v", err)
		return fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}
}

func toSlots(slots []domain.TimeSlot) []Slot {
	result := make([]Slot, len(slots))
	for i := range slots {
		result[i] = Slot{
			StartTime:       slots[i].StartTime,
			DurationMinutes: slots[i].DurationMinutes,
			AvailableCovers: slots[i].RemainingCovers(),
			TotalCovers:     slots[i].Capacity,
		}
	}
	return result
}
