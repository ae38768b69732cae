package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/availability"
	"github.com/m04kA/SMC-TableBooking/internal/domain"
	configRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/config"
	"github.com/m04kA/SMC-TableBooking/internal/integrations/restaurantservice"
	pkgmetrics "github.com/m04kA/SMC-TableBooking/pkg/metrics"
)

// UseCase use case для создания бронирования столика
type UseCase struct {
	bookingRepo      BookingRepository
	configRepo       ConfigRepository
	restaurantClient RestaurantClient
	txManager        TransactionManager
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	configRepo ConfigRepository,
	restaurantClient RestaurantClient,
	txManager TransactionManager,
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
		txManager:        txManager,
		metrics:          metrics,
		timeProvider:     timeProvider,
		logger:           logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка вместимости и запись выполняются в одной сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	switch {
	case err == nil:
		uc.metrics.ObserveBooking("create", "ok")
	case errors.Is(err, ErrSlotNotAvailable):
		uc.metrics.ObserveBooking("create", "conflict")
	case errors.Is(err, ErrInternal):
		uc.metrics.ObserveBooking("create", "error")
	default:
		uc.metrics.ObserveBooking("create", "rejected")
	}
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%s, restaurant=%s, date=%s, time=%s, partySize=%d",
		req.UserID, req.RestaurantID, req.Date.Format(domain.DateFormat), req.StartTime, req.PartySize)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем ресторан
	restaurant, err := uc.restaurantClient.GetRestaurant(ctx, req.RestaurantID)
	if err != nil {
		if errors.Is(err, restaurantservice.ErrRestaurantNotFound) {
			uc.logger.Warn("CreateBooking: restaurant id=%s not found", req.RestaurantID)
			return nil, ErrRestaurantNotFound
		}
		uc.logger.Error("CreateBooking: failed to get restaurant id=%s: %v", req.RestaurantID, err)
		return nil, fmt.Errorf("%w: failed to get restaurant: %v", ErrInternal, err)
	}

	// 4. Проверяем размер компании
	if req.PartySize > restaurant.PartySizeLimit() {
		uc.logger.Warn("CreateBooking: partySize=%d exceeds limit %d of restaurant=%s",
			req.PartySize, restaurant.PartySizeLimit(), restaurant.ID)
		return nil, fmt.Errorf("%w: maximum is %d guests", ErrPartyTooLarge, restaurant.PartySizeLimit())
	}

	// 5. Выбираем окно и сохраняем бронирование в сериализуемой транзакции
	var result *domain.Booking

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Конфигурация слотов ресторана (или значения по умолчанию)
		config, err := uc.configRepo.GetByRestaurantID(txCtx, req.RestaurantID)
		if err != nil {
			if !errors.Is(err, configRepo.ErrConfigNotFound) {
				uc.logger.Error("CreateBooking: failed to get config: %v", err)
				return fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
			}
			config = domain.DefaultSlotsConfig(req.RestaurantID)
		}

		// 5.2. Дата: не в прошлом и не дальше advanceBookingDays
		if availability.IsDateInPast(req.Date, now) {
			uc.logger.Warn("CreateBooking: date %s is in the past", req.Date.Format(domain.DateFormat))
			return ErrInvalidDate
		}
		if err := validateAdvanceLimit(req.Date, now, config.AdvanceBookingDays); err != nil {
			uc.logger.Warn("CreateBooking: date validation failed: %v", err)
			return err
		}

		// 5.3. Ресторан должен работать в этот день
		if day := restaurant.WorkingHours.ForDay(req.Date); !day.IsOpen || len(day.Windows) == 0 {
			uc.logger.Warn("CreateBooking: restaurant is closed on %s", req.Date.Format(domain.DateFormat))
			return ErrRestaurantClosed
		}

		// 5.4. Активные бронирования на дату с блокировкой (FOR UPDATE)
		filter := domain.RestaurantBookingsFilter{
			RestaurantID: req.RestaurantID,
			StartDate:    &req.Date,
			EndDate:      &req.Date,
		}
		bookings, err := uc.bookingRepo.GetByRestaurantWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 5.5. Слот должен быть в сетке и вмещать компанию на всё время брони
		opts := availability.OptionsFromConfig(config, now)
		bookingDuration := config.BookingDurationMinutes
		if bookingDuration <= 0 {
			bookingDuration = config.SlotDurationMinutes
		}
		if bookingDuration <= 0 {
			bookingDuration = domain.DefaultBookingDurationMinutes
		}

		if err := uc.checkSlot(restaurant, bookings, req, opts, bookingDuration); err != nil {
			return err
		}

		// 5.6. Создаём подтверждённое бронирование
		booking := &domain.Booking{
			UserID:          req.UserID,
			RestaurantID:    req.RestaurantID,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: bookingDuration,
			PartySize:       req.PartySize,
			Status:          domain.StatusConfirmed,
			RestaurantName:  restaurant.Name,
			Notes:           req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s", result.ID)

	return &Response{
		ID:              result.ID,
		UserID:          result.UserID,
		RestaurantID:    result.RestaurantID,
		RestaurantName:  result.RestaurantName,
		BookingDate:     result.BookingDate,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		PartySize:       result.PartySize,
		Status:          string(result.Status),
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// checkSlot проверяет, что время есть в сетке слотов и компания помещается на всё время брони
func (uc *UseCase) checkSlot(
	restaurant *domain.Restaurant,
	bookings []*domain.Booking,
	req *Request,
	opts availability.Options,
	bookingDuration int,
) error {
	slots, err := availability.ComputeSlots(restaurant, bookings, req.Date, opts)
	if err != nil {
		if errors.Is(err, availability.ErrDateInPast) {
			return ErrInvalidDate
		}
		uc.logger.Error("CreateBooking: failed to compute slots: %v", err)
		return fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}

	if _, ok := availability.FindSlot(slots, req.StartTime); !ok {
		// Различаем "слот уже прошёл" и "такого слота нет"
		noNotice := opts
		noNotice.Now = time.Time{}
		grid, err := availability.ComputeSlots(restaurant, nil, req.Date, noNotice)
		if err == nil {
			if _, onGrid := availability.FindSlot(grid, req.StartTime); onGrid {
				uc.logger.Warn("CreateBooking: slot %s is within the notice period", req.StartTime)
				return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, opts.MinBookingNoticeMinutes)
			}
		}
		uc.logger.Warn("CreateBooking: %s is not on the slot grid of restaurant=%s", req.StartTime, restaurant.ID)
		return ErrInvalidTimeSlot
	}

	if !availability.CoversWindow(slots, req.StartTime, bookingDuration) {
		uc.logger.Warn("CreateBooking: booking at %s for %d minutes runs past the service window of restaurant=%s", req.StartTime, bookingDuration, restaurant.ID)
		return fmt.Errorf("%w: booking of %d minutes does not fit before closing", ErrInvalidTimeSlot, bookingDuration)
	}

	if !availability.FitsWindow(slots, req.StartTime, bookingDuration, req.PartySize) {
		uc.logger.Warn("CreateBooking: not enough covers at %s for partySize=%d", req.StartTime, req.PartySize)
		return ErrSlotNotAvailable
	}

	return nil
}
