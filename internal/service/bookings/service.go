package bookings

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-TableBooking/internal/integrations/restaurantservice"
	"github.com/m04kA/SMC-TableBooking/internal/service/bookings/models"
	pkgmetrics "github.com/m04kA/SMC-TableBooking/pkg/metrics"
)

// managerStatuses статусы, которые менеджер выставляет через UpdateStatus
var managerStatuses = map[domain.BookingStatus]struct{}{
	domain.StatusConfirmed: {},
	domain.StatusCompleted: {},
	domain.StatusNoShow:    {},
}

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo      BookingRepository
	restaurantClient RestaurantClient
	txManager        TransactionManager
	metrics          Metrics
	logger           Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	restaurantClient RestaurantClient,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Service {
	if metrics == nil {
		metrics = (*pkgmetrics.Metrics)(nil)
	}
	return &Service{
		bookingRepo:      bookingRepo,
		restaurantClient: restaurantClient,
		txManager:        txManager,
		metrics:          metrics,
		logger:           logger,
	}
}

// GetByID получает бронирование по ID
// Доступно владельцу бронирования и менеджерам ресторана
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%s", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID {
		if err := s.checkManagerAccess(ctx, booking.RestaurantID, userID); err != nil {
			s.logger.Warn("GetByID: access denied for user=%s to booking id=%s", userID, id)
			return nil, err
		}
	}

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя вместе со счётчиками профиля
// Пользователь видит только свои бронирования
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%s, status=%v", req.UserID, req.Status)

	if req.RequesterID != req.UserID {
		s.logger.Warn("GetUserBookings: user=%s requested bookings of user=%s", req.RequesterID, req.UserID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%s", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainBookingList(bookings)
	// Счётчики считаем только по полной истории
	if domainStatus == nil {
		resp.Summary = models.FromDomainSummary(domain.Summarize(bookings))
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%s", len(bookings), req.UserID)
	return resp, nil
}

// GetRestaurantBookings получает бронирования ресторана с фильтрацией по периоду и статусу
// Доступно только менеджерам ресторана
func (s *Service) GetRestaurantBookings(ctx context.Context, req *models.GetRestaurantBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetRestaurantBookings: fetching bookings for restaurant=%s, user=%s", req.RestaurantID, req.UserID)

	if err := s.checkManagerAccess(ctx, req.RestaurantID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetRestaurantBookings: invalid filter for restaurant=%s: %v", req.RestaurantID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.GetByRestaurantWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetRestaurantBookings: repository error for restaurant=%s: %v", req.RestaurantID, err)
		return nil, fmt.Errorf("%w: GetRestaurantBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetRestaurantBookings: successfully fetched %d bookings for restaurant=%s", len(bookings), req.RestaurantID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Отменить может владелец бронирования или менеджер ресторана
func (s *Service) Cancel(ctx context.Context, bookingID uuid.UUID, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%s by user=%s", bookingID, req.UserID)

	if req.CancellationReason != nil && utf8.RuneCountInString(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		s.observe("cancel", "rejected")
		return fmt.Errorf("%w: cancellation reason is longer than %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		// 1. Блокируем бронирование на время транзакции
		booking, err := s.getBooking(ctx, "Cancel", bookingID)
		if err != nil {
			return err
		}

		// 2. Проверяем права доступа
		if booking.UserID != req.UserID {
			if err := s.checkManagerAccess(ctx, booking.RestaurantID, req.UserID); err != nil {
				s.logger.Warn("Cancel: access denied for user=%s to cancel booking id=%s", req.UserID, bookingID)
				return err
			}
		}

		// 3. Проверяем переход статуса
		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%s cannot be cancelled, status=%s", bookingID, booking.Status)
			return ErrCannotCancel
		}

		// 4. Отменяем
		if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("Cancel: repository error for booking id=%s: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.observe("cancel", resultOf(err))
		return s.wrapTxError("Cancel", err)
	}

	s.observe("cancel", "ok")
	s.logger.Info("Cancel: successfully cancelled booking id=%s", bookingID)
	return nil
}

// UpdateStatus обновляет статус бронирования (подтверждение, завершение, неявка)
// Доступно только менеджерам ресторана
func (s *Service) UpdateStatus(ctx context.Context, bookingID uuid.UUID, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%s to status=%s by user=%s", bookingID, req.Status, req.UserID)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.observe("update_status", "rejected")
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	if _, ok := managerStatuses[newStatus]; !ok {
		s.observe("update_status", "rejected")
		return fmt.Errorf("%w: status %s cannot be set directly", ErrInvalidInput, newStatus)
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := s.getBooking(ctx, "UpdateStatus", bookingID)
		if err != nil {
			return err
		}

		if err := s.checkManagerAccess(ctx, booking.RestaurantID, req.UserID); err != nil {
			return err
		}

		if !booking.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: booking id=%s cannot move from %s to %s", bookingID, booking.Status, newStatus)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
		}

		if err := s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("UpdateStatus: repository error for booking id=%s: %v", bookingID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.observe("update_status", resultOf(err))
		return s.wrapTxError("UpdateStatus", err)
	}

	s.observe("update_status", "ok")
	s.logger.Info("UpdateStatus: successfully updated booking id=%s to status=%s", bookingID, newStatus)
	return nil
}

// Вспомогательные методы

// getBooking получает бронирование и переводит ошибки репозитория в ошибки сервиса
func (s *Service) getBooking(ctx context.Context, op string, id uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// checkManagerAccess проверяет, что пользователь является менеджером ресторана
func (s *Service) checkManagerAccess(ctx context.Context, restaurantID uuid.UUID, userID uuid.UUID) error {
	restaurant, err := s.restaurantClient.GetRestaurant(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, restaurantservice.ErrRestaurantNotFound) {
			s.logger.Warn("checkManagerAccess: restaurant id=%s not found", restaurantID)
			return ErrRestaurantNotFound
		}
		s.logger.Error("checkManagerAccess: failed to get restaurant id=%s: %v", restaurantID, err)
		return fmt.Errorf("%w: checkManagerAccess - failed to get restaurant: %v", ErrInternal, err)
	}

	if !restaurant.IsManager(userID) {
		s.logger.Warn("checkManagerAccess: user=%s is not a manager of restaurant=%s", userID, restaurantID)
		return ErrAccessDenied
	}
	return nil
}

// wrapTxError оставляет ошибки сервиса как есть, остальное (begin/commit) считает внутренней ошибкой
func (s *Service) wrapTxError(op string, err error) error {
	for _, known := range []error{
		ErrBookingNotFound, ErrRestaurantNotFound, ErrAccessDenied,
		ErrCannotCancel, ErrInvalidTransition, ErrInvalidInput, ErrInternal,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	s.logger.Error("%s: transaction error: %v", op, err)
	return fmt.Errorf("%w: %s - transaction error: %v", ErrInternal, op, err)
}

func (s *Service) observe(operation, result string) {
	s.metrics.ObserveBooking(operation, result)
}

// resultOf переводит ошибку в значение метки result
func resultOf(err error) string {
	switch {
	case errors.Is(err, ErrCannotCancel), errors.Is(err, ErrInvalidTransition):
		return "conflict"
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrRestaurantNotFound),
		errors.Is(err, ErrAccessDenied), errors.Is(err, ErrInvalidInput):
		return "rejected"
	default:
		return "error"
	}
}
