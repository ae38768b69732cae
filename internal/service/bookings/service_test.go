package bookings

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-TableBooking/internal/integrations/restaurantservice"
	"github.com/m04kA/SMC-TableBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-TableBooking/pkg/logger"
	"github.com/m04kA/SMC-TableBooking/pkg/ptr"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

type fakeRepo struct {
	bookings  map[uuid.UUID]*domain.Booking
	lastQuery domain.RestaurantBookingsFilter
	err       error
}

func newFakeRepo(bookings ...*domain.Booking) *fakeRepo {
	r := &fakeRepo{bookings: make(map[uuid.UUID]*domain.Booking)}
	for _, b := range bookings {
		r.bookings[b.ID] = b
	}
	return r
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	if r.err != nil {
		return nil, r.err
	}
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeRepo) GetByUserID(_ context.Context, userID uuid.UUID, status *domain.BookingStatus) ([]*domain.Booking, error) {
	if r.err != nil {
		return nil, r.err
	}
	var result []*domain.Booking
	for _, b := range r.bookings {
		if b.UserID == userID && (status == nil || b.Status == *status) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *fakeRepo) GetByRestaurantWithFilter(_ context.Context, filter domain.RestaurantBookingsFilter) ([]*domain.Booking, error) {
	r.lastQuery = filter
	var result []*domain.Booking
	for _, b := range r.bookings {
		if b.RestaurantID == filter.RestaurantID && (filter.IncludeInactive || b.IsActive()) {
			result = append(result, b)
		}
	}
	return result, r.err
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.BookingStatus) error {
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (r *fakeRepo) Cancel(_ context.Context, id uuid.UUID, reason *string) error {
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = domain.StatusCancelled
	b.CancellationReason = reason
	return nil
}

type fakeRestaurants struct {
	restaurant *domain.Restaurant
}

func (f *fakeRestaurants) GetRestaurant(_ context.Context, id uuid.UUID) (*domain.Restaurant, error) {
	if f.restaurant == nil || f.restaurant.ID != id {
		return nil, restaurantservice.ErrRestaurantNotFound
	}
	return f.restaurant, nil
}

type fakeTx struct {
	calls int
	err   error
}

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

type fakeMetrics struct {
	results []string
}

func (f *fakeMetrics) ObserveBooking(operation, result string) {
	f.results = append(f.results, operation+":"+result)
}

type fixture struct {
	service    *Service
	repo       *fakeRepo
	tx         *fakeTx
	metrics    *fakeMetrics
	restaurant *domain.Restaurant
	owner      uuid.UUID
	manager    uuid.UUID
	stranger   uuid.UUID
	booking    *domain.Booking
}

func newFixture(status domain.BookingStatus) *fixture {
	f := &fixture{
		owner:    uuid.New(),
		manager:  uuid.New(),
		stranger: uuid.New(),
		tx:       &fakeTx{},
		metrics:  &fakeMetrics{},
	}
	f.restaurant = &domain.Restaurant{ID: uuid.New(), Name: "Luna", ManagerIDs: []uuid.UUID{f.manager}}
	f.booking = &domain.Booking{
		ID:              uuid.New(),
		UserID:          f.owner,
		RestaurantID:    f.restaurant.ID,
		RestaurantName:  f.restaurant.Name,
		BookingDate:     time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
		StartTime:       types.MustTimeString("19:00"),
		DurationMinutes: 30,
		PartySize:       4,
		Status:          status,
	}
	f.repo = newFakeRepo(f.booking)
	f.service = NewService(f.repo, &fakeRestaurants{restaurant: f.restaurant}, f.tx, f.metrics, logger.NewNop())
	return f
}

func TestService_GetByID(t *testing.T) {
	f := newFixture(domain.StatusConfirmed)
	ctx := context.Background()

	resp, err := f.service.GetByID(ctx, f.booking.ID, f.owner)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-11", resp.BookingDate)
	assert.Equal(t, "19:00", resp.StartTime)
	assert.Equal(t, 4, resp.PartySize)

	_, err = f.service.GetByID(ctx, f.booking.ID, f.manager)
	assert.NoError(t, err)

	_, err = f.service.GetByID(ctx, f.booking.ID, f.stranger)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.service.GetByID(ctx, uuid.New(), f.owner)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	f.repo.err = errors.New("connection reset")
	_, err = f.service.GetByID(ctx, f.booking.ID, f.owner)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_GetUserBookings(t *testing.T) {
	f := newFixture(domain.StatusConfirmed)
	ctx := context.Background()
	f.repo.bookings[uuid.Nil] = &domain.Booking{ID: uuid.Nil, UserID: f.owner, Status: domain.StatusCancelled}

	resp, err := f.service.GetUserBookings(ctx, &models.GetUserBookingsRequest{RequesterID: f.owner, UserID: f.owner})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)
	require.NotNil(t, resp.Summary)
	assert.Equal(t, models.SummaryResponse{Total: 2, Upcoming: 1, Cancelled: 1}, *resp.Summary)

	resp, err = f.service.GetUserBookings(ctx, &models.GetUserBookingsRequest{
		RequesterID: f.owner, UserID: f.owner, Status: ptr.Ptr("cancelled"),
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
	assert.Nil(t, resp.Summary)

	_, err = f.service.GetUserBookings(ctx, &models.GetUserBookingsRequest{RequesterID: f.owner, UserID: f.owner, Status: ptr.Ptr("lost")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.service.GetUserBookings(ctx, &models.GetUserBookingsRequest{RequesterID: f.stranger, UserID: f.owner})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_GetUserBookings_Empty(t *testing.T) {
	f := newFixture(domain.StatusConfirmed)

	resp, err := f.service.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{RequesterID: f.stranger, UserID: f.stranger})
	require.NoError(t, err)
	assert.NotNil(t, resp.Bookings)
	assert.Empty(t, resp.Bookings)
	assert.Equal(t, 0, resp.Summary.Total)
}

func TestService_GetRestaurantBookings(t *testing.T) {
	f := newFixture(domain.StatusConfirmed)
	ctx := context.Background()
	date := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)

	resp, err := f.service.GetRestaurantBookings(ctx, &models.GetRestaurantBookingsRequest{
		UserID:       f.manager,
		RestaurantID: f.restaurant.ID,
		StartDate:    &date,
		EndDate:      &date,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
	assert.True(t, f.repo.lastQuery.IsSingleDay())

	_, err = f.service.GetRestaurantBookings(ctx, &models.GetRestaurantBookingsRequest{
		UserID: f.manager, RestaurantID: f.restaurant.ID, Status: ptr.Ptr("no_show"),
	})
	require.NoError(t, err)
	assert.True(t, f.repo.lastQuery.IncludeInactive)

	later := date.AddDate(0, 0, 1)
	_, err = f.service.GetRestaurantBookings(ctx, &models.GetRestaurantBookingsRequest{
		UserID: f.manager, RestaurantID: f.restaurant.ID, StartDate: &later, EndDate: &date,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.service.GetRestaurantBookings(ctx, &models.GetRestaurantBookingsRequest{UserID: f.owner, RestaurantID: f.restaurant.ID})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.service.GetRestaurantBookings(ctx, &models.GetRestaurantBookingsRequest{UserID: f.manager, RestaurantID: uuid.New()})
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
}

func TestService_Cancel(t *testing.T) {
	t.Run("owner cancels", func(t *testing.T) {
		f := newFixture(domain.StatusConfirmed)

		err := f.service.Cancel(context.Background(), f.booking.ID, &models.CancelBookingRequest{
			UserID: f.owner, CancellationReason: ptr.Ptr("plans changed"),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, f.booking.Status)
		assert.Equal(t, "plans changed", *f.booking.CancellationReason)
		assert.Equal(t, 1, f.tx.calls)
		assert.Equal(t, []string{"cancel:ok"}, f.metrics.results)
	})

	t.Run("manager cancels pending", func(t *testing.T) {
		f := newFixture(domain.StatusPending)

		require.NoError(t, f.service.Cancel(context.Background(), f.booking.ID, &models.CancelBookingRequest{UserID: f.manager}))
		assert.Equal(t, domain.StatusCancelled, f.booking.Status)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		f := newFixture(domain.StatusConfirmed)

		err := f.service.Cancel(context.Background(), f.booking.ID, &models.CancelBookingRequest{UserID: f.stranger})
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Equal(t, domain.StatusConfirmed, f.booking.Status)
		assert.Equal(t, []string{"cancel:rejected"}, f.metrics.results)
	})

	t.Run("terminal status", func(t *testing.T) {
		for _, status := range []domain.BookingStatus{domain.StatusCancelled, domain.StatusCompleted, domain.StatusNoShow} {
			f := newFixture(status)

			err := f.service.Cancel(context.Background(), f.booking.ID, &models.CancelBookingRequest{UserID: f.owner})
			assert.ErrorIs(t, err, ErrCannotCancel, status)
			assert.Equal(t, []string{"cancel:conflict"}, f.metrics.results)
		}
	})

	t.Run("reason too long", func(t *testing.T) {
		f := newFixture(domain.StatusConfirmed)

		err := f.service.Cancel(context.Background(), f.booking.ID, &models.CancelBookingRequest{
			UserID: f.owner, CancellationReason: ptr.Ptr(strings.Repeat("я", domain.MaxCancellationReasonLength+1)),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Zero(t, f.tx.calls)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(domain.StatusConfirmed)

		err := f.service.Cancel(context.Background(), uuid.New(), &models.CancelBookingRequest{UserID: f.owner})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("transaction failure", func(t *testing.T) {
		f := newFixture(domain.StatusConfirmed)
		f.tx.err = errors.New("begin tx: too many connections")

		err := f.service.Cancel(context.Background(), f.booking.ID, &models.CancelBookingRequest{UserID: f.owner})
		assert.ErrorIs(t, err, ErrInternal)
		assert.Equal(t, []string{"cancel:error"}, f.metrics.results)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.BookingStatus
		to      string
		asOwner bool
		wantErr error
	}{
		{name: "confirm pending", from: domain.StatusPending, to: "confirmed"},
		{name: "complete confirmed", from: domain.StatusConfirmed, to: "completed"},
		{name: "no-show confirmed", from: domain.StatusConfirmed, to: "no_show"},
		{name: "complete pending", from: domain.StatusPending, to: "completed", wantErr: ErrInvalidTransition},
		{name: "reopen cancelled", from: domain.StatusCancelled, to: "confirmed", wantErr: ErrInvalidTransition},
		{name: "cancel through status", from: domain.StatusConfirmed, to: "cancelled", wantErr: ErrInvalidInput},
		{name: "back to pending", from: domain.StatusConfirmed, to: "pending", wantErr: ErrInvalidInput},
		{name: "unknown status", from: domain.StatusConfirmed, to: "seated", wantErr: ErrInvalidInput},
		{name: "owner is not a manager", from: domain.StatusConfirmed, to: "completed", asOwner: true, wantErr: ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.from)
			userID := f.manager
			if tt.asOwner {
				userID = f.owner
			}

			err := f.service.UpdateStatus(context.Background(), f.booking.ID, &models.UpdateStatusRequest{UserID: userID, Status: tt.to})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, f.booking.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.BookingStatus(tt.to), f.booking.Status)
		})
	}
}
