package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	configRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/config"
	"github.com/m04kA/SMC-TableBooking/internal/integrations/restaurantservice"
	"github.com/m04kA/SMC-TableBooking/pkg/logger"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

type fakeBookings struct {
	bookings []*domain.Booking
	filter   domain.RestaurantBookingsFilter
	err      error
}

func (f *fakeBookings) GetByRestaurantWithFilter(_ context.Context, filter domain.RestaurantBookingsFilter) ([]*domain.Booking, error) {
	f.filter = filter
	return f.bookings, f.err
}

type fakeConfigs struct {
	config *domain.RestaurantSlotsConfig
	err    error
}

func (f *fakeConfigs) GetByRestaurantID(_ context.Context, _ uuid.UUID) (*domain.RestaurantSlotsConfig, error) {
	if f.config == nil && f.err == nil {
		return nil, configRepo.ErrConfigNotFound
	}
	return f.config, f.err
}

type fakeRestaurants struct {
	restaurant *domain.Restaurant
	err        error
}

func (f *fakeRestaurants) GetRestaurant(_ context.Context, _ uuid.UUID) (*domain.Restaurant, error) {
	return f.restaurant, f.err
}

type fakeMetrics struct {
	outcomes []string
}

func (f *fakeMetrics) ObserveSlots(outcome string) {
	f.outcomes = append(f.outcomes, outcome)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var (
	now       = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) // вторник
	wednesday = time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
)

func testRestaurant() *domain.Restaurant {
	day := domain.DaySchedule{IsOpen: true, Windows: []domain.ServiceWindow{
		{Open: types.MustTimeString("12:00"), Close: types.MustTimeString("14:00")},
		{Open: types.MustTimeString("18:00"), Close: types.MustTimeString("21:00")},
	}}
	return &domain.Restaurant{
		ID:     uuid.New(),
		Name:   "Bistro",
		Tables: []domain.TableBucket{{Seats: 2, Count: 5}},
		WorkingHours: domain.WeeklySchedule{
			Monday: day, Tuesday: day, Wednesday: day, Thursday: day,
			Friday: day, Saturday: day, Sunday: day,
		},
	}
}

type deps struct {
	bookings    *fakeBookings
	configs     *fakeConfigs
	restaurants *fakeRestaurants
	metrics     *fakeMetrics
}

func newUseCase(r *domain.Restaurant) (*UseCase, *deps) {
	d := &deps{
		bookings:    &fakeBookings{},
		configs:     &fakeConfigs{},
		restaurants: &fakeRestaurants{restaurant: r},
		metrics:     &fakeMetrics{},
	}
	uc := NewUseCase(d.bookings, d.configs, d.restaurants, d.metrics, fixedTime{now}, logger.NewNop())
	return uc, d
}

func TestExecute_ReturnsFittingSlots(t *testing.T) {
	r := testRestaurant()
	uc, d := newUseCase(r)
	d.bookings.bookings = []*domain.Booking{
		{StartTime: types.MustTimeString("18:00"), PartySize: 4, Status: domain.StatusConfirmed},
		{StartTime: types.MustTimeString("19:00"), PartySize: 9, Status: domain.StatusConfirmed},
	}

	resp, err := uc.Execute(context.Background(), &Request{RestaurantID: r.ID, Date: wednesday, PartySize: 6})
	require.NoError(t, err)

	starts := make([]string, len(resp.Slots))
	for i, s := range resp.Slots {
		starts[i] = s.StartTime.String()
	}
	assert.Equal(t, []string{"12:00", "12:30", "13:00", "13:30", "18:00", "18:30", "19:30", "20:00", "20:30"}, starts)
	assert.Equal(t, 6, resp.Slots[4].AvailableCovers)
	assert.Equal(t, 10, resp.Slots[4].TotalCovers)
	assert.Equal(t, "Bistro", resp.RestaurantName)

	require.NotNil(t, d.bookings.filter.StartDate)
	assert.True(t, d.bookings.filter.IsSingleDay())
	assert.Equal(t, r.ID, d.bookings.filter.RestaurantID)
	assert.Equal(t, []string{"ok"}, d.metrics.outcomes)
}

func TestExecute_UsesStoredConfig(t *testing.T) {
	r := testRestaurant()
	uc, d := newUseCase(r)
	d.configs.config = &domain.RestaurantSlotsConfig{
		ID:                     1,
		RestaurantID:           r.ID,
		SlotDurationMinutes:    60,
		BookingDurationMinutes: 60,
	}

	resp, err := uc.Execute(context.Background(), &Request{RestaurantID: r.ID, Date: wednesday, PartySize: 2})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 5)
	assert.Equal(t, 60, resp.Slots[0].DurationMinutes)
}

func TestExecute_SlotsFitWholeBookingDuration(t *testing.T) {
	r := testRestaurant()
	uc, d := newUseCase(r)
	d.configs.config = &domain.RestaurantSlotsConfig{
		ID:                     1,
		RestaurantID:           r.ID,
		SlotDurationMinutes:    30,
		BookingDurationMinutes: 90,
	}
	d.bookings.bookings = []*domain.Booking{
		{StartTime: types.MustTimeString("19:00"), DurationMinutes: 90, PartySize: 8, Status: domain.StatusConfirmed},
	}

	resp, err := uc.Execute(context.Background(), &Request{RestaurantID: r.ID, Date: wednesday, PartySize: 4})
	require.NoError(t, err)

	starts := make([]string, len(resp.Slots))
	for i, s := range resp.Slots {
		starts[i] = s.StartTime.String()
	}
	assert.Equal(t, []string{"12:00", "12:30"}, starts)
}

func TestExecute_PartyTooLargeIsEmpty(t *testing.T) {
	r := testRestaurant()
	uc, d := newUseCase(r)

	resp, err := uc.Execute(context.Background(), &Request{RestaurantID: r.ID, Date: wednesday, PartySize: 21})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.Equal(t, []string{"empty"}, d.metrics.outcomes)
}

func TestExecute_Errors(t *testing.T) {
	r := testRestaurant()

	t.Run("invalid input", func(t *testing.T) {
		uc, _ := newUseCase(r)
		_, err := uc.Execute(context.Background(), &Request{RestaurantID: r.ID, Date: wednesday, PartySize: 0})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = uc.Execute(context.Background(), &Request{Date: wednesday, PartySize: 2})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("restaurant not found", func(t *testing.T) {
		uc, d := newUseCase(nil)
		d.restaurants.err = restaurantservice.ErrRestaurantNotFound
		_, err := uc.Execute(context.Background(), &Request{RestaurantID: uuid.New(), Date: wednesday, PartySize: 2})
		assert.ErrorIs(t, err, ErrRestaurantNotFound)
	})

	t.Run("restaurant service down", func(t *testing.T) {
		uc, d := newUseCase(nil)
		d.restaurants.err = restaurantservice.ErrInternal
		_, err := uc.Execute(context.Background(), &Request{RestaurantID: uuid.New(), Date: wednesday, PartySize: 2})
		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("date in past", func(t *testing.T) {
		uc, d := newUseCase(r)
		_, err := uc.Execute(context.Background(), &Request{RestaurantID: r.ID, Date: now.AddDate(0, 0, -1), PartySize: 2})
		assert.ErrorIs(t, err, ErrInvalidDate)
		assert.Equal(t, []string{"error"}, d.metrics.outcomes)
	})

	t.Run("too far in future", func(t *testing.T) {
		uc, d := newUseCase(r)
		d.configs.config = &domain.RestaurantSlotsConfig{ID: 1, RestaurantID: r.ID, AdvanceBookingDays: 14}
		_, err := uc.Execute(context.Background(), &Request{RestaurantID: r.ID, Date: now.AddDate(0, 0, 15), PartySize: 2})
		assert.ErrorIs(t, err, ErrDateTooFarInFuture)
	})

	t.Run("bookings storage failure", func(t *testing.T) {
		uc, d := newUseCase(r)
		d.bookings.err = errors.New("connection reset")
		_, err := uc.Execute(context.Background(), &Request{RestaurantID: r.ID, Date: wednesday, PartySize: 2})
		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("config storage failure", func(t *testing.T) {
		uc, d := newUseCase(r)
		d.configs.err = errors.New("connection reset")
		_, err := uc.Execute(context.Background(), &Request{RestaurantID: r.ID, Date: wednesday, PartySize: 2})
		assert.ErrorIs(t, err, ErrInternal)
	})
}
