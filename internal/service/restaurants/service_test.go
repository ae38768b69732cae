package restaurants

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
	"github.com/m04kA/SMC-TableBooking/internal/service/restaurants/models"
	"github.com/m04kA/SMC-TableBooking/pkg/logger"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

type fakeClient struct {
	restaurants []*domain.Restaurant
	lastFilter  domain.RestaurantFilter
	deleted     []uuid.UUID
	deleteErr   error
	searchErr   error
	onDelete    func()
}

func (f *fakeClient) GetRestaurant(_ context.Context, id uuid.UUID) (*domain.Restaurant, error) {
	for _, r := range f.restaurants {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, restaurantservice.ErrRestaurantNotFound
}

func (f *fakeClient) SearchRestaurants(_ context.Context, filter domain.RestaurantFilter) ([]*domain.Restaurant, error) {
	f.lastFilter = filter
	return f.restaurants, f.searchErr
}

func (f *fakeClient) DeleteRestaurant(_ context.Context, id uuid.UUID) error {
	if f.onDelete != nil {
		f.onDelete()
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeBookings struct {
	byRestaurant map[uuid.UUID][]*domain.Booking
	deletedFor   []uuid.UUID
	deletedInTx  []bool
	deleteErr    error
	err          error
}

func (f *fakeBookings) GetByRestaurantWithFilter(_ context.Context, filter domain.RestaurantBookingsFilter) ([]*domain.Booking, error) {
	return f.byRestaurant[filter.RestaurantID], f.err
}

func (f *fakeBookings) DeleteActiveByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.deletedFor = append(f.deletedFor, restaurantID)
	f.deletedInTx = append(f.deletedInTx, ctx.Value(txMarker{}) != nil)
	return int64(len(f.byRestaurant[restaurantID])), nil
}

type fakeConfigs struct {
	configs    map[uuid.UUID]*domain.RestaurantSlotsConfig
	deletedFor []uuid.UUID
}

func (f *fakeConfigs) GetByRestaurantID(_ context.Context, id uuid.UUID) (*domain.RestaurantSlotsConfig, error) {
	if c, ok := f.configs[id]; ok {
		return c, nil
	}
	return nil, configRepo.ErrConfigNotFound
}

func (f *fakeConfigs) DeleteByRestaurantID(_ context.Context, id uuid.UUID) error {
	f.deletedFor = append(f.deletedFor, id)
	return nil
}

type txMarker struct{}

type fakeTx struct {
	rolledBack bool
	commitErr  error
}

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(context.WithValue(ctx, txMarker{}, true))
	if err == nil {
		err = f.commitErr
	}
	f.rolledBack = err != nil
	return err
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var (
	now       = time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC) // Monday
	wednesday = time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
)

func restaurant(name string, seats int, managers ...uuid.UUID) *domain.Restaurant {
	evening := domain.DaySchedule{IsOpen: true, Windows: []domain.ServiceWindow{{
		Open: types.MustTimeString("18:00"), Close: types.MustTimeString("19:00"),
	}}}
	return &domain.Restaurant{
		ID:           uuid.New(),
		Name:         name,
		Cuisine:      []string{"Italian"},
		PriceTier:    2,
		Tables:       []domain.TableBucket{{Seats: seats, Count: 1}},
		WorkingHours: domain.WeeklySchedule{Wednesday: evening},
		ManagerIDs:   managers,
	}
}

type fixture struct {
	service  *Service
	client   *fakeClient
	bookings *fakeBookings
	configs  *fakeConfigs
	tx       *fakeTx
	busy     *domain.Restaurant
	free     *domain.Restaurant
	manager  uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{manager: uuid.New(), tx: &fakeTx{}}
	f.busy = restaurant("Busy", 4, f.manager)
	f.free = restaurant("Free", 10)
	f.client = &fakeClient{restaurants: []*domain.Restaurant{f.busy, f.free}}
	f.bookings = &fakeBookings{byRestaurant: map[uuid.UUID][]*domain.Booking{
		f.busy.ID: {
			{RestaurantID: f.busy.ID, BookingDate: wednesday, StartTime: types.MustTimeString("18:00"), PartySize: 4, Status: domain.StatusConfirmed},
			{RestaurantID: f.busy.ID, BookingDate: wednesday, StartTime: types.MustTimeString("18:30"), PartySize: 3, Status: domain.StatusPending},
		},
	}}
	f.configs = &fakeConfigs{configs: map[uuid.UUID]*domain.RestaurantSlotsConfig{}}
	f.service = NewService(f.client, f.bookings, f.configs, f.tx, fixedTime{now: now}, logger.NewNop())
	return f
}

func TestService_Search_WithoutDate(t *testing.T) {
	f := newFixture()

	resp, err := f.service.Search(context.Background(), &models.SearchRequest{Query: "bus", Cuisine: "Italian", PriceTiers: []int{2, 3}, Limit: 5})
	require.NoError(t, err)
	require.Len(t, resp.Restaurants, 2)
	assert.Nil(t, resp.Restaurants[0].AvailableTimes)
	assert.Equal(t, 4, resp.Restaurants[0].Capacity)
	assert.True(t, resp.Restaurants[0].OpeningHours["wednesday"].IsOpen)
	assert.Equal(t, "18:00", resp.Restaurants[0].OpeningHours["wednesday"].Windows[0].Open)
	assert.False(t, resp.Restaurants[0].OpeningHours["monday"].IsOpen)

	assert.Equal(t, domain.RestaurantFilter{Query: "bus", Cuisine: "Italian", PriceTiers: []int{2, 3}, Limit: 5}, f.client.lastFilter)
}

func TestService_Search_WithDate(t *testing.T) {
	f := newFixture()
	date := wednesday

	resp, err := f.service.Search(context.Background(), &models.SearchRequest{Date: &date})
	require.NoError(t, err)
	require.Len(t, resp.Restaurants, 2)
	// по умолчанию компания из двух гостей: в 18:00 занято 4 из 4, в 18:30 свободно одно место
	assert.Equal(t, []string{}, resp.Restaurants[0].AvailableTimes)
	assert.Equal(t, []string{"18:00", "18:30"}, resp.Restaurants[1].AvailableTimes)

	resp, err = f.service.Search(context.Background(), &models.SearchRequest{Date: &date, PartySize: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"18:30"}, resp.Restaurants[0].AvailableTimes)
}

func TestService_Search_OnlyAvailable(t *testing.T) {
	f := newFixture()
	date := wednesday

	resp, err := f.service.Search(context.Background(), &models.SearchRequest{Date: &date, PartySize: 2, OnlyAvailable: true})
	require.NoError(t, err)
	require.Len(t, resp.Restaurants, 1)
	assert.Equal(t, "Free", resp.Restaurants[0].Name)

	closed := wednesday.AddDate(0, 0, 1)
	resp, err = f.service.Search(context.Background(), &models.SearchRequest{Date: &closed, OnlyAvailable: true})
	require.NoError(t, err)
	assert.Empty(t, resp.Restaurants)
}

func TestService_Search_AdvanceLimit(t *testing.T) {
	f := newFixture()
	f.configs.configs[f.free.ID] = &domain.RestaurantSlotsConfig{
		ID: 1, RestaurantID: f.free.ID, SlotDurationMinutes: 30, BookingDurationMinutes: 30, AdvanceBookingDays: 1,
	}
	date := wednesday

	resp, err := f.service.Search(context.Background(), &models.SearchRequest{Date: &date})
	require.NoError(t, err)
	assert.Empty(t, resp.Restaurants[1].AvailableTimes)
}

func TestService_Search_Validation(t *testing.T) {
	f := newFixture()
	past := now.AddDate(0, 0, -1)

	_, err := f.service.Search(context.Background(), &models.SearchRequest{Date: &past})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.service.Search(context.Background(), &models.SearchRequest{PriceTiers: []int{5}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.service.Search(context.Background(), &models.SearchRequest{PartySize: -2})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Search_Failures(t *testing.T) {
	f := newFixture()
	f.client.searchErr = restaurantservice.ErrInvalidResponse

	_, err := f.service.Search(context.Background(), &models.SearchRequest{})
	assert.ErrorIs(t, err, ErrInternal)

	f = newFixture()
	f.bookings.err = errors.New("connection reset")
	date := wednesday
	_, err = f.service.Search(context.Background(), &models.SearchRequest{Date: &date})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_GetByID(t *testing.T) {
	f := newFixture()

	resp, err := f.service.GetByID(context.Background(), f.free.ID)
	require.NoError(t, err)
	assert.Equal(t, "Free", resp.Name)
	assert.Equal(t, domain.DefaultMaxPartySize, resp.MaxPartySize)

	_, err = f.service.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
}

func TestService_Delete(t *testing.T) {
	f := newFixture()

	err := f.service.Delete(context.Background(), &models.DeleteRequest{UserID: f.manager, RestaurantID: f.busy.ID})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.busy.ID}, f.bookings.deletedFor)
	assert.Equal(t, []uuid.UUID{f.busy.ID}, f.configs.deletedFor)
	assert.Equal(t, []uuid.UUID{f.busy.ID}, f.client.deleted)
	assert.False(t, f.tx.rolledBack)
}

func TestService_Delete_Errors(t *testing.T) {
	f := newFixture()

	err := f.service.Delete(context.Background(), &models.DeleteRequest{UserID: uuid.New(), RestaurantID: f.busy.ID})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, f.bookings.deletedFor)

	err = f.service.Delete(context.Background(), &models.DeleteRequest{UserID: f.manager, RestaurantID: uuid.New()})
	assert.ErrorIs(t, err, ErrRestaurantNotFound)

	f.client.deleteErr = errors.New("503 service unavailable")
	err = f.service.Delete(context.Background(), &models.DeleteRequest{UserID: f.manager, RestaurantID: f.busy.ID})
	assert.ErrorIs(t, err, ErrInternal)
	assert.True(t, f.tx.rolledBack)
}

func TestService_Delete_RemoteCallIsLast(t *testing.T) {
	f := newFixture()
	f.client.onDelete = func() {
		assert.Equal(t, []uuid.UUID{f.busy.ID}, f.bookings.deletedFor)
		assert.Equal(t, []uuid.UUID{f.busy.ID}, f.configs.deletedFor)
	}

	err := f.service.Delete(context.Background(), &models.DeleteRequest{UserID: f.manager, RestaurantID: f.busy.ID})
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, f.bookings.deletedInTx)
}

func TestService_Delete_CommitFailureCleansUpLocalData(t *testing.T) {
	f := newFixture()
	f.tx.commitErr = errors.New("connection reset during commit")

	err := f.service.Delete(context.Background(), &models.DeleteRequest{UserID: f.manager, RestaurantID: f.busy.ID})
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{f.busy.ID}, f.client.deleted)
	assert.Equal(t, []bool{true, false}, f.bookings.deletedInTx, "second pass runs outside the rolled back transaction")
	assert.Equal(t, []uuid.UUID{f.busy.ID, f.busy.ID}, f.configs.deletedFor)
}

func TestService_Delete_CommitFailureCleanupFails(t *testing.T) {
	f := newFixture()
	f.tx.commitErr = errors.New("connection reset during commit")
	f.client.onDelete = func() {
		f.bookings.deleteErr = errors.New("database is down")
	}

	err := f.service.Delete(context.Background(), &models.DeleteRequest{UserID: f.manager, RestaurantID: f.busy.ID})
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, []uuid.UUID{f.busy.ID}, f.client.deleted)
}
