package get_restaurant_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TableBooking/internal/service/bookings"
	"github.com/m04kA/SMC-TableBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-TableBooking/pkg/logger"
)

type fakeService struct {
	gotReq *models.GetRestaurantBookingsRequest
	err    error
}

func (f *fakeService) GetRestaurantBookings(_ context.Context, req *models.GetRestaurantBookingsRequest) (*models.BookingListResponse, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingListResponse{Bookings: []models.BookingResponse{}}, nil
}

func serve(svc *fakeService, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/restaurants/{restaurantId}/bookings", NewHandler(svc, logger.NewNop()).Handle)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestToServiceRequest(t *testing.T) {
	restaurantID, userID := uuid.New(), uuid.New()

	req, err := ToServiceRequest(restaurantID, userID, url.Values{"date": {"2025-06-11"}, "includeInactive": {"true"}})
	require.NoError(t, err)
	day := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, day, *req.StartDate)
	assert.Equal(t, day, *req.EndDate)
	assert.True(t, req.IncludeInactive)

	req, err = ToServiceRequest(restaurantID, userID, url.Values{"startDate": {"2025-06-01"}, "status": {"pending"}})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *req.StartDate)
	assert.Nil(t, req.EndDate)
	assert.Equal(t, "pending", *req.Status)

	invalid := []url.Values{
		{"date": {"11/06/2025"}},
		{"date": {"2025-06-11"}, "endDate": {"2025-06-12"}},
		{"startDate": {"yesterday"}},
		{"endDate": {"2025-13-01"}},
		{"includeInactive": {"maybe"}},
	}
	for _, q := range invalid {
		_, err := ToServiceRequest(restaurantID, userID, q)
		assert.Error(t, err, q.Encode())
	}
}

func TestHandler(t *testing.T) {
	target := "/api/v1/restaurants/" + uuid.NewString() + "/bookings?date=2025-06-11"

	svc := &fakeService{}
	assert.Equal(t, http.StatusOK, serve(svc, target).Code)
	require.NotNil(t, svc.gotReq)

	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "/api/v1/restaurants/1/bookings").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, target+"&includeInactive=2x").Code)
	assert.Equal(t, http.StatusForbidden, serve(&fakeService{err: bookings.ErrAccessDenied}, target).Code)
	assert.Equal(t, http.StatusNotFound, serve(&fakeService{err: bookings.ErrRestaurantNotFound}, target).Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{err: bookings.ErrInvalidInput}, target).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: bookings.ErrInternal}, target).Code)
}
