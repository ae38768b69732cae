package get_restaurant_config

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/internal/service/config"
	"github.com/m04kA/SMC-TableBooking/internal/service/config/models"
	"github.com/m04kA/SMC-TableBooking/pkg/logger"
)

type fakeService struct {
	err error
}

func (f *fakeService) Get(_ context.Context, restaurantID uuid.UUID) (*models.ConfigResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ConfigResponse{
		RestaurantID:           restaurantID,
		SlotDurationMinutes:    domain.DefaultSlotDurationMinutes,
		BookingDurationMinutes: domain.DefaultSlotDurationMinutes,
		IsDefault:              true,
	}, nil
}

func serve(svc *fakeService, restaurantID string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/restaurants/{restaurantId}/config", NewHandler(svc, logger.NewNop()).Handle)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/"+restaurantID+"/config", nil))
	return w
}

func TestHandler_Defaults(t *testing.T) {
	id := uuid.New()

	w := serve(&fakeService{}, id.String())
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ConfigResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.RestaurantID)
	assert.True(t, resp.IsDefault)
	assert.Nil(t, resp.CreatedAt)
}

func TestHandler_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "luna").Code)
	assert.Equal(t, http.StatusNotFound, serve(&fakeService{err: config.ErrRestaurantNotFound}, uuid.NewString()).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: config.ErrInternal}, uuid.NewString()).Code)
}
