package update_restaurant_config

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TableBooking/internal/service/config"
	"github.com/m04kA/SMC-TableBooking/internal/service/config/models"
	"github.com/m04kA/SMC-TableBooking/pkg/logger"
)

type fakeService struct {
	gotReq *models.UpdateConfigRequest
	err    error
}

func (f *fakeService) Update(_ context.Context, restaurantID uuid.UUID, req *models.UpdateConfigRequest) (*models.ConfigResponse, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.ConfigResponse{RestaurantID: restaurantID, SlotDurationMinutes: *req.SlotDurationMinutes}, nil
}

func serve(svc *fakeService, restaurantID string, userID uuid.UUID, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/restaurants/{restaurantId}/config", NewHandler(svc, logger.NewNop()).Handle)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/restaurants/"+restaurantID+"/config", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_OK(t *testing.T) {
	svc := &fakeService{}
	userID := uuid.New()

	w := serve(svc, uuid.NewString(), userID, `{"slotDurationMinutes":15}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ConfigResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 15, resp.SlotDurationMinutes)

	assert.Equal(t, userID, svc.gotReq.UserID)
	assert.Nil(t, svc.gotReq.AdvanceBookingDays)
}

func TestHandler_Errors(t *testing.T) {
	body := `{"slotDurationMinutes":15}`

	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "1", uuid.New(), body).Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, uuid.NewString(), uuid.New(), `{"slotDuration":15}`).Code)

	tests := []struct {
		err  error
		code int
	}{
		{config.ErrRestaurantNotFound, http.StatusNotFound},
		{config.ErrAccessDenied, http.StatusForbidden},
		{config.ErrInvalidInput, http.StatusBadRequest},
		{config.ErrInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := serve(&fakeService{err: tt.err}, uuid.NewString(), uuid.New(), body)
		assert.Equal(t, tt.code, w.Code, tt.err.Error())
	}
}
