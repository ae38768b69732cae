package get_available_slots

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

	getAvailableSlots "github.com/m04kA/SMC-TableBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-TableBooking/pkg/logger"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

type fakeUseCase struct {
	got *getAvailableSlots.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &getAvailableSlots.Response{
		Date:           req.Date,
		RestaurantID:   req.RestaurantID,
		RestaurantName: "Luna",
		PartySize:      req.PartySize,
		Slots: []getAvailableSlots.Slot{
			{StartTime: types.MustTimeString("18:00"), DurationMinutes: 30, AvailableCovers: 6, TotalCovers: 10},
			{StartTime: types.MustTimeString("18:30"), DurationMinutes: 30, AvailableCovers: 10, TotalCovers: 10},
		},
	}, nil
}

func router(uc *fakeUseCase) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/restaurants/{restaurantId}/available-slots", NewHandler(uc, logger.NewNop()).Handle)
	return r
}

func get(r *mux.Router, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandler_OK(t *testing.T) {
	uc := &fakeUseCase{}
	id := uuid.New()

	w := get(router(uc), "/api/v1/restaurants/"+id.String()+"/available-slots?date=2025-06-11&partySize=4")
	require.Equal(t, http.StatusOK, w.Code)

	var resp AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2025-06-11", resp.Date)
	assert.Equal(t, id, resp.RestaurantID)
	assert.Equal(t, 4, resp.PartySize)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, AvailableSlot{StartTime: "18:00", DurationMinutes: 30, AvailableCovers: 6, TotalCovers: 10}, resp.Slots[0])
}

func TestHandler_BadRequests(t *testing.T) {
	id := uuid.NewString()
	targets := []string{
		"/api/v1/restaurants/abc/available-slots?date=2025-06-11&partySize=2",
		"/api/v1/restaurants/" + id + "/available-slots?partySize=2",
		"/api/v1/restaurants/" + id + "/available-slots?date=2025-06-11",
		"/api/v1/restaurants/" + id + "/available-slots?date=2025-06-11&partySize=0",
		"/api/v1/restaurants/" + id + "/available-slots?date=tomorrow&partySize=2",
	}

	for _, target := range targets {
		uc := &fakeUseCase{}
		w := get(router(uc), target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Nil(t, uc.got, target)
	}
}

func TestHandler_UseCaseErrors(t *testing.T) {
	target := "/api/v1/restaurants/" + uuid.NewString() + "/available-slots?date=2025-06-11&partySize=2"

	tests := []struct {
		err  error
		code int
	}{
		{getAvailableSlots.ErrRestaurantNotFound, http.StatusNotFound},
		{getAvailableSlots.ErrInvalidDate, http.StatusBadRequest},
		{getAvailableSlots.ErrDateTooFarInFuture, http.StatusBadRequest},
		{getAvailableSlots.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		w := get(router(&fakeUseCase{err: tt.err}), target)
		assert.Equal(t, tt.code, w.Code, tt.err.Error())
	}
}
