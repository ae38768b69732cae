package cancel_booking

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

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
	gotID  uuid.UUID
	gotReq *models.CancelBookingRequest
	err    error
}

func (f *fakeService) Cancel(_ context.Context, bookingID uuid.UUID, req *models.CancelBookingRequest) error {
	f.gotID = bookingID
	f.gotReq = req
	return f.err
}

func serve(svc *fakeService, bookingID string, userID uuid.UUID, body io.Reader) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/bookings/{bookingId}/cancel", NewHandler(svc, logger.NewNop()).Handle)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+bookingID+"/cancel", body)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_WithReason(t *testing.T) {
	svc := &fakeService{}
	userID := uuid.New()
	bookingID := uuid.New()

	w := serve(svc, bookingID.String(), userID, strings.NewReader(`{"cancellationReason":"plans changed"}`))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	assert.Equal(t, bookingID, svc.gotID)
	assert.Equal(t, userID, svc.gotReq.UserID)
	require.NotNil(t, svc.gotReq.CancellationReason)
	assert.Equal(t, "plans changed", *svc.gotReq.CancellationReason)
}

func TestHandler_WithoutBody(t *testing.T) {
	svc := &fakeService{}

	w := serve(svc, uuid.NewString(), uuid.New(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, svc.gotReq)
	assert.Nil(t, svc.gotReq.CancellationReason)
}

func TestHandler_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "nope", uuid.New(), nil).Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, uuid.NewString(), uuid.New(), strings.NewReader(`{"reason":1}`)).Code)

	tests := []struct {
		err  error
		code int
	}{
		{bookings.ErrBookingNotFound, http.StatusNotFound},
		{bookings.ErrAccessDenied, http.StatusForbidden},
		{bookings.ErrCannotCancel, http.StatusConflict},
		{bookings.ErrInvalidInput, http.StatusBadRequest},
		{bookings.ErrInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := serve(&fakeService{err: tt.err}, uuid.NewString(), uuid.New(), nil)
		assert.Equal(t, tt.code, w.Code, tt.err.Error())
	}
}
