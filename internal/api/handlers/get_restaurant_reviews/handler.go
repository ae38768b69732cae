package get_restaurant_reviews

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TableBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TableBooking/internal/service/reviews"
	"github.com/m04kA/SMC-TableBooking/internal/service/reviews/models"
)

const (
	msgInvalidRestaurantID = "некорректный ID ресторана"
	msgInvalidLimit        = "некорректный параметр limit"
	msgNotFound            = "ресторан не найден"
)

type Handler struct {
	service ReviewService
	logger  Logger
}

func NewHandler(service ReviewService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/restaurants/{restaurantId}/reviews
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(mux.Vars(r)["restaurantId"])
	if err != nil {
		h.logger.Warn("GET /restaurants/{id}/reviews - Invalid restaurant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRestaurantID)
		return
	}

	req := &models.ListRequest{RestaurantID: restaurantID}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		req.Limit, err = strconv.Atoi(raw)
		if err != nil {
			h.logger.Warn("GET /restaurants/{id}/reviews - Invalid limit: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidLimit)

		case errors.Is(err, reviews.ErrRestaurantNotFound):
			h.logger.Warn("GET /restaurants/{id}/reviews - Restaurant not found: restaurant_id=%s", restaurantID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /restaurants/{id}/reviews - Failed to get reviews: restaurant_id=%s, error=%v", restaurantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /restaurants/{id}/reviews - Reviews retrieved: restaurant_id=%s, count=%d", restaurantID, result.ReviewCount)
	handlers.RespondJSON(w, http.StatusOK, result)
}
