package get_restaurant

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TableBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TableBooking/internal/service/restaurants"
)

const (
	msgInvalidRestaurantID = "некорректный ID ресторана"
	msgNotFound            = "ресторан не найден"
)

type Handler struct {
	service RestaurantService
	logger  Logger
}

func NewHandler(service RestaurantService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/restaurants/{restaurantId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(mux.Vars(r)["restaurantId"])
	if err != nil {
		h.logger.Warn("GET /restaurants/{id} - Invalid restaurant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRestaurantID)
		return
	}

	result, err := h.service.GetByID(r.Context(), restaurantID)
	if err != nil {
		if errors.Is(err, restaurants.ErrRestaurantNotFound) {
			h.logger.Warn("GET /restaurants/{id} - Restaurant not found: restaurant_id=%s", restaurantID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}

		h.logger.Error("GET /restaurants/{id} - Failed to get restaurant: restaurant_id=%s, error=%v", restaurantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /restaurants/{id} - Restaurant retrieved: restaurant_id=%s", restaurantID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
