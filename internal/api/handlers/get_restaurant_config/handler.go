package get_restaurant_config

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TableBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TableBooking/internal/service/config"
)

const (
	msgInvalidRestaurantID = "некорректный ID ресторана"
	msgRestaurantNotFound  = "ресторан не найден"
)

type Handler struct {
	service ConfigService
	logger  Logger
}

func NewHandler(service ConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/restaurants/{restaurantId}/config
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(mux.Vars(r)["restaurantId"])
	if err != nil {
		h.logger.Warn("GET /restaurants/{id}/config - Invalid restaurant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRestaurantID)
		return
	}

	// Если конфигурация не сохранена, сервис вернёт значения по умолчанию
	result, err := h.service.Get(r.Context(), restaurantID)
	if err != nil {
		if errors.Is(err, config.ErrRestaurantNotFound) {
			h.logger.Warn("GET /restaurants/{id}/config - Restaurant not found: restaurant_id=%s", restaurantID)
			handlers.RespondNotFound(w, msgRestaurantNotFound)
			return
		}

		h.logger.Error("GET /restaurants/{id}/config - Failed to get config: restaurant_id=%s, error=%v", restaurantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /restaurants/{id}/config - Config retrieved successfully: restaurant_id=%s, default=%t",
		restaurantID, result.IsDefault)
	handlers.RespondJSON(w, http.StatusOK, result)
}
