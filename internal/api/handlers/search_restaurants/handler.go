package search_restaurants

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TableBooking/internal/service/restaurants"
)

const (
	msgInvalidParams = "некорректные параметры поиска"
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

// Handle GET /api/v1/restaurants
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceReq, err := ToServiceRequest(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /restaurants - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.Search(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, restaurants.ErrInvalidInput) {
			h.logger.Warn("GET /restaurants - Invalid search: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}

		h.logger.Error("GET /restaurants - Failed to search restaurants: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /restaurants - Search completed: query=%q, count=%d", serviceReq.Query, len(result.Restaurants))
	handlers.RespondJSON(w, http.StatusOK, result)
}
