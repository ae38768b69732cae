package delete_restaurant

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TableBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TableBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TableBooking/internal/service/restaurants"
	"github.com/m04kA/SMC-TableBooking/internal/service/restaurants/models"
)

const (
	msgInvalidRestaurantID = "некорректный ID ресторана"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgNotFound            = "ресторан не найден"
	msgForbidden           = "доступ запрещен"
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

// Handle DELETE /api/v1/restaurants/{restaurantId}
// Удаляет ресторан вместе с активными бронированиями и конфигурацией
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(mux.Vars(r)["restaurantId"])
	if err != nil {
		h.logger.Warn("DELETE /restaurants/{id} - Invalid restaurant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRestaurantID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /restaurants/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	err = h.service.Delete(r.Context(), &models.DeleteRequest{UserID: userID, RestaurantID: restaurantID})
	if err != nil {
		switch {
		case errors.Is(err, restaurants.ErrRestaurantNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, restaurants.ErrAccessDenied):
			h.logger.Warn("DELETE /restaurants/{id} - Access denied: restaurant_id=%s, user_id=%s", restaurantID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /restaurants/{id} - Failed to delete restaurant: restaurant_id=%s, error=%v", restaurantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /restaurants/{id} - Restaurant deleted: restaurant_id=%s, user_id=%s", restaurantID, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
