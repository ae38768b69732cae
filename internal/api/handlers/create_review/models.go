package create_review

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBooking/internal/service/reviews/models"
)

// CreateReviewRequest тело запроса на создание отзыва
type CreateReviewRequest struct {
	AuthorName *string `json:"authorName,omitempty"`
	Rating     int     `json:"rating"`
	Comment    string  `json:"comment"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateReviewRequest) ToServiceRequest(userID, restaurantID uuid.UUID) *models.CreateRequest {
	return &models.CreateRequest{
		UserID:       userID,
		RestaurantID: restaurantID,
		AuthorName:   r.AuthorName,
		Rating:       r.Rating,
		Comment:      r.Comment,
	}
}
