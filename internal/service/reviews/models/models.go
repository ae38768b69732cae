package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// Request модели

// ListRequest запрос отзывов ресторана
type ListRequest struct {
	RestaurantID uuid.UUID `json:"restaurantId"`
	Limit        int       `json:"limit,omitempty"` // 0 = domain.DefaultReviewsLimit
}

// CreateRequest запрос на создание отзыва
type CreateRequest struct {
	UserID       uuid.UUID `json:"userId"`
	RestaurantID uuid.UUID `json:"restaurantId"`
	AuthorName   *string   `json:"authorName,omitempty"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
}

// Response модели

// ReviewResponse отзыв
type ReviewResponse struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurantId"`
	UserID       uuid.UUID `json:"userId"`
	AuthorName   string    `json:"authorName,omitempty"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ReviewListResponse отзывы ресторана со сводкой
type ReviewListResponse struct {
	Reviews       []ReviewResponse `json:"reviews"`
	ReviewCount   int              `json:"reviewCount"`
	AverageRating float64          `json:"averageRating"`
}

// FromDomainReview конвертирует domain модель в response
func FromDomainReview(r *domain.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:           r.ID,
		RestaurantID: r.RestaurantID,
		UserID:       r.UserID,
		AuthorName:   r.AuthorName,
		Rating:       r.Rating,
		Comment:      r.Comment,
		CreatedAt:    r.CreatedAt,
	}
}

// FromDomainReviews конвертирует список отзывов в response
func FromDomainReviews(reviews []*domain.Review) *ReviewListResponse {
	resp := &ReviewListResponse{
		Reviews:       make([]ReviewResponse, 0, len(reviews)),
		ReviewCount:   len(reviews),
		AverageRating: domain.AverageRating(reviews),
	}
	for _, r := range reviews {
		resp.Reviews = append(resp.Reviews, *FromDomainReview(r))
	}
	return resp
}
