package domain

import (
	"time"

	"github.com/google/uuid"
)

// Review limits
const (
	MinReviewRating        = 1
	MaxReviewRating        = 5
	MaxReviewCommentLength = 2000
	MaxReviewAuthorLength  = 100
	DefaultReviewsLimit    = 50
	MaxReviewsLimit        = 200
)

// Review is a diner's review of a restaurant, stored in the managed backend next to the restaurant
type Review struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	UserID       uuid.UUID
	AuthorName   string
	Rating       int // MinReviewRating..MaxReviewRating
	Comment      string
	CreatedAt    time.Time
}

// AverageRating returns the mean rating of the reviews, 0 for none
func AverageRating(reviews []*Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return float64(total) / float64(len(reviews))
}
