package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/internal/integrations/restaurantservice"
	"github.com/m04kA/SMC-TableBooking/internal/service/reviews/models"
	"github.com/m04kA/SMC-TableBooking/pkg/ptr"
)

// Service сервис отзывов о ресторанах
type Service struct {
	restaurantClient RestaurantClient
	reviewClient     ReviewClient
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса отзывов
func NewService(
	restaurantClient RestaurantClient,
	reviewClient ReviewClient,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		restaurantClient: restaurantClient,
		reviewClient:     reviewClient,
		timeProvider:     timeProvider,
		logger:           logger,
	}
}

// List возвращает отзывы ресторана, новые первыми
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.ReviewListResponse, error) {
	s.logger.Info("List: fetching reviews for restaurant=%s (limit=%d)", req.RestaurantID, req.Limit)

	if req.RestaurantID == uuid.Nil {
		return nil, fmt.Errorf("%w: restaurant id is required", ErrInvalidInput)
	}
	if req.Limit < 0 || req.Limit > domain.MaxReviewsLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, domain.MaxReviewsLimit)
	}
	limit := req.Limit
	if limit == 0 {
		limit = domain.DefaultReviewsLimit
	}

	if _, err := s.getRestaurant(ctx, "List", req.RestaurantID); err != nil {
		return nil, err
	}

	reviews, err := s.reviewClient.GetReviews(ctx, req.RestaurantID, limit)
	if err != nil {
		s.logger.Error("List: failed to get reviews for restaurant=%s: %v", req.RestaurantID, err)
		return nil, fmt.Errorf("%w: List - failed to get reviews: %v", ErrInternal, err)
	}

	s.logger.Info("List: found %d reviews for restaurant=%s", len(reviews), req.RestaurantID)
	return models.FromDomainReviews(reviews), nil
}

// Create сохраняет отзыв пользователя о ресторане
// Менеджеры ресторана не могут оставлять отзывы своему ресторану
func (s *Service) Create(ctx context.Context, req *models.CreateRequest) (*models.ReviewResponse, error) {
	s.logger.Info("Create: review for restaurant=%s by user=%s, rating=%d", req.RestaurantID, req.UserID, req.Rating)

	// 1. Валидируем отзыв
	review, err := s.buildReview(req)
	if err != nil {
		return nil, err
	}

	// 2. Проверяем ресторан и права
	restaurant, err := s.getRestaurant(ctx, "Create", req.RestaurantID)
	if err != nil {
		return nil, err
	}
	if restaurant.IsManager(req.UserID) {
		s.logger.Warn("Create: user=%s manages restaurant=%s and cannot review it", req.UserID, req.RestaurantID)
		return nil, ErrAccessDenied
	}

	// 3. Сохраняем
	created, err := s.reviewClient.CreateReview(ctx, review)
	if err != nil {
		if errors.Is(err, restaurantservice.ErrRestaurantNotFound) {
			s.logger.Warn("Create: restaurant id=%s disappeared before the review was saved", req.RestaurantID)
			return nil, ErrRestaurantNotFound
		}
		s.logger.Error("Create: failed to save review for restaurant=%s: %v", req.RestaurantID, err)
		return nil, fmt.Errorf("%w: Create - failed to save review: %v", ErrInternal, err)
	}

	s.logger.Info("Create: review id=%s saved for restaurant=%s", created.ID, created.RestaurantID)
	return models.FromDomainReview(created), nil
}

// Вспомогательные методы

func (s *Service) buildReview(req *models.CreateRequest) (*domain.Review, error) {
	if req.UserID == uuid.Nil || req.RestaurantID == uuid.Nil {
		return nil, fmt.Errorf("%w: user and restaurant are required", ErrInvalidInput)
	}
	if req.Rating < domain.MinReviewRating || req.Rating > domain.MaxReviewRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, domain.MinReviewRating, domain.MaxReviewRating)
	}

	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		return nil, fmt.Errorf("%w: comment is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(comment) > domain.MaxReviewCommentLength {
		return nil, fmt.Errorf("%w: comment exceeds %d characters", ErrInvalidInput, domain.MaxReviewCommentLength)
	}

	author := strings.TrimSpace(ptr.Value(req.AuthorName))
	if utf8.RuneCountInString(author) > domain.MaxReviewAuthorLength {
		return nil, fmt.Errorf("%w: author name exceeds %d characters", ErrInvalidInput, domain.MaxReviewAuthorLength)
	}

	return &domain.Review{
		RestaurantID: req.RestaurantID,
		UserID:       req.UserID,
		AuthorName:   author,
		Rating:       req.Rating,
		Comment:      comment,
		CreatedAt:    s.timeProvider.Now(),
	}, nil
}

func (s *Service) getRestaurant(ctx context.Context, op string, id uuid.UUID) (*domain.Restaurant, error) {
	restaurant, err := s.restaurantClient.GetRestaurant(ctx, id)
	if err != nil {
		if errors.Is(err, restaurantservice.ErrRestaurantNotFound) {
			s.logger.Warn("%s: restaurant id=%s not found", op, id)
			return nil, ErrRestaurantNotFound
		}
		s.logger.Error("%s: failed to get restaurant id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - failed to get restaurant: %v", ErrInternal, op, err)
	}
	return restaurant, nil
}
