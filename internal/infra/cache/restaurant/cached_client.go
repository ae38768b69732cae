package restaurant

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// CachedClient read-through обёртка над источником ресторанов.
// Ошибки redis не прерывают запрос: данные берутся из источника.
type CachedClient struct {
	source Source
	cache  *Cache
	log    Logger
}

// NewCachedClient создает новый экземпляр клиента с кэшем
func NewCachedClient(source Source, cache *Cache, log Logger) *CachedClient {
	return &CachedClient{source: source, cache: cache, log: log}
}

// GetRestaurant получает ресторан из кэша, при промахе из источника
func (c *CachedClient) GetRestaurant(ctx context.Context, id uuid.UUID) (*domain.Restaurant, error) {
	restaurant, err := c.cache.Get(ctx, id)
	if err == nil {
		return restaurant, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.log.Warn("Restaurant cache read failed for id=%s: %v", id, err)
	}

	restaurant, err = c.source.GetRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, restaurant); err != nil {
		c.log.Warn("Restaurant cache write failed for id=%s: %v", id, err)
	}

	return restaurant, nil
}

// SearchRestaurants всегда идёт в источник и обновляет кэш найденными ресторанами
func (c *CachedClient) SearchRestaurants(ctx context.Context, filter domain.RestaurantFilter) ([]*domain.Restaurant, error) {
	restaurants, err := c.source.SearchRestaurants(ctx, filter)
	if err != nil {
		return nil, err
	}

	for _, restaurant := range restaurants {
		if err := c.cache.Set(ctx, restaurant); err != nil {
			c.log.Warn("Restaurant cache write failed for id=%s: %v", restaurant.ID, err)
			break
		}
	}

	return restaurants, nil
}

// DeleteRestaurant удаляет ресторан в источнике и инвалидирует кэш
func (c *CachedClient) DeleteRestaurant(ctx context.Context, id uuid.UUID) error {
	if err := c.source.DeleteRestaurant(ctx, id); err != nil {
		return err
	}

	if err := c.cache.Delete(ctx, id); err != nil {
		c.log.Error("Restaurant cache invalidation failed for id=%s: %v", id, err)
	}

	return nil
}
