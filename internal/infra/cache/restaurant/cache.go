package restaurant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/internal/integrations/restaurantservice"
)

const keyPrefix = "restaurant:"

// Cache кэш справочных данных ресторанов в redis
type Cache struct {
	client RedisClient
	ttl    time.Duration
}

// NewCache создает новый кэш с временем жизни записей ttl
func NewCache(client RedisClient, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func key(id uuid.UUID) string {
	return keyPrefix + id.String()
}

// Get возвращает ресторан из кэша или ErrCacheMiss
func (c *Cache) Get(ctx context.Context, id uuid.UUID) (*domain.Restaurant, error) {
	data, err := c.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - %v", ErrCache, err)
	}

	var dto restaurantservice.Restaurant
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("%w: Get - unmarshal: %v", ErrCorruptedEntry, err)
	}

	restaurant, err := dto.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - %v", ErrCorruptedEntry, err)
	}

	return restaurant, nil
}

// Set сохраняет ресторан в кэш
func (c *Cache) Set(ctx context.Context, restaurant *domain.Restaurant) error {
	data, err := json.Marshal(restaurantservice.FromDomain(restaurant))
	if err != nil {
		return fmt.Errorf("%w: Set - marshal: %v", ErrCache, err)
	}

	if err := c.client.Set(ctx, key(restaurant.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Set - %v", ErrCache, err)
	}

	return nil
}

// Delete удаляет ресторан из кэша
func (c *Cache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("%w: Delete - %v", ErrCache, err)
	}
	return nil
}
