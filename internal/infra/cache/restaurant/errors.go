package restaurant

import "errors"

var (
	// ErrCacheMiss возвращается, когда ресторана нет в кэше
	ErrCacheMiss = errors.New("restaurant.cache: miss")

	// ErrCache возвращается при ошибках redis
	ErrCache = errors.New("restaurant.cache: redis error")

	// ErrCorruptedEntry возвращается, когда запись в кэше не удалось разобрать
	ErrCorruptedEntry = errors.New("restaurant.cache: corrupted entry")
)
