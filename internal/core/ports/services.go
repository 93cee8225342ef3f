package ports

import "context"

// CacheService provides read-through caching for gateway responses and
// weather grid points. The core itself never caches unified entities.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
