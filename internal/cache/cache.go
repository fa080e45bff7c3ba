package cache

import (
	"context"
	"time"
)

// Cache is the JSON key/value store used for embedding vectors. Misses and
// undecodable entries report hit=false rather than an error.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
