// Package cache holds the resolved appointment listing cache and the
// key/value backends it runs on.
package cache

import (
	"context"
	"time"
)

// Backend is a byte-oriented key/value store. A ttl of zero means the key
// never expires.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
	Close() error
}
