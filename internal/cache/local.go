package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Local is a process-local Backend on go-cache.
type Local struct {
	c  *gocache.Cache
	mu sync.Mutex
}

func NewLocal(cleanupInterval time.Duration) *Local {
	return &Local{c: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (l *Local) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := l.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v.([]byte), true, nil
}

func (l *Local) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	l.c.Set(key, value, ttl)
	return nil
}

// Incr stores counters as decimal bytes so Get reads them like the redis backend does.
func (l *Local) Incr(_ context.Context, key string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var n int64
	if v, ok := l.c.Get(key); ok {
		parsed, err := strconv.ParseInt(string(v.([]byte)), 10, 64)
		if err != nil {
			return 0, err
		}
		n = parsed
	}
	n++
	l.c.Set(key, []byte(strconv.FormatInt(n, 10)), gocache.NoExpiration)
	return n, nil
}

func (l *Local) Close() error {
	l.c.Flush()
	return nil
}
