package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-api/config"
	"github.com/jwalitptl/clinic-api/pkg/circuitbreaker"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
)

// Redis is a shared Backend. Calls go through a circuit breaker so an
// unreachable server fails fast instead of stalling every listing request.
type Redis struct {
	client redis.UniversalClient
	cb     *circuitbreaker.CircuitBreaker
}

func NewRedis(ctx context.Context, cfg config.RedisConfig, breaker config.BreakerConfig, m *metrics.Metrics) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.MaxRetries = cfg.MaxRetries

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisWithClient(client, breaker, m), nil
}

func NewRedisWithClient(client redis.UniversalClient, breaker config.BreakerConfig, m *metrics.Metrics) *Redis {
	cb := circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
		Name:        "listing-cache-redis",
		MaxFailures: breaker.MaxFailures,
		Timeout:     breaker.Timeout,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			log.Warn().Str("breaker", name).Str("from", string(from)).Str("to", string(to)).Msg("circuit breaker state changed")
			if m == nil {
				return
			}
			open := 0.0
			if to == circuitbreaker.StateOpen {
				open = 1
			}
			m.BreakerState.WithLabelValues(name).Set(open)
		},
	})
	return &Redis{client: client, cb: cb}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		val   []byte
		found bool
	)
	err := r.cb.Execute(func() error {
		b, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		val, found = b, true
		return nil
	})
	return val, found, err
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.cb.Execute(func() error {
		return r.client.Set(ctx, key, value, ttl).Err()
	})
}

func (r *Redis) Incr(ctx context.Context, key string) (int64, error) {
	var n int64
	err := r.cb.Execute(func() error {
		var err error
		n, err = r.client.Incr(ctx, key).Result()
		return err
	})
	return n, err
}

func (r *Redis) Close() error {
	return r.client.Close()
}
