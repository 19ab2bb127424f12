package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
)

const (
	generationKey = "clinic:appointments:generation"
	listingPrefix = "clinic:appointments:resolved:"
)

// NoGeneration is returned by Get when the generation could not be read.
// Put ignores it.
const NoGeneration int64 = -1

// Listing caches the resolved appointment listing under a generation number.
// Invalidate bumps the generation, so entries written by readers that started
// before the bump are never read again.
type Listing struct {
	backend Backend
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewListing(backend Backend, ttl time.Duration, m *metrics.Metrics) *Listing {
	return &Listing{backend: backend, ttl: ttl, metrics: m}
}

func (l *Listing) Generation(ctx context.Context) (int64, error) {
	raw, ok, err := l.backend.Get(ctx, generationKey)
	if err != nil || !ok {
		return 0, err
	}
	return strconv.ParseInt(string(raw), 10, 64)
}

// Get returns the cached listing for the current generation. On a miss it
// returns the generation the caller must pass to Put.
func (l *Listing) Get(ctx context.Context) ([]*model.ResolvedAppointment, int64, bool) {
	gen, err := l.Generation(ctx)
	if err != nil {
		l.lookup(metrics.CacheError)
		log.Ctx(ctx).Warn().Err(err).Msg("listing cache generation unavailable")
		return nil, NoGeneration, false
	}

	raw, ok, err := l.backend.Get(ctx, listingKey(gen))
	if err != nil {
		l.lookup(metrics.CacheError)
		log.Ctx(ctx).Warn().Err(err).Msg("listing cache read failed")
		return nil, gen, false
	}
	if !ok {
		l.lookup(metrics.CacheMiss)
		return nil, gen, false
	}

	var items []*model.ResolvedAppointment
	if err := json.Unmarshal(raw, &items); err != nil {
		l.lookup(metrics.CacheError)
		log.Ctx(ctx).Warn().Err(err).Msg("listing cache entry corrupt")
		return nil, gen, false
	}
	l.lookup(metrics.CacheHit)
	return items, gen, true
}

func (l *Listing) Put(ctx context.Context, gen int64, items []*model.ResolvedAppointment) {
	if gen == NoGeneration {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to encode listing")
		return
	}
	if err := l.backend.Set(ctx, listingKey(gen), raw, l.ttl); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("listing cache write failed")
	}
}

// Invalidate is called after every committed mutation. A failed bump leaves
// the current entry readable until its TTL expires.
func (l *Listing) Invalidate(ctx context.Context) {
	if _, err := l.backend.Incr(ctx, generationKey); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("listing cache invalidation failed")
		return
	}
	if l.metrics != nil {
		l.metrics.CacheInvalidation.Inc()
	}
}

func (l *Listing) lookup(result string) {
	if l.metrics != nil {
		l.metrics.CacheLookups.WithLabelValues(result).Inc()
	}
}

func listingKey(gen int64) string {
	return listingPrefix + strconv.FormatInt(gen, 10)
}

// Nop never caches. Every Get is a miss.
type Nop struct{}

func (Nop) Get(context.Context) ([]*model.ResolvedAppointment, int64, bool) {
	return nil, NoGeneration, false
}

func (Nop) Put(context.Context, int64, []*model.ResolvedAppointment) {}

func (Nop) Invalidate(context.Context) {}
