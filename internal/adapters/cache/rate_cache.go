package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/vaultline/internal/core/domain"
	portsrepo "github.com/SscSPs/vaultline/internal/core/ports/repositories"
	"github.com/SscSPs/vaultline/internal/middleware"
	"github.com/SscSPs/vaultline/internal/platform/metrics"
	gocache "github.com/patrickmn/go-cache"
)

// anyClassSegment stands in for AssetClassAny inside cache keys.
const anyClassSegment = "any"

// RateKey is the cache key for the latest USD rate of symbol within class.
func RateKey(class domain.AssetClass, symbol string) string {
	segment := string(class)
	if class == domain.AssetClassAny {
		segment = anyClassSegment
	}
	return fmt.Sprintf("rate:%s:%s:%s", segment, domain.BaseCurrency, symbol)
}

// RateCache is a read-through cache in front of a base rate repository. Only latest-rate
// lookups are cached; misses are never cached. Writes go straight through and then
// evict every key the written symbols could be cached under.
type RateCache struct {
	next   portsrepo.BaseRateRepositoryFacade
	local  *gocache.Cache
	remote Remote
	ttl    time.Duration
}

// NewRateCache wraps next. remote may be nil for a process-local cache only.
func NewRateCache(next portsrepo.BaseRateRepositoryFacade, remote Remote, ttl time.Duration) *RateCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RateCache{
		next:   next,
		local:  gocache.New(ttl, 2*ttl),
		remote: remote,
		ttl:    ttl,
	}
}

var _ portsrepo.BaseRateRepositoryFacade = (*RateCache)(nil)

// FindLatestBaseRate serves from the local tier, then the remote tier, then the repository.
func (c *RateCache) FindLatestBaseRate(ctx context.Context, class domain.AssetClass, symbol string) (*domain.BaseRate, error) {
	key := RateKey(class, symbol)

	if v, ok := c.local.Get(key); ok {
		metrics.RateCacheLookups.WithLabelValues("local", "hit").Inc()
		rate := v.(domain.BaseRate)
		return &rate, nil
	}
	metrics.RateCacheLookups.WithLabelValues("local", "miss").Inc()

	if c.remote != nil {
		if rate, ok := c.fromRemote(ctx, key); ok {
			c.local.Set(key, rate, c.ttl)
			return &rate, nil
		}
	}

	rate, err := c.next.FindLatestBaseRate(ctx, class, symbol)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, *rate)
	return rate, nil
}

func (c *RateCache) fromRemote(ctx context.Context, key string) (domain.BaseRate, bool) {
	var rate domain.BaseRate
	b, ok, err := c.remote.Get(ctx, key)
	if err != nil {
		metrics.RateCacheLookups.WithLabelValues("remote", "error").Inc()
		middleware.GetLoggerFromCtx(ctx).Warn("Rate cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		return rate, false
	}
	if !ok {
		metrics.RateCacheLookups.WithLabelValues("remote", "miss").Inc()
		return rate, false
	}
	if err := json.Unmarshal(b, &rate); err != nil {
		metrics.RateCacheLookups.WithLabelValues("remote", "error").Inc()
		middleware.GetLoggerFromCtx(ctx).Warn("Discarding undecodable rate cache entry", slog.String("key", key), slog.String("error", err.Error()))
		return rate, false
	}
	metrics.RateCacheLookups.WithLabelValues("remote", "hit").Inc()
	return rate, true
}

func (c *RateCache) store(ctx context.Context, key string, rate domain.BaseRate) {
	c.local.Set(key, rate, c.ttl)
	if c.remote == nil {
		return
	}
	b, err := json.Marshal(rate)
	if err != nil {
		return
	}
	if err := c.remote.Set(ctx, key, b, c.ttl); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Rate cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// FindBaseRateOn is not cached.
func (c *RateCache) FindBaseRateOn(ctx context.Context, symbol string, day time.Time) (*domain.BaseRate, error) {
	return c.next.FindBaseRateOn(ctx, symbol, day)
}

// ListBaseRatesBetween is not cached.
func (c *RateCache) ListBaseRatesBetween(ctx context.Context, symbol string, from, to time.Time) ([]domain.BaseRate, error) {
	return c.next.ListBaseRatesBetween(ctx, symbol, from, to)
}

// ListSymbols is not cached.
func (c *RateCache) ListSymbols(ctx context.Context, class domain.AssetClass) ([]string, error) {
	return c.next.ListSymbols(ctx, class)
}

// SummarizeAssetClasses is not cached.
func (c *RateCache) SummarizeAssetClasses(ctx context.Context) ([]domain.AssetClassSummary, error) {
	return c.next.SummarizeAssetClasses(ctx)
}

// UpsertBaseRates writes through and then invalidates the affected keys.
func (c *RateCache) UpsertBaseRates(ctx context.Context, rates []domain.BaseRate) (int, error) {
	n, err := c.next.UpsertBaseRates(ctx, rates)
	if err != nil {
		return n, err
	}
	c.Invalidate(ctx, rates)
	return n, nil
}

// Invalidate evicts every cached entry for the symbols in rates.
func (c *RateCache) Invalidate(ctx context.Context, rates []domain.BaseRate) {
	keys := make([]string, 0, 2*len(rates))
	seen := make(map[string]struct{}, len(rates))
	for _, r := range rates {
		if _, dup := seen[r.Symbol]; dup {
			continue
		}
		seen[r.Symbol] = struct{}{}
		for _, class := range domain.AssetClasses {
			keys = append(keys, RateKey(class, r.Symbol))
		}
		keys = append(keys, RateKey(domain.AssetClassAny, r.Symbol))
	}
	for _, k := range keys {
		c.local.Delete(k)
	}
	if c.remote != nil {
		if err := c.remote.Del(ctx, keys...); err != nil {
			middleware.GetLoggerFromCtx(ctx).Warn("Rate cache invalidation failed", slog.Int("keys", len(keys)), slog.String("error", err.Error()))
		}
	}
}
