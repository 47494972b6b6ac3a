package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"RiskBarometer/internal/domain/models"
	drepo "RiskBarometer/internal/domain/repository"
	"RiskBarometer/internal/service/ratelimit"
	"RiskBarometer/pkg/cache"
	"RiskBarometer/pkg/logger"
)

// ChartRequest identifies one history fetch against the provider.
type ChartRequest struct {
	Symbol   string
	Range    string
	Interval string
}

func (r ChartRequest) key() string {
	return r.Symbol + "|" + r.Range + "|" + r.Interval
}

type chartEntry struct {
	series *models.PriceSeries
	meta   *models.ChartMeta
}

const providerKey = "provider"

// SeriesLoader fetches chart history through a run-scoped TTL cache with
// bounded concurrency and request pacing. A symbol feeding several rule sets
// hits the provider once per run.
type SeriesLoader struct {
	provider drepo.HistoryProvider
	cache    *cache.Memory
	limiter  *ratelimit.Limiter
	metrics  drepo.Metrics
	log      *logger.Logger
	ttl      time.Duration
	sem      chan struct{}
}

func NewSeriesLoader(
	provider drepo.HistoryProvider,
	memory *cache.Memory,
	limiter *ratelimit.Limiter,
	metrics drepo.Metrics,
	log *logger.Logger,
	ttl time.Duration,
	maxConcurrent int,
) *SeriesLoader {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &SeriesLoader{
		provider: provider,
		cache:    memory,
		limiter:  limiter,
		metrics:  metrics,
		log:      log,
		ttl:      ttl,
		sem:      make(chan struct{}, maxConcurrent),
	}
}

// Load returns the series and meta for one chart request, from cache when
// fresh. Concurrent callers asking for distinct requests proceed in parallel
// up to the configured limit.
func (l *SeriesLoader) Load(ctx context.Context, req ChartRequest) (*models.PriceSeries, *models.ChartMeta, error) {
	if v, err := l.cache.Get(req.key()); err == nil {
		entry := v.(chartEntry)
		return entry.series, entry.meta, nil
	}

	select {
	case l.sem <- struct{}{}:
		defer func() { <-l.sem }()
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}

	// Re-check after acquiring the slot: another goroutine may have
	// loaded the same request while we waited.
	if v, err := l.cache.Get(req.key()); err == nil {
		entry := v.(chartEntry)
		return entry.series, entry.meta, nil
	}

	if err := l.limiter.Wait(ctx, providerKey, 4, 2); err != nil {
		return nil, nil, fmt.Errorf("rate limit wait: %w", err)
	}

	start := time.Now()
	series, meta, err := l.provider.GetChart(ctx, req.Symbol, req.Range, req.Interval)
	l.metrics.RecordLatency("fetch", time.Since(start).Seconds())
	if err != nil {
		l.metrics.RecordFetch(req.Symbol, "error")
		return nil, nil, err
	}
	l.metrics.RecordFetch(req.Symbol, "success")

	l.cache.Set(req.key(), chartEntry{series: series, meta: meta}, l.ttl)
	return series, meta, nil
}

// Prefetch warms the cache for a batch of requests in parallel. Failures are
// logged and left for the per-asset path to classify.
func (l *SeriesLoader) Prefetch(ctx context.Context, reqs []ChartRequest) {
	seen := make(map[string]bool, len(reqs))
	var wg sync.WaitGroup
	for _, req := range reqs {
		if seen[req.key()] {
			continue
		}
		seen[req.key()] = true
		wg.Add(1)
		go func(r ChartRequest) {
			defer wg.Done()
			if _, _, err := l.Load(ctx, r); err != nil {
				l.log.Debug("prefetch failed",
					logger.String("symbol", r.Symbol),
					logger.String("range", r.Range),
					logger.Error(err))
			}
		}(req)
	}
	wg.Wait()
}
