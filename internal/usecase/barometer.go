package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"RiskBarometer/internal/domain/models"
	drepo "RiskBarometer/internal/domain/repository"
	"RiskBarometer/internal/services/signals"
	"RiskBarometer/pkg/config"
	"RiskBarometer/pkg/logger"
	"RiskBarometer/pkg/util"
)

const dailyInterval = "1d"

// assetPlan binds one tracked asset to its own symbol, the history range its
// rules need, and the auxiliary series its rule set reads.
type assetPlan struct {
	key    models.AssetKey
	symbol string
	rng    string
	aux    map[string]ChartRequest
}

// Barometer evaluates all tracked assets and publishes the snapshot. A
// provider failure on an asset's own series omits that asset and the snapshot
// is still written, even when empty; only non-degradable errors (a cancelled
// run, an unknown asset) fail the refresh.
type Barometer struct {
	loader  *SeriesLoader
	store   drepo.SnapshotStore
	metrics drepo.Metrics
	log     *logger.Logger
	plans   []assetPlan
}

func NewBarometer(
	loader *SeriesLoader,
	store drepo.SnapshotStore,
	metrics drepo.Metrics,
	log *logger.Logger,
	cfg *config.Config,
) *Barometer {
	s := cfg.Symbols

	vix := ChartRequest{Symbol: s.VIX, Range: "1y", Interval: dailyInterval}
	yield10y := ChartRequest{Symbol: s.Yield10Y, Range: "1y", Interval: dailyInterval}
	yieldShort := ChartRequest{Symbol: s.YieldShort, Range: "1y", Interval: dailyInterval}
	dxy := ChartRequest{Symbol: s.DXY, Range: "2y", Interval: dailyInterval}
	// Shares the cache entry with the Nasdaq asset's own fetch.
	nasdaq := ChartRequest{Symbol: s.Nasdaq, Range: "2y", Interval: dailyInterval}

	plans := []assetPlan{
		{
			// Five-year window for the positioning percentile.
			key: models.AssetGold, symbol: s.Gold, rng: "5y",
			aux: map[string]ChartRequest{
				signals.AuxYield10Y: yield10y,
				signals.AuxDXY:      dxy,
			},
		},
		{
			key: models.AssetSP500, symbol: s.SP500, rng: "2y",
			aux: map[string]ChartRequest{
				signals.AuxVIX:        vix,
				signals.AuxYield10Y:   yield10y,
				signals.AuxYieldShort: yieldShort,
				signals.AuxNasdaq:     nasdaq,
			},
		},
		{
			key: models.AssetNasdaq, symbol: s.Nasdaq, rng: "2y",
			aux: map[string]ChartRequest{
				signals.AuxVIX:      vix,
				signals.AuxYield10Y: yield10y,
			},
		},
		{
			key: models.AssetBitcoin, symbol: s.Bitcoin, rng: "2y",
			aux: map[string]ChartRequest{
				signals.AuxNasdaq: nasdaq,
			},
		},
	}

	return &Barometer{loader: loader, store: store, metrics: metrics, log: log, plans: plans}
}

// Refresh fetches everything, evaluates all assets in parallel, and publishes
// the snapshot atomically. The returned snapshot is what was written.
func (b *Barometer) Refresh(ctx context.Context) (*models.BarometerSnapshot, error) {
	start := time.Now()
	b.loader.Prefetch(ctx, b.allRequests())

	snapshot := &models.BarometerSnapshot{
		UpdatedAt:  util.NowRFC3339(),
		Barometers: make(map[models.AssetKey]*models.AssetRiskReport, len(b.plans)),
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	var runErr error
	for _, plan := range b.plans {
		wg.Add(1)
		go func(p assetPlan) {
			defer wg.Done()
			report, err := b.evaluateAsset(ctx, p)
			if err != nil {
				// Provider outages and short series omit one asset; anything
				// else (a cancelled run, a broken rule set) fails the refresh.
				if !models.IsDegradable(err) {
					mu.Lock()
					if runErr == nil {
						runErr = fmt.Errorf("evaluate %s: %w", p.key, err)
					}
					mu.Unlock()
					return
				}
				b.metrics.RecordError("asset_fetch")
				b.log.Warn("asset omitted from snapshot",
					logger.String("asset", string(p.key)),
					logger.Error(err))
				return
			}
			mu.Lock()
			snapshot.Barometers[p.key] = report
			mu.Unlock()
		}(plan)
	}
	wg.Wait()

	if runErr != nil {
		return nil, runErr
	}

	if err := b.store.WriteBarometer(snapshot); err != nil {
		return nil, fmt.Errorf("publish barometer: %w", err)
	}
	b.metrics.RecordLatency("barometer_refresh", time.Since(start).Seconds())

	for _, key := range models.AllAssets {
		if report, ok := snapshot.Barometers[key]; ok {
			b.log.Info("asset scored",
				logger.String("asset", string(key)),
				logger.Int("score", report.Score),
				logger.String("level", string(report.Level)))
		}
	}
	return snapshot, nil
}

// Latest returns the most recently published snapshot.
func (b *Barometer) Latest() (*models.BarometerSnapshot, error) {
	return b.store.ReadBarometer()
}

func (b *Barometer) allRequests() []ChartRequest {
	var reqs []ChartRequest
	for _, p := range b.plans {
		reqs = append(reqs, ChartRequest{Symbol: p.symbol, Range: p.rng, Interval: dailyInterval})
		for _, aux := range p.aux {
			reqs = append(reqs, aux)
		}
	}
	return reqs
}

func (b *Barometer) evaluateAsset(ctx context.Context, p assetPlan) (*models.AssetRiskReport, error) {
	own, _, err := b.loader.Load(ctx, ChartRequest{Symbol: p.symbol, Range: p.rng, Interval: dailyInterval})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", p.symbol, err)
	}

	aux := make(signals.AuxSeries, len(p.aux))
	for key, req := range p.aux {
		series, _, lerr := b.loader.Load(ctx, req)
		if lerr != nil {
			// Absent key degrades only the signals that read it.
			b.log.Debug("auxiliary series unavailable",
				logger.String("asset", string(p.key)),
				logger.String("aux", key),
				logger.Error(lerr))
			continue
		}
		aux[key] = series
	}

	ev, err := signals.ForAsset(p.key)
	if err != nil {
		return nil, err
	}
	report := signals.BuildReport(ev.Evaluate(own, aux))

	b.metrics.RecordScore(string(p.key), report.Score)
	for _, sig := range report.Signals {
		b.metrics.RecordSignal(string(p.key), sig.Name, sig.Triggered)
	}
	return report, nil
}
