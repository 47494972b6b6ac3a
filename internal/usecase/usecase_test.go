package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"RiskBarometer/internal/domain/models"
	"RiskBarometer/internal/repository"
	"RiskBarometer/internal/service/ratelimit"
	"RiskBarometer/pkg/cache"
	"RiskBarometer/pkg/config"
	"RiskBarometer/pkg/logger"
	"RiskBarometer/pkg/metrics"
)

type fakeProvider struct {
	mu       sync.Mutex
	series   map[string]*models.PriceSeries
	meta     map[string]*models.ChartMeta
	fail     map[string]bool
	hardFail map[string]bool
	calls    map[string]int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		series:   make(map[string]*models.PriceSeries),
		meta:     make(map[string]*models.ChartMeta),
		fail:     make(map[string]bool),
		hardFail: make(map[string]bool),
		calls:    make(map[string]int),
	}
}

func (f *fakeProvider) GetChart(_ context.Context, symbol, _, _ string) (*models.PriceSeries, *models.ChartMeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[symbol]++
	if f.hardFail[symbol] {
		return nil, nil, fmt.Errorf("%s: malformed payload", symbol)
	}
	if f.fail[symbol] {
		return nil, nil, fmt.Errorf("%s: %w", symbol, models.ErrProviderUnavailable)
	}
	s, ok := f.series[symbol]
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", symbol, models.ErrProviderUnavailable)
	}
	meta := f.meta[symbol]
	if meta == nil {
		meta = &models.ChartMeta{RegularMarketPrice: s.LastClose()}
	}
	return s, meta, nil
}

func (f *fakeProvider) callCount(symbol string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[symbol]
}

func flatSeries(symbol string, n int, price float64) *models.PriceSeries {
	start := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
	for i := range bars {
		bars[i] = models.Bar{
			Timestamp: start.Add(time.Duration(i) * 24 * time.Hour),
			Close:     price,
			High:      price,
			Low:       price,
			Volume:    100,
		}
	}
	return &models.PriceSeries{Symbol: symbol, Bars: bars}
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func quietProvider(cfg *config.Config) *fakeProvider {
	p := newFakeProvider()
	s := cfg.Symbols
	p.series[s.Gold] = flatSeries(s.Gold, 1300, 2000)
	p.series[s.SP500] = flatSeries(s.SP500, 300, 5000)
	p.series[s.Nasdaq] = flatSeries(s.Nasdaq, 300, 15000)
	p.series[s.Bitcoin] = flatSeries(s.Bitcoin, 300, 40000)
	p.series[s.VIX] = flatSeries(s.VIX, 60, 15)
	p.series[s.Yield10Y] = flatSeries(s.Yield10Y, 60, 45) // 4.5%
	p.series[s.YieldShort] = flatSeries(s.YieldShort, 60, 40)
	p.series[s.DXY] = flatSeries(s.DXY, 300, 104)
	return p
}

func newTestBarometer(t *testing.T, cfg *config.Config, p *fakeProvider) *Barometer {
	t.Helper()
	log := testLogger(t)
	loader := NewSeriesLoader(p, cache.NewMemory(64), ratelimit.New(), metrics.New(), log, 10*time.Minute, 4)
	store := repository.NewFileStore(t.TempDir(), "risk-barometer.json", "market.json")
	return NewBarometer(loader, store, metrics.New(), log, cfg)
}

func TestRefreshQuietMarketScoresAllAssetsLow(t *testing.T) {
	cfg := testConfig(t)
	p := quietProvider(cfg)
	b := newTestBarometer(t, cfg, p)

	snapshot, err := b.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(snapshot.Barometers) != len(models.AllAssets) {
		t.Fatalf("expected %d assets, got %d", len(models.AllAssets), len(snapshot.Barometers))
	}
	for _, key := range models.AllAssets {
		report := snapshot.Barometers[key]
		if report == nil {
			t.Fatalf("missing asset %s", key)
		}
		if report.Score != 0 || report.Level != models.LevelLow {
			t.Fatalf("%s: expected quiet market LOW/0, got %d/%s", key, report.Score, report.Level)
		}
		if len(report.Signals) != 5 {
			t.Fatalf("%s: expected 5 signals, got %d", key, len(report.Signals))
		}
		if report.Recommendation == "" {
			t.Fatalf("%s: missing recommendation", key)
		}
	}

	// Nasdaq history feeds three assets but must be fetched once.
	if n := p.callCount(cfg.Symbols.Nasdaq); n != 1 {
		t.Fatalf("expected one nasdaq fetch, got %d", n)
	}

	latest, err := b.Latest()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if latest.UpdatedAt != snapshot.UpdatedAt {
		t.Fatalf("published snapshot differs: %s vs %s", latest.UpdatedAt, snapshot.UpdatedAt)
	}
}

func TestRefreshOmitsAssetWhenOwnSeriesFails(t *testing.T) {
	cfg := testConfig(t)
	p := quietProvider(cfg)
	p.fail[cfg.Symbols.Bitcoin] = true
	b := newTestBarometer(t, cfg, p)

	snapshot, err := b.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, ok := snapshot.Barometers[models.AssetBitcoin]; ok {
		t.Fatalf("bitcoin should be omitted when its history is unavailable")
	}
	if len(snapshot.Barometers) != 3 {
		t.Fatalf("expected 3 assets, got %d", len(snapshot.Barometers))
	}
}

func TestRefreshDegradesSignalsOnMissingAuxiliary(t *testing.T) {
	cfg := testConfig(t)
	p := quietProvider(cfg)
	p.fail[cfg.Symbols.VIX] = true
	b := newTestBarometer(t, cfg, p)

	snapshot, err := b.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	report := snapshot.Barometers[models.AssetSP500]
	if report == nil {
		t.Fatalf("sp500 must survive a missing auxiliary feed")
	}

	degraded := 0
	for _, sig := range report.Signals {
		if strings.HasPrefix(sig.Detail, "data unavailable:") {
			if sig.Triggered {
				t.Fatalf("degraded signal %q must not trigger", sig.Name)
			}
			degraded++
		}
	}
	// VIX Elevated and Hedging Surge both read the VIX series.
	if degraded != 2 {
		t.Fatalf("expected 2 degraded signals, got %d", degraded)
	}
}

func TestRefreshFailsOnNonDegradableError(t *testing.T) {
	cfg := testConfig(t)
	p := quietProvider(cfg)
	p.hardFail[cfg.Symbols.Bitcoin] = true
	b := newTestBarometer(t, cfg, p)

	if _, err := b.Refresh(context.Background()); err == nil {
		t.Fatalf("a non-degradable fetch error must fail the refresh, not omit the asset")
	}
	if _, err := b.Latest(); err == nil {
		t.Fatalf("a failed refresh must not publish a snapshot")
	}
}

func TestRefreshWritesEmptySnapshotWhenAllFetchesFail(t *testing.T) {
	cfg := testConfig(t)
	p := newFakeProvider()
	b := newTestBarometer(t, cfg, p)

	snapshot, err := b.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(snapshot.Barometers) != 0 {
		t.Fatalf("expected empty barometers, got %d", len(snapshot.Barometers))
	}
	if _, err := b.Latest(); err != nil {
		t.Fatalf("snapshot must still be published: %v", err)
	}
}

func TestOverviewRefresh(t *testing.T) {
	cfg := testConfig(t)
	cfg.Overview.Symbols = []string{"GC=F", "NOPE"}

	p := newFakeProvider()
	p.series["GC=F"] = flatSeries("GC=F", 120, 2000)
	p.meta["GC=F"] = &models.ChartMeta{
		RegularMarketPrice:  2010,
		ChartPreviousClose:  2000,
		RegularMarketVolume: 5000,
		MarketState:         "REGULAR",
		Currency:            "USD",
	}

	log := testLogger(t)
	loader := NewSeriesLoader(p, cache.NewMemory(64), ratelimit.New(), metrics.New(), log, 10*time.Minute, 4)
	store := repository.NewFileStore(t.TempDir(), "risk-barometer.json", "market.json")
	o := NewOverview(loader, store, metrics.New(), log, cfg)

	overview, err := o.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	gold := overview.Assets["GC=F"]
	if gold == nil || gold.Error {
		t.Fatalf("expected gold quote, got %+v", gold)
	}
	if gold.Price != 2010 || gold.PrevClose != 2000 {
		t.Fatalf("unexpected prices: %+v", gold)
	}
	if gold.DailyChange != 10 || gold.DailyChangePct != 0.5 {
		t.Fatalf("unexpected change: %+v", gold)
	}
	if len(gold.SparkData) != cfg.Overview.SparkBars {
		t.Fatalf("expected %d spark bars, got %d", cfg.Overview.SparkBars, len(gold.SparkData))
	}
	if gold.Volume != 5000 || gold.MarketState != "REGULAR" || gold.Currency != "USD" {
		t.Fatalf("meta lost: %+v", gold)
	}

	bad := overview.Assets["NOPE"]
	if bad == nil || !bad.Error {
		t.Fatalf("failed symbol must degrade to an error entry, got %+v", bad)
	}

	latest, err := o.Latest()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if latest.UpdatedAt != overview.UpdatedAt {
		t.Fatalf("published overview differs")
	}
}

func TestOverviewRangeSkipsNullBars(t *testing.T) {
	cfg := testConfig(t)
	cfg.Overview.Symbols = []string{"GC=F"}

	// The first bar carries no high/low, the way a sparse intraday feed
	// arrives after normalization. The session range must come from the
	// remaining bars, with the close standing in for the null bar.
	series := flatSeries("GC=F", 10, 2000)
	series.Bars[0].High = 0
	series.Bars[0].Low = 0
	for i := 1; i < len(series.Bars); i++ {
		series.Bars[i].Low = 1990 + float64(i)
		series.Bars[i].High = 2010 + float64(i)
	}

	p := newFakeProvider()
	p.series["GC=F"] = series

	log := testLogger(t)
	loader := NewSeriesLoader(p, cache.NewMemory(64), ratelimit.New(), metrics.New(), log, 10*time.Minute, 4)
	store := repository.NewFileStore(t.TempDir(), "risk-barometer.json", "market.json")
	o := NewOverview(loader, store, metrics.New(), log, cfg)

	overview, err := o.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	quote := overview.Assets["GC=F"]
	if quote == nil || quote.Error {
		t.Fatalf("expected quote, got %+v", quote)
	}
	if quote.Low != 1991 {
		t.Fatalf("expected low 1991, got %v", quote.Low)
	}
	if quote.High != 2019 {
		t.Fatalf("expected high 2019, got %v", quote.High)
	}
}

func TestLoaderCachesWithinTTL(t *testing.T) {
	cfg := testConfig(t)
	p := quietProvider(cfg)
	log := testLogger(t)
	loader := NewSeriesLoader(p, cache.NewMemory(64), ratelimit.New(), metrics.New(), log, 10*time.Minute, 2)

	req := ChartRequest{Symbol: cfg.Symbols.Gold, Range: "5y", Interval: "1d"}
	for i := 0; i < 3; i++ {
		if _, _, err := loader.Load(context.Background(), req); err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
	}
	if n := p.callCount(cfg.Symbols.Gold); n != 1 {
		t.Fatalf("expected one upstream fetch, got %d", n)
	}

	// A different range is a different cache entry.
	if _, _, err := loader.Load(context.Background(), ChartRequest{Symbol: cfg.Symbols.Gold, Range: "1y", Interval: "1d"}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if n := p.callCount(cfg.Symbols.Gold); n != 2 {
		t.Fatalf("expected second upstream fetch, got %d", n)
	}
}
