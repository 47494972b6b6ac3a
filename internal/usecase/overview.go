package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"RiskBarometer/internal/domain/models"
	drepo "RiskBarometer/internal/domain/repository"
	"RiskBarometer/pkg/config"
	"RiskBarometer/pkg/logger"
	"RiskBarometer/pkg/util"
)

// Overview builds the ticker-strip artifact: one intraday quote per
// configured symbol. A failed symbol degrades to {"error": true}; the
// document is always written.
type Overview struct {
	loader    *SeriesLoader
	store     drepo.SnapshotStore
	metrics   drepo.Metrics
	log       *logger.Logger
	symbols   []string
	rng       string
	interval  string
	sparkBars int
}

func NewOverview(
	loader *SeriesLoader,
	store drepo.SnapshotStore,
	metrics drepo.Metrics,
	log *logger.Logger,
	cfg *config.Config,
) *Overview {
	return &Overview{
		loader:    loader,
		store:     store,
		metrics:   metrics,
		log:       log,
		symbols:   cfg.Overview.Symbols,
		rng:       cfg.Overview.Range,
		interval:  cfg.Overview.Interval,
		sparkBars: cfg.Overview.SparkBars,
	}
}

// Refresh fetches all overview symbols in parallel and publishes the
// document atomically.
func (o *Overview) Refresh(ctx context.Context) (*models.MarketOverview, error) {
	start := time.Now()
	overview := &models.MarketOverview{
		UpdatedAt: util.NowRFC3339(),
		Assets:    make(map[string]*models.AssetQuote, len(o.symbols)),
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, symbol := range o.symbols {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()
			quote := o.quoteFor(ctx, sym)
			mu.Lock()
			overview.Assets[sym] = quote
			mu.Unlock()
		}(symbol)
	}
	wg.Wait()

	if err := o.store.WriteMarket(overview); err != nil {
		return nil, fmt.Errorf("publish market overview: %w", err)
	}
	o.metrics.RecordLatency("overview_refresh", time.Since(start).Seconds())
	return overview, nil
}

// Latest returns the most recently published overview.
func (o *Overview) Latest() (*models.MarketOverview, error) {
	return o.store.ReadMarket()
}

func (o *Overview) quoteFor(ctx context.Context, symbol string) *models.AssetQuote {
	series, meta, err := o.loader.Load(ctx, ChartRequest{Symbol: symbol, Range: o.rng, Interval: o.interval})
	if err != nil {
		o.metrics.RecordError("overview_fetch")
		o.log.Warn("overview symbol degraded",
			logger.String("symbol", symbol),
			logger.Error(err))
		return &models.AssetQuote{Error: true}
	}

	price := meta.RegularMarketPrice
	if price == 0 {
		price = series.LastClose()
	}

	quote := &models.AssetQuote{
		Price:       util.RoundTo(price, 2),
		MarketState: meta.MarketState,
		Volume:      meta.RegularMarketVolume,
		Currency:    meta.Currency,
	}

	if prev := meta.ChartPreviousClose; prev != 0 {
		quote.PrevClose = util.RoundTo(prev, 2)
		quote.DailyChange = util.RoundTo(price-prev, 2)
		quote.DailyChangePct = util.RoundTo((price-prev)/prev*100, 2)
	}

	closes := series.Closes()
	if len(closes) > 0 {
		if first := closes[0]; first != 0 {
			quote.WeekChangePct = util.RoundTo((price-first)/first*100, 2)
		}
		spark := closes
		if len(spark) > o.sparkBars {
			spark = spark[len(spark)-o.sparkBars:]
		}
		quote.SparkData = make([]float64, len(spark))
		for i, c := range spark {
			quote.SparkData[i] = util.RoundTo(c, 2)
		}
	}

	// A null high or low in the feed arrives as 0 after normalization;
	// fall back to that bar's close so one sparse bar cannot pin the range.
	high, low := 0.0, 0.0
	for _, bar := range series.Bars {
		h, l := bar.High, bar.Low
		if h == 0 {
			h = bar.Close
		}
		if l == 0 {
			l = bar.Close
		}
		if h > high {
			high = h
		}
		if l > 0 && (low == 0 || l < low) {
			low = l
		}
	}
	quote.High = util.RoundTo(high, 2)
	quote.Low = util.RoundTo(low, 2)

	return quote
}
