package repository

import (
	"context"

	"RiskBarometer/internal/domain/models"
)

// HistoryProvider fetches price history for a symbol from the upstream
// time-series provider. rng and interval use the provider's notation
// ("2y"/"1d", "5d"/"15m", ...). Implementations must apply a bounded wait.
type HistoryProvider interface {
	GetChart(ctx context.Context, symbol, rng, interval string) (*models.PriceSeries, *models.ChartMeta, error)
}

// SnapshotStore persists the published artifacts. Writes must be atomic
// replaces: readers never observe a partial document.
type SnapshotStore interface {
	WriteBarometer(snapshot *models.BarometerSnapshot) error
	ReadBarometer() (*models.BarometerSnapshot, error)
	WriteMarket(overview *models.MarketOverview) error
	ReadMarket() (*models.MarketOverview, error)
}

// Metrics records operational counters for a run.
type Metrics interface {
	RecordFetch(symbol, outcome string)
	RecordScore(asset string, score int)
	RecordSignal(asset, signal string, triggered bool)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
