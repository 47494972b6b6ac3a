package di

import (
	"RiskBarometer/internal/domain/repository"
	"RiskBarometer/internal/handler/api"
	internalrepo "RiskBarometer/internal/repository"
	"RiskBarometer/internal/service/ratelimit"
	"RiskBarometer/internal/services/yahoo"
	"RiskBarometer/internal/usecase"
	"RiskBarometer/pkg/cache"
	"RiskBarometer/pkg/config"
	xhttp "RiskBarometer/pkg/http"
	applogger "RiskBarometer/pkg/logger"
	"RiskBarometer/pkg/metrics"
	"RiskBarometer/pkg/server"
)

// chartCacheSize bounds the number of distinct symbol/range/interval entries
// kept between refreshes.
const chartCacheSize = 128

// ProvideLogger creates the structured logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideRecorder creates the Prometheus metrics recorder.
func ProvideRecorder() *metrics.Recorder {
	return metrics.New()
}

// ProvideHistoryProvider creates the chart API client.
func ProvideHistoryProvider(cfg *config.Config) repository.HistoryProvider {
	return yahoo.New(cfg.Provider.BaseURL, cfg.Provider.UserAgent, cfg.Provider.Timeout)
}

// ProvideCache creates the chart response cache.
func ProvideCache() *cache.Memory {
	return cache.NewMemory(chartCacheSize)
}

// ProvideLimiter creates the provider rate limiter.
func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideSeriesLoader creates the cached, paced series loader.
func ProvideSeriesLoader(
	provider repository.HistoryProvider,
	memory *cache.Memory,
	limiter *ratelimit.Limiter,
	m repository.Metrics,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.SeriesLoader {
	return usecase.NewSeriesLoader(provider, memory, limiter, m, log,
		cfg.Provider.CacheTTL, cfg.Provider.MaxConcurrent)
}

// ProvideSnapshotStore creates the atomic JSON file store.
func ProvideSnapshotStore(cfg *config.Config) repository.SnapshotStore {
	return internalrepo.NewFileStore(cfg.Output.Dir, cfg.Output.BarometerFile, cfg.Output.MarketFile)
}

// ProvideBarometer creates the barometer use case.
func ProvideBarometer(
	loader *usecase.SeriesLoader,
	store repository.SnapshotStore,
	m repository.Metrics,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.Barometer {
	return usecase.NewBarometer(loader, store, m, log, cfg)
}

// ProvideOverview creates the market overview use case.
func ProvideOverview(
	loader *usecase.SeriesLoader,
	store repository.SnapshotStore,
	m repository.Metrics,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.Overview {
	return usecase.NewOverview(loader, store, m, log, cfg)
}

// ProvideHandler creates the preview API handler.
func ProvideHandler(
	log *applogger.Logger,
	barometer *usecase.Barometer,
	overview *usecase.Overview,
) xhttp.Handler {
	return api.NewBarometerEchoHandler(log, barometer, overview)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	recorder *metrics.Recorder,
	barometer *usecase.Barometer,
	overview *usecase.Overview,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, log, recorder, barometer, overview, handler)
}
