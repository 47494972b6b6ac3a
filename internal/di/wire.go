//go:build wireinject
// +build wireinject

package di

import (
	"RiskBarometer/internal/domain/repository"
	"RiskBarometer/pkg/config"
	"RiskBarometer/pkg/metrics"
	"RiskBarometer/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideRecorder,
		wire.Bind(new(repository.Metrics), new(*metrics.Recorder)),

		// Provider plumbing
		ProvideHistoryProvider,
		ProvideCache,
		ProvideLimiter,
		ProvideSeriesLoader,

		// Persistence
		ProvideSnapshotStore,

		// Use cases
		ProvideBarometer,
		ProvideOverview,

		// HTTP surface and application
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
