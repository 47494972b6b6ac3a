package server

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"RiskBarometer/internal/usecase"
	"RiskBarometer/pkg/config"
	xhttp "RiskBarometer/pkg/http"
	applogger "RiskBarometer/pkg/logger"
	"RiskBarometer/pkg/metrics"

	"github.com/google/uuid"
)

// App encapsulates the application lifecycle. The default mode is a single
// run: refresh both artifacts, dump metrics, exit. With server.enabled the
// app additionally serves the preview API and blocks until interrupted.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	recorder   *metrics.Recorder
	barometer  *usecase.Barometer
	overview   *usecase.Overview
	handler    xhttp.Handler
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	recorder *metrics.Recorder,
	barometer *usecase.Barometer,
	overview *usecase.Overview,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		recorder:  recorder,
		barometer: barometer,
		overview:  overview,
		handler:   handler,
	}
}

// Run executes one refresh and, when the preview server is enabled, serves
// until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runID := uuid.NewString()
	start := time.Now()
	a.log.Info("run started",
		applogger.String("run_id", runID),
		applogger.String("env", a.cfg.Environment),
		applogger.String("output_dir", a.cfg.Output.Dir))

	snapshot, err := a.barometer.Refresh(ctx)
	if err != nil {
		a.log.Error("barometer refresh failed", applogger.String("run_id", runID), applogger.Error(err))
		return err
	}
	overview, err := a.overview.Refresh(ctx)
	if err != nil {
		a.log.Error("overview refresh failed", applogger.String("run_id", runID), applogger.Error(err))
		return err
	}

	if a.cfg.Output.MetricsFile != "" {
		path := filepath.Join(a.cfg.Output.Dir, a.cfg.Output.MetricsFile)
		if err := a.recorder.WriteTextfile(path); err != nil {
			a.log.Warn("metrics textfile write failed", applogger.Error(err))
		}
	}

	a.log.Info("run complete",
		applogger.String("run_id", runID),
		applogger.Int("assets", len(snapshot.Barometers)),
		applogger.Int("quotes", len(overview.Assets)),
		applogger.Duration("elapsed", time.Since(start)))

	if !a.cfg.Server.Enabled {
		return nil
	}

	a.httpServer = xhttp.NewServer(a.handler, a.log, a.recorder.Registry(),
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops the HTTP server.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		return err
	}
	a.log.Info("shutdown complete")
	return nil
}
