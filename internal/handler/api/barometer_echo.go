package api

import (
	"net/http"

	"RiskBarometer/internal/domain/models"
	"RiskBarometer/internal/usecase"
	xhttp "RiskBarometer/pkg/http"
	xlogger "RiskBarometer/pkg/logger"

	"github.com/labstack/echo/v4"
)

// BarometerEchoHandler exposes the published artifacts and a refresh trigger
// for local preview. Production consumers read the JSON files directly.
type BarometerEchoHandler struct {
	logger    *xlogger.Logger
	barometer *usecase.Barometer
	overview  *usecase.Overview
}

func NewBarometerEchoHandler(logger *xlogger.Logger, barometer *usecase.Barometer, overview *usecase.Overview) *BarometerEchoHandler {
	return &BarometerEchoHandler{logger: logger, barometer: barometer, overview: overview}
}

func (h *BarometerEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/barometer", h.Snapshot)
	g.GET("/barometer/:asset", h.Asset)
	g.GET("/market", h.Market)
	g.POST("/refresh", h.Refresh)

	e.GET("/healthz", h.Health)
}

// Snapshot returns the latest published barometer snapshot.
func (h *BarometerEchoHandler) Snapshot(c echo.Context) error {
	snapshot, err := h.barometer.Latest()
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no snapshot published yet").WithError(err))
	}
	return xhttp.SuccessResponse(c, snapshot)
}

type assetRequest struct {
	Asset string `param:"asset" validate:"required,oneof=gold sp500 nasdaq bitcoin"`
}

// Asset returns one asset's report from the latest snapshot.
func (h *BarometerEchoHandler) Asset(c echo.Context) error {
	req := &assetRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	snapshot, err := h.barometer.Latest()
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no snapshot published yet").WithError(err))
	}
	report, ok := snapshot.Barometers[models.AssetKey(req.Asset)]
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("asset %s absent from latest snapshot", req.Asset))
	}
	return xhttp.SuccessResponse(c, report)
}

// Market returns the latest market overview.
func (h *BarometerEchoHandler) Market(c echo.Context) error {
	overview, err := h.overview.Latest()
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no overview published yet").WithError(err))
	}
	return xhttp.SuccessResponse(c, overview)
}

// Refresh re-fetches everything and republishes both artifacts.
func (h *BarometerEchoHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	snapshot, err := h.barometer.Refresh(ctx)
	if err != nil {
		h.logger.Error("barometer refresh failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("barometer refresh failed").WithError(err))
	}
	if _, err := h.overview.Refresh(ctx); err != nil {
		h.logger.Error("overview refresh failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("overview refresh failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, snapshot)
}

// Health reports liveness.
func (h *BarometerEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
