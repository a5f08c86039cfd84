package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"PortfolioPulse/internal/baseline"
	"PortfolioPulse/internal/domain/models"
	"PortfolioPulse/internal/store"
	"PortfolioPulse/internal/usecase"
	apphttp "PortfolioPulse/pkg/http"
	"PortfolioPulse/pkg/logger"
)

// ModelSelector is the slice of the sync loop the API needs.
type ModelSelector interface {
	SelectModel(ctx context.Context, model string) error
	Model() string
	State() models.SourceState
	Models() []string
}

// DashboardHandler serves the dashboard read API and the model switch.
type DashboardHandler struct {
	store *store.SnapshotStore
	sync  ModelSelector
	hub   *Hub
	log   *logger.Logger
}

func NewDashboardHandler(snapStore *store.SnapshotStore, sync ModelSelector, hub *Hub, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{store: snapStore, sync: sync, hub: hub, log: log}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/performance", h.Performance)
	g.GET("/positions", h.Positions)
	g.GET("/trades", h.Trades)
	g.GET("/signals", h.Signals)
	g.GET("/snapshot", h.Snapshot)
	g.GET("/status", h.Status)
	g.POST("/model", h.SelectModel)

	if h.hub != nil {
		e.GET("/ws", h.hub.HandleWS)
	}
	e.GET("/healthz", h.Health)
}

type performanceResponse struct {
	Performance models.PerformanceMetrics `json:"performance"`
	EquityCurve []models.EquityPoint      `json:"equityCurve"`
	Source      models.SourceState        `json:"source"`
	UpdatedAt   time.Time                 `json:"updatedAt"`
}

func (h *DashboardHandler) Performance(c echo.Context) error {
	snap := h.store.Snapshot()
	return apphttp.SuccessResponse(c, performanceResponse{
		Performance: snap.Performance,
		EquityCurve: snap.EquityCurve,
		Source:      snap.Source,
		UpdatedAt:   snap.UpdatedAt,
	})
}

func (h *DashboardHandler) Positions(c echo.Context) error {
	return apphttp.SuccessResponse(c, h.store.Snapshot().Positions)
}

func (h *DashboardHandler) Trades(c echo.Context) error {
	req := new(models.TradesQuery)
	if verr := apphttp.ReadAndValidateRequest(c, req); verr != nil {
		return apphttp.BadRequestResponse(c, verr)
	}

	trades := h.store.Snapshot().Trades
	if len(trades) > req.Limit {
		trades = trades[:req.Limit]
	}
	return apphttp.SuccessResponse(c, trades)
}

func (h *DashboardHandler) Signals(c echo.Context) error {
	return apphttp.SuccessResponse(c, h.store.Snapshot().Signals)
}

func (h *DashboardHandler) Snapshot(c echo.Context) error {
	return apphttp.SuccessResponse(c, h.store.Snapshot())
}

type statusResponse struct {
	Model     string              `json:"model"`
	Models    []string            `json:"models"`
	Groups    map[string][]string `json:"groups"`
	Source    models.SourceState  `json:"source"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

func (h *DashboardHandler) Status(c echo.Context) error {
	snap := h.store.Snapshot()
	return apphttp.SuccessResponse(c, statusResponse{
		Model:     h.sync.Model(),
		Models:    h.sync.Models(),
		Groups:    baseline.Groups,
		Source:    snap.Source,
		UpdatedAt: snap.UpdatedAt,
	})
}

func (h *DashboardHandler) SelectModel(c echo.Context) error {
	req := new(models.SelectModelRequest)
	if verr := apphttp.ReadAndValidateRequest(c, req); verr != nil {
		return apphttp.BadRequestResponse(c, verr)
	}

	err := h.sync.SelectModel(c.Request().Context(), req.Model)
	if err != nil {
		if errors.Is(err, usecase.ErrUnknownModel) {
			return apphttp.BadRequestResponse(c, []apphttp.ValidationError{{
				Code:    "ERR_UNKNOWN_MODEL",
				Field:   "model",
				Message: err.Error(),
			}})
		}
		h.log.Error("model switch failed", logger.Error(err))
		return apphttp.InternalServerErrorResponse(c)
	}
	return apphttp.SuccessResponse(c, map[string]string{"model": req.Model})
}

func (h *DashboardHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
