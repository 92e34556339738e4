package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suteetoe/merchant-dashboard/internal/service"
	"github.com/suteetoe/merchant-dashboard/pkg/logger"
)

type DashboardHandler struct {
	dashboard *service.DashboardService
}

func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GetDashboard returns the aggregated dashboard for the caller's shop
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return respondError(c, err, "dashboard")
	}

	summary, err := h.dashboard.Summary(c.Request().Context(), identity.UserID, identity.Email)
	if err != nil {
		return respondError(c, err, "dashboard")
	}

	logger.FromEcho(c).Debug("Dashboard built",
		zap.Int("pending", summary.PendingCount),
		zap.Int("low_stock", len(summary.LowStock)))
	return c.JSON(http.StatusOK, summary)
}
