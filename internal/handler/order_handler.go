package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suteetoe/merchant-dashboard/internal/order"
	"github.com/suteetoe/merchant-dashboard/internal/ports"
	"github.com/suteetoe/merchant-dashboard/internal/service"
	"github.com/suteetoe/merchant-dashboard/pkg/logger"
)

const maxOrderListLimit = 200

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// parseOrderFilter reads ?status=new,confirmed&limit=20
func parseOrderFilter(c echo.Context) (ports.OrderFilter, error) {
	var filter ports.OrderFilter

	if raw := c.QueryParam("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			s, err := order.ParseStatus(part)
			if err != nil {
				return filter, echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
			filter.Statuses = append(filter.Statuses, s)
		}
	}

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		if limit > maxOrderListLimit {
			limit = maxOrderListLimit
		}
		filter.Limit = limit
	}
	return filter, nil
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	log := logger.FromEcho(c)
	identity, err := callerIdentity(c)
	if err != nil {
		return respondError(c, err, "list orders")
	}

	filter, err := parseOrderFilter(c)
	if err != nil {
		log.Warn("Invalid order filter", zap.Error(err))
		return respondError(c, err, "list orders")
	}

	orders, err := h.orders.List(c.Request().Context(), identity.UserID, filter)
	if err != nil {
		return respondError(c, err, "list orders")
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return respondError(c, err, "get order")
	}

	o, err := h.orders.Get(c.Request().Context(), identity.UserID, c.Param("id"))
	if err != nil {
		return respondError(c, err, "get order")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"order":         o,
		"next_statuses": h.orders.Policy().NextStatuses(o.Status),
	})
}

// PendingCount feeds the sidebar badge
func (h *OrderHandler) PendingCount(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return respondError(c, err, "pending count")
	}

	n, err := h.orders.PendingCount(c.Request().Context(), identity.UserID)
	if err != nil {
		return respondError(c, err, "pending count")
	}
	return c.JSON(http.StatusOK, echo.Map{"pending_count": n})
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	log := logger.FromEcho(c)
	identity, err := callerIdentity(c)
	if err != nil {
		return respondError(c, err, "update order status")
	}

	var req service.StatusChange
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	updated, err := h.orders.UpdateStatus(c.Request().Context(), identity.UserID, c.Param("id"), req)
	if err != nil {
		return respondError(c, err, "update order status")
	}
	return c.JSON(http.StatusOK, updated)
}
