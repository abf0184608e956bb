package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mvolkov/storefront/internal/logging"
	"github.com/mvolkov/storefront/internal/mykafka"
	"github.com/mvolkov/storefront/internal/order"
	"github.com/mvolkov/storefront/internal/token"
	"github.com/mvolkov/storefront/internal/util"
)

type OrderHandler struct {
	Svc      *order.Service
	Producer *mykafka.Producer
}

func (h *OrderHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var req order.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("checkout_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	o, err := h.Svc.CreateOrder(ctx, userID, req)
	if err != nil {
		return serviceError(c, "order.checkout", err)
	}

	publish(c, h.Producer, mykafka.TopicOrderEvents, fmt.Sprint(userID), map[string]any{
		"type":     "order_created",
		"user_id":  userID,
		"order_id": o.ID,
		"total":    o.TotalPrice,
	})
	l.Info("order_created", "order_id", o.ID, "total", o.TotalPrice)
	return c.JSON(http.StatusCreated, o)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, err := h.Svc.ListOrders(c.Request().Context(), userID, offset, limit)
	if err != nil {
		return serviceError(c, "order.list", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := h.Svc.GetOrder(c.Request().Context(), userID, uint(id))
	if err != nil {
		return serviceError(c, "order.get", err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	o, err := h.Svc.UpdateStatus(ctx, uint(id), req.Status)
	if err != nil {
		return serviceError(c, "order.update_status", err)
	}

	publish(c, h.Producer, mykafka.TopicOrderEvents, fmt.Sprint(o.UserID), map[string]any{
		"type":     "order_status_updated",
		"order_id": o.ID,
		"status":   o.Status,
	})
	return c.JSON(http.StatusOK, o)
}
