package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mvolkov/storefront/internal/cart"
	"github.com/mvolkov/storefront/internal/logging"
	"github.com/mvolkov/storefront/internal/mykafka"
	"github.com/mvolkov/storefront/internal/token"
)

type CartHandler struct {
	Svc      *cart.Service
	Producer *mykafka.Producer
}

func (h *CartHandler) GetCart(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	items, err := h.Svc.Get(c.Request().Context(), userID)
	if err != nil {
		return serviceError(c, "cart.get", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHandler) GetTotals(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	totals, err := h.Svc.Totals(c.Request().Context(), userID)
	if err != nil {
		return serviceError(c, "cart.totals", err)
	}
	return c.JSON(http.StatusOK, totals)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID uint   `json:"product_id"`
		Quantity  int64  `json:"quantity"`
		Unit      string `json:"unit"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("cart_add_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id required")
	}

	item, err := h.Svc.Add(ctx, userID, req.ProductID, req.Quantity, req.Unit)
	if err != nil {
		return serviceError(c, "cart.add", err)
	}

	publish(c, h.Producer, mykafka.TopicCartEvents, fmt.Sprint(userID), map[string]any{
		"type":       "cart_item_added",
		"user_id":    userID,
		"product_id": item.ProductID,
		"unit":       item.UnitName,
		"quantity":   item.Quantity,
	})
	l.Info("cart_item_added", "product_id", item.ProductID, "quantity", item.Quantity)
	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	productID, err := strconv.Atoi(c.Param("productID"))
	if err != nil || productID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req struct {
		Quantity int64 `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.UpdateQuantity(ctx, userID, uint(productID), req.Quantity)
	if err != nil {
		return serviceError(c, "cart.update_quantity", err)
	}

	publish(c, h.Producer, mykafka.TopicCartEvents, fmt.Sprint(userID), map[string]any{
		"type":       "cart_quantity_updated",
		"user_id":    userID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})
	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	productID, err := strconv.Atoi(c.Param("productID"))
	if err != nil || productID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := h.Svc.Remove(ctx, userID, uint(productID)); err != nil {
		return serviceError(c, "cart.remove", err)
	}

	publish(c, h.Producer, mykafka.TopicCartEvents, fmt.Sprint(userID), map[string]any{
		"type":       "cart_item_removed",
		"user_id":    userID,
		"product_id": productID,
	})
	return c.JSON(http.StatusOK, map[string]any{"removed": productID})
}

func (h *CartHandler) EmptyCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Empty(ctx, userID); err != nil {
		return serviceError(c, "cart.empty", err)
	}

	publish(c, h.Producer, mykafka.TopicCartEvents, fmt.Sprint(userID), map[string]any{
		"type":    "cart_emptied",
		"user_id": userID,
	})
	return c.JSON(http.StatusOK, map[string]any{"emptied": true})
}
