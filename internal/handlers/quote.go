package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mvolkov/storefront/internal/mykafka"
	"github.com/mvolkov/storefront/internal/quote"
	"github.com/mvolkov/storefront/internal/token"
)

type QuoteHandler struct {
	Svc      *quote.Service
	Producer *mykafka.Producer
}

func (h *QuoteHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var req quote.SubmitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	q, err := h.Svc.Submit(ctx, userID, req)
	if err != nil {
		return serviceError(c, "quote.submit", err)
	}

	publish(c, h.Producer, mykafka.TopicUserEvents, fmt.Sprint(userID), map[string]any{
		"type":      "quote_submitted",
		"user_id":   userID,
		"quote_id":  q.ID,
		"reference": q.Reference,
	})
	return c.JSON(http.StatusCreated, q)
}

func (h *QuoteHandler) ListMine(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	quotes, err := h.Svc.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return serviceError(c, "quote.list", err)
	}
	return c.JSON(http.StatusOK, quotes)
}

func (h *QuoteHandler) ListPending(c echo.Context) error {
	quotes, err := h.Svc.ListPending(c.Request().Context())
	if err != nil {
		return serviceError(c, "quote.list_pending", err)
	}
	return c.JSON(http.StatusOK, quotes)
}

func (h *QuoteHandler) Review(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req quote.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	q, err := h.Svc.Review(ctx, uint(id), req)
	if err != nil {
		return serviceError(c, "quote.review", err)
	}

	publish(c, h.Producer, mykafka.TopicUserEvents, fmt.Sprint(q.UserID), map[string]any{
		"type":     "quote_reviewed",
		"quote_id": q.ID,
		"status":   q.Status,
	})
	return c.JSON(http.StatusOK, q)
}
