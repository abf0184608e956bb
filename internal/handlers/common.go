package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mvolkov/storefront/internal/logging"
	"github.com/mvolkov/storefront/internal/mykafka"
	"github.com/mvolkov/storefront/internal/pricing"
)

func httpStatus(err error) int {
	switch {
	case errors.Is(err, pricing.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, pricing.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pricing.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func serviceError(c echo.Context, op string, err error) error {
	status := httpStatus(err)
	l := logging.FromContext(c.Request().Context()).With("handler", op)
	if status >= 500 {
		l.Error(op+"_error", "status", status, "error", err)
		return echo.NewHTTPError(status, "internal error")
	}
	l.Warn(op+"_error", "status", status, "error", err)
	return echo.NewHTTPError(status, err.Error())
}

// publish sends a domain event; failures are logged, never propagated.
func publish(c echo.Context, p *mykafka.Producer, topic, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "topic", topic, "error", err)
	}
}
