package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mvolkov/storefront/internal/logging"
	"github.com/mvolkov/storefront/internal/tracking"
)

type TrackingHandler struct {
	Client *tracking.Client
}

func (h *TrackingHandler) Track(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tracking.track")

	ref := c.Param("ref")
	if ref == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "reference required")
	}

	s, err := h.Client.Track(ctx, ref)
	if err != nil {
		if errors.Is(err, tracking.ErrShipmentNotFound) {
			l.Warn("track_not_found", "ref", ref)
			return echo.NewHTTPError(http.StatusNotFound, "shipment not found")
		}
		l.Error("track_error", "ref", ref, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "carrier unavailable")
	}
	return c.JSON(http.StatusOK, s)
}

type PaymentHandler struct {
	KeyID string
}

// GetAPIKey exposes the gateway key id the client needs to open a checkout
// session. The secret never leaves the server.
func (h *PaymentHandler) GetAPIKey(c echo.Context) error {
	if h.KeyID == "" {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "payments not configured")
	}
	return c.JSON(http.StatusOK, map[string]string{"key_id": h.KeyID})
}
