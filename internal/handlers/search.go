package handlers

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/mvolkov/storefront/internal/search"
	"github.com/mvolkov/storefront/internal/util"
)

type SearchHandler struct {
	ES    *elasticsearch.Client
	Index string
}

func (h *SearchHandler) Search(c echo.Context) error {
	if h.ES == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search not configured")
	}

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, size := util.Calculate(page, size)

	total, products, err := search.Search(c.Request().Context(), h.ES, h.Index, q, from, size)
	if err != nil {
		return serviceError(c, "search", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": products})
}
