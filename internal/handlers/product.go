package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/mvolkov/storefront/internal/catalog"
	"github.com/mvolkov/storefront/internal/logging"
	"github.com/mvolkov/storefront/internal/models"
	"github.com/mvolkov/storefront/internal/mykafka"
	"github.com/mvolkov/storefront/internal/search"
	"github.com/mvolkov/storefront/internal/util"
)

type ProductHandler struct {
	Svc      *catalog.Service
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
}

type productRequest struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Seller      string               `json:"seller"`
	Image       string               `json:"image"`
	Price       int64                `json:"price"`
	CuttedPrice int64                `json:"cutted_price"`
	Stock       uint                 `json:"stock"`
	Units       []models.UnitVariant `json:"units"`
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := h.Svc.GetProduct(c.Request().Context(), uint(id))
	if err != nil {
		return serviceError(c, "product.get", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	items, total, err := h.Svc.ListProducts(c.Request().Context(), offset, limit)
	if err != nil {
		return serviceError(c, "product.list", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	p := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Seller:      req.Seller,
		Image:       req.Image,
		Price:       req.Price,
		CuttedPrice: req.CuttedPrice,
		Stock:       req.Stock,
		Units:       req.Units,
	}
	if err := h.Svc.CreateProduct(ctx, &p); err != nil {
		return serviceError(c, "product.create", err)
	}

	h.indexProduct(c, &p)
	publish(c, h.Producer, mykafka.TopicProductEvents, fmt.Sprint(p.ID), map[string]any{
		"type":       "product_created",
		"product_id": p.ID,
		"name":       p.Name,
	})
	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	p := models.Product{
		ID:          uint(id),
		Name:        req.Name,
		Description: req.Description,
		Seller:      req.Seller,
		Image:       req.Image,
		Price:       req.Price,
		CuttedPrice: req.CuttedPrice,
		Stock:       req.Stock,
		Units:       req.Units,
	}
	if err := h.Svc.UpdateProduct(ctx, &p); err != nil {
		return serviceError(c, "product.patch", err)
	}

	h.indexProduct(c, &p)
	publish(c, h.Producer, mykafka.TopicProductEvents, fmt.Sprint(p.ID), map[string]any{
		"type":       "product_updated",
		"product_id": p.ID,
		"name":       p.Name,
	})
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.Svc.DeleteProduct(ctx, uint(id)); err != nil {
		return serviceError(c, "product.delete", err)
	}

	if h.ES != nil {
		if err := search.RemoveProduct(ctx, h.ES, h.Index, uint(id)); err != nil {
			logging.FromContext(ctx).Error("es remove error", "product_id", id, "error", err)
		}
	}
	publish(c, h.Producer, mykafka.TopicProductEvents, fmt.Sprint(id), map[string]any{
		"type":       "product_deleted",
		"product_id": id,
	})
	return c.NoContent(http.StatusNoContent)
}

// indexProduct keeps the search index in step with catalog writes; indexing
// failures are logged, the write itself already succeeded.
func (h *ProductHandler) indexProduct(c echo.Context, p *models.Product) {
	if h.ES == nil {
		return
	}
	ctx := c.Request().Context()
	if err := search.IndexProduct(ctx, h.ES, h.Index, p); err != nil {
		logging.FromContext(ctx).Error("es index error", "product_id", p.ID, "error", err)
	}
}
