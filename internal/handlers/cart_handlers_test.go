package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mvolkov/storefront/internal/cart"
	"github.com/mvolkov/storefront/internal/catalog"
	"github.com/mvolkov/storefront/internal/models"
	"github.com/mvolkov/storefront/internal/pricing"
)

type cartTestEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB
	H  *CartHandler
}

func newCartTestEnv(t *testing.T) *cartTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.UnitVariant{}, &models.CartItem{}))

	svc := &cart.Service{
		Repo:    &cart.GormRepo{DB: db},
		Catalog: &catalog.Service{Repo: &catalog.GormRepo{DB: db}},
		Policy: pricing.Policy{
			SGSTBps:         500,
			CGSTBps:         500,
			FreeShippingMin: 50000,
			ShippingFlatFee: 10000,
		},
	}

	return &cartTestEnv{
		T:  t,
		E:  echo.New(),
		DB: db,
		H:  &CartHandler{Svc: svc},
	}
}

func (env *cartTestEnv) doJSONRequest(method, path string, body interface{}, userID uint) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	c.Set("userID", userID)
	return rec, c
}

func TestAddToCart(t *testing.T) {
	env := newCartTestEnv(t)

	require.NoError(t, env.DB.Create(&models.Product{
		Name: "rice", Price: 9000, CuttedPrice: 11000,
		Units: []models.UnitVariant{
			{Name: "kg", Price: 9000, CuttedPrice: 11000, MinQty: 1, MaxQty: 25, Increment: 1, IsDefault: true},
		},
	}).Error)

	body := map[string]any{"product_id": 1, "quantity": 3}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", body, 1)
	require.NoError(t, env.H.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.CartItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, uint(1), resp.UserID)
	require.Equal(t, uint(1), resp.ProductID)
	require.Equal(t, int64(3), resp.Quantity)
	require.Equal(t, "kg", resp.UnitName)
}

func TestAddToCart_MissingProduct(t *testing.T) {
	env := newCartTestEnv(t)

	body := map[string]any{"product_id": 42, "quantity": 1}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", body, 1)

	err := env.H.AddToCart(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, he.Code)
}

func TestGetCart(t *testing.T) {
	env := newCartTestEnv(t)

	require.NoError(t, env.DB.Create(&models.CartItem{
		UserID: 1, ProductID: 2, Quantity: 3, Name: "rice", Price: 9000, CuttedPrice: 9000,
	}).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil, 1)
	require.NoError(t, env.H.GetCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []models.CartItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	require.Equal(t, uint(2), resp[0].ProductID)
}

func TestGetTotals(t *testing.T) {
	env := newCartTestEnv(t)

	require.NoError(t, env.DB.Create(&models.CartItem{
		UserID: 1, ProductID: 2, Quantity: 2, Price: 10000, CuttedPrice: 12000,
	}).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/cart/totals", nil, 1)
	require.NoError(t, env.H.GetTotals(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp pricing.Totals
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(24000), resp.Subtotal)
	require.Equal(t, resp.Total, resp.Subtotal-resp.Discount+resp.Tax+resp.Shipping)
}

func TestEmptyCart(t *testing.T) {
	env := newCartTestEnv(t)

	require.NoError(t, env.DB.Create(&models.CartItem{
		UserID: 1, ProductID: 2, Quantity: 1, Price: 10000, CuttedPrice: 10000,
	}).Error)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/cart", nil, 1)
	require.NoError(t, env.H.EmptyCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var remaining []models.CartItem
	require.NoError(t, env.DB.Where("user_id = ?", 1).Find(&remaining).Error)
	require.Empty(t, remaining)
}

func TestRemoveFromCart(t *testing.T) {
	env := newCartTestEnv(t)

	require.NoError(t, env.DB.Create(&models.CartItem{
		UserID: 1, ProductID: 2, Quantity: 1, Price: 10000, CuttedPrice: 10000,
	}).Error)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/cart/2", nil, 1)
	c.SetParamNames("productID")
	c.SetParamValues("2")
	require.NoError(t, env.H.RemoveFromCart(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUnauthorizedWithoutUserContext(t *testing.T) {
	env := newCartTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)

	err := env.H.GetCart(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}
