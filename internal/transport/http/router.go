package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mvolkov/storefront/internal/handlers"
	"github.com/mvolkov/storefront/internal/token"
)

type Deps struct {
	DB              *gorm.DB
	AuthHandler     *handlers.AuthHandler
	ProductHandler  *handlers.ProductHandler
	CartHandler     *handlers.CartHandler
	OrderHandler    *handlers.OrderHandler
	QuoteHandler    *handlers.QuoteHandler
	SearchHandler   *handlers.SearchHandler
	TrackingHandler *handlers.TrackingHandler
	PaymentHandler  *handlers.PaymentHandler
	Tokens          *token.Service
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)

	v1.GET("/products", d.ProductHandler.GetProducts)
	v1.GET("/products/:id", d.ProductHandler.GetProduct)
	v1.GET("/search", d.SearchHandler.Search)
	v1.GET("/track/:ref", d.TrackingHandler.Track)
	v1.GET("/payment/apikey", d.PaymentHandler.GetAPIKey)

	admin := v1.Group("/admin", d.Tokens.AutoRefreshMiddlewareAdmin)
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.GET("/quotes", d.QuoteHandler.ListPending)
	admin.PATCH("/quotes/:id", d.QuoteHandler.Review)
	admin.PATCH("/orders/:id/status", d.OrderHandler.UpdateStatus)

	cart := v1.Group("/cart", d.Tokens.AutoRefreshMiddleware)
	cart.GET("", d.CartHandler.GetCart)
	cart.GET("/totals", d.CartHandler.GetTotals)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PATCH("/:productID", d.CartHandler.UpdateQuantity)
	cart.DELETE("/:productID", d.CartHandler.RemoveFromCart)
	cart.DELETE("", d.CartHandler.EmptyCart)

	orders := v1.Group("/orders", d.Tokens.AutoRefreshMiddleware)
	orders.POST("", d.OrderHandler.Checkout)
	orders.GET("", d.OrderHandler.ListOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)

	quotes := v1.Group("/quotes", d.Tokens.AutoRefreshMiddleware)
	quotes.POST("", d.QuoteHandler.Submit)
	quotes.GET("", d.QuoteHandler.ListMine)
}
