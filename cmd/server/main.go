package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mvolkov/storefront/internal/cart"
	"github.com/mvolkov/storefront/internal/catalog"
	"github.com/mvolkov/storefront/internal/config"
	"github.com/mvolkov/storefront/internal/db"
	"github.com/mvolkov/storefront/internal/es"
	"github.com/mvolkov/storefront/internal/handlers"
	"github.com/mvolkov/storefront/internal/logging"
	"github.com/mvolkov/storefront/internal/middleware/loggingmw"
	"github.com/mvolkov/storefront/internal/mykafka"
	"github.com/mvolkov/storefront/internal/order"
	"github.com/mvolkov/storefront/internal/pricing"
	"github.com/mvolkov/storefront/internal/quote"
	"github.com/mvolkov/storefront/internal/token"
	"github.com/mvolkov/storefront/internal/tracking"
	httpserver "github.com/mvolkov/storefront/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.RefreshSecret, "REFRESH_SECRET")

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	prod, err := mykafka.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		logger.Warn("kafka disabled", "error", err)
		prod = nil
	}

	esClient, err := es.NewClient(cfg)
	if err != nil {
		logger.Warn("elasticsearch disabled", "error", err)
		esClient = nil
	}

	policy := pricing.PolicyFromConfig(cfg.Pricing)

	tokens := &token.Service{DB: database, JWTSecret: cfg.JWTSecret, RefreshSecret: cfg.RefreshSecret}
	catalogSvc := &catalog.Service{Repo: &catalog.GormRepo{DB: database}}
	cartSvc := &cart.Service{Repo: &cart.GormRepo{DB: database}, Catalog: catalogSvc, Policy: policy}
	orderSvc := &order.Service{DB: database, Policy: policy}
	quoteSvc := &quote.Service{DB: database}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:              database,
		AuthHandler:     &handlers.AuthHandler{DB: database, Tokens: tokens, Producer: prod},
		ProductHandler:  &handlers.ProductHandler{Svc: catalogSvc, Producer: prod, ES: esClient, Index: cfg.ESIndex},
		CartHandler:     &handlers.CartHandler{Svc: cartSvc, Producer: prod},
		OrderHandler:    &handlers.OrderHandler{Svc: orderSvc, Producer: prod},
		QuoteHandler:    &handlers.QuoteHandler{Svc: quoteSvc, Producer: prod},
		SearchHandler:   &handlers.SearchHandler{ES: esClient, Index: cfg.ESIndex},
		TrackingHandler: &handlers.TrackingHandler{Client: tracking.NewClient(cfg.CarrierURL, cfg.CarrierAPIKey)},
		PaymentHandler:  &handlers.PaymentHandler{KeyID: cfg.PaymentKeyID},
		Tokens:          tokens,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := prod.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
