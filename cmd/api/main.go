package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/serhattastan/foodfleet/api/controllers"
	"github.com/serhattastan/foodfleet/api/routes"
	"github.com/serhattastan/foodfleet/internal/cart"
	"github.com/serhattastan/foodfleet/internal/catalog"
	"github.com/serhattastan/foodfleet/internal/coupons"
	"github.com/serhattastan/foodfleet/internal/favorites"
	"github.com/serhattastan/foodfleet/internal/orders"
	"github.com/serhattastan/foodfleet/internal/users"
	"github.com/serhattastan/foodfleet/pkg/config"
	"github.com/serhattastan/foodfleet/pkg/db"
	"github.com/serhattastan/foodfleet/pkg/logger"
	"github.com/serhattastan/foodfleet/pkg/metrics"
	"github.com/serhattastan/foodfleet/pkg/migrate"
	"github.com/serhattastan/foodfleet/pkg/pubsub"
	"github.com/serhattastan/foodfleet/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}

	var pubsubClient *pubsub.Client
	var orderPublisher orders.EventPublisher
	if cfg.PubSub.OrdersTopic != "" {
		pubsubClient, err = pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		orderPublisher = orders.NewTopicPublisher(pubsubClient.OrdersPublisher())
	}

	httpMetrics := metrics.NewHTTPMetrics()
	cartMetrics := metrics.NewCartMetrics(httpMetrics.Registerer())

	couponsSvc, err := coupons.NewService(coupons.ServiceParams{
		Repo:   coupons.NewRepository(dbClient.DB()),
		Cache:  redisClient,
		Logger: logg,
		Config: cfg.Coupons,
	})
	if err != nil {
		logg.Error(ctx, "failed to create coupons service", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	catalogSvc, err := catalog.NewService(catalog.ServiceParams{
		Repo:   catalogRepo,
		Cache:  redisClient,
		Logger: logg,
		Config: cfg.Catalog,
	})
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	cartSvc, err := cart.NewService(cart.ServiceParams{
		Store:   cart.NewRepository(dbClient.DB()),
		Coupons: couponsSvc,
		Logger:  logg,
		Metrics: cartMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cart service", err)
		os.Exit(1)
	}

	favoritesSvc, err := favorites.NewService(favorites.ServiceParams{
		Repo:        favorites.NewRepository(dbClient.DB()),
		CatalogRepo: catalogRepo,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create favorites service", err)
		os.Exit(1)
	}

	ordersSvc, err := orders.NewService(orders.ServiceParams{
		Repo:      orders.NewRepository(dbClient.DB()),
		Cart:      cartSvc,
		Logger:    logg,
		Publisher: orderPublisher,
	})
	if err != nil {
		logg.Error(ctx, "failed to create orders service", err)
		os.Exit(1)
	}

	usersSvc, err := users.NewService(users.ServiceParams{
		Repo:   users.NewRepository(dbClient.DB()),
		Logger: logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create users service", err)
		os.Exit(1)
	}

	go func() {
		if err := catalogSvc.Run(ctx); err != nil && ctx.Err() == nil {
			logg.Error(ctx, "catalog refresher stopped unexpectedly", err)
		}
	}()
	go func() {
		if err := couponsSvc.Run(ctx); err != nil && ctx.Err() == nil {
			logg.Error(ctx, "coupon refresher stopped unexpectedly", err)
		}
	}()

	healthDeps := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
	}
	if pubsubClient != nil {
		healthDeps["pubsub"] = pubsubClient
	}

	router := routes.NewRouter(routes.RouterParams{
		Config:      cfg,
		Logger:      logg,
		Metrics:     httpMetrics,
		HealthDeps:  healthDeps,
		CartSvc:     cartSvc,
		CatalogSvc:  catalogSvc,
		CouponsSvc:  couponsSvc,
		FavoriteSvc: favoritesSvc,
		OrdersSvc:   ordersSvc,
		UsersSvc:    usersSvc,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	runCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(runCtx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(runCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(runCtx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(runCtx, "graceful shutdown failed", err)
	}

	var closeErr error
	closeErr = multierr.Append(closeErr, redisClient.Close())
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if pubsubClient != nil {
		closeErr = multierr.Append(closeErr, pubsubClient.Close())
	}
	if closeErr != nil {
		logg.Error(runCtx, "error closing clients", closeErr)
	}
	logg.Info(runCtx, "api server stopped")
}
