package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	appauth "github.com/Visionary-Advance/xoco-coffee/internal/application/auth"
	appcart "github.com/Visionary-Advance/xoco-coffee/internal/application/cart"
	appcatalog "github.com/Visionary-Advance/xoco-coffee/internal/application/catalog"
	appcheckout "github.com/Visionary-Advance/xoco-coffee/internal/application/checkout"
	"github.com/Visionary-Advance/xoco-coffee/internal/config"
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/schedule"
	ginserver "github.com/Visionary-Advance/xoco-coffee/internal/infrastructure/http/gin"
	"github.com/Visionary-Advance/xoco-coffee/internal/infrastructure/http/square"
	kafkainfra "github.com/Visionary-Advance/xoco-coffee/internal/infrastructure/messaging/kafka"
	"github.com/Visionary-Advance/xoco-coffee/internal/infrastructure/persistence/postgres"
	redisinfra "github.com/Visionary-Advance/xoco-coffee/internal/infrastructure/persistence/redis"
	"github.com/Visionary-Advance/xoco-coffee/internal/interfaces/http/handler"
	"github.com/Visionary-Advance/xoco-coffee/internal/interfaces/http/router"
	"github.com/Visionary-Advance/xoco-coffee/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	zlog, err := logger.NewZapLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("create logger failed: %v", err)
	}
	defer zlog.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient, err := redisinfra.NewClient(ctx, cfg.Redis)
	if err != nil {
		zlog.Fatal("redis connection failed", logger.Error(err))
	}
	defer redisClient.Close()

	cartStore := redisinfra.NewCartStore(redisClient, cfg.Redis.CartTTL)
	idempotency := redisinfra.NewIdempotencyRegistry(redisClient)

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		zlog.Fatal("postgres connection failed", logger.Error(err))
	}
	defer pool.Close()
	authRepo := postgres.NewMerchantAuthRepository(pool)

	squareClient := square.NewClient(cfg.Square, zlog)
	authService := appauth.NewService(squareClient, authRepo, cfg.Square.ApplicationID, cfg.Square.LocationID, zlog)

	// Fall back to stored OAuth credentials when no access token is
	// configured directly.
	if cfg.Square.AccessToken == "" {
		creds, err := authService.Credentials(ctx)
		if err != nil {
			zlog.Warn("no usable square credentials yet", logger.Error(err))
		} else {
			cfg.Square.AccessToken = creds.AccessToken
			if creds.LocationID != "" {
				cfg.Square.LocationID = creds.LocationID
			}
			squareClient = square.NewClient(cfg.Square, zlog)
		}
	}

	catalogService := appcatalog.NewService(squareClient, time.Duration(cfg.Square.CatalogTTLSec)*time.Second, zlog)
	cartService := appcart.NewService(cartStore, zlog)

	// The terminal event channel is best effort; checkout works without it.
	var notifier appcheckout.Notifier
	producer, err := kafkainfra.NewOrderEventProducer(cfg.Kafka, zlog)
	if err != nil {
		zlog.Warn("kafka producer unavailable, terminal events disabled", logger.Error(err))
	} else {
		defer producer.Close(ctx)
		n, err := kafkainfra.NewOrderNotifier(producer)
		if err != nil {
			zlog.Warn("order notifier unavailable", logger.Error(err))
		} else {
			notifier = n
		}
	}

	checkoutService := appcheckout.NewService(
		cartService,
		squareClient,
		idempotency,
		schedule.Default,
		notifier,
		cfg.Square.LocationID,
		zlog,
	)

	engine := ginserver.NewEngine(cfg.App.Env)
	router.RegisterRoutes(engine,
		handler.NewCatalogHandler(catalogService),
		handler.NewCartHandler(cartService, catalogService),
		handler.NewCheckoutHandler(checkoutService),
		handler.NewHoursHandler(schedule.Default),
		handler.NewAuthHandler(authService, cfg.Square.RedirectURL),
	)

	server := ginserver.NewServer(cfg.Server, engine)
	go func() {
		zlog.Info("storefront api listening", logger.String("addr", cfg.Server.Address()))
		if err := server.Run(); err != nil {
			zlog.Fatal("server run failed", logger.Error(err))
		}
	}()

	stop, stopCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopCancel()
	<-stop.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server shutdown failed", logger.Error(err))
	}
	zlog.Info("storefront api stopped")
}
