package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"table-booking-backend/config"
	"table-booking-backend/internal/api"
	"table-booking-backend/internal/booking"
	"table-booking-backend/internal/db"
	"table-booking-backend/internal/logging"
	"table-booking-backend/internal/notification"
	"table-booking-backend/internal/store"
)

const defaultConfigPath = "./config/config.yaml"

func main() {
	configPath := resolveConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration from %q: %v\n", configPath, err)
		os.Exit(1)
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Service: "bookingd"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("bookingd stopped", zap.Error(err))
	}
}

// resolveConfigPath honours CONFIG_PATH and otherwise falls back to the
// local config file when it exists.
func resolveConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("configuration loaded",
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("allowed_rooms", cfg.Booking.AllowedRooms),
		zap.Bool("push_enabled", cfg.Push.Enabled()))

	gormDB, err := db.Init(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	appStore := store.NewGormStore(gormDB)

	registry := booking.NewRegistry(cfg.Booking.AllowedRooms, logger)
	if err := registry.Seed(cfg.Booking.Seed); err != nil {
		return fmt.Errorf("seed rooms: %w", err)
	}
	logger.Info("rooms seeded", zap.Int("rooms", len(registry.Rooms())))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		webpushOptions *webpush.Options
		notifier       booking.Notifier
	)
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, webpushOptions, logger)
		pool.Start(ctx)
		notifier = pool
	} else {
		logger.Warn("VAPID keys not configured, staff notifications are disabled")
	}

	svc := booking.NewService(registry, appStore, notifier, logger)

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(svc, appStore, webpushOptions, api.Options{
		RateLimitPerSec: cfg.Server.RateLimitPerSec,
		RateLimitBurst:  cfg.Server.RateLimitBurst,
		CacheTTL:        cfg.Server.CacheTTL,
	}, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	cancel()

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("server gracefully stopped")
	return nil
}
