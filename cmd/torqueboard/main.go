package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/torqueboard/torqueboard/internal/app"
	"github.com/torqueboard/torqueboard/internal/directory"
	"github.com/torqueboard/torqueboard/internal/platform/cache"
	"github.com/torqueboard/torqueboard/internal/platform/db"
	"github.com/torqueboard/torqueboard/internal/report"
	reporthttp "github.com/torqueboard/torqueboard/internal/report/http"
	"github.com/torqueboard/torqueboard/internal/shopapi"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping server startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// Reports still work without the cache; they just recompute.
		logger.Warn("redis unavailable, report cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}()

	source := shopapi.NewClient(cfg.ShopAPIURL, cfg.ShopAPIKey, cfg.ShopAPITimeout)
	fetcher := report.NewPageFetcher(source, cfg.FetchPageDelay, cfg.FetchBackoff)
	assembler := report.NewService(fetcher, report.ServiceConfig{
		MaxPages:          cfg.FetchMaxPages,
		PageSize:          cfg.ShopAPIPage,
		SalesLookbackDays: cfg.SalesLookbackDays,
		VolumeGuard:       cfg.VolumeGuard,
	})
	reports := report.NewCachedService(assembler, report.NewCache(redisClient, cfg.ReportCacheTTL))

	names := directory.NewService(directory.NewPGRepository(pool), logger)
	handler := reporthttp.NewHandler(logger, reports, names)

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		ReportHandler: handler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", slog.Any("error", err))
			os.Exit(1)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server run", slog.Any("error", err))
			os.Exit(1)
		}
	}
}
