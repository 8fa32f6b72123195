package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/torqueboard/torqueboard/internal/app"
	"github.com/torqueboard/torqueboard/internal/report"
	"github.com/torqueboard/torqueboard/internal/shopapi"
	"github.com/torqueboard/torqueboard/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	source := shopapi.NewClient(cfg.ShopAPIURL, cfg.ShopAPIKey, cfg.ShopAPITimeout)
	fetcher := report.NewPageFetcher(source, cfg.FetchPageDelay, cfg.FetchBackoff)
	assembler := report.NewService(fetcher, report.ServiceConfig{
		MaxPages:          cfg.FetchMaxPages,
		PageSize:          cfg.ShopAPIPage,
		SalesLookbackDays: cfg.SalesLookbackDays,
		VolumeGuard:       cfg.VolumeGuard,
	})
	reports := report.NewCachedService(assembler, report.NewCache(redisClient, cfg.ReportCacheTTL))

	warmupJob := jobs.NewWeeklyWarmupJob(reports, logger)

	var cron []jobs.CronRegistration
	if len(cfg.WarmupShopIDs) > 0 {
		warmupTask, err := jobs.NewWeeklyWarmupTask(jobs.WeeklyWarmupPayload{ShopIDs: cfg.WarmupShopIDs})
		if err != nil {
			logger.Error("build warmup task", slog.Any("error", err))
			os.Exit(1)
		}
		// Early Monday morning UTC, after the reporting week closes.
		cron = append(cron, jobs.CronRegistration{
			Spec:    "30 5 * * 1",
			Task:    warmupTask,
			Options: []asynq.Option{asynq.MaxRetry(3)},
		})
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskWeeklyWarmup, Handler: warmupJob.Handle},
		},
		Cron: cron,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
