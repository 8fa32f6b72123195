package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/torqueboard/torqueboard/internal/report"
)

const warmupShopTimeout = 2 * time.Minute

// WeeklyWarmupJob pre-populates the report cache for each configured shop so
// Monday-morning dashboard loads are warm.
type WeeklyWarmupJob struct {
	Reports report.WeeklyReporter
	Logger  *slog.Logger
	clock   func() time.Time
}

// NewWeeklyWarmupJob wires dependencies for the warmup handler.
func NewWeeklyWarmupJob(reports report.WeeklyReporter, logger *slog.Logger) *WeeklyWarmupJob {
	return &WeeklyWarmupJob{
		Reports: reports,
		Logger:  logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes weekly warmup tasks. Shops fail independently: one shop's
// fetch error does not abandon the rest, but the task reports the last error
// so Asynq retries.
func (j *WeeklyWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("weekly warmup: handler not configured")
	}
	var payload WeeklyWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	weekStart, weekEnd, err := j.resolveWindow(payload.WeekStart)
	if err != nil {
		j.logger().Error("resolve warmup window", slog.Any("error", err))
		return asynq.SkipRetry
	}

	logger := j.logger().With(
		slog.String("week_start", weekStart.Format("2006-01-02")),
		slog.String("week_end", weekEnd.Format("2006-01-02")))
	logger.Info("starting weekly warmup", slog.Int("shops", len(payload.ShopIDs)))

	started := j.now()
	var resultErr error
	warmed := 0
	for _, shopID := range payload.ShopIDs {
		if err := j.warmShop(ctx, shopID, weekStart, weekEnd); err != nil {
			resultErr = err
			logger.Error("warm shop", slog.String("shop", shopID), slog.Any("error", err))
			continue
		}
		warmed++
	}

	logger.Info("completed weekly warmup", slog.Int("warmed", warmed), slog.Duration("duration", time.Since(started)))
	return resultErr
}

func (j *WeeklyWarmupJob) warmShop(ctx context.Context, shopID string, weekStart, weekEnd time.Time) error {
	shopCtx, cancel := context.WithTimeout(ctx, warmupShopTimeout)
	defer cancel()
	_, err := j.Reports.WeeklyReport(shopCtx, report.ReportRequest{
		ShopID:    shopID,
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
	})
	return err
}

// resolveWindow pins the reporting week. An explicit start is honored as-is;
// otherwise the most recent completed Monday-to-Sunday week is used.
func (j *WeeklyWarmupJob) resolveWindow(explicitStart string) (time.Time, time.Time, error) {
	if explicitStart != "" {
		start, err := time.ParseInLocation("2006-01-02", explicitStart, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return start, start.AddDate(0, 0, 6), nil
	}
	now := j.now()
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	thisMonday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -daysSinceMonday)
	lastMonday := thisMonday.AddDate(0, 0, -7)
	return lastMonday, lastMonday.AddDate(0, 0, 6), nil
}

func (j *WeeklyWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskWeeklyWarmup))
	}
	return slog.Default().With(slog.String("job", TaskWeeklyWarmup))
}

func (j *WeeklyWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
