package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/hibiken/asynq"

	"github.com/torqueboard/torqueboard/internal/report"
)

type recordingReporter struct {
	requests []report.ReportRequest
	failShop string
	err      error
}

func (r *recordingReporter) WeeklyReport(ctx context.Context, req report.ReportRequest) (*report.WeeklyReport, error) {
	r.requests = append(r.requests, req)
	if req.ShopID == r.failShop {
		return nil, r.err
	}
	return &report.WeeklyReport{ShopID: req.ShopID}, nil
}

func newWarmupJob(reporter report.WeeklyReporter, now time.Time) *WeeklyWarmupJob {
	j := NewWeeklyWarmupJob(reporter, slog.New(slog.NewTextHandler(io.Discard, nil)))
	j.clock = func() time.Time { return now }
	return j
}

func mustTask(t *testing.T, payload WeeklyWarmupPayload) *asynq.Task {
	t.Helper()
	task, err := NewWeeklyWarmupTask(payload)
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	return task
}

func TestWarmupResolvesLastCompletedWeek(t *testing.T) {
	reporter := &recordingReporter{}
	// A Wednesday: the last completed week is Mar 3 through Mar 9.
	j := newWarmupJob(reporter, time.Date(2025, 3, 12, 8, 30, 0, 0, time.UTC))

	err := j.Handle(context.Background(), mustTask(t, WeeklyWarmupPayload{ShopIDs: []string{"77"}}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(reporter.requests) != 1 {
		t.Fatalf("expected 1 warm request got %d", len(reporter.requests))
	}
	req := reporter.requests[0]
	if !req.WeekStart.Equal(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected week start %v", req.WeekStart)
	}
	if !req.WeekEnd.Equal(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected week end %v", req.WeekEnd)
	}
}

func TestWarmupOnMondayUsesPriorWeek(t *testing.T) {
	reporter := &recordingReporter{}
	j := newWarmupJob(reporter, time.Date(2025, 3, 10, 5, 30, 0, 0, time.UTC))

	if err := j.Handle(context.Background(), mustTask(t, WeeklyWarmupPayload{ShopIDs: []string{"77"}})); err != nil {
		t.Fatalf("handle: %v", err)
	}
	req := reporter.requests[0]
	if !req.WeekStart.Equal(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("monday run must warm the week just finished, got %v", req.WeekStart)
	}
}

func TestWarmupHonorsExplicitWeekStart(t *testing.T) {
	reporter := &recordingReporter{}
	j := newWarmupJob(reporter, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	payload := WeeklyWarmupPayload{ShopIDs: []string{"77"}, WeekStart: "2025-02-24"}
	if err := j.Handle(context.Background(), mustTask(t, payload)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	req := reporter.requests[0]
	if !req.WeekStart.Equal(time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected week start %v", req.WeekStart)
	}
	if !req.WeekEnd.Equal(time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected week end %v", req.WeekEnd)
	}
}

func TestWarmupShopsFailIndependently(t *testing.T) {
	boom := errors.New("upstream 500")
	reporter := &recordingReporter{failShop: "88", err: boom}
	j := newWarmupJob(reporter, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC))

	err := j.Handle(context.Background(), mustTask(t, WeeklyWarmupPayload{ShopIDs: []string{"77", "88", "99"}}))
	if !errors.Is(err, boom) {
		t.Fatalf("expected shop failure to surface for retry, got %v", err)
	}

	var shops []string
	for _, req := range reporter.requests {
		shops = append(shops, req.ShopID)
	}
	sort.Strings(shops)
	if len(shops) != 3 {
		t.Fatalf("one failing shop must not abandon the rest: warmed %v", shops)
	}
}

func TestWarmupSkipsRetryOnMalformedPayload(t *testing.T) {
	j := newWarmupJob(&recordingReporter{}, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC))
	task := asynq.NewTask(TaskWeeklyWarmup, []byte("{not json"))

	err := j.Handle(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}

func TestWarmupSkipsRetryOnBadWeekStart(t *testing.T) {
	j := newWarmupJob(&recordingReporter{}, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC))
	payload := WeeklyWarmupPayload{ShopIDs: []string{"77"}, WeekStart: "03/03/2025"}

	err := j.Handle(context.Background(), mustTask(t, payload))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}

func TestNewWeeklyWarmupTaskRequiresShops(t *testing.T) {
	if _, err := NewWeeklyWarmupTask(WeeklyWarmupPayload{}); err == nil {
		t.Fatal("expected error for empty shop list")
	}
}
