package report

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingReporter returns a canned report and counts invocations.
type countingReporter struct {
	calls int
	rep   *WeeklyReport
	err   error
}

func (r *countingReporter) WeeklyReport(ctx context.Context, req ReportRequest) (*WeeklyReport, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.rep, nil
}

func testReport(t *testing.T) *WeeklyReport {
	t.Helper()
	window, err := NewWeekWindow(
		time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return &WeeklyReport{
		ShopID:   "77",
		Window:   window,
		Sales:    SalesMetrics{JobsAuthorized: 3, TotalSoldCents: 120000},
		Cash:     CashMetrics{CollectedCents: 80000, PaidOrders: 2, AvgCollectedCents: 40000},
		Warnings: []string{},
	}
}

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCache(client, ttl), srv
}

func TestCachedServiceServesSecondCallFromCache(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)
	reporter := &countingReporter{rep: testReport(t)}
	svc := NewCachedService(reporter, cache)
	req := serviceRequest()

	first, err := svc.WeeklyReport(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.WeeklyReport(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, reporter.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, "77", second.ShopID)
	assert.Equal(t, int64(120000), second.Sales.TotalSoldCents)
}

func TestCacheKeysSeparateShopsAndWeeks(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)
	reporter := &countingReporter{rep: testReport(t)}
	svc := NewCachedService(reporter, cache)

	_, err := svc.WeeklyReport(context.Background(), serviceRequest())
	require.NoError(t, err)

	other := serviceRequest()
	other.ShopID = "88"
	_, err = svc.WeeklyReport(context.Background(), other)
	require.NoError(t, err)

	nextWeek := serviceRequest()
	nextWeek.WeekStart = nextWeek.WeekStart.AddDate(0, 0, 7)
	nextWeek.WeekEnd = nextWeek.WeekEnd.AddDate(0, 0, 7)
	_, err = svc.WeeklyReport(context.Background(), nextWeek)
	require.NoError(t, err)

	assert.Equal(t, 3, reporter.calls)
}

func TestCacheBumpInvalidatesEverything(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)
	reporter := &countingReporter{rep: testReport(t)}
	svc := NewCachedService(reporter, cache)
	req := serviceRequest()

	_, err := svc.WeeklyReport(context.Background(), req)
	require.NoError(t, err)
	require.NoError(t, cache.Bump(context.Background()))
	_, err = svc.WeeklyReport(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 2, reporter.calls, "bump must force a recompute")
}

func TestCacheNilClientPassesThrough(t *testing.T) {
	reporter := &countingReporter{rep: testReport(t)}
	svc := NewCachedService(reporter, NewCache(nil, time.Hour))

	for i := 0; i < 2; i++ {
		_, err := svc.WeeklyReport(context.Background(), serviceRequest())
		require.NoError(t, err)
	}
	assert.Equal(t, 2, reporter.calls)
}

func TestCacheRecomputesCorruptEntry(t *testing.T) {
	cache, srv := newTestCache(t, time.Hour)
	reporter := &countingReporter{rep: testReport(t)}
	svc := NewCachedService(reporter, cache)
	req := serviceRequest()

	_, err := svc.WeeklyReport(context.Background(), req)
	require.NoError(t, err)

	for _, key := range srv.Keys() {
		if key != cacheVersionKey {
			require.NoError(t, srv.Set(key, "{not json"))
		}
	}

	rep, err := svc.WeeklyReport(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, reporter.calls)
	assert.Equal(t, "77", rep.ShopID)
}

func TestCacheLoaderErrorsAreNotCached(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)
	reporter := &countingReporter{err: assert.AnError}
	svc := NewCachedService(reporter, cache)

	_, err := svc.WeeklyReport(context.Background(), serviceRequest())
	require.Error(t, err)

	reporter.err = nil
	reporter.rep = testReport(t)
	rep, err := svc.WeeklyReport(context.Background(), serviceRequest())
	require.NoError(t, err)
	assert.Equal(t, "77", rep.ShopID)
}
