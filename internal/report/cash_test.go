package report

import (
	"testing"
	"time"
)

func TestCashReduceSumsPaidOrdersTouchedInWeek(t *testing.T) {
	w := testWindow(t)
	orders := []RepairOrder{
		{ID: 1, UpdatedAt: tp(time.Date(2025, 3, 4, 11, 0, 0, 0, time.UTC)), AmountPaidCents: 30000},
		{ID: 2, UpdatedAt: tp(time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)), AmountPaidCents: 10000},
		// Outside the week.
		{ID: 3, UpdatedAt: tp(time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)), AmountPaidCents: 99999},
		// No updated date at all.
		{ID: 4, AmountPaidCents: 5000},
	}
	m := NewCashCalculator(w).Reduce(orders)
	if m.CollectedCents != 40000 {
		t.Fatalf("expected 40000 collected got %d", m.CollectedCents)
	}
	if m.PaidOrders != 2 {
		t.Fatalf("expected 2 paid orders got %d", m.PaidOrders)
	}
	if m.AvgCollectedCents != 20000 {
		t.Fatalf("expected avg 20000 got %d", m.AvgCollectedCents)
	}
}

func TestCashReduceExcludesZeroPayment(t *testing.T) {
	w := testWindow(t)
	orders := []RepairOrder{
		{ID: 1, UpdatedAt: tp(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)), AmountPaidCents: 0},
		{ID: 2, UpdatedAt: tp(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)), AmountPaidCents: -100},
	}
	m := NewCashCalculator(w).Reduce(orders)
	if m.PaidOrders != 0 || m.CollectedCents != 0 {
		t.Fatalf("non-positive payments must be excluded entirely: %+v", m)
	}
}

func TestCashReduceAverageIsZeroWithoutPaidOrders(t *testing.T) {
	w := testWindow(t)
	m := NewCashCalculator(w).Reduce(nil)
	if m.AvgCollectedCents != 0 {
		t.Fatalf("expected avg exactly 0 got %d", m.AvgCollectedCents)
	}
}
