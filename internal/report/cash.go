package report

// CashCalculator reduces the Cash & Accounting section. Its date driver is
// the order's UpdatedAt; cash events are not backdated the way
// authorizations are, so the section carries no rollover concept.
type CashCalculator struct {
	window WeekWindow
}

// NewCashCalculator binds the calculator to a reporting week.
func NewCashCalculator(window WeekWindow) *CashCalculator {
	return &CashCalculator{window: window}
}

// Reduce sums collected cash over orders touched in the week that carry a
// positive paid amount. The average is integer cents and exactly zero when
// no order qualified.
func (c *CashCalculator) Reduce(orders []RepairOrder) CashMetrics {
	m := CashMetrics{Warnings: []string{}}
	for _, order := range orders {
		if Classify(order.UpdatedAt, c.window) != ClassInWeek {
			continue
		}
		if order.AmountPaidCents <= 0 {
			continue
		}
		m.CollectedCents += order.AmountPaidCents
		m.PaidOrders++
	}
	if m.PaidOrders > 0 {
		m.AvgCollectedCents = m.CollectedCents / int64(m.PaidOrders)
	}
	return m
}
