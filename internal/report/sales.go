package report

// salesStatuses are the order statuses eligible for the Sales section.
var salesStatuses = map[Status]bool{
	StatusWorkInProgress:     true,
	StatusComplete:           true,
	StatusPosted:             true,
	StatusAccountsReceivable: true,
}

// SalesCalculator reduces the Sales & Work Sold section. Its date driver is
// the job's AuthorizedAt; no other timestamp family is consulted.
type SalesCalculator struct {
	window WeekWindow
}

// NewSalesCalculator binds the calculator to a reporting week.
func NewSalesCalculator(window WeekWindow) *SalesCalculator {
	return &SalesCalculator{window: window}
}

// Reduce classifies every authorized job against the week and sums the sold
// currency aggregates. Jobs authorized in-week form the current bucket; jobs
// authorized before the week, on orders also created before the week, form
// the rollover bucket. Rollover stays inside the currency totals but is
// counted distinctly. Subtotals exclude tax by construction.
func (c *SalesCalculator) Reduce(orders []RepairOrder) SalesMetrics {
	m := SalesMetrics{Warnings: []string{}}
	for _, order := range orders {
		if !salesStatuses[order.StatusID] {
			continue
		}
		for _, job := range order.Jobs {
			if !job.Authorized || job.AuthorizedAt == nil {
				continue
			}
			switch Classify(job.AuthorizedAt, c.window) {
			case ClassInWeek:
				m.JobsAuthorized++
				c.addJob(&m, job)
			case ClassBeforeWeek:
				// An order created during the week can carry a stale
				// authorized date; require the order itself to predate the
				// window before counting the job as rollover.
				if !IsRollover(order.CreatedAt, c.window) {
					continue
				}
				m.RolloverJobs++
				m.RolloverTotalCents += job.SubtotalCents
				c.addJob(&m, job)
			}
		}
	}
	return m
}

func (c *SalesCalculator) addJob(m *SalesMetrics, job Job) {
	m.SoldLaborCents += job.LaborTotalCents
	m.SoldPartsCents += job.PartsTotalCents
	m.SoldSubletCents += job.SubletTotalCents
	m.FeeCents += job.FeeTotalCents
	m.DiscountCents += job.DiscountTotalCents
	m.TotalSoldCents += job.SubtotalCents
}
