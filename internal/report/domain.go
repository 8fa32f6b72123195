// Package report computes the weekly shop operating report from
// repair-order data fetched out of the shop-management API.
package report

import (
	"fmt"
	"time"
)

// Status enumerates repair-order statuses as exposed by the shop-management API.
type Status int

// Repair-order status IDs.
const (
	StatusEstimate           Status = 1
	StatusWorkInProgress     Status = 2
	StatusComplete           Status = 3
	StatusPosted             Status = 4
	StatusAccountsReceivable Status = 5
)

// LaborLine is a single unit of scheduled or performed labor inside a job.
// Hours count toward billable metrics only when Complete is true.
type LaborLine struct {
	Hours        float64
	Complete     bool
	TechnicianID *int64
}

// Job is a unit of billable work inside a repair order. Authorized and
// Selected together distinguish declined work from approved work.
type Job struct {
	ID              int64
	Authorized      bool
	AuthorizedAt    *time.Time
	Selected        bool
	TechnicianID    *int64
	ServiceWriterID *int64

	LaborTotalCents    int64
	PartsTotalCents    int64
	SubletTotalCents   int64
	FeeTotalCents      int64
	DiscountTotalCents int64
	SubtotalCents      int64

	Labor []LaborLine
}

// RepairOrder is one upstream aggregate. The four timestamps are semantically
// distinct date drivers; each report section reads exactly one of them.
type RepairOrder struct {
	ID        int64
	StatusID  Status
	VehicleID *int64

	CreatedAt *time.Time
	PostedAt  *time.Time
	UpdatedAt *time.Time

	AmountPaidCents int64
	TotalSalesCents int64
	LaborSalesCents int64
	PartsSalesCents int64

	Jobs []Job
}

// WeekWindow is a closed inclusive date range evaluated at day granularity
// in UTC. Both bounds are stored truncated to midnight.
type WeekWindow struct {
	Start time.Time
	End   time.Time
}

// NewWeekWindow builds a window from calendar dates, truncating any
// time-of-day component. End must not precede start.
func NewWeekWindow(start, end time.Time) (WeekWindow, error) {
	s := truncateDay(start)
	e := truncateDay(end)
	if e.Before(s) {
		return WeekWindow{}, fmt.Errorf("report: week end %s precedes start %s", e.Format(dateLayout), s.Format(dateLayout))
	}
	return WeekWindow{Start: s, End: e}, nil
}

const dateLayout = "2006-01-02"

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SalesMetrics is the Sales & Work Sold section (date driver: job.AuthorizedAt).
// Rollover jobs stay inside the currency totals but are reported distinctly.
type SalesMetrics struct {
	JobsAuthorized     int
	SoldLaborCents     int64
	SoldPartsCents     int64
	SoldSubletCents    int64
	FeeCents           int64
	DiscountCents      int64
	TotalSoldCents     int64
	RolloverJobs       int
	RolloverTotalCents int64
	Warnings           []string
}

// ProductionMetrics is the Production & Completion section (date driver:
// order.PostedAt).
type ProductionMetrics struct {
	OrdersCompleted       int
	JobsCompletedCurrent  int
	JobsCompletedRollover int
	UniqueVehicles        int
	BillableHoursCurrent  float64
	BillableHoursRollover float64
	TotalCompletedCents   int64
	Warnings              []string
}

// CashMetrics is the Cash & Accounting section (date driver: order.UpdatedAt).
type CashMetrics struct {
	CollectedCents    int64
	PaidOrders        int
	AvgCollectedCents int64
	Warnings          []string
}

// TechnicianRow aggregates hours turned for one technician.
type TechnicianRow struct {
	TechnicianID     int64
	HoursTurned      float64
	OrdersTouched    int
	LaborLines       int
	AvgHoursPerOrder float64
}

// TechnicianMetrics is the Technician Productivity section. It shares the
// Production inclusion set: technicians are credited when work is posted.
type TechnicianMetrics struct {
	Rows               []TechnicianRow
	TotalHoursTurned   float64
	LaborLines         int
	MissingAssignments int
	Warnings           []string
}

// WriterRow aggregates hours sold for one service writer.
type WriterRow struct {
	ServiceWriterID int64
	HoursSold       float64
	JobsSold        int
	AvgHoursPerJob  float64
	BacklogJobs     int
	BacklogPct      float64
}

// WriterMetrics is the Service Writer Productivity section. It shares the
// Sales inclusion set: writers are credited when work is authorized.
type WriterMetrics struct {
	Rows               []WriterRow
	TotalJobsSold      int
	TotalHoursSold     float64
	MissingAssignments int
	Warnings           []string
}

// WeeklyReport composes the five section metrics for one shop and week.
// It is a pure function of the fetched data: recomputing against an
// unchanged source yields an identical value.
type WeeklyReport struct {
	ShopID      string
	Window      WeekWindow
	Sales       SalesMetrics
	Production  ProductionMetrics
	Cash        CashMetrics
	Technicians TechnicianMetrics
	Writers     WriterMetrics
	Warnings    []string
}
