package report

import "fmt"

// DefaultVolumeGuard is the included-order count above which the Production
// section flags a likely upstream filter break.
const DefaultVolumeGuard = 500

// productionStatuses are the order statuses eligible for the Production section.
var productionStatuses = map[Status]bool{
	StatusPosted:             true,
	StatusAccountsReceivable: true,
}

// ProductionCalculator reduces the Production & Completion section. Its date
// driver is the order's PostedAt.
type ProductionCalculator struct {
	window      WeekWindow
	volumeGuard int
}

// NewProductionCalculator binds the calculator to a reporting week.
// volumeGuard <= 0 selects DefaultVolumeGuard.
func NewProductionCalculator(window WeekWindow, volumeGuard int) *ProductionCalculator {
	if volumeGuard <= 0 {
		volumeGuard = DefaultVolumeGuard
	}
	return &ProductionCalculator{window: window, volumeGuard: volumeGuard}
}

// Reduce sums completion metrics over orders posted in the week. A fetched
// order whose PostedAt classifies outside the window is a fetch-contract
// violation and aborts the section: the upstream filter cannot be trusted,
// so the record must not be silently included or excluded. Within included
// orders only authorized jobs count; a job rolls over solely when its own
// AuthorizedAt predates the week start.
func (c *ProductionCalculator) Reduce(orders []RepairOrder) (ProductionMetrics, error) {
	m := ProductionMetrics{Warnings: []string{}}
	vehicles := make(map[int64]struct{})

	for _, order := range orders {
		if !productionStatuses[order.StatusID] {
			continue
		}
		switch Classify(order.PostedAt, c.window) {
		case ClassInWeek:
		case ClassUnknown:
			m.Warnings = append(m.Warnings, fmt.Sprintf("order %d has status %d but no posted date; skipped", order.ID, order.StatusID))
			continue
		default:
			return ProductionMetrics{}, &ContractViolationError{
				Section: "production",
				OrderID: order.ID,
				Field:   "postedAt",
				Value:   *order.PostedAt,
				Window:  c.window,
			}
		}

		m.OrdersCompleted++
		m.TotalCompletedCents += order.TotalSalesCents
		if order.VehicleID != nil {
			vehicles[*order.VehicleID] = struct{}{}
		}

		for _, job := range order.Jobs {
			if !job.Authorized {
				continue
			}
			rollover := IsRollover(job.AuthorizedAt, c.window)
			if rollover {
				m.JobsCompletedRollover++
			} else {
				m.JobsCompletedCurrent++
			}
			for _, line := range job.Labor {
				if !line.Complete {
					continue
				}
				if line.Hours <= 0 {
					m.Warnings = append(m.Warnings, fmt.Sprintf("order %d job %d: completed labor line with no hours", order.ID, job.ID))
					continue
				}
				if rollover {
					m.BillableHoursRollover += line.Hours
				} else {
					m.BillableHoursCurrent += line.Hours
				}
			}
		}
	}

	m.UniqueVehicles = len(vehicles)
	if m.OrdersCompleted > c.volumeGuard {
		m.Warnings = append(m.Warnings, fmt.Sprintf("included order count %d exceeds volume guard %d; upstream filter may be broken", m.OrdersCompleted, c.volumeGuard))
	}
	return m, nil
}
