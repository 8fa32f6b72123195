package report

import "fmt"

// hoursEpsilon absorbs float accumulation noise when comparing hour totals.
const hoursEpsilon = 0.01

// Reconcile cross-checks section outputs and returns advisory warnings.
// It never mutates section metrics and never blocks report delivery:
// disagreement indicates an assignment mismatch worth surfacing, not a
// hard fault.
func Reconcile(sales SalesMetrics, production ProductionMetrics, techs TechnicianMetrics, writers WriterMetrics) []string {
	var warnings []string

	billable := production.BillableHoursCurrent + production.BillableHoursRollover
	if techs.TotalHoursTurned > billable+hoursEpsilon {
		warnings = append(warnings, fmt.Sprintf(
			"reconciliation: technician hours turned %.2f exceed production billable hours %.2f",
			techs.TotalHoursTurned, billable))
	}

	if writers.TotalJobsSold+writers.MissingAssignments != sales.JobsAuthorized {
		warnings = append(warnings, fmt.Sprintf(
			"reconciliation: writer jobs sold %d (+%d unassigned) disagree with sales authorized jobs %d",
			writers.TotalJobsSold, writers.MissingAssignments, sales.JobsAuthorized))
	}

	return warnings
}
