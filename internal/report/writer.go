package report

import (
	"fmt"
	"sort"
)

// WriterCalculator reduces the Service Writer Productivity section ("hours
// sold"). It shares the Sales inclusion set and date driver: a writer is
// credited when the job is authorized, regardless of when the work is later
// performed, so line hours are summed without the complete gate.
type WriterCalculator struct {
	window WeekWindow
}

// NewWriterCalculator binds the calculator to a reporting week.
func NewWriterCalculator(window WeekWindow) *WriterCalculator {
	return &WriterCalculator{window: window}
}

// Reduce credits jobs authorized in the week to their service writer. A job
// with no resolvable writer is counted and warned about, excluded from
// per-writer totals. The backlog sub-metric is the share of a writer's sold
// jobs whose owning order was opened before the week start.
func (c *WriterCalculator) Reduce(orders []RepairOrder) WriterMetrics {
	m := WriterMetrics{Warnings: []string{}}
	type acc struct {
		hours   float64
		jobs    int
		backlog int
	}
	byWriter := make(map[int64]*acc)

	for _, order := range orders {
		if !salesStatuses[order.StatusID] {
			continue
		}
		for _, job := range order.Jobs {
			if !job.Authorized || Classify(job.AuthorizedAt, c.window) != ClassInWeek {
				continue
			}
			if job.ServiceWriterID == nil {
				m.MissingAssignments++
				continue
			}
			a := byWriter[*job.ServiceWriterID]
			if a == nil {
				a = &acc{}
				byWriter[*job.ServiceWriterID] = a
			}
			hours := jobLineHours(job)
			a.hours += hours
			a.jobs++
			if IsRollover(order.CreatedAt, c.window) {
				a.backlog++
			}
			m.TotalJobsSold++
			m.TotalHoursSold += hours
		}
	}

	ids := make([]int64, 0, len(byWriter))
	for id := range byWriter {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	m.Rows = make([]WriterRow, 0, len(ids))
	for _, id := range ids {
		a := byWriter[id]
		row := WriterRow{
			ServiceWriterID: id,
			HoursSold:       a.hours,
			JobsSold:        a.jobs,
			BacklogJobs:     a.backlog,
		}
		if a.jobs > 0 {
			row.AvgHoursPerJob = a.hours / float64(a.jobs)
			row.BacklogPct = float64(a.backlog) / float64(a.jobs) * 100
		}
		m.Rows = append(m.Rows, row)
	}

	if m.MissingAssignments > 0 {
		m.Warnings = append(m.Warnings, fmt.Sprintf("%d authorized jobs have no service writer; excluded from per-writer totals", m.MissingAssignments))
	}
	return m
}

// jobLineHours sums every labor line on the job. Selling is not performing:
// incomplete lines still count toward hours sold.
func jobLineHours(job Job) float64 {
	var total float64
	for _, line := range job.Labor {
		total += line.Hours
	}
	return total
}
