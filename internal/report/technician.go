package report

import (
	"fmt"
	"sort"
)

// TechnicianCalculator reduces the Technician Productivity section ("hours
// turned"). It shares the Production inclusion set and date driver: a
// technician is credited when the owning order is posted, regardless of when
// the work was sold.
type TechnicianCalculator struct {
	window WeekWindow
}

// NewTechnicianCalculator binds the calculator to a reporting week.
func NewTechnicianCalculator(window WeekWindow) *TechnicianCalculator {
	return &TechnicianCalculator{window: window}
}

// Reduce credits completed labor-line hours to technicians across orders
// posted in the week. The technician resolves from the labor line first,
// then from the owning job; a line with no resolvable technician is counted
// and warned about, never silently dropped. Orders failing the posted-date
// guard are left to the Production calculator, which owns that contract.
func (c *TechnicianCalculator) Reduce(orders []RepairOrder) TechnicianMetrics {
	m := TechnicianMetrics{Warnings: []string{}}
	type acc struct {
		hours  float64
		orders map[int64]struct{}
		lines  int
	}
	byTech := make(map[int64]*acc)

	for _, order := range orders {
		if !productionStatuses[order.StatusID] {
			continue
		}
		if Classify(order.PostedAt, c.window) != ClassInWeek {
			continue
		}
		for _, job := range order.Jobs {
			if !job.Authorized {
				continue
			}
			for _, line := range job.Labor {
				m.LaborLines++
				if !line.Complete {
					continue
				}
				techID := resolveAssignee(line.TechnicianID, job.TechnicianID)
				if techID == nil {
					m.MissingAssignments++
					continue
				}
				a := byTech[*techID]
				if a == nil {
					a = &acc{orders: make(map[int64]struct{})}
					byTech[*techID] = a
				}
				a.hours += line.Hours
				a.lines++
				a.orders[order.ID] = struct{}{}
				m.TotalHoursTurned += line.Hours
			}
		}
	}

	ids := make([]int64, 0, len(byTech))
	for id := range byTech {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	m.Rows = make([]TechnicianRow, 0, len(ids))
	for _, id := range ids {
		a := byTech[id]
		row := TechnicianRow{
			TechnicianID:  id,
			HoursTurned:   a.hours,
			OrdersTouched: len(a.orders),
			LaborLines:    a.lines,
		}
		if row.OrdersTouched > 0 {
			row.AvgHoursPerOrder = row.HoursTurned / float64(row.OrdersTouched)
		}
		m.Rows = append(m.Rows, row)
	}

	if m.MissingAssignments > 0 {
		m.Warnings = append(m.Warnings, fmt.Sprintf("%d of %d labor lines have no resolvable technician; excluded from per-technician totals", m.MissingAssignments, m.LaborLines))
	}
	return m
}

// resolveAssignee prefers the more specific assignment and falls back exactly
// one level; no further inference.
func resolveAssignee(lineID, jobID *int64) *int64 {
	if lineID != nil {
		return lineID
	}
	return jobID
}
