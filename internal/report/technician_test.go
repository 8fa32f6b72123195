package report

import (
	"strings"
	"testing"
	"time"
)

func postedOrder(id int64, jobs ...Job) RepairOrder {
	return RepairOrder{
		ID:       id,
		StatusID: StatusPosted,
		PostedAt: tp(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)),
		Jobs:     jobs,
	}
}

func TestTechnicianReduceCreditsLineTechnician(t *testing.T) {
	w := testWindow(t)
	orders := []RepairOrder{
		postedOrder(1, Job{
			ID: 10, Authorized: true,
			AuthorizedAt: tp(time.Date(2025, 2, 19, 0, 0, 0, 0, time.UTC)),
			Labor:        []LaborLine{{Hours: 2.5, Complete: true, TechnicianID: ip(7)}},
		}),
	}
	m := NewTechnicianCalculator(w).Reduce(orders)
	if len(m.Rows) != 1 {
		t.Fatalf("expected 1 technician row got %d", len(m.Rows))
	}
	row := m.Rows[0]
	if row.TechnicianID != 7 || row.HoursTurned != 2.5 || row.OrdersTouched != 1 {
		t.Fatalf("unexpected row %+v", row)
	}
	if row.AvgHoursPerOrder != 2.5 {
		t.Fatalf("expected avg 2.5 got %.2f", row.AvgHoursPerOrder)
	}
	if m.TotalHoursTurned != 2.5 {
		t.Fatalf("expected total 2.5 got %.2f", m.TotalHoursTurned)
	}
}

func TestTechnicianReduceFallsBackToJobTechnician(t *testing.T) {
	w := testWindow(t)
	orders := []RepairOrder{
		postedOrder(1, Job{
			ID: 10, Authorized: true, TechnicianID: ip(3),
			Labor: []LaborLine{{Hours: 1.0, Complete: true}},
		}),
	}
	m := NewTechnicianCalculator(w).Reduce(orders)
	if len(m.Rows) != 1 || m.Rows[0].TechnicianID != 3 {
		t.Fatalf("expected fallback to job technician, got %+v", m.Rows)
	}
	if m.MissingAssignments != 0 {
		t.Fatalf("fallback resolution is not a missing assignment: %d", m.MissingAssignments)
	}
}

func TestTechnicianReduceCountsMissingAssignments(t *testing.T) {
	w := testWindow(t)
	orders := []RepairOrder{
		postedOrder(1, Job{
			ID: 10, Authorized: true,
			Labor: []LaborLine{
				{Hours: 2, Complete: true},
				{Hours: 3, Complete: true, TechnicianID: ip(5)},
			},
		}),
	}
	m := NewTechnicianCalculator(w).Reduce(orders)
	if m.MissingAssignments != 1 {
		t.Fatalf("expected 1 missing assignment got %d", m.MissingAssignments)
	}
	if m.LaborLines != 2 {
		t.Fatalf("overall line count must include the unassigned line, got %d", m.LaborLines)
	}
	if m.TotalHoursTurned != 3 {
		t.Fatalf("unassigned hours must be excluded from totals, got %.2f", m.TotalHoursTurned)
	}
	if len(m.Warnings) != 1 || !strings.Contains(m.Warnings[0], "no resolvable technician") {
		t.Fatalf("expected missing-assignment warning, got %v", m.Warnings)
	}
}

func TestTechnicianReduceExcludesIncompleteLines(t *testing.T) {
	w := testWindow(t)
	orders := []RepairOrder{
		postedOrder(1, Job{
			ID: 10, Authorized: true,
			Labor: []LaborLine{{Hours: 5, Complete: false, TechnicianID: ip(2)}},
		}),
	}
	m := NewTechnicianCalculator(w).Reduce(orders)
	if m.TotalHoursTurned != 0 || len(m.Rows) != 0 {
		t.Fatalf("incomplete lines must not turn hours: %+v", m)
	}
	if len(m.Warnings) != 0 {
		t.Fatalf("incomplete is an expected state, not a defect: %v", m.Warnings)
	}
}

func TestTechnicianReduceDistinctOrdersAndSortedRows(t *testing.T) {
	w := testWindow(t)
	authorized := tp(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC))
	orders := []RepairOrder{
		postedOrder(1,
			Job{ID: 10, Authorized: true, AuthorizedAt: authorized, Labor: []LaborLine{{Hours: 1, Complete: true, TechnicianID: ip(9)}}},
			Job{ID: 11, Authorized: true, AuthorizedAt: authorized, Labor: []LaborLine{{Hours: 2, Complete: true, TechnicianID: ip(9)}}},
		),
		postedOrder(2,
			Job{ID: 20, Authorized: true, AuthorizedAt: authorized, Labor: []LaborLine{
				{Hours: 4, Complete: true, TechnicianID: ip(9)},
				{Hours: 3, Complete: true, TechnicianID: ip(1)},
			}},
		),
	}
	m := NewTechnicianCalculator(w).Reduce(orders)
	if len(m.Rows) != 2 {
		t.Fatalf("expected 2 technicians got %d", len(m.Rows))
	}
	if m.Rows[0].TechnicianID != 1 || m.Rows[1].TechnicianID != 9 {
		t.Fatalf("rows must sort by technician id: %+v", m.Rows)
	}
	nine := m.Rows[1]
	if nine.OrdersTouched != 2 {
		t.Fatalf("expected 2 distinct orders touched got %d", nine.OrdersTouched)
	}
	if nine.HoursTurned != 7 {
		t.Fatalf("expected 7 hours got %.2f", nine.HoursTurned)
	}
	if nine.AvgHoursPerOrder != 3.5 {
		t.Fatalf("expected avg 3.5 got %.2f", nine.AvgHoursPerOrder)
	}
}

func TestTechnicianReduceIgnoresOrdersOutsidePostedWeek(t *testing.T) {
	w := testWindow(t)
	orders := []RepairOrder{
		{
			ID: 1, StatusID: StatusPosted,
			PostedAt: tp(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)),
			Jobs: []Job{{ID: 10, Authorized: true, Labor: []LaborLine{
				{Hours: 2, Complete: true, TechnicianID: ip(1)},
			}}},
		},
	}
	m := NewTechnicianCalculator(w).Reduce(orders)
	if m.TotalHoursTurned != 0 {
		t.Fatalf("orders outside the posted week must not credit hours: %+v", m)
	}
}
