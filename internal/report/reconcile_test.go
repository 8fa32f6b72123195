package report

import (
	"strings"
	"testing"
)

func TestReconcileSilentWhenSectionsAgree(t *testing.T) {
	sales := SalesMetrics{JobsAuthorized: 4}
	production := ProductionMetrics{BillableHoursCurrent: 10, BillableHoursRollover: 2}
	techs := TechnicianMetrics{TotalHoursTurned: 12}
	writers := WriterMetrics{TotalJobsSold: 3, MissingAssignments: 1}
	if warnings := Reconcile(sales, production, techs, writers); len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
}

func TestReconcileWarnsWhenTurnedHoursExceedBillable(t *testing.T) {
	production := ProductionMetrics{BillableHoursCurrent: 5}
	techs := TechnicianMetrics{TotalHoursTurned: 5.5}
	warnings := Reconcile(SalesMetrics{}, production, techs, WriterMetrics{})
	if len(warnings) != 1 || !strings.Contains(warnings[0], "exceed production billable hours") {
		t.Fatalf("expected hours warning, got %v", warnings)
	}
}

func TestReconcileToleratesFloatNoise(t *testing.T) {
	production := ProductionMetrics{BillableHoursCurrent: 10}
	techs := TechnicianMetrics{TotalHoursTurned: 10.005}
	if warnings := Reconcile(SalesMetrics{}, production, techs, WriterMetrics{}); len(warnings) != 0 {
		t.Fatalf("sub-epsilon difference must not warn: %v", warnings)
	}
}

func TestReconcileWarnsOnJobCountDisagreement(t *testing.T) {
	sales := SalesMetrics{JobsAuthorized: 5}
	writers := WriterMetrics{TotalJobsSold: 3, MissingAssignments: 1}
	warnings := Reconcile(sales, ProductionMetrics{}, TechnicianMetrics{}, writers)
	if len(warnings) != 1 || !strings.Contains(warnings[0], "disagree with sales authorized jobs") {
		t.Fatalf("expected job count warning, got %v", warnings)
	}
}
