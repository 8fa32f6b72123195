package reporthttp

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/torqueboard/torqueboard/internal/report"
)

var usdPrinter = message.NewPrinter(language.AmericanEnglish)

// formatUSD renders integer cents as a localized currency string. Currency
// math happens in cents everywhere; conversion to major units is
// presentation-only.
func formatUSD(cents int64) string {
	return usdPrinter.Sprint(currency.Symbol(currency.USD.Amount(major(cents))))
}

func major(cents int64) float64 {
	return float64(cents) / 100
}

type weeklyReportVM struct {
	ReportID    string        `json:"reportId"`
	ShopID      string        `json:"shopId"`
	WeekStart   string        `json:"weekStart"`
	WeekEnd     string        `json:"weekEnd"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Sales       salesVM       `json:"sales"`
	Production  productionVM  `json:"production"`
	Cash        cashVM        `json:"cash"`
	Technicians techniciansVM `json:"technicians"`
	Writers     writersVM     `json:"serviceWriters"`
	Warnings    []string      `json:"warnings"`
}

type salesVM struct {
	JobsAuthorized int      `json:"jobsAuthorized"`
	SoldLabor      float64  `json:"soldLabor"`
	SoldParts      float64  `json:"soldParts"`
	SoldSublet     float64  `json:"soldSublet"`
	Fees           float64  `json:"fees"`
	Discounts      float64  `json:"discounts"`
	TotalSold      float64  `json:"totalSold"`
	TotalSoldText  string   `json:"totalSoldText"`
	RolloverJobs   int      `json:"rolloverJobs"`
	RolloverTotal  float64  `json:"rolloverTotal"`
	Warnings       []string `json:"warnings"`
}

type productionVM struct {
	OrdersCompleted       int      `json:"ordersCompleted"`
	JobsCompletedCurrent  int      `json:"jobsCompletedCurrent"`
	JobsCompletedRollover int      `json:"jobsCompletedRollover"`
	UniqueVehicles        int      `json:"uniqueVehicles"`
	BillableHoursCurrent  float64  `json:"billableHoursCurrent"`
	BillableHoursRollover float64  `json:"billableHoursRollover"`
	TotalCompleted        float64  `json:"totalCompleted"`
	TotalCompletedText    string   `json:"totalCompletedText"`
	Warnings              []string `json:"warnings"`
}

type cashVM struct {
	CashCollected     float64  `json:"cashCollected"`
	CashCollectedText string   `json:"cashCollectedText"`
	PaidOrders        int      `json:"paidOrders"`
	AvgCollectedPerRO float64  `json:"avgCollectedPerRO"`
	Warnings          []string `json:"warnings"`
}

type technicianRowVM struct {
	TechnicianID     int64   `json:"technicianId"`
	Name             string  `json:"name"`
	HoursTurned      float64 `json:"hoursTurned"`
	OrdersTouched    int     `json:"ordersTouched"`
	LaborLines       int     `json:"laborLines"`
	AvgHoursPerOrder float64 `json:"avgHoursPerOrder"`
}

type techniciansVM struct {
	Rows               []technicianRowVM `json:"rows"`
	TotalHoursTurned   float64           `json:"totalHoursTurned"`
	MissingAssignments int               `json:"missingAssignments"`
	Warnings           []string          `json:"warnings"`
}

type writerRowVM struct {
	ServiceWriterID int64   `json:"serviceWriterId"`
	Name            string  `json:"name"`
	HoursSold       float64 `json:"hoursSold"`
	JobsSold        int     `json:"jobsSold"`
	AvgHoursPerJob  float64 `json:"avgHoursPerJob"`
	BacklogPct      float64 `json:"backlogPct"`
}

type writersVM struct {
	Rows               []writerRowVM `json:"rows"`
	TotalJobsSold      int           `json:"totalJobsSold"`
	TotalHoursSold     float64       `json:"totalHoursSold"`
	MissingAssignments int           `json:"missingAssignments"`
	Warnings           []string      `json:"warnings"`
}

// NameResolver labels employee IDs for display. Resolution failures never
// block the report; they only add warnings.
type NameResolver interface {
	DisplayName(ctx context.Context, employeeID int64) (string, bool)
}

func (h *Handler) buildViewModel(ctx context.Context, rep *report.WeeklyReport) weeklyReportVM {
	vm := weeklyReportVM{
		ReportID:    h.newID(),
		ShopID:      rep.ShopID,
		WeekStart:   rep.Window.Start.Format("2006-01-02"),
		WeekEnd:     rep.Window.End.Format("2006-01-02"),
		GeneratedAt: h.now().UTC(),
		Sales: salesVM{
			JobsAuthorized: rep.Sales.JobsAuthorized,
			SoldLabor:      major(rep.Sales.SoldLaborCents),
			SoldParts:      major(rep.Sales.SoldPartsCents),
			SoldSublet:     major(rep.Sales.SoldSubletCents),
			Fees:           major(rep.Sales.FeeCents),
			Discounts:      major(rep.Sales.DiscountCents),
			TotalSold:      major(rep.Sales.TotalSoldCents),
			TotalSoldText:  formatUSD(rep.Sales.TotalSoldCents),
			RolloverJobs:   rep.Sales.RolloverJobs,
			RolloverTotal:  major(rep.Sales.RolloverTotalCents),
			Warnings:       rep.Sales.Warnings,
		},
		Production: productionVM{
			OrdersCompleted:       rep.Production.OrdersCompleted,
			JobsCompletedCurrent:  rep.Production.JobsCompletedCurrent,
			JobsCompletedRollover: rep.Production.JobsCompletedRollover,
			UniqueVehicles:        rep.Production.UniqueVehicles,
			BillableHoursCurrent:  rep.Production.BillableHoursCurrent,
			BillableHoursRollover: rep.Production.BillableHoursRollover,
			TotalCompleted:        major(rep.Production.TotalCompletedCents),
			TotalCompletedText:    formatUSD(rep.Production.TotalCompletedCents),
			Warnings:              rep.Production.Warnings,
		},
		Cash: cashVM{
			CashCollected:     major(rep.Cash.CollectedCents),
			CashCollectedText: formatUSD(rep.Cash.CollectedCents),
			PaidOrders:        rep.Cash.PaidOrders,
			AvgCollectedPerRO: major(rep.Cash.AvgCollectedCents),
			Warnings:          rep.Cash.Warnings,
		},
		Warnings: append([]string{}, rep.Warnings...),
	}

	vm.Technicians = techniciansVM{
		Rows:               make([]technicianRowVM, 0, len(rep.Technicians.Rows)),
		TotalHoursTurned:   rep.Technicians.TotalHoursTurned,
		MissingAssignments: rep.Technicians.MissingAssignments,
		Warnings:           rep.Technicians.Warnings,
	}
	for _, row := range rep.Technicians.Rows {
		name, ok := h.resolveName(ctx, row.TechnicianID)
		if !ok {
			vm.Warnings = append(vm.Warnings, fmt.Sprintf("technicians: name unresolved for employee %d", row.TechnicianID))
		}
		vm.Technicians.Rows = append(vm.Technicians.Rows, technicianRowVM{
			TechnicianID:     row.TechnicianID,
			Name:             name,
			HoursTurned:      row.HoursTurned,
			OrdersTouched:    row.OrdersTouched,
			LaborLines:       row.LaborLines,
			AvgHoursPerOrder: row.AvgHoursPerOrder,
		})
	}

	vm.Writers = writersVM{
		Rows:               make([]writerRowVM, 0, len(rep.Writers.Rows)),
		TotalJobsSold:      rep.Writers.TotalJobsSold,
		TotalHoursSold:     rep.Writers.TotalHoursSold,
		MissingAssignments: rep.Writers.MissingAssignments,
		Warnings:           rep.Writers.Warnings,
	}
	for _, row := range rep.Writers.Rows {
		name, ok := h.resolveName(ctx, row.ServiceWriterID)
		if !ok {
			vm.Warnings = append(vm.Warnings, fmt.Sprintf("serviceWriters: name unresolved for employee %d", row.ServiceWriterID))
		}
		vm.Writers.Rows = append(vm.Writers.Rows, writerRowVM{
			ServiceWriterID: row.ServiceWriterID,
			Name:            name,
			HoursSold:       row.HoursSold,
			JobsSold:        row.JobsSold,
			AvgHoursPerJob:  row.AvgHoursPerJob,
			BacklogPct:      row.BacklogPct,
		})
	}

	return vm
}

func (h *Handler) resolveName(ctx context.Context, employeeID int64) (string, bool) {
	if h.names == nil {
		return fmt.Sprintf("Employee #%d", employeeID), false
	}
	return h.names.DisplayName(ctx, employeeID)
}
