package report

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Date-field hints passed to the record source. Hints only: every section
// re-verifies its own date constraint client-side.
const (
	DateFieldAuthorized = "authorizedDate"
	DateFieldPosted     = "postedDate"
	DateFieldUpdated    = "updatedDate"
)

// DefaultSalesLookbackDays widens the Sales/Writer fetch before the week
// start, since authorizations may substantially predate posting.
const DefaultSalesLookbackDays = 60

// ReportRequest identifies one shop and reporting week.
type ReportRequest struct {
	ShopID    string
	WeekStart time.Time
	WeekEnd   time.Time
}

// ServiceConfig tunes the assembler's fetch behavior.
type ServiceConfig struct {
	MaxPages          int
	PageSize          int
	SalesLookbackDays int
	VolumeGuard       int
}

func (c ServiceConfig) withDefaults() ServiceConfig {
	if c.MaxPages <= 0 {
		c.MaxPages = 50
	}
	if c.PageSize <= 0 || c.PageSize > 100 {
		c.PageSize = 100
	}
	if c.SalesLookbackDays <= 0 {
		c.SalesLookbackDays = DefaultSalesLookbackDays
	}
	return c
}

// Service assembles weekly reports: fetch, classify, calculate, reconcile.
// Each run is a pure pipeline from raw fetch to immutable result; the
// service holds no mutable state, so runs for different shops and weeks may
// proceed concurrently.
type Service struct {
	fetcher *PageFetcher
	cfg     ServiceConfig
}

// NewService wires the assembler with its fetcher.
func NewService(fetcher *PageFetcher, cfg ServiceConfig) *Service {
	return &Service{fetcher: fetcher, cfg: cfg.withDefaults()}
}

// WeeklyReport produces the five-section report for one shop and week.
// The three underlying fetches (sales/writer set, production/technician set,
// cash set) run concurrently; each is internally sequential so its backoff
// always observes the same page. Any fetch failure or fetch-contract
// violation aborts the run: a report is delivered whole, with warnings, or
// not at all.
func (s *Service) WeeklyReport(ctx context.Context, req ReportRequest) (*WeeklyReport, error) {
	window, err := NewWeekWindow(req.WeekStart, req.WeekEnd)
	if err != nil {
		return nil, err
	}
	if req.ShopID == "" {
		return nil, fmt.Errorf("report: shop id required")
	}

	var salesSet, productionSet, cashSet FetchResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		salesSet, err = s.fetcher.FetchAll(gctx, s.salesFilter(req.ShopID, window), s.cfg.MaxPages)
		if err != nil {
			return fmt.Errorf("sales section: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		productionSet, err = s.fetcher.FetchAll(gctx, s.productionFilter(req.ShopID, window), s.cfg.MaxPages)
		if err != nil {
			return fmt.Errorf("production section: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		cashSet, err = s.fetcher.FetchAll(gctx, s.cashFilter(req.ShopID, window), s.cfg.MaxPages)
		if err != nil {
			return fmt.Errorf("cash section: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var warnings []string
	if salesSet.Truncated {
		warnings = append(warnings, fmt.Sprintf("sales/writer fetch truncated at page cap %d; totals may under-report", s.cfg.MaxPages))
	}
	if productionSet.Truncated {
		warnings = append(warnings, fmt.Sprintf("production/technician fetch truncated at page cap %d; totals may under-report", s.cfg.MaxPages))
	}
	if cashSet.Truncated {
		warnings = append(warnings, fmt.Sprintf("cash fetch truncated at page cap %d; totals may under-report", s.cfg.MaxPages))
	}

	sales := NewSalesCalculator(window).Reduce(salesSet.Orders)
	production, err := NewProductionCalculator(window, s.cfg.VolumeGuard).Reduce(productionSet.Orders)
	if err != nil {
		return nil, err
	}
	cash := NewCashCalculator(window).Reduce(cashSet.Orders)
	techs := NewTechnicianCalculator(window).Reduce(productionSet.Orders)
	writers := NewWriterCalculator(window).Reduce(salesSet.Orders)

	warnings = append(warnings, Reconcile(sales, production, techs, writers)...)
	warnings = append(warnings, prefixAll("sales", sales.Warnings)...)
	warnings = append(warnings, prefixAll("production", production.Warnings)...)
	warnings = append(warnings, prefixAll("cash", cash.Warnings)...)
	warnings = append(warnings, prefixAll("technicians", techs.Warnings)...)
	warnings = append(warnings, prefixAll("writers", writers.Warnings)...)
	if warnings == nil {
		warnings = []string{}
	}

	return &WeeklyReport{
		ShopID:      req.ShopID,
		Window:      window,
		Sales:       sales,
		Production:  production,
		Cash:        cash,
		Technicians: techs,
		Writers:     writers,
		Warnings:    warnings,
	}, nil
}

func (s *Service) salesFilter(shopID string, w WeekWindow) FetchFilter {
	start := w.Start.AddDate(0, 0, -s.cfg.SalesLookbackDays)
	end := w.End
	return FetchFilter{
		ShopID:    shopID,
		StatusIDs: []Status{StatusWorkInProgress, StatusComplete, StatusPosted, StatusAccountsReceivable},
		DateField: DateFieldAuthorized,
		DateStart: &start,
		DateEnd:   &end,
		PageSize:  s.cfg.PageSize,
	}
}

func (s *Service) productionFilter(shopID string, w WeekWindow) FetchFilter {
	start := w.Start
	end := w.End
	return FetchFilter{
		ShopID:    shopID,
		StatusIDs: []Status{StatusPosted, StatusAccountsReceivable},
		DateField: DateFieldPosted,
		DateStart: &start,
		DateEnd:   &end,
		PageSize:  s.cfg.PageSize,
	}
}

func (s *Service) cashFilter(shopID string, w WeekWindow) FetchFilter {
	start := w.Start
	end := w.End
	return FetchFilter{
		ShopID:    shopID,
		DateField: DateFieldUpdated,
		DateStart: &start,
		DateEnd:   &end,
		PageSize:  s.cfg.PageSize,
	}
}

func prefixAll(section string, warnings []string) []string {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, section+": "+w)
	}
	return out
}
