// Package reporthttp exposes the weekly report over HTTP. It is a thin edge:
// all aggregation semantics live in the report package.
package reporthttp

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/torqueboard/torqueboard/internal/platform/httpx"
	"github.com/torqueboard/torqueboard/internal/report"
)

const dateLayout = "2006-01-02"

// weeklyQuery carries the parsed query string for validation.
type weeklyQuery struct {
	ShopID    string `validate:"required"`
	WeekStart string `validate:"required,datetime=2006-01-02"`
	WeekEnd   string `validate:"required,datetime=2006-01-02"`
}

// Handler coordinates HTTP requests for weekly reports.
type Handler struct {
	logger   *slog.Logger
	service  report.WeeklyReporter
	names    NameResolver
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
}

// NewHandler constructs the report HTTP handler.
func NewHandler(logger *slog.Logger, service report.WeeklyReporter, names NameResolver) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		names:    names,
		validate: validator.New(),
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

// WithClock overrides the handler clock and ID source for testing.
func (h *Handler) WithClock(now func() time.Time, newID func() string) {
	if now != nil {
		h.now = now
	}
	if newID != nil {
		h.newID = newID
	}
}

// MountRoutes attaches report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/weekly", h.handleWeekly)
}

func (h *Handler) handleWeekly(w http.ResponseWriter, r *http.Request) {
	q := weeklyQuery{
		ShopID:    r.URL.Query().Get("shop"),
		WeekStart: r.URL.Query().Get("week_start"),
		WeekEnd:   r.URL.Query().Get("week_end"),
	}
	if err := h.validate.Struct(q); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: shop, week_start and week_end (YYYY-MM-DD) are required", httpx.ErrValidation))
		return
	}
	weekStart, _ := time.ParseInLocation(dateLayout, q.WeekStart, time.UTC)
	weekEnd, _ := time.ParseInLocation(dateLayout, q.WeekEnd, time.UTC)
	if weekEnd.Before(weekStart) {
		httpx.RespondError(w, fmt.Errorf("%w: week_end precedes week_start", httpx.ErrValidation))
		return
	}

	req := report.ReportRequest{ShopID: q.ShopID, WeekStart: weekStart, WeekEnd: weekEnd}
	rep, err := h.service.WeeklyReport(r.Context(), req)
	if err != nil {
		h.respondReportError(w, req, err)
		return
	}

	httpx.JSON(w, http.StatusOK, h.buildViewModel(r.Context(), rep))
}

func (h *Handler) respondReportError(w http.ResponseWriter, req report.ReportRequest, err error) {
	h.logger.Error("weekly report failed",
		slog.String("shop", req.ShopID),
		slog.String("week_start", req.WeekStart.Format(dateLayout)),
		slog.Any("error", err))

	var violation *report.ContractViolationError
	switch {
	case errors.As(err, &violation):
		httpx.Problem(w, http.StatusBadGateway, "Upstream Filter Violation", violation.Error())
	case errors.Is(err, report.ErrRateLimited):
		httpx.Problem(w, http.StatusServiceUnavailable, "Upstream Rate Limited", err.Error())
	default:
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrUpstream, err.Error()))
	}
}
