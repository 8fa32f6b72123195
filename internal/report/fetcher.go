package report

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// FetchFilter describes one record-source query. Status and date constraints
// are hints: the upstream only partially honors them, so every calculator
// re-validates its own inclusion predicate client-side.
type FetchFilter struct {
	ShopID    string
	StatusIDs []Status
	DateField string
	DateStart *time.Time
	DateEnd   *time.Time
	PageSize  int
}

// Page is one page of repair-order aggregates from the record source.
type Page struct {
	Orders     []RepairOrder
	TotalPages int
}

// RecordSource abstracts the paginated shop-management API. Implementations
// return ErrRateLimited (possibly wrapped) for retryable throttling.
type RecordSource interface {
	FetchPage(ctx context.Context, filter FetchFilter, page int) (Page, error)
}

// FetchResult is the unpaged collection for one filter. Truncated is set when
// the page cap stopped the walk before the source reported its last page;
// callers must surface a warning rather than under-report silently.
type FetchResult struct {
	Orders    []RepairOrder
	Truncated bool
}

// PageFetcher drives a RecordSource through every page of a filtered query,
// pacing requests to stay under the upstream rate limit and retrying the
// same page on throttle signals. Each FetchAll call owns its accumulator,
// so concurrent invocations share no state.
type PageFetcher struct {
	source    RecordSource
	pageDelay time.Duration
	backoff   time.Duration
}

// NewPageFetcher wires a record source with pacing intervals. The backoff
// applied after a rate-limit signal must exceed the inter-page delay.
func NewPageFetcher(source RecordSource, pageDelay, backoff time.Duration) *PageFetcher {
	if backoff <= pageDelay {
		backoff = pageDelay * 4
	}
	return &PageFetcher{source: source, pageDelay: pageDelay, backoff: backoff}
}

// FetchAll retrieves all pages sequentially starting at 0. A rate-limit
// signal pauses and retries the same page index without bound; the caller's
// context deadline bounds total wall time. Any other error propagates
// immediately. When maxPages is reached before the source's last page, the
// partial result is returned with Truncated set.
func (f *PageFetcher) FetchAll(ctx context.Context, filter FetchFilter, maxPages int) (FetchResult, error) {
	if f.source == nil {
		return FetchResult{}, errors.New("report: fetcher has no record source")
	}
	if maxPages <= 0 {
		return FetchResult{}, fmt.Errorf("report: max pages must be positive, got %d", maxPages)
	}

	var result FetchResult
	page := 0
	for {
		pg, err := f.source.FetchPage(ctx, filter, page)
		if err != nil {
			if errors.Is(err, ErrRateLimited) {
				if err := sleepCtx(ctx, f.backoff); err != nil {
					return FetchResult{}, fmt.Errorf("report: fetch page %d abandoned during backoff: %w", page, err)
				}
				continue
			}
			return FetchResult{}, fmt.Errorf("report: fetch page %d: %w", page, err)
		}
		result.Orders = append(result.Orders, pg.Orders...)

		if page >= pg.TotalPages-1 {
			return result, nil
		}
		if page+1 >= maxPages {
			result.Truncated = true
			return result, nil
		}
		page++
		if err := sleepCtx(ctx, f.pageDelay); err != nil {
			return FetchResult{}, fmt.Errorf("report: fetch abandoned before page %d: %w", page, err)
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
