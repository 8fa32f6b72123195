package report

import (
	"errors"
	"fmt"
	"time"
)

// ErrRateLimited signals a retryable rate-limit response from the record
// source. The fetcher retries the same page after a backoff; it never
// reaches callers unless the surrounding context expires.
var ErrRateLimited = errors.New("record source rate limited")

// ContractViolationError reports a server-filtered page containing an order
// that fails the section's own date guard. The upstream filter cannot be
// trusted for that section, so the calculation aborts instead of silently
// including or excluding the record.
type ContractViolationError struct {
	Section string
	OrderID int64
	Field   string
	Value   time.Time
	Window  WeekWindow
}

// Error implements the error interface.
func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("report: %s fetch contract violated: order %d %s=%s outside window %s..%s",
		e.Section, e.OrderID, e.Field,
		e.Value.UTC().Format(dateLayout),
		e.Window.Start.Format(dateLayout), e.Window.End.Format(dateLayout))
}
