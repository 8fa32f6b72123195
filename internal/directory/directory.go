// Package directory resolves employee IDs to display names. Name lookup is
// presentation-only: absence never blocks aggregation.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotFound indicates no roster entry exists for the employee.
var ErrNotFound = errors.New("directory: employee not found")

// Repository looks up an employee's display name.
type Repository interface {
	LookupName(ctx context.Context, employeeID int64) (string, error)
}

// Service wraps a Repository with the fallback-label policy.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a directory service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// DisplayName returns the employee's name, or a numeric placeholder when the
// roster has no entry or the lookup fails. The second return reports whether
// the name resolved, so callers can attach a data-quality warning.
func (s *Service) DisplayName(ctx context.Context, employeeID int64) (string, bool) {
	if s == nil || s.repo == nil {
		return placeholder(employeeID), false
	}
	name, err := s.repo.LookupName(ctx, employeeID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) && s.logger != nil {
			s.logger.Warn("directory lookup", slog.Int64("employee_id", employeeID), slog.Any("error", err))
		}
		return placeholder(employeeID), false
	}
	return name, true
}

func placeholder(employeeID int64) string {
	return fmt.Sprintf("Employee #%d", employeeID)
}
