package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository reads the dashboard's local employee roster. The roster is
// maintained by the CRUD side of the dashboard; this repo only reads it.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository wraps a pgx pool.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// LookupName returns the employee's display name, or ErrNotFound.
func (r *PGRepository) LookupName(ctx context.Context, employeeID int64) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("directory: repository not configured")
	}
	const query = `SELECT first_name, last_name FROM employees WHERE id = $1`
	var first, last string
	if err := r.pool.QueryRow(ctx, query, employeeID).Scan(&first, &last); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("directory: lookup employee %d: %w", employeeID, err)
	}
	name := strings.TrimSpace(first + " " + last)
	if name == "" {
		return "", ErrNotFound
	}
	return name, nil
}
