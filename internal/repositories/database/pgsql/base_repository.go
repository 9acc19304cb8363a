package pgsql

import (
	"errors"
	"fmt"

	"github.com/SscSPs/budget_tracker_app/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// queryError maps pgx.ErrNoRows to apperrors.ErrNotFound and wraps anything
// else with the failed operation.
func (r *BaseRepository) queryError(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
