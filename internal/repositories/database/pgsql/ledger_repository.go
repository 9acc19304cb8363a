package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/budget_tracker_app/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_tracker_app/internal/core/ports/repositories"
	"github.com/SscSPs/budget_tracker_app/internal/models"
	"github.com/SscSPs/budget_tracker_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxLedgerRepository stores each user's ledger as one JSONB document.
type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger data.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// FindLedger retrieves the ledger document of a user.
func (r *PgxLedgerRepository) FindLedger(ctx context.Context, userID string) (*domain.LedgerState, error) {
	query := `
		SELECT user_id, state, updated_at
		FROM ledgers
		WHERE user_id = $1;
	`
	var record models.LedgerRecord
	err := r.Pool.QueryRow(ctx, query, userID).Scan(
		&record.UserID,
		&record.State,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, r.queryError(err, "find ledger for user "+userID)
	}

	return mapping.ToDomainLedger(record)
}

// SaveLedger inserts or replaces the ledger document of a user.
func (r *PgxLedgerRepository) SaveLedger(ctx context.Context, userID string, state domain.LedgerState) error {
	record, err := mapping.ToModelLedger(userID, state, time.Now().UTC())
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ledgers (user_id, state, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			state = EXCLUDED.state,
			updated_at = EXCLUDED.updated_at;
	`
	_, err = r.Pool.Exec(ctx, query, record.UserID, record.State, record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save ledger for user %s: %w", userID, err)
	}
	return nil
}
