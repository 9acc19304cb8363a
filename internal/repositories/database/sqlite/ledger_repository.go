package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SscSPs/budget_tracker_app/internal/apperrors"
	"github.com/SscSPs/budget_tracker_app/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_tracker_app/internal/core/ports/repositories"
	"github.com/SscSPs/budget_tracker_app/internal/models"
	"github.com/SscSPs/budget_tracker_app/internal/utils/mapping"

	_ "modernc.org/sqlite"
)

// LedgerRepository stores each user's ledger as one JSON document in a
// SQLite file.
type LedgerRepository struct {
	db *sql.DB
}

var _ portsrepo.LedgerRepositoryFacade = (*LedgerRepository)(nil)

// NewLedgerRepository opens (creating if needed) the database at dbPath and
// applies the schema.
func NewLedgerRepository(dbPath string) (*LedgerRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &LedgerRepository{db: db}, nil
}

// NewRepositoryProvider wires the SQLite repositories.
func NewRepositoryProvider(repo *LedgerRepository) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{LedgerRepo: repo}
}

func (r *LedgerRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// FindLedger retrieves the ledger document of a user.
func (r *LedgerRepository) FindLedger(ctx context.Context, userID string) (*domain.LedgerState, error) {
	var (
		record models.LedgerRecord
		doc    string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, state FROM ledgers WHERE user_id = ?`, userID,
	).Scan(&record.UserID, &doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ledger for user %s: %w", userID, err)
	}
	record.State = []byte(doc)

	return mapping.ToDomainLedger(record)
}

// SaveLedger inserts or replaces the ledger document of a user.
func (r *LedgerRepository) SaveLedger(ctx context.Context, userID string, state domain.LedgerState) error {
	record, err := mapping.ToModelLedger(userID, state, time.Now().UTC())
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO ledgers (user_id, state, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			state = excluded.state,
			updated_at = excluded.updated_at`,
		record.UserID, string(record.State), record.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save ledger for user %s: %w", userID, err)
	}
	return nil
}
