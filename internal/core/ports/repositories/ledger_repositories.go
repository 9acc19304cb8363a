package repositories

import (
	"context"

	"github.com/SscSPs/budget_tracker_app/internal/core/domain"
)

// LedgerReader defines read operations for persisted ledgers
type LedgerReader interface {
	// FindLedger loads the whole ledger of a user. Returns apperrors.ErrNotFound
	// when the user has no stored ledger yet.
	FindLedger(ctx context.Context, userID string) (*domain.LedgerState, error)
}

// LedgerWriter defines write operations for persisted ledgers
type LedgerWriter interface {
	// SaveLedger replaces the stored ledger of a user with state.
	SaveLedger(ctx context.Context, userID string, state domain.LedgerState) error
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
