package mapping

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/budget_tracker_app/internal/core/domain"
	"github.com/SscSPs/budget_tracker_app/internal/models"
)

// ToModelLedger converts a domain LedgerState to a model LedgerRecord
func ToModelLedger(userID string, state domain.LedgerState, updatedAt time.Time) (models.LedgerRecord, error) {
	doc, err := json.Marshal(state)
	if err != nil {
		return models.LedgerRecord{}, fmt.Errorf("failed to encode ledger for user %s: %w", userID, err)
	}
	return models.LedgerRecord{
		UserID:    userID,
		State:     doc,
		UpdatedAt: updatedAt,
	}, nil
}

// ToDomainLedger converts a model LedgerRecord to a domain LedgerState.
// Fields missing from older documents keep their zero value; callers
// normalise the result.
func ToDomainLedger(m models.LedgerRecord) (*domain.LedgerState, error) {
	var state domain.LedgerState
	if err := json.Unmarshal(m.State, &state); err != nil {
		return nil, fmt.Errorf("failed to decode ledger for user %s: %w", m.UserID, err)
	}
	return &state, nil
}
