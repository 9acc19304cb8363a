package domain

import "time"

// LedgerEventType names a ledger lifecycle event.
type LedgerEventType string

const (
	EventExpenseAdded    LedgerEventType = "expense.added"
	EventExpenseUpdated  LedgerEventType = "expense.updated"
	EventExpenseDeleted  LedgerEventType = "expense.deleted"
	EventWishAdded       LedgerEventType = "wish.added"
	EventWishUpdated     LedgerEventType = "wish.updated"
	EventWishDeleted     LedgerEventType = "wish.deleted"
	EventRateUpdated     LedgerEventType = "rate.updated"
	EventRateFailed      LedgerEventType = "rate.failed"
	EventBillingReset    LedgerEventType = "billing.reset"
	EventSettingsUpdated LedgerEventType = "settings.updated"
)

// LedgerEvent is published after a ledger mutation has been applied.
type LedgerEvent struct {
	Type       LedgerEventType `json:"type"`
	UserID     string          `json:"userId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Properties map[string]any  `json:"properties,omitempty"`
}
