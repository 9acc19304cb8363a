package models

import "time"

// LedgerRecord is the stored row of one user's ledger. State holds the whole
// LedgerState as a JSON document.
type LedgerRecord struct {
	UserID    string    `json:"userId"`
	State     []byte    `json:"state"`
	UpdatedAt time.Time `json:"updatedAt"`
}
