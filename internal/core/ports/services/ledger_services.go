package services

import (
	"context"

	"github.com/SscSPs/budget_tracker_app/internal/core/domain"
	"github.com/SscSPs/budget_tracker_app/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerReaderSvc defines read operations on a user's ledger
type LedgerReaderSvc interface {
	// GetLedger returns a snapshot of the whole ledger.
	GetLedger(ctx context.Context) (*domain.LedgerState, error)

	// GetSummary returns totals, rate text and billing cycle settings.
	GetSummary(ctx context.Context) (*domain.Overview, error)

	// ListExpenses returns expenses, optionally filtered by a "2006-01" month.
	ListExpenses(ctx context.Context, month string) ([]domain.Expense, error)

	// ListWishlist returns the wishlist in insertion order.
	ListWishlist(ctx context.Context) ([]domain.WishItem, error)

	// GetExpenseEditForm returns what the edit dialog of an expense shows.
	GetExpenseEditForm(ctx context.Context, expenseID string) (*domain.EditForm, error)

	// GetWishEditForm returns what the edit dialog of a wishlist item shows.
	GetWishEditForm(ctx context.Context, wishID string) (*domain.EditForm, error)
}

// ExpenseWriterSvc defines write operations on expenses
type ExpenseWriterSvc interface {
	AddExpense(ctx context.Context, req dto.ExpenseRequest) (*domain.Expense, error)
	UpdateExpense(ctx context.Context, expenseID string, req dto.ExpenseRequest) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, expenseID string) error
}

// WishlistWriterSvc defines write operations on the wishlist
type WishlistWriterSvc interface {
	AddWish(ctx context.Context, req dto.WishRequest) (*domain.WishItem, error)
	UpdateWish(ctx context.Context, wishID string, req dto.WishRequest) (*domain.WishItem, error)
	DeleteWish(ctx context.Context, wishID string) error
}

// LedgerSettingsSvc defines configuration changes on a ledger
type LedgerSettingsSvc interface {
	SetMonthlyBudget(ctx context.Context, amount decimal.Decimal) (*domain.LedgerState, error)
	SetTaxRate(ctx context.Context, taxRate decimal.Decimal) (*domain.LedgerState, error)
	SetResetDay(ctx context.Context, resetDay int) (*domain.LedgerState, error)
	// SetCurrencies changes the tracked currencies and then refreshes the rate.
	SetCurrencies(ctx context.Context, req dto.UpdateCurrenciesRequest) (*domain.LedgerState, error)
}

// LedgerRateSvc defines exchange rate maintenance
type LedgerRateSvc interface {
	// RefreshRate fetches the current rate and rebases secondary-origin wishes.
	RefreshRate(ctx context.Context) (*domain.RateUpdate, error)

	// RefreshRateIfStale refreshes only when the last refresh is missing or old.
	// It reports whether a refresh was applied.
	RefreshRateIfStale(ctx context.Context) (bool, error)
}

// BillingCycleSvc defines the billing cycle reset
type BillingCycleSvc interface {
	// CheckAndReset clears expenses when the billing cycle rolled over. It
	// reports whether a reset happened.
	CheckAndReset(ctx context.Context) (bool, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces. One
// instance owns the ledger of one user session.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	ExpenseWriterSvc
	WishlistWriterSvc
	LedgerSettingsSvc
	LedgerRateSvc
	BillingCycleSvc
}

// SessionSvcFacade manages per-user ledger sessions and their scheduled tasks
type SessionSvcFacade interface {
	// Open returns the ledger of userID, loading it and starting its scheduled
	// tasks when no session is open yet.
	Open(ctx context.Context, userID string) (LedgerSvcFacade, error)

	// Close cancels the scheduled tasks of userID and forgets the session.
	// It reports whether a session was open.
	Close(ctx context.Context, userID string) bool

	// Shutdown closes every open session.
	Shutdown(ctx context.Context)
}

// EventPublisher delivers ledger events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.LedgerEvent) error
	Close() error
}
