package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SscSPs/budget_tracker_app/internal/apperrors"
	"github.com/SscSPs/budget_tracker_app/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_tracker_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/budget_tracker_app/internal/core/ports/services"
	"github.com/SscSPs/budget_tracker_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultRateMaxAge is how old the exchange rate may get before a refresh is due.
const DefaultRateMaxAge = time.Hour

// ledgerService owns the ledger of one user session. Every read and write of
// state happens under mu; the rate fetch itself runs unlocked behind the
// refreshing guard.
type ledgerService struct {
	BaseService
	userID     string
	repo       portsrepo.LedgerWriter
	rates      portssvc.RateSource
	events     portssvc.EventPublisher
	now        func() time.Time
	newID      func() string
	location   *time.Location
	rateMaxAge time.Duration

	mu         sync.Mutex
	state      domain.LedgerState
	rateStatus domain.RateStatus
	rateError  string

	refreshing atomic.Bool
}

// LedgerOption configures a ledger service
type LedgerOption func(*ledgerService)

// WithRateSource sets where exchange rates are fetched from
func WithRateSource(source portssvc.RateSource) LedgerOption {
	return func(s *ledgerService) {
		s.rates = source
	}
}

// WithEventPublisher sets the publisher for ledger events
func WithEventPublisher(publisher portssvc.EventPublisher) LedgerOption {
	return func(s *ledgerService) {
		s.events = publisher
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) LedgerOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

// WithIDGenerator overrides how entry IDs are generated
func WithIDGenerator(newID func() string) LedgerOption {
	return func(s *ledgerService) {
		s.newID = newID
	}
}

// WithLocation sets the time zone calendar dates are computed in
func WithLocation(loc *time.Location) LedgerOption {
	return func(s *ledgerService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithRateMaxAge sets how old the rate may get before RefreshRateIfStale fetches
func WithRateMaxAge(maxAge time.Duration) LedgerOption {
	return func(s *ledgerService) {
		if maxAge > 0 {
			s.rateMaxAge = maxAge
		}
	}
}

// WithLedgerLogger sets the logger used when the context carries none
func WithLedgerLogger(logger *slog.Logger) LedgerOption {
	return func(s *ledgerService) {
		s.Logger = logger
	}
}

// NewLedgerService creates the ledger controller for userID around state. A
// nil state starts from the defaults of a fresh ledger. repo may be nil, in
// which case nothing is persisted.
func NewLedgerService(userID string, state *domain.LedgerState, repo portsrepo.LedgerWriter, opts ...LedgerOption) portssvc.LedgerSvcFacade {
	s := &ledgerService{
		userID:     userID,
		repo:       repo,
		now:        time.Now,
		newID:      uuid.NewString,
		location:   time.UTC,
		rateMaxAge: DefaultRateMaxAge,
		rateStatus: domain.RateStatusOK,
	}
	for _, opt := range opts {
		opt(s)
	}
	if state == nil {
		state = domain.NewLedgerState()
	}
	s.state = state.Clone()
	s.state.Normalize(s.newID)
	return s
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// --- reads ---

func (s *ledgerService) GetLedger(ctx context.Context) (*domain.LedgerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.state.Clone()
	return &snapshot, nil
}

func (s *ledgerService) GetSummary(ctx context.Context) (*domain.Overview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.Clone()
	return &domain.Overview{
		BudgetSummary:  snapshot.Summary(),
		RateText:       snapshot.RateText(),
		RateFreshness:  domain.RateFreshness(snapshot.LastRateUpdate, s.now()),
		RateStatus:     s.rateStatus,
		RateError:      s.rateError,
		LastRateUpdate: snapshot.LastRateUpdate,
		ResetDay:       snapshot.ResetDay,
		LastResetDate:  snapshot.LastResetDate,
	}, nil
}

func (s *ledgerService) ListExpenses(ctx context.Context, month string) ([]domain.Expense, error) {
	if month != "" {
		if _, err := time.Parse("2006-01", month); err != nil {
			return nil, fmt.Errorf("%w: month must be formatted as YYYY-MM", apperrors.ErrValidation)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ExpensesInMonth(month, s.location), nil
}

func (s *ledgerService) ListWishlist(ctx context.Context) ([]domain.WishItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone().Wishlist, nil
}

func (s *ledgerService) GetExpenseEditForm(ctx context.Context, expenseID string) (*domain.EditForm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.state.FindExpense(expenseID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: expense '%s'", apperrors.ErrNotFound, expenseID)
	}
	form := domain.ExpenseEditForm(s.state.Expenses[idx])
	return &form, nil
}

func (s *ledgerService) GetWishEditForm(ctx context.Context, wishID string) (*domain.EditForm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.state.FindWish(wishID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: wishlist item '%s'", apperrors.ErrNotFound, wishID)
	}
	form := domain.WishEditForm(s.state.Wishlist[idx])
	return &form, nil
}

// --- expenses ---

func (s *ledgerService) AddExpense(ctx context.Context, req dto.ExpenseRequest) (*domain.Expense, error) {
	s.mu.Lock()
	expense, err := domain.NewExpense(s.newID(), req.ToEntryInput(), s.state, s.now())
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.state.Expenses = append(s.state.Expenses, expense)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.LogInfo(ctx, "Expense added", slog.String("expense_id", expense.ID))
	s.publish(ctx, domain.EventExpenseAdded, map[string]any{
		"expense_id": expense.ID,
		"amount":     expense.Amount.String(),
		"origin":     string(expense.OriginalCurrency),
	})
	return &expense, nil
}

func (s *ledgerService) UpdateExpense(ctx context.Context, expenseID string, req dto.ExpenseRequest) (*domain.Expense, error) {
	s.mu.Lock()
	idx := s.state.FindExpense(expenseID)
	if idx < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: expense '%s'", apperrors.ErrNotFound, expenseID)
	}
	expense, err := domain.NewExpense(expenseID, req.ToEntryInput(), s.state, s.now())
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if previous := s.state.Expenses[idx].Date; previous != nil {
		expense.Date = previous
	}
	s.state.Expenses[idx] = expense
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.LogInfo(ctx, "Expense updated", slog.String("expense_id", expenseID))
	s.publish(ctx, domain.EventExpenseUpdated, map[string]any{
		"expense_id": expenseID,
		"amount":     expense.Amount.String(),
		"origin":     string(expense.OriginalCurrency),
	})
	return &expense, nil
}

func (s *ledgerService) DeleteExpense(ctx context.Context, expenseID string) error {
	s.mu.Lock()
	idx := s.state.FindExpense(expenseID)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: expense '%s'", apperrors.ErrNotFound, expenseID)
	}
	s.state.Expenses = append(s.state.Expenses[:idx], s.state.Expenses[idx+1:]...)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.LogInfo(ctx, "Expense deleted", slog.String("expense_id", expenseID))
	s.publish(ctx, domain.EventExpenseDeleted, map[string]any{"expense_id": expenseID})
	return nil
}

// --- wishlist ---

func (s *ledgerService) AddWish(ctx context.Context, req dto.WishRequest) (*domain.WishItem, error) {
	s.mu.Lock()
	item, err := domain.NewWishItem(s.newID(), req.ToEntryInput(), s.state, s.now())
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.state.Wishlist = append(s.state.Wishlist, item)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.LogInfo(ctx, "Wishlist item added", slog.String("wish_id", item.ID))
	s.publish(ctx, domain.EventWishAdded, map[string]any{
		"wish_id": item.ID,
		"price":   item.Price.String(),
		"origin":  string(item.OriginalCurrency),
	})
	return &item, nil
}

func (s *ledgerService) UpdateWish(ctx context.Context, wishID string, req dto.WishRequest) (*domain.WishItem, error) {
	s.mu.Lock()
	idx := s.state.FindWish(wishID)
	if idx < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: wishlist item '%s'", apperrors.ErrNotFound, wishID)
	}
	item, err := domain.NewWishItem(wishID, req.ToEntryInput(), s.state, s.now())
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	item.AddedAt = s.state.Wishlist[idx].AddedAt
	s.state.Wishlist[idx] = item
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.LogInfo(ctx, "Wishlist item updated", slog.String("wish_id", wishID))
	s.publish(ctx, domain.EventWishUpdated, map[string]any{
		"wish_id": wishID,
		"price":   item.Price.String(),
		"origin":  string(item.OriginalCurrency),
	})
	return &item, nil
}

func (s *ledgerService) DeleteWish(ctx context.Context, wishID string) error {
	s.mu.Lock()
	idx := s.state.FindWish(wishID)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: wishlist item '%s'", apperrors.ErrNotFound, wishID)
	}
	s.state.Wishlist = append(s.state.Wishlist[:idx], s.state.Wishlist[idx+1:]...)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.LogInfo(ctx, "Wishlist item deleted", slog.String("wish_id", wishID))
	s.publish(ctx, domain.EventWishDeleted, map[string]any{"wish_id": wishID})
	return nil
}

// --- settings ---

func (s *ledgerService) SetMonthlyBudget(ctx context.Context, amount decimal.Decimal) (*domain.LedgerState, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: budget must be positive", apperrors.ErrValidation)
	}
	return s.updateSettings(ctx, "monthlyBudget", amount.String(), func(st *domain.LedgerState) {
		st.MonthlyBudget = amount
	})
}

func (s *ledgerService) SetTaxRate(ctx context.Context, taxRate decimal.Decimal) (*domain.LedgerState, error) {
	if taxRate.IsNegative() {
		return nil, fmt.Errorf("%w: tax rate cannot be negative", apperrors.ErrValidation)
	}
	return s.updateSettings(ctx, "taxRate", taxRate.String(), func(st *domain.LedgerState) {
		st.TaxRate = taxRate
	})
}

func (s *ledgerService) SetResetDay(ctx context.Context, resetDay int) (*domain.LedgerState, error) {
	if resetDay < domain.MinResetDay || resetDay > domain.MaxResetDay {
		return nil, fmt.Errorf("%w: reset day must be between %d and %d", apperrors.ErrValidation, domain.MinResetDay, domain.MaxResetDay)
	}
	return s.updateSettings(ctx, "resetDay", resetDay, func(st *domain.LedgerState) {
		st.ResetDay = resetDay
	})
}

// SetCurrencies applies the requested currencies and then refreshes the rate
// for the new pair. A failed refresh keeps the previous rate and shows up in
// the summary's rate status; it does not fail the call.
func (s *ledgerService) SetCurrencies(ctx context.Context, req dto.UpdateCurrenciesRequest) (*domain.LedgerState, error) {
	if req.PrimaryCurrency == nil && req.SecondaryCurrency == nil {
		return nil, fmt.Errorf("%w: at least one currency is required", apperrors.ErrValidation)
	}
	var primary, secondary *domain.CurrencyCode
	if req.PrimaryCurrency != nil {
		c, ok := domain.LookupCurrency(*req.PrimaryCurrency)
		if !ok {
			return nil, fmt.Errorf("%w: primary currency '%s' is not supported", apperrors.ErrValidation, *req.PrimaryCurrency)
		}
		primary = &c.CurrencyCode
	}
	if req.SecondaryCurrency != nil {
		c, ok := domain.LookupCurrency(*req.SecondaryCurrency)
		if !ok {
			return nil, fmt.Errorf("%w: secondary currency '%s' is not supported", apperrors.ErrValidation, *req.SecondaryCurrency)
		}
		secondary = &c.CurrencyCode
	}

	props := map[string]any{}
	if primary != nil {
		props["primaryCurrency"] = string(*primary)
	}
	if secondary != nil {
		props["secondaryCurrency"] = string(*secondary)
	}
	if _, err := s.updateSettings(ctx, "currencies", props, func(st *domain.LedgerState) {
		if primary != nil {
			st.PrimaryCurrency = *primary
		}
		if secondary != nil {
			st.SecondaryCurrency = *secondary
		}
	}); err != nil {
		return nil, err
	}

	if _, err := s.RefreshRate(ctx); err != nil && !errors.Is(err, apperrors.ErrRateRefreshInProgress) {
		s.LogWarn(ctx, "Rate refresh after currency change failed", slog.String("error", err.Error()))
	}
	return s.GetLedger(ctx)
}

func (s *ledgerService) updateSettings(ctx context.Context, setting string, value any, apply func(*domain.LedgerState)) (*domain.LedgerState, error) {
	s.mu.Lock()
	apply(&s.state)
	s.persistLocked(ctx)
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.LogInfo(ctx, "Ledger settings updated", slog.String("setting", setting))
	s.publish(ctx, domain.EventSettingsUpdated, map[string]any{"setting": setting, "value": value})
	return &snapshot, nil
}

// --- exchange rate ---

// RefreshRate fetches the rate for the current currency pair. If the pair
// changes while the fetch is in flight the result is discarded and the fetch
// is retried once for the new pair.
func (s *ledgerService) RefreshRate(ctx context.Context) (*domain.RateUpdate, error) {
	if !s.refreshing.CompareAndSwap(false, true) {
		s.LogDebug(ctx, "Rate refresh already in flight")
		return nil, apperrors.ErrRateRefreshInProgress
	}
	defer s.refreshing.Store(false)

	for attempt := 0; attempt < 2; attempt++ {
		s.mu.Lock()
		primary, secondary := s.state.PrimaryCurrency, s.state.SecondaryCurrency
		s.mu.Unlock()

		quote, err := fetchPairRate(ctx, s.rates, primary, secondary)

		s.mu.Lock()
		if err != nil {
			s.rateStatus = domain.RateStatusFetchFailed
			s.rateError = err.Error()
			s.mu.Unlock()

			s.LogError(ctx, err, "Exchange rate refresh failed",
				slog.String("primary", string(primary)),
				slog.String("secondary", string(secondary)))
			s.publish(ctx, domain.EventRateFailed, map[string]any{
				"primaryCurrency":   string(primary),
				"secondaryCurrency": string(secondary),
				"error":             err.Error(),
			})
			return nil, err
		}
		if s.state.PrimaryCurrency != primary || s.state.SecondaryCurrency != secondary {
			s.mu.Unlock()
			s.LogDebug(ctx, "Currency pair changed during rate fetch, retrying")
			continue
		}

		now := s.now()
		update := domain.RateUpdate{
			OldRate:   s.state.ExchangeRate,
			NewRate:   quote.Rate,
			UpdatedAt: now,
		}
		ts := domain.NewTimestamp(now)
		s.state.ExchangeRate = quote.Rate
		s.state.LastRateUpdate = &ts
		update.RebasedWishes = domain.RebaseWishlist(s.state.Wishlist, quote.Rate)
		s.rateStatus = domain.RateStatusOK
		s.rateError = ""
		s.persistLocked(ctx)
		s.mu.Unlock()

		s.LogInfo(ctx, "Exchange rate updated",
			slog.String("old_rate", update.OldRate.String()),
			slog.String("new_rate", update.NewRate.String()),
			slog.Int("rebased_wishes", update.RebasedWishes))
		s.publish(ctx, domain.EventRateUpdated, map[string]any{
			"primaryCurrency":   string(primary),
			"secondaryCurrency": string(secondary),
			"oldRate":           update.OldRate.String(),
			"newRate":           update.NewRate.String(),
			"rebasedWishes":     update.RebasedWishes,
		})
		return &update, nil
	}
	return nil, fmt.Errorf("%w: currency pair kept changing during refresh", apperrors.ErrRateFetch)
}

func (s *ledgerService) RefreshRateIfStale(ctx context.Context) (bool, error) {
	s.mu.Lock()
	stale := domain.RateIsStale(s.state.LastRateUpdate, s.now(), s.rateMaxAge)
	s.mu.Unlock()
	if !stale {
		return false, nil
	}

	if _, err := s.RefreshRate(ctx); err != nil {
		if errors.Is(err, apperrors.ErrRateRefreshInProgress) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// --- billing cycle ---

func (s *ledgerService) CheckAndReset(ctx context.Context) (bool, error) {
	s.mu.Lock()
	today := domain.DateOf(s.now().In(s.location))

	if s.state.LastResetDate == nil {
		s.state.LastResetDate = &today
		s.persistLocked(ctx)
		s.mu.Unlock()
		s.LogDebug(ctx, "Billing cycle initialised", slog.String("last_reset_date", today.String()))
		return false, nil
	}

	lastReset := *s.state.LastResetDate
	if !domain.ShouldReset(lastReset, today, s.state.ResetDay) {
		s.mu.Unlock()
		return false, nil
	}

	cleared := len(s.state.Expenses)
	s.state.Expenses = []domain.Expense{}
	s.state.LastResetDate = &today
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.LogInfo(ctx, "Billing cycle reset",
		slog.String("previous_reset", lastReset.String()),
		slog.String("today", today.String()),
		slog.Int("cleared_expenses", cleared))
	s.publish(ctx, domain.EventBillingReset, map[string]any{
		"previousReset":   lastReset.String(),
		"resetDate":       today.String(),
		"clearedExpenses": cleared,
	})
	return true, nil
}

// persistLocked saves a snapshot of the state. Callers hold mu. Failures are
// logged only; the in-memory state stays authoritative for the session.
func (s *ledgerService) persistLocked(ctx context.Context) {
	if s.repo == nil {
		return
	}
	if err := s.repo.SaveLedger(ctx, s.userID, s.state.Clone()); err != nil {
		s.LogError(ctx, err, "Failed to persist ledger", slog.String("user_id", s.userID))
	}
}

func (s *ledgerService) publish(ctx context.Context, eventType domain.LedgerEventType, props map[string]any) {
	if s.events == nil {
		return
	}
	event := domain.LedgerEvent{
		Type:       eventType,
		UserID:     s.userID,
		OccurredAt: s.now(),
		Properties: props,
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.LogWarn(ctx, "Failed to publish ledger event",
			slog.String("event", string(eventType)),
			slog.String("error", err.Error()))
	}
}
