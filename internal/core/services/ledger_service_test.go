package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/budget_tracker_app/internal/apperrors"
	"github.com/SscSPs/budget_tracker_app/internal/core/domain"
	portssvc "github.com/SscSPs/budget_tracker_app/internal/core/ports/services"
	"github.com/SscSPs/budget_tracker_app/internal/core/services"
	"github.com/SscSPs/budget_tracker_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testUserID = "user-1"

type LedgerServiceTestSuite struct {
	suite.Suite
	repo      *MockLedgerRepository
	rates     *MockRateSource
	publisher *MockEventPublisher
	clock     *fakeClock
	ctx       context.Context
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.repo = new(MockLedgerRepository)
	suite.rates = new(MockRateSource)
	suite.publisher = new(MockEventPublisher)
	suite.clock = newFakeClock(time.Date(2024, time.February, 12, 10, 0, 0, 0, time.UTC))
	suite.ctx = context.Background()

	suite.repo.On("SaveLedger", mock.Anything, testUserID, mock.Anything).Return(nil).Maybe()
	suite.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (suite *LedgerServiceTestSuite) newLedger(state *domain.LedgerState) portssvc.LedgerSvcFacade {
	n := 0
	return services.NewLedgerService(testUserID, state, suite.repo,
		services.WithRateSource(suite.rates),
		services.WithEventPublisher(suite.publisher),
		services.WithClock(suite.clock.Now),
		services.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

func (suite *LedgerServiceTestSuite) snapshot(ledger portssvc.LedgerSvcFacade) *domain.LedgerState {
	state, err := ledger.GetLedger(suite.ctx)
	suite.Require().NoError(err)
	return state
}

func (suite *LedgerServiceTestSuite) expectPublished(eventType domain.LedgerEventType) {
	suite.publisher.AssertCalled(suite.T(), "Publish", mock.Anything, mock.MatchedBy(func(e domain.LedgerEvent) bool {
		return e.Type == eventType && e.UserID == testUserID
	}))
}

// --- expenses ---

func (suite *LedgerServiceTestSuite) TestAddExpense_PrimarySnapshotsRate() {
	ledger := suite.newLedger(nil)

	expense, err := ledger.AddExpense(suite.ctx, dto.ExpenseRequest{Name: " Lunch ", Amount: dec("100"), Currency: domain.OriginPrimary})

	suite.Require().NoError(err)
	suite.Equal("id-1", expense.ID)
	suite.Equal("Lunch", expense.Name)
	suite.True(expense.Amount.Equal(dec("100")))
	suite.True(expense.AmountInSecondary.Equal(dec("720")))
	suite.True(expense.ExchangeRate.Equal(dec("7.2")))
	suite.Equal(domain.CNY, expense.PrimaryCurrency)
	suite.Equal(domain.USD, expense.SecondaryCurrency)
	suite.Equal(suite.clock.Now(), expense.Date.Time)

	suite.repo.AssertCalled(suite.T(), "SaveLedger", mock.Anything, testUserID, mock.MatchedBy(func(s domain.LedgerState) bool {
		return len(s.Expenses) == 1 && s.Expenses[0].ID == "id-1"
	}))
	suite.expectPublished(domain.EventExpenseAdded)
}

func (suite *LedgerServiceTestSuite) TestAddExpense_SecondaryKeepsRawAmount() {
	ledger := suite.newLedger(nil)

	expense, err := ledger.AddExpense(suite.ctx, dto.ExpenseRequest{Name: "Taxi", Amount: dec("72"), Currency: domain.OriginSecondary})

	suite.Require().NoError(err)
	suite.True(expense.Amount.Equal(dec("10")))
	suite.True(expense.AmountInSecondary.Equal(dec("72")))
	suite.Equal(domain.OriginSecondary, expense.OriginalCurrency)
}

func (suite *LedgerServiceTestSuite) TestAddExpense_InvalidInputLeavesStateUntouched() {
	ledger := suite.newLedger(nil)
	invalid := []dto.ExpenseRequest{
		{Name: "", Amount: dec("10"), Currency: domain.OriginPrimary},
		{Name: "   ", Amount: dec("10"), Currency: domain.OriginPrimary},
		{Name: "Zero", Amount: dec("0"), Currency: domain.OriginPrimary},
		{Name: "Negative", Amount: dec("-5"), Currency: domain.OriginPrimary},
		{Name: "Origin", Amount: dec("5"), Currency: "tertiary"},
	}

	for _, req := range invalid {
		_, err := ledger.AddExpense(suite.ctx, req)
		suite.ErrorIs(err, apperrors.ErrValidation, "request %+v", req)
	}

	suite.Empty(suite.snapshot(ledger).Expenses)
	suite.repo.AssertNotCalled(suite.T(), "SaveLedger", mock.Anything, mock.Anything, mock.Anything)
	suite.publisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestUpdateExpense_ResnapshotsAtCurrentRateAndKeepsDate() {
	ledger := suite.newLedger(nil)
	original, err := ledger.AddExpense(suite.ctx, dto.ExpenseRequest{Name: "Hotel", Amount: dec("72"), Currency: domain.OriginSecondary})
	suite.Require().NoError(err)

	suite.rates.On("FetchRates", mock.Anything, "CNY").Return(rateTable("USD", "7.5"), nil).Once()
	_, err = ledger.RefreshRate(suite.ctx)
	suite.Require().NoError(err)
	suite.clock.Advance(2 * time.Hour)

	updated, err := ledger.UpdateExpense(suite.ctx, original.ID, dto.ExpenseRequest{Name: "Hotel", Amount: dec("75"), Currency: domain.OriginSecondary})

	suite.Require().NoError(err)
	suite.Equal(original.ID, updated.ID)
	suite.True(updated.Amount.Equal(dec("10")))
	suite.True(updated.ExchangeRate.Equal(dec("7.5")))
	suite.True(updated.AmountInSecondary.Equal(dec("75")))
	suite.Equal(original.Date.Time, updated.Date.Time)

	state := suite.snapshot(ledger)
	suite.Len(state.Expenses, 1)
	suite.expectPublished(domain.EventExpenseUpdated)
}

func (suite *LedgerServiceTestSuite) TestUpdateAndDeleteExpense_NotFound() {
	ledger := suite.newLedger(nil)

	_, err := ledger.UpdateExpense(suite.ctx, "missing", dto.ExpenseRequest{Name: "x", Amount: dec("1"), Currency: domain.OriginPrimary})
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.ErrorIs(ledger.DeleteExpense(suite.ctx, "missing"), apperrors.ErrNotFound)

	_, err = ledger.GetExpenseEditForm(suite.ctx, "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestDeleteExpense_PreservesOrder() {
	ledger := suite.newLedger(nil)
	for _, name := range []string{"a", "b", "c"} {
		_, err := ledger.AddExpense(suite.ctx, dto.ExpenseRequest{Name: name, Amount: dec("1"), Currency: domain.OriginPrimary})
		suite.Require().NoError(err)
	}

	suite.Require().NoError(ledger.DeleteExpense(suite.ctx, "id-2"))

	state := suite.snapshot(ledger)
	suite.Require().Len(state.Expenses, 2)
	suite.Equal("a", state.Expenses[0].Name)
	suite.Equal("c", state.Expenses[1].Name)
	suite.expectPublished(domain.EventExpenseDeleted)
}

func (suite *LedgerServiceTestSuite) TestExpenseEditForm_UsesOrigin() {
	ledger := suite.newLedger(nil)
	expense, err := ledger.AddExpense(suite.ctx, dto.ExpenseRequest{Name: "Taxi", Amount: dec("72"), Currency: domain.OriginSecondary})
	suite.Require().NoError(err)

	form, err := ledger.GetExpenseEditForm(suite.ctx, expense.ID)

	suite.Require().NoError(err)
	suite.Equal(domain.OriginSecondary, form.Origin)
	suite.True(form.Amount.Equal(dec("72")))
}

func (suite *LedgerServiceTestSuite) TestListExpenses_MonthFilter() {
	ledger := suite.newLedger(nil)
	_, err := ledger.AddExpense(suite.ctx, dto.ExpenseRequest{Name: "Feb", Amount: dec("1"), Currency: domain.OriginPrimary})
	suite.Require().NoError(err)

	feb, err := ledger.ListExpenses(suite.ctx, "2024-02")
	suite.Require().NoError(err)
	suite.Len(feb, 1)

	jan, err := ledger.ListExpenses(suite.ctx, "2024-01")
	suite.Require().NoError(err)
	suite.Empty(jan)

	_, err = ledger.ListExpenses(suite.ctx, "February")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- wishlist ---

func (suite *LedgerServiceTestSuite) TestAddWish_TaxBefore() {
	ledger := suite.newLedger(nil)

	item, err := ledger.AddWish(suite.ctx, dto.WishRequest{Name: "Shoes", Amount: dec("100"), Currency: domain.OriginPrimary, TaxOption: domain.TaxBefore})

	suite.Require().NoError(err)
	suite.True(item.Price.Equal(dec("113")))
	suite.Nil(item.OriginalPrice)
	suite.expectPublished(domain.EventWishAdded)
}

func (suite *LedgerServiceTestSuite) TestAddWish_TaxAfterIsNoop() {
	ledger := suite.newLedger(nil)

	item, err := ledger.AddWish(suite.ctx, dto.WishRequest{Name: "Shoes", Amount: dec("100"), Currency: domain.OriginPrimary, TaxOption: domain.TaxAfter})

	suite.Require().NoError(err)
	suite.True(item.Price.Equal(dec("100")))
}

func (suite *LedgerServiceTestSuite) TestUpdateWish_KeepsAddedAt() {
	ledger := suite.newLedger(nil)
	item, err := ledger.AddWish(suite.ctx, dto.WishRequest{Name: "Lamp", Amount: dec("50"), Currency: domain.OriginPrimary})
	suite.Require().NoError(err)
	suite.clock.Advance(24 * time.Hour)

	updated, err := ledger.UpdateWish(suite.ctx, item.ID, dto.WishRequest{Name: "Lamp", Amount: dec("72"), Currency: domain.OriginSecondary})

	suite.Require().NoError(err)
	suite.Equal(item.AddedAt.Time, updated.AddedAt.Time)
	suite.Equal(domain.OriginSecondary, updated.OriginalCurrency)
	suite.True(updated.OriginalPrice.Equal(dec("72")))
	suite.True(updated.Price.Equal(dec("10")))

	form, err := ledger.GetWishEditForm(suite.ctx, item.ID)
	suite.Require().NoError(err)
	suite.Equal(domain.OriginSecondary, form.Origin)
	suite.True(form.Amount.Equal(dec("72")))
}

func (suite *LedgerServiceTestSuite) TestDeleteWish() {
	ledger := suite.newLedger(nil)
	item, err := ledger.AddWish(suite.ctx, dto.WishRequest{Name: "Lamp", Amount: dec("50"), Currency: domain.OriginPrimary})
	suite.Require().NoError(err)

	suite.Require().NoError(ledger.DeleteWish(suite.ctx, item.ID))
	suite.ErrorIs(ledger.DeleteWish(suite.ctx, item.ID), apperrors.ErrNotFound)

	wishes, err := ledger.ListWishlist(suite.ctx)
	suite.Require().NoError(err)
	suite.Empty(wishes)
}

// --- exchange rate ---

func (suite *LedgerServiceTestSuite) TestRefreshRate_LowercaseStoredCurrencies() {
	stored := domain.NewLedgerState()
	stored.PrimaryCurrency = "cny"
	stored.SecondaryCurrency = "usd"
	ledger := suite.newLedger(stored)

	suite.rates.On("FetchRates", mock.Anything, "CNY").Return(rateTable("CNY", "1", "USD", "7.3"), nil).Once()

	update, err := ledger.RefreshRate(suite.ctx)

	suite.Require().NoError(err)
	suite.True(update.NewRate.Equal(dec("7.3")))
	state := suite.snapshot(ledger)
	suite.Equal(domain.CNY, state.PrimaryCurrency)
	suite.Equal(domain.USD, state.SecondaryCurrency)
}

func (suite *LedgerServiceTestSuite) TestRefreshRate_RebasesWishlistButNotExpenses() {
	ledger := suite.newLedger(nil)
	wish, err := ledger.AddWish(suite.ctx, dto.WishRequest{Name: "Camera", Amount: dec("100"), Currency: domain.OriginSecondary})
	suite.Require().NoError(err)
	suite.Equal("13.89", wish.Price.StringFixed(2))
	primaryWish, err := ledger.AddWish(suite.ctx, dto.WishRequest{Name: "Desk", Amount: dec("40"), Currency: domain.OriginPrimary})
	suite.Require().NoError(err)
	_, err = ledger.AddExpense(suite.ctx, dto.ExpenseRequest{Name: "Taxi", Amount: dec("72"), Currency: domain.OriginSecondary})
	suite.Require().NoError(err)

	suite.rates.On("FetchRates", mock.Anything, "CNY").Return(rateTable("CNY", "1", "USD", "7.5"), nil).Once()

	update, err := ledger.RefreshRate(suite.ctx)

	suite.Require().NoError(err)
	suite.True(update.OldRate.Equal(dec("7.2")))
	suite.True(update.NewRate.Equal(dec("7.5")))
	suite.Equal(1, update.RebasedWishes)

	state := suite.snapshot(ledger)
	suite.True(state.ExchangeRate.Equal(dec("7.5")))
	suite.Require().NotNil(state.LastRateUpdate)
	suite.Equal(suite.clock.Now(), state.LastRateUpdate.Time)

	suite.Equal("13.33", state.Wishlist[0].Price.StringFixed(2))
	suite.True(state.Wishlist[0].OriginalPrice.Equal(dec("100")))
	suite.True(state.Wishlist[1].Price.Equal(primaryWish.Price))

	suite.True(state.Expenses[0].Amount.Equal(dec("10")))
	suite.True(state.Expenses[0].AmountInSecondary.Equal(dec("72")))
	suite.True(state.Expenses[0].ExchangeRate.Equal(dec("7.2")))

	suite.expectPublished(domain.EventRateUpdated)
}

func (suite *LedgerServiceTestSuite) TestRefreshRate_FailureKeepsState() {
	ledger := suite.newLedger(nil)
	_, err := ledger.AddWish(suite.ctx, dto.WishRequest{Name: "Camera", Amount: dec("100"), Currency: domain.OriginSecondary})
	suite.Require().NoError(err)
	before := suite.snapshot(ledger)

	suite.rates.On("FetchRates", mock.Anything, "CNY").Return(nil, errors.New("connection refused")).Once()

	update, err := ledger.RefreshRate(suite.ctx)

	suite.Nil(update)
	suite.ErrorIs(err, apperrors.ErrRateFetch)
	after := suite.snapshot(ledger)
	suite.True(after.ExchangeRate.Equal(before.ExchangeRate))
	suite.Nil(after.LastRateUpdate)
	suite.True(after.Wishlist[0].Price.Equal(before.Wishlist[0].Price))

	summary, err := ledger.GetSummary(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(domain.RateStatusFetchFailed, summary.RateStatus)
	suite.NotEmpty(summary.RateError)
	suite.expectPublished(domain.EventRateFailed)
}

func (suite *LedgerServiceTestSuite) TestRefreshRate_RejectsMissingOrNonPositiveRate() {
	ledger := suite.newLedger(nil)
	suite.rates.On("FetchRates", mock.Anything, "CNY").Return(rateTable("EUR", "0.13"), nil).Once()
	suite.rates.On("FetchRates", mock.Anything, "CNY").Return(rateTable("USD", "0"), nil).Once()

	_, err := ledger.RefreshRate(suite.ctx)
	suite.ErrorIs(err, apperrors.ErrRateFetch)
	_, err = ledger.RefreshRate(suite.ctx)
	suite.ErrorIs(err, apperrors.ErrRateFetch)

	suite.True(suite.snapshot(ledger).ExchangeRate.Equal(dec("7.2")))
}

func (suite *LedgerServiceTestSuite) TestRefreshRate_InFlightGuard() {
	ledger := suite.newLedger(nil)
	started := make(chan struct{})
	release := make(chan struct{})
	suite.rates.On("FetchRates", mock.Anything, "CNY").
		Run(func(args mock.Arguments) {
			close(started)
			<-release
		}).
		Return(rateTable("USD", "7.3"), nil).Once()

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = ledger.RefreshRate(suite.ctx)
	}()
	<-started

	_, err := ledger.RefreshRate(suite.ctx)
	suite.ErrorIs(err, apperrors.ErrRateRefreshInProgress)

	refreshed, err := ledger.RefreshRateIfStale(suite.ctx)
	suite.NoError(err)
	suite.False(refreshed)

	close(release)
	wg.Wait()
	suite.NoError(firstErr)
	suite.True(suite.snapshot(ledger).ExchangeRate.Equal(dec("7.3")))
	suite.rates.AssertNumberOfCalls(suite.T(), "FetchRates", 1)
}

func (suite *LedgerServiceTestSuite) TestRefreshRateIfStale() {
	ledger := suite.newLedger(nil)
	suite.rates.On("FetchRates", mock.Anything, "CNY").Return(rateTable("USD", "7.3"), nil).Twice()

	refreshed, err := ledger.RefreshRateIfStale(suite.ctx)
	suite.Require().NoError(err)
	suite.True(refreshed, "never refreshed is stale")

	suite.clock.Advance(59 * time.Minute)
	refreshed, err = ledger.RefreshRateIfStale(suite.ctx)
	suite.Require().NoError(err)
	suite.False(refreshed, "fresh rate is a no-op")

	suite.clock.Advance(time.Minute)
	refreshed, err = ledger.RefreshRateIfStale(suite.ctx)
	suite.Require().NoError(err)
	suite.True(refreshed)

	suite.rates.AssertNumberOfCalls(suite.T(), "FetchRates", 2)
}

// --- settings ---

func (suite *LedgerServiceTestSuite) TestSummary_BudgetArithmetic() {
	ledger := suite.newLedger(nil)
	suite.rates.On("FetchRates", mock.Anything, "CNY").Return(rateTable("USD", "0.5"), nil).Once()
	_, err := ledger.RefreshRate(suite.ctx)
	suite.Require().NoError(err)

	_, err = ledger.SetMonthlyBudget(suite.ctx, dec("1000"))
	suite.Require().NoError(err)
	for _, amount := range []string{"100", "200"} {
		_, err = ledger.AddExpense(suite.ctx, dto.ExpenseRequest{Name: "e", Amount: dec(amount), Currency: domain.OriginPrimary})
		suite.Require().NoError(err)
	}
	for _, amount := range []string{"150", "50"} {
		_, err = ledger.AddWish(suite.ctx, dto.WishRequest{Name: "w", Amount: dec(amount), Currency: domain.OriginPrimary})
		suite.Require().NoError(err)
	}

	summary, err := ledger.GetSummary(suite.ctx)

	suite.Require().NoError(err)
	suite.True(summary.Remaining.Primary.Equal(dec("700")))
	suite.True(summary.AfterWishlist.Primary.Equal(dec("500")))
	suite.True(summary.Remaining.Secondary.Equal(dec("350")))
	suite.Equal("1 CNY = 0.50 USD", summary.RateText)
	suite.Equal("just now", summary.RateFreshness)
	suite.Equal(domain.RateStatusOK, summary.RateStatus)
}

func (suite *LedgerServiceTestSuite) TestSettings_Validation() {
	ledger := suite.newLedger(nil)

	_, err := ledger.SetMonthlyBudget(suite.ctx, dec("0"))
	suite.ErrorIs(err, apperrors.ErrValidation)
	_, err = ledger.SetTaxRate(suite.ctx, dec("-1"))
	suite.ErrorIs(err, apperrors.ErrValidation)
	_, err = ledger.SetResetDay(suite.ctx, 0)
	suite.ErrorIs(err, apperrors.ErrValidation)
	_, err = ledger.SetResetDay(suite.ctx, 29)
	suite.ErrorIs(err, apperrors.ErrValidation)

	state, err := ledger.SetResetDay(suite.ctx, 28)
	suite.Require().NoError(err)
	suite.Equal(28, state.ResetDay)

	state, err = ledger.SetTaxRate(suite.ctx, dec("0"))
	suite.Require().NoError(err)
	suite.True(state.TaxRate.IsZero())
	suite.expectPublished(domain.EventSettingsUpdated)
}

func (suite *LedgerServiceTestSuite) TestSetCurrencies_RefreshesRateForNewPair() {
	ledger := suite.newLedger(nil)
	eur := "eur"
	suite.rates.On("FetchRates", mock.Anything, "CNY").Return(rateTable("USD", "0.14", "EUR", "0.128"), nil).Once()

	state, err := ledger.SetCurrencies(suite.ctx, dto.UpdateCurrenciesRequest{SecondaryCurrency: &eur})

	suite.Require().NoError(err)
	suite.Equal(domain.CNY, state.PrimaryCurrency)
	suite.Equal(domain.EUR, state.SecondaryCurrency)
	suite.True(state.ExchangeRate.Equal(dec("0.128")))
	suite.rates.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestSetCurrencies_RefreshFailureStillApplies() {
	ledger := suite.newLedger(nil)
	gbp := "GBP"
	suite.rates.On("FetchRates", mock.Anything, "GBP").Return(nil, errors.New("boom")).Once()

	state, err := ledger.SetCurrencies(suite.ctx, dto.UpdateCurrenciesRequest{PrimaryCurrency: &gbp})

	suite.Require().NoError(err)
	suite.Equal(domain.GBP, state.PrimaryCurrency)
	suite.True(state.ExchangeRate.Equal(dec("7.2")))
}

func (suite *LedgerServiceTestSuite) TestSetCurrencies_Validation() {
	ledger := suite.newLedger(nil)
	bad := "XYZ"

	_, err := ledger.SetCurrencies(suite.ctx, dto.UpdateCurrenciesRequest{})
	suite.ErrorIs(err, apperrors.ErrValidation)
	_, err = ledger.SetCurrencies(suite.ctx, dto.UpdateCurrenciesRequest{PrimaryCurrency: &bad})
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.Equal(domain.CNY, suite.snapshot(ledger).PrimaryCurrency)
	suite.rates.AssertNotCalled(suite.T(), "FetchRates", mock.Anything, mock.Anything)
}

// --- billing cycle ---

func (suite *LedgerServiceTestSuite) TestCheckAndReset_FirstRunBootstrap() {
	ledger := suite.newLedger(nil)
	_, err := ledger.AddExpense(suite.ctx, dto.ExpenseRequest{Name: "e", Amount: dec("1"), Currency: domain.OriginPrimary})
	suite.Require().NoError(err)

	reset, err := ledger.CheckAndReset(suite.ctx)

	suite.Require().NoError(err)
	suite.False(reset)
	state := suite.snapshot(ledger)
	suite.Require().NotNil(state.LastResetDate)
	suite.Equal("2024-02-12", state.LastResetDate.String())
	suite.Len(state.Expenses, 1)
	suite.repo.AssertCalled(suite.T(), "SaveLedger", mock.Anything, testUserID, mock.MatchedBy(func(s domain.LedgerState) bool {
		return s.LastResetDate != nil
	}))
}

func (suite *LedgerServiceTestSuite) TestCheckAndReset_MonthBoundaryClearsExpensesOnly() {
	last := domain.NewDate(2024, time.January, 15)
	state := domain.NewLedgerState()
	state.ResetDay = 10
	state.LastResetDate = &last
	ledger := suite.newLedger(state)
	_, err := ledger.AddExpense(suite.ctx, dto.ExpenseRequest{Name: "e", Amount: dec("1"), Currency: domain.OriginPrimary})
	suite.Require().NoError(err)
	_, err = ledger.AddWish(suite.ctx, dto.WishRequest{Name: "w", Amount: dec("1"), Currency: domain.OriginPrimary})
	suite.Require().NoError(err)

	reset, err := ledger.CheckAndReset(suite.ctx)

	suite.Require().NoError(err)
	suite.True(reset)
	after := suite.snapshot(ledger)
	suite.Empty(after.Expenses)
	suite.Len(after.Wishlist, 1)
	suite.Equal("2024-02-12", after.LastResetDate.String())
	suite.expectPublished(domain.EventBillingReset)

	reset, err = ledger.CheckAndReset(suite.ctx)
	suite.Require().NoError(err)
	suite.False(reset, "a second check on the same day is a no-op")
}

func (suite *LedgerServiceTestSuite) TestCheckAndReset_UsesConfiguredLocation() {
	// 2024-02-29 20:00 UTC is already 2024-03-01 in Shanghai.
	suite.clock = newFakeClock(time.Date(2024, time.February, 29, 20, 0, 0, 0, time.UTC))
	shanghai := time.FixedZone("CST", 8*60*60)
	last := domain.NewDate(2024, time.February, 1)
	state := domain.NewLedgerState()
	state.LastResetDate = &last

	ledger := services.NewLedgerService(testUserID, state, suite.repo,
		services.WithClock(suite.clock.Now),
		services.WithLocation(shanghai),
	)

	reset, err := ledger.CheckAndReset(suite.ctx)

	suite.Require().NoError(err)
	suite.True(reset)
	suite.Equal("2024-03-01", suite.snapshot(ledger).LastResetDate.String())
}

func (suite *LedgerServiceTestSuite) TestPersistFailureIsNotSurfaced() {
	repo := new(MockLedgerRepository)
	repo.On("SaveLedger", mock.Anything, testUserID, mock.Anything).Return(errors.New("disk full"))
	ledger := services.NewLedgerService(testUserID, nil, repo, services.WithClock(suite.clock.Now))

	expense, err := ledger.AddExpense(suite.ctx, dto.ExpenseRequest{Name: "e", Amount: dec("1"), Currency: domain.OriginPrimary})

	suite.Require().NoError(err)
	suite.NotNil(expense)
	suite.Len(suite.snapshot(ledger).Expenses, 1)
}

func (suite *LedgerServiceTestSuite) TestGetLedger_ReturnsCopy() {
	ledger := suite.newLedger(nil)
	_, err := ledger.AddExpense(suite.ctx, dto.ExpenseRequest{Name: "e", Amount: dec("1"), Currency: domain.OriginPrimary})
	suite.Require().NoError(err)

	state := suite.snapshot(ledger)
	state.Expenses[0].Name = "changed"
	state.Expenses = nil

	again := suite.snapshot(ledger)
	suite.Require().Len(again.Expenses, 1)
	suite.Equal("e", again.Expenses[0].Name)
}

func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
