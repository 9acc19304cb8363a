package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/budget_tracker_app/internal/core/ports/services"
	"github.com/SscSPs/budget_tracker_app/internal/dto"
	"github.com/SscSPs/budget_tracker_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

const ledgerKey = "ledger"

// ledgerHandler serves the ledger of the authenticated user.
type ledgerHandler struct {
	sessions portssvc.SessionSvcFacade
}

func newLedgerHandler(sessions portssvc.SessionSvcFacade) *ledgerHandler {
	return &ledgerHandler{sessions: sessions}
}

// registerLedgerRoutes registers routes related to the user's ledger.
func registerLedgerRoutes(rg *gin.RouterGroup, sessions portssvc.SessionSvcFacade) {
	h := newLedgerHandler(sessions)

	ledger := rg.Group("/ledger", h.openSession)
	{
		ledger.GET("", h.getLedger)
		ledger.GET("/summary", h.getSummary)

		expenses := ledger.Group("/expenses")
		{
			expenses.GET("", h.listExpenses)
			expenses.POST("", h.addExpense)
			expenses.GET("/:id/edit", h.getExpenseEditForm)
			expenses.PUT("/:id", h.updateExpense)
			expenses.DELETE("/:id", h.deleteExpense)
		}

		wishlist := ledger.Group("/wishlist")
		{
			wishlist.GET("", h.listWishlist)
			wishlist.POST("", h.addWish)
			wishlist.GET("/:id/edit", h.getWishEditForm)
			wishlist.PUT("/:id", h.updateWish)
			wishlist.DELETE("/:id", h.deleteWish)
		}

		settings := ledger.Group("/settings")
		{
			settings.PUT("/budget", h.setMonthlyBudget)
			settings.PUT("/tax-rate", h.setTaxRate)
			settings.PUT("/reset-day", h.setResetDay)
			settings.PUT("/currencies", h.setCurrencies)
		}

		ledger.POST("/rate/refresh", h.refreshRate)
	}
}

// openSession resolves the ledger of the authenticated user, opening the
// session on first use, and stores it on the gin context.
func (h *ledgerHandler) openSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ledger, err := h.sessions.Open(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to open ledger session")
		c.Abort()
		return
	}
	c.Set(ledgerKey, ledger)
	c.Next()
}

func ledgerFromContext(c *gin.Context) portssvc.LedgerSvcFacade {
	return c.MustGet(ledgerKey).(portssvc.LedgerSvcFacade)
}

// getLedger godoc
// @Summary Get the ledger
// @Description Returns the full ledger with expenses, wishlist and overview
// @Tags ledger
// @Produce  json
// @Success 200 {object} dto.LedgerResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve ledger"
// @Security BearerAuth
// @Router /ledger [get]
func (h *ledgerHandler) getLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ledger := ledgerFromContext(c)

	state, err := ledger.GetLedger(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve ledger")
		return
	}
	overview, err := ledger.GetSummary(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve ledger")
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerResponse(*state, *overview))
}

// getSummary godoc
// @Summary Get the budget overview
// @Description Remaining budget before and after the wishlist in both currencies, plus the rate line
// @Tags ledger
// @Produce  json
// @Success 200 {object} domain.Overview
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to compute summary"
// @Security BearerAuth
// @Router /ledger/summary [get]
func (h *ledgerHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	overview, err := ledgerFromContext(c).GetSummary(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to compute summary")
		return
	}
	c.JSON(http.StatusOK, overview)
}

// listExpenses godoc
// @Summary List expenses
// @Description Lists expenses, optionally only those of one month
// @Tags expenses
// @Produce  json
// @Param   month query string false "Month filter (YYYY-MM)"
// @Success 200 {array} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid month"
// @Failure 500 {object} map[string]string "Failed to list expenses"
// @Security BearerAuth
// @Router /ledger/expenses [get]
func (h *ledgerHandler) listExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ledger := ledgerFromContext(c)

	expenses, err := ledger.ListExpenses(c.Request.Context(), c.Query("month"))
	if err != nil {
		respondError(c, logger, err, "Failed to list expenses")
		return
	}
	state, err := ledger.GetLedger(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list expenses")
		return
	}

	c.JSON(http.StatusOK, dto.ToListExpenseResponse(expenses, *state))
}

// addExpense godoc
// @Summary Add an expense
// @Description Records an expense keyed in either currency; the current rate is snapshotted
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   expense body dto.ExpenseRequest true "Expense details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to add expense"
// @Security BearerAuth
// @Router /ledger/expenses [post]
func (h *ledgerHandler) addExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ExpenseRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	ledger := ledgerFromContext(c)

	expense, err := ledger.AddExpense(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to add expense")
		return
	}
	state, err := ledger.GetLedger(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to add expense")
		return
	}

	c.JSON(http.StatusCreated, dto.ToExpenseResponse(*expense, *state))
}

// getExpenseEditForm godoc
// @Summary Get expense edit defaults
// @Description Returns the amount and currency an edit form for the expense should start from
// @Tags expenses
// @Produce  json
// @Param   id path string true "Expense ID"
// @Success 200 {object} domain.EditForm
// @Failure 404 {object} map[string]string "Expense not found"
// @Security BearerAuth
// @Router /ledger/expenses/{id}/edit [get]
func (h *ledgerHandler) getExpenseEditForm(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("expense_id", c.Param("id")))

	form, err := ledgerFromContext(c).GetExpenseEditForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to load expense")
		return
	}
	c.JSON(http.StatusOK, form)
}

// updateExpense godoc
// @Summary Replace an expense
// @Description Replaces name, amount and currency; the entry is re-snapshotted at the current rate
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   id path string true "Expense ID"
// @Param   expense body dto.ExpenseRequest true "Expense details"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 500 {object} map[string]string "Failed to update expense"
// @Security BearerAuth
// @Router /ledger/expenses/{id} [put]
func (h *ledgerHandler) updateExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("expense_id", c.Param("id")))
	var req dto.ExpenseRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	ledger := ledgerFromContext(c)

	expense, err := ledger.UpdateExpense(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to update expense")
		return
	}
	state, err := ledger.GetLedger(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to update expense")
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(*expense, *state))
}

// deleteExpense godoc
// @Summary Delete an expense
// @Tags expenses
// @Param   id path string true "Expense ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 500 {object} map[string]string "Failed to delete expense"
// @Security BearerAuth
// @Router /ledger/expenses/{id} [delete]
func (h *ledgerHandler) deleteExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("expense_id", c.Param("id")))

	if err := ledgerFromContext(c).DeleteExpense(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, logger, err, "Failed to delete expense")
		return
	}
	c.Status(http.StatusNoContent)
}

// listWishlist godoc
// @Summary List the wishlist
// @Tags wishlist
// @Produce  json
// @Success 200 {array} dto.WishResponse
// @Failure 500 {object} map[string]string "Failed to list wishlist"
// @Security BearerAuth
// @Router /ledger/wishlist [get]
func (h *ledgerHandler) listWishlist(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	state, err := ledgerFromContext(c).GetLedger(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list wishlist")
		return
	}
	c.JSON(http.StatusOK, dto.ToListWishResponse(state.Wishlist, *state))
}

// addWish godoc
// @Summary Add a wishlist item
// @Description Adds a planned purchase; tax is applied first when taxOption is "before"
// @Tags wishlist
// @Accept  json
// @Produce  json
// @Param   wish body dto.WishRequest true "Wishlist item details"
// @Success 201 {object} dto.WishResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to add wishlist item"
// @Security BearerAuth
// @Router /ledger/wishlist [post]
func (h *ledgerHandler) addWish(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.WishRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	ledger := ledgerFromContext(c)

	item, err := ledger.AddWish(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to add wishlist item")
		return
	}
	state, err := ledger.GetLedger(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to add wishlist item")
		return
	}

	c.JSON(http.StatusCreated, dto.ToWishResponse(*item, *state))
}

// getWishEditForm godoc
// @Summary Get wishlist item edit defaults
// @Tags wishlist
// @Produce  json
// @Param   id path string true "Wishlist item ID"
// @Success 200 {object} domain.EditForm
// @Failure 404 {object} map[string]string "Wishlist item not found"
// @Security BearerAuth
// @Router /ledger/wishlist/{id}/edit [get]
func (h *ledgerHandler) getWishEditForm(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("wish_id", c.Param("id")))

	form, err := ledgerFromContext(c).GetWishEditForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to load wishlist item")
		return
	}
	c.JSON(http.StatusOK, form)
}

// updateWish godoc
// @Summary Replace a wishlist item
// @Tags wishlist
// @Accept  json
// @Produce  json
// @Param   id path string true "Wishlist item ID"
// @Param   wish body dto.WishRequest true "Wishlist item details"
// @Success 200 {object} dto.WishResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Wishlist item not found"
// @Failure 500 {object} map[string]string "Failed to update wishlist item"
// @Security BearerAuth
// @Router /ledger/wishlist/{id} [put]
func (h *ledgerHandler) updateWish(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("wish_id", c.Param("id")))
	var req dto.WishRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	ledger := ledgerFromContext(c)

	item, err := ledger.UpdateWish(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to update wishlist item")
		return
	}
	state, err := ledger.GetLedger(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to update wishlist item")
		return
	}

	c.JSON(http.StatusOK, dto.ToWishResponse(*item, *state))
}

// deleteWish godoc
// @Summary Delete a wishlist item
// @Tags wishlist
// @Param   id path string true "Wishlist item ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Wishlist item not found"
// @Failure 500 {object} map[string]string "Failed to delete wishlist item"
// @Security BearerAuth
// @Router /ledger/wishlist/{id} [delete]
func (h *ledgerHandler) deleteWish(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("wish_id", c.Param("id")))

	if err := ledgerFromContext(c).DeleteWish(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, logger, err, "Failed to delete wishlist item")
		return
	}
	c.Status(http.StatusNoContent)
}

// setMonthlyBudget godoc
// @Summary Set the monthly budget
// @Tags settings
// @Accept  json
// @Produce  json
// @Param   budget body dto.UpdateBudgetRequest true "Budget in the primary currency"
// @Success 200 {object} dto.LedgerResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /ledger/settings/budget [put]
func (h *ledgerHandler) setMonthlyBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateBudgetRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	ledger := ledgerFromContext(c)

	if _, err := ledger.SetMonthlyBudget(c.Request.Context(), req.Amount); err != nil {
		respondError(c, logger, err, "Failed to update budget")
		return
	}
	h.respondLedger(c, logger, ledger, "Failed to update budget")
}

// setTaxRate godoc
// @Summary Set the tax rate
// @Tags settings
// @Accept  json
// @Produce  json
// @Param   taxRate body dto.UpdateTaxRateRequest true "Tax rate in percent"
// @Success 200 {object} dto.LedgerResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /ledger/settings/tax-rate [put]
func (h *ledgerHandler) setTaxRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateTaxRateRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	ledger := ledgerFromContext(c)

	if _, err := ledger.SetTaxRate(c.Request.Context(), req.TaxRate); err != nil {
		respondError(c, logger, err, "Failed to update tax rate")
		return
	}
	h.respondLedger(c, logger, ledger, "Failed to update tax rate")
}

// setResetDay godoc
// @Summary Set the billing reset day
// @Tags settings
// @Accept  json
// @Produce  json
// @Param   resetDay body dto.UpdateResetDayRequest true "Day of month, 1 to 28"
// @Success 200 {object} dto.LedgerResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /ledger/settings/reset-day [put]
func (h *ledgerHandler) setResetDay(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateResetDayRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	ledger := ledgerFromContext(c)

	if _, err := ledger.SetResetDay(c.Request.Context(), req.ResetDay); err != nil {
		respondError(c, logger, err, "Failed to update reset day")
		return
	}
	h.respondLedger(c, logger, ledger, "Failed to update reset day")
}

// setCurrencies godoc
// @Summary Change the tracked currencies
// @Description Changes the primary and/or secondary currency, then refreshes the exchange rate
// @Tags settings
// @Accept  json
// @Produce  json
// @Param   currencies body dto.UpdateCurrenciesRequest true "Currency codes"
// @Success 200 {object} dto.LedgerResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /ledger/settings/currencies [put]
func (h *ledgerHandler) setCurrencies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateCurrenciesRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	ledger := ledgerFromContext(c)

	if _, err := ledger.SetCurrencies(c.Request.Context(), req); err != nil {
		respondError(c, logger, err, "Failed to update currencies")
		return
	}
	h.respondLedger(c, logger, ledger, "Failed to update currencies")
}

// refreshRate godoc
// @Summary Refresh the exchange rate
// @Description Fetches the current rate and rebases wishlist items keyed in the secondary currency
// @Tags ledger
// @Produce  json
// @Success 200 {object} dto.RateUpdateResponse
// @Failure 409 {object} map[string]string "Refresh already in progress"
// @Failure 502 {object} map[string]string "Rate provider failed"
// @Security BearerAuth
// @Router /ledger/rate/refresh [post]
func (h *ledgerHandler) refreshRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ledger := ledgerFromContext(c)

	update, err := ledger.RefreshRate(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to refresh exchange rate")
		return
	}
	overview, err := ledger.GetSummary(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to refresh exchange rate")
		return
	}

	logger.Info("Exchange rate refreshed", slog.String("rate", update.NewRate.String()))
	c.JSON(http.StatusOK, dto.ToRateUpdateResponse(*update, overview.RateText))
}

func (h *ledgerHandler) respondLedger(c *gin.Context, logger *slog.Logger, ledger portssvc.LedgerSvcFacade, fallbackMsg string) {
	state, err := ledger.GetLedger(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, fallbackMsg)
		return
	}
	overview, err := ledger.GetSummary(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, fallbackMsg)
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerResponse(*state, *overview))
}
