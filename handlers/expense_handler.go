package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/triptally/triptally-backend/errors"
	"github.com/triptally/triptally-backend/logger"
	ledgerservice "github.com/triptally/triptally-backend/models/ledger/service"
	"github.com/triptally/triptally-backend/types"
)

type ExpenseHandler struct {
	ledger *ledgerservice.LedgerService
}

func NewExpenseHandler(ledger *ledgerservice.LedgerService) *ExpenseHandler {
	return &ExpenseHandler{ledger: ledger}
}

// CreateExpenseHandler adds an expense to the trip ledger.
func (h *ExpenseHandler) CreateExpenseHandler(c *gin.Context) {
	log := logger.GetLogger()
	var req types.ExpenseCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Errorw("Invalid request body", "error", err)
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	resp, err := h.ledger.AddExpense(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListExpensesHandler lists the trip's expenses with derived figures.
func (h *ExpenseHandler) ListExpensesHandler(c *gin.Context) {
	list, err := h.ledger.ListExpenses(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetExpenseHandler returns one expense with derived figures.
func (h *ExpenseHandler) GetExpenseHandler(c *gin.Context) {
	resp, err := h.ledger.GetExpense(c.Request.Context(), c.Param("id"), c.Param("expenseId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateExpenseHandler replaces an expense's mutable fields.
func (h *ExpenseHandler) UpdateExpenseHandler(c *gin.Context) {
	log := logger.GetLogger()
	var req types.ExpenseUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Errorw("Invalid request body", "error", err)
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	resp, err := h.ledger.UpdateExpense(c.Request.Context(), c.Param("id"), c.Param("expenseId"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteExpenseHandler deletes an expense that is not on any invoice.
func (h *ExpenseHandler) DeleteExpenseHandler(c *gin.Context) {
	if err := h.ledger.DeleteExpense(c.Request.Context(), c.Param("id"), c.Param("expenseId")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LogPaymentHandler records the actual spend against an expense.
func (h *ExpenseHandler) LogPaymentHandler(c *gin.Context) {
	log := logger.GetLogger()
	var req types.LogPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Errorw("Invalid request body", "error", err)
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	resp, err := h.ledger.LogPayment(c.Request.Context(), c.Param("id"), c.Param("expenseId"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ClearPaymentHandler reverts an expense to unpaid.
func (h *ExpenseHandler) ClearPaymentHandler(c *gin.Context) {
	resp, err := h.ledger.ClearPayment(c.Request.Context(), c.Param("id"), c.Param("expenseId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
