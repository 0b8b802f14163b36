package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/triptally/triptally-backend/errors"
	"github.com/triptally/triptally-backend/logger"
	billingservice "github.com/triptally/triptally-backend/models/billing/service"
	"github.com/triptally/triptally-backend/types"
)

type InvoiceHandler struct {
	invoices *billingservice.InvoiceService
}

func NewInvoiceHandler(invoices *billingservice.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// PreviewUnbilledHandler shows what the participant's next invoice would
// contain.
func (h *InvoiceHandler) PreviewUnbilledHandler(c *gin.Context) {
	preview, err := h.invoices.PreviewUnbilled(c.Request.Context(), c.Param("id"), c.Param("participantId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// GenerateInvoiceHandler creates the next versioned invoice from the selected
// unbilled expenses.
func (h *InvoiceHandler) GenerateInvoiceHandler(c *gin.Context) {
	log := logger.GetLogger()
	var req types.InvoiceGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Errorw("Invalid request body", "error", err)
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	inv, err := h.invoices.GenerateInvoice(c.Request.Context(), c.Param("id"), c.Param("participantId"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// ListInvoicesHandler lists the trip's invoices, newest first.
func (h *InvoiceHandler) ListInvoicesHandler(c *gin.Context) {
	list, err := h.invoices.ListInvoices(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// InvoiceHistoryHandler lists one participant's invoices in version order.
func (h *InvoiceHandler) InvoiceHistoryHandler(c *gin.Context) {
	list, err := h.invoices.History(c.Request.Context(), c.Param("id"), c.Param("participantId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetInvoiceHandler returns one invoice with its snapshot lines.
func (h *InvoiceHandler) GetInvoiceHandler(c *gin.Context) {
	inv, err := h.invoices.GetInvoice(c.Request.Context(), c.Param("id"), c.Param("invoiceId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// DeleteInvoiceHandler voids an unpaid invoice.
func (h *InvoiceHandler) DeleteInvoiceHandler(c *gin.Context) {
	if err := h.invoices.DeleteInvoice(c.Request.Context(), c.Param("id"), c.Param("invoiceId")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
