package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/triptally/triptally-backend/errors"
	"github.com/triptally/triptally-backend/logger"
	billingservice "github.com/triptally/triptally-backend/models/billing/service"
	"github.com/triptally/triptally-backend/types"
)

type ReceiptHandler struct {
	receipts *billingservice.ReceiptService
}

func NewReceiptHandler(receipts *billingservice.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts}
}

// PreviewUnpaidHandler lists the participant's unpaid invoices, the candidates
// for the next receipt.
func (h *ReceiptHandler) PreviewUnpaidHandler(c *gin.Context) {
	list, err := h.receipts.PreviewUnpaid(c.Request.Context(), c.Param("id"), c.Param("participantId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GenerateReceiptHandler settles the selected unpaid invoices atomically.
func (h *ReceiptHandler) GenerateReceiptHandler(c *gin.Context) {
	log := logger.GetLogger()
	var req types.ReceiptGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Errorw("Invalid request body", "error", err)
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	r, err := h.receipts.GenerateReceipt(c.Request.Context(), c.Param("id"), c.Param("participantId"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// ReceiptHistoryHandler lists one participant's receipts in number order.
func (h *ReceiptHandler) ReceiptHistoryHandler(c *gin.Context) {
	list, err := h.receipts.ReceiptHistory(c.Request.Context(), c.Param("id"), c.Param("participantId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListReceiptsHandler lists the trip's receipts.
func (h *ReceiptHandler) ListReceiptsHandler(c *gin.Context) {
	list, err := h.receipts.ListReceipts(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetReceiptHandler returns one receipt with the aggregated invoice lines.
func (h *ReceiptHandler) GetReceiptHandler(c *gin.Context) {
	detail, err := h.receipts.GetReceiptDetail(c.Request.Context(), c.Param("id"), c.Param("receiptId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// DeleteReceiptHandler voids a receipt, reverting its invoices to unpaid.
func (h *ReceiptHandler) DeleteReceiptHandler(c *gin.Context) {
	if err := h.receipts.DeleteReceipt(c.Request.Context(), c.Param("id"), c.Param("receiptId")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// OverviewHandler returns the trip's billing progress stats.
func (h *ReceiptHandler) OverviewHandler(c *gin.Context) {
	stats, err := h.receipts.OverviewStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
