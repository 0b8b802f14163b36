package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	reconservice "github.com/triptally/triptally-backend/models/reconciliation/service"
)

type ReconciliationHandler struct {
	reconciliation *reconservice.ReconciliationService
}

func NewReconciliationHandler(reconciliation *reconservice.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliation: reconciliation}
}

// RefundStatementHandler returns one participant's refund statement.
func (h *ReconciliationHandler) RefundStatementHandler(c *gin.Context) {
	stmt, err := h.reconciliation.Statement(c.Request.Context(), c.Param("id"), c.Param("participantId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stmt)
}

// SummaryHandler returns the trip-wide reconciliation table.
func (h *ReconciliationHandler) SummaryHandler(c *gin.Context) {
	rows, err := h.reconciliation.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
