package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code. The engine settles everything in THB; JPY
// amounts are converted through the per-expense buffer rate.
type Currency string

const (
	CurrencyTHB Currency = "THB"
	CurrencyJPY Currency = "JPY"
)

// Payment records the actual spend logged against an expense. An expense with
// a payment attached is considered paid.
type Payment struct {
	ActualAmount   decimal.Decimal `json:"actualAmount"`
	ActualCurrency Currency        `json:"actualCurrency"`
	ActualTHB      decimal.Decimal `json:"actualThb"`
	ActualDate     time.Time       `json:"actualDate"`
	ActualMethod   string          `json:"actualMethod"`
}

// Expense is a budgeted cost split evenly across its participants.
type Expense struct {
	ID     string `json:"id"`
	TripID string `json:"tripId"`
	Name   string `json:"name"`
	// Amount is in the original currency; conversion to THB happens via BufferRate.
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
	// BufferRate is effective only when Currency is JPY; 1.0 otherwise.
	BufferRate     decimal.Decimal `json:"bufferRate"`
	ParticipantIDs []string        `json:"participantIds"`
	Payment        *Payment        `json:"payment,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// IsPaid reports whether an actual payment has been logged.
func (e *Expense) IsPaid() bool {
	return e.Payment != nil
}

// ParticipantCount returns the number of travelers sharing this expense.
func (e *Expense) ParticipantCount() int {
	return len(e.ParticipantIDs)
}

// ExpenseResponse is the read model returned to callers: the expense plus the
// derived settlement figures and billing state.
type ExpenseResponse struct {
	Expense
	ParticipantNames []string        `json:"participants"`
	CollectedTHB     decimal.Decimal `json:"collectedThb"`
	PerPersonTHB     decimal.Decimal `json:"perPersonThb"`
	IsPaid           bool            `json:"isPaid"`
	IsInvoiced       bool            `json:"isInvoiced"`
	InvoiceVersions  []int           `json:"invoiceVersions"`
}

type ExpenseCreate struct {
	Name     string          `json:"name" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Currency Currency        `json:"currency" binding:"required"`
	// BufferRate defaults from the trip settings when omitted.
	BufferRate     *decimal.Decimal `json:"bufferRate,omitempty"`
	ParticipantIDs []string         `json:"participantIds" binding:"required"`
}

type ExpenseUpdate struct {
	Name           string          `json:"name" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Currency       Currency        `json:"currency" binding:"required"`
	BufferRate     *decimal.Decimal `json:"bufferRate,omitempty"`
	ParticipantIDs []string        `json:"participantIds" binding:"required"`
}

// LogPaymentRequest records the actual spend for an expense. Re-logging
// overwrites the previous payment.
type LogPaymentRequest struct {
	Date           string          `json:"date" binding:"required"`
	Method         string          `json:"method" binding:"required"`
	ActualAmount   decimal.Decimal `json:"actualAmount" binding:"required"`
	ActualCurrency Currency        `json:"actualCurrency" binding:"required"`
	ActualTHB      decimal.Decimal `json:"actualThb" binding:"required"`
}
