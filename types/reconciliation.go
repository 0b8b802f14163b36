package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// CollectedItem is a participant's budgeted share of one paid expense.
type CollectedItem struct {
	ExpenseName      string          `json:"expenseName"`
	OriginalAmount   decimal.Decimal `json:"originalAmount"`
	Currency         Currency        `json:"currency"`
	BufferRate       decimal.Decimal `json:"bufferRate"`
	ParticipantCount int             `json:"participantCount"`
	CollectedTHB     decimal.Decimal `json:"collectedThb"`
}

// ActualItem is a participant's share of the actual spend on one paid expense.
type ActualItem struct {
	ExpenseName      string          `json:"expenseName"`
	PaidAmount       decimal.Decimal `json:"paidAmount"`
	PaidCurrency     Currency        `json:"paidCurrency"`
	ActualTHB        decimal.Decimal `json:"actualThb"`
	ParticipantCount int             `json:"participantCount"`
	CostTHB          decimal.Decimal `json:"costThb"`
}

// RefundStatement is the per-participant reconciliation detail view. Only paid
// expenses appear in the item lists and in the refund figure; TotalBudgeted
// additionally covers expenses not yet paid.
type RefundStatement struct {
	ParticipantName string          `json:"participantName"`
	TripName        string          `json:"tripName"`
	GeneratedAt     time.Time       `json:"generatedAt"`
	CollectedItems  []CollectedItem `json:"collectedItems"`
	ActualItems     []ActualItem    `json:"actualItems"`
	// TotalBudgeted sums the participant's share over every expense they belong to.
	TotalBudgeted decimal.Decimal `json:"totalBudgeted"`
	// TotalCollected sums collected shares over the paid subset only.
	TotalCollected decimal.Decimal `json:"totalCollected"`
	TotalActual    decimal.Decimal `json:"totalActual"`
	// RefundAmount is TotalCollected minus TotalActual. Positive means a refund
	// is owed to the participant; negative means they still owe.
	RefundAmount decimal.Decimal `json:"refundAmount"`
}

// ReconciliationRow is the per-participant line of the trip-wide summary.
type ReconciliationRow struct {
	ParticipantName string          `json:"participantName"`
	TotalCollected  decimal.Decimal `json:"totalCollected"`
	TotalActual     decimal.Decimal `json:"totalActual"`
	SurplusDeficit  decimal.Decimal `json:"surplusDeficit"`
}

// OverviewStats aggregates billing progress across a trip.
type OverviewStats struct {
	TotalInvoices       int             `json:"totalInvoices"`
	TotalInvoicedAmount decimal.Decimal `json:"totalInvoicedAmount"`
	PaidInvoices        int             `json:"paidInvoices"`
	PaidAmount          decimal.Decimal `json:"paidAmount"`
	UnpaidInvoices      int             `json:"unpaidInvoices"`
	UnpaidAmount        decimal.Decimal `json:"unpaidAmount"`
	TotalReceipts       int             `json:"totalReceipts"`
	TotalReceived       decimal.Decimal `json:"totalReceived"`
}
