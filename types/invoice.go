package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusUnpaid InvoiceStatus = "unpaid"
	InvoiceStatusPaid   InvoiceStatus = "paid"
)

// InvoiceLine is an immutable snapshot of one expense share captured at
// generation time. Later edits to the expense never alter the line.
type InvoiceLine struct {
	ExpenseID        string          `json:"expenseId"`
	Name             string          `json:"name"`
	OriginalAmount   decimal.Decimal `json:"originalAmount"`
	Currency         Currency        `json:"currency"`
	BufferRate       decimal.Decimal `json:"bufferRate"`
	ParticipantCount int             `json:"participantCount"`
	ShareTHB         decimal.Decimal `json:"shareThb"`
}

// Invoice bills a participant for a set of expense shares. Versions are
// per-participant and monotonically increasing, starting at 1. Only Status and
// ReceiptNumber mutate after creation.
type Invoice struct {
	ID            string          `json:"id"`
	TripID        string          `json:"tripId"`
	ParticipantID string          `json:"participantId"`
	Version       int             `json:"version"`
	Lines         []InvoiceLine   `json:"lines"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
	Status        InvoiceStatus   `json:"status"`
	ReceiptNumber *int            `json:"receiptNumber,omitempty"`
	GeneratedAt   time.Time       `json:"generatedAt"`
}

// InvoiceSummary is the list-view projection of an invoice.
type InvoiceSummary struct {
	ID              string          `json:"id"`
	TripID          string          `json:"tripId"`
	ParticipantID   string          `json:"participantId"`
	ParticipantName string          `json:"participantName"`
	Version         int             `json:"version"`
	GrandTotal      decimal.Decimal `json:"grandTotal"`
	Status          InvoiceStatus   `json:"status"`
	ReceiptNumber   *int            `json:"receiptNumber,omitempty"`
	GeneratedAt     time.Time       `json:"generatedAt"`
}

// UnbilledItem is an expense share that has not yet appeared on any active
// invoice for the participant.
type UnbilledItem struct {
	ExpenseID        string          `json:"expenseId"`
	Name             string          `json:"name"`
	OriginalAmount   decimal.Decimal `json:"originalAmount"`
	Currency         Currency        `json:"currency"`
	BufferRate       decimal.Decimal `json:"bufferRate"`
	ParticipantCount int             `json:"participantCount"`
	ShareTHB         decimal.Decimal `json:"shareThb"`
}

// UnbilledPreview is the pre-generation view for a participant.
type UnbilledPreview struct {
	ParticipantName string          `json:"participantName"`
	NextVersion     int             `json:"nextVersion"`
	Items           []UnbilledItem  `json:"items"`
	Total           decimal.Decimal `json:"total"`
}

type InvoiceGenerateRequest struct {
	ExpenseIDs []string `json:"expenseIds" binding:"required"`
}
