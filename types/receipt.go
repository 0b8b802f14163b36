package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt settles one or more unpaid invoices for a participant. Creating one
// atomically flips the invoices to paid; voiding it flips them back.
type Receipt struct {
	ID            string          `json:"id"`
	TripID        string          `json:"tripId"`
	ParticipantID string          `json:"participantId"`
	ReceiptNumber int             `json:"receiptNumber"`
	InvoiceIDs    []string        `json:"invoiceIds"`
	TotalTHB      decimal.Decimal `json:"totalThb"`
	PaymentMethod string          `json:"paymentMethod"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ReceiptSummary is the list-view projection of a receipt.
type ReceiptSummary struct {
	ID              string          `json:"id"`
	TripID          string          `json:"tripId"`
	ParticipantID   string          `json:"participantId"`
	ParticipantName string          `json:"participantName"`
	ReceiptNumber   int             `json:"receiptNumber"`
	TotalTHB        decimal.Decimal `json:"totalThb"`
	PaymentMethod   string          `json:"paymentMethod"`
	InvoiceVersions []int           `json:"invoiceVersions"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ReceiptDetail aggregates the line items of every settled invoice.
type ReceiptDetail struct {
	Receipt
	ParticipantName string           `json:"participantName"`
	Items           []InvoiceLine    `json:"items"`
	Invoices        []InvoiceSummary `json:"invoices"`
}

type ReceiptGenerateRequest struct {
	InvoiceIDs    []string `json:"invoiceIds" binding:"required"`
	PaymentMethod string   `json:"paymentMethod" binding:"required"`
}
