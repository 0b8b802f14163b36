package store

import (
	"context"

	"github.com/triptally/triptally-backend/types"
)

// Store provides a unified interface for all data operations
type Store interface {
	Trips() TripStore
	Participants() ParticipantStore
	Expenses() ExpenseStore
	Invoices() InvoiceStore
	Receipts() ReceiptStore
}

// TripStore handles trip-level data operations
type TripStore interface {
	CreateTrip(ctx context.Context, trip *types.Trip) (string, error)
	GetTrip(ctx context.Context, id string) (*types.Trip, error)
	ListTrips(ctx context.Context) ([]*types.Trip, error)
	UpdateTrip(ctx context.Context, id string, update *types.TripUpdate) (*types.Trip, error)
}

// ParticipantStore handles participant data operations
type ParticipantStore interface {
	CreateParticipant(ctx context.Context, p *types.Participant) (string, error)
	GetParticipant(ctx context.Context, tripID, id string) (*types.Participant, error)
	GetParticipantByName(ctx context.Context, tripID, name string) (*types.Participant, error)
	ListParticipants(ctx context.Context, tripID string) ([]*types.Participant, error)
	DeleteParticipant(ctx context.Context, tripID, id string) error
}

// ExpenseStore handles expense and payment data operations
type ExpenseStore interface {
	// CreateExpense inserts the expense and its participant links atomically.
	CreateExpense(ctx context.Context, e *types.Expense) (string, error)
	GetExpense(ctx context.Context, tripID, id string) (*types.Expense, error)
	ListExpenses(ctx context.Context, tripID string) ([]*types.Expense, error)
	ListExpensesForParticipant(ctx context.Context, tripID, participantID string) ([]*types.Expense, error)
	// UpdateExpense rewrites the expense row and its participant links atomically.
	UpdateExpense(ctx context.Context, e *types.Expense) error
	DeleteExpense(ctx context.Context, tripID, id string) error
	SetPayment(ctx context.Context, tripID, expenseID string, p *types.Payment) error
	ClearPayment(ctx context.Context, tripID, expenseID string) error
	// IsParticipantReferenced reports whether any expense includes the participant.
	IsParticipantReferenced(ctx context.Context, participantID string) (bool, error)
}

// InvoiceStore handles invoice data operations
type InvoiceStore interface {
	// CreateInvoice inserts the invoice header and its snapshot lines atomically.
	CreateInvoice(ctx context.Context, inv *types.Invoice) (string, error)
	GetInvoice(ctx context.Context, tripID, id string) (*types.Invoice, error)
	ListInvoices(ctx context.Context, tripID string) ([]*types.InvoiceSummary, error)
	ListInvoicesForParticipant(ctx context.Context, tripID, participantID string) ([]*types.Invoice, error)
	ListUnpaidInvoices(ctx context.Context, tripID, participantID string) ([]*types.Invoice, error)
	// MaxVersion returns the highest invoice version for the participant, 0 when none.
	MaxVersion(ctx context.Context, participantID string) (int, error)
	// BilledExpenseIDs returns the expense ids already on any invoice for the participant.
	BilledExpenseIDs(ctx context.Context, participantID string) ([]string, error)
	// InvoiceCountForExpense counts invoice lines referencing the expense across
	// all participants. Non-zero blocks expense deletion.
	InvoiceCountForExpense(ctx context.Context, expenseID string) (int, error)
	// ExpenseInvoiceVersions maps expense id to the versions of invoices holding it.
	ExpenseInvoiceVersions(ctx context.Context, tripID string) (map[string][]int, error)
	// DeleteInvoice removes the invoice and its lines atomically.
	DeleteInvoice(ctx context.Context, tripID, id string) error
}

// ReceiptStore handles receipt data operations
type ReceiptStore interface {
	// CreateReceipt inserts the receipt, links its invoices, and marks every
	// linked invoice paid with the receipt number, all in one transaction.
	// Returns ErrConflict if any invoice is not currently unpaid or belongs to
	// a different participant.
	CreateReceipt(ctx context.Context, r *types.Receipt) (string, error)
	GetReceipt(ctx context.Context, tripID, id string) (*types.Receipt, error)
	ListReceipts(ctx context.Context, tripID string) ([]*types.ReceiptSummary, error)
	ListReceiptsForParticipant(ctx context.Context, tripID, participantID string) ([]*types.Receipt, error)
	// MaxReceiptNumber returns the highest receipt number for the participant, 0 when none.
	MaxReceiptNumber(ctx context.Context, participantID string) (int, error)
	// DeleteReceipt reverts the linked invoices to unpaid, clears their receipt
	// numbers and removes the receipt, all in one transaction.
	DeleteReceipt(ctx context.Context, tripID, id string) error
}
