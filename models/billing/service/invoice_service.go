// Package service implements invoice and receipt business logic.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	apperrors "github.com/triptally/triptally-backend/errors"
	"github.com/triptally/triptally-backend/internal/store"
	"github.com/triptally/triptally-backend/internal/utils"
	"github.com/triptally/triptally-backend/pkg/valueobjects"
	"github.com/triptally/triptally-backend/types"
)

// InvoiceService handles invoice generation and lifecycle. Mutations on the
// same trip are serialized through a per-trip lock shared with the ledger.
type InvoiceService struct {
	invoices     store.InvoiceStore
	expenses     store.ExpenseStore
	participants store.ParticipantStore
	tripLocks    *utils.KeyedMutex
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(invoices store.InvoiceStore, expenses store.ExpenseStore, participants store.ParticipantStore, tripLocks *utils.KeyedMutex) *InvoiceService {
	return &InvoiceService{
		invoices:     invoices,
		expenses:     expenses,
		participants: participants,
		tripLocks:    tripLocks,
	}
}

// PreviewUnbilled returns the participant's expense shares that have not yet
// been captured on any invoice, plus the version the next invoice would get.
func (s *InvoiceService) PreviewUnbilled(ctx context.Context, tripID, participantID string) (*types.UnbilledPreview, error) {
	participant, err := s.getParticipant(ctx, tripID, participantID)
	if err != nil {
		return nil, err
	}

	unbilled, err := s.unbilledExpenses(ctx, tripID, participantID)
	if err != nil {
		return nil, err
	}

	maxVersion, err := s.invoices.MaxVersion(ctx, participantID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	items := make([]types.UnbilledItem, 0, len(unbilled))
	total := decimal.Zero
	for _, e := range unbilled {
		share, err := expenseShare(e)
		if err != nil {
			return nil, err
		}
		items = append(items, types.UnbilledItem{
			ExpenseID:        e.ID,
			Name:             e.Name,
			OriginalAmount:   e.Amount,
			Currency:         e.Currency,
			BufferRate:       e.BufferRate,
			ParticipantCount: e.ParticipantCount(),
			ShareTHB:         share,
		})
		total = total.Add(share)
	}

	return &types.UnbilledPreview{
		ParticipantName: participant.Name,
		NextVersion:     maxVersion + 1,
		Items:           items,
		Total:           total,
	}, nil
}

// GenerateInvoice creates the next versioned invoice for a participant from
// the selected unbilled expenses. Each line is an immutable snapshot of the
// expense share at this moment.
func (s *InvoiceService) GenerateInvoice(ctx context.Context, tripID, participantID string, req *types.InvoiceGenerateRequest) (*types.Invoice, error) {
	s.tripLocks.Lock(tripID)
	defer s.tripLocks.Unlock(tripID)

	if _, err := s.getParticipant(ctx, tripID, participantID); err != nil {
		return nil, err
	}
	if len(req.ExpenseIDs) == 0 {
		return nil, apperrors.ValidationFailed("empty invoice", "at least one expense is required")
	}

	unbilled, err := s.unbilledExpenses(ctx, tripID, participantID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*types.Expense, len(unbilled))
	for _, e := range unbilled {
		byID[e.ID] = e
	}

	lines := make([]types.InvoiceLine, 0, len(req.ExpenseIDs))
	total := decimal.Zero
	for _, id := range req.ExpenseIDs {
		e, ok := byID[id]
		if !ok {
			return nil, apperrors.Conflict("expense not billable",
				fmt.Sprintf("expense %s is already billed or does not include this participant", id))
		}
		share, err := expenseShare(e)
		if err != nil {
			return nil, err
		}
		lines = append(lines, types.InvoiceLine{
			ExpenseID:        e.ID,
			Name:             e.Name,
			OriginalAmount:   e.Amount,
			Currency:         e.Currency,
			BufferRate:       e.BufferRate,
			ParticipantCount: e.ParticipantCount(),
			ShareTHB:         share,
		})
		total = total.Add(share)
	}

	maxVersion, err := s.invoices.MaxVersion(ctx, participantID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	inv := &types.Invoice{
		TripID:        tripID,
		ParticipantID: participantID,
		Version:       maxVersion + 1,
		Lines:         lines,
		GrandTotal:    total,
		Status:        types.InvoiceStatusUnpaid,
	}
	if _, err := s.invoices.CreateInvoice(ctx, inv); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.Conflict("version clash", "another invoice was generated concurrently, retry")
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return inv, nil
}

// GetInvoice returns one invoice with its snapshot lines.
func (s *InvoiceService) GetInvoice(ctx context.Context, tripID, id string) (*types.Invoice, error) {
	inv, err := s.invoices.GetInvoice(ctx, tripID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Invoice", id)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return inv, nil
}

// ListInvoices returns every invoice of the trip, newest first.
func (s *InvoiceService) ListInvoices(ctx context.Context, tripID string) ([]*types.InvoiceSummary, error) {
	list, err := s.invoices.ListInvoices(ctx, tripID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return list, nil
}

// History returns a participant's invoices in version order.
func (s *InvoiceService) History(ctx context.Context, tripID, participantID string) ([]*types.Invoice, error) {
	if _, err := s.getParticipant(ctx, tripID, participantID); err != nil {
		return nil, err
	}
	list, err := s.invoices.ListInvoicesForParticipant(ctx, tripID, participantID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return list, nil
}

// DeleteInvoice voids an unpaid invoice, returning its expenses to the
// unbilled pool. Paid invoices must have their receipt voided first. Version
// numbers of later invoices are not renumbered.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, tripID, id string) error {
	s.tripLocks.Lock(tripID)
	defer s.tripLocks.Unlock(tripID)

	inv, err := s.GetInvoice(ctx, tripID, id)
	if err != nil {
		return err
	}
	if inv.Status == types.InvoiceStatusPaid {
		return apperrors.Conflict("invoice paid", "void the covering receipt before deleting this invoice")
	}

	if err := s.invoices.DeleteInvoice(ctx, tripID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Invoice", id)
		}
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// unbilledExpenses returns the participant's expenses absent from all of their
// active invoices.
func (s *InvoiceService) unbilledExpenses(ctx context.Context, tripID, participantID string) ([]*types.Expense, error) {
	expenses, err := s.expenses.ListExpensesForParticipant(ctx, tripID, participantID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	billed, err := s.invoices.BilledExpenseIDs(ctx, participantID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	billedSet := make(map[string]bool, len(billed))
	for _, id := range billed {
		billedSet[id] = true
	}

	unbilled := make([]*types.Expense, 0, len(expenses))
	for _, e := range expenses {
		if !billedSet[e.ID] {
			unbilled = append(unbilled, e)
		}
	}
	return unbilled, nil
}

func (s *InvoiceService) getParticipant(ctx context.Context, tripID, id string) (*types.Participant, error) {
	p, err := s.participants.GetParticipant(ctx, tripID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Participant", id)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return p, nil
}

// expenseShare computes one participant's rounded settlement share of an
// expense. Rounding happens here, at the snapshot point.
func expenseShare(e *types.Expense) (decimal.Decimal, error) {
	collected, err := valueobjects.ToSettlement(e.Amount, e.Currency, e.BufferRate)
	if err != nil {
		return decimal.Zero, err
	}
	share, err := valueobjects.EvenShare(collected, e.ParticipantCount())
	if err != nil {
		return decimal.Zero, err
	}
	return valueobjects.RoundSettlement(share), nil
}
