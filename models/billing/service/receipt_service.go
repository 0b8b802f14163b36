package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	apperrors "github.com/triptally/triptally-backend/errors"
	"github.com/triptally/triptally-backend/internal/store"
	"github.com/triptally/triptally-backend/internal/utils"
	"github.com/triptally/triptally-backend/types"
)

// ReceiptService handles receipt generation and voiding.
type ReceiptService struct {
	receipts     store.ReceiptStore
	invoices     store.InvoiceStore
	participants store.ParticipantStore
	tripLocks    *utils.KeyedMutex
}

// NewReceiptService creates a new receipt service.
func NewReceiptService(receipts store.ReceiptStore, invoices store.InvoiceStore, participants store.ParticipantStore, tripLocks *utils.KeyedMutex) *ReceiptService {
	return &ReceiptService{
		receipts:     receipts,
		invoices:     invoices,
		participants: participants,
		tripLocks:    tripLocks,
	}
}

// PreviewUnpaid returns the participant's unpaid invoices, the candidates for
// the next receipt.
func (s *ReceiptService) PreviewUnpaid(ctx context.Context, tripID, participantID string) ([]*types.Invoice, error) {
	if _, err := s.getParticipant(ctx, tripID, participantID); err != nil {
		return nil, err
	}
	list, err := s.invoices.ListUnpaidInvoices(ctx, tripID, participantID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return list, nil
}

// GenerateReceipt settles the selected unpaid invoices in one atomic step:
// the receipt is created and every invoice flips to paid carrying the receipt
// number, or nothing happens at all.
func (s *ReceiptService) GenerateReceipt(ctx context.Context, tripID, participantID string, req *types.ReceiptGenerateRequest) (*types.Receipt, error) {
	s.tripLocks.Lock(tripID)
	defer s.tripLocks.Unlock(tripID)

	if _, err := s.getParticipant(ctx, tripID, participantID); err != nil {
		return nil, err
	}
	if len(req.InvoiceIDs) == 0 {
		return nil, apperrors.ValidationFailed("empty receipt", "at least one invoice is required")
	}

	total := decimal.Zero
	seen := make(map[string]bool, len(req.InvoiceIDs))
	for _, id := range req.InvoiceIDs {
		if seen[id] {
			return nil, apperrors.ValidationFailed("duplicate invoice",
				fmt.Sprintf("invoice %s is listed more than once", id))
		}
		seen[id] = true

		inv, err := s.invoices.GetInvoice(ctx, tripID, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, apperrors.NotFound("Invoice", id)
			}
			return nil, apperrors.NewDatabaseError(err)
		}
		if inv.ParticipantID != participantID {
			return nil, apperrors.Conflict("foreign invoice",
				fmt.Sprintf("invoice %s belongs to another participant", id))
		}
		if inv.Status != types.InvoiceStatusUnpaid {
			return nil, apperrors.Conflict("invoice already paid",
				fmt.Sprintf("invoice %s is already covered by receipt #%d", id, derefInt(inv.ReceiptNumber)))
		}
		total = total.Add(inv.GrandTotal)
	}

	maxNumber, err := s.receipts.MaxReceiptNumber(ctx, participantID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	r := &types.Receipt{
		TripID:        tripID,
		ParticipantID: participantID,
		ReceiptNumber: maxNumber + 1,
		InvoiceIDs:    req.InvoiceIDs,
		TotalTHB:      total,
		PaymentMethod: req.PaymentMethod,
	}
	// The store re-checks invoice status and ownership inside its transaction
	// and rolls everything back on any mismatch.
	if _, err := s.receipts.CreateReceipt(ctx, r); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, apperrors.Conflict("invoice state changed", "one or more invoices are no longer payable, retry")
		}
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.Conflict("number clash", "another receipt was generated concurrently, retry")
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return r, nil
}

// GetReceiptDetail returns a receipt with the aggregated line items of every
// invoice it settled.
func (s *ReceiptService) GetReceiptDetail(ctx context.Context, tripID, id string) (*types.ReceiptDetail, error) {
	r, err := s.receipts.GetReceipt(ctx, tripID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Receipt", id)
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	participant, err := s.getParticipant(ctx, tripID, r.ParticipantID)
	if err != nil {
		return nil, err
	}

	detail := &types.ReceiptDetail{
		Receipt:         *r,
		ParticipantName: participant.Name,
		Items:           []types.InvoiceLine{},
		Invoices:        []types.InvoiceSummary{},
	}
	for _, invoiceID := range r.InvoiceIDs {
		inv, err := s.invoices.GetInvoice(ctx, tripID, invoiceID)
		if err != nil {
			return nil, apperrors.NewDatabaseError(err)
		}
		detail.Items = append(detail.Items, inv.Lines...)
		detail.Invoices = append(detail.Invoices, types.InvoiceSummary{
			ID:              inv.ID,
			TripID:          inv.TripID,
			ParticipantID:   inv.ParticipantID,
			ParticipantName: participant.Name,
			Version:         inv.Version,
			GrandTotal:      inv.GrandTotal,
			Status:          inv.Status,
			ReceiptNumber:   inv.ReceiptNumber,
			GeneratedAt:     inv.GeneratedAt,
		})
	}
	return detail, nil
}

// ReceiptHistory returns the participant's receipts, oldest number first.
func (s *ReceiptService) ReceiptHistory(ctx context.Context, tripID, participantID string) ([]*types.Receipt, error) {
	if _, err := s.getParticipant(ctx, tripID, participantID); err != nil {
		return nil, err
	}
	list, err := s.receipts.ListReceiptsForParticipant(ctx, tripID, participantID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return list, nil
}

// ListReceipts returns every receipt of the trip.
func (s *ReceiptService) ListReceipts(ctx context.Context, tripID string) ([]*types.ReceiptSummary, error) {
	list, err := s.receipts.ListReceipts(ctx, tripID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return list, nil
}

// DeleteReceipt voids a receipt: every invoice it settled reverts to unpaid
// with its receipt number cleared, atomically with the deletion.
func (s *ReceiptService) DeleteReceipt(ctx context.Context, tripID, id string) error {
	s.tripLocks.Lock(tripID)
	defer s.tripLocks.Unlock(tripID)

	if err := s.receipts.DeleteReceipt(ctx, tripID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Receipt", id)
		}
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// OverviewStats aggregates billing progress across the trip.
func (s *ReceiptService) OverviewStats(ctx context.Context, tripID string) (*types.OverviewStats, error) {
	invoices, err := s.invoices.ListInvoices(ctx, tripID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	receipts, err := s.receipts.ListReceipts(ctx, tripID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	stats := &types.OverviewStats{
		TotalInvoices: len(invoices),
		TotalReceipts: len(receipts),
	}
	for _, inv := range invoices {
		stats.TotalInvoicedAmount = stats.TotalInvoicedAmount.Add(inv.GrandTotal)
		if inv.Status == types.InvoiceStatusPaid {
			stats.PaidInvoices++
			stats.PaidAmount = stats.PaidAmount.Add(inv.GrandTotal)
		} else {
			stats.UnpaidInvoices++
			stats.UnpaidAmount = stats.UnpaidAmount.Add(inv.GrandTotal)
		}
	}
	for _, r := range receipts {
		stats.TotalReceived = stats.TotalReceived.Add(r.TotalTHB)
	}
	return stats, nil
}

func (s *ReceiptService) getParticipant(ctx context.Context, tripID, id string) (*types.Participant, error) {
	p, err := s.participants.GetParticipant(ctx, tripID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Participant", id)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return p, nil
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
