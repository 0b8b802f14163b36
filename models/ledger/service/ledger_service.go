// Package service implements the expense ledger business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	apperrors "github.com/triptally/triptally-backend/errors"
	"github.com/triptally/triptally-backend/internal/store"
	"github.com/triptally/triptally-backend/internal/utils"
	"github.com/triptally/triptally-backend/pkg/valueobjects"
	"github.com/triptally/triptally-backend/types"
)

const paymentDateLayout = "2006-01-02"

// LedgerService handles expense and payment business logic. Mutations on the
// same trip are serialized through a per-trip lock.
type LedgerService struct {
	expenses     store.ExpenseStore
	participants store.ParticipantStore
	invoices     store.InvoiceStore
	trips        store.TripStore
	tripLocks    *utils.KeyedMutex
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(expenses store.ExpenseStore, participants store.ParticipantStore, invoices store.InvoiceStore, trips store.TripStore, tripLocks *utils.KeyedMutex) *LedgerService {
	return &LedgerService{
		expenses:     expenses,
		participants: participants,
		invoices:     invoices,
		trips:        trips,
		tripLocks:    tripLocks,
	}
}

// AddExpense creates an expense split evenly across its participants. The
// buffer rate falls back to the trip default when the request omits one.
func (s *LedgerService) AddExpense(ctx context.Context, tripID string, create *types.ExpenseCreate) (*types.ExpenseResponse, error) {
	s.tripLocks.Lock(tripID)
	defer s.tripLocks.Unlock(tripID)

	trip, err := s.trips.GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Trip", tripID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	rate := trip.DefaultBufferRate
	if create.BufferRate != nil {
		rate = *create.BufferRate
	}

	e := &types.Expense{
		TripID:         tripID,
		Name:           strings.TrimSpace(create.Name),
		Amount:         create.Amount,
		Currency:       create.Currency,
		BufferRate:     rate,
		ParticipantIDs: create.ParticipantIDs,
	}
	if err := s.validateExpense(ctx, e); err != nil {
		return nil, err
	}

	if _, err := s.expenses.CreateExpense(ctx, e); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, apperrors.ValidationFailed("unknown participant", "one or more participant ids do not exist")
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return s.toResponse(ctx, e, nil)
}

// UpdateExpense replaces the expense's mutable fields and its participant set.
// Expenses already billed on an invoice cannot be edited; the invoice lines
// are snapshots and would no longer agree with the ledger.
func (s *LedgerService) UpdateExpense(ctx context.Context, tripID, id string, update *types.ExpenseUpdate) (*types.ExpenseResponse, error) {
	s.tripLocks.Lock(tripID)
	defer s.tripLocks.Unlock(tripID)

	existing, err := s.getExpense(ctx, tripID, id)
	if err != nil {
		return nil, err
	}

	count, err := s.invoices.InvoiceCountForExpense(ctx, id)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	if count > 0 {
		return nil, apperrors.Conflict("expense billed",
			fmt.Sprintf("expense appears on %d invoice(s); delete those invoices first", count))
	}

	existing.Name = strings.TrimSpace(update.Name)
	existing.Amount = update.Amount
	existing.Currency = update.Currency
	if update.BufferRate != nil {
		existing.BufferRate = *update.BufferRate
	}
	existing.ParticipantIDs = update.ParticipantIDs
	if err := s.validateExpense(ctx, existing); err != nil {
		return nil, err
	}

	if err := s.expenses.UpdateExpense(ctx, existing); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, apperrors.ValidationFailed("unknown participant", "one or more participant ids do not exist")
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return s.toResponse(ctx, existing, nil)
}

// DeleteExpense removes an expense. Expenses already billed on an invoice
// cannot be deleted; void the invoices first.
func (s *LedgerService) DeleteExpense(ctx context.Context, tripID, id string) error {
	s.tripLocks.Lock(tripID)
	defer s.tripLocks.Unlock(tripID)

	count, err := s.invoices.InvoiceCountForExpense(ctx, id)
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	if count > 0 {
		return apperrors.Conflict("expense billed",
			fmt.Sprintf("expense appears on %d invoice(s); delete those invoices first", count))
	}

	if err := s.expenses.DeleteExpense(ctx, tripID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Expense", id)
		}
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// GetExpense returns one expense with its derived settlement figures.
func (s *LedgerService) GetExpense(ctx context.Context, tripID, id string) (*types.ExpenseResponse, error) {
	e, err := s.getExpense(ctx, tripID, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, e, nil)
}

// ListExpenses returns every expense of the trip with derived figures.
func (s *LedgerService) ListExpenses(ctx context.Context, tripID string) ([]*types.ExpenseResponse, error) {
	expenses, err := s.expenses.ListExpenses(ctx, tripID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	versions, err := s.invoices.ExpenseInvoiceVersions(ctx, tripID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	responses := make([]*types.ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		resp, err := s.toResponse(ctx, e, versions[e.ID])
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// LogPayment records the actual spend against an expense, marking it paid.
// Logging again overwrites the previous payment.
func (s *LedgerService) LogPayment(ctx context.Context, tripID, expenseID string, req *types.LogPaymentRequest) (*types.ExpenseResponse, error) {
	s.tripLocks.Lock(tripID)
	defer s.tripLocks.Unlock(tripID)

	date, err := time.Parse(paymentDateLayout, req.Date)
	if err != nil {
		return nil, apperrors.ValidationFailed("invalid date",
			fmt.Sprintf("payment date must be formatted as %s", paymentDateLayout))
	}
	if !valueobjects.IsValidCurrency(req.ActualCurrency) {
		return nil, apperrors.ValidationFailed("invalid currency",
			fmt.Sprintf("currency %s is not supported", req.ActualCurrency))
	}
	if req.ActualAmount.LessThanOrEqual(decimal.Zero) || req.ActualTHB.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.ValidationFailed("invalid payment", "actual amounts must be positive")
	}

	p := &types.Payment{
		ActualAmount:   req.ActualAmount,
		ActualCurrency: req.ActualCurrency,
		ActualTHB:      req.ActualTHB,
		ActualDate:     date,
		ActualMethod:   strings.TrimSpace(req.Method),
	}
	if err := s.expenses.SetPayment(ctx, tripID, expenseID, p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Expense", expenseID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return s.GetExpense(ctx, tripID, expenseID)
}

// ClearPayment removes the logged payment, reverting the expense to unpaid.
func (s *LedgerService) ClearPayment(ctx context.Context, tripID, expenseID string) (*types.ExpenseResponse, error) {
	s.tripLocks.Lock(tripID)
	defer s.tripLocks.Unlock(tripID)

	if err := s.expenses.ClearPayment(ctx, tripID, expenseID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Expense", expenseID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return s.GetExpense(ctx, tripID, expenseID)
}

func (s *LedgerService) getExpense(ctx context.Context, tripID, id string) (*types.Expense, error) {
	e, err := s.expenses.GetExpense(ctx, tripID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Expense", id)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return e, nil
}

func (s *LedgerService) validateExpense(ctx context.Context, e *types.Expense) error {
	if e.Name == "" {
		return apperrors.ValidationFailed("invalid expense", "expense name must not be empty")
	}
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return apperrors.ValidationFailed("invalid expense", "amount must be positive")
	}
	if len(e.ParticipantIDs) == 0 {
		return apperrors.ValidationFailed("invalid expense", "at least one participant is required")
	}
	// Surfaces unsupported currencies and non-positive JPY rates up front.
	if _, err := valueobjects.ToSettlement(e.Amount, e.Currency, e.BufferRate); err != nil {
		return err
	}

	for _, pid := range e.ParticipantIDs {
		if _, err := s.participants.GetParticipant(ctx, e.TripID, pid); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperrors.ValidationFailed("unknown participant",
					fmt.Sprintf("participant %s is not on this trip", pid))
			}
			return apperrors.NewDatabaseError(err)
		}
	}
	return nil
}

// toResponse computes the derived settlement figures. versions may be nil, in
// which case the invoice versions are looked up per expense.
func (s *LedgerService) toResponse(ctx context.Context, e *types.Expense, versions []int) (*types.ExpenseResponse, error) {
	collected, err := valueobjects.ToSettlement(e.Amount, e.Currency, e.BufferRate)
	if err != nil {
		return nil, err
	}
	perPerson, err := valueobjects.EvenShare(collected, e.ParticipantCount())
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(e.ParticipantIDs))
	for _, pid := range e.ParticipantIDs {
		p, err := s.participants.GetParticipant(ctx, e.TripID, pid)
		if err != nil {
			return nil, apperrors.NewDatabaseError(err)
		}
		names = append(names, p.Name)
	}

	if versions == nil {
		all, err := s.invoices.ExpenseInvoiceVersions(ctx, e.TripID)
		if err != nil {
			return nil, apperrors.NewDatabaseError(err)
		}
		versions = all[e.ID]
	}
	if versions == nil {
		versions = []int{}
	}

	return &types.ExpenseResponse{
		Expense:          *e,
		ParticipantNames: names,
		CollectedTHB:     valueobjects.RoundSettlement(collected),
		PerPersonTHB:     valueobjects.RoundSettlement(perPerson),
		IsPaid:           e.IsPaid(),
		IsInvoiced:       len(versions) > 0,
		InvoiceVersions:  versions,
	}, nil
}
