// Package service implements end-of-trip reconciliation: comparing what was
// collected from each traveler against what their expenses actually cost.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	apperrors "github.com/triptally/triptally-backend/errors"
	"github.com/triptally/triptally-backend/internal/store"
	"github.com/triptally/triptally-backend/pkg/valueobjects"
	"github.com/triptally/triptally-backend/types"
)

// ReconciliationService produces refund statements and trip-wide summaries.
// It only reads, so it takes no trip lock.
type ReconciliationService struct {
	trips        store.TripStore
	participants store.ParticipantStore
	expenses     store.ExpenseStore
}

// NewReconciliationService creates a new reconciliation service.
func NewReconciliationService(trips store.TripStore, participants store.ParticipantStore, expenses store.ExpenseStore) *ReconciliationService {
	return &ReconciliationService{
		trips:        trips,
		participants: participants,
		expenses:     expenses,
	}
}

// Statement builds the refund statement for one participant. Only paid
// expenses enter the collected and actual columns; the refund is what was
// collected for the paid subset minus what that subset actually cost.
// TotalBudgeted additionally covers expenses not yet paid.
func (s *ReconciliationService) Statement(ctx context.Context, tripID, participantID string) (*types.RefundStatement, error) {
	trip, err := s.trips.GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Trip", tripID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	participant, err := s.participants.GetParticipant(ctx, tripID, participantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Participant", participantID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	expenses, err := s.expenses.ListExpensesForParticipant(ctx, tripID, participantID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	statement := &types.RefundStatement{
		ParticipantName: participant.Name,
		TripName:        trip.Name,
		GeneratedAt:     time.Now().UTC(),
		CollectedItems:  []types.CollectedItem{},
		ActualItems:     []types.ActualItem{},
	}

	for _, e := range expenses {
		collected, actual, err := shares(e)
		if err != nil {
			return nil, err
		}
		statement.TotalBudgeted = statement.TotalBudgeted.Add(collected)
		if !e.IsPaid() {
			continue
		}

		statement.CollectedItems = append(statement.CollectedItems, types.CollectedItem{
			ExpenseName:      e.Name,
			OriginalAmount:   e.Amount,
			Currency:         e.Currency,
			BufferRate:       e.BufferRate,
			ParticipantCount: e.ParticipantCount(),
			CollectedTHB:     collected,
		})
		statement.ActualItems = append(statement.ActualItems, types.ActualItem{
			ExpenseName:      e.Name,
			PaidAmount:       e.Payment.ActualAmount,
			PaidCurrency:     e.Payment.ActualCurrency,
			ActualTHB:        e.Payment.ActualTHB,
			ParticipantCount: e.ParticipantCount(),
			CostTHB:          actual,
		})
		statement.TotalCollected = statement.TotalCollected.Add(collected)
		statement.TotalActual = statement.TotalActual.Add(actual)
	}

	statement.RefundAmount = statement.TotalCollected.Sub(statement.TotalActual)
	return statement, nil
}

// Summary builds the trip-wide reconciliation table, one row per participant.
// A participant with no paid expenses shows zero surplus.
func (s *ReconciliationService) Summary(ctx context.Context, tripID string) ([]*types.ReconciliationRow, error) {
	participants, err := s.participants.ListParticipants(ctx, tripID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	rows := make([]*types.ReconciliationRow, 0, len(participants))
	for _, p := range participants {
		expenses, err := s.expenses.ListExpensesForParticipant(ctx, tripID, p.ID)
		if err != nil {
			return nil, apperrors.NewDatabaseError(err)
		}

		row := &types.ReconciliationRow{ParticipantName: p.Name}
		for _, e := range expenses {
			if !e.IsPaid() {
				continue
			}
			collected, actual, err := shares(e)
			if err != nil {
				return nil, err
			}
			row.TotalCollected = row.TotalCollected.Add(collected)
			row.TotalActual = row.TotalActual.Add(actual)
		}
		row.SurplusDeficit = row.TotalCollected.Sub(row.TotalActual)
		rows = append(rows, row)
	}
	return rows, nil
}

// shares returns a participant's rounded collected share and, when the expense
// is paid, their rounded share of the actual cost. The actual share is zero
// for unpaid expenses.
func shares(e *types.Expense) (collected, actual decimal.Decimal, err error) {
	collectedTotal, err := valueobjects.ToSettlement(e.Amount, e.Currency, e.BufferRate)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	collectedShare, err := valueobjects.EvenShare(collectedTotal, e.ParticipantCount())
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	collected = valueobjects.RoundSettlement(collectedShare)

	if !e.IsPaid() {
		return collected, decimal.Zero, nil
	}
	actualShare, err := valueobjects.EvenShare(e.Payment.ActualTHB, e.ParticipantCount())
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return collected, valueobjects.RoundSettlement(actualShare), nil
}
