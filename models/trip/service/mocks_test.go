package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/triptally/triptally-backend/types"
)

// MockTripStore implements store.TripStore
type MockTripStore struct{ mock.Mock }

func (m *MockTripStore) CreateTrip(ctx context.Context, trip *types.Trip) (string, error) {
	args := m.Called(ctx, trip)
	return args.String(0), args.Error(1)
}
func (m *MockTripStore) GetTrip(ctx context.Context, id string) (*types.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Trip), args.Error(1)
}
func (m *MockTripStore) ListTrips(ctx context.Context) ([]*types.Trip, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Trip), args.Error(1)
}
func (m *MockTripStore) UpdateTrip(ctx context.Context, id string, update *types.TripUpdate) (*types.Trip, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Trip), args.Error(1)
}

// MockParticipantStore implements store.ParticipantStore
type MockParticipantStore struct{ mock.Mock }

func (m *MockParticipantStore) CreateParticipant(ctx context.Context, p *types.Participant) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}
func (m *MockParticipantStore) GetParticipant(ctx context.Context, tripID, id string) (*types.Participant, error) {
	args := m.Called(ctx, tripID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Participant), args.Error(1)
}
func (m *MockParticipantStore) GetParticipantByName(ctx context.Context, tripID, name string) (*types.Participant, error) {
	args := m.Called(ctx, tripID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Participant), args.Error(1)
}
func (m *MockParticipantStore) ListParticipants(ctx context.Context, tripID string) ([]*types.Participant, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Participant), args.Error(1)
}
func (m *MockParticipantStore) DeleteParticipant(ctx context.Context, tripID, id string) error {
	args := m.Called(ctx, tripID, id)
	return args.Error(0)
}

// MockExpenseStore implements store.ExpenseStore
type MockExpenseStore struct{ mock.Mock }

func (m *MockExpenseStore) CreateExpense(ctx context.Context, e *types.Expense) (string, error) {
	args := m.Called(ctx, e)
	return args.String(0), args.Error(1)
}
func (m *MockExpenseStore) GetExpense(ctx context.Context, tripID, id string) (*types.Expense, error) {
	args := m.Called(ctx, tripID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Expense), args.Error(1)
}
func (m *MockExpenseStore) ListExpenses(ctx context.Context, tripID string) ([]*types.Expense, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Expense), args.Error(1)
}
func (m *MockExpenseStore) ListExpensesForParticipant(ctx context.Context, tripID, participantID string) ([]*types.Expense, error) {
	args := m.Called(ctx, tripID, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Expense), args.Error(1)
}
func (m *MockExpenseStore) UpdateExpense(ctx context.Context, e *types.Expense) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockExpenseStore) DeleteExpense(ctx context.Context, tripID, id string) error {
	args := m.Called(ctx, tripID, id)
	return args.Error(0)
}
func (m *MockExpenseStore) SetPayment(ctx context.Context, tripID, expenseID string, p *types.Payment) error {
	args := m.Called(ctx, tripID, expenseID, p)
	return args.Error(0)
}
func (m *MockExpenseStore) ClearPayment(ctx context.Context, tripID, expenseID string) error {
	args := m.Called(ctx, tripID, expenseID)
	return args.Error(0)
}
func (m *MockExpenseStore) IsParticipantReferenced(ctx context.Context, participantID string) (bool, error) {
	args := m.Called(ctx, participantID)
	return args.Bool(0), args.Error(1)
}

