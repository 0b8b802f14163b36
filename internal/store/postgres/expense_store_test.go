package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/triptally/triptally-backend/internal/store"
	"github.com/triptally/triptally-backend/types"
)

func fkViolation() error {
	return &pgconn.PgError{Code: pgErrForeignKeyViolation, Message: "violates foreign key constraint"}
}

func TestExpenseStore_CreateExpense(t *testing.T) {
	mock := newMockPool(t)
	s := NewExpenseStore(mock)

	e := &types.Expense{
		TripID:         "trip-1",
		Name:           "Ryokan",
		Amount:         decimal.RequireFromString("42000"),
		Currency:       types.CurrencyJPY,
		BufferRate:     decimal.RequireFromString("0.26"),
		ParticipantIDs: []string{"part-1", "part-2"},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO expenses`).
		WithArgs(e.TripID, e.Name, e.Amount, e.Currency, e.BufferRate).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).
			AddRow("exp-1", time.Now()))
	mock.ExpectExec(`INSERT INTO expense_participants`).
		WithArgs("exp-1", "part-1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO expense_participants`).
		WithArgs("exp-1", "part-2").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	id, err := s.CreateExpense(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, "exp-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseStore_CreateExpense_RollsBackOnUnknownParticipant(t *testing.T) {
	mock := newMockPool(t)
	s := NewExpenseStore(mock)

	e := &types.Expense{
		TripID:         "trip-1",
		Name:           "Ryokan",
		Amount:         decimal.RequireFromString("42000"),
		Currency:       types.CurrencyJPY,
		BufferRate:     decimal.RequireFromString("0.26"),
		ParticipantIDs: []string{"ghost"},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO expenses`).
		WithArgs(e.TripID, e.Name, e.Amount, e.Currency, e.BufferRate).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).
			AddRow("exp-1", time.Now()))
	mock.ExpectExec(`INSERT INTO expense_participants`).
		WithArgs("exp-1", "ghost").
		WillReturnError(fkViolation())
	mock.ExpectRollback()

	_, err := s.CreateExpense(context.Background(), e)
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseStore_SetPayment(t *testing.T) {
	mock := newMockPool(t)
	s := NewExpenseStore(mock)

	p := &types.Payment{
		ActualAmount:   decimal.RequireFromString("41500"),
		ActualCurrency: types.CurrencyJPY,
		ActualTHB:      decimal.RequireFromString("10375.00"),
		ActualDate:     time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		ActualMethod:   "credit card",
	}

	mock.ExpectExec(`UPDATE expenses`).
		WithArgs(p.ActualAmount, p.ActualCurrency, p.ActualTHB, p.ActualDate, p.ActualMethod,
			"trip-1", "exp-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.SetPayment(context.Background(), "trip-1", "exp-1", p)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseStore_SetPayment_NotFound(t *testing.T) {
	mock := newMockPool(t)
	s := NewExpenseStore(mock)

	p := &types.Payment{
		ActualAmount:   decimal.RequireFromString("100"),
		ActualCurrency: types.CurrencyTHB,
		ActualTHB:      decimal.RequireFromString("100"),
		ActualDate:     time.Now(),
		ActualMethod:   "cash",
	}

	mock.ExpectExec(`UPDATE expenses`).
		WithArgs(p.ActualAmount, p.ActualCurrency, p.ActualTHB, p.ActualDate, p.ActualMethod,
			"trip-1", "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.SetPayment(context.Background(), "trip-1", "missing", p)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestExpenseStore_ClearPayment(t *testing.T) {
	mock := newMockPool(t)
	s := NewExpenseStore(mock)

	mock.ExpectExec(`UPDATE expenses`).
		WithArgs("trip-1", "exp-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.ClearPayment(context.Background(), "trip-1", "exp-1")
	require.NoError(t, err)
}

func TestExpenseStore_DeleteExpense_NotFound(t *testing.T) {
	mock := newMockPool(t)
	s := NewExpenseStore(mock)

	mock.ExpectExec(`DELETE FROM expenses`).
		WithArgs("trip-1", "missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := s.DeleteExpense(context.Background(), "trip-1", "missing")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestExpenseStore_IsParticipantReferenced(t *testing.T) {
	mock := newMockPool(t)
	s := NewExpenseStore(mock)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("part-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	referenced, err := s.IsParticipantReferenced(context.Background(), "part-1")
	require.NoError(t, err)
	assert.True(t, referenced)
}
