package postgres

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/triptally/triptally-backend/internal/store"
	"github.com/triptally/triptally-backend/types"
)

// ExpenseStore implements store.ExpenseStore using PostgreSQL
type ExpenseStore struct {
	db DB
}

// NewExpenseStore creates a new ExpenseStore instance
func NewExpenseStore(db DB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

const expenseColumns = `
	e.id, e.trip_id, e.name, e.amount, e.currency, e.buffer_rate,
	e.actual_amount, e.actual_currency, e.actual_thb, e.actual_date, e.actual_method,
	e.created_at,
	COALESCE(array_agg(ep.participant_id ORDER BY ep.participant_id)
		FILTER (WHERE ep.participant_id IS NOT NULL), '{}')`

func (s *ExpenseStore) CreateExpense(ctx context.Context, e *types.Expense) (string, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer rollback(ctx, tx)

	query := `
		INSERT INTO expenses (trip_id, name, amount, currency, buffer_rate)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	var id string
	err = tx.QueryRow(ctx, query,
		e.TripID, e.Name, e.Amount, e.Currency, e.BufferRate,
	).Scan(&id, &e.CreatedAt)
	if err != nil {
		return "", mapError(err)
	}

	for _, pid := range e.ParticipantIDs {
		_, err = tx.Exec(ctx,
			`INSERT INTO expense_participants (expense_id, participant_id) VALUES ($1, $2)`,
			id, pid,
		)
		if err != nil {
			return "", mapError(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	e.ID = id
	return id, nil
}

func (s *ExpenseStore) GetExpense(ctx context.Context, tripID, id string) (*types.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses e
		LEFT JOIN expense_participants ep ON e.id = ep.expense_id
		WHERE e.trip_id = $1 AND e.id = $2
		GROUP BY e.id`

	row := s.db.QueryRow(ctx, query, tripID, id)
	expense, err := scanExpense(row)
	if err != nil {
		return nil, mapError(err)
	}
	return expense, nil
}

func (s *ExpenseStore) ListExpenses(ctx context.Context, tripID string) ([]*types.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses e
		LEFT JOIN expense_participants ep ON e.id = ep.expense_id
		WHERE e.trip_id = $1
		GROUP BY e.id
		ORDER BY e.created_at DESC`

	return s.listExpenses(ctx, query, tripID)
}

func (s *ExpenseStore) ListExpensesForParticipant(ctx context.Context, tripID, participantID string) ([]*types.Expense, error) {
	// The inner EXISTS keeps the outer aggregation over the full participant
	// set so share denominators stay correct.
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses e
		LEFT JOIN expense_participants ep ON e.id = ep.expense_id
		WHERE e.trip_id = $1 AND EXISTS (
			SELECT 1 FROM expense_participants m
			WHERE m.expense_id = e.id AND m.participant_id = $2
		)
		GROUP BY e.id
		ORDER BY e.created_at`

	return s.listExpenses(ctx, query, tripID, participantID)
}

func (s *ExpenseStore) UpdateExpense(ctx context.Context, e *types.Expense) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer rollback(ctx, tx)

	result, err := tx.Exec(ctx, `
		UPDATE expenses
		SET name = $1, amount = $2, currency = $3, buffer_rate = $4
		WHERE trip_id = $5 AND id = $6`,
		e.Name, e.Amount, e.Currency, e.BufferRate, e.TripID, e.ID,
	)
	if err != nil {
		return mapError(err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM expense_participants WHERE expense_id = $1`, e.ID,
	); err != nil {
		return mapError(err)
	}
	for _, pid := range e.ParticipantIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO expense_participants (expense_id, participant_id) VALUES ($1, $2)`,
			e.ID, pid,
		); err != nil {
			return mapError(err)
		}
	}

	return tx.Commit(ctx)
}

func (s *ExpenseStore) DeleteExpense(ctx context.Context, tripID, id string) error {
	// expense_participants rows go with it via ON DELETE CASCADE
	result, err := s.db.Exec(ctx,
		`DELETE FROM expenses WHERE trip_id = $1 AND id = $2`, tripID, id,
	)
	if err != nil {
		return mapError(err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *ExpenseStore) SetPayment(ctx context.Context, tripID, expenseID string, p *types.Payment) error {
	result, err := s.db.Exec(ctx, `
		UPDATE expenses
		SET actual_amount = $1, actual_currency = $2, actual_thb = $3,
			actual_date = $4, actual_method = $5
		WHERE trip_id = $6 AND id = $7`,
		p.ActualAmount, p.ActualCurrency, p.ActualTHB, p.ActualDate, p.ActualMethod,
		tripID, expenseID,
	)
	if err != nil {
		return mapError(err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *ExpenseStore) ClearPayment(ctx context.Context, tripID, expenseID string) error {
	result, err := s.db.Exec(ctx, `
		UPDATE expenses
		SET actual_amount = NULL, actual_currency = NULL, actual_thb = NULL,
			actual_date = NULL, actual_method = NULL
		WHERE trip_id = $1 AND id = $2`,
		tripID, expenseID,
	)
	if err != nil {
		return mapError(err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *ExpenseStore) IsParticipantReferenced(ctx context.Context, participantID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM expense_participants WHERE participant_id = $1)`,
		participantID,
	).Scan(&exists)
	if err != nil {
		return false, mapError(err)
	}
	return exists, nil
}

func (s *ExpenseStore) listExpenses(ctx context.Context, query string, args ...any) ([]*types.Expense, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var expenses []*types.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// scanExpense reads one expense row including the nullable payment columns and
// the aggregated participant id array.
func scanExpense(row pgx.Row) (*types.Expense, error) {
	e := &types.Expense{}
	var (
		actualAmount   decimal.NullDecimal
		actualCurrency sql.NullString
		actualTHB      decimal.NullDecimal
		actualDate     sql.NullTime
		actualMethod   sql.NullString
	)

	err := row.Scan(
		&e.ID,
		&e.TripID,
		&e.Name,
		&e.Amount,
		&e.Currency,
		&e.BufferRate,
		&actualAmount,
		&actualCurrency,
		&actualTHB,
		&actualDate,
		&actualMethod,
		&e.CreatedAt,
		&e.ParticipantIDs,
	)
	if err != nil {
		return nil, err
	}

	if actualAmount.Valid {
		e.Payment = &types.Payment{
			ActualAmount:   actualAmount.Decimal,
			ActualCurrency: types.Currency(actualCurrency.String),
			ActualTHB:      actualTHB.Decimal,
			ActualDate:     actualDate.Time,
			ActualMethod:   actualMethod.String,
		}
	}
	return e, nil
}
