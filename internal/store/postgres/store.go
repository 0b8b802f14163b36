// Package postgres implements the store interfaces against PostgreSQL using pgx.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/triptally/triptally-backend/internal/store"
)

// DB is the subset of pgxpool.Pool the stores depend on. pgxmock satisfies it
// in tests.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Store bundles all aggregate stores over a single connection pool.
type Store struct {
	trips        *TripStore
	participants *ParticipantStore
	expenses     *ExpenseStore
	invoices     *InvoiceStore
	receipts     *ReceiptStore
}

// New creates the aggregate store.
func New(db DB) *Store {
	return &Store{
		trips:        NewTripStore(db),
		participants: NewParticipantStore(db),
		expenses:     NewExpenseStore(db),
		invoices:     NewInvoiceStore(db),
		receipts:     NewReceiptStore(db),
	}
}

func (s *Store) Trips() store.TripStore               { return s.trips }
func (s *Store) Participants() store.ParticipantStore { return s.participants }
func (s *Store) Expenses() store.ExpenseStore         { return s.expenses }
func (s *Store) Invoices() store.InvoiceStore         { return s.invoices }
func (s *Store) Receipts() store.ReceiptStore         { return s.receipts }

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

// mapError translates pgx errors into store-level sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrUniqueViolation:
			return store.ErrDuplicate
		case pgErrForeignKeyViolation:
			return store.ErrConflict
		}
	}
	return err
}

// rollback is a best-effort tx rollback used in defer blocks.
func rollback(ctx context.Context, tx pgx.Tx) {
	_ = tx.Rollback(ctx)
}
