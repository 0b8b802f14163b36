package postgres

import (
	"context"

	"github.com/triptally/triptally-backend/internal/store"
	"github.com/triptally/triptally-backend/types"
)

// InvoiceStore implements store.InvoiceStore using PostgreSQL
type InvoiceStore struct {
	db DB
}

// NewInvoiceStore creates a new InvoiceStore instance
func NewInvoiceStore(db DB) *InvoiceStore {
	return &InvoiceStore{db: db}
}

func (s *InvoiceStore) CreateInvoice(ctx context.Context, inv *types.Invoice) (string, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer rollback(ctx, tx)

	query := `
		INSERT INTO invoices (trip_id, participant_id, version, grand_total, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, generated_at`

	var id string
	err = tx.QueryRow(ctx, query,
		inv.TripID, inv.ParticipantID, inv.Version, inv.GrandTotal, inv.Status,
	).Scan(&id, &inv.GeneratedAt)
	if err != nil {
		return "", mapError(err)
	}

	for _, line := range inv.Lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO invoice_lines
				(invoice_id, expense_id, name, original_amount, currency, buffer_rate, participant_count, share_thb)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			id, line.ExpenseID, line.Name, line.OriginalAmount, line.Currency,
			line.BufferRate, line.ParticipantCount, line.ShareTHB,
		)
		if err != nil {
			return "", mapError(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	inv.ID = id
	return id, nil
}

func (s *InvoiceStore) GetInvoice(ctx context.Context, tripID, id string) (*types.Invoice, error) {
	query := `
		SELECT id, trip_id, participant_id, version, grand_total, status, receipt_number, generated_at
		FROM invoices
		WHERE trip_id = $1 AND id = $2`

	inv := &types.Invoice{}
	err := s.db.QueryRow(ctx, query, tripID, id).Scan(
		&inv.ID,
		&inv.TripID,
		&inv.ParticipantID,
		&inv.Version,
		&inv.GrandTotal,
		&inv.Status,
		&inv.ReceiptNumber,
		&inv.GeneratedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}

	lines, err := s.invoiceLines(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Lines = lines
	return inv, nil
}

func (s *InvoiceStore) ListInvoices(ctx context.Context, tripID string) ([]*types.InvoiceSummary, error) {
	query := `
		SELECT i.id, i.trip_id, i.participant_id, p.name, i.version, i.grand_total,
			i.status, i.receipt_number, i.generated_at
		FROM invoices i
		JOIN participants p ON i.participant_id = p.id
		WHERE i.trip_id = $1
		ORDER BY i.generated_at DESC`

	rows, err := s.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var summaries []*types.InvoiceSummary
	for rows.Next() {
		sum := &types.InvoiceSummary{}
		err := rows.Scan(
			&sum.ID,
			&sum.TripID,
			&sum.ParticipantID,
			&sum.ParticipantName,
			&sum.Version,
			&sum.GrandTotal,
			&sum.Status,
			&sum.ReceiptNumber,
			&sum.GeneratedAt,
		)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

func (s *InvoiceStore) ListInvoicesForParticipant(ctx context.Context, tripID, participantID string) ([]*types.Invoice, error) {
	query := `
		SELECT id, trip_id, participant_id, version, grand_total, status, receipt_number, generated_at
		FROM invoices
		WHERE trip_id = $1 AND participant_id = $2
		ORDER BY version`

	return s.listWithLines(ctx, query, tripID, participantID)
}

func (s *InvoiceStore) ListUnpaidInvoices(ctx context.Context, tripID, participantID string) ([]*types.Invoice, error) {
	query := `
		SELECT id, trip_id, participant_id, version, grand_total, status, receipt_number, generated_at
		FROM invoices
		WHERE trip_id = $1 AND participant_id = $2 AND status = 'unpaid'
		ORDER BY version`

	return s.listWithLines(ctx, query, tripID, participantID)
}

func (s *InvoiceStore) MaxVersion(ctx context.Context, participantID string) (int, error) {
	var version int
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM invoices WHERE participant_id = $1`,
		participantID,
	).Scan(&version)
	if err != nil {
		return 0, mapError(err)
	}
	return version, nil
}

func (s *InvoiceStore) BilledExpenseIDs(ctx context.Context, participantID string) ([]string, error) {
	query := `
		SELECT DISTINCT il.expense_id
		FROM invoice_lines il
		JOIN invoices i ON il.invoice_id = i.id
		WHERE i.participant_id = $1`

	rows, err := s.db.Query(ctx, query, participantID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *InvoiceStore) InvoiceCountForExpense(ctx context.Context, expenseID string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoice_lines WHERE expense_id = $1`,
		expenseID,
	).Scan(&count)
	if err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

func (s *InvoiceStore) ExpenseInvoiceVersions(ctx context.Context, tripID string) (map[string][]int, error) {
	query := `
		SELECT il.expense_id, i.version
		FROM invoice_lines il
		JOIN invoices i ON il.invoice_id = i.id
		WHERE i.trip_id = $1
		ORDER BY i.version`

	rows, err := s.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	versions := make(map[string][]int)
	for rows.Next() {
		var expenseID string
		var version int
		if err := rows.Scan(&expenseID, &version); err != nil {
			return nil, err
		}
		versions[expenseID] = append(versions[expenseID], version)
	}
	return versions, rows.Err()
}

func (s *InvoiceStore) DeleteInvoice(ctx context.Context, tripID, id string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer rollback(ctx, tx)

	// Lines first; unlinking them is what makes the expenses unbilled again.
	if _, err := tx.Exec(ctx,
		`DELETE FROM invoice_lines WHERE invoice_id = $1`, id,
	); err != nil {
		return mapError(err)
	}

	result, err := tx.Exec(ctx,
		`DELETE FROM invoices WHERE trip_id = $1 AND id = $2`, tripID, id,
	)
	if err != nil {
		return mapError(err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	return tx.Commit(ctx)
}

func (s *InvoiceStore) listWithLines(ctx context.Context, query string, args ...any) ([]*types.Invoice, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}

	var invoices []*types.Invoice
	for rows.Next() {
		inv := &types.Invoice{}
		err := rows.Scan(
			&inv.ID,
			&inv.TripID,
			&inv.ParticipantID,
			&inv.Version,
			&inv.GrandTotal,
			&inv.Status,
			&inv.ReceiptNumber,
			&inv.GeneratedAt,
		)
		if err != nil {
			rows.Close()
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, inv := range invoices {
		lines, err := s.invoiceLines(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		inv.Lines = lines
	}
	return invoices, nil
}

func (s *InvoiceStore) invoiceLines(ctx context.Context, invoiceID string) ([]types.InvoiceLine, error) {
	query := `
		SELECT expense_id, name, original_amount, currency, buffer_rate, participant_count, share_thb
		FROM invoice_lines
		WHERE invoice_id = $1`

	rows, err := s.db.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var lines []types.InvoiceLine
	for rows.Next() {
		var line types.InvoiceLine
		err := rows.Scan(
			&line.ExpenseID,
			&line.Name,
			&line.OriginalAmount,
			&line.Currency,
			&line.BufferRate,
			&line.ParticipantCount,
			&line.ShareTHB,
		)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
