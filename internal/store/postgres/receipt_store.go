package postgres

import (
	"context"

	"github.com/triptally/triptally-backend/internal/store"
	"github.com/triptally/triptally-backend/types"
)

// ReceiptStore implements store.ReceiptStore using PostgreSQL
type ReceiptStore struct {
	db DB
}

// NewReceiptStore creates a new ReceiptStore instance
func NewReceiptStore(db DB) *ReceiptStore {
	return &ReceiptStore{db: db}
}

func (s *ReceiptStore) CreateReceipt(ctx context.Context, r *types.Receipt) (string, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer rollback(ctx, tx)

	query := `
		INSERT INTO receipts (trip_id, participant_id, receipt_number, total_thb, payment_method)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	var id string
	err = tx.QueryRow(ctx, query,
		r.TripID, r.ParticipantID, r.ReceiptNumber, r.TotalTHB, r.PaymentMethod,
	).Scan(&id, &r.CreatedAt)
	if err != nil {
		return "", mapError(err)
	}

	for _, invoiceID := range r.InvoiceIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO receipt_invoices (receipt_id, invoice_id) VALUES ($1, $2)`,
			id, invoiceID,
		); err != nil {
			return "", mapError(err)
		}
	}

	// Flip every settled invoice to paid. The WHERE clause re-checks status and
	// ownership inside the transaction; a shortfall in affected rows means some
	// invoice was already paid or foreign, and the whole receipt rolls back.
	result, err := tx.Exec(ctx, `
		UPDATE invoices
		SET status = 'paid', receipt_number = $1
		WHERE id = ANY($2) AND participant_id = $3 AND status = 'unpaid'`,
		r.ReceiptNumber, r.InvoiceIDs, r.ParticipantID,
	)
	if err != nil {
		return "", mapError(err)
	}
	if int(result.RowsAffected()) != len(r.InvoiceIDs) {
		return "", store.ErrConflict
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	r.ID = id
	return id, nil
}

func (s *ReceiptStore) GetReceipt(ctx context.Context, tripID, id string) (*types.Receipt, error) {
	query := `
		SELECT id, trip_id, participant_id, receipt_number, total_thb, payment_method, created_at
		FROM receipts
		WHERE trip_id = $1 AND id = $2`

	r := &types.Receipt{}
	err := s.db.QueryRow(ctx, query, tripID, id).Scan(
		&r.ID,
		&r.TripID,
		&r.ParticipantID,
		&r.ReceiptNumber,
		&r.TotalTHB,
		&r.PaymentMethod,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}

	invoiceIDs, err := s.receiptInvoiceIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	r.InvoiceIDs = invoiceIDs
	return r, nil
}

func (s *ReceiptStore) ListReceipts(ctx context.Context, tripID string) ([]*types.ReceiptSummary, error) {
	query := `
		SELECT r.id, r.trip_id, r.participant_id, p.name, r.receipt_number,
			r.total_thb, r.payment_method, r.created_at,
			COALESCE(array_agg(i.version ORDER BY i.version)
				FILTER (WHERE i.version IS NOT NULL), '{}')
		FROM receipts r
		JOIN participants p ON r.participant_id = p.id
		LEFT JOIN receipt_invoices ri ON r.id = ri.receipt_id
		LEFT JOIN invoices i ON ri.invoice_id = i.id
		WHERE r.trip_id = $1
		GROUP BY r.id, p.name
		ORDER BY r.created_at DESC`

	rows, err := s.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var summaries []*types.ReceiptSummary
	for rows.Next() {
		sum := &types.ReceiptSummary{}
		err := rows.Scan(
			&sum.ID,
			&sum.TripID,
			&sum.ParticipantID,
			&sum.ParticipantName,
			&sum.ReceiptNumber,
			&sum.TotalTHB,
			&sum.PaymentMethod,
			&sum.CreatedAt,
			&sum.InvoiceVersions,
		)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

func (s *ReceiptStore) ListReceiptsForParticipant(ctx context.Context, tripID, participantID string) ([]*types.Receipt, error) {
	query := `
		SELECT id, trip_id, participant_id, receipt_number, total_thb, payment_method, created_at
		FROM receipts
		WHERE trip_id = $1 AND participant_id = $2
		ORDER BY receipt_number`

	rows, err := s.db.Query(ctx, query, tripID, participantID)
	if err != nil {
		return nil, mapError(err)
	}

	var receipts []*types.Receipt
	for rows.Next() {
		r := &types.Receipt{}
		err := rows.Scan(
			&r.ID,
			&r.TripID,
			&r.ParticipantID,
			&r.ReceiptNumber,
			&r.TotalTHB,
			&r.PaymentMethod,
			&r.CreatedAt,
		)
		if err != nil {
			rows.Close()
			return nil, err
		}
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, r := range receipts {
		invoiceIDs, err := s.receiptInvoiceIDs(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		r.InvoiceIDs = invoiceIDs
	}
	return receipts, nil
}

func (s *ReceiptStore) MaxReceiptNumber(ctx context.Context, participantID string) (int, error) {
	var number int
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(receipt_number), 0) FROM receipts WHERE participant_id = $1`,
		participantID,
	).Scan(&number)
	if err != nil {
		return 0, mapError(err)
	}
	return number, nil
}

func (s *ReceiptStore) DeleteReceipt(ctx context.Context, tripID, id string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer rollback(ctx, tx)

	// Revert the settled invoices before the junction rows disappear.
	if _, err := tx.Exec(ctx, `
		UPDATE invoices
		SET status = 'unpaid', receipt_number = NULL
		WHERE id IN (SELECT invoice_id FROM receipt_invoices WHERE receipt_id = $1)`,
		id,
	); err != nil {
		return mapError(err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM receipt_invoices WHERE receipt_id = $1`, id,
	); err != nil {
		return mapError(err)
	}

	result, err := tx.Exec(ctx,
		`DELETE FROM receipts WHERE trip_id = $1 AND id = $2`, tripID, id,
	)
	if err != nil {
		return mapError(err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	return tx.Commit(ctx)
}

func (s *ReceiptStore) receiptInvoiceIDs(ctx context.Context, receiptID string) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT invoice_id FROM receipt_invoices WHERE receipt_id = $1`, receiptID,
	)
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
