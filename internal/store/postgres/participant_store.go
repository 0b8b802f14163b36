package postgres

import (
	"context"

	"github.com/triptally/triptally-backend/internal/store"
	"github.com/triptally/triptally-backend/types"
)

// ParticipantStore implements store.ParticipantStore using PostgreSQL
type ParticipantStore struct {
	db DB
}

// NewParticipantStore creates a new ParticipantStore instance
func NewParticipantStore(db DB) *ParticipantStore {
	return &ParticipantStore{db: db}
}

func (s *ParticipantStore) CreateParticipant(ctx context.Context, p *types.Participant) (string, error) {
	query := `
		INSERT INTO participants (trip_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at`

	var id string
	err := s.db.QueryRow(ctx, query, p.TripID, p.Name).Scan(&id, &p.CreatedAt)
	if err != nil {
		return "", mapError(err)
	}
	p.ID = id
	return id, nil
}

func (s *ParticipantStore) GetParticipant(ctx context.Context, tripID, id string) (*types.Participant, error) {
	query := `
		SELECT id, trip_id, name, created_at
		FROM participants
		WHERE trip_id = $1 AND id = $2`

	return s.scanOne(ctx, query, tripID, id)
}

func (s *ParticipantStore) GetParticipantByName(ctx context.Context, tripID, name string) (*types.Participant, error) {
	query := `
		SELECT id, trip_id, name, created_at
		FROM participants
		WHERE trip_id = $1 AND name = $2`

	return s.scanOne(ctx, query, tripID, name)
}

func (s *ParticipantStore) ListParticipants(ctx context.Context, tripID string) ([]*types.Participant, error) {
	query := `
		SELECT id, trip_id, name, created_at
		FROM participants
		WHERE trip_id = $1
		ORDER BY name`

	rows, err := s.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var participants []*types.Participant
	for rows.Next() {
		p := &types.Participant{}
		if err := rows.Scan(&p.ID, &p.TripID, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (s *ParticipantStore) DeleteParticipant(ctx context.Context, tripID, id string) error {
	query := `DELETE FROM participants WHERE trip_id = $1 AND id = $2`

	result, err := s.db.Exec(ctx, query, tripID, id)
	if err != nil {
		return mapError(err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *ParticipantStore) scanOne(ctx context.Context, query string, args ...any) (*types.Participant, error) {
	p := &types.Participant{}
	err := s.db.QueryRow(ctx, query, args...).Scan(&p.ID, &p.TripID, &p.Name, &p.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}
