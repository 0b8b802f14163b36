package postgres

import (
	"context"

	"github.com/triptally/triptally-backend/types"
)

// TripStore implements store.TripStore using PostgreSQL
type TripStore struct {
	db DB
}

// NewTripStore creates a new TripStore instance
func NewTripStore(db DB) *TripStore {
	return &TripStore{db: db}
}

func (s *TripStore) CreateTrip(ctx context.Context, trip *types.Trip) (string, error) {
	query := `
		INSERT INTO trips (name, default_buffer_rate)
		VALUES ($1, $2)
		RETURNING id, created_at`

	var id string
	err := s.db.QueryRow(ctx, query, trip.Name, trip.DefaultBufferRate).
		Scan(&id, &trip.CreatedAt)
	if err != nil {
		return "", mapError(err)
	}
	trip.ID = id
	return id, nil
}

func (s *TripStore) GetTrip(ctx context.Context, id string) (*types.Trip, error) {
	query := `
		SELECT id, name, default_buffer_rate, created_at
		FROM trips
		WHERE id = $1`

	trip := &types.Trip{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&trip.ID,
		&trip.Name,
		&trip.DefaultBufferRate,
		&trip.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return trip, nil
}

func (s *TripStore) ListTrips(ctx context.Context) ([]*types.Trip, error) {
	query := `
		SELECT id, name, default_buffer_rate, created_at
		FROM trips
		ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var trips []*types.Trip
	for rows.Next() {
		trip := &types.Trip{}
		if err := rows.Scan(&trip.ID, &trip.Name, &trip.DefaultBufferRate, &trip.CreatedAt); err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}

func (s *TripStore) UpdateTrip(ctx context.Context, id string, update *types.TripUpdate) (*types.Trip, error) {
	query := `
		UPDATE trips
		SET name = COALESCE($1, name),
			default_buffer_rate = COALESCE($2, default_buffer_rate)
		WHERE id = $3
		RETURNING id, name, default_buffer_rate, created_at`

	trip := &types.Trip{}
	err := s.db.QueryRow(ctx, query, update.Name, update.DefaultBufferRate, id).Scan(
		&trip.ID,
		&trip.Name,
		&trip.DefaultBufferRate,
		&trip.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return trip, nil
}
