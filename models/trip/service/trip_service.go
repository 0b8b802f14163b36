// Package service implements trip and participant business logic.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	apperrors "github.com/triptally/triptally-backend/errors"
	"github.com/triptally/triptally-backend/internal/store"
	"github.com/triptally/triptally-backend/types"
)

// TripService handles trip lifecycle, settings and the participant roster.
type TripService struct {
	trips             store.TripStore
	participants      store.ParticipantStore
	expenses          store.ExpenseStore
	defaultBufferRate decimal.Decimal
}

// NewTripService creates a new trip service. defaultBufferRate seeds trips
// created without an explicit rate.
func NewTripService(trips store.TripStore, participants store.ParticipantStore, expenses store.ExpenseStore, defaultBufferRate decimal.Decimal) *TripService {
	return &TripService{
		trips:             trips,
		participants:      participants,
		expenses:          expenses,
		defaultBufferRate: defaultBufferRate,
	}
}

// CreateTrip creates a trip, falling back to the configured buffer rate when
// the request omits one.
func (s *TripService) CreateTrip(ctx context.Context, create *types.TripCreate) (*types.Trip, error) {
	name := strings.TrimSpace(create.Name)
	if name == "" {
		return nil, apperrors.ValidationFailed("invalid trip", "trip name must not be empty")
	}

	rate := s.defaultBufferRate
	if create.DefaultBufferRate != nil {
		rate = *create.DefaultBufferRate
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.InvalidRate("default buffer rate must be positive")
	}

	trip := &types.Trip{
		Name:              name,
		DefaultBufferRate: rate,
	}
	if _, err := s.trips.CreateTrip(ctx, trip); err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return trip, nil
}

// GetTrip returns one trip by id.
func (s *TripService) GetTrip(ctx context.Context, id string) (*types.Trip, error) {
	trip, err := s.trips.GetTrip(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Trip", id)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return trip, nil
}

// ListTrips returns all trips.
func (s *TripService) ListTrips(ctx context.Context) ([]*types.Trip, error) {
	trips, err := s.trips.ListTrips(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return trips, nil
}

// UpdateSettings applies a partial settings update. A changed buffer rate only
// affects expenses created afterwards; existing expenses keep their own rate.
func (s *TripService) UpdateSettings(ctx context.Context, id string, update *types.TripUpdate) (*types.Trip, error) {
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, apperrors.ValidationFailed("invalid trip", "trip name must not be empty")
	}
	if update.DefaultBufferRate != nil && update.DefaultBufferRate.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.InvalidRate("default buffer rate must be positive")
	}

	trip, err := s.trips.UpdateTrip(ctx, id, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Trip", id)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return trip, nil
}

// AddParticipant adds a traveler to the trip roster. Names are unique per trip.
func (s *TripService) AddParticipant(ctx context.Context, tripID string, create *types.ParticipantCreate) (*types.Participant, error) {
	name := strings.TrimSpace(create.Name)
	if name == "" {
		return nil, apperrors.ValidationFailed("invalid participant", "participant name must not be empty")
	}

	if _, err := s.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}

	p := &types.Participant{TripID: tripID, Name: name}
	if _, err := s.participants.CreateParticipant(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.Conflict("duplicate participant", "a participant with this name already exists on the trip")
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return p, nil
}

// GetParticipantByName resolves a participant by their display name.
func (s *TripService) GetParticipantByName(ctx context.Context, tripID, name string) (*types.Participant, error) {
	p, err := s.participants.GetParticipantByName(ctx, tripID, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Participant", name)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return p, nil
}

// ListParticipants returns the trip roster.
func (s *TripService) ListParticipants(ctx context.Context, tripID string) ([]*types.Participant, error) {
	list, err := s.participants.ListParticipants(ctx, tripID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return list, nil
}

// RemoveParticipant deletes a traveler from the roster. Participants that
// appear on any expense cannot be removed.
func (s *TripService) RemoveParticipant(ctx context.Context, tripID, id string) error {
	referenced, err := s.expenses.IsParticipantReferenced(ctx, id)
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	if referenced {
		return apperrors.Conflict("participant in use", "participant is included in one or more expenses")
	}

	if err := s.participants.DeleteParticipant(ctx, tripID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Participant", id)
		}
		return apperrors.NewDatabaseError(err)
	}
	return nil
}
