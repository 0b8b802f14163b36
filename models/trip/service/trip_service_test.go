package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "github.com/triptally/triptally-backend/errors"
	"github.com/triptally/triptally-backend/internal/store"
	trip "github.com/triptally/triptally-backend/models/trip/service"
	"github.com/triptally/triptally-backend/types"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	trips        *MockTripStore
	participants *MockParticipantStore
	expenses     *MockExpenseStore
	svc          *trip.TripService
}

func newFixture() *fixture {
	f := &fixture{
		trips:        new(MockTripStore),
		participants: new(MockParticipantStore),
		expenses:     new(MockExpenseStore),
	}
	f.svc = trip.NewTripService(f.trips, f.participants, f.expenses, dec("0.25"))
	return f
}

func TestTripService_CreateTrip_DefaultsBufferRate(t *testing.T) {
	f := newFixture()
	f.trips.On("CreateTrip", mock.Anything, mock.AnythingOfType("*types.Trip")).
		Return("trip-1", nil)

	created, err := f.svc.CreateTrip(context.Background(), &types.TripCreate{Name: "Japan 2026"})
	require.NoError(t, err)
	assert.True(t, created.DefaultBufferRate.Equal(dec("0.25")))
}

func TestTripService_CreateTrip_RejectsEmptyName(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateTrip(context.Background(), &types.TripCreate{Name: "   "})
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ValidationError, appErr.Type)
}

func TestTripService_CreateTrip_RejectsNonPositiveRate(t *testing.T) {
	f := newFixture()
	zero := decimal.Zero

	_, err := f.svc.CreateTrip(context.Background(), &types.TripCreate{
		Name:              "Japan 2026",
		DefaultBufferRate: &zero,
	})
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.InvalidRateError, appErr.Type)
}

func TestTripService_UpdateSettings(t *testing.T) {
	f := newFixture()
	rate := dec("0.27")
	f.trips.On("UpdateTrip", mock.Anything, "trip-1", mock.AnythingOfType("*types.TripUpdate")).
		Return(&types.Trip{ID: "trip-1", Name: "Japan 2026", DefaultBufferRate: rate}, nil)

	updated, err := f.svc.UpdateSettings(context.Background(), "trip-1", &types.TripUpdate{
		DefaultBufferRate: &rate,
	})
	require.NoError(t, err)
	assert.True(t, updated.DefaultBufferRate.Equal(rate))
}

func TestTripService_GetTrip_NotFound(t *testing.T) {
	f := newFixture()
	f.trips.On("GetTrip", mock.Anything, "missing").Return(nil, store.ErrNotFound)

	_, err := f.svc.GetTrip(context.Background(), "missing")
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.NotFoundError, appErr.Type)
}

func TestTripService_AddParticipant_DuplicateName(t *testing.T) {
	f := newFixture()
	f.trips.On("GetTrip", mock.Anything, "trip-1").
		Return(&types.Trip{ID: "trip-1", Name: "Japan 2026"}, nil)
	f.participants.On("CreateParticipant", mock.Anything, mock.AnythingOfType("*types.Participant")).
		Return("", store.ErrDuplicate)

	_, err := f.svc.AddParticipant(context.Background(), "trip-1", &types.ParticipantCreate{Name: "Alice"})
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ConflictError, appErr.Type)
}

func TestTripService_GetParticipantByName(t *testing.T) {
	f := newFixture()
	f.participants.On("GetParticipantByName", mock.Anything, "trip-1", "Alice").
		Return(&types.Participant{ID: "alice", TripID: "trip-1", Name: "Alice"}, nil)

	p, err := f.svc.GetParticipantByName(context.Background(), "trip-1", " Alice ")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.ID)
}

func TestTripService_GetParticipantByName_NotFound(t *testing.T) {
	f := newFixture()
	f.participants.On("GetParticipantByName", mock.Anything, "trip-1", "Mallory").
		Return(nil, store.ErrNotFound)

	_, err := f.svc.GetParticipantByName(context.Background(), "trip-1", "Mallory")
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.NotFoundError, appErr.Type)
}

func TestTripService_RemoveParticipant_BlockedWhenReferenced(t *testing.T) {
	f := newFixture()
	f.expenses.On("IsParticipantReferenced", mock.Anything, "alice").Return(true, nil)

	err := f.svc.RemoveParticipant(context.Background(), "trip-1", "alice")
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ConflictError, appErr.Type)
	f.participants.AssertNotCalled(t, "DeleteParticipant", mock.Anything, mock.Anything, mock.Anything)
}

func TestTripService_RemoveParticipant(t *testing.T) {
	f := newFixture()
	f.expenses.On("IsParticipantReferenced", mock.Anything, "alice").Return(false, nil)
	f.participants.On("DeleteParticipant", mock.Anything, "trip-1", "alice").Return(nil)

	err := f.svc.RemoveParticipant(context.Background(), "trip-1", "alice")
	require.NoError(t, err)
	f.participants.AssertExpectations(t)
}

func TestTripService_ListTrips_DatabaseErrorSanitized(t *testing.T) {
	f := newFixture()
	f.trips.On("ListTrips", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := f.svc.ListTrips(context.Background())
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.DatabaseError, appErr.Type)
	assert.NotContains(t, appErr.Detail, "connection refused")
}
