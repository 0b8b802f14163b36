// Package handlers exposes the HTTP API. Handlers bind requests, delegate to
// the services, and push failures through c.Error for the error middleware.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/triptally/triptally-backend/errors"
	"github.com/triptally/triptally-backend/logger"
	tripservice "github.com/triptally/triptally-backend/models/trip/service"
	"github.com/triptally/triptally-backend/types"
)

type TripHandler struct {
	trips *tripservice.TripService
}

func NewTripHandler(trips *tripservice.TripService) *TripHandler {
	return &TripHandler{trips: trips}
}

// CreateTripHandler creates a new trip.
func (h *TripHandler) CreateTripHandler(c *gin.Context) {
	log := logger.GetLogger()
	var req types.TripCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Errorw("Invalid request body", "error", err)
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	trip, err := h.trips.CreateTrip(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

// ListTripsHandler lists every trip.
func (h *TripHandler) ListTripsHandler(c *gin.Context) {
	trips, err := h.trips.ListTrips(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// GetTripHandler returns one trip with its settings.
func (h *TripHandler) GetTripHandler(c *gin.Context) {
	trip, err := h.trips.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// UpdateTripHandler applies a partial settings update.
func (h *TripHandler) UpdateTripHandler(c *gin.Context) {
	log := logger.GetLogger()
	var req types.TripUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Errorw("Invalid request body", "error", err)
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	trip, err := h.trips.UpdateSettings(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// AddParticipantHandler adds a traveler to the trip roster.
func (h *TripHandler) AddParticipantHandler(c *gin.Context) {
	log := logger.GetLogger()
	var req types.ParticipantCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Errorw("Invalid request body", "error", err)
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	p, err := h.trips.AddParticipant(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// ListParticipantsHandler lists the trip roster. A name query filters the
// roster down to that participant.
func (h *TripHandler) ListParticipantsHandler(c *gin.Context) {
	if name := c.Query("name"); name != "" {
		p, err := h.trips.GetParticipantByName(c.Request.Context(), c.Param("id"), name)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, []*types.Participant{p})
		return
	}

	list, err := h.trips.ListParticipants(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// RemoveParticipantHandler removes a traveler from the roster.
func (h *TripHandler) RemoveParticipantHandler(c *gin.Context) {
	if err := h.trips.RemoveParticipant(c.Request.Context(), c.Param("id"), c.Param("participantId")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
