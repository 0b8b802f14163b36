package types

import "time"

// Participant is a traveler sharing trip expenses. Names are unique within a trip.
type Participant struct {
	ID        string    `json:"id"`
	TripID    string    `json:"tripId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type ParticipantCreate struct {
	Name string `json:"name" binding:"required"`
}
