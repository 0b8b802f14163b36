package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trip is the root aggregate. Every participant, expense, invoice and receipt
// belongs to exactly one trip.
type Trip struct {
	ID string `json:"id"`
	// Name is the display name, e.g. "Japan Trip 2025".
	Name string `json:"name"`
	// DefaultBufferRate is the JPY multiplier seeded into new expenses.
	DefaultBufferRate decimal.Decimal `json:"defaultBufferRate"`
	CreatedAt         time.Time       `json:"createdAt"`
}

type TripCreate struct {
	Name              string           `json:"name" binding:"required"`
	DefaultBufferRate *decimal.Decimal `json:"defaultBufferRate,omitempty"`
}

// TripUpdate carries the mutable trip settings. Nil fields are left unchanged.
type TripUpdate struct {
	Name              *string          `json:"name,omitempty"`
	DefaultBufferRate *decimal.Decimal `json:"defaultBufferRate,omitempty"`
}
