package dto

import "encoding/json"

type LoginRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// CreateReservationRequest takes party_size as free text: 4 and "4" both bind.
type CreateReservationRequest struct {
	Restaurant string      `json:"restaurant" validate:"required"`
	Date       string      `json:"date" validate:"required"`
	Time       string      `json:"time" validate:"required"`
	PartySize  json.Number `json:"party_size" validate:"required"`
}
