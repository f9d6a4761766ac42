// Package events defines the booking messages published to the broker.
package events

const (
	RoutingBookingConfirmed = "booking.confirmed"
	RoutingBookingCancelled = "booking.cancelled"
)

// BookingConfirmed is published after a reservation has been written to the ledger.
type BookingConfirmed struct {
	BookingID      uint64 `json:"booking_id"`
	UserID         string `json:"user_id"`
	RestaurantID   string `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`
	TableID        int    `json:"table_id"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	PartySize      int    `json:"party_size"`
	ConfirmedAt    string `json:"confirmed_at"`
}

// BookingCancelled is published after a booking has been removed from the ledger.
type BookingCancelled struct {
	BookingID    uint64 `json:"booking_id"`
	UserID       string `json:"user_id"`
	RestaurantID string `json:"restaurant_id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	CancelledAt  string `json:"cancelled_at"`
}
