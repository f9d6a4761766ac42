package service

import (
	"errors"
	"fmt"

	"github.com/Eursukkul/restaurant-booking/internal/repository"
)

const (
	MsgReservationConfirmed = "Reservation made successfully!"
	MsgReservationCancelled = "Your reservation has been cancelled."
	MsgLoggedOut            = "You have been logged out."
)

func WelcomeMessage(name string) string {
	return fmt.Sprintf("Welcome %s!", name)
}

// Message turns a workflow error into the text shown to the user.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotLoggedIn):
		return "Please log in to make a reservation."
	case errors.Is(err, ErrUserNotFound):
		return "Invalid User ID."
	case errors.Is(err, ErrSessionNotFound):
		return "Your session has expired. Please log in again."
	case errors.Is(err, ErrRestaurantNotFound):
		return "Please select a restaurant to make a reservation."
	case errors.Is(err, ErrInvalidPartySize):
		return "Party size must be a positive whole number."
	case errors.Is(err, ErrInvalidDate):
		return "Invalid booking date. Use YYYY-MM-DD."
	case errors.Is(err, ErrInvalidTime):
		return "Invalid booking time."
	case errors.Is(err, ErrNoAvailability):
		return "No tables available for the selected time."
	case errors.Is(err, ErrBookingNotFound):
		return "Booking not found."
	case errors.Is(err, repository.ErrLedgerIO):
		return "The booking ledger could not be accessed. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
