package middleware

import (
	"errors"
	"net/http"

	"github.com/Eursukkul/restaurant-booking/internal/repository"
	"github.com/Eursukkul/restaurant-booking/internal/service"
)

// StatusCode maps a workflow error onto an HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrNotLoggedIn), errors.Is(err, service.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrRestaurantNotFound),
		errors.Is(err, service.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidPartySize),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidTime):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoAvailability):
		return http.StatusConflict
	case errors.Is(err, repository.ErrLedgerIO):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
