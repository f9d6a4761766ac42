package dto

import (
	"github.com/Eursukkul/restaurant-booking/internal/models"
)

type RestaurantResponse struct {
	ID                 string  `json:"restaurant_id"`
	Name               string  `json:"name"`
	CuisineType        string  `json:"cuisine_type"`
	Rating             float64 `json:"rating"`
	Location           string  `json:"location"`
	TotalTables        int     `json:"total_tables"`
	TableConfiguration []int   `json:"table_configuration"`
	OpeningHours       string  `json:"opening_hours"`
	ClosingHours       string  `json:"closing_hours"`
	Display            string  `json:"display"`
}

type AvailabilityResponse struct {
	RestaurantID    string `json:"restaurant_id"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	AvailableTables int    `json:"available_tables"`
}

type UserResponse struct {
	ID              string               `json:"user_id"`
	Name            string               `json:"name"`
	Email           string               `json:"email"`
	PhoneNumber     string               `json:"phone_number"`
	CurrentBookings []models.UserBooking `json:"current_bookings"`
}

type SessionResponse struct {
	Token   string       `json:"token"`
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type BookingResponse struct {
	BookingID    uint64 `json:"booking_id"`
	UserID       string `json:"user_id"`
	RestaurantID string `json:"restaurant_id"`
	TableID      int    `json:"table_id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	PartySize    int    `json:"party_size"`
}

type ReservationResponse struct {
	Message string          `json:"message"`
	Booking BookingResponse `json:"booking"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func ToRestaurantResponse(r *models.Restaurant) RestaurantResponse {
	tables := r.TableConfiguration
	if tables == nil {
		tables = []int{}
	}
	return RestaurantResponse{
		ID:                 r.ID,
		Name:               r.Name,
		CuisineType:        r.CuisineType,
		Rating:             r.Rating,
		Location:           r.Location,
		TotalTables:        r.TotalTables,
		TableConfiguration: tables,
		OpeningHours:       r.OpeningHours,
		ClosingHours:       r.ClosingHours,
		Display:            r.DisplayInfo(),
	}
}

func ToUserResponse(u *models.User) UserResponse {
	bookings := u.CurrentBookings
	if bookings == nil {
		bookings = []models.UserBooking{}
	}
	return UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		PhoneNumber:     u.PhoneNumber,
		CurrentBookings: bookings,
	}
}

func ToBookingResponse(b *models.BookingRecord) BookingResponse {
	return BookingResponse{
		BookingID:    b.BookingID,
		UserID:       b.UserID,
		RestaurantID: b.RestaurantID,
		TableID:      b.TableID,
		Date:         b.Date,
		Time:         b.Time,
		PartySize:    b.PartySize,
	}
}
