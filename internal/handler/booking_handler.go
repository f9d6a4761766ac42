package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Eursukkul/restaurant-booking/internal/dto"
	"github.com/Eursukkul/restaurant-booking/internal/middleware"
	"github.com/Eursukkul/restaurant-booking/internal/service"
	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	svc      service.BookingService
	sessions *service.Sessions
}

func NewBookingHandler(svc service.BookingService, sessions *service.Sessions) *BookingHandler {
	return &BookingHandler{svc: svc, sessions: sessions}
}

func (h *BookingHandler) RegisterRoutes(e *echo.Echo) {
	requireSession := middleware.RequireSession(h.sessions)

	api := e.Group("/api/v1")
	api.GET("/restaurants", h.ListRestaurants)
	api.GET("/restaurants/:id/availability", h.GetAvailability)
	api.GET("/users/:id/bookings", h.History)

	api.POST("/sessions", h.Login)
	api.DELETE("/sessions", h.Logout, requireSession)
	api.GET("/me", h.Me, requireSession)

	api.POST("/reservations", h.CreateReservation, requireSession)
	api.DELETE("/reservations/:id", h.CancelReservation, requireSession)
}

func (h *BookingHandler) ListRestaurants(c echo.Context) error {
	restaurants := h.svc.ListRestaurants(c.Request().Context())

	resp := make([]dto.RestaurantResponse, len(restaurants))
	for i, r := range restaurants {
		resp[i] = dto.ToRestaurantResponse(&r)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) GetAvailability(c echo.Context) error {
	date, at := c.QueryParam("date"), c.QueryParam("time")
	if date == "" || at == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date and time query parameters are required")
	}

	n, err := h.svc.Availability(c.Request().Context(), c.Param("id"), date, at)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.AvailabilityResponse{
		RestaurantID:    c.Param("id"),
		Date:            date,
		Time:            at,
		AvailableTables: n,
	})
}

func (h *BookingHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	token, user, err := h.sessions.Open(c.Request().Context(), strings.TrimSpace(req.UserID))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, service.Message(err))
		}
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, dto.SessionResponse{
		Token:   token,
		Message: service.WelcomeMessage(user.Name),
		User:    dto.ToUserResponse(user),
	})
}

func (h *BookingHandler) Logout(c echo.Context) error {
	if err := h.sessions.Close(middleware.SessionToken(c)); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: service.MsgLoggedOut})
}

func (h *BookingHandler) Me(c echo.Context) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, service.Message(service.ErrNotLoggedIn))
	}

	user, err := sess.Current(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *BookingHandler) CreateReservation(c echo.Context) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, service.Message(service.ErrNotLoggedIn))
	}

	var req dto.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "restaurant, date, time and party_size are required")
	}

	partySize, err := strconv.Atoi(strings.TrimSpace(req.PartySize.String()))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, service.Message(service.ErrInvalidPartySize))
	}

	booking, err := sess.Reserve(c.Request().Context(),
		strings.TrimSpace(req.Restaurant),
		strings.TrimSpace(req.Date),
		strings.TrimSpace(req.Time),
		partySize,
	)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, dto.ReservationResponse{
		Message: service.MsgReservationConfirmed,
		Booking: dto.ToBookingResponse(booking),
	})
}

func (h *BookingHandler) CancelReservation(c echo.Context) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, service.Message(service.ErrNotLoggedIn))
	}

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	booking, err := sess.Cancel(c.Request().Context(), bookingID)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ReservationResponse{
		Message: service.MsgReservationCancelled,
		Booking: dto.ToBookingResponse(booking),
	})
}

func (h *BookingHandler) History(c echo.Context) error {
	bookings, err := h.svc.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	resp := make([]dto.BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = dto.ToBookingResponse(&b)
	}
	return c.JSON(http.StatusOK, resp)
}

// toHTTPError maps workflow errors onto status codes with user-facing text.
func toHTTPError(err error) *echo.HTTPError {
	return echo.NewHTTPError(middleware.StatusCode(err), service.Message(err))
}
