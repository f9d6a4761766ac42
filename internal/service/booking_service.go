package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Eursukkul/restaurant-booking/internal/catalog"
	"github.com/Eursukkul/restaurant-booking/internal/events"
	"github.com/Eursukkul/restaurant-booking/internal/models"
	"github.com/Eursukkul/restaurant-booking/internal/repository"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrInvalidPartySize   = errors.New("party size must be a positive integer")
	ErrInvalidDate        = errors.New("invalid booking date")
	ErrInvalidTime        = errors.New("invalid booking time")
	ErrNoAvailability     = errors.New("no tables available for the selected time")
	ErrBookingNotFound    = errors.New("booking not found")
)

// PlaceholderTableID is assigned to every booking; tables are not allocated individually.
const PlaceholderTableID = 1

// Catalog is the restaurant lookup and availability surface the workflows need.
type Catalog interface {
	All() []models.Restaurant
	ByName(name string) (*models.Restaurant, bool)
	ByID(id string) (*models.Restaurant, bool)
	AvailableTableCount(ctx context.Context, r *models.Restaurant, date, time string) (int, error)
	IsValidBookingTime(r *models.Restaurant, at string) (bool, error)
}

type Registry interface {
	FindByID(id string) (*models.User, bool)
}

// EventPublisher is satisfied by *rabbitmq.Publisher. A nil publisher disables events.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type ReserveRequest struct {
	Restaurant string // name as listed, or restaurant id
	Date       string
	Time       string
	PartySize  int
}

type BookingService interface {
	ListRestaurants(ctx context.Context) []models.Restaurant
	Login(ctx context.Context, userID string) (*models.User, error)
	Reserve(ctx context.Context, userID string, req ReserveRequest) (*models.BookingRecord, error)
	Cancel(ctx context.Context, userID string, bookingID uint64) (*models.BookingRecord, error)
	History(ctx context.Context, userID string) ([]models.BookingRecord, error)
	Availability(ctx context.Context, restaurant, date, time string) (int, error)
}

type bookingService struct {
	// mu serializes ledger mutation and the in-memory booking cache of every user.
	mu        sync.Mutex
	ledger    repository.LedgerRepository
	catalog   Catalog
	users     Registry
	publisher EventPublisher
	now       func() time.Time
}

func NewBookingService(ledger repository.LedgerRepository, catalog Catalog, users Registry, publisher EventPublisher) BookingService {
	return &bookingService{
		ledger:    ledger,
		catalog:   catalog,
		users:     users,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *bookingService) ListRestaurants(ctx context.Context) []models.Restaurant {
	return s.catalog.All()
}

// Login resolves the user and rebuilds their current bookings from the ledger.
func (s *bookingService) Login(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refreshBookings(ctx, user); err != nil {
		return nil, err
	}
	return snapshot(user), nil
}

// Reserve runs validate time -> check availability -> append -> update user state.
// Nothing is written unless every check passes.
func (s *bookingService) Reserve(ctx context.Context, userID string, req ReserveRequest) (*models.BookingRecord, error) {
	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}
	restaurant, err := s.resolveRestaurant(req.Restaurant)
	if err != nil {
		return nil, err
	}
	if req.PartySize <= 0 {
		return nil, ErrInvalidPartySize
	}
	date, err := catalog.NormalizeDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}
	at, err := s.validateTime(restaurant, req.Time)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	available, err := s.catalog.AvailableTableCount(ctx, restaurant, date, at)
	if err != nil {
		return nil, err
	}
	if available <= 0 {
		return nil, ErrNoAvailability
	}

	id, err := s.ledger.NextBookingID(ctx)
	if err != nil {
		return nil, err
	}
	rec := &models.BookingRecord{
		BookingID:    id,
		UserID:       user.ID,
		RestaurantID: restaurant.ID,
		TableID:      PlaceholderTableID,
		Date:         date,
		Time:         at,
		PartySize:    req.PartySize,
	}
	if err := s.ledger.Append(ctx, rec); err != nil {
		return nil, err
	}

	if err := s.refreshBookings(ctx, user); err != nil {
		// the ledger row is authoritative; keep the cache consistent by hand
		log.Printf("[BookingService] refresh bookings for %s after reserve: %v", user.ID, err)
		user.CurrentBookings = append(user.CurrentBookings, rec.ToUserBooking())
	}
	log.Printf("[BookingService] booking %d confirmed for user %s at %s %s %s", rec.BookingID, user.ID, restaurant.ID, date, at)

	s.publish(ctx, events.RoutingBookingConfirmed, events.BookingConfirmed{
		BookingID:      rec.BookingID,
		UserID:         rec.UserID,
		RestaurantID:   restaurant.ID,
		RestaurantName: restaurant.Name,
		TableID:        rec.TableID,
		Date:           rec.Date,
		Time:           rec.Time,
		PartySize:      rec.PartySize,
		ConfirmedAt:    s.now().UTC().Format(time.RFC3339),
	})

	return rec, nil
}

// Cancel removes one of the user's bookings from the ledger. Ids that are
// absent, or that belong to another user, report ErrBookingNotFound and leave
// the ledger untouched.
func (s *bookingService) Cancel(ctx context.Context, userID string, bookingID uint64) (*models.BookingRecord, error) {
	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := s.ledger.Scan(ctx, func(rec models.BookingRecord) bool { return rec.BookingID == bookingID })
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrBookingNotFound
	}
	for _, rec := range matches {
		if rec.UserID != user.ID {
			return nil, ErrBookingNotFound
		}
	}

	if err := s.ledger.RemoveByBookingID(ctx, bookingID); err != nil {
		if errors.Is(err, repository.ErrBookingRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if err := s.refreshBookings(ctx, user); err != nil {
		log.Printf("[BookingService] refresh bookings for %s after cancel: %v", user.ID, err)
		user.CurrentBookings = dropBooking(user.CurrentBookings, bookingID)
	}
	log.Printf("[BookingService] booking %d cancelled by user %s", bookingID, user.ID)

	cancelled := matches[0]
	s.publish(ctx, events.RoutingBookingCancelled, events.BookingCancelled{
		BookingID:    cancelled.BookingID,
		UserID:       cancelled.UserID,
		RestaurantID: cancelled.RestaurantID,
		Date:         cancelled.Date,
		Time:         cancelled.Time,
		CancelledAt:  s.now().UTC().Format(time.RFC3339),
	})

	return &cancelled, nil
}

// History returns the user's ledger rows in ledger order.
func (s *bookingService) History(ctx context.Context, userID string) ([]models.BookingRecord, error) {
	if _, err := s.findUser(userID); err != nil {
		return nil, err
	}
	return s.ledger.FindByUserID(ctx, userID)
}

func (s *bookingService) Availability(ctx context.Context, restaurant, date, at string) (int, error) {
	r, err := s.resolveRestaurant(restaurant)
	if err != nil {
		return 0, err
	}
	d, err := catalog.NormalizeDate(date)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}
	t, err := catalog.NormalizeClock(at)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidTime, err)
	}
	return s.catalog.AvailableTableCount(ctx, r, d, t)
}

func (s *bookingService) findUser(userID string) (*models.User, error) {
	if userID == "" {
		return nil, ErrNotLoggedIn
	}
	user, ok := s.users.FindByID(userID)
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *bookingService) resolveRestaurant(key string) (*models.Restaurant, error) {
	if r, ok := s.catalog.ByName(key); ok {
		return r, nil
	}
	if r, ok := s.catalog.ByID(key); ok {
		return r, nil
	}
	return nil, ErrRestaurantNotFound
}

// validateTime checks opening hours and returns the time in canonical HH:MM form.
func (s *bookingService) validateTime(r *models.Restaurant, at string) (string, error) {
	ok, err := s.catalog.IsValidBookingTime(r, at)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidTime, err)
	}
	if !ok {
		return "", ErrInvalidTime
	}
	return catalog.NormalizeClock(at)
}

// refreshBookings recomputes the user's current bookings from the ledger so the
// in-memory view cannot drift from it. Callers hold s.mu.
func (s *bookingService) refreshBookings(ctx context.Context, user *models.User) error {
	recs, err := s.ledger.FindByUserID(ctx, user.ID)
	if err != nil {
		return err
	}
	bookings := make([]models.UserBooking, 0, len(recs))
	for _, rec := range recs {
		bookings = append(bookings, rec.ToUserBooking())
	}
	user.CurrentBookings = bookings
	return nil
}

func (s *bookingService) publish(ctx context.Context, routingKey string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, routingKey, payload); err != nil {
		log.Printf("[BookingService] publish %s failed: %v", routingKey, err)
	}
}

func dropBooking(bookings []models.UserBooking, id uint64) []models.UserBooking {
	out := bookings[:0:0]
	for _, b := range bookings {
		if b.BookingID != id {
			out = append(out, b)
		}
	}
	return out
}

func snapshot(u *models.User) *models.User {
	cp := *u
	cp.CurrentBookings = append([]models.UserBooking(nil), u.CurrentBookings...)
	if cp.CurrentBookings == nil {
		cp.CurrentBookings = []models.UserBooking{}
	}
	return &cp
}
