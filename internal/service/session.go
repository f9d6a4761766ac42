package service

import (
	"context"
	"errors"
	"sync"

	"github.com/Eursukkul/restaurant-booking/internal/models"
	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Session carries the logged-in user for a sequence of operations, the way
// a single desktop client would.
type Session struct {
	svc    BookingService
	userID string
}

func NewSession(svc BookingService) *Session {
	return &Session{svc: svc}
}

// Login switches the session to userID. On failure the previous user stays logged in.
func (s *Session) Login(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.svc.Login(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.userID = user.ID
	return user, nil
}

func (s *Session) Logout() {
	s.userID = ""
}

func (s *Session) UserID() string {
	return s.userID
}

func (s *Session) ListRestaurants(ctx context.Context) []models.Restaurant {
	return s.svc.ListRestaurants(ctx)
}

func (s *Session) Reserve(ctx context.Context, restaurant, date, time string, partySize int) (*models.BookingRecord, error) {
	if s.userID == "" {
		return nil, ErrNotLoggedIn
	}
	return s.svc.Reserve(ctx, s.userID, ReserveRequest{
		Restaurant: restaurant,
		Date:       date,
		Time:       time,
		PartySize:  partySize,
	})
}

func (s *Session) Cancel(ctx context.Context, bookingID uint64) (*models.BookingRecord, error) {
	if s.userID == "" {
		return nil, ErrNotLoggedIn
	}
	return s.svc.Cancel(ctx, s.userID, bookingID)
}

func (s *Session) History(ctx context.Context, userID string) ([]models.BookingRecord, error) {
	return s.svc.History(ctx, userID)
}

// Current returns the logged-in user with bookings rebuilt from the ledger.
func (s *Session) Current(ctx context.Context) (*models.User, error) {
	if s.userID == "" {
		return nil, ErrNotLoggedIn
	}
	return s.svc.Login(ctx, s.userID)
}

// Sessions maps opaque tokens to logged-in sessions for the HTTP layer.
type Sessions struct {
	mu      sync.RWMutex
	svc     BookingService
	byToken map[string]*Session
}

func NewSessions(svc BookingService) *Sessions {
	return &Sessions{svc: svc, byToken: make(map[string]*Session)}
}

// Open logs userID in on a fresh session and returns its token.
func (m *Sessions) Open(ctx context.Context, userID string) (string, *models.User, error) {
	sess := NewSession(m.svc)
	user, err := sess.Login(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	token := uuid.NewString()
	m.mu.Lock()
	m.byToken[token] = sess
	m.mu.Unlock()
	return token, user, nil
}

func (m *Sessions) Get(token string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.byToken[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (m *Sessions) Close(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byToken[token]; !ok {
		return ErrSessionNotFound
	}
	delete(m.byToken, token)
	return nil
}
