package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Eursukkul/restaurant-booking/internal/flatfile"
	"github.com/Eursukkul/restaurant-booking/internal/models"
)

var ErrMalformedRegistry = errors.New("malformed user registry")

var columns = []string{"user_id", "name", "email", "phone_number", "current_bookings"}

// Registry owns the loaded users for the lifetime of the process. Lookups
// return the shared *models.User so in-memory booking state stays attached to it.
type Registry struct {
	users []*models.User
	byID  map[string]*models.User
}

func New(users []models.User) *Registry {
	reg := &Registry{
		users: make([]*models.User, 0, len(users)),
		byID:  make(map[string]*models.User, len(users)),
	}
	for i := range users {
		u := users[i]
		reg.users = append(reg.users, &u)
		reg.byID[u.ID] = &u
	}
	return reg
}

func LoadFile(path string) ([]models.User, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open registry %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses one user per row. current_bookings is a JSON array of booking
// tuples; an empty cell means no bookings.
func Load(r io.Reader) ([]models.User, error) {
	t, err := flatfile.Read(r, columns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRegistry, err)
	}

	seen := make(map[string]bool, len(t.Rows))
	users := make([]models.User, 0, len(t.Rows))
	for i, row := range t.Rows {
		line := i + 2
		id := t.Field(row, "user_id")
		if id == "" {
			return nil, fmt.Errorf("%w: line %d: user_id is required", ErrMalformedRegistry, line)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: line %d: duplicate user_id %q", ErrMalformedRegistry, line, id)
		}
		seen[id] = true

		var bookings []models.UserBooking
		if raw := t.Field(row, "current_bookings"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &bookings); err != nil {
				return nil, fmt.Errorf("%w: line %d: current_bookings: %v", ErrMalformedRegistry, line, err)
			}
		}
		if bookings == nil {
			bookings = []models.UserBooking{}
		}

		users = append(users, models.User{
			ID:              id,
			Name:            t.Field(row, "name"),
			Email:           t.Field(row, "email"),
			PhoneNumber:     t.Field(row, "phone_number"),
			CurrentBookings: bookings,
		})
	}
	return users, nil
}

func (r *Registry) FindByID(id string) (*models.User, bool) {
	u, ok := r.byID[id]
	return u, ok
}

func (r *Registry) All() []*models.User {
	out := make([]*models.User, len(r.users))
	copy(out, r.users)
	return out
}
