package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/Eursukkul/restaurant-booking/internal/flatfile"
	"github.com/Eursukkul/restaurant-booking/internal/models"
)

var (
	ErrMalformedCatalog  = errors.New("malformed restaurant catalog")
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
	ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format")
)

const (
	ClockLayout = "15:04"
	DateLayout  = "2006-01-02"
)

var columns = []string{
	"restaurant_id", "name", "cuisine_type", "rating", "location",
	"total_tables", "table_configuration", "opening_hours", "closing_hours",
}

// SlotCounter counts ledger rows occupying a (restaurant, date, time) slot.
type SlotCounter interface {
	CountBySlot(ctx context.Context, restaurantID, date, time string) (int64, error)
}

type Catalog struct {
	restaurants []models.Restaurant
	byID        map[string]int
	ledger      SlotCounter
}

func New(restaurants []models.Restaurant, ledger SlotCounter) *Catalog {
	c := &Catalog{
		restaurants: restaurants,
		byID:        make(map[string]int, len(restaurants)),
		ledger:      ledger,
	}
	for i, r := range restaurants {
		c.byID[r.ID] = i
	}
	return c
}

// LoadFile reads the catalog file at path.
func LoadFile(path string) ([]models.Restaurant, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses one restaurant per row. Any missing column, empty required
// field or non-numeric numeric field is reported as ErrMalformedCatalog.
func Load(r io.Reader) ([]models.Restaurant, error) {
	t, err := flatfile.Read(r, columns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCatalog, err)
	}

	seen := make(map[string]bool, len(t.Rows))
	restaurants := make([]models.Restaurant, 0, len(t.Rows))
	for i, row := range t.Rows {
		line := i + 2
		rest, err := parseRow(t, row)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedCatalog, line, err)
		}
		if seen[rest.ID] {
			return nil, fmt.Errorf("%w: line %d: duplicate restaurant_id %q", ErrMalformedCatalog, line, rest.ID)
		}
		seen[rest.ID] = true
		restaurants = append(restaurants, rest)
	}
	return restaurants, nil
}

func parseRow(t *flatfile.Table, row []string) (models.Restaurant, error) {
	for _, name := range []string{"restaurant_id", "name", "rating", "total_tables", "table_configuration", "opening_hours", "closing_hours"} {
		if t.Field(row, name) == "" {
			return models.Restaurant{}, fmt.Errorf("%s is required", name)
		}
	}

	rating, err := strconv.ParseFloat(t.Field(row, "rating"), 64)
	if err != nil {
		return models.Restaurant{}, fmt.Errorf("rating: %v", err)
	}
	total, err := strconv.Atoi(t.Field(row, "total_tables"))
	if err != nil {
		return models.Restaurant{}, fmt.Errorf("total_tables: %v", err)
	}
	if total < 0 {
		return models.Restaurant{}, fmt.Errorf("total_tables: negative value %d", total)
	}

	var tables []int
	if err := json.Unmarshal([]byte(t.Field(row, "table_configuration")), &tables); err != nil {
		return models.Restaurant{}, fmt.Errorf("table_configuration: %v", err)
	}

	opening, closing := t.Field(row, "opening_hours"), t.Field(row, "closing_hours")
	if _, err := ParseClock(opening); err != nil {
		return models.Restaurant{}, fmt.Errorf("opening_hours: %v", err)
	}
	if _, err := ParseClock(closing); err != nil {
		return models.Restaurant{}, fmt.Errorf("closing_hours: %v", err)
	}

	return models.Restaurant{
		ID:                 t.Field(row, "restaurant_id"),
		Name:               t.Field(row, "name"),
		CuisineType:        t.Field(row, "cuisine_type"),
		Rating:             rating,
		Location:           t.Field(row, "location"),
		TotalTables:        total,
		TableConfiguration: tables,
		OpeningHours:       opening,
		ClosingHours:       closing,
	}, nil
}

// All returns the restaurants in catalog file order.
func (c *Catalog) All() []models.Restaurant {
	out := make([]models.Restaurant, len(c.restaurants))
	copy(out, c.restaurants)
	return out
}

// ByName returns the first restaurant whose name matches exactly.
func (c *Catalog) ByName(name string) (*models.Restaurant, bool) {
	for i := range c.restaurants {
		if c.restaurants[i].Name == name {
			r := c.restaurants[i]
			return &r, true
		}
	}
	return nil, false
}

func (c *Catalog) ByID(id string) (*models.Restaurant, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	r := c.restaurants[i]
	return &r, true
}

// AvailableTableCount returns max(0, total_tables - rows booked in the slot).
// Tables are fungible: party size and table identity are not considered.
func (c *Catalog) AvailableTableCount(ctx context.Context, r *models.Restaurant, date, time string) (int, error) {
	taken, err := c.ledger.CountBySlot(ctx, r.ID, date, time)
	if err != nil {
		return 0, err
	}
	return max(0, r.TotalTables-int(taken)), nil
}

// IsValidBookingTime reports whether opening <= at <= closing. There is no
// support for hours that cross midnight.
func (c *Catalog) IsValidBookingTime(r *models.Restaurant, at string) (bool, error) {
	return IsValidBookingTime(r, at)
}

func IsValidBookingTime(r *models.Restaurant, at string) (bool, error) {
	t, err := ParseClock(at)
	if err != nil {
		return false, err
	}
	opening, err := ParseClock(r.OpeningHours)
	if err != nil {
		return false, err
	}
	closing, err := ParseClock(r.ClosingHours)
	if err != nil {
		return false, err
	}
	return !t.Before(opening) && !t.After(closing), nil
}

// ParseClock parses an "HH:MM" time of day.
func ParseClock(s string) (time.Time, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return t, nil
}

// NormalizeClock returns s re-rendered as zero-padded "HH:MM".
func NormalizeClock(s string) (string, error) {
	t, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return t.Format(ClockLayout), nil
}

// NormalizeDate validates a "YYYY-MM-DD" date and returns it in canonical form.
func NormalizeDate(s string) (string, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return d.Format(DateLayout), nil
}
