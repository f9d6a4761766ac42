package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type User struct {
	ID              string        `json:"user_id"`
	Name            string        `json:"name"`
	Email           string        `json:"email"`
	PhoneNumber     string        `json:"phone_number"`
	CurrentBookings []UserBooking `json:"current_bookings"`
}

// UserBooking is the per-user view of a booking:
// (booking id, restaurant id, date, time, table id, party size).
type UserBooking struct {
	BookingID    uint64 `json:"booking_id"`
	RestaurantID string `json:"restaurant_id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	TableID      int    `json:"table_id"`
	PartySize    int    `json:"party_size"`
}

// UnmarshalJSON accepts either the object form or the positional tuple form
// [booking_id, restaurant_id, date, time, table_id, party_size].
// Numeric fields may be given as numbers or numeric strings.
func (b *UserBooking) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		type plain UserBooking
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*b = UserBooking(p)
		return nil
	}

	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if len(fields) != 6 {
		return fmt.Errorf("booking tuple has %d fields, want 6", len(fields))
	}

	id, err := rawInt(fields[0])
	if err != nil {
		return fmt.Errorf("booking_id: %w", err)
	}
	table, err := rawInt(fields[4])
	if err != nil {
		return fmt.Errorf("table_id: %w", err)
	}
	party, err := rawInt(fields[5])
	if err != nil {
		return fmt.Errorf("party_size: %w", err)
	}
	if id < 0 {
		return fmt.Errorf("booking_id: negative value %d", id)
	}

	var restaurant, date, at string
	if err := json.Unmarshal(fields[1], &restaurant); err != nil {
		return fmt.Errorf("restaurant_id: %w", err)
	}
	if err := json.Unmarshal(fields[2], &date); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	if err := json.Unmarshal(fields[3], &at); err != nil {
		return fmt.Errorf("time: %w", err)
	}

	*b = UserBooking{
		BookingID:    uint64(id),
		RestaurantID: restaurant,
		Date:         date,
		Time:         at,
		TableID:      int(table),
		PartySize:    int(party),
	}
	return nil
}

func rawInt(raw json.RawMessage) (int64, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.Int64()
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	return strconv.ParseInt(s, 10, 64)
}
