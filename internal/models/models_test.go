package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserBooking_UnmarshalTuple(t *testing.T) {
	var got []UserBooking
	err := json.Unmarshal([]byte(`[[1,"R2","2024-05-01","19:00",1,4],["7","R1","2024-05-02","18:00","1","2"]]`), &got)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, UserBooking{BookingID: 1, RestaurantID: "R2", Date: "2024-05-01", Time: "19:00", TableID: 1, PartySize: 4}, got[0])
	assert.Equal(t, uint64(7), got[1].BookingID)
	assert.Equal(t, 2, got[1].PartySize)
}

func TestUserBooking_UnmarshalObject(t *testing.T) {
	var got UserBooking
	err := json.Unmarshal([]byte(`{"booking_id":3,"restaurant_id":"R1","date":"2024-05-01","time":"18:00","table_id":1,"party_size":2}`), &got)

	require.NoError(t, err)
	assert.Equal(t, uint64(3), got.BookingID)
	assert.Equal(t, "R1", got.RestaurantID)
}

func TestUserBooking_UnmarshalBadTuple(t *testing.T) {
	cases := map[string]string{
		"short":       `[1,"R1","2024-05-01","18:00",1]`,
		"bad id":      `["x","R1","2024-05-01","18:00",1,2]`,
		"negative id": `[-1,"R1","2024-05-01","18:00",1,2]`,
		"bad date":    `[1,"R1",20240501,"18:00",1,2]`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			var got UserBooking
			assert.Error(t, json.Unmarshal([]byte(in), &got))
		})
	}
}

func TestBookingRecord_SlotAndProjection(t *testing.T) {
	rec := BookingRecord{BookingID: 5, UserID: "U1", RestaurantID: "R1", TableID: 1, Date: "2024-05-01", Time: "18:00", PartySize: 4}

	assert.True(t, rec.MatchesSlot("R1", "2024-05-01", "18:00"))
	assert.False(t, rec.MatchesSlot("R1", "2024-05-01", "18:30"))
	assert.Equal(t, UserBooking{BookingID: 5, RestaurantID: "R1", Date: "2024-05-01", Time: "18:00", TableID: 1, PartySize: 4}, rec.ToUserBooking())
}

func TestRestaurant_DisplayInfo(t *testing.T) {
	r := Restaurant{Name: "Cafe A", CuisineType: "Cafe", Rating: 4, Location: "Downtown"}

	assert.Equal(t, "Cafe A - Cafe - Rating: 4.0/5 - Location: Downtown", r.DisplayInfo())

	r.Rating = 4.25
	assert.Equal(t, "Cafe A - Cafe - Rating: 4.25/5 - Location: Downtown", r.DisplayInfo())
}
