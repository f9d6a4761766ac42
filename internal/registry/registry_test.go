package registry

import (
	"strings"
	"testing"

	"github.com/Eursukkul/restaurant-booking/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "user_id,name,email,phone_number,current_bookings\n"

func TestLoad_Success(t *testing.T) {
	src := header +
		`U1,Alice,alice@example.com,555-0101,[]` + "\n" +
		`U2,Bob,bob@example.com,555-0102,"[[3,""R1"",""2024-05-01"",""18:00"",1,""2""]]"` + "\n" +
		`U3,Chen,chen@example.com,555-0103,"[{""booking_id"":7,""restaurant_id"":""R2"",""date"":""2024-06-01"",""time"":""12:00"",""table_id"":1,""party_size"":4}]"` + "\n" +
		`U4,Dana,dana@example.com,555-0104,` + "\n"

	users, err := Load(strings.NewReader(src))

	require.NoError(t, err)
	require.Len(t, users, 4)
	assert.Empty(t, users[0].CurrentBookings)
	assert.Equal(t, []models.UserBooking{
		{BookingID: 3, RestaurantID: "R1", Date: "2024-05-01", Time: "18:00", TableID: 1, PartySize: 2},
	}, users[1].CurrentBookings)
	assert.Equal(t, uint64(7), users[2].CurrentBookings[0].BookingID)
	assert.Equal(t, 4, users[2].CurrentBookings[0].PartySize)
	assert.NotNil(t, users[3].CurrentBookings)
	assert.Empty(t, users[3].CurrentBookings)
}

func TestLoad_Malformed(t *testing.T) {
	cases := map[string]string{
		"missing column": "user_id,name\nU1,Alice\n",
		"empty user id":  header + ",Alice,a@example.com,1,[]\n",
		"duplicate id":   header + "U1,Alice,a@example.com,1,[]\nU1,Al,b@example.com,2,[]\n",
		"python literal": header + `U1,Alice,a@example.com,1,"[(1, 'R1')]"` + "\n",
		"short tuple":    header + `U1,Alice,a@example.com,1,"[[1,""R1""]]"` + "\n",
		"bad booking id": header + `U1,Alice,a@example.com,1,"[[""x"",""R1"",""2024-05-01"",""18:00"",1,2]]"` + "\n",
	}

	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			users, err := Load(strings.NewReader(src))

			assert.ErrorIs(t, err, ErrMalformedRegistry)
			assert.Nil(t, users)
		})
	}
}

func TestFindByID_SharedInstance(t *testing.T) {
	reg := New([]models.User{{ID: "U1", Name: "Alice"}, {ID: "U2", Name: "Bob"}})

	u, ok := reg.FindByID("U1")
	require.True(t, ok)
	u.CurrentBookings = append(u.CurrentBookings, models.UserBooking{BookingID: 9})

	again, _ := reg.FindByID("U1")
	assert.Len(t, again.CurrentBookings, 1)

	_, ok = reg.FindByID("nobody")
	assert.False(t, ok)
	assert.Len(t, reg.All(), 2)
}
