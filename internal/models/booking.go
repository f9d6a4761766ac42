package models

// LedgerHeader is the header row of the booking ledger file.
var LedgerHeader = []string{"booking_id", "user_id", "restaurant", "table_id", "date", "time", "party_size"}

// BookingRecord is one row of the booking ledger.
type BookingRecord struct {
	BookingID    uint64 `gorm:"column:booking_id;primaryKey;autoIncrement" json:"booking_id"`
	UserID       string `gorm:"column:user_id;not null;index" json:"user_id"`
	RestaurantID string `gorm:"column:restaurant;not null;index:idx_booking_slot" json:"restaurant_id"`
	TableID      int    `gorm:"column:table_id;not null" json:"table_id"`
	Date         string `gorm:"column:date;type:varchar(10);not null;index:idx_booking_slot" json:"date"`
	Time         string `gorm:"column:time;type:varchar(5);not null;index:idx_booking_slot" json:"time"`
	PartySize    int    `gorm:"column:party_size;not null" json:"party_size"`
}

func (BookingRecord) TableName() string {
	return "bookings"
}

// MatchesSlot reports whether the record occupies the given (restaurant, date, time) slot.
func (b BookingRecord) MatchesSlot(restaurantID, date, time string) bool {
	return b.RestaurantID == restaurantID && b.Date == date && b.Time == time
}

// ToUserBooking projects the ledger row onto the per-user booking tuple.
func (b BookingRecord) ToUserBooking() UserBooking {
	return UserBooking{
		BookingID:    b.BookingID,
		RestaurantID: b.RestaurantID,
		Date:         b.Date,
		Time:         b.Time,
		TableID:      b.TableID,
		PartySize:    b.PartySize,
	}
}
