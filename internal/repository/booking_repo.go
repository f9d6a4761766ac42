package repository

import (
	"context"
	"errors"

	"github.com/Eursukkul/restaurant-booking/internal/models"
)

var (
	ErrLedgerIO              = errors.New("booking ledger i/o failure")
	ErrBookingRecordNotFound = errors.New("booking record not found")
)

// LedgerRepository is the single writer of the booking ledger. Call sites
// never touch the backing storage directly.
type LedgerRepository interface {
	// NextBookingID reserves a ledger-wide unique id. Ids are never reused.
	NextBookingID(ctx context.Context) (uint64, error)
	Append(ctx context.Context, rec *models.BookingRecord) error
	// RemoveByBookingID deletes every row carrying id, or returns
	// ErrBookingRecordNotFound leaving the ledger untouched.
	RemoveByBookingID(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (*models.BookingRecord, error)
	FindByUserID(ctx context.Context, userID string) ([]models.BookingRecord, error)
	Scan(ctx context.Context, keep func(models.BookingRecord) bool) ([]models.BookingRecord, error)
	CountBySlot(ctx context.Context, restaurantID, date, time string) (int64, error)
}
