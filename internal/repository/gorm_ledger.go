package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Eursukkul/restaurant-booking/internal/models"
	"gorm.io/gorm"
)

type gormLedger struct {
	db *gorm.DB
}

// NewGormLedger stores the ledger in the "bookings" table. The table must
// have been migrated (see pkg/database).
func NewGormLedger(db *gorm.DB) LedgerRepository {
	return &gormLedger{db: db}
}

// NextBookingID draws from the serial sequence behind bookings.booking_id.
func (r *gormLedger) NextBookingID(ctx context.Context) (uint64, error) {
	var id uint64
	err := r.db.WithContext(ctx).
		Raw("SELECT nextval(pg_get_serial_sequence('bookings', 'booking_id'))").
		Scan(&id).Error
	if err != nil {
		return 0, ledgerErr("next booking id", err)
	}
	return id, nil
}

func (r *gormLedger) Append(ctx context.Context, rec *models.BookingRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return ledgerErr("append", err)
	}
	return nil
}

func (r *gormLedger) RemoveByBookingID(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).
		Where("booking_id = ?", id).
		Delete(&models.BookingRecord{})
	if res.Error != nil {
		return ledgerErr("remove", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrBookingRecordNotFound
	}
	return nil
}

func (r *gormLedger) FindByID(ctx context.Context, id uint64) (*models.BookingRecord, error) {
	var rec models.BookingRecord
	err := r.db.WithContext(ctx).Where("booking_id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingRecordNotFound
	}
	if err != nil {
		return nil, ledgerErr("find", err)
	}
	return &rec, nil
}

func (r *gormLedger) FindByUserID(ctx context.Context, userID string) ([]models.BookingRecord, error) {
	var recs []models.BookingRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("booking_id ASC").
		Find(&recs).Error
	if err != nil {
		return nil, ledgerErr("find by user", err)
	}
	return recs, nil
}

func (r *gormLedger) Scan(ctx context.Context, keep func(models.BookingRecord) bool) ([]models.BookingRecord, error) {
	var recs []models.BookingRecord
	if err := r.db.WithContext(ctx).Order("booking_id ASC").Find(&recs).Error; err != nil {
		return nil, ledgerErr("scan", err)
	}
	out := make([]models.BookingRecord, 0, len(recs))
	for _, rec := range recs {
		if keep == nil || keep(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *gormLedger) CountBySlot(ctx context.Context, restaurantID, date, time string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BookingRecord{}).
		Where(map[string]any{"restaurant": restaurantID, "date": date, "time": time}).
		Count(&count).Error
	if err != nil {
		return 0, ledgerErr("count slot", err)
	}
	return count, nil
}

func ledgerErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrLedgerIO, op, err)
}
