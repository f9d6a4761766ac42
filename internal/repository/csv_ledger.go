package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/Eursukkul/restaurant-booking/internal/catalog"
	"github.com/Eursukkul/restaurant-booking/internal/models"
)

type csvLedger struct {
	mu      sync.Mutex
	path    string
	seqPath string
}

// NewCSVLedger opens the ledger file at path, creating it with a header row
// when it does not exist. An unreadable or malformed ledger is an error.
// The id counter lives next to the ledger in path + ".seq".
func NewCSVLedger(path string) (LedgerRepository, error) {
	l := &csvLedger{path: path, seqPath: path + ".seq"}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := l.rewrite(nil); err != nil {
			return nil, err
		}
		log.Printf("[Ledger] created %s", path)
		return l, nil
	} else if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", ErrLedgerIO, path, err)
	}

	if _, err := l.load(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *csvLedger) NextBookingID(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	last, err := l.readSeq()
	if err != nil {
		return 0, err
	}
	records, err := l.load()
	if err != nil {
		return 0, err
	}
	for _, rec := range records {
		last = max(last, rec.BookingID)
	}

	next := last + 1
	err = writeFileAtomic(l.seqPath, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%d\n", next)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%w: write %s: %v", ErrLedgerIO, l.seqPath, err)
	}
	return next, nil
}

func (l *csvLedger) Append(ctx context.Context, rec *models.BookingRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrLedgerIO, l.path, err)
	}

	err = func() error {
		info, err := f.Stat()
		if err != nil {
			return err
		}
		// a hand-edited ledger may lack the final newline
		if info.Size() > 0 {
			last := make([]byte, 1)
			if _, err := f.ReadAt(last, info.Size()-1); err != nil {
				return err
			}
			if last[0] != '\n' {
				if _, err := f.Write([]byte("\n")); err != nil {
					return err
				}
			}
		}

		w := csv.NewWriter(f)
		if info.Size() == 0 {
			if err := w.Write(models.LedgerHeader); err != nil {
				return err
			}
		}
		if err := w.Write(toRow(*rec)); err != nil {
			return err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
		return f.Sync()
	}()
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%w: append %s: %v", ErrLedgerIO, l.path, err)
	}

	log.Printf("[Ledger] appended booking %d (%s %s %s)", rec.BookingID, rec.RestaurantID, rec.Date, rec.Time)
	return nil
}

func (l *csvLedger) RemoveByBookingID(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.load()
	if err != nil {
		return err
	}

	kept := make([]models.BookingRecord, 0, len(records))
	for _, rec := range records {
		if rec.BookingID != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return ErrBookingRecordNotFound
	}

	if err := l.rewrite(kept); err != nil {
		return err
	}
	log.Printf("[Ledger] removed booking %d", id)
	return nil
}

func (l *csvLedger) FindByID(ctx context.Context, id uint64) (*models.BookingRecord, error) {
	found, err := l.Scan(ctx, func(rec models.BookingRecord) bool { return rec.BookingID == id })
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, ErrBookingRecordNotFound
	}
	return &found[0], nil
}

func (l *csvLedger) FindByUserID(ctx context.Context, userID string) ([]models.BookingRecord, error) {
	return l.Scan(ctx, func(rec models.BookingRecord) bool { return rec.UserID == userID })
}

func (l *csvLedger) Scan(ctx context.Context, keep func(models.BookingRecord) bool) ([]models.BookingRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.load()
	if err != nil {
		return nil, err
	}
	out := make([]models.BookingRecord, 0)
	for _, rec := range records {
		if keep == nil || keep(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (l *csvLedger) CountBySlot(ctx context.Context, restaurantID, date, time string) (int64, error) {
	matches, err := l.Scan(ctx, func(rec models.BookingRecord) bool {
		return rec.MatchesSlot(restaurantID, date, time)
	})
	if err != nil {
		return 0, err
	}
	return int64(len(matches)), nil
}

// load reads the whole ledger. Callers hold l.mu.
func (l *csvLedger) load() ([]models.BookingRecord, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrLedgerIO, l.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrLedgerIO, l.path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if !isHeader(rows[0]) {
		return nil, fmt.Errorf("%w: %s: unexpected header %v", ErrLedgerIO, l.path, rows[0])
	}

	records := make([]models.BookingRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := fromRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrLedgerIO, l.path, i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// rewrite replaces the ledger with header + records via a temp file and rename,
// so a crash mid-write leaves the previous ledger intact.
func (l *csvLedger) rewrite(records []models.BookingRecord) error {
	err := writeFileAtomic(l.path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(models.LedgerHeader); err != nil {
			return err
		}
		for _, rec := range records {
			if err := cw.Write(toRow(rec)); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return fmt.Errorf("%w: rewrite %s: %v", ErrLedgerIO, l.path, err)
	}
	return nil
}

func (l *csvLedger) readSeq() (uint64, error) {
	b, err := os.ReadFile(l.seqPath)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: read %s: %v", ErrLedgerIO, l.seqPath, err)
	}
	s := strings.TrimSpace(string(b))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrLedgerIO, l.seqPath, err)
	}
	return n, nil
}

func writeFileAtomic(path string, write func(io.Writer) error) error {
	perm := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func isHeader(row []string) bool {
	if len(row) != len(models.LedgerHeader) {
		return false
	}
	for i, name := range models.LedgerHeader {
		if strings.TrimSpace(strings.TrimPrefix(row[i], "\ufeff")) != name {
			return false
		}
	}
	return true
}

func toRow(rec models.BookingRecord) []string {
	return []string{
		strconv.FormatUint(rec.BookingID, 10),
		rec.UserID,
		rec.RestaurantID,
		strconv.Itoa(rec.TableID),
		rec.Date,
		rec.Time,
		strconv.Itoa(rec.PartySize),
	}
}

func fromRow(row []string) (models.BookingRecord, error) {
	if len(row) != len(models.LedgerHeader) {
		return models.BookingRecord{}, fmt.Errorf("expected %d fields, got %d", len(models.LedgerHeader), len(row))
	}
	id, err := strconv.ParseUint(strings.TrimSpace(row[0]), 10, 64)
	if err != nil {
		return models.BookingRecord{}, fmt.Errorf("booking_id: %v", err)
	}
	table, err := strconv.Atoi(strings.TrimSpace(row[3]))
	if err != nil {
		return models.BookingRecord{}, fmt.Errorf("table_id: %v", err)
	}
	party, err := strconv.Atoi(strings.TrimSpace(row[6]))
	if err != nil {
		return models.BookingRecord{}, fmt.Errorf("party_size: %v", err)
	}
	return models.BookingRecord{
		BookingID:    id,
		UserID:       row[1],
		RestaurantID: row[2],
		TableID:      table,
		Date:         canonical(row[4], catalog.NormalizeDate),
		Time:         canonical(row[5], catalog.NormalizeClock),
		PartySize:    party,
	}, nil
}

// canonical rewrites a stored date or time the way requests are normalized,
// so rows like "9:00" still match the "09:00" slot. Unparseable values are
// kept as written.
func canonical(s string, normalize func(string) (string, error)) string {
	s = strings.TrimSpace(s)
	if n, err := normalize(s); err == nil {
		return n
	}
	return s
}
