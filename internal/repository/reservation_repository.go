package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/letsplay/sports-centre-booking/internal/model"
)

// ReservationRepo encapsulates all database queries related to
// reservations.
type ReservationRepo struct{ db *sql.DB }

// NewReservationRepo constructs a ReservationRepo with the provided DB
// handle.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// CreateBatch persists one reservation row per selected slot, all
// sharing the same submitter name, phone and date.  The whole batch
// runs in a single transaction: if any insert fails, or any slot is
// already reserved for the same venue and date, every row is rolled
// back and nothing is persisted.  On a duplicate the returned error
// wraps ErrSlotTaken with the offending slot label.
//
// The pre-check gives the friendly per-slot error, but the invariant
// itself is held by the UNIQUE(venue_id, date, slot) index: two
// concurrent submissions for the same slot both pass the COUNT under
// REPEATABLE READ, and the second insert then fails on the key.
func (r *ReservationRepo) CreateBatch(ctx context.Context, venueID uint64, name, phone, date string, slots []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, slot := range slots {
		var n int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM reservations WHERE venue_id=? AND date=? AND slot=?",
			venueID, date, slot).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %s", ErrSlotTaken, slot)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO reservations (venue_id, name, phone, date, slot) VALUES (?,?,?,?,?)",
			venueID, name, phone, date, slot); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s", ErrSlotTaken, slot)
			}
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListAll returns every reservation across all venues ordered by date
// descending, newest booking date first.  Used by the staff-only
// booking list.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]*model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, venue_id, name, phone, date, slot, created_at FROM reservations ORDER BY date DESC, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Reservation
	for rows.Next() {
		b := new(model.Reservation)
		if err := rows.Scan(&b.ID, &b.VenueID, &b.Name, &b.Phone, &b.Date, &b.Slot, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByVenueAndDate returns the slot labels already reserved for one
// venue on one date.
func (r *ReservationRepo) ListByVenueAndDate(ctx context.Context, venueID uint64, date string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT slot FROM reservations WHERE venue_id=? AND date=?", venueID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
