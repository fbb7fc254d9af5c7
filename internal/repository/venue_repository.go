package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/letsplay/sports-centre-booking/internal/model"
)

// VenueRepo encapsulates all database queries related to venues.  It
// depends on a sql.DB connection configured elsewhere, which allows
// dependency injection of the database in tests and at startup.
type VenueRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewVenueRepo constructs a VenueRepo with the provided DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

const venueCols = "id, creator_id, name, description, address, opening_time, closing_time, image_path, created_at, updated_at"

// Create inserts a new venue.  On success the venue's ID field is
// populated with the auto-generated value and a follow-up SELECT
// fills the default timestamp columns so callers receive a fully
// populated record.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO venues (creator_id, name, description, address, opening_time, closing_time, image_path) VALUES (?,?,?,?,?,?,?)",
		v.CreatorID, v.Name, v.Description, v.Address, v.OpeningTime, v.ClosingTime, v.ImagePath)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM venues WHERE id=?", v.ID).
		Scan(&v.CreatedAt, &v.UpdatedAt)
}

// GetByID fetches a venue by its ID regardless of creator.  It
// returns ErrVenueNotFound when no row exists.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	var v model.Venue
	err := r.db.QueryRowContext(ctx,
		"SELECT "+venueCols+" FROM venues WHERE id=?", id).
		Scan(&v.ID, &v.CreatorID, &v.Name, &v.Description, &v.Address,
			&v.OpeningTime, &v.ClosingTime, &v.ImagePath, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

// ListAll returns every venue ordered by id.  Search filtering happens
// in the handler via model.Venue.Matches so the substring semantics
// stay case-sensitive regardless of database collation.
func (r *VenueRepo) ListAll(ctx context.Context) ([]*model.Venue, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+venueCols+" FROM venues ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Venue
	for rows.Next() {
		v := new(model.Venue)
		if err := rows.Scan(&v.ID, &v.CreatorID, &v.Name, &v.Description, &v.Address,
			&v.OpeningTime, &v.ClosingTime, &v.ImagePath, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the editable fields of a venue, but only when it
// belongs to the given creator.  It returns ErrVenueNotFound when the
// venue does not exist and ErrForbidden when it is owned by someone
// else.  The creator column itself is immutable and never updated.
func (r *VenueRepo) Update(ctx context.Context, id, creatorID uint64, v *model.Venue) error {
	var dbCreator uint64
	if err := r.db.QueryRowContext(ctx,
		"SELECT creator_id FROM venues WHERE id=?", id).Scan(&dbCreator); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVenueNotFound
		}
		return err
	}
	if dbCreator != creatorID {
		return ErrForbidden
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE venues SET name=?, description=?, address=?, opening_time=?, closing_time=?, image_path=?, updated_at=CURRENT_TIMESTAMP
		 WHERE id=? AND creator_id=?`,
		v.Name, v.Description, v.Address, v.OpeningTime, v.ClosingTime, v.ImagePath, id, creatorID)
	return err
}

// DeleteByIDAndCreator removes a venue together with its reservations,
// provided it belongs to the specified creator.  ErrVenueNotFound is
// returned for unknown ids and ErrForbidden when the venue is owned by
// a different account.  The deletion runs inside a transaction so a
// failure leaves both tables untouched.
func (r *VenueRepo) DeleteByIDAndCreator(ctx context.Context, id, creatorID uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var dbCreator uint64
	if err = tx.QueryRowContext(ctx,
		"SELECT creator_id FROM venues WHERE id=?", id).Scan(&dbCreator); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrVenueNotFound
		}
		return err
	}
	if dbCreator != creatorID {
		err = ErrForbidden
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM reservations WHERE venue_id=?", id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM venues WHERE id=?", id)
	return err
}
