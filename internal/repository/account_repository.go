package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/letsplay/sports-centre-booking/internal/model"
	"github.com/letsplay/sports-centre-booking/internal/utils"
)

// AccountRepo encapsulates all database queries related to accounts.
type AccountRepo struct{ db *sql.DB }

// NewAccountRepo constructs an AccountRepo with the provided DB handle.
func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{db: db} }

const accountCols = "id, username, email, password_hash, first_name, last_name, is_staff, created_at, updated_at"

// Create inserts a new account with a freshly hashed credential and
// returns its ID.  Usernames are stored trimmed; a unique-key
// violation maps to ErrUsernameExists on both MySQL and SQLite.
func (r *AccountRepo) Create(ctx context.Context, username, email, password, first, last string, staff bool, cost int) (uint64, error) {
	username = strings.TrimSpace(username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO accounts (username, email, password_hash, first_name, last_name, is_staff) VALUES (?,?,?,?,?,?)",
		username, email, hash, first, last, staff)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches an account by its exact username.
func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (model.Account, error) {
	var a model.Account
	err := r.db.QueryRowContext(ctx,
		"SELECT "+accountCols+" FROM accounts WHERE username=? LIMIT 1",
		strings.TrimSpace(username)).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName, &a.IsStaff, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// GetByID fetches an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (model.Account, error) {
	var a model.Account
	err := r.db.QueryRowContext(ctx,
		"SELECT "+accountCols+" FROM accounts WHERE id=? LIMIT 1", id).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName, &a.IsStaff, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// UpdateProfile mutates the mutable profile fields of one account.
// Username, credential and staff flag are never touched here.  It
// returns sql.ErrNoRows when the account does not exist.
func (r *AccountRepo) UpdateProfile(ctx context.Context, id uint64, email, first, last string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE accounts SET email=?, first_name=?, last_name=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		email, first, last, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// isUniqueViolation recognises duplicate-key failures from the MySQL
// driver (error 1062) and from SQLite used in tests.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint")
}
