package model

import "time"

// Account represents a registered user as stored in the `accounts`
// table.  Accounts are created at signup, mutated by the profile
// edit operation and never hard-deleted.  The staff flag grants
// venue creation and booking-list visibility; it is independent of
// venue ownership.
//
// Fields:
//  ID           – primary key identifier of the account.
//  Username     – unique login name.
//  Email        – contact email address.
//  PasswordHash – bcrypt hashed credential.
//  FirstName    – given name (may be empty).
//  LastName     – family name (may be empty).
//  IsStaff      – whether the account holds the staff capability.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Account struct {
	ID           uint64    // accounts.id
	Username     string    // accounts.username
	Email        string    // accounts.email
	PasswordHash string    // accounts.password_hash
	FirstName    string    // accounts.first_name
	LastName     string    // accounts.last_name
	IsStaff      bool      // accounts.is_staff
	CreatedAt    time.Time // accounts.created_at
	UpdatedAt    time.Time // accounts.updated_at
}
