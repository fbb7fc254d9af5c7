package database

import (
	"context"
	"database/sql"
)

// The schema is kept in two dialects: MySQL for production and SQLite for
// the in-memory databases used by tests.  Statements are ordered parent
// before child so foreign keys resolve on both engines.

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username      VARCHAR(150) NOT NULL UNIQUE,
		email         VARCHAR(254) NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		first_name    VARCHAR(150) NOT NULL DEFAULT '',
		last_name     VARCHAR(150) NOT NULL DEFAULT '',
		is_staff      TINYINT(1) NOT NULL DEFAULT 0,
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS venues (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		creator_id   BIGINT UNSIGNED NOT NULL,
		name         VARCHAR(200) NOT NULL,
		description  VARCHAR(250) NOT NULL,
		address      VARCHAR(250) NOT NULL,
		opening_time VARCHAR(5) NOT NULL,
		closing_time VARCHAR(5) NOT NULL,
		image_path   VARCHAR(255) NOT NULL DEFAULT '',
		created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		FOREIGN KEY (creator_id) REFERENCES accounts(id)
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		venue_id   BIGINT UNSIGNED NOT NULL,
		name       VARCHAR(200) NOT NULL,
		phone      VARCHAR(10) NOT NULL,
		date       VARCHAR(10) NOT NULL,
		slot       VARCHAR(100) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (venue_id) REFERENCES venues(id),
		UNIQUE KEY uq_reservation_slot (venue_id, date, slot)
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		username      TEXT NOT NULL UNIQUE,
		email         TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		first_name    TEXT NOT NULL DEFAULT '',
		last_name     TEXT NOT NULL DEFAULT '',
		is_staff      INTEGER NOT NULL DEFAULT 0,
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS venues (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		creator_id   INTEGER NOT NULL REFERENCES accounts(id),
		name         TEXT NOT NULL,
		description  TEXT NOT NULL,
		address      TEXT NOT NULL,
		opening_time TEXT NOT NULL,
		closing_time TEXT NOT NULL,
		image_path   TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		venue_id   INTEGER NOT NULL REFERENCES venues(id),
		name       TEXT NOT NULL,
		phone      TEXT NOT NULL,
		date       TEXT NOT NULL,
		slot       TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (venue_id, date, slot)
	)`,
}

// Migrate creates the application tables if they do not exist.  The driver
// argument selects the dialect: "mysql" or "sqlite3".
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	stmts := mysqlSchema
	if driver == "sqlite3" {
		stmts = sqliteSchema
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
