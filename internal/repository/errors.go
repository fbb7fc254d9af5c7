// Package repository contains data access logic separated from HTTP
// handlers.  This file defines sentinel error values reused across the
// individual repositories.  Handlers compare against them with
// errors.Is to decide between re-rendering a form, redirecting to the
// login boundary or returning a framework-level 404.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate this into a redirect
// to the login boundary.
var ErrForbidden = errors.New("forbidden")

// ErrVenueNotFound is returned when a venue cannot be found in the DB.
var ErrVenueNotFound = errors.New("venue not found")

// ErrUsernameExists is returned when account creation collides with an
// existing username.  Surfaced as a field-level validation message.
var ErrUsernameExists = errors.New("username already exists")

// ErrSlotTaken is returned when a booking submission includes a slot
// that already has a reservation for the same venue and date.  The
// whole submission is rolled back.
var ErrSlotTaken = errors.New("slot already reserved")
