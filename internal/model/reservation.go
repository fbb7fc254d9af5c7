package model

import "time"

// Reservation records one booked time slot against a venue.  A single
// booking submission may produce several Reservation rows, one per
// selected slot, sharing the same submitter name, phone and date.
// Reservations are made by visitors and carry no reference to an
// Account.
//
// Fields:
//  ID        – primary key identifier.
//  VenueID   – venue being booked (required).
//  Name      – free-text name of the person booking.
//  Phone     – contact phone number (up to 10 digits).
//  Date      – booking date as "YYYY-MM-DD".
//  Slot      – time-slot label, e.g. "10:00-11:00".
//  CreatedAt – creation timestamp.
type Reservation struct {
	ID        uint64    // reservations.id
	VenueID   uint64    // reservations.venue_id
	Name      string    // reservations.name
	Phone     string    // reservations.phone
	Date      string    // reservations.date
	Slot      string    // reservations.slot
	CreatedAt time.Time // reservations.created_at
}
