package model

import (
	"fmt"
	"strings"
	"time"
)

// Venue represents a sports centre owned by the account that created
// it.  The creator is assigned once at creation and is immutable
// afterwards; only the creator may edit or delete the venue.  This
// struct corresponds to a row in the `venues` table.
//
// Fields:
//  ID          – primary key identifier.
//  CreatorID   – account ID of the venue creator.
//  Name        – display name of the centre.
//  Description – free-text description.
//  Address     – free-text postal address.
//  OpeningTime – daily opening time as "HH:MM".
//  ClosingTime – daily closing time as "HH:MM".
//  ImagePath   – relative path of the stored image file.
//  CreatedAt   – timestamp when the venue was created.
//  UpdatedAt   – timestamp of last update.
type Venue struct {
	ID          uint64    // venues.id
	CreatorID   uint64    // venues.creator_id
	Name        string    // venues.name
	Description string    // venues.description
	Address     string    // venues.address
	OpeningTime string    // venues.opening_time
	ClosingTime string    // venues.closing_time
	ImagePath   string    // venues.image_path
	CreatedAt   time.Time // venues.created_at
	UpdatedAt   time.Time // venues.updated_at
}

const clockLayout = "15:04"

// Slots derives the bookable time-slot labels between the venue's
// opening and closing times.  Slots are of fixed width and only whole
// slots that end at or before closing are offered.  A venue open
// 09:00-11:00 with a 60 minute width yields ["09:00-10:00","10:00-11:00"].
// Malformed times or a non-positive width yield no slots.
func (v *Venue) Slots(width time.Duration) []string {
	if width <= 0 {
		return nil
	}
	open, err := time.Parse(clockLayout, v.OpeningTime)
	if err != nil {
		return nil
	}
	close_, err := time.Parse(clockLayout, v.ClosingTime)
	if err != nil {
		return nil
	}
	var out []string
	for t := open; !t.Add(width).After(close_); t = t.Add(width) {
		end := t.Add(width)
		out = append(out, fmt.Sprintf("%s-%s", t.Format(clockLayout), end.Format(clockLayout)))
	}
	return out
}

// HasSlot reports whether label is one of the venue's offerable slots
// for the given width.  Used to reject bookings for fabricated labels.
func (v *Venue) HasSlot(label string, width time.Duration) bool {
	for _, s := range v.Slots(width) {
		if s == label {
			return true
		}
	}
	return false
}

// Matches reports whether the venue satisfies the list-page search
// query: a case-sensitive substring match against name, description
// or address.  The three conditions are a union, not ranked.
func (v *Venue) Matches(query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(v.Name, query) ||
		strings.Contains(v.Description, query) ||
		strings.Contains(v.Address, query)
}
