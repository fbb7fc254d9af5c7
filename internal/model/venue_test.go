package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVenueSlots(t *testing.T) {
	v := &Venue{OpeningTime: "09:00", ClosingTime: "11:00"}

	slots := v.Slots(60 * time.Minute)
	assert.Equal(t, []string{"09:00-10:00", "10:00-11:00"}, slots)
}

func TestVenueSlotsPartialTrailingSlot(t *testing.T) {
	// 09:00-10:30 fits only one whole 60 minute slot.
	v := &Venue{OpeningTime: "09:00", ClosingTime: "10:30"}
	assert.Equal(t, []string{"09:00-10:00"}, v.Slots(60*time.Minute))

	// With a 30 minute width all three fit.
	assert.Equal(t, []string{"09:00-09:30", "09:30-10:00", "10:00-10:30"}, v.Slots(30*time.Minute))
}

func TestVenueSlotsDegenerate(t *testing.T) {
	assert.Nil(t, (&Venue{OpeningTime: "bogus", ClosingTime: "11:00"}).Slots(time.Hour))
	assert.Nil(t, (&Venue{OpeningTime: "09:00", ClosingTime: "11:00"}).Slots(0))
	// Closing before opening offers nothing.
	assert.Nil(t, (&Venue{OpeningTime: "11:00", ClosingTime: "09:00"}).Slots(time.Hour))
}

func TestVenueHasSlot(t *testing.T) {
	v := &Venue{OpeningTime: "09:00", ClosingTime: "11:00"}
	assert.True(t, v.HasSlot("10:00-11:00", time.Hour))
	assert.False(t, v.HasSlot("11:00-12:00", time.Hour))
	assert.False(t, v.HasSlot("09:30-10:30", time.Hour))
}

func TestVenueMatches(t *testing.T) {
	v := &Venue{Name: "City Arena", Description: "Indoor badminton courts", Address: "12 Park Road"}

	// Union over the three fields.
	assert.True(t, v.Matches("Arena"))
	assert.True(t, v.Matches("badminton"))
	assert.True(t, v.Matches("Park"))
	assert.False(t, v.Matches("swimming"))

	// Substring match is case-sensitive.
	assert.False(t, v.Matches("arena"))

	// Empty query matches everything.
	assert.True(t, v.Matches(""))
}
