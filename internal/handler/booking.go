package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/letsplay/sports-centre-booking/internal/config"
	"github.com/letsplay/sports-centre-booking/internal/flash"
	"github.com/letsplay/sports-centre-booking/internal/metrics"
	"github.com/letsplay/sports-centre-booking/internal/model"
	"github.com/letsplay/sports-centre-booking/internal/repository"
)

// BookingHandler serves the public booking form and the staff-only
// reservation listing.  No login is required to book.
type BookingHandler struct {
	Cfg          config.Config
	Venues       *repository.VenueRepo
	Reservations *repository.ReservationRepo
	Flash        *flash.Store
	Log          zerolog.Logger
}

func NewBookingHandler(cfg config.Config, venues *repository.VenueRepo, reservations *repository.ReservationRepo, fl *flash.Store, log zerolog.Logger) *BookingHandler {
	return &BookingHandler{Cfg: cfg, Venues: venues, Reservations: reservations, Flash: fl, Log: log}
}

type bookingForm struct {
	Name  string   `json:"name" form:"name" validate:"required,max=200"`
	Date  string   `json:"date" form:"date" validate:"required,datetime=2006-01-02"`
	Phone string   `json:"phone_number" form:"phone_number" validate:"required,number,max=10"`
	Slots []string `json:"slot" form:"slot" validate:"required,min=1"`
}

type reservationResp struct {
	ID      uint64 `json:"id"`
	VenueID uint64 `json:"venue_id"`
	Name    string `json:"name"`
	Phone   string `json:"phone_number"`
	Date    string `json:"date"`
	Slot    string `json:"slot"`
}

func (h *BookingHandler) slotWidth() time.Duration {
	return time.Duration(h.Cfg.SlotWidthMin) * time.Minute
}

// Form serves the booking page for one venue: the offerable time slots
// derived from its opening hours, plus any acknowledgment left by a
// previous submission.  Already-reserved slots are not excluded here.
func (h *BookingHandler) Form(c echo.Context) error {
	v, err := h.loadVenue(c)
	if err != nil {
		return h.bookingError(c, err)
	}
	resp := echo.Map{
		"venue": echo.Map{"id": v.ID, "name": v.Name},
		"slots": v.Slots(h.slotWidth()),
	}
	if msg := h.Flash.Pop(c.Request().Context(), c); msg != "" {
		resp["message"] = msg
	}
	return c.JSON(http.StatusOK, resp)
}

// Submit books one or more slots for a venue.  One reservation row is
// created per selected slot, all sharing the submitter's name, phone
// and date; the batch is atomic, so a failure part-way persists
// nothing.  On success the acknowledgment enumerating the booked slots
// is flashed and the client is redirected back to the booking form.
func (h *BookingHandler) Submit(c echo.Context) error {
	v, err := h.loadVenue(c)
	if err != nil {
		return h.bookingError(c, err)
	}

	var req bookingForm
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fieldErrors(err)})
	}

	// Deduplicate and verify every label against the venue's derived
	// slots so fabricated form values cannot be booked.
	width := h.slotWidth()
	slots := make([]string, 0, len(req.Slots))
	seen := make(map[string]struct{})
	for _, s := range req.Slots {
		s = strings.TrimSpace(s)
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if !v.HasSlot(s, width) {
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": map[string]string{"slot": "unknown time slot " + s}})
		}
		slots = append(slots, s)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Reservations.CreateBatch(ctx, v.ID, req.Name, req.Phone, req.Date, slots); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"errors": map[string]string{"slot": err.Error()}})
		}
		h.Log.Error().Err(err).Uint64("venue_id", v.ID).Msg("booking failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}
	metrics.AddReservations(len(slots))
	h.Log.Info().
		Uint64("venue_id", v.ID).
		Str("date", req.Date).
		Int("slots", len(slots)).
		Msg("booking created")

	ack := fmt.Sprintf("Thank you %s for booking %s on %s for time slots:\n%s",
		req.Name, v.Name, req.Date, strings.Join(slots, "\n"))
	if err := h.Flash.Put(ctx, c, ack); err != nil {
		h.Log.Warn().Err(err).Msg("flash store failed")
	}
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/sports-centre/%d/book/", v.ID))
}

// List returns every reservation across all venues ordered by date
// descending.  Reaching it requires the staff capability.
func (h *BookingHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := h.Reservations.ListAll(ctx)
	if err != nil {
		h.Log.Error().Err(err).Msg("booking list failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
	}
	out := make([]reservationResp, 0, len(rows))
	for _, b := range rows {
		out = append(out, reservationResp{
			ID: b.ID, VenueID: b.VenueID, Name: b.Name,
			Phone: b.Phone, Date: b.Date, Slot: b.Slot,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

func (h *BookingHandler) loadVenue(c echo.Context) (*model.Venue, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return nil, repository.ErrVenueNotFound
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	return h.Venues.GetByID(ctx, id)
}

func (h *BookingHandler) bookingError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrVenueNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
	}
	h.Log.Error().Err(err).Msg("venue load failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
