package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/letsplay/sports-centre-booking/internal/config"
	"github.com/letsplay/sports-centre-booking/internal/middleware"
	"github.com/letsplay/sports-centre-booking/internal/model"
	"github.com/letsplay/sports-centre-booking/internal/repository"
)

// VenueHandler implements venue management: staff-only creation,
// public list/search and detail, creator-only edit and delete.
type VenueHandler struct {
	Cfg    config.Config
	Venues *repository.VenueRepo
	Log    zerolog.Logger
}

func NewVenueHandler(cfg config.Config, venues *repository.VenueRepo, log zerolog.Logger) *VenueHandler {
	return &VenueHandler{Cfg: cfg, Venues: venues, Log: log}
}

type venueForm struct {
	Name        string `json:"name" form:"name" validate:"required,max=200"`
	Description string `json:"description" form:"description" validate:"required,max=250"`
	Address     string `json:"address" form:"address" validate:"required,max=250"`
	OpeningTime string `json:"opening_time" form:"opening_time" validate:"required,datetime=15:04"`
	ClosingTime string `json:"closing_time" form:"closing_time" validate:"required,datetime=15:04"`
}

type venueResp struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	OpeningTime string `json:"opening_time"`
	ClosingTime string `json:"closing_time"`
	Image       string `json:"image,omitempty"`
}

func toVenueResp(v *model.Venue) venueResp {
	return venueResp{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		Address:     v.Address,
		OpeningTime: v.OpeningTime,
		ClosingTime: v.ClosingTime,
		Image:       v.ImagePath,
	}
}

// CreateForm serves the venue creation form description.  Reaching it
// at all requires the staff capability (enforced by middleware).
func (h *VenueHandler) CreateForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"fields": []string{"name", "description", "address", "opening_time", "closing_time", "image"},
	})
}

// Create persists a new venue with the caller as its creator.  The
// creator is assigned once here and is immutable afterwards.
func (h *VenueHandler) Create(c echo.Context) error {
	creatorID, _ := middleware.AccountID(c)

	var req venueForm
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fieldErrors(err)})
	}
	imagePath, err := h.saveImage(c)
	if err != nil {
		h.Log.Error().Err(err).Msg("venue create: image save failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "image save failed"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	v := &model.Venue{
		CreatorID:   creatorID,
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		OpeningTime: req.OpeningTime,
		ClosingTime: req.ClosingTime,
		ImagePath:   imagePath,
	}
	if err := h.Venues.Create(ctx, v); err != nil {
		h.Log.Error().Err(err).Msg("venue create failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create venue failed"})
	}
	h.Log.Info().Uint64("venue_id", v.ID).Uint64("creator_id", creatorID).Str("name", v.Name).Msg("venue created")
	return c.Redirect(http.StatusSeeOther, "/")
}

// List returns all venues, optionally filtered by the qry query
// parameter: a case-sensitive substring match against name OR
// description OR address.
func (h *VenueHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	venues, err := h.Venues.ListAll(ctx)
	if err != nil {
		h.Log.Error().Err(err).Msg("venue list failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list venues failed"})
	}

	query := c.QueryParam("qry")
	out := make([]venueResp, 0, len(venues))
	for _, v := range venues {
		if v.Matches(query) {
			out = append(out, toVenueResp(v))
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"venues": out})
}

// Detail returns a single venue by identifier, 404 when absent.
func (h *VenueHandler) Detail(c echo.Context) error {
	v, err := h.loadVenue(c)
	if err != nil {
		return h.venueError(c, err)
	}
	return c.JSON(http.StatusOK, toVenueResp(v))
}

// EditForm serves the edit form pre-filled with the stored values.
// Only the creator may see it; a GET never mutates the venue.
func (h *VenueHandler) EditForm(c echo.Context) error {
	v, err := h.loadVenue(c)
	if err != nil {
		return h.venueError(c, err)
	}
	if id, _ := middleware.AccountID(c); id != v.CreatorID {
		return c.Redirect(http.StatusFound, "/accounts/login/")
	}
	return c.JSON(http.StatusOK, toVenueResp(v))
}

// Edit rewrites the venue's editable fields.  Rejected unless the
// caller is the stored creator.
func (h *VenueHandler) Edit(c echo.Context) error {
	v, err := h.loadVenue(c)
	if err != nil {
		return h.venueError(c, err)
	}
	callerID, _ := middleware.AccountID(c)
	if callerID != v.CreatorID {
		return c.Redirect(http.StatusFound, "/accounts/login/")
	}

	var req venueForm
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fieldErrors(err)})
	}
	imagePath, err := h.saveImage(c)
	if err != nil {
		h.Log.Error().Err(err).Msg("venue edit: image save failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "image save failed"})
	}
	if imagePath == "" {
		imagePath = v.ImagePath // no new upload keeps the stored image
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	updated := &model.Venue{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		OpeningTime: req.OpeningTime,
		ClosingTime: req.ClosingTime,
		ImagePath:   imagePath,
	}
	if err := h.Venues.Update(ctx, v.ID, callerID, updated); err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.Redirect(http.StatusFound, "/accounts/login/")
		}
		h.Log.Error().Err(err).Uint64("venue_id", v.ID).Msg("venue update failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update venue failed"})
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// DeleteConfirm renders the confirmation step: the venue about to be
// removed, without removing anything.
func (h *VenueHandler) DeleteConfirm(c echo.Context) error {
	v, err := h.loadVenue(c)
	if err != nil {
		return h.venueError(c, err)
	}
	if id, _ := middleware.AccountID(c); id != v.CreatorID {
		return c.Redirect(http.StatusFound, "/accounts/login/")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"confirm": "POST to this URL confirms deletion",
		"venue":   toVenueResp(v),
	})
}

// Delete performs the deletion after the confirming write.  The venue
// and its reservations go together in one transaction.
func (h *VenueHandler) Delete(c echo.Context) error {
	v, err := h.loadVenue(c)
	if err != nil {
		return h.venueError(c, err)
	}
	callerID, _ := middleware.AccountID(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Venues.DeleteByIDAndCreator(ctx, v.ID, callerID); err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.Redirect(http.StatusFound, "/accounts/login/")
		}
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		h.Log.Error().Err(err).Uint64("venue_id", v.ID).Msg("venue delete failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete venue failed"})
	}
	h.Log.Info().Uint64("venue_id", v.ID).Msg("venue deleted")
	return c.Redirect(http.StatusSeeOther, "/")
}

// loadVenue resolves the :id path parameter to a venue.  Unparseable
// ids map to ErrVenueNotFound so unknown and malformed identifiers
// look the same to the client.
func (h *VenueHandler) loadVenue(c echo.Context) (*model.Venue, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return nil, repository.ErrVenueNotFound
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	return h.Venues.GetByID(ctx, id)
}

// venueError writes the response for a loadVenue failure.
func (h *VenueHandler) venueError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrVenueNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
	}
	h.Log.Error().Err(err).Msg("venue load failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

// saveImage stores an uploaded venue image under the configured upload
// directory with a UUID filename.  A missing file field is not an
// error; it returns an empty path.
func (h *VenueHandler) saveImage(c echo.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil // no image submitted
	}
	if err := os.MkdirAll(h.Cfg.UploadDir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + filepath.Ext(file.Filename)
	dst := filepath.Join(h.Cfg.UploadDir, name)
	if err := copyUpload(file, dst); err != nil {
		return "", err
	}
	return name, nil
}

func copyUpload(file *multipart.FileHeader, dst string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
