package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/letsplay/sports-centre-booking/internal/config"
	"github.com/letsplay/sports-centre-booking/internal/middleware"
	"github.com/letsplay/sports-centre-booking/internal/repository"
	"github.com/letsplay/sports-centre-booking/internal/utils"
)

// AuthHandler bundles dependencies for the identity endpoints:
// registration, login/logout, profile view and profile edit.
type AuthHandler struct {
	Cfg      config.Config
	Accounts *repository.AccountRepo
	Log      zerolog.Logger
}

func NewAuthHandler(cfg config.Config, accounts *repository.AccountRepo, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Accounts: accounts, Log: log}
}

// ----- DTOs -----

type signupForm struct {
	Username  string `json:"username" form:"username" validate:"required,max=150"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	Password  string `json:"password" form:"password" validate:"required"`
	FirstName string `json:"first_name" form:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" form:"last_name" validate:"max=150"`
}

type loginForm struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type profileForm struct {
	Email     string `json:"email" form:"email" validate:"required,email"`
	FirstName string `json:"first_name" form:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" form:"last_name" validate:"max=150"`
}

type accountResp struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsStaff   bool   `json:"is_staff"`
}

// SignupForm serves the registration form description.
func (h *AuthHandler) SignupForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"fields": []string{"username", "email", "password", "first_name", "last_name"},
	})
}

// Signup creates an account with a hashed credential and, mirroring
// the registration flow, immediately authenticates the new account and
// redirects to the profile page.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupForm
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fieldErrors(err)})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	// Self-service registration never grants the staff capability.
	id, err := h.Accounts.Create(ctx, req.Username, req.Email, req.Password,
		req.FirstName, req.LastName, false, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": map[string]string{"username": "username already exists"}})
		}
		h.Log.Error().Err(err).Msg("signup: create account failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create account failed"})
	}

	if err := h.startSession(c, id, false); err != nil {
		h.Log.Error().Err(err).Msg("signup: issue session failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	h.Log.Info().Uint64("account_id", id).Str("username", req.Username).Msg("account registered")
	return c.Redirect(http.StatusSeeOther, "/accounts/profile/")
}

// LoginForm serves the login form description.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"fields": []string{"username", "password"}})
}

// Login verifies credentials and starts a session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginForm
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fieldErrors(err)})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Accounts.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		h.Log.Error().Err(err).Msg("login: query failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(a.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := h.startSession(c, a.ID, a.IsStaff); err != nil {
		h.Log.Error().Err(err).Msg("login: issue session failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	return c.Redirect(http.StatusSeeOther, "/accounts/profile/")
}

// Logout clears the session cookie and redirects to the venue list.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.Redirect(http.StatusFound, "/")
}

// Profile returns the caller's account details.  The session
// middleware guarantees account_id is present.
func (h *AuthHandler) Profile(c echo.Context) error {
	id, _ := middleware.AccountID(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Accounts.GetByID(ctx, id)
	if err != nil {
		h.Log.Error().Err(err).Uint64("account_id", id).Msg("profile: load failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load account failed"})
	}
	return c.JSON(http.StatusOK, accountResp{
		ID: a.ID, Username: a.Username, Email: a.Email,
		FirstName: a.FirstName, LastName: a.LastName, IsStaff: a.IsStaff,
	})
}

// EditProfileForm serves the profile edit form pre-filled with the
// caller's current values.  A GET here never mutates the account.
func (h *AuthHandler) EditProfileForm(c echo.Context) error {
	id, _ := middleware.AccountID(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Accounts.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load account failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"email":      a.Email,
		"first_name": a.FirstName,
		"last_name":  a.LastName,
	})
}

// EditProfile mutates the caller's own account only.
func (h *AuthHandler) EditProfile(c echo.Context) error {
	id, _ := middleware.AccountID(c)

	var req profileForm
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fieldErrors(err)})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Accounts.UpdateProfile(ctx, id, req.Email, req.FirstName, req.LastName); err != nil {
		h.Log.Error().Err(err).Uint64("account_id", id).Msg("profile edit failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.Redirect(http.StatusSeeOther, "/accounts/profile/")
}

func (h *AuthHandler) startSession(c echo.Context, accountID uint64, staff bool) error {
	tok, err := utils.NewSessionToken(h.Cfg.SessionSecret, accountID, staff, h.Cfg.SessionTTLMin)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		HttpOnly: true,
	})
	return nil
}
