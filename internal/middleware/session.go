package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/letsplay/sports-centre-booking/internal/utils"
)

// SessionCookie is the name of the cookie carrying the signed session
// token.
const SessionCookie = "session"

// loginPath is the boundary unauthenticated and unauthorized callers
// are redirected to.
const loginPath = "/accounts/login/"

// Session returns middleware that decodes the session cookie, if
// present, and injects "account_id" and "staff" into the request
// context.  Requests without a valid session pass through untouched;
// enforcement is left to RequireSession and RequireStaff.  Handlers
// read the values via c.Get.
func Session(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
				if claims, err := utils.ParseSession(secret, cookie.Value); err == nil {
					c.Set("account_id", claims.AccountID)
					c.Set("staff", claims.Staff)
				}
			}
			return next(c)
		}
	}
}

// RequireSession redirects to the login boundary when no valid session
// was established by Session.  It assumes Session ran earlier in the
// chain.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := c.Get("account_id").(uint64); !ok {
				return c.Redirect(http.StatusFound, loginPath)
			}
			return next(c)
		}
	}
}

// RequireStaff redirects to the login boundary unless the session
// belongs to an account holding the staff capability.  Mirrors
// RequireSession for the capability check, so anonymous callers and
// ordinary accounts are both turned away the same way.
func RequireStaff() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			staff, ok := c.Get("staff").(bool)
			if !ok || !staff {
				return c.Redirect(http.StatusFound, loginPath)
			}
			return next(c)
		}
	}
}

// AccountID extracts the authenticated account id from context.  The
// boolean result is false for anonymous requests.
func AccountID(c echo.Context) (uint64, bool) {
	id, ok := c.Get("account_id").(uint64)
	return id, ok
}
