package handler

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// validate is the shared validator instance.  Every operation binds
// into its own typed input struct and runs it through here; failures
// come back as a field→message map so the client can re-render the
// form with inline errors.
var validate = validator.New()

// dbTimeout bounds every database call made on behalf of a request.
const dbTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// fieldErrors converts validator failures into per-field messages.
// Only the first failing rule per field is reported, mirroring how a
// form displays one message under each input.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["form"] = "invalid input"
		return out
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		if _, seen := out[field]; seen {
			continue
		}
		switch fe.Tag() {
		case "required":
			out[field] = "this field is required"
		case "email":
			out[field] = "enter a valid email address"
		case "max":
			out[field] = "value too long"
		case "number", "numeric":
			out[field] = "digits only"
		case "datetime":
			out[field] = "invalid format"
		default:
			out[field] = "invalid value"
		}
	}
	return out
}
