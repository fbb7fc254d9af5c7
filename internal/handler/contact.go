package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/letsplay/sports-centre-booking/internal/config"
	"github.com/letsplay/sports-centre-booking/internal/flash"
	"github.com/letsplay/sports-centre-booking/internal/notify"
)

// EmailPublisher enqueues outbound emails.  Satisfied by
// notify.Publisher; tests substitute a stub.
type EmailPublisher interface {
	PublishEmail(ctx context.Context, msg notify.EmailMessage) error
}

// ContactHandler serves the feedback form.  A valid submission sends
// two notifications: a thank-you to the submitter and a summary to the
// operator address.  Nothing is persisted.
type ContactHandler struct {
	Cfg   config.Config
	Queue EmailPublisher
	Flash *flash.Store
	Log   zerolog.Logger
}

func NewContactHandler(cfg config.Config, queue EmailPublisher, fl *flash.Store, log zerolog.Logger) *ContactHandler {
	return &ContactHandler{Cfg: cfg, Queue: queue, Flash: fl, Log: log}
}

type contactForm struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Phone    string `json:"phone_number" form:"phone_number"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Feedback string `json:"feedback" form:"feedback" validate:"required"`
}

const feedbackSubject = "Let's Play: Feedback"

// Form serves the contact form description together with any pending
// acknowledgment from a previous submission.
func (h *ContactHandler) Form(c echo.Context) error {
	resp := echo.Map{
		"fields": []string{"name", "phone_number", "email", "feedback"},
	}
	if msg := h.Flash.Pop(c.Request().Context(), c); msg != "" {
		resp["message"] = msg
	}
	return c.JSON(http.StatusOK, resp)
}

// Submit validates the feedback and publishes both notification
// emails.  A publish failure is surfaced as 502.
func (h *ContactHandler) Submit(c echo.Context) error {
	var req contactForm
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fieldErrors(err)})
	}

	ctx := c.Request().Context()

	thanks := notify.EmailMessage{
		To:      req.Email,
		From:    h.Cfg.FromEmail,
		Subject: feedbackSubject,
		Body:    fmt.Sprintf("Hi %s,\nThank you for your feedback.\nRegards,\nLet's Play", req.Name),
	}
	summary := notify.EmailMessage{
		To:      h.Cfg.OperatorEmail,
		From:    h.Cfg.FromEmail,
		Subject: feedbackSubject,
		Body: fmt.Sprintf("Hi Admin,\nName: %s\nPhone Number: %s\nEmail: %s\nFeedback: %s\nthank you",
			req.Name, req.Phone, req.Email, req.Feedback),
	}
	for _, msg := range []notify.EmailMessage{thanks, summary} {
		if err := h.Queue.PublishEmail(ctx, msg); err != nil {
			h.Log.Error().Err(err).Str("to", msg.To).Msg("feedback notification failed")
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "notification delivery failed"})
		}
	}

	ack := fmt.Sprintf("Thank you for your valuable feedback %s!!", req.Name)
	if err := h.Flash.Put(ctx, c, ack); err != nil {
		h.Log.Warn().Err(err).Msg("flash store failed")
	}
	return c.Redirect(http.StatusSeeOther, "/accounts/contact/")
}
