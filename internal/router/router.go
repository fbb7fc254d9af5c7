package router // package router defines how HTTP routes are registered for the application

import (
	"github.com/labstack/echo/v4" // the Echo web framework handles routing

	"github.com/letsplay/sports-centre-booking/internal/handler"    // handlers implementing the request logic
	"github.com/letsplay/sports-centre-booking/internal/metrics"    // Prometheus scrape endpoint
	"github.com/letsplay/sports-centre-booking/internal/middleware" // session and staff middleware
)

// Handlers groups everything RegisterRoutes needs.  All fields must be
// non-nil.
type Handlers struct {
	Auth    *handler.AuthHandler
	Contact *handler.ContactHandler
	Venue   *handler.VenueHandler
	Booking *handler.BookingHandler
}

// RegisterRoutes wires the full HTTP surface.  The route shape mirrors
// a conventional server-rendered site: GET serves a form or a listing,
// POST performs the submission, and authorization failures redirect to
// the login boundary rather than returning a bare status code.
func RegisterRoutes(e *echo.Echo, h Handlers, uploadDir string) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", metrics.Handler())
	e.Static("/uploads", uploadDir)

	// Identity.  Signup and login are open; profile routes require an
	// active session and redirect to login without one.
	acc := e.Group("/accounts")
	acc.GET("/signup/", h.Auth.SignupForm)
	acc.POST("/signup/", h.Auth.Signup)
	acc.GET("/login/", h.Auth.LoginForm)
	acc.POST("/login/", h.Auth.Login)
	acc.GET("/logout/", h.Auth.Logout)

	prof := acc.Group("/profile", middleware.RequireSession())
	prof.GET("/", h.Auth.Profile)
	prof.GET("/edit/", h.Auth.EditProfileForm)
	prof.POST("/edit/", h.Auth.EditProfile)

	// Contact form: stateless feedback with two notification sends.
	acc.GET("/contact/", h.Contact.Form)
	acc.POST("/contact/", h.Contact.Submit)

	// Venue list doubles as the home page; ?qry= filters it.
	e.GET("/", h.Venue.List)

	sc := e.Group("/sports-centre")
	sc.GET("/create/", h.Venue.CreateForm, middleware.RequireStaff())
	sc.POST("/create/", h.Venue.Create, middleware.RequireStaff())
	sc.GET("/:id/", h.Venue.Detail)
	sc.GET("/:id/edit/", h.Venue.EditForm, middleware.RequireSession())
	sc.POST("/:id/edit/", h.Venue.Edit, middleware.RequireSession())
	sc.GET("/:id/delete/", h.Venue.DeleteConfirm, middleware.RequireSession())
	sc.POST("/:id/delete/", h.Venue.Delete, middleware.RequireSession())

	// Booking is public; the listing of all reservations is staff-only.
	sc.GET("/:id/book/", h.Booking.Form)
	sc.POST("/:id/book/", h.Booking.Submit)
	sc.GET("/booking-list/", h.Booking.List, middleware.RequireStaff())
}
