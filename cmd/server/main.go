package main // Entry point package

import (
	"context"
	"time"

	"github.com/joho/godotenv"    // loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/letsplay/sports-centre-booking/internal/config"
	"github.com/letsplay/sports-centre-booking/internal/database"
	"github.com/letsplay/sports-centre-booking/internal/flash"
	"github.com/letsplay/sports-centre-booking/internal/handler"
	"github.com/letsplay/sports-centre-booking/internal/logging"
	"github.com/letsplay/sports-centre-booking/internal/metrics"
	"github.com/letsplay/sports-centre-booking/internal/middleware"
	"github.com/letsplay/sports-centre-booking/internal/notify"
	"github.com/letsplay/sports-centre-booking/internal/repository"
	"github.com/letsplay/sports-centre-booking/internal/router"
)

func main() {
	_ = godotenv.Load() // best effort; real deployments set env directly

	cfg := config.Load()
	log := logging.New(cfg.Env)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.Migrate(ctx, db, "mysql"); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("database migrate failed")
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable; rate limiting disabled, flash messages in-process only")
	}
	fl := flash.NewStore(rdb, 5*time.Minute)

	metrics.Register()

	accounts := repository.NewAccountRepo(db)
	venues := repository.NewVenueRepo(db)
	reservations := repository.NewReservationRepo(db)

	publisher := notify.NewPublisher(log)

	// Deliver queued feedback emails in the background.  Without an
	// SMTP relay configured the messages go to the structured log.
	var sender notify.Sender = notify.LogSender{Log: log}
	if smtp := notify.NewSMTPSender(); smtp != nil {
		sender = smtp
	}
	go notify.StartEmailConsumer(sender, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(metrics.Middleware())
	e.Use(middleware.Session(cfg.SessionSecret))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e, router.Handlers{
		Auth:    handler.NewAuthHandler(cfg, accounts, log),
		Contact: handler.NewContactHandler(cfg, publisher, fl, log),
		Venue:   handler.NewVenueHandler(cfg, venues, log),
		Booking: handler.NewBookingHandler(cfg, venues, reservations, fl, log),
	}, cfg.UploadDir)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")

	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
