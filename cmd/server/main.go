package main

import (
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/Straver00/Chivas-travel-api/internal/config"
	"github.com/Straver00/Chivas-travel-api/internal/database"
	"github.com/Straver00/Chivas-travel-api/internal/email"
	"github.com/Straver00/Chivas-travel-api/internal/handler"
	"github.com/Straver00/Chivas-travel-api/internal/middleware"
	"github.com/Straver00/Chivas-travel-api/internal/queue"
	"github.com/Straver00/Chivas-travel-api/internal/repository"
	"github.com/Straver00/Chivas-travel-api/internal/router"
	"github.com/Straver00/Chivas-travel-api/internal/service"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	// Redis backs the rate limiter and the catalog cache. Both fail open, so
	// a nil client only means those features are off.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	trips := repository.NewTripRepo(db)
	reservations := repository.NewReservationRepo(db)
	tickets := repository.NewTicketRepo(db)
	invites := repository.NewInviteRepo(db)
	destinations := repository.NewDestinationRepo(db)
	opinions := repository.NewOpinionRepo(db)

	publisher := queue.NewPublisher(cfg.AMQPURL)
	reservationSvc := service.NewReservationService(db, trips, reservations, users, tickets, invites, log)
	paymentSvc := service.NewPaymentService(db, trips, reservations, tickets, users, publisher, log)

	// Ticket mail goes out from a queue consumer so a slow SMTP server never
	// blocks a payment confirmation.
	go queue.StartReservationPaidConsumer(cfg.AMQPURL, email.NewClient(cfg.SMTP))

	e := echo.New()
	e.HideBanner = true
	if rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	}

	authH := handler.NewAuthHandler(cfg, users, tokens)
	tripH := handler.NewTripHandler(trips, destinations)
	destH := handler.NewDestinationHandler(destinations)
	opinionH := handler.NewOpinionHandler(opinions)
	reservationH := handler.NewReservationHandler(reservationSvc, tickets)
	paymentH := handler.NewPaymentHandler(paymentSvc)

	var cache echo.MiddlewareFunc
	if rdb != nil {
		cache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, tripH, destH, opinionH, cache)
	router.RegisterClient(e, reservationH, opinionH, cfg.JWTSecret)
	router.RegisterAdmin(e, tripH, destH, paymentH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Info("listening", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
