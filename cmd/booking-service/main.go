package main

import (
	"fmt"
	"os"

	"github.com/boxup/booking-service/internal/auth"
	"github.com/boxup/booking-service/internal/config"
	"github.com/boxup/booking-service/internal/db"
	httphandler "github.com/boxup/booking-service/internal/http"
	"github.com/boxup/booking-service/internal/http/middleware"
	"github.com/boxup/booking-service/internal/logger"
	"github.com/boxup/booking-service/internal/payment"
	"github.com/boxup/booking-service/internal/repository"
	"github.com/boxup/booking-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	unitRepo := repository.NewUnitRepository(database)
	catalogRepo := repository.NewCatalogRepository(database)
	customerRepo := repository.NewCustomerRepository(database)
	bookingRepo := repository.NewBookingRepository(database)

	stripeService := payment.NewStripeService(cfg.Stripe)
	bookingService := service.NewBookingService(unitRepo, catalogRepo, customerRepo, bookingRepo, stripeService, cfg, log)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(bookingService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting booking service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
