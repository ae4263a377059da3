package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"parkinglot/internal/api"
	"parkinglot/internal/config"
	"parkinglot/internal/db"
	"parkinglot/internal/logging"
	"parkinglot/internal/repository"
	"parkinglot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Logger().Fatal().Err(err).Msg("load config")
	}
	logging.Init(cfg.IsDevelopment(), cfg.LogLevel)
	log := logging.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer database.Close()

	if cfg.EnsureSchema {
		if err := database.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("ensure schema")
		}
	}
	if err := database.EnsureDefaultAdmin(ctx, cfg.AdminDefaultAccount, cfg.AdminDefaultPassword); err != nil {
		log.Fatal().Err(err).Msg("seed default admin")
	}

	reservationRepo := repository.NewReservationRepository(database)
	parkingRepo := repository.NewParkingRepository(database)
	userRepo := repository.NewUserRepository(database)
	jobRepo := repository.NewJobRepository(database)
	profileRepo := repository.NewProfileRepository(database)

	mailer := service.NewSendGridMailer(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName)
	texter := service.NewTwilioTexter(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	if !mailer.Enabled() {
		log.Warn().Msg("SendGrid not configured, reservation e-mails disabled")
	}
	if !texter.Enabled() {
		log.Warn().Msg("Twilio not configured, reservation SMS disabled")
	}
	sender := service.NewSenderService(userRepo, mailer, texter)
	var notifier service.Notifier
	if mailer.Enabled() || texter.Enabled() {
		notifier = sender
	}

	reservationSvc := service.NewReservationService(reservationRepo, notifier, cfg.ReservationTTL)
	parkingSvc := service.NewParkingService(parkingRepo)
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	jobSvc := service.NewJobService(jobRepo)
	profileSvc := service.NewProfileService(profileRepo, cfg.ProfileTTL)

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.ExpirySchedule, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := jobSvc.PurgeExpiredReservations(jobCtx); err != nil {
			log.Error().Err(err).Msg("reservation expiry job failed")
		}
	})
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.ExpirySchedule).Msg("schedule expiry job")
	}
	scheduler.Start()

	router := api.NewRouter(api.RouterConfig{
		Reservation:    api.NewReservationHandler(reservationSvc),
		Parking:        api.NewParkingHandler(parkingSvc),
		Auth:           api.NewAuthHandler(authSvc),
		Admin:          api.NewAdminHandler(reservationSvc, parkingSvc, authSvc),
		Profile:        api.NewProfileHandler(profileSvc),
		DB:             database,
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.CORSAllowedOrigin,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
	if err := sender.Wait(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("notifications still in flight")
	}
}
