package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fairwaylabs/trip-system/config"
	"github.com/fairwaylabs/trip-system/db"
	"github.com/fairwaylabs/trip-system/handlers"
	"github.com/fairwaylabs/trip-system/live"
	"github.com/fairwaylabs/trip-system/repositories"
	"github.com/fairwaylabs/trip-system/routes"
	"github.com/fairwaylabs/trip-system/services"
	"github.com/fairwaylabs/trip-system/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Object storage backs avatars, team logos and trip exports. A deployment
	// without it still runs; those endpoints answer 503.
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewR2Uploader(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize object storage", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("object storage ready", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Warn("object storage not configured, uploads and exports are disabled")
	}

	var emailService *services.EmailService
	if cfg.SMTPConfigured() {
		emailService = services.NewEmailService(cfg)
		logger.Info("outgoing email ready", slog.String("host", cfg.SMTPHost))
	} else {
		logger.Warn("SMTP not configured, outgoing email is disabled")
	}

	hub := live.NewHub()
	go hub.Run()
	logger.Info("live update hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	tripRepo := repositories.NewPostgresTripRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	memberRepo := repositories.NewPostgresMemberRepository(dbConn)
	inviteRepo := repositories.NewPostgresInviteRepository(dbConn)
	courseRepo := repositories.NewPostgresCourseRepository(dbConn)
	sessionRepo := repositories.NewPostgresSessionRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	holeResultRepo := repositories.NewPostgresHoleResultRepository(dbConn)
	pressRepo := repositories.NewPostgresPressRepository(dbConn)
	draftRepo := repositories.NewPostgresDraftRepository(dbConn)
	teeSlotRepo := repositories.NewPostgresTeeSlotRepository(dbConn)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, uploader)
	tripService := services.NewTripService(dbConn, tripRepo, memberRepo, teamRepo, sessionRepo, userRepo, uploader)
	teamService := services.NewTeamService(teamRepo, tripRepo, memberRepo, uploader)
	rosterService := services.NewRosterService(dbConn, tripRepo, memberRepo, teamRepo, userRepo, inviteRepo, emailService, uploader, cfg.PublicURL)
	courseService := services.NewCourseService(courseRepo)
	sessionService := services.NewSessionService(sessionRepo, tripRepo, courseRepo, matchRepo, teeSlotRepo)
	scoringService := services.NewScoringService(dbConn, matchRepo, sessionRepo, tripRepo, memberRepo, courseRepo, holeResultRepo, pressRepo, hub)
	pressService := services.NewPressService(pressRepo, matchRepo, sessionRepo, tripRepo, holeResultRepo, hub)
	draftService := services.NewDraftService(dbConn, draftRepo, tripRepo, teamRepo, memberRepo, hub)
	pairingService := services.NewPairingService(sessionRepo, tripRepo, teamRepo, memberRepo, matchRepo)
	teeSheetService := services.NewTeeSheetService(dbConn, teeSlotRepo, sessionRepo, tripRepo, matchRepo)
	standingsService := services.NewStandingsService(tripRepo, teamRepo, memberRepo, sessionRepo, matchRepo)
	exportService := services.NewExportService(standingsService, tripRepo, sessionRepo, matchRepo, uploader)
	adminService := services.NewAdminService(userRepo, tripRepo, sessionRepo, matchRepo, pressRepo, uploader)
	logger.Info("services initialized")

	// Background sweep: move trips along their lifecycle by date and drop
	// invites that sat unanswered past their expiry.
	go func() {
		ticker := time.NewTicker(cfg.SchedulerInterval)
		defer ticker.Stop()
		logger.Info("background scheduler started", slog.Duration("interval", cfg.SchedulerInterval))

		run := func() {
			if err := tripService.AutoUpdateTripStatusesByDates(context.Background()); err != nil {
				logger.Error("scheduler: trip status sweep failed", slog.Any("error", err))
			}
			if removed, err := rosterService.CleanupExpiredInvites(context.Background()); err != nil {
				logger.Error("scheduler: invite cleanup failed", slog.Any("error", err))
			} else if removed > 0 {
				logger.Info("scheduler: expired invites removed", slog.Int64("count", removed))
			}
		}

		// Run once immediately at startup, then on the ticker.
		run()
		for range ticker.C {
			run()
		}
	}()

	authHandler := handlers.NewAuthHandler(authService, emailService, cfg.JWTSecretKey, cfg.JWTTTL)
	userHandler := handlers.NewUserHandler(userService)
	tripHandler := handlers.NewTripHandler(tripService)
	teamHandler := handlers.NewTeamHandler(teamService)
	rosterHandler := handlers.NewRosterHandler(rosterService)
	courseHandler := handlers.NewCourseHandler(courseService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	matchHandler := handlers.NewMatchHandler(scoringService)
	pressHandler := handlers.NewPressHandler(pressService)
	draftHandler := handlers.NewDraftHandler(draftService)
	pairingHandler := handlers.NewPairingHandler(pairingService)
	teeSheetHandler := handlers.NewTeeSheetHandler(teeSheetService)
	standingsHandler := handlers.NewStandingsHandler(standingsService, exportService)
	adminHandler := handlers.NewAdminHandler(adminService)
	webSocketHandler := handlers.NewWebSocketHandler(hub)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	routes.SetupRoutes(router, routes.Handlers{
		Auth:      authHandler,
		User:      userHandler,
		Trip:      tripHandler,
		Team:      teamHandler,
		Roster:    rosterHandler,
		Course:    courseHandler,
		Session:   sessionHandler,
		Match:     matchHandler,
		Press:     pressHandler,
		Draft:     draftHandler,
		Pairing:   pairingHandler,
		TeeSheet:  teeSheetHandler,
		Standings: standingsHandler,
		Admin:     adminHandler,
		WebSocket: webSocketHandler,
	}, cfg.JWTSecretKey)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			// If shutdown fails, force close.
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
