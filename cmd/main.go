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

	"github.com/Nikachu96/Ready-2-Dink-sub000/brackets"
	"github.com/Nikachu96/Ready-2-Dink-sub000/config"
	"github.com/Nikachu96/Ready-2-Dink-sub000/db"
	"github.com/Nikachu96/Ready-2-Dink-sub000/handlers"
	"github.com/Nikachu96/Ready-2-Dink-sub000/middleware"
	"github.com/Nikachu96/Ready-2-Dink-sub000/repositories"
	"github.com/Nikachu96/Ready-2-Dink-sub000/routes"
	"github.com/Nikachu96/Ready-2-Dink-sub000/services"
	"github.com/Nikachu96/Ready-2-Dink-sub000/storage"
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
		}
	}()
	logger.Info("database connection established")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2Bucket,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	wsHub := brackets.NewHub(logger)
	go wsHub.Run()

	playerRepo := repositories.NewPostgresPlayerRepository()
	tournamentRepo := repositories.NewPostgresTournamentRepository()
	entryRepo := repositories.NewPostgresEntryRepository()
	partnerRepo := repositories.NewPostgresPartnerInviteRepository()
	matchRepo := repositories.NewPostgresMatchRepository()

	var notifier services.Notifier
	if cfg.SMTPHost != "" {
		notifier = services.NewEmailNotifier(services.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
		}, dbConn, playerRepo, logger)
	} else {
		logger.Warn("SMTP_HOST not set, email notifications disabled")
		notifier = services.NoopNotifier{}
	}

	teamResolver := services.NewTeamResolver(entryRepo, partnerRepo, logger)
	scoring := services.NewScoringIntegrator(matchRepo, playerRepo, teamResolver, logger)
	bracketService := services.NewBracketService(dbConn, tournamentRepo, entryRepo, matchRepo, notifier, wsHub, logger)
	resultService := services.NewResultService(dbConn, tournamentRepo, matchRepo, teamResolver, scoring, notifier, wsHub, logger)
	adminService := services.NewAdminService(dbConn, tournamentRepo, matchRepo, scoring, notifier, wsHub, logger)
	matchService := services.NewMatchService(dbConn, matchRepo, uploader, logger)
	logger.Info("services initialized")

	auth := middleware.NewAuthenticator(cfg.JWTSecretKey)
	router := routes.InitRoutes(routes.Handlers{
		Tournament: handlers.NewTournamentHandler(bracketService),
		Match:      handlers.NewMatchHandler(resultService, matchService),
		Admin:      handlers.NewAdminHandler(adminService),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, logger),
	}, auth)
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
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
