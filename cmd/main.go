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
	_ "github.com/lib/pq"

	"github.com/arenadraw/bracket-engine/brackets"
	"github.com/arenadraw/bracket-engine/config"
	"github.com/arenadraw/bracket-engine/db"
	"github.com/arenadraw/bracket-engine/handlers"
	"github.com/arenadraw/bracket-engine/repositories"
	api "github.com/arenadraw/bracket-engine/routes"
	"github.com/arenadraw/bracket-engine/services"
	"github.com/arenadraw/bracket-engine/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

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

	uploader := storage.NewDisabledUploader()
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("object storage not configured, logo upload disabled")
	}

	wsHub := brackets.NewHub(logger)
	go wsHub.Run()

	formatRepo := repositories.NewPostgresFormatRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	medalRepo := repositories.NewPostgresMedalRepository(dbConn)
	pointRepo := repositories.NewPostgresPointRepository(dbConn)

	formatService := services.NewFormatService(formatRepo)
	tournamentService := services.NewTournamentService(
		tournamentRepo,
		formatRepo,
		matchRepo,
		eventRepo,
		teamRepo,
		uploader,
		logger,
	)
	bracketService := services.NewBracketService(
		dbConn,
		tournamentRepo,
		formatRepo,
		matchRepo,
		wsHub,
		logger,
	)
	matchService := services.NewMatchService(
		dbConn,
		matchRepo,
		tournamentRepo,
		wsHub,
		logger,
	)
	awardService := services.NewAwardService(
		dbConn,
		eventRepo,
		tournamentRepo,
		medalRepo,
		pointRepo,
		wsHub,
		logger,
		cfg.AnnounceAwards,
	)
	standingsService := services.NewStandingsService(
		tournamentRepo,
		medalRepo,
		pointRepo,
		teamRepo,
		uploader,
	)

	tournamentHandler := handlers.NewTournamentHandler(tournamentService, standingsService)
	bracketHandler := handlers.NewBracketHandler(bracketService)
	matchHandler := handlers.NewMatchHandler(matchService)
	awardHandler := handlers.NewAwardHandler(awardService)
	formatHandler := handlers.NewFormatHandler(formatService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, tournamentService, logger)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.AllowedOrigins,
		tournamentHandler,
		bracketHandler,
		matchHandler,
		awardHandler,
		formatHandler,
		webSocketHandler,
	)

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
