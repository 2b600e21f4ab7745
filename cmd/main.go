/*
Package main is the entry point for the drinkup server.

It loads configuration, initializes logging, connects to PostgreSQL and
runs migrations, starts the live leaderboard manager, and serves the HTTP
API until an interrupt signal triggers a graceful shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drinkup/internal/app/db"
	"drinkup/internal/app/game"
	"drinkup/internal/app/live"
	"drinkup/internal/app/storage"
	"drinkup/internal/app/store"
	"drinkup/internal/configs"
	"drinkup/internal/handler"
	"drinkup/internal/pkg/logx"
)

func main() {
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Bool("avatar_storage", cfg.AvatarStorageConfigured()).
		Msg("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to connect to database")
	}
	defer pool.Close()

	gameStore := store.NewPostgres(pool)

	var avatars storage.AvatarStorage
	if cfg.AvatarStorageConfigured() {
		avatars, err = storage.NewAvatarStorage(storage.ServiceConfig{
			S3BucketName:      cfg.S3BucketName,
			S3Endpoint:        cfg.S3Endpoint,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			logx.Fatal(err, "Failed to initialize avatar storage")
		}
	} else {
		logx.Warn("Avatar storage not configured, avatar uploads disabled")
	}

	liveManager := live.NewManager()

	deps := &handler.AppDeps{
		Config:     cfg,
		Store:      gameStore,
		Membership: game.NewMembershipService(gameStore),
		Scores:     game.NewScoreService(gameStore),
		Live:       liveManager,
		Avatars:    avatars,
	}

	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("drinkup server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	liveManager.Shutdown()

	logx.Info("Server gracefully stopped.")
}
