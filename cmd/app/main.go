package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitclub/internal/config"
	"fitclub/internal/db"
	"fitclub/internal/logger"
	"fitclub/internal/notify"
	"fitclub/internal/server"

	"github.com/redis/go-redis/v9"
)

// @title FitClub API
// @version 1.0
// @description Fitness club scheduling: rooms, trainers, members, classes, PT sessions and invoices.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.Setup(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	logger.Info("Starting FitClub application")

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err.Error())
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var notifySvc *notify.Service
	if cfg.NotificationsEnabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		sender := notify.NewSMTPSender(cfg.EmailFrom, cfg.EmailFromName, cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
		notifySvc = notify.New(rdb, sender, notify.NewSQLLookup(database))
		defer notifySvc.Close()

		go notifySvc.Start(ctx)
		logger.Info("Notification worker initialized", "redis", cfg.RedisAddr)
	}

	srv := server.New(database, cfg, notifySvc)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
