package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/fernside/internal/config"
	"github.com/dukerupert/fernside/internal/database"
	"github.com/dukerupert/fernside/internal/logging"
	"github.com/dukerupert/fernside/internal/notify"
	"github.com/dukerupert/fernside/internal/server"
	"github.com/dukerupert/fernside/internal/store"
)

const (
	keyVAPIDPublic  = "vapid_public_key"
	keyVAPIDPrivate = "vapid_private_key"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.Setup(cfg.LogLevel)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	vapidPublic, vapidPrivate, err := vapidKeys(cfg, store.NewSettingsStore(db))
	if err != nil {
		log.Fatalf("vapid keys: %v", err)
	}

	srv := server.New(db, cfg, vapidPublic, vapidPrivate, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.StreakReminder().Start(); err != nil {
		logger.Error("start streak reminder", "error", err)
	}
	srv.BackupManager().Start(ctx)

	// prune expired login sessions hourly
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := srv.SessionStore().DeleteExpired(); err != nil {
					logger.Warn("session cleanup", "error", err)
				}
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("fernside listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()
	srv.StreakReminder().Stop()
	srv.SyncManager().Stop()
	srv.BackupManager().Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

// vapidKeys returns the web push key pair: from the environment when set,
// otherwise from settings, generating and persisting a pair on first run.
func vapidKeys(cfg *config.Config, settings *store.SettingsStore) (string, string, error) {
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		return cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, nil
	}

	public, err := settings.Get(keyVAPIDPublic)
	if err != nil {
		return "", "", err
	}
	private, err := settings.Get(keyVAPIDPrivate)
	if err != nil {
		return "", "", err
	}
	if public != "" && private != "" {
		return public, private, nil
	}

	public, private, err = notify.GenerateVAPIDKeys()
	if err != nil {
		return "", "", err
	}
	if err := settings.Set(keyVAPIDPublic, public); err != nil {
		return "", "", err
	}
	if err := settings.Set(keyVAPIDPrivate, private); err != nil {
		return "", "", err
	}
	return public, private, nil
}
