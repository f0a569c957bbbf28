package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tsumuapp/tsumu/internal/backup"
	"github.com/tsumuapp/tsumu/internal/database"
	"github.com/tsumuapp/tsumu/internal/logging"
	"github.com/tsumuapp/tsumu/internal/server"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := logging.Setup(envOr("TSUMU_LOG_LEVEL", "info"), envOr("TSUMU_LOG_FORMAT", "text"))

	port := envOr("TSUMU_PORT", "8080")
	dbPath := envOr("TSUMU_DB_PATH", "tsumu.db")

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("open database", "error", err, "path", dbPath)
		os.Exit(1)
	}
	defer db.Close()

	cfg := server.Config{
		VAPIDPublicKey:  os.Getenv("TSUMU_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("TSUMU_VAPID_PRIVATE_KEY"),
		PushSubscriber:  envOr("TSUMU_PUSH_SUBSCRIBER", "mailto:support@tsumu.app"),
		SecureCookies:   os.Getenv("TSUMU_SECURE_COOKIES") == "true",
	}
	srv := server.New(db, cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backupHour, _ := strconv.Atoi(envOr("TSUMU_BACKUP_HOUR", "3"))
	retentionDays, _ := strconv.Atoi(envOr("TSUMU_BACKUP_RETENTION_DAYS", "30"))
	backups := backup.NewManager(backup.Config{
		S3: backup.S3Config{
			Endpoint:  os.Getenv("TSUMU_BACKUP_S3_ENDPOINT"),
			Bucket:    os.Getenv("TSUMU_BACKUP_S3_BUCKET"),
			Region:    envOr("TSUMU_BACKUP_S3_REGION", "auto"),
			AccessKey: os.Getenv("TSUMU_BACKUP_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("TSUMU_BACKUP_S3_SECRET_KEY"),
		},
		DBPath:        dbPath,
		Passphrase:    os.Getenv("TSUMU_BACKUP_PASSPHRASE"),
		Hour:          backupHour,
		RetentionDays: retentionDays,
	}, db, logger.With("component", "backup"))
	if backups.Enabled() {
		backups.Start(ctx)
		defer backups.Stop()
		logger.Info("backups enabled", "hour_utc", backupHour, "retention_days", retentionDays)
	}

	// Background cleanup of expired sessions and stale rate-limit entries.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					logger.Error("session cleanup", "error", err)
				} else if n > 0 {
					logger.Info("session cleanup", "deleted", n)
				}
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("listening", "port", port, "db", dbPath)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
