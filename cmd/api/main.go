package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic/internal/config"
	"clinic/internal/database"
	"clinic/internal/logger"
	"clinic/internal/mailer"
	"clinic/internal/ratelimit"
	"clinic/internal/server"
	"clinic/internal/storage"
	"clinic/internal/validator"
)

// @title           Clinic API
// @version         1.0
// @description     Clinic management API for staff accounts, clients, appointments, invoices, patient history, reports and settings.

// @host      localhost:5000
// @BasePath  /api

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name accessToken
// @description Access token cookie set by login-user. A "Bearer" Authorization header is also accepted.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := server.Deps{
		DB:                 dbManager.DB(),
		Mailer:             newMailer(appConfig),
		CORSOrigin:         appConfig.CORSOrigin,
		RegistrationSecret: appConfig.RegistrationSecret,
		CookieSecure:       appConfig.CookieSecure,
	}

	if appConfig.MinioEndpoint != "" {
		store, err := storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  appConfig.MinioEndpoint,
			AccessKey: appConfig.MinioAccessKey,
			SecretKey: appConfig.MinioSecretKey,
			Bucket:    appConfig.MinioBucket,
			UseSSL:    appConfig.MinioUseSSL,
		})
		if err != nil {
			return fmt.Errorf("failed to connect object storage: %w", err)
		}
		deps.Store = store
		log.Infow("Object storage enabled", "endpoint", appConfig.MinioEndpoint, "bucket", appConfig.MinioBucket)
	} else {
		log.Warn("MINIO_ENDPOINT not set; history uploads are disabled")
	}

	limiter, err := newAuthLimiter(ctx, appConfig)
	if err != nil {
		return err
	}
	defer limiter.Close()
	deps.AuthLimiter = limiter

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           server.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting clinic API on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newMailer(cfg *config.Config) mailer.Sender {
	if cfg.EmailUser == "" {
		logger.Get().Warn("EMAIL_USER not set; reset codes are written to the log")
		return mailer.LogMailer{}
	}
	return mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     cfg.EmailHost,
		Port:     cfg.EmailPort,
		Username: cfg.EmailUser,
		Password: cfg.EmailPass,
		FromName: cfg.EmailFromName,
	})
}

type closingLimiter interface {
	ratelimit.Limiter
	Close() error
}

func newAuthLimiter(ctx context.Context, cfg *config.Config) (closingLimiter, error) {
	if cfg.RedisAddr == "" {
		return ratelimit.NewMemoryLimiter(cfg.AuthRateLimitPerMinute), nil
	}

	limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "", cfg.AuthRateLimitPerMinute, time.Minute)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limiter: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := limiter.Ping(pingCtx); err != nil {
		_ = limiter.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
	}
	logger.Get().Infow("Distributed rate limiting enabled", "redis", cfg.RedisAddr)
	return limiter, nil
}
