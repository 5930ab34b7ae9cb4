package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vidalink/internal/adapters/auth/jwtauth"
	"vidalink/internal/adapters/export/s3signer"
	"vidalink/internal/adapters/ratelimit/memlimiter"
	"vidalink/internal/adapters/ratelimit/redislimiter"
	pg "vidalink/internal/adapters/storage/postgres"
	"vidalink/internal/config"
	"vidalink/internal/platform/logger"
	"vidalink/internal/router"

	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}
}

func newLogger(cfg *config.Config) logger.Logger {
	return logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    "vidalink",
	})
}

func runServer(cfg *config.Config) error {
	log := newLogger(cfg)

	opts := router.Options{
		Logger:        log,
		PublicBaseURL: cfg.PublicBaseURL,
	}

	// Sin secreto en dev => header X-Debug-User-ID
	if cfg.JWTSecret != "" {
		opts.AuthVerifier = jwtauth.NewVerifier(jwtauth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer})
	} else {
		log.Warn("JWT_SECRET not set: dev auth via X-Debug-User-ID", nil)
	}

	if cfg.DatabaseURL != "" {
		db, err := pg.Open(cfg.DatabaseURL, cfg.DBMaxOpenConns)
		if err != nil {
			return err
		}
		defer db.Close()
		opts.DB = db
	} else {
		log.Warn("DATABASE_URL not set: using in-memory stores", nil)
	}

	window := time.Minute
	if cfg.RedisURL != "" {
		client, err := redislimiter.Open(context.Background(), cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		opts.Limiter = redislimiter.New(client, cfg.AccessAttemptsPerMinute, window)
	} else {
		opts.Limiter = memlimiter.New(cfg.AccessAttemptsPerMinute, window)
	}

	if cfg.S3Bucket != "" {
		signer, err := s3signer.New(s3signer.Config{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
			TTL:      cfg.ExportURLTTL,
		})
		if err != nil {
			return err
		}
		opts.Signer = signer
	} else {
		log.Warn("S3_BUCKET not set: EXPORT shares will not include download urls", nil)
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server error", map[string]any{"err": err})
			return err
		}
		return nil
	case <-quit:
	}

	log.Info("shutting down server", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	log.Info("server stopped", nil)
	return nil
}
