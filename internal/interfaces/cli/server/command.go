// Package server implements the `server` subcommand that runs the HTTP API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	appauth "lucerna/internal/application/auth"
	appuser "lucerna/internal/application/user"
	infraauth "lucerna/internal/infrastructure/auth"
	"lucerna/internal/infrastructure/config"
	"lucerna/internal/infrastructure/database"
	"lucerna/internal/infrastructure/email"
	"lucerna/internal/infrastructure/repository"
	httpiface "lucerna/internal/interfaces/http"
	"lucerna/internal/interfaces/http/handlers"
	"lucerna/internal/interfaces/http/middleware"
	"lucerna/internal/shared/db"
	"lucerna/internal/shared/logger"
)

// NewCommand creates the server command.
func NewCommand() *cobra.Command {
	var env string

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(env)
		},
	}

	cmd.Flags().StringVarP(&env, "env", "e", "", "environment to run in (debug, release, production)")
	return cmd
}

func run(env string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	log := logger.NewLogger()

	gormDB, err := database.Connect(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	defer database.Close(gormDB)

	if err := httpiface.RegisterValidators(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	// Infrastructure
	txManager := db.NewTransactionManager(gormDB)
	hasher := infraauth.NewBcryptHasher(cfg.Auth.Password.BcryptCost)
	jwtService := infraauth.NewJWTService(&cfg.Auth.JWT)
	providers := infraauth.NewRegistry(&cfg.OAuth)
	emailSender := email.NewSMTPSender(&cfg.Email, log.Named("email"))

	userRepo := repository.NewUserRepository(gormDB, log.Named("userrepo"))
	linkRepo := repository.NewAuthorisationRepository(gormDB, log.Named("linkrepo"))

	// Application
	authService := appauth.NewService(userRepo, linkRepo, hasher, jwtService, emailSender, txManager, log.Named("auth"))
	userService := appuser.NewService(userRepo, hasher, log.Named("user"))

	// Interfaces
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = middleware.NewRateLimiter(
			redisClient,
			cfg.RateLimit.Requests,
			time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
			log.Named("ratelimit"),
		)
	}

	router := httpiface.NewRouter(httpiface.RouterDeps{
		ServerConfig: &cfg.Server,
		JWTService:   jwtService,
		AuthHandler:  handlers.NewAuthHandler(authService, providers, log.Named("authhandler")),
		UserHandler:  handlers.NewUserHandler(userService, log.Named("userhandler")),
		RateLimiter:  rateLimiter,
	})

	srv := &http.Server{
		Addr:    cfg.Server.GetAddr(),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server starting", "addr", srv.Addr, "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Infow("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	if err := redisClient.Close(); err != nil {
		log.Warnw("failed to close redis client", "error", err)
	}

	log.Infow("server stopped")
	return nil
}
