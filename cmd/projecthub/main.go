// ProjectHub - role-gated project tracking service
//
// This is the main entry point for the ProjectHub API server. It loads
// configuration, opens and migrates the SQLite database, wires the auth
// service and stores into the HTTP API, then waits for a shutdown signal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/nerrad567/projecthub/migrations"

	"github.com/nerrad567/projecthub/internal/api"
	"github.com/nerrad567/projecthub/internal/audit"
	"github.com/nerrad567/projecthub/internal/auth"
	"github.com/nerrad567/projecthub/internal/infrastructure/config"
	"github.com/nerrad567/projecthub/internal/infrastructure/database"
	"github.com/nerrad567/projecthub/internal/infrastructure/logging"
	"github.com/nerrad567/projecthub/internal/project"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// healthCheckTimeout bounds the startup health check.
const healthCheckTimeout = 5 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// It returns nil on clean shutdown.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting ProjectHub",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded",
		"path", configPath,
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	authService, err := newAuthService(cfg, db, log)
	if err != nil {
		return err
	}

	if !cfg.Security.Registration.AllowAdmin {
		if _, seedErr := authService.SeedAdmin(ctx, log.Logger); seedErr != nil {
			return fmt.Errorf("seeding admin user: %w", seedErr)
		}
	}

	apiServer, err := api.New(api.Deps{
		Config:   cfg.API,
		Logger:   log,
		Auth:     authService,
		Projects: project.NewSQLiteRepository(db.DB),
		Audit:    audit.NewSQLiteRepository(db.DB),
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := apiServer.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if err := healthCheck(ctx, db, apiServer); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	// Deferred Close() calls run in reverse order: API server, then database.
	log.Info("shutdown signal received, cleaning up")
	return nil
}

// newAuthService builds the password hasher, token codec and auth service
// from the security section of the config.
func newAuthService(cfg *config.Config, db *database.DB, log *logging.Logger) (*auth.Service, error) {
	hasher, err := auth.NewHasher(cfg.Security.Password)
	if err != nil {
		return nil, fmt.Errorf("creating password hasher: %w", err)
	}

	codec, err := auth.NewTokenCodec(cfg.Security.JWT.Secret, cfg.Security.JWT.Algorithm, cfg.AccessTokenTTL())
	if err != nil {
		return nil, fmt.Errorf("creating token codec: %w", err)
	}

	svc, err := auth.NewService(auth.ServiceDeps{
		Users:                  auth.NewUserRepository(db.DB),
		Hasher:                 hasher,
		Codec:                  codec,
		AllowAdminRegistration: cfg.Security.Registration.AllowAdmin,
		Logger:                 log.With("component", "auth").Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating auth service: %w", err)
	}

	log.Info("auth service initialised",
		"jwt_algorithm", cfg.Security.JWT.Algorithm,
		"password_algorithm", cfg.Security.Password.Algorithm,
		"token_ttl", cfg.AccessTokenTTL().String(),
		"admin_registration", cfg.Security.Registration.AllowAdmin,
	)
	return svc, nil
}

// getConfigPath returns the configuration file path.
// Uses PROJECTHUB_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("PROJECTHUB_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies the database and API server are healthy.
func healthCheck(ctx context.Context, db *database.DB, apiServer *api.Server) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := apiServer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}
