package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/spec-kit/timeoff-service/internal/config"
	"github.com/spec-kit/timeoff-service/internal/observability"
	"github.com/spec-kit/timeoff-service/internal/persistence"
	"github.com/spec-kit/timeoff-service/internal/repository"
	"github.com/spec-kit/timeoff-service/internal/seed"
)

// Seeds demo data or promotes a user to admin against the postgres driver.
// The memory driver cannot be seeded out of process; its bootstrap runs in
// cmd/api at startup.
func main() {
	var (
		demo         bool
		promoteEmail string
	)
	flag.BoolVar(&demo, "demo", false, "insert the demo employee and a pending vacation request")
	flag.StringVar(&promoteEmail, "promote-email", "", "grant the admin role to the user with this email")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Storage.Driver != config.StorageDriverPostgres {
		logger.Fatal("seeding requires STORAGE_DRIVER=postgres")
	}

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(pg.PoolHandle())
	requestRepo := repository.NewRequestRepository(pg.PoolHandle())

	if err := seed.EnsureInitialAdmin(ctx, userRepo, cfg.InitialAdmin, cfg.Auth.BcryptCost, logger); err != nil {
		logger.Fatal("failed to ensure initial admin", zap.Error(err))
	}

	if demo {
		if err := seed.SeedSampleData(ctx, userRepo, requestRepo, cfg.Auth.BcryptCost, logger); err != nil {
			logger.Fatal("failed to seed sample data", zap.Error(err))
		}
	}

	if promoteEmail != "" {
		if err := seed.PromoteByEmail(ctx, userRepo, promoteEmail); err != nil {
			logger.Fatal("failed to promote user", zap.Error(err))
		}
		logger.Info("user promoted to admin", zap.String("email", promoteEmail))
	}
}
