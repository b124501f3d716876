package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/timeoff-service/internal/api/http"
	"github.com/spec-kit/timeoff-service/internal/api/http/handlers"
	"github.com/spec-kit/timeoff-service/internal/auth"
	"github.com/spec-kit/timeoff-service/internal/config"
	"github.com/spec-kit/timeoff-service/internal/events"
	"github.com/spec-kit/timeoff-service/internal/observability"
	"github.com/spec-kit/timeoff-service/internal/persistence"
	"github.com/spec-kit/timeoff-service/internal/repository"
	"github.com/spec-kit/timeoff-service/internal/seed"
	"github.com/spec-kit/timeoff-service/internal/service"
	"github.com/spec-kit/timeoff-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		pg          *persistence.Postgres
		userRepo    repository.UserRepository
		requestRepo repository.RequestRepository
	)
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		pg, err = persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		userRepo = repository.NewUserRepository(pg.PoolHandle())
		requestRepo = repository.NewRequestRepository(pg.PoolHandle())
	default:
		logger.Info("using in-memory storage; state is lost on restart")
		userRepo = repository.NewMemoryUserRepository()
		requestRepo = repository.NewMemoryRequestRepository()
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	if err := seed.EnsureInitialAdmin(ctx, userRepo, cfg.InitialAdmin, cfg.Auth.BcryptCost, logger); err != nil {
		logger.Fatal("failed to ensure initial admin", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(*cfg, userRepo, redis.ClientHandle())
	requestService := service.NewRequestService(requestRepo, userRepo, dispatcher)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Requests:       handlers.NewRequestsHandler(requestService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
