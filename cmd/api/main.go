package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/inquiry-service/internal/api/http"
	"github.com/spec-kit/inquiry-service/internal/api/http/handlers"
	"github.com/spec-kit/inquiry-service/internal/auth"
	"github.com/spec-kit/inquiry-service/internal/config"
	"github.com/spec-kit/inquiry-service/internal/events"
	"github.com/spec-kit/inquiry-service/internal/media"
	"github.com/spec-kit/inquiry-service/internal/observability"
	"github.com/spec-kit/inquiry-service/internal/persistence"
	"github.com/spec-kit/inquiry-service/internal/ratelimit"
	"github.com/spec-kit/inquiry-service/internal/repository"
	"github.com/spec-kit/inquiry-service/internal/service"
	"github.com/spec-kit/inquiry-service/internal/worker"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	accountRepo := repository.NewAccountRepository(pool)
	inquiryRepo := repository.NewInquiryRepository(pool)
	historyRepo := repository.NewInquiryHistoryRepository(pool)

	mediaStore, err := media.NewStore(cfg.Media)
	if err != nil {
		logger.Fatal("failed to init media store", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		InquiryRepo: inquiryRepo,
		HistoryRepo: historyRepo,
		Dispatcher:  dispatcher,
	})
	reportingService := service.NewReportingService(service.ReportingDependencies{
		InquiryRepo: inquiryRepo,
		AccountRepo: accountRepo,
		HistoryRepo: historyRepo,
	})
	accountService := service.NewAccountService(*cfg, accountRepo)
	authService := service.NewAuthService(*cfg, accountRepo)

	if err := accountService.SeedAdmin(ctx, cfg.Seed, logger); err != nil {
		logger.Fatal("failed to seed admin account", zap.Error(err))
	}

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), accountRepo)
	limiter := ratelimit.NewLimiter(redis.Client, cfg.RateLimit, logger)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: int(cfg.Media.MaxSizeBytes) + 1024*1024,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Public:         handlers.NewPublicHandler(assignmentService, mediaStore),
		Auth:           handlers.NewAuthHandler(authService),
		Inquiries:      handlers.NewInquiriesHandler(assignmentService, mediaStore),
		Admin:          handlers.NewAdminHandler(accountService, reportingService),
		AuthMiddleware: authMiddleware,
		RateLimiter:    limiter,
		UploadDir:      mediaStore.Dir(),
		UploadPath:     cfg.Media.PublicPath,
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
