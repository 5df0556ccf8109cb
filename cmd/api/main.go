package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/campus-resource-service/internal/api/http"
	"github.com/spec-kit/campus-resource-service/internal/api/http/handlers"
	"github.com/spec-kit/campus-resource-service/internal/auth"
	"github.com/spec-kit/campus-resource-service/internal/cache"
	"github.com/spec-kit/campus-resource-service/internal/config"
	"github.com/spec-kit/campus-resource-service/internal/files"
	"github.com/spec-kit/campus-resource-service/internal/mail"
	"github.com/spec-kit/campus-resource-service/internal/observability"
	"github.com/spec-kit/campus-resource-service/internal/persistence"
	"github.com/spec-kit/campus-resource-service/internal/realtime"
	"github.com/spec-kit/campus-resource-service/internal/repository"
	"github.com/spec-kit/campus-resource-service/internal/scheduler"
	"github.com/spec-kit/campus-resource-service/internal/service"
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
	userRepo := repository.NewUserRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	semesterRepo := repository.NewSemesterRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)
	resourceRepo := repository.NewResourceRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)
	noticeRepo := repository.NewNoticeRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	metrics := observability.NewMetrics()
	registry := realtime.NewRegistry(logger)
	listCache := cache.New(redis.Client, logger, 10*time.Minute)
	mailer := mail.ForEnv(cfg.Mail, logger)
	fileStore := files.NewPCloudStore(cfg.Files)
	jobs := scheduler.New()
	defer jobs.Stop()

	notificationService := service.NewNotificationService(notificationRepo, registry, metrics, logger)
	authService := service.NewAuthService(cfg, userRepo, mailer, logger)
	catalogService := service.NewCatalogService(courseRepo, semesterRepo, subjectRepo, userRepo, notificationService, listCache, logger)
	reminderService := service.NewReminderService(userRepo, submissionRepo, notificationService, mailer, jobs, logger)
	resourceService := service.NewResourceService(resourceRepo, submissionRepo, subjectRepo, userRepo, notificationService, reminderService, fileStore, logger)
	noticeService := service.NewNoticeService(noticeRepo, userRepo, notificationService, fileStore, logger)
	dashboardService := service.NewDashboardService(resourceRepo, submissionRepo, subjectRepo, userRepo, noticeRepo)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())
	liveHandler := realtime.NewHandler(registry, authService.TokenManager(), logger)

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: 32 * 1024 * 1024,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService, cfg.Auth.CookieSecure),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		Resources:      handlers.NewResourcesHandler(resourceService, authService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService, authService),
		Notices:        handlers.NewNoticesHandler(noticeService, authService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Live:           liveHandler,
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
