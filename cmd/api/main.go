package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/ceduni/cafe-sans-fil-sub001/internal/api/http"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/api/http/handlers"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/auth"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/config"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/events"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/observability"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/persistence"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/repository"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/service"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/worker"
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

	db, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("failed to connect mongodb", zap.Error(err))
	}
	defer db.Close(ctx)

	if cfg.Mongo.EnsureIndexes {
		if err := persistence.EnsureIndexes(ctx, db, logger); err != nil {
			logger.Fatal("failed to ensure indexes", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	userRepo := repository.NewUserRepository(db)
	cafeRepo := repository.NewCafeRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	eventRepo := repository.NewEventRepository(db)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, userRepo)
	cafeService := service.NewCafeService(service.CafeDependencies{
		CafeRepo:   cafeRepo,
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	})
	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:    orderRepo,
		CafeRepo:     cafeRepo,
		Dispatcher:   dispatcher,
		CancelWindow: cfg.Orders.CancelWindow(),
	})
	eventService := service.NewEventService(eventRepo, cafeRepo, nil)
	searchService := service.NewSearchService(cafeRepo, redis, logger, cfg.Search.CacheTTL())
	searchService.RegisterInvalidation(dispatcher)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, cafeRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, db, redis, metrics),
		Users:          handlers.NewUsersHandler(authService),
		Cafes:          handlers.NewCafesHandler(cafeService),
		Orders:         handlers.NewOrdersHandler(orderService),
		Events:         handlers.NewEventsHandler(eventService),
		Search:         handlers.NewSearchHandler(searchService),
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
