package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	auditapp "github.com/supplyoffice/backend/internal/application/audit"
	inventoryapp "github.com/supplyoffice/backend/internal/application/inventory"
	notificationapp "github.com/supplyoffice/backend/internal/application/notification"
	releaseapp "github.com/supplyoffice/backend/internal/application/release"
	requestapp "github.com/supplyoffice/backend/internal/application/request"
	"github.com/supplyoffice/backend/internal/infrastructure/auth"
	"github.com/supplyoffice/backend/internal/infrastructure/config"
	"github.com/supplyoffice/backend/internal/infrastructure/event"
	"github.com/supplyoffice/backend/internal/infrastructure/logger"
	"github.com/supplyoffice/backend/internal/infrastructure/persistence"
	"github.com/supplyoffice/backend/internal/infrastructure/push"
	"github.com/supplyoffice/backend/internal/infrastructure/report"
	"github.com/supplyoffice/backend/internal/interfaces/http/handler"
	"github.com/supplyoffice/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting supply office backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	historyRepo := persistence.NewGormCategoryHistoryRepository(db.DB)
	requestRepo := persistence.NewGormInventoryRequestRepository(db.DB)
	releaseRequestRepo := persistence.NewGormReleaseRequestRepository(db.DB)
	releaseReportRepo := persistence.NewGormReleaseReportRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	// Realtime push. Redis fan-out is optional; a single instance runs
	// on the in-process broadcaster.
	var broadcaster push.Broadcaster
	if cfg.Push.Enabled {
		rb, err := push.NewRedisBroadcaster(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB,
			push.WithBroadcasterChannel(cfg.Push.Channel),
			push.WithBroadcasterLogger(log),
		)
		if err != nil {
			log.Fatal("Failed to connect to Redis for push fan-out", zap.Error(err))
		}
		broadcaster = rb
		log.Info("Redis push fan-out enabled", zap.String("channel", cfg.Push.Channel))
	} else {
		broadcaster = push.NewLocalBroadcaster()
	}

	hub := push.NewHub(broadcaster,
		push.WithHubLogger(log),
		push.WithHubHeartbeat(cfg.Push.Heartbeat),
		push.WithHubBufferSize(cfg.Push.ClientBufferSize),
	)
	if err := hub.Start(); err != nil {
		log.Fatal("Failed to start push hub", zap.Error(err))
	}
	defer hub.Stop()

	// Domain events fan out to SSE clients through the forwarder.
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(push.NewEventForwarder(hub, log))

	// Application services
	auditor := auditapp.NewRecorder(log)
	dispatcher := notificationapp.NewDispatcher(notificationRepo, userRepo, hub, log)
	inventoryService := inventoryapp.NewService(scope, itemRepo, categoryRepo, historyRepo, eventBus, auditor, log)
	requestService := requestapp.NewService(scope, requestRepo, eventBus, dispatcher, auditor, log)
	releaseService := releaseapp.NewService(scope, releaseRequestRepo, releaseReportRepo, itemRepo, eventBus, dispatcher, auditor, log)

	jwtService := auth.NewJWTService(cfg.JWT)
	renderer := report.NewExcelRenderer()

	engine := router.Setup(cfg, log, jwtService, &router.Handlers{
		System:       handler.NewSystemHandler(db.DB),
		Inventory:    handler.NewInventoryHandler(inventoryService, dispatcher),
		Request:      handler.NewRequestHandler(requestService),
		Release:      handler.NewReleaseHandler(releaseService, renderer),
		Notification: handler.NewNotificationHandler(dispatcher),
		Events:       handler.NewEventsHandler(hub, log),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
