package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appautomation "github.com/marketplace/backend/internal/application/automation"
	"github.com/marketplace/backend/internal/domain/marketplace"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/notification"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/marketplace/backend/internal/infrastructure/scheduler"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	"github.com/marketplace/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			Marketplace Automation API
//	@version		1.0
//	@description	Seller automation rules for RFQs, orders, listings and disputes

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting marketplace backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connected and migrated")

	// Repositories
	ruleRepo := persistence.NewGormRuleRepository(db.DB)
	executionRepo := persistence.NewGormExecutionRepository(db.DB)
	rfqRepo := persistence.NewGormRFQRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB)
	disputeRepo := persistence.NewGormDisputeRepository(db.DB)
	trustProvider := persistence.NewGormBuyerTrustProvider(db.DB)

	// Notification channel: Redis when reachable, log-only otherwise
	var notifier marketplace.Notifier
	redisNotifier, err := notification.NewRedisNotifier(cfg.Redis, cfg.Automation.NotifyChannel, log)
	if err != nil {
		log.Warn("Redis unavailable, notifications go to the log only", zap.Error(err))
		notifier = notification.NewLogNotifier(log)
	} else {
		defer func() {
			_ = redisNotifier.Close()
		}()
		notifier = redisNotifier
	}

	// Automation services
	executor := appautomation.NewActionExecutor(rfqRepo, orderRepo, listingRepo, disputeRepo, notifier, log)
	pipeline := appautomation.NewEvaluationService(ruleRepo, executionRepo, executor, log)
	triggers := appautomation.NewTriggerService(rfqRepo, orderRepo, listingRepo, disputeRepo, trustProvider, pipeline, log)
	ruleService := appautomation.NewRuleService(ruleRepo, log)
	historyService := appautomation.NewHistoryService(executionRepo, log)
	scanService := appautomation.NewScanService(
		rfqRepo, orderRepo, listingRepo, disputeRepo, executionRepo, triggers, pipeline,
		appautomation.ScanConfig{
			SLAWarningHours:    cfg.Automation.SLAWarningHours,
			LowStockThreshold:  cfg.Automation.LowStockThreshold,
			UnreadRFQAfter:     cfg.Automation.UnreadRFQAfter,
			SlowMovingAfter:    cfg.Automation.SlowMovingAfter,
			StaleDisputeAfter:  cfg.Automation.StaleDisputeAfter,
			ExecutionRetention: cfg.Automation.ExecutionRetention,
		}, log)

	// Scheduler
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	automationScheduler := scheduler.NewAutomationScheduler(
		scheduler.AutomationSchedulerConfig{
			ScanInterval: cfg.Automation.ScanInterval,
			PurgeHour:    scheduler.DefaultAutomationSchedulerConfig().PurgeHour,
		}, scanService, log)
	if cfg.Automation.SchedulerEnabled {
		if err := automationScheduler.Start(schedulerCtx); err != nil {
			log.Fatal("Failed to start automation scheduler", zap.Error(err))
		}
	} else {
		log.Info("Automation scheduler disabled by configuration")
	}

	// HTTP server
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig()))

	engine.GET("/health", healthHandler(db))

	jwtService := auth.NewJWTService(cfg.JWT)
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddleware(jwtService))
	r.Register(handler.NewAutomationHandler(ruleService, historyService, pipeline))
	r.Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.Automation.SchedulerEnabled {
		if err := automationScheduler.Stop(ctx); err != nil {
			log.Error("Scheduler did not stop cleanly", zap.Error(err))
		}
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports process and database health
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
