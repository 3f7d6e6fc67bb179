package app

import (
	"context"
	"fmt"

	"jobboard_backend/database"
	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/config"
	"jobboard_backend/internal/gateway"
	"jobboard_backend/internal/handlers"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/routes"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/validator"
	"jobboard_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	gw := gateway.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.Timeout)

	ginRouter, worker := SetupRouter(cfg, gormDB, gw)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the full application graph. The gateway comes in as a
// parameter so tests inject a stub instead of a live processor.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, gw gateway.PaymentGateway) (*gin.Engine, *workers.ReconciliationWorker) {
	userRepo := repositories.NewUserRepository(gormDB)
	jobRepo := repositories.NewJobRepository(gormDB)
	applicationRepo := repositories.NewApplicationRepository(gormDB)
	paymentRepo := repositories.NewPaymentRepository(gormDB)

	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)

	serviceContainer := services.NewServiceContainer(
		userRepo,
		jobRepo,
		applicationRepo,
		paymentRepo,
		gw,
		tokens,
		cfg.Payments,
	)

	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)
	appHandlers := handlers.NewAppHandlers(baseHandler, serviceContainer, middleware.AuthMiddleware(tokens))

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers)

	worker := workers.NewReconciliationWorker(paymentRepo, userRepo, gw)

	return ginRouter, worker
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORS.Origin))
	return router
}
