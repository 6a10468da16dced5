package main

import (
	"fmt"
	"net/http"
	"os"

	"tradepilot/internal/brokerage"
	"tradepilot/internal/config"
	"tradepilot/internal/database"
	"tradepilot/internal/handlers"
	"tradepilot/internal/logger"
	"tradepilot/internal/middleware"
	"tradepilot/internal/services"
	"tradepilot/internal/stream"
	"tradepilot/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "tradepilot/internal/docs" // Import swagger docs
)

// @title           TradePilot API
// @version         1.0
// @description     TradePilot is a trading dashboard backend that syncs brokerage holdings, manages automated trading strategies, and streams trade logs.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API key issued to the external trading backend.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Create database manager
	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Redis backs the live trade-log stream
	redisClient := redis.NewClient(&redis.Options{
		Addr:     appConfig.RedisAddr,
		Password: appConfig.RedisPassword,
		DB:       appConfig.RedisDB,
	})
	notifier := stream.NewRedisNotifier(redisClient)

	// Brokerage adapters share one HTTP client
	adapters := brokerage.NewFactory(&http.Client{Timeout: appConfig.BrokerageTimeout})

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	settingsService := services.NewSettingsService(db)
	holdingsService := services.NewHoldingsService(db, settingsService, adapters)
	strategyService := services.NewStrategyService(db)
	tradeLogService := services.NewTradeLogService(db, notifier)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	holdingsHandler := handlers.NewHoldingsHandler(holdingsService)
	strategyHandler := handlers.NewStrategyHandler(strategyService)
	tradeLogHandler := handlers.NewTradeLogHandler(tradeLogService, notifier)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Settings routes
	protected.GET("/settings", settingsHandler.GetSettings)
	protected.PUT("/settings", settingsHandler.UpdateSettings)

	// Holdings and portfolio routes
	protected.GET("/holdings", holdingsHandler.GetHoldings)
	protected.POST("/holdings/sync", holdingsHandler.SyncHoldings)
	protected.GET("/portfolio/summary", holdingsHandler.GetPortfolioSummary)

	// Strategy routes
	strategies := protected.Group("/strategies")
	strategies.POST("", strategyHandler.CreateStrategy)
	strategies.GET("", strategyHandler.GetStrategies)
	strategies.POST("/emergency-stop", strategyHandler.EmergencyStop)
	strategies.PUT("/:id", strategyHandler.UpdateStrategy)
	strategies.POST("/:id/toggle", strategyHandler.ToggleStrategy)

	// Trade-log routes
	protected.GET("/logs", tradeLogHandler.GetLogs)
	protected.GET("/logs/stream", tradeLogHandler.StreamLogs)

	// Pipeline routes for the external trading backend
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(appConfig.PipelineAPIKey))
	pipeline.POST("/logs", tradeLogHandler.IngestLog)
	pipeline.PUT("/strategies/:id/status", strategyHandler.SetStatus)

	log.Infof("Starting TradePilot backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
