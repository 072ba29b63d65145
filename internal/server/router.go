// Package server wires services, handlers and middleware into the HTTP router.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"pocketplan/internal/config"
	_ "pocketplan/internal/docs" // swagger docs
	"pocketplan/internal/handlers"
	"pocketplan/internal/insights"
	"pocketplan/internal/logger"
	"pocketplan/internal/middleware"
	"pocketplan/internal/services"
	"pocketplan/internal/validator"
)

// NewRouter builds the API router over db.
func NewRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	validator.Register()

	// Services
	userService := services.NewUserService(db)
	transactionService := services.NewTransactionService(db)
	budgetService := services.NewBudgetService(db)
	analyticsService := services.NewAnalyticsService(transactionService, budgetService)
	insightService := services.NewInsightService(transactionService, insights.NewEngine(nil), cfg.Location)
	benefitService := services.NewBenefitService(db)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService, cfg.Location)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, cfg.Location)
	insightHandler := handlers.NewInsightHandler(insightService)
	benefitHandler := handlers.NewBenefitHandler(benefitService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORSOrigin))
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			logger.Get().Warnw("health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	v1.GET("/benefits", benefitHandler.ListBenefits)

	// Pipeline routes (API key)
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(cfg.PipelineAPIKey))
	pipeline.PUT("/benefits", benefitHandler.UpsertBenefits)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	budgets := protected.Group("/budgets")
	budgets.PUT("", budgetHandler.SetBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	analytics := protected.Group("/analytics")
	analytics.GET("/breakdown", analyticsHandler.GetBreakdown)
	analytics.GET("/utilization", analyticsHandler.GetUtilization)
	analytics.GET("/summary", analyticsHandler.GetSummary)
	analytics.GET("/daily", analyticsHandler.GetDailyTrend)
	analytics.GET("/monthly", analyticsHandler.GetMonthlyTrend)
	analytics.GET("/dashboard", analyticsHandler.GetDashboard)

	protected.GET("/insights", insightHandler.GetInsights)
	protected.POST("/benefits/check-eligibility", benefitHandler.CheckEligibility)

	return router
}
